package collision

import (
	"github.com/akmonengine/collision/actor"
	"github.com/akmonengine/collision/epa"
	"github.com/akmonengine/collision/filter"
	"github.com/akmonengine/collision/gjk"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/sirupsen/logrus"
)

// TrackedPair is a pair accepted by the filter, ready for the narrowphase.
// A is the object named Links.First.
type TrackedPair struct {
	ID    filter.PairID
	Links LinkPair
	A, B  *actor.CollisionObject
	Flags filter.PairFlags
}

// ShapeContact is the measured relation between two shapes.
// Distance is negative when the shapes penetrate.
type ShapeContact struct {
	Distance float64
	PointA   mgl64.Vec3
	PointB   mgl64.Vec3
	Normal   mgl64.Vec3 // from A toward B
}

type shapePair struct {
	index          int
	pair           *TrackedPair
	shapeA, shapeB *actor.ShapeInstance
}

type narrowResult struct {
	result ContactResult
	ok     bool
}

// NarrowPhase measures every shape pair of the tracked pairs and keeps those within threshold.
// Results follow the order of pairs, then of shapes, whatever the number of workers.
func NarrowPhase(pairs []TrackedPair, threshold float64, workersCount int) []ContactResult {
	jobs := make([]shapePair, 0, len(pairs))
	for i := range pairs {
		p := &pairs[i]
		if !p.Flags.Has(filter.PairDetectDiscreteContact) {
			continue
		}
		for _, sa := range p.A.Shapes {
			for _, sb := range p.B.Shapes {
				jobs = append(jobs, shapePair{index: len(jobs), pair: p, shapeA: sa, shapeB: sb})
			}
		}
	}

	// each job writes its own slot
	results := make([]narrowResult, len(jobs))
	task(workersCount, jobs, func(job shapePair) {
		contact, ok, err := Measure(job.shapeA, job.shapeB, threshold)
		if err != nil {
			logrus.WithFields(logrus.Fields{
				"link_a": job.pair.Links.First,
				"link_b": job.pair.Links.Second,
			}).Debugf("pair skipped: %v", err)
			return
		}
		if !ok {
			return
		}

		results[job.index] = narrowResult{
			ok: true,
			result: ContactResult{
				LinkNames:     [2]string{job.pair.A.Name(), job.pair.B.Name()},
				ShapeIDs:      [2]int{job.shapeA.Index, job.shapeB.Index},
				TypeIDs:       [2]int{job.pair.A.MaskID, job.pair.B.MaskID},
				Distance:      contact.Distance,
				NearestPoints: [2]mgl64.Vec3{contact.PointA, contact.PointB},
				Normal:        contact.Normal,
			},
		}
	})

	contacts := make([]ContactResult, 0, len(results))
	for _, r := range results {
		if r.ok {
			contacts = append(contacts, r.result)
		}
	}
	return contacts
}

// Measure computes the distance or penetration of two colliders. ok is false when they are
// farther apart than threshold. An error means EPA could not resolve the overlap.
func Measure(a, b actor.Collider, threshold float64) (ShapeContact, bool, error) {
	cp := gjk.Distance(a, b)
	if !cp.Intersecting {
		if cp.Distance > threshold {
			return ShapeContact{}, false, nil
		}
		return ShapeContact{
			Distance: cp.Distance,
			PointA:   cp.PointA,
			PointB:   cp.PointB,
			Normal:   direction(cp.PointB.Sub(cp.PointA), b.Center().Sub(a.Center())),
		}, true, nil
	}

	simplex := gjk.SimplexPool.Get().(*gjk.Simplex)
	defer gjk.SimplexPool.Put(simplex)
	simplex.Reset()

	if !gjk.GJK(a, b, simplex) {
		// touching: the two searches disagree at the boundary
		return ShapeContact{
			PointA: cp.PointA,
			PointB: cp.PointB,
			Normal: direction(b.Center().Sub(a.Center()), mgl64.Vec3{}),
		}, true, nil
	}

	contact, err := epa.Penetrate(a, b, simplex)
	if err != nil {
		return ShapeContact{}, false, err
	}

	return ShapeContact{
		Distance: -contact.Depth,
		PointA:   contact.PointA,
		PointB:   contact.PointB,
		Normal:   contact.Normal,
	}, true, nil
}

// direction normalizes v, falling back to fallback and then to +X for zero vectors.
func direction(v, fallback mgl64.Vec3) mgl64.Vec3 {
	if l := v.Len(); l > 1e-12 {
		return v.Mul(1.0 / l)
	}
	if l := fallback.Len(); l > 1e-12 {
		return fallback.Mul(1.0 / l)
	}
	return mgl64.Vec3{1, 0, 0}
}
