// Package epa implements the Expanding Polytope Algorithm for computing penetration depth.
//
// EPA is run after GJK detects an overlap. It expands a polytope, starting from GJK's final
// simplex, toward the boundary of the Minkowski difference closest to the origin. That face
// gives the minimum translation separating the shapes: its normal and its distance.
//
// References:
//   - Van den Bergen: "Proximity Queries and Penetration Depth Computation on 3D Game Objects" (2001)
package epa

import (
	"fmt"
	"math"

	"github.com/akmonengine/collision/actor"
	"github.com/akmonengine/collision/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// EPAMaxIterations limits polytope expansion to prevent infinite loops.
	// Typical convergence: 5-15 iterations for simple shapes.
	EPAMaxIterations = 32

	// EPAConvergenceTolerance defines when EPA has converged: a new support point that
	// improves the face distance by less than this is not worth expanding for.
	EPAConvergenceTolerance = 0.001

	// EPAMinFaceDistance is the minimum face distance before we skip it.
	// Faces very close to or behind the origin are likely degenerate.
	EPAMinFaceDistance = 0.0001

	// NormalSnapThreshold clamps nearly-zero normal components to exactly zero.
	NormalSnapThreshold = 1e-8

	// DegeneratePenetrationEstimate is the depth reported when the simplex is a single point.
	DegeneratePenetrationEstimate = 0.01

	polytopeInitialCapacity = 4
)

// Penetration is the minimum translation separating two overlapping shapes.
// Moving B by Normal*Depth brings the shapes into touching contact.
type Penetration struct {
	Normal mgl64.Vec3 // from A toward B, unit length
	Depth  float64
}

// EPA computes the penetration of two overlapping colliders from the GJK simplex.
// It returns an error when the expansion does not converge.
func EPA(a, b actor.Collider, simplex *gjk.Simplex) (Penetration, error) {
	if simplex.Count < 4 {
		return handleDegenerateSimplex(a, b, simplex), nil
	}

	builder := polytopeBuilderPool.Get().(*PolytopeBuilder)
	defer polytopeBuilderPool.Put(builder)
	builder.Reset()

	if err := builder.BuildInitialFaces(simplex); err != nil {
		return Penetration{}, err
	}

	for i := 0; i < EPAMaxIterations; i++ {
		if len(builder.faces) == 0 {
			break
		}

		closestIndex := builder.FindClosestFaceIndex()
		closest := builder.faces[closestIndex]

		if closest.Distance < EPAMinFaceDistance {
			builder.removeFace(closestIndex)
			continue
		}

		support := gjk.MinkowskiSupport(a, b, closest.Normal)
		if support.Dot(closest.Normal)-closest.Distance < EPAConvergenceTolerance {
			return Penetration{Normal: closest.Normal, Depth: closest.Distance}, nil
		}

		builder.AddPointAndRebuildFaces(support, closestIndex)
	}

	return Penetration{}, fmt.Errorf("EPA failed to converge after %d iterations", EPAMaxIterations)
}

// handleDegenerateSimplex estimates a penetration when GJK stopped before building a tetrahedron.
// With two or more points, the one closest to the origin is used. A single point falls back
// to the direction between the collider centers.
func handleDegenerateSimplex(a, b actor.Collider, simplex *gjk.Simplex) Penetration {
	if simplex.Count >= 2 {
		p := simplex.Points[0]
		if q := simplex.Points[1]; q.Len() < p.Len() {
			p = q
		}

		if depth := p.Len(); depth > NormalSnapThreshold {
			return Penetration{Normal: p.Mul(1.0 / depth), Depth: depth}
		}
	}

	normal := b.Center().Sub(a.Center())
	if l := normal.Len(); l < NormalSnapThreshold {
		normal = mgl64.Vec3{0, 1, 0}
	} else {
		normal = normal.Mul(1.0 / l)
	}

	return Penetration{Normal: normal, Depth: DegeneratePenetrationEstimate}
}

// snapNormalToAxis clamps nearly-zero components of a normal to exactly zero and
// renormalizes, so axis-aligned contacts report axis-aligned normals.
func snapNormalToAxis(normal mgl64.Vec3) mgl64.Vec3 {
	for i := range normal {
		if math.Abs(normal[i]) < NormalSnapThreshold {
			normal[i] = 0
		}
	}

	length := normal.Len()
	if length <= 1e-8 {
		return mgl64.Vec3{0, 1, 0}
	}

	return normal.Mul(1.0 / length)
}
