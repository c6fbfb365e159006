package epa

import (
	"github.com/akmonengine/collision/actor"
	"github.com/akmonengine/collision/gjk"
	"github.com/go-gl/mathgl/mgl64"
)

// WitnessMargin is the gap left between the shapes when they are pulled apart to find
// the deepest points.
const WitnessMargin = 0.01

// Contact describes an overlap: the deepest point of each shape inside the other,
// the normal from A toward B and the penetration depth.
type Contact struct {
	PointA mgl64.Vec3
	PointB mgl64.Vec3
	Normal mgl64.Vec3
	Depth  float64
}

// translated moves a collider without touching its instance.
type translated struct {
	actor.Collider
	offset mgl64.Vec3
}

func (t translated) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	return t.Collider.SupportWorld(direction).Add(t.offset)
}

func (t translated) Center() mgl64.Vec3 {
	return t.Collider.Center().Add(t.offset)
}

// Witness computes the points realizing a penetration.
// B is separated along the normal by the depth plus a margin, then the closest points of the
// separated pair are mapped back. For the flat regions of box contacts this is exact; the depth
// is refined from the measured gap. If the shapes still overlap after the translation, the
// support points along the normal are used.
func Witness(a, b actor.Collider, p Penetration) Contact {
	shift := p.Depth + WitnessMargin
	offset := p.Normal.Mul(shift)

	cp := gjk.Distance(a, translated{Collider: b, offset: offset})
	if cp.Intersecting || cp.Distance > shift {
		pa := a.SupportWorld(p.Normal)
		return Contact{
			PointA: pa,
			PointB: pa.Sub(p.Normal.Mul(p.Depth)),
			Normal: p.Normal,
			Depth:  p.Depth,
		}
	}

	normal := p.Normal
	if gap := cp.PointB.Sub(cp.PointA); cp.Distance > gjk.DistanceAbsoluteTolerance {
		normal = gap.Mul(1.0 / cp.Distance)
	}

	return Contact{
		PointA: cp.PointA,
		PointB: cp.PointB.Sub(offset),
		Normal: normal,
		Depth:  shift - cp.Distance,
	}
}

// Penetrate runs EPA on the GJK simplex and resolves the witness points.
func Penetrate(a, b actor.Collider, simplex *gjk.Simplex) (Contact, error) {
	p, err := EPA(a, b, simplex)
	if err != nil {
		return Contact{}, err
	}
	return Witness(a, b, p), nil
}
