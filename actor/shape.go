package actor

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// ShapeType represents the type of collision shape
type ShapeType int

const (
	ShapeTypeSphere ShapeType = iota
	ShapeTypeBox
	ShapeTypeConvexMesh
)

func (t ShapeType) String() string {
	switch t {
	case ShapeTypeSphere:
		return "sphere"
	case ShapeTypeBox:
		return "box"
	case ShapeTypeConvexMesh:
		return "convex_mesh"
	}
	return "unknown"
}

// ShapeInterface is the interface that all collision shapes must implement.
// Shapes are immutable once built and may be shared between collision objects.
type ShapeInterface interface {
	Type() ShapeType
	// ComputeAABB calculates the axis-aligned bounding box for the shape
	// at the given transform
	ComputeAABB(transform Transform) AABB
	// Support returns the furthest point of the shape along direction, in local space
	Support(direction mgl64.Vec3) mgl64.Vec3
}

// Box represents an oriented box collision shape
// The box is defined by its half-extents (half-width, half-height, half-depth)
type Box struct {
	HalfExtents mgl64.Vec3
}

// NewBox creates a box from its full dimensions
func NewBox(x, y, z float64) *Box {
	return &Box{HalfExtents: mgl64.Vec3{x / 2, y / 2, z / 2}}
}

func (b *Box) Type() ShapeType {
	return ShapeTypeBox
}

func (b *Box) ComputeAABB(transform Transform) AABB {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()
	corners := [8]mgl64.Vec3{
		{-hx, -hy, -hz},
		{+hx, -hy, -hz},
		{-hx, +hy, -hz},
		{+hx, +hy, -hz},
		{-hx, -hy, +hz},
		{+hx, -hy, +hz},
		{-hx, +hy, +hz},
		{+hx, +hy, +hz},
	}

	return boundPoints(corners[:], transform)
}

func (b *Box) Support(direction mgl64.Vec3) mgl64.Vec3 {
	hx, hy, hz := b.HalfExtents.X(), b.HalfExtents.Y(), b.HalfExtents.Z()

	if direction.X() < 0 {
		hx = -hx
	}
	if direction.Y() < 0 {
		hy = -hy
	}
	if direction.Z() < 0 {
		hz = -hz
	}

	return mgl64.Vec3{hx, hy, hz}
}

// Sphere represents a spherical collision shape
type Sphere struct {
	Radius float64
}

func (s *Sphere) Type() ShapeType {
	return ShapeTypeSphere
}

// ComputeAABB calculates the axis-aligned bounding box for the sphere
func (s *Sphere) ComputeAABB(transform Transform) AABB {
	// Sphere AABB is not affected by rotation, only by position
	radiusVec := mgl64.Vec3{s.Radius, s.Radius, s.Radius}

	return AABB{
		Min: transform.Position.Sub(radiusVec),
		Max: transform.Position.Add(radiusVec),
	}
}

func (s *Sphere) Support(direction mgl64.Vec3) mgl64.Vec3 {
	l := direction.Len()
	if l < 1e-12 {
		return mgl64.Vec3{s.Radius, 0, 0}
	}
	return direction.Mul(s.Radius / l)
}

// ConvexMesh is a convex shape given by a cloud of vertices.
// The support of a point cloud is the support of its convex hull,
// so interior vertices are harmless and no hull has to be built.
type ConvexMesh struct {
	Vertices []mgl64.Vec3
}

func NewConvexMesh(vertices []mgl64.Vec3) *ConvexMesh {
	v := make([]mgl64.Vec3, len(vertices))
	copy(v, vertices)
	return &ConvexMesh{Vertices: v}
}

func (m *ConvexMesh) Type() ShapeType {
	return ShapeTypeConvexMesh
}

func (m *ConvexMesh) ComputeAABB(transform Transform) AABB {
	return boundPoints(m.Vertices, transform)
}

func (m *ConvexMesh) Support(direction mgl64.Vec3) mgl64.Vec3 {
	if len(m.Vertices) == 0 {
		return mgl64.Vec3{}
	}

	best := m.Vertices[0]
	bestDot := best.Dot(direction)
	for _, v := range m.Vertices[1:] {
		if d := v.Dot(direction); d > bestDot {
			best, bestDot = v, d
		}
	}

	return best
}

// boundPoints transforms local points and returns their world bounding box
func boundPoints(points []mgl64.Vec3, transform Transform) AABB {
	if len(points) == 0 {
		return AABB{Min: transform.Position, Max: transform.Position}
	}

	worldPoint := transform.Apply(points[0])
	min := worldPoint
	max := worldPoint

	for _, p := range points[1:] {
		worldPoint = transform.Apply(p)

		min[0] = math.Min(min[0], worldPoint[0])
		min[1] = math.Min(min[1], worldPoint[1])
		min[2] = math.Min(min[2], worldPoint[2])

		max[0] = math.Max(max[0], worldPoint[0])
		max[1] = math.Max(max[1], worldPoint[1])
		max[2] = math.Max(max[2], worldPoint[2])
	}

	return AABB{Min: min, Max: max}
}
