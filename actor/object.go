package actor

import (
	"github.com/akmonengine/collision/filter"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
)

// Collider is the convex query surface used by GJK and EPA
type Collider interface {
	// SupportWorld returns the furthest world point along direction
	SupportWorld(direction mgl64.Vec3) mgl64.Vec3
	// Center is any world point inside the shape
	Center() mgl64.Vec3
}

// ShapeInstance places a shape in a collision object, with a pose relative to the object
type ShapeInstance struct {
	Shape ShapeInterface
	Index int
	Local Transform
	World Transform
	aabb  AABB
}

var _ Collider = (*ShapeInstance)(nil)

func (s *ShapeInstance) SupportWorld(direction mgl64.Vec3) mgl64.Vec3 {
	// 1. Direction in local space (inverse rotation)
	localDirection := s.World.InverseRotation.Rotate(direction)

	// 2. Support in local space
	localSupport := s.Shape.Support(localDirection)

	// 3. Back to world space (rotation + translation)
	return s.World.Apply(localSupport)
}

func (s *ShapeInstance) Center() mgl64.Vec3 {
	return s.World.Position
}

func (s *ShapeInstance) GetAABB() AABB {
	return s.aabb
}

func (s *ShapeInstance) update(object Transform) {
	s.World = object.Mul(s.Local)
	s.aabb = s.Shape.ComputeAABB(s.World)
}

// CollisionObject is a named link made of one or more shapes
type CollisionObject struct {
	name    string
	MaskID  int
	Enabled bool

	Transform Transform
	Shapes    []*ShapeInstance

	Attributes filter.ObjectAttributes
	FilterData filter.Data

	aabb AABB
}

var _ filter.Entity = (*CollisionObject)(nil)

// NewCollisionObject places shapes at their poses relative to the object origin.
// The object starts enabled, static, at the identity transform.
func NewCollisionObject(name string, maskID int, shapes []ShapeInterface, poses []Transform) (*CollisionObject, error) {
	if name == "" {
		return nil, errors.Errorf("collision object name is empty")
	}
	if len(shapes) == 0 {
		return nil, errors.Errorf("collision object %q has no shapes", name)
	}
	if len(shapes) != len(poses) {
		return nil, errors.Errorf("collision object %q has %d shapes but %d poses", name, len(shapes), len(poses))
	}

	o := &CollisionObject{
		name:       name,
		MaskID:     maskID,
		Enabled:    true,
		Attributes: filter.AttributeStatic,
		FilterData: filter.NewData(filter.GroupStatic, filter.MaskOf(filter.GroupKinematic)),
	}
	for i, shape := range shapes {
		if shape == nil {
			return nil, errors.Errorf("collision object %q has a nil shape at index %d", name, i)
		}
		o.Shapes = append(o.Shapes, &ShapeInstance{
			Shape: shape,
			Index: i,
			Local: NewTransformFromPose(poses[i].Position, normalizedRotation(poses[i].Rotation)),
		})
	}
	o.SetTransform(NewTransform())

	return o, nil
}

func (o *CollisionObject) Name() string {
	return o.name
}

// SetTransform moves the object and refreshes the world pose and bounds of every shape
func (o *CollisionObject) SetTransform(transform Transform) {
	o.Transform = NewTransformFromPose(transform.Position, normalizedRotation(transform.Rotation))

	for i, s := range o.Shapes {
		s.update(o.Transform)
		if i == 0 {
			o.aabb = s.GetAABB()
		} else {
			o.aabb = o.aabb.Union(s.GetAABB())
		}
	}
}

// GetAABB is the union of the bounds of all shapes
func (o *CollisionObject) GetAABB() AABB {
	return o.aabb
}

// Clone copies the object. Shapes are immutable and shared.
func (o *CollisionObject) Clone() *CollisionObject {
	c := *o
	c.Shapes = make([]*ShapeInstance, len(o.Shapes))
	for i, s := range o.Shapes {
		instance := *s
		c.Shapes[i] = &instance
	}
	return &c
}

// normalizedRotation treats a zero quaternion as the identity
func normalizedRotation(q mgl64.Quat) mgl64.Quat {
	if q.W == 0 && q.V.LenSqr() == 0 {
		return mgl64.QuatIdent()
	}
	return q.Normalize()
}
