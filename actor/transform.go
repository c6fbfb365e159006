package actor

import "github.com/go-gl/mathgl/mgl64"

// Transform represents a pose in 3D space
type Transform struct {
	Position        mgl64.Vec3
	Rotation        mgl64.Quat
	InverseRotation mgl64.Quat
}

// NewTransform creates an identity transform
func NewTransform() Transform {
	return Transform{
		Position:        mgl64.Vec3{0, 0, 0},
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}
}

func NewTransformFromPosition(position mgl64.Vec3) Transform {
	t := NewTransform()
	t.Position = position
	return t
}

func NewTransformFromPose(position mgl64.Vec3, rotation mgl64.Quat) Transform {
	rotation = rotation.Normalize()
	return Transform{
		Position:        position,
		Rotation:        rotation,
		InverseRotation: rotation.Inverse(),
	}
}

// Mul composes t with a child pose expressed in t's frame (t * child)
func (t Transform) Mul(child Transform) Transform {
	return NewTransformFromPose(
		t.Apply(child.Position),
		t.Rotation.Mul(child.Rotation),
	)
}

// Apply maps a point from local to world space
func (t Transform) Apply(point mgl64.Vec3) mgl64.Vec3 {
	return t.Rotation.Rotate(point).Add(t.Position)
}
