package math3d

import (
	"fmt"
)

// Pose is a rigid transform. As a frame transform, it maps a point expressed
// in the child frame into the parent frame: Position is the child origin in
// the parent, Rotation rotates child axes into parent axes.
type Pose struct {
	Position Vector3
	Rotation Rotation
}

var (
	IdentityPose = Pose{ZeroVector3, IdentityRotation}
)

func MakePose(position Vector3, rotation Rotation) Pose {
	return Pose{position, rotation}
}

func (p Pose) String() string {
	ea := p.Rotation.EulerAngles()
	return fmt.Sprintf("Pose{x=%+07.3f y=%+07.3f z=%+07.3f, %s}", p.Position.X, p.Position.Y, p.Position.Z, ea)
}

// Transform maps v from the child frame into the parent frame.
func (p Pose) Transform(v Vector3) Vector3 {
	return p.Position.Add(p.Rotation.Rotate(v))
}

// InverseTransform maps v from the parent frame into the child frame.
func (p Pose) InverseTransform(v Vector3) Vector3 {
	return p.Rotation.InverseRotate(v.Subtract(p.Position))
}

// Add composes two poses: pp is expressed relative to p, and the result is
// relative to p's parent.
func (p Pose) Add(pp Pose) Pose {
	return Pose{
		Position: p.Transform(pp.Position),
		Rotation: p.Rotation.Multiply(pp.Rotation),
	}
}

// Inverted returns the transform from the parent frame into the child frame.
func (p Pose) Inverted() Pose {
	r := p.Rotation.Inverted()
	return Pose{
		Position: r.Rotate(p.Position).MultiplyByScalar(-1),
		Rotation: r,
	}
}
