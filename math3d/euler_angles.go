package math3d

import (
	"fmt"
	"math"

	"github.com/adammck/legged/utils"
)

// EulerAngles are ZYX angles in radians: yaw around Z, then pitch around the
// new Y, then roll around the new X.
type EulerAngles struct {
	Roll  float64 // x
	Pitch float64 // y
	Yaw   float64 // z
}

type rotation int

const (
	RotationRoll rotation = iota
	RotationPitch
	RotationYaw
)

var (
	IdentityOrientation = EulerAngles{}
)

// MakeSingularEulerAngle returns angles with a single non-zero component, given
// in degrees.
func MakeSingularEulerAngle(rot rotation, angle float64) EulerAngles {
	ea := EulerAngles{}

	switch rot {
	case RotationRoll:
		ea.Roll = utils.Rad(angle)

	case RotationPitch:
		ea.Pitch = utils.Rad(angle)

	case RotationYaw:
		ea.Yaw = utils.Rad(angle)

	default:
		panic("invalid rotation")
	}

	return ea
}

// Rotation converts the angles to a quaternion rotation.
func (ea EulerAngles) Rotation() Rotation {
	cy, sy := math.Cos(ea.Yaw/2), math.Sin(ea.Yaw/2)
	cp, sp := math.Cos(ea.Pitch/2), math.Sin(ea.Pitch/2)
	cr, sr := math.Cos(ea.Roll/2), math.Sin(ea.Roll/2)

	return MakeRotation(
		cr*cp*cy+sr*sp*sy,
		sr*cp*cy-cr*sp*sy,
		cr*sp*cy+sr*cp*sy,
		cr*cp*sy-sr*sp*cy,
	)
}

func (ea EulerAngles) String() string {
	return fmt.Sprintf("&Euler{r=%+.2f° p=%+.2f° y=%+.2f°}", utils.Deg(ea.Roll), utils.Deg(ea.Pitch), utils.Deg(ea.Yaw))
}
