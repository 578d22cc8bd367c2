package legs

import (
	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "legs",
})

// Type identifies the kind of a leg motion. Only Footstep is implemented here,
// but planners may carry the others through.
type Type string

const (
	TypeFootstep              Type = "footstep"
	TypeEndEffectorTarget     Type = "end_effector_target"
	TypeEndEffectorTrajectory Type = "end_effector_trajectory"
	TypeJointTrajectory       Type = "joint_trajectory"
	TypeLegMode               Type = "leg_mode"
)

type ControlLevel int

const (
	Position ControlLevel = iota
	Velocity
	Acceleration
	Effort
)

func (cl ControlLevel) String() string {
	switch cl {
	case Position:
		return "position"
	case Velocity:
		return "velocity"
	case Acceleration:
		return "acceleration"
	case Effort:
		return "effort"
	}

	return "unknown"
}

// ControlSetup says which control levels a motion provides setpoints for.
type ControlSetup map[ControlLevel]bool

// LegMotion is a motion of a single limb, which may need to be computed (from
// the robot state) before it can be evaluated.
type LegMotion interface {
	Type() Type
	Limb() legged.Limb
	ControlSetup() ControlSetup

	// FrameID returns the frame in which the setpoints of the given control
	// level are expressed.
	FrameID(level ControlLevel) (string, error)

	PrepareComputation(state *legged.State, a adapter.Adapter) error
	NeedsComputation() bool
	IsComputed() bool
	Duration() float64

	// Clone returns an independent copy, which can be computed and evaluated
	// without affecting the original.
	Clone() LegMotion
}
