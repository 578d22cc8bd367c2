package legged

import (
	"fmt"

	"github.com/adammck/legged/math3d"
)

// State is a snapshot of the robot at one instant. It's written by the control
// loop and read (never modified) by the motion components.
type State struct {

	// Pose of the base in the world frame: the position of the base origin in
	// world coordinates, and the rotation from base to world.
	BasePose math3d.Pose

	// Joint names and positions, in matching order. Only the publisher looks at
	// these.
	JointNames     []string
	JointPositions []float64

	// Last known foot positions, in the world frame.
	Feet Stance

	support map[Limb]bool
}

// NewState returns a state at the world origin, with every limb on the ground.
func NewState() *State {
	s := &State{
		BasePose: math3d.IdentityPose,
		Feet:     Stance{},
		support:  map[Limb]bool{},
	}

	for _, l := range Limbs() {
		s.support[l] = true
	}

	return s
}

// IsSupportLeg returns true if the limb is currently in contact and bearing
// load.
func (s *State) IsSupportLeg(l Limb) bool {
	return s.support[l]
}

func (s *State) SetSupportLeg(l Limb, support bool) {
	if s.support == nil {
		s.support = map[Limb]bool{}
	}

	s.support[l] = support
}

// SupportLegs returns the limbs which are currently support legs, in order.
func (s *State) SupportLegs() []Limb {
	limbs := []Limb{}
	for _, l := range Limbs() {
		if s.support[l] {
			limbs = append(limbs, l)
		}
	}

	return limbs
}

// PositionWorldToBaseInWorldFrame returns the base origin in the world frame.
func (s *State) PositionWorldToBaseInWorldFrame() math3d.Vector3 {
	return s.BasePose.Position
}

// OrientationBaseToWorld returns the rotation from the base to the world frame.
func (s *State) OrientationBaseToWorld() math3d.Rotation {
	return s.BasePose.Rotation
}

// Joints returns a map of joint name to position, or an error if the names and
// positions don't line up.
func (s *State) Joints() (map[string]float64, error) {
	if len(s.JointNames) != len(s.JointPositions) {
		return nil, fmt.Errorf("joint names (%d) and positions (%d) are not of equal size", len(s.JointNames), len(s.JointPositions))
	}

	m := make(map[string]float64, len(s.JointNames))
	for i, n := range s.JointNames {
		m[n] = s.JointPositions[i]
	}

	return m, nil
}
