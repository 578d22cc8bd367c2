package adapter

import (
	"sync"

	"github.com/pkg/errors"

	"github.com/adammck/legged"
	"github.com/adammck/legged/math3d"
)

// StateRobot is a Robot backed by the live robot state, plus a table of map
// transforms which is fed by localization as estimates arrive.
type StateRobot struct {
	state        *legged.State
	worldFrameID string

	mu         sync.RWMutex
	transforms map[string]math3d.Pose
}

var _ Robot = (*StateRobot)(nil)

func NewStateRobot(worldFrameID string, state *legged.State) *StateRobot {
	return &StateRobot{
		state:        state,
		worldFrameID: worldFrameID,
		transforms:   map[string]math3d.Pose{},
	}
}

func (r *StateRobot) WorldFrameID() string {
	return r.worldFrameID
}

func (r *StateRobot) BasePoseInWorld() math3d.Pose {
	return r.state.BasePose
}

// SetFrameTransform records the latest estimate of the pose of a map frame in
// the world frame.
func (r *StateRobot) SetFrameTransform(frameID string, pose math3d.Pose) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.transforms[frameID] = pose
}

// ClearFrameTransform forgets the estimate for a map frame, e.g. when
// localization is lost.
func (r *StateRobot) ClearFrameTransform(frameID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.transforms, frameID)
}

func (r *StateRobot) FrameTransform(frameID string) (math3d.Pose, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.transforms[frameID]
	if !ok {
		return math3d.IdentityPose, errors.Wrapf(ErrTransformUnavailable, "no estimate for %q", frameID)
	}

	return p, nil
}
