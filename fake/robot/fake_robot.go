package robot

import (
	"github.com/pkg/errors"

	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/math3d"
)

// FakeRobot is an adapter.Robot with fixed transforms, for tests.
type FakeRobot struct {
	World      string
	Base       math3d.Pose
	Transforms map[string]math3d.Pose
}

func New(world string, base math3d.Pose) *FakeRobot {
	return &FakeRobot{
		World:      world,
		Base:       base,
		Transforms: map[string]math3d.Pose{},
	}
}

func (r *FakeRobot) WorldFrameID() string {
	return r.World
}

func (r *FakeRobot) BasePoseInWorld() math3d.Pose {
	return r.Base
}

func (r *FakeRobot) FrameTransform(frameID string) (math3d.Pose, error) {
	p, ok := r.Transforms[frameID]
	if !ok {
		return math3d.IdentityPose, errors.Wrap(adapter.ErrTransformUnavailable, frameID)
	}

	return p, nil
}
