package legs

import (
	"github.com/pkg/errors"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
)

// AdaptationStance returns the stance which the body pose should be adapted
// to, in the world frame: the given stance, with each footstep's target in
// place of the current foot position. Footsteps flagged to be ignored for pose
// adaptation leave their foot where it is. Other kinds of motion are skipped.
func AdaptationStance(a adapter.Adapter, current legged.Stance, motions ...LegMotion) (legged.Stance, error) {
	out := current.Copy()
	world := a.WorldFrameID()

	for _, m := range motions {
		f, ok := m.(*Footstep)
		if !ok || f.IsIgnoreForPoseAdaptation() {
			continue
		}

		frameID, err := f.FrameID(Position)
		if err != nil {
			return nil, err
		}

		target, err := a.TransformPosition(frameID, world, f.TargetPosition())
		if err != nil {
			return nil, errors.Wrapf(err, "target of %s", f.Limb())
		}

		out[f.Limb()] = target
	}

	return out, nil
}
