package main

import (
	"time"

	"github.com/pkg/errors"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/components/legs"
	"github.com/adammck/legged/components/stance"
	"github.com/adammck/legged/config"
	"github.com/adammck/legged/math3d"
)

// walker is a demo component which swings each leg forwards by a stride in
// turn, forever. The body follows via stance adaptation, which is told about
// each swing as it starts.
type walker struct {
	adapter  adapter.Adapter
	adapt    *stance.Adaptation
	footstep config.Footstep
	nominal  legged.Stance
	stride   math3d.Vector3

	order []legged.Limb
	next  int

	swing   *legs.Footstep
	started time.Time
}

func newWalker(a adapter.Adapter, adapt *stance.Adaptation, cfg *config.Config, stride float64) *walker {
	return &walker{
		adapter:  a,
		adapt:    adapt,
		footstep: cfg.Footstep,
		nominal:  cfg.NominalStance(),
		stride:   math3d.MakeVector3(stride, 0, 0),

		// Crawl gait: hind leg, then the fore leg on the same side.
		order: []legged.Limb{legged.LH, legged.LF, legged.RH, legged.RF},
	}
}

func (w *walker) Boot() error {
	return nil
}

func (w *walker) Tick(now time.Time, state *legged.State) error {
	if len(state.Feet) == 0 {
		if err := w.plant(state); err != nil {
			return err
		}
	}

	if w.swing == nil {
		if err := w.lift(now, state); err != nil {
			return err
		}
	}

	limb := w.swing.Limb()
	t := now.Sub(w.started).Seconds()

	if t >= w.swing.Duration() {
		state.Feet[limb] = w.swing.TargetPosition()
		state.SetSupportLeg(limb, true)
		w.swing = nil
		w.adapt.SetLegMotions()
		return nil
	}

	state.Feet[limb] = w.swing.EvaluatePosition(t)
	return nil
}

// plant puts every foot at its nominal position under the base.
func (w *walker) plant(state *legged.State) error {
	for _, l := range w.nominal.Limbs() {
		v, err := w.adapter.TransformPosition(w.adapter.BaseFrameID(), w.adapter.WorldFrameID(), w.nominal[l])
		if err != nil {
			return err
		}

		state.Feet[l] = v
		state.SetSupportLeg(l, true)
	}

	return nil
}

// lift starts swinging the next leg towards its nominal position, one stride
// ahead of the base.
func (w *walker) lift(now time.Time, state *legged.State) error {
	limb := w.order[w.next]
	w.next = (w.next + 1) % len(w.order)

	world := w.adapter.WorldFrameID()
	target, err := w.adapter.TransformPosition(w.adapter.BaseFrameID(), world, w.nominal[limb].Add(w.stride))
	if err != nil {
		return err
	}

	f := w.footstep.NewFootstep(limb)
	f.UpdateStartPosition(state.Feet[limb])
	f.SetTargetPosition(world, target)

	// While the leg is still on the ground, so lift-off velocity applies.
	if err := f.PrepareComputation(state, w.adapter); err != nil {
		return errors.Wrapf(err, "swinging %s", limb)
	}

	state.SetSupportLeg(limb, false)
	w.swing = f
	w.started = now
	w.adapt.SetLegMotions(f)

	log.Debugf("swinging %s", f)
	return nil
}
