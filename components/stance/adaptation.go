package stance

import (
	"time"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/components/legs"
)

// Adaptation is a component which moves the base towards the pose that best
// fits the feet currently on the ground, at most once per interval. Feet which
// are being moved by a leg motion count at their target instead.
type Adaptation struct {
	adapter  adapter.Adapter
	opt      *PoseOptimization
	motions  []legs.LegMotion
	interval time.Duration
	t        time.Time
}

func NewAdaptation(a adapter.Adapter, nominal legged.Stance, interval time.Duration) *Adaptation {
	opt := NewPoseOptimization()
	opt.SetDesiredLegConfiguration(nominal)

	return &Adaptation{
		adapter:  a,
		opt:      opt,
		interval: interval,
	}
}

func (a *Adaptation) Boot() error {
	return nil
}

// SetLegMotions replaces the motions which are currently being executed.
func (a *Adaptation) SetLegMotions(motions ...legs.LegMotion) {
	a.motions = motions
}

// Tick optimizes the base pose from the support feet. A failed optimization
// is logged and the pose is left alone, to be retried next interval.
func (a *Adaptation) Tick(now time.Time, state *legged.State) error {
	if !a.due(now) {
		return nil
	}

	a.t = now

	current := legged.Stance{}
	for _, l := range state.SupportLegs() {
		if v, ok := state.Feet[l]; ok {
			current[l] = v
		}
	}

	feet, err := legs.AdaptationStance(a.adapter, current, a.motions...)
	if err != nil {
		log.Warnf("keeping base pose: %v", err)
		return nil
	}

	if len(feet) == 0 {
		return nil
	}

	a.opt.SetFeetPositions(feet)
	pose, err := a.opt.Optimize(state.BasePose)
	if err != nil {
		log.Warnf("keeping base pose: %v", err)
		return nil
	}

	state.BasePose = pose
	return nil
}

func (a *Adaptation) due(now time.Time) bool {
	return a.t.IsZero() || now.Sub(a.t) >= a.interval
}
