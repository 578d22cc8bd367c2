package legged

import (
	"time"
)

type Robot struct {
	State      *State
	Components []Component
}

type Component interface {
	Boot() error
	Tick(now time.Time, state *State) error
}

// NewRobot creates a new Robot standing at the world origin.
func NewRobot(state *State) *Robot {
	if state == nil {
		state = NewState()
	}

	return &Robot{
		State:      state,
		Components: []Component{},
	}
}

// Add registers a component to receive ticks every frame.
func (r *Robot) Add(c Component) {
	r.Components = append(r.Components, c)
}

// Boot calls Boot on each component.
func (r *Robot) Boot() error {
	for _, c := range r.Components {
		err := c.Boot()
		if err != nil {
			return err
		}
	}

	return nil
}

// Tick calls Tick on each component, in the order they were added. The first
// error stops the tick.
func (r *Robot) Tick(now time.Time) error {
	for _, c := range r.Components {
		err := c.Tick(now, r.State)
		if err != nil {
			return err
		}
	}

	return nil
}
