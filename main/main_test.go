package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/components/stance"
	"github.com/adammck/legged/config"
	"github.com/adammck/legged/math3d"
)

func TestParseVector(t *testing.T) {
	type eg struct {
		input string
		exp   math3d.Vector3
		ok    bool
	}

	examples := []eg{
		{"0,0,0", math3d.ZeroVector3, true},
		{"1.5, -2, 0.25", math3d.MakeVector3(1.5, -2, 0.25), true},
		{"1,2", math3d.ZeroVector3, false},
		{"1,2,x", math3d.ZeroVector3, false},
		{"", math3d.ZeroVector3, false},
	}

	for _, e := range examples {
		v, err := parseVector(e.input)
		if e.ok {
			require.NoError(t, err, e.input)
			assert.Equal(t, e.exp, v, e.input)
		} else {
			assert.Error(t, err, e.input)
		}
	}
}

func run(t *testing.T, args ...string) (string, error) {
	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

func TestSwingCommand(t *testing.T) {
	out, err := run(t, "swing", "--limb", "RF", "--profile", "square", "--samples", "5")
	require.NoError(t, err)

	assert.Contains(t, out, "&Footstep{limb=RF frame=odom")
	assert.Contains(t, out, "knot 3:")
	assert.NotContains(t, out, "knot 4:")

	// Header, duration, four knots, five samples.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 11)
}

func TestSwingCommandErrors(t *testing.T) {
	type eg struct {
		name string
		args []string
	}

	examples := []eg{
		{"bad limb", []string{"swing", "--limb", "XX"}},
		{"bad start", []string{"swing", "--start", "1,2"}},
		{"bad profile", []string{"swing", "--profile", "zigzag"}},
		{"bad frame", []string{"swing", "--frame", "nowhere"}},
		{"few samples", []string{"swing", "--samples", "1"}},
		{"missing config", []string{"swing", "--config", "/nonexistent/robot.yaml"}},
	}

	for _, e := range examples {
		_, err := run(t, e.args...)
		assert.Error(t, err, e.name)
	}
}

func TestStanceCommand(t *testing.T) {
	out, err := run(t, "stance", "--dx", "0.05", "--dy", "0.02", "--iterations", "2")
	require.NoError(t, err)

	assert.Contains(t, out, "support polygon: &Polygon{")
	assert.Contains(t, out, "step 1: Pose{x=+00.050 y=+00.020 z=+00.480")
	assert.Contains(t, out, "step 2:")
}

func TestStandingHeight(t *testing.T) {
	assert.InDelta(t, 0.48, standingHeight(config.Default().NominalStance()), 1e-9)
	assert.Equal(t, 0.0, standingHeight(legged.Stance{}))
}

func TestWalker(t *testing.T) {
	cfg := config.Default()

	state := legged.NewState()
	state.BasePose.Position.Z = standingHeight(cfg.NominalStance())
	a := adapter.New(adapter.NewStateRobot(cfg.WorldFrame, state))

	adapt := stance.NewAdaptation(a, cfg.NominalStance(), 0)

	r := legged.NewRobot(state)
	r.Add(newWalker(a, adapt, cfg, 0.1))
	r.Add(adapt)
	require.NoError(t, r.Boot())

	now := time.Unix(1000, 0)
	for i := 0; i < 600; i++ {
		now = now.Add(time.Second / 60)
		require.NoError(t, r.Tick(now))

		// Never more than one foot in the air.
		assert.True(t, len(state.SupportLegs()) >= 3, "tick %d: %v", i, state.SupportLegs())
	}

	assert.Len(t, state.Feet, 4)
	assert.True(t, state.BasePose.Position.X > 0.05, "base didn't move forwards: %s", state.BasePose)
	assert.InDelta(t, 0.48, state.BasePose.Position.Z, 1e-9)
}
