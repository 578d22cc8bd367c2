package legs

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/fake/robot"
	"github.com/adammck/legged/math3d"
)

const delta = 1e-6

func frames() *adapter.Frames {
	return adapter.New(robot.New("odom", math3d.IdentityPose))
}

func footstep(profile Profile) *Footstep {
	f := NewFootstep(legged.LF)
	f.UpdateStartPosition(math3d.MakeVector3(0, 0, 0))
	f.SetTargetPosition("odom", math3d.MakeVector3(0.2, 0, 0))
	f.SetProfileType(profile)
	f.SetProfileHeight(0.05)
	f.SetAverageVelocity(0.5)
	f.SetMinimumDuration(0.1)
	return f
}

func assertVectorInDelta(t *testing.T, expected, actual math3d.Vector3, msg string) {
	assert.InDelta(t, 0, expected.Distance(actual), delta, "%s: expected %s, got %s", msg, expected, actual)
}

func TestFootstepKnots(t *testing.T) {
	type eg struct {
		profile Profile
		knots   []math3d.Vector3
		times   []float64
	}

	examples := []eg{
		{
			profile: ProfileStraight,
			knots: []math3d.Vector3{
				{X: 0, Y: 0, Z: 0},
				{X: 0.2, Y: 0, Z: 0},
			},
			times: []float64{0, 0.4},
		},
		{
			profile: ProfileTriangle,
			knots: []math3d.Vector3{
				{X: 0, Y: 0, Z: 0},
				{X: 0.1, Y: 0, Z: 0.05},
				{X: 0.2, Y: 0, Z: 0},
			},
			times: []float64{0, math.Sqrt(0.0125) / 0.5, 2 * math.Sqrt(0.0125) / 0.5},
		},
		{
			profile: ProfileSquare,
			knots: []math3d.Vector3{
				{X: 0, Y: 0, Z: 0},
				{X: 0, Y: 0, Z: 0.05},
				{X: 0.2, Y: 0, Z: 0.05},
				{X: 0.2, Y: 0, Z: 0},
			},
			times: []float64{0, 0.1, 0.5, 0.6},
		},
	}

	for _, e := range examples {
		f := footstep(e.profile)
		require.NoError(t, f.PrepareComputation(legged.NewState(), frames()), string(e.profile))
		assert.True(t, f.IsComputed())

		knots := f.Knots()
		require.Len(t, knots, len(e.knots), string(e.profile))

		for i, k := range knots {
			assertVectorInDelta(t, e.knots[i], k.Position, string(e.profile))
			assert.InDelta(t, e.times[i], k.Time, delta, string(e.profile))
		}

		assert.InDelta(t, e.times[len(e.times)-1], f.Duration(), delta, string(e.profile))
	}
}

func TestFootstepTriangleScenario(t *testing.T) {
	f := footstep(ProfileTriangle)
	require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))

	d := f.Duration()
	assert.InDelta(t, 0.4472136, d, delta)
	assert.True(t, d >= 0.2)
}

func TestFootstepEndpoints(t *testing.T) {
	for _, p := range []Profile{ProfileStraight, ProfileTriangle, ProfileSquare} {
		f := footstep(p)
		f.UpdateStartPosition(math3d.MakeVector3(0.1, -0.2, 0.03))
		f.SetTargetPosition("odom", math3d.MakeVector3(0.35, -0.1, 0.01))
		require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))

		assertVectorInDelta(t, f.StartPosition(), f.EvaluatePosition(0), string(p))
		assertVectorInDelta(t, f.TargetPosition(), f.EvaluatePosition(f.Duration()), string(p))
	}
}

func TestFootstepTimingMinimumDuration(t *testing.T) {
	type eg struct {
		avgVel float64
		minDur float64
	}

	examples := []eg{
		{0.5, 0.1},
		{10, 0.2},
		{0, 0.15},
		{-1, 0.15},
	}

	for _, e := range examples {
		f := footstep(ProfileSquare)
		f.SetAverageVelocity(e.avgVel)
		f.SetMinimumDuration(e.minDur)
		require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))

		knots := f.Knots()
		for i := 1; i < len(knots); i++ {
			dt := knots[i].Time - knots[i-1].Time
			assert.True(t, dt >= e.minDur-delta, "segment %d took %v with %+v", i, dt, e)
		}

		// Without a usable velocity, every segment takes the minimum.
		if e.avgVel <= 0 {
			assert.InDelta(t, 3*e.minDur, f.Duration(), delta)
		}
	}
}

func TestFootstepBoundaryVelocities(t *testing.T) {
	type eg struct {
		name      string
		support   bool
		ignore    bool
		liftOff   float64
		touchdown float64
	}

	examples := []eg{
		{"support leg", true, false, 0.1, -0.2},
		{"ignore contact", true, true, 0.1, 0},
		{"swing leg", false, false, 0, -0.2},
		{"swing leg ignoring contact", false, true, 0, 0},
	}

	for _, e := range examples {
		state := legged.NewState()
		state.SetSupportLeg(legged.LF, e.support)

		f := footstep(ProfileTriangle)
		f.SetLiftOffVelocity(0.1)
		f.SetTouchdownVelocity(-0.2)
		f.SetIgnoreContact(e.ignore)
		require.NoError(t, f.PrepareComputation(state, frames()), e.name)

		assertVectorInDelta(t, math3d.MakeVector3(0, 0, e.liftOff), f.EvaluateVelocity(0), e.name)
		assertVectorInDelta(t, math3d.MakeVector3(0, 0, e.touchdown), f.EvaluateVelocity(f.Duration()), e.name)

		// The configured values aren't changed.
		assert.Equal(t, 0.1, f.LiftOffVelocity())
		assert.Equal(t, -0.2, f.TouchdownVelocity())
	}
}

func TestFootstepUnsupportedProfile(t *testing.T) {
	f := footstep(ProfileTriangle)
	require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))
	require.True(t, f.IsComputed())

	f.SetProfileType(Profile("zigzag"))
	err := f.PrepareComputation(legged.NewState(), frames())
	assert.Equal(t, ErrUnsupportedProfile, errors.Cause(err))
	assert.False(t, f.IsComputed())
	assert.False(t, ValidProfile("zigzag"))
}

func TestFootstepInvalidTiming(t *testing.T) {
	type eg struct {
		name   string
		target math3d.Vector3
		avgVel float64
	}

	examples := []eg{
		{"no velocity", math3d.MakeVector3(0.2, 0, 0), 0},
		{"no distance", math3d.ZeroVector3, 0.5},
	}

	for _, e := range examples {
		f := NewFootstep(legged.LF)
		f.SetTargetPosition("odom", e.target)
		f.SetAverageVelocity(e.avgVel)

		err := f.PrepareComputation(legged.NewState(), frames())
		assert.Equal(t, ErrInvalidTiming, errors.Cause(err), e.name)
		assert.False(t, f.IsComputed(), e.name)

		f.SetMinimumDuration(0.1)
		require.NoError(t, f.PrepareComputation(legged.NewState(), frames()), e.name)
		assert.InDelta(t, 0.1, f.Duration(), delta, e.name)
	}
}

func TestFootstepKnotsAreCopies(t *testing.T) {
	f := footstep(ProfileStraight)
	f.SetLiftOffVelocity(0.1)
	require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))

	k := f.Knots()
	k[0].Position = math3d.MakeVector3(9, 9, 9)
	*k[0].Velocity = math3d.MakeVector3(9, 9, 9)
	*k[0].Acceleration = math3d.MakeVector3(9, 9, 9)

	k = f.Knots()
	assert.Equal(t, math3d.ZeroVector3, k[0].Position)
	assert.Equal(t, math3d.MakeVector3(0, 0, 0.1), *k[0].Velocity)
	assert.Equal(t, math3d.ZeroVector3, *k[0].Acceleration)
}

func TestFootstepUpdateStartPosition(t *testing.T) {
	f := footstep(ProfileStraight)
	require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))
	assert.True(t, f.IsComputed())

	// Other setters leave the computed trajectory alone.
	f.SetProfileHeight(0.2)
	assert.True(t, f.IsComputed())

	f.UpdateStartPosition(math3d.MakeVector3(0.05, 0, 0))
	assert.False(t, f.IsComputed())

	assert.Panics(t, func() { f.EvaluatePosition(0) })
	assert.Panics(t, func() { f.Duration() })

	require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))
	assertVectorInDelta(t, math3d.MakeVector3(0.05, 0, 0), f.EvaluatePosition(0), "new start")
}

func TestFootstepMotion(t *testing.T) {
	f := footstep(ProfileStraight)

	assert.Equal(t, TypeFootstep, f.Type())
	assert.Equal(t, legged.LF, f.Limb())
	assert.False(t, f.NeedsComputation())
	assert.Equal(t, ControlSetup{Position: true, Velocity: false, Acceleration: false, Effort: false}, f.ControlSetup())

	frame, err := f.FrameID(Position)
	require.NoError(t, err)
	assert.Equal(t, "odom", frame)

	for _, cl := range []ControlLevel{Velocity, Acceleration, Effort} {
		_, err := f.FrameID(cl)
		assert.Error(t, err, cl.String())
	}

	assert.Equal(t, "&Footstep{limb=LF frame=odom height=0.050 avgVel=0.500 type=straight start=&Vec3{x=0.000 y=0.000 z=0.000} target=&Vec3{x=0.200 y=0.000 z=0.000}}", f.String())
}

func TestFootstepClone(t *testing.T) {
	f := footstep(ProfileTriangle)
	require.NoError(t, f.PrepareComputation(legged.NewState(), frames()))

	c, ok := f.Clone().(*Footstep)
	require.True(t, ok)
	assert.True(t, c.IsComputed())
	assert.Equal(t, f.Duration(), c.Duration())

	c.UpdateStartPosition(math3d.MakeVector3(1, 1, 1))
	c.SetTargetPosition("map", math3d.MakeVector3(2, 2, 2))

	assert.False(t, c.IsComputed())
	assert.True(t, f.IsComputed())
	assert.Equal(t, math3d.MakeVector3(0, 0, 0), f.StartPosition())
	assert.Equal(t, math3d.MakeVector3(0.2, 0, 0), f.TargetPosition())
}

func TestAdaptationStance(t *testing.T) {
	base := math3d.MakePose(math3d.MakeVector3(1, 0, 0), math3d.IdentityRotation)
	a := adapter.New(robot.New("odom", base))

	current := legged.Stance{
		legged.LF: math3d.MakeVector3(1.3, 0.2, 0),
		legged.RF: math3d.MakeVector3(1.3, -0.2, 0),
		legged.LH: math3d.MakeVector3(0.7, 0.2, 0),
		legged.RH: math3d.MakeVector3(0.7, -0.2, 0),
	}

	lf := NewFootstep(legged.LF)
	lf.SetTargetPosition("base", math3d.MakeVector3(0.4, 0.2, 0))

	rf := NewFootstep(legged.RF)
	rf.SetTargetPosition("odom", math3d.MakeVector3(1.5, -0.2, 0))
	rf.SetIgnoreForPoseAdaptation(true)

	out, err := AdaptationStance(a, current, lf, rf)
	require.NoError(t, err)

	assertVectorInDelta(t, math3d.MakeVector3(1.4, 0.2, 0), out[legged.LF], "LF")
	assertVectorInDelta(t, current[legged.RF], out[legged.RF], "RF")
	assertVectorInDelta(t, current[legged.LH], out[legged.LH], "LH")

	// The input is untouched.
	assert.Equal(t, math3d.MakeVector3(1.3, 0.2, 0), current[legged.LF])

	// Missing transform.
	lh := NewFootstep(legged.LH)
	lh.SetTargetPosition("map", math3d.ZeroVector3)
	_, err = AdaptationStance(a, current, lh)
	assert.True(t, errors.Is(err, adapter.ErrTransformUnavailable))
}
