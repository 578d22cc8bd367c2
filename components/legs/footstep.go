package legs

import (
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/adammck/legged"
	"github.com/adammck/legged/adapter"
	"github.com/adammck/legged/math3d"
	"github.com/adammck/legged/spline"
	"github.com/adammck/legged/stats"
)

type Profile string

const (
	ProfileStraight Profile = "straight"
	ProfileTriangle Profile = "triangle"
	ProfileSquare   Profile = "square"
)

var (
	ErrUnsupportedProfile = errors.New("unsupported swing profile")
	ErrInvalidTiming      = errors.New("swing segment has no duration")
)

// ValidProfile returns true if footsteps know how to generate knots for p.
func ValidProfile(p Profile) bool {
	switch p {
	case ProfileStraight, ProfileTriangle, ProfileSquare:
		return true
	}

	return false
}

// Footstep moves a foot through the air from its start position to a target,
// along a smooth curve shaped by the profile.
//
// A footstep must be computed (via PrepareComputation) before it can be
// evaluated. Setting a new start position throws the computed trajectory away.
// Footsteps are not safe for concurrent use.
type Footstep struct {
	limb    legged.Limb
	start   math3d.Vector3
	target  math3d.Vector3
	frameID string

	profile           Profile
	profileHeight     float64
	averageVelocity   float64
	minimumDuration   float64
	liftOffVelocity   float64
	touchdownVelocity float64

	ignoreContact           bool
	ignoreForPoseAdaptation bool

	// Nil until computed.
	swing *swing
}

// swing is the computed trajectory of a footstep.
type swing struct {
	knots []spline.Knot
	curve *spline.Curve
}

var _ LegMotion = (*Footstep)(nil)

// NewFootstep returns an uncomputed straight footstep for the given limb, with
// everything else zeroed.
func NewFootstep(limb legged.Limb) *Footstep {
	return &Footstep{
		limb:    limb,
		profile: ProfileStraight,
	}
}

func (f *Footstep) Type() Type {
	return TypeFootstep
}

func (f *Footstep) Limb() legged.Limb {
	return f.limb
}

// ControlSetup returns the control levels of a footstep: position only.
func (f *Footstep) ControlSetup() ControlSetup {
	return ControlSetup{
		Position:     true,
		Velocity:     false,
		Acceleration: false,
		Effort:       false,
	}
}

func (f *Footstep) FrameID(level ControlLevel) (string, error) {
	if level != Position {
		return "", errors.Errorf("footstep frame id is only defined for position, not %s", level)
	}

	return f.frameID, nil
}

// UpdateStartPosition sets the position which the swing starts from, and marks
// the footstep as needing computation.
func (f *Footstep) UpdateStartPosition(start math3d.Vector3) {
	f.swing = nil
	f.start = start
}

func (f *Footstep) StartPosition() math3d.Vector3 {
	return f.start
}

// SetTargetPosition sets where the foot should land, expressed in frameID.
func (f *Footstep) SetTargetPosition(frameID string, target math3d.Vector3) {
	f.frameID = frameID
	f.target = target
}

func (f *Footstep) TargetPosition() math3d.Vector3 {
	return f.target
}

func (f *Footstep) SetProfileType(p Profile) {
	f.profile = p
}

func (f *Footstep) ProfileType() Profile {
	return f.profile
}

func (f *Footstep) SetProfileHeight(h float64) {
	f.profileHeight = h
}

func (f *Footstep) ProfileHeight() float64 {
	return f.profileHeight
}

func (f *Footstep) SetAverageVelocity(v float64) {
	f.averageVelocity = v
}

func (f *Footstep) AverageVelocity() float64 {
	return f.averageVelocity
}

// SetMinimumDuration sets the shortest time, in seconds, that any segment of
// the swing may take. It must be positive unless the average velocity is, and
// no two knots coincide.
func (f *Footstep) SetMinimumDuration(d float64) {
	f.minimumDuration = d
}

func (f *Footstep) MinimumDuration() float64 {
	return f.minimumDuration
}

func (f *Footstep) SetLiftOffVelocity(v float64) {
	f.liftOffVelocity = v
}

func (f *Footstep) LiftOffVelocity() float64 {
	return f.liftOffVelocity
}

func (f *Footstep) SetTouchdownVelocity(v float64) {
	f.touchdownVelocity = v
}

func (f *Footstep) TouchdownVelocity() float64 {
	return f.touchdownVelocity
}

// SetIgnoreContact sets whether the foot should keep moving through contact
// rather than slowing into it. If set, touchdown velocity is ignored.
func (f *Footstep) SetIgnoreContact(ignore bool) {
	f.ignoreContact = ignore
}

func (f *Footstep) IsIgnoreContact() bool {
	return f.ignoreContact
}

// SetIgnoreForPoseAdaptation sets whether this foot should be left out of the
// stance used to optimize the body pose.
func (f *Footstep) SetIgnoreForPoseAdaptation(ignore bool) {
	f.ignoreForPoseAdaptation = ignore
}

func (f *Footstep) IsIgnoreForPoseAdaptation() bool {
	return f.ignoreForPoseAdaptation
}

// PrepareComputation generates the knots for the profile, and fits the swing
// trajectory through them. On failure, the footstep is left uncomputed. Fails
// with ErrInvalidTiming if a segment would take no time at all, which only
// happens when the minimum duration is not positive.
func (f *Footstep) PrepareComputation(state *legged.State, a adapter.Adapter) error {
	f.swing = nil

	s, err := f.compute(state)
	stats.FootstepComputations.WithLabelValues(stats.Result(err)).Inc()
	if err != nil {
		return err
	}

	f.swing = s
	return nil
}

func (f *Footstep) compute(state *legged.State) (*swing, error) {
	var values []math3d.Vector3

	switch f.profile {
	case ProfileStraight:
		values = f.straightKnots()

	case ProfileTriangle:
		values = f.triangleKnots()

	case ProfileSquare:
		values = f.squareKnots()

	default:
		log.Errorf("swing profile of type %q not supported", f.profile)
		return nil, errors.Wrapf(ErrUnsupportedProfile, "%q", f.profile)
	}

	times := f.timing(values)
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, errors.Wrapf(ErrInvalidTiming, "segment %d of %s swing (minimum duration %0.3fs)", i, f.limb, f.minimumDuration)
		}
	}

	liftOff := f.liftOffVelocity
	if !state.IsSupportLeg(f.limb) {
		liftOff = 0
	}

	touchdown := f.touchdownVelocity
	if f.ignoreContact {
		touchdown = 0
	}

	knots := make([]spline.Knot, len(values))
	for i := range values {
		knots[i] = spline.Knot{
			Time:     times[i],
			Position: values[i],
		}
	}

	first, last := &knots[0], &knots[len(knots)-1]
	first.Velocity = vector(0, 0, liftOff)
	first.Acceleration = vector(0, 0, 0)
	last.Velocity = vector(0, 0, touchdown)
	last.Acceleration = vector(0, 0, 0)

	log.Debugf("limb=%s profile=%s knots=%v", f.limb, f.profile, knots)

	curve, err := spline.Fit(knots)
	if err != nil {
		return nil, errors.Wrapf(err, "fitting %s swing for %s", f.profile, f.limb)
	}

	return &swing{knots: knots, curve: curve}, nil
}

func vector(x, y, z float64) *math3d.Vector3 {
	v := math3d.MakeVector3(x, y, z)
	return &v
}

func (f *Footstep) straightKnots() []math3d.Vector3 {
	return []math3d.Vector3{
		f.start,
		f.target,
	}
}

// apex returns the height of the top of the swing: above whichever of the
// start and target is higher.
func (f *Footstep) apex() float64 {
	return math.Max(f.start.Z, f.target.Z) + f.profileHeight
}

func (f *Footstep) triangleKnots() []math3d.Vector3 {

	// Halfway between start and target on the ground plane, raised to the apex.
	mid := f.start.Add(f.target.Subtract(f.start).MultiplyByScalar(0.5))
	mid.Z = f.apex()

	return []math3d.Vector3{
		f.start,
		mid,
		f.target,
	}
}

func (f *Footstep) squareKnots() []math3d.Vector3 {
	h := f.apex()

	return []math3d.Vector3{
		f.start,
		math3d.MakeVector3(f.start.X, f.start.Y, h),
		math3d.MakeVector3(f.target.X, f.target.Y, h),
		f.target,
	}
}

// timing returns the time at which the foot should pass through each knot,
// starting at zero. Each segment takes at least the minimum duration.
func (f *Footstep) timing(values []math3d.Vector3) []float64 {
	times := make([]float64, len(values))

	for i := 1; i < len(values); i++ {
		d := f.minimumDuration

		if f.averageVelocity > 0 {
			d = math.Max(values[i].Distance(values[i-1])/f.averageVelocity, f.minimumDuration)
		}

		times[i] = times[i-1] + d
	}

	return times
}

func (f *Footstep) NeedsComputation() bool {
	return false
}

func (f *Footstep) IsComputed() bool {
	return f.swing != nil
}

func (f *Footstep) computed() *swing {
	if f.swing == nil {
		panic(fmt.Sprintf("footstep for %s has not been computed", f.limb))
	}

	return f.swing
}

// Knots returns a copy of the knots which the trajectory was fitted through.
// Panics if the footstep has not been computed.
func (f *Footstep) Knots() []spline.Knot {
	k := f.computed().knots
	out := make([]spline.Knot, len(k))
	for i := range k {
		out[i] = k[i]
		out[i].Velocity = copyVector(k[i].Velocity)
		out[i].Acceleration = copyVector(k[i].Acceleration)
	}

	return out
}

func copyVector(v *math3d.Vector3) *math3d.Vector3 {
	if v == nil {
		return nil
	}

	c := *v
	return &c
}

// EvaluatePosition returns the position of the foot at time t (in seconds
// since the start of the swing), in the target frame. Times outside of the
// swing are extrapolated. Panics if the footstep has not been computed.
func (f *Footstep) EvaluatePosition(t float64) math3d.Vector3 {
	return f.computed().curve.Position(t)
}

// EvaluateVelocity returns the velocity of the foot at time t. Panics if the
// footstep has not been computed.
func (f *Footstep) EvaluateVelocity(t float64) math3d.Vector3 {
	return f.computed().curve.Velocity(t)
}

// Duration returns the length of the swing in seconds. Panics if the footstep
// has not been computed.
func (f *Footstep) Duration() float64 {
	min, max := f.computed().curve.Domain()
	return max - min
}

// Clone returns a copy of the footstep. The computed trajectory is never
// modified once fitted, so the copy shares it.
func (f *Footstep) Clone() LegMotion {
	c := *f
	return &c
}

func (f *Footstep) String() string {
	return fmt.Sprintf(
		"&Footstep{limb=%s frame=%s height=%0.3f avgVel=%0.3f type=%s start=%s target=%s}",
		f.limb, f.frameID, f.profileHeight, f.averageVelocity, f.profile, f.start, f.target)
}
