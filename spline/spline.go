// Package spline fits a piecewise quintic curve through a sequence of 3D knots.
//
// Every knot fixes the position. The first and last knot also fix velocity and
// acceleration, or leave them free; interior knots may fix either or neither.
// Whatever isn't fixed is chosen to keep the curve smooth: free interior
// derivatives are continuous across the knot (up to the fourth derivative).
// A free end acceleration is zero, and a free end velocity has zero jerk.
// Each segment has six coefficients per axis, and the conditions above always
// add up to exactly six per segment, so the fit is a square linear solve.
package spline

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/adammck/legged/math3d"
)

const (
	order = 6 // coefficients per segment
)

var (
	ErrInvalidKnots = errors.New("invalid knots")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "spline",
})

// Knot is a point the curve must pass through at Time. Velocity and
// Acceleration are optional constraints; nil leaves them free.
type Knot struct {
	Time         float64
	Position     math3d.Vector3
	Velocity     *math3d.Vector3
	Acceleration *math3d.Vector3
}

func (k Knot) String() string {
	return fmt.Sprintf("&Knot{t=%0.3f %s v=%v a=%v}", k.Time, k.Position, k.Velocity, k.Acceleration)
}

// Curve is an immutable piecewise quintic. It's safe for concurrent use.
type Curve struct {
	times []float64

	// coeffs[axis][segment] holds the coefficients c0..c5 of the polynomial
	// in local time (t - times[segment]).
	coeffs [3][][order]float64
}

// Fit returns the curve through the given knots, which must be in strictly
// increasing time order. At least two are required.
func Fit(knots []Knot) (*Curve, error) {
	if len(knots) < 2 {
		return nil, errors.Wrapf(ErrInvalidKnots, "need at least two knots, got %d", len(knots))
	}

	times := make([]float64, len(knots))
	for i, k := range knots {
		times[i] = k.Time
		if i > 0 && !(k.Time > knots[i-1].Time) {
			return nil, errors.Wrapf(ErrInvalidKnots, "knot %d at t=%v is not after knot %d at t=%v", i, k.Time, i-1, knots[i-1].Time)
		}
	}

	c := &Curve{times: times}
	for axis := 0; axis < 3; axis++ {
		coeffs, err := fitAxis(knots, axis)
		if err != nil {
			return nil, errors.Wrapf(err, "axis %d", axis)
		}
		c.coeffs[axis] = coeffs
	}

	log.Debugf("fitted %d segments over [%0.3f, %0.3f]", len(knots)-1, c.MinTime(), c.MaxTime())
	return c, nil
}

func component(v math3d.Vector3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// basis returns the d-th derivative of the monomials 1, t, ..., t^5 at t.
func basis(t float64, d int) [order]float64 {
	var row [order]float64
	for j := d; j < order; j++ {
		f := 1.0
		for k := 0; k < d; k++ {
			f *= float64(j - k)
		}

		p := 1.0
		for k := 0; k < j-d; k++ {
			p *= t
		}

		row[j] = f * p
	}

	return row
}

// system accumulates rows of the linear system for one axis.
type system struct {
	a    *mat.Dense
	b    *mat.VecDense
	rows int
}

// add appends the row sum(sign * basis(t, d) . c_seg) = rhs, for each term.
func (s *system) add(rhs float64, terms ...term) {
	for _, tt := range terms {
		row := basis(tt.t, tt.d)
		for j, v := range row {
			col := tt.seg*order + j
			s.a.Set(s.rows, col, s.a.At(s.rows, col)+tt.sign*v)
		}
	}

	s.b.SetVec(s.rows, rhs)
	s.rows++
}

type term struct {
	seg  int
	t    float64
	d    int
	sign float64
}

func fitAxis(knots []Knot, axis int) ([][order]float64, error) {
	segs := len(knots) - 1
	n := segs * order

	s := &system{
		a: mat.NewDense(n, n, nil),
		b: mat.NewVecDense(n, nil),
	}

	dur := func(seg int) float64 {
		return knots[seg+1].Time - knots[seg].Time
	}

	// Positions at both ends of each segment.
	for seg := 0; seg < segs; seg++ {
		s.add(component(knots[seg].Position, axis), term{seg, 0, 0, 1})
		s.add(component(knots[seg+1].Position, axis), term{seg, dur(seg), 0, 1})
	}

	// Ends of the curve: each one contributes a velocity-ish and an
	// acceleration-ish row.
	first, last := knots[0], knots[segs]
	end := dur(segs - 1)

	if first.Velocity != nil {
		s.add(component(*first.Velocity, axis), term{0, 0, 1, 1})
	} else {
		s.add(0, term{0, 0, 3, 1})
	}

	if first.Acceleration != nil {
		s.add(component(*first.Acceleration, axis), term{0, 0, 2, 1})
	} else {
		s.add(0, term{0, 0, 2, 1})
	}

	if last.Velocity != nil {
		s.add(component(*last.Velocity, axis), term{segs - 1, end, 1, 1})
	} else {
		s.add(0, term{segs - 1, end, 3, 1})
	}

	if last.Acceleration != nil {
		s.add(component(*last.Acceleration, axis), term{segs - 1, end, 2, 1})
	} else {
		s.add(0, term{segs - 1, end, 2, 1})
	}

	// Interior knots: four rows each, joining segment k-1 (at its end) to
	// segment k (at its start). Fixed derivatives take two rows, free ones
	// take one continuity row, and the rest are filled with continuity of
	// the third and fourth derivatives.
	for k := 1; k < segs; k++ {
		prev, next := k-1, k
		te := dur(prev)
		used := 0

		for i, fixed := range []*math3d.Vector3{knots[k].Velocity, knots[k].Acceleration} {
			d := i + 1
			if fixed != nil {
				v := component(*fixed, axis)
				s.add(v, term{prev, te, d, 1})
				s.add(v, term{next, 0, d, 1})
				used += 2
			} else {
				s.add(0, term{prev, te, d, 1}, term{next, 0, d, -1})
				used++
			}
		}

		for d := 3; used < 4; d++ {
			s.add(0, term{prev, te, d, 1}, term{next, 0, d, -1})
			used++
		}
	}

	if s.rows != n {
		panic(fmt.Sprintf("spline: built %d rows for %d unknowns", s.rows, n))
	}

	var x mat.VecDense
	if err := x.SolveVec(s.a, s.b); err != nil {
		return nil, errors.Wrapf(ErrInvalidKnots, "solve: %v", err)
	}

	coeffs := make([][order]float64, segs)
	for seg := range coeffs {
		for j := 0; j < order; j++ {
			coeffs[seg][j] = x.AtVec(seg*order + j)
		}
	}

	return coeffs, nil
}

// MinTime returns the time of the first knot.
func (c *Curve) MinTime() float64 {
	return c.times[0]
}

// MaxTime returns the time of the last knot.
func (c *Curve) MaxTime() float64 {
	return c.times[len(c.times)-1]
}

// Domain returns the time span covered by the knots.
func (c *Curve) Domain() (float64, float64) {
	return c.MinTime(), c.MaxTime()
}

// segment returns the index of the segment covering t, and t relative to the
// start of that segment. Times outside the domain use the first or last
// segment, so the curve extrapolates rather than clamps.
func (c *Curve) segment(t float64) (int, float64) {
	segs := len(c.times) - 1

	// First knot time strictly greater than t, minus one.
	i := sort.SearchFloat64s(c.times, t)
	if i < len(c.times) && c.times[i] == t {
		i++
	}
	i--

	if i < 0 {
		i = 0
	}
	if i >= segs {
		i = segs - 1
	}

	return i, t - c.times[i]
}

func (c *Curve) derivative(t float64, d int) math3d.Vector3 {
	seg, tt := c.segment(t)
	row := basis(tt, d)

	var out [3]float64
	for axis := 0; axis < 3; axis++ {
		for j, v := range row {
			out[axis] += c.coeffs[axis][seg][j] * v
		}
	}

	return math3d.Vector3{X: out[0], Y: out[1], Z: out[2]}
}

// Position evaluates the curve at t.
func (c *Curve) Position(t float64) math3d.Vector3 {
	return c.derivative(t, 0)
}

// Velocity evaluates the first derivative of the curve at t.
func (c *Curve) Velocity(t float64) math3d.Vector3 {
	return c.derivative(t, 1)
}

// Acceleration evaluates the second derivative of the curve at t.
func (c *Curve) Acceleration(t float64) math3d.Vector3 {
	return c.derivative(t, 2)
}
