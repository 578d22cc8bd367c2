// Package qp solves small dense convex quadratic programs of the form:
//
//	minimize   ½ xᵀPx + qᵀx
//	subject to Gx ≤ h
//
// with a primal active-set method. A feasible starting point is found with
// gonum's simplex, and the equality-constrained subproblems are solved as
// dense KKT systems.
package qp

import (
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

const (
	tolerance     = 1e-9
	regularize    = 1e-10
	maxIterations = 100
)

var (
	ErrInfeasible    = errors.New("constraints are infeasible")
	ErrMaxIterations = errors.New("too many iterations")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "qp",
})

// Solve returns the minimizer x. P must be symmetric positive semi-definite
// and n×n, where n is len(q). G may be nil (with h empty) for an unconstrained
// problem. Panics if the dimensions don't agree.
func Solve(P mat.Symmetric, q []float64, G mat.Matrix, h []float64) ([]float64, error) {
	n := len(q)
	if P.SymmetricDim() != n {
		panic("qp: P and q have mismatched dimensions")
	}

	var g *mat.Dense
	if G != nil {
		r, c := G.Dims()
		if r != len(h) || c != n {
			panic("qp: G and h have mismatched dimensions")
		}
		g = mat.DenseCopyOf(G)
	} else if len(h) != 0 {
		panic("qp: h given without G")
	}

	x, err := feasible(g, h, n)
	if err != nil {
		return nil, err
	}

	pp := mat.NewSymDense(n, nil)
	pp.CopySym(P)
	for i := 0; i < n; i++ {
		pp.SetSym(i, i, pp.At(i, i)+regularize)
	}

	// After a full step, x minimizes over the working set. With a semi-definite
	// P the next step is rounding noise, so it's not trusted to be zero.
	settled := false

	working := []int{}
	for iter := 0; iter < maxIterations; iter++ {
		p, lambda, err := step(pp, q, g, working, x)
		if err != nil {
			return nil, err
		}

		if settled || floats.Norm(p, math.Inf(1)) < tolerance*(1+floats.Norm(x, math.Inf(1))) {
			min, idx := 0.0, -1
			for i, l := range lambda {
				if l < min-tolerance {
					min, idx = l, i
				}
			}

			if idx < 0 {
				log.Debugf("converged after %d iterations with %d active constraints", iter, len(working))
				return x, nil
			}

			working = append(working[:idx], working[idx+1:]...)
			settled = false
			continue
		}

		alpha, blocking := 1.0, -1
		for i := range h {
			if contains(working, i) {
				continue
			}

			gp := floats.Dot(g.RawRowView(i), p)
			if gp <= tolerance {
				continue
			}

			a := (h[i] - floats.Dot(g.RawRowView(i), x)) / gp
			if a < alpha {
				alpha, blocking = math.Max(a, 0), i
			}
		}

		floats.AddScaled(x, alpha, p)
		if blocking >= 0 {
			working = append(working, blocking)
		}
		settled = blocking < 0
	}

	return nil, ErrMaxIterations
}

func contains(s []int, v int) bool {
	for _, i := range s {
		if i == v {
			return true
		}
	}

	return false
}

// step solves the equality-constrained subproblem for the working set, and
// returns the step from x and the multipliers of the working constraints.
func step(P *mat.SymDense, q []float64, G *mat.Dense, working []int, x []float64) ([]float64, []float64, error) {
	n, w := len(q), len(working)

	kkt := mat.NewDense(n+w, n+w, nil)
	rhs := mat.NewVecDense(n+w, nil)

	var grad mat.VecDense
	grad.MulVec(P, mat.NewVecDense(n, x))

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			kkt.Set(i, j, P.At(i, j))
		}
		rhs.SetVec(i, -(grad.AtVec(i) + q[i]))
	}

	for k, row := range working {
		for j := 0; j < n; j++ {
			v := G.At(row, j)
			kkt.Set(n+k, j, v)
			kkt.Set(j, n+k, v)
		}
	}

	var sol mat.VecDense
	if err := sol.SolveVec(kkt, rhs); err != nil {
		return nil, nil, errors.Wrap(err, "solving kkt system")
	}

	p := make([]float64, n)
	lambda := make([]float64, w)
	for i := range p {
		p[i] = sol.AtVec(i)
	}
	for i := range lambda {
		lambda[i] = sol.AtVec(n + i)
	}

	return p, lambda, nil
}

// feasible returns a point satisfying Gx ≤ h. The origin is used when it
// qualifies; otherwise a phase-one linear program is solved.
func feasible(G *mat.Dense, h []float64, n int) ([]float64, error) {
	x := make([]float64, n)
	if G == nil || floats.Min(append([]float64{0}, h...)) >= 0 {
		return x, nil
	}

	// Simplex rejects all-zero columns, so only pass the variables which
	// appear in some constraint.
	m := len(h)
	cols := []int{}
	for j := 0; j < n; j++ {
		for i := 0; i < m; i++ {
			if G.At(i, j) != 0 {
				cols = append(cols, j)
				break
			}
		}
	}

	if len(cols) == 0 {
		return nil, ErrInfeasible
	}

	sub := mat.NewDense(m, len(cols), nil)
	for i := 0; i < m; i++ {
		for k, j := range cols {
			sub.Set(i, k, G.At(i, j))
		}
	}

	c, A, b := lp.Convert(make([]float64, len(cols)), sub, h, nil, nil)
	_, opt, err := lp.Simplex(c, A, b, tolerance, nil)
	if err != nil {
		if err == lp.ErrInfeasible {
			return nil, ErrInfeasible
		}

		return nil, errors.Wrap(err, "finding feasible point")
	}

	// Convert splits each variable into positive and negative parts.
	k := len(cols)
	for i, j := range cols {
		x[j] = opt[i] - opt[k+i]
	}

	return x, nil
}
