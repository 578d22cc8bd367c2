package qp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

const delta = 1e-6

func TestSolveUnconstrained(t *testing.T) {
	// (x-1)² + (y+2)²
	P := mat.NewSymDense(2, []float64{2, 0, 0, 2})
	q := []float64{-2, 4}

	x, err := Solve(P, q, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, x[0], delta)
	assert.InDelta(t, -2, x[1], delta)
}

func TestSolveSemiDefinite(t *testing.T) {
	// (x+y-2)², minimized along a whole line.
	P := mat.NewSymDense(2, []float64{2, 2, 2, 2})
	q := []float64{-4, -4}

	x, err := Solve(P, q, nil, nil)
	require.NoError(t, err)
	assert.InDelta(t, 2, x[0]+x[1], delta)
	assert.InDelta(t, x[0], x[1], 1e-4)

	// Pinned in x, free in y.
	G := mat.NewDense(2, 2, []float64{1, 0, -1, 0})
	x, err = Solve(P, q, G, []float64{0.5, -0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, x[0], delta)
	assert.InDelta(t, 1.5, x[1], delta)
}

func TestSolveConstrained(t *testing.T) {
	type eg struct {
		name string
		P    []float64
		q    []float64
		G    []float64
		h    []float64
		exp  []float64
	}

	examples := []eg{
		{
			// (x-2)², x ≤ 1
			name: "active bound",
			P:    []float64{2},
			q:    []float64{-4},
			G:    []float64{1},
			h:    []float64{1},
			exp:  []float64{1},
		},
		{
			// (x-2)², x ≤ 3
			name: "inactive bound",
			P:    []float64{2},
			q:    []float64{-4},
			G:    []float64{1},
			h:    []float64{3},
			exp:  []float64{2},
		},
		{
			// x² + y² - 2x - 2y, x + y ≤ 1
			name: "diagonal",
			P:    []float64{2, 0, 0, 2},
			q:    []float64{-2, -2},
			G:    []float64{1, 1},
			h:    []float64{1},
			exp:  []float64{0.5, 0.5},
		},
		{
			// x² + y², x ≥ 1, y ≥ 2 (origin infeasible)
			name: "origin infeasible",
			P:    []float64{2, 0, 0, 2},
			q:    []float64{0, 0},
			G:    []float64{-1, 0, 0, -1},
			h:    []float64{-1, -2},
			exp:  []float64{1, 2},
		},
		{
			// (x-3)² + z², 1 ≤ x ≤ 2, z unconstrained
			name: "unconstrained variable",
			P:    []float64{2, 0, 0, 2},
			q:    []float64{-6, 0},
			G:    []float64{1, 0, -1, 0},
			h:    []float64{2, -1},
			exp:  []float64{2, 0},
		},
	}

	for _, e := range examples {
		n := len(e.q)
		G := mat.NewDense(len(e.h), n, e.G)

		x, err := Solve(mat.NewSymDense(n, e.P), e.q, G, e.h)
		require.NoError(t, err, e.name)
		assert.InDeltaSlice(t, e.exp, x, delta, e.name)
	}
}

func TestSolveInfeasible(t *testing.T) {
	// x ≤ -1 and x ≥ 1
	P := mat.NewSymDense(1, []float64{2})
	G := mat.NewDense(2, 1, []float64{1, -1})

	_, err := Solve(P, []float64{0}, G, []float64{-1, -1})
	assert.Equal(t, ErrInfeasible, err)
}

func TestSolvePanicsOnBadDimensions(t *testing.T) {
	P := mat.NewSymDense(2, nil)
	assert.Panics(t, func() {
		_, _ = Solve(P, []float64{0}, nil, nil)
	})
}
