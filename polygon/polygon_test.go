package polygon

import (
	"testing"

	"github.com/golang/geo/r2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

func TestConvexHull(t *testing.T) {
	type eg struct {
		name   string
		points []r2.Point
		hull   []r2.Point
	}

	examples := []eg{
		{
			name:   "square with interior point",
			points: []r2.Point{pt(1, 1), pt(-1, 1), pt(0, 0), pt(-1, -1), pt(1, -1)},
			hull:   []r2.Point{pt(-1, -1), pt(1, -1), pt(1, 1), pt(-1, 1)},
		},
		{
			name:   "triangle",
			points: []r2.Point{pt(0, 1), pt(1, 0), pt(0, 0)},
			hull:   []r2.Point{pt(0, 0), pt(1, 0), pt(0, 1)},
		},
		{
			name:   "collinear and duplicate",
			points: []r2.Point{pt(0, 0), pt(1, 0), pt(2, 0), pt(2, 0), pt(1, 1)},
			hull:   []r2.Point{pt(0, 0), pt(2, 0), pt(1, 1)},
		},
		{
			name:   "two points",
			points: []r2.Point{pt(1, 0), pt(0, 0)},
			hull:   []r2.Point{pt(0, 0), pt(1, 0)},
		},
	}

	for _, e := range examples {
		assert.Equal(t, e.hull, ConvexHull(e.points).Vertices, e.name)
	}
}

func TestArea(t *testing.T) {
	ccw := MakePolygon(pt(0, 0), pt(2, 0), pt(2, 1), pt(0, 1))
	assert.InDelta(t, 2, ccw.Area(), 1e-9)

	cw := MakePolygon(pt(0, 1), pt(2, 1), pt(2, 0), pt(0, 0))
	assert.InDelta(t, -2, cw.Area(), 1e-9)
}

func TestInequalityConstraints(t *testing.T) {
	type eg struct {
		point  r2.Point
		inside bool
	}

	examples := []eg{
		{pt(0, 0), true},
		{pt(0.99, 0.99), true},
		{pt(1, 1), true},
		{pt(1.01, 0), false},
		{pt(0, -1.01), false},
		{pt(2, 2), false},
	}

	// Both windings describe the same region.
	for _, p := range []*Polygon{
		MakePolygon(pt(-1, -1), pt(1, -1), pt(1, 1), pt(-1, 1)),
		MakePolygon(pt(-1, 1), pt(1, 1), pt(1, -1), pt(-1, -1)),
	} {
		G, h := p.InequalityConstraints()
		require.NotNil(t, G)

		rows, cols := G.Dims()
		assert.Equal(t, 4, rows)
		assert.Equal(t, 2, cols)
		assert.Len(t, h, 4)

		for _, e := range examples {
			assert.Equal(t, e.inside, p.Contains(e.point, 1e-9), "%s contains %v", p, e.point)
		}
	}
}

func TestInequalityConstraintsSegment(t *testing.T) {
	p := MakePolygon(pt(0, 0), pt(1, 1))

	G, h := p.InequalityConstraints()
	require.NotNil(t, G)
	assert.Len(t, h, 2)

	assert.True(t, p.Contains(pt(0.5, 0.5), 1e-9))
	assert.True(t, p.Contains(pt(3, 3), 1e-9))
	assert.False(t, p.Contains(pt(0.5, 0.6), 1e-9))
}

func TestInequalityConstraintsPoint(t *testing.T) {
	p := MakePolygon(pt(1, 2))

	G, h := p.InequalityConstraints()
	require.NotNil(t, G)
	assert.Equal(t, []float64{1, -1, 2, -2}, h)

	assert.True(t, p.Contains(pt(1, 2), 1e-9))
	assert.False(t, p.Contains(pt(1, 2.1), 1e-9))
	assert.False(t, p.Contains(pt(0.9, 2), 1e-9))
}

func TestInequalityConstraintsEmpty(t *testing.T) {
	G, h := MakePolygon().InequalityConstraints()
	assert.Nil(t, G)
	assert.Nil(t, h)
	assert.False(t, MakePolygon().Contains(pt(0, 0), 1e-9))
}
