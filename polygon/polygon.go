// Package polygon provides the support polygon: the convex region on the
// ground plane spanned by the feet in contact.
package polygon

import (
	"fmt"
	"sort"
	"strings"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/mat"
)

// Polygon is a closed 2D polygon on the ground plane. Vertices are in order,
// and the last one connects back to the first.
type Polygon struct {
	Vertices []r2.Point
}

func MakePolygon(vertices ...r2.Point) *Polygon {
	return &Polygon{Vertices: vertices}
}

func (p *Polygon) String() string {
	s := make([]string, len(p.Vertices))
	for i, v := range p.Vertices {
		s[i] = fmt.Sprintf("(%0.3f, %0.3f)", v.X, v.Y)
	}

	return fmt.Sprintf("&Polygon{%s}", strings.Join(s, " "))
}

// ConvexHull returns the convex hull of the given points, counter-clockwise,
// starting from the lowest-leftmost point. Collinear points are dropped.
func ConvexHull(points []r2.Point) *Polygon {
	pts := make([]r2.Point, len(points))
	copy(pts, points)

	sort.Slice(pts, func(i, j int) bool {
		if pts[i].X != pts[j].X {
			return pts[i].X < pts[j].X
		}
		return pts[i].Y < pts[j].Y
	})

	// Dedupe.
	uniq := pts[:0]
	for _, p := range pts {
		if len(uniq) == 0 || p != uniq[len(uniq)-1] {
			uniq = append(uniq, p)
		}
	}
	pts = uniq

	if len(pts) < 3 {
		return &Polygon{Vertices: pts}
	}

	// Monotone chain.
	hull := make([]r2.Point, 0, 2*len(pts))
	for _, p := range pts {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	lower := len(hull) + 1
	for i := len(pts) - 2; i >= 0; i-- {
		p := pts[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	return &Polygon{Vertices: hull[:len(hull)-1]}
}

// cross returns the z component of (a-o) × (b-o). Positive means o, a, b turn
// counter-clockwise.
func cross(o, a, b r2.Point) float64 {
	return a.Sub(o).Cross(b.Sub(o))
}

// Area returns the signed area. Positive for counter-clockwise vertices.
func (p *Polygon) Area() float64 {
	a := 0.0
	n := len(p.Vertices)
	for i := 0; i < n; i++ {
		a += p.Vertices[i].Cross(p.Vertices[(i+1)%n])
	}

	return a / 2
}

func (p *Polygon) ccw() []r2.Point {
	if p.Area() >= 0 {
		return p.Vertices
	}

	rev := make([]r2.Point, len(p.Vertices))
	for i, v := range p.Vertices {
		rev[len(rev)-1-i] = v
	}

	return rev
}

// InequalityConstraints returns G and h such that a point x is inside the
// (convex) polygon iff Gx ≤ h, with one row per edge. A polygon with two
// vertices is a segment, and is returned as two opposing half-planes whose
// intersection is the line through it. A single vertex pins the point to it.
// An empty polygon constrains nothing.
func (p *Polygon) InequalityConstraints() (*mat.Dense, []float64) {
	vs := p.ccw()
	n := len(vs)
	switch n {
	case 0:
		return nil, nil

	case 1:
		v := vs[0]
		G := mat.NewDense(4, 2, []float64{
			1, 0,
			-1, 0,
			0, 1,
			0, -1,
		})
		return G, []float64{v.X, -v.X, v.Y, -v.Y}
	}

	G := mat.NewDense(n, 2, nil)
	h := make([]float64, n)

	for i := 0; i < n; i++ {
		a, b := vs[i], vs[(i+1)%n]

		// Outward normal of a counter-clockwise edge.
		e := b.Sub(a)
		normal := r2.Point{X: e.Y, Y: -e.X}

		G.Set(i, 0, normal.X)
		G.Set(i, 1, normal.Y)
		h[i] = normal.Dot(a)
	}

	return G, h
}

// Contains returns true if the point is inside or on the boundary of the
// (convex) polygon, within tolerance.
func (p *Polygon) Contains(pt r2.Point, tolerance float64) bool {
	G, h := p.InequalityConstraints()
	if G == nil {
		return false
	}

	for i := range h {
		n := r2.Point{X: G.At(i, 0), Y: G.At(i, 1)}
		if n.Dot(pt)-h[i] > tolerance*n.Norm() {
			return false
		}
	}

	return true
}
