package math3d

import (
	"fmt"
	"math"

	"github.com/golang/geo/r2"
)

type Vector3 struct {
	X float64
	Y float64
	Z float64
}

var (
	ZeroVector3 = Vector3{}
)

// MakeVector3 returns a new Vector3.
func MakeVector3(x float64, y float64, z float64) Vector3 {
	return Vector3{x, y, z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("&Vec3{x=%0.3f y=%0.3f z=%0.3f}", v.X, v.Y, v.Z)
}

// Zero returns true if the vector is at 0,0,0.
func (v Vector3) Zero() bool {
	return (v.X == 0) && (v.Y == 0) && (v.Z == 0)
}

// Add adds two vectors, and returns the result.
func (v Vector3) Add(vv Vector3) Vector3 {
	return Vector3{
		(v.X + vv.X),
		(v.Y + vv.Y),
		(v.Z + vv.Z),
	}
}

// Subtract returns the vector from vv to v.
func (v Vector3) Subtract(vv Vector3) Vector3 {
	return Vector3{
		(v.X - vv.X),
		(v.Y - vv.Y),
		(v.Z - vv.Z),
	}
}

func (v Vector3) MultiplyByScalar(s float64) Vector3 {
	return Vector3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vector3) Dot(vv Vector3) float64 {
	return (v.X * vv.X) + (v.Y * vv.Y) + (v.Z * vv.Z)
}

func (v Vector3) Cross(vv Vector3) Vector3 {
	return Vector3{
		(v.Y * vv.Z) - (v.Z * vv.Y),
		(v.Z * vv.X) - (v.X * vv.Z),
		(v.X * vv.Y) - (v.Y * vv.X),
	}
}

// Magnitude returns the length of the vector.
func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns a vector with the same direction and a length of one. The zero
// vector stays zero.
func (v Vector3) Unit() Vector3 {
	m := v.Magnitude()
	if m == 0 {
		return ZeroVector3
	}

	return v.MultiplyByScalar(1 / m)
}

// Distance calculates and returns the distance between this vector and another,
// as a float64.
func (v Vector3) Distance(vv Vector3) float64 {
	return v.Subtract(vv).Magnitude()
}

// XY projects the vector onto the ground plane.
func (v Vector3) XY() r2.Point {
	return r2.Point{X: v.X, Y: v.Y}
}

// Array returns the components as a slice, in x/y/z order.
func (v Vector3) Array() []float64 {
	return []float64{v.X, v.Y, v.Z}
}
