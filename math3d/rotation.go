package math3d

import (
	"fmt"
	"math"

	"github.com/adammck/legged/utils"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/num/quat"
)

// Rotation is a unit quaternion. The zero value is not a valid rotation; use
// IdentityRotation or one of the constructors.
type Rotation struct {
	q quat.Number
}

var (
	IdentityRotation = Rotation{quat.Number{Real: 1}}
)

// MakeRotation returns the rotation for the quaternion w + xi + yj + zk,
// normalized to unit length.
func MakeRotation(w, x, y, z float64) Rotation {
	return normalized(quat.Number{Real: w, Imag: x, Jmag: y, Kmag: z})
}

func normalized(q quat.Number) Rotation {
	n := quat.Abs(q)
	if n == 0 {
		return IdentityRotation
	}

	// Keep the real part non-negative, so equal rotations compare equal.
	if q.Real < 0 {
		n = -n
	}

	return Rotation{quat.Scale(1/n, q)}
}

// MakeYawRotation returns a rotation of yaw radians around the Z axis.
func MakeYawRotation(yaw float64) Rotation {
	return MakeRotation(math.Cos(yaw/2), 0, 0, math.Sin(yaw/2))
}

// MakeAxisAngleRotation returns a rotation of angle radians around axis.
func MakeAxisAngleRotation(axis Vector3, angle float64) Rotation {
	u := axis.Unit()
	s := math.Sin(angle / 2)
	return MakeRotation(math.Cos(angle/2), u.X*s, u.Y*s, u.Z*s)
}

func (r Rotation) String() string {
	return fmt.Sprintf("&Rot{w=%+.4f x=%+.4f y=%+.4f z=%+.4f}", r.q.Real, r.q.Imag, r.q.Jmag, r.q.Kmag)
}

// Quaternion returns the underlying unit quaternion.
func (r Rotation) Quaternion() quat.Number {
	if r.q == (quat.Number{}) {
		return IdentityRotation.q
	}

	return r.q
}

// Rotate applies the rotation to v.
func (r Rotation) Rotate(v Vector3) Vector3 {
	q := r.Quaternion()
	p := quat.Mul(quat.Mul(q, quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}), quat.Conj(q))
	return Vector3{p.Imag, p.Jmag, p.Kmag}
}

// InverseRotate applies the inverse of the rotation to v.
func (r Rotation) InverseRotate(v Vector3) Vector3 {
	return r.Inverted().Rotate(v)
}

// Multiply composes two rotations. The result applies rr first, then r.
func (r Rotation) Multiply(rr Rotation) Rotation {
	return normalized(quat.Mul(r.Quaternion(), rr.Quaternion()))
}

func (r Rotation) Inverted() Rotation {
	return normalized(quat.Conj(r.Quaternion()))
}

// Angle returns the angle (in radians, [0, pi]) of the rotation around its
// own axis.
func (r Rotation) Angle() float64 {
	w := math.Min(math.Abs(r.Quaternion().Real), 1)
	return 2 * math.Acos(w)
}

// AngleTo returns the angle of the rotation between r and rr.
func (r Rotation) AngleTo(rr Rotation) float64 {
	return r.Inverted().Multiply(rr).Angle()
}

// Yaw returns the heading (rotation around Z) of the ZYX Euler decomposition.
func (r Rotation) Yaw() float64 {
	return r.EulerAngles().Yaw
}

// EulerAngles returns the ZYX (yaw, pitch, roll) decomposition.
func (r Rotation) EulerAngles() EulerAngles {
	q := r.Quaternion()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	sp := utils.Clamp(2*(w*y-z*x), -1, 1)

	return EulerAngles{
		Roll:  math.Atan2(2*(w*x+y*z), 1-2*(x*x+y*y)),
		Pitch: math.Asin(sp),
		Yaw:   math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z)),
	}
}

// Matrix returns the 3x3 rotation matrix.
func (r Rotation) Matrix() *mat.Dense {
	q := r.Quaternion()
	w, x, y, z := q.Real, q.Imag, q.Jmag, q.Kmag

	return mat.NewDense(3, 3, []float64{
		1 - 2*(y*y+z*z), 2 * (x*y - w*z), 2 * (x*z + w*y),
		2 * (x*y + w*z), 1 - 2*(x*x+z*z), 2 * (y*z - w*x),
		2 * (x*z - w*y), 2 * (y*z + w*x), 1 - 2*(x*x+y*y),
	})
}

// RotationFromMatrix returns the rotation closest to the given 3x3 matrix. The
// matrix is first projected onto SO(3) (via its SVD), so approximations like
// I + yaw*R* come back as proper rotations.
func RotationFromMatrix(m mat.Matrix) (Rotation, error) {
	if r, c := m.Dims(); r != 3 || c != 3 {
		return IdentityRotation, fmt.Errorf("rotation matrix must be 3x3, got %dx%d", r, c)
	}

	var svd mat.SVD
	if !svd.Factorize(m, mat.SVDFull) {
		return IdentityRotation, fmt.Errorf("svd failed for %v", mat.Formatted(m))
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	// R = U * diag(1, 1, det(U*V')) * V'
	var uv mat.Dense
	uv.Mul(&u, v.T())
	if mat.Det(&uv) < 0 {
		for i := 0; i < 3; i++ {
			u.Set(i, 2, -u.At(i, 2))
		}
		uv.Mul(&u, v.T())
	}

	return rotationFromOrthonormal(&uv), nil
}

func rotationFromOrthonormal(m mat.Matrix) Rotation {
	m00, m01, m02 := m.At(0, 0), m.At(0, 1), m.At(0, 2)
	m10, m11, m12 := m.At(1, 0), m.At(1, 1), m.At(1, 2)
	m20, m21, m22 := m.At(2, 0), m.At(2, 1), m.At(2, 2)

	tr := m00 + m11 + m22
	switch {
	case tr > 0:
		s := math.Sqrt(tr+1) * 2
		return MakeRotation(s/4, (m21-m12)/s, (m02-m20)/s, (m10-m01)/s)

	case m00 > m11 && m00 > m22:
		s := math.Sqrt(1+m00-m11-m22) * 2
		return MakeRotation((m21-m12)/s, s/4, (m01+m10)/s, (m02+m20)/s)

	case m11 > m22:
		s := math.Sqrt(1+m11-m00-m22) * 2
		return MakeRotation((m02-m20)/s, (m01+m10)/s, s/4, (m12+m21)/s)

	default:
		s := math.Sqrt(1+m22-m00-m11) * 2
		return MakeRotation((m10-m01)/s, (m02+m20)/s, (m12+m21)/s, s/4)
	}
}
