// Package stance finds the body pose which best fits the feet currently on the
// ground to the nominal leg configuration, without leaving the support polygon.
//
// Only the planar position and yaw of the body are optimized. The rotation is
// linearized around the current orientation R0, so that a foot at nominal
// position n (in the base frame) is predicted to be at:
//
//	p + R0 (I + yaw R*) n
//
// where R* is the generator of rotation around Z. This is a single step; large
// yaw corrections should be refined by calling Optimize again with the result.
package stance

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/mat"

	"github.com/adammck/legged"
	"github.com/adammck/legged/math3d"
	"github.com/adammck/legged/polygon"
	"github.com/adammck/legged/qp"
	"github.com/adammck/legged/stats"
)

const (

	// x, y, yaw
	nStates = 3
)

var (
	ErrOptimizationFailed = errors.New("pose optimization failed")
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "stance",
})

// rStar is the derivative of a rotation around Z, at zero.
var rStar = mat.NewDense(3, 3, []float64{
	0, -1, 0,
	1, 0, 0,
	0, 0, 0,
})

type PoseOptimization struct {

	// Current foot positions, in the world frame.
	stance legged.Stance

	// Desired foot positions, in the base frame.
	nominal legged.Stance

	// Explicit support polygon, or nil to use the convex hull of the stance.
	polygon *polygon.Polygon
}

func NewPoseOptimization() *PoseOptimization {
	return &PoseOptimization{
		stance:  legged.Stance{},
		nominal: legged.Stance{},
	}
}

// SetFeetPositions sets the positions (in the world frame) of the feet which
// are currently on the ground.
func (o *PoseOptimization) SetFeetPositions(stance legged.Stance) {
	o.stance = stance.Copy()
}

// SetDesiredLegConfiguration sets where each foot should be relative to the
// base, in the base frame.
func (o *PoseOptimization) SetDesiredLegConfiguration(nominal legged.Stance) {
	o.nominal = nominal.Copy()
}

// SetSupportPolygon constrains the position of the body. Pass nil to go back to
// the convex hull of the feet.
func (o *PoseOptimization) SetSupportPolygon(p *polygon.Polygon) {
	o.polygon = p
}

// SupportPolygon returns the polygon which the body position is constrained to.
func (o *PoseOptimization) SupportPolygon() *polygon.Polygon {
	if o.polygon != nil {
		return o.polygon
	}

	limbs := o.stance.Limbs()
	pts := make([]r2.Point, len(limbs))
	for i, l := range limbs {
		pts[i] = o.stance[l].XY()
	}

	return polygon.ConvexHull(pts)
}

// Optimize returns the pose nearest to the given one (which should be the
// current pose of the base in the world frame) which best fits the feet to the
// nominal configuration. Only x, y and yaw are changed. The given pose is not
// modified, and on error should be kept.
func (o *PoseOptimization) Optimize(pose math3d.Pose) (math3d.Pose, error) {
	p, err := o.optimize(pose)
	stats.PoseOptimizations.WithLabelValues(stats.Result(err)).Inc()
	if err != nil {
		return pose, err
	}

	return p, nil
}

func (o *PoseOptimization) optimize(pose math3d.Pose) (math3d.Pose, error) {
	limbs := o.stance.Limbs()
	if len(limbs) == 0 {
		return pose, errors.Wrap(ErrOptimizationFailed, "no feet")
	}

	r0 := pose.Rotation.Matrix()

	var r0rs mat.Dense
	r0rs.Mul(r0, rStar)

	// Minimize |Ax - b|²
	A := mat.NewDense(2*len(limbs), nStates, nil)
	b := mat.NewVecDense(2*len(limbs), nil)

	for i, l := range limbs {
		n, ok := o.nominal[l]
		if !ok {
			return pose, errors.Wrapf(ErrOptimizationFailed, "no nominal position for %s", l)
		}

		nv := mat.NewVecDense(3, n.Array())

		var yawCol, rotated mat.VecDense
		yawCol.MulVec(&r0rs, nv)
		rotated.MulVec(r0, nv)

		foot := o.stance[l]
		for j, v := range []float64{foot.X, foot.Y} {
			row := 2*i + j
			A.Set(row, j, 1)
			A.Set(row, 2, yawCol.AtVec(j))
			b.SetVec(row, v-rotated.AtVec(j))
		}
	}

	log.Debugf("R0:\n%v", mat.Formatted(r0, mat.Prefix("  ")))
	log.Debugf("A:\n%v", mat.Formatted(A, mat.Prefix("  ")))
	log.Debugf("b:\n%v", mat.Formatted(b, mat.Prefix("  ")))

	// Gx ≤ h, with a zero column for yaw.
	var G mat.Matrix
	Gp, h := o.SupportPolygon().InequalityConstraints()
	if Gp != nil {
		rows, _ := Gp.Dims()
		g := mat.NewDense(rows, nStates, nil)
		g.Slice(0, rows, 0, 2).(*mat.Dense).Copy(Gp)
		G = g

		log.Debugf("G:\n%v", mat.Formatted(g, mat.Prefix("  ")))
		log.Debugf("h: %v", h)
	}

	// P = 2AᵀA, q = -2Aᵀb
	var P mat.SymDense
	P.SymOuterK(2, A.T())

	var q mat.VecDense
	q.MulVec(A.T(), b)
	q.ScaleVec(-2, &q)

	x, err := qp.Solve(&P, q.RawVector().Data, G, h)
	if err != nil {
		return pose, errors.Wrapf(ErrOptimizationFailed, "%v", err)
	}

	log.Debugf("x: %v", x)

	yaw := x[2]

	var approx mat.Dense
	approx.Scale(yaw, rStar)
	for i := 0; i < 3; i++ {
		approx.Set(i, i, approx.At(i, i)+1)
	}

	var rot mat.Dense
	rot.Mul(r0, &approx)

	r, err := math3d.RotationFromMatrix(&rot)
	if err != nil {
		return pose, errors.Wrapf(ErrOptimizationFailed, "%v", err)
	}

	out := math3d.Pose{
		Position: math3d.MakeVector3(x[0], x[1], pose.Position.Z),
		Rotation: r,
	}

	log.Debugf("optimized %s -> %s", pose, out)
	return out, nil
}
