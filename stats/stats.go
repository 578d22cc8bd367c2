// Package stats holds the prometheus counters updated by the motion
// components. They are registered on Registry rather than the default
// registerer, so tests and multiple robots in one process don't collide.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

var (
	Registry = prometheus.NewRegistry()

	FootstepComputations = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "legged_footstep_computations_total",
		Help: "Swing trajectory computations, by result.",
	}, []string{"result"})

	PoseOptimizations = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "legged_pose_optimizations_total",
		Help: "Stance pose optimizations, by result.",
	}, []string{"result"})

	FrameErrors = promauto.With(Registry).NewCounterVec(prometheus.CounterOpts{
		Name: "legged_frame_errors_total",
		Help: "Rejected frame transforms, by kind.",
	}, []string{"kind"})
)

// Result returns the result label for err.
func Result(err error) string {
	if err != nil {
		return ResultError
	}

	return ResultOK
}
