package adapter

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/adammck/legged/stats"
)

var (
	// ErrTransformUnavailable is returned by a Robot when it has no current
	// estimate of a frame transform, e.g. before localization has started.
	ErrTransformUnavailable = errors.New("frame transform unavailable")
)

const (
	kindPosition    = "position"
	kindOrientation = "orientation"
	kindTransform   = "transform"
)

// FrameError is returned for any unsupported pair of frames, and when a
// transform needed to relate them is not available right now.
type FrameError struct {
	Kind   string
	Input  string
	Output string
	Err    error
}

func newFrameError(kind, input, output string, err error) *FrameError {
	stats.FrameErrors.WithLabelValues(kind).Inc()
	return &FrameError{
		Kind:   kind,
		Input:  input,
		Output: output,
		Err:    err,
	}
}

func (e *FrameError) Error() string {
	msg := fmt.Sprintf("invalid frame for transforming %s (input frame: %s, output frame: %s)", e.Kind, e.Input, e.Output)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *FrameError) Unwrap() error {
	return e.Err
}
