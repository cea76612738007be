package experiment

import (
	"errors"
	"fmt"
)

var (
	ErrNotSetup      = errors.New("experiment: not set up")
	ErrUnknownMode   = errors.New("experiment: unknown mode")
	ErrUnknownMetric = errors.New("experiment: unknown metric")
)

// RunError reports where a headless run stopped.
type RunError struct {
	Frame int
	Time  float64
	Body  string
	Err   error
}

func (e *RunError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("frame %d (t=%.4f): body %s: %v", e.Frame, e.Time, e.Body, e.Err)
	}
	return fmt.Sprintf("frame %d (t=%.4f): %v", e.Frame, e.Time, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }
