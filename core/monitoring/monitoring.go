// Package monitoring reports run failures to an error tracker.
package monitoring

import (
	"errors"
	"time"

	"github.com/kilianp07/unitcommit/core/model"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	Recover()
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) Recover()                                  {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if current != nil {
		current.CaptureException(err, tags)
	}
}

// ErrorClass names the kind of a run failure.
func ErrorClass(err error) string {
	var (
		ce *model.ConfigurationError
		ie *model.InputValidationError
		se *model.SolverError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ce):
		return "configuration"
	case errors.As(err, &ie):
		return "input"
	case errors.Is(err, model.ErrModelInfeasible):
		return "infeasible"
	case errors.Is(err, model.ErrSolverTimeout):
		return "timeout"
	case errors.As(err, &se):
		return "solver"
	default:
		return "internal"
	}
}

// CaptureRunError reports a failed run. Infeasible models and rejected
// input are outcomes of the data, not faults, and are not reported.
func CaptureRunError(err error, runID, backend string) {
	class := ErrorClass(err)
	switch class {
	case "", "infeasible", "input":
		return
	}
	CaptureException(err, map[string]string{"run_id": runID, "backend": backend, "error_class": class})
}

// Recover captures panics in goroutines.
func Recover() {
	if current != nil {
		current.Recover()
	}
}

// Flush flushes buffered events.
func Flush(d time.Duration) {
	if current != nil {
		current.Flush(d)
	}
}
