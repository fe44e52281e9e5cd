package model

import (
	"errors"
	"fmt"
)

// ErrModelInfeasible indicates that no schedule meets demand with the given
// fleet. Callers should recompute with different inputs.
var ErrModelInfeasible = errors.New("no feasible schedule exists")

// ErrSolverTimeout indicates the solver did not finish within the configured wait.
var ErrSolverTimeout = errors.New("solver timeout")

// ConfigurationError reports a missing or invalid setting. It is fatal and
// prevents any run.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Reason)
}

// InputValidationError reports unit or profile data rejected before model
// construction.
type InputValidationError struct {
	Unit   string
	Field  string
	Reason string
}

func (e *InputValidationError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid input: unit %s: %s: %s", e.Unit, e.Field, e.Reason)
}

// SolverError reports an unexpected solver outcome. Callers should retry later
// or check the solver environment.
type SolverError struct {
	Backend     string
	Status      string
	Termination string
	Err         error
}

func (e *SolverError) Error() string {
	msg := fmt.Sprintf("solver %s failed (status=%s, termination=%s)", e.Backend, e.Status, e.Termination)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SolverError) Unwrap() error { return e.Err }
