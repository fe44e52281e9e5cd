package solver

import (
	"context"

	"github.com/kilianp07/unitcommit/core/milp"
)

// Status is the outcome reported by a backend.
type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	// StatusFeasible means an integer solution was found but the search
	// stopped before proving optimality.
	StatusFeasible
	StatusInfeasible
	StatusUnbounded
	// StatusLimit means the search stopped on a limit without any integer
	// solution.
	StatusLimit
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusFeasible:
		return "feasible"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusLimit:
		return "limit"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Solution is what a backend returns for a program. Values follows the
// column order of the program.
type Solution struct {
	Status Status
	// Termination is the raw reason given by the backend.
	Termination string
	Objective   float64
	Values      []float64
}

// HasValues reports whether the solution carries a full value vector for p.
func (s *Solution) HasValues(p *milp.Program) bool {
	return s != nil && len(s.Values) == p.NumVars()
}

// Backend solves a program. Implementations must honour ctx cancellation and
// should use the context deadline as their time limit.
type Backend interface {
	Solve(ctx context.Context, p *milp.Program) (*Solution, error)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, p *milp.Program) (*Solution, error)

// Solve calls f.
func (f BackendFunc) Solve(ctx context.Context, p *milp.Program) (*Solution, error) {
	return f(ctx, p)
}
