package solver

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kilianp07/unitcommit/core/logger"
	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/core/model"
)

// Outcome is the result of one run.
type Outcome struct {
	State    State
	Solution *Solution
	Duration time.Duration
}

// Adapter drives one backend through the run state machine with a bounded
// wait.
type Adapter struct {
	name    string
	backend Backend
	timeout time.Duration
	log     logger.Logger

	// OnTransition, when set, is called for every state change.
	OnTransition func(from, to State)
}

// NewAdapter returns an Adapter. A zero timeout selects DefaultTimeout.
func NewAdapter(name string, b Backend, timeout time.Duration, log logger.Logger) *Adapter {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{name: name, backend: b, timeout: timeout, log: log}
}

// Name returns the backend name.
func (a *Adapter) Name() string { return a.name }

// Timeout returns the bounded wait applied to each run.
func (a *Adapter) Timeout() time.Duration { return a.timeout }

type run struct {
	a     *Adapter
	state State
}

func (r *run) move(to State) {
	if !r.state.CanTransition(to) {
		panic(fmt.Sprintf("solver: invalid transition %s -> %s", r.state, to))
	}
	from := r.state
	r.state = to
	r.a.log.Debugw("solver state", map[string]any{"backend": r.a.name, "from": from.String(), "to": to.String()})
	if r.a.OnTransition != nil {
		r.a.OnTransition(from, to)
	}
}

// Solve submits p and waits for the backend. The returned error is
// model.ErrModelInfeasible for Infeasible, wraps model.ErrSolverTimeout for
// Timeout and is a *model.SolverError for Error. The outcome is never nil.
func (a *Adapter) Solve(ctx context.Context, p *milp.Program) (*Outcome, error) {
	r := &run{a: a, state: Built}
	start := time.Now()
	out := &Outcome{State: Built}
	finish := func(st State, sol *Solution) *Outcome {
		r.move(st)
		out.State = st
		out.Solution = sol
		out.Duration = time.Since(start)
		return out
	}

	if p == nil {
		finish(Error, nil)
		return out, &model.SolverError{Backend: a.name, Status: StatusError.String(), Err: errors.New("nil program")}
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	r.move(Submitted)
	a.log.Infow("program submitted", map[string]any{
		"backend":   a.name,
		"variables": p.NumVars(),
		"rows":      p.NumRows(),
		"integers":  p.NumIntegers(),
		"timeout":   a.timeout.String(),
	})

	sol, err := a.backend.Solve(ctx, p)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
			finish(Timeout, nil)
			a.log.Warnf("solver %s timed out after %s", a.name, a.timeout)
			return out, fmt.Errorf("%w: %s after %s", model.ErrSolverTimeout, a.name, a.timeout)
		}
		finish(Error, nil)
		a.log.Errorf("solver %s failed: %v", a.name, err)
		return out, &model.SolverError{Backend: a.name, Status: StatusError.String(), Err: err}
	}

	if sol == nil {
		finish(Error, nil)
		return out, &model.SolverError{Backend: a.name, Status: StatusUnknown.String(), Err: errors.New("empty response")}
	}

	st := Classify(sol.Status)
	if st.HasSolution() && !sol.HasValues(p) {
		finish(Error, nil)
		return out, &model.SolverError{
			Backend:     a.name,
			Status:      sol.Status.String(),
			Termination: sol.Termination,
			Err:         fmt.Errorf("solution has %d values, program has %d columns", len(sol.Values), p.NumVars()),
		}
	}
	if st.HasSolution() {
		finish(st, sol)
	} else {
		finish(st, nil)
	}
	a.log.Infow("solver finished", map[string]any{
		"backend":   a.name,
		"state":     st.String(),
		"objective": sol.Objective,
		"duration":  out.Duration.String(),
	})

	switch st {
	case Optimal, Feasible:
		return out, nil
	case Infeasible:
		return out, model.ErrModelInfeasible
	case Timeout:
		return out, fmt.Errorf("%w: %s: %s", model.ErrSolverTimeout, a.name, sol.Termination)
	default:
		return out, &model.SolverError{Backend: a.name, Status: sol.Status.String(), Termination: sol.Termination}
	}
}
