package commit

import (
	"context"
	"errors"
	"time"

	"github.com/kilianp07/unitcommit/core/logger"
	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/core/solver"
)

// Solver submits a built program.
type Solver interface {
	Solve(ctx context.Context, p *milp.Program) (*solver.Outcome, error)
}

// Report describes one scheduling run. Schedule is nil unless the run
// reached Optimal or Feasible.
type Report struct {
	Schedule   *model.Schedule
	State      solver.State
	Variables  int
	Rows       int
	Binaries   int
	Costs      Costs
	Duration   time.Duration
	Violations []milp.Violation
}

// Scheduler runs the whole pipeline for one fleet and profile set.
type Scheduler struct {
	params    Params
	solver    Solver
	log       logger.Logger
	Tolerance float64
}

// NewScheduler returns a Scheduler using params and the given solver.
func NewScheduler(p Params, s Solver, log logger.Logger) *Scheduler {
	return &Scheduler{params: p, solver: s, log: log, Tolerance: DefaultTolerance}
}

// Params returns the model constants in use.
func (s *Scheduler) Params() Params { return s.params }

// Prepare classifies the units, resolves the profiles and builds the
// program. The capacity screen runs last; on failure the built model is
// still returned with the error.
func (s *Scheduler) Prepare(units []model.Unit, profiles model.Profiles) (*Model, error) {
	seen := make(map[string]struct{}, len(units))
	for _, u := range units {
		if _, dup := seen[u.Name]; dup {
			return nil, &model.InputValidationError{Unit: u.Name, Field: "name", Reason: "duplicate unit name"}
		}
		seen[u.Name] = struct{}{}
		if err := u.Validate(); err != nil {
			return nil, err
		}
	}
	fleet := Classify(units)
	for _, u := range fleet.Unscheduled {
		s.log.Warnf("unit %s has unknown role and is not scheduled", u.Name)
	}
	resolved, err := ResolveProfiles(profiles, fleet, s.params.Horizon)
	if err != nil {
		return nil, err
	}
	m, err := Build(fleet, resolved, s.params)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("model built", map[string]any{
		"thermal":   len(fleet.Thermal),
		"batteries": len(fleet.Batteries),
		"variables": m.Program.NumVars(),
		"rows":      m.Program.NumRows(),
		"binaries":  m.Program.NumBinaries(),
	})
	return m, m.Screen()
}

// Run schedules units over the horizon. A non-nil report is returned
// whenever the model was built, including on failure.
func (s *Scheduler) Run(ctx context.Context, units []model.Unit, profiles model.Profiles) (*Report, error) {
	start := time.Now()
	m, err := s.Prepare(units, profiles)
	if m == nil {
		return nil, err
	}
	rep := &Report{
		State:     solver.Built,
		Variables: m.Program.NumVars(),
		Rows:      m.Program.NumRows(),
		Binaries:  m.Program.NumBinaries(),
	}
	if err != nil {
		var ce *CapacityError
		if errors.As(err, &ce) {
			s.log.Warnf("capacity screen: %v", ce)
			rep.State = solver.Infeasible
		}
		rep.Duration = time.Since(start)
		return rep, err
	}

	// Nothing to dispatch: renewables and demand already balance.
	if m.Program.NumVars() == 0 {
		rep.Schedule, err = Extract(m, nil)
		rep.State = solver.Optimal
		rep.Duration = time.Since(start)
		return rep, err
	}

	out, err := s.solver.Solve(ctx, m.Program)
	if out != nil {
		rep.State = out.State
	}
	if err != nil {
		rep.Duration = time.Since(start)
		return rep, err
	}

	x := out.Solution.Values
	rep.Violations = m.Check(x, s.Tolerance)
	for _, v := range rep.Violations {
		s.log.Warnf("solution check: %s", v)
	}
	rep.Costs = m.Costs(x)
	rep.Schedule, err = Extract(m, x)
	rep.Duration = time.Since(start)
	return rep, err
}
