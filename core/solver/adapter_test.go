package solver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/core/model"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func twoColumns() *milp.Program {
	p := milp.New("t")
	x := p.AddVar("x", 0, 10, milp.Continuous)
	y := p.AddVar("y", 0, 1, milp.Binary)
	p.AddRow("link", milp.LE, 0, milp.T(x, 1), milp.T(y, -10))
	p.AddCost(x, 1)
	return p
}

func fixed(sol *Solution, err error) Backend {
	return BackendFunc(func(context.Context, *milp.Program) (*Solution, error) { return sol, err })
}

func solveWith(t *testing.T, b Backend, timeout time.Duration) (*Outcome, error, []State) {
	t.Helper()
	a := NewAdapter("fake", b, timeout, nopLogger{})
	var seen []State
	a.OnTransition = func(_, to State) { seen = append(seen, to) }
	out, err := a.Solve(context.Background(), twoColumns())
	require.NotNil(t, out)
	return out, err, seen
}

func TestAdapter_Optimal(t *testing.T) {
	out, err, seen := solveWith(t, fixed(&Solution{Status: StatusOptimal, Objective: 0, Values: []float64{0, 0}}, nil), time.Second)
	require.NoError(t, err)
	assert.Equal(t, Optimal, out.State)
	assert.Equal(t, []State{Submitted, Optimal}, seen)
	assert.Equal(t, []float64{0, 0}, out.Solution.Values)
}

func TestAdapter_Feasible(t *testing.T) {
	out, err, _ := solveWith(t, fixed(&Solution{Status: StatusFeasible, Values: []float64{1, 1}}, nil), time.Second)
	require.NoError(t, err)
	assert.Equal(t, Feasible, out.State)
}

func TestAdapter_Infeasible(t *testing.T) {
	out, err, _ := solveWith(t, fixed(&Solution{Status: StatusInfeasible}, nil), time.Second)
	assert.ErrorIs(t, err, model.ErrModelInfeasible)
	assert.Equal(t, Infeasible, out.State)
	assert.Nil(t, out.Solution)
}

func TestAdapter_LimitWithoutSolution(t *testing.T) {
	out, err, _ := solveWith(t, fixed(&Solution{Status: StatusLimit, Termination: "stopped on time"}, nil), time.Second)
	assert.ErrorIs(t, err, model.ErrSolverTimeout)
	assert.Equal(t, Timeout, out.State)
	assert.Nil(t, out.Solution)
}

func TestAdapter_Unbounded(t *testing.T) {
	out, err, _ := solveWith(t, fixed(&Solution{Status: StatusUnbounded, Termination: "unbounded"}, nil), time.Second)
	var se *model.SolverError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "unbounded", se.Status)
	assert.Equal(t, Error, out.State)
	assert.Nil(t, out.Solution)
	assert.False(t, errors.Is(err, model.ErrModelInfeasible))
}

func TestAdapter_BackendError(t *testing.T) {
	boom := errors.New("exec: cbc not found")
	out, err, _ := solveWith(t, fixed(nil, boom), time.Second)
	var se *model.SolverError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "fake", se.Backend)
	assert.Equal(t, Error, out.State)
}

func TestAdapter_WrongValueCount(t *testing.T) {
	out, err, _ := solveWith(t, fixed(&Solution{Status: StatusOptimal, Values: []float64{1}}, nil), time.Second)
	var se *model.SolverError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Error, out.State)
}

func TestAdapter_Timeout(t *testing.T) {
	slow := BackendFunc(func(ctx context.Context, _ *milp.Program) (*Solution, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	out, err, seen := solveWith(t, slow, 20*time.Millisecond)
	assert.ErrorIs(t, err, model.ErrSolverTimeout)
	assert.Equal(t, Timeout, out.State)
	assert.Equal(t, []State{Submitted, Timeout}, seen)
}

func TestAdapter_NilProgram(t *testing.T) {
	a := NewAdapter("fake", fixed(nil, nil), 0, nopLogger{})
	assert.Equal(t, DefaultTimeout, a.Timeout())
	out, err := a.Solve(context.Background(), nil)
	var se *model.SolverError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, Error, out.State)
}

func TestState_Transitions(t *testing.T) {
	assert.True(t, Built.CanTransition(Submitted))
	assert.False(t, Built.CanTransition(Optimal))
	for _, s := range []State{Optimal, Feasible, Infeasible, Timeout, Error} {
		assert.True(t, Submitted.CanTransition(s), s.String())
		assert.True(t, s.Terminal())
		assert.False(t, s.CanTransition(Submitted))
	}
	assert.Equal(t, "state(42)", State(42).String())
}

func TestClassify(t *testing.T) {
	cases := map[Status]State{
		StatusOptimal:    Optimal,
		StatusFeasible:   Feasible,
		StatusInfeasible: Infeasible,
		StatusLimit:      Timeout,
		StatusUnbounded:  Error,
		StatusError:      Error,
		StatusUnknown:    Error,
	}
	for st, want := range cases {
		assert.Equal(t, want, Classify(st), st.String())
	}
}
