package commit

import (
	"context"
	"math"
	"testing"

	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/core/solver"
)

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Infow(string, map[string]any)  {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}

func flat(v float64) []float64 {
	out := make([]float64, model.DayAhead.Len())
	for i := range out {
		out[i] = v
	}
	return out
}

// dispatch is a hand-made schedule indexed by fleet position then hour-1.
type dispatch struct {
	thermal [][]float64
	load    [][]float64
	reload  [][]float64
}

// vector derives every column of m from a dispatch so that the result
// satisfies all rows whenever the dispatch itself is physically valid.
func vector(m *Model, d dispatch) []float64 {
	x := make([]float64, m.Program.NumVars())
	op := m.Params.OperatingPointFraction
	for i, u := range m.Fleet.Thermal {
		c := m.thermal[i]
		prevOn := 0.0
		for k := range c.power {
			power := d.thermal[i][k]
			on := 0.0
			if power > 0 {
				on = 1
			}
			dev := power - op*u.RatedPower*on
			x[c.power[k]] = power
			x[c.on[k]] = on
			x[c.posDev[k]] = math.Max(dev, 0)
			x[c.negDev[k]] = math.Min(dev, 0)
			start := on - prevOn
			x[c.start[k]] = start
			x[c.startPos[k]] = math.Max(start, 0)
			x[c.startNeg[k]] = math.Min(start, 0)
			prevOn = on
		}
	}
	for i, b := range m.Fleet.Batteries {
		c := m.batteries[i]
		volume := m.Params.InitialVolume(b)
		for k := range c.net {
			load, reload := d.load[i][k], d.reload[i][k]
			x[c.load[k]] = load
			x[c.reload[k]] = reload
			x[c.net[k]] = load + reload
			volume += m.Params.RoundTripEfficiency*load + reload
			x[c.volume[k]] = volume
			if reload < 0 {
				x[c.charging[k]] = 0
				x[c.dischargeReload[k]] = reload
			} else {
				x[c.charging[k]] = 1
				x[c.chargeLoad[k]] = load
			}
		}
	}
	return x
}

// vectorBackend answers every program with a fixed value vector.
func vectorBackend(x []float64) solver.Backend {
	return solver.BackendFunc(func(_ context.Context, p *milp.Program) (*solver.Solution, error) {
		return &solver.Solution{Status: solver.StatusOptimal, Objective: p.ObjectiveValue(x), Values: x}, nil
	})
}

// forbidden fails the test when the solver is reached.
func forbidden(t *testing.T) solver.Backend {
	return solver.BackendFunc(func(context.Context, *milp.Program) (*solver.Solution, error) {
		t.Fatal("solver must not be called")
		return nil, nil
	})
}

func newTestScheduler(p Params, b solver.Backend) *Scheduler {
	return NewScheduler(p, solver.NewAdapter("fake", b, 0, nopLogger{}), nopLogger{})
}
