package commit

import (
	"fmt"

	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kilianp07/unitcommit/core/model"
)

// Precision is the number of decimals kept in reported power and cost.
const Precision = 2

// Extract turns a solved value vector into a schedule. Thermal output and
// battery power are rounded; battery power is reported as -net so that
// discharging is positive. Wind and PV report rated power times profile.
// Demand units are not part of the schedule.
func Extract(m *Model, x []float64) (*model.Schedule, error) {
	if len(x) != m.Program.NumVars() {
		return nil, fmt.Errorf("solution has %d values, program has %d columns", len(x), m.Program.NumVars())
	}
	s := model.NewSchedule()
	for i, u := range m.Fleet.Thermal {
		for k, h := range m.Params.Horizon.Hours() {
			s.Set(u.Name, h, round(x[m.thermal[i].power[k]]))
		}
	}
	for i, b := range m.Fleet.Batteries {
		for k, h := range m.Params.Horizon.Hours() {
			s.Set(b.Name, h, round(-x[m.batteries[i].net[k]]))
		}
	}
	for _, group := range [][]model.Unit{m.Fleet.Wind, m.Fleet.Solar} {
		for _, u := range group {
			for _, h := range m.Params.Horizon.Hours() {
				s.Set(u.Name, h, m.Profiles.Nominal(u, h))
			}
		}
	}
	s.TotalCost = round(m.Program.ObjectiveValue(x))
	return s, nil
}

func round(v float64) float64 {
	r := scalar.Round(v, Precision)
	if r == 0 {
		return 0 // drop negative zero
	}
	return r
}
