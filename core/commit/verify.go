package commit

import (
	"math"

	"github.com/kilianp07/unitcommit/core/milp"
)

// DefaultTolerance is the absolute tolerance used when checking solver
// output.
const DefaultTolerance = 1e-4

// Check evaluates the schedule properties against a value vector: program
// rows and bounds, demand balance, commitment bounds, ramps, exclusive
// charge and discharge, storage bounds and start consistency. It returns
// every violation larger than tol.
func (m *Model) Check(x []float64, tol float64) []milp.Violation {
	out := m.Program.Violations(x, tol)
	if len(x) != m.Program.NumVars() {
		return out
	}
	add := func(kind, name string, amount float64) {
		if amount > tol {
			out = append(out, milp.Violation{Kind: kind, Name: name, Amount: amount})
		}
	}
	for k, h := range m.Params.Horizon.Hours() {
		supply := 0.0
		for _, c := range m.thermal {
			supply += x[c.power[k]]
		}
		for _, c := range m.batteries {
			supply -= x[c.load[k]] + x[c.reload[k]]
		}
		add("balance", rowName("demand", h), math.Abs(supply-m.NetDemand[k]))
	}

	for i, u := range m.Fleet.Thermal {
		c := m.thermal[i]
		for k, h := range m.Params.Horizon.Hours() {
			power, on := x[c.power[k]], x[c.on[k]]
			name := colName("power", "t", i, h)
			add("commitment", name, power-u.RatedPower*on)
			add("commitment", name, m.Params.MinPowerFraction*u.RatedPower*on-power)
			prevOn := 0.0
			if k > 0 {
				add("ramp", name, math.Abs(power-x[c.power[k-1]])-u.RampLimit)
				prevOn = x[c.on[k-1]]
			}
			add("start", colName("start", "t", i, h), math.Abs(x[c.start[k]]-(on-prevOn)))
		}
	}

	for i, b := range m.Fleet.Batteries {
		c := m.batteries[i]
		capacity := m.Params.Capacity(b)
		for k, h := range m.Params.Horizon.Hours() {
			load, reload := x[c.load[k]], x[c.reload[k]]
			if load > tol && reload < -tol {
				add("exclusivity", colName("load", "b", i, h), math.Min(load, -reload))
			}
			v := x[c.volume[k]]
			name := colName("volume", "b", i, h)
			add("storage", name, -v)
			add("storage", name, v-capacity)
		}
	}
	return out
}
