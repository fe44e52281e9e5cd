package commit

import "github.com/kilianp07/unitcommit/core/model"

// DeviationSlopes returns the cost per MW of moving a committed plant above
// (pos) and below (neg) its operating point. neg is negative so that the
// product with the non-positive deviation column is a positive cost. Both
// pieces reach base*multiplier at the power extremes.
func DeviationSlopes(u model.Unit, p Params) (pos, neg float64) {
	if u.RatedPower == 0 {
		return 0, 0
	}
	extra := u.VariableCost * (p.DeviationCostMultiplier - 1)
	pos = extra / (u.RatedPower * (1 - p.OperatingPointFraction))
	neg = extra / (u.RatedPower * (p.MinPowerFraction - p.OperatingPointFraction))
	return pos, neg
}

// StartupCost is charged once per off-to-on transition. Shutdowns are free.
func StartupCost(u model.Unit, p Params) float64 {
	return p.StartupCostMultiplier * u.RatedPower * u.VariableCost
}

// hourlyCost evaluates the two-piece variable cost of a committed plant
// producing power for one hour. The curve equals the base cost at the
// operating point.
func hourlyCost(u model.Unit, p Params, power float64) float64 {
	pos, neg := DeviationSlopes(u, p)
	dev := power - p.OperatingPointFraction*u.RatedPower
	if dev >= 0 {
		return u.VariableCost + pos*dev
	}
	return u.VariableCost + neg*dev
}

// applyCosts fills the objective: base cost while committed plus both
// deviation pieces, start-up cost on the positive start part, and the
// battery charge cost on loaded energy.
func (m *Model) applyCosts() {
	p := m.Program
	for i, u := range m.Fleet.Thermal {
		c := m.thermal[i]
		pos, neg := DeviationSlopes(u, m.Params)
		start := StartupCost(u, m.Params)
		for k := range c.power {
			p.AddCost(c.on[k], u.VariableCost)
			p.AddCost(c.posDev[k], pos)
			p.AddCost(c.negDev[k], neg)
			p.AddCost(c.startPos[k], start)
		}
	}
	for i, b := range m.Fleet.Batteries {
		c := m.batteries[i]
		for k := range c.load {
			p.AddCost(c.load[k], b.VariableCost)
		}
	}
}

// Costs splits the objective of a solution by term.
type Costs struct {
	Variable float64
	Startup  float64
	Charge   float64
}

// Total returns the sum of all terms.
func (c Costs) Total() float64 { return c.Variable + c.Startup + c.Charge }

// Costs recomputes the cost terms of a solution from the unit data.
func (m *Model) Costs(x []float64) Costs {
	var out Costs
	for i, u := range m.Fleet.Thermal {
		c := m.thermal[i]
		pos, neg := DeviationSlopes(u, m.Params)
		for k := range c.power {
			out.Variable += u.VariableCost*x[c.on[k]] + pos*x[c.posDev[k]] + neg*x[c.negDev[k]]
			out.Startup += StartupCost(u, m.Params) * x[c.startPos[k]]
		}
	}
	for i, b := range m.Fleet.Batteries {
		c := m.batteries[i]
		for k := range c.load {
			out.Charge += b.VariableCost * x[c.load[k]]
		}
	}
	return out
}
