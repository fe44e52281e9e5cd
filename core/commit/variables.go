package commit

import (
	"github.com/kilianp07/unitcommit/core/milp"
	"github.com/kilianp07/unitcommit/core/model"
)

// declareThermal adds the columns of a thermal plant. Deviation bounds are
// tied to the operating point so that no separate bound rows are needed.
func (m *Model) declareThermal(i int, u model.Unit) thermalCols {
	p := m.Program
	n := m.Params.Horizon.Len()
	c := thermalCols{
		power: make([]int, n), on: make([]int, n),
		posDev: make([]int, n), negDev: make([]int, n),
		start: make([]int, n), startPos: make([]int, n), startNeg: make([]int, n),
	}
	posMax := u.RatedPower * (1 - m.Params.OperatingPointFraction)
	negMin := -u.RatedPower * (m.Params.OperatingPointFraction - m.Params.MinPowerFraction)
	for k, h := range m.Params.Horizon.Hours() {
		c.power[k] = p.AddVar(colName("power", "t", i, h), 0, u.RatedPower, milp.Continuous)
		c.on[k] = p.AddVar(colName("on", "t", i, h), 0, 1, milp.Binary)
		c.posDev[k] = p.AddVar(colName("devp", "t", i, h), 0, posMax, milp.Continuous)
		c.negDev[k] = p.AddVar(colName("devn", "t", i, h), negMin, 0, milp.Continuous)
		c.start[k] = p.AddVar(colName("start", "t", i, h), -1, 1, milp.Integer)
		c.startPos[k] = p.AddVar(colName("startp", "t", i, h), 0, 1, milp.Integer)
		c.startNeg[k] = p.AddVar(colName("startn", "t", i, h), -1, 0, milp.Integer)
	}
	return c
}

// declareBattery adds the columns of a battery. The net column follows
// net = load + reload and is therefore positive while charging; Extract
// reports it with the sign flipped.
func (m *Model) declareBattery(i int, b model.Unit) batteryCols {
	p := m.Program
	n := m.Params.Horizon.Len()
	c := batteryCols{
		net: make([]int, n), load: make([]int, n),
		reload: make([]int, n), volume: make([]int, n),
	}
	capacity := m.Params.Capacity(b)
	for k, h := range m.Params.Horizon.Hours() {
		c.net[k] = p.AddVar(colName("net", "b", i, h), -b.RatedPower, b.RatedPower, milp.Continuous)
		c.load[k] = p.AddVar(colName("load", "b", i, h), 0, b.RatedPower, milp.Continuous)
		c.reload[k] = p.AddVar(colName("reload", "b", i, h), -b.RatedPower, 0, milp.Continuous)
		c.volume[k] = p.AddVar(colName("volume", "b", i, h), 0, capacity, milp.Continuous)
	}
	return c
}
