package commit

import "github.com/kilianp07/unitcommit/core/milp"

// reformulateExclusivity replaces "load = 0 or reload = 0" by its convex
// hull. A binary selects the charging branch; each branch owns a copy of
// load and reload whose range is scaled by the branch indicator, and the
// original columns are the sum of the copies.
func (m *Model) reformulateExclusivity(i int) {
	p := m.Program
	b := m.Fleet.Batteries[i]
	c := &m.batteries[i]
	n := m.Params.Horizon.Len()
	c.charging = make([]int, n)
	c.chargeLoad = make([]int, n)
	c.chargeReload = make([]int, n)
	c.dischargeLoad = make([]int, n)
	c.dischargeReload = make([]int, n)

	rated := b.RatedPower
	for k, h := range m.Params.Horizon.Hours() {
		y := p.AddVar(colName("charging", "b", i, h), 0, 1, milp.Binary)
		lc := p.AddVar(colName("loadc", "b", i, h), 0, rated, milp.Continuous)
		rc := p.AddVar(colName("reloadc", "b", i, h), -rated, 0, milp.Continuous)
		ld := p.AddVar(colName("loadd", "b", i, h), 0, rated, milp.Continuous)
		rd := p.AddVar(colName("reloadd", "b", i, h), -rated, 0, milp.Continuous)
		c.charging[k], c.chargeLoad[k], c.chargeReload[k] = y, lc, rc
		c.dischargeLoad[k], c.dischargeReload[k] = ld, rd

		// charging branch: 0 <= loadc <= P*y, reloadc = 0
		p.AddRow(colName("hull_loadc", "b", i, h), milp.LE, 0, milp.T(lc, 1), milp.T(y, -rated))
		p.AddRow(colName("hull_reloadc", "b", i, h), milp.GE, 0, milp.T(rc, 1), milp.T(y, rated))
		p.AddRow(colName("branch_c", "b", i, h), milp.EQ, 0, milp.T(rc, 1))

		// discharging branch: -P*(1-y) <= reloadd <= 0, loadd = 0
		p.AddRow(colName("hull_loadd", "b", i, h), milp.LE, rated, milp.T(ld, 1), milp.T(y, rated))
		p.AddRow(colName("hull_reloadd", "b", i, h), milp.GE, -rated, milp.T(rd, 1), milp.T(y, -rated))
		p.AddRow(colName("branch_d", "b", i, h), milp.EQ, 0, milp.T(ld, 1))

		p.AddRow(colName("agg_load", "b", i, h), milp.EQ, 0,
			milp.T(c.load[k], 1), milp.T(lc, -1), milp.T(ld, -1))
		p.AddRow(colName("agg_reload", "b", i, h), milp.EQ, 0,
			milp.T(c.reload[k], 1), milp.T(rc, -1), milp.T(rd, -1))
	}
}
