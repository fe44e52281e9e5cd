package commit

import (
	"math"
	"strconv"

	"github.com/kilianp07/unitcommit/core/milp"
)

const balanceTolerance = 1e-9

// addDemandBalance adds one equality per hour: thermal output plus battery
// discharge equals net demand plus battery charge. An hour with nothing to
// dispatch and a non-zero net demand makes the whole model infeasible.
func (m *Model) addDemandBalance() error {
	for k, h := range m.Params.Horizon.Hours() {
		var terms []milp.Term
		for _, c := range m.thermal {
			terms = append(terms, milp.T(c.power[k], 1))
		}
		for _, c := range m.batteries {
			terms = append(terms, milp.T(c.reload[k], -1), milp.T(c.load[k], -1))
		}
		net := m.NetDemand[k]
		if len(terms) == 0 {
			if math.Abs(net) > balanceTolerance {
				return &CapacityError{Hour: h, NetDemand: net, Surplus: net < 0}
			}
			continue
		}
		m.Program.AddRow(rowName("demand", h), milp.EQ, net, terms...)
	}
	return nil
}

func (m *Model) addThermalConstraints(i int) {
	p := m.Program
	u := m.Fleet.Thermal[i]
	c := m.thermal[i]
	op := m.Params.OperatingPointFraction
	minFrac := m.Params.MinPowerFraction
	for k, h := range m.Params.Horizon.Hours() {
		p.AddRow(colName("power_max", "t", i, h), milp.LE, 0,
			milp.T(c.power[k], 1), milp.T(c.on[k], -u.RatedPower))
		p.AddRow(colName("power_min", "t", i, h), milp.GE, 0,
			milp.T(c.power[k], 1), milp.T(c.on[k], -minFrac*u.RatedPower))

		// The set point is scaled by commitment so that an offline plant
		// sits at zero with both deviations at zero.
		p.AddRow(colName("power_opt", "t", i, h), milp.EQ, 0,
			milp.T(c.power[k], 1), milp.T(c.posDev[k], -1), milp.T(c.negDev[k], -1),
			milp.T(c.on[k], -op*u.RatedPower))
		p.AddRow(colName("dev_pos", "t", i, h), milp.LE, 0,
			milp.T(c.posDev[k], 1), milp.T(c.on[k], -(1-op)*u.RatedPower))
		p.AddRow(colName("dev_neg", "t", i, h), milp.GE, 0,
			milp.T(c.negDev[k], 1), milp.T(c.on[k], (op-minFrac)*u.RatedPower))

		if k > 0 {
			p.AddRow(colName("ramp_up", "t", i, h), milp.LE, u.RampLimit,
				milp.T(c.power[k], 1), milp.T(c.power[k-1], -1))
			p.AddRow(colName("ramp_down", "t", i, h), milp.GE, -u.RampLimit,
				milp.T(c.power[k], 1), milp.T(c.power[k-1], -1))
			p.AddRow(colName("startup", "t", i, h), milp.EQ, 0,
				milp.T(c.start[k], 1), milp.T(c.on[k], -1), milp.T(c.on[k-1], 1))
		} else {
			// hour 1 starts from an implicit off state
			p.AddRow(colName("startup", "t", i, h), milp.EQ, 0,
				milp.T(c.start[k], 1), milp.T(c.on[k], -1))
		}
		p.AddRow(colName("start_split", "t", i, h), milp.EQ, 0,
			milp.T(c.start[k], 1), milp.T(c.startPos[k], -1), milp.T(c.startNeg[k], -1))
	}
}

// addStorageConstraints adds the volume recursion and the net power
// identity. Volume bounds are column bounds.
func (m *Model) addStorageConstraints(i int) {
	p := m.Program
	b := m.Fleet.Batteries[i]
	c := m.batteries[i]
	eff := m.Params.RoundTripEfficiency
	for k, h := range m.Params.Horizon.Hours() {
		if k > 0 {
			p.AddRow(colName("storage", "b", i, h), milp.EQ, 0,
				milp.T(c.volume[k], 1), milp.T(c.load[k], -eff), milp.T(c.reload[k], -1),
				milp.T(c.volume[k-1], -1))
		} else {
			p.AddRow(colName("storage", "b", i, h), milp.EQ, m.Params.InitialVolume(b),
				milp.T(c.volume[k], 1), milp.T(c.load[k], -eff), milp.T(c.reload[k], -1))
		}
		p.AddRow(colName("netdef", "b", i, h), milp.EQ, 0,
			milp.T(c.net[k], 1), milp.T(c.load[k], -1), milp.T(c.reload[k], -1))
	}
}

func rowName(kind string, hour int) string {
	return kind + "_h" + strconv.Itoa(hour)
}
