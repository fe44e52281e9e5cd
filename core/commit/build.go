package commit

import (
	"fmt"

	"github.com/kilianp07/unitcommit/core/milp"
)

// Model is a built unit commitment program together with the column layout
// needed to read a solution back.
type Model struct {
	Program  *milp.Program
	Params   Params
	Fleet    Fleet
	Profiles Resolved
	// NetDemand is demand minus renewables, indexed by hour-1.
	NetDemand []float64

	thermal   []thermalCols
	batteries []batteryCols
}

// thermalCols holds column indices per hour-1.
type thermalCols struct {
	power, on, posDev, negDev, start, startPos, startNeg []int
}

type batteryCols struct {
	net, load, reload, volume []int

	// convex hull of the load/reload disjunction
	charging                       []int
	chargeLoad, chargeReload       []int
	dischargeLoad, dischargeReload []int
}

// Build assembles the program for a classified fleet and resolved profiles.
func Build(f Fleet, r Resolved, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		Program:  milp.New("unit_commitment"),
		Params:   p,
		Fleet:    f,
		Profiles: r,
	}
	for _, h := range p.Horizon.Hours() {
		m.NetDemand = append(m.NetDemand, r.NetDemand(f, h))
	}

	for i, u := range f.Thermal {
		m.thermal = append(m.thermal, m.declareThermal(i, u))
	}
	for i, b := range f.Batteries {
		m.batteries = append(m.batteries, m.declareBattery(i, b))
	}
	m.applyCosts()

	if err := m.addDemandBalance(); err != nil {
		return nil, err
	}
	for i := range f.Thermal {
		m.addThermalConstraints(i)
	}
	for i := range f.Batteries {
		m.addStorageConstraints(i)
		m.reformulateExclusivity(i)
	}
	return m, nil
}

func colName(kind, prefix string, unit, hour int) string {
	return fmt.Sprintf("%s_%s%d_h%d", kind, prefix, unit, hour)
}
