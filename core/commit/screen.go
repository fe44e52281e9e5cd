package commit

import (
	"fmt"
	"math"

	"github.com/kilianp07/unitcommit/core/model"
)

// CapacityError reports an hour whose net demand cannot be balanced by the
// fleet even with every commitment and storage limit relaxed.
type CapacityError struct {
	Hour      int
	NetDemand float64
	Limit     float64
	// Surplus is set when renewables exceed demand plus charging capacity.
	Surplus bool
}

func (e *CapacityError) Error() string {
	if e.Surplus {
		return fmt.Sprintf("hour %d: renewable surplus %.2f exceeds charging capacity %.2f", e.Hour, -e.NetDemand, e.Limit)
	}
	return fmt.Sprintf("hour %d: net demand %.2f exceeds available capacity %.2f", e.Hour, e.NetDemand, e.Limit)
}

// Is makes a CapacityError match model.ErrModelInfeasible.
func (e *CapacityError) Is(target error) bool { return target == model.ErrModelInfeasible }

// Screen rejects models that no solver could satisfy. Each hour is checked
// against an upper bound on supply (all plants at rated power plus battery
// discharge) and on absorption (all batteries charging at rated power).
// Battery discharge in hour 1 is limited by the initial volume.
func (m *Model) Screen() error {
	for k, h := range m.Params.Horizon.Hours() {
		supply, absorb := 0.0, 0.0
		for _, u := range m.Fleet.Thermal {
			supply += u.RatedPower
		}
		for _, b := range m.Fleet.Batteries {
			discharge := b.RatedPower
			if k == 0 {
				discharge = math.Min(discharge, m.Params.InitialVolume(b))
			}
			supply += discharge
			absorb += b.RatedPower
		}
		net := m.NetDemand[k]
		if net > supply+balanceTolerance {
			return &CapacityError{Hour: h, NetDemand: net, Limit: supply}
		}
		if -net > absorb+balanceTolerance {
			return &CapacityError{Hour: h, NetDemand: net, Limit: absorb, Surplus: true}
		}
	}
	return nil
}
