package commit

import (
	"sort"

	"github.com/kilianp07/unitcommit/core/model"
)

// Fleet is a collection of units partitioned by role. Each subset is sorted
// by name.
type Fleet struct {
	Thermal   []model.Unit
	Batteries []model.Unit
	Wind      []model.Unit
	Solar     []model.Unit
	Demand    []model.Unit
	// Unscheduled holds units whose role is not recognised. They take no
	// part in the model.
	Unscheduled []model.Unit
}

// Classify partitions units by role.
func Classify(units []model.Unit) Fleet {
	sorted := make([]model.Unit, len(units))
	copy(sorted, units)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var f Fleet
	for _, u := range sorted {
		switch u.Role {
		case model.RoleThermal:
			f.Thermal = append(f.Thermal, u)
		case model.RoleBattery:
			f.Batteries = append(f.Batteries, u)
		case model.RoleWind:
			f.Wind = append(f.Wind, u)
		case model.RoleSolar:
			f.Solar = append(f.Solar, u)
		case model.RoleDemand:
			f.Demand = append(f.Demand, u)
		default:
			f.Unscheduled = append(f.Unscheduled, u)
		}
	}
	return f
}

// Size returns the number of scheduled units.
func (f Fleet) Size() int {
	return len(f.Thermal) + len(f.Batteries) + len(f.Wind) + len(f.Solar) + len(f.Demand)
}
