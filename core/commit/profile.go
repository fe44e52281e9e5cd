package commit

import (
	"fmt"

	"github.com/kilianp07/unitcommit/core/model"
)

// HourlyProfile maps an hour to a multiplier.
type HourlyProfile map[int]float64

// Resolved holds the hour-indexed multipliers of the profiled roles.
type Resolved struct {
	Horizon model.Horizon
	Demand  HourlyProfile
	Wind    HourlyProfile
	Solar   HourlyProfile
}

// ResolveProfiles maps each hour of the horizon to its multiplier. Every
// sequence must have exactly one non-negative value per hour. A sequence may
// be left empty when the fleet has no unit of that role.
func ResolveProfiles(p model.Profiles, f Fleet, h model.Horizon) (Resolved, error) {
	demand, err := resolve("demand", p.Demand, len(f.Demand) > 0, h)
	if err != nil {
		return Resolved{}, err
	}
	wind, err := resolve("wind", p.Wind, len(f.Wind) > 0, h)
	if err != nil {
		return Resolved{}, err
	}
	solar, err := resolve("pv", p.Solar, len(f.Solar) > 0, h)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{Horizon: h, Demand: demand, Wind: wind, Solar: solar}, nil
}

func resolve(name string, values []float64, used bool, h model.Horizon) (HourlyProfile, error) {
	if len(values) == 0 && !used {
		return make(HourlyProfile), nil
	}
	if len(values) != h.Len() {
		return nil, &model.InputValidationError{
			Field:  "profiles." + name,
			Reason: fmt.Sprintf("expected %d hourly values, got %d", h.Len(), len(values)),
		}
	}
	out := make(HourlyProfile, len(values))
	for i, v := range values {
		if v < 0 {
			return nil, &model.InputValidationError{
				Field:  "profiles." + name,
				Reason: fmt.Sprintf("hour %d multiplier %g is negative", i+1, v),
			}
		}
		out[i+1] = v
	}
	return out, nil
}

// Multiplier returns the profile value for a profiled unit in an hour.
// Units without a profile get 1.
func (r Resolved) Multiplier(role model.Role, hour int) float64 {
	switch role {
	case model.RoleDemand:
		return r.Demand[hour]
	case model.RoleWind:
		return r.Wind[hour]
	case model.RoleSolar:
		return r.Solar[hour]
	default:
		return 1
	}
}

// Nominal returns rated power times the hourly multiplier.
func (r Resolved) Nominal(u model.Unit, hour int) float64 {
	return u.RatedPower * r.Multiplier(u.Role, hour)
}

// NetDemand returns demand minus wind and solar output for an hour. This is
// what thermal plants and batteries must balance.
func (r Resolved) NetDemand(f Fleet, hour int) float64 {
	var net float64
	for _, u := range f.Demand {
		net += r.Nominal(u, hour)
	}
	for _, u := range f.Wind {
		net -= r.Nominal(u, hour)
	}
	for _, u := range f.Solar {
		net -= r.Nominal(u, hour)
	}
	return net
}
