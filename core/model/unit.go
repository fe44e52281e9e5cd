package model

import (
	"fmt"
	"sort"
	"strings"
)

// Role classifies a unit by the part it plays in the power balance.
type Role int

const (
	RoleUnknown Role = iota
	RoleThermal
	RoleBattery
	RoleWind
	RoleSolar
	RoleDemand
)

// String returns the canonical input tag of the role.
func (r Role) String() string {
	switch r {
	case RoleThermal:
		return "thermal_plant"
	case RoleBattery:
		return "battery"
	case RoleWind:
		return "wind_farm"
	case RoleSolar:
		return "pv_farm"
	case RoleDemand:
		return "demand"
	default:
		return "unknown"
	}
}

// Profiled reports whether the nominal quantity of the role follows an hourly profile.
func (r Role) Profiled() bool {
	return r == RoleWind || r == RoleSolar || r == RoleDemand
}

// ParseRole maps an input type tag to a Role. The plant fuel tags used by the
// unit editor (coal, gas, nuclear, wind, pv) are accepted as aliases.
func ParseRole(tag string) Role {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "thermal_plant", "thermal", "coal", "gas", "nuclear":
		return RoleThermal
	case "battery":
		return RoleBattery
	case "wind_farm", "wind":
		return RoleWind
	case "pv_farm", "pv", "solar":
		return RoleSolar
	case "demand":
		return RoleDemand
	default:
		return RoleUnknown
	}
}

// Unit is a generating, storage or demand unit. Units are immutable for the
// duration of a model build.
type Unit struct {
	Name         string
	Role         Role
	RatedPower   float64 // MW, >= 0
	VariableCost float64 // cost per MWh, thermal and battery only
	RampLimit    float64 // MW per hour, thermal only
}

// UnitRecord is the external representation of a unit keyed by its name.
type UnitRecord struct {
	Type  string  `json:"type" yaml:"type"`
	Power float64 `json:"power" yaml:"power"`
	VC    float64 `json:"vc" yaml:"vc"`
	Ramp  float64 `json:"ramp" yaml:"ramp"`
}

// BuildUnits validates the input records and converts them to units sorted by
// name. Unknown roles and negative quantities are rejected.
func BuildUnits(records map[string]UnitRecord) ([]Unit, error) {
	names := make([]string, 0, len(records))
	for name := range records {
		names = append(names, name)
	}
	sort.Strings(names)

	units := make([]Unit, 0, len(records))
	for _, name := range names {
		rec := records[name]
		if strings.TrimSpace(name) == "" {
			return nil, &InputValidationError{Field: "name", Reason: "unit name is empty"}
		}
		role := ParseRole(rec.Type)
		if role == RoleUnknown {
			return nil, &InputValidationError{Unit: name, Field: "type", Reason: fmt.Sprintf("unrecognized role %q", rec.Type)}
		}
		u := Unit{Name: name, Role: role, RatedPower: rec.Power, VariableCost: rec.VC, RampLimit: rec.Ramp}
		if err := u.Validate(); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, nil
}

// Validate checks the sign constraints of the unit quantities.
func (u Unit) Validate() error {
	if u.RatedPower < 0 {
		return &InputValidationError{Unit: u.Name, Field: "power", Reason: "must be non-negative"}
	}
	if u.VariableCost < 0 {
		return &InputValidationError{Unit: u.Name, Field: "vc", Reason: "must be non-negative"}
	}
	if u.RampLimit < 0 {
		return &InputValidationError{Unit: u.Name, Field: "ramp", Reason: "must be non-negative"}
	}
	return nil
}
