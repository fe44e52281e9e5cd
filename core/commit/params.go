package commit

import (
	"fmt"

	"github.com/kilianp07/unitcommit/core/model"
)

// Default model constants.
const (
	DefaultMinPowerFraction        = 0.4
	DefaultOperatingPointFraction  = 0.5
	DefaultDeviationCostMultiplier = 1.25
	DefaultStartupCostMultiplier   = 10
	DefaultRoundTripEfficiency     = 0.6
	DefaultStorageDurationHours    = 5
)

// Params holds the technical constants of the model.
type Params struct {
	// MinPowerFraction is the minimum stable output of a committed plant as
	// a share of its rated power.
	MinPowerFraction float64 `json:"min_power_fraction"`
	// OperatingPointFraction is the set point around which the deviation
	// cost is anchored.
	OperatingPointFraction float64 `json:"operating_point_fraction"`
	// DeviationCostMultiplier scales the base variable cost at the power
	// extremes. Must be > 1.
	DeviationCostMultiplier float64 `json:"deviation_cost_multiplier"`
	// StartupCostMultiplier multiplies rated power times base cost for each
	// start-up.
	StartupCostMultiplier float64 `json:"startup_cost_multiplier"`
	// RoundTripEfficiency is applied to energy loaded into storage.
	RoundTripEfficiency float64 `json:"round_trip_efficiency"`
	// InitialVolumeFraction is the state of charge before hour 1 as a share
	// of the storage capacity.
	InitialVolumeFraction float64 `json:"initial_volume_fraction"`
	// StorageDurationHours converts battery rated power into capacity.
	StorageDurationHours float64 `json:"storage_duration_hours"`
	// Horizon is the number of hours scheduled.
	Horizon model.Horizon `json:"horizon"`
}

// DefaultParams returns the constants used when nothing is configured.
func DefaultParams() Params {
	var p Params
	p.SetDefaults()
	return p
}

// SetDefaults fills zero values. InitialVolumeFraction defaults to zero.
func (p *Params) SetDefaults() {
	if p.MinPowerFraction == 0 {
		p.MinPowerFraction = DefaultMinPowerFraction
	}
	if p.OperatingPointFraction == 0 {
		p.OperatingPointFraction = DefaultOperatingPointFraction
	}
	if p.DeviationCostMultiplier == 0 {
		p.DeviationCostMultiplier = DefaultDeviationCostMultiplier
	}
	if p.StartupCostMultiplier == 0 {
		p.StartupCostMultiplier = DefaultStartupCostMultiplier
	}
	if p.RoundTripEfficiency == 0 {
		p.RoundTripEfficiency = DefaultRoundTripEfficiency
	}
	if p.StorageDurationHours == 0 {
		p.StorageDurationHours = DefaultStorageDurationHours
	}
	if p.Horizon == 0 {
		p.Horizon = model.DayAhead
	}
}

// Validate checks the ordering and ranges of the constants.
func (p Params) Validate() error {
	if p.MinPowerFraction < 0 || p.MinPowerFraction >= p.OperatingPointFraction {
		return fmt.Errorf("min_power_fraction must be in [0, operating_point_fraction)")
	}
	if p.OperatingPointFraction >= 1 {
		return fmt.Errorf("operating_point_fraction must be below 1")
	}
	if p.DeviationCostMultiplier <= 1 {
		return fmt.Errorf("deviation_cost_multiplier must be greater than 1")
	}
	if p.StartupCostMultiplier < 0 {
		return fmt.Errorf("startup_cost_multiplier must be non-negative")
	}
	if p.RoundTripEfficiency <= 0 || p.RoundTripEfficiency > 1 {
		return fmt.Errorf("round_trip_efficiency must be in (0, 1]")
	}
	if p.InitialVolumeFraction < 0 || p.InitialVolumeFraction > 1 {
		return fmt.Errorf("initial_volume_fraction must be in [0, 1]")
	}
	if p.StorageDurationHours <= 0 {
		return fmt.Errorf("storage_duration_hours must be positive")
	}
	if p.Horizon != model.DayAhead {
		return fmt.Errorf("horizon must be %d hours", model.DayAhead)
	}
	return nil
}

// Capacity returns the storage capacity of a battery.
func (p Params) Capacity(b model.Unit) float64 {
	return b.RatedPower * p.StorageDurationHours
}

// InitialVolume returns the stored volume of a battery before hour 1.
func (p Params) InitialVolume(b model.Unit) float64 {
	return p.InitialVolumeFraction * p.Capacity(b)
}
