// Package solar derives clear-sky PV multipliers from the sun position.
package solar

import (
	"fmt"
	"math"
	"time"

	"github.com/sixdouglas/suncalc"
	"gonum.org/v1/gonum/floats/scalar"

	"github.com/kilianp07/unitcommit/core/model"
)

// Site locates a PV plant.
type Site struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	// Derate scales the clear-sky factor, 1 when unset.
	Derate float64 `json:"derate" yaml:"derate"`
}

// Validate checks the coordinates.
func (s Site) Validate() error {
	if s.Latitude < -90 || s.Latitude > 90 {
		return &model.InputValidationError{Field: "solar.latitude", Reason: fmt.Sprintf("%g out of range", s.Latitude)}
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return &model.InputValidationError{Field: "solar.longitude", Reason: fmt.Sprintf("%g out of range", s.Longitude)}
	}
	if s.Derate < 0 || s.Derate > 1 {
		return &model.InputValidationError{Field: "solar.derate", Reason: "must be within [0, 1]"}
	}
	return nil
}

// Profile returns one multiplier per hour starting at start. Each value is
// the sine of the sun altitude at the middle of the hour, zero while the sun
// is down.
func Profile(site Site, start time.Time, h model.Horizon) ([]float64, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	derate := site.Derate
	if derate == 0 {
		derate = 1
	}
	out := make([]float64, h.Len())
	for i := range out {
		mid := start.Add(time.Duration(i)*time.Hour + 30*time.Minute)
		out[i] = scalar.Round(derate*Factor(mid, site.Latitude, site.Longitude), 3)
	}
	return out, nil
}

// Factor returns the clear-sky factor in [0, 1] at t.
func Factor(t time.Time, lat, lon float64) float64 {
	times := suncalc.GetTimes(t, lat, lon)
	sunrise, sunset := times["sunrise"].Value, times["sunset"].Value
	// polar day and night leave the times undefined
	if !sunrise.IsZero() && !sunset.IsZero() && (t.Before(sunrise) || t.After(sunset)) {
		return 0
	}
	f := math.Sin(suncalc.GetPosition(t, lat, lon).Altitude)
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}
