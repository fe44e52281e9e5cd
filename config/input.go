package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/core/solar"
)

// SolarInput derives the PV profile when the input leaves it empty.
type SolarInput struct {
	Latitude  float64 `json:"latitude" yaml:"latitude"`
	Longitude float64 `json:"longitude" yaml:"longitude"`
	Derate    float64 `json:"derate" yaml:"derate"`
	// Date is the day scheduled, YYYY-MM-DD. Hour 1 starts at midnight UTC.
	Date string `json:"date" yaml:"date"`
}

// Site returns the PV site.
func (s SolarInput) Site() solar.Site {
	return solar.Site{Latitude: s.Latitude, Longitude: s.Longitude, Derate: s.Derate}
}

// Start parses the scheduled day.
func (s SolarInput) Start() (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s.Date)
	if err != nil {
		return time.Time{}, &model.InputValidationError{Field: "solar.date", Reason: err.Error()}
	}
	return t, nil
}

// Input is the units and profiles of one run.
type Input struct {
	Units    map[string]model.UnitRecord `json:"units" yaml:"units"`
	Profiles model.Profiles              `json:"profiles" yaml:"profiles"`
	Solar    *SolarInput                 `json:"solar,omitempty" yaml:"solar,omitempty"`
}

// LoadInput reads a YAML or JSON input file.
func LoadInput(path string) (*Input, error) {
	var parser koanf.Parser
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, &model.InputValidationError{Field: "input", Reason: fmt.Sprintf("unsupported input format: %s", filepath.Ext(path))}
	}
	// unit names may contain dots
	k := koanf.New("::")
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, &model.InputValidationError{Field: "input", Reason: err.Error()}
	}
	var in Input
	if err := k.UnmarshalWithConf("", &in, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, &model.InputValidationError{Field: "input", Reason: err.Error()}
	}
	return &in, nil
}

// Resolve builds the units and fills the PV profile from the solar site
// when it is empty. The start of hour 1 is returned for sinks.
func (in Input) Resolve(h model.Horizon) ([]model.Unit, model.Profiles, time.Time, error) {
	units, err := model.BuildUnits(in.Units)
	if err != nil {
		return nil, model.Profiles{}, time.Time{}, err
	}
	profiles := in.Profiles
	start := time.Now().UTC().Truncate(24 * time.Hour)
	if in.Solar != nil {
		if start, err = in.Solar.Start(); err != nil {
			return nil, model.Profiles{}, time.Time{}, err
		}
		if len(profiles.Solar) == 0 {
			if profiles.Solar, err = solar.Profile(in.Solar.Site(), start, h); err != nil {
				return nil, model.Profiles{}, time.Time{}, err
			}
		}
	}
	return units, profiles, start, nil
}
