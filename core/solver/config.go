package solver

import (
	"fmt"
	"strings"
	"time"

	"github.com/kilianp07/unitcommit/core/factory"
	"github.com/kilianp07/unitcommit/core/logger"
	"github.com/kilianp07/unitcommit/core/model"
)

// DefaultTimeout bounds a run when nothing is configured.
const DefaultTimeout = 60 * time.Second

// Legacy deployment modes and the backend each one selects.
var modeBackends = map[string]string{
	"LOCAL":      "cbc",
	"PRODUCTION": "glpk",
}

// Config selects and configures the backend.
type Config struct {
	Backend        string         `json:"backend"`
	Mode           string         `json:"mode"`
	TimeoutSeconds int            `json:"timeout_seconds"`
	Conf           map[string]any `json:"conf"`
}

// SetDefaults resolves the backend from the legacy mode and fills the
// timeout.
func (c *Config) SetDefaults() {
	if c.Backend == "" && c.Mode != "" {
		c.Backend = modeBackends[strings.ToUpper(c.Mode)]
	}
	if c.TimeoutSeconds == 0 {
		c.TimeoutSeconds = int(DefaultTimeout / time.Second)
	}
}

// Validate checks that a known backend is selected.
func (c Config) Validate() error {
	if c.Backend == "" {
		if c.Mode != "" {
			return &model.ConfigurationError{Field: "solver.mode", Reason: fmt.Sprintf("unknown mode %q (want LOCAL or PRODUCTION)", c.Mode)}
		}
		return &model.ConfigurationError{Field: "solver.backend", Reason: "no solver backend configured"}
	}
	if !backendRegistry.Has(c.Backend) {
		return &model.ConfigurationError{
			Field:  "solver.backend",
			Reason: fmt.Sprintf("unknown backend %q (available: %s)", c.Backend, strings.Join(backendRegistry.Names(), ", ")),
		}
	}
	if c.TimeoutSeconds < 0 {
		return &model.ConfigurationError{Field: "solver.timeout_seconds", Reason: "must be positive"}
	}
	return nil
}

// Timeout returns the configured wait.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

var backendRegistry = factory.NewRegistry[Backend]()

// RegisterBackend adds a backend factory identified by name.
func RegisterBackend(name string, f factory.Factory[Backend]) error {
	return backendRegistry.Register(name, f)
}

// NewAdapterFromConfig validates cfg and builds the selected backend.
func NewAdapterFromConfig(cfg Config, log logger.Logger) (*Adapter, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	b, err := backendRegistry.Create(factory.ModuleConfig{Type: cfg.Backend, Conf: cfg.Conf})
	if err != nil {
		return nil, &model.ConfigurationError{Field: "solver.conf", Reason: err.Error()}
	}
	return NewAdapter(cfg.Backend, b, cfg.Timeout(), log), nil
}
