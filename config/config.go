package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/unitcommit/core/commit"
	"github.com/kilianp07/unitcommit/core/metrics"
	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/core/solver"
	"github.com/kilianp07/unitcommit/infra/mqtt"
	"github.com/kilianp07/unitcommit/infra/store"
)

// EnvPrefix prefixes environment overrides, e.g. UC_SOLVER__BACKEND=glpk.
const EnvPrefix = "UC_"

type Config struct {
	Solver  solver.Config  `json:"solver"`
	Model   commit.Params  `json:"model"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
	Store   store.Config   `json:"store"`
	Logging LoggingConfig  `json:"logging"`
	Sentry  SentryConfig   `json:"sentry"`
	Server  ServerConfig   `json:"server"`
}

// MQTTEnabled reports whether schedules are published over MQTT.
func (c Config) MQTTEnabled() bool { return c.MQTT.Broker != "" }

// StoreEnabled reports whether schedules are stored in PostgreSQL.
func (c Config) StoreEnabled() bool { return c.Store.DSN != "" }

// Load reads the file at path, if any, and applies environment overrides.
// The legacy MODE variable selects the backend when none is configured.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	if path != "" {
		ext := strings.ToLower(filepath.Ext(path))
		var parser koanf.Parser
		switch ext {
		case ".yaml", ".yml":
			parser = yaml.Parser()
		case ".json":
			parser = json.Parser()
		default:
			return nil, &model.ConfigurationError{Field: "config", Reason: fmt.Sprintf("unsupported config format: %s", ext)}
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, &model.ConfigurationError{Field: "config", Reason: err.Error()}
		}
	}
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, &model.ConfigurationError{Field: "config", Reason: err.Error()}
	}
	if cfg.Solver.Mode == "" {
		cfg.Solver.Mode = os.Getenv("MODE")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section.
func (c *Config) SetDefaults() {
	c.Solver.SetDefaults()
	c.Model.SetDefaults()
	c.Logging.SetDefaults()
	c.Server.SetDefaults()
	if c.MQTTEnabled() {
		c.MQTT.SetDefaults()
	}
}

// Validate checks every section. All failures are ConfigurationErrors.
func (c Config) Validate() error {
	if err := c.Solver.Validate(); err != nil {
		return err
	}
	if err := c.Model.Validate(); err != nil {
		return &model.ConfigurationError{Field: "model", Reason: err.Error()}
	}
	if err := c.Logging.Validate(); err != nil {
		return &model.ConfigurationError{Field: "logging", Reason: err.Error()}
	}
	if c.MQTTEnabled() {
		if err := c.MQTT.Validate(); err != nil {
			return &model.ConfigurationError{Field: "mqtt", Reason: err.Error()}
		}
	}
	for i, s := range c.Metrics.Sinks {
		if s.Type == "" {
			return &model.ConfigurationError{Field: fmt.Sprintf("metrics.sinks[%d].type", i), Reason: "is required"}
		}
	}
	return nil
}
