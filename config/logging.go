package config

import (
	"fmt"

	"github.com/kilianp07/unitcommit/infra/logger"
)

// LoggingConfig defines the log level and output format.
type LoggingConfig struct {
	// Level is one of debug, info, warn or error. LOG_LEVEL wins when set.
	Level string `json:"level"`
	// Console switches to the human readable writer.
	Console bool `json:"console"`
	// File optionally keeps a rotating JSON copy of the logs.
	File LogFileConfig `json:"file"`
}

// LogFileConfig controls the rotating log file. An empty path disables it.
type LogFileConfig struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *LoggingConfig) SetDefaults() {
	if c.Level == "" {
		c.Level = "info"
	}
	if c.File.Path == "" {
		return
	}
	if c.File.MaxSizeMB == 0 {
		c.File.MaxSizeMB = 50
	}
	if c.File.MaxBackups == 0 {
		c.File.MaxBackups = 3
	}
	if c.File.MaxAgeDays == 0 {
		c.File.MaxAgeDays = 28
	}
}

// Validate checks mandatory fields.
func (c LoggingConfig) Validate() error {
	switch c.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown level %s", c.Level)
	}
	if c.File.MaxSizeMB < 0 || c.File.MaxBackups < 0 || c.File.MaxAgeDays < 0 {
		return fmt.Errorf("log file rotation limits must not be negative")
	}
	return nil
}

// Apply configures the loggers created afterwards.
func (c LoggingConfig) Apply() error {
	logger.Configure(c.Level, c.Console)
	if c.File.Path == "" {
		return nil
	}
	_, err := logger.OpenFile(logger.FileOptions{
		Path:       c.File.Path,
		MaxSizeMB:  c.File.MaxSizeMB,
		MaxBackups: c.File.MaxBackups,
		MaxAgeDays: c.File.MaxAgeDays,
	})
	return err
}
