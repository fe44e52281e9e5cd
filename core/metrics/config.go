package metrics

import "github.com/kilianp07/unitcommit/core/factory"

// Config defines the configured sinks.
type Config struct {
	Sinks []factory.ModuleConfig `json:"sinks" yaml:"sinks"`
	// ListenAddr exposes /metrics when serving. Empty disables it.
	ListenAddr string `json:"listen_addr" yaml:"listen_addr"`
}
