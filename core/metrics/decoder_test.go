package metrics_test

import (
	"encoding/json"
	"testing"

	"gopkg.in/yaml.v3"

	metrics "github.com/kilianp07/unitcommit/core/metrics"
	_ "github.com/kilianp07/unitcommit/infra/metrics"
)

// Sinks and listen address decode from YAML.
func TestMetricsConfigDecodeYAML(t *testing.T) {
	data := `listen_addr: ":9102"
sinks:
  - type: nop
  - type: pushgateway
    conf:
      url: http://gateway:9091
      job: nightly
`
	var cfg metrics.Config
	if err := yaml.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("yaml unmarshal: %v", err)
	}
	if cfg.ListenAddr != ":9102" {
		t.Fatalf("listen_addr not decoded: %q", cfg.ListenAddr)
	}
	if len(cfg.Sinks) != 2 || cfg.Sinks[1].Conf["job"] != "nightly" {
		t.Fatalf("sinks not decoded: %+v", cfg.Sinks)
	}
	s, err := metrics.NewMetricsSink(cfg.Sinks)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, ok := s.(*metrics.MultiSink); !ok {
		t.Fatalf("expected MultiSink")
	}
}

// Unknown sink types are rejected.
func TestMetricsConfigDecodeJSON_Invalid(t *testing.T) {
	data := `{"sinks":[{"type":"missing"}]}`
	var cfg metrics.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		t.Fatalf("json unmarshal: %v", err)
	}
	if _, err := metrics.NewMetricsSink(cfg.Sinks); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
