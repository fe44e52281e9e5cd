package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"

	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
)

// PushSink records runs on a private registry and pushes it to a
// Prometheus Pushgateway after every run. One-shot CLI runs exit before a
// scrape could happen, so they use this sink instead of PromSink.
type PushSink struct {
	*PromSink
	pusher *push.Pusher
}

// NewPushSink creates a PushSink for the gateway at url under job.
func NewPushSink(url, job string) (*PushSink, error) {
	if url == "" {
		return nil, fmt.Errorf("pushgateway url is required")
	}
	if job == "" {
		job = "unitcommit"
	}
	reg := prometheus.NewRegistry()
	prom, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		return nil, err
	}
	return &PushSink{PromSink: prom, pusher: push.New(url, job).Gatherer(reg)}, nil
}

// RecordRun updates the metrics and pushes them.
func (s *PushSink) RecordRun(ev coremetrics.RunEvent) error {
	if err := s.PromSink.RecordRun(ev); err != nil {
		return err
	}
	if err := s.pusher.Grouping("run_id", ev.RunID).Push(); err != nil {
		return fmt.Errorf("push metrics: %w", err)
	}
	return nil
}
