package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
)

// PromSink records run summaries and the latest schedule in Prometheus
// metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cost     prometheus.Gauge
	size     *prometheus.GaugeVec
	power    *prometheus.GaugeVec
	checks   prometheus.Counter
}

// NewPromSink registers run metrics on the default Prometheus registerer.
// The HTTP endpoint is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// register adds c to reg, reusing an identical collector registered earlier.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{}
	var err error
	if s.runs, err = register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "unitcommit_runs_total",
		Help: "Scheduling runs by backend and final state",
	}, []string{"backend", "state"})); err != nil {
		return nil, err
	}
	if s.duration, err = register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "unitcommit_run_duration_seconds",
		Help:    "Wall time of a scheduling run including the solver",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120},
	}, []string{"backend"})); err != nil {
		return nil, err
	}
	if s.cost, err = register(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "unitcommit_total_cost",
		Help: "Total cost of the last successful schedule",
	})); err != nil {
		return nil, err
	}
	if s.size, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "unitcommit_model_size",
		Help: "Size of the last built program",
	}, []string{"kind"})); err != nil {
		return nil, err
	}
	if s.power, err = register(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "unitcommit_scheduled_power_mw",
		Help: "Scheduled power of the last successful run",
	}, []string{"unit", "hour"})); err != nil {
		return nil, err
	}
	if s.checks, err = register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unitcommit_solution_violations_total",
		Help: "Solution checks that failed tolerance",
	})); err != nil {
		return nil, err
	}
	return s, nil
}

// RecordRun updates the run counters and model size gauges.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.WithLabelValues(ev.Backend, ev.State).Inc()
	s.duration.WithLabelValues(ev.Backend).Observe(ev.Duration.Seconds())
	s.size.WithLabelValues("variables").Set(float64(ev.Variables))
	s.size.WithLabelValues("rows").Set(float64(ev.Rows))
	s.size.WithLabelValues("binaries").Set(float64(ev.Binaries))
	s.checks.Add(float64(ev.Violations))
	if ev.Succeeded() {
		s.cost.Set(ev.TotalCost)
	}
	return nil
}

// RecordSchedule replaces the per-unit power gauges.
func (s *PromSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	if ev.Schedule == nil {
		return nil
	}
	s.power.Reset()
	for unit, hours := range ev.Schedule.Units {
		for h, p := range hours {
			s.power.WithLabelValues(unit, strconv.Itoa(h)).Set(p)
		}
	}
	return nil
}
