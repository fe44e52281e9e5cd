package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/unitcommit/config"
	"github.com/kilianp07/unitcommit/core/commit"
	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
	"github.com/kilianp07/unitcommit/core/model"
	"github.com/kilianp07/unitcommit/core/monitoring"
	"github.com/kilianp07/unitcommit/core/solver"
	"github.com/kilianp07/unitcommit/infra/logger"
	"github.com/kilianp07/unitcommit/infra/mqtt"
	"github.com/kilianp07/unitcommit/infra/store"
)

// Request is the input of one run. Start is the beginning of hour 1 and
// only labels the sink output.
type Request struct {
	Units    []model.Unit
	Profiles model.Profiles
	Start    time.Time
}

// Result carries the run id together with the scheduler report. Report is
// nil when the input was rejected before the model was built.
type Result struct {
	RunID  string
	Report *commit.Report
}

// Service runs one schedule at a time and fans the outcome out to the
// configured sinks.
type Service struct {
	mu        sync.Mutex
	scheduler *commit.Scheduler
	backend   string
	sink      coremetrics.MetricsSink
	store     *store.Store
	log       logger.Logger
	newID     func() string
}

// New creates a Service from the configuration. Configuration errors are
// returned before anything is connected.
func New(ctx context.Context, cfg *config.Config) (*Service, error) {
	logg := logger.New("service")
	adapter, err := solver.NewAdapterFromConfig(cfg.Solver, logger.New("solver"))
	if err != nil {
		return nil, err
	}
	adapter.OnTransition = func(from, to solver.State) {
		logg.Debugf("solver %s: %s -> %s", adapter.Name(), from, to)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, &model.ConfigurationError{Field: "metrics.sinks", Reason: err.Error()}
	}
	sinks := []coremetrics.MetricsSink{sink}
	var st *store.Store
	if cfg.MQTTEnabled() {
		pub, err := mqtt.NewPublisher(cfg.MQTT)
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sinks = append(sinks, pub)
	}
	if cfg.StoreEnabled() {
		st, err = store.Open(ctx, cfg.Store)
		if err != nil {
			return nil, fmt.Errorf("store: %w", err)
		}
		sinks = append(sinks, st)
	}
	if len(sinks) > 1 {
		sink = coremetrics.NewMultiSink(sinks...)
	}

	sched := commit.NewScheduler(cfg.Model, adapter, logger.New("scheduler"))
	svc := NewWithScheduler(sched, adapter.Name(), sink, logg)
	svc.store = st
	return svc, nil
}

// NewWithScheduler wires an existing scheduler. A nil sink records nothing.
func NewWithScheduler(s *commit.Scheduler, backend string, sink coremetrics.MetricsSink, log logger.Logger) *Service {
	if sink == nil {
		sink = coremetrics.NopSink{}
	}
	return &Service{scheduler: s, backend: backend, sink: sink, log: log, newID: uuid.NewString}
}

// Store returns the schedule store the service records into, or nil when
// the store is disabled. It is closed by Close.
func (s *Service) Store() *store.Store { return s.store }

// Scheduler returns the underlying scheduler.
func (s *Service) Scheduler() *commit.Scheduler { return s.scheduler }

// Run schedules the request. Concurrent calls are serialised.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.newID()
	began := time.Now()
	rep, runErr := s.scheduler.Run(ctx, req.Units, req.Profiles)
	res := &Result{RunID: id, Report: rep}

	ev := coremetrics.RunEvent{RunID: id, Backend: s.backend, Units: len(req.Units), Time: time.Now(), Duration: time.Since(began)}
	if rep != nil {
		ev.State = rep.State.String()
		ev.Variables, ev.Rows, ev.Binaries = rep.Variables, rep.Rows, rep.Binaries
		ev.Violations = len(rep.Violations)
		ev.Duration = rep.Duration
	} else if errors.Is(runErr, model.ErrModelInfeasible) {
		ev.State = solver.Infeasible.String()
	} else {
		ev.State = "rejected"
	}
	if runErr != nil {
		ev.Error = runErr.Error()
		monitoring.CaptureRunError(runErr, id, s.backend)
	}

	if rep != nil && rep.Schedule != nil {
		rep.Schedule.RunID = id
		ev.TotalCost = rep.Schedule.TotalCost
		if rec, ok := s.sink.(coremetrics.ScheduleRecorder); ok {
			roles := make(map[string]string, len(req.Units))
			for _, u := range req.Units {
				roles[u.Name] = u.Role.String()
			}
			sev := coremetrics.ScheduleEvent{RunID: id, Schedule: rep.Schedule, Roles: roles, Start: req.Start, Time: ev.Time}
			if err := rec.RecordSchedule(sev); err != nil {
				s.log.Errorf("record schedule %s: %v", id, err)
			}
		}
	}
	if err := s.sink.RecordRun(ev); err != nil {
		s.log.Errorf("record run %s: %v", id, err)
	}

	s.log.Infow("run finished", map[string]any{"run_id": id, "state": ev.State, "total_cost": ev.TotalCost, "duration_ms": ev.Duration.Milliseconds()})
	return res, runErr
}

// Prepare builds and screens the model without solving it.
func (s *Service) Prepare(req Request) (*commit.Model, error) {
	return s.scheduler.Prepare(req.Units, req.Profiles)
}

// Close releases sinks holding connections.
func (s *Service) Close() error {
	if c, ok := s.sink.(coremetrics.Closer); ok {
		return c.Close()
	}
	return nil
}

// ExitCode maps a run error to the process exit status.
func ExitCode(err error) int {
	var (
		ce *model.ConfigurationError
		ie *model.InputValidationError
		se *model.SolverError
	)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, model.ErrModelInfeasible):
		return 2
	case errors.Is(err, model.ErrSolverTimeout), errors.As(err, &se):
		return 3
	case errors.As(err, &ce):
		return 4
	case errors.As(err, &ie):
		return 5
	default:
		return 1
	}
}
