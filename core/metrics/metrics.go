package metrics

import (
	"time"

	"github.com/kilianp07/unitcommit/core/model"
)

// RunEvent summarises one scheduling run.
type RunEvent struct {
	RunID     string
	Backend   string
	State     string
	Units     int
	Variables int
	Rows      int
	Binaries  int
	TotalCost float64
	Duration  time.Duration
	// Violations counts solution checks that failed tolerance.
	Violations int
	Error      string
	Time       time.Time
}

// Succeeded reports whether the run produced a schedule.
func (e RunEvent) Succeeded() bool { return e.State == "optimal" || e.State == "feasible" }

// MetricsSink records scheduling runs.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// ScheduleEvent carries a solved schedule. Start is the beginning of hour 1.
type ScheduleEvent struct {
	RunID    string
	Schedule *model.Schedule
	// Roles maps unit name to role name.
	Roles map[string]string
	Start time.Time
	Time  time.Time
}

// HourTime returns the start of an hour of the schedule.
func (e ScheduleEvent) HourTime(hour int) time.Time {
	return e.Start.Add(time.Duration(hour-1) * time.Hour)
}

// ScheduleRecorder records solved schedules.
type ScheduleRecorder interface {
	RecordSchedule(ev ScheduleEvent) error
}

// Closer is implemented by sinks holding connections.
type Closer interface {
	Close() error
}

// NopSink implements every recorder with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error           { return nil }
func (NopSink) RecordSchedule(ScheduleEvent) error { return nil }
