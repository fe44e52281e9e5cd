package metrics

import "errors"

// MultiSink fans events out to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to every sink. All sinks are called; the
// errors are joined.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		errs = append(errs, s.RecordRun(ev))
	}
	return errors.Join(errs...)
}

// RecordSchedule forwards the schedule to sinks that accept it.
func (m *MultiSink) RecordSchedule(ev ScheduleEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if rec, ok := s.(ScheduleRecorder); ok {
			errs = append(errs, rec.RecordSchedule(ev))
		}
	}
	return errors.Join(errs...)
}

// Close closes every sink holding a connection.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if c, ok := s.(Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}
