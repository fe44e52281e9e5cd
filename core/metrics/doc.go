// Package metrics defines the sinks that observe scheduling runs. Every sink
// records run summaries; sinks that also implement ScheduleRecorder receive
// the solved dispatch. Sinks are created by type name from configuration and
// combined with NewMultiSink when several are configured.
package metrics
