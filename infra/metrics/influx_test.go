package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
	"github.com/kilianp07/unitcommit/core/model"
)

type influxRecorder struct {
	mu     sync.Mutex
	bodies []string
}

func (r *influxRecorder) server(t *testing.T) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		data, _ := io.ReadAll(req.Body)
		r.mu.Lock()
		r.bodies = append(r.bodies, strings.TrimSpace(string(data)))
		r.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInfluxSink_RecordRun(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	defer func() { _ = sink.Close() }()

	now := time.Now()
	ev := coremetrics.RunEvent{
		RunID: "r1", Backend: "cbc", State: "optimal",
		Units: 3, Variables: 384, Rows: 478, Binaries: 48,
		TotalCost: 10240, Duration: 1500 * time.Millisecond, Time: now,
	}
	require.NoError(t, sink.RecordRun(ev))

	p := write.NewPointWithMeasurement("unit_commitment_run").
		AddTag("run_id", "r1").
		AddTag("backend", "cbc").
		AddTag("state", "optimal").
		AddField("units", 3).
		AddField("variables", 384).
		AddField("rows", 478).
		AddField("binaries", 48).
		AddField("total_cost", 10240.0).
		AddField("duration_ms", 1500.0).
		AddField("violations", 0).
		SetTime(now)
	expected := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	require.Len(t, rec.bodies, 1)
	assert.Equal(t, expected, rec.bodies[0])
}

func TestInfluxSink_RecordSchedule(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL+"/api/v2/write", "token", "org", "bucket")

	s := model.NewSchedule()
	s.Set("gas", 1, 50)
	s.Set("gas", 2, 60.1234)
	s.Set("store", 1, -10)
	start := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	require.NoError(t, sink.RecordSchedule(coremetrics.ScheduleEvent{
		RunID:    "r2",
		Schedule: s,
		Roles:    map[string]string{"gas": "thermal_plant"},
		Start:    start,
	}))

	require.Len(t, rec.bodies, 1)
	lines := strings.Split(rec.bodies[0], "\n")
	require.Len(t, lines, 3)
	second := write.NewPointWithMeasurement("unit_dispatch").
		AddTag("run_id", "r2").
		AddTag("unit", "gas").
		AddTag("role", "thermal_plant").
		AddField("power_mw", 60.123).
		SetTime(start.Add(time.Hour))
	assert.Equal(t, strings.TrimSpace(write.PointToLineProtocol(second, time.Nanosecond)), lines[1])
	assert.True(t, strings.HasPrefix(lines[2], "unit_dispatch,run_id=r2,unit=store power_mw=-10"))
}

func TestInfluxSink_EmptySchedule(t *testing.T) {
	rec := &influxRecorder{}
	srv := rec.server(t)
	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	assert.NoError(t, sink.RecordSchedule(coremetrics.ScheduleEvent{}))
	assert.Empty(t, rec.bodies)
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	sink := NewInfluxSinkWithFallback(srv.URL+"/api/v2/write", "tok", "org", "bucket")
	_, ok := sink.(*InfluxSink)
	assert.False(t, ok, "expected NopSink on failing health check")
	assert.True(t, called, "health endpoint not called")
}
