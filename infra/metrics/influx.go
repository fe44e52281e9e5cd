package metrics

import (
	"context"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/unitcommit/core/metrics"
	"github.com/kilianp07/unitcommit/infra/logger"
)

// InfluxSink writes run summaries and hourly dispatch to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes one unit_commitment_run point.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("unit_commitment_run").
		AddTag("run_id", ev.RunID).
		AddTag("backend", ev.Backend).
		AddTag("state", ev.State).
		AddField("units", ev.Units).
		AddField("variables", ev.Variables).
		AddField("rows", ev.Rows).
		AddField("binaries", ev.Binaries).
		AddField("total_cost", round3(ev.TotalCost)).
		AddField("duration_ms", round3(ev.Duration.Seconds()*1000)).
		AddField("violations", ev.Violations)
	if ev.Error != "" {
		p = p.AddField("error", ev.Error)
	}
	p = p.SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordSchedule writes one unit_dispatch point per unit and hour, stamped
// with the start of the hour.
func (s *InfluxSink) RecordSchedule(ev coremetrics.ScheduleEvent) error {
	if ev.Schedule == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	units := make([]string, 0, len(ev.Schedule.Units))
	for u := range ev.Schedule.Units {
		units = append(units, u)
	}
	sort.Strings(units)

	var points []*write.Point
	for _, u := range units {
		hours := ev.Schedule.Units[u]
		for h := 1; h <= len(hours); h++ {
			power, ok := hours[h]
			if !ok {
				continue
			}
			p := write.NewPointWithMeasurement("unit_dispatch").
				AddTag("run_id", ev.RunID).
				AddTag("unit", u)
			if role := ev.Roles[u]; role != "" {
				p = p.AddTag("role", role)
			}
			points = append(points, p.AddField("power_mw", round3(power)).SetTime(ev.HourTime(h)))
		}
	}
	if len(points) == 0 {
		return nil
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the client.
func (s *InfluxSink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
