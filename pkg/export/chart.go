package export

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/unitcommit/core/model"
)

// WriteHTML renders the schedule as a line chart page with one series per
// unit. Hours without a value for a unit are drawn as zero.
func WriteHTML(w io.Writer, s *model.Schedule, start time.Time) error {
	if s == nil {
		return errors.New("export: nil schedule")
	}
	names := unitNames(s)
	hours := 0
	for _, n := range names {
		for h := range s.Units[n] {
			hours = max(hours, h)
		}
	}

	xAxis := make([]string, hours)
	for h := 1; h <= hours; h++ {
		xAxis[h-1] = start.Add(time.Duration(h-1) * time.Hour).Format("2006-01-02 15:04")
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Dispatch",
			Subtitle: fmt.Sprintf("run %s, total cost %.2f", s.RunID, s.TotalCost),
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Hour"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Power (MW)"}),
	)
	line.SetXAxis(xAxis)
	for _, n := range names {
		data := make([]opts.LineData, hours)
		for h := 1; h <= hours; h++ {
			p, _ := s.Power(n, h)
			data[h-1] = opts.LineData{Value: p}
		}
		line.AddSeries(n, data)
	}
	if err := line.Render(w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}
