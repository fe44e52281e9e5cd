// Package export writes solved schedules in file formats.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/kilianp07/unitcommit/core/model"
)

// WriteJSON writes the schedule to w as indented JSON.
func WriteJSON(w io.Writer, s *model.Schedule) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

// WriteCSV writes one line per unit and hour, units in name order. start
// is the beginning of hour 1.
func WriteCSV(w io.Writer, s *model.Schedule, start time.Time) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"run_id", "unit", "hour", "start", "power_mw"}); err != nil {
		return err
	}
	for _, n := range unitNames(s) {
		hours := make([]int, 0, len(s.Units[n]))
		for h := range s.Units[n] {
			hours = append(hours, h)
		}
		sort.Ints(hours)
		for _, h := range hours {
			rec := []string{
				s.RunID,
				n,
				strconv.Itoa(h),
				start.Add(time.Duration(h-1) * time.Hour).Format(time.RFC3339),
				strconv.FormatFloat(s.Units[n][h], 'f', -1, 64),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func unitNames(s *model.Schedule) []string {
	names := make([]string, 0, len(s.Units))
	for n := range s.Units {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
