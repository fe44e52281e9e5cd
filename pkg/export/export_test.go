package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/unitcommit/core/model"
)

func sample() *model.Schedule {
	s := model.NewSchedule()
	s.RunID = "r1"
	s.TotalCost = 10262
	s.Set("t0", 2, 45.5)
	s.Set("t0", 1, 50)
	s.Set("b0", 1, -5)
	return s
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, WriteCSV(&buf, sample(), start))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"run_id,unit,hour,start,power_mw",
		"r1,b0,1,2026-04-01T00:00:00Z,-5",
		"r1,t0,1,2026-04-01T00:00:00Z,50",
		"r1,t0,2,2026-04-01T01:00:00Z,45.5",
	}, lines)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sample()))
	var raw map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	assert.Equal(t, "r1", raw["run_id"])
	assert.Equal(t, 10262.0, raw["total_cost"])
	units := raw["units"].(map[string]any)
	assert.Equal(t, 45.5, units["t0"].(map[string]any)["2"])
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, WriteHTML(&buf, sample(), start))
	out := buf.String()
	assert.Contains(t, out, "<html")
	assert.Contains(t, out, "Dispatch")
	assert.Contains(t, out, "t0")
	assert.Contains(t, out, "b0")
	assert.Contains(t, out, "2026-04-01 01:00")
}

func TestWriteHTML_NilSchedule(t *testing.T) {
	assert.Error(t, WriteHTML(&bytes.Buffer{}, nil, time.Time{}))
}
