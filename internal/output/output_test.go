package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/model"
)

func plainFormatter(buf *bytes.Buffer) *Formatter {
	return &Formatter{Writer: buf, Format: FormatCLI, ColorMode: ColorNever}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{60, "1m"},
		{90, "1m 30s"},
		{3600, "1h"},
		{5400, "1h 30m"},
		{7200, "2h"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSeconds(tt.seconds))
	}
}

func TestFormatDay(t *testing.T) {
	d := time.Date(2024, 6, 10, 14, 30, 0, 0, time.Local)
	assert.Equal(t, "2024-06-10", FormatDay(d))
}

func TestFormatterJSON(t *testing.T) {
	var buf bytes.Buffer
	f := plainFormatter(&buf)

	require.NoError(t, f.JSON(map[string]int{"count": 3}))

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, 3, decoded["count"])
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLIFormatter(plainFormatter(&buf))

	bar := c.ProgressBar(0.5, 10)
	assert.Equal(t, 5, strings.Count(bar, "█"))
	assert.Equal(t, 5, strings.Count(bar, "░"))

	assert.Equal(t, 10, strings.Count(c.ProgressBar(1.0, 10), "█"))
	assert.Equal(t, 10, strings.Count(c.ProgressBar(0, 10), "░"))

	// out-of-range values clamp
	assert.Equal(t, 10, strings.Count(c.ProgressBar(2.5, 10), "█"))
	assert.Equal(t, 10, strings.Count(c.ProgressBar(-1, 10), "░"))

	// width defaults to 20
	assert.Len(t, []rune(c.ProgressBar(0, 0)), 20)
}

func TestScheduleLine(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLIFormatter(plainFormatter(&buf))

	assert.Equal(t, "every day", c.ScheduleLine(model.EveryDay(), calendar.Monday))

	set, err := model.NewWeekdaySet(calendar.Sunday, calendar.Monday)
	require.NoError(t, err)

	// ordering follows the configured first day of week
	assert.Equal(t, "mon sun", c.ScheduleLine(set, calendar.Monday))
	assert.Equal(t, "sun mon", c.ScheduleLine(set, calendar.Sunday))
}

func TestStreakBadge(t *testing.T) {
	var buf bytes.Buffer
	c := NewCLIFormatter(plainFormatter(&buf))

	assert.Equal(t, "🔥 12", c.StreakBadge(12))
}

func TestNewHabitOutput(t *testing.T) {
	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	h := model.NewHabit("pushups", "Pushups", model.KindCounter, 20, model.EveryDay(), start, now)

	out := NewHabitOutput(h)
	assert.Equal(t, "pushups", out.SID)
	assert.Equal(t, "Pushups", out.Name)
	assert.Equal(t, int64(20), out.Goal)
	assert.Equal(t, "2024-06-03", out.StartDate)
}

func TestNewTimerOutput(t *testing.T) {
	out := NewTimerOutput("meditate", nil, 0)
	assert.Equal(t, "idle", out.State)

	startedAt := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	cp := model.NewCheckpoint("meditate", 30, startedAt)
	out = NewTimerOutput("meditate", cp, 90)
	assert.Equal(t, "running", out.State)
	assert.Equal(t, int64(90), out.Displayed)
	assert.NotEmpty(t, out.StartedAt)

	cp.Running = false
	out = NewTimerOutput("meditate", cp, 30)
	assert.Equal(t, "paused", out.State)
}

func TestJSONFormatterPrintError(t *testing.T) {
	var buf bytes.Buffer
	j := NewJSONFormatter(plainFormatter(&buf))

	require.NoError(t, j.PrintError("not_found", "habit not found", ""))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "not_found", resp.Error)
	assert.Equal(t, "habit not found", resp.Message)
}
