package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
)

// monday 2024-06-10, 14:30 local time
var parserNow = time.Date(2024, 6, 10, 14, 30, 0, 0, time.Local)

func TestParseDayRelative(t *testing.T) {
	cal := calendar.NewFixed(parserNow)
	today := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", today},
		{"today", today},
		{"TODAY", today},
		{"now", today},
		{"yesterday", today.AddDate(0, 0, -1)},
		{"tomorrow", today.AddDate(0, 0, 1)},
	}

	for _, tt := range tests {
		result := ParseDay(cal, tt.input)
		require.NoError(t, result.Error, "input %q", tt.input)
		assert.Equal(t, tt.want, result.Day, "input %q", tt.input)
	}
}

func TestParseDayNaturalLanguage(t *testing.T) {
	cal := calendar.NewFixed(parserNow)

	result := ParseDay(cal, "3 days ago")
	require.NoError(t, result.Error)
	assert.Equal(t, time.Date(2024, 6, 7, 0, 0, 0, 0, time.Local), result.Day)

	result = ParseDay(cal, "2024-06-01")
	require.NoError(t, result.Error)
	assert.Equal(t, 1, result.Day.Day())
	assert.Equal(t, time.June, result.Day.Month())
}

func TestParseDayFloorsToMidnight(t *testing.T) {
	cal := calendar.NewFixed(parserNow)

	result := ParseDay(cal, "today")
	require.NoError(t, result.Error)
	assert.Equal(t, 0, result.Day.Hour())
	assert.Equal(t, 0, result.Day.Minute())
}

func TestParseDayInvalid(t *testing.T) {
	cal := calendar.NewFixed(parserNow)

	result := ParseDay(cal, "not a real day at all xyzzy")
	require.Error(t, result.Error)

	var perr *ParseError
	require.ErrorAs(t, result.Error, &perr)
	assert.Contains(t, perr.FormatWithExamples(), "yesterday")
}

func TestDayKeyOf(t *testing.T) {
	cal := calendar.NewFixed(parserNow)

	key, err := DayKeyOf(cal, "today")
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", key)

	_, err = DayKeyOf(cal, "xyzzy not a day")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		valid bool
	}{
		{"5", 5, true},
		{"  12  ", 12, true},
		{"0", 0, true},
		{"-3", -3, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.5", 0, false},
	}

	for _, tt := range tests {
		got := ParseAmount(tt.input)
		assert.Equal(t, tt.valid, got.Valid, "input %q", tt.input)
		if tt.valid {
			assert.Equal(t, tt.want, got.Amount, "input %q", tt.input)
		}
	}
}

func TestParseDurationSeconds(t *testing.T) {
	tests := []struct {
		input string
		want  int64
		valid bool
	}{
		{"90", 90, true},
		{"30m", 1800, true},
		{"2h", 7200, true},
		{"2h30m", 9000, true},
		{"1 hour 30 minutes", 5400, true},
		{"45 mins", 2700, true},
		{"10 seconds", 10, true},
		{"1.5h", 5400, true},
		{"", 0, false},
		{"soon", 0, false},
	}

	for _, tt := range tests {
		got := ParseDurationSeconds(tt.input)
		assert.Equal(t, tt.valid, got.Valid, "input %q", tt.input)
		if tt.valid {
			assert.Equal(t, tt.want, got.Amount, "input %q", tt.input)
		}
	}
}

func TestParseScheduleAliases(t *testing.T) {
	daily, err := ParseSchedule("daily")
	require.NoError(t, err)
	assert.Equal(t, 7, daily.Count())

	weekdays, err := ParseSchedule("weekdays")
	require.NoError(t, err)
	assert.Equal(t, 5, weekdays.Count())
	assert.True(t, weekdays.Contains(calendar.Monday))
	assert.False(t, weekdays.Contains(calendar.Saturday))

	weekends, err := ParseSchedule("WEEKENDS")
	require.NoError(t, err)
	assert.Equal(t, 2, weekends.Count())
	assert.True(t, weekends.Contains(calendar.Sunday))
	assert.True(t, weekends.Contains(calendar.Saturday))
}

func TestParseScheduleDayList(t *testing.T) {
	set, err := ParseSchedule("mon, wed ,fri")
	require.NoError(t, err)
	assert.Equal(t, 3, set.Count())
	assert.True(t, set.Contains(calendar.Monday))
	assert.True(t, set.Contains(calendar.Wednesday))
	assert.True(t, set.Contains(calendar.Friday))

	set, err = ParseSchedule("saturday,sunday")
	require.NoError(t, err)
	assert.Equal(t, 2, set.Count())
}

func TestParseScheduleErrors(t *testing.T) {
	_, err := ParseSchedule("")
	assert.ErrorIs(t, err, errors.ErrEmptySchedule)

	_, err = ParseSchedule("  ,  ")
	assert.ErrorIs(t, err, errors.ErrEmptySchedule)

	_, err = ParseSchedule("mon,blursday")
	require.Error(t, err)
	var uerr *errors.UserError
	assert.ErrorAs(t, err, &uerr)
}

func TestValidateSID(t *testing.T) {
	assert.True(t, ValidateSID("pushups"))
	assert.True(t, ValidateSID("morning-run"))
	assert.True(t, ValidateSID("habit_2.daily"))

	assert.False(t, ValidateSID(""))
	assert.False(t, ValidateSID("has spaces"))
	assert.False(t, ValidateSID("émoji"))
	assert.False(t, ValidateSID("list"), "reserved word")
	assert.False(t, ValidateSID("DELETE"), "reserved word, any case")

	long := ""
	for i := 0; i < MaxSIDLength+1; i++ {
		long += "a"
	}
	assert.False(t, ValidateSID(long))
}

func TestConvertToSID(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Morning Run!", "morning-run"},
		{"Drink  Water", "drink-water"},
		{"already-fine", "already-fine"},
		{"Read 30 Pages", "read-30-pages"},
		{"--weird--", "weird"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ConvertToSID(tt.input), "input %q", tt.input)
	}
}

func TestNormalizeSID(t *testing.T) {
	assert.Equal(t, "pushups", NormalizeSID("  pushups  "))
	assert.Equal(t, "morning-run", NormalizeSID("Morning Run"))
}
