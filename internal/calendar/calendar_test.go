package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemStartOfDay(t *testing.T) {
	cal := System{}
	instant := time.Date(2024, 6, 10, 15, 42, 7, 123, time.Local)
	day := cal.StartOfDay(instant)

	assert.Equal(t, time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local), day)
	assert.True(t, IsMidnight(day))
	assert.False(t, IsMidnight(instant))
}

func TestSystemWeekdayNumber(t *testing.T) {
	cal := System{}

	// 2024-06-09 was a Sunday.
	sunday := time.Date(2024, 6, 9, 0, 0, 0, 0, time.Local)
	assert.Equal(t, Sunday, cal.WeekdayNumber(sunday))
	assert.Equal(t, Monday, cal.WeekdayNumber(cal.AddDays(sunday, 1)))
	assert.Equal(t, Saturday, cal.WeekdayNumber(cal.AddDays(sunday, 6)))
	assert.Equal(t, Sunday, cal.WeekdayNumber(cal.AddDays(sunday, 7)))
}

func TestSystemAddDaysCrossesMonths(t *testing.T) {
	cal := System{}
	day := time.Date(2024, 1, 31, 0, 0, 0, 0, time.Local)

	assert.Equal(t, time.Date(2024, 2, 1, 0, 0, 0, 0, time.Local), cal.AddDays(day, 1))
	assert.Equal(t, time.Date(2024, 1, 30, 0, 0, 0, 0, time.Local), cal.AddDays(day, -1))
}

func TestDayKeyRoundtrip(t *testing.T) {
	day := time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)
	key := DayKey(day)
	assert.Equal(t, "2024-06-10", key)

	parsed, err := ParseDayKey(key)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(day))
}

func TestFixedCalendar(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 30, 0, 0, time.Local)
	cal := NewFixed(now)

	assert.Equal(t, now, cal.Now())

	cal.Advance(2 * time.Hour)
	assert.Equal(t, now.Add(2*time.Hour), cal.Now())

	cal.Set(now)
	assert.Equal(t, now, cal.Now())
	assert.Equal(t, Monday, cal.WeekdayNumber(cal.Now()))
}
