// Package calendar abstracts wall-clock and calendar-day arithmetic so the
// engine can be driven by a fixed clock in tests. All day values handed to
// the engine are local-midnight time.Time values produced by StartOfDay.
package calendar

import "time"

// Weekday numbers used by habit schedules. Sunday=1 through Saturday=7,
// independent of any first-day-of-week display preference.
const (
	Sunday    = 1
	Monday    = 2
	Tuesday   = 3
	Wednesday = 4
	Thursday  = 5
	Friday    = 6
	Saturday  = 7
)

// Calendar supplies the current instant and day-level arithmetic.
type Calendar interface {
	// Now returns the current instant.
	Now() time.Time
	// StartOfDay floors an instant to local midnight.
	StartOfDay(t time.Time) time.Time
	// AddDays returns the day n days after (or before, for negative n) day.
	AddDays(day time.Time, n int) time.Time
	// WeekdayNumber returns the absolute weekday number of day (Sunday=1..Saturday=7).
	WeekdayNumber(day time.Time) int
}

// System is a Calendar backed by the real clock and the local time zone.
type System struct{}

// Now returns the current local time.
func (System) Now() time.Time {
	return time.Now()
}

// StartOfDay floors t to midnight in t's location.
func (System) StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddDays adds n calendar days using date arithmetic, which is safe across
// DST transitions unlike adding 24h durations.
func (System) AddDays(day time.Time, n int) time.Time {
	return day.AddDate(0, 0, n)
}

// WeekdayNumber maps time.Weekday (Sunday=0) onto the 1..7 numbering.
func (System) WeekdayNumber(day time.Time) int {
	return int(day.Weekday()) + 1
}

// IsMidnight reports whether t is already floored to day granularity.
func IsMidnight(t time.Time) bool {
	return t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
}

// DayKey formats a day as the canonical YYYY-MM-DD storage form.
func DayKey(day time.Time) string {
	return day.Format("2006-01-02")
}

// ParseDayKey parses the canonical YYYY-MM-DD storage form in the local zone.
func ParseDayKey(s string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", s, time.Local)
}
