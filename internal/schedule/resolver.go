// Package schedule decides whether a habit is due on a given calendar day.
package schedule

import (
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/model"
)

// Resolver answers dueness questions for habits. It is a pure function of
// the habit's schedule and start date; the user's first-day-of-week display
// preference never enters into it, because the schedule mask is stored with
// absolute weekday numbers.
type Resolver struct {
	cal calendar.Calendar
}

// NewResolver creates a resolver over the given calendar.
func NewResolver(cal calendar.Calendar) *Resolver {
	return &Resolver{cal: cal}
}

// IsDue reports whether the habit is due on the given day. Days before the
// habit's start date are never due. The day is floored to midnight before
// evaluation so callers holding an instant get the answer for its day.
func (r *Resolver) IsDue(habit *model.Habit, day time.Time) bool {
	d := r.cal.StartOfDay(day)
	start := r.cal.StartOfDay(habit.StartDate)
	if d.Before(start) {
		return false
	}
	return habit.Schedule.Contains(r.cal.WeekdayNumber(d))
}

// NextDue returns the first due day at or after the given day, or the zero
// time if the habit has an empty schedule (which construction forbids, but
// reads stay fail-safe).
func (r *Resolver) NextDue(habit *model.Habit, day time.Time) time.Time {
	if habit.Schedule.IsEmpty() {
		return time.Time{}
	}
	d := r.cal.StartOfDay(day)
	start := r.cal.StartOfDay(habit.StartDate)
	if d.Before(start) {
		d = start
	}
	for i := 0; i < 7; i++ {
		if habit.Schedule.Contains(r.cal.WeekdayNumber(d)) {
			return d
		}
		d = r.cal.AddDays(d, 1)
	}
	return time.Time{}
}
