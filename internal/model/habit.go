package model

import (
	"fmt"
	"time"
)

// HabitKind distinguishes how progress for a habit is produced.
type HabitKind string

const (
	// KindCounter habits are logged in discrete amounts (reps, pages, glasses).
	KindCounter HabitKind = "counter"
	// KindTimer habits accumulate elapsed seconds through the timer.
	KindTimer HabitKind = "timer"
)

// Habit represents a recurring goal: do some activity on the scheduled
// weekdays, reaching Goal units per due day.
type Habit struct {
	Key       string     `json:"key"`
	SID       string     `json:"sid"`
	Name      string     `json:"name"`
	Kind      HabitKind  `json:"kind"`
	Goal      int64      `json:"goal"`
	Schedule  WeekdaySet `json:"schedule"`
	StartDate time.Time  `json:"start_date"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// SetKey sets the database key for this habit.
func (h *Habit) SetKey(key string) {
	h.Key = key
}

// GetKey returns the database key for this habit.
func (h *Habit) GetKey() string {
	return h.Key
}

// GenerateHabitKey generates a database key for a habit using its SID.
func GenerateHabitKey(sid string) string {
	return fmt.Sprintf("%s:%s", PrefixHabit, sid)
}

// NewHabit creates a new habit. StartDate is floored to local midnight by the
// caller via the calendar; the constructor records it as given.
func NewHabit(sid, name string, kind HabitKind, goal int64, schedule WeekdaySet, startDate, now time.Time) *Habit {
	return &Habit{
		Key:       GenerateHabitKey(sid),
		SID:       sid,
		Name:      name,
		Kind:      kind,
		Goal:      goal,
		Schedule:  schedule,
		StartDate: startDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Unit returns the display unit for the habit's progress values.
func (h *Habit) Unit() string {
	if h.Kind == KindTimer {
		return "seconds"
	}
	return "times"
}
