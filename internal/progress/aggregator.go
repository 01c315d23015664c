// Package progress aggregates completion records into per-day progress and
// exposes the only mutators that may change them.
package progress

import (
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/storage"
	"github.com/hatamisg/rutin/internal/validate"
)

// DisplayCap bounds the progress value used in percentage computation.
// Stored amounts are never truncated; only the percentage clamps.
const DisplayCap = 999_999

// Aggregator reads and rewrites a habit's per-day progress. Reads are pure
// over the record store; mutations are atomic per (habit, day) and fire
// OnChange afterwards so external renderers recompute.
type Aggregator struct {
	records *storage.RecordRepo
	cal     calendar.Calendar

	// OnChange, when set, is invoked with the habit SID after every
	// successful mutation. Delivery semantics are fire-and-forget.
	OnChange func(habitSID string)
}

// NewAggregator creates an aggregator over the given record store.
func NewAggregator(records *storage.RecordRepo, cal calendar.Calendar) *Aggregator {
	return &Aggregator{records: records, cal: cal}
}

// ForDay returns the habit's progress for the given day: the sum of all
// completion records, zero when none exist.
func (a *Aggregator) ForDay(habitSID string, day time.Time) (int64, error) {
	return a.records.SumDay(habitSID, calendar.DayKey(a.cal.StartOfDay(day)))
}

// Set atomically replaces the day's records with a single record holding v
// (or none when v is zero). Negative values are rejected before any write.
func (a *Aggregator) Set(habit *model.Habit, day time.Time, v int64) error {
	if err := validate.Amount(v); err != nil {
		return err
	}
	d := calendar.DayKey(a.cal.StartOfDay(day))
	if err := a.records.ReplaceDay(habit.SID, d, v, a.cal.Now()); err != nil {
		return errors.NewSystemErrorWithOp("set progress", "storage write failed", err)
	}
	a.changed(habit.SID)
	return nil
}

// Add applies a delta to the day's progress, flooring the result at zero. A
// negative delta larger than the current value clears the day rather than
// going negative.
func (a *Aggregator) Add(habit *model.Habit, day time.Time, delta int64) error {
	current, err := a.ForDay(habit.SID, day)
	if err != nil {
		return err
	}
	next := current + delta
	if next < 0 {
		next = 0
	}
	return a.Set(habit, day, next)
}

// Percentage returns the completion fraction for the day, always in [0, 1].
// The progress value is capped at DisplayCap first; a non-positive goal
// degenerates to 1.0 for any positive progress and 0.0 otherwise.
func (a *Aggregator) Percentage(habit *model.Habit, day time.Time) (float64, error) {
	p, err := a.ForDay(habit.SID, day)
	if err != nil {
		return 0, err
	}
	if p > DisplayCap {
		p = DisplayCap
	}
	if habit.Goal <= 0 {
		if p > 0 {
			return 1.0, nil
		}
		return 0.0, nil
	}
	pct := float64(p) / float64(habit.Goal)
	if pct > 1.0 {
		pct = 1.0
	}
	return pct, nil
}

// Completed reports whether the day's progress reached the goal.
func (a *Aggregator) Completed(habit *model.Habit, day time.Time) (bool, error) {
	p, err := a.ForDay(habit.SID, day)
	if err != nil {
		return false, err
	}
	return p >= habit.Goal, nil
}

// Exceeded reports whether the day's progress went past the goal.
func (a *Aggregator) Exceeded(habit *model.Habit, day time.Time) (bool, error) {
	p, err := a.ForDay(habit.SID, day)
	if err != nil {
		return false, err
	}
	return p > habit.Goal, nil
}

func (a *Aggregator) changed(habitSID string) {
	if a.OnChange != nil {
		a.OnChange(habitSID)
	}
}
