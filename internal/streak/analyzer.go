// Package streak computes current/best streaks and lifetime completion
// counts from a habit's schedule and completion records.
package streak

import (
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/schedule"
	"github.com/hatamisg/rutin/internal/storage"
)

// GraceHour is the local hour at which an unmet due day starts breaking the
// current streak. Before this hour the day is treated as still open, so a
// user who has not logged yet does not watch their streak show zero all day.
const GraceHour = 23

// Report is the derived streak summary for a habit as of a day. It is
// computed on demand and never persisted.
type Report struct {
	Current        int `json:"current"`
	Best           int `json:"best"`
	CompletedTotal int `json:"completed_total"`
}

// Analyzer derives streak figures. It holds no state of its own; everything
// is recomputed from the resolver and the record store, which is what lets
// independent processes agree on the numbers.
type Analyzer struct {
	resolver *schedule.Resolver
	records  *storage.RecordRepo
	cal      calendar.Calendar
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(resolver *schedule.Resolver, records *storage.RecordRepo, cal calendar.Calendar) *Analyzer {
	return &Analyzer{resolver: resolver, records: records, cal: cal}
}

// Current returns the habit's current streak as of the given day and local
// wall-clock hour. The hour only matters for the grace rule: an unmet due
// asOf day is skipped (not broken) before GraceHour and breaks the streak at
// or after it. Non-due days never break a streak; they are skipped.
func (a *Analyzer) Current(habit *model.Habit, asOf time.Time, currentHour int) (int, error) {
	sums, err := a.records.SumByDay(habit.SID)
	if err != nil {
		return 0, err
	}

	day := a.cal.StartOfDay(asOf)
	start := a.cal.StartOfDay(habit.StartDate)
	done := func(d time.Time) bool {
		return sums[calendar.DayKey(d)] >= habit.Goal
	}

	if a.resolver.IsDue(habit, day) && !done(day) {
		if currentHour >= GraceHour {
			return 0, nil
		}
		// Grace: compute as if today were absent.
		day = a.cal.AddDays(day, -1)
	}

	count := 0
	for !day.Before(start) {
		if !a.resolver.IsDue(habit, day) {
			day = a.cal.AddDays(day, -1)
			continue
		}
		if !done(day) {
			break
		}
		count++
		day = a.cal.AddDays(day, -1)
	}
	return count, nil
}

// Best returns the habit's best historical streak between its start date and
// asOf inclusive. No grace rule applies: an unmet due day resets the running
// count, a non-due day leaves it untouched.
func (a *Analyzer) Best(habit *model.Habit, asOf time.Time) (int, error) {
	sums, err := a.records.SumByDay(habit.SID)
	if err != nil {
		return 0, err
	}

	end := a.cal.StartOfDay(asOf)
	running, best := 0, 0
	for day := a.cal.StartOfDay(habit.StartDate); !day.After(end); day = a.cal.AddDays(day, 1) {
		if !a.resolver.IsDue(habit, day) {
			continue
		}
		if sums[calendar.DayKey(day)] >= habit.Goal {
			running++
			if running > best {
				best = running
			}
		} else {
			running = 0
		}
	}
	return best, nil
}

// TotalCompleted counts the distinct days up to and including asOf whose
// progress reached the goal, whether or not the day was due. A completion
// stays in the lifetime total even if the schedule later dropped its weekday.
func (a *Analyzer) TotalCompleted(habit *model.Habit, asOf time.Time) (int, error) {
	sums, err := a.records.SumByDay(habit.SID)
	if err != nil {
		return 0, err
	}

	cutoff := calendar.DayKey(a.cal.StartOfDay(asOf))
	count := 0
	for day, sum := range sums {
		if day <= cutoff && sum >= habit.Goal {
			count++
		}
	}
	return count, nil
}

// ReportFor bundles all three figures for one habit.
func (a *Analyzer) ReportFor(habit *model.Habit, asOf time.Time, currentHour int) (*Report, error) {
	current, err := a.Current(habit, asOf, currentHour)
	if err != nil {
		return nil, err
	}
	best, err := a.Best(habit, asOf)
	if err != nil {
		return nil, err
	}
	total, err := a.TotalCompleted(habit, asOf)
	if err != nil {
		return nil, err
	}
	return &Report{Current: current, Best: best, CompletedTotal: total}, nil
}
