package snapshot

import (
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/schedule"
	"github.com/hatamisg/rutin/internal/storage"
	"github.com/hatamisg/rutin/internal/streak"
)

// Builder assembles a Snapshot from the engine's pure reads.
type Builder struct {
	habits      *storage.HabitRepo
	checkpoints *storage.CheckpointRepo
	resolver    *schedule.Resolver
	aggregator  *progress.Aggregator
	analyzer    *streak.Analyzer
	cal         calendar.Calendar
}

// NewBuilder creates a snapshot builder.
func NewBuilder(
	habits *storage.HabitRepo,
	checkpoints *storage.CheckpointRepo,
	resolver *schedule.Resolver,
	aggregator *progress.Aggregator,
	analyzer *streak.Analyzer,
	cal calendar.Calendar,
) *Builder {
	return &Builder{
		habits:      habits,
		checkpoints: checkpoints,
		resolver:    resolver,
		aggregator:  aggregator,
		analyzer:    analyzer,
		cal:         cal,
	}
}

// Build computes the full display state for every habit as of now.
func (b *Builder) Build() (*Snapshot, error) {
	now := b.cal.Now()
	today := b.cal.StartOfDay(now)

	habits, err := b.habits.List()
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Day:         calendar.DayKey(today),
		GeneratedAt: now,
		Habits:      make([]HabitView, 0, len(habits)),
	}

	for _, h := range habits {
		view, err := b.buildView(h, now)
		if err != nil {
			return nil, err
		}
		s.Habits = append(s.Habits, view)
	}
	return s, nil
}

func (b *Builder) buildView(h *model.Habit, now time.Time) (HabitView, error) {
	today := b.cal.StartOfDay(now)

	p, err := b.aggregator.ForDay(h.SID, today)
	if err != nil {
		return HabitView{}, err
	}
	pct, err := b.aggregator.Percentage(h, today)
	if err != nil {
		return HabitView{}, err
	}
	report, err := b.analyzer.ReportFor(h, today, now.Hour())
	if err != nil {
		return HabitView{}, err
	}

	view := HabitView{
		SID:        h.SID,
		Name:       h.Name,
		Kind:       h.Kind,
		Goal:       h.Goal,
		Schedule:   h.Schedule,
		Due:        b.resolver.IsDue(h, today),
		Progress:   p,
		Percentage: pct,
		Completed:  p >= h.Goal,
		Exceeded:   p > h.Goal,
		Streak:     report,
	}

	cp, err := b.checkpoints.Get(h.SID)
	if err != nil && !errors.Is(err, errors.ErrCheckpointNotFound) {
		return HabitView{}, err
	}
	view.Checkpoint = cp
	return view, nil
}
