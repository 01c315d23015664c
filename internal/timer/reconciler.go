// Package timer manages a habit's timer checkpoint: the persisted
// (baseProgress, startedAt, running) snapshot from which every renderer
// derives what the timer shows right now.
package timer

import (
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/storage"
)

// Reconciler drives the checkpoint state machine. States: idle (no
// checkpoint, or a paused one) and running. Every transition replaces the
// checkpoint wholesale; readers derive display values with
// Checkpoint.Displayed and never mutate anything to read.
type Reconciler struct {
	checkpoints *storage.CheckpointRepo
	progress    *progress.Aggregator
	cal         calendar.Calendar

	// OnChange, when set, is invoked with the habit SID after every
	// checkpoint transition.
	OnChange func(habitSID string)
}

// NewReconciler creates a reconciler.
func NewReconciler(checkpoints *storage.CheckpointRepo, agg *progress.Aggregator, cal calendar.Calendar) *Reconciler {
	return &Reconciler{checkpoints: checkpoints, progress: agg, cal: cal}
}

// Start begins timing a habit. The checkpoint's base is seeded with today's
// already-logged progress so the displayed value continues from it. Starting
// while already running is rejected.
func (r *Reconciler) Start(habit *model.Habit) (*model.Checkpoint, error) {
	now := r.cal.Now()

	existing, err := r.checkpoints.Get(habit.SID)
	if err != nil && !errors.Is(err, errors.ErrCheckpointNotFound) {
		return nil, err
	}
	if existing != nil && existing.Running {
		return nil, errors.ErrTimerAlreadyRunning
	}

	base, err := r.progress.ForDay(habit.SID, now)
	if err != nil {
		return nil, err
	}

	cp := model.NewCheckpoint(habit.SID, base, now)
	if err := r.checkpoints.Put(cp); err != nil {
		return nil, errors.NewSystemErrorWithOp("timer start", "storage write failed", err)
	}
	r.changed(habit.SID)
	return cp, nil
}

// Pause stops the clock without losing progress: the elapsed time is folded
// into the base so a later resume does not double count.
func (r *Reconciler) Pause(habitSID string) (*model.Checkpoint, error) {
	cp, err := r.checkpoints.Get(habitSID)
	if err != nil {
		return nil, err
	}
	if !cp.Running {
		return nil, errors.ErrTimerNotRunning
	}

	now := r.cal.Now()
	folded := cp.Displayed(now)
	paused := &model.Checkpoint{
		Key:          cp.Key,
		HabitSID:     cp.HabitSID,
		BaseProgress: folded,
		StartedAt:    nil,
		Running:      false,
		UpdatedAt:    now,
	}
	if err := r.checkpoints.Put(paused); err != nil {
		return nil, errors.NewSystemErrorWithOp("timer pause", "storage write failed", err)
	}
	r.changed(habitSID)
	return paused, nil
}

// Resume restarts a paused timer. The base carries over unchanged; only the
// start instant is new.
func (r *Reconciler) Resume(habitSID string) (*model.Checkpoint, error) {
	cp, err := r.checkpoints.Get(habitSID)
	if err != nil {
		return nil, err
	}
	if cp.Running {
		return nil, errors.ErrTimerAlreadyRunning
	}

	resumed := model.NewCheckpoint(habitSID, cp.BaseProgress, r.cal.Now())
	if err := r.checkpoints.Put(resumed); err != nil {
		return nil, errors.NewSystemErrorWithOp("timer resume", "storage write failed", err)
	}
	r.changed(habitSID)
	return resumed, nil
}

// Commit persists the displayed value as today's progress and clears the
// checkpoint. Used on completion or explicit stop.
func (r *Reconciler) Commit(habit *model.Habit) (int64, error) {
	cp, err := r.checkpoints.Get(habit.SID)
	if err != nil {
		return 0, err
	}

	now := r.cal.Now()
	value := cp.Displayed(now)
	if err := r.progress.Set(habit, now, value); err != nil {
		return 0, err
	}
	if err := r.checkpoints.Clear(habit.SID); err != nil {
		return 0, errors.NewSystemErrorWithOp("timer commit", "storage write failed", err)
	}
	r.changed(habit.SID)
	return value, nil
}

// Reset discards the timer and today's progress for the habit.
func (r *Reconciler) Reset(habit *model.Habit) error {
	now := r.cal.Now()
	if err := r.progress.Set(habit, now, 0); err != nil {
		return err
	}
	if err := r.checkpoints.Clear(habit.SID); err != nil {
		return errors.NewSystemErrorWithOp("timer reset", "storage write failed", err)
	}
	r.changed(habit.SID)
	return nil
}

// Status returns the habit's checkpoint and its displayed value at now.
// Absent checkpoints yield (nil, 0): the timer is simply idle.
func (r *Reconciler) Status(habitSID string) (*model.Checkpoint, int64, error) {
	cp, err := r.checkpoints.Get(habitSID)
	if err != nil {
		if errors.Is(err, errors.ErrCheckpointNotFound) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	return cp, cp.Displayed(r.cal.Now()), nil
}

// Displayed re-exports the pure read for callers holding a checkpoint
// snapshot and their own clock, e.g. out-of-process renderers.
func Displayed(cp *model.Checkpoint, now time.Time) int64 {
	if cp == nil {
		return 0
	}
	return cp.Displayed(now)
}

func (r *Reconciler) changed(habitSID string) {
	if r.OnChange != nil {
		r.OnChange(habitSID)
	}
}
