package timer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/storage"
)

var morning = time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

type timerFixture struct {
	reconciler *Reconciler
	agg        *progress.Aggregator
	cal        *calendar.Fixed
	habit      *model.Habit
}

func setupTimer(t *testing.T) *timerFixture {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cal := calendar.NewFixed(morning)
	agg := progress.NewAggregator(storage.NewRecordRepo(db), cal)
	rec := NewReconciler(storage.NewCheckpointRepo(db), agg, cal)

	start := cal.StartOfDay(morning)
	habit := model.NewHabit("meditation", "Meditation", model.KindTimer, 600, model.EveryDay(), start, morning)
	return &timerFixture{reconciler: rec, agg: agg, cal: cal, habit: habit}
}

func TestStartSeedsBaseFromExistingProgress(t *testing.T) {
	f := setupTimer(t)

	require.NoError(t, f.agg.Set(f.habit, morning, 120))

	cp, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)
	assert.True(t, cp.Running)
	assert.Equal(t, int64(120), cp.BaseProgress)
	assert.Equal(t, int64(120), cp.Displayed(f.cal.Now()))
}

func TestStartWhileRunningRejected(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)

	_, err = f.reconciler.Start(f.habit)
	assert.ErrorIs(t, err, errors.ErrTimerAlreadyRunning)
}

func TestDisplayedGrowsWithClock(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)

	f.cal.Advance(90 * time.Second)
	_, displayed, err := f.reconciler.Status(f.habit.SID)
	require.NoError(t, err)
	assert.Equal(t, int64(90), displayed)
}

func TestPauseFoldsElapsedIntoBase(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)

	f.cal.Advance(45 * time.Second)
	cp, err := f.reconciler.Pause(f.habit.SID)
	require.NoError(t, err)

	assert.False(t, cp.Running)
	assert.Nil(t, cp.StartedAt)
	assert.Equal(t, int64(45), cp.BaseProgress)

	// Paused value holds while the clock moves.
	f.cal.Advance(10 * time.Minute)
	_, displayed, err := f.reconciler.Status(f.habit.SID)
	require.NoError(t, err)
	assert.Equal(t, int64(45), displayed)
}

func TestPauseWhenNotRunningRejected(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)
	_, err = f.reconciler.Pause(f.habit.SID)
	require.NoError(t, err)

	_, err = f.reconciler.Pause(f.habit.SID)
	assert.ErrorIs(t, err, errors.ErrTimerNotRunning)
}

func TestResumeDoesNotDoubleCount(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)
	f.cal.Advance(30 * time.Second)
	_, err = f.reconciler.Pause(f.habit.SID)
	require.NoError(t, err)

	// Time passes while paused; none of it counts.
	f.cal.Advance(5 * time.Minute)
	cp, err := f.reconciler.Resume(f.habit.SID)
	require.NoError(t, err)
	assert.True(t, cp.Running)
	assert.Equal(t, int64(30), cp.BaseProgress)

	f.cal.Advance(30 * time.Second)
	_, displayed, err := f.reconciler.Status(f.habit.SID)
	require.NoError(t, err)
	assert.Equal(t, int64(60), displayed)
}

func TestResumeWhileRunningRejected(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)

	_, err = f.reconciler.Resume(f.habit.SID)
	assert.ErrorIs(t, err, errors.ErrTimerAlreadyRunning)
}

func TestCommitPersistsAndClears(t *testing.T) {
	f := setupTimer(t)

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)
	f.cal.Advance(10 * time.Minute)

	value, err := f.reconciler.Commit(f.habit)
	require.NoError(t, err)
	assert.Equal(t, int64(600), value)

	// Progress persisted for the day.
	p, err := f.agg.ForDay(f.habit.SID, f.cal.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(600), p)

	// Checkpoint is gone; the timer is idle.
	cp, displayed, err := f.reconciler.Status(f.habit.SID)
	require.NoError(t, err)
	assert.Nil(t, cp)
	assert.Equal(t, int64(0), displayed)
}

func TestResetClearsTimerAndProgress(t *testing.T) {
	f := setupTimer(t)

	require.NoError(t, f.agg.Set(f.habit, morning, 120))
	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)
	f.cal.Advance(time.Minute)

	require.NoError(t, f.reconciler.Reset(f.habit))

	p, err := f.agg.ForDay(f.habit.SID, f.cal.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(0), p)

	cp, _, err := f.reconciler.Status(f.habit.SID)
	require.NoError(t, err)
	assert.Nil(t, cp)
}

func TestStatusIdleWithoutCheckpoint(t *testing.T) {
	f := setupTimer(t)

	cp, displayed, err := f.reconciler.Status(f.habit.SID)
	require.NoError(t, err)
	assert.Nil(t, cp)
	assert.Equal(t, int64(0), displayed)
}

func TestOnChangeFiresOnTransitions(t *testing.T) {
	f := setupTimer(t)

	var fired int
	f.reconciler.OnChange = func(sid string) {
		assert.Equal(t, f.habit.SID, sid)
		fired++
	}

	_, err := f.reconciler.Start(f.habit)
	require.NoError(t, err)
	_, err = f.reconciler.Pause(f.habit.SID)
	require.NoError(t, err)
	_, err = f.reconciler.Resume(f.habit.SID)
	require.NoError(t, err)
	_, err = f.reconciler.Commit(f.habit)
	require.NoError(t, err)

	assert.Equal(t, 4, fired)
}

func TestDisplayedHelper(t *testing.T) {
	now := morning
	assert.Equal(t, int64(0), Displayed(nil, now))

	cp := model.NewCheckpoint("meditation", 10, now)
	assert.Equal(t, int64(70), Displayed(cp, now.Add(time.Minute)))
}
