package progress

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/storage"
)

var monday = time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

func setupAggregator(t *testing.T) (*Aggregator, *calendar.Fixed) {
	t.Helper()
	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cal := calendar.NewFixed(monday.Add(9 * time.Hour))
	return NewAggregator(storage.NewRecordRepo(db), cal), cal
}

func counterHabit(goal int64) *model.Habit {
	return model.NewHabit("pushups", "Pushups", model.KindCounter, goal, model.EveryDay(), monday, monday)
}

func TestForDayEmpty(t *testing.T) {
	agg, _ := setupAggregator(t)

	p, err := agg.ForDay("pushups", monday)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p)
}

func TestSetAndForDay(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	require.NoError(t, agg.Set(habit, monday, 30))

	p, err := agg.ForDay(habit.SID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(30), p)

	// Set replaces, never accumulates.
	require.NoError(t, agg.Set(habit, monday, 10))
	p, err = agg.ForDay(habit.SID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p)
}

func TestSetRejectsNegative(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	err := agg.Set(habit, monday, -1)
	assert.ErrorIs(t, err, errors.ErrNegativeAmount)
}

func TestSetZeroClearsDay(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	require.NoError(t, agg.Set(habit, monday, 30))
	require.NoError(t, agg.Set(habit, monday, 0))

	p, err := agg.ForDay(habit.SID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p)
}

func TestAddAccumulates(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	require.NoError(t, agg.Add(habit, monday, 20))
	require.NoError(t, agg.Add(habit, monday, 15))

	p, err := agg.ForDay(habit.SID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(35), p)
}

func TestAddNegativeFloorsAtZero(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	require.NoError(t, agg.Add(habit, monday, 10))
	require.NoError(t, agg.Add(habit, monday, -25))

	p, err := agg.ForDay(habit.SID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p)
}

func TestDaysAreIndependent(t *testing.T) {
	agg, cal := setupAggregator(t)
	habit := counterHabit(50)

	tuesday := cal.AddDays(monday, 1)
	require.NoError(t, agg.Set(habit, monday, 30))
	require.NoError(t, agg.Set(habit, tuesday, 5))

	p, err := agg.ForDay(habit.SID, monday)
	require.NoError(t, err)
	assert.Equal(t, int64(30), p)

	p, err = agg.ForDay(habit.SID, tuesday)
	require.NoError(t, err)
	assert.Equal(t, int64(5), p)
}

func TestPercentage(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	require.NoError(t, agg.Set(habit, monday, 25))
	pct, err := agg.Percentage(habit, monday)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, pct, 0.001)

	// Exceeding the goal caps at 1.0.
	require.NoError(t, agg.Set(habit, monday, 200))
	pct, err = agg.Percentage(habit, monday)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pct)
}

func TestPercentageNonPositiveGoal(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(0)

	pct, err := agg.Percentage(habit, monday)
	require.NoError(t, err)
	assert.Equal(t, 0.0, pct)

	require.NoError(t, agg.Set(habit, monday, 1))
	pct, err = agg.Percentage(habit, monday)
	require.NoError(t, err)
	assert.Equal(t, 1.0, pct)
}

func TestCompletedAndExceeded(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	require.NoError(t, agg.Set(habit, monday, 49))
	completed, err := agg.Completed(habit, monday)
	require.NoError(t, err)
	assert.False(t, completed)

	require.NoError(t, agg.Set(habit, monday, 50))
	completed, err = agg.Completed(habit, monday)
	require.NoError(t, err)
	assert.True(t, completed)
	exceeded, err := agg.Exceeded(habit, monday)
	require.NoError(t, err)
	assert.False(t, exceeded)

	require.NoError(t, agg.Set(habit, monday, 51))
	exceeded, err = agg.Exceeded(habit, monday)
	require.NoError(t, err)
	assert.True(t, exceeded)
}

func TestOnChangeFiresAfterMutation(t *testing.T) {
	agg, _ := setupAggregator(t)
	habit := counterHabit(50)

	var changed []string
	agg.OnChange = func(sid string) { changed = append(changed, sid) }

	require.NoError(t, agg.Set(habit, monday, 10))
	require.NoError(t, agg.Add(habit, monday, 5))
	assert.Equal(t, []string{"pushups", "pushups"}, changed)

	// A rejected mutation never fires.
	changed = nil
	_ = agg.Set(habit, monday, -1)
	assert.Empty(t, changed)
}
