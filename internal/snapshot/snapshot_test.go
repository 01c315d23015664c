package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/schedule"
	"github.com/hatamisg/rutin/internal/storage"
	"github.com/hatamisg/rutin/internal/streak"
)

// monday 2024-06-10, 09:00 local time
var snapNow = time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

func TestPublisherPublishAndLoad(t *testing.T) {
	pub := NewPublisher(t.TempDir())

	s := &Snapshot{Day: "2024-06-10", GeneratedAt: snapNow}
	require.NoError(t, pub.Publish(s))
	assert.Equal(t, uint64(1), s.Version)

	loaded, err := pub.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, uint64(1), loaded.Version)
	assert.Equal(t, "2024-06-10", loaded.Day)
}

func TestPublisherVersionIncrements(t *testing.T) {
	pub := NewPublisher(t.TempDir())

	for i := 1; i <= 3; i++ {
		s := &Snapshot{Day: "2024-06-10", GeneratedAt: snapNow}
		require.NoError(t, pub.Publish(s))
		assert.Equal(t, uint64(i), s.Version)
	}

	loaded, err := pub.Load()
	require.NoError(t, err)
	assert.Equal(t, uint64(3), loaded.Version)
}

func TestPublisherLoadMissingFile(t *testing.T) {
	pub := NewPublisher(t.TempDir())

	loaded, err := pub.Load()
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestPublisherLoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0644))

	pub := NewPublisher(dir)
	_, err := pub.Load()
	assert.Error(t, err)
}

func TestPublisherLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	pub := NewPublisher(dir)

	require.NoError(t, pub.Publish(&Snapshot{Day: "2024-06-10"}))
	require.NoError(t, pub.Publish(&Snapshot{Day: "2024-06-10"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, FileName, entries[0].Name())
}

func setupBuilder(t *testing.T) (*Builder, *storage.DB, *calendar.Fixed) {
	t.Helper()

	db, err := storage.Open(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cal := calendar.NewFixed(snapNow)
	habits := storage.NewHabitRepo(db)
	records := storage.NewRecordRepo(db)
	checkpoints := storage.NewCheckpointRepo(db)
	resolver := schedule.NewResolver(cal)
	agg := progress.NewAggregator(records, cal)
	analyzer := streak.NewAnalyzer(resolver, records, cal)

	return NewBuilder(habits, checkpoints, resolver, agg, analyzer, cal), db, cal
}

func TestBuilderBuildEmpty(t *testing.T) {
	b, _, _ := setupBuilder(t)

	s, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, "2024-06-10", s.Day)
	assert.Empty(t, s.Habits)
	assert.Equal(t, snapNow, s.GeneratedAt)
}

func TestBuilderBuildViews(t *testing.T) {
	b, db, cal := setupBuilder(t)
	habits := storage.NewHabitRepo(db)
	records := storage.NewRecordRepo(db)
	agg := progress.NewAggregator(records, cal)

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	daily := model.NewHabit("pushups", "Pushups", model.KindCounter, 20, model.EveryDay(), start, snapNow)
	require.NoError(t, habits.Create(daily))

	weekend, err := model.NewWeekdaySet(calendar.Saturday, calendar.Sunday)
	require.NoError(t, err)
	rest := model.NewHabit("rest", "Rest day", model.KindCounter, 1, weekend, start, snapNow)
	require.NoError(t, habits.Create(rest))

	require.NoError(t, agg.Set(daily, snapNow, 25))

	s, err := b.Build()
	require.NoError(t, err)
	require.Len(t, s.Habits, 2)

	views := map[string]HabitView{}
	for _, v := range s.Habits {
		views[v.SID] = v
	}

	v := views["pushups"]
	assert.True(t, v.Due)
	assert.Equal(t, int64(25), v.Progress)
	assert.Equal(t, 1.0, v.Percentage)
	assert.True(t, v.Completed)
	assert.True(t, v.Exceeded)
	require.NotNil(t, v.Streak)
	assert.Nil(t, v.Checkpoint)

	// Saturday/Sunday habit is not due on a Monday.
	assert.False(t, views["rest"].Due)
}

func TestBuilderIncludesCheckpoint(t *testing.T) {
	b, db, _ := setupBuilder(t)
	habits := storage.NewHabitRepo(db)
	checkpoints := storage.NewCheckpointRepo(db)

	start := time.Date(2024, 6, 3, 0, 0, 0, 0, time.Local)
	h := model.NewHabit("meditate", "Meditate", model.KindTimer, 600, model.EveryDay(), start, snapNow)
	require.NoError(t, habits.Create(h))

	startedAt := snapNow.Add(-2 * time.Minute)
	require.NoError(t, checkpoints.Put(model.NewCheckpoint("meditate", 30, startedAt)))

	s, err := b.Build()
	require.NoError(t, err)
	require.Len(t, s.Habits, 1)

	cp := s.Habits[0].Checkpoint
	require.NotNil(t, cp)
	assert.Equal(t, int64(30), cp.BaseProgress)
	assert.True(t, cp.Running)
	require.NotNil(t, cp.StartedAt)
}
