package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
)

var testDay = time.Date(2024, 6, 10, 0, 0, 0, 0, time.Local)

// setupTestDB creates an in-memory database for testing.
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(Options{InMemory: true})
	require.NoError(t, err, "failed to open in-memory database")
	t.Cleanup(func() {
		db.Close()
	})
	return db
}

func testHabit(sid string) *model.Habit {
	return model.NewHabit(sid, "Habit "+sid, model.KindCounter, 10, model.EveryDay(), testDay, testDay)
}

func TestHabitRepoCreateGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	require.NoError(t, repo.Create(testHabit("pushups")))

	got, err := repo.Get("pushups")
	require.NoError(t, err)
	assert.Equal(t, "pushups", got.SID)
	assert.Equal(t, int64(10), got.Goal)
	assert.Equal(t, 7, got.Schedule.Count())
}

func TestHabitRepoCreateDuplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	require.NoError(t, repo.Create(testHabit("pushups")))
	err := repo.Create(testHabit("pushups"))
	assert.ErrorIs(t, err, errors.ErrHabitExists)
}

func TestHabitRepoRejectsBackupShapedGarbage(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	// Shaped like a hand-edited backup entry: empty schedule mask, zero goal.
	raw := `{"key":"habit:bad","sid":"bad","name":"Bad","kind":"counter","goal":0,"schedule":0,"start_date":"2024-06-10T00:00:00Z"}`
	bad := &model.Habit{}
	require.NoError(t, json.Unmarshal([]byte(raw), bad))
	require.True(t, bad.Schedule.IsEmpty())

	assert.ErrorIs(t, repo.Create(bad), errors.ErrEmptySchedule)

	exists, err := repo.Exists("bad")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestHabitRepoRejectsInvalidGoal(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	h := testHabit("pushups")
	h.Goal = 0
	assert.ErrorIs(t, repo.Create(h), errors.ErrInvalidGoal)

	h.Goal = 10
	require.NoError(t, repo.Create(h))

	h.Goal = -5
	assert.ErrorIs(t, repo.Update(h), errors.ErrInvalidGoal)

	got, err := repo.Get("pushups")
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Goal)
}

func TestHabitRepoRejectsMisalignedStartDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	h := testHabit("pushups")
	h.StartDate = testDay.Add(9 * time.Hour)
	assert.ErrorIs(t, repo.Create(h), errors.ErrNotMidnightAligned)
}

func TestHabitRepoGetMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	_, err := repo.Get("nope")
	assert.ErrorIs(t, err, errors.ErrHabitNotFound)
}

func TestHabitRepoScheduleSurvivesRoundtrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewHabitRepo(db)

	schedule, err := model.NewWeekdaySet(calendar.Monday, calendar.Saturday)
	require.NoError(t, err)
	h := testHabit("run")
	h.Schedule = schedule
	require.NoError(t, repo.Create(h))

	got, err := repo.Get("run")
	require.NoError(t, err)
	assert.Equal(t, schedule.Days(), got.Schedule.Days())
}

func TestHabitRepoDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	habits := NewHabitRepo(db)
	records := NewRecordRepo(db)
	checkpoints := NewCheckpointRepo(db)

	require.NoError(t, habits.Create(testHabit("pushups")))
	require.NoError(t, records.ReplaceDay("pushups", "2024-06-10", 5, testDay))
	require.NoError(t, checkpoints.Put(model.NewCheckpoint("pushups", 0, testDay)))

	// An unrelated habit's data must survive the cascade.
	require.NoError(t, habits.Create(testHabit("situps")))
	require.NoError(t, records.ReplaceDay("situps", "2024-06-10", 3, testDay))

	require.NoError(t, habits.Delete("pushups"))

	_, err := habits.Get("pushups")
	assert.ErrorIs(t, err, errors.ErrHabitNotFound)

	sum, err := records.SumDay("pushups", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, int64(0), sum)

	_, err = checkpoints.Get("pushups")
	assert.ErrorIs(t, err, errors.ErrCheckpointNotFound)

	sum, err = records.SumDay("situps", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, int64(3), sum)
}

func TestRecordRepoSumDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepo(db)

	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 5, CreatedAt: testDay}))
	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 7, CreatedAt: testDay}))
	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-11", Amount: 100, CreatedAt: testDay}))

	sum, err := repo.SumDay("pushups", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, int64(12), sum)
}

func TestRecordRepoSumDayClampsNegative(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepo(db)

	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 5, CreatedAt: testDay}))
	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: -3, CreatedAt: testDay}))

	sum, err := repo.SumDay("pushups", "2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, int64(5), sum)
}

func TestRecordRepoReplaceDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepo(db)

	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 5, CreatedAt: testDay}))
	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 7, CreatedAt: testDay}))

	require.NoError(t, repo.ReplaceDay("pushups", "2024-06-10", 20, testDay))

	records, err := repo.ListDay("pushups", "2024-06-10")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, int64(20), records[0].Amount)
}

func TestRecordRepoReplaceDayZeroClears(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepo(db)

	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 5, CreatedAt: testDay}))
	require.NoError(t, repo.ReplaceDay("pushups", "2024-06-10", 0, testDay))

	records, err := repo.ListDay("pushups", "2024-06-10")
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestRecordRepoSumByDay(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecordRepo(db)

	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 5, CreatedAt: testDay}))
	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-10", Amount: 5, CreatedAt: testDay}))
	require.NoError(t, repo.Create(&model.Record{HabitSID: "pushups", Day: "2024-06-11", Amount: 8, CreatedAt: testDay}))

	sums, err := repo.SumByDay("pushups")
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"2024-06-10": 10, "2024-06-11": 8}, sums)
}

func TestCheckpointRepoLifecycle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCheckpointRepo(db)

	_, err := repo.Get("meditation")
	assert.ErrorIs(t, err, errors.ErrCheckpointNotFound)

	cp := model.NewCheckpoint("meditation", 30, testDay)
	require.NoError(t, repo.Put(cp))

	got, err := repo.Get("meditation")
	require.NoError(t, err)
	assert.Equal(t, int64(30), got.BaseProgress)
	assert.True(t, got.Running)
	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(testDay))

	require.NoError(t, repo.Clear("meditation"))
	_, err = repo.Get("meditation")
	assert.ErrorIs(t, err, errors.ErrCheckpointNotFound)

	// Clearing again is not an error.
	assert.NoError(t, repo.Clear("meditation"))
}

func TestCheckpointRepoListRunning(t *testing.T) {
	db := setupTestDB(t)
	repo := NewCheckpointRepo(db)

	require.NoError(t, repo.Put(model.NewCheckpoint("a", 0, testDay)))

	paused := model.NewCheckpoint("b", 10, testDay)
	paused.Running = false
	paused.StartedAt = nil
	require.NoError(t, repo.Put(paused))

	running, err := repo.ListRunning()
	require.NoError(t, err)
	require.Len(t, running, 1)
	assert.Equal(t, "a", running[0].HabitSID)
}

func TestConfigRepoDefaults(t *testing.T) {
	db := setupTestDB(t)
	repo := NewConfigRepo(db)

	cfg, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, calendar.Monday, cfg.FirstDayOfWeek)
	assert.True(t, cfg.SnapshotEnabled)

	cfg.FirstDayOfWeek = calendar.Sunday
	require.NoError(t, repo.Update(cfg))

	got, err := repo.Get()
	require.NoError(t, err)
	assert.Equal(t, calendar.Sunday, got.FirstDayOfWeek)
}

func TestWebhookRepoEnableDisable(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWebhookRepo(db)

	wh := model.NewWebhook("widget", model.WebhookTypeGeneric, "http://localhost:9090/refresh", testDay)
	require.NoError(t, repo.Create(wh))

	require.NoError(t, repo.Disable("widget"))
	enabled, err := repo.ListEnabled()
	require.NoError(t, err)
	assert.Empty(t, enabled)

	require.NoError(t, repo.Enable("widget"))
	enabled, err = repo.ListEnabled()
	require.NoError(t, err)
	require.Len(t, enabled, 1)
	assert.Equal(t, "widget", enabled[0].Name)
}
