package storage

import (
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/validate"
)

// HabitRepo provides operations for Habit entities.
type HabitRepo struct {
	db *DB
}

// NewHabitRepo creates a new habit repository.
func NewHabitRepo(db *DB) *HabitRepo {
	return &HabitRepo{db: db}
}

// checkHabit enforces the construction invariants on every write path,
// including imports that bypass the CLI flag parsing: the schedule mask may
// never be empty, the goal must be positive, and the start date sits at day
// granularity.
func checkHabit(habit *model.Habit) error {
	if err := validate.Schedule(habit.Schedule); err != nil {
		return err
	}
	if err := validate.Goal(habit.Goal); err != nil {
		return err
	}
	return validate.Day(habit.StartDate)
}

// Create creates a new habit. Fails if a habit with the same SID exists.
func (r *HabitRepo) Create(habit *model.Habit) error {
	if err := checkHabit(habit); err != nil {
		return err
	}
	if habit.Key == "" {
		habit.Key = model.GenerateHabitKey(habit.SID)
	}
	exists, err := r.db.Exists(habit.Key)
	if err != nil {
		return err
	}
	if exists {
		return errors.ErrHabitExists
	}
	return r.db.Set(habit)
}

// Get retrieves a habit by SID.
func (r *HabitRepo) Get(sid string) (*model.Habit, error) {
	habit := &model.Habit{}
	key := model.GenerateHabitKey(sid)
	if err := r.db.Get(key, habit); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrHabitNotFound
		}
		return nil, err
	}
	return habit, nil
}

// List retrieves all habits.
func (r *HabitRepo) List() ([]*model.Habit, error) {
	return GetAllByPrefix(r.db, model.PrefixHabit+":", func() *model.Habit {
		return &model.Habit{}
	})
}

// Update updates an existing habit.
func (r *HabitRepo) Update(habit *model.Habit) error {
	if err := checkHabit(habit); err != nil {
		return err
	}
	return r.db.Set(habit)
}

// Delete removes a habit and everything it owns: its completion records and
// its timer checkpoint.
func (r *HabitRepo) Delete(sid string) error {
	habit, err := r.Get(sid)
	if err != nil {
		return err
	}
	if err := r.db.DeleteByPrefix(model.RecordHabitPrefix(sid)); err != nil {
		return err
	}
	if err := r.db.Delete(model.GenerateCheckpointKey(sid)); err != nil && !IsErrKeyNotFound(err) {
		return err
	}
	return r.db.Delete(habit.Key)
}

// Exists checks if a habit with the given SID exists.
func (r *HabitRepo) Exists(sid string) (bool, error) {
	return r.db.Exists(model.GenerateHabitKey(sid))
}
