package storage

import (
	"github.com/hatamisg/rutin/internal/errors"
	"github.com/hatamisg/rutin/internal/model"
)

// CheckpointRepo provides operations for timer checkpoints. A habit has at
// most one checkpoint; transitions replace it wholesale.
type CheckpointRepo struct {
	db *DB
}

// NewCheckpointRepo creates a new checkpoint repository.
func NewCheckpointRepo(db *DB) *CheckpointRepo {
	return &CheckpointRepo{db: db}
}

// Get retrieves the checkpoint for a habit.
func (r *CheckpointRepo) Get(habitSID string) (*model.Checkpoint, error) {
	cp := &model.Checkpoint{}
	key := model.GenerateCheckpointKey(habitSID)
	if err := r.db.Get(key, cp); err != nil {
		if IsErrKeyNotFound(err) {
			return nil, errors.ErrCheckpointNotFound
		}
		return nil, err
	}
	return cp, nil
}

// Put stores (creates or replaces) a habit's checkpoint.
func (r *CheckpointRepo) Put(cp *model.Checkpoint) error {
	if cp.Key == "" {
		cp.Key = model.GenerateCheckpointKey(cp.HabitSID)
	}
	return r.db.Set(cp)
}

// Clear removes the checkpoint for a habit. Clearing an absent checkpoint is
// not an error.
func (r *CheckpointRepo) Clear(habitSID string) error {
	return r.db.Delete(model.GenerateCheckpointKey(habitSID))
}

// ListRunning retrieves all checkpoints currently marked running.
func (r *CheckpointRepo) ListRunning() ([]*model.Checkpoint, error) {
	all, err := GetAllByPrefix(r.db, model.PrefixCheckpoint+":", func() *model.Checkpoint {
		return &model.Checkpoint{}
	})
	if err != nil {
		return nil, err
	}
	var running []*model.Checkpoint
	for _, cp := range all {
		if cp.Running {
			running = append(running, cp)
		}
	}
	return running, nil
}
