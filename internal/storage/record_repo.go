package storage

import (
	"encoding/json"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"

	"github.com/hatamisg/rutin/internal/model"
)

// RecordRepo provides operations for completion records.
//
// The storage contract for records: multiple records may exist per
// (habit, day); the day's canonical progress is their sum; and ReplaceDay
// rewrites a day's record set as one atomic transaction so no reader ever
// sees a partially-deleted day.
type RecordRepo struct {
	db *DB
}

// NewRecordRepo creates a new record repository.
func NewRecordRepo(db *DB) *RecordRepo {
	return &RecordRepo{db: db}
}

// Create appends a record for the given habit and day.
func (r *RecordRepo) Create(record *model.Record) error {
	if record.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		record.ID = id.String()
	}
	if record.Key == "" {
		record.Key = model.GenerateRecordKey(record.HabitSID, record.Day, record.ID)
	}
	return r.db.Set(record)
}

// ListDay retrieves all records for one (habit, day) pair.
func (r *RecordRepo) ListDay(habitSID, day string) ([]*model.Record, error) {
	return GetAllByPrefix(r.db, model.RecordDayPrefix(habitSID, day), func() *model.Record {
		return &model.Record{}
	})
}

// SumDay returns the day's canonical progress: the sum of all record amounts
// for the pair, with negative stored amounts clamped to zero.
func (r *RecordRepo) SumDay(habitSID, day string) (int64, error) {
	records, err := r.ListDay(habitSID, day)
	if err != nil {
		return 0, err
	}
	var total int64
	for _, rec := range records {
		total += rec.SafeAmount()
	}
	return total, nil
}

// ReplaceDay atomically replaces all records for (habit, day): every existing
// record is deleted and, when amount > 0, exactly one record with the new
// value is inserted. All of it happens in a single Badger transaction, so the
// rewrite is all-or-nothing.
func (r *RecordRepo) ReplaceDay(habitSID, day string, amount int64, now time.Time) error {
	prefix := []byte(model.RecordDayPrefix(habitSID, day))

	var insert []byte
	var insertKey string
	if amount > 0 {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		rec := model.NewRecord(id.String(), habitSID, day, amount, now)
		data, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		insert = data
		insertKey = rec.Key
	}

	return r.db.db.Update(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)

		var stale [][]byte
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			k := make([]byte, len(it.Item().Key()))
			copy(k, it.Item().Key())
			stale = append(stale, k)
		}
		it.Close()

		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		if insert != nil {
			return txn.Set([]byte(insertKey), insert)
		}
		return nil
	})
}

// ListByHabit retrieves all records for a habit, across all days.
func (r *RecordRepo) ListByHabit(habitSID string) ([]*model.Record, error) {
	return GetAllByPrefix(r.db, model.RecordHabitPrefix(habitSID), func() *model.Record {
		return &model.Record{}
	})
}

// SumByDay returns the per-day canonical progress for a habit as a map from
// day key to summed amount. Useful for streak scans, which would otherwise
// issue one read per day.
func (r *RecordRepo) SumByDay(habitSID string) (map[string]int64, error) {
	records, err := r.ListByHabit(habitSID)
	if err != nil {
		return nil, err
	}
	sums := make(map[string]int64, len(records))
	for _, rec := range records {
		sums[rec.Day] += rec.SafeAmount()
	}
	return sums, nil
}

// DeleteByHabit removes all records for a habit.
func (r *RecordRepo) DeleteByHabit(habitSID string) error {
	return r.db.DeleteByPrefix(model.RecordHabitPrefix(habitSID))
}
