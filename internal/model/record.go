package model

import (
	"fmt"
	"time"
)

// Record is a completion record: an amount logged against a habit for one
// calendar day. A day's canonical progress is the sum of its records; records
// are never mutated in place, only deleted and reinserted.
type Record struct {
	Key       string    `json:"key"`
	ID        string    `json:"id"`
	HabitSID  string    `json:"habit_sid"`
	Day       string    `json:"day"` // YYYY-MM-DD
	Amount    int64     `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

// SetKey sets the database key for this record.
func (r *Record) SetKey(key string) {
	r.Key = key
}

// GetKey returns the database key for this record.
func (r *Record) GetKey() string {
	return r.Key
}

// SafeAmount returns the record amount clamped to zero. Negative values can
// only appear through a bad migration or external write; they are never
// propagated to readers.
func (r *Record) SafeAmount() int64 {
	if r.Amount < 0 {
		return 0
	}
	return r.Amount
}

// GenerateRecordKey generates a database key for a record. Keys group by
// habit and day so a single day's records share a prefix.
func GenerateRecordKey(habitSID, day, id string) string {
	return fmt.Sprintf("%s:%s:%s:%s", PrefixRecord, habitSID, day, id)
}

// RecordDayPrefix returns the key prefix covering all records for one
// (habit, day) pair.
func RecordDayPrefix(habitSID, day string) string {
	return fmt.Sprintf("%s:%s:%s:", PrefixRecord, habitSID, day)
}

// RecordHabitPrefix returns the key prefix covering all records for a habit.
func RecordHabitPrefix(habitSID string) string {
	return fmt.Sprintf("%s:%s:", PrefixRecord, habitSID)
}

// NewRecord creates a new record for the given habit and day.
func NewRecord(id, habitSID, day string, amount int64, now time.Time) *Record {
	return &Record{
		Key:       GenerateRecordKey(habitSID, day, id),
		ID:        id,
		HabitSID:  habitSID,
		Day:       day,
		Amount:    amount,
		CreatedAt: now,
	}
}
