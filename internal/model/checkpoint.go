package model

import (
	"fmt"
	"time"
)

// Checkpoint is the persisted state of a habit's timer. It is the single
// source of truth for what a running timer displays: any reader holding the
// same checkpoint and the same "now" computes the same value, which is what
// keeps independent renderers (app, widget, lock screen) in agreement without
// a live channel between them. At most one checkpoint exists per habit.
type Checkpoint struct {
	Key          string     `json:"key"`
	HabitSID     string     `json:"habit_sid"`
	BaseProgress int64      `json:"base_progress"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	Running      bool       `json:"running"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// SetKey sets the database key for this checkpoint.
func (c *Checkpoint) SetKey(key string) {
	c.Key = key
}

// GetKey returns the database key for this checkpoint.
func (c *Checkpoint) GetKey() string {
	return c.Key
}

// GenerateCheckpointKey generates the database key for a habit's checkpoint.
func GenerateCheckpointKey(habitSID string) string {
	return fmt.Sprintf("%s:%s", PrefixCheckpoint, habitSID)
}

// NewCheckpoint creates a running checkpoint started at the given instant.
func NewCheckpoint(habitSID string, baseProgress int64, startedAt time.Time) *Checkpoint {
	started := startedAt
	return &Checkpoint{
		Key:          GenerateCheckpointKey(habitSID),
		HabitSID:     habitSID,
		BaseProgress: baseProgress,
		StartedAt:    &started,
		Running:      true,
		UpdatedAt:    startedAt,
	}
}

// Displayed returns the progress value a renderer should show at the given
// instant. The computation is pure: it reads nothing and mutates nothing, so
// any number of independent readers agree given the same checkpoint and now.
//
// A checkpoint marked running without a start instant is corrupt; it degrades
// to the base value rather than erroring. Elapsed time is clamped at zero to
// absorb backward wall-clock adjustments.
func (c *Checkpoint) Displayed(now time.Time) int64 {
	base := c.BaseProgress
	if base < 0 {
		base = 0
	}
	if !c.Running || c.StartedAt == nil {
		return base
	}
	elapsed := int64(now.Sub(*c.StartedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}
	return base + elapsed
}
