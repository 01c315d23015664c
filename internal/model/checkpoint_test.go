package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheckpointDisplayedRunning(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	cp := NewCheckpoint("meditation", 120, start)

	assert.True(t, cp.Running)
	assert.Equal(t, int64(120), cp.Displayed(start))
	assert.Equal(t, int64(150), cp.Displayed(start.Add(30*time.Second)))
	assert.Equal(t, int64(120+3600), cp.Displayed(start.Add(time.Hour)))
}

func TestCheckpointDisplayedPaused(t *testing.T) {
	cp := &Checkpoint{
		HabitSID:     "meditation",
		BaseProgress: 300,
		Running:      false,
	}

	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.Local)
	assert.Equal(t, int64(300), cp.Displayed(now))
	assert.Equal(t, int64(300), cp.Displayed(now.Add(time.Hour)))
}

func TestCheckpointDisplayedClampsBackwardClock(t *testing.T) {
	start := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)
	cp := NewCheckpoint("meditation", 60, start)

	// Wall clock stepped backwards: elapsed clamps at zero.
	assert.Equal(t, int64(60), cp.Displayed(start.Add(-10*time.Minute)))
}

func TestCheckpointDisplayedCorruptState(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.Local)

	// Running without a start instant degrades to the base value.
	cp := &Checkpoint{HabitSID: "meditation", BaseProgress: 45, Running: true}
	assert.Equal(t, int64(45), cp.Displayed(now))

	// Negative base clamps to zero.
	cp = &Checkpoint{HabitSID: "meditation", BaseProgress: -5, Running: false}
	assert.Equal(t, int64(0), cp.Displayed(now))
}
