package calendar

import (
	"sync"
	"time"
)

// Fixed is a Calendar whose notion of "now" is set explicitly. It shares the
// day arithmetic of System so tests exercise the same code paths.
//
// Thread-safety: all methods are safe for concurrent use.
type Fixed struct {
	mu  sync.Mutex
	now time.Time
}

// NewFixed creates a Fixed calendar pinned at the given instant.
func NewFixed(now time.Time) *Fixed {
	return &Fixed{now: now}
}

// Now returns the pinned instant.
func (f *Fixed) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// Set pins the clock at a new instant.
func (f *Fixed) Set(now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = now
}

// Advance moves the clock forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

// StartOfDay floors t to midnight in t's location.
func (f *Fixed) StartOfDay(t time.Time) time.Time {
	return System{}.StartOfDay(t)
}

// AddDays adds n calendar days.
func (f *Fixed) AddDays(day time.Time, n int) time.Time {
	return System{}.AddDays(day, n)
}

// WeekdayNumber returns the absolute weekday number of day.
func (f *Fixed) WeekdayNumber(day time.Time) int {
	return System{}.WeekdayNumber(day)
}
