package daemon

import (
	"encoding/json"
	"runtime"
	"sync"
	"time"
)

// HealthStatus is what the daemon reports about itself. It goes into the
// health file next to the PID file so the status command can read it from
// outside the daemon process.
type HealthStatus struct {
	Status        string    `json:"status"`
	UptimeSeconds int64     `json:"uptime_seconds"`
	MemoryMB      float64   `json:"memory_mb"`
	RunningTimers int       `json:"running_timers"`
	LastCheck     time.Time `json:"last_check"`
	Version       string    `json:"version,omitempty"`
	Goroutines    int       `json:"goroutines"`
}

// HealthChecker aggregates process stats and named probe functions into a
// single healthy/unhealthy verdict.
type HealthChecker struct {
	mu            sync.Mutex
	startTime     time.Time
	lastCheck     time.Time
	runningTimers int
	version       string
	probes        map[string]func() error
}

// NewHealthChecker creates a health checker stamped with the build version.
func NewHealthChecker(version string) *HealthChecker {
	return &HealthChecker{
		startTime: time.Now(),
		version:   version,
		probes:    make(map[string]func() error),
	}
}

// AddCheck registers a named probe. A probe returning an error flips the
// overall status to unhealthy.
func (h *HealthChecker) AddCheck(name string, probe func() error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.probes[name] = probe
}

// RemoveCheck drops a named probe.
func (h *HealthChecker) RemoveCheck(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.probes, name)
}

// SetRunningTimers updates the running timer gauge. The live publish job
// feeds this on every tick.
func (h *HealthChecker) SetRunningTimers(count int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.runningTimers = count
}

// Check runs all probes and returns the current status.
func (h *HealthChecker) Check() *HealthStatus {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	h.mu.Lock()
	h.lastCheck = time.Now()
	status := &HealthStatus{
		Status:        "healthy",
		UptimeSeconds: int64(time.Since(h.startTime).Seconds()),
		MemoryMB:      float64(mem.Alloc) / 1024 / 1024,
		RunningTimers: h.runningTimers,
		LastCheck:     h.lastCheck,
		Version:       h.version,
		Goroutines:    runtime.NumGoroutine(),
	}
	for _, probe := range h.probes {
		if err := probe(); err != nil {
			status.Status = "unhealthy"
			break
		}
	}
	h.mu.Unlock()

	return status
}

// IsHealthy reports whether every probe passes.
func (h *HealthChecker) IsHealthy() bool {
	return h.Check().Status == "healthy"
}

// Uptime returns how long the checker has existed.
func (h *HealthChecker) Uptime() time.Duration {
	return time.Since(h.startTime)
}

// JSON renders the current status as indented JSON.
func (h *HealthChecker) JSON() ([]byte, error) {
	return json.MarshalIndent(h.Check(), "", "  ")
}
