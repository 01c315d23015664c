// Package config provides centralized configuration for Rutin runtime values.
package config

import (
	"os"
	"strconv"
	"time"
)

// RuntimeConfig collects the process-level tunables that would otherwise be
// magic values scattered through the codebase. Environment variables
// override the defaults at startup.
type RuntimeConfig struct {
	Daemon    DaemonConfig
	HTTP      HTTPConfig
	Storage   StorageConfig
	Scheduler SchedulerConfig
}

// DaemonConfig holds daemon lifecycle timing.
type DaemonConfig struct {
	// StartupWait is how long "daemon start" waits for the spawned child
	// to write its PID file before declaring failure.
	StartupWait time.Duration

	// KillTimeout bounds graceful shutdown before SIGKILL.
	KillTimeout time.Duration
}

// HTTPConfig holds webhook HTTP client configuration.
type HTTPConfig struct {
	// Timeout per request.
	Timeout time.Duration

	// MaxRetries after the first attempt.
	MaxRetries int

	// RetryDelays indexed by attempt number; index 0 is the first attempt.
	RetryDelays []time.Duration
}

// StorageConfig holds storage-related configuration.
type StorageConfig struct {
	// MinFreeSpace is the minimum free space required for write operations.
	MinFreeSpace uint64

	// MinFreeSpaceWarning is the threshold for a low disk space warning.
	MinFreeSpaceWarning uint64
}

// SchedulerConfig holds scheduler-related configuration.
type SchedulerConfig struct {
	// SleepThreshold is the gap since the last check that indicates the
	// machine was asleep; stale checks are then skipped, not fired late.
	SleepThreshold time.Duration
}

// DefaultRuntimeConfig returns the built-in defaults.
func DefaultRuntimeConfig() *RuntimeConfig {
	return &RuntimeConfig{
		Daemon: DaemonConfig{
			StartupWait: 500 * time.Millisecond,
			KillTimeout: 5 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:     15 * time.Second,
			MaxRetries:  2,
			RetryDelays: []time.Duration{0, 2 * time.Second, 5 * time.Second},
		},
		Storage: StorageConfig{
			MinFreeSpace:        10 * 1024 * 1024,
			MinFreeSpaceWarning: 50 * 1024 * 1024,
		},
		Scheduler: SchedulerConfig{
			SleepThreshold: time.Hour,
		},
	}
}

// Global is the process-wide runtime configuration.
var Global = func() *RuntimeConfig {
	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()
	return cfg
}()

func envDuration(name string, dst *time.Duration) {
	if v := os.Getenv(name); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}

func envUint(name string, dst *uint64) {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			*dst = n
		}
	}
}

func (c *RuntimeConfig) loadFromEnv() {
	envDuration("RUTIN_DAEMON_STARTUP_WAIT", &c.Daemon.StartupWait)
	envDuration("RUTIN_DAEMON_KILL_TIMEOUT", &c.Daemon.KillTimeout)
	envDuration("RUTIN_HTTP_TIMEOUT", &c.HTTP.Timeout)
	envDuration("RUTIN_SLEEP_THRESHOLD", &c.Scheduler.SleepThreshold)
	envUint("RUTIN_MIN_FREE_SPACE", &c.Storage.MinFreeSpace)
	envUint("RUTIN_MIN_FREE_SPACE_WARNING", &c.Storage.MinFreeSpaceWarning)

	if v := os.Getenv("RUTIN_HTTP_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.HTTP.MaxRetries = n
		}
	}
}

// ReloadFromEnv re-applies environment overrides onto the current values.
func (c *RuntimeConfig) ReloadFromEnv() {
	c.loadFromEnv()
}

// Reset restores the defaults, for tests.
func (c *RuntimeConfig) Reset() {
	*c = *DefaultRuntimeConfig()
}
