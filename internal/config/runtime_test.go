package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRuntimeConfig(t *testing.T) {
	cfg := DefaultRuntimeConfig()

	assert.Equal(t, 500*time.Millisecond, cfg.Daemon.StartupWait)
	assert.Equal(t, 5*time.Second, cfg.Daemon.KillTimeout)

	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
	assert.Equal(t,
		[]time.Duration{0, 2 * time.Second, 5 * time.Second},
		cfg.HTTP.RetryDelays)

	assert.Equal(t, uint64(10*1024*1024), cfg.Storage.MinFreeSpace)
	assert.Equal(t, uint64(50*1024*1024), cfg.Storage.MinFreeSpaceWarning)

	assert.Equal(t, time.Hour, cfg.Scheduler.SleepThreshold)
}

func TestGlobalConfigExists(t *testing.T) {
	require.NotNil(t, Global)
}

func TestConfigReset(t *testing.T) {
	Global.HTTP.Timeout = time.Second
	Global.Reset()
	assert.Equal(t, 15*time.Second, Global.HTTP.Timeout)
}

func TestConfigLoadFromEnv(t *testing.T) {
	t.Setenv("RUTIN_HTTP_TIMEOUT", "60s")
	t.Setenv("RUTIN_HTTP_MAX_RETRIES", "5")
	t.Setenv("RUTIN_DAEMON_KILL_TIMEOUT", "10s")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	assert.Equal(t, 60*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 5, cfg.HTTP.MaxRetries)
	assert.Equal(t, 10*time.Second, cfg.Daemon.KillTimeout)
}

func TestConfigLoadFromEnvIgnoresInvalidValues(t *testing.T) {
	t.Setenv("RUTIN_HTTP_TIMEOUT", "invalid")
	t.Setenv("RUTIN_HTTP_MAX_RETRIES", "not-a-number")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	assert.Equal(t, 15*time.Second, cfg.HTTP.Timeout)
	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
}

func TestConfigLoadFromEnvRejectsNegativeRetries(t *testing.T) {
	t.Setenv("RUTIN_HTTP_MAX_RETRIES", "-1")

	cfg := DefaultRuntimeConfig()
	cfg.loadFromEnv()

	assert.Equal(t, 2, cfg.HTTP.MaxRetries)
}

func TestReloadFromEnv(t *testing.T) {
	t.Setenv("RUTIN_SLEEP_THRESHOLD", "30m")

	cfg := DefaultRuntimeConfig()
	cfg.ReloadFromEnv()

	assert.Equal(t, 30*time.Minute, cfg.Scheduler.SleepThreshold)
}
