package daemon

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheckerDefaults(t *testing.T) {
	checker := NewHealthChecker("1.0.0")
	require.NotNil(t, checker)
	assert.Equal(t, "1.0.0", checker.version)

	status := checker.Check()
	assert.Equal(t, "healthy", status.Status)
	assert.Equal(t, "1.0.0", status.Version)
	assert.GreaterOrEqual(t, status.Goroutines, 1)
	assert.GreaterOrEqual(t, status.MemoryMB, 0.0)
	assert.True(t, checker.IsHealthy())
}

func TestHealthCheckerRunningTimers(t *testing.T) {
	checker := NewHealthChecker("1.0.0")
	checker.SetRunningTimers(3)
	assert.Equal(t, 3, checker.Check().RunningTimers)
}

func TestHealthCheckerProbes(t *testing.T) {
	checker := NewHealthChecker("1.0.0")

	checker.AddCheck("db", func() error { return errors.New("closed") })
	assert.Equal(t, "unhealthy", checker.Check().Status)
	assert.False(t, checker.IsHealthy())

	checker.RemoveCheck("db")
	assert.Equal(t, "healthy", checker.Check().Status)
}

func TestHealthCheckerUptime(t *testing.T) {
	checker := NewHealthChecker("1.0.0")
	time.Sleep(10 * time.Millisecond)
	assert.GreaterOrEqual(t, checker.Uptime(), 10*time.Millisecond)
}

func TestHealthCheckerJSON(t *testing.T) {
	data, err := NewHealthChecker("1.0.0").JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "healthy")
	assert.Contains(t, string(data), "1.0.0")
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	assert.Equal(t, int64(0), m.NotificationsSent())

	m.RecordNotificationSent(100)
	assert.Equal(t, int64(1), m.NotificationsSent())
	assert.Equal(t, int64(100), m.WebhookLatency())

	m.RecordNotificationFailed(errors.New("network error"))
	assert.Equal(t, int64(1), m.NotificationsFailed())
	assert.Equal(t, int64(1), m.ErrorsTotal())

	m.RecordStreakCheck()
	m.RecordStreakCheck()
	assert.Equal(t, int64(2), m.StreakChecksRun())

	m.RecordSnapshotPublished()
	assert.Equal(t, int64(1), m.SnapshotsPublished())
}

func TestMetricsErrorCategories(t *testing.T) {
	m := NewMetrics()
	m.RecordError("webhook", errors.New("timeout"))
	m.RecordError("webhook", errors.New("timeout"))
	m.RecordError("db", errors.New("connection failed"))

	assert.Equal(t, int64(3), m.ErrorsTotal())

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.ErrorsByCategory["webhook"])
	assert.Equal(t, int64(1), snap.ErrorsByCategory["db"])
	assert.Equal(t, "connection failed", snap.LastError)
	assert.NotNil(t, snap.LastErrorAt)
}

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordNotificationSent(50)
	m.RecordNotificationFailed(errors.New("error"))
	m.RecordStreakCheck()

	snap := m.Snapshot()
	assert.Equal(t, int64(1), snap.NotificationsSentTotal)
	assert.Equal(t, int64(1), snap.NotificationsFailedTotal)
	assert.Equal(t, int64(1), snap.StreakChecksTotal)
	assert.Equal(t, int64(50), snap.WebhookLatencyMs)
	assert.NotNil(t, snap.LastNotificationAt)
	assert.NotNil(t, snap.LastStreakCheck)
}

func TestMetricsJSON(t *testing.T) {
	m := NewMetrics()
	m.RecordNotificationSent(100)

	data, err := m.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), "notifications_sent_total")
}

func TestMetricsReset(t *testing.T) {
	m := NewMetrics()
	m.RecordNotificationSent(100)
	m.RecordNotificationFailed(errors.New("error"))
	m.RecordStreakCheck()
	m.RecordError("test", errors.New("test"))

	m.Reset()

	assert.Equal(t, int64(0), m.NotificationsSent())
	assert.Equal(t, int64(0), m.NotificationsFailed())
	assert.Equal(t, int64(0), m.StreakChecksRun())
	assert.Equal(t, int64(0), m.ErrorsTotal())
	assert.Equal(t, int64(0), m.WebhookLatency())

	snap := m.Snapshot()
	assert.Nil(t, snap.LastNotificationAt)
	assert.Empty(t, snap.LastError)
}

func TestGlobalMetrics(t *testing.T) {
	require.NotNil(t, GlobalMetrics)

	GlobalMetrics.Reset()
	defer GlobalMetrics.Reset()

	GlobalMetrics.RecordNotificationSent(10)
	assert.Equal(t, int64(1), GlobalMetrics.NotificationsSent())
}

func TestPIDFileLifecycle(t *testing.T) {
	p := &PIDFile{path: t.TempDir() + "/rutin.pid"}

	assert.False(t, p.Exists())

	require.NoError(t, p.WritePID(12345))
	assert.True(t, p.Exists())

	pid, err := p.Read()
	require.NoError(t, err)
	assert.Equal(t, 12345, pid)

	require.NoError(t, p.Remove())
	assert.False(t, p.Exists())

	_, err = p.Read()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestPIDFileRunning(t *testing.T) {
	p := &PIDFile{path: t.TempDir() + "/rutin.pid"}

	// Our own process is certainly running.
	require.NoError(t, p.Write())
	assert.True(t, p.IsRunning())
	assert.NotZero(t, p.GetRunningPID())
}

func TestIsProcessRunning(t *testing.T) {
	assert.False(t, IsProcessRunning(0))
	assert.False(t, IsProcessRunning(-1))
}

func TestFormatUptime(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{5 * time.Minute, "5m"},
		{2*time.Hour + 15*time.Minute, "2h 15m"},
		{3 * time.Hour, "3h"},
		{52 * time.Hour, "2d 4h"},
		{48 * time.Hour, "2d"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatUptime(tt.d), tt.d.String())
	}
}
