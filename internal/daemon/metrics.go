package daemon

import (
	"encoding/json"
	"sync"
	"time"
)

// Metrics counts what the daemon's background jobs have done since start.
// It satisfies scheduler.Recorder. All methods are safe for concurrent use.
type Metrics struct {
	mu sync.Mutex

	notificationsSent   int64
	notificationsFailed int64
	streakChecksRun     int64
	snapshotsPublished  int64
	errorsTotal         int64

	webhookLatencyMs   int64
	lastNotificationAt time.Time
	lastStreakCheck    time.Time
	lastError          string
	lastErrorAt        time.Time
	errorsByCategory   map[string]int64
}

// GlobalMetrics is the instance the daemon wires into its jobs.
var GlobalMetrics = NewMetrics()

// NewMetrics creates an empty metrics set.
func NewMetrics() *Metrics {
	return &Metrics{errorsByCategory: make(map[string]int64)}
}

// MetricsSnapshot is a point-in-time copy of the counters, shaped for the
// status command's JSON output.
type MetricsSnapshot struct {
	NotificationsSentTotal   int64            `json:"notifications_sent_total"`
	NotificationsFailedTotal int64            `json:"notifications_failed_total"`
	StreakChecksTotal        int64            `json:"streak_checks_total"`
	SnapshotsPublishedTotal  int64            `json:"snapshots_published_total"`
	ErrorsTotal              int64            `json:"errors_total"`
	WebhookLatencyMs         int64            `json:"webhook_latency_ms"`
	LastNotificationAt       *time.Time       `json:"last_notification_at,omitempty"`
	LastStreakCheck          *time.Time       `json:"last_streak_check,omitempty"`
	LastError                string           `json:"last_error,omitempty"`
	LastErrorAt              *time.Time       `json:"last_error_at,omitempty"`
	ErrorsByCategory         map[string]int64 `json:"errors_by_category,omitempty"`
}

// RecordNotificationSent counts a delivered webhook and its latency.
func (m *Metrics) RecordNotificationSent(latencyMs int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent++
	m.webhookLatencyMs = latencyMs
	m.lastNotificationAt = time.Now()
}

// RecordNotificationFailed counts a webhook delivery failure.
func (m *Metrics) RecordNotificationFailed(err error) {
	m.mu.Lock()
	m.notificationsFailed++
	m.mu.Unlock()
	m.RecordError("notification", err)
}

// RecordStreakCheck counts one streak-risk sweep.
func (m *Metrics) RecordStreakCheck() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.streakChecksRun++
	m.lastStreakCheck = time.Now()
}

// RecordSnapshotPublished counts one snapshot write.
func (m *Metrics) RecordSnapshotPublished() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshotsPublished++
}

// RecordError counts an error under the given category.
func (m *Metrics) RecordError(category string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorsTotal++
	if err != nil {
		m.lastError = err.Error()
	}
	m.lastErrorAt = time.Now()
	if category != "" {
		m.errorsByCategory[category]++
	}
}

// Snapshot copies the current counters.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := MetricsSnapshot{
		NotificationsSentTotal:   m.notificationsSent,
		NotificationsFailedTotal: m.notificationsFailed,
		StreakChecksTotal:        m.streakChecksRun,
		SnapshotsPublishedTotal:  m.snapshotsPublished,
		ErrorsTotal:              m.errorsTotal,
		WebhookLatencyMs:         m.webhookLatencyMs,
		LastError:                m.lastError,
		ErrorsByCategory:         make(map[string]int64, len(m.errorsByCategory)),
	}
	for k, v := range m.errorsByCategory {
		snap.ErrorsByCategory[k] = v
	}
	if t := m.lastNotificationAt; !t.IsZero() {
		snap.LastNotificationAt = &t
	}
	if t := m.lastStreakCheck; !t.IsZero() {
		snap.LastStreakCheck = &t
	}
	if t := m.lastErrorAt; !t.IsZero() {
		snap.LastErrorAt = &t
	}
	return snap
}

// JSON renders the snapshot as indented JSON.
func (m *Metrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m.Snapshot(), "", "  ")
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsSent = 0
	m.notificationsFailed = 0
	m.streakChecksRun = 0
	m.snapshotsPublished = 0
	m.errorsTotal = 0
	m.webhookLatencyMs = 0
	m.lastNotificationAt = time.Time{}
	m.lastStreakCheck = time.Time{}
	m.lastError = ""
	m.lastErrorAt = time.Time{}
	m.errorsByCategory = make(map[string]int64)
}

func (m *Metrics) NotificationsSent() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsSent
}

func (m *Metrics) NotificationsFailed() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

func (m *Metrics) StreakChecksRun() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.streakChecksRun
}

func (m *Metrics) SnapshotsPublished() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotsPublished
}

func (m *Metrics) ErrorsTotal() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.errorsTotal
}

func (m *Metrics) WebhookLatency() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.webhookLatencyMs
}
