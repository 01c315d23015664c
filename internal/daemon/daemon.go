package daemon

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/config"
	"github.com/hatamisg/rutin/internal/logging"
	"github.com/hatamisg/rutin/internal/notify"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/schedule"
	"github.com/hatamisg/rutin/internal/scheduler"
	"github.com/hatamisg/rutin/internal/snapshot"
	"github.com/hatamisg/rutin/internal/storage"
	"github.com/hatamisg/rutin/internal/streak"
)

// Daemon manages the background daemon process. It owns the cron scheduler
// that fires the streak-risk check, the midnight rollover, and the live
// snapshot republish while a timer runs.
type Daemon struct {
	pidFile     *PIDFile
	scheduler   *scheduler.Scheduler
	health      *HealthChecker
	db          *storage.DB
	snapshotDir string
	startedAt   time.Time
	version     string
	debug       bool
}

// Status represents the daemon status.
type Status struct {
	Running   bool             `json:"running"`
	PID       int              `json:"pid,omitempty"`
	StartedAt time.Time        `json:"started_at,omitempty"`
	Uptime    string           `json:"uptime,omitempty"`
	Health    *HealthStatus    `json:"health,omitempty"`
	Metrics   *MetricsSnapshot `json:"metrics,omitempty"`
}

// NewDaemon creates a daemon manager. db may be nil for control commands
// (status, stop, background spawn) that never touch the store themselves.
func NewDaemon(db *storage.DB, snapshotDir string) *Daemon {
	if snapshotDir == "" {
		snapshotDir = snapshot.DefaultDir()
	}
	return &Daemon{
		pidFile:     NewPIDFile(),
		db:          db,
		snapshotDir: snapshotDir,
	}
}

// SetDebug enables debug mode.
func (d *Daemon) SetDebug(debug bool) {
	d.debug = debug
}

// SetVersion stamps the build version into health reports.
func (d *Daemon) SetVersion(version string) {
	d.version = version
}

// IsRunning returns true if a daemon process is alive.
func (d *Daemon) IsRunning() bool {
	return d.pidFile.IsRunning()
}

// GetStatus returns the current daemon status.
func (d *Daemon) GetStatus() *Status {
	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return &Status{}
	}

	status := &Status{Running: true, PID: pid}
	if state, err := readDaemonState(); err == nil {
		status.StartedAt = state.StartedAt
		status.Uptime = formatUptime(time.Since(state.StartedAt))
		status.Health = state.Health
		status.Metrics = state.Metrics
	}
	return status
}

// buildScheduler wires the engine services the cron jobs need against the
// daemon's database handle.
func (d *Daemon) buildScheduler() *scheduler.Scheduler {
	habits := storage.NewHabitRepo(d.db)
	records := storage.NewRecordRepo(d.db)
	checkpoints := storage.NewCheckpointRepo(d.db)
	webhooks := storage.NewWebhookRepo(d.db)

	cal := calendar.System{}
	resolver := schedule.NewResolver(cal)
	aggregator := progress.NewAggregator(records, cal)
	analyzer := streak.NewAnalyzer(resolver, records, cal)
	builder := snapshot.NewBuilder(habits, checkpoints, resolver, aggregator, analyzer, cal)
	publisher := snapshot.NewPublisher(d.snapshotDir)
	dispatcher := notify.NewDispatcher(webhooks)

	risk := scheduler.NewStreakRiskChecker(habits, resolver, aggregator, dispatcher, cal)
	risk.SetRecorder(GlobalMetrics)
	rollover := scheduler.NewRolloverJob(builder, publisher, dispatcher)
	rollover.SetRecorder(GlobalMetrics)
	live := scheduler.NewLivePublishJob(checkpoints, builder, publisher)
	live.SetRecorder(GlobalMetrics)
	live.SetTimerObserver(func(count int) {
		if d.health != nil {
			d.health.SetRunningTimers(count)
		}
	})

	s := scheduler.NewScheduler()
	s.SetStreakRiskChecker(risk)
	s.SetRolloverJob(rollover)
	s.SetLivePublishJob(live)
	return s
}

// Start runs the daemon in the foreground until a shutdown signal arrives.
func (d *Daemon) Start(ctx context.Context) error {
	if d.IsRunning() {
		return ErrAlreadyRunning
	}
	if err := d.pidFile.Write(); err != nil {
		return err
	}

	d.startedAt = time.Now()
	if err := writeDaemonState(&DaemonState{StartedAt: d.startedAt}); err != nil {
		d.pidFile.Remove()
		return err
	}

	d.health = NewHealthChecker(d.version)
	d.health.AddCheck("database", func() error {
		if d.db.Badger().IsClosed() {
			return fmt.Errorf("database closed")
		}
		return nil
	})

	d.scheduler = d.buildScheduler()
	if err := d.scheduler.Start(); err != nil {
		d.pidFile.Remove()
		return err
	}

	stateCtx, stopStateWriter := context.WithCancel(ctx)
	go d.refreshStateLoop(stateCtx)

	if d.debug {
		logging.DebugLog("daemon started", "pid", os.Getpid())
	}
	sig := waitForShutdown(ctx)
	if d.debug && sig != nil {
		logging.DebugLog("received signal", "signal", sig.String())
	}

	stopStateWriter()
	d.scheduler.Stop()
	d.pidFile.Remove()
	removeDaemonState()
	return nil
}

// stateRefreshInterval is how often the daemon rewrites its state file
// with fresh health and metrics.
const stateRefreshInterval = time.Minute

// refreshStateLoop periodically folds health and metrics into the state
// file so the status command can show them.
func (d *Daemon) refreshStateLoop(ctx context.Context) {
	ticker := time.NewTicker(stateRefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics := GlobalMetrics.Snapshot()
			state := &DaemonState{
				StartedAt: d.startedAt,
				Health:    d.health.Check(),
				Metrics:   &metrics,
			}
			if err := writeDaemonState(state); err != nil {
				logging.Warn("failed to refresh daemon state", "error", err)
			}
		}
	}
}

// StartBackground spawns a detached daemon process and waits for it to
// come up. Stdout and stderr go to the daemon log file.
func (d *Daemon) StartBackground() (int, error) {
	if d.IsRunning() {
		return d.pidFile.GetRunningPID(), ErrAlreadyRunning
	}

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	args := []string{"daemon", "start", "--foreground"}
	if d.debug {
		args = append(args, "--debug")
	}
	cmd := exec.Command(executable, args...)
	cmd.Stdin = nil

	logPath := GetLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0755); err == nil {
		if logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644); err == nil {
			cmd.Stdout = logFile
			cmd.Stderr = logFile
		}
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon: %w", err)
	}

	// Give the child time to write its PID file.
	time.Sleep(config.Global.Daemon.StartupWait)

	if !d.pidFile.IsRunning() {
		if msg := scanLogForError(logPath); msg != "" {
			return 0, fmt.Errorf("daemon failed to start: %s", msg)
		}
		return 0, fmt.Errorf("daemon failed to start (check logs: %s)", logPath)
	}
	return cmd.Process.Pid, nil
}

// Stop signals the running daemon and waits for it to exit, killing it
// after the configured timeout.
func (d *Daemon) Stop() error {
	pid := d.pidFile.GetRunningPID()
	if pid == 0 {
		return ErrNotRunning
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process: %w", err)
	}
	if err := process.Signal(os.Interrupt); err != nil {
		if err := process.Kill(); err != nil {
			return fmt.Errorf("failed to stop daemon: %w", err)
		}
	}

	done := make(chan struct{})
	go func() {
		process.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(config.Global.Daemon.KillTimeout):
		process.Kill()
	}

	d.pidFile.Remove()
	removeDaemonState()
	return nil
}

// scanLogForError looks for an error message in the last lines of the log.
func scanLogForError(logPath string) string {
	data, err := os.ReadFile(logPath)
	if err != nil {
		return ""
	}

	lines := strings.Split(string(data), "\n")
	floor := len(lines) - 10
	if floor < 0 {
		floor = 0
	}
	for i := len(lines) - 1; i >= floor; i-- {
		line := strings.TrimSpace(lines[i])
		lower := strings.ToLower(line)
		if strings.Contains(lower, "error") || strings.Contains(line, "failed to") {
			return line
		}
	}
	return ""
}

// DaemonState is the bit of state shared with control commands through a
// file, since the daemon and the CLI are separate processes.
type DaemonState struct {
	StartedAt time.Time        `json:"started_at"`
	Health    *HealthStatus    `json:"health,omitempty"`
	Metrics   *MetricsSnapshot `json:"metrics,omitempty"`
}

func getStatePath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.json")
}

func writeDaemonState(state *DaemonState) error {
	path := getStatePath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func readDaemonState() (*DaemonState, error) {
	data, err := os.ReadFile(getStatePath())
	if err != nil {
		return nil, err
	}
	var state DaemonState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func removeDaemonState() {
	if err := os.Remove(getStatePath()); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove daemon state file", "error", err, "path", getStatePath())
	}
}

// GetLogPath returns the path to the daemon log file.
func GetLogPath() string {
	return filepath.Join(xdg.StateHome, AppName, "daemon.log")
}

// formatUptime renders a duration the way process managers usually do.
func formatUptime(d time.Duration) string {
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		h, m := int(d.Hours()), int(d.Minutes())%60
		if m > 0 {
			return fmt.Sprintf("%dh %dm", h, m)
		}
		return fmt.Sprintf("%dh", h)
	}
	days, h := int(d.Hours()/24), int(d.Hours())%24
	if h > 0 {
		return fmt.Sprintf("%dd %dh", days, h)
	}
	return fmt.Sprintf("%dd", days)
}
