// Package runtime provides application runtime context for Rutin.
package runtime

import (
	"context"
	"os"
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/logging"
	"github.com/hatamisg/rutin/internal/notify"
	"github.com/hatamisg/rutin/internal/output"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/schedule"
	"github.com/hatamisg/rutin/internal/snapshot"
	"github.com/hatamisg/rutin/internal/storage"
	"github.com/hatamisg/rutin/internal/streak"
	"github.com/hatamisg/rutin/internal/timer"
)

// Context holds the application runtime context.
type Context struct {
	DB        *storage.DB
	Formatter *output.Formatter
	Calendar  calendar.Calendar

	// Repositories
	HabitRepo      *storage.HabitRepo
	RecordRepo     *storage.RecordRepo
	CheckpointRepo *storage.CheckpointRepo
	WebhookRepo    *storage.WebhookRepo
	ConfigRepo     *storage.ConfigRepo

	// Engine services
	Resolver   *schedule.Resolver
	Aggregator *progress.Aggregator
	Analyzer   *streak.Analyzer
	Reconciler *timer.Reconciler

	// Snapshot and refresh
	Builder    *snapshot.Builder
	Publisher  *snapshot.Publisher
	Dispatcher *notify.Dispatcher

	// Debug mode
	Debug bool
}

// Options configures the runtime context.
type Options struct {
	DBPath      string
	SnapshotDir string
	InMemory    bool
	Format      output.Format
	ColorMode   output.ColorMode
	Debug       bool
}

// DefaultOptions returns default runtime options.
func DefaultOptions() Options {
	return Options{
		DBPath:      storage.DefaultPath(),
		SnapshotDir: snapshot.DefaultDir(),
		InMemory:    false,
		Format:      output.FormatCLI,
		ColorMode:   output.ColorAuto,
		Debug:       false,
	}
}

// New creates a new runtime context.
func New(opts Options) (*Context, error) {
	// Check for environment variable override
	if envPath := os.Getenv("RUTIN_DATABASE"); envPath != "" {
		if envPath == ":memory:" {
			opts.InMemory = true
		} else {
			opts.DBPath = envPath
		}
	}
	if envDir := os.Getenv("RUTIN_STATE"); envDir != "" {
		opts.SnapshotDir = envDir
	}

	db, err := storage.Open(storage.Options{
		Path:     opts.DBPath,
		InMemory: opts.InMemory,
	})
	if err != nil {
		return nil, err
	}

	habitRepo := storage.NewHabitRepo(db)
	recordRepo := storage.NewRecordRepo(db)
	checkpointRepo := storage.NewCheckpointRepo(db)
	webhookRepo := storage.NewWebhookRepo(db)
	configRepo := storage.NewConfigRepo(db)

	cal := calendar.System{}
	resolver := schedule.NewResolver(cal)
	aggregator := progress.NewAggregator(recordRepo, cal)
	analyzer := streak.NewAnalyzer(resolver, recordRepo, cal)
	reconciler := timer.NewReconciler(checkpointRepo, aggregator, cal)

	builder := snapshot.NewBuilder(habitRepo, checkpointRepo, resolver, aggregator, analyzer, cal)
	publisher := snapshot.NewPublisher(opts.SnapshotDir)
	dispatcher := notify.NewDispatcher(webhookRepo)

	formatter := output.NewFormatter()
	formatter.Format = opts.Format
	formatter.ColorMode = opts.ColorMode

	ctx := &Context{
		DB:             db,
		Formatter:      formatter,
		Calendar:       cal,
		HabitRepo:      habitRepo,
		RecordRepo:     recordRepo,
		CheckpointRepo: checkpointRepo,
		WebhookRepo:    webhookRepo,
		ConfigRepo:     configRepo,
		Resolver:       resolver,
		Aggregator:     aggregator,
		Analyzer:       analyzer,
		Reconciler:     reconciler,
		Builder:        builder,
		Publisher:      publisher,
		Dispatcher:     dispatcher,
		Debug:          opts.Debug,
	}

	// Every progress or timer mutation republishes the snapshot and emits a
	// refresh signal. Signals are at-least-once; receivers recompute from the
	// snapshot, so duplicates are harmless.
	aggregator.OnChange = ctx.NotifyChanged
	reconciler.OnChange = ctx.NotifyChanged

	return ctx, nil
}

// Close closes the runtime context.
func (c *Context) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}

// NotifyChanged rebuilds and publishes the snapshot, then dispatches a
// refresh signal to enabled webhooks. Both steps are best-effort: a failed
// publish or send never rolls back the mutation that triggered it.
func (c *Context) NotifyChanged(habitSID string) {
	snap, err := c.Builder.Build()
	if err != nil {
		logging.Warn("snapshot rebuild failed", "habit", habitSID, "error", err)
		return
	}
	if err := c.Publisher.Publish(snap); err != nil {
		logging.Warn("snapshot publish failed", "habit", habitSID, "error", err)
		return
	}

	sendCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	c.Dispatcher.SendRefresh(sendCtx, habitSID, "progress-changed", snap.Version)
}

// CLIFormatter returns a CLI formatter.
func (c *Context) CLIFormatter() *output.CLIFormatter {
	return output.NewCLIFormatter(c.Formatter)
}

// JSONFormatter returns a JSON formatter.
func (c *Context) JSONFormatter() *output.JSONFormatter {
	return output.NewJSONFormatter(c.Formatter)
}

// IsJSON returns true if output format is JSON.
func (c *Context) IsJSON() bool {
	return c.Formatter.Format == output.FormatJSON
}

// IsCLI returns true if output format is CLI.
func (c *Context) IsCLI() bool {
	return c.Formatter.Format == output.FormatCLI
}

// Debugf prints debug output if debug mode is enabled.
func (c *Context) Debugf(format string, args ...interface{}) {
	if c.Debug {
		c.Formatter.Printf("[DEBUG] "+format+"\n", args...)
	}
}
