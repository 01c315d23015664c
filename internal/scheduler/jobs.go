package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/hatamisg/rutin/internal/calendar"
	"github.com/hatamisg/rutin/internal/logging"
	"github.com/hatamisg/rutin/internal/model"
	"github.com/hatamisg/rutin/internal/notify"
	"github.com/hatamisg/rutin/internal/progress"
	"github.com/hatamisg/rutin/internal/schedule"
	"github.com/hatamisg/rutin/internal/snapshot"
	"github.com/hatamisg/rutin/internal/storage"
)

// Recorder receives job outcome counts. The daemon plugs its metrics in
// here; jobs run fine without one.
type Recorder interface {
	RecordNotificationSent(latencyMs int64)
	RecordNotificationFailed(err error)
	RecordStreakCheck()
	RecordSnapshotPublished()
	RecordError(category string, err error)
}

// recordDispatch feeds per-webhook dispatch results to the recorder.
func recordDispatch(r Recorder, results []notify.DispatchResult) {
	if r == nil {
		return
	}
	for _, res := range results {
		if res.Success {
			r.RecordNotificationSent(res.Duration.Milliseconds())
		} else {
			r.RecordNotificationFailed(res.Error)
		}
	}
}

// StreakRiskChecker warns about habits that are due today, still unmet, and
// about to leave the grace window.
type StreakRiskChecker struct {
	habits     *storage.HabitRepo
	resolver   *schedule.Resolver
	aggregator *progress.Aggregator
	dispatcher *notify.Dispatcher
	cal        calendar.Calendar
	recorder   Recorder
}

// NewStreakRiskChecker creates a streak risk checker.
func NewStreakRiskChecker(
	habits *storage.HabitRepo,
	resolver *schedule.Resolver,
	aggregator *progress.Aggregator,
	dispatcher *notify.Dispatcher,
	cal calendar.Calendar,
) *StreakRiskChecker {
	return &StreakRiskChecker{
		habits:     habits,
		resolver:   resolver,
		aggregator: aggregator,
		dispatcher: dispatcher,
		cal:        cal,
	}
}

// SetRecorder attaches a metrics recorder to the checker.
func (c *StreakRiskChecker) SetRecorder(r Recorder) {
	c.recorder = r
}

// Check sends a streak-risk notification for every due-but-unmet habit.
func (c *StreakRiskChecker) Check() {
	today := c.cal.StartOfDay(c.cal.Now())
	if c.recorder != nil {
		c.recorder.RecordStreakCheck()
	}

	habits, err := c.habits.List()
	if err != nil {
		logging.Warn("streak risk check failed to list habits", "error", err)
		if c.recorder != nil {
			c.recorder.RecordError("storage", err)
		}
		return
	}

	for _, h := range habits {
		if !c.resolver.IsDue(h, today) {
			continue
		}
		done, err := c.aggregator.Completed(h, today)
		if err != nil {
			logging.Warn("streak risk check failed", "habit", h.SID, "error", err)
			continue
		}
		if done {
			continue
		}

		p, _ := c.aggregator.ForDay(h.SID, today)
		n := model.NewNotification(model.NotifyStreakRisk,
			"Streak at risk",
			fmt.Sprintf("%s is due today and not done yet", h.Name)).
			WithField("habit_sid", h.SID).
			WithField("progress", fmt.Sprintf("%d/%d", p, h.Goal))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		recordDispatch(c.recorder, c.dispatcher.SendNotification(ctx, n))
		cancel()
	}
}

// RolloverJob republishes the snapshot and pings renderers when the day
// changes, so widgets stop showing yesterday's dueness.
type RolloverJob struct {
	builder    *snapshot.Builder
	publisher  *snapshot.Publisher
	dispatcher *notify.Dispatcher
	recorder   Recorder
}

// NewRolloverJob creates a rollover job.
func NewRolloverJob(builder *snapshot.Builder, publisher *snapshot.Publisher, dispatcher *notify.Dispatcher) *RolloverJob {
	return &RolloverJob{builder: builder, publisher: publisher, dispatcher: dispatcher}
}

// SetRecorder attaches a metrics recorder to the job.
func (j *RolloverJob) SetRecorder(r Recorder) {
	j.recorder = r
}

// Run rebuilds and republishes the snapshot for the new day.
func (j *RolloverJob) Run() {
	s, err := j.builder.Build()
	if err != nil {
		logging.Warn("rollover snapshot build failed", "error", err)
		if j.recorder != nil {
			j.recorder.RecordError("snapshot", err)
		}
		return
	}
	if err := j.publisher.Publish(s); err != nil {
		logging.Warn("rollover snapshot publish failed", "error", err)
		if j.recorder != nil {
			j.recorder.RecordError("snapshot", err)
		}
		return
	}
	if j.recorder != nil {
		j.recorder.RecordSnapshotPublished()
	}

	n := model.NewNotification(model.NotifyRollover, "", "").
		WithField("day", s.Day)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	recordDispatch(j.recorder, j.dispatcher.SendNotification(ctx, n))
}

// LivePublishJob republishes the snapshot every minute while any timer is
// running. Renderers interpolate between publishes from the checkpoint, so
// this is a safety net against drift, not the display path itself.
type LivePublishJob struct {
	checkpoints *storage.CheckpointRepo
	builder     *snapshot.Builder
	publisher   *snapshot.Publisher
	recorder    Recorder
	onTimers    func(count int)
}

// NewLivePublishJob creates a live publish job.
func NewLivePublishJob(checkpoints *storage.CheckpointRepo, builder *snapshot.Builder, publisher *snapshot.Publisher) *LivePublishJob {
	return &LivePublishJob{checkpoints: checkpoints, builder: builder, publisher: publisher}
}

// SetRecorder attaches a metrics recorder to the job.
func (j *LivePublishJob) SetRecorder(r Recorder) {
	j.recorder = r
}

// SetTimerObserver registers a callback that receives the running timer
// count on every tick. The daemon's health checker hangs off this.
func (j *LivePublishJob) SetTimerObserver(fn func(count int)) {
	j.onTimers = fn
}

// Run republishes the snapshot if at least one timer is running.
func (j *LivePublishJob) Run() {
	running, err := j.checkpoints.ListRunning()
	if err != nil {
		logging.Warn("live publish failed to list checkpoints", "error", err)
		if j.recorder != nil {
			j.recorder.RecordError("storage", err)
		}
		return
	}
	if j.onTimers != nil {
		j.onTimers(len(running))
	}
	if len(running) == 0 {
		return
	}

	s, err := j.builder.Build()
	if err != nil {
		logging.Warn("live publish snapshot build failed", "error", err)
		if j.recorder != nil {
			j.recorder.RecordError("snapshot", err)
		}
		return
	}
	if err := j.publisher.Publish(s); err != nil {
		logging.Warn("live publish snapshot publish failed", "error", err)
		if j.recorder != nil {
			j.recorder.RecordError("snapshot", err)
		}
		return
	}
	if j.recorder != nil {
		j.recorder.RecordSnapshotPublished()
	}
}
