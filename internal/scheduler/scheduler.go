// Package scheduler provides cron-based background jobs for the daemon:
// the end-of-grace streak-risk check, the midnight rollover, and the
// periodic snapshot republish while a timer runs.
package scheduler

import (
	"github.com/robfig/cron/v3"

	"github.com/hatamisg/rutin/internal/logging"
)

// Cron schedules. Seconds field enabled, matching cron.WithSeconds.
const (
	// scheduleGrace fires at the start of the grace cutoff hour, when due
	// habits still unmet are about to break their streaks.
	scheduleGrace = "0 0 23 * * *"
	// scheduleRollover fires at local midnight when "today" changes.
	scheduleRollover = "0 0 0 * * *"
	// scheduleTick fires every minute to republish the snapshot while a
	// timer is running, keeping live renderers honest about elapsed time.
	scheduleTick = "0 * * * * *"
)

// Scheduler manages scheduled jobs using cron.
type Scheduler struct {
	cron          *cron.Cron
	riskChecker   *StreakRiskChecker
	rollover      *RolloverJob
	livePublisher *LivePublishJob
}

// NewScheduler creates a new scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithSeconds()),
	}
}

// SetStreakRiskChecker sets the streak risk checker job.
func (s *Scheduler) SetStreakRiskChecker(c *StreakRiskChecker) {
	s.riskChecker = c
}

// SetRolloverJob sets the midnight rollover job.
func (s *Scheduler) SetRolloverJob(j *RolloverJob) {
	s.rollover = j
}

// SetLivePublishJob sets the minutely live-publish job.
func (s *Scheduler) SetLivePublishJob(j *LivePublishJob) {
	s.livePublisher = j
}

// Start registers all configured jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if s.riskChecker != nil {
		if _, err := s.cron.AddFunc(scheduleGrace, s.riskChecker.Check); err != nil {
			return err
		}
	}
	if s.rollover != nil {
		if _, err := s.cron.AddFunc(scheduleRollover, s.rollover.Run); err != nil {
			return err
		}
	}
	if s.livePublisher != nil {
		if _, err := s.cron.AddFunc(scheduleTick, s.livePublisher.Run); err != nil {
			return err
		}
	}

	s.cron.Start()
	logging.Info("scheduler started")
	return nil
}

// Stop stops the cron loop, waiting for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logging.Info("scheduler stopped")
}
