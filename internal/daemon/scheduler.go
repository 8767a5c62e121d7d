package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for the daily cycle steps and the snapshot cadence.
// All jobs fire in the window's timezone so the anchored wall-clock offsets
// stay correct across DST changes.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler anchored to loc.
func NewScheduler(loc *time.Location) (*Scheduler, error) {
	s, err := gocron.NewScheduler(gocron.WithLocation(loc))
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// ScheduleDaily registers a job firing once per day at the given local time.
func (s *Scheduler) ScheduleDaily(name string, hour, minute, second int, task func()) error {
	_, err := s.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(
			gocron.NewAtTime(uint(hour), uint(minute), uint(second)))),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule daily job %q: %w", name, err)
	}
	return nil
}

// ScheduleCron registers a job driven by a cron expression.
func (s *Scheduler) ScheduleCron(name, expr string, task func()) error {
	_, err := s.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(task),
		gocron.WithName(name),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule cron job %q: %w", name, err)
	}
	return nil
}

// Start begins firing jobs.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts the scheduler down, waiting for running jobs.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
