package worker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/seoscribe/seoscribe/internal/config"
)

// StartScheduler creates and starts an Asynq Scheduler for the periodic
// pipeline tasks. Returns a stop function for graceful shutdown.
func StartScheduler(cfg *config.Config) (stop func(), err error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	location, err := time.LoadLocation(cfg.SchedulerTimezone)
	if err != nil {
		slog.Warn("Invalid timezone, using UTC", "timezone", cfg.SchedulerTimezone, "error", err)
		location = time.UTC
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Location: location,
			LogLevel: asynq.InfoLevel,
			Logger:   &asynqLoggerAdapter{logger: logger},
		},
	)

	// Auto-publish sweep. Retries happen through re-scans on later runs, so
	// the task itself does not retry.
	autoPublishTask := asynq.NewTask(
		TaskAutoPublish,
		nil,
		asynq.MaxRetry(0),
		asynq.Timeout(10*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(time.Minute),
	)
	if _, err := scheduler.Register(cfg.AutoPublishSchedule, autoPublishTask); err != nil {
		return nil, fmt.Errorf("failed to register auto-publish schedule: %w", err)
	}

	// Daily generation-ahead pass for projects with automation enabled.
	generateAheadTask := asynq.NewTask(
		TaskGenerateAhead,
		nil,
		asynq.MaxRetry(0),
		asynq.Timeout(30*time.Minute),
		asynq.Retention(24*time.Hour),
		asynq.Unique(12*time.Hour),
	)
	if _, err := scheduler.Register(cfg.GenerateAheadSchedule, generateAheadTask); err != nil {
		return nil, fmt.Errorf("failed to register generate-ahead schedule: %w", err)
	}

	if err := scheduler.Start(); err != nil {
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	slog.Info(
		"Scheduler started",
		"auto_publish_schedule", cfg.AutoPublishSchedule,
		"generate_ahead_schedule", cfg.GenerateAheadSchedule,
		"timezone", cfg.SchedulerTimezone,
	)

	return func() { scheduler.Shutdown() }, nil
}
