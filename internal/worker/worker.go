package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/seoscribe/seoscribe/internal/config"
	"github.com/seoscribe/seoscribe/internal/events"
	"github.com/seoscribe/seoscribe/internal/generator"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/pipeline"
	"gorm.io/gorm"
)

// asynqLoggerAdapter wraps slog.Logger to implement asynq.Logger interface
type asynqLoggerAdapter struct {
	logger *slog.Logger
}

func (a *asynqLoggerAdapter) Debug(args ...interface{}) {
	a.logger.Debug(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Info(args ...interface{}) {
	a.logger.Info(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Warn(args ...interface{}) {
	a.logger.Warn(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Error(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
}

func (a *asynqLoggerAdapter) Fatal(args ...interface{}) {
	a.logger.Error(fmt.Sprint(args...))
	panic(fmt.Sprint(args...))
}

// Deps carries the shared services the worker's task handlers run against.
type Deps struct {
	DB            *gorm.DB
	Generator     *generator.Generator
	AutoPublisher *pipeline.AutoPublisher
	GenerateAhead *pipeline.GenerateAhead
	Events        *events.Publisher
}

// Run starts the Asynq worker server and blocks until shutdown signal.
// Use this for standalone worker mode.
func Run(cfg *config.Config, deps Deps) error {
	srv, mux, err := newServer(cfg, deps)
	if err != nil {
		return err
	}

	// Run blocks and handles its own signal interception
	return srv.Run(mux)
}

// Start starts the Asynq worker in non-blocking mode and returns a stop function.
// Use this for embedded mode so the caller can coordinate shutdown.
func Start(cfg *config.Config, deps Deps) (stop func(), err error) {
	srv, mux, err := newServer(cfg, deps)
	if err != nil {
		return nil, err
	}
	if err := srv.Start(mux); err != nil {
		return nil, fmt.Errorf("failed to start worker: %w", err)
	}
	return func() { srv.Shutdown() }, nil
}

func newServer(cfg *config.Config, deps Deps) (*asynq.Server, *asynq.ServeMux, error) {
	redisOpt, err := asynq.ParseRedisURI(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	logger := NewLogger(cfg.LogLevel, cfg.LogFormat)

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency:     5,
			ShutdownTimeout: 30 * time.Second,
			ErrorHandler:    asynq.ErrorHandlerFunc(makeErrorHandler(logger)),
			Logger:          &asynqLoggerAdapter{logger: logger},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskGenerateArticle, handleGenerateArticle(logger, deps.DB, deps.Generator, deps.Events))
	mux.HandleFunc(TaskAutoPublish, handleAutoPublish(logger, deps.AutoPublisher))
	mux.HandleFunc(TaskGenerateAhead, handleGenerateAhead(logger, deps.GenerateAhead))

	logger.Info("Worker starting", "concurrency", 5, "redis", cfg.RedisURL)
	return srv, mux, nil
}

// handleGenerateArticle processes one-off article generation tasks enqueued
// from the API.
func handleGenerateArticle(logger *slog.Logger, db *gorm.DB, gen *generator.Generator, publisher *events.Publisher) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		var payload struct {
			ArticleID uint `json:"article_id"`
		}
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			// Invalid payload - don't retry
			return fmt.Errorf("invalid payload: %w", asynq.SkipRetry)
		}

		var article models.Article
		if err := db.WithContext(ctx).First(&article, payload.ArticleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.Error("Article not found", "article_id", payload.ArticleID)
				return fmt.Errorf("article not found: %w", asynq.SkipRetry)
			}
			// Database error - retryable
			return fmt.Errorf("failed to fetch article: %w", err)
		}

		logger.Info(
			"Processing article:generate task",
			"article_id", payload.ArticleID,
			"project_id", article.ProjectID,
		)

		if err := gen.Generate(ctx, &article); err != nil {
			logger.Error(
				"Article generation failed",
				"article_id", payload.ArticleID,
				"error", err.Error(),
			)
			return fmt.Errorf("article generation failed: %w", err)
		}

		if publisher != nil {
			if err := publisher.Publish(ctx, events.Event{
				Type:      events.TypeArticleGenerated,
				ArticleID: article.ID,
				ProjectID: article.ProjectID,
			}); err != nil {
				logger.Warn("Failed to publish article event", "article_id", article.ID, "error", err.Error())
			}
		}

		logger.Info("Article generation completed", "article_id", payload.ArticleID)
		return nil
	}
}

// handleAutoPublish runs one pass of the due-article publishing pipeline.
// Failures inside a pass are reported in the run result, not as task errors,
// so the task itself only retries when the due scan cannot run at all.
func handleAutoPublish(logger *slog.Logger, publisher *pipeline.AutoPublisher) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		result, err := publisher.Run(ctx)
		if err != nil {
			return fmt.Errorf("auto-publish run failed: %w", err)
		}
		logger.Info(
			"Auto-publish run completed",
			"published", result.Published,
			"failed", result.Failed,
		)
		return nil
	}
}

// handleGenerateAhead runs one pass of the generation-ahead pipeline.
func handleGenerateAhead(logger *slog.Logger, runner *pipeline.GenerateAhead) func(context.Context, *asynq.Task) error {
	return func(ctx context.Context, task *asynq.Task) error {
		result, err := runner.Run(ctx)
		if err != nil {
			return fmt.Errorf("generate-ahead run failed: %w", err)
		}
		logger.Info(
			"Generate-ahead run completed",
			"projects", result.Stats.Projects,
			"processed", result.Stats.Processed,
			"generated", result.Stats.Generated,
			"published", result.Stats.Published,
			"failed", result.Stats.Failed,
		)
		return nil
	}
}

// makeErrorHandler creates an error handler function with logger closure.
func makeErrorHandler(logger *slog.Logger) func(context.Context, *asynq.Task, error) {
	return func(ctx context.Context, task *asynq.Task, err error) {
		retried, _ := asynq.GetRetryCount(ctx)
		maxRetry, _ := asynq.GetMaxRetry(ctx)

		logger.Error(
			"Task execution failed",
			"task_type", task.Type(),
			"error", err.Error(),
			"retry_count", retried,
			"max_retry", maxRetry,
		)

		if retried >= maxRetry {
			logger.Error(
				"Task moved to dead letter queue (all retries exhausted)",
				"task_type", task.Type(),
				"payload", string(task.Payload()),
			)
		}
	}
}
