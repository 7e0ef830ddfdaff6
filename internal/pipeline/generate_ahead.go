package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/seoscribe/seoscribe/internal/events"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/wordpress"
)

// Generation retry policy: 3 attempts with linear backoff (2s, 4s).
const maxGenerationAttempts = 3

func backoffDelay(attempt int) time.Duration {
	return time.Duration(attempt) * 2 * time.Second
}

// GenerateAhead pre-generates content for articles scheduled tomorrow so a
// human can review before the publish pipeline picks them up.
type GenerateAhead struct {
	store      Store
	generator  ContentGenerator
	publishers PublisherFactory
	sink       EventSink
	logger     *slog.Logger
	now        func() time.Time
	sleep      func(time.Duration)
}

// NewGenerateAhead creates a GenerateAhead runner. sink may be nil.
func NewGenerateAhead(store Store, generator ContentGenerator, publishers PublisherFactory, sink EventSink, logger *slog.Logger) *GenerateAhead {
	if logger == nil {
		logger = slog.Default()
	}
	return &GenerateAhead{
		store:      store,
		generator:  generator,
		publishers: publishers,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
		sleep:      time.Sleep,
	}
}

// tomorrowWindow is the next calendar day in server-local time, inclusive on
// both ends.
func (g *GenerateAhead) tomorrowWindow() (time.Time, time.Time) {
	t := g.now().AddDate(0, 0, 1)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	end := start.Add(24*time.Hour - time.Nanosecond)
	return start, end
}

// Run executes one generation-ahead invocation: for every project with
// auto_generate enabled, generate content for its still-scheduled articles
// due tomorrow. A store error during either scan aborts the run; per-article
// failures are bounded-retried, logged, and never abort the loop.
func (g *GenerateAhead) Run(ctx context.Context) (*GenerateRunResult, error) {
	projects, err := g.store.AutomatedProjects(ctx)
	if err != nil {
		return nil, fmt.Errorf("automated project scan failed: %w", err)
	}

	from, to := g.tomorrowWindow()
	stats := GenerateRunStats{Projects: len(projects)}

	for i := range projects {
		pa := &projects[i]

		articles, err := g.store.ArticlesScheduledBetween(ctx, pa.Project.ID, from, to)
		if err != nil {
			return nil, fmt.Errorf("scheduled article scan failed for project %d: %w", pa.Project.ID, err)
		}

		for j := range articles {
			article := &articles[j]
			stats.Processed++

			if err := g.generateWithRetry(ctx, article); err != nil {
				stats.Failed++
				if logErr := g.store.LogGenerationFailure(ctx, pa.Project.ID, article.ID, maxGenerationAttempts, err.Error()); logErr != nil {
					g.logger.Error("Failed to record generation failure",
						"article_id", article.ID, "error", logErr)
				}
				g.logger.Error("Generation exhausted all attempts",
					"article_id", article.ID,
					"attempts", maxGenerationAttempts,
					"error", err,
				)
				continue
			}

			stats.Generated++
			g.emit(ctx, events.Event{
				Type:      events.TypeArticleGenerated,
				ArticleID: article.ID,
				ProjectID: pa.Project.ID,
			})

			if pa.Settings.AutoPublish {
				if g.publishNow(ctx, article) {
					stats.Published++
				}
			}
		}
	}

	g.logger.Info("Generation-ahead run complete",
		"projects", stats.Projects,
		"processed", stats.Processed,
		"generated", stats.Generated,
		"published", stats.Published,
		"failed", stats.Failed,
	)

	return &GenerateRunResult{
		Success: true,
		Message: fmt.Sprintf("Generated %d of %d articles across %d projects", stats.Generated, stats.Processed, stats.Projects),
		Stats:   stats,
	}, nil
}

// generateWithRetry runs up to maxGenerationAttempts, waiting attempt*2s
// after each failed attempt (2s then 4s; no wait after the last).
func (g *GenerateAhead) generateWithRetry(ctx context.Context, article *models.Article) error {
	var lastErr error
	for attempt := 1; attempt <= maxGenerationAttempts; attempt++ {
		if err := g.generator.Generate(ctx, article); err == nil {
			return nil
		} else {
			lastErr = err
			g.logger.Warn("Generation attempt failed",
				"article_id", article.ID,
				"attempt", attempt,
				"error", err,
			)
		}
		if attempt < maxGenerationAttempts {
			g.sleep(backoffDelay(attempt))
		}
	}
	return lastErr
}

// publishNow is the best-effort immediate publish after a successful
// auto_publish generation. A failure here is logged and reported on the
// event stream but never undoes the generation, and unlike the due-article
// path it does not de-schedule the article when no integration exists.
func (g *GenerateAhead) publishNow(ctx context.Context, article *models.Article) bool {
	integration, err := g.store.ActiveIntegration(ctx, article.ProjectID, models.PlatformWordPress)
	if err != nil {
		g.logger.Error("Integration lookup failed", "article_id", article.ID, "error", err)
		return false
	}
	if integration == nil {
		g.logger.Warn("Auto-publish skipped, no active integration",
			"article_id", article.ID, "project_id", article.ProjectID)
		return false
	}

	publisher, err := g.publishers.ForIntegration(integration)
	if err != nil {
		g.logger.Error("Publisher setup failed", "article_id", article.ID, "error", err)
		return false
	}

	published, err := publisher.PublishArticle(ctx, article, wordpress.PublishOptions{Status: "publish"})
	if err != nil {
		g.logger.Error("Auto-publish after generation failed",
			"article_id", article.ID, "error", err)
		g.emit(ctx, events.Event{
			Type:      events.TypeArticlePublishFailed,
			ArticleID: article.ID,
			ProjectID: article.ProjectID,
			Error:     err.Error(),
		})
		return false
	}

	if err := g.store.MarkArticlePublished(ctx, article.ID, published.PostID, published.URL, g.now()); err != nil {
		g.logger.Error("Failed to reconcile published article", "article_id", article.ID, "error", err)
		return false
	}

	g.emit(ctx, events.Event{
		Type:      events.TypeArticlePublished,
		ArticleID: article.ID,
		ProjectID: article.ProjectID,
		PostID:    published.PostID,
		URL:       published.URL,
	})
	return true
}

func (g *GenerateAhead) emit(ctx context.Context, event events.Event) {
	if g.sink == nil {
		return
	}
	if err := g.sink.Publish(ctx, event); err != nil {
		g.logger.Warn("Failed to publish lifecycle event", "type", event.Type, "error", err)
	}
}
