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

// AutoPublisher runs the due-article scan and the per-article publish
// orchestration. Articles are processed strictly sequentially.
type AutoPublisher struct {
	store      Store
	publishers PublisherFactory
	sink       EventSink
	logger     *slog.Logger
	now        func() time.Time
}

// NewAutoPublisher creates an AutoPublisher. sink may be nil.
func NewAutoPublisher(store Store, publishers PublisherFactory, sink EventSink, logger *slog.Logger) *AutoPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AutoPublisher{
		store:      store,
		publishers: publishers,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one auto-publish invocation. A store error during the due
// scan aborts the whole run (fail-fast: it happens before any article is
// touched). Per-article outcomes never abort the loop.
func (p *AutoPublisher) Run(ctx context.Context) (*PublishRunResult, error) {
	now := p.now()

	due, err := p.store.DueArticles(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("due article scan failed: %w", err)
	}

	result := &PublishRunResult{
		Success: true,
		Results: []ArticleResult{},
	}

	for i := range due {
		article := &due[i]
		outcome := p.publishOne(ctx, article, now)
		result.Results = append(result.Results, outcome)
		if outcome.Status == ResultStatusSuccess {
			result.Published++
		} else {
			result.Failed++
		}
	}

	result.Message = fmt.Sprintf("Published %d articles, %d failed", result.Published, result.Failed)
	p.logger.Info("Auto-publish run complete",
		"due", len(due),
		"published", result.Published,
		"failed", result.Failed,
	)
	return result, nil
}

// publishOne attempts to publish a single due article and reconciles its
// stored state with the outcome:
//
//   - no active integration: de-schedule to draft (terminal for this
//     attempt; needs a human to re-trigger)
//   - publish succeeds: the only transition to published, stamping all
//     three publish fields together
//   - publish fails: status left untouched so the next scan retries
func (p *AutoPublisher) publishOne(ctx context.Context, article *models.Article, now time.Time) ArticleResult {
	result := ArticleResult{ArticleID: article.ID, Title: article.Title}

	integration, err := p.store.ActiveIntegration(ctx, article.ProjectID, models.PlatformWordPress)
	if err != nil {
		result.Status = ResultStatusError
		result.Error = err.Error()
		p.logger.Error("Integration lookup failed", "article_id", article.ID, "error", err)
		return result
	}

	if integration == nil {
		if err := p.store.UpdateArticleStatus(ctx, article.ID, models.ArticleStatusDraft); err != nil {
			p.logger.Error("Failed to de-schedule article", "article_id", article.ID, "error", err)
		}
		result.Status = ResultStatusFailed
		result.Error = ErrNoIntegration
		p.logger.Warn("No active integration, article de-scheduled",
			"article_id", article.ID, "project_id", article.ProjectID)
		p.emit(ctx, events.Event{
			Type:      events.TypeArticlePublishFailed,
			ArticleID: article.ID,
			ProjectID: article.ProjectID,
			Error:     ErrNoIntegration,
		})
		return result
	}

	publisher, err := p.publishers.ForIntegration(integration)
	if err != nil {
		// Credential trouble is recoverable by fixing the integration;
		// leave the article scheduled.
		result.Status = ResultStatusError
		result.Error = err.Error()
		p.logger.Error("Publisher setup failed", "article_id", article.ID, "error", err)
		return result
	}

	published, err := publisher.PublishArticle(ctx, article, wordpress.PublishOptions{Status: "publish"})
	if err != nil {
		// Status stays scheduled: the next periodic run retries. No
		// backoff, no attempt cap.
		result.Status = ResultStatusError
		result.Error = err.Error()
		p.logger.Error("Publish attempt failed, will retry on next scan",
			"article_id", article.ID, "error", err)
		p.emit(ctx, events.Event{
			Type:      events.TypeArticlePublishFailed,
			ArticleID: article.ID,
			ProjectID: article.ProjectID,
			Error:     err.Error(),
		})
		return result
	}

	if err := p.store.MarkArticlePublished(ctx, article.ID, published.PostID, published.URL, now); err != nil {
		result.Status = ResultStatusError
		result.Error = err.Error()
		p.logger.Error("Failed to reconcile published article", "article_id", article.ID, "error", err)
		return result
	}

	result.Status = ResultStatusSuccess
	result.WordPressPostID = published.PostID
	result.PublishedURL = published.URL
	p.logger.Info("Article published",
		"article_id", article.ID,
		"post_id", published.PostID,
		"url", published.URL,
	)
	p.emit(ctx, events.Event{
		Type:      events.TypeArticlePublished,
		ArticleID: article.ID,
		ProjectID: article.ProjectID,
		PostID:    published.PostID,
		URL:       published.URL,
	})
	return result
}

func (p *AutoPublisher) emit(ctx context.Context, event events.Event) {
	if p.sink == nil {
		return
	}
	if err := p.sink.Publish(ctx, event); err != nil {
		p.logger.Warn("Failed to publish lifecycle event", "type", event.Type, "error", err)
	}
}
