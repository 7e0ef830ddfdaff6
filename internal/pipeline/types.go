// Package pipeline holds the scheduling/publish core: the due-article scan,
// the per-article publish orchestration, and the generation-ahead routine.
//
// Both pipelines are invoked by periodic triggers (HTTP endpoints and the
// asynq scheduler). Invocations may overlap; nothing claims an article
// before processing it, so two overlapping runs can attempt to publish the
// same article twice. That matches the documented contract: retry is
// "eventual, by re-scan", with no attempt counter on publishes.
package pipeline

import (
	"context"
	"time"

	"github.com/seoscribe/seoscribe/internal/events"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/wordpress"
)

// Article result statuses reported per publish attempt
const (
	ResultStatusSuccess = "success"
	ResultStatusFailed  = "failed"
	ResultStatusError   = "error"
)

// ErrNoIntegration is the per-article failure message when a project has no
// active publish target.
const ErrNoIntegration = "No active WordPress integration"

// ProjectAutomation pairs a project with its automation settings for the
// generation-ahead scan.
type ProjectAutomation struct {
	Project  models.Project
	Settings models.ArticleSettings
}

// Store is the data access surface the pipelines need.
type Store interface {
	// DueArticles returns scheduled articles whose scheduled_at is at or
	// before now, earliest first.
	DueArticles(ctx context.Context, now time.Time) ([]models.Article, error)

	// ActiveIntegration resolves the project's active integration for the
	// platform. Returns (nil, nil) when none exists.
	ActiveIntegration(ctx context.Context, projectID uint, platform string) (*models.Integration, error)

	// UpdateArticleStatus sets only the article's status.
	UpdateArticleStatus(ctx context.Context, articleID uint, status string) error

	// MarkArticlePublished sets status=published together with all three
	// publish fields in one update.
	MarkArticlePublished(ctx context.Context, articleID uint, postID, url string, publishedAt time.Time) error

	// AutomatedProjects returns every project with auto_generate enabled,
	// paired with its settings.
	AutomatedProjects(ctx context.Context) ([]ProjectAutomation, error)

	// ArticlesScheduledBetween returns the project's scheduled articles in
	// [from, to].
	ArticlesScheduledBetween(ctx context.Context, projectID uint, from, to time.Time) ([]models.Article, error)

	// LogGenerationFailure appends one GenerationLog failure row.
	LogGenerationFailure(ctx context.Context, projectID, articleID uint, attempts int, lastErr string) error
}

// ArticlePublisher is the publish-target boundary for one integration.
type ArticlePublisher interface {
	PublishArticle(ctx context.Context, article *models.Article, opts wordpress.PublishOptions) (*wordpress.PublishResult, error)
}

// PublisherFactory builds an ArticlePublisher for a resolved integration.
type PublisherFactory interface {
	ForIntegration(integration *models.Integration) (ArticlePublisher, error)
}

// ContentGenerator produces content for one article.
type ContentGenerator interface {
	Generate(ctx context.Context, article *models.Article) error
}

// EventSink receives article lifecycle events. May be nil.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

// ArticleResult is the per-article outcome reported by an auto-publish run.
type ArticleResult struct {
	ArticleID       uint   `json:"articleId"`
	Title           string `json:"title"`
	Status          string `json:"status"` // success | failed | error
	WordPressPostID string `json:"wordpressPostId,omitempty"`
	PublishedURL    string `json:"publishedUrl,omitempty"`
	Error           string `json:"error,omitempty"`
}

// PublishRunResult is the aggregate outcome of one auto-publish invocation.
type PublishRunResult struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Published int             `json:"published"`
	Failed    int             `json:"failed"`
	Results   []ArticleResult `json:"results"`
}

// GenerateRunStats aggregates one generation-ahead invocation.
type GenerateRunStats struct {
	Projects  int `json:"projects"`
	Processed int `json:"processed"`
	Generated int `json:"generated"`
	Published int `json:"published"`
	Failed    int `json:"failed"`
}

// GenerateRunResult is the response body of a generation-ahead invocation.
type GenerateRunResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Stats   GenerateRunStats `json:"stats"`
}
