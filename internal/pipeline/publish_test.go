package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/seoscribe/seoscribe/internal/events"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func scheduledArticle(id, projectID uint, title string) models.Article {
	at := time.Now().Add(-time.Hour)
	return models.Article{
		Model:       gorm.Model{ID: id},
		ProjectID:   projectID,
		Title:       title,
		Status:      models.ArticleStatusScheduled,
		ScheduledAt: &at,
	}
}

func TestRunEmptyScan(t *testing.T) {
	store := newFakeStore()
	p := NewAutoPublisher(store, &fakeFactory{}, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.Equal(t, 0, result.Published)
	assert.Equal(t, 0, result.Failed)
	assert.NotNil(t, result.Results)
	assert.Len(t, result.Results, 0)
}

func TestRunScanErrorAbortsInvocation(t *testing.T) {
	store := newFakeStore()
	store.dueErr = errors.New("connection refused")
	p := NewAutoPublisher(store, &fakeFactory{}, nil, nil)

	result, err := p.Run(context.Background())
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Empty(t, store.statusUpdates, "no article should be touched on a scan failure")
}

func TestRunNoIntegrationDeschedulesToDraft(t *testing.T) {
	store := newFakeStore()
	store.due = []models.Article{scheduledArticle(1, 10, "Orphan")}
	sink := &fakeSink{}
	p := NewAutoPublisher(store, &fakeFactory{}, sink, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	r := result.Results[0]
	assert.Equal(t, ResultStatusFailed, r.Status)
	assert.Equal(t, "No active WordPress integration", r.Error)
	assert.Equal(t, uint(1), r.ArticleID)
	assert.Equal(t, 0, result.Published)
	assert.Equal(t, 1, result.Failed)

	assert.Equal(t, models.ArticleStatusDraft, store.statusUpdates[1], "article must be de-scheduled to draft")
	assert.Empty(t, store.published)

	require.Len(t, sink.events, 1)
	assert.Equal(t, events.TypeArticlePublishFailed, sink.events[0].Type)
}

func TestRunSuccessfulPublishReconcilesAllFields(t *testing.T) {
	store := newFakeStore()
	store.due = []models.Article{scheduledArticle(1, 10, "Winner")}
	store.integrations[10] = &models.Integration{ProjectID: 10, Platform: models.PlatformWordPress}
	publisher := &fakePublisher{result: &wordpress.PublishResult{Success: true, PostID: "42", URL: "https://x/y", Status: "publish"}}
	sink := &fakeSink{}
	p := NewAutoPublisher(store, &fakeFactory{publisher: publisher}, sink, nil)

	fixed := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return fixed }

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, result.Results, 1)
	r := result.Results[0]
	assert.Equal(t, ResultStatusSuccess, r.Status)
	assert.Equal(t, "42", r.WordPressPostID)
	assert.Equal(t, "https://x/y", r.PublishedURL)
	assert.Equal(t, 1, result.Published)

	rec, ok := store.published[1]
	require.True(t, ok, "article must be marked published")
	assert.Equal(t, "42", rec.postID)
	assert.Equal(t, "https://x/y", rec.url)
	assert.Equal(t, fixed, rec.publishedAt)

	// The success path must not go through UpdateArticleStatus: status and
	// publish fields move together in one update.
	assert.Empty(t, store.statusUpdates)

	require.Len(t, sink.events, 1)
	assert.Equal(t, events.TypeArticlePublished, sink.events[0].Type)
	assert.Equal(t, "42", sink.events[0].PostID)
}

func TestRunPublishFailureLeavesStatusUntouched(t *testing.T) {
	store := newFakeStore()
	store.due = []models.Article{scheduledArticle(1, 10, "Retry Me")}
	store.integrations[10] = &models.Integration{ProjectID: 10, Platform: models.PlatformWordPress}
	publisher := &fakePublisher{err: errors.New("wordpress returned status 502")}
	p := NewAutoPublisher(store, &fakeFactory{publisher: publisher}, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err, "per-article failures never abort the invocation")

	require.Len(t, result.Results, 1)
	assert.Equal(t, ResultStatusError, result.Results[0].Status)
	assert.Equal(t, 1, result.Failed)

	// No status change, no publish fields: the article stays scheduled and
	// the next scan retries it.
	assert.Empty(t, store.statusUpdates)
	assert.Empty(t, store.published)
}

func TestRunProcessesArticlesSequentiallyAndIndependently(t *testing.T) {
	store := newFakeStore()
	store.due = []models.Article{
		scheduledArticle(1, 10, "No Integration"),
		scheduledArticle(2, 20, "Publishes"),
	}
	store.integrations[20] = &models.Integration{ProjectID: 20, Platform: models.PlatformWordPress}
	publisher := &fakePublisher{result: &wordpress.PublishResult{Success: true, PostID: "7", URL: "https://x/a"}}
	p := NewAutoPublisher(store, &fakeFactory{publisher: publisher}, nil, nil)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Published)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Results, 2)
	assert.Equal(t, uint(1), result.Results[0].ArticleID, "results preserve scan order")
	assert.Equal(t, ResultStatusFailed, result.Results[0].Status)
	assert.Equal(t, ResultStatusSuccess, result.Results[1].Status)
}
