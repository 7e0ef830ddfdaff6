package pipeline

import (
	"context"
	"testing"
	"time"

	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/wordpress"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func automatedProject(projectID uint, autoPublish bool) ProjectAutomation {
	return ProjectAutomation{
		Project:  models.Project{Model: gorm.Model{ID: projectID}, Name: "P"},
		Settings: models.ArticleSettings{ProjectID: projectID, AutoGenerate: true, AutoPublish: autoPublish},
	}
}

func newGenerateAheadForTest(store *fakeStore, gen ContentGenerator, factory PublisherFactory) (*GenerateAhead, *[]time.Duration) {
	g := NewGenerateAhead(store, gen, factory, nil, nil)
	var sleeps []time.Duration
	g.sleep = func(d time.Duration) { sleeps = append(sleeps, d) }
	return g, &sleeps
}

func TestGenerateAheadSucceedsOnSecondAttempt(t *testing.T) {
	store := newFakeStore()
	store.automations = []ProjectAutomation{automatedProject(10, false)}
	store.scheduled[10] = []models.Article{scheduledArticle(1, 10, "Tomorrow's Piece")}
	gen := &fakeGenerator{failures: 1}
	g, sleeps := newGenerateAheadForTest(store, gen, &fakeFactory{})

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Projects)
	assert.Equal(t, 1, result.Stats.Processed)
	assert.Equal(t, 1, result.Stats.Generated)
	assert.Equal(t, 0, result.Stats.Failed)
	assert.Equal(t, 2, gen.calls)

	// One failed attempt means exactly one backoff wait of 1×2s.
	require.Len(t, *sleeps, 1)
	assert.Equal(t, 2*time.Second, (*sleeps)[0])

	assert.Empty(t, store.logs, "a retried success must not write a generation log")
}

func TestGenerateAheadExhaustsAttemptsAndLogsOnce(t *testing.T) {
	store := newFakeStore()
	store.automations = []ProjectAutomation{automatedProject(10, false)}
	store.scheduled[10] = []models.Article{scheduledArticle(1, 10, "Doomed")}
	gen := &fakeGenerator{failures: 5}
	g, sleeps := newGenerateAheadForTest(store, gen, &fakeFactory{})

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Stats.Generated)
	assert.Equal(t, 1, result.Stats.Failed)
	assert.Equal(t, 3, gen.calls, "exactly three attempts, never more")

	// Linear backoff: 2s after the first failure, 4s after the second,
	// none after the last.
	require.Len(t, *sleeps, 2)
	assert.Equal(t, 2*time.Second, (*sleeps)[0])
	assert.Equal(t, 4*time.Second, (*sleeps)[1])

	require.Len(t, store.logs, 1)
	log := store.logs[0]
	assert.Equal(t, uint(10), log.projectID)
	assert.Equal(t, uint(1), log.articleID)
	assert.Equal(t, 3, log.attempts)
	assert.Contains(t, log.lastErr, "provider unavailable")
}

func TestGenerateAheadAutoPublishesAfterGeneration(t *testing.T) {
	store := newFakeStore()
	store.automations = []ProjectAutomation{automatedProject(10, true)}
	store.scheduled[10] = []models.Article{scheduledArticle(1, 10, "Straight Through")}
	store.integrations[10] = &models.Integration{ProjectID: 10, Platform: models.PlatformWordPress}
	publisher := &fakePublisher{result: &wordpress.PublishResult{Success: true, PostID: "9", URL: "https://x/s"}}
	g, _ := newGenerateAheadForTest(store, &fakeGenerator{}, &fakeFactory{publisher: publisher})

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Generated)
	assert.Equal(t, 1, result.Stats.Published)
	_, ok := store.published[1]
	assert.True(t, ok)
}

func TestGenerateAheadAutoPublishWithoutIntegrationKeepsSchedule(t *testing.T) {
	store := newFakeStore()
	store.automations = []ProjectAutomation{automatedProject(10, true)}
	store.scheduled[10] = []models.Article{scheduledArticle(1, 10, "No Target")}
	g, _ := newGenerateAheadForTest(store, &fakeGenerator{}, &fakeFactory{})

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Generated)
	assert.Equal(t, 0, result.Stats.Published)

	// Unlike the due-article path, a missing integration here must not
	// de-schedule the article.
	assert.Empty(t, store.statusUpdates)
}

func TestGenerateAheadPublishFailureKeepsGeneration(t *testing.T) {
	store := newFakeStore()
	store.automations = []ProjectAutomation{automatedProject(10, true)}
	store.scheduled[10] = []models.Article{scheduledArticle(1, 10, "Half Lucky")}
	store.integrations[10] = &models.Integration{ProjectID: 10, Platform: models.PlatformWordPress}
	publisher := &fakePublisher{err: assert.AnError}
	g, _ := newGenerateAheadForTest(store, &fakeGenerator{}, &fakeFactory{publisher: publisher})

	result, err := g.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Stats.Generated, "publish failure must not undo generation")
	assert.Equal(t, 0, result.Stats.Published)
	assert.Equal(t, 0, result.Stats.Failed, "failed counts generation failures, not publish failures")
}

func TestTomorrowWindowCoversWholeLocalDay(t *testing.T) {
	g := NewGenerateAhead(newFakeStore(), &fakeGenerator{}, &fakeFactory{}, nil, nil)
	g.now = func() time.Time {
		return time.Date(2026, 3, 14, 15, 30, 45, 0, time.UTC)
	}

	from, to := g.tomorrowWindow()
	assert.Equal(t, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 15, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), to)
}
