package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/seoscribe/seoscribe/internal/events"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/wordpress"
)

type publishRecord struct {
	postID      string
	url         string
	publishedAt time.Time
}

type generationLogEntry struct {
	projectID uint
	articleID uint
	attempts  int
	lastErr   string
}

type fakeStore struct {
	due            []models.Article
	dueErr         error
	integrations   map[uint]*models.Integration // by project id
	integrationErr error
	automations    []ProjectAutomation
	automationsErr error
	scheduled      map[uint][]models.Article // by project id

	statusUpdates map[uint]string
	published     map[uint]publishRecord
	logs          []generationLogEntry
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		integrations:  map[uint]*models.Integration{},
		scheduled:     map[uint][]models.Article{},
		statusUpdates: map[uint]string{},
		published:     map[uint]publishRecord{},
	}
}

func (s *fakeStore) DueArticles(ctx context.Context, now time.Time) ([]models.Article, error) {
	return s.due, s.dueErr
}

func (s *fakeStore) ActiveIntegration(ctx context.Context, projectID uint, platform string) (*models.Integration, error) {
	if s.integrationErr != nil {
		return nil, s.integrationErr
	}
	return s.integrations[projectID], nil
}

func (s *fakeStore) UpdateArticleStatus(ctx context.Context, articleID uint, status string) error {
	s.statusUpdates[articleID] = status
	return nil
}

func (s *fakeStore) MarkArticlePublished(ctx context.Context, articleID uint, postID, url string, publishedAt time.Time) error {
	s.published[articleID] = publishRecord{postID: postID, url: url, publishedAt: publishedAt}
	return nil
}

func (s *fakeStore) AutomatedProjects(ctx context.Context) ([]ProjectAutomation, error) {
	return s.automations, s.automationsErr
}

func (s *fakeStore) ArticlesScheduledBetween(ctx context.Context, projectID uint, from, to time.Time) ([]models.Article, error) {
	return s.scheduled[projectID], nil
}

func (s *fakeStore) LogGenerationFailure(ctx context.Context, projectID, articleID uint, attempts int, lastErr string) error {
	s.logs = append(s.logs, generationLogEntry{projectID: projectID, articleID: articleID, attempts: attempts, lastErr: lastErr})
	return nil
}

type fakePublisher struct {
	result *wordpress.PublishResult
	err    error
	calls  int
}

func (p *fakePublisher) PublishArticle(ctx context.Context, article *models.Article, opts wordpress.PublishOptions) (*wordpress.PublishResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

type fakeFactory struct {
	publisher *fakePublisher
	err       error
}

func (f *fakeFactory) ForIntegration(integration *models.Integration) (ArticlePublisher, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.publisher, nil
}

// fakeGenerator fails failures times before succeeding.
type fakeGenerator struct {
	failures int
	calls    int
}

func (g *fakeGenerator) Generate(ctx context.Context, article *models.Article) error {
	g.calls++
	if g.calls <= g.failures {
		return fmt.Errorf("provider unavailable (attempt %d)", g.calls)
	}
	return nil
}

type fakeSink struct {
	events []events.Event
}

func (s *fakeSink) Publish(ctx context.Context, event events.Event) error {
	s.events = append(s.events, event)
	return nil
}
