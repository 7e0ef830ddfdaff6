package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/seoscribe/seoscribe/internal/models"
	"gorm.io/gorm"
)

// GormStore implements Store against the Postgres record store.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) DueArticles(ctx context.Context, now time.Time) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Select("id", "project_id", "title", "slug", "content", "meta_description", "status", "scheduled_at", "cms_post_id").
		Where("status = ? AND scheduled_at <= ?", models.ArticleStatusScheduled, now).
		Order("scheduled_at ASC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan due articles: %w", err)
	}
	return articles, nil
}

func (s *GormStore) ActiveIntegration(ctx context.Context, projectID uint, platform string) (*models.Integration, error) {
	var integration models.Integration
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND platform = ? AND status = ?", projectID, platform, models.IntegrationStatusActive).
		First(&integration).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve integration: %w", err)
	}
	return &integration, nil
}

func (s *GormStore) UpdateArticleStatus(ctx context.Context, articleID uint, status string) error {
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", articleID).
		Update("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update article status: %w", err)
	}
	return nil
}

func (s *GormStore) MarkArticlePublished(ctx context.Context, articleID uint, postID, url string, publishedAt time.Time) error {
	err := s.db.WithContext(ctx).Model(&models.Article{}).
		Where("id = ?", articleID).
		Updates(map[string]interface{}{
			"status":        models.ArticleStatusPublished,
			"cms_post_id":   postID,
			"published_url": url,
			"published_at":  publishedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to mark article published: %w", err)
	}
	return nil
}

func (s *GormStore) AutomatedProjects(ctx context.Context) ([]ProjectAutomation, error) {
	var settings []models.ArticleSettings
	err := s.db.WithContext(ctx).
		Where("auto_generate = ?", true).
		Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan automated projects: %w", err)
	}

	automations := make([]ProjectAutomation, 0, len(settings))
	for _, st := range settings {
		var project models.Project
		if err := s.db.WithContext(ctx).First(&project, st.ProjectID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, fmt.Errorf("failed to load project %d: %w", st.ProjectID, err)
		}
		automations = append(automations, ProjectAutomation{Project: project, Settings: st})
	}
	return automations, nil
}

func (s *GormStore) ArticlesScheduledBetween(ctx context.Context, projectID uint, from, to time.Time) ([]models.Article, error) {
	var articles []models.Article
	err := s.db.WithContext(ctx).
		Where("project_id = ? AND status = ? AND scheduled_at BETWEEN ? AND ?",
			projectID, models.ArticleStatusScheduled, from, to).
		Order("scheduled_at ASC").
		Find(&articles).Error
	if err != nil {
		return nil, fmt.Errorf("failed to scan scheduled articles: %w", err)
	}
	return articles, nil
}

func (s *GormStore) LogGenerationFailure(ctx context.Context, projectID, articleID uint, attempts int, lastErr string) error {
	entry := models.GenerationLog{
		ProjectID: projectID,
		ArticleID: articleID,
		Status:    models.GenerationLogStatusFailed,
		Attempts:  attempts,
		Error:     lastErr,
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to write generation log: %w", err)
	}
	return nil
}
