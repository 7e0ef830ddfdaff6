// Package generator builds article content: prompt construction, the
// completion call, and the best-effort enrichment passes.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/seoscribe/seoscribe/internal/llm"
	"github.com/seoscribe/seoscribe/internal/media"
	"github.com/seoscribe/seoscribe/internal/models"
	"gorm.io/gorm"
)

// Generator produces article content. Clients are injected per instance;
// there is no shared process-wide provider state.
type Generator struct {
	db     *gorm.DB
	llm    *llm.Client
	images *media.ImageClient
	videos *media.VideoClient
	logger *slog.Logger
}

// New creates a Generator.
func New(db *gorm.DB, llmClient *llm.Client, images *media.ImageClient, videos *media.VideoClient, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{db: db, llm: llmClient, images: images, videos: videos, logger: logger}
}

// workItem is the resolved keyword assignment for one generation. It comes
// from a single resolution function instead of branch-scoped fallthrough
// variables: either a stored ContentIdea or a value synthesized from the
// fallback keyword.
type workItem struct {
	Keyword     string
	ContentType string
	idea        *models.ContentIdea // nil when synthesized from the fallback
}

// resolveWorkItem picks the easiest unconsumed idea for the project, falling
// back to the provided keyword when the idea backlog is empty.
func (g *Generator) resolveWorkItem(ctx context.Context, projectID uint, fallbackKeyword string) (workItem, error) {
	var idea models.ContentIdea
	err := g.db.WithContext(ctx).
		Where("project_id = ? AND article_id IS NULL", projectID).
		Order("difficulty ASC").
		First(&idea).Error
	if err == nil {
		return workItem{Keyword: idea.Keyword, ContentType: idea.ContentType, idea: &idea}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return workItem{}, fmt.Errorf("failed to query content ideas: %w", err)
	}
	return workItem{Keyword: fallbackKeyword, ContentType: "blog_post"}, nil
}

// Generate fills in the article's content and persists it. The article's
// prior status is restored afterwards ("generating" is transient), so a
// scheduled article stays scheduled and remains visible to the publish scan.
//
// Enrichment passes (internal links, stock image, video embed, quality
// edit) are each individually best effort: a provider failure is logged and
// the pass is skipped, never escalated.
func (g *Generator) Generate(ctx context.Context, article *models.Article) error {
	var project models.Project
	if err := g.db.WithContext(ctx).First(&project, article.ProjectID).Error; err != nil {
		return fmt.Errorf("failed to load project: %w", err)
	}

	var settings models.ArticleSettings
	if err := g.db.WithContext(ctx).Where("project_id = ?", project.ID).First(&settings).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to load article settings: %w", err)
		}
		settings = models.ArticleSettings{
			ProjectID: project.ID,
			Language:  "en",
			MinWords:  800,
			MaxWords:  1500,
		}
	}

	item, err := g.resolveWorkItem(ctx, project.ID, article.Title)
	if err != nil {
		return err
	}

	priorStatus := article.Status
	if err := g.db.WithContext(ctx).Model(article).
		Update("status", models.ArticleStatusGenerating).Error; err != nil {
		return fmt.Errorf("failed to mark article generating: %w", err)
	}

	content, err := g.llm.Complete(ctx, buildSystemPrompt(&project, &settings), buildUserPrompt(item, article, &settings))
	if err != nil {
		// Restore the prior status so the article is not stuck in
		// "generating" after a failed attempt.
		g.db.WithContext(ctx).Model(article).Update("status", priorStatus)
		return fmt.Errorf("completion failed: %w", err)
	}

	content = g.enrich(ctx, content, &project, &settings)

	updates := map[string]interface{}{
		"content": content,
		"status":  priorStatus,
	}
	if article.MetaDescription == "" {
		if meta := metaDescriptionFrom(content, 155); meta != "" {
			updates["meta_description"] = meta
			article.MetaDescription = meta
		}
	}
	if err := g.db.WithContext(ctx).Model(article).Updates(updates).Error; err != nil {
		return fmt.Errorf("failed to persist content: %w", err)
	}
	article.Content = content
	article.Status = priorStatus

	// Consume the idea: ArticleID is set once and never reassigned.
	if item.idea != nil {
		if err := g.db.WithContext(ctx).Model(item.idea).
			Where("article_id IS NULL").
			Update("article_id", article.ID).Error; err != nil {
			g.logger.Warn("Failed to mark content idea consumed",
				"idea_id", item.idea.ID, "article_id", article.ID, "error", err)
		}
	}

	g.logger.Info("Article generated",
		"article_id", article.ID,
		"project_id", project.ID,
		"keyword", item.Keyword,
	)
	return nil
}

func (g *Generator) enrich(ctx context.Context, content string, project *models.Project, settings *models.ArticleSettings) string {
	if settings.InternalLinks {
		var siblings []models.Article
		err := g.db.WithContext(ctx).
			Where("project_id = ? AND status IN ?", project.ID,
				[]string{models.ArticleStatusPublished, models.ArticleStatusDraft}).
			Order("published_at DESC NULLS LAST").
			Limit(10).
			Find(&siblings).Error
		if err != nil {
			g.logger.Warn("Internal link enrichment skipped", "project_id", project.ID, "error", err)
		} else {
			content = addInternalLinks(content, siblings, project.Website)
		}
	}

	if settings.StockImages && g.images != nil {
		images, err := g.images.Search(ctx, project.Name, 1)
		if err != nil {
			g.logger.Warn("Stock image enrichment skipped", "project_id", project.ID, "error", err)
		} else if len(images) > 0 {
			content = insertStockImage(content, images[0])
		}
	}

	if settings.EmbedVideo && g.videos != nil {
		video, err := g.videos.Search(ctx, project.Name)
		if err != nil {
			g.logger.Warn("Video enrichment skipped", "project_id", project.ID, "error", err)
		} else {
			content = embedVideo(content, video)
		}
	}

	edited, err := g.llm.Complete(ctx, "You are a meticulous copy editor.", buildQualityPrompt(content))
	if err != nil {
		g.logger.Warn("Quality pass skipped", "project_id", project.ID, "error", err)
		return content
	}
	if len(edited) < len(content)/2 {
		// Model occasionally returns a summary instead of the edit; keep
		// the original when the edit lost most of the article.
		g.logger.Warn("Quality pass discarded, edit too short",
			"project_id", project.ID, "original_len", len(content), "edited_len", len(edited))
		return content
	}
	return edited
}
