package articles

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoscribe/seoscribe/internal/crypto"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/pipeline"
	"github.com/seoscribe/seoscribe/internal/wordpress"
	"github.com/seoscribe/seoscribe/internal/worker"
	"gorm.io/gorm"
)

// ListArticlesHandler returns a project's articles, optionally filtered by
// status.
func ListArticlesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Order("created_at DESC")
		if projectID := c.Query("project_id"); projectID != "" {
			query = query.Where("project_id = ?", projectID)
		}
		if status := c.Query("status"); status != "" {
			query = query.Where("status = ?", status)
		}

		var articles []models.Article
		if err := query.Find(&articles).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list articles"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "articles": articles})
	}
}

// GetArticleHandler returns one article by id.
func GetArticleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var article models.Article
		if err := db.First(&article, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
	}
}

type upsertArticleRequest struct {
	ProjectID       uint       `json:"project_id"`
	Title           string     `json:"title"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content"`
	MetaDescription string     `json:"meta_description"`
	Status          string     `json:"status"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
}

// CreateArticleHandler creates a draft or scheduled article.
func CreateArticleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req upsertArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}
		if req.ProjectID == 0 || req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "project_id and title are required"})
			return
		}

		status := req.Status
		switch status {
		case "":
			status = models.ArticleStatusDraft
		case models.ArticleStatusDraft, models.ArticleStatusScheduled:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be draft or scheduled"})
			return
		}
		if status == models.ArticleStatusScheduled && req.ScheduledAt == nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "scheduled articles need scheduled_at"})
			return
		}

		article := models.Article{
			ProjectID:       req.ProjectID,
			Title:           req.Title,
			Slug:            req.Slug,
			Content:         req.Content,
			MetaDescription: req.MetaDescription,
			Status:          status,
			ScheduledAt:     req.ScheduledAt,
		}
		if err := db.Create(&article).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create article"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "article": article})
	}
}

// UpdateArticleHandler applies partial edits. The publish metadata fields
// are owned by the pipeline and cannot be set here.
func UpdateArticleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var article models.Article
		if err := db.First(&article, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
			return
		}

		var req upsertArticleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if req.Title != "" {
			updates["title"] = req.Title
		}
		if req.Slug != "" {
			updates["slug"] = req.Slug
		}
		if req.Content != "" {
			updates["content"] = req.Content
		}
		if req.MetaDescription != "" {
			updates["meta_description"] = req.MetaDescription
		}
		if req.ScheduledAt != nil {
			updates["scheduled_at"] = req.ScheduledAt
		}
		if req.Status != "" {
			if req.Status != models.ArticleStatusDraft && req.Status != models.ArticleStatusScheduled {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be draft or scheduled"})
				return
			}
			updates["status"] = req.Status
		}

		if len(updates) > 0 {
			if err := db.Model(&article).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update article"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "article": article})
	}
}

// DeleteArticleHandler removes an article. Only humans delete articles; the
// pipeline never does.
func DeleteArticleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Article{}, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete article"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

type publishRequest struct {
	ConnectionID uint   `json:"connectionId"`
	Status       string `json:"status"`
	Categories   []int  `json:"categories"`
	Tags         []int  `json:"tags"`
}

// PublishArticleHandler is the publish sub-endpoint: it pushes one article
// to the named connection and reconciles the stored article on success.
// Provider-side failures come back as 200 with success=false so callers
// always parse one shape.
func PublishArticleHandler(db *gorm.DB, encryptor *crypto.CredentialEncryptor, logger *slog.Logger) gin.HandlerFunc {
	store := pipeline.NewGormStore(db)
	return func(c *gin.Context) {
		var article models.Article
		if err := db.First(&article, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
			return
		}

		var req publishRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}
		if req.ConnectionID == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "connectionId is required"})
			return
		}

		var integration models.Integration
		err := db.Where("id = ? AND project_id = ? AND status = ?",
			req.ConnectionID, article.ProjectID, models.IntegrationStatusActive).
			First(&integration).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no active connection with that id"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to resolve connection"})
			return
		}

		password := integration.AppPassword
		if encryptor != nil {
			password, err = encryptor.Decrypt(password)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to decrypt connection credentials"})
				return
			}
		}

		client := wordpress.NewClient(integration.SiteURL, integration.Username, password, logger)
		result, err := client.PublishArticle(c.Request.Context(), &article, wordpress.PublishOptions{
			Status:     req.Status,
			Categories: req.Categories,
			Tags:       req.Tags,
		})
		if err != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": err.Error()})
			return
		}

		if result.Status == "publish" {
			if err := store.MarkArticlePublished(c.Request.Context(), article.ID, result.PostID, result.URL, time.Now()); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "published but failed to update article record"})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"post_id": result.PostID,
				"url":     result.URL,
				"status":  result.Status,
			},
		})
	}
}

// GenerateArticleHandler enqueues asynchronous content generation for one
// article.
func GenerateArticleHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var article models.Article
		if err := db.First(&article, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "article not found"})
			return
		}
		if article.Status == models.ArticleStatusGenerating {
			c.JSON(http.StatusConflict, gin.H{"success": false, "error": "generation already in progress"})
			return
		}

		if err := worker.EnqueueGenerateArticle(article.ID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to enqueue generation task"})
			return
		}
		c.JSON(http.StatusAccepted, gin.H{"success": true, "message": "generation queued"})
	}
}
