package projects

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/platforms"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListProjectsHandler returns the authenticated user's projects.
func ListProjectsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userEmail, exists := c.Get("user_email")
		if !exists {
			c.Status(http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := db.Where("email = ?", userEmail.(string)).First(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to lookup user"})
			return
		}

		var projects []models.Project
		if err := db.Where("user_id = ?", user.ID).Order("created_at DESC").Find(&projects).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list projects"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
	}
}

// GetProjectHandler returns one project by id.
func GetProjectHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var project models.Project
		if err := db.First(&project, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "project not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "project": project})
	}
}

type createProjectRequest struct {
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
	Audience    string `json:"audience"`
	Tone        string `json:"tone"`
}

// CreateProjectHandler creates a project owned by the authenticated user,
// with default article settings.
func CreateProjectHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userEmail, exists := c.Get("user_email")
		if !exists {
			c.Status(http.StatusUnauthorized)
			return
		}

		var user models.User
		if err := db.Where("email = ?", userEmail.(string)).First(&user).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to lookup user"})
			return
		}

		var req createProjectRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "name is required"})
			return
		}

		project := models.Project{
			UserID:      user.ID,
			Name:        req.Name,
			Website:     req.Website,
			Description: req.Description,
			Audience:    req.Audience,
			Tone:        req.Tone,
		}
		if project.Tone == "" {
			project.Tone = "professional"
		}
		if err := db.Create(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create project"})
			return
		}

		// Every project gets a settings row up front (at most one per
		// project).
		settings := models.ArticleSettings{ProjectID: project.ID}
		if err := db.Create(&settings).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create article settings"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "project": project})
	}
}

// GetSettingsHandler returns the project's article settings.
func GetSettingsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings models.ArticleSettings
		err := db.Where("project_id = ?", c.Param("id")).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "settings not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load settings"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
	}
}

type updateSettingsRequest struct {
	AutoGenerate    *bool                  `json:"auto_generate"`
	AutoPublish     *bool                  `json:"auto_publish"`
	PublishTime     *string                `json:"publish_time"`
	PreferredDays   []string               `json:"preferred_days"`
	ArticlesPerWeek *int                   `json:"articles_per_week"`
	Language        *string                `json:"language"`
	MinWords        *int                   `json:"min_words"`
	MaxWords        *int                   `json:"max_words"`
	InternalLinks   *bool                  `json:"internal_links"`
	StockImages     *bool                  `json:"stock_images"`
	EmbedVideo      *bool                  `json:"embed_video"`
	ExtraSettings   map[string]interface{} `json:"extra_settings"`
}

// UpdateSettingsHandler applies partial settings updates. Extra settings are
// validated against the WordPress platform schema before being stored.
func UpdateSettingsHandler(db *gorm.DB, catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var settings models.ArticleSettings
		err := db.Where("project_id = ?", c.Param("id")).First(&settings).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "settings not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to load settings"})
			return
		}

		var req updateSettingsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if req.AutoGenerate != nil {
			updates["auto_generate"] = *req.AutoGenerate
		}
		if req.AutoPublish != nil {
			updates["auto_publish"] = *req.AutoPublish
		}
		if req.PublishTime != nil {
			updates["publish_time"] = *req.PublishTime
		}
		if req.PreferredDays != nil {
			days, err := json.Marshal(req.PreferredDays)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid preferred_days"})
				return
			}
			updates["preferred_days"] = datatypes.JSON(days)
		}
		if req.ArticlesPerWeek != nil {
			updates["articles_per_week"] = *req.ArticlesPerWeek
		}
		if req.Language != nil {
			updates["language"] = *req.Language
		}
		if req.MinWords != nil {
			updates["min_words"] = *req.MinWords
		}
		if req.MaxWords != nil {
			updates["max_words"] = *req.MaxWords
		}
		if req.InternalLinks != nil {
			updates["internal_links"] = *req.InternalLinks
		}
		if req.StockImages != nil {
			updates["stock_images"] = *req.StockImages
		}
		if req.EmbedVideo != nil {
			updates["embed_video"] = *req.EmbedVideo
		}
		if req.ExtraSettings != nil {
			if err := catalog.ValidateSettings(models.PlatformWordPress, req.ExtraSettings); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
				return
			}
			extra, err := json.Marshal(req.ExtraSettings)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid extra_settings"})
				return
			}
			updates["extra_settings"] = datatypes.JSON(extra)
		}

		if len(updates) > 0 {
			if err := db.Model(&settings).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update settings"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "settings": settings})
	}
}
