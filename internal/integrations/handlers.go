package integrations

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/seoscribe/seoscribe/internal/crypto"
	"github.com/seoscribe/seoscribe/internal/models"
	"github.com/seoscribe/seoscribe/internal/platforms"
	"github.com/seoscribe/seoscribe/internal/wordpress"
	"gorm.io/gorm"
)

// integrationView is the wire shape for an integration. Credentials never
// leave the server.
type integrationView struct {
	ID           uint       `json:"id"`
	ProjectID    uint       `json:"project_id"`
	Platform     string     `json:"platform"`
	SiteURL      string     `json:"site_url"`
	Username     string     `json:"username"`
	Status       string     `json:"status"`
	LastTestedAt *time.Time `json:"last_tested_at,omitempty"`
}

func toView(i models.Integration) integrationView {
	return integrationView{
		ID:           i.ID,
		ProjectID:    i.ProjectID,
		Platform:     i.Platform,
		SiteURL:      i.SiteURL,
		Username:     i.Username,
		Status:       i.Status,
		LastTestedAt: i.LastTestedAt,
	}
}

// ListIntegrationsHandler returns a project's integrations.
func ListIntegrationsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var integrations []models.Integration
		if err := db.Where("project_id = ?", c.Query("project_id")).Find(&integrations).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to list integrations"})
			return
		}
		views := make([]integrationView, 0, len(integrations))
		for _, i := range integrations {
			views = append(views, toView(i))
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "integrations": views})
	}
}

type createIntegrationRequest struct {
	ProjectID   uint   `json:"project_id"`
	Platform    string `json:"platform"`
	SiteURL     string `json:"site_url"`
	Username    string `json:"username"`
	AppPassword string `json:"app_password"`
}

// CreateIntegrationHandler stores a new integration with the app password
// encrypted at rest.
func CreateIntegrationHandler(db *gorm.DB, encryptor *crypto.CredentialEncryptor, catalog *platforms.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createIntegrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}
		if req.ProjectID == 0 || req.SiteURL == "" || req.Username == "" || req.AppPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "project_id, site_url, username and app_password are required"})
			return
		}
		if _, ok := catalog.Get(req.Platform); !ok {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "unknown platform: " + req.Platform})
			return
		}

		encrypted, err := encryptor.Encrypt(req.AppPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to encrypt credentials"})
			return
		}

		integration := models.Integration{
			ProjectID:   req.ProjectID,
			Platform:    req.Platform,
			SiteURL:     strings.TrimRight(req.SiteURL, "/"),
			Username:    req.Username,
			AppPassword: encrypted,
			Status:      models.IntegrationStatusActive,
		}
		if err := db.Create(&integration).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to create integration"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "integration": toView(integration)})
	}
}

type updateIntegrationRequest struct {
	Status      *string `json:"status"`
	SiteURL     *string `json:"site_url"`
	Username    *string `json:"username"`
	AppPassword *string `json:"app_password"`
}

// UpdateIntegrationHandler applies partial updates. A new app password is
// re-encrypted before storage.
func UpdateIntegrationHandler(db *gorm.DB, encryptor *crypto.CredentialEncryptor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var integration models.Integration
		if err := db.First(&integration, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "integration not found"})
			return
		}

		var req updateIntegrationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid request body"})
			return
		}

		updates := map[string]interface{}{}
		if req.Status != nil {
			if *req.Status != models.IntegrationStatusActive && *req.Status != models.IntegrationStatusInactive {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "status must be active or inactive"})
				return
			}
			updates["status"] = *req.Status
		}
		if req.SiteURL != nil {
			updates["site_url"] = strings.TrimRight(*req.SiteURL, "/")
		}
		if req.Username != nil {
			updates["username"] = *req.Username
		}
		if req.AppPassword != nil {
			encrypted, err := encryptor.Encrypt(*req.AppPassword)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to encrypt credentials"})
				return
			}
			updates["app_password"] = encrypted
		}

		if len(updates) > 0 {
			if err := db.Model(&integration).Updates(updates).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to update integration"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "integration": toView(integration)})
	}
}

// DeleteIntegrationHandler soft-deletes an integration.
func DeleteIntegrationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Delete(&models.Integration{}, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete integration"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

// TestIntegrationHandler verifies the stored credentials against the remote
// site and stamps the result on the integration row.
func TestIntegrationHandler(db *gorm.DB, encryptor *crypto.CredentialEncryptor, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var integration models.Integration
		if err := db.First(&integration, c.Param("id")).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "integration not found"})
			return
		}

		password, err := encryptor.Decrypt(integration.AppPassword)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to decrypt credentials"})
			return
		}

		client := wordpress.NewClient(integration.SiteURL, integration.Username, password, logger)
		testErr := client.TestConnection(c.Request.Context())

		now := time.Now()
		status := models.IntegrationStatusActive
		if testErr != nil {
			status = models.IntegrationStatusInactive
		}
		if err := db.Model(&integration).Updates(map[string]interface{}{
			"status":         status,
			"last_tested_at": now,
		}).Error; err != nil {
			logger.Error("failed to record integration test result", "integration_id", integration.ID, "error", err)
		}

		if testErr != nil {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": testErr.Error(), "status": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "status": status})
	}
}
