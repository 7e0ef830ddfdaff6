// Package cron exposes the pipeline trigger endpoints. Both accept GET and
// POST for operational convenience and are protected by a bearer shared
// secret rather than a dashboard session.
package cron

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/seoscribe/seoscribe/internal/pipeline"
)

type publishRunner interface {
	Run(ctx context.Context) (*pipeline.PublishRunResult, error)
}

type generateRunner interface {
	Run(ctx context.Context) (*pipeline.GenerateRunResult, error)
}

// RequireSecret rejects requests whose Authorization header does not carry
// the configured shared secret. An empty configured secret rejects
// everything rather than letting the endpoints run open.
func RequireSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || c.GetHeader("Authorization") != "Bearer "+secret {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   "unauthorized",
			})
			return
		}
		c.Next()
	}
}

// AutoPublishHandler runs one auto-publish invocation. Partial failure is a
// 200 with per-article results; only a store outage during the due scan is a
// non-200.
func AutoPublishHandler(runner publishRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := runner.Run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GenerateScheduledHandler runs one generation-ahead invocation.
func GenerateScheduledHandler(runner generateRunner) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := runner.Run(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error":   err.Error(),
			})
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// RegisterRoutes mounts both trigger endpoints under /api/cron on GET and
// POST.
func RegisterRoutes(r gin.IRouter, secret string, publisher publishRunner, generator generateRunner) {
	group := r.Group("/api/cron", RequireSecret(secret))

	autoPublish := AutoPublishHandler(publisher)
	group.GET("/auto-publish", autoPublish)
	group.POST("/auto-publish", autoPublish)

	generateScheduled := GenerateScheduledHandler(generator)
	group.GET("/generate-scheduled", generateScheduled)
	group.POST("/generate-scheduled", generateScheduled)
}
