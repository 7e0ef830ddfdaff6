package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/seoscribe/seoscribe/internal/articles"
	"github.com/seoscribe/seoscribe/internal/auth"
	"github.com/seoscribe/seoscribe/internal/config"
	"github.com/seoscribe/seoscribe/internal/cron"
	"github.com/seoscribe/seoscribe/internal/crypto"
	"github.com/seoscribe/seoscribe/internal/database"
	"github.com/seoscribe/seoscribe/internal/events"
	"github.com/seoscribe/seoscribe/internal/generator"
	"github.com/seoscribe/seoscribe/internal/health"
	"github.com/seoscribe/seoscribe/internal/integrations"
	"github.com/seoscribe/seoscribe/internal/llm"
	"github.com/seoscribe/seoscribe/internal/media"
	"github.com/seoscribe/seoscribe/internal/pipeline"
	"github.com/seoscribe/seoscribe/internal/platforms"
	"github.com/seoscribe/seoscribe/internal/projects"
	"github.com/seoscribe/seoscribe/internal/worker"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger := worker.NewLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := database.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.Env == "development" {
		if err := database.SeedDevData(db); err != nil {
			logger.Warn("Dev seed failed", "error", err)
		}
	}

	encryptionKey := cfg.EncryptionKey
	if encryptionKey == "" {
		if cfg.Env == "production" {
			log.Fatal("ENCRYPTION_KEY is required in production")
		}
		// Ephemeral dev key. Stored credentials will not decrypt after a
		// restart.
		raw := make([]byte, 32)
		if _, err := rand.Read(raw); err != nil {
			log.Fatalf("Failed to generate dev encryption key: %v", err)
		}
		encryptionKey = base64.StdEncoding.EncodeToString(raw)
		logger.Warn("ENCRYPTION_KEY not set, using an ephemeral key for this process")
	}
	encryptor, err := crypto.NewCredentialEncryptor(encryptionKey)
	if err != nil {
		log.Fatalf("Failed to initialize credential encryptor: %v", err)
	}

	catalog, err := platforms.Load()
	if err != nil {
		log.Fatalf("Failed to load platform catalog: %v", err)
	}
	logger.Info("Platform catalog loaded", "platforms", catalog.Count())

	// Lifecycle events are best effort. A broken Redis URL downgrades the
	// sink instead of blocking startup.
	var sink pipeline.EventSink
	publisher, err := events.NewPublisher(cfg.RedisURL)
	if err != nil {
		logger.Warn("Event publisher disabled", "error", err)
	} else {
		sink = publisher
		defer publisher.Close()
	}

	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.StubProviders)
	imageClient := media.NewImageClient("", cfg.ImageAPIKey, cfg.StubProviders)
	videoClient := media.NewVideoClient("", cfg.VideoAPIKey, cfg.StubProviders)
	gen := generator.New(db, llmClient, imageClient, videoClient, logger)

	store := pipeline.NewGormStore(db)
	factory := pipeline.NewWordPressFactory(encryptor, logger)
	autoPublisher := pipeline.NewAutoPublisher(store, factory, sink, logger)
	generateAhead := pipeline.NewGenerateAhead(store, gen, factory, sink, logger)

	if err := worker.InitClient(cfg.RedisURL); err != nil {
		log.Fatalf("Failed to initialize task client: %v", err)
	}
	defer worker.CloseClient()

	stopWorker, err := worker.Start(cfg, worker.Deps{
		DB:            db,
		Generator:     gen,
		AutoPublisher: autoPublisher,
		GenerateAhead: generateAhead,
		Events:        publisher,
	})
	if err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}
	defer stopWorker()

	stopScheduler, err := worker.StartScheduler(cfg)
	if err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer stopScheduler()

	auth.InitProviders(cfg)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	sessionStore := cookie.NewStore([]byte(cfg.SessionSecret))
	sessionStore.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
		SameSite: http.SameSiteLaxMode,
	})
	router.Use(sessions.Sessions("seoscribe_session", sessionStore))

	router.GET("/health", gin.WrapF(health.Handler))

	router.GET("/auth/login", auth.HandleLogin)
	router.GET("/auth/callback", auth.HandleCallback(db))
	router.GET("/auth/logout", auth.HandleLogout)

	// Pipeline triggers authenticate with the cron secret, not a session.
	cron.RegisterRoutes(router, cfg.CronSecret, autoPublisher, generateAhead)

	api := router.Group("/api", auth.RequireAuth())
	{
		api.GET("/articles", articles.ListArticlesHandler(db))
		api.POST("/articles", articles.CreateArticleHandler(db))
		api.GET("/articles/:id", articles.GetArticleHandler(db))
		api.PATCH("/articles/:id", articles.UpdateArticleHandler(db))
		api.DELETE("/articles/:id", articles.DeleteArticleHandler(db))
		api.POST("/articles/:id/publish", articles.PublishArticleHandler(db, encryptor, logger))
		api.POST("/articles/:id/generate", articles.GenerateArticleHandler(db))

		api.GET("/projects", projects.ListProjectsHandler(db))
		api.POST("/projects", projects.CreateProjectHandler(db))
		api.GET("/projects/:id", projects.GetProjectHandler(db))
		api.GET("/projects/:id/settings", projects.GetSettingsHandler(db))
		api.PATCH("/projects/:id/settings", projects.UpdateSettingsHandler(db, catalog))

		api.GET("/integrations", integrations.ListIntegrationsHandler(db))
		api.POST("/integrations", integrations.CreateIntegrationHandler(db, encryptor, catalog))
		api.PATCH("/integrations/:id", integrations.UpdateIntegrationHandler(db, encryptor))
		api.DELETE("/integrations/:id", integrations.DeleteIntegrationHandler(db))
		api.POST("/integrations/:id/test", integrations.TestIntegrationHandler(db, encryptor, logger))
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", "error", err)
	}
}
