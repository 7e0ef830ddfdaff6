package config

import (
	"log"
	"os"
)

// Config holds application configuration loaded from environment variables
type Config struct {
	DatabaseURL string
	RedisURL    string

	// CronSecret protects the pipeline trigger endpoints. Requests must send
	// it as "Authorization: Bearer <secret>".
	CronSecret string

	// AppBaseURL is the externally reachable base URL of this deployment.
	// The OAuth callback URL defaults to it when GOOGLE_CALLBACK_URL is
	// not set.
	AppBaseURL string

	GoogleClientID     string
	GoogleClientSecret string
	GoogleCallbackURL  string
	SessionSecret      string

	// EncryptionKey is a base64-encoded 32-byte key for encrypting CMS
	// application passwords at rest.
	EncryptionKey string

	// LLM completion provider (OpenAI-compatible chat completions API)
	LLMBaseURL string
	LLMAPIKey  string
	LLMModel   string

	// Stock image and video search providers
	ImageAPIKey string
	VideoAPIKey string

	// StubProviders swaps all external content providers for canned
	// responses. Development only.
	StubProviders bool

	AutoPublishSchedule   string
	GenerateAheadSchedule string
	SchedulerTimezone     string

	Env       string
	Port      string
	LogLevel  string
	LogFormat string
}

// Load reads configuration from environment variables
func Load() *Config {
	cfg := &Config{
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		RedisURL:           getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		CronSecret:         os.Getenv("CRON_SECRET"),
		AppBaseURL:         getEnvWithDefault("APP_BASE_URL", "http://localhost:8080"),
		GoogleClientID:     os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("GOOGLE_CLIENT_SECRET"),
		GoogleCallbackURL:  os.Getenv("GOOGLE_CALLBACK_URL"),
		SessionSecret:      os.Getenv("SESSION_SECRET"),
		EncryptionKey:      os.Getenv("ENCRYPTION_KEY"),

		LLMBaseURL: getEnvWithDefault("LLM_BASE_URL", "https://api.openai.com/v1"),
		LLMAPIKey:  os.Getenv("LLM_API_KEY"),
		LLMModel:   getEnvWithDefault("LLM_MODEL", "gpt-4o-mini"),

		ImageAPIKey: os.Getenv("IMAGE_API_KEY"),
		VideoAPIKey: os.Getenv("VIDEO_API_KEY"),

		StubProviders: os.Getenv("STUB_PROVIDERS") == "true",

		AutoPublishSchedule:   getEnvWithDefault("AUTO_PUBLISH_SCHEDULE", "*/5 * * * *"),
		GenerateAheadSchedule: getEnvWithDefault("GENERATE_AHEAD_SCHEDULE", "0 18 * * *"),
		SchedulerTimezone:     getEnvWithDefault("SCHEDULER_TIMEZONE", "UTC"),

		Env:       getEnvWithDefault("ENV", "development"),
		Port:      getEnvWithDefault("PORT", "8080"),
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: getEnvWithDefault("LOG_FORMAT", "text"),
	}

	if cfg.GoogleCallbackURL == "" {
		cfg.GoogleCallbackURL = cfg.AppBaseURL + "/auth/callback"
	}

	// Warn if using default session secret (insecure for production)
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = "dev-secret-change-in-production-use-openssl-rand-hex-32"
		log.Println("WARNING: Using default SESSION_SECRET. Generate a secure secret with: openssl rand -hex 32")
	}

	if cfg.CronSecret == "" {
		log.Println("WARNING: CRON_SECRET not set. Pipeline trigger endpoints will reject all requests.")
	}

	return cfg
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
