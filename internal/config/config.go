package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port string

	// Redis streams
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	ProcessingStream string
	MatchingStream   string
	ConsumerGroup    string

	// Postgres metadata store
	DatabaseDSN string

	// Object storage
	StorageEndpoint  string
	StorageAccessKey string
	StorageSecretKey string
	StorageBucket    string
	StorageUseSSL    bool

	// Layout analysis service. When the endpoint is empty the worker falls
	// back to local PDF extraction, which is only suitable for development.
	LayoutEndpoint     string
	LayoutKey          string
	LayoutPollInterval time.Duration
	LayoutDeadline     time.Duration

	// Gemini classification
	GeminiAPIKey string
	GeminiModel  string

	// Worker pool
	WorkerCount    int
	ReclaimMinIdle time.Duration
}

func Load() Config {
	// Missing .env is fine; real deployments configure the environment.
	_ = godotenv.Load()

	cfg := Config{
		Port: envOr("PORT", "8091"),

		RedisAddr:        envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:          envInt("REDIS_DB", 0),
		ProcessingStream: envOr("PROCESSING_STREAM", "processing-queue"),
		MatchingStream:   envOr("MATCHING_STREAM", "matching-queue"),
		ConsumerGroup:    envOr("CONSUMER_GROUP", "ingest-workers"),

		DatabaseDSN: os.Getenv("DATABASE_DSN"),

		StorageEndpoint:  envOr("STORAGE_ENDPOINT", "localhost:9000"),
		StorageAccessKey: os.Getenv("STORAGE_ACCESS_KEY"),
		StorageSecretKey: os.Getenv("STORAGE_SECRET_KEY"),
		StorageBucket:    envOr("STORAGE_BUCKET", "user-files"),
		StorageUseSSL:    envBool("STORAGE_USE_SSL", false),

		LayoutEndpoint:     os.Getenv("LAYOUT_ENDPOINT"),
		LayoutKey:          os.Getenv("LAYOUT_KEY"),
		LayoutPollInterval: envDuration("LAYOUT_POLL_INTERVAL", 2*time.Second),
		LayoutDeadline:     envDuration("LAYOUT_DEADLINE", 300*time.Second),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  envOr("GEMINI_MODEL", "gemini-2.5-flash"),

		WorkerCount:    envInt("WORKER_COUNT", 4),
		ReclaimMinIdle: envDuration("RECLAIM_MIN_IDLE", 5*time.Minute),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.LayoutPollInterval <= 0 {
		cfg.LayoutPollInterval = 2 * time.Second
	}
	if cfg.LayoutDeadline <= 0 {
		cfg.LayoutDeadline = 300 * time.Second
	}
	if cfg.ReclaimMinIdle <= 0 {
		cfg.ReclaimMinIdle = 5 * time.Minute
	}

	return cfg
}

func (c Config) Validate() error {
	if c.DatabaseDSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	if c.StorageAccessKey == "" || c.StorageSecretKey == "" {
		return fmt.Errorf("STORAGE_ACCESS_KEY and STORAGE_SECRET_KEY are required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required")
	}
	if c.LayoutEndpoint != "" && c.LayoutKey == "" {
		return fmt.Errorf("LAYOUT_KEY is required when LAYOUT_ENDPOINT is set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
