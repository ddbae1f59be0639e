package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// MediaWiki source
	WikiLanguage string
	UserAgent    string

	// Scrape behavior
	Strategy string // "inorder" or "random"
	MaxPages int

	// Paths. DataDir is the directory holding the page store.
	DataDir   string
	CorpusDir string

	// Worker pool
	WorkerCount  int
	MaxQueueSize int

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		APIKey: os.Getenv("WIKIGLOSS_API_KEY"),

		WikiLanguage: envOr("WIKI_LANGUAGE", "en"),
		UserAgent:    envOr("WIKI_USER_AGENT", "wikigloss/1.0"),

		Strategy: envOr("SCRAPE_STRATEGY", "inorder"),
		MaxPages: envInt("SCRAPE_MAX_PAGES", 100),

		DataDir:   envOr("DATA_DIR", "data"),
		CorpusDir: envOr("CORPUS_DIR", "corpus"),

		WorkerCount:  envInt("WORKER_COUNT", 4),
		MaxQueueSize: envInt("MAX_QUEUE_SIZE", 100),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 10485760), // 10MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 10485760
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.Strategy != "inorder" && c.Strategy != "random" {
		return fmt.Errorf("SCRAPE_STRATEGY must be \"inorder\" or \"random\", got %q", c.Strategy)
	}
	if c.WikiLanguage == "" {
		return fmt.Errorf("WIKI_LANGUAGE is required")
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

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
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
