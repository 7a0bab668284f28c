package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Source backends.
const (
	BackendAPI    = "api"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Article source
	SourceBackend string
	WikiAPIURL    string
	SourceDBPath  string
	UserAgent     string
	CacheArticles bool

	// Extended template tables
	ExtDataPath string
	ExtDataURL  string

	// Bounded pipeline defaults
	DefaultMaxBytes     int
	DefaultMaxSentences int

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentFetch int
	MaxBatchTitles     int

	// Request body limit
	MaxUploadBytes int64

	// Chunking defaults
	DefaultChunkSize    int
	DefaultChunkOverlap int

	// Job state
	JobTTL time.Duration
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("WIKIDOC_API_KEY"),

		SourceBackend: envOr("SOURCE_BACKEND", BackendAPI),
		WikiAPIURL:    envOr("WIKI_API_URL", "https://{lang}.wikipedia.org/w/api.php"),
		SourceDBPath:  envOr("SOURCE_DB_PATH", "articles.db"),
		UserAgent:     envOr("USER_AGENT", "wikidoc/1.0"),
		CacheArticles: envBool("SOURCE_CACHE", false),

		ExtDataPath: os.Getenv("EXTDATA_PATH"),
		ExtDataURL:  os.Getenv("EXTDATA_URL"),

		DefaultMaxBytes:     envInt("DEFAULT_MAX_BYTES", 4096),
		DefaultMaxSentences: envInt("DEFAULT_MAX_SENTENCES", 5),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentFetch: envInt("MAX_CONCURRENT_FETCH", 4),
		MaxBatchTitles:     envInt("MAX_BATCH_TITLES", 500),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 8<<20), // 8MB

		DefaultChunkSize:    envInt("DEFAULT_CHUNK_SIZE", 1500),
		DefaultChunkOverlap: envInt("DEFAULT_CHUNK_OVERLAP", 200),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),
	}

	if cfg.DefaultMaxBytes <= 0 {
		cfg.DefaultMaxBytes = 4096
	}
	if cfg.DefaultMaxSentences <= 0 {
		cfg.DefaultMaxSentences = 5
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentFetch <= 0 {
		cfg.MaxConcurrentFetch = 4
	}
	if cfg.MaxBatchTitles <= 0 {
		cfg.MaxBatchTitles = 500
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 8 << 20
	}
	if cfg.DefaultChunkSize <= 0 {
		cfg.DefaultChunkSize = 1500
	}
	if cfg.DefaultChunkOverlap <= 0 {
		cfg.DefaultChunkOverlap = 200
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("WIKIDOC_API_KEY is required")
	}
	switch c.SourceBackend {
	case BackendAPI:
		if c.WikiAPIURL == "" {
			return fmt.Errorf("WIKI_API_URL is required for the api backend")
		}
	case BackendSQLite:
		if c.SourceDBPath == "" {
			return fmt.Errorf("SOURCE_DB_PATH is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("SOURCE_BACKEND must be %q or %q, got %q", BackendAPI, BackendSQLite, c.SourceBackend)
	}
	if c.DefaultMaxBytes > 8<<20 {
		return fmt.Errorf("DEFAULT_MAX_BYTES must not exceed %d", 8<<20)
	}
	if c.DefaultMaxSentences > 1000 {
		return fmt.Errorf("DEFAULT_MAX_SENTENCES must not exceed 1000")
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
