// Package config defines configuration parsing and helpers.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration parsed from environment variables.
type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"dev"`
	Port   int    `env:"PORT" envDefault:"8080"`

	// AI backends (OpenAI-compatible API; covers Ollama's /v1 endpoint too).
	AIBaseURL       string `env:"AI_BASE_URL" envDefault:"https://api.openai.com/v1"`
	AIAPIKey        string `env:"AI_API_KEY"`
	ChatModel       string `env:"CHAT_MODEL" envDefault:"gpt-4o-mini"`
	EmbeddingsModel string `env:"EMBEDDINGS_MODEL" envDefault:"text-embedding-3-small"`

	// Chunking and retrieval parameters.
	ChunkSize      int `env:"CHUNK_SIZE" envDefault:"1000"`
	ChunkOverlap   int `env:"CHUNK_OVERLAP" envDefault:"100"`
	EmbedBatchSize int `env:"EMBED_BATCH_SIZE" envDefault:"20"`
	RetrieveTopK   int `env:"RETRIEVE_TOP_K" envDefault:"3"`

	// Vector index backend: "memory" (session-scoped, default) or "qdrant".
	VectorBackend    string `env:"VECTOR_BACKEND" envDefault:"memory"`
	QdrantURL        string `env:"QDRANT_URL" envDefault:"http://localhost:6333"`
	QdrantAPIKey     string `env:"QDRANT_API_KEY"`
	QdrantCollection string `env:"QDRANT_COLLECTION" envDefault:"resume_chunks"`

	// Posting search (Tavily).
	TavilyAPIKey     string `env:"TAVILY_API_KEY"`
	TavilyBaseURL    string `env:"TAVILY_BASE_URL" envDefault:"https://api.tavily.com"`
	SearchMaxResults int    `env:"SEARCH_MAX_RESULTS" envDefault:"20"`

	// TikaURL specifies the base URL for the Apache Tika server used for
	// resume text extraction.
	TikaURL string `env:"TIKA_URL" envDefault:"http://localhost:9998"`

	// TaxonomyPath optionally overrides the embedded skill taxonomy table.
	TaxonomyPath string `env:"TAXONOMY_PATH"`

	OTLPEndpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:""`
	OTELServiceName string `env:"OTEL_SERVICE_NAME" envDefault:"jobfinder"`

	MaxUploadMB           int64         `env:"MAX_UPLOAD_MB" envDefault:"10"`
	CORSAllowOrigins      string        `env:"CORS_ALLOW_ORIGINS" envDefault:"*"`
	RateLimitPerMin       int           `env:"RATE_LIMIT_PER_MIN" envDefault:"30"`
	ServerShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	HTTPReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	HTTPWriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"60s"`
	HTTPIdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"60s"`

	// AI Backoff Configuration
	AIBackoffMaxElapsedTime  time.Duration `env:"AI_BACKOFF_MAX_ELAPSED_TIME" envDefault:"120s"`
	AIBackoffInitialInterval time.Duration `env:"AI_BACKOFF_INITIAL_INTERVAL" envDefault:"2s"`
	AIBackoffMaxInterval     time.Duration `env:"AI_BACKOFF_MAX_INTERVAL" envDefault:"20s"`
	AIBackoffMultiplier      float64       `env:"AI_BACKOFF_MULTIPLIER" envDefault:"1.5"`
}

// Load parses environment variables into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("op=config.Load: %w", err)
	}
	if cfg.ChunkOverlap <= 0 || cfg.ChunkOverlap >= cfg.ChunkSize {
		return Config{}, fmt.Errorf("op=config.Load: chunk overlap %d must be in (0, %d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}
	return cfg, nil
}

// IsDev reports whether the app is running in development mode.
func (c Config) IsDev() bool { return strings.ToLower(c.AppEnv) == "dev" }

// IsProd reports whether the app is running in production mode.
func (c Config) IsProd() bool { return strings.ToLower(c.AppEnv) == "prod" }

// UseQdrant reports whether the Qdrant vector backend is selected.
func (c Config) UseQdrant() bool { return strings.EqualFold(c.VectorBackend, "qdrant") }

// GetAIBackoffConfig returns backoff configuration for AI calls.
// Test environments get much shorter intervals for faster runs.
func (c Config) GetAIBackoffConfig() (maxElapsedTime, initialInterval, maxInterval time.Duration, multiplier float64) {
	if strings.ToLower(c.AppEnv) == "test" {
		return 2 * time.Second, 50 * time.Millisecond, 500 * time.Millisecond, 2.0
	}
	return c.AIBackoffMaxElapsedTime, c.AIBackoffInitialInterval, c.AIBackoffMaxInterval, c.AIBackoffMultiplier
}
