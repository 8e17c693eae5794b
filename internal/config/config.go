// Package config loads service configuration from environment variables
// with optional .env file support.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full service configuration.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    string

	// Runtime selects the transport adapter: "http" or "lambda".
	Runtime string

	HTTP     HTTPConfig
	Adapters AdaptersConfig
	Database DatabaseConfig
	Storage  StorageConfig
	Analysis AnalysisConfig
	Pipeline PipelineConfig
}

// HTTPConfig configures the HTTP runtime adapter.
type HTTPConfig struct {
	Addr    string
	Timeout time.Duration
}

// AdaptersConfig selects the persistence and object storage adapters.
type AdaptersConfig struct {
	// Store is "memory" or "postgres".
	Store string
	// Storage is "none", "filesystem" or "s3".
	Storage string
}

// DatabaseConfig configures the postgres store adapter.
type DatabaseConfig struct {
	URL string
}

// StorageConfig configures the source archive object storage.
type StorageConfig struct {
	// BucketOrPath is the S3 bucket name or the filesystem base path,
	// depending on the selected adapter.
	BucketOrPath string
	S3           S3Config
}

// S3Config holds S3-specific settings. Credentials are optional; when
// absent the default AWS credential chain is used.
type S3Config struct {
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
}

// AnalysisConfig configures the external analysis provider. With no API
// key the pipeline falls back to the built-in diagnostic narrative.
type AnalysisConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// PipelineConfig holds pipeline behavior switches.
type PipelineConfig struct {
	// AllowRepublish permits repeated publication of one audit,
	// creating multiple registry entries. Defaults to true, matching
	// historical behavior.
	AllowRepublish bool
	// ArchiveSource stores submitted contract source in object storage
	// on creation. Requires a storage adapter other than "none".
	ArchiveSource bool
}

// Load reads configuration from the environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	// Missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: getEnv("SERVICE_NAME", "audit_pipeline"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Runtime:     getEnv("RUNTIME", "http"),
		HTTP: HTTPConfig{
			Addr:    getEnv("HTTP_ADDR", ":8080"),
			Timeout: getDuration("HTTP_TIMEOUT", 30*time.Second),
		},
		Adapters: AdaptersConfig{
			Store:   getEnv("STORE_ADAPTER", "memory"),
			Storage: getEnv("STORAGE_ADAPTER", "none"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Storage: StorageConfig{
			BucketOrPath: getEnv("STORAGE_BUCKET_OR_PATH", "audit-sources"),
			S3: S3Config{
				Region:          getEnv("S3_REGION", "us-east-1"),
				Endpoint:        os.Getenv("S3_ENDPOINT"),
				AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
				SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
			},
		},
		Analysis: AnalysisConfig{
			APIKey:  os.Getenv("ANALYSIS_API_KEY"),
			BaseURL: getEnv("ANALYSIS_BASE_URL", "https://api.openai.com/v1"),
			Model:   getEnv("ANALYSIS_MODEL", "meta/llama-3.3-70b-instruct"),
			Timeout: getDuration("ANALYSIS_TIMEOUT", 20*time.Second),
		},
		Pipeline: PipelineConfig{
			AllowRepublish: getBool("ALLOW_REPUBLISH", true),
			ArchiveSource:  getBool("ARCHIVE_SOURCE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	switch c.Runtime {
	case "http", "lambda":
	default:
		return fmt.Errorf("unsupported runtime: %s", c.Runtime)
	}

	switch c.Adapters.Store {
	case "memory":
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres store adapter")
		}
	default:
		return fmt.Errorf("unsupported store adapter: %s", c.Adapters.Store)
	}

	switch c.Adapters.Storage {
	case "none":
		if c.Pipeline.ArchiveSource {
			return fmt.Errorf("ARCHIVE_SOURCE requires a storage adapter")
		}
	case "filesystem", "s3":
		if c.Storage.BucketOrPath == "" {
			return fmt.Errorf("STORAGE_BUCKET_OR_PATH is required for the %s storage adapter", c.Adapters.Storage)
		}
	default:
		return fmt.Errorf("unsupported storage adapter: %s", c.Adapters.Storage)
	}

	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
