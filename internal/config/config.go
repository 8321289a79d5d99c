// Package config loads the service configuration from environment variables,
// optionally seeded from a .env file. Every knob has a default; malformed
// numeric values fail startup instead of being silently replaced.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

// Whisper configures the transcription engine.
type Whisper struct {
	Provider    string // "whisper_server" or "openai"
	Model       string
	Device      string
	ComputeType string
	Language    string
	ServerURL   string // faster-whisper sidecar base URL
	OpenAIKey   string
}

// Worker configures the worker pool.
type Worker struct {
	Concurrency int
	TimeLimit   time.Duration // per-job processing ceiling
}

// Callback configures outbound webhook delivery.
type Callback struct {
	Timeout time.Duration // per-attempt
	Retries int           // total attempts
	Backoff time.Duration // fixed pause between attempts
}

// API configures the HTTP ingress.
type API struct {
	Host string
	Port string
}

// Config is the full environment-sourced configuration.
type Config struct {
	RedisURL    string
	Whisper     Whisper
	Worker      Worker
	Callback    Callback
	API         API
	MaxFileSize int64         // bytes
	ResultTTL   time.Duration // job result retention
	TempDir     string
	LogLevel    string
	Environment string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; real environment variables win.
func Load() (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	cfg := &Config{
		RedisURL: getEnv("REDIS_URL", "redis://localhost:6379/0"),
		Whisper: Whisper{
			Provider:    getEnv("WHISPER_PROVIDER", "whisper_server"),
			Model:       getEnv("WHISPER_MODEL", "medium"),
			Device:      getEnv("WHISPER_DEVICE", "cpu"),
			ComputeType: getEnv("WHISPER_COMPUTE_TYPE", "int8"),
			Language:    getEnv("WHISPER_LANGUAGE", "es"),
			ServerURL:   getEnv("WHISPER_SERVER_URL", "http://localhost:8387"),
			OpenAIKey:   strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		},
		TempDir:     getEnv("TEMP_DIR", os.TempDir()),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Environment: getEnv("ENVIRONMENT", "development"),
		API: API{
			Host: getEnv("API_HOST", "0.0.0.0"),
			Port: getEnv("API_PORT", "8000"),
		},
	}

	var err error
	if cfg.Worker.Concurrency, err = getEnvInt("WORKER_CONCURRENCY", 3); err != nil {
		return nil, err
	}
	if cfg.Worker.TimeLimit, err = getEnvSeconds("TASK_TIME_LIMIT", 300); err != nil {
		return nil, err
	}
	if cfg.Callback.Timeout, err = getEnvSeconds("CALLBACK_TIMEOUT", 10); err != nil {
		return nil, err
	}
	if cfg.Callback.Retries, err = getEnvInt("CALLBACK_RETRIES", 2); err != nil {
		return nil, err
	}
	if cfg.Callback.Backoff, err = getEnvSeconds("CALLBACK_BACKOFF", 2); err != nil {
		return nil, err
	}
	if cfg.ResultTTL, err = getEnvSeconds("RESULT_TTL", 3600); err != nil {
		return nil, err
	}

	maxMB, err := getEnvInt("MAX_FILE_SIZE", 50)
	if err != nil {
		return nil, err
	}
	cfg.MaxFileSize = int64(maxMB) * 1024 * 1024

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Worker.Concurrency < 1 {
		return fmt.Errorf("WORKER_CONCURRENCY must be at least 1, got %d", c.Worker.Concurrency)
	}
	if c.Callback.Retries < 1 {
		return fmt.Errorf("CALLBACK_RETRIES must be at least 1, got %d", c.Callback.Retries)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("MAX_FILE_SIZE must be positive")
	}
	switch c.Whisper.Provider {
	case "whisper_server", "openai":
	default:
		return fmt.Errorf("unknown WHISPER_PROVIDER %q (expected whisper_server or openai)", c.Whisper.Provider)
	}
	return nil
}

// RedisOptions parses REDIS_URL into go-redis client options.
func (c *Config) RedisOptions() (*redis.Options, error) {
	opts, err := redis.ParseURL(c.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL %q: %w", c.RedisURL, err)
	}
	return opts, nil
}

// MaxFileSizeMB returns the size limit in whole megabytes, for reporting.
func (c *Config) MaxFileSizeMB() int64 {
	return c.MaxFileSize / (1024 * 1024)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

// getEnvSeconds reads an integer number of seconds, matching the units the
// backend operators already use for these variables.
func getEnvSeconds(key string, fallback int) (time.Duration, error) {
	n, err := getEnvInt(key, fallback)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("invalid %s value %d: must not be negative", key, n)
	}
	return time.Duration(n) * time.Second, nil
}
