package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, "whisper_server", cfg.Whisper.Provider)
	assert.Equal(t, "medium", cfg.Whisper.Model)
	assert.Equal(t, "cpu", cfg.Whisper.Device)
	assert.Equal(t, "es", cfg.Whisper.Language)
	assert.Equal(t, 3, cfg.Worker.Concurrency)
	assert.Equal(t, 300*time.Second, cfg.Worker.TimeLimit)
	assert.Equal(t, 10*time.Second, cfg.Callback.Timeout)
	assert.Equal(t, 2, cfg.Callback.Retries)
	assert.Equal(t, 2*time.Second, cfg.Callback.Backoff)
	assert.Equal(t, time.Hour, cfg.ResultTTL)
	assert.Equal(t, int64(50*1024*1024), cfg.MaxFileSize)
	assert.Equal(t, int64(50), cfg.MaxFileSizeMB())
	assert.Equal(t, "8000", cfg.API.Port)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("REDIS_URL", "redis://cache:6380/2")
	t.Setenv("WHISPER_MODEL", "large-v3")
	t.Setenv("WHISPER_PROVIDER", "openai")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("WORKER_CONCURRENCY", "8")
	t.Setenv("TASK_TIME_LIMIT", "120")
	t.Setenv("CALLBACK_RETRIES", "5")
	t.Setenv("MAX_FILE_SIZE", "10")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "redis://cache:6380/2", cfg.RedisURL)
	assert.Equal(t, "large-v3", cfg.Whisper.Model)
	assert.Equal(t, "openai", cfg.Whisper.Provider)
	assert.Equal(t, "sk-test", cfg.Whisper.OpenAIKey)
	assert.Equal(t, 8, cfg.Worker.Concurrency)
	assert.Equal(t, 2*time.Minute, cfg.Worker.TimeLimit)
	assert.Equal(t, 5, cfg.Callback.Retries)
	assert.Equal(t, int64(10*1024*1024), cfg.MaxFileSize)

	opts, err := cfg.RedisOptions()
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non_numeric_concurrency", "WORKER_CONCURRENCY", "three"},
		{"zero_concurrency", "WORKER_CONCURRENCY", "0"},
		{"non_numeric_time_limit", "TASK_TIME_LIMIT", "5m"},
		{"negative_time_limit", "TASK_TIME_LIMIT", "-1"},
		{"zero_retries", "CALLBACK_RETRIES", "0"},
		{"unknown_provider", "WHISPER_PROVIDER", "parakeet"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestRedisOptionsInvalidURL(t *testing.T) {
	t.Setenv("REDIS_URL", "not-a-url")
	cfg, err := Load()
	require.NoError(t, err)

	_, err = cfg.RedisOptions()
	assert.Error(t, err)
}
