package store

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobregv/interventionweb-whisper/internal/app/model"
)

func newTestStore(t *testing.T, ttl time.Duration) *ResultStore {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("Redis not available, skipping integration test (set REDIS_ADDR to enable)")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not reachable at %s: %v", addr, err)
	}
	require.NoError(t, rdb.FlushDB(ctx).Err())
	t.Cleanup(func() {
		rdb.FlushDB(context.Background())
		rdb.Close()
	})

	return New(rdb, ttl)
}

func TestGetUnknownJobReturnsNil(t *testing.T) {
	s := newTestStore(t, time.Minute)

	result, err := s.Get(context.Background(), "never-submitted")
	require.NoError(t, err)
	assert.Nil(t, result, "unknown job is nil, not an error")
}

func TestStatusLifecycle(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.MarkPending(ctx, "job-1"))
	result, err := s.Get(ctx, "job-1")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.StatusPending, result.Status)
	assert.Empty(t, result.Transcription)
	assert.Nil(t, result.CompletedAt)

	require.NoError(t, s.MarkProcessing(ctx, "job-1"))
	result, err = s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusProcessing, result.Status)

	require.NoError(t, s.Complete(ctx, "job-1", "hola mundo"))
	result, err = s.Get(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, result.Status)
	assert.Equal(t, "hola mundo", result.Transcription)
	assert.Empty(t, result.Error)
	assert.NotNil(t, result.CompletedAt)
}

func TestFailedResultCarriesErrorOnly(t *testing.T) {
	s := newTestStore(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, s.Fail(ctx, "job-2", "invalid_audio: audio payload too small"))
	result, err := s.Get(ctx, "job-2")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, model.StatusFailed, result.Status)
	assert.Empty(t, result.Transcription)
	assert.Contains(t, result.Error, "invalid_audio")
}

func TestResultExpiresAfterTTL(t *testing.T) {
	s := newTestStore(t, 100*time.Millisecond)
	ctx := context.Background()

	require.NoError(t, s.Complete(ctx, "job-3", "text"))
	time.Sleep(200 * time.Millisecond)

	result, err := s.Get(ctx, "job-3")
	require.NoError(t, err)
	assert.Nil(t, result, "expired result reads the same as never-existed")
}
