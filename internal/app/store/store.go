// Package store persists job results in Redis as JSON values with a retention
// TTL. The store is the durable source of truth for job outcomes: callbacks
// are best-effort, polling this store is not.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/jobregv/interventionweb-whisper/internal/app/errors"
	"github.com/jobregv/interventionweb-whisper/internal/app/model"
)

const keyPrefix = "transcribe:result:"

// ResultStore reads and writes JobResult records.
type ResultStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// New creates a ResultStore. Every write refreshes the retention TTL.
func New(rdb *redis.Client, ttl time.Duration) *ResultStore {
	return &ResultStore{rdb: rdb, ttl: ttl}
}

func key(jobID string) string {
	return keyPrefix + jobID
}

// Get returns the stored result, or (nil, nil) when the key is absent.
// Never-submitted and expired jobs are indistinguishable here; callers must
// treat nil as "not currently known".
func (s *ResultStore) Get(ctx context.Context, jobID string) (*model.JobResult, error) {
	raw, err := s.rdb.Get(ctx, key(jobID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.Wrapf(err, "get result %s", jobID)
	}

	var result model.JobResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, apperrors.Wrapf(err, "decode result %s", jobID)
	}
	return &result, nil
}

// Put stores the result, overwriting any previous value (last writer wins).
func (s *ResultStore) Put(ctx context.Context, result *model.JobResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrResultEncoding, err.Error())
	}
	if err := s.rdb.Set(ctx, key(result.ID), data, s.ttl).Err(); err != nil {
		return apperrors.Wrapf(err, "store result %s", result.ID)
	}
	return nil
}

// MarkPending records a freshly submitted job.
func (s *ResultStore) MarkPending(ctx context.Context, jobID string) error {
	return s.Put(ctx, &model.JobResult{ID: jobID, Status: model.StatusPending})
}

// MarkProcessing records that a worker has claimed the job.
func (s *ResultStore) MarkProcessing(ctx context.Context, jobID string) error {
	return s.Put(ctx, &model.JobResult{ID: jobID, Status: model.StatusProcessing})
}

// Complete writes the terminal completed status with the transcription.
func (s *ResultStore) Complete(ctx context.Context, jobID, transcription string) error {
	now := time.Now().UTC()
	return s.Put(ctx, &model.JobResult{
		ID:            jobID,
		Status:        model.StatusCompleted,
		Transcription: transcription,
		CompletedAt:   &now,
	})
}

// Fail writes the terminal failed status with a human-readable description.
func (s *ResultStore) Fail(ctx context.Context, jobID, description string) error {
	now := time.Now().UTC()
	return s.Put(ctx, &model.JobResult{
		ID:          jobID,
		Status:      model.StatusFailed,
		Error:       description,
		CompletedAt: &now,
	})
}
