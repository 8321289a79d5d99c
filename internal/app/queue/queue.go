// Package queue implements the durable job queue on Redis lists with
// late-acknowledged claims: a claimed job sits on a per-consumer processing
// list until its terminal result is stored, so a worker crash makes the job
// eligible for redelivery (at-least-once).
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	apperrors "github.com/jobregv/interventionweb-whisper/internal/app/errors"
	"github.com/jobregv/interventionweb-whisper/internal/app/model"
)

const (
	pendingKey     = "transcribe:queue"
	claimedPrefix  = "transcribe:queue:claimed:"
	leasePrefix    = "transcribe:lease:"
	workerPrefix   = "transcribe:worker:"
	claimBlockTime = 5 * time.Second
)

// Delivery is one claimed queue entry. The raw envelope is kept so the ack
// can remove exactly the bytes that were claimed.
type Delivery struct {
	Job *model.Job
	raw string
}

// Queue moves jobs between the submission gateway and the worker pool.
type Queue struct {
	rdb       *redis.Client
	timeLimit time.Duration // claim lease duration = processing ceiling
	logger    *zap.Logger
}

// New creates a Queue. timeLimit bounds how long a claim holds a job before
// the reaper may hand it to another worker.
func New(rdb *redis.Client, timeLimit time.Duration, logger *zap.Logger) *Queue {
	return &Queue{rdb: rdb, timeLimit: timeLimit, logger: logger}
}

func claimedKey(consumer string) string {
	return claimedPrefix + consumer
}

// leaseKey is scoped to the consumer: colliding submissions of one job ID can
// be in flight on two consumers at once, and acking one delivery must not
// release the other's lease.
func leaseKey(consumer, jobID string) string {
	return leasePrefix + consumer + ":" + jobID
}

// Enqueue pushes the job onto the pending list and returns its ID, assigning
// a generated one when the job carries none. The call returns once Redis has
// accepted the push; processing has not started yet.
func (q *Queue) Enqueue(ctx context.Context, job *model.Job) (string, error) {
	if job.ID == "" {
		job.ID = uuid.New().String()
	}
	if job.EnqueuedAt.IsZero() {
		job.EnqueuedAt = time.Now().UTC()
	}

	data, err := json.Marshal(job)
	if err != nil {
		return "", apperrors.Wrap(apperrors.ErrEnqueueFailed, err.Error())
	}
	if err := q.rdb.LPush(ctx, pendingKey, data).Err(); err != nil {
		return "", apperrors.Wrap(apperrors.ErrEnqueueFailed, err.Error())
	}

	q.logger.Info("job enqueued",
		zap.String("job_id", job.ID),
		zap.Int("payload_bytes", len(job.Audio)),
	)
	return job.ID, nil
}

// Claim blocks for a bounded interval waiting for a job, atomically moving it
// onto the consumer's processing list and opening a claim lease. Returns
// (nil, nil) when no job arrived within the window so the caller can check
// for shutdown and try again.
func (q *Queue) Claim(ctx context.Context, consumer string) (*Delivery, error) {
	raw, err := q.rdb.BLMove(ctx, pendingKey, claimedKey(consumer), "RIGHT", "LEFT", claimBlockTime).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, apperrors.Wrap(err, "claim job")
	}

	var job model.Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		// Undecodable entries would otherwise be redelivered forever; drop
		// them from the processing list and surface the error.
		if remErr := q.rdb.LRem(ctx, claimedKey(consumer), 1, raw).Err(); remErr != nil {
			q.logger.Warn("failed to drop undecodable entry", zap.Error(remErr))
		}
		return nil, apperrors.Wrap(err, "decode claimed job")
	}

	if err := q.rdb.Set(ctx, leaseKey(consumer, job.ID), consumer, q.timeLimit).Err(); err != nil {
		q.logger.Warn("failed to open claim lease",
			zap.String("job_id", job.ID),
			zap.Error(err),
		)
	}
	return &Delivery{Job: &job, raw: raw}, nil
}

// Ack removes the delivery from the consumer's processing list after its
// terminal result is stored. Called exactly once per processed delivery.
func (q *Queue) Ack(ctx context.Context, consumer string, delivery *Delivery) error {
	if err := q.rdb.LRem(ctx, claimedKey(consumer), 1, delivery.raw).Err(); err != nil {
		return apperrors.Wrapf(err, "ack job %s", delivery.Job.ID)
	}
	q.rdb.Del(ctx, leaseKey(consumer, delivery.Job.ID))
	return nil
}

// ReclaimExpired scans processing lists for entries whose claim lease has
// expired (the worker died or overran the processing ceiling) and returns
// them to the pending list. Reports how many jobs were requeued.
func (q *Queue) ReclaimExpired(ctx context.Context) (int, error) {
	reclaimed := 0

	iter := q.rdb.Scan(ctx, 0, claimedPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		claimed := iter.Val()
		consumer := strings.TrimPrefix(claimed, claimedPrefix)

		entries, err := q.rdb.LRange(ctx, claimed, 0, -1).Result()
		if err != nil {
			return reclaimed, apperrors.Wrapf(err, "scan processing list %s", claimed)
		}

		for _, raw := range entries {
			var job model.Job
			if err := json.Unmarshal([]byte(raw), &job); err != nil {
				q.logger.Warn("dropping undecodable processing entry", zap.String("list", claimed))
				if remErr := q.rdb.LRem(ctx, claimed, 1, raw).Err(); remErr != nil {
					q.logger.Warn("failed to drop undecodable entry", zap.Error(remErr))
				}
				continue
			}

			held, err := q.rdb.Exists(ctx, leaseKey(consumer, job.ID)).Result()
			if err != nil {
				return reclaimed, apperrors.Wrapf(err, "check lease for %s", job.ID)
			}
			if held > 0 {
				continue
			}

			removed, err := q.rdb.LRem(ctx, claimed, 1, raw).Result()
			if err != nil {
				return reclaimed, apperrors.Wrapf(err, "remove stale entry %s", job.ID)
			}
			if removed == 0 {
				continue // another reaper got there first
			}
			if err := q.rdb.LPush(ctx, pendingKey, raw).Err(); err != nil {
				return reclaimed, apperrors.Wrapf(err, "requeue job %s", job.ID)
			}

			reclaimed++
			q.logger.Warn("reclaimed job with expired claim",
				zap.String("job_id", job.ID),
				zap.String("processing_list", claimed),
			)
		}
	}
	if err := iter.Err(); err != nil {
		return reclaimed, apperrors.Wrap(err, "scan processing lists")
	}
	return reclaimed, nil
}

// Heartbeat marks the consumer as alive for ttl. The pool refreshes
// heartbeats periodically; a worker that stops beating drops out of the
// health endpoint's active count once its key expires.
func (q *Queue) Heartbeat(ctx context.Context, consumer string, ttl time.Duration) error {
	key := workerPrefix + consumer
	if err := q.rdb.Set(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Err(); err != nil {
		return apperrors.Wrapf(err, "heartbeat %s", consumer)
	}
	return nil
}

// ActiveWorkers counts consumers with a live heartbeat.
func (q *Queue) ActiveWorkers(ctx context.Context) (int, error) {
	count := 0
	iter := q.rdb.Scan(ctx, 0, workerPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, apperrors.Wrap(err, "scan worker heartbeats")
	}
	return count, nil
}

// Ping verifies connectivity to the queue backend.
func (q *Queue) Ping(ctx context.Context) error {
	if err := q.rdb.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(apperrors.ErrQueueUnavailable, err.Error())
	}
	return nil
}

// PendingDepth returns the current length of the pending list.
func (q *Queue) PendingDepth(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, pendingKey).Result()
}
