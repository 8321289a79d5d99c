package services

import (
	"context"

	"github.com/jobregv/interventionweb-whisper/internal/api/v1/dto"
	"github.com/jobregv/interventionweb-whisper/internal/app/model"
)

// TranscriptionService defines the interface for job submission and lookup
type TranscriptionService interface {
	Submit(ctx context.Context, audio []byte, form *dto.SubmitForm) (*dto.SubmitResponse, error)
	Result(ctx context.Context, jobID string) (*dto.ResultResponse, error)
	Health(ctx context.Context) (*dto.HealthResponse, error)
}

// JobQueue is the queue surface the API uses: submission plus liveness.
type JobQueue interface {
	Enqueue(ctx context.Context, job *model.Job) (string, error)
	Ping(ctx context.Context) error
	PendingDepth(ctx context.Context) (int64, error)
	ActiveWorkers(ctx context.Context) (int, error)
}

// ResultStore is the store surface the API uses.
type ResultStore interface {
	Get(ctx context.Context, jobID string) (*model.JobResult, error)
	MarkPending(ctx context.Context, jobID string) error
}
