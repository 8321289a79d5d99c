package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/api/errors"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/dto"
	"github.com/jobregv/interventionweb-whisper/internal/app/model"
	"github.com/jobregv/interventionweb-whisper/internal/config"
	"github.com/jobregv/interventionweb-whisper/internal/metrics"
)

// TranscriptionServiceImpl implements TranscriptionService on the Redis queue
// and result store.
type TranscriptionServiceImpl struct {
	queue  JobQueue
	store  ResultStore
	cfg    *config.Config
	logger *zap.Logger
}

// NewTranscriptionService creates a new transcription service
func NewTranscriptionService(queue JobQueue, store ResultStore, cfg *config.Config, logger *zap.Logger) TranscriptionService {
	return &TranscriptionServiceImpl{
		queue:  queue,
		store:  store,
		cfg:    cfg,
		logger: logger,
	}
}

// Submit records the job as pending and enqueues it. A caller-supplied job ID
// is echoed back; resubmitting an ID overwrites the stored result
// (last-writer-wins) and queues a fresh delivery.
func (s *TranscriptionServiceImpl) Submit(ctx context.Context, audio []byte, form *dto.SubmitForm) (*dto.SubmitResponse, error) {
	jobID := form.JobID
	if jobID == "" {
		jobID = uuid.New().String()
	}

	job := &model.Job{
		ID:            jobID,
		Audio:         audio,
		CallbackURL:   form.CallbackURL,
		CallbackToken: form.CallbackToken,
		EnqueuedAt:    time.Now().UTC(),
	}

	// Pending status first: a client polling right after submission must not
	// see "unknown" for a job that is about to be claimed.
	if err := s.store.MarkPending(ctx, jobID); err != nil {
		s.logger.Error("failed to record pending status", zap.String("job_id", jobID), zap.Error(err))
		return nil, errors.NewServiceUnavailableError("Result store unavailable")
	}

	if _, err := s.queue.Enqueue(ctx, job); err != nil {
		s.logger.Error("enqueue failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, errors.NewServiceUnavailableError("Job queue unavailable")
	}

	metrics.JobsSubmitted.Inc()
	s.logger.Info("job submitted",
		zap.String("job_id", jobID),
		zap.Int("payload_bytes", len(audio)),
		zap.Bool("has_callback", job.HasCallback()),
	)

	return &dto.SubmitResponse{
		JobID:             jobID,
		Status:            "processing",
		Message:           "Audio submitted for transcription",
		FileSizeMB:        math.Round(float64(len(audio))/(1024*1024)*100) / 100,
		EstimatedDuration: "2-5 minutes",
	}, nil
}

// Result looks up the job's stored state. Unknown IDs are not an error: the
// job may never have existed or its result may have expired, and the two
// cases cannot be told apart.
func (s *TranscriptionServiceImpl) Result(ctx context.Context, jobID string) (*dto.ResultResponse, error) {
	result, err := s.store.Get(ctx, jobID)
	if err != nil {
		s.logger.Error("result lookup failed", zap.String("job_id", jobID), zap.Error(err))
		return nil, errors.NewServiceUnavailableError("Result store unavailable")
	}
	if result == nil {
		return &dto.ResultResponse{
			JobID:  jobID,
			Status: string(model.StatusUnknown),
		}, nil
	}

	resp := &dto.ResultResponse{
		JobID:  jobID,
		Status: string(result.Status),
	}
	switch result.Status {
	case model.StatusCompleted:
		resp.Transcription = result.Transcription
		resp.Length = len(result.Transcription)
	case model.StatusFailed:
		resp.Error = result.Error
	}
	// Only terminal results carry a completion time.
	if result.Status.Terminal() && result.CompletedAt != nil {
		resp.CompletedAt = result.CompletedAt.Format(time.RFC3339)
	}
	return resp, nil
}

// Health reports queue connectivity and the active processing configuration.
// A service_unavailable error means Redis did not answer PING.
func (s *TranscriptionServiceImpl) Health(ctx context.Context) (*dto.HealthResponse, error) {
	if err := s.queue.Ping(ctx); err != nil {
		s.logger.Error("redis ping failed", zap.Error(err))
		return nil, errors.NewServiceUnavailableError("Redis unreachable")
	}

	pending, err := s.queue.PendingDepth(ctx)
	if err != nil {
		s.logger.Warn("failed to read queue depth", zap.Error(err))
	}
	active, err := s.queue.ActiveWorkers(ctx)
	if err != nil {
		s.logger.Warn("failed to count active workers", zap.Error(err))
	}

	return &dto.HealthResponse{
		Status:        "healthy",
		Redis:         "connected",
		Workers:       s.cfg.Worker.Concurrency,
		ActiveWorkers: active,
		Pending:       pending,
		Config: dto.HealthConfig{
			Provider:      s.cfg.Whisper.Provider,
			Model:         s.cfg.Whisper.Model,
			Device:        s.cfg.Whisper.Device,
			Language:      s.cfg.Whisper.Language,
			MaxFileSizeMB: s.cfg.MaxFileSizeMB(),
		},
	}, nil
}
