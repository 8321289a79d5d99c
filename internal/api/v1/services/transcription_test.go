package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	apierrors "github.com/jobregv/interventionweb-whisper/internal/api/errors"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/dto"
	"github.com/jobregv/interventionweb-whisper/internal/app/model"
	"github.com/jobregv/interventionweb-whisper/internal/config"
)

type fakeQueue struct {
	enqueued []*model.Job
	pingErr  error
	depth    int64
	active   int
	calls    *[]string
}

func (q *fakeQueue) Enqueue(_ context.Context, job *model.Job) (string, error) {
	if q.calls != nil {
		*q.calls = append(*q.calls, "enqueue")
	}
	q.enqueued = append(q.enqueued, job)
	return job.ID, nil
}

func (q *fakeQueue) Ping(_ context.Context) error { return q.pingErr }

func (q *fakeQueue) PendingDepth(_ context.Context) (int64, error) { return q.depth, nil }

func (q *fakeQueue) ActiveWorkers(_ context.Context) (int, error) { return q.active, nil }

type fakeStore struct {
	results map[string]*model.JobResult
	getErr  error
	calls   *[]string
}

func (s *fakeStore) Get(_ context.Context, jobID string) (*model.JobResult, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.results[jobID], nil
}

func (s *fakeStore) MarkPending(_ context.Context, jobID string) error {
	if s.calls != nil {
		*s.calls = append(*s.calls, "pending")
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Whisper: config.Whisper{
			Provider: "whisper_server",
			Model:    "medium",
			Device:   "cpu",
			Language: "es",
		},
		Worker:      config.Worker{Concurrency: 3},
		MaxFileSize: 50 * 1024 * 1024,
	}
}

func TestSubmitGeneratesJobID(t *testing.T) {
	q := &fakeQueue{}
	svc := NewTranscriptionService(q, &fakeStore{}, testConfig(), zaptest.NewLogger(t))

	resp, err := svc.Submit(context.Background(), []byte("audio-bytes"), &dto.SubmitForm{})
	require.NoError(t, err)

	_, parseErr := uuid.Parse(resp.JobID)
	assert.NoError(t, parseErr, "generated job ID is a UUID")
	assert.Equal(t, "processing", resp.Status)
	require.Len(t, q.enqueued, 1)
	assert.Equal(t, resp.JobID, q.enqueued[0].ID)
}

func TestSubmitEchoesSuppliedJobID(t *testing.T) {
	q := &fakeQueue{}
	svc := NewTranscriptionService(q, &fakeStore{}, testConfig(), zaptest.NewLogger(t))

	resp, err := svc.Submit(context.Background(), []byte("audio-bytes"), &dto.SubmitForm{
		JobID:         "caller-chosen",
		CallbackURL:   "http://backend/cb",
		CallbackToken: "tok",
	})
	require.NoError(t, err)

	assert.Equal(t, "caller-chosen", resp.JobID)
	require.Len(t, q.enqueued, 1)
	assert.Equal(t, "http://backend/cb", q.enqueued[0].CallbackURL)
	assert.Equal(t, "tok", q.enqueued[0].CallbackToken)
}

func TestSubmitRecordsPendingBeforeEnqueue(t *testing.T) {
	var calls []string
	q := &fakeQueue{calls: &calls}
	s := &fakeStore{calls: &calls}
	svc := NewTranscriptionService(q, s, testConfig(), zaptest.NewLogger(t))

	_, err := svc.Submit(context.Background(), []byte("audio-bytes"), &dto.SubmitForm{})
	require.NoError(t, err)

	assert.Equal(t, []string{"pending", "enqueue"}, calls,
		"status must be visible before a worker can claim the job")
}

func TestResultMapsStoredStates(t *testing.T) {
	completedAt := time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC)
	s := &fakeStore{results: map[string]*model.JobResult{
		"done": {ID: "done", Status: model.StatusCompleted, Transcription: "hola mundo", CompletedAt: &completedAt},
		"bad":  {ID: "bad", Status: model.StatusFailed, Error: "engine_error: transcription failed"},
		"wip":  {ID: "wip", Status: model.StatusProcessing},
	}}
	svc := NewTranscriptionService(&fakeQueue{}, s, testConfig(), zaptest.NewLogger(t))

	done, err := svc.Result(context.Background(), "done")
	require.NoError(t, err)
	assert.Equal(t, "completed", done.Status)
	assert.Equal(t, "hola mundo", done.Transcription)
	assert.Equal(t, len("hola mundo"), done.Length)
	assert.Equal(t, "2026-08-20T10:00:00Z", done.CompletedAt)

	bad, err := svc.Result(context.Background(), "bad")
	require.NoError(t, err)
	assert.Equal(t, "failed", bad.Status)
	assert.Contains(t, bad.Error, "engine_error")
	assert.Empty(t, bad.Transcription)

	wip, err := svc.Result(context.Background(), "wip")
	require.NoError(t, err)
	assert.Equal(t, "processing", wip.Status)
	assert.Empty(t, wip.Transcription)
	assert.Empty(t, wip.Error)
}

func TestResultUnknownJob(t *testing.T) {
	svc := NewTranscriptionService(&fakeQueue{}, &fakeStore{}, testConfig(), zaptest.NewLogger(t))

	resp, err := svc.Result(context.Background(), "never-submitted")
	require.NoError(t, err)
	assert.Equal(t, "unknown", resp.Status)
	assert.Equal(t, "never-submitted", resp.JobID)
}

func TestHealthReportsConfig(t *testing.T) {
	q := &fakeQueue{depth: 7, active: 2}
	svc := NewTranscriptionService(q, &fakeStore{}, testConfig(), zaptest.NewLogger(t))

	resp, err := svc.Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, 3, resp.Workers)
	assert.Equal(t, 2, resp.ActiveWorkers, "heartbeat count, not the configured pool size")
	assert.Equal(t, int64(7), resp.Pending)
	assert.Equal(t, "whisper_server", resp.Config.Provider)
	assert.Equal(t, int64(50), resp.Config.MaxFileSizeMB)
}

func TestHealthRedisDown(t *testing.T) {
	q := &fakeQueue{pingErr: assert.AnError}
	svc := NewTranscriptionService(q, &fakeStore{}, testConfig(), zaptest.NewLogger(t))

	_, err := svc.Health(context.Background())
	require.Error(t, err)

	apiErr, ok := err.(*apierrors.APIError)
	require.True(t, ok)
	assert.Equal(t, apierrors.KindServiceUnavailable, apiErr.Kind)
}
