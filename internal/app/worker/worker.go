// Package worker runs the transcription worker pool: claim a job, materialize
// its audio, run the engine, store exactly one terminal result, notify the
// callback target, acknowledge the delivery.
package worker

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/app/callback"
	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	"github.com/jobregv/interventionweb-whisper/internal/app/model"
	"github.com/jobregv/interventionweb-whisper/internal/app/sniff"
	"github.com/jobregv/interventionweb-whisper/internal/metrics"
)

// Payloads below this size cannot be real audio; reject before engine work.
const minAudioBytes = 100

// finishTimeout bounds the terminal result write and the callback. It is
// independent of the processing ceiling: an engine that overran the ceiling
// must still end with a stored failed status, and must leave room for the
// callback retry budget.
const finishTimeout = 2 * time.Minute

// ResultStore is the slice of the job store the worker writes to.
type ResultStore interface {
	MarkProcessing(ctx context.Context, jobID string) error
	Complete(ctx context.Context, jobID, transcription string) error
	Fail(ctx context.Context, jobID, description string) error
}

// Notifier delivers job outcomes to callback targets. Implementations never
// return errors; delivery failure is not the worker's problem.
type Notifier interface {
	Deliver(ctx context.Context, target callback.Target, payload callback.Payload)
}

// EngineFactory builds the transcription engine. Each worker calls it at most
// once and owns the returned instance for its lifetime, mirroring the cost of
// loading a model per execution context.
type EngineFactory func() (engine.Transcriber, error)

// Config carries the per-worker processing settings.
type Config struct {
	Concurrency int
	TimeLimit   time.Duration
	TempDir     string
	Language    string
}

// Worker processes one job at a time.
type Worker struct {
	id        string
	cfg       Config
	store     ResultStore
	notifier  Notifier
	newEngine EngineFactory
	engine    engine.Transcriber
	logger    *zap.Logger
}

// NewWorker creates a worker with its own lazily-initialized engine slot.
func NewWorker(id string, cfg Config, store ResultStore, notifier Notifier, newEngine EngineFactory, logger *zap.Logger) *Worker {
	return &Worker{
		id:        id,
		cfg:       cfg,
		store:     store,
		notifier:  notifier,
		newEngine: newEngine,
		logger:    logger.With(zap.String("worker_id", id)),
	}
}

// transcriber returns the worker's engine, building it on first use. The
// worker runs jobs sequentially so no locking is needed.
func (w *Worker) transcriber() (engine.Transcriber, error) {
	if w.engine != nil {
		return w.engine, nil
	}

	start := time.Now()
	eng, err := w.newEngine()
	if err != nil {
		return nil, err
	}
	w.engine = eng
	w.logger.Info("engine initialized",
		zap.String("provider", eng.Name()),
		zap.Duration("load_time", time.Since(start)),
	)
	return eng, nil
}

// Handle runs the full lifecycle for one claimed job: processing status,
// process(), one terminal result write, and the callback if one was
// requested. It deliberately does not take the pool's context: once a job is
// claimed it runs to its terminal state (bounded by the processing ceiling)
// even during shutdown.
func (w *Worker) Handle(job *model.Job) {
	logger := w.logger.With(zap.String("job_id", job.ID))
	start := time.Now()
	logger.Info("processing started", zap.Int("payload_bytes", len(job.Audio)))

	procCtx, cancelProc := context.WithTimeout(context.Background(), w.cfg.TimeLimit)
	defer cancelProc()

	if err := w.store.MarkProcessing(procCtx, job.ID); err != nil {
		logger.Warn("failed to record processing status", zap.Error(err))
	}

	text, perr := w.process(procCtx, job)

	// The processing deadline may already be exhausted here. The terminal
	// write and the callback run on their own context so an overrunning
	// engine cannot strand the job at "processing" after it is acked.
	ctx, cancel := context.WithTimeout(context.Background(), finishTimeout)
	defer cancel()

	// Terminal state is fixed before any callback is attempted and is
	// independent of callback outcome.
	if perr != nil {
		description := perr.Error()
		logger.Error("processing failed",
			zap.String("kind", string(perr.Kind)),
			zap.Error(perr),
			zap.Duration("elapsed", time.Since(start)),
		)
		if err := w.store.Fail(ctx, job.ID, description); err != nil {
			logger.Error("failed to store failed result", zap.Error(err))
		}
		metrics.JobsProcessed.WithLabelValues(string(model.StatusFailed)).Inc()

		if job.HasCallback() {
			w.notifier.Deliver(ctx, callback.Target{URL: job.CallbackURL, Token: job.CallbackToken},
				callback.Failed(job.ID, description))
		}
	} else {
		logger.Info("processing completed",
			zap.Int("transcription_chars", len(text)),
			zap.Duration("elapsed", time.Since(start)),
		)
		if err := w.store.Complete(ctx, job.ID, text); err != nil {
			logger.Error("failed to store completed result", zap.Error(err))
		}
		metrics.JobsProcessed.WithLabelValues(string(model.StatusCompleted)).Inc()

		if job.HasCallback() {
			w.notifier.Deliver(ctx, callback.Target{URL: job.CallbackURL, Token: job.CallbackToken},
				callback.Completed(job.ID, text))
		}
	}

	metrics.ProcessingDuration.Observe(time.Since(start).Seconds())
}

// process turns the job's audio into text or exactly one typed failure. The
// temp file is released on every exit path. Safe to repeat on redelivery: the
// only externally visible effects are the result write and callback, both
// owned by Handle.
func (w *Worker) process(ctx context.Context, job *model.Job) (string, *ProcessingError) {
	if len(job.Audio) < minAudioBytes {
		return "", failuref(KindInvalidAudio, "audio payload too small: %d bytes", len(job.Audio))
	}

	format, matched := sniff.Detect(job.Audio)
	if !matched {
		w.logger.Warn("audio format not recognized, assuming webm", zap.String("job_id", job.ID))
	}

	tmp, err := materializeAudio(w.cfg.TempDir, job.Audio, format.Ext())
	if err != nil {
		return "", wrapFailure(KindEngineError, err, "materialize audio")
	}
	defer tmp.cleanup(w.logger)

	eng, err := w.transcriber()
	if err != nil {
		return "", wrapFailure(KindEngineError, err, "initialize engine")
	}

	resp, err := eng.Transcribe(ctx, engine.Request{
		AudioPath: tmp.path,
		Language:  w.cfg.Language,
	})
	if err != nil {
		if errors.Is(err, engine.ErrDecode) {
			return "", wrapFailure(KindCorruptAudio, err, "audio corrupt or format not decodable")
		}
		return "", wrapFailure(KindEngineError, err, "transcription failed")
	}

	text := joinSegments(resp)
	if text == "" {
		return "", failuref(KindEmptyTranscription, "engine produced no text")
	}
	return text, nil
}

// joinSegments concatenates segment texts in engine-yielded order, falling
// back to the flat text for backends without segments.
func joinSegments(resp *engine.Response) string {
	if len(resp.Segments) == 0 {
		return strings.TrimSpace(resp.Text)
	}
	texts := lo.Map(resp.Segments, func(s engine.Segment, _ int) string {
		return s.Text
	})
	return strings.TrimSpace(strings.Join(texts, ""))
}
