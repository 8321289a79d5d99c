// Package callback delivers job outcomes to caller-supplied webhook endpoints.
// Delivery is best-effort with a small fixed retry budget; the result store
// stays the durable source of truth regardless of delivery outcome.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/metrics"
)

// Payload is the JSON body posted to the callback URL. Transcription and
// Error are mutually exclusive by status.
type Payload struct {
	JobID         string `json:"jobId"`
	Status        string `json:"status"`
	Transcription string `json:"transcription,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Completed builds the payload for a successful job.
func Completed(jobID, transcription string) Payload {
	return Payload{JobID: jobID, Status: "completed", Transcription: transcription}
}

// Failed builds the payload for a failed job.
func Failed(jobID, description string) Payload {
	return Payload{JobID: jobID, Status: "failed", Error: description}
}

// Target is where a payload is delivered.
type Target struct {
	URL   string
	Token string // optional bearer token
}

// Dispatcher posts payloads with bounded retries and a fixed backoff. It
// never returns or propagates an error: exhausted deliveries are logged and
// abandoned, so a dead backend cannot fail a job or crash a worker.
type Dispatcher struct {
	client  *http.Client
	retries int
	backoff time.Duration
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher. timeout bounds each attempt, retries is
// the total number of attempts, backoff is the fixed pause between them.
func NewDispatcher(timeout time.Duration, retries int, backoff time.Duration, logger *zap.Logger) *Dispatcher {
	if retries < 1 {
		retries = 1
	}
	return &Dispatcher{
		client:  &http.Client{Timeout: timeout},
		retries: retries,
		backoff: backoff,
		logger:  logger,
	}
}

// Deliver posts the payload to the target. Returns only after a 2xx response
// or after the retry budget is exhausted.
func (d *Dispatcher) Deliver(ctx context.Context, target Target, payload Payload) {
	logger := d.logger.With(
		zap.String("job_id", payload.JobID),
		zap.String("status", payload.Status),
		zap.String("callback_url", target.URL),
	)

	body, err := json.Marshal(payload)
	if err != nil {
		logger.Error("callback payload encoding failed", zap.Error(err))
		return
	}

	for attempt := 1; attempt <= d.retries; attempt++ {
		if d.attempt(ctx, target, body, attempt, logger) {
			metrics.CallbackAttempts.WithLabelValues("delivered").Inc()
			logger.Info("callback delivered", zap.Int("attempt", attempt))
			return
		}
		metrics.CallbackAttempts.WithLabelValues("failed").Inc()

		if attempt < d.retries {
			select {
			case <-time.After(d.backoff):
			case <-ctx.Done():
				logger.Warn("callback delivery abandoned, context cancelled")
				return
			}
		}
	}

	metrics.CallbackAttempts.WithLabelValues("exhausted").Inc()
	logger.Error("callback delivery failed definitively",
		zap.Int("attempts", d.retries),
	)
}

func (d *Dispatcher) attempt(ctx context.Context, target Target, body []byte, attempt int, logger *zap.Logger) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.URL, bytes.NewReader(body))
	if err != nil {
		logger.Warn("callback request creation failed", zap.Int("attempt", attempt), zap.Error(err))
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	if target.Token != "" {
		req.Header.Set("Authorization", "Bearer "+target.Token)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		logger.Warn("callback attempt failed", zap.Int("attempt", attempt), zap.Error(err))
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return true
	}
	logger.Warn("callback rejected",
		zap.Int("attempt", attempt),
		zap.Int("status_code", resp.StatusCode),
	)
	return false
}
