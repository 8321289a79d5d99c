package callback

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type recordingServer struct {
	*httptest.Server

	mu       sync.Mutex
	times    []time.Time
	payloads []Payload
	headers  []http.Header
}

// newRecordingServer records every request and answers with status.
func newRecordingServer(t *testing.T, status int) *recordingServer {
	rs := &recordingServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p Payload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))

		rs.mu.Lock()
		rs.times = append(rs.times, time.Now())
		rs.payloads = append(rs.payloads, p)
		rs.headers = append(rs.headers, r.Header.Clone())
		rs.mu.Unlock()

		w.WriteHeader(status)
	}))
	t.Cleanup(rs.Close)
	return rs
}

func (rs *recordingServer) attempts() int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return len(rs.times)
}

func TestDeliverSucceedsFirstAttempt(t *testing.T) {
	server := newRecordingServer(t, http.StatusOK)
	d := NewDispatcher(time.Second, 2, 50*time.Millisecond, zaptest.NewLogger(t))

	d.Deliver(context.Background(), Target{URL: server.URL}, Completed("job-1", "hola"))

	assert.Equal(t, 1, server.attempts())
	assert.Equal(t, "completed", server.payloads[0].Status)
	assert.Equal(t, "hola", server.payloads[0].Transcription)
	assert.Empty(t, server.payloads[0].Error)
}

func TestDeliverExhaustsRetriesOnPersistent500(t *testing.T) {
	server := newRecordingServer(t, http.StatusInternalServerError)
	backoff := 80 * time.Millisecond
	d := NewDispatcher(time.Second, 2, backoff, zaptest.NewLogger(t))

	// Must return without raising after exactly 2 attempts.
	d.Deliver(context.Background(), Target{URL: server.URL}, Failed("job-2", "engine_error: boom"))

	require.Equal(t, 2, server.attempts())
	spacing := server.times[1].Sub(server.times[0])
	assert.GreaterOrEqual(t, spacing, backoff, "attempts must be spaced by the configured backoff")
}

func TestDeliverBearerToken(t *testing.T) {
	server := newRecordingServer(t, http.StatusOK)
	d := NewDispatcher(time.Second, 2, time.Millisecond, zaptest.NewLogger(t))

	d.Deliver(context.Background(), Target{URL: server.URL, Token: "secret-token"}, Completed("job-3", "text"))

	require.Equal(t, 1, server.attempts())
	assert.Equal(t, "Bearer secret-token", server.headers[0].Get("Authorization"))
	assert.Equal(t, "application/json", server.headers[0].Get("Content-Type"))
}

func TestDeliverNoTokenNoAuthorizationHeader(t *testing.T) {
	server := newRecordingServer(t, http.StatusOK)
	d := NewDispatcher(time.Second, 1, time.Millisecond, zaptest.NewLogger(t))

	d.Deliver(context.Background(), Target{URL: server.URL}, Completed("job-4", "text"))

	require.Equal(t, 1, server.attempts())
	assert.Empty(t, server.headers[0].Get("Authorization"))
}

func TestDeliverUnreachableTargetDoesNotPanic(t *testing.T) {
	d := NewDispatcher(100*time.Millisecond, 2, time.Millisecond, zaptest.NewLogger(t))

	assert.NotPanics(t, func() {
		d.Deliver(context.Background(), Target{URL: "http://127.0.0.1:1"}, Failed("job-5", "boom"))
	})
}

func TestDeliverStopsOnCancelledContext(t *testing.T) {
	server := newRecordingServer(t, http.StatusInternalServerError)
	d := NewDispatcher(time.Second, 5, time.Hour, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Deliver(ctx, Target{URL: server.URL}, Failed("job-6", "boom"))
		close(done)
	}()

	// Let the first attempt land, then cancel during the backoff.
	require.Eventually(t, func() bool { return server.attempts() == 1 }, time.Second, 10*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Deliver did not return after context cancellation")
	}
	assert.Equal(t, 1, server.attempts())
}

func TestPayloadFieldsMutuallyExclusive(t *testing.T) {
	completed := Completed("id", "text")
	assert.Empty(t, completed.Error)
	assert.Equal(t, "text", completed.Transcription)

	failed := Failed("id", "reason")
	assert.Empty(t, failed.Transcription)
	assert.Equal(t, "reason", failed.Error)

	data, err := json.Marshal(failed)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "transcription", "omitempty keeps absent fields out of the wire payload")
}
