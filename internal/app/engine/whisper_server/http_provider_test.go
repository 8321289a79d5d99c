package whisper_server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
)

func writeTempAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.wav")
	require.NoError(t, os.WriteFile(path, []byte("RIFF....WAVEfake audio"), 0o644))
	return path
}

func TestTranscribeSuccess(t *testing.T) {
	var gotLanguage, gotModel string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/inference", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(10<<20))

		gotLanguage = r.FormValue("language")
		gotModel = r.FormValue("model")

		_, _, err := r.FormFile("file")
		require.NoError(t, err)

		json.NewEncoder(w).Encode(inferenceResponse{
			Text:     "hola mundo",
			Language: "es",
			Duration: 3.2,
			Segments: []engine.Segment{
				{Start: 0, End: 1.5, Text: "hola"},
				{Start: 1.5, End: 3.2, Text: " mundo"},
			},
		})
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL, Model: "medium"})
	resp, err := p.Transcribe(context.Background(), engine.Request{
		AudioPath: writeTempAudio(t),
		Language:  "es",
	})
	require.NoError(t, err)

	assert.Equal(t, "hola mundo", resp.Text)
	assert.Len(t, resp.Segments, 2)
	assert.Equal(t, "es", gotLanguage)
	assert.Equal(t, "medium", gotModel)
}

func TestTranscribeDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Invalid data found when processing input"))
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	_, err := p.Transcribe(context.Background(), engine.Request{AudioPath: writeTempAudio(t)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, engine.ErrDecode), "expected decode failure, got: %v", err)
}

func TestTranscribeServerErrorIsNotDecodeFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("model crashed"))
	}))
	defer server.Close()

	p := NewProvider(Config{BaseURL: server.URL})
	_, err := p.Transcribe(context.Background(), engine.Request{AudioPath: writeTempAudio(t)})
	require.Error(t, err)
	assert.False(t, errors.Is(err, engine.ErrDecode))
}

func TestTranscribeMissingFile(t *testing.T) {
	p := NewProvider(Config{BaseURL: "http://localhost:0"})
	_, err := p.Transcribe(context.Background(), engine.Request{
		AudioPath: filepath.Join(t.TempDir(), "does-not-exist.wav"),
	})
	assert.Error(t, err)
}

func TestProviderRegistered(t *testing.T) {
	transcriber, err := engine.New(ProviderName, engine.Config{ServerURL: "http://localhost:8387"})
	require.NoError(t, err)
	assert.Equal(t, ProviderName, transcriber.Name())

	_, err = engine.New(ProviderName, engine.Config{})
	assert.Error(t, err, "server URL is required")
}
