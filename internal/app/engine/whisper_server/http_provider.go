// Package whisper_server transcribes audio via HTTP against a faster-whisper
// sidecar exposing an /inference endpoint.
package whisper_server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	apperrors "github.com/jobregv/interventionweb-whisper/internal/app/errors"
)

const (
	// ProviderName is the registered name for this backend.
	ProviderName = "whisper_server"

	defaultInferencePath = "/inference"
	defaultTimeout       = 10 * time.Minute
)

// Config holds the sidecar connection settings.
type Config struct {
	BaseURL       string
	InferencePath string
	Model         string
	Timeout       time.Duration
}

// Provider implements engine.Transcriber against a faster-whisper sidecar.
type Provider struct {
	config Config
	client *http.Client
}

// inferenceResponse is the sidecar's JSON response shape.
type inferenceResponse struct {
	Text     string           `json:"text"`
	Language string           `json:"language,omitempty"`
	Duration float64          `json:"duration,omitempty"`
	Segments []engine.Segment `json:"segments,omitempty"`
	Error    string           `json:"error,omitempty"`
}

// NewProvider creates a sidecar-backed provider.
func NewProvider(config Config) *Provider {
	if config.InferencePath == "" {
		config.InferencePath = defaultInferencePath
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	return &Provider{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// Name returns the registered backend name.
func (p *Provider) Name() string {
	return ProviderName
}

// Transcribe uploads the audio file to the sidecar and parses the result.
// Sidecar responses indicating undecodable audio wrap engine.ErrDecode.
func (p *Provider) Transcribe(ctx context.Context, req engine.Request) (*engine.Response, error) {
	if req.AudioPath == "" {
		return nil, apperrors.New("audio path is required")
	}
	if _, err := os.Stat(req.AudioPath); err != nil {
		return nil, apperrors.Wrapf(err, "audio file not accessible: %s", req.AudioPath)
	}

	body, contentType, err := p.buildForm(req)
	if err != nil {
		return nil, apperrors.Wrap(err, "build inference form")
	}

	url := p.config.BaseURL + p.config.InferencePath
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, apperrors.Wrap(err, "create inference request")
	}
	httpReq.Header.Set("Content-Type", contentType)

	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(err, "inference request failed")
	}
	defer resp.Body.Close()

	responseData, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.Wrap(err, "read inference response")
	}

	if resp.StatusCode != http.StatusOK {
		detail := strings.TrimSpace(string(responseData))
		if isDecodeFailure(resp.StatusCode, detail) {
			return nil, apperrors.Wrapf(engine.ErrDecode, "sidecar returned status %d: %s", resp.StatusCode, detail)
		}
		return nil, apperrors.Newf("sidecar returned status %d: %s", resp.StatusCode, detail)
	}

	var parsed inferenceResponse
	if err := json.Unmarshal(responseData, &parsed); err != nil {
		return nil, apperrors.Wrap(err, "parse inference response")
	}
	if parsed.Error != "" {
		if isDecodeFailure(resp.StatusCode, parsed.Error) {
			return nil, apperrors.Wrap(engine.ErrDecode, parsed.Error)
		}
		return nil, apperrors.Newf("sidecar error: %s", parsed.Error)
	}

	return &engine.Response{
		Text:     parsed.Text,
		Segments: parsed.Segments,
		Duration: parsed.Duration,
		Language: parsed.Language,
	}, nil
}

// isDecodeFailure distinguishes "your audio is garbage" from operational
// failures. ffmpeg-based decoders report the former as "Invalid data found
// when processing input".
func isDecodeFailure(status int, detail string) bool {
	if status >= http.StatusInternalServerError {
		return false
	}
	lower := strings.ToLower(detail)
	return strings.Contains(lower, "invalid data found") ||
		strings.Contains(lower, "could not decode") ||
		strings.Contains(lower, "unsupported format")
}

func (p *Provider) buildForm(req engine.Request) (*bytes.Buffer, string, error) {
	file, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create file field: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}

	fields := map[string]string{
		"response_format": "json",
	}
	if p.config.Model != "" {
		fields["model"] = p.config.Model
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", key, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("finalize form: %w", err)
	}
	return body, writer.FormDataContentType(), nil
}
