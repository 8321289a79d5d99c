// Package openai transcribes audio through the OpenAI Whisper API. It is the
// fallback backend for deployments without a local faster-whisper sidecar.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	apperrors "github.com/jobregv/interventionweb-whisper/internal/app/errors"
)

// ProviderName is the registered name for this backend.
const ProviderName = "openai"

// Provider implements engine.Transcriber using the OpenAI API.
type Provider struct {
	client *openai.Client
}

// NewProvider creates an OpenAI-backed provider.
func NewProvider(client *openai.Client) *Provider {
	return &Provider{client: client}
}

// Name returns the registered backend name.
func (p *Provider) Name() string {
	return ProviderName
}

// Transcribe sends the audio file to the Whisper API. Requests rejected for
// undecodable audio wrap engine.ErrDecode.
func (p *Provider) Transcribe(ctx context.Context, req engine.Request) (*engine.Response, error) {
	audioReq := openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: req.AudioPath,
		Language: req.Language,
	}

	resp, err := p.client.CreateTranscription(ctx, audioReq)
	if err != nil {
		if isDecodeFailure(err) {
			return nil, apperrors.Wrap(engine.ErrDecode, err.Error())
		}
		return nil, apperrors.Wrap(err, "createTranscription failed")
	}

	return &engine.Response{Text: resp.Text}, nil
}

// isDecodeFailure reports whether the API rejected the upload as unreadable
// audio rather than failing operationally.
func isDecodeFailure(err error) bool {
	var apiErr *openai.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.HTTPStatusCode != http.StatusBadRequest {
		return false
	}
	msg := strings.ToLower(apiErr.Message)
	return strings.Contains(msg, "invalid file format") ||
		strings.Contains(msg, "could not be decoded") ||
		strings.Contains(msg, "corrupted")
}
