// Package engine defines the transcription engine contract. The worker treats
// an engine as an opaque function from an audio file to text; concrete
// backends live in subpackages and register themselves by name.
package engine

import (
	"context"

	"github.com/jobregv/interventionweb-whisper/internal/app/errors"
)

// ErrDecode is wrapped by providers when the engine rejects the audio
// container or codec, as opposed to failing for operational reasons. The
// worker maps it to the corrupt-audio failure kind.
var ErrDecode = errors.New("engine could not decode audio data")

// Request holds the parameters for one transcription call.
type Request struct {
	// AudioPath is the path of the materialized audio file.
	AudioPath string
	// Language is the expected language hint (e.g. "es").
	Language string
}

// Segment is one time-aligned portion of the transcript, in engine order.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Response is the engine output. Segments may be empty for backends that only
// return flat text; Text is always populated.
type Response struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	Duration float64   `json:"duration,omitempty"`
	Language string    `json:"language,omitempty"`
}

// Config carries the engine settings shared by all backends. Fields a backend
// does not understand are ignored.
type Config struct {
	Model       string
	Device      string
	ComputeType string
	ServerURL   string
	APIKey      string
}

// Transcriber is implemented by transcription backends.
type Transcriber interface {
	// Name returns the backend's registered name.
	Name() string
	// Transcribe converts the audio file at req.AudioPath to text. Decode
	// failures wrap ErrDecode; anything else is an operational failure.
	Transcribe(ctx context.Context, req Request) (*Response, error)
}
