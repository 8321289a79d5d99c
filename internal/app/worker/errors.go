package worker

import "fmt"

// FailureKind is the closed set of ways processing a job can fail. The kind
// is baked into the stored error description so callers polling the result
// endpoint can tell the cases apart.
type FailureKind string

const (
	// KindInvalidAudio rejects payloads before the engine sees them.
	KindInvalidAudio FailureKind = "invalid_audio"
	// KindCorruptAudio means the engine rejected the container or codec.
	KindCorruptAudio FailureKind = "corrupt_audio"
	// KindEngineError covers every other transcription failure.
	KindEngineError FailureKind = "engine_error"
	// KindEmptyTranscription means the engine succeeded but yielded no text.
	KindEmptyTranscription FailureKind = "empty_transcription"
)

// ProcessingError is the typed failure returned by process(). Exactly one of
// transcription text and a ProcessingError comes out of a processing attempt.
type ProcessingError struct {
	Kind    FailureKind
	message string
	cause   error
}

// Error renders "kind: message[: cause]".
func (e *ProcessingError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.message)
}

// Unwrap returns the underlying error.
func (e *ProcessingError) Unwrap() error {
	return e.cause
}

func failuref(kind FailureKind, format string, args ...interface{}) *ProcessingError {
	return &ProcessingError{Kind: kind, message: fmt.Sprintf(format, args...)}
}

func wrapFailure(kind FailureKind, cause error, message string) *ProcessingError {
	return &ProcessingError{Kind: kind, message: message, cause: cause}
}
