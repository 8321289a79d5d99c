package worker

import (
	"fmt"
	"os"

	"go.uber.org/zap"
)

// tempAudio is a scoped temporary audio file. The owner must call cleanup on
// every exit path; cleanup failures are logged, never fatal.
type tempAudio struct {
	path string
}

// materializeAudio writes the payload to a fresh temp file carrying the
// sniffed extension, which the engine uses to pick a demuxer.
func materializeAudio(dir string, data []byte, ext string) (*tempAudio, error) {
	f, err := os.CreateTemp(dir, "audio-*"+ext)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return nil, fmt.Errorf("close temp file: %w", err)
	}
	return &tempAudio{path: f.Name()}, nil
}

func (t *tempAudio) cleanup(logger *zap.Logger) {
	if err := os.Remove(t.path); err != nil && !os.IsNotExist(err) {
		logger.Warn("temp file cleanup failed",
			zap.String("path", t.path),
			zap.Error(err),
		)
	}
}
