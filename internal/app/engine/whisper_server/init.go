package whisper_server

import (
	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	apperrors "github.com/jobregv/interventionweb-whisper/internal/app/errors"
)

func init() {
	engine.Register(ProviderName, func(cfg engine.Config) (engine.Transcriber, error) {
		if cfg.ServerURL == "" {
			return nil, apperrors.New("whisper_server provider requires a server URL")
		}
		return NewProvider(Config{
			BaseURL: cfg.ServerURL,
			Model:   cfg.Model,
		}), nil
	})
}
