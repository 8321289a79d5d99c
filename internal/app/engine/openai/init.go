package openai

import (
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	apperrors "github.com/jobregv/interventionweb-whisper/internal/app/errors"
)

func init() {
	engine.Register(ProviderName, func(cfg engine.Config) (engine.Transcriber, error) {
		if cfg.APIKey == "" {
			return nil, apperrors.New("openai provider requires OPENAI_API_KEY")
		}
		return NewProvider(goopenai.NewClient(cfg.APIKey)), nil
	})
}
