//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/config"
)

// InitializeApp wires the full service. The returned cleanup closes the Redis
// client.
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		provideRedisClient,
		provideQueue,
		provideResultStore,
		provideDispatcher,
		provideEngineFactory,
		provideWorkerConfig,
		providePool,
		provideTranscriptionService,
		provideServer,
		newApp,
	)
	return nil, nil, nil
}
