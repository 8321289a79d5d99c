// Package app assembles the transcription service: Redis-backed queue and
// result store, the HTTP API, and the worker pool.
package app

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/api/server"
	"github.com/jobregv/interventionweb-whisper/internal/api/v1/services"
	"github.com/jobregv/interventionweb-whisper/internal/app/callback"
	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	"github.com/jobregv/interventionweb-whisper/internal/app/queue"
	"github.com/jobregv/interventionweb-whisper/internal/app/store"
	"github.com/jobregv/interventionweb-whisper/internal/app/worker"
	"github.com/jobregv/interventionweb-whisper/internal/config"
)

// App bundles the two long-running halves of the service. The serve command
// runs both; the work command runs only the pool.
type App struct {
	Server *server.Server
	Pool   *worker.Pool
}

func newApp(srv *server.Server, pool *worker.Pool) *App {
	return &App{Server: srv, Pool: pool}
}

func provideRedisClient(cfg *config.Config) (*redis.Client, func(), error) {
	opts, err := cfg.RedisOptions()
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opts)
	cleanup := func() { _ = client.Close() }
	return client, cleanup, nil
}

func provideQueue(client *redis.Client, cfg *config.Config, logger *zap.Logger) *queue.Queue {
	return queue.New(client, cfg.Worker.TimeLimit, logger)
}

func provideResultStore(client *redis.Client, cfg *config.Config) *store.ResultStore {
	return store.New(client, cfg.ResultTTL)
}

func provideDispatcher(cfg *config.Config, logger *zap.Logger) *callback.Dispatcher {
	return callback.NewDispatcher(cfg.Callback.Timeout, cfg.Callback.Retries, cfg.Callback.Backoff, logger)
}

// provideEngineFactory defers engine construction to the worker, which loads
// it on first use. The provider is looked up in the registry populated by the
// binary's blank imports.
func provideEngineFactory(cfg *config.Config) worker.EngineFactory {
	return func() (engine.Transcriber, error) {
		return engine.New(cfg.Whisper.Provider, engine.Config{
			Model:       cfg.Whisper.Model,
			Device:      cfg.Whisper.Device,
			ComputeType: cfg.Whisper.ComputeType,
			ServerURL:   cfg.Whisper.ServerURL,
			APIKey:      cfg.Whisper.OpenAIKey,
		})
	}
}

func provideWorkerConfig(cfg *config.Config) worker.Config {
	return worker.Config{
		Concurrency: cfg.Worker.Concurrency,
		TimeLimit:   cfg.Worker.TimeLimit,
		TempDir:     cfg.TempDir,
		Language:    cfg.Whisper.Language,
	}
}

func providePool(
	workerCfg worker.Config,
	q *queue.Queue,
	resultStore *store.ResultStore,
	dispatcher *callback.Dispatcher,
	factory worker.EngineFactory,
	logger *zap.Logger,
) *worker.Pool {
	return worker.NewPool(workerCfg, q, resultStore, dispatcher, factory, logger)
}

func provideTranscriptionService(
	q *queue.Queue,
	resultStore *store.ResultStore,
	cfg *config.Config,
	logger *zap.Logger,
) services.TranscriptionService {
	return services.NewTranscriptionService(q, resultStore, cfg, logger)
}

func provideServer(cfg *config.Config, svc services.TranscriptionService, logger *zap.Logger) *server.Server {
	return server.NewServer(cfg, svc, logger)
}
