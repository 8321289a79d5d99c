// Package serve runs the API server and the worker pool in one process.
package serve

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/app"
	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	"github.com/jobregv/interventionweb-whisper/internal/config"
	"github.com/jobregv/interventionweb-whisper/internal/logging"
)

const shutdownTimeout = 30 * time.Second

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the transcription worker pool",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.MustNewLogger(cfg.LogLevel, cfg.Environment)
	defer logger.Sync()

	logger.Info("starting",
		zap.String("provider", cfg.Whisper.Provider),
		zap.Strings("engines", engine.Registered()),
	)

	application, cleanup, err := app.InitializeApp(cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize: %w", err)
	}
	defer cleanup()

	poolCtx, stopPool := context.WithCancel(context.Background())
	poolDone := make(chan struct{})
	go func() {
		defer close(poolDone)
		application.Pool.Run(poolCtx)
	}()

	serverErr := application.Server.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server failed", zap.Error(err))
		stopPool()
		<-poolDone
		return err
	}

	// Stop claiming new jobs first; in-flight jobs run to their terminal
	// state before the pool exits.
	stopPool()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := application.Server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	select {
	case <-poolDone:
	case <-time.After(shutdownTimeout):
		logger.Warn("worker pool did not drain in time")
	}

	logger.Info("shutdown complete")
	return nil
}
