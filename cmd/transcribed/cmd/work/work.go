// Package work runs only the worker pool, for scaling workers independently
// of the API.
package work

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobregv/interventionweb-whisper/internal/app"
	"github.com/jobregv/interventionweb-whisper/internal/app/engine"
	"github.com/jobregv/interventionweb-whisper/internal/config"
	"github.com/jobregv/interventionweb-whisper/internal/logging"
)

// Cmd represents the work command
var Cmd = &cobra.Command{
	Use:   "work",
	Short: "Run the transcription worker pool without the API",
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

	ctx, stop := context.WithCancel(context.Background())
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		sig := <-quit
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
		stop()
	}()

	application.Pool.Run(ctx)
	logger.Info("shutdown complete")
	return nil
}
