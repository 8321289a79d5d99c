// Package logging builds the process-wide zap logger.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a zap logger. Production environments get JSON output;
// anything else gets the colored development console.
func NewLogger(level, environment string) (*zap.Logger, error) {
	var config zap.Config

	if environment == "production" {
		config = zap.NewProductionConfig()
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	parsed, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	config.Level = zap.NewAtomicLevelAt(parsed)

	return config.Build()
}

// MustNewLogger creates a logger and panics if it fails
func MustNewLogger(level, environment string) *zap.Logger {
	logger, err := NewLogger(level, environment)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	return logger
}
