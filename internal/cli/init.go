// Package cli provides common initialization utilities for cmd/pouch.
package cli

import (
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"moneypouch/internal/config"
	"moneypouch/internal/log"
)

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// SetupLogger initializes structured logging at the configured level
// and sets it as the process default.
func SetupLogger(cfg *config.Config) *log.Logger {
	logger := log.New(parseLevel(cfg.LogLevel), log.ComponentApp)
	log.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
