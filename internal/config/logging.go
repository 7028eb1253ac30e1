package config

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger builds the application logger from the logging configuration.
// Development mode forces debug level and text output for readable local
// logs.
func NewLogger(cfg LoggingConfig) *slog.Logger {
	return NewLoggerWithWriter(cfg, os.Stdout)
}

// NewLoggerWithWriter is NewLogger with an explicit sink, used by tests.
func NewLoggerWithWriter(cfg LoggingConfig, w io.Writer) *slog.Logger {
	level := parseLevel(cfg.Level)
	format := cfg.Format
	if cfg.Development {
		level = slog.LevelDebug
		format = "text"
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch level {
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
