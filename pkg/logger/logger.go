// Package logger sets up slog for both deployments: JSON records in
// production, text for local runs, with the correlation ID injected into
// every record that carries one in its context.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Options for Setup.
type Options struct {
	Level   string // debug, info, warn, error
	Console bool   // human-readable text output (LOG_FORMAT=text)
}

// Setup installs the configured handler as the slog default.
func Setup(opts Options) {
	handlerOpts := &slog.HandlerOptions{
		Level:     parseLevel(opts.Level),
		AddSource: true,
	}

	var handler slog.Handler
	if opts.Console {
		handler = slog.NewTextHandler(os.Stdout, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, handlerOpts)
	}

	slog.SetDefault(slog.New(NewCorrelationHandler(handler)))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
