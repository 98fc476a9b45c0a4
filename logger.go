package flexobj

import (
	"errors"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with flexobj-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000), // Unreachable level
		})),
	}
}

// WithType adds a header type field to the logger.
func (l *Logger) WithType(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("type", name),
	}
}

// LogConstruct logs the outcome of Make.
func (l *Logger) LogConstruct(typ string, regions, size int, err error) {
	var ce *ConstructionError
	switch {
	case err == nil:
		l.Debug("composite constructed",
			"type", typ,
			"regions", regions,
			"bytes", size,
		)
	case errors.As(err, &ce):
		l.Warn("construction rolled back",
			"type", typ,
			"region", ce.Region,
			"index", ce.Index,
			"error", err,
		)
	default:
		l.Error("construction failed",
			"type", typ,
			"bytes", size,
			"error", err,
		)
	}
}

// LogDestroy logs a completed Destroy.
func (l *Logger) LogDestroy(typ string, size int) {
	l.Debug("composite destroyed",
		"type", typ,
		"bytes", size,
	)
}
