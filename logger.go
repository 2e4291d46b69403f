package fvec

import (
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with fvec-specific field helpers.
// This keeps field names consistent across the adapter and the CLI.
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
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	}))
}

// WithDType adds a dtype field to the logger.
func (l *Logger) WithDType(d DType) *Logger {
	return &Logger{
		Logger: l.Logger.With("dtype", d.String()),
	}
}

// WithShape adds channels and length fields to the logger.
func (l *Logger) WithShape(channels, length int) *Logger {
	return &Logger{
		Logger: l.Logger.With("channels", channels, "length", length),
	}
}

// WithInput adds an input name field to the logger (a path or URI).
func (l *Logger) WithInput(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("input", name),
	}
}
