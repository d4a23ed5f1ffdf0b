package manigo

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with manigo-specific context.
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
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithNodes adds a node count field to the logger.
func (l *Logger) WithNodes(n int) *Logger {
	return &Logger{
		Logger: l.Logger.With("nodes", n),
	}
}

// WithChannels adds a channel count field to the logger.
func (l *Logger) WithChannels(c int) *Logger {
	return &Logger{
		Logger: l.Logger.With("channels", c),
	}
}

// WithK adds a cluster count field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogForward logs a forward pass.
func (l *Logger) LogForward(ctx context.Context, nodes, channels int, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "forward failed",
			"nodes", nodes,
			"channels", channels,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "forward completed",
			"nodes", nodes,
			"channels", channels,
			"duration", dur,
		)
	}
}

// LogPostprocess logs a postprocessing run.
func (l *Logger) LogPostprocess(ctx context.Context, k, slices int, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "postprocess failed",
			"k", k,
			"slices", slices,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "postprocess completed",
			"k", k,
			"slices", slices,
			"duration", dur,
		)
	}
}

// LogSave logs an artifact save.
func (l *Logger) LogSave(ctx context.Context, name string, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"artifact", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "save completed",
			"artifact", name,
			"duration", dur,
		)
	}
}

// LogLoad logs an artifact load.
func (l *Logger) LogLoad(ctx context.Context, name string, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"artifact", name,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "load completed",
			"artifact", name,
			"duration", dur,
		)
	}
}
