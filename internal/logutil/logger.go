// Package logutil holds the process-wide structured logger. It is silent
// until the CLI (or an embedding host) installs a handler.
package logutil

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

var (
	mu           sync.RWMutex
	globalLogger *slog.Logger
)

func init() {
	globalLogger = slog.New(slog.DiscardHandler)
}

// Debug logs at LevelDebug using the process-wide logger.
func Debug(msg string, args ...any) {
	Default().Debug(msg, args...)
}

// DebugContext logs at LevelDebug with context using the process-wide logger.
func DebugContext(ctx context.Context, msg string, args ...any) {
	Default().DebugContext(ctx, msg, args...)
}

// Info logs at LevelInfo using the process-wide logger.
func Info(msg string, args ...any) {
	Default().Info(msg, args...)
}

// Warn logs at LevelWarn using the process-wide logger.
func Warn(msg string, args ...any) {
	Default().Warn(msg, args...)
}

// WarnContext logs at LevelWarn with context using the process-wide logger.
func WarnContext(ctx context.Context, msg string, args ...any) {
	Default().WarnContext(ctx, msg, args...)
}

// Error logs at LevelError using the process-wide logger.
func Error(msg string, args ...any) {
	Default().Error(msg, args...)
}

// Default returns the current process-wide logger, analogous to slog.Default.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return globalLogger
}

// SetDefault sets the process-wide logger. A nil logger restores the
// silent default.
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()

	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	globalLogger = logger
}

// Install is the CLI entry point: text records to w, debug level when
// verbose, warnings and above otherwise.
func Install(w io.Writer, verbose bool) {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}
