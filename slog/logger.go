// Package slog provides the process-wide logger shared by the SDK.
// The logger is silent by default: first access installs a discard sink
// unless the PYRIP_LOGGING_LEVEL environment variable selects a console
// level. Explicit configuration via Configure swaps the sink exactly once
// per call, so repeated setup never attaches duplicate handlers.
package slog

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// EnvLoggingLevel is the environment variable consulted on first access.
// Recognized values: DEBUG, INFO, WARNING, ERROR, CRITICAL.
const EnvLoggingLevel = "PYRIP_LOGGING_LEVEL"

var (
	mu     sync.Mutex
	once   sync.Once
	logger *slog.Logger
)

// Default returns the shared logger, installing a sink on first access.
// With PYRIP_LOGGING_LEVEL unset the sink discards everything; otherwise
// a leveled text handler writing to stderr is installed.
func Default() *slog.Logger {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		if logger != nil {
			// Configure ran before first Default access.
			return
		}
		env := strings.ToUpper(os.Getenv(EnvLoggingLevel))
		if env == "" {
			logger = slog.New(slog.NewTextHandler(io.Discard, nil))
			return
		}
		level, ok := parseLevel(env)
		logger = newConsole(os.Stderr, level)
		if !ok {
			logger.Warn("unknown logging level, defaulting to INFO", "value", env)
		}
	})
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Configure replaces the shared sink with a leveled text handler writing
// to w. Safe to call at any time; later Default calls return the new logger.
func Configure(w io.Writer, level slog.Level) {
	mu.Lock()
	defer mu.Unlock()
	logger = newConsole(w, level)
}

func newConsole(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "DEBUG":
		return slog.LevelDebug, true
	case "INFO":
		return slog.LevelInfo, true
	case "WARNING":
		return slog.LevelWarn, true
	case "ERROR", "CRITICAL":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}
