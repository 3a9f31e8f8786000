// Package logging owns the process-wide slog logger. Components obtain
// scoped loggers through WithComponent instead of touching slog defaults
// directly, so tests can swap the sink in one place.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

var (
	mu     sync.RWMutex
	shared *slog.Logger
)

// Logger returns the process-wide logger. The first call builds it from the
// environment:
//   - DEEPREAD_LOG_FORMAT: "json" (default) or "text"
//   - DEEPREAD_LOG_LEVEL: debug|info|warn|error
func Logger() *slog.Logger {
	mu.RLock()
	l := shared
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if shared == nil {
		shared = New(os.Stdout,
			os.Getenv("DEEPREAD_LOG_FORMAT"),
			os.Getenv("DEEPREAD_LOG_LEVEL"))
	}
	return shared
}

// SetLogger overrides the shared logger; mainly useful for tests.
func SetLogger(l *slog.Logger) {
	if l == nil {
		return
	}
	mu.Lock()
	shared = l
	mu.Unlock()
}

// WithComponent attaches a component field to the shared logger.
func WithComponent(component string) *slog.Logger {
	return Logger().With("component", component)
}

// New builds a logger writing to w with the given format and level names.
// Unknown names fall back to json at info level.
func New(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler).With("service", "deepread")
}

func parseLevel(name string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return slog.LevelInfo
	}
	return level
}
