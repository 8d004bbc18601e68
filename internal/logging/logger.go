// SPDX-License-Identifier: EPL-2.0

package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Options describes logger construction parameters.
type Options struct {
	// Level is one of debug, info, warn, error. Anything else,
	// including empty, means info.
	Level string
	// Quiet raises the floor to warn so routine lines stay off the
	// terminal. Errors and warnings still come through.
	Quiet bool
	// Writer receives the log lines. Nil means os.Stderr, which keeps
	// stdout free for the progress output.
	Writer io.Writer
}

// New constructs a slog logger backed by the compact console handler.
func New(opts Options) *slog.Logger {
	level := parseLevel(opts.Level)
	if opts.Quiet && level < slog.LevelWarn {
		level = slog.LevelWarn
	}
	w := opts.Writer
	if w == nil {
		w = os.Stderr
	}
	return slog.New(newConsoleHandler(w, level))
}

// NewNop returns a logger that discards everything. Handy for tests and
// for wiring code that cannot fail.
func NewNop() *slog.Logger {
	return slog.New(nopHandler{})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
