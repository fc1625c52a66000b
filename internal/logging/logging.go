// Package logging builds the slog handlers used by assocctl.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// NewTextHandler returns a charmbracelet/log handler writing to w (stderr
// when nil). Debug and trace add timestamps; trace also reports callers.
func NewTextHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{Level: log.InfoLevel}
	switch strings.ToLower(level) {
	case "trace":
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
		opts.ReportCaller = true
	case "debug":
		opts.Level = log.DebugLevel
		opts.ReportTimestamp = true
	case "warn", "warning":
		opts.Level = log.WarnLevel
	case "error":
		opts.Level = log.ErrorLevel
	}
	return log.NewWithOptions(w, opts)
}

// NewJSONHandler returns a slog JSON handler writing to w (stderr when nil).
func NewJSONHandler(level string, w io.Writer) slog.Handler {
	if w == nil {
		w = os.Stderr
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     ParseLevel(level),
		AddSource: strings.EqualFold(level, "trace"),
	})
}

// ParseLevel maps a level name to slog. Unknown names mean info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "trace", "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a logger for the CLI. JSON output switches to the JSON
// handler so machine-readable stdout is paired with machine-readable logs.
func New(level string, json bool, w io.Writer) *slog.Logger {
	if json {
		return slog.New(NewJSONHandler(level, w))
	}
	return slog.New(NewTextHandler(level, w))
}
