// Package logger builds the slog loggers used across Nomenclator on top of
// charmbracelet/log's handler.
package logger

import (
	"io"
	"log/slog"
	"strings"

	"github.com/charmbracelet/log"
)

// New creates a slog.Logger writing charm-formatted text to w. Every record at
// or above level is written; timestamps are reported only at debug level.
func New(w io.Writer, prefix string, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           log.Level(level),
		ReportCaller:    false,
		ReportTimestamp: level <= slog.LevelDebug,
		Formatter:       log.TextFormatter,
	})
	return slog.New(handler)
}

// NewJSON creates a slog.Logger writing one JSON object per record, for use
// when output is collected by another program.
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	handler := log.NewWithOptions(w, log.Options{
		Level:           log.Level(level),
		ReportTimestamp: true,
		Formatter:       log.JSONFormatter,
	})
	return slog.New(handler)
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// ParseLevel maps "debug", "info", "warn" and "error" to their slog levels,
// ignoring case. Anything else is treated as info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
