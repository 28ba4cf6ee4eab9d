// Package logging defines a minimal structured-logging interface used across
// the project, with slog and logrus backends.
package logging

import (
	"context"
	"io"
	"log/slog"

	"github.com/sirupsen/logrus"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "starting server", "addr", addr, "mode", mode)
type Logger interface {
	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Supported values for New's format argument.
const (
	FormatJSON   = "json"
	FormatText   = "text"
	FormatLogrus = "logrus"
)

// New builds a Logger writing to w. Unknown formats fall back to slog JSON.
func New(format string, w io.Writer) Logger {
	switch format {
	case FormatText:
		return NewSlogLogger(slog.New(slog.NewTextHandler(w, nil)))
	case FormatLogrus:
		l := logrus.New()
		l.SetOutput(w)
		l.SetFormatter(&logrus.JSONFormatter{})
		return NewLogrusLogger(l)
	default:
		return NewSlogLogger(slog.New(slog.NewJSONHandler(w, nil)))
	}
}
