// Package logging defines the structured-logging interface used across the
// client. Two implementations are provided: one over log/slog and one over
// go.uber.org/zap; config.LogBackend selects between them.
package logging

import (
	"context"
	"io"
	"strings"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "otp sent", "channel", "email", "request_id", id)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// New builds a Logger for the named backend ("slog" or "zap") writing to w
// at the given level. Unknown backends fall back to slog, unknown levels to info.
func New(backend, level string, w io.Writer) Logger {
	if strings.EqualFold(backend, "zap") {
		return NewZapLogger(level, w)
	}
	return NewSlogLoggerFor(level, w)
}

// Nop returns a logger that drops everything.
func Nop() Logger {
	return NewSlogLoggerFor("error", io.Discard)
}
