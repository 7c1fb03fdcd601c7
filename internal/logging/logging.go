// Package logging builds the CLI's structured logger and carries it through
// contexts.
package logging

import (
	"context"
	"io"
	"log/slog"
)

type contextKey struct{}

// New returns a text logger writing to w. Debug records are emitted only when
// verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// ContextWithLogger returns a derived context that carries the provided logger.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}

	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext extracts a logger previously attached to the context. It never
// returns nil; without one attached, records are discarded.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(*slog.Logger); ok {
			return logger
		}
	}

	return slog.New(slog.DiscardHandler)
}
