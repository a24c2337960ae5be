package logger

import (
	"context"
	"log/slog"
)

// contextKey is an unexported type used as the key for the logger stored in
// a context. Using a dedicated type prevents collisions with keys set by
// other packages.
type contextKey struct{}

// WithLogger returns a copy of the context carrying the given logger.
// Handlers and background operations attach request-scoped attributes
// (correlation IDs, account phones) and pass the enriched logger down
// through the context.
func WithLogger(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, log)
}

// FromContext returns the logger stored in the context, or the process
// default logger when none is present. It never returns nil.
func FromContext(ctx context.Context) *slog.Logger {
	if log, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	return slog.Default()
}
