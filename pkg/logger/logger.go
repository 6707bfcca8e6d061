// Package logger builds slog loggers for the application: a JSON stdout
// factory, per-request context attribute extraction, and an optional Sentry
// destination for warnings and errors.
package logger

import (
	"context"
	"log/slog"
	"os"
)

// ContextExtractor pulls a request-scoped attribute out of a context.
// Returns false when the context carries no value for this extractor.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// New creates a JSON logger writing to stdout at the given level.
// Extractors run on every log call so request-scoped values (request IDs,
// user IDs) end up on each record.
func New(level slog.Level, extractors ...ContextExtractor) *slog.Logger {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(newContextHandler(h, extractors...))
}
