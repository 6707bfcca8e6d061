package logger

import (
	"io"
	"log/slog"
)

// NewDiscard creates a logger that drops all output.
// Used as the default before logging is configured, and in tests.
func NewDiscard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
