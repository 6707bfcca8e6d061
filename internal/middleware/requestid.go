// Package middleware holds the global request middleware: request IDs,
// panic recovery, and request logging.
package middleware

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/pkg/logger"
)

// requestIDKey is the context key for the request ID.
type requestIDKey struct{}

// requestIDHeaders are checked in order for an upstream-assigned ID.
var requestIDHeaders = []string{"X-Request-ID", "X-Request-Id", "X-Correlation-ID"}

// RequestID assigns a unique ID to each request. An ID arriving on a known
// header is preserved so upstream traces stay connected; otherwise a UUID is
// generated. The ID is stored in the context and echoed on X-Request-ID.
func RequestID() app.Middleware {
	return func(next app.HandlerFunc) app.HandlerFunc {
		return func(c app.Context) error {
			var reqID string
			for _, header := range requestIDHeaders {
				if v := c.Header(header); v != "" {
					reqID = v
					break
				}
			}
			if reqID == "" {
				reqID = uuid.NewString()
			}

			c.Set(requestIDKey{}, reqID)
			c.SetHeader("X-Request-ID", reqID)

			return next(c)
		}
	}
}

// GetRequestID extracts the request ID from the context, or "".
func GetRequestID(c app.Context) string {
	if v, ok := c.Get(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

// RequestIDExtractor adds "request_id" to all log records emitted with a
// request context. For use with logger.New.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		if v, ok := ctx.Value(requestIDKey{}).(string); ok && v != "" {
			return slog.String("request_id", v), true
		}
		return slog.Attr{}, false
	}
}
