package middleware

import (
	"log/slog"
	"time"

	"github.com/quillhq/quill/internal/app"
)

// Logging logs one line per request with method, path, status, size, and
// duration. Runs after RequestID so records carry the request id attribute.
func Logging() app.Middleware {
	return func(next app.HandlerFunc) app.HandlerFunc {
		return func(c app.Context) error {
			start := time.Now()
			err := next(c)

			rw := c.ResponseWriter()
			c.LogInfo("request",
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
				slog.Int("status", rw.Status()),
				slog.Int64("bytes", rw.Size()),
				slog.Duration("duration", time.Since(start)),
			)

			return err
		}
	}
}
