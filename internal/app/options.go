package app

import (
	"log/slog"

	"github.com/quillhq/quill/pkg/health"
)

// Option configures the application.
type Option func(*App)

// WithLogger sets the application logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMiddleware adds global middleware, applied in the order given.
func WithMiddleware(mw ...Middleware) Option {
	return func(a *App) {
		a.middlewares = append(a.middlewares, mw...)
	}
}

// WithHandlers registers handlers; each handler's Routes method is called
// during setup.
func WithHandlers(h ...Handler) Option {
	return func(a *App) {
		a.handlers = append(a.handlers, h...)
	}
}

// WithSessionManager wires the session manager into request contexts.
func WithSessionManager(sm *SessionManager) Option {
	return func(a *App) {
		a.sessionManager = sm
	}
}

// WithErrorHandler sets the handler invoked when a route handler returns a
// non-nil error.
func WithErrorHandler(h ErrorHandler) Option {
	return func(a *App) {
		a.errorHandler = h
	}
}

// WithNotFoundHandler sets a custom handler for unmatched routes.
func WithNotFoundHandler(h HandlerFunc) Option {
	return func(a *App) {
		a.notFoundHandler = h
	}
}

// WithHealth enables the liveness and readiness probe endpoints.
func WithHealth(checks health.Checks) Option {
	return func(a *App) {
		a.healthConfig = &healthConfig{
			checks:        checks,
			livenessPath:  defaultLivenessPath,
			readinessPath: defaultReadinessPath,
		}
	}
}
