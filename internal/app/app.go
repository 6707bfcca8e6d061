package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quillhq/quill/pkg/health"
	"github.com/quillhq/quill/pkg/logger"
)

// App orchestrates the application: routing, middleware, sessions, error
// handling, and graceful shutdown. Immutable after New.
type App struct {
	router          chi.Router
	logger          *slog.Logger
	sessionManager  *SessionManager
	errorHandler    ErrorHandler
	notFoundHandler HandlerFunc
	healthConfig    *healthConfig
	middlewares     []Middleware
	handlers        []Handler
}

// New creates an application with the given options.
//
// Example:
//
//	a := app.New(
//	    app.WithLogger(log),
//	    app.WithSessionManager(sm),
//	    app.WithHandlers(
//	        handlers.NewAuth(users),
//	        handlers.NewPosts(posts, users),
//	    ),
//	)
func New(opts ...Option) *App {
	a := &App{
		router: chi.NewRouter(),
		logger: logger.NewDiscard(),
	}

	for _, opt := range opts {
		opt(a)
	}

	a.setupRoutes()
	return a
}

// Router returns the underlying chi router, mainly for tests.
func (a *App) Router() chi.Router {
	return a.router
}

// Run starts the HTTP server and blocks until shutdown.
func (a *App) Run(addr string, opts ...RunOption) error {
	cfg := buildRunConfig(opts...)
	if cfg.logger == nil {
		cfg.logger = a.logger
	}
	return runServer(a.router, addr, cfg)
}

// setupRoutes applies middleware and registers all handlers on the router.
func (a *App) setupRoutes() {
	if a.notFoundHandler != nil {
		a.router.NotFound(a.wrapHandler(a.notFoundHandler))
	}

	for _, mw := range a.middlewares {
		a.router.Use(a.adaptMiddleware(mw))
	}

	if a.healthConfig != nil {
		a.router.Get(a.healthConfig.livenessPath, health.LivenessHandler())
		a.router.Get(a.healthConfig.readinessPath, health.ReadinessHandler(a.healthConfig.checks, health.WithLogger(a.logger)))
	}

	r := &routerAdapter{router: a.router, app: a}
	for _, h := range a.handlers {
		h.Routes(r)
	}
}

// wrapHandler converts a HandlerFunc to http.HandlerFunc using the app's
// error handler.
func (a *App) wrapHandler(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := newContext(w, r, a.logger, a.sessionManager)
		if err := h(c); err != nil {
			a.handleError(c, err)
		}
	}
}

// handleError routes handler errors through the configured error handler.
func (a *App) handleError(c Context, err error) {
	if c.Written() {
		return
	}
	if a.errorHandler != nil {
		_ = a.errorHandler(c, err)
		return
	}
	http.Error(c.Response(), "Internal Server Error", http.StatusInternalServerError)
}

// healthConfig holds probe endpoint configuration.
type healthConfig struct {
	checks        health.Checks
	livenessPath  string
	readinessPath string
}

const (
	defaultLivenessPath  = "/health/live"
	defaultReadinessPath = "/health/ready"
)
