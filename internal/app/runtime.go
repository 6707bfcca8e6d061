package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// Server timeouts (hardcoded, opinionated).
const (
	defaultReadTimeout       = 15 * time.Second
	defaultWriteTimeout      = 30 * time.Second
	defaultIdleTimeout       = 120 * time.Second
	defaultReadHeaderTimeout = 5 * time.Second
	defaultMaxHeaderBytes    = 1 << 20 // 1MB
	defaultShutdownTimeout   = 30 * time.Second
)

// RunOption configures server startup and shutdown.
type RunOption func(*runConfig)

type runConfig struct {
	logger          *slog.Logger
	baseCtx         context.Context
	shutdownTimeout time.Duration
	shutdownHooks   []func(ctx context.Context) error
}

func buildRunConfig(opts ...RunOption) *runConfig {
	cfg := &runConfig{
		shutdownTimeout: defaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// WithRunLogger overrides the logger used for server lifecycle messages.
func WithRunLogger(l *slog.Logger) RunOption {
	return func(cfg *runConfig) {
		cfg.logger = l
	}
}

// WithBaseContext sets the base context for signal handling.
func WithBaseContext(ctx context.Context) RunOption {
	return func(cfg *runConfig) {
		cfg.baseCtx = ctx
	}
}

// WithShutdownTimeout caps graceful shutdown duration.
func WithShutdownTimeout(d time.Duration) RunOption {
	return func(cfg *runConfig) {
		if d > 0 {
			cfg.shutdownTimeout = d
		}
	}
}

// WithShutdownHook registers a hook run during shutdown, after the server
// stops accepting requests. Use for closing pools and clients.
func WithShutdownHook(hooks ...func(ctx context.Context) error) RunOption {
	return func(cfg *runConfig) {
		cfg.shutdownHooks = append(cfg.shutdownHooks, hooks...)
	}
}

// runServer starts the HTTP server and blocks until SIGINT/SIGTERM or a
// serve error, then drains connections and runs shutdown hooks.
func runServer(handler http.Handler, addr string, cfg *runConfig) error {
	if addr == "" {
		addr = ":8080"
	}

	log := cfg.logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       defaultReadTimeout,
		WriteTimeout:      defaultWriteTimeout,
		IdleTimeout:       defaultIdleTimeout,
		ReadHeaderTimeout: defaultReadHeaderTimeout,
		MaxHeaderBytes:    defaultMaxHeaderBytes,
	}

	baseCtx := cfg.baseCtx
	if baseCtx == nil {
		baseCtx = context.Background()
	}
	ctx, cancel := signal.NotifyContext(baseCtx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Listen first so the bound address is logged, not the requested one.
	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", slog.String("address", ln.Addr().String()))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.shutdownTimeout)
	defer shutdownCancel()

	var errs []error

	if err := server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, err)
	}

	for _, hook := range cfg.shutdownHooks {
		if err := hook(shutdownCtx); err != nil {
			errs = append(errs, err)
			log.Error("shutdown hook failed", slog.Any("error", err))
		}
	}

	if len(errs) > 0 {
		log.Error("shutdown completed with errors")
		return errors.Join(errs...)
	}

	log.Info("shutdown completed")
	return nil
}
