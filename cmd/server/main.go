package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/quillhq/quill/config"
	"github.com/quillhq/quill/internal/app"
	"github.com/quillhq/quill/internal/handlers"
	"github.com/quillhq/quill/internal/middleware"
	"github.com/quillhq/quill/internal/repository"
	"github.com/quillhq/quill/migrations"
	"github.com/quillhq/quill/pkg/db"
	"github.com/quillhq/quill/pkg/health"
	"github.com/quillhq/quill/pkg/logger"
	"github.com/quillhq/quill/pkg/redis"
	"github.com/quillhq/quill/pkg/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.NewWithSentry(cfg.LogLevel, cfg.Sentry, middleware.RequestIDExtractor())
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := db.Connect(ctx, cfg.DB)
	if err != nil {
		return err
	}

	if err := db.Migrate(ctx, pool, migrations.FS, cfg.DB.MigrationsTable, log); err != nil {
		return err
	}

	redisClient, err := redis.Open(ctx, cfg.Redis)
	if err != nil {
		return err
	}

	sessions := app.NewSessionManager(
		session.NewRedisStore(redisClient),
		app.WithSessionMaxAge(cfg.SessionMaxAge),
		app.WithSessionSecure(cfg.SessionSecure),
	)

	users := repository.NewUsers(pool)
	posts := repository.NewPosts(pool)

	srv := app.New(
		app.WithLogger(log),
		app.WithSessionManager(sessions),
		app.WithMiddleware(
			middleware.RequestID(),
			middleware.Recover(),
			middleware.Logging(),
		),
		app.WithHandlers(
			handlers.NewPages(posts),
			handlers.NewAuth(users, sessions),
			handlers.NewProfile(users, posts),
			handlers.NewPosts(posts),
		),
		app.WithErrorHandler(handlers.ErrorHandler),
		app.WithNotFoundHandler(handlers.NotFoundHandler),
		app.WithHealth(health.Checks{
			"postgres": db.Healthcheck(pool),
			"redis":    redis.Healthcheck(redisClient),
		}),
	)

	return srv.Run(cfg.HTTPAddr,
		app.WithBaseContext(ctx),
		app.WithRunLogger(log),
		app.WithShutdownHook(
			db.Shutdown(pool),
			redis.Shutdown(redisClient),
		),
	)
}
