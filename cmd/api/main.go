package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/authcore/internal/api/http"
	"github.com/spec-kit/authcore/internal/api/http/handlers"
	"github.com/spec-kit/authcore/internal/auth"
	"github.com/spec-kit/authcore/internal/config"
	"github.com/spec-kit/authcore/internal/observability"
	"github.com/spec-kit/authcore/internal/persistence"
	"github.com/spec-kit/authcore/internal/repository"
	"github.com/spec-kit/authcore/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	pool := pg.PoolHandle()
	if pool == nil {
		logger.Fatal("POSTGRES_DSN is required: the credential store lives in postgres")
	}

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	metrics := observability.NewMetrics("authcore")

	credentials := repository.NewCachedCredentialRepository(
		repository.NewCredentialRepository(pool),
		redis.Client,
		cfg.Auth.CredentialCacheTTL,
		logger,
	)

	authService, err := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Credentials: credentials,
	})
	if err != nil {
		logger.Fatal("failed to init auth service", zap.Error(err))
	}
	gate := auth.NewGate(authService.TokenCodec())

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:  handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:    handlers.NewAuthHandler(authService, logger, metrics),
		Gate:    gate.Middleware(logger, metrics),
		Metrics: metrics,
	})

	go func() {
		logger.Info("listening", zap.String("addr", cfg.App.Addr()), zap.Duration("token_ttl", authService.TokenCodec().DefaultTTL()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
