package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/hospital-service/internal/api/http"
	"github.com/spec-kit/hospital-service/internal/api/http/handlers"
	"github.com/spec-kit/hospital-service/internal/auth"
	"github.com/spec-kit/hospital-service/internal/cache"
	"github.com/spec-kit/hospital-service/internal/config"
	"github.com/spec-kit/hospital-service/internal/events"
	"github.com/spec-kit/hospital-service/internal/observability"
	"github.com/spec-kit/hospital-service/internal/persistence"
	"github.com/spec-kit/hospital-service/internal/repository"
	"github.com/spec-kit/hospital-service/internal/service"
	"github.com/spec-kit/hospital-service/internal/worker"
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

	if cfg.Postgres.RunMigrations && pg.Enabled() {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	var accountRepo repository.AccountRepository
	if pg.Enabled() {
		accountRepo = repository.NewAccountRepository(pg.PoolHandle())
	} else {
		logger.Warn("using in-memory account store; data is lost on restart")
		accountRepo = repository.NewMemoryAccountRepository()
	}

	var accountCache *cache.AccountCache
	if redis.Enabled() {
		accountCache = cache.NewAccountCache(redis.Client, cfg.Redis.CacheTTL())
	}

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	hasher := auth.NewBcryptHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	logger.Info("token manager ready", zap.Duration("access_token_ttl", tokens.TTL()))

	authService := service.NewAuthService(service.AuthDependencies{
		AccountRepo:  accountRepo,
		Hasher:       hasher,
		TokenManager: tokens,
		Events:       dispatcher,
		Metrics:      metrics,
		Logger:       logger,
	})
	personService := service.NewPersonService(service.PersonDependencies{
		AccountRepo: accountRepo,
		Hasher:      hasher,
		Cache:       accountCache,
		Events:      dispatcher,
		Logger:      logger,
	})
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService, logger)

	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		DisableStartupMessage: true,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:        handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:          handlers.NewAuthHandler(authService),
		Person:        handlers.NewPersonHandler(personService),
		Authenticator: auth.NewAuthenticator(authService.TokenManager()),
		Metrics:       metrics,
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
