package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/marketplace-service/internal/api/http"
	"github.com/spec-kit/marketplace-service/internal/api/http/handlers"
	"github.com/spec-kit/marketplace-service/internal/auth"
	"github.com/spec-kit/marketplace-service/internal/config"
	"github.com/spec-kit/marketplace-service/internal/events"
	"github.com/spec-kit/marketplace-service/internal/observability"
	"github.com/spec-kit/marketplace-service/internal/persistence"
	"github.com/spec-kit/marketplace-service/internal/repository"
	"github.com/spec-kit/marketplace-service/internal/service"
	"github.com/spec-kit/marketplace-service/internal/storage"
	"github.com/spec-kit/marketplace-service/internal/worker"
)

const shutdownTimeout = 10 * time.Second

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

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	buyerRepo := repository.NewBuyerRepository(pool)
	sellerRepo := repository.NewSellerRepository(pool)
	credentialRepo := repository.NewCredentialRepository(pool)

	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())

	dispatcher := events.NewInMemoryDispatcher(logger)
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(ctx, dispatcher, notificationService, logger)

	var images service.ImageStore
	switch store, err := storage.NewS3Store(ctx, cfg.Storage); {
	case err == nil:
		images = store
	case errors.Is(err, storage.ErrStorageDisabled):
		logger.Warn("object storage not configured, seller image uploads disabled")
	default:
		logger.Fatal("failed to init object storage", zap.Error(err))
	}

	resolver := service.NewIdentityResolver(buyerRepo, sellerRepo)
	buyerService := service.NewBuyerService(buyerRepo, resolver, hasher, dispatcher, logger)
	sellerService := service.NewSellerService(sellerRepo, resolver, hasher, images, dispatcher, logger)
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		Credentials: credentialRepo,
		Buyers:      buyerRepo,
		Sellers:     sellerRepo,
		Refresh:     redis.Sessions(),
		Hasher:      hasher,
		Tokens:      tokens,
	}, logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		BodyLimit:    cfg.Upload.MaxImageBytes + 1024*1024,
		ErrorHandler: httptransport.ErrorHandler(logger),
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"postgres": pg,
			"redis":    redis,
		}),
		Auth:           handlers.NewAuthHandler(authService),
		Buyers:         handlers.NewBuyersHandler(buyerService),
		Sellers:        handlers.NewSellersHandler(sellerService, int64(cfg.Upload.MaxImageBytes)),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	cancel()
	notifications.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
