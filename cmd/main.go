package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"

	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/config"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/handlers/http_handlers"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports/adapters/gateway"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports/adapters/ratelimit"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/ports/adapters/storage"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/runner"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/internal/service"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/logger"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/postgres"
	"github.com/shopmaduboutique-dot/madu-boutique-sub000/pkg/redisclient"
)

func main() {
	ctx := context.Background()

	// use OS signals for graceful shutdown
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	// put a new zap logger into context; everything downstream pulls it
	// back out from there
	ctx, _ = logger.New(ctx)

	cfg, err := config.TryRead()
	if err != nil {
		logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to load config", zap.Error(err))
	}

	//region connections

	pool, err := postgres.New(ctx, cfg.Postgres)
	if err != nil {
		logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to connect to postgres", zap.Error(err))
	}
	logger.GetLoggerFromCtx(ctx).Info(ctx, "connected to postgres")

	if err = runMigrations(cfg); err != nil {
		logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to run migrations", zap.Error(err))
	}

	// the rate-limit window only holds across instances with redis; with
	// no redis configured a single-process window serves instead
	var limiter ports.RateLimiter
	var redisClose func() error
	if cfg.Redis.Enabled() {
		redisClient, redisErr := redisclient.New(ctx, cfg.Redis)
		if redisErr != nil {
			logger.GetLoggerFromCtx(ctx).Fatal(ctx, "failed to connect to redis", zap.Error(redisErr))
		}
		logger.GetLoggerFromCtx(ctx).Info(ctx, "connected to redis")
		limiter = ratelimit.NewRedisLimiter(redisClient,
			cfg.Storefront.RateLimitRequests, cfg.Storefront.RateLimitWindow)
		redisClose = redisClient.Close
	} else {
		logger.GetLoggerFromCtx(ctx).Warn(ctx, "no redis configured, using in-process rate limiting")
		limiter = ratelimit.NewInMemoryLimiter(
			cfg.Storefront.RateLimitRequests, cfg.Storefront.RateLimitWindow)
	}
	//endregion

	//region services
	storageAdapter := storage.NewOrdersStoragePostgres(pool)
	gatewayClient := gateway.NewRazorpayGateway(cfg.Razorpay.KeyID, cfg.Razorpay.KeySecret)

	checkoutService := service.NewCheckoutService(
		storageAdapter, storageAdapter, storageAdapter, gatewayClient,
		cfg.Storefront.ShippingCost, cfg.Storefront.Currency)
	paymentService := service.NewPaymentService(
		storageAdapter, cfg.Razorpay.KeySecret, cfg.Razorpay.WebhookSecret)
	orderService := service.NewOrderService(storageAdapter)
	catalogService := service.NewCatalogService(storageAdapter)
	//endregion

	router := http_handlers.NewRouter(
		http_handlers.NewPaymentHandler(checkoutService, paymentService),
		http_handlers.NewStorefrontHandler(catalogService, orderService),
		http_handlers.NewAdminHandler(orderService, catalogService, cfg.Admin),
		limiter,
		cfg.Admin,
	)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Storefront.HTTPPort),
		Handler: router,
	}
	go runner.RunHTTP(ctx, httpServer)

	<-ctx.Done()

	var shutdownWg sync.WaitGroup
	shutdownWg.Add(2)

	go func() {
		defer shutdownWg.Done()
		runner.ShutdownHTTP(ctx, httpServer)
		logger.GetLoggerFromCtx(ctx).Info(ctx, "server stopped")
	}()
	go func() {
		defer shutdownWg.Done()
		pool.Close()
		if redisClose != nil {
			if closeErr := redisClose(); closeErr != nil {
				logger.GetLoggerFromCtx(ctx).Error(ctx, "error while closing redis client", zap.Error(closeErr))
			}
		}
		logger.GetLoggerFromCtx(ctx).Info(ctx, "connections closed")
	}()

	shutdownWg.Wait()
}

func runMigrations(cfg config.Config) error {
	sourceURL := fmt.Sprintf("file://%s", cfg.Storefront.MigrationsPath)
	databaseURL := strings.Replace(cfg.Postgres.DSN(), "postgres://", "pgx5://", 1)

	m, err := migrate.New(sourceURL, databaseURL)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}
	defer m.Close()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
