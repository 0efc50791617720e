package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/monuchauhan/nios-elearning/internal/api/http"
	"github.com/monuchauhan/nios-elearning/internal/api/http/handlers"
	"github.com/monuchauhan/nios-elearning/internal/auth"
	"github.com/monuchauhan/nios-elearning/internal/catalog"
	"github.com/monuchauhan/nios-elearning/internal/config"
	"github.com/monuchauhan/nios-elearning/internal/observability"
	"github.com/monuchauhan/nios-elearning/internal/payment"
	"github.com/monuchauhan/nios-elearning/internal/persistence"
	"github.com/monuchauhan/nios-elearning/internal/pricing"
	"github.com/monuchauhan/nios-elearning/internal/repository"
	"github.com/monuchauhan/nios-elearning/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	courseCatalog, err := catalog.Default()
	if err != nil {
		logger.Fatal("failed to load course catalog", zap.Error(err))
	}

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

	metrics := observability.NewMetrics()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	purchaseRepo := repository.NewPurchaseRepository(pool)
	progressRepo := repository.NewProgressRepository(pool)
	intents := repository.NewRedisIntentStore(redis.Client, cfg.Redis.IntentTTL())

	var gateway payment.Gateway
	if cfg.Payment.GatewayEnabled() {
		gateway = payment.NewRazorpayClient(cfg.Payment.APIBaseURL, cfg.Payment.KeyID, cfg.Payment.KeySecret, cfg.Payment.Timeout())
		logger.Info("payment gateway configured", zap.String("key_id", cfg.Payment.KeyID))
	} else {
		logger.Warn("payment gateway not configured; running in demo mode")
	}

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL())
	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo: userRepo,
		Tokens:   tokens,
		Logger:   logger,
	})
	contentService := service.NewContentService(service.ContentDependencies{
		Catalog:      courseCatalog,
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		Logger:       logger,
	})
	checkoutService := service.NewCheckoutService(cfg.Payment, service.CheckoutDependencies{
		Catalog:      courseCatalog,
		Pricing:      pricing.NewResolver(courseCatalog),
		UserRepo:     userRepo,
		PurchaseRepo: purchaseRepo,
		Intents:      intents,
		Gateway:      gateway,
		Metrics:      metrics,
		Logger:       logger,
	})

	app := httptransport.NewApp(cfg.App, logger, metrics)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Course:         handlers.NewCourseHandler(contentService),
		Payment:        handlers.NewPaymentHandler(checkoutService),
		AuthMiddleware: auth.NewMiddleware(tokens),
		Metrics:        metrics,
		AllowOrigins:   cfg.App.AllowedOrigins(),
	})

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.App.Addr()))
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
