package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/commercekit/paymill-bridge/internal/adapters/paymill"
	"github.com/commercekit/paymill-bridge/internal/adapters/postgres"
	redisadapter "github.com/commercekit/paymill-bridge/internal/adapters/redis"
	"github.com/commercekit/paymill-bridge/internal/config"
	"github.com/commercekit/paymill-bridge/internal/handlers/rest"
	"github.com/commercekit/paymill-bridge/internal/services/checkout"
	"github.com/commercekit/paymill-bridge/internal/services/invoice"
	"github.com/commercekit/paymill-bridge/pkg/logging"
	"github.com/commercekit/paymill-bridge/pkg/observability"
	"github.com/commercekit/paymill-bridge/pkg/resilience"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := initLogger(cfg.AppEnv)
	defer logger.Sync()

	logger.Info("starting paymill bridge",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr()),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	pool, err := postgres.NewPool(initCtx, postgres.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer pool.Close()

	// Redis
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal("failed to parse redis URL", zap.Error(err))
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()
	if err := redisClient.Ping(initCtx).Err(); err != nil {
		logger.Fatal("failed to ping redis", zap.Error(err))
	}

	// Processor credential
	secretManager, err := initSecretManager(initCtx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to initialize secret manager", zap.Error(err))
	}
	privateKey, err := secretManager.GetSecret(initCtx, cfg.Secrets.KeyPath)
	if err != nil {
		logger.Fatal("failed to load processor private key", zap.Error(err))
	}

	portLogger := logging.NewZapLogger(logger)

	gateway := paymill.NewClientWithDefaults(paymill.Config{
		BaseURL:    cfg.Paymill.BaseURL,
		PrivateKey: privateKey.Value,
		Timeout:    cfg.Paymill.Timeout,
	}, portLogger)

	fastCheckoutRepo := postgres.NewFastCheckoutRepository(pool)
	txRepo := postgres.NewTransactionRepository(pool)
	sessionCache := redisadapter.NewSessionCache(redisClient, cfg.Paymill.PreAuthCacheTTL)

	amounts := checkout.NewAmountCalculator(cfg.Paymill.Tolerances, sessionCache, portLogger)
	orchestrator := checkout.NewOrchestrator(gateway, fastCheckoutRepo, txRepo, amounts, checkout.Options{
		FastCheckoutEnabled: cfg.Paymill.FastCheckoutEnabled,
		Source:              cfg.Paymill.Source,
	}, portLogger)
	invoiceTrigger := invoice.NewTrigger(txRepo, newOrderClient(cfg, portLogger), portLogger)

	checkoutHandler := rest.NewCheckoutHandler(orchestrator, resilience.DefaultTimeoutConfig(), portLogger)
	orderHandler := rest.NewOrderHandler(invoiceTrigger, portLogger)
	router := rest.NewRouter(checkoutHandler, orderHandler)

	apiServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", observability.Handler())
	metricsServer := &http.Server{
		Addr:              cfg.MetricsAddr(),
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("api server listening", zap.String("addr", apiServer.Addr))
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("metrics server listening", zap.String("addr", metricsServer.Addr))
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("api server shutdown error", zap.Error(err))
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("metrics server shutdown error", zap.Error(err))
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("servers stopped")
}

func initLogger(env string) *zap.Logger {
	if env == "production" {
		zapCfg := zap.NewProductionConfig()
		zapCfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
		logger, _ := zapCfg.Build()
		return logger
	}
	logger, _ := zap.NewDevelopment()
	return logger
}
