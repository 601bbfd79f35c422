package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"

	"github.com/microfin/lending-engine/internal/application/usecase"
	"github.com/microfin/lending-engine/internal/infrastructure/cache"
	"github.com/microfin/lending-engine/internal/infrastructure/config"
	"github.com/microfin/lending-engine/internal/infrastructure/messaging"
	pgrepo "github.com/microfin/lending-engine/internal/infrastructure/persistence/postgres"
	"github.com/microfin/lending-engine/internal/presentation/rest"
	pkgkafka "github.com/microfin/lending-engine/pkg/kafka"
	"github.com/microfin/lending-engine/pkg/observability"
	pkgpostgres "github.com/microfin/lending-engine/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load and validate configuration.
	cfg := config.Load()

	// Initialize structured logger.
	logger := observability.InitLogger(observability.LogConfig{
		Service: cfg.ServiceName,
		Level:   cfg.LogLevel,
		Format:  "json",
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger.Info("starting lending-engine", "http_port", cfg.HTTPPort)

	// Metrics.
	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pgCfg := pkgpostgres.Config{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Name,
		SSLMode:  cfg.DB.SSLMode,
	}
	pool, err := pkgpostgres.NewPool(dbCtx, pgCfg)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Run database migrations.
	if migErr := pkgpostgres.RunMigrations(pgCfg.DSN(), "file://internal/infrastructure/persistence/postgres/migrations"); migErr != nil {
		logger.Warn("migration warning", "error", migErr)
	}

	// Kafka producer.
	kafkaProducer := pkgkafka.NewProducer(pkgkafka.Config{
		Brokers: cfg.Kafka.Brokers,
	})
	defer kafkaProducer.Close()
	publisher := messaging.NewKafkaEventPublisher(kafkaProducer, cfg.Kafka.Topic)

	// Redis risk score cache.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
	defer redisClient.Close()
	riskCache := cache.NewRedisRiskCache(redisClient)

	// Wire repository and use cases.
	loanRepo := pgrepo.NewLoanRepo(pool)

	originateUC := usecase.NewOriginateLoanUseCase(loanRepo, publisher)
	paymentUC := usecase.NewRecordPaymentUseCase(loanRepo, publisher)
	penaltiesUC := usecase.NewAssessPenaltiesUseCase(loanRepo, publisher)
	scoringUC := usecase.NewScorePortfolioUseCase(loanRepo, riskCache, publisher, cfg.RiskCacheTTL)
	getLoanUC := usecase.NewGetLoanUseCase(loanRepo)
	borrowerLoansUC := usecase.NewListBorrowerLoansUseCase(loanRepo)

	// HTTP server.
	router := mux.NewRouter()

	lendingHandler := rest.NewLendingHandler(originateUC, paymentUC, penaltiesUC, scoringUC, getLoanUC, borrowerLoansUC, logger)
	lendingHandler.RegisterRoutes(router)

	healthHandler := rest.NewHealthHandler(logger, map[string]rest.ReadinessCheck{
		"postgres": func(ctx context.Context) error {
			return pkgpostgres.HealthCheck(ctx, pool)
		},
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
	})
	healthHandler.RegisterRoutes(router)

	router.Handle("/metrics", metricsHandler).Methods(http.MethodGet)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server starting", "port", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("lending-engine stopped")
}
