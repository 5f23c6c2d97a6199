package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/roamstay/walletledger/internal/adapter/consumer"
	httpAdapter "github.com/roamstay/walletledger/internal/adapter/http"
	"github.com/roamstay/walletledger/internal/adapter/http/handler"
	postgresRepo "github.com/roamstay/walletledger/internal/adapter/repository/postgres"
	redisRepo "github.com/roamstay/walletledger/internal/adapter/repository/redis"
	"github.com/roamstay/walletledger/internal/infrastructure/config"
	"github.com/roamstay/walletledger/internal/infrastructure/kafka"
	"github.com/roamstay/walletledger/internal/infrastructure/logger"
	"github.com/roamstay/walletledger/internal/infrastructure/metrics"
	"github.com/roamstay/walletledger/internal/infrastructure/postgres"
	"github.com/roamstay/walletledger/internal/infrastructure/redis"
	"github.com/roamstay/walletledger/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}, "walletd")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect to PostgreSQL
	connectCtx, cancelConnect := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	cancelConnect()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Run migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	m := metrics.New()

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	transactionRepo := postgresRepo.NewTransactionRepository(pool)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log, m)

	// Initialize use cases
	accountUC := usecase.NewAccountUseCase(accountRepo, idGen)
	debitUC := usecase.NewDebitUseCase(txManager, accountRepo, transactionRepo, idempotencyStore, retrier, idGen)
	creditUC := usecase.NewCreditUseCase(txManager, accountRepo, transactionRepo, retrier, idGen)
	transactionUC := usecase.NewTransactionUseCase(transactionRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, transactionRepo)

	// Kafka consumer for booking events
	reader := kafka.NewReader(cfg.KafkaBrokers, cfg.KafkaGroupID, cfg.KafkaBookingTopic)
	writer := kafka.NewWriter(cfg.KafkaBrokers, cfg.KafkaDeadLetterTopic)
	defer writer.Close()

	deadLetters := consumer.NewKafkaDeadLetterPublisher(writer, log)
	bookingConsumer := consumer.NewBookingConsumer(reader, debitUC, deadLetters, m, log)
	defer bookingConsumer.Close()

	consumerErr := make(chan error, 1)
	go func() {
		log.Info().
			Strs("brokers", cfg.KafkaBrokers).
			Str("topic", cfg.KafkaBookingTopic).
			Str("group", cfg.KafkaGroupID).
			Msg("starting booking consumer")
		consumerErr <- bookingConsumer.Run(ctx)
	}()

	// HTTP server for the operations API
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC, creditUC, m),
		TransactionHandler:    handler.NewTransactionHandler(transactionUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC, m),
		HealthHandler:         handler.NewHealthHandler(pool, redisClient),
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		Metrics:               m,
		Logger:                log,
	})

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting http server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case err := <-consumerErr:
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("booking consumer stopped")
		}
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server forced to shut down")
	}

	log.Info().Msg("walletd stopped")
}
