package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	httpAdapter "github.com/iho/bankledger/internal/adapter/http"
	"github.com/iho/bankledger/internal/adapter/http/handler"
	"github.com/iho/bankledger/internal/adapter/http/middleware"
	postgresRepo "github.com/iho/bankledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/bankledger/internal/adapter/repository/redis"
	"github.com/iho/bankledger/internal/domain"
	"github.com/iho/bankledger/internal/infrastructure/config"
	"github.com/iho/bankledger/internal/infrastructure/eventpublisher"
	"github.com/iho/bankledger/internal/infrastructure/lock"
	"github.com/iho/bankledger/internal/infrastructure/logger"
	"github.com/iho/bankledger/internal/infrastructure/metrics"
	"github.com/iho/bankledger/internal/infrastructure/postgres"
	"github.com/iho/bankledger/internal/infrastructure/redis"
	"github.com/iho/bankledger/internal/usecase"
)

const (
	limiterCleanupInterval = time.Minute
	limiterIdleTimeout     = 10 * time.Minute
	outboxRetention        = 7 * 24 * time.Hour
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Service: "bankledger"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited with error")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.RunMigrations {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return err
		}
	}

	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	movementRepo := postgresRepo.NewMovementRepository(pool)
	outboxRepo := postgresRepo.NewOutboxRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	cache := redisRepo.NewCache(redisClient)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	locker := buildLocker(cfg, redisClient, log)

	// Domain services
	registry := domain.DefaultPolicyRegistry()
	validator := usecase.NewAccountOpeningValidator(registry)

	accountUC := usecase.NewAccountUseCase(txManager, accountRepo, outboxRepo, validator, idGen,
		usecase.WithAccountCache(cache, cfg.AccountCacheTTL),
		usecase.WithAccountLocker(locker),
		usecase.WithAccountLogger(logger.Component(log, "accounts")),
	)
	engine := usecase.NewLedgerEngine(txManager, accountRepo, movementRepo, registry, idGen,
		usecase.WithOutbox(outboxRepo),
		usecase.WithLocker(locker),
		usecase.WithRetrier(postgresRepo.NewRetrier(logger.Component(log, "retrier"))),
		usecase.WithMetrics(m),
		usecase.WithLogger(logger.Component(log, "engine")),
	)
	movementUC := usecase.NewMovementUseCase(accountRepo, movementRepo)
	reconciliationUC := usecase.NewReconciliationUseCase(accountRepo, movementRepo)

	// HTTP
	healthHandler := handler.NewHealthHandler(pool, redisClient)
	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:        handler.NewAccountHandler(accountUC, validator),
		MovementHandler:       handler.NewMovementHandler(engine, movementUC),
		ReconciliationHandler: handler.NewReconciliationHandler(reconciliationUC),
		HealthHandler:         healthHandler,
		IdempotencyStore:      idempotencyStore,
		IdempotencyTTL:        cfg.IdempotencyTTL,
		RateLimiter:           rateLimiter,
		Metrics:               m,
		MetricsHandler:        promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}),
		Logger:                logger.Component(log, "http"),
	})

	// Outbox worker
	sink, closeSink := buildEventSink(cfg, log)
	defer func() {
		if err := closeSink(); err != nil {
			log.Error().Err(err).Msg("failed to close event sink")
		}
	}()
	publisher := eventpublisher.NewEventPublisher(eventpublisher.Config{
		OutboxRepo: outboxRepo,
		Publisher:  sink,
		Metrics:    m,
		Logger:     logger.Component(log, "outbox"),
		BatchSize:  cfg.OutboxBatchSize,
		Interval:   cfg.OutboxInterval,
		Retention:  outboxRetention,
	})

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		if err := publisher.Start(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("event publisher stopped")
		}
	}()
	if rateLimiter != nil {
		go cleanupLimiters(workerCtx, rateLimiter, log)
	}

	server := newHTTPServer(cfg, router)
	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	cancelWorkers()
	<-workersDone

	return nil
}

// buildLocker picks the per-account lock. The in-process mutex only
// serializes a single instance; run more than one and use redis.
func buildLocker(cfg *config.Config, client *goredis.Client, log zerolog.Logger) usecase.AccountLocker {
	if cfg.LockBackend == config.LockBackendRedis {
		lc := redisRepo.DefaultLockerConfig()
		if cfg.LockExpiry > 0 {
			lc.Expiry = cfg.LockExpiry
		}
		if cfg.LockTries > 0 {
			lc.Tries = cfg.LockTries
		}
		return redisRepo.NewAccountLocker(client, lc, logger.Component(log, "locker"))
	}
	return lock.NewKeyedMutex()
}

// buildEventSink returns the outbox sink and its close func.
func buildEventSink(cfg *config.Config, log zerolog.Logger) (eventpublisher.Publisher, func() error) {
	if cfg.EventSink == config.EventSinkKafka {
		p := eventpublisher.NewKafkaPublisher(eventpublisher.KafkaConfig{
			Brokers: cfg.KafkaBrokers,
			Topic:   cfg.KafkaTopic,
		}, logger.Component(log, "kafka"))
		return p, p.Close
	}
	return eventpublisher.NewLogPublisher(logger.Component(log, "events")), func() error { return nil }
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      h,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}
}

func cleanupLimiters(ctx context.Context, rl *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := rl.CleanupLimiters(limiterIdleTimeout); n > 0 {
				log.Debug().Int("removed", n).Msg("pruned idle rate limiters")
			}
		}
	}
}
