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

	httpAdapter "github.com/iho/abrazar/internal/adapter/http"
	"github.com/iho/abrazar/internal/adapter/http/handler"
	"github.com/iho/abrazar/internal/adapter/http/middleware"
	"github.com/iho/abrazar/internal/adapter/repository/memory"
	redisRepo "github.com/iho/abrazar/internal/adapter/repository/redis"
	"github.com/iho/abrazar/internal/infrastructure/auth"
	"github.com/iho/abrazar/internal/infrastructure/config"
	"github.com/iho/abrazar/internal/infrastructure/idgen"
	"github.com/iho/abrazar/internal/infrastructure/logger"
	"github.com/iho/abrazar/internal/infrastructure/metrics"
	"github.com/iho/abrazar/internal/infrastructure/redis"
	"github.com/iho/abrazar/internal/usecase"
)

const limiterCleanupInterval = time.Minute

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load configuration:", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat, Component: "backend"})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	idempotencyStore, redisClient, err := newIdempotencyStore(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	router, limiter, err := newRouter(cfg, log, m, registry, idempotencyStore, redisClient)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	go cleanupLimiters(ctx, limiter, log)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

// newIdempotencyStore returns the store named by IDEMPOTENCY_STORE. The redis
// client is returned so readiness checks can ping it.
func newIdempotencyStore(ctx context.Context, cfg *config.Config) (usecase.IdempotencyStore, goredis.UniversalClient, error) {
	switch cfg.IdempotencyStore {
	case "", "memory":
		return memory.NewIdempotencyStore(), nil, nil
	case "redis":
		client, err := redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		return redisRepo.NewIdempotencyStore(client, cfg.TokenKeyPrefix), client, nil
	default:
		return nil, nil, fmt.Errorf("unknown idempotency store %q", cfg.IdempotencyStore)
	}
}

// newRouter seeds the development accounts and builds the API.
func newRouter(
	cfg *config.Config,
	log zerolog.Logger,
	m *metrics.Metrics,
	registry *prometheus.Registry,
	idempotencyStore usecase.IdempotencyStore,
	redisClient goredis.UniversalClient,
) (http.Handler, *middleware.RateLimiter, error) {
	hash, err := usecase.HashPassword(cfg.DevUserPassword)
	if err != nil {
		return nil, nil, fmt.Errorf("hash development password: %w", err)
	}
	accounts := memory.DevUsers(hash)
	users := memory.NewUserRepository(accounts...)
	log.Info().Int("accounts", len(accounts)).Msg("seeded development accounts")

	records := usecase.NewRecordsUseCase(memory.NewRecordRepository(), users, idgen.NewULIDGenerator())
	jwt := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, m)

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AuthHandler:         handler.NewAuthHandler(usecase.NewUserUseCase(users), jwt, log, m),
		HomelessHandler:     handler.NewHomelessHandler(records),
		CaseHandler:         handler.NewCaseHandler(records),
		ServicePointHandler: handler.NewServicePointHandler(records),
		StatisticsHandler:   handler.NewStatisticsHandler(records),
		HealthHandler:       handler.NewHealthHandler(redisClient),
		Verifier:            jwt,
		IdempotencyStore:    idempotencyStore,
		IdempotencyTTL:      cfg.IdempotencyTTL,
		RateLimiter:         limiter,
		Logger:              log,
		Metrics:             m,
		MetricsHandler:      promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})
	return router, limiter, nil
}

func cleanupLimiters(ctx context.Context, limiter *middleware.RateLimiter, log zerolog.Logger) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := limiter.CleanupLimiters(3 * limiterCleanupInterval); removed > 0 {
				log.Debug().Int("removed", removed).Msg("dropped idle rate limiters")
			}
		}
	}
}
