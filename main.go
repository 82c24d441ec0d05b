package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fakhrymubarak/forecast-api/internal/config"
	"github.com/fakhrymubarak/forecast-api/internal/handler"
	"github.com/fakhrymubarak/forecast-api/internal/middleware"
	"github.com/fakhrymubarak/forecast-api/internal/redis"
	"github.com/fakhrymubarak/forecast-api/internal/router"
	"github.com/fakhrymubarak/forecast-api/internal/service"
	"github.com/fakhrymubarak/forecast-api/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// @title        Forecast API
// @version      1.0
// @description  Random weather forecasts for the next fourteen days.
// @BasePath     /api
func main() {
	logger := config.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Fatalw("Server stopped with error", "error", err)
	}
}

func run(ctx context.Context, logger *zap.SugaredLogger) error {
	_, shutdownTracing, err := tracing.Setup(tracing.Config{
		ServiceName: config.GetTracingServiceName(),
		ZipkinURL:   config.GetZipkinURL(),
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warnw("Tracer shutdown failed", "error", err)
		}
	}()

	defer func() { _ = redis.Close() }()
	mux := newHandler(ctx, logger, prometheus.NewRegistry())

	srv := newServer(":"+config.GetServerPort(), mux)

	serverErr := make(chan error, 1)
	go func() {
		logger.Infow("Forecast API server running", "addr", srv.Addr, "base_path", config.GetBasePath())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	logger.Infow("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetServerTimeout("shutdown_timeout", 10*time.Second))
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// newHandler assembles the service, middleware and routes. Collectors are registered on registry.
func newHandler(ctx context.Context, logger *zap.SugaredLogger, registry *prometheus.Registry) http.Handler {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	forecastService := service.NewForecastService(service.WithLogger(logger))
	return router.SetupRouter(router.Dependencies{
		ForecastHandler: handler.NewForecastHandler(forecastService),
		RateLimiter:     newRateLimiter(ctx, logger),
		Metrics:         middleware.NewMetrics(registry),
		Gatherer:        registry,
		Logger:          logger,
		BasePath:        config.GetBasePath(),
	})
}

func newServer(addr string, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeout("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeout("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeout("write_timeout", 10*time.Second),
		IdleTimeout:       config.GetServerTimeout("idle_timeout", 30*time.Second),
	}
}

// newRateLimiter picks the limiter backend from config. A redis backend that
// cannot be reached at startup falls back to in-memory limiting.
func newRateLimiter(ctx context.Context, logger *zap.SugaredLogger) *middleware.RateLimiter {
	globalRate, globalBurst := config.GetGlobalRateLimiterConfig()
	paramKey, paramRate, paramBurst := config.GetParamRateLimiterConfig()

	if config.GetRateLimiterBackend() == "redis" {
		err := redis.Ping(ctx)
		if err == nil {
			client := redis.GetClient()
			logger.Infow("Using redis rate limiter", "addr", config.GetRedisAddr())
			return middleware.NewRateLimiter(
				middleware.NewRedisLimiter(client, "ratelimit:global", int64(globalRate), time.Minute),
				middleware.NewRedisLimiter(client, "ratelimit:param", int64(paramRate), time.Minute),
				paramKey,
				logger,
			)
		}
		logger.Warnw("Redis unavailable, using in-memory rate limiter", "error", err)
	}

	ttl := config.GetRateLimiterCleanupTimeout()
	global := middleware.NewMemoryLimiter(globalRate, globalBurst, ttl)
	param := middleware.NewMemoryLimiter(paramRate, paramBurst, ttl)
	global.StartCleanup(ctx, time.Minute)
	param.StartCleanup(ctx, time.Minute)
	return middleware.NewRateLimiter(global, param, paramKey, logger)
}
