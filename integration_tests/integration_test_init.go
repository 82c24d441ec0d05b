package integrationtest

import (
	"net/http/httptest"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/forecast-api/internal/config"
	"github.com/fakhrymubarak/forecast-api/internal/handler"
	"github.com/fakhrymubarak/forecast-api/internal/middleware"
	"github.com/fakhrymubarak/forecast-api/internal/redis"
	"github.com/fakhrymubarak/forecast-api/internal/router"
	"github.com/fakhrymubarak/forecast-api/internal/service"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

var (
	miniRedisMock *miniredis.Miniredis
)

func createMockRedisServer() {
	miniRedisMock = miniredis.NewMiniRedis()
	err := miniRedisMock.StartAddr(config.GetTestRedisMockPort())
	if err != nil {
		panic(err)
	}
}

// testServerOptions tweaks the limiter budgets of the server under test.
type testServerOptions struct {
	globalLimit int64
	paramLimit  int64
	now         time.Time
}

// setupIntegrationTestServer wires the full router against the shared redis
// client, which must already point at miniRedisMock.
func setupIntegrationTestServer(opts testServerOptions) *httptest.Server {
	client := redis.GetClient()
	paramKey, _, _ := config.GetParamRateLimiterConfig()

	global := middleware.NewRedisLimiter(client, "ratelimit:global", opts.globalLimit, time.Minute)
	param := middleware.NewRedisLimiter(client, "ratelimit:param", opts.paramLimit, time.Minute)

	forecastService := service.NewForecastService(
		service.WithClock(func() time.Time { return opts.now }),
	)
	forecastHandler := &handler.ForecastHandler{
		ForecastService: forecastService,
		BasePath:        config.GetBasePath(),
		Logger:          zap.NewNop().Sugar(),
	}

	registry := prometheus.NewRegistry()
	mux := router.SetupRouter(router.Dependencies{
		ForecastHandler: forecastHandler,
		RateLimiter:     middleware.NewRateLimiter(global, param, paramKey, nil),
		Metrics:         middleware.NewMetrics(registry),
		Gatherer:        registry,
		BasePath:        config.GetBasePath(),
	})
	return httptest.NewServer(mux)
}
