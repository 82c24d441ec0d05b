package router

import (
	"net/http"

	"github.com/fakhrymubarak/forecast-api/docs"
	"github.com/fakhrymubarak/forecast-api/internal/handler"
	"github.com/fakhrymubarak/forecast-api/internal/middleware"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

// Dependencies struct holds all dependencies required for setting up routes.
type Dependencies struct {
	ForecastHandler *handler.ForecastHandler
	RateLimiter     *middleware.RateLimiter
	Metrics         *middleware.Metrics
	Gatherer        prometheus.Gatherer
	Logger          *zap.SugaredLogger
	// BasePath prefixes the forecast routes, e.g. "/api". May be empty.
	BasePath string
}

// SetupRouter configures and returns the chi mux with all routes defined.
func SetupRouter(deps Dependencies) *chi.Mux {
	h := deps.ForecastHandler
	if deps.Logger == nil {
		deps.Logger = zap.NewNop().Sugar()
	}

	r := chi.NewRouter()

	// Global Middleware
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.AccessLog(deps.Logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware)
	}
	r.Use(chimw.Recoverer)

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	r.Get("/health", h.Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	// Swagger documentation
	docs.SwaggerInfo.BasePath = deps.BasePath
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/index.html", http.StatusMovedPermanently)
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	r.Group(func(r chi.Router) {
		if deps.RateLimiter != nil {
			r.Use(deps.RateLimiter.Middleware)
		}
		r.Get(deps.BasePath+"/forecast", h.ListForecasts)
		r.Post(deps.BasePath+"/forecast", h.SubmitForecast)
		r.Get(deps.BasePath+"/forecast/{id}", h.GetForecast)
	})

	return r
}
