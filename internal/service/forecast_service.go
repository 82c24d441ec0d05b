package service

import (
	"context"
	"time"

	"github.com/fakhrymubarak/forecast-api/internal/config"
	"github.com/fakhrymubarak/forecast-api/internal/model"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const (
	MinDays     = 1
	MaxDays     = 14
	DefaultDays = 5

	// Generated temperatures fall in [MinTemperatureC, MaxTemperatureC).
	MinTemperatureC = -20
	MaxTemperatureC = 55

	// Submitted temperatures are shifted by a value in [MinPerturbation, MaxPerturbation).
	MinPerturbation = -5
	MaxPerturbation = 5

	// SubmittedLocationID is the offset every submitted forecast is linked to.
	// It does not depend on the submitted date.
	SubmittedLocationID = 1
)

const tracerName = "github.com/fakhrymubarak/forecast-api/internal/service"

// ForecastServiceInterface defines the interface for forecast operations
type ForecastServiceInterface interface {
	ListForecasts(ctx context.Context, days int) ([]model.Forecast, error)
	GetForecastByOffset(ctx context.Context, id int) (*model.Forecast, error)
	SubmitForecast(ctx context.Context, forecast model.Forecast) (*model.Forecast, int, error)
}

// ForecastService generates random forecasts. It keeps no state between calls.
type ForecastService struct {
	rnd    RandomSource
	now    func() time.Time
	logger *zap.SugaredLogger
	tracer trace.Tracer
}

// Option configures a ForecastService.
type Option func(*ForecastService)

func WithRandomSource(src RandomSource) Option {
	return func(s *ForecastService) {
		if src != nil {
			s.rnd = src
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *ForecastService) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *ForecastService) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *ForecastService) {
		if t != nil {
			s.tracer = t
		}
	}
}

// NewForecastService creates a new forecast service instance
func NewForecastService(opts ...Option) *ForecastService {
	s := &ForecastService{
		rnd:    NewRandomSource(),
		now:    time.Now,
		logger: config.GetLogger(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListForecasts returns one forecast per day for the next days days, tomorrow first.
func (s *ForecastService) ListForecasts(ctx context.Context, days int) ([]model.Forecast, error) {
	_, span := s.startSpan(ctx, "forecast.list", attribute.Int("forecast.days", days))
	defer span.End()

	s.logger.Infow("Getting weather forecast", "days", days)

	if err := checkRange("days", days); err != nil {
		return nil, spanError(span, err)
	}

	today := model.DateOf(s.now())
	forecasts := make([]model.Forecast, 0, days)
	for offset := 1; offset <= days; offset++ {
		forecasts = append(forecasts, s.generate(today.AddDays(offset)))
	}
	return forecasts, nil
}

// GetForecastByOffset returns the forecast for id days from today (1 is tomorrow).
func (s *ForecastService) GetForecastByOffset(ctx context.Context, id int) (*model.Forecast, error) {
	_, span := s.startSpan(ctx, "forecast.get", attribute.Int("forecast.offset", id))
	defer span.End()

	if err := checkRange("id", id); err != nil {
		return nil, spanError(span, err)
	}

	s.logger.Infow("Getting weather forecast for day", "day", id)

	forecast := s.generate(model.DateOf(s.now()).AddDays(id))
	return &forecast, nil
}

// SubmitForecast applies a small random variation to the submitted temperature and
// echoes the forecast back together with the offset it is reachable at. Nothing is stored.
func (s *ForecastService) SubmitForecast(ctx context.Context, forecast model.Forecast) (*model.Forecast, int, error) {
	_, span := s.startSpan(ctx, "forecast.submit", attribute.String("forecast.date", forecast.Date.String()))
	defer span.End()

	if forecast.Date.IsZero() {
		return nil, 0, spanError(span, ErrMissingDate)
	}

	s.logger.Infow("Creating new weather forecast", "date", forecast.Date.String())

	forecast.TemperatureC += between(s.rnd, MinPerturbation, MaxPerturbation)
	return &forecast, SubmittedLocationID, nil
}

func (s *ForecastService) generate(date model.Date) model.Forecast {
	temperature := between(s.rnd, MinTemperatureC, MaxTemperatureC)
	summary := model.Summaries[s.rnd.IntN(len(model.Summaries))]
	return model.Forecast{
		Date:         date,
		TemperatureC: temperature,
		Summary:      &summary,
	}
}

func (s *ForecastService) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if ctx == nil {
		ctx = context.Background()
	}
	return s.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
