package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/fakhrymubarak/forecast-api/internal/config"
	"github.com/fakhrymubarak/forecast-api/internal/model"
	"github.com/fakhrymubarak/forecast-api/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type ForecastHandler struct {
	ForecastService service.ForecastServiceInterface
	// BasePath prefixes the Location header of created forecasts.
	BasePath string
	Logger   *zap.SugaredLogger
}

func NewForecastHandler(svc ...service.ForecastServiceInterface) *ForecastHandler {
	var forecastService service.ForecastServiceInterface
	if len(svc) > 0 && svc[0] != nil {
		forecastService = svc[0]
	} else {
		forecastService = service.NewForecastService()
	}
	return &ForecastHandler{
		ForecastService: forecastService,
		BasePath:        config.GetBasePath(),
		Logger:          config.GetLogger(),
	}
}

func (h *ForecastHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger().Errorw("could not encode json", "error", err)
	}
}

func (h *ForecastHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	h.writeJSONResponse(w, statusCode, model.NewErrorResponse(errMsg, "Error"))
}

func (h *ForecastHandler) logger() *zap.SugaredLogger {
	if h.Logger == nil {
		return zap.NewNop().Sugar()
	}
	return h.Logger
}

// handleServiceError maps service errors onto client or server responses.
func (h *ForecastHandler) handleServiceError(w http.ResponseWriter, err error, rangeMsg string) {
	switch {
	case errors.Is(err, service.ErrInvalidRange):
		h.writeError(w, http.StatusBadRequest, rangeMsg)
	case errors.Is(err, service.ErrMissingDate):
		h.writeError(w, http.StatusBadRequest, "Date is required")
	default:
		h.logger().Errorw("Forecast service failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ListForecasts godoc
// @Summary      List forecasts
// @Description  Returns one random forecast per day for the next `days` days, tomorrow first.
// @Tags         forecast
// @Produce      json
// @Param        days  query     int  false  "Number of days to forecast (1-14)"  default(5)
// @Success      200   {array}   docs.Forecast
// @Failure      400   {object}  model.Response
// @Failure      429   {object}  model.Response
// @Router       /forecast [get]
func (h *ForecastHandler) ListForecasts(w http.ResponseWriter, r *http.Request) {
	days := service.DefaultDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "Days must be an integer")
			return
		}
		days = parsed
	}

	forecasts, err := h.ForecastService.ListForecasts(r.Context(), days)
	if err != nil {
		h.handleServiceError(w, err, fmt.Sprintf("Days must be between %d and %d", service.MinDays, service.MaxDays))
		return
	}
	h.writeJSONResponse(w, http.StatusOK, forecasts)
}

// GetForecast godoc
// @Summary      Get a forecast by day offset
// @Description  Returns the forecast for `id` days from today (1 = tomorrow).
// @Tags         forecast
// @Produce      json
// @Param        id   path      int  true  "Day offset (1-14)"
// @Success      200  {object}  docs.Forecast
// @Failure      400  {object}  model.Response
// @Failure      429  {object}  model.Response
// @Router       /forecast/{id} [get]
func (h *ForecastHandler) GetForecast(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, "ID must be an integer")
		return
	}

	forecast, err := h.ForecastService.GetForecastByOffset(r.Context(), id)
	if err != nil {
		h.handleServiceError(w, err, fmt.Sprintf("ID must be between %d and %d", service.MinDays, service.MaxDays))
		return
	}
	h.writeJSONResponse(w, http.StatusOK, forecast)
}

// SubmitForecast godoc
// @Summary      Submit a forecast
// @Description  Echoes the forecast with a small random temperature variation. Nothing is stored;
// @Description  the Location header always points at day 1.
// @Tags         forecast
// @Accept       json
// @Produce      json
// @Param        forecast  body      docs.ForecastInput  true  "Forecast to submit"
// @Success      201       {object}  docs.Forecast
// @Header       201       {string}  Location  "URL of the forecast for day 1"
// @Failure      400       {object}  model.Response
// @Failure      429       {object}  model.Response
// @Router       /forecast [post]
func (h *ForecastHandler) SubmitForecast(w http.ResponseWriter, r *http.Request) {
	var in model.Forecast
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&in); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	forecast, locationID, err := h.ForecastService.SubmitForecast(r.Context(), in)
	if err != nil {
		h.handleServiceError(w, err, "")
		return
	}

	w.Header().Set("Location", fmt.Sprintf("%s/forecast/%d", h.BasePath, locationID))
	h.writeJSONResponse(w, http.StatusCreated, forecast)
}

// Health is the liveness probe; it lives outside the documented base path.
func (h *ForecastHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// MethodNotAllowed answers 405 with the JSON envelope and the methods the path does accept.
func (h *ForecastHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	if allowed := allowedMethods(r); len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
}

func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	var allowed []string
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, r.URL.Path) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

func (h *ForecastHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, http.StatusNotFound, "Resource not found")
}
