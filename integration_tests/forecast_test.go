package integrationtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fakhrymubarak/forecast-api/internal/config"
	"github.com/fakhrymubarak/forecast-api/internal/model"
	"github.com/fakhrymubarak/forecast-api/internal/redis"
	"github.com/fakhrymubarak/forecast-api/internal/service"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

var today = time.Date(2026, time.March, 30, 9, 0, 0, 0, time.Local)

type ForecastAPITestSuite struct {
	suite.Suite
	httpServer *httptest.Server
	miniRedis  *miniredis.Miniredis
}

func (suite *ForecastAPITestSuite) SetupSuite() {
	createMockRedisServer()
	suite.miniRedis = miniRedisMock
	viper.Set("redis.addr", miniRedisMock.Addr())

	config.ReloadConfigForTest()
	redis.ResetClientForTest()

	suite.httpServer = setupIntegrationTestServer(testServerOptions{
		globalLimit: 1000,
		paramLimit:  1000,
		now:         today,
	})
}

func (suite *ForecastAPITestSuite) SetupTest() {
	suite.miniRedis.FlushAll()
}

func (suite *ForecastAPITestSuite) TearDownSuite() {
	if suite.httpServer != nil {
		suite.httpServer.Close()
	}
	_ = redis.Close()
	redis.ResetClientForTest()
	if suite.miniRedis != nil {
		suite.miniRedis.Close()
	}
}

func TestForecastAPITestSuite(t *testing.T) {
	suite.Run(t, new(ForecastAPITestSuite))
}

func (suite *ForecastAPITestSuite) do(method, path, body string) *http.Response {
	req, err := http.NewRequest(method, suite.httpServer.URL+path, strings.NewReader(body))
	suite.Require().NoError(err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := suite.httpServer.Client().Do(req)
	suite.Require().NoError(err)
	return resp
}

// wireForecast mirrors the response body, including the derived temperatureF.
type wireForecast struct {
	Date         string  `json:"date"`
	TemperatureC int     `json:"temperatureC"`
	TemperatureF int     `json:"temperatureF"`
	Summary      *string `json:"summary"`
}

func decodeForecasts(t *testing.T, resp *http.Response) []wireForecast {
	var forecasts []wireForecast
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&forecasts))
	return forecasts
}

func decodeError(t *testing.T, resp *http.Response) string {
	var errResp model.Response
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	if errResp.Error == nil {
		return ""
	}
	return *errResp.Error
}

func assertForecastInvariants(t *testing.T, f wireForecast) {
	assert.GreaterOrEqual(t, f.TemperatureC, service.MinTemperatureC)
	assert.LessOrEqual(t, f.TemperatureC, service.MaxTemperatureC)
	assert.Equal(t, model.Forecast{TemperatureC: f.TemperatureC}.TemperatureF(), f.TemperatureF)
	if assert.NotNil(t, f.Summary) {
		assert.Contains(t, model.Summaries, *f.Summary)
	}
}

func (suite *ForecastAPITestSuite) TestListForecasts() {
	tests := []struct {
		name       string
		query      string
		wantStatus int
		wantCount  int
		wantError  string
	}{
		{name: "Success - default days", query: "", wantStatus: http.StatusOK, wantCount: service.DefaultDays},
		{name: "Success - one day", query: "?days=1", wantStatus: http.StatusOK, wantCount: 1},
		{name: "Success - fourteen days", query: "?days=14", wantStatus: http.StatusOK, wantCount: 14},
		{name: "Error - zero days", query: "?days=0", wantStatus: http.StatusBadRequest, wantError: "Days must be between 1 and 14"},
		{name: "Error - fifteen days", query: "?days=15", wantStatus: http.StatusBadRequest, wantError: "Days must be between 1 and 14"},
		{name: "Error - negative days", query: "?days=-3", wantStatus: http.StatusBadRequest, wantError: "Days must be between 1 and 14"},
		{name: "Error - not a number", query: "?days=abc", wantStatus: http.StatusBadRequest, wantError: "Days must be an integer"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			resp := suite.do(http.MethodGet, "/api/forecast"+tt.query, "")
			defer resp.Body.Close()

			suite.Equal(tt.wantStatus, resp.StatusCode)
			suite.Equal("application/json", resp.Header.Get("Content-Type"))

			if tt.wantError != "" {
				suite.Equal(tt.wantError, decodeError(suite.T(), resp))
				return
			}

			forecasts := decodeForecasts(suite.T(), resp)
			suite.Len(forecasts, tt.wantCount)
			start := model.DateOf(today)
			for i, f := range forecasts {
				suite.Equal(start.AddDays(i+1).String(), f.Date)
				assertForecastInvariants(suite.T(), f)
			}
		})
	}
}

func (suite *ForecastAPITestSuite) TestGetForecast() {
	tests := []struct {
		name       string
		id         string
		wantStatus int
		wantError  string
	}{
		{name: "Success - tomorrow", id: "1", wantStatus: http.StatusOK},
		{name: "Success - last day", id: "14", wantStatus: http.StatusOK},
		{name: "Error - today", id: "0", wantStatus: http.StatusBadRequest, wantError: "ID must be between 1 and 14"},
		{name: "Error - beyond window", id: "15", wantStatus: http.StatusBadRequest, wantError: "ID must be between 1 and 14"},
		{name: "Error - not a number", id: "x", wantStatus: http.StatusBadRequest, wantError: "ID must be an integer"},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			resp := suite.do(http.MethodGet, "/api/forecast/"+tt.id, "")
			defer resp.Body.Close()

			suite.Equal(tt.wantStatus, resp.StatusCode)
			if tt.wantError != "" {
				suite.Equal(tt.wantError, decodeError(suite.T(), resp))
				return
			}

			var f wireForecast
			suite.NoError(json.NewDecoder(resp.Body).Decode(&f))
			offset := map[string]int{"1": 1, "14": 14}[tt.id]
			suite.Equal(model.DateOf(today).AddDays(offset).String(), f.Date)
			assertForecastInvariants(suite.T(), f)
		})
	}
}

func (suite *ForecastAPITestSuite) TestSubmitForecast() {
	suite.Run("Success - perturbs temperature and keeps summary", func() {
		resp := suite.do(http.MethodPost, "/api/forecast",
			`{"date":"2026-04-02","temperatureC":20,"temperatureF":999,"summary":"Mild"}`)
		defer resp.Body.Close()

		suite.Equal(http.StatusCreated, resp.StatusCode)
		suite.Equal("/api/forecast/1", resp.Header.Get("Location"))

		var f wireForecast
		suite.NoError(json.NewDecoder(resp.Body).Decode(&f))
		suite.Equal("2026-04-02", f.Date)
		suite.GreaterOrEqual(f.TemperatureC, 20+service.MinPerturbation)
		suite.LessOrEqual(f.TemperatureC, 20+service.MaxPerturbation)
		suite.Equal(model.Forecast{TemperatureC: f.TemperatureC}.TemperatureF(), f.TemperatureF)
		suite.Require().NotNil(f.Summary)
		suite.Equal("Mild", *f.Summary)
	})

	suite.Run("Success - null summary stays null", func() {
		resp := suite.do(http.MethodPost, "/api/forecast", `{"date":"2026-04-02","temperatureC":-10}`)
		defer resp.Body.Close()

		suite.Equal(http.StatusCreated, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		suite.Contains(string(body), `"summary":null`)
	})

	suite.Run("Error - missing date", func() {
		resp := suite.do(http.MethodPost, "/api/forecast", `{"temperatureC":10}`)
		defer resp.Body.Close()

		suite.Equal(http.StatusBadRequest, resp.StatusCode)
		suite.Equal("Date is required", decodeError(suite.T(), resp))
	})

	suite.Run("Error - malformed body", func() {
		resp := suite.do(http.MethodPost, "/api/forecast", `{"date":`)
		defer resp.Body.Close()

		suite.Equal(http.StatusBadRequest, resp.StatusCode)
		suite.Equal("Invalid request body", decodeError(suite.T(), resp))
	})
}

func (suite *ForecastAPITestSuite) TestMethodNotAllowed() {
	resp := suite.do(http.MethodDelete, "/api/forecast", "")
	defer resp.Body.Close()

	suite.Equal(http.StatusMethodNotAllowed, resp.StatusCode)
	allow := resp.Header.Get("Allow")
	suite.Contains(allow, http.MethodGet)
	suite.Contains(allow, http.MethodPost)
}

func (suite *ForecastAPITestSuite) TestNotFound() {
	resp := suite.do(http.MethodGet, "/weather?location=London", "")
	defer resp.Body.Close()

	suite.Equal(http.StatusNotFound, resp.StatusCode)
	suite.Equal("Resource not found", decodeError(suite.T(), resp))
}

func (suite *ForecastAPITestSuite) TestOperationalEndpoints() {
	suite.Run("health", func() {
		resp := suite.do(http.MethodGet, "/health", "")
		defer resp.Body.Close()
		suite.Equal(http.StatusOK, resp.StatusCode)
	})

	suite.Run("metrics count forecast requests", func() {
		r := suite.do(http.MethodGet, "/api/forecast/2", "")
		r.Body.Close()

		resp := suite.do(http.MethodGet, "/metrics", "")
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		suite.Contains(string(body), `route="/api/forecast/{id}"`)
	})

	suite.Run("swagger document", func() {
		resp := suite.do(http.MethodGet, "/swagger/doc.json", "")
		defer resp.Body.Close()
		suite.Equal(http.StatusOK, resp.StatusCode)
		body, _ := io.ReadAll(resp.Body)
		suite.Contains(string(body), `"/forecast/{id}"`)
	})

	suite.Run("request id echoed", func() {
		resp := suite.do(http.MethodGet, "/api/forecast?days=1", "")
		defer resp.Body.Close()
		suite.NotEmpty(resp.Header.Get("X-Request-ID"))
	})
}

func (suite *ForecastAPITestSuite) TestRateLimitCountersInRedis() {
	resp := suite.do(http.MethodGet, "/api/forecast?days=2", "")
	resp.Body.Close()
	suite.Equal(http.StatusOK, resp.StatusCode)

	keys := suite.miniRedis.Keys()
	suite.Len(keys, 2)
	for _, k := range keys {
		suite.True(strings.HasPrefix(k, "ratelimit:"), k)
		suite.True(suite.miniRedis.TTL(k) > 0, k)
	}
}

func TestRedisRateLimit_ExceedsBudget(t *testing.T) {
	mr := miniredis.RunT(t)
	viper.Set("redis.addr", mr.Addr())
	redis.ResetClientForTest()
	defer redis.ResetClientForTest()

	server := setupIntegrationTestServer(testServerOptions{globalLimit: 100, paramLimit: 2, now: today})
	defer server.Close()

	for i := 0; i < 2; i++ {
		resp, err := server.Client().Get(server.URL + "/api/forecast?days=3")
		assert.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := server.Client().Get(server.URL + "/api/forecast?days=3")
	assert.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)

	var errResp model.Response
	assert.NoError(t, json.NewDecoder(resp.Body).Decode(&errResp))
	assert.Equal(t, "Too Many Requests (per-param limit)", errResp.Message)

	// another day count has its own budget
	resp2, err := server.Client().Get(server.URL + "/api/forecast?days=4")
	assert.NoError(t, err)
	resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}
