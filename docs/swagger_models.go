package docs

// This file contains models used by Swagger documentation
// It doesn't affect the actual application logic, just documentation

// Forecast is the wire shape of model.Forecast
// @Description Weather forecast for one day
type Forecast struct {
	// Calendar day, YYYY-MM-DD
	Date string `json:"date" example:"2026-10-20"`

	// Temperature in degrees Celsius
	TemperatureC int `json:"temperatureC" example:"21"`

	// Derived from temperatureC; ignored on input
	TemperatureF int `json:"temperatureF" example:"69"`

	// One of Freezing, Bracing, Chilly, Cool, Mild, Warm, Balmy, Hot, Sweltering, Scorching
	Summary *string `json:"summary" example:"Mild"`
}

// ForecastInput is the body accepted when submitting a forecast
// @Description Forecast submitted by a client
type ForecastInput struct {
	Date         string  `json:"date" example:"2026-10-20" binding:"required"`
	TemperatureC int     `json:"temperatureC" example:"21"`
	Summary      *string `json:"summary" example:"Mild"`
}
