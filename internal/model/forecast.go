package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DateLayout is the wire format of a forecast date.
const DateLayout = "2006-01-02"

// Summaries is the fixed, ordered set of forecast labels.
var Summaries = []string{
	"Freezing", "Bracing", "Chilly", "Cool", "Mild", "Warm", "Balmy", "Hot", "Sweltering", "Scorching",
}

// Date is a calendar day without time of day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf returns the calendar day of t in t's location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// AddDays returns the date n days after d, normalising month and year overflow.
func (d Date) AddDays(n int) Date {
	return DateOf(time.Date(d.Year, d.Month, d.Day+n, 0, 0, 0, 0, time.UTC))
}

func (d Date) IsZero() bool {
	return d == Date{}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*d = Date{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Forecast is a single day's weather forecast. TemperatureF is never stored;
// it is derived from TemperatureC whenever the forecast is read.
type Forecast struct {
	Date         Date
	TemperatureC int
	Summary      *string
}

// TemperatureF converts TemperatureC, truncating toward zero.
func (f Forecast) TemperatureF() int {
	return 32 + int(float64(f.TemperatureC)/0.5556)
}

// forecastJSON is the wire shape of a Forecast.
type forecastJSON struct {
	Date         Date    `json:"date"`
	TemperatureC int     `json:"temperatureC"`
	TemperatureF int     `json:"temperatureF"`
	Summary      *string `json:"summary"`
}

func (f Forecast) MarshalJSON() ([]byte, error) {
	return json.Marshal(forecastJSON{
		Date:         f.Date,
		TemperatureC: f.TemperatureC,
		TemperatureF: f.TemperatureF(),
		Summary:      f.Summary,
	})
}

// UnmarshalJSON accepts the wire shape; any temperatureF sent by a client is ignored.
func (f *Forecast) UnmarshalJSON(b []byte) error {
	var in forecastJSON
	if err := json.Unmarshal(b, &in); err != nil {
		return err
	}
	f.Date = in.Date
	f.TemperatureC = in.TemperatureC
	f.Summary = in.Summary
	return nil
}
