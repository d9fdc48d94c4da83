package domain

import "time"

// Weather is a normalized current-conditions reading.
// Condition is one of "sunny", "rainy", "cloudy" — the coarse classes the
// fertilizer planner understands.
type Weather struct {
	Condition    string    `json:"condition"`
	TemperatureC float64   `json:"temperature"`
	Humidity     float64   `json:"humidity"`
	WindSpeedMS  float64   `json:"wind_speed"`
	Description  string    `json:"description,omitempty"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// ForecastDay is a single day of aggregated forecast data.
type ForecastDay struct {
	Date         string  `json:"date"` // YYYY-MM-DD
	Condition    string  `json:"condition"`
	TemperatureC float64 `json:"temperature"`
	Humidity     float64 `json:"humidity"`
	TempMinC     float64 `json:"temp_min"`
	TempMaxC     float64 `json:"temp_max"`
}
