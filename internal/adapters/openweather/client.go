package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/pkg/metrics"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5"

// Client implements ports.WeatherProvider against the OpenWeatherMap API.
// Without an API key it serves deterministic mock data so the rest of the
// system keeps working in development.
type Client struct {
	apiKey  string
	baseURL string
	http    *fasthttp.Client
}

// New creates a new Client. An empty apiKey enables mock mode, an empty
// baseURL falls back to the public OpenWeatherMap endpoint.
func New(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: baseURL,
		http: &fasthttp.Client{
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
	}
}

type owmWeather struct {
	Main string `json:"main"`
	Desc string `json:"description"`
}

type owmCurrent struct {
	Weather []owmWeather `json:"weather"`
	Main    struct {
		Temp     float64 `json:"temp"`
		Humidity float64 `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
}

type owmForecast struct {
	List []struct {
		Dt      int64 `json:"dt"`
		Weather []owmWeather
		Main    struct {
			Temp     float64 `json:"temp"`
			TempMin  float64 `json:"temp_min"`
			TempMax  float64 `json:"temp_max"`
			Humidity float64 `json:"humidity"`
		} `json:"main"`
	} `json:"list"`
}

// mapCondition folds OpenWeatherMap's condition groups into the three
// classes the fertilizer planner understands.
func mapCondition(main string) string {
	switch main {
	case "Rain", "Drizzle", "Thunderstorm", "Snow":
		return "rainy"
	case "Clouds", "Mist", "Fog", "Haze":
		return "cloudy"
	default:
		return "sunny"
	}
}

func (c *Client) get(ctx context.Context, url string, out any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(10 * time.Second)
	}
	if err := c.http.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("openweather request: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return fmt.Errorf("openweather status %d", resp.StatusCode())
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("openweather decode: %w", err)
	}
	return nil
}

// Current fetches current conditions for a coordinate.
func (c *Client) Current(ctx context.Context, lat, lon float64) (*domain.Weather, error) {
	if c.apiKey == "" {
		metrics.WeatherFetches.WithLabelValues("current", "mock").Inc()
		return mockCurrent(), nil
	}

	url := fmt.Sprintf("%s/weather?lat=%f&lon=%f&units=metric&appid=%s", c.baseURL, lat, lon, c.apiKey)
	var cur owmCurrent
	if err := c.get(ctx, url, &cur); err != nil {
		metrics.WeatherFetches.WithLabelValues("current", "error").Inc()
		return nil, err
	}
	metrics.WeatherFetches.WithLabelValues("current", "ok").Inc()

	w := &domain.Weather{
		Condition:    "sunny",
		TemperatureC: cur.Main.Temp,
		Humidity:     cur.Main.Humidity,
		WindSpeedMS:  cur.Wind.Speed,
		FetchedAt:    time.Now().UTC(),
	}
	if len(cur.Weather) > 0 {
		w.Condition = mapCondition(cur.Weather[0].Main)
		w.Description = cur.Weather[0].Desc
	}
	return w, nil
}

// Forecast fetches the 3-hourly forecast and aggregates it into whole days,
// taking per-day temperature extremes and the most frequent condition.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) ([]domain.ForecastDay, error) {
	if days <= 0 {
		days = 7
	}
	if c.apiKey == "" {
		metrics.WeatherFetches.WithLabelValues("forecast", "mock").Inc()
		return mockForecast(days), nil
	}

	url := fmt.Sprintf("%s/forecast?lat=%f&lon=%f&units=metric&appid=%s", c.baseURL, lat, lon, c.apiKey)
	var fc owmForecast
	if err := c.get(ctx, url, &fc); err != nil {
		metrics.WeatherFetches.WithLabelValues("forecast", "error").Inc()
		return nil, err
	}
	metrics.WeatherFetches.WithLabelValues("forecast", "ok").Inc()

	type dayAgg struct {
		tempSum, humSum  float64
		tempMin, tempMax float64
		n                int
		conditions       map[string]int
	}
	byDate := make(map[string]*dayAgg)
	for _, slot := range fc.List {
		date := time.Unix(slot.Dt, 0).UTC().Format("2006-01-02")
		agg, ok := byDate[date]
		if !ok {
			agg = &dayAgg{tempMin: slot.Main.TempMin, tempMax: slot.Main.TempMax, conditions: make(map[string]int)}
			byDate[date] = agg
		}
		agg.tempSum += slot.Main.Temp
		agg.humSum += slot.Main.Humidity
		agg.n++
		if slot.Main.TempMin < agg.tempMin {
			agg.tempMin = slot.Main.TempMin
		}
		if slot.Main.TempMax > agg.tempMax {
			agg.tempMax = slot.Main.TempMax
		}
		if len(slot.Weather) > 0 {
			agg.conditions[mapCondition(slot.Weather[0].Main)]++
		}
	}

	dates := make([]string, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[:days]
	}

	forecast := make([]domain.ForecastDay, 0, len(dates))
	for _, date := range dates {
		agg := byDate[date]
		condition := "sunny"
		best := 0
		for cond, n := range agg.conditions {
			if n > best || (n == best && cond == "rainy") {
				condition, best = cond, n
			}
		}
		forecast = append(forecast, domain.ForecastDay{
			Date:         date,
			Condition:    condition,
			TemperatureC: agg.tempSum / float64(agg.n),
			Humidity:     agg.humSum / float64(agg.n),
			TempMinC:     agg.tempMin,
			TempMaxC:     agg.tempMax,
		})
	}
	return forecast, nil
}

func mockCurrent() *domain.Weather {
	return &domain.Weather{
		Condition:    "sunny",
		TemperatureC: 26,
		Humidity:     65,
		WindSpeedMS:  3.2,
		Description:  "clear sky (mock)",
		FetchedAt:    time.Now().UTC(),
	}
}

func mockForecast(days int) []domain.ForecastDay {
	conditions := []string{"sunny", "sunny", "cloudy", "rainy", "cloudy", "sunny", "sunny"}
	forecast := make([]domain.ForecastDay, 0, days)
	for i := 0; i < days; i++ {
		forecast = append(forecast, domain.ForecastDay{
			Date:         time.Now().UTC().AddDate(0, 0, i).Format("2006-01-02"),
			Condition:    conditions[i%len(conditions)],
			TemperatureC: 26,
			Humidity:     65,
			TempMinC:     21,
			TempMaxC:     30,
		})
	}
	return forecast
}
