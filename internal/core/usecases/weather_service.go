package usecases

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/ports"
)

// WeatherService serves current conditions and forecasts with caching in
// front of the upstream provider.
type WeatherService struct {
	provider ports.WeatherProvider
	cache    ports.CacheService
}

// NewWeatherService creates a new WeatherService.
func NewWeatherService(provider ports.WeatherProvider, cache ports.CacheService) *WeatherService {
	return &WeatherService{provider: provider, cache: cache}
}

// Current returns current conditions for a coordinate. Readings are cached
// for 10 minutes; upstream weather does not move faster than that.
func (s *WeatherService) Current(ctx context.Context, lat, lon float64) (*domain.Weather, error) {
	key := fmt.Sprintf("weather:current:%.2f:%.2f", lat, lon)
	return cachedJSON(ctx, s.cache, key, 600, func() (*domain.Weather, error) {
		return s.provider.Current(ctx, lat, lon)
	})
}

// Forecast returns up to seven days of forecast for a coordinate, cached
// for an hour.
func (s *WeatherService) Forecast(ctx context.Context, lat, lon float64, days int) ([]domain.ForecastDay, error) {
	if days <= 0 || days > 7 {
		days = 7
	}

	key := fmt.Sprintf("weather:forecast:%.2f:%.2f:%d", lat, lon, days)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key); err == nil {
			var forecast []domain.ForecastDay
			if err := json.Unmarshal(data, &forecast); err == nil {
				return forecast, nil
			}
		}
	}

	forecast, err := s.provider.Forecast(ctx, lat, lon, days)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(forecast); err == nil {
			_ = s.cache.Set(ctx, key, data, 3600)
		}
	}
	return forecast, nil
}
