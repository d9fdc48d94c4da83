package ports

import (
	"context"

	"github.com/agrivision/backend/internal/core/domain"
)

// AnalysisJob is the payload queued for the analyzer worker.
type AnalysisJob struct {
	SessionID string `json:"session_id"`
	ImageURL  string `json:"image_url"`
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishAnalysisJob(ctx context.Context, job *AnalysisJob) error
	PublishAnalysisCompleted(ctx context.Context, session *domain.AnalysisSession) error
	PublishLayoutGenerated(ctx context.Context, layout *domain.PlantingLayout) error
	PublishBroadcast(ctx context.Context, subject string, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeAnalysisJobs(ctx context.Context, handler func(ctx context.Context, job *AnalysisJob) error) error
	SubscribeAnalysisCompleted(ctx context.Context, handler func(ctx context.Context, session *domain.AnalysisSession) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// Detector calls the ML detection sidecar.
type Detector interface {
	// DetectGrowth runs the plant-part model over one image and returns the
	// raw detections plus the URL of the annotated copy, if produced.
	DetectGrowth(ctx context.Context, imageURL string) ([]domain.Detection, string, error)
	// DetectQuality runs the fruit-grading model over a batch of images.
	DetectQuality(ctx context.Context, imageURLs []string) ([]domain.Detection, int, int, error)
	Healthy(ctx context.Context) error
}

// WeatherProvider fetches current conditions and forecasts for a location.
type WeatherProvider interface {
	Current(ctx context.Context, lat, lon float64) (*domain.Weather, error)
	Forecast(ctx context.Context, lat, lon float64, days int) ([]domain.ForecastDay, error)
}
