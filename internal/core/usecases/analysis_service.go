package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/agrivision/backend/internal/core/agronomy"
	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/ports"
)

// AnalysisRequest starts an asynchronous plant-image analysis.
type AnalysisRequest struct {
	ImageURL    string   `json:"image_url"`
	FieldID     string   `json:"field_id,omitempty"`
	Nitrogen    *float64 `json:"nitrogen,omitempty"`
	Phosphorus  *float64 `json:"phosphorus,omitempty"`
	Potassium   *float64 `json:"potassium,omitempty"`
	PH          *float64 `json:"ph,omitempty"`
	Temperature *float64 `json:"temperature,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	Lat         *float64 `json:"location_lat,omitempty"`
	Lon         *float64 `json:"location_lng,omitempty"`
	UserID      string   `json:"-"`
}

// AnalysisService queues image analyses and turns detector output into
// growth stages and fertilizer plans.
type AnalysisService struct {
	sessions  ports.SessionRepository
	detector  ports.Detector
	weather   ports.WeatherProvider
	publisher ports.EventPublisher
	logger    *slog.Logger
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(sessions ports.SessionRepository, detector ports.Detector, weather ports.WeatherProvider, publisher ports.EventPublisher, logger *slog.Logger) *AnalysisService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AnalysisService{sessions: sessions, detector: detector, weather: weather, publisher: publisher, logger: logger}
}

// Submit records a queued session and hands the job to the analyzer worker
// through the broker. The caller polls the session for completion.
func (s *AnalysisService) Submit(ctx context.Context, req *AnalysisRequest) (*domain.AnalysisSession, error) {
	if req.ImageURL == "" {
		return nil, fmt.Errorf("%w: image_url must not be empty", domain.ErrInvalidRequest)
	}

	session := &domain.AnalysisSession{
		ID:          uuid.NewString(),
		SessionID:   newPublicID("SES"),
		UserID:      req.UserID,
		FieldID:     req.FieldID,
		Status:      domain.AnalysisQueued,
		ImageURL:    req.ImageURL,
		Nitrogen:    req.Nitrogen,
		Phosphorus:  req.Phosphorus,
		Potassium:   req.Potassium,
		PH:          req.PH,
		Temperature: req.Temperature,
		Humidity:    req.Humidity,
		Lat:         req.Lat,
		Lon:         req.Lon,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	if err := s.publisher.PublishAnalysisJob(ctx, &ports.AnalysisJob{
		SessionID: session.SessionID,
		ImageURL:  session.ImageURL,
	}); err != nil {
		return nil, fmt.Errorf("queue analysis job: %w", err)
	}
	return session, nil
}

// Process runs one queued job end to end: detection, stage inference, NPK
// analysis, and the weather-aware weekly plan. Failures are recorded on the
// session and returned so the broker can retry.
func (s *AnalysisService) Process(ctx context.Context, job *ports.AnalysisJob) error {
	session, err := s.sessions.GetBySessionID(ctx, job.SessionID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", job.SessionID, err)
	}
	if session.Status == domain.AnalysisCompleted {
		// Redelivered job; nothing to do.
		return nil
	}

	session.Status = domain.AnalysisProcessing
	if err := s.sessions.Update(ctx, session); err != nil {
		return err
	}

	detections, annotatedURL, err := s.detector.DetectGrowth(ctx, session.ImageURL)
	if err != nil {
		session.Status = domain.AnalysisFailed
		session.Error = err.Error()
		if uerr := s.sessions.Update(ctx, session); uerr != nil {
			s.logger.Error("persist failed session", "session_id", session.SessionID, "error", uerr)
		}
		return fmt.Errorf("detect growth for %s: %w", session.SessionID, err)
	}

	session.AnnotatedImageURL = annotatedURL
	session.Counts = countDetections(detections)
	session.GrowthStage, session.StageConfidence = agronomy.InferStage(session.Counts)

	forecast := s.fetchForecast(ctx, session)
	session.FertilizerPlan = s.buildPlan(session, forecast)

	now := time.Now().UTC()
	session.Status = domain.AnalysisCompleted
	session.CompletedAt = &now
	if err := s.sessions.Update(ctx, session); err != nil {
		return err
	}

	if s.publisher != nil {
		if err := s.publisher.PublishAnalysisCompleted(ctx, session); err != nil {
			s.logger.Warn("publish analysis completed", "session_id", session.SessionID, "error", err)
		}
	}
	return nil
}

func countDetections(detections []domain.Detection) domain.DetectionCounts {
	var c domain.DetectionCounts
	for _, d := range detections {
		switch d.Label {
		case "flower":
			c.Flower++
		case "fruit":
			c.Fruit++
		case "leaf":
			c.Leaf++
		case "ripening", "ripe_fruit":
			c.Ripening++
		}
	}
	return c
}

// fetchForecast is best effort: the plan degrades to weather-free advice
// when no location is attached or the provider is down.
func (s *AnalysisService) fetchForecast(ctx context.Context, session *domain.AnalysisSession) []domain.ForecastDay {
	if s.weather == nil || session.Lat == nil || session.Lon == nil {
		return nil
	}
	if current, err := s.weather.Current(ctx, *session.Lat, *session.Lon); err == nil {
		session.CurrentWeather = current.Condition
	}
	forecast, err := s.weather.Forecast(ctx, *session.Lat, *session.Lon, 7)
	if err != nil {
		s.logger.Warn("fetch forecast", "session_id", session.SessionID, "error", err)
		return nil
	}
	return forecast
}

func (s *AnalysisService) buildPlan(session *domain.AnalysisSession, forecast []domain.ForecastDay) *domain.FertilizerPlan {
	var npk map[string]domain.NPKStatus
	if session.Nitrogen != nil && session.Phosphorus != nil && session.Potassium != nil {
		npk = agronomy.AnalyzeNPK(session.GrowthStage, *session.Nitrogen, *session.Phosphorus, *session.Potassium)
	}
	return agronomy.BuildWeeklyPlan(agronomy.PlanInputs{
		Stage:    session.GrowthStage,
		NPK:      npk,
		PH:       session.PH,
		Humidity: session.Humidity,
		Forecast: forecast,
	})
}

// Get returns an analysis session by its public identifier.
func (s *AnalysisService) Get(ctx context.Context, sessionID string) (*domain.AnalysisSession, error) {
	return s.sessions.GetBySessionID(ctx, sessionID)
}

// List returns a page of the user's sessions plus the total count.
func (s *AnalysisService) List(ctx context.Context, userID string, limit, offset int) ([]domain.AnalysisSession, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.sessions.List(ctx, userID, limit, offset)
}
