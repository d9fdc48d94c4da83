package usecases_test

import (
	"context"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/ports"
)

// --- Mock FieldRepository ---

type mockFieldRepo struct {
	createFn       func(ctx context.Context, field *domain.Field) error
	getByFieldIDFn func(ctx context.Context, fieldID string) (*domain.Field, error)
	listFn         func(ctx context.Context, userID string, limit, offset int) ([]domain.Field, int, error)
}

func (m *mockFieldRepo) Create(ctx context.Context, field *domain.Field) error {
	if m.createFn != nil {
		return m.createFn(ctx, field)
	}
	return nil
}

func (m *mockFieldRepo) Update(ctx context.Context, field *domain.Field) error { return nil }

func (m *mockFieldRepo) GetByFieldID(ctx context.Context, fieldID string) (*domain.Field, error) {
	if m.getByFieldIDFn != nil {
		return m.getByFieldIDFn(ctx, fieldID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockFieldRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.Field, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, userID, limit, offset)
	}
	return nil, 0, nil
}

func (m *mockFieldRepo) Delete(ctx context.Context, fieldID string) error { return nil }

// --- Mock LayoutRepository ---

type mockLayoutRepo struct {
	createFn        func(ctx context.Context, layout *domain.PlantingLayout) error
	getByLayoutIDFn func(ctx context.Context, layoutID string) (*domain.PlantingLayout, error)
}

func (m *mockLayoutRepo) Create(ctx context.Context, layout *domain.PlantingLayout) error {
	if m.createFn != nil {
		return m.createFn(ctx, layout)
	}
	return nil
}

func (m *mockLayoutRepo) GetByLayoutID(ctx context.Context, layoutID string) (*domain.PlantingLayout, error) {
	if m.getByLayoutIDFn != nil {
		return m.getByLayoutIDFn(ctx, layoutID)
	}
	return nil, domain.ErrNotFound
}

func (m *mockLayoutRepo) ListByField(ctx context.Context, fieldID string, limit, offset int) ([]domain.PlantingLayout, int, error) {
	return nil, 0, nil
}

func (m *mockLayoutRepo) Delete(ctx context.Context, layoutID string) error { return nil }

// --- Mock CalculationRepository ---

type mockCalcRepo struct {
	createFn func(ctx context.Context, calc *domain.PlantingCalculation) error
}

func (m *mockCalcRepo) Create(ctx context.Context, calc *domain.PlantingCalculation) error {
	if m.createFn != nil {
		return m.createFn(ctx, calc)
	}
	return nil
}

func (m *mockCalcRepo) GetByCalculationID(ctx context.Context, calcID string) (*domain.PlantingCalculation, error) {
	return nil, domain.ErrNotFound
}

func (m *mockCalcRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.PlantingCalculation, int, error) {
	return nil, 0, nil
}

// --- Mock SessionRepository ---

type mockSessionRepo struct {
	sessions map[string]*domain.AnalysisSession
	createFn func(ctx context.Context, session *domain.AnalysisSession) error
}

func newMockSessionRepo() *mockSessionRepo {
	return &mockSessionRepo{sessions: make(map[string]*domain.AnalysisSession)}
}

func (m *mockSessionRepo) Create(ctx context.Context, session *domain.AnalysisSession) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	cp := *session
	m.sessions[session.SessionID] = &cp
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *domain.AnalysisSession) error {
	cp := *session
	m.sessions[session.SessionID] = &cp
	return nil
}

func (m *mockSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.AnalysisSession, error) {
	if s, ok := m.sessions[sessionID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockSessionRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.AnalysisSession, int, error) {
	return nil, 0, nil
}

// --- Mock QualityRepository ---

type mockQualityRepo struct {
	createFn func(ctx context.Context, report *domain.QualityReport) error
}

func (m *mockQualityRepo) Create(ctx context.Context, report *domain.QualityReport) error {
	if m.createFn != nil {
		return m.createFn(ctx, report)
	}
	return nil
}

func (m *mockQualityRepo) GetByReportID(ctx context.Context, reportID string) (*domain.QualityReport, error) {
	return nil, domain.ErrNotFound
}

func (m *mockQualityRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.QualityReport, int, error) {
	return nil, 0, nil
}

// --- Mock UserRepository ---

type mockUserRepo struct {
	users map[string]*domain.User // keyed by email
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*domain.User)}
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	m.users[user.Email] = user
	return nil
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

// --- Mock Detector ---

type mockDetector struct {
	detectGrowthFn  func(ctx context.Context, imageURL string) ([]domain.Detection, string, error)
	detectQualityFn func(ctx context.Context, imageURLs []string) ([]domain.Detection, int, int, error)
}

func (m *mockDetector) DetectGrowth(ctx context.Context, imageURL string) ([]domain.Detection, string, error) {
	if m.detectGrowthFn != nil {
		return m.detectGrowthFn(ctx, imageURL)
	}
	return nil, "", nil
}

func (m *mockDetector) DetectQuality(ctx context.Context, imageURLs []string) ([]domain.Detection, int, int, error) {
	if m.detectQualityFn != nil {
		return m.detectQualityFn(ctx, imageURLs)
	}
	return nil, 0, 0, nil
}

func (m *mockDetector) Healthy(ctx context.Context) error { return nil }

// --- Mock WeatherProvider ---

type mockWeather struct {
	currentFn  func(ctx context.Context, lat, lon float64) (*domain.Weather, error)
	forecastFn func(ctx context.Context, lat, lon float64, days int) ([]domain.ForecastDay, error)
}

func (m *mockWeather) Current(ctx context.Context, lat, lon float64) (*domain.Weather, error) {
	if m.currentFn != nil {
		return m.currentFn(ctx, lat, lon)
	}
	return &domain.Weather{Condition: "sunny", TemperatureC: 25}, nil
}

func (m *mockWeather) Forecast(ctx context.Context, lat, lon float64, days int) ([]domain.ForecastDay, error) {
	if m.forecastFn != nil {
		return m.forecastFn(ctx, lat, lon, days)
	}
	return nil, nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	jobs      []*ports.AnalysisJob
	completed []*domain.AnalysisSession
	layouts   []*domain.PlantingLayout
	publishFn func(ctx context.Context, job *ports.AnalysisJob) error
}

func (m *mockPublisher) PublishAnalysisJob(ctx context.Context, job *ports.AnalysisJob) error {
	if m.publishFn != nil {
		return m.publishFn(ctx, job)
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockPublisher) PublishAnalysisCompleted(ctx context.Context, session *domain.AnalysisSession) error {
	m.completed = append(m.completed, session)
	return nil
}

func (m *mockPublisher) PublishLayoutGenerated(ctx context.Context, layout *domain.PlantingLayout) error {
	m.layouts = append(m.layouts, layout)
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, subject string, data []byte) error {
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	data map[string][]byte
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}
