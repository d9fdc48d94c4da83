//go:build integration
// +build integration

package http_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/agrivision/backend/internal/adapters/http"
	"github.com/agrivision/backend/internal/adapters/postgres"
	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/usecases"
	"github.com/agrivision/backend/internal/pkg/config"
)

// setupTestDB connects to the test database and returns a clean DB instance.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("agrivision-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	dsn := cfg.Database.DSN()
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}

	db := &postgres.DB{Pool: pool}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("ping db: %v", err)
	}

	return db
}

// setupTestDeps creates dependencies with real DB and repos, no cache or broker.
func setupTestDeps(t *testing.T, db *postgres.DB) *http.Dependencies {
	fieldRepo := postgres.NewFieldRepo(db)
	layoutRepo := postgres.NewLayoutRepo(db)
	calcRepo := postgres.NewCalculationRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	qualityRepo := postgres.NewQualityRepo(db)
	userRepo := postgres.NewUserRepo(db)

	return &http.Dependencies{
		Fields:   usecases.NewFieldService(fieldRepo, nil),
		Layouts:  usecases.NewLayoutService(layoutRepo, fieldRepo, &mockPublisher{}, nil, nil),
		Planting: usecases.NewPlantingService(calcRepo, nil),
		Analyses: usecases.NewAnalysisService(sessionRepo, &mockDetector{}, &mockWeatherProvider{}, &mockPublisher{}, nil),
		Quality:  usecases.NewQualityService(qualityRepo, &mockDetector{}),
		Weather:  usecases.NewWeatherService(&mockWeatherProvider{}, nil),
		Auth:     usecases.NewAuthService(userRepo, "integration-secret", time.Hour),
		DB:       db,
	}
}

// seedTestField inserts a field through the service and returns its public id.
func seedTestField(t *testing.T, deps *http.Dependencies, name string, areaM2 float64) string {
	created, err := deps.Fields.Create(context.Background(), &domain.Field{
		Name:   name,
		AreaM2: areaM2,
	})
	if err != nil {
		t.Fatalf("seed field: %v", err)
	}
	return created.FieldID
}

// TestFieldCRUD_Integration exercises field create/get/delete against a real database.
func TestFieldCRUD_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	name := "integ-plot-" + time.Now().Format("20060102150405")
	fieldID := seedTestField(t, deps, name, 1200)

	req := httptest.NewRequest("GET", "/v1/fields/"+fieldID, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("test request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var field domain.Field
	if err := json.NewDecoder(resp.Body).Decode(&field); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if field.Name != name {
		t.Errorf("expected name %s, got %s", name, field.Name)
	}
	if field.AreaM2 != 1200 {
		t.Errorf("expected area 1200, got %v", field.AreaM2)
	}

	req = httptest.NewRequest("DELETE", "/v1/fields/"+fieldID, nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("delete request: %v", err)
	}
	if resp.StatusCode != 204 {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
}

// TestLayoutPersistence_Integration generates and persists a layout, then reads it back.
func TestLayoutPersistence_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	fieldID := seedTestField(t, deps, "integ-layout-"+time.Now().Format("150405"), 900)

	payload := `{"field_id":"` + fieldID + `","save":true}`
	req := httptest.NewRequest("POST", "/v1/layouts/generate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("generate request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var layout domain.PlantingLayout
	if err := json.NewDecoder(resp.Body).Decode(&layout); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if layout.TotalPlants == 0 {
		t.Fatal("expected plants in generated layout")
	}

	req = httptest.NewRequest("GET", "/v1/layouts/"+layout.LayoutID, nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var stored domain.PlantingLayout
	if err := json.NewDecoder(resp.Body).Decode(&stored); err != nil {
		t.Fatalf("decode stored layout: %v", err)
	}
	if stored.TotalPlants != layout.TotalPlants {
		t.Errorf("stored plant count %d differs from generated %d", stored.TotalPlants, layout.TotalPlants)
	}
}

// TestPlantingHistory_Integration stores a calculation and finds it in history.
func TestPlantingHistory_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupTestDB(t)
	defer db.Pool.Close()

	deps := setupTestDeps(t, db)
	app := setupApp(deps)

	payload := `{"crop_type":"tomato","field_area_m2":500,"soil_ph":6.5,"soil_type":"loamy","temperature_c":26}`
	req := httptest.NewRequest("POST", "/v1/planting/calculate", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("calculate request: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var calc domain.PlantingCalculation
	if err := json.NewDecoder(resp.Body).Decode(&calc); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	req = httptest.NewRequest("GET", "/v1/planting/calculations/"+calc.CalculationID, nil)
	resp, err = app.Test(req, -1)
	if err != nil {
		t.Fatalf("get request: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
