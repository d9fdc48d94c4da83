package usecases

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
	"github.com/agrivision/backend/internal/core/ports"
	"github.com/agrivision/backend/internal/pkg/geometry"
)

// Spacing request bounds in centimeters, matching the API contract.
const (
	minRowSpacingCM   = 30
	maxRowSpacingCM   = 200
	minPlantSpacingCM = 20
	maxPlantSpacingCM = 150

	defaultRowSpacingCM   = 75
	defaultPlantSpacingCM = 60
)

// LayoutRequest describes a layout generation call. Exactly one of FieldID,
// Boundary, or AreaM2 locates the plot; zero spacing means the default.
type LayoutRequest struct {
	FieldID        string           `json:"field_id,omitempty"`
	Boundary       []geometry.Point `json:"boundary,omitempty"`
	AreaM2         float64          `json:"area_m2,omitempty"`
	RowSpacingCM   float64          `json:"row_spacing_cm,omitempty"`
	PlantSpacingCM float64          `json:"plant_spacing_cm,omitempty"`
	Persist        bool             `json:"save,omitempty"`
}

// LayoutService generates, persists, and validates planting layouts.
type LayoutService struct {
	layouts   ports.LayoutRepository
	fields    ports.FieldRepository
	publisher ports.EventPublisher
	cache     ports.CacheService
	optimizer *planting.Optimizer
}

// NewLayoutService creates a new LayoutService.
func NewLayoutService(layouts ports.LayoutRepository, fields ports.FieldRepository, publisher ports.EventPublisher, cache ports.CacheService, optimizer *planting.Optimizer) *LayoutService {
	if optimizer == nil {
		optimizer = planting.NewOptimizer(planting.DefaultOptimizerConfig(), nil)
	}
	return &LayoutService{layouts: layouts, fields: fields, publisher: publisher, cache: cache, optimizer: optimizer}
}

func validateSpacingCM(rowCM, plantCM float64) error {
	if rowCM <= minRowSpacingCM || rowCM > maxRowSpacingCM {
		return fmt.Errorf("%w: row spacing %v cm outside (%d, %d]", planting.ErrInvalidSpacing, rowCM, minRowSpacingCM, maxRowSpacingCM)
	}
	if plantCM <= minPlantSpacingCM || plantCM > maxPlantSpacingCM {
		return fmt.Errorf("%w: plant spacing %v cm outside (%d, %d]", planting.ErrInvalidSpacing, plantCM, minPlantSpacingCM, maxPlantSpacingCM)
	}
	return nil
}

// resolveBoundary picks the polygon to plant: the request's own boundary, the
// referenced field's boundary, or a square of the requested area as the
// fallback when only an area is known.
func (s *LayoutService) resolveBoundary(ctx context.Context, req *LayoutRequest) ([]geometry.Point, string, error) {
	if len(req.Boundary) > 0 {
		return req.Boundary, req.FieldID, nil
	}
	if req.FieldID != "" {
		field, err := s.fields.GetByFieldID(ctx, req.FieldID)
		if err != nil {
			return nil, "", err
		}
		if len(field.Boundary) > 0 {
			return field.Boundary, field.FieldID, nil
		}
		if field.AreaM2 > 0 {
			return squareBoundary(field.AreaM2), field.FieldID, nil
		}
		return nil, "", fmt.Errorf("%w: field %s has neither boundary nor area", planting.ErrInvalidBoundary, req.FieldID)
	}
	if req.AreaM2 > 0 {
		return squareBoundary(req.AreaM2), "", nil
	}
	return nil, "", fmt.Errorf("%w: request has neither boundary, field, nor area", planting.ErrInvalidBoundary)
}

func squareBoundary(areaM2 float64) []geometry.Point {
	side := math.Sqrt(areaM2)
	return []geometry.Point{
		{X: 0, Y: 0},
		{X: side, Y: 0},
		{X: side, Y: side},
		{X: 0, Y: side},
		{X: 0, Y: 0},
	}
}

// Generate runs the grid sweep for the request and optionally persists the
// resulting layout.
func (s *LayoutService) Generate(ctx context.Context, req *LayoutRequest) (*domain.PlantingLayout, error) {
	rowCM := req.RowSpacingCM
	if rowCM == 0 {
		rowCM = defaultRowSpacingCM
	}
	plantCM := req.PlantSpacingCM
	if plantCM == 0 {
		plantCM = defaultPlantSpacingCM
	}
	if err := validateSpacingCM(rowCM, plantCM); err != nil {
		return nil, err
	}

	boundary, fieldID, err := s.resolveBoundary(ctx, req)
	if err != nil {
		return nil, err
	}

	result, err := planting.GenerateGrid(ctx, boundary, rowCM/100, plantCM/100)
	if err != nil {
		return nil, err
	}

	layout := &domain.PlantingLayout{
		ID:              uuid.NewString(),
		LayoutID:        newPublicID("LAY"),
		FieldID:         fieldID,
		RowSpacingM:     rowCM / 100,
		PlantSpacingM:   plantCM / 100,
		TotalPlants:     result.TotalPlants,
		Positions:       result.Positions,
		Grid:            result.Grid,
		Boundary:        boundary,
		CoveragePercent: result.CoveragePercent,
		CreatedAt:       time.Now().UTC(),
	}

	if req.Persist {
		if err := s.layouts.Create(ctx, layout); err != nil {
			return nil, err
		}
		if s.publisher != nil {
			_ = s.publisher.PublishLayoutGenerated(ctx, layout)
		}
	}
	return layout, nil
}

// Get returns a persisted layout by its public identifier.
func (s *LayoutService) Get(ctx context.Context, layoutID string) (*domain.PlantingLayout, error) {
	return cachedJSON(ctx, s.cache, "layouts:id:"+layoutID, 600, func() (*domain.PlantingLayout, error) {
		return s.layouts.GetByLayoutID(ctx, layoutID)
	})
}

// ListByField returns a page of layouts for a field plus the total count.
func (s *LayoutService) ListByField(ctx context.Context, fieldID string, limit, offset int) ([]domain.PlantingLayout, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.layouts.ListByField(ctx, fieldID, limit, offset)
}

// Delete removes a persisted layout.
func (s *LayoutService) Delete(ctx context.Context, layoutID string) error {
	if err := s.layouts.Delete(ctx, layoutID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "layouts:id:"+layoutID)
	}
	return nil
}

// ValidationResult reports whether a layout's plant count matches the
// density its own spacing implies.
type ValidationResult struct {
	Valid          bool    `json:"valid"`
	TotalPlants    int     `json:"total_plants"`
	ExpectedPlants int     `json:"expected_plants"`
	DeviationPct   float64 `json:"deviation_percent"`
}

// Validate recomputes the expected plant count from a layout's area and
// spacing and flags layouts deviating more than 10%. Boundary shape makes
// some deviation normal; large gaps suggest corrupted or stale data.
func (s *LayoutService) Validate(ctx context.Context, layoutID string) (*ValidationResult, error) {
	layout, err := s.Get(ctx, layoutID)
	if err != nil {
		return nil, err
	}
	cell := layout.RowSpacingM * layout.PlantSpacingM
	if cell <= 0 || layout.Grid.PolygonAreaM2 <= 0 {
		return nil, fmt.Errorf("%w: layout %s has no usable grid parameters", planting.ErrInvalidSpacing, layoutID)
	}
	expected := int(layout.Grid.PolygonAreaM2 / cell)
	deviation := 0.0
	if expected > 0 {
		deviation = math.Abs(float64(layout.TotalPlants-expected)) / float64(expected) * 100
	}
	return &ValidationResult{
		Valid:          deviation <= 10,
		TotalPlants:    layout.TotalPlants,
		ExpectedPlants: expected,
		DeviationPct:   math.Round(deviation*100) / 100,
	}, nil
}

// Optimize runs the genetic spacing search for a field area and soil score.
func (s *LayoutService) Optimize(ctx context.Context, areaM2, soilScore float64) (*domain.OptimizationResult, error) {
	return s.optimizer.Optimize(ctx, areaM2, soilScore)
}
