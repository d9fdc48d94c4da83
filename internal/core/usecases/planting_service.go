package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
	"github.com/agrivision/backend/internal/core/ports"
)

// CalculationRequest carries the soil and climate inputs for a full planting
// calculation.
type CalculationRequest struct {
	CropType      string          `json:"crop_type"`
	FieldAreaM2   float64         `json:"field_area_m2"`
	SoilPH        float64         `json:"soil_ph"`
	SoilType      domain.SoilType `json:"soil_type"`
	TemperatureC  float64         `json:"temperature_c"`
	NitrogenPPM   float64         `json:"nitrogen_ppm"`
	PhosphorusPPM float64         `json:"phosphorus_ppm"`
	PotassiumPPM  float64         `json:"potassium_ppm"`
	Optimize      bool            `json:"optimize"`
	UserID        string          `json:"-"`
}

// PlantingService runs full planting calculations and keeps their history.
type PlantingService struct {
	calculations ports.CalculationRepository
	optimizer    *planting.Optimizer
}

// NewPlantingService creates a new PlantingService.
func NewPlantingService(calculations ports.CalculationRepository, optimizer *planting.Optimizer) *PlantingService {
	if optimizer == nil {
		optimizer = planting.NewOptimizer(planting.DefaultOptimizerConfig(), nil)
	}
	return &PlantingService{calculations: calculations, optimizer: optimizer}
}

// Calculate produces spacing, density, fertilizer, and suitability outputs
// for one field, optionally refining spacing with the genetic search, and
// persists the result.
func (s *PlantingService) Calculate(ctx context.Context, req *CalculationRequest) (*domain.PlantingCalculation, error) {
	if !(req.FieldAreaM2 > 0) {
		return nil, fmt.Errorf("%w: got %v", planting.ErrInvalidArea, req.FieldAreaM2)
	}
	if req.SoilPH < 0 || req.SoilPH > 14 {
		return nil, fmt.Errorf("%w: soil pH %v outside [0, 14]", domain.ErrInvalidRequest, req.SoilPH)
	}

	spacing := planting.RecommendSpacing(req.SoilPH, req.TemperatureC, req.SoilType)
	suitability := planting.Suitability(req.SoilPH, req.SoilType, req.TemperatureC)
	fertilizer := planting.RecommendFertilizer(req.NitrogenPPM, req.PhosphorusPPM, req.PotassiumPPM)

	calc := &domain.PlantingCalculation{
		ID:                  uuid.NewString(),
		CalculationID:       newPublicID("CAL"),
		CropType:            req.CropType,
		FieldAreaM2:         req.FieldAreaM2,
		SoilPH:              req.SoilPH,
		SoilType:            req.SoilType,
		TemperatureC:        req.TemperatureC,
		NitrogenPPM:         req.NitrogenPPM,
		PhosphorusPPM:       req.PhosphorusPPM,
		PotassiumPPM:        req.PotassiumPPM,
		Spacing:             spacing,
		Fertilizer:          fertilizer,
		Suitability:         suitability,
		OptimizationEnabled: req.Optimize,
		UserID:              req.UserID,
		CreatedAt:           time.Now().UTC(),
	}

	rowCM := spacing.RowSpacingCM
	plantCM := spacing.PlantSpacingCM
	if req.Optimize {
		opt, err := s.optimizer.Optimize(ctx, req.FieldAreaM2, suitability.Score/100)
		if err != nil {
			return nil, err
		}
		calc.Optimization = opt
		rowCM = opt.RowSpacingM * 100
		plantCM = opt.PlantSpacingM * 100
	}

	density, err := planting.Density(req.FieldAreaM2, rowCM, plantCM)
	if err != nil {
		return nil, err
	}
	calc.Density = density

	calc.Recommendations, calc.Warnings = adviseCalculation(req, suitability)

	if s.calculations != nil {
		if err := s.calculations.Create(ctx, calc); err != nil {
			return nil, err
		}
	}
	return calc, nil
}

// adviseCalculation turns the numeric inputs into human-readable guidance.
func adviseCalculation(req *CalculationRequest, suitability domain.SuitabilityResult) (recommendations, warnings []string) {
	recommendations = []string{}
	warnings = []string{}

	switch {
	case req.SoilPH < 5.5:
		warnings = append(warnings, fmt.Sprintf("Soil pH %.1f is strongly acidic; apply agricultural lime before planting", req.SoilPH))
	case req.SoilPH < 6.0:
		recommendations = append(recommendations, "Slightly acidic soil: a light lime application will improve nutrient uptake")
	case req.SoilPH > 7.5:
		warnings = append(warnings, fmt.Sprintf("Soil pH %.1f is alkaline; consider elemental sulfur or acidifying fertilizer", req.SoilPH))
	}

	if req.TemperatureC > 32 {
		warnings = append(warnings, "High temperatures: provide shade netting and increase irrigation frequency")
	} else if req.TemperatureC < 18 {
		warnings = append(warnings, "Low temperatures slow establishment; consider delaying planting or using row covers")
	}

	if req.SoilType == domain.SoilSandy {
		recommendations = append(recommendations, "Sandy soil drains fast: split fertilizer into smaller, more frequent doses")
	}
	if req.SoilType == domain.SoilClay {
		recommendations = append(recommendations, "Clay soil: work in organic matter to improve drainage before planting")
	}

	if suitability.Score >= 85 {
		recommendations = append(recommendations, "Conditions are well suited for this crop")
	} else if suitability.Score < 60 {
		warnings = append(warnings, "Overall suitability is low; consider soil amendments or an alternative crop")
	}
	return recommendations, warnings
}

// Get returns a persisted calculation by its public identifier.
func (s *PlantingService) Get(ctx context.Context, calcID string) (*domain.PlantingCalculation, error) {
	return s.calculations.GetByCalculationID(ctx, calcID)
}

// History returns a page of the user's past calculations plus the total.
func (s *PlantingService) History(ctx context.Context, userID string, limit, offset int) ([]domain.PlantingCalculation, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.calculations.List(ctx, userID, limit, offset)
}
