package usecases_test

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
	"github.com/agrivision/backend/internal/core/usecases"
)

func newPlantingService(calcs *mockCalcRepo) *usecases.PlantingService {
	opt := planting.NewOptimizer(planting.DefaultOptimizerConfig(), rand.New(rand.NewSource(7)))
	return usecases.NewPlantingService(calcs, opt)
}

func TestPlantingService_Calculate(t *testing.T) {
	var saved *domain.PlantingCalculation
	calcs := &mockCalcRepo{
		createFn: func(ctx context.Context, calc *domain.PlantingCalculation) error {
			saved = calc
			return nil
		},
	}
	svc := newPlantingService(calcs)

	calc, err := svc.Calculate(context.Background(), &usecases.CalculationRequest{
		CropType:      "tomato",
		FieldAreaM2:   10000,
		SoilPH:        6.5,
		SoilType:      domain.SoilLoamy,
		TemperatureC:  27,
		NitrogenPPM:   50,
		PhosphorusPPM: 30,
		PotassiumPPM:  200,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(calc.CalculationID, "CAL-") {
		t.Errorf("expected CAL- prefix, got %s", calc.CalculationID)
	}
	if calc.Spacing.RowSpacingCM != 75 || calc.Spacing.PlantSpacingCM != 60 {
		t.Errorf("ideal conditions should keep default spacing, got %vx%v", calc.Spacing.RowSpacingCM, calc.Spacing.PlantSpacingCM)
	}
	if calc.Suitability.Score != 100 {
		t.Errorf("expected suitability 100, got %v", calc.Suitability.Score)
	}
	// 10000 m² at 0.75x0.6 m.
	if calc.Density.TotalPlants != 22222 {
		t.Errorf("expected 22222 plants, got %d", calc.Density.TotalPlants)
	}
	if calc.Optimization != nil {
		t.Error("optimization was not requested")
	}
	if saved == nil {
		t.Fatal("calculation was not persisted")
	}
}

func TestPlantingService_Calculate_WithOptimization(t *testing.T) {
	svc := newPlantingService(&mockCalcRepo{})

	calc, err := svc.Calculate(context.Background(), &usecases.CalculationRequest{
		CropType:     "tomato",
		FieldAreaM2:  10000,
		SoilPH:       6.5,
		SoilType:     domain.SoilLoamy,
		TemperatureC: 27,
		Optimize:     true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calc.Optimization == nil {
		t.Fatal("expected optimization result")
	}
	if calc.Optimization.RowSpacingM < planting.RowSpacingMin || calc.Optimization.RowSpacingM > planting.RowSpacingMax {
		t.Errorf("optimized row spacing %v out of bounds", calc.Optimization.RowSpacingM)
	}
	// Density must be derived from the optimized spacing, not the heuristic.
	wantPlants := int(10000 / (calc.Optimization.RowSpacingM * calc.Optimization.PlantSpacingM))
	if calc.Density.TotalPlants != wantPlants {
		t.Errorf("expected density %d from optimized spacing, got %d", wantPlants, calc.Density.TotalPlants)
	}
}

func TestPlantingService_Calculate_InvalidInputs(t *testing.T) {
	svc := newPlantingService(&mockCalcRepo{})

	_, err := svc.Calculate(context.Background(), &usecases.CalculationRequest{FieldAreaM2: 0, SoilPH: 6.5})
	if !errors.Is(err, planting.ErrInvalidArea) {
		t.Errorf("expected ErrInvalidArea, got %v", err)
	}

	_, err = svc.Calculate(context.Background(), &usecases.CalculationRequest{FieldAreaM2: 100, SoilPH: 15})
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("expected ErrInvalidRequest for pH out of range, got %v", err)
	}
}

func TestPlantingService_Calculate_Advice(t *testing.T) {
	svc := newPlantingService(&mockCalcRepo{})

	calc, err := svc.Calculate(context.Background(), &usecases.CalculationRequest{
		CropType:     "tomato",
		FieldAreaM2:  500,
		SoilPH:       5.0,
		SoilType:     domain.SoilClay,
		TemperatureC: 34,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(calc.Warnings) == 0 {
		t.Error("acidic soil at high temperature should produce warnings")
	}
	var lime bool
	for _, w := range calc.Warnings {
		if strings.Contains(w, "lime") {
			lime = true
		}
	}
	if !lime {
		t.Errorf("expected a lime warning for pH 5.0, got %v", calc.Warnings)
	}
}
