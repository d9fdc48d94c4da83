package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/ports"
	"github.com/agrivision/backend/internal/core/usecases"
)

// PipelineActivities holds the activity implementations for the planting
// pipeline workflow.
type PipelineActivities struct {
	Planting  *usecases.PlantingService
	Layouts   *usecases.LayoutService
	Weather   ports.WeatherProvider
	Publisher ports.EventPublisher
}

// CalculationOutput carries the calculation id and the spacing the layout
// step should plant at.
type CalculationOutput struct {
	CalculationID  string
	RowSpacingCM   float64
	PlantSpacingCM float64
}

// FetchAverageTemperature averages the 7-day forecast temperature for a
// coordinate. A zero return with nil error means no location was given.
func (a *PipelineActivities) FetchAverageTemperature(ctx context.Context, lat, lon *float64) (float64, error) {
	if a.Weather == nil || lat == nil || lon == nil {
		return 0, nil
	}
	forecast, err := a.Weather.Forecast(ctx, *lat, *lon, 7)
	if err != nil {
		return 0, fmt.Errorf("fetch forecast: %w", err)
	}
	if len(forecast) == 0 {
		return 0, nil
	}
	var sum float64
	for _, day := range forecast {
		sum += day.TemperatureC
	}
	return sum / float64(len(forecast)), nil
}

// RunCalculation executes the full planting calculation with optimization
// enabled and returns the spacing to plant at.
func (a *PipelineActivities) RunCalculation(ctx context.Context, input PipelineInput) (*CalculationOutput, error) {
	calc, err := a.Planting.Calculate(ctx, &usecases.CalculationRequest{
		CropType:      input.CropType,
		FieldAreaM2:   input.AreaM2,
		SoilPH:        input.SoilPH,
		SoilType:      domain.SoilType(input.SoilType),
		TemperatureC:  input.TemperatureC,
		NitrogenPPM:   input.NitrogenPPM,
		PhosphorusPPM: input.PhosphorusPPM,
		PotassiumPPM:  input.PotassiumPPM,
		Optimize:      true,
		UserID:        input.UserID,
	})
	if err != nil {
		return nil, fmt.Errorf("run calculation: %w", err)
	}

	out := &CalculationOutput{
		CalculationID:  calc.CalculationID,
		RowSpacingCM:   calc.Spacing.RowSpacingCM,
		PlantSpacingCM: calc.Spacing.PlantSpacingCM,
	}
	if calc.Optimization != nil {
		out.RowSpacingCM = calc.Optimization.RowSpacingM * 100
		out.PlantSpacingCM = calc.Optimization.PlantSpacingM * 100
	}
	return out, nil
}

// GenerateLayout persists a layout for the field at the given spacing and
// returns its public identifier.
func (a *PipelineActivities) GenerateLayout(ctx context.Context, fieldID string, areaM2, rowCM, plantCM float64) (string, error) {
	layout, err := a.Layouts.Generate(ctx, &usecases.LayoutRequest{
		FieldID:        fieldID,
		AreaM2:         areaM2,
		RowSpacingCM:   rowCM,
		PlantSpacingCM: plantCM,
		Persist:        true,
	})
	if err != nil {
		return "", fmt.Errorf("generate layout: %w", err)
	}
	return layout.LayoutID, nil
}

// PublishRecommendation announces a finished pipeline run on the event bus.
func (a *PipelineActivities) PublishRecommendation(ctx context.Context, userID, calculationID, layoutID string) error {
	if a.Publisher == nil {
		log.Printf("RECOMMENDATION (no publisher) → user=%s calc=%s layout=%s", userID, calculationID, layoutID)
		return nil
	}
	data, err := json.Marshal(map[string]string{
		"user_id":        userID,
		"calculation_id": calculationID,
		"layout_id":      layoutID,
	})
	if err != nil {
		return err
	}
	return a.Publisher.PublishBroadcast(ctx, "agro.events.recommendations."+calculationID, data)
}

// DeleteLayout removes a persisted layout (saga compensation / rollback).
func (a *PipelineActivities) DeleteLayout(ctx context.Context, layoutID string) error {
	if err := a.Layouts.Delete(ctx, layoutID); err != nil {
		return fmt.Errorf("delete layout %s: %w", layoutID, err)
	}
	log.Printf("Layout %s deleted (saga compensation)", layoutID)
	return nil
}
