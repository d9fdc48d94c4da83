package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"
)

// PipelineInput is the input for the planting pipeline workflow.
type PipelineInput struct {
	FieldID       string
	UserID        string
	CropType      string
	AreaM2        float64
	SoilPH        float64
	SoilType      string
	TemperatureC  float64
	NitrogenPPM   float64
	PhosphorusPPM float64
	PotassiumPPM  float64
	Lat           *float64
	Lon           *float64
}

// PipelineResult reports the identifiers produced by a pipeline run.
type PipelineResult struct {
	CalculationID string
	LayoutID      string
}

// PlantingPipelineWorkflow orchestrates a full planting recommendation: pull
// the forecast, run the calculation with spacing optimization, persist the
// optimized layout, and announce the result. If the announcement fails the
// persisted layout is deleted (saga compensation).
func PlantingPipelineWorkflow(ctx workflow.Context, input PipelineInput) (*PipelineResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting planting pipeline", "fieldID", input.FieldID, "areaM2", input.AreaM2)

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 60 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	// Step 1: Forecast temperature, best effort. The calculation falls back
	// to the caller-supplied reading when the provider is unavailable.
	temperature := input.TemperatureC
	var forecastTemp float64
	if err := workflow.ExecuteActivity(ctx, "FetchAverageTemperature", input.Lat, input.Lon).Get(ctx, &forecastTemp); err != nil {
		logger.Warn("forecast unavailable, using supplied temperature", "error", err)
	} else if forecastTemp != 0 {
		temperature = forecastTemp
	}

	// Step 2: Full planting calculation with the genetic spacing search
	input.TemperatureC = temperature
	var calc CalculationOutput
	if err := workflow.ExecuteActivity(ctx, "RunCalculation", input).Get(ctx, &calc); err != nil {
		return nil, err
	}

	// Step 3: Persist a layout at the optimized spacing
	var layoutID string
	if err := workflow.ExecuteActivity(ctx, "GenerateLayout", input.FieldID, input.AreaM2, calc.RowSpacingCM, calc.PlantSpacingCM).Get(ctx, &layoutID); err != nil {
		return nil, err
	}

	// Step 4: Announce the recommendation
	if err := workflow.ExecuteActivity(ctx, "PublishRecommendation", input.UserID, calc.CalculationID, layoutID).Get(ctx, nil); err != nil {
		logger.Warn("announcement failed, compensating", "error", err)
		// Compensate: remove the orphaned layout
		_ = workflow.ExecuteActivity(ctx, "DeleteLayout", layoutID).Get(ctx, nil)
		return nil, err
	}

	logger.Info("Planting pipeline finished", "calculationID", calc.CalculationID, "layoutID", layoutID)
	return &PipelineResult{CalculationID: calc.CalculationID, LayoutID: layoutID}, nil
}
