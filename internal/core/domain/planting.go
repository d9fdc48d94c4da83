package domain

import (
	"time"

	"github.com/agrivision/backend/internal/pkg/geometry"
)

// PlantPosition is a single planting point generated by the grid sweep.
// IDs are sequential in sweep order; Row/Col are grid indices derived from
// the offset to the bounding-box minimum.
type PlantPosition struct {
	ID  int     `json:"id"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	Row int     `json:"row"`
	Col int     `json:"col"`
}

// GridParams describes the grid a layout was generated with.
// Spacing is reported in centimeters on the wire (meters internally, ×100).
type GridParams struct {
	RowSpacingCM        float64        `json:"row_spacing_cm"`
	PlantSpacingCM      float64        `json:"plant_spacing_cm"`
	Bounds              geometry.Bounds `json:"bounds"`
	PolygonAreaM2       float64        `json:"polygon_area_m2"`
	GridPointsGenerated int            `json:"grid_points_generated"`
}

// LayoutResult is the output of the grid layout generator.
// Positions may be truncated for storage; TotalPlants is never truncated.
type LayoutResult struct {
	TotalPlants     int             `json:"total_plants"`
	Positions       []PlantPosition `json:"plants"`
	Grid            GridParams      `json:"grid_parameters"`
	CoveragePercent float64         `json:"coverage_percentage"`
}

// OptimizationResult is the best spacing pair found by the genetic search.
type OptimizationResult struct {
	RowSpacingM   float64 `json:"optimized_row_spacing_m"`
	PlantSpacingM float64 `json:"optimized_plant_spacing_m"`
	Fitness       float64 `json:"fitness_score"`
	Generations   int     `json:"generations"`
}

// SpacingRecommendation is heuristic spacing derived from soil and climate.
type SpacingRecommendation struct {
	RowSpacingCM    float64 `json:"row_spacing_cm"`
	PlantSpacingCM  float64 `json:"plant_spacing_cm"`
	PlantingDepthCM float64 `json:"planting_depth_cm"`
}

// DensityResult is the plant count for an area at a given spacing.
type DensityResult struct {
	TotalPlants int     `json:"total_plants"`
	PlantsPerM2 float64 `json:"plants_per_m2"`
}

// FertilizerDose is a per-m² NPK recommendation.
type FertilizerDose struct {
	NitrogenKgM2          float64 `json:"nitrogen_kg_m2"`
	PhosphorusKgM2        float64 `json:"phosphorus_kg_m2"`
	PotassiumKgM2         float64 `json:"potassium_kg_m2"`
	OrganicRecommendation string  `json:"organic_recommendation"`
}

// SuitabilityResult scores how well soil and climate suit the crop (0-100).
type SuitabilityResult struct {
	Score      float64            `json:"soil_suitability_score"`
	Components map[string]float64 `json:"component_scores"`
}

// PlantingLayout is a persisted layout generated for a field.
type PlantingLayout struct {
	ID              string           `json:"id"`
	LayoutID        string           `json:"layout_id"`
	FieldID         string           `json:"field_id"`
	CalculationID   string           `json:"calculation_id,omitempty"`
	RowSpacingM     float64          `json:"row_spacing_m"`
	PlantSpacingM   float64          `json:"plant_spacing_m"`
	TotalPlants     int              `json:"total_plants"`
	Positions       []PlantPosition  `json:"plant_positions,omitempty"`
	Grid            GridParams       `json:"grid_parameters"`
	Boundary        []geometry.Point `json:"boundary_coords,omitempty"`
	CoveragePercent float64          `json:"coverage_percentage"`
	CreatedAt       time.Time        `json:"created_at"`
}

// PlantingCalculation is a persisted full planting calculation.
type PlantingCalculation struct {
	ID                  string                `json:"id"`
	CalculationID       string                `json:"calculation_id"`
	CropType            string                `json:"crop_type"`
	FieldAreaM2         float64               `json:"field_area_m2"`
	SoilPH              float64               `json:"soil_ph"`
	SoilType            SoilType              `json:"soil_type"`
	TemperatureC        float64               `json:"temperature_c"`
	NitrogenPPM         float64               `json:"nitrogen_ppm"`
	PhosphorusPPM       float64               `json:"phosphorus_ppm"`
	PotassiumPPM        float64               `json:"potassium_ppm"`
	Spacing             SpacingRecommendation `json:"spacing"`
	Density             DensityResult         `json:"density"`
	Fertilizer          FertilizerDose        `json:"fertilizer"`
	Suitability         SuitabilityResult     `json:"suitability"`
	Optimization        *OptimizationResult   `json:"optimization,omitempty"`
	OptimizationEnabled bool                  `json:"optimization_enabled"`
	Recommendations     []string              `json:"recommendations"`
	Warnings            []string              `json:"warnings"`
	UserID              string                `json:"user_id,omitempty"`
	CreatedAt           time.Time             `json:"created_at"`
}
