package domain

import "time"

// GrowthStage is the inferred development stage of a plant.
type GrowthStage string

const (
	StageUnknown         GrowthStage = "unknown"
	StageEarlyVegetative GrowthStage = "early_vegetative"
	StageVegetative      GrowthStage = "vegetative"
	StageFlowering       GrowthStage = "flowering"
	StageFruiting        GrowthStage = "fruiting"
	StageRipening        GrowthStage = "ripening"
)

// AnalysisStatus tracks the lifecycle of an async image analysis job.
type AnalysisStatus string

const (
	AnalysisQueued     AnalysisStatus = "queued"
	AnalysisProcessing AnalysisStatus = "processing"
	AnalysisCompleted  AnalysisStatus = "completed"
	AnalysisFailed     AnalysisStatus = "failed"
)

// Detection is a single bounding box returned by the detector sidecar.
type Detection struct {
	ID         int        `json:"id"`
	ImageIndex int        `json:"image_id"`
	Label      string     `json:"label"`
	Confidence float64    `json:"confidence"`
	BBox       [4]float64 `json:"bbox"` // x1, y1, x2, y2 in pixels
}

// DetectionCounts aggregates detections by plant-part class.
type DetectionCounts struct {
	Flower   int `json:"flower"`
	Fruit    int `json:"fruit"`
	Leaf     int `json:"leaf"`
	Ripening int `json:"ripening"`
}

// Total returns the number of leaf, flower, and fruit detections.
func (c DetectionCounts) Total() int {
	return c.Leaf + c.Flower + c.Fruit
}

// AnalysisSession is one plant-image analysis with its soil/climate inputs
// and detection-derived outputs. Images live in external storage; only URLs
// are persisted.
type AnalysisSession struct {
	ID                string          `json:"id"`
	SessionID         string          `json:"session_id"`
	UserID            string          `json:"user_id,omitempty"`
	FieldID           string          `json:"field_id,omitempty"`
	Status            AnalysisStatus  `json:"status"`
	ImageURL          string          `json:"image_url"`
	AnnotatedImageURL string          `json:"annotated_image_url,omitempty"`
	Nitrogen          *float64        `json:"nitrogen,omitempty"`
	Phosphorus        *float64        `json:"phosphorus,omitempty"`
	Potassium         *float64        `json:"potassium,omitempty"`
	PH                *float64        `json:"ph,omitempty"`
	Temperature       *float64        `json:"temperature,omitempty"`
	Humidity          *float64        `json:"humidity,omitempty"`
	Lat               *float64        `json:"location_lat,omitempty"`
	Lon               *float64        `json:"location_lng,omitempty"`
	GrowthStage       GrowthStage     `json:"growth_stage,omitempty"`
	StageConfidence   float64         `json:"growth_stage_confidence"`
	Counts            DetectionCounts `json:"counts"`
	CurrentWeather    string          `json:"current_weather,omitempty"`
	FertilizerPlan    *FertilizerPlan `json:"fertilizer_plan,omitempty"`
	Error             string          `json:"error,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	CompletedAt       *time.Time      `json:"completed_at,omitempty"`
}

// NPKStatus reports one nutrient against its per-stage optimal range.
type NPKStatus struct {
	Level   string  `json:"level"` // low | optimal | high
	Current float64 `json:"current"`
	Optimal string  `json:"optimal"` // "min-max" in mg/kg
}

// DayPlan is one day of the weekly fertilizer schedule.
type DayPlan struct {
	Day         int      `json:"day"`
	Date        string   `json:"date,omitempty"`
	Condition   string   `json:"condition,omitempty"`
	Actions     []string `json:"actions"`
	Adjustments []string `json:"adjustments,omitempty"`
}

// FertilizerPlan is a growth-stage and weather aware weekly schedule.
type FertilizerPlan struct {
	WeekPlan  []DayPlan            `json:"week_plan"`
	NPKStatus map[string]NPKStatus `json:"npk_status"`
	Warnings  []string             `json:"warnings"`
	Tips      []string             `json:"tips"`
}

// QualityReport is the result of grading fruit images into categories.
type QualityReport struct {
	ID          string         `json:"id"`
	ReportID    string         `json:"report_id"`
	UserID      string         `json:"user_id,omitempty"`
	TotalImages int            `json:"total_images"`
	TotalFruits int            `json:"total_fruits"`
	Counts      map[string]int `json:"counts"`
	Detections  []Detection    `json:"detections,omitempty"`
	ImageWidth  int            `json:"image_width"`
	ImageHeight int            `json:"image_height"`
	CreatedAt   time.Time      `json:"created_at"`
}
