package agronomy

import (
	"fmt"

	"github.com/agrivision/backend/internal/core/domain"
)

type nutrientRange struct {
	min, max float64
}

type stageRanges struct {
	n, p, k nutrientRange
}

// Per-stage optimal soil nutrient ranges in mg/kg. Nitrogen demand falls and
// potassium demand rises as the plant moves from foliage to fruit.
var optimalByStage = map[domain.GrowthStage]stageRanges{
	domain.StageEarlyVegetative: {n: nutrientRange{80, 120}, p: nutrientRange{60, 100}, k: nutrientRange{100, 150}},
	domain.StageVegetative:      {n: nutrientRange{100, 150}, p: nutrientRange{80, 120}, k: nutrientRange{120, 180}},
	domain.StageFlowering:       {n: nutrientRange{60, 100}, p: nutrientRange{120, 180}, k: nutrientRange{180, 250}},
	domain.StageFruiting:        {n: nutrientRange{50, 80}, p: nutrientRange{100, 150}, k: nutrientRange{200, 300}},
	domain.StageRipening:        {n: nutrientRange{30, 60}, p: nutrientRange{80, 120}, k: nutrientRange{220, 320}},
	domain.StageUnknown:         {n: nutrientRange{80, 120}, p: nutrientRange{80, 120}, k: nutrientRange{120, 180}},
}

func classify(current float64, r nutrientRange) domain.NPKStatus {
	level := "optimal"
	if current < r.min {
		level = "low"
	} else if current > r.max {
		level = "high"
	}
	return domain.NPKStatus{
		Level:   level,
		Current: current,
		Optimal: fmt.Sprintf("%g-%g", r.min, r.max),
	}
}

// AnalyzeNPK compares measured soil nutrients against the optimal ranges for
// the given growth stage. Keys are "nitrogen", "phosphorus", "potassium".
func AnalyzeNPK(stage domain.GrowthStage, nitrogen, phosphorus, potassium float64) map[string]domain.NPKStatus {
	ranges, ok := optimalByStage[stage]
	if !ok {
		ranges = optimalByStage[domain.StageUnknown]
	}
	return map[string]domain.NPKStatus{
		"nitrogen":   classify(nitrogen, ranges.n),
		"phosphorus": classify(phosphorus, ranges.p),
		"potassium":  classify(potassium, ranges.k),
	}
}

// PlanInputs carries everything the weekly planner consumes. Soil and climate
// readings are optional; missing values simply skip the related checks.
type PlanInputs struct {
	Stage    domain.GrowthStage
	NPK      map[string]domain.NPKStatus
	PH       *float64
	Humidity *float64
	Forecast []domain.ForecastDay
}

var stageActions = map[domain.GrowthStage][]string{
	domain.StageEarlyVegetative: {"Apply starter fertilizer high in nitrogen", "Water lightly twice daily"},
	domain.StageVegetative:      {"Apply balanced NPK fertilizer", "Monitor for leaf pests"},
	domain.StageFlowering:       {"Switch to phosphorus-rich fertilizer", "Avoid overhead watering on blooms"},
	domain.StageFruiting:        {"Apply potassium-rich fertilizer", "Support heavy fruit trusses"},
	domain.StageRipening:        {"Reduce nitrogen application", "Water evenly to prevent fruit cracking"},
	domain.StageUnknown:         {"Apply balanced NPK fertilizer at half rate", "Re-scan plants for a clearer reading"},
}

var stageTips = map[domain.GrowthStage]string{
	domain.StageEarlyVegetative: "Transplant shock is common at this stage; keep soil consistently moist.",
	domain.StageVegetative:      "Prune lower leaves to improve airflow before flowering begins.",
	domain.StageFlowering:       "Gently shake trusses mid-morning to improve pollination.",
	domain.StageFruiting:        "Uneven watering now causes blossom end rot; keep a steady schedule.",
	domain.StageRipening:        "Harvest at first full color for best shelf life.",
	domain.StageUnknown:         "Capture images in daylight with the whole plant in frame for better detection.",
}

// Fertilizing is applied on a three-day cadence through the week.
var applicationDays = map[int]bool{1: true, 4: true, 7: true}

// BuildWeeklyPlan produces a seven-day schedule of stage-appropriate actions,
// adjusted day by day for the weather forecast, with soil warnings attached.
func BuildWeeklyPlan(in PlanInputs) *domain.FertilizerPlan {
	plan := &domain.FertilizerPlan{
		NPKStatus: in.NPK,
		Warnings:  soilWarnings(in),
		Tips:      []string{},
	}
	if tip, ok := stageTips[in.Stage]; ok {
		plan.Tips = append(plan.Tips, tip)
	}

	actions, ok := stageActions[in.Stage]
	if !ok {
		actions = stageActions[domain.StageUnknown]
	}

	for day := 1; day <= 7; day++ {
		dp := domain.DayPlan{Day: day}
		if day-1 < len(in.Forecast) {
			dp.Date = in.Forecast[day-1].Date
			dp.Condition = in.Forecast[day-1].Condition
		}
		if applicationDays[day] {
			dp.Actions = append([]string(nil), actions...)
		} else {
			dp.Actions = []string{"Monitor plants and soil moisture"}
		}
		dp.Adjustments = weatherAdjustments(dp.Condition, applicationDays[day])
		plan.WeekPlan = append(plan.WeekPlan, dp)
	}
	return plan
}

func weatherAdjustments(condition string, applying bool) []string {
	var adj []string
	switch condition {
	case "rainy":
		if applying {
			adj = append(adj, "Rain expected: delay fertilizer application until foliage is dry")
		}
		adj = append(adj, "Skip irrigation; rainfall should be sufficient")
	case "sunny":
		adj = append(adj, "High evaporation: water early morning or late evening")
	}
	return adj
}

func soilWarnings(in PlanInputs) []string {
	warnings := []string{}
	if in.PH != nil {
		if *in.PH < 5.5 {
			warnings = append(warnings, fmt.Sprintf("Soil pH %.1f is strongly acidic; apply agricultural lime", *in.PH))
		} else if *in.PH > 7.5 {
			warnings = append(warnings, fmt.Sprintf("Soil pH %.1f is alkaline; consider elemental sulfur", *in.PH))
		}
	}
	if in.Humidity != nil && *in.Humidity > 80 {
		warnings = append(warnings, "Humidity above 80% raises fungal disease risk; improve ventilation")
	}
	for name, status := range in.NPK {
		if status.Level == "low" {
			warnings = append(warnings, fmt.Sprintf("Soil %s is below the optimal range (%s mg/kg)", name, status.Optimal))
		}
	}
	return warnings
}
