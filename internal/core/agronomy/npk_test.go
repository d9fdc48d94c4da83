package agronomy_test

import (
	"strings"
	"testing"

	"github.com/agrivision/backend/internal/core/agronomy"
	"github.com/agrivision/backend/internal/core/domain"
)

func TestAnalyzeNPK(t *testing.T) {
	status := agronomy.AnalyzeNPK(domain.StageFruiting, 20, 120, 350)
	if got := status["nitrogen"].Level; got != "low" {
		t.Errorf("nitrogen level = %q, want low", got)
	}
	if got := status["phosphorus"].Level; got != "optimal" {
		t.Errorf("phosphorus level = %q, want optimal", got)
	}
	if got := status["potassium"].Level; got != "high" {
		t.Errorf("potassium level = %q, want high", got)
	}
	if got := status["potassium"].Optimal; got != "200-300" {
		t.Errorf("potassium optimal range = %q, want 200-300", got)
	}
}

func TestAnalyzeNPK_StageShiftsRanges(t *testing.T) {
	// 120 mg/kg nitrogen is optimal while leafing but excessive once ripening.
	if got := agronomy.AnalyzeNPK(domain.StageVegetative, 120, 100, 150)["nitrogen"].Level; got != "optimal" {
		t.Errorf("vegetative nitrogen level = %q, want optimal", got)
	}
	if got := agronomy.AnalyzeNPK(domain.StageRipening, 120, 100, 250)["nitrogen"].Level; got != "high" {
		t.Errorf("ripening nitrogen level = %q, want high", got)
	}
}

func TestBuildWeeklyPlan(t *testing.T) {
	ph := 6.5
	humidity := 60.0
	plan := agronomy.BuildWeeklyPlan(agronomy.PlanInputs{
		Stage:    domain.StageFlowering,
		NPK:      agronomy.AnalyzeNPK(domain.StageFlowering, 80, 150, 200),
		PH:       &ph,
		Humidity: &humidity,
		Forecast: []domain.ForecastDay{
			{Date: "2026-08-25", Condition: "sunny"},
			{Date: "2026-08-26", Condition: "rainy"},
		},
	})

	if len(plan.WeekPlan) != 7 {
		t.Fatalf("len(WeekPlan) = %d, want 7", len(plan.WeekPlan))
	}
	if len(plan.Warnings) != 0 {
		t.Errorf("Warnings = %v, want none for healthy inputs", plan.Warnings)
	}
	if len(plan.Tips) == 0 {
		t.Error("expected at least one tip")
	}

	day1 := plan.WeekPlan[0]
	if day1.Condition != "sunny" || day1.Date != "2026-08-25" {
		t.Errorf("day 1 forecast = %q %q, want sunny 2026-08-25", day1.Condition, day1.Date)
	}
	if len(day1.Actions) == 0 || !strings.Contains(day1.Actions[0], "phosphorus") {
		t.Errorf("day 1 actions = %v, want flowering fertilizer action first", day1.Actions)
	}

	// Days beyond the forecast still get a plan, just without weather.
	day7 := plan.WeekPlan[6]
	if day7.Condition != "" || day7.Date != "" {
		t.Errorf("day 7 should have no forecast, got %q %q", day7.Condition, day7.Date)
	}
}

func TestBuildWeeklyPlan_RainDelaysApplication(t *testing.T) {
	forecast := make([]domain.ForecastDay, 7)
	for i := range forecast {
		forecast[i] = domain.ForecastDay{Condition: "rainy"}
	}
	plan := agronomy.BuildWeeklyPlan(agronomy.PlanInputs{
		Stage:    domain.StageVegetative,
		NPK:      agronomy.AnalyzeNPK(domain.StageVegetative, 120, 100, 150),
		Forecast: forecast,
	})

	day1 := plan.WeekPlan[0]
	found := false
	for _, a := range day1.Adjustments {
		if strings.Contains(a, "delay fertilizer") {
			found = true
		}
	}
	if !found {
		t.Errorf("day 1 adjustments = %v, want a delay warning on a rainy application day", day1.Adjustments)
	}
}

func TestBuildWeeklyPlan_Warnings(t *testing.T) {
	ph := 5.0
	humidity := 90.0
	plan := agronomy.BuildWeeklyPlan(agronomy.PlanInputs{
		Stage:    domain.StageFruiting,
		NPK:      agronomy.AnalyzeNPK(domain.StageFruiting, 10, 35, 200),
		PH:       &ph,
		Humidity: &humidity,
	})

	var acidic, humid, lowN bool
	for _, w := range plan.Warnings {
		switch {
		case strings.Contains(w, "acidic"):
			acidic = true
		case strings.Contains(w, "fungal"):
			humid = true
		case strings.Contains(w, "nitrogen"):
			lowN = true
		}
	}
	if !acidic || !humid || !lowN {
		t.Errorf("Warnings = %v, want acidic soil, fungal risk, and low nitrogen flagged", plan.Warnings)
	}
}
