package planting

import (
	"fmt"
	"math"

	"github.com/agrivision/backend/internal/core/domain"
)

const defaultPlantingDepthCM = 2.0

// soilSpacingFactor widens or tightens spacing by soil texture. Heavier soils
// get wider spacing for root development.
func soilSpacingFactor(soil domain.SoilType) float64 {
	switch soil {
	case domain.SoilSandy:
		return 0.95
	case domain.SoilClay:
		return 1.1
	case domain.SoilSilt:
		return 1.05
	default: // loamy and unknown
		return 1.0
	}
}

// RecommendSpacing derives heuristic spacing from soil pH, temperature, and
// soil texture, starting from the default spacing and clamping to the
// agronomic bounds. Output is centimeters.
func RecommendSpacing(ph, tempC float64, soil domain.SoilType) domain.SpacingRecommendation {
	row := DefaultRowSpacingM
	plant := DefaultPlantSpacingM

	// Acidic soils stress roots; widen spacing. Mildly widen for alkaline.
	if ph < 6.0 {
		row *= 1.1
		plant *= 1.1
	} else if ph > 7.0 {
		row *= 1.05
		plant *= 1.05
	}

	if tempC > 30 {
		row *= 1.05
		plant *= 1.05
	}

	factor := soilSpacingFactor(soil)
	row = clamp(row*factor, RowSpacingMin, RowSpacingMax)
	plant = clamp(plant*factor, PlantSpacingMin, PlantSpacingMax)

	return domain.SpacingRecommendation{
		RowSpacingCM:    round2(row * cmPerMeter),
		PlantSpacingCM:  round2(plant * cmPerMeter),
		PlantingDepthCM: defaultPlantingDepthCM,
	}
}

// Density estimates plant count for an area at a given spacing. Spacing is
// taken in centimeters to match the recommendation output.
func Density(areaM2, rowSpacingCM, plantSpacingCM float64) (domain.DensityResult, error) {
	if !(areaM2 > 0) {
		return domain.DensityResult{}, fmt.Errorf("%w: got %v", ErrInvalidArea, areaM2)
	}
	if !(rowSpacingCM > 0) || !(plantSpacingCM > 0) {
		return domain.DensityResult{}, fmt.Errorf("%w: row=%v plant=%v", ErrInvalidSpacing, rowSpacingCM, plantSpacingCM)
	}
	cell := (rowSpacingCM / cmPerMeter) * (plantSpacingCM / cmPerMeter)
	total := int(areaM2 / cell)
	return domain.DensityResult{
		TotalPlants: total,
		PlantsPerM2: round2(1 / cell),
	}, nil
}

// RecommendFertilizer returns per-m² NPK doses adjusted from base rates by
// measured soil nutrient levels (mg/kg).
func RecommendFertilizer(nitrogen, phosphorus, potassium float64) domain.FertilizerDose {
	n := 0.012
	p := 0.006
	k := 0.015

	switch {
	case nitrogen < 30:
		n += 0.003
	case nitrogen > 80:
		n -= 0.002
	}
	switch {
	case phosphorus < 15:
		p += 0.002
	case phosphorus > 50:
		p -= 0.0015
	}
	switch {
	case potassium < 100:
		k += 0.004
	case potassium > 300:
		k -= 0.003
	}

	return domain.FertilizerDose{
		NitrogenKgM2:          round4(n),
		PhosphorusKgM2:        round4(p),
		PotassiumKgM2:         round4(k),
		OrganicRecommendation: "Apply 2-3 kg/m² of well-decomposed compost before planting",
	}
}

// Suitability scores soil and climate fit for the crop as the average of a
// pH score, a soil-texture score, and a temperature score, each 0-100.
func Suitability(ph float64, soil domain.SoilType, tempC float64) domain.SuitabilityResult {
	phScore := scorePH(ph)
	soilScore := scoreSoil(soil)
	tempScore := scoreTemperature(tempC)
	return domain.SuitabilityResult{
		Score: round2((phScore + soilScore + tempScore) / 3),
		Components: map[string]float64{
			"ph":          phScore,
			"soil_type":   soilScore,
			"temperature": tempScore,
		},
	}
}

func scorePH(ph float64) float64 {
	switch {
	case ph >= 6.0 && ph <= 6.8:
		return 100
	case ph >= 5.8 && ph < 6.0, ph > 6.8 && ph <= 7.0:
		return 80
	case ph >= 5.5 && ph < 5.8, ph > 7.0 && ph <= 7.3:
		return 60
	default:
		return 40
	}
}

func scoreSoil(soil domain.SoilType) float64 {
	switch soil {
	case domain.SoilLoamy:
		return 100
	case domain.SoilSilt:
		return 85
	case domain.SoilSandy:
		return 70
	case domain.SoilClay:
		return 60
	default:
		return 50
	}
}

func scoreTemperature(tempC float64) float64 {
	switch {
	case tempC >= 24 && tempC <= 30:
		return 100
	case tempC >= 21 && tempC < 24, tempC > 30 && tempC <= 32:
		return 80
	case tempC >= 18 && tempC < 21, tempC > 32 && tempC <= 35:
		return 60
	default:
		return 50
	}
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
