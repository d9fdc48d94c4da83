package planting_test

import (
	"errors"
	"testing"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
)

func TestRecommendSpacing(t *testing.T) {
	cases := []struct {
		name      string
		ph        float64
		tempC     float64
		soil      domain.SoilType
		wantRow   float64
		wantPlant float64
	}{
		{"neutral loamy", 6.5, 25, domain.SoilLoamy, 75, 60},
		{"acidic widens", 5.5, 25, domain.SoilLoamy, 82.5, 66},
		{"alkaline widens slightly", 7.5, 25, domain.SoilLoamy, 78.75, 63},
		{"hot widens", 6.5, 32, domain.SoilLoamy, 78.75, 63},
		{"sandy tightens", 6.5, 25, domain.SoilSandy, 71.25, 57},
		{"clay widens", 6.5, 25, domain.SoilClay, 82.5, 66},
		{"acidic hot clay compounds", 5.5, 32, domain.SoilClay, 95.29, 76.23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := planting.RecommendSpacing(tc.ph, tc.tempC, tc.soil)
			if got.RowSpacingCM != tc.wantRow {
				t.Errorf("RowSpacingCM = %v, want %v", got.RowSpacingCM, tc.wantRow)
			}
			if got.PlantSpacingCM != tc.wantPlant {
				t.Errorf("PlantSpacingCM = %v, want %v", got.PlantSpacingCM, tc.wantPlant)
			}
			if got.PlantingDepthCM != 2 {
				t.Errorf("PlantingDepthCM = %v, want 2", got.PlantingDepthCM)
			}
		})
	}
}

func TestDensity(t *testing.T) {
	got, err := planting.Density(10000, 75, 60)
	if err != nil {
		t.Fatalf("Density: %v", err)
	}
	if got.TotalPlants != 22222 {
		t.Errorf("TotalPlants = %d, want 22222", got.TotalPlants)
	}
	if got.PlantsPerM2 != 2.22 {
		t.Errorf("PlantsPerM2 = %v, want 2.22", got.PlantsPerM2)
	}
}

func TestDensity_Invalid(t *testing.T) {
	if _, err := planting.Density(0, 75, 60); !errors.Is(err, planting.ErrInvalidArea) {
		t.Errorf("zero area: err = %v, want ErrInvalidArea", err)
	}
	if _, err := planting.Density(10000, 0, 60); !errors.Is(err, planting.ErrInvalidSpacing) {
		t.Errorf("zero row spacing: err = %v, want ErrInvalidSpacing", err)
	}
	if _, err := planting.Density(10000, 75, -1); !errors.Is(err, planting.ErrInvalidSpacing) {
		t.Errorf("negative plant spacing: err = %v, want ErrInvalidSpacing", err)
	}
}

func TestRecommendFertilizer(t *testing.T) {
	cases := []struct {
		name          string
		n, p, k       float64
		wantN, wantP  float64
		wantPotassium float64
	}{
		{"depleted soil", 20, 10, 80, 0.015, 0.008, 0.019},
		{"balanced soil", 50, 30, 200, 0.012, 0.006, 0.015},
		{"rich soil", 90, 60, 350, 0.01, 0.0045, 0.012},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := planting.RecommendFertilizer(tc.n, tc.p, tc.k)
			if got.NitrogenKgM2 != tc.wantN {
				t.Errorf("NitrogenKgM2 = %v, want %v", got.NitrogenKgM2, tc.wantN)
			}
			if got.PhosphorusKgM2 != tc.wantP {
				t.Errorf("PhosphorusKgM2 = %v, want %v", got.PhosphorusKgM2, tc.wantP)
			}
			if got.PotassiumKgM2 != tc.wantPotassium {
				t.Errorf("PotassiumKgM2 = %v, want %v", got.PotassiumKgM2, tc.wantPotassium)
			}
			if got.OrganicRecommendation == "" {
				t.Error("OrganicRecommendation is empty")
			}
		})
	}
}

func TestSuitability(t *testing.T) {
	ideal := planting.Suitability(6.5, domain.SoilLoamy, 27)
	if ideal.Score != 100 {
		t.Errorf("ideal Score = %v, want 100", ideal.Score)
	}

	// 6.9 sits just past the sweet band for pH.
	nearIdeal := planting.Suitability(6.9, domain.SoilLoamy, 27)
	if nearIdeal.Components["ph"] != 80 {
		t.Errorf("pH 6.9 component = %v, want 80", nearIdeal.Components["ph"])
	}
	if nearIdeal.Score != 93.33 {
		t.Errorf("near-ideal Score = %v, want 93.33", nearIdeal.Score)
	}

	poor := planting.Suitability(5.2, domain.SoilClay, 16)
	if poor.Score != 50 {
		t.Errorf("poor Score = %v, want 50", poor.Score)
	}
	for _, key := range []string{"ph", "soil_type", "temperature"} {
		if _, ok := poor.Components[key]; !ok {
			t.Errorf("Components missing %q", key)
		}
	}
}
