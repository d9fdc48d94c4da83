package domain

import (
	"time"

	"github.com/agrivision/backend/internal/pkg/geometry"
)

// SoilType classifies the dominant soil texture of a field.
type SoilType string

const (
	SoilSandy SoilType = "sandy"
	SoilLoamy SoilType = "loamy"
	SoilClay  SoilType = "clay"
	SoilSilt  SoilType = "silt"
)

// Field represents a cultivable plot with an optional boundary polygon.
// Boundary coordinates are meters in a field-local frame; area is m².
type Field struct {
	ID            string           `json:"id"`
	FieldID       string           `json:"field_id"`
	Name          string           `json:"name"`
	AreaM2        float64          `json:"area_m2"`
	Boundary      []geometry.Point `json:"boundary,omitempty"`
	SoilPH        *float64         `json:"soil_ph,omitempty"`
	SoilType      SoilType         `json:"soil_type,omitempty"`
	OrganicMatter *float64         `json:"organic_matter,omitempty"`
	Temperature   *float64         `json:"temperature,omitempty"`
	RainfallMM    *float64         `json:"rainfall_mm,omitempty"`
	Location      string           `json:"location,omitempty"`
	UserID        string           `json:"user_id,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     *time.Time       `json:"updated_at,omitempty"`
}

// AreaHectares converts the stored m² area to hectares.
func (f *Field) AreaHectares() float64 {
	return f.AreaM2 / 10000
}

// User is an account that owns fields and analysis sessions.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name,omitempty"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}
