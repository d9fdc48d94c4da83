package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrivision/backend/internal/core/domain"
)

// CalculationRepo implements ports.CalculationRepository with pgx. The
// structured outputs (spacing, density, fertilizer, suitability,
// optimization) live in JSONB columns.
type CalculationRepo struct {
	db *DB
}

// NewCalculationRepo creates a new CalculationRepo.
func NewCalculationRepo(db *DB) *CalculationRepo {
	return &CalculationRepo{db: db}
}

// Create inserts a calculation.
func (r *CalculationRepo) Create(ctx context.Context, c *domain.PlantingCalculation) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO planting_calculations (id, calculation_id, crop_type, field_area_m2, soil_ph,
		                                   soil_type, temperature_c, nitrogen_ppm, phosphorus_ppm,
		                                   potassium_ppm, spacing, density, fertilizer, suitability,
		                                   optimization, optimization_enabled, recommendations,
		                                   warnings, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NULLIF($19, ''), $20)
	`, c.ID, c.CalculationID, c.CropType, c.FieldAreaM2, c.SoilPH,
		nullIfEmpty(string(c.SoilType)), c.TemperatureC, c.NitrogenPPM, c.PhosphorusPPM,
		c.PotassiumPPM, c.Spacing, c.Density, c.Fertilizer, c.Suitability,
		c.Optimization, c.OptimizationEnabled, c.Recommendations,
		c.Warnings, c.UserID, c.CreatedAt)
	return err
}

const calculationColumns = `
	id, calculation_id, COALESCE(crop_type, ''), field_area_m2, soil_ph,
	COALESCE(soil_type, ''), temperature_c, nitrogen_ppm, phosphorus_ppm,
	potassium_ppm, spacing, density, fertilizer, suitability,
	optimization, optimization_enabled, COALESCE(recommendations, '[]'),
	COALESCE(warnings, '[]'), COALESCE(user_id::text, ''), created_at
`

func scanCalculation(row pgx.Row) (*domain.PlantingCalculation, error) {
	var c domain.PlantingCalculation
	err := row.Scan(
		&c.ID, &c.CalculationID, &c.CropType, &c.FieldAreaM2, &c.SoilPH,
		&c.SoilType, &c.TemperatureC, &c.NitrogenPPM, &c.PhosphorusPPM,
		&c.PotassiumPPM, &c.Spacing, &c.Density, &c.Fertilizer, &c.Suitability,
		&c.Optimization, &c.OptimizationEnabled, &c.Recommendations,
		&c.Warnings, &c.UserID, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// GetByCalculationID returns a calculation by its public identifier.
func (r *CalculationRepo) GetByCalculationID(ctx context.Context, calcID string) (*domain.PlantingCalculation, error) {
	return scanCalculation(r.db.Pool.QueryRow(ctx,
		`SELECT `+calculationColumns+` FROM planting_calculations WHERE calculation_id = $1`, calcID))
}

// List returns a page of calculations, newest first, plus the total count.
// An empty userID lists across all users.
func (r *CalculationRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.PlantingCalculation, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM planting_calculations WHERE ($1 = '' OR user_id::text = $1)
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+calculationColumns+`
		FROM planting_calculations
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var calcs []domain.PlantingCalculation
	for rows.Next() {
		c, err := scanCalculation(rows)
		if err != nil {
			return nil, 0, err
		}
		calcs = append(calcs, *c)
	}
	return calcs, total, rows.Err()
}
