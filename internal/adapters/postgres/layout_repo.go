package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrivision/backend/internal/core/domain"
)

// LayoutRepo implements ports.LayoutRepository with pgx. Positions, grid
// parameters, and boundary polygons are stored as JSONB.
type LayoutRepo struct {
	db *DB
}

// NewLayoutRepo creates a new LayoutRepo.
func NewLayoutRepo(db *DB) *LayoutRepo {
	return &LayoutRepo{db: db}
}

// Create inserts a layout.
func (r *LayoutRepo) Create(ctx context.Context, l *domain.PlantingLayout) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO planting_layouts (id, layout_id, field_id, calculation_id, row_spacing_m,
		                              plant_spacing_m, total_plants, positions, grid_params,
		                              boundary, coverage_pct, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12)
	`, l.ID, l.LayoutID, l.FieldID, l.CalculationID, l.RowSpacingM,
		l.PlantSpacingM, l.TotalPlants, l.Positions, l.Grid,
		l.Boundary, l.CoveragePercent, l.CreatedAt)
	return err
}

const layoutColumns = `
	id, layout_id, COALESCE(field_id, ''), COALESCE(calculation_id, ''),
	row_spacing_m, plant_spacing_m, total_plants, COALESCE(positions, '[]'),
	grid_params, COALESCE(boundary, '[]'), coverage_pct, created_at
`

func scanLayout(row pgx.Row) (*domain.PlantingLayout, error) {
	var l domain.PlantingLayout
	err := row.Scan(
		&l.ID, &l.LayoutID, &l.FieldID, &l.CalculationID,
		&l.RowSpacingM, &l.PlantSpacingM, &l.TotalPlants, &l.Positions,
		&l.Grid, &l.Boundary, &l.CoveragePercent, &l.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &l, nil
}

// GetByLayoutID returns a layout by its public identifier.
func (r *LayoutRepo) GetByLayoutID(ctx context.Context, layoutID string) (*domain.PlantingLayout, error) {
	return scanLayout(r.db.Pool.QueryRow(ctx,
		`SELECT `+layoutColumns+` FROM planting_layouts WHERE layout_id = $1`, layoutID))
}

// ListByField returns a page of a field's layouts, newest first, plus the
// total count. Positions are omitted from list rows to keep pages small.
func (r *LayoutRepo) ListByField(ctx context.Context, fieldID string, limit, offset int) ([]domain.PlantingLayout, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT count(*) FROM planting_layouts WHERE field_id = $1`, fieldID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, layout_id, COALESCE(field_id, ''), COALESCE(calculation_id, ''),
		       row_spacing_m, plant_spacing_m, total_plants, '[]'::jsonb,
		       grid_params, '[]'::jsonb, coverage_pct, created_at
		FROM planting_layouts
		WHERE field_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, fieldID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var layouts []domain.PlantingLayout
	for rows.Next() {
		l, err := scanLayout(rows)
		if err != nil {
			return nil, 0, err
		}
		layouts = append(layouts, *l)
	}
	return layouts, total, rows.Err()
}

// Delete removes a layout by its public identifier.
func (r *LayoutRepo) Delete(ctx context.Context, layoutID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM planting_layouts WHERE layout_id = $1`, layoutID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
