package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrivision/backend/internal/core/domain"
)

// FieldRepo implements ports.FieldRepository with pgx.
type FieldRepo struct {
	db *DB
}

// NewFieldRepo creates a new FieldRepo.
func NewFieldRepo(db *DB) *FieldRepo {
	return &FieldRepo{db: db}
}

// Create inserts a field. The boundary polygon is stored as JSONB.
func (r *FieldRepo) Create(ctx context.Context, f *domain.Field) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO fields (id, field_id, name, area_m2, boundary, soil_ph, soil_type,
		                    organic_matter, temperature_c, rainfall_mm, location, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), $13)
	`, f.ID, f.FieldID, f.Name, f.AreaM2, f.Boundary, f.SoilPH, nullIfEmpty(string(f.SoilType)),
		f.OrganicMatter, f.Temperature, f.RainfallMM, f.Location, f.UserID, f.CreatedAt)
	return err
}

// Update rewrites a field's mutable attributes.
func (r *FieldRepo) Update(ctx context.Context, f *domain.Field) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE fields
		SET name = $2, area_m2 = $3, boundary = $4, soil_ph = $5, soil_type = $6,
		    organic_matter = $7, temperature_c = $8, rainfall_mm = $9, location = $10, updated_at = $11
		WHERE field_id = $1
	`, f.FieldID, f.Name, f.AreaM2, f.Boundary, f.SoilPH, nullIfEmpty(string(f.SoilType)),
		f.OrganicMatter, f.Temperature, f.RainfallMM, f.Location, f.UpdatedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const fieldColumns = `
	id, field_id, name, area_m2, COALESCE(boundary, '[]'),
	soil_ph, COALESCE(soil_type, ''), organic_matter, temperature_c, rainfall_mm,
	COALESCE(location, ''), COALESCE(user_id::text, ''), created_at, updated_at
`

func scanField(row pgx.Row) (*domain.Field, error) {
	var f domain.Field
	err := row.Scan(
		&f.ID, &f.FieldID, &f.Name, &f.AreaM2, &f.Boundary,
		&f.SoilPH, &f.SoilType, &f.OrganicMatter, &f.Temperature, &f.RainfallMM,
		&f.Location, &f.UserID, &f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

// GetByFieldID returns a field by its public identifier.
func (r *FieldRepo) GetByFieldID(ctx context.Context, fieldID string) (*domain.Field, error) {
	return scanField(r.db.Pool.QueryRow(ctx,
		`SELECT `+fieldColumns+` FROM fields WHERE field_id = $1`, fieldID))
}

// List returns a page of fields, newest first, plus the total count.
// An empty userID lists across all users.
func (r *FieldRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.Field, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM fields WHERE ($1 = '' OR user_id::text = $1)
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+fieldColumns+`
		FROM fields
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var fields []domain.Field
	for rows.Next() {
		f, err := scanField(rows)
		if err != nil {
			return nil, 0, err
		}
		fields = append(fields, *f)
	}
	return fields, total, rows.Err()
}

// Delete removes a field by its public identifier.
func (r *FieldRepo) Delete(ctx context.Context, fieldID string) error {
	tag, err := r.db.Pool.Exec(ctx, `DELETE FROM fields WHERE field_id = $1`, fieldID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
