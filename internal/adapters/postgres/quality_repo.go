package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrivision/backend/internal/core/domain"
)

// QualityRepo implements ports.QualityRepository with pgx.
type QualityRepo struct {
	db *DB
}

// NewQualityRepo creates a new QualityRepo.
func NewQualityRepo(db *DB) *QualityRepo {
	return &QualityRepo{db: db}
}

// Create inserts a quality report.
func (r *QualityRepo) Create(ctx context.Context, q *domain.QualityReport) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO quality_reports (id, report_id, user_id, total_images, total_fruits,
		                             counts, detections, image_width, image_height, created_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7, $8, $9, $10)
	`, q.ID, q.ReportID, q.UserID, q.TotalImages, q.TotalFruits,
		q.Counts, q.Detections, q.ImageWidth, q.ImageHeight, q.CreatedAt)
	return err
}

const qualityColumns = `
	id, report_id, COALESCE(user_id::text, ''), total_images, total_fruits,
	COALESCE(counts, '{}'), COALESCE(detections, '[]'), image_width, image_height, created_at
`

func scanQualityReport(row pgx.Row) (*domain.QualityReport, error) {
	var q domain.QualityReport
	err := row.Scan(
		&q.ID, &q.ReportID, &q.UserID, &q.TotalImages, &q.TotalFruits,
		&q.Counts, &q.Detections, &q.ImageWidth, &q.ImageHeight, &q.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// GetByReportID returns a report by its public identifier.
func (r *QualityRepo) GetByReportID(ctx context.Context, reportID string) (*domain.QualityReport, error) {
	return scanQualityReport(r.db.Pool.QueryRow(ctx,
		`SELECT `+qualityColumns+` FROM quality_reports WHERE report_id = $1`, reportID))
}

// List returns a page of reports, newest first, plus the total count.
// An empty userID lists across all users.
func (r *QualityRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.QualityReport, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM quality_reports WHERE ($1 = '' OR user_id::text = $1)
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+qualityColumns+`
		FROM quality_reports
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reports []domain.QualityReport
	for rows.Next() {
		q, err := scanQualityReport(rows)
		if err != nil {
			return nil, 0, err
		}
		reports = append(reports, *q)
	}
	return reports, total, rows.Err()
}
