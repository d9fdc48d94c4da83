package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/agrivision/backend/internal/core/domain"
)

// SessionRepo implements ports.SessionRepository with pgx.
type SessionRepo struct {
	db *DB
}

// NewSessionRepo creates a new SessionRepo.
func NewSessionRepo(db *DB) *SessionRepo {
	return &SessionRepo{db: db}
}

// Create inserts a queued session.
func (r *SessionRepo) Create(ctx context.Context, s *domain.AnalysisSession) error {
	_, err := r.db.Pool.Exec(ctx, `
		INSERT INTO analysis_sessions (id, session_id, user_id, field_id, status, image_url,
		                               nitrogen, phosphorus, potassium, ph, temperature_c,
		                               humidity, location_lat, location_lng, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`, s.ID, s.SessionID, s.UserID, s.FieldID, string(s.Status), s.ImageURL,
		s.Nitrogen, s.Phosphorus, s.Potassium, s.PH, s.Temperature,
		s.Humidity, s.Lat, s.Lon, s.CreatedAt)
	return err
}

// Update rewrites the analysis outputs on an existing session.
func (r *SessionRepo) Update(ctx context.Context, s *domain.AnalysisSession) error {
	tag, err := r.db.Pool.Exec(ctx, `
		UPDATE analysis_sessions
		SET status = $2, annotated_image_url = NULLIF($3, ''), growth_stage = NULLIF($4, ''),
		    stage_confidence = $5, counts = $6, current_weather = NULLIF($7, ''),
		    fertilizer_plan = $8, error = NULLIF($9, ''), completed_at = $10
		WHERE session_id = $1
	`, s.SessionID, string(s.Status), s.AnnotatedImageURL, string(s.GrowthStage),
		s.StageConfidence, s.Counts, s.CurrentWeather,
		s.FertilizerPlan, s.Error, s.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const sessionColumns = `
	id, session_id, COALESCE(user_id::text, ''), COALESCE(field_id, ''), status, image_url,
	COALESCE(annotated_image_url, ''), nitrogen, phosphorus, potassium, ph, temperature_c,
	humidity, location_lat, location_lng, COALESCE(growth_stage, ''), stage_confidence,
	COALESCE(counts, '{}'), COALESCE(current_weather, ''), fertilizer_plan,
	COALESCE(error, ''), created_at, completed_at
`

func scanSession(row pgx.Row) (*domain.AnalysisSession, error) {
	var s domain.AnalysisSession
	err := row.Scan(
		&s.ID, &s.SessionID, &s.UserID, &s.FieldID, &s.Status, &s.ImageURL,
		&s.AnnotatedImageURL, &s.Nitrogen, &s.Phosphorus, &s.Potassium, &s.PH, &s.Temperature,
		&s.Humidity, &s.Lat, &s.Lon, &s.GrowthStage, &s.StageConfidence,
		&s.Counts, &s.CurrentWeather, &s.FertilizerPlan,
		&s.Error, &s.CreatedAt, &s.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// GetBySessionID returns a session by its public identifier.
func (r *SessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.AnalysisSession, error) {
	return scanSession(r.db.Pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM analysis_sessions WHERE session_id = $1`, sessionID))
}

// List returns a page of sessions, newest first, plus the total count.
// An empty userID lists across all users.
func (r *SessionRepo) List(ctx context.Context, userID string, limit, offset int) ([]domain.AnalysisSession, int, error) {
	var total int
	if err := r.db.Pool.QueryRow(ctx, `
		SELECT count(*) FROM analysis_sessions WHERE ($1 = '' OR user_id::text = $1)
	`, userID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT `+sessionColumns+`
		FROM analysis_sessions
		WHERE ($1 = '' OR user_id::text = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var sessions []domain.AnalysisSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, 0, err
		}
		sessions = append(sessions, *s)
	}
	return sessions, total, rows.Err()
}
