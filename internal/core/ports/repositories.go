package ports

import (
	"context"

	"github.com/agrivision/backend/internal/core/domain"
)

// FieldRepository persists fields.
type FieldRepository interface {
	Create(ctx context.Context, field *domain.Field) error
	Update(ctx context.Context, field *domain.Field) error
	GetByFieldID(ctx context.Context, fieldID string) (*domain.Field, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.Field, int, error)
	Delete(ctx context.Context, fieldID string) error
}

// LayoutRepository persists planting layouts.
type LayoutRepository interface {
	Create(ctx context.Context, layout *domain.PlantingLayout) error
	GetByLayoutID(ctx context.Context, layoutID string) (*domain.PlantingLayout, error)
	ListByField(ctx context.Context, fieldID string, limit, offset int) ([]domain.PlantingLayout, int, error)
	Delete(ctx context.Context, layoutID string) error
}

// CalculationRepository persists planting calculations.
type CalculationRepository interface {
	Create(ctx context.Context, calc *domain.PlantingCalculation) error
	GetByCalculationID(ctx context.Context, calcID string) (*domain.PlantingCalculation, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.PlantingCalculation, int, error)
}

// SessionRepository persists analysis sessions.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.AnalysisSession) error
	Update(ctx context.Context, session *domain.AnalysisSession) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.AnalysisSession, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.AnalysisSession, int, error)
}

// QualityRepository persists fruit quality reports.
type QualityRepository interface {
	Create(ctx context.Context, report *domain.QualityReport) error
	GetByReportID(ctx context.Context, reportID string) (*domain.QualityReport, error)
	List(ctx context.Context, userID string, limit, offset int) ([]domain.QualityReport, int, error)
}

// UserRepository persists user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
}
