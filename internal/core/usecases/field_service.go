package usecases

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
	"github.com/agrivision/backend/internal/core/ports"
	"github.com/agrivision/backend/internal/pkg/geometry"
)

// newPublicID builds the short external identifier used in URLs, e.g.
// "FLD-3F2A9B1C". The prefix names the resource kind.
func newPublicID(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.NewString()[:8])
}

// FieldService handles field registration and lookups.
type FieldService struct {
	fields ports.FieldRepository
	cache  ports.CacheService
}

// NewFieldService creates a new FieldService.
func NewFieldService(fields ports.FieldRepository, cache ports.CacheService) *FieldService {
	return &FieldService{fields: fields, cache: cache}
}

// Create registers a field. When a boundary polygon is given its area
// overrides any caller-supplied area; otherwise a positive area is required.
func (s *FieldService) Create(ctx context.Context, field *domain.Field) (*domain.Field, error) {
	if field.Name == "" {
		return nil, fmt.Errorf("%w: field name must not be empty", domain.ErrInvalidRequest)
	}
	if len(field.Boundary) > 0 {
		if geometry.DistinctVertices(field.Boundary) < 3 {
			return nil, fmt.Errorf("%w: boundary needs at least 3 distinct vertices", planting.ErrInvalidBoundary)
		}
		area := geometry.Area(field.Boundary)
		if area == 0 {
			return nil, fmt.Errorf("%w: boundary polygon is degenerate", planting.ErrInvalidBoundary)
		}
		field.AreaM2 = area
	} else if !(field.AreaM2 > 0) {
		return nil, fmt.Errorf("%w: got %v", planting.ErrInvalidArea, field.AreaM2)
	}

	field.ID = uuid.NewString()
	field.FieldID = newPublicID("FLD")
	field.CreatedAt = time.Now().UTC()

	if err := s.fields.Create(ctx, field); err != nil {
		return nil, err
	}
	return field, nil
}

// Update modifies a field's mutable attributes.
func (s *FieldService) Update(ctx context.Context, field *domain.Field) (*domain.Field, error) {
	existing, err := s.fields.GetByFieldID(ctx, field.FieldID)
	if err != nil {
		return nil, err
	}
	field.ID = existing.ID
	field.CreatedAt = existing.CreatedAt
	now := time.Now().UTC()
	field.UpdatedAt = &now

	if len(field.Boundary) > 0 {
		area := geometry.Area(field.Boundary)
		if area == 0 {
			return nil, fmt.Errorf("%w: boundary polygon is degenerate", planting.ErrInvalidBoundary)
		}
		field.AreaM2 = area
	}

	if err := s.fields.Update(ctx, field); err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "fields:id:"+field.FieldID)
	}
	return field, nil
}

// Get returns a field by its public identifier.
func (s *FieldService) Get(ctx context.Context, fieldID string) (*domain.Field, error) {
	return cachedJSON(ctx, s.cache, "fields:id:"+fieldID, 600, func() (*domain.Field, error) {
		return s.fields.GetByFieldID(ctx, fieldID)
	})
}

// List returns a page of the user's fields plus the total count.
func (s *FieldService) List(ctx context.Context, userID string, limit, offset int) ([]domain.Field, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.fields.List(ctx, userID, limit, offset)
}

// Delete removes a field.
func (s *FieldService) Delete(ctx context.Context, fieldID string) error {
	if err := s.fields.Delete(ctx, fieldID); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "fields:id:"+fieldID)
	}
	return nil
}
