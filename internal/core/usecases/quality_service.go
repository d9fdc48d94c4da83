package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/ports"
)

const maxQualityBatch = 10

// QualityService grades fruit images through the detector's quality model.
type QualityService struct {
	reports  ports.QualityRepository
	detector ports.Detector
}

// NewQualityService creates a new QualityService.
func NewQualityService(reports ports.QualityRepository, detector ports.Detector) *QualityService {
	return &QualityService{reports: reports, detector: detector}
}

// Grade runs the quality model over a batch of images and persists the
// aggregated report.
func (s *QualityService) Grade(ctx context.Context, userID string, imageURLs []string) (*domain.QualityReport, error) {
	if len(imageURLs) == 0 {
		return nil, fmt.Errorf("%w: at least one image is required", domain.ErrInvalidRequest)
	}
	if len(imageURLs) > maxQualityBatch {
		return nil, fmt.Errorf("%w: at most %d images per batch, got %d", domain.ErrInvalidRequest, maxQualityBatch, len(imageURLs))
	}

	detections, width, height, err := s.detector.DetectQuality(ctx, imageURLs)
	if err != nil {
		return nil, fmt.Errorf("grade fruit images: %w", err)
	}

	counts := make(map[string]int)
	for _, d := range detections {
		counts[d.Label]++
	}

	report := &domain.QualityReport{
		ID:          uuid.NewString(),
		ReportID:    newPublicID("QRP"),
		UserID:      userID,
		TotalImages: len(imageURLs),
		TotalFruits: len(detections),
		Counts:      counts,
		Detections:  detections,
		ImageWidth:  width,
		ImageHeight: height,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// Get returns a quality report by its public identifier.
func (s *QualityService) Get(ctx context.Context, reportID string) (*domain.QualityReport, error) {
	return s.reports.GetByReportID(ctx, reportID)
}

// List returns a page of the user's reports plus the total count.
func (s *QualityService) List(ctx context.Context, userID string, limit, offset int) ([]domain.QualityReport, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.reports.List(ctx, userID, limit, offset)
}
