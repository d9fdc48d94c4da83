package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/core/planting"
	"github.com/agrivision/backend/internal/core/usecases"
	"github.com/agrivision/backend/internal/pkg/geometry"
)

func TestFieldService_Create_FromBoundary(t *testing.T) {
	var saved *domain.Field
	repo := &mockFieldRepo{
		createFn: func(ctx context.Context, field *domain.Field) error {
			saved = field
			return nil
		},
	}
	svc := usecases.NewFieldService(repo, nil)

	field, err := svc.Create(context.Background(), &domain.Field{
		Name: "North plot",
		Boundary: []geometry.Point{
			{X: 0, Y: 0}, {X: 50, Y: 0}, {X: 50, Y: 40}, {X: 0, Y: 40}, {X: 0, Y: 0},
		},
		AreaM2: 1, // boundary area wins over the caller's value
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field.AreaM2 != 2000 {
		t.Errorf("expected area 2000 from boundary, got %v", field.AreaM2)
	}
	if !strings.HasPrefix(field.FieldID, "FLD-") {
		t.Errorf("expected FLD- prefix, got %s", field.FieldID)
	}
	if saved == nil {
		t.Fatal("field was not persisted")
	}
}

func TestFieldService_Create_AreaOnly(t *testing.T) {
	svc := usecases.NewFieldService(&mockFieldRepo{}, nil)
	field, err := svc.Create(context.Background(), &domain.Field{Name: "South plot", AreaM2: 750})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if field.AreaM2 != 750 {
		t.Errorf("expected area 750, got %v", field.AreaM2)
	}
}

func TestFieldService_Create_Invalid(t *testing.T) {
	svc := usecases.NewFieldService(&mockFieldRepo{}, nil)

	if _, err := svc.Create(context.Background(), &domain.Field{AreaM2: 100}); err == nil {
		t.Error("expected error for missing name")
	}

	_, err := svc.Create(context.Background(), &domain.Field{Name: "x"})
	if !errors.Is(err, planting.ErrInvalidArea) {
		t.Errorf("expected ErrInvalidArea without boundary or area, got %v", err)
	}

	_, err = svc.Create(context.Background(), &domain.Field{
		Name:     "x",
		Boundary: []geometry.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
	})
	if !errors.Is(err, planting.ErrInvalidBoundary) {
		t.Errorf("expected ErrInvalidBoundary for 2-point polygon, got %v", err)
	}
}

func TestQualityService_Grade(t *testing.T) {
	detector := &mockDetector{
		detectQualityFn: func(ctx context.Context, imageURLs []string) ([]domain.Detection, int, int, error) {
			return []domain.Detection{
				{Label: "ripe"}, {Label: "ripe"}, {Label: "unripe"}, {Label: "damaged"},
			}, 640, 480, nil
		},
	}
	svc := usecases.NewQualityService(&mockQualityRepo{}, detector)

	report, err := svc.Grade(context.Background(), "user-1", []string{"https://img.example.com/a.jpg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.TotalFruits != 4 {
		t.Errorf("expected 4 fruits, got %d", report.TotalFruits)
	}
	if report.Counts["ripe"] != 2 {
		t.Errorf("expected 2 ripe, got %d", report.Counts["ripe"])
	}
	if !strings.HasPrefix(report.ReportID, "QRP-") {
		t.Errorf("expected QRP- prefix, got %s", report.ReportID)
	}
	if report.ImageWidth != 640 || report.ImageHeight != 480 {
		t.Errorf("expected 640x480, got %dx%d", report.ImageWidth, report.ImageHeight)
	}
}

func TestQualityService_Grade_BatchLimits(t *testing.T) {
	svc := usecases.NewQualityService(&mockQualityRepo{}, &mockDetector{})

	if _, err := svc.Grade(context.Background(), "u", nil); err == nil {
		t.Error("expected error for empty batch")
	}

	urls := make([]string, 11)
	for i := range urls {
		urls[i] = "https://img.example.com/x.jpg"
	}
	if _, err := svc.Grade(context.Background(), "u", urls); err == nil {
		t.Error("expected error for oversized batch")
	}
}
