package planting

import (
	"context"
	"fmt"
	"math"

	"github.com/agrivision/backend/internal/core/domain"
	"github.com/agrivision/backend/internal/pkg/geometry"
)

// MaxStoredPositions caps the number of positions kept on a LayoutResult.
// TotalPlants always reflects the full count regardless of truncation.
const MaxStoredPositions = 1000

const cmPerMeter = 100

// GenerateGrid sweeps a regular grid over the boundary polygon and keeps the
// points that fall inside it. The sweep starts at the bounding-box minimum
// corner, stepping rowSpacingM along x and plantSpacingM along y, so points on
// the min-x/min-y edges are included and points on the max edges are not.
//
// The context is checked once per row so large fields can be cancelled.
func GenerateGrid(ctx context.Context, boundary []geometry.Point, rowSpacingM, plantSpacingM float64) (*domain.LayoutResult, error) {
	if !(rowSpacingM > 0) || !(plantSpacingM > 0) {
		return nil, fmt.Errorf("%w: row=%v plant=%v", ErrInvalidSpacing, rowSpacingM, plantSpacingM)
	}
	if geometry.DistinctVertices(boundary) < 3 {
		return nil, fmt.Errorf("%w: got %d distinct vertices", ErrInvalidBoundary, geometry.DistinctVertices(boundary))
	}
	area := geometry.Area(boundary)
	if area == 0 {
		return nil, fmt.Errorf("%w: polygon is degenerate", ErrInvalidBoundary)
	}

	bounds := geometry.BoundingBox(boundary)

	var (
		positions []domain.PlantPosition
		total     int
		generated int
	)
	for x := bounds.MinX; x < bounds.MaxX; x += rowSpacingM {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		for y := bounds.MinY; y < bounds.MaxY; y += plantSpacingM {
			generated++
			if !geometry.Contains(boundary, x, y) {
				continue
			}
			total++
			if len(positions) < MaxStoredPositions {
				positions = append(positions, domain.PlantPosition{
					ID:  total,
					X:   round2(x),
					Y:   round2(y),
					Row: int((x - bounds.MinX) / rowSpacingM),
					Col: int((y - bounds.MinY) / plantSpacingM),
				})
			}
		}
	}

	return &domain.LayoutResult{
		TotalPlants: total,
		Positions:   positions,
		Grid: domain.GridParams{
			RowSpacingCM:        round2(rowSpacingM * cmPerMeter),
			PlantSpacingCM:      round2(plantSpacingM * cmPerMeter),
			Bounds:              bounds,
			PolygonAreaM2:       round2(area),
			GridPointsGenerated: generated,
		},
		CoveragePercent: coverage(total, rowSpacingM, plantSpacingM, area),
	}, nil
}

// coverage estimates how much of the polygon area the planted footprint uses,
// where each plant claims one rowSpacing×plantSpacing cell. Capped at 100.
func coverage(totalPlants int, rowSpacingM, plantSpacingM, areaM2 float64) float64 {
	if areaM2 <= 0 {
		return 0
	}
	pct := float64(totalPlants) * rowSpacingM * plantSpacingM / areaM2 * 100
	return round2(math.Min(100, pct))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
