package geometry

import (
	"math"
	"testing"
)

func square(side float64) []Point {
	return []Point{
		{0, 0}, {side, 0}, {side, side}, {0, side}, {0, 0},
	}
}

func TestArea_Rectangle(t *testing.T) {
	poly := []Point{{0, 0}, {40, 0}, {40, 25}, {0, 25}}
	got := Area(poly)
	if math.Abs(got-1000) > 1e-9 {
		t.Errorf("expected area 1000, got %f", got)
	}
}

func TestArea_ClosedRing(t *testing.T) {
	// Repeating the first vertex must not change the area.
	open := []Point{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	closed := square(10)
	if math.Abs(Area(open)-Area(closed)) > 1e-9 {
		t.Errorf("open %f != closed %f", Area(open), Area(closed))
	}
}

func TestArea_Degenerate(t *testing.T) {
	if got := Area([]Point{{0, 0}, {1, 1}}); got != 0 {
		t.Errorf("expected 0 for two points, got %f", got)
	}
	if got := Area(nil); got != 0 {
		t.Errorf("expected 0 for nil, got %f", got)
	}
}

func TestContains_Square(t *testing.T) {
	poly := square(100)

	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"center", 50, 50, true},
		{"min corner", 0, 0, true},
		{"min x edge", 0, 50, true},
		{"min y edge", 50, 0, true},
		{"max x edge", 100, 50, false},
		{"max y edge", 50, 100, false},
		{"max corner", 100, 100, false},
		{"outside", 150, 50, false},
		{"outside negative", -1, 50, false},
	}
	for _, tc := range cases {
		if got := Contains(poly, tc.x, tc.y); got != tc.want {
			t.Errorf("%s: Contains(%.0f, %.0f) = %v, want %v", tc.name, tc.x, tc.y, got, tc.want)
		}
	}
}

func TestContains_LShape(t *testing.T) {
	// L-shaped field: 10x10 square with the top-right 5x5 quadrant removed.
	poly := []Point{
		{0, 0}, {10, 0}, {10, 5}, {5, 5}, {5, 10}, {0, 10},
	}

	if !Contains(poly, 2, 8) {
		t.Error("point in the tall arm should be inside")
	}
	if !Contains(poly, 8, 2) {
		t.Error("point in the wide arm should be inside")
	}
	if Contains(poly, 8, 8) {
		t.Error("point in the notch must be excluded")
	}
}

func TestContains_TooFewVertices(t *testing.T) {
	if Contains([]Point{{0, 0}, {1, 1}}, 0.5, 0.5) {
		t.Error("segment cannot contain a point")
	}
}

func TestBoundingBox(t *testing.T) {
	poly := []Point{{-3, 2}, {7, -1}, {4, 9}}
	b := BoundingBox(poly)
	if b.MinX != -3 || b.MaxX != 7 || b.MinY != -1 || b.MaxY != 9 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestDistinctVertices(t *testing.T) {
	if got := DistinctVertices(square(10)); got != 4 {
		t.Errorf("closed square: expected 4, got %d", got)
	}
	if got := DistinctVertices([]Point{{0, 0}, {0, 0}, {1, 1}}); got != 2 {
		t.Errorf("duplicate run: expected 2, got %d", got)
	}
}
