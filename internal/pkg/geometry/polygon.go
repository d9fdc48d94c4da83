package geometry

// Point is a planar coordinate in meters, relative to a field-local frame.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// BoundingBox returns the axis-aligned bounding box of a polygon.
func BoundingBox(polygon []Point) Bounds {
	if len(polygon) == 0 {
		return Bounds{}
	}
	b := Bounds{
		MinX: polygon[0].X, MaxX: polygon[0].X,
		MinY: polygon[0].Y, MaxY: polygon[0].Y,
	}
	for _, p := range polygon[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// Contains reports whether a point lies inside a simple polygon using the
// even-odd ray casting rule. The closing vertex may be repeated or omitted.
//
// Edge convention: for an axis-aligned boundary, points on the minimum-x and
// minimum-y edges count as inside, points on the maximum edges as outside.
// Self-touching polygons follow even-odd semantics and are not rejected.
func Contains(polygon []Point, x, y float64) bool {
	n := len(polygon)
	if n < 3 {
		return false
	}

	inside := false
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		xi, yi := polygon[i].X, polygon[i].Y
		xj, yj := polygon[j].X, polygon[j].Y

		if (yi > y) != (yj > y) && x < (xj-xi)*(y-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}

// Area computes the area of a simple polygon via the Shoelace formula.
// Polygons with fewer than 3 vertices have area 0.
func Area(polygon []Point) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}

	area := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += polygon[i].X * polygon[j].Y
		area -= polygon[j].X * polygon[i].Y
	}
	if area < 0 {
		area = -area
	}
	return area / 2
}

// DistinctVertices counts vertices after dropping a repeated closing point
// and consecutive duplicates.
func DistinctVertices(polygon []Point) int {
	n := len(polygon)
	if n > 1 && polygon[0] == polygon[n-1] {
		polygon = polygon[:n-1]
		n--
	}
	if n == 0 {
		return 0
	}
	count := 1
	for i := 1; i < n; i++ {
		if polygon[i] != polygon[i-1] {
			count++
		}
	}
	return count
}
