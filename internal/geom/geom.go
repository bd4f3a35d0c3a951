package geom

import "math"

// Vertex is a point in logical scene coordinates.
type Vertex struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v translated by (dx, dy).
func (v Vertex) Add(dx, dy float64) Vertex {
	return Vertex{X: v.X + dx, Y: v.Y + dy}
}

// Distance returns the euclidean distance between two vertices.
func Distance(a, b Vertex) float64 {
	return math.Hypot(b.X-a.X, b.Y-a.Y)
}

// Rect represents an axis-aligned bounding box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Bounds computes the bounding box of a vertex list.
// The second return value is false when the list is empty.
func Bounds(vertices []Vertex) (Rect, bool) {
	if len(vertices) == 0 {
		return Rect{}, false
	}

	minX, minY := vertices[0].X, vertices[0].Y
	maxX, maxY := minX, minY
	for _, v := range vertices[1:] {
		minX = math.Min(minX, v.X)
		maxX = math.Max(maxX, v.X)
		minY = math.Min(minY, v.Y)
		maxY = math.Max(maxY, v.Y)
	}

	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}, true
}

// Contains checks if a point is inside the rect. Edges are inclusive, so a
// degenerate rect (a horizontal or vertical polyline) still accepts hits on it.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width && y >= r.Y && y <= r.Y+r.Height
}

// PointInBounds reports whether p lies inside the bounding box of vertices.
// This is the hit-testing policy for selection: concave outlines accept hits
// anywhere inside their box.
func PointInBounds(vertices []Vertex, p Vertex) bool {
	r, ok := Bounds(vertices)
	if !ok {
		return false
	}
	return r.Contains(p.X, p.Y)
}

// Nearest returns the index of the vertex closest to p within radius, or -1.
func Nearest(vertices []Vertex, p Vertex, radius float64) int {
	best := -1
	bestDist := radius
	for i, v := range vertices {
		if d := Distance(v, p); d <= bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}
