package document

import (
	"github.com/inamate/shapedit/backend-go/internal/geom"
)

// NewPath creates a vertex-outline shape.
func NewPath(vertices []geom.Vertex, closed bool, style Style) *Shape {
	return &Shape{
		Kind:     KindPath,
		Vertices: append([]geom.Vertex(nil), vertices...),
		Styles:   style,
		IsClosed: closed,
	}
}

// NewRect creates a closed four-vertex rectangle with its top-left corner at (x, y).
func NewRect(x, y, w, h float64, style Style) *Shape {
	return &Shape{
		Kind: KindRect,
		Vertices: []geom.Vertex{
			{X: x, Y: y},
			{X: x + w, Y: y},
			{X: x + w, Y: y + h},
			{X: x, Y: y + h},
		},
		Styles:   style,
		IsClosed: true,
	}
}

// NewLine creates an open two-vertex segment.
func NewLine(from, to geom.Vertex, style Style) *Shape {
	return &Shape{
		Kind:     KindLine,
		Vertices: []geom.Vertex{from, to},
		Styles:   style,
	}
}

// NewCircle creates a circle shape.
func NewCircle(center geom.Vertex, radius float64, style Style) *Shape {
	return &Shape{
		Kind:     KindCircle,
		Center:   center,
		Radius:   radius,
		Styles:   style,
		IsClosed: true,
	}
}

// DefaultSquare is the placeholder shape added when no shape is supplied:
// a filled 100x100 square centered on the origin.
func DefaultSquare() *Shape {
	return NewPath([]geom.Vertex{
		{X: -50, Y: 50},
		{X: 50, Y: 50},
		{X: 50, Y: -50},
		{X: -50, Y: -50},
	}, true, Style{
		HasFill:     true,
		FillColor:   "#000000",
		HasBorder:   false,
		BorderWidth: Float(0),
	})
}

// SampleShapes returns a small scene used to seed new sessions.
func SampleShapes() []*Shape {
	rect := NewRect(-220, -120, 160, 100, Style{
		HasFill: true, FillColor: "#e94560",
		HasBorder: true, BorderColor: "#000000", BorderWidth: Float(2),
	})
	rect.Name = "Rectangle"

	circle := NewCircle(geom.Vertex{X: 120, Y: -60}, 60, Style{
		HasFill: true, FillColor: "#0f3460",
	})
	circle.Name = "Circle"

	triangle := NewPath([]geom.Vertex{
		{X: -60, Y: 140},
		{X: 60, Y: 140},
		{X: 0, Y: 40},
	}, true, Style{
		HasFill: true, FillColor: "#16c79a",
		HasBorder: true, BorderColor: "#11698e", BorderWidth: Float(3),
	})
	triangle.Name = "Triangle"

	line := NewLine(geom.Vertex{X: -240, Y: 180}, geom.Vertex{X: 240, Y: 180}, Style{
		HasBorder: true, BorderColor: "gray", BorderWidth: Float(1),
	})
	line.Name = "Baseline"

	return []*Shape{rect, circle, triangle, line}
}
