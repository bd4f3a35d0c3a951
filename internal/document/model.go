package document

import (
	"github.com/inamate/shapedit/backend-go/internal/geom"
)

type Kind string

const (
	KindPath   Kind = "path"
	KindRect   Kind = "rect"
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
)

// Style holds the paint attributes of a shape. Empty colors are left unset
// here; the renderer substitutes its fallback at paint time.
type Style struct {
	HasFill     bool     `json:"hasFill"`
	FillColor   string   `json:"fillColor,omitempty"`
	HasBorder   bool     `json:"hasBorder"`
	BorderWidth *float64 `json:"borderWidth,omitempty"`
	BorderColor string   `json:"borderColor,omitempty"`
}

// StrokeWidth returns the border width, or 0 when unset.
func (s Style) StrokeWidth() float64 {
	if s.BorderWidth == nil {
		return 0
	}
	return *s.BorderWidth
}

// Equal compares styles by value, including the border width.
func (s Style) Equal(o Style) bool {
	if (s.BorderWidth == nil) != (o.BorderWidth == nil) {
		return false
	}
	if s.BorderWidth != nil && *s.BorderWidth != *o.BorderWidth {
		return false
	}
	return s.HasFill == o.HasFill && s.FillColor == o.FillColor &&
		s.HasBorder == o.HasBorder && s.BorderColor == o.BorderColor
}

// StyleUpdate is a partial Style. Nil fields are left untouched by Merge.
type StyleUpdate struct {
	HasFill     *bool    `json:"hasFill,omitempty"`
	FillColor   *string  `json:"fillColor,omitempty"`
	HasBorder   *bool    `json:"hasBorder,omitempty"`
	BorderWidth *float64 `json:"borderWidth,omitempty"`
	BorderColor *string  `json:"borderColor,omitempty"`
}

// Merge returns s with every field set in u applied.
func (s Style) Merge(u StyleUpdate) Style {
	if u.HasFill != nil {
		s.HasFill = *u.HasFill
	}
	if u.FillColor != nil {
		s.FillColor = *u.FillColor
	}
	if u.HasBorder != nil {
		s.HasBorder = *u.HasBorder
	}
	if u.BorderWidth != nil {
		w := *u.BorderWidth
		s.BorderWidth = &w
	}
	if u.BorderColor != nil {
		s.BorderColor = *u.BorderColor
	}
	return s
}

// Shape is a single drawable entity. Circle shapes use Center and Radius;
// every other kind is described by its ordered Vertices.
//
// A *Shape held by the scene store is never modified in place: mutations
// build a new value (see Clone) so pointer equality tells whether a shape
// changed.
type Shape struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Kind     Kind          `json:"kind"`
	Vertices []geom.Vertex `json:"vertices"`
	Center   geom.Vertex   `json:"center"`
	Radius   float64       `json:"radius,omitempty"`
	Styles   Style         `json:"styles"`
	Editing  bool          `json:"editing"`
	IsClosed bool          `json:"isClosed"`
}

// ShapeUpdate is a partial Shape used by the store's merge operation.
type ShapeUpdate struct {
	Name     *string       `json:"name,omitempty"`
	Vertices []geom.Vertex `json:"vertices,omitempty"`
	Styles   *StyleUpdate  `json:"styles,omitempty"`
	Editing  *bool         `json:"editing,omitempty"`
	IsClosed *bool         `json:"isClosed,omitempty"`
}

// Clone returns a deep copy of the shape.
func (s *Shape) Clone() *Shape {
	c := *s
	c.Vertices = append([]geom.Vertex(nil), s.Vertices...)
	if s.Styles.BorderWidth != nil {
		w := *s.Styles.BorderWidth
		c.Styles.BorderWidth = &w
	}
	return &c
}

// Bounds returns the axis-aligned bounding box of the shape.
func (s *Shape) Bounds() (geom.Rect, bool) {
	switch s.Kind {
	case KindCircle:
		if s.Radius <= 0 {
			return geom.Rect{}, false
		}
		return geom.Rect{
			X:      s.Center.X - s.Radius,
			Y:      s.Center.Y - s.Radius,
			Width:  2 * s.Radius,
			Height: 2 * s.Radius,
		}, true
	default:
		return geom.Bounds(s.Vertices)
	}
}

// Contains reports whether p falls inside the shape's bounding box.
func (s *Shape) Contains(p geom.Vertex) bool {
	r, ok := s.Bounds()
	if !ok {
		return false
	}
	return r.Contains(p.X, p.Y)
}

// Renderable reports whether the shape has enough geometry to be painted.
func (s *Shape) Renderable() bool {
	if s.Kind == KindCircle {
		return s.Radius > 0
	}
	return len(s.Vertices) >= 2
}

// Translated returns a copy of the shape moved by (dx, dy).
func (s *Shape) Translated(dx, dy float64) *Shape {
	c := s.Clone()
	for i := range c.Vertices {
		c.Vertices[i] = c.Vertices[i].Add(dx, dy)
	}
	c.Center = c.Center.Add(dx, dy)
	return c
}

// Float returns a pointer to v, for optional numeric style fields.
func Float(v float64) *float64 { return &v }
