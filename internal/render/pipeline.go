package render

import (
	"math"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/scene"
	"github.com/inamate/shapedit/backend-go/internal/viewport"
)

// Sizes of overlay decorations in surface units. They are divided by the
// zoom scale so they look the same at every zoom level.
const (
	constructionWidth = 2.0
	selectionWidth    = 1.0
	selectionDash     = 4.0
	handleSize        = 6.0
)

// Frame is everything the pipeline reads to paint one frame.
type Frame struct {
	Shapes       []*document.Shape
	Selected     string
	Construction scene.Cursor
	View         viewport.Viewport
	// ActiveVertex is the index of the selected shape's vertex being
	// dragged, or -1.
	ActiveVertex int
}

// Paint draws f onto s: shapes back to front, then the construction
// preview and the selection decoration, all in logical coordinates under
// the viewport transform.
func Paint(s Surface, f Frame) {
	scale := f.View.Scale
	if scale <= 0 {
		scale = 1
	}

	s.Clear()
	s.Push()
	s.Translate(f.View.OffsetX, f.View.OffsetY)
	s.Scale(scale)

	for _, sh := range f.Shapes {
		paintShape(s, sh)
	}
	paintConstruction(s, f.Construction, scale)
	if sel := find(f.Shapes, f.Selected); sel != nil {
		paintSelection(s, sel, f.ActiveVertex, scale)
	}

	s.Pop()
}

func find(shapes []*document.Shape, id string) *document.Shape {
	if id == "" {
		return nil
	}
	for _, sh := range shapes {
		if sh.ID == id {
			return sh
		}
	}
	return nil
}

func tracePath(s Surface, sh *document.Shape) {
	switch sh.Kind {
	case document.KindCircle:
		s.Arc(sh.Center.X, sh.Center.Y, sh.Radius, 0, 2*math.Pi)
	default:
		s.MoveTo(sh.Vertices[0].X, sh.Vertices[0].Y)
		for _, v := range sh.Vertices[1:] {
			s.LineTo(v.X, v.Y)
		}
		if sh.IsClosed {
			s.ClosePath()
		}
	}
}

func paintShape(s Surface, sh *document.Shape) {
	if !sh.Renderable() {
		return
	}
	st := sh.Styles
	stroke := st.HasBorder && st.StrokeWidth() > 0
	if !st.HasFill && !stroke {
		return
	}

	s.BeginPath()
	tracePath(s, sh)
	if st.HasFill {
		s.SetFillColor(colorOr(st.FillColor))
		s.Fill()
	}
	if stroke {
		s.SetStrokeColor(colorOr(st.BorderColor))
		s.SetLineWidth(st.StrokeWidth())
		s.SetDash(nil)
		s.Stroke()
	}
}

func paintConstruction(s Surface, c scene.Cursor, scale float64) {
	if c.Start == nil || c.Current == nil {
		return
	}
	s.BeginPath()
	s.MoveTo(c.Start.X, c.Start.Y)
	s.LineTo(c.Current.X, c.Current.Y)
	s.SetStrokeColor(ConstructionColor)
	s.SetLineWidth(constructionWidth / scale)
	s.SetDash(nil)
	s.Stroke()
}

func paintSelection(s Surface, sh *document.Shape, active int, scale float64) {
	if b, ok := sh.Bounds(); ok {
		s.BeginPath()
		s.MoveTo(b.X, b.Y)
		s.LineTo(b.X+b.Width, b.Y)
		s.LineTo(b.X+b.Width, b.Y+b.Height)
		s.LineTo(b.X, b.Y+b.Height)
		s.ClosePath()
		s.SetStrokeColor(SelectionColor)
		s.SetLineWidth(selectionWidth / scale)
		s.SetDash([]float64{selectionDash / scale, selectionDash / scale})
		s.Stroke()
		s.SetDash(nil)
	}

	size := handleSize / scale
	for i, v := range sh.Vertices {
		if i == active {
			s.SetFillColor(ActiveHandleColor)
		} else {
			s.SetFillColor(HandleColor)
		}
		s.FillRect(v.X-size/2, v.Y-size/2, size, size)
	}
}
