package viewport

import (
	"github.com/inamate/shapedit/backend-go/internal/geom"
)

const (
	DefaultMinScale = 0.1
	DefaultMaxScale = 5.0
	DefaultStep     = 0.1
)

// Limits bounds the zoom scale and sets the per-notch zoom step.
type Limits struct {
	MinScale float64
	MaxScale float64
	Step     float64
}

// DefaultLimits returns the standard [0.1, 5.0] range with 10% steps.
func DefaultLimits() Limits {
	return Limits{MinScale: DefaultMinScale, MaxScale: DefaultMaxScale, Step: DefaultStep}
}

// Viewport maps between surface (pixel) space and logical scene space:
//
//	surface = logical*Scale + Offset
type Viewport struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Scale   float64 `json:"scale"`

	limits  Limits
	laidOut bool
}

// New returns a viewport at scale 1 with the origin at the surface's
// top-left corner until the first Layout.
func New(limits Limits) *Viewport {
	if limits.MinScale <= 0 || limits.MaxScale < limits.MinScale {
		limits.MinScale, limits.MaxScale = DefaultMinScale, DefaultMaxScale
	}
	if limits.Step <= 0 {
		limits.Step = DefaultStep
	}
	return &Viewport{Scale: 1, limits: limits}
}

func (v *Viewport) Limits() Limits { return v.limits }

// Layout informs the viewport of the surface size. The first call centres
// the scene origin on the surface; later calls are ignored so a resize
// does not undo the user's panning.
func (v *Viewport) Layout(width, height float64) bool {
	if v.laidOut {
		return false
	}
	v.laidOut = true
	v.OffsetX = width / 2
	v.OffsetY = height / 2
	return true
}

// ToLogical maps a surface point into the scene.
func (v *Viewport) ToLogical(sx, sy float64) geom.Vertex {
	inv, ok := v.Matrix().Invert()
	if !ok {
		return geom.Vertex{X: sx - v.OffsetX, Y: sy - v.OffsetY}
	}
	return inv.Apply(sx, sy)
}

func (v *Viewport) ToSurface(lx, ly float64) geom.Vertex {
	return v.Matrix().Apply(lx, ly)
}

// Pan shifts the offset by (dx, dy) surface units.
func (v *Viewport) Pan(dx, dy float64) {
	v.OffsetX += dx
	v.OffsetY += dy
}

func (v *Viewport) SetOffset(x, y float64) {
	v.OffsetX = x
	v.OffsetY = y
}

// ZoomAt scales by one step in direction dir (positive zooms in) while
// keeping the logical point under (ax, ay) fixed on the surface. It
// reports false when the clamped scale equals the current one.
func (v *Viewport) ZoomAt(ax, ay float64, dir int) bool {
	if dir == 0 {
		return false
	}
	d := 1.0
	if dir < 0 {
		d = -1
	}
	next := clamp(v.Scale*(1+d*v.limits.Step), v.limits.MinScale, v.limits.MaxScale)
	if next == v.Scale {
		return false
	}
	anchor := v.ToLogical(ax, ay)
	v.OffsetX -= anchor.X * (next - v.Scale)
	v.OffsetY -= anchor.Y * (next - v.Scale)
	v.Scale = next
	return true
}

// Matrix returns the logical-to-surface transform.
func (v *Viewport) Matrix() geom.Affine {
	return geom.Scale(v.Scale).Then(geom.Translate(v.OffsetX, v.OffsetY))
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
