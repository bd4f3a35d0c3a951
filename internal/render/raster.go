package render

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/gogpu/gg"
)

// Raster is a Surface backed by a gg software rasteriser.
//
// gg keeps a single brush for fill and stroke, so the colors are held here
// and applied right before each paint call. Paint errors are sticky: the
// first one is kept and reported by Err.
type Raster struct {
	ctx        *gg.Context
	background gg.RGBA
	fill       color.Color
	stroke     color.Color
	err        error
}

// NewRaster creates a width x height raster cleared to white.
func NewRaster(width, height int) *Raster {
	r := &Raster{
		ctx:        gg.NewContext(width, height),
		background: gg.RGBA{R: 1, G: 1, B: 1, A: 1},
		fill:       color.Black,
		stroke:     color.Black,
	}
	r.Clear()
	return r
}

// SetBackground sets the color Clear paints with.
func (r *Raster) SetBackground(c string) {
	r.background = gg.FromColor(mustColor(c))
}

func (r *Raster) Clear() {
	r.ctx.ClearWithColor(r.background)
}

func (r *Raster) Push() { r.ctx.Push() }
func (r *Raster) Pop()  { r.ctx.Pop() }

func (r *Raster) Translate(x, y float64) { r.ctx.Translate(x, y) }
func (r *Raster) Scale(s float64)        { r.ctx.Scale(s, s) }

func (r *Raster) BeginPath()          { r.ctx.ClearPath() }
func (r *Raster) MoveTo(x, y float64) { r.ctx.MoveTo(x, y) }
func (r *Raster) LineTo(x, y float64) { r.ctx.LineTo(x, y) }
func (r *Raster) ClosePath()          { r.ctx.ClosePath() }

func (r *Raster) Arc(cx, cy, rad, start, end float64) {
	// DrawArc places the radius in device space, so arcs are built from
	// transformed primitives instead.
	if fullTurn(start, end) {
		r.ctx.DrawCircle(cx, cy, rad)
		return
	}
	for i, p := range arcPoints(cx, cy, rad, start, end) {
		if i == 0 {
			r.ctx.MoveTo(p[0], p[1])
		} else {
			r.ctx.LineTo(p[0], p[1])
		}
	}
}

func (r *Raster) SetFillColor(c string)   { r.fill = mustColor(c) }
func (r *Raster) SetStrokeColor(c string) { r.stroke = mustColor(c) }
func (r *Raster) SetLineWidth(w float64)  { r.ctx.SetLineWidth(w) }

func (r *Raster) SetDash(pattern []float64) {
	if len(pattern) == 0 {
		r.ctx.ClearDash()
		return
	}
	r.ctx.SetDash(pattern...)
}

func (r *Raster) Fill() {
	r.ctx.SetColor(r.fill)
	r.record(r.ctx.FillPreserve(), "fill")
}

func (r *Raster) Stroke() {
	r.ctx.SetColor(r.stroke)
	r.record(r.ctx.StrokePreserve(), "stroke")
}

func (r *Raster) FillRect(x, y, w, h float64) {
	r.ctx.ClearPath()
	r.ctx.DrawRectangle(x, y, w, h)
	r.ctx.SetColor(r.fill)
	r.record(r.ctx.Fill(), "fill rect")
}

func (r *Raster) record(err error, what string) {
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("%s: %w", what, err)
	}
}

// Err returns the first paint error, if any.
func (r *Raster) Err() error {
	return r.err
}

// Image returns the rendered pixels.
func (r *Raster) Image() image.Image {
	return r.ctx.Image()
}

// EncodePNG writes the raster as PNG.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.err != nil {
		return r.err
	}
	if err := r.ctx.EncodePNG(w); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// Close releases the underlying context.
func (r *Raster) Close() error {
	return r.ctx.Close()
}
