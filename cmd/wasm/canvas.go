//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/inamate/shapedit/backend-go/internal/render"
)

// canvasSurface paints onto a browser CanvasRenderingContext2D.
type canvasSurface struct {
	ctx           js.Value
	width, height float64
}

func newCanvasSurface(ctx js.Value) *canvasSurface {
	c := &canvasSurface{ctx: ctx}
	el := ctx.Get("canvas")
	c.width = el.Get("width").Float()
	c.height = el.Get("height").Float()
	return c
}

func (c *canvasSurface) resize(w, h float64) {
	el := c.ctx.Get("canvas")
	el.Set("width", w)
	el.Set("height", h)
	c.width, c.height = w, h
}

func (c *canvasSurface) Clear() {
	c.ctx.Call("setTransform", 1, 0, 0, 1, 0, 0)
	c.ctx.Call("clearRect", 0, 0, c.width, c.height)
}

func (c *canvasSurface) Push()                  { c.ctx.Call("save") }
func (c *canvasSurface) Pop()                   { c.ctx.Call("restore") }
func (c *canvasSurface) Translate(x, y float64) { c.ctx.Call("translate", x, y) }
func (c *canvasSurface) Scale(s float64)        { c.ctx.Call("scale", s, s) }
func (c *canvasSurface) BeginPath()             { c.ctx.Call("beginPath") }
func (c *canvasSurface) MoveTo(x, y float64)    { c.ctx.Call("moveTo", x, y) }
func (c *canvasSurface) LineTo(x, y float64)    { c.ctx.Call("lineTo", x, y) }
func (c *canvasSurface) ClosePath()             { c.ctx.Call("closePath") }
func (c *canvasSurface) Fill()                  { c.ctx.Call("fill") }
func (c *canvasSurface) Stroke()                { c.ctx.Call("stroke") }

func (c *canvasSurface) Arc(cx, cy, r, start, end float64) {
	x, y := render.ArcStart(cx, cy, r, start)
	c.ctx.Call("moveTo", x, y)
	c.ctx.Call("arc", cx, cy, r, start, end)
}

func (c *canvasSurface) SetFillColor(col string)   { c.ctx.Set("fillStyle", col) }
func (c *canvasSurface) SetStrokeColor(col string) { c.ctx.Set("strokeStyle", col) }
func (c *canvasSurface) SetLineWidth(w float64)    { c.ctx.Set("lineWidth", w) }

func (c *canvasSurface) SetDash(pattern []float64) {
	arr := make([]any, len(pattern))
	for i, v := range pattern {
		arr[i] = v
	}
	c.ctx.Call("setLineDash", js.ValueOf(arr))
}

func (c *canvasSurface) FillRect(x, y, w, h float64) {
	c.ctx.Call("fillRect", x, y, w, h)
}
