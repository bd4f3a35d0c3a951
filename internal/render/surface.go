package render

import "math"

// Surface is a 2D immediate-mode drawing context with Canvas2D semantics.
//
// Coordinates passed to path and rectangle methods are transformed by the
// current Translate/Scale state, including line widths and dash lengths.
// Fill and Stroke paint the current path without consuming it; BeginPath
// discards it. FillRect leaves the current path undefined.
//
// Colors are hex strings ("#rgb", "#rrggbb") or CSS color names.
type Surface interface {
	// Clear erases the whole surface.
	Clear()
	Push()
	Pop()
	Translate(x, y float64)
	Scale(s float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	// Arc starts a new subpath tracing a circular arc clockwise from angle
	// start to end, in radians.
	Arc(cx, cy, r, start, end float64)
	ClosePath()

	SetFillColor(c string)
	SetStrokeColor(c string)
	SetLineWidth(w float64)
	// SetDash sets the dash pattern; nil or empty means solid.
	SetDash(pattern []float64)

	Fill()
	Stroke()
	FillRect(x, y, w, h float64)
}

// ArcStart returns the point where an arc of radius r about (cx, cy)
// begins at angle start.
func ArcStart(cx, cy, r, start float64) (float64, float64) {
	return cx + r*math.Cos(start), cy + r*math.Sin(start)
}

const arcSegments = 64

// fullTurn reports whether the arc covers the whole circle.
func fullTurn(start, end float64) bool {
	return end-start >= 2*math.Pi-1e-9
}

// arcPoints flattens an arc into line segments for surfaces without a
// native arc primitive.
func arcPoints(cx, cy, r, start, end float64) [][2]float64 {
	for end < start {
		end += 2 * math.Pi
	}
	n := int(math.Ceil(arcSegments * (end - start) / (2 * math.Pi)))
	if n < 1 {
		n = 1
	}
	pts := make([][2]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		a := start + (end-start)*float64(i)/float64(n)
		pts = append(pts, [2]float64{cx + r*math.Cos(a), cy + r*math.Sin(a)})
	}
	return pts
}
