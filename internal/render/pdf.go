package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/jung-kurt/gofpdf"
)

type segKind int

const (
	segMove segKind = iota
	segLine
	segClose
)

type segment struct {
	kind segKind
	x, y float64
}

// PDF is a Surface that writes a single-page vector PDF, one point per
// surface unit.
//
// gofpdf consumes its path on every paint call, so the current path is
// kept here and replayed for each Fill and Stroke.
type PDF struct {
	doc           *gofpdf.Fpdf
	width, height float64

	path      []segment
	fill      color.NRGBA
	stroke    color.NRGBA
	lineWidth float64
	dash      []float64
}

// NewPDF creates a width x height point page.
func NewPDF(width, height float64) *PDF {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "pt",
		Size:    gofpdf.SizeType{Wd: width, Ht: height},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	doc.AddPage()
	return &PDF{
		doc:       doc,
		width:     width,
		height:    height,
		fill:      color.NRGBA{A: 0xff},
		stroke:    color.NRGBA{A: 0xff},
		lineWidth: 1,
	}
}

func (p *PDF) Clear() {
	p.doc.SetFillColor(255, 255, 255)
	p.doc.Rect(0, 0, p.width, p.height, "F")
}

func (p *PDF) Push() { p.doc.TransformBegin() }
func (p *PDF) Pop()  { p.doc.TransformEnd() }

func (p *PDF) Translate(x, y float64) { p.doc.TransformTranslate(x, y) }

func (p *PDF) Scale(s float64) { p.doc.TransformScale(s*100, s*100, 0, 0) }

func (p *PDF) BeginPath() { p.path = p.path[:0] }

func (p *PDF) MoveTo(x, y float64) { p.path = append(p.path, segment{kind: segMove, x: x, y: y}) }
func (p *PDF) LineTo(x, y float64) { p.path = append(p.path, segment{kind: segLine, x: x, y: y}) }
func (p *PDF) ClosePath()          { p.path = append(p.path, segment{kind: segClose}) }

func (p *PDF) Arc(cx, cy, r, start, end float64) {
	pts := arcPoints(cx, cy, r, start, end)
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt[0], pt[1])
		} else {
			p.LineTo(pt[0], pt[1])
		}
	}
	if fullTurn(start, end) {
		p.ClosePath()
	}
}

func (p *PDF) SetFillColor(c string)     { p.fill = mustColor(c) }
func (p *PDF) SetStrokeColor(c string)   { p.stroke = mustColor(c) }
func (p *PDF) SetLineWidth(w float64)    { p.lineWidth = w }
func (p *PDF) SetDash(pattern []float64) { p.dash = append(p.dash[:0], pattern...) }

func (p *PDF) Fill() {
	if !p.replay() {
		return
	}
	p.doc.SetFillColor(int(p.fill.R), int(p.fill.G), int(p.fill.B))
	p.doc.DrawPath("F")
}

func (p *PDF) Stroke() {
	if !p.replay() {
		return
	}
	p.doc.SetDrawColor(int(p.stroke.R), int(p.stroke.G), int(p.stroke.B))
	p.doc.SetLineWidth(p.lineWidth)
	p.doc.SetDashPattern(p.dash, 0)
	p.doc.DrawPath("D")
}

func (p *PDF) FillRect(x, y, w, h float64) {
	p.doc.SetFillColor(int(p.fill.R), int(p.fill.G), int(p.fill.B))
	p.doc.Rect(x, y, w, h, "F")
}

func (p *PDF) replay() bool {
	if len(p.path) == 0 {
		return false
	}
	for _, s := range p.path {
		switch s.kind {
		case segMove:
			p.doc.MoveTo(s.x, s.y)
		case segLine:
			p.doc.LineTo(s.x, s.y)
		case segClose:
			p.doc.ClosePath()
		}
	}
	return true
}

// Err returns the document's error state.
func (p *PDF) Err() error {
	return p.doc.Error()
}

// Output writes the finished document.
func (p *PDF) Output(w io.Writer) error {
	if err := p.doc.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
