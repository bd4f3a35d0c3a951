package render

import (
	"bytes"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/geom"
	"github.com/inamate/shapedit/backend-go/internal/scene"
	"github.com/inamate/shapedit/backend-go/internal/viewport"
)

func ops(cmds []DrawCommand) []string {
	out := make([]string, len(cmds))
	for i, c := range cmds {
		out[i] = c.Op
	}
	return out
}

func countOp(cmds []DrawCommand, op string) int {
	n := 0
	for _, c := range cmds {
		if c.Op == op {
			n++
		}
	}
	return n
}

func view(ox, oy, scale float64) viewport.Viewport {
	v := viewport.New(viewport.DefaultLimits())
	v.SetOffset(ox, oy)
	v.Scale = scale
	return *v
}

func TestPaintTransformAndShape(t *testing.T) {
	sq := document.DefaultSquare()
	sq.Styles.HasBorder = true
	sq.Styles.BorderWidth = document.Float(3)

	rec := NewRecorder()
	Paint(rec, Frame{Shapes: []*document.Shape{sq}, View: view(400, 300, 2), ActiveVertex: -1})
	cmds := rec.Commands()

	want := []string{
		"clearRect", "save", "translate", "scale",
		"beginPath", "moveTo", "lineTo", "lineTo", "lineTo", "closePath",
		"fillStyle", "fill",
		"strokeStyle", "lineWidth", "setLineDash", "stroke",
		"restore",
	}
	if got := ops(cmds); !slices.Equal(got, want) {
		t.Fatalf("Paint ops =\n%v\nwant\n%v", got, want)
	}
	if !slices.Equal(cmds[2].Args, []float64{400, 300}) || !slices.Equal(cmds[3].Args, []float64{2, 2}) {
		t.Errorf("transform = %v %v", cmds[2].Args, cmds[3].Args)
	}
	if !slices.Equal(cmds[5].Args, []float64{-50, 50}) {
		t.Errorf("first vertex drawn at %v, want logical (-50, 50)", cmds[5].Args)
	}
	if cmds[12].Color != DefaultColor {
		t.Errorf("unset border color painted as %q, want %q", cmds[12].Color, DefaultColor)
	}
}

func TestPaintSkips(t *testing.T) {
	seed := document.NewPath([]geom.Vertex{{X: 1, Y: 1}}, true, document.Style{HasFill: true})
	noWidth := document.NewLine(geom.Vertex{}, geom.Vertex{X: 5}, document.Style{HasBorder: true})
	open := document.NewLine(geom.Vertex{}, geom.Vertex{X: 5}, document.Style{HasBorder: true, BorderWidth: document.Float(1)})

	rec := NewRecorder()
	Paint(rec, Frame{Shapes: []*document.Shape{seed, noWidth, open}, View: view(0, 0, 1), ActiveVertex: -1})
	cmds := rec.Commands()

	if n := countOp(cmds, "beginPath"); n != 1 {
		t.Errorf("beginPath count = %d, want 1 (only the stroked line)", n)
	}
	if n := countOp(cmds, "closePath"); n != 0 {
		t.Errorf("open line was closed")
	}
	if n := countOp(cmds, "fill"); n != 0 {
		t.Errorf("fill count = %d, want 0", n)
	}
}

func TestPaintConstructionPreview(t *testing.T) {
	rec := NewRecorder()
	start := geom.Vertex{X: 0, Y: 0}
	cur := geom.Vertex{X: 10, Y: 20}
	Paint(rec, Frame{
		Construction: scene.Cursor{Start: &start, Current: &cur},
		View:         view(0, 0, 4),
		ActiveVertex: -1,
	})
	cmds := rec.Commands()

	i := slices.IndexFunc(cmds, func(c DrawCommand) bool { return c.Op == "strokeStyle" })
	if i < 0 || cmds[i].Color != ConstructionColor {
		t.Fatalf("construction stroke color missing: %v", ops(cmds))
	}
	if lw := cmds[i+1]; lw.Op != "lineWidth" || lw.Args[0] != 0.5 {
		t.Errorf("construction width = %+v, want 2/scale = 0.5", lw)
	}

	rec.Reset()
	Paint(rec, Frame{Construction: scene.Cursor{Start: &start}, View: view(0, 0, 1), ActiveVertex: -1})
	if countOp(rec.Commands(), "stroke") != 0 {
		t.Error("preview painted without a current point")
	}
}

func TestPaintSelection(t *testing.T) {
	sq := document.DefaultSquare()
	sq.ID = "a"

	rec := NewRecorder()
	Paint(rec, Frame{Shapes: []*document.Shape{sq}, Selected: "a", View: view(0, 0, 1), ActiveVertex: 2})
	cmds := rec.Commands()

	var dashed bool
	for _, c := range cmds {
		if c.Op == "setLineDash" && len(c.Args) == 2 {
			dashed = true
		}
	}
	if !dashed {
		t.Error("selection outline is not dashed")
	}
	if n := countOp(cmds, "fillRect"); n != 4 {
		t.Errorf("handle count = %d, want 4", n)
	}

	var colors []string
	for i, c := range cmds {
		if c.Op == "fillRect" {
			colors = append(colors, cmds[i-1].Color)
		}
	}
	want := []string{HandleColor, HandleColor, ActiveHandleColor, HandleColor}
	if !slices.Equal(colors, want) {
		t.Errorf("handle colors = %v, want %v", colors, want)
	}

	rec.Reset()
	Paint(rec, Frame{Shapes: []*document.Shape{sq}, Selected: "gone", View: view(0, 0, 1), ActiveVertex: -1})
	if countOp(rec.Commands(), "fillRect") != 0 {
		t.Error("stale selection was decorated")
	}
}

func TestPaintDoesNotMutate(t *testing.T) {
	sq := document.DefaultSquare()
	before := sq.Clone()
	Paint(NewRecorder(), Frame{Shapes: []*document.Shape{sq}, Selected: sq.ID, View: view(3, 3, 2), ActiveVertex: -1})
	if !slices.Equal(sq.Vertices, before.Vertices) || sq.Styles.HasFill != before.Styles.HasFill {
		t.Error("Paint modified a shape")
	}
}

func TestRecorderArcStartsAtStartAngle(t *testing.T) {
	tests := []struct {
		name  string
		start float64
		x, y  float64
	}{
		{"zero", 0, 15, 20},
		{"quarter", math.Pi / 2, 10, 25},
		{"half", math.Pi, 5, 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder()
			r.Arc(10, 20, 5, tt.start, tt.start+1)
			cmds := r.Commands()
			if len(cmds) != 2 || cmds[0].Op != "moveTo" || cmds[1].Op != "arc" {
				t.Fatalf("Arc commands = %+v", cmds)
			}
			if x, y := cmds[0].Args[0], cmds[0].Args[1]; math.Abs(x-tt.x) > 1e-9 || math.Abs(y-tt.y) > 1e-9 {
				t.Errorf("moveTo(%v, %v), want (%v, %v)", x, y, tt.x, tt.y)
			}
		})
	}
}

func TestRasterPaintsFill(t *testing.T) {
	r := NewRaster(100, 100)
	defer r.Close()

	sq := document.NewRect(-20, -20, 40, 40, document.Style{HasFill: true, FillColor: "#ff0000"})
	Paint(r, Frame{Shapes: []*document.Shape{sq}, View: view(50, 50, 1), ActiveVertex: -1})
	if err := r.Err(); err != nil {
		t.Fatalf("Err() = %v", err)
	}

	img := r.Image()
	if got := color.NRGBAModel.Convert(img.At(50, 50)).(color.NRGBA); got != (color.NRGBA{R: 255, A: 255}) {
		t.Errorf("centre pixel = %v, want red", got)
	}
	if got := color.NRGBAModel.Convert(img.At(5, 5)).(color.NRGBA); got != (color.NRGBA{R: 255, G: 255, B: 255, A: 255}) {
		t.Errorf("corner pixel = %v, want white background", got)
	}

	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Error("EncodePNG did not write a PNG header")
	}
}

func TestRasterBackground(t *testing.T) {
	r := NewRaster(20, 20)
	defer r.Close()
	r.SetBackground("#00ff00")

	Paint(r, Frame{View: view(10, 10, 1), ActiveVertex: -1})
	got := color.NRGBAModel.Convert(r.Image().At(3, 3)).(color.NRGBA)
	if got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("pixel = %v, want green background", got)
	}
}

func TestPDFOutput(t *testing.T) {
	p := NewPDF(200, 200)
	shapes := document.SampleShapes()
	Paint(p, Frame{Shapes: shapes, Selected: shapes[0].ID, View: view(100, 100, 0.5), ActiveVertex: -1})

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		t.Fatalf("Output() = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Errorf("Output() does not start with %%PDF: %q", buf.Bytes()[:8])
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#ff0000", color.NRGBA{R: 255, A: 255}, true},
		{"#0f0", color.NRGBA{G: 255, A: 255}, true},
		{"red", color.NRGBA{R: 255, A: 255}, true},
		{"Gray", color.NRGBA{R: 128, G: 128, B: 128, A: 255}, true},
		{"#12345", color.NRGBA{}, false},
		{"#gggggg", color.NRGBA{}, false},
		{"chartreuse-ish", color.NRGBA{}, false},
		{"", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseColor(tt.in)
			if ok != tt.ok || got != tt.want {
				t.Errorf("ParseColor(%q) = %v, %v, want %v, %v", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
