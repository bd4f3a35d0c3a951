package engine

import (
	"encoding/json"
	"slices"
	"testing"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/geom"
	"github.com/inamate/shapedit/backend-go/internal/render"
	"github.com/inamate/shapedit/backend-go/internal/scene"
)

// newTestEngine returns an engine whose surface and logical coordinates
// coincide (offset 0, scale 1).
func newTestEngine() *Engine {
	return NewEngine(DefaultOptions())
}

func click(e *Engine, x, y float64) {
	e.PointerDown(PointerEvent{Button: ButtonPrimary, X: x, Y: y})
	e.PointerUp(PointerEvent{Button: ButtonPrimary, X: x, Y: y})
}

func TestDrawClosedShapeScenario(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolDrawClosedShape)

	click(e, 0, 0)
	click(e, 100, 0)
	click(e, 100, 100)
	e.PointerDown(PointerEvent{Button: ButtonSecondary, X: 100, Y: 100})

	shapes := e.Shapes()
	if len(shapes) != 1 {
		t.Fatalf("len(Shapes()) = %d, want 1", len(shapes))
	}
	want := []geom.Vertex{{X: 0, Y: 0}, {X: 100, Y: 0}, {X: 100, Y: 100}}
	if !slices.Equal(shapes[0].Vertices, want) {
		t.Errorf("Vertices = %v, want %v", shapes[0].Vertices, want)
	}
	if !shapes[0].IsClosed {
		t.Error("IsClosed = false, want true")
	}
	if c := e.Construction(); c.Start != nil || c.Current != nil {
		t.Errorf("Construction() = %+v after abort, want empty", c)
	}
	if e.SelectedID() != shapes[0].ID {
		t.Error("secondary click changed the selection")
	}
	if e.Tool() != ToolDrawClosedShape {
		t.Errorf("Tool() = %q after abort", e.Tool())
	}
}

func TestRemovingShapeEndsConstruction(t *testing.T) {
	tests := []struct {
		name   string
		remove func(e *Engine, id string)
	}{
		{"RemoveShape", func(e *Engine, id string) { e.RemoveShape(id) }},
		{"shape.remove op", func(e *Engine, id string) {
			e.Apply(scene.Operation{Type: scene.OpShapeRemove, ShapeID: id})
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			e.SetTool(ToolDrawPolyline)
			click(e, 0, 0)
			click(e, 100, 0)

			tt.remove(e, e.SelectedID())
			e.PointerMove(PointerEvent{X: 50, Y: 50})

			if len(e.Shapes()) != 0 {
				t.Fatalf("len(Shapes()) = %d, want 0", len(e.Shapes()))
			}
			if e.Gesture() != GestureIdle {
				t.Errorf("Gesture() = %v, want idle", e.Gesture())
			}
			if c := e.Construction(); c.Start != nil || c.Current != nil {
				t.Errorf("Construction() = %+v, want empty", c)
			}

			click(e, 10, 10)
			if len(e.Shapes()) != 1 || len(e.Shapes()[0].Vertices) != 1 {
				t.Errorf("next click did not seed a new shape: %+v", e.Shapes())
			}
		})
	}
}

func TestSelectUnknownKeepsConstruction(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolDrawPolyline)
	click(e, 0, 0)
	click(e, 100, 0)
	id := e.SelectedID()

	if e.SetSelection("shape_ghost") {
		t.Error("SetSelection(unknown) = true, want false")
	}
	if e.SelectedID() != id || e.Gesture() != GestureConstructing {
		t.Errorf("selection %q gesture %v, want %q constructing", e.SelectedID(), e.Gesture(), id)
	}
}

func TestPolylineIsOpenAndStyled(t *testing.T) {
	e := newTestEngine()
	e.SetStrokeColor("#336699")
	e.SetLineWidth(4)
	e.SetTool(ToolDrawPolyline)

	click(e, 0, 0)
	e.PointerMove(PointerEvent{X: 30, Y: 40})
	if c := e.Construction(); c.Current == nil || *c.Current != (geom.Vertex{X: 30, Y: 40}) {
		t.Errorf("Construction().Current = %v, want (30, 40)", c.Current)
	}
	click(e, 30, 40)

	sh := e.Shapes()[0]
	if sh.IsClosed {
		t.Error("polyline is closed")
	}
	if !sh.Styles.HasBorder || sh.Styles.BorderColor != "#336699" || sh.Styles.StrokeWidth() != 4 {
		t.Errorf("Styles = %+v, want the drawing settings", sh.Styles)
	}
	if sh.Styles.HasFill {
		t.Error("HasFill = true with no fill color set")
	}
}

func TestPointerUpKeepsConstruction(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolDrawPolyline)
	click(e, 5, 5)
	c := e.Construction()
	if e.Gesture() != GestureConstructing || c.Start == nil || *c.Start != (geom.Vertex{X: 5, Y: 5}) {
		t.Errorf("after click: gesture %v, cursor %+v", e.Gesture(), c)
	}
}

func TestEscapeVersusSecondary(t *testing.T) {
	tests := []struct {
		name          string
		abort         func(e *Engine)
		wantSelection bool
	}{
		{"secondary", func(e *Engine) { e.PointerDown(PointerEvent{Button: ButtonSecondary}) }, true},
		{"escape", func(e *Engine) { e.KeyDown(KeyEvent{Key: "Escape"}) }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine()
			e.SetTool(ToolDrawPolyline)
			click(e, 0, 0)
			click(e, 10, 0)
			e.PointerMove(PointerEvent{X: 20, Y: 0})

			tt.abort(e)

			if e.Construction().Start != nil {
				t.Error("construction still pending")
			}
			if got := e.SelectedID() != ""; got != tt.wantSelection {
				t.Errorf("selection kept = %v, want %v", got, tt.wantSelection)
			}
			if len(e.Shapes()) != 1 || len(e.Shapes()[0].Vertices) != 2 {
				t.Errorf("committed vertices lost: %+v", e.Shapes())
			}
			if e.Tool() != ToolDrawPolyline {
				t.Errorf("Tool() = %q", e.Tool())
			}
		})
	}
}

func TestAbortDropsSeedOnlyShape(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolDrawPolyline)
	click(e, 0, 0)
	e.PointerDown(PointerEvent{Button: ButtonSecondary})
	if n := len(e.Shapes()); n != 0 {
		t.Errorf("len(Shapes()) = %d after aborting a single-vertex seed, want 0", n)
	}
}

func TestMoveToolOverlap(t *testing.T) {
	e := newTestEngine()
	a := e.AddShape(document.NewRect(0, 0, 100, 100, document.Style{HasFill: true}))
	b := e.AddShape(document.NewRect(0, 0, 100, 100, document.Style{HasFill: true}))
	e.SetTool(ToolMove)

	e.PointerDown(PointerEvent{Button: ButtonPrimary, X: 50, Y: 50})
	if e.SelectedID() != b.ID {
		t.Fatalf("SelectedID() = %q, want top-most %q", e.SelectedID(), b.ID)
	}
	e.PointerMove(PointerEvent{X: 55, Y: 47})
	e.PointerMove(PointerEvent{X: 62, Y: 44})
	e.PointerUp(PointerEvent{X: 62, Y: 44})

	gotB, _ := e.Shape(b.ID)
	for i, v := range gotB.Vertices {
		want := b.Vertices[i].Add(12, -6)
		if v != want {
			t.Errorf("B vertex %d = %v, want %v", i, v, want)
		}
	}
	gotA, _ := e.Shape(a.ID)
	if gotA != a {
		t.Error("A was replaced")
	}
}

func TestMoveToolMiss(t *testing.T) {
	e := newTestEngine()
	sh := e.AddShape(document.NewRect(0, 0, 10, 10, document.Style{}))
	e.SetTool(ToolMove)
	e.PointerDown(PointerEvent{Button: ButtonPrimary, X: 500, Y: 500})
	if e.Gesture() != GestureIdle || e.SelectedID() != sh.ID {
		t.Errorf("miss: gesture %v selection %q", e.Gesture(), e.SelectedID())
	}
}

func TestSelectToolPans(t *testing.T) {
	e := newTestEngine()
	e.Layout(800, 600)

	e.PointerDown(PointerEvent{Button: ButtonPrimary, X: 410, Y: 300})
	e.PointerMove(PointerEvent{X: 450, Y: 320})
	if v := e.Viewport(); v.OffsetX != 440 || v.OffsetY != 320 {
		t.Errorf("offset = (%v, %v), want (440, 320)", v.OffsetX, v.OffsetY)
	}
	e.PointerLeave(PointerEvent{X: 450, Y: 320})
	if e.Gesture() != GestureIdle {
		t.Errorf("Gesture() = %v after leave, want idle", e.Gesture())
	}
	e.PointerMove(PointerEvent{X: 0, Y: 0})
	if v := e.Viewport(); v.OffsetX != 440 {
		t.Error("offset changed after the pan ended")
	}
}

func TestVertexDrag(t *testing.T) {
	e := newTestEngine()
	sh := e.AddShape(nil)
	e.ToggleVertexEdit()
	before := e.History().Cursor()

	// (50, 50) is vertex 1 of the default square; 3 units away is inside the radius.
	e.PointerDown(PointerEvent{Button: ButtonPrimary, X: 53, Y: 50})
	if e.Gesture() != GestureMovingVertex {
		t.Fatalf("Gesture() = %v, want movingVertex", e.Gesture())
	}
	if f := e.Frame(); f.ActiveVertex != 1 {
		t.Errorf("Frame().ActiveVertex = %d, want 1", f.ActiveVertex)
	}
	e.PointerMove(PointerEvent{X: 80, Y: 90})
	e.PointerUp(PointerEvent{X: 80, Y: 90})

	got, _ := e.Shape(sh.ID)
	if got.Vertices[1] != (geom.Vertex{X: 80, Y: 90}) {
		t.Errorf("vertex 1 = %v, want (80, 90)", got.Vertices[1])
	}
	if e.History().Cursor() != before+1 {
		t.Errorf("history cursor = %d, want %d", e.History().Cursor(), before+1)
	}
	if e.Frame().ActiveVertex != -1 {
		t.Error("vertex still active after pointer up")
	}

	e.PointerDown(PointerEvent{Button: ButtonPrimary, X: 300, Y: 300})
	if e.Gesture() == GestureMovingVertex {
		t.Error("grabbed a vertex outside the hit radius")
	}
}

func TestUndoStepsBack(t *testing.T) {
	for n := 1; n <= 5; n++ {
		e := newTestEngine()
		sh := e.AddShape(nil)

		var states [][]*document.Shape
		for i := 0; i < n; i++ {
			e.AddVertex(sh.ID, &geom.Vertex{X: float64(i), Y: 1})
			states = append(states, e.Shapes())
		}

		if !e.Undo() {
			t.Fatalf("n=%d: Undo() = false", n)
		}
		want := e.Shapes()
		if n > 1 {
			if !slices.Equal(want, states[n-2]) {
				t.Errorf("n=%d: Undo restored %v, want the state after mutation %d", n, want, n-1)
			}
		} else if len(want) != 1 || len(want[0].Vertices) != 4 {
			t.Errorf("n=1: Undo restored %+v, want the freshly added square", want)
		}
	}
}

func TestUndoAtStartIsNoop(t *testing.T) {
	e := newTestEngine()
	if e.Undo() {
		t.Error("Undo() on fresh engine = true")
	}
	e.SetLineWidth(7)
	e.Undo()
	if e.Undo() {
		t.Error("second Undo() = true, want false at history start")
	}
	if e.Settings().LineWidth != 2 {
		t.Errorf("LineWidth = %v after undo, want 2", e.Settings().LineWidth)
	}
}

func TestUndoRestoresToolAndMode(t *testing.T) {
	e := newTestEngine()
	e.SetTool(ToolMove)
	e.ToggleVertexEdit()
	e.KeyDown(KeyEvent{Key: "z", Ctrl: true})
	if e.VertexEdit() || e.Tool() != ToolMove {
		t.Errorf("after undo: vertexEdit %v tool %q", e.VertexEdit(), e.Tool())
	}
	e.Undo()
	if e.Tool() != ToolSelect {
		t.Errorf("Tool() = %q, want select", e.Tool())
	}
}

func TestUndoDiscardsRedoBranch(t *testing.T) {
	e := newTestEngine()
	sh := e.AddShape(nil)
	e.RemoveVertex(sh.ID, 0)
	e.Undo()
	e.ToggleStyle(sh.ID, scene.FlagBorder)

	if e.History().Len() != e.History().Cursor()+1 {
		t.Errorf("history len %d cursor %d: undone entry kept", e.History().Len(), e.History().Cursor())
	}
	got, _ := e.Shape(sh.ID)
	if len(got.Vertices) != 4 || !got.Styles.HasBorder {
		t.Errorf("shape = %+v", got)
	}
}

func TestNoOpsAreNotRecorded(t *testing.T) {
	e := newTestEngine()
	sh := e.AddShape(nil)
	c := e.History().Cursor()

	e.UpdateVertex(sh.ID, 0, scene.AxisX, "abc")
	e.RemoveShape("missing")
	e.Reorder(sh.ID, scene.Up)
	e.SetSelection("")

	if e.History().Cursor() != c {
		t.Errorf("history cursor moved from %d to %d on no-ops", c, e.History().Cursor())
	}
}

func TestApplyThroughEngine(t *testing.T) {
	e := newTestEngine()
	sh := e.AddShape(nil)
	c := e.History().Cursor()

	changed, err := e.Apply(scene.Operation{
		Type:    scene.OpVertexUpdate,
		ShapeID: sh.ID,
		Payload: json.RawMessage(`{"index":0,"axis":"x","value":"-12"}`),
	})
	if err != nil || !changed {
		t.Fatalf("Apply = %v, %v", changed, err)
	}
	got, _ := e.Shape(sh.ID)
	if got.Vertices[0].X != -12 {
		t.Errorf("x = %v, want -12", got.Vertices[0].X)
	}
	if e.History().Cursor() != c+1 {
		t.Error("Apply was not recorded")
	}

	if _, err := e.Apply(scene.Operation{Type: "bogus"}); err == nil {
		t.Error("Apply(bogus) error = nil")
	}
}

func TestWheelZoomsAroundPointer(t *testing.T) {
	e := newTestEngine()
	e.Layout(800, 600)
	v0 := e.Viewport()
	before := v0.ToLogical(100, 100)

	if !e.Wheel(WheelEvent{X: 100, Y: 100, DeltaY: -120}) {
		t.Fatal("Wheel(up) = false")
	}
	v := e.Viewport()
	if v.Scale <= 1 {
		t.Errorf("Scale = %v after scrolling up, want > 1", v.Scale)
	}
	after := v.ToSurface(before.X, before.Y)
	if d := geom.Distance(after, geom.Vertex{X: 100, Y: 100}); d > 1e-9 {
		t.Errorf("anchor drifted by %v", d)
	}
	if e.Wheel(WheelEvent{X: 1, Y: 1}) {
		t.Error("Wheel with zero delta = true")
	}
}

func TestTickCachesUnchangedFrame(t *testing.T) {
	e := newTestEngine()
	e.AddShape(nil)

	first := e.Tick()
	if e.Dirty() {
		t.Error("Dirty() = true after Tick")
	}
	if second := e.Tick(); second != first {
		t.Error("Tick changed with unchanged state")
	}

	var cmds []render.DrawCommand
	if err := json.Unmarshal([]byte(first), &cmds); err != nil {
		t.Fatalf("Tick() is not JSON: %v", err)
	}
	if len(cmds) == 0 || cmds[0].Op != "clearRect" {
		t.Errorf("Tick() commands start with %+v", cmds)
	}

	e.Wheel(WheelEvent{DeltaY: 1})
	if e.Tick() == first {
		t.Error("Tick did not change after zoom")
	}
}

func TestLoadShapesStartsFreshHistory(t *testing.T) {
	e := newTestEngine()
	e.AddShape(nil)
	e.LoadShapes(document.SampleShapes())

	if len(e.Shapes()) != 4 {
		t.Errorf("len(Shapes()) = %d, want 4", len(e.Shapes()))
	}
	if e.Undo() {
		t.Error("Undo() after LoadShapes = true")
	}
}
