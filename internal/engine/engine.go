package engine

import (
	"encoding/json"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/geom"
	"github.com/inamate/shapedit/backend-go/internal/render"
	"github.com/inamate/shapedit/backend-go/internal/scene"
	"github.com/inamate/shapedit/backend-go/internal/viewport"
)

// DefaultVertexHitRadius is how close, in surface units, a pointer-down
// must land to a vertex to grab it in vertex-edit mode.
const DefaultVertexHitRadius = 5.0

// Options configure a new Engine.
type Options struct {
	Limits          viewport.Limits
	VertexHitRadius float64
	Settings        Settings
}

// DefaultOptions returns the standard zoom range, hit radius and a 2 unit
// black stroke with no fill.
func DefaultOptions() Options {
	return Options{
		Limits:          viewport.DefaultLimits(),
		VertexHitRadius: DefaultVertexHitRadius,
		Settings:        Settings{StrokeColor: "#000000", LineWidth: 2},
	}
}

// Engine is the interactive editor. It owns the scene store and viewport,
// interprets input events under the current tool and gesture, records
// undo history and renders frames.
//
// An Engine is not safe for concurrent use; drive it from one goroutine
// (see Loop).
type Engine struct {
	store   *scene.Store
	view    *viewport.Viewport
	history *History

	tool       Tool
	gesture    Gesture
	settings   Settings
	vertexEdit bool
	hitRadius  float64

	// Gesture state
	panAnchor  geom.Vertex // surface pointer minus offset at pan start
	moveID     string
	lastPoint  geom.Vertex // logical pointer at the previous move event
	dragVertex int
	dragged    bool

	cursor geom.Vertex

	// version counts scene, tool and settings changes; dirty tracks
	// anything that affects the rendered frame.
	version  uint64
	dirty    bool
	recorder *render.Recorder
	lastJSON string
}

// NewEngine creates an engine with an empty scene and the Select tool.
func NewEngine(opts Options) *Engine {
	if opts.VertexHitRadius <= 0 {
		opts.VertexHitRadius = DefaultVertexHitRadius
	}
	e := &Engine{
		store:      scene.NewStore(),
		view:       viewport.New(opts.Limits),
		tool:       ToolSelect,
		settings:   opts.Settings,
		hitRadius:  opts.VertexHitRadius,
		dragVertex: -1,
		dirty:      true,
		recorder:   render.NewRecorder(),
	}
	e.history = NewHistory(e.snapshot())
	return e
}

// LoadShapes replaces the scene with shapes and starts a fresh history.
func (e *Engine) LoadShapes(shapes []*document.Shape) {
	e.store.Reset()
	for _, sh := range shapes {
		e.store.AddShape(sh)
	}
	e.store.SetSelection("")
	e.gesture = GestureIdle
	e.history = NewHistory(e.snapshot())
	e.touch()
}

func (e *Engine) snapshot() Snapshot {
	return Snapshot{
		Shapes:     e.store.Shapes(),
		Selection:  e.store.SelectedID(),
		Tool:       e.tool,
		Settings:   e.settings,
		VertexEdit: e.vertexEdit,
	}
}

// commit records a completed mutation in history.
func (e *Engine) commit() {
	e.history.Push(e.snapshot())
	e.touch()
}

func (e *Engine) touch() {
	e.version++
	e.dirty = true
}

// --- Input events ---

// PointerDown handles a button press at a surface position.
func (e *Engine) PointerDown(ev PointerEvent) {
	if ev.Button == ButtonSecondary {
		e.abortConstruction()
		return
	}
	if ev.Button != ButtonPrimary {
		return
	}

	p := e.view.ToLogical(ev.X, ev.Y)
	e.cursor = p

	if e.vertexEdit && e.gesture != GestureConstructing && e.grabVertex(p) {
		return
	}

	switch {
	case e.tool == ToolSelect:
		e.gesture = GesturePanning
		e.panAnchor = geom.Vertex{X: ev.X - e.view.OffsetX, Y: ev.Y - e.view.OffsetY}
	case e.tool == ToolMove:
		hit := e.HitTest(p)
		if hit == nil {
			return
		}
		if e.store.SetSelection(hit.ID) {
			e.touch()
		}
		e.gesture = GestureMovingShape
		e.moveID = hit.ID
		e.lastPoint = p
		e.dragged = false
	case e.tool.draws():
		e.construct(p)
	}
}

// construct seeds a new shape or commits the clicked point to the shape
// under construction.
func (e *Engine) construct(p geom.Vertex) {
	if e.store.Constructing() {
		if sel, ok := e.store.Selected(); ok {
			e.store.SetCursor(p)
			e.store.AddVertex(sel.ID, &p)
			e.store.AdvanceConstruction(p)
			e.commit()
			return
		}
	}

	w := e.settings.LineWidth
	style := document.Style{
		HasBorder:   true,
		BorderColor: e.settings.StrokeColor,
		BorderWidth: &w,
	}
	if e.settings.FillColor != "" {
		style.HasFill = true
		style.FillColor = e.settings.FillColor
	}
	e.store.AddShape(document.NewPath([]geom.Vertex{p}, e.tool == ToolDrawClosedShape, style))
	e.store.BeginConstruction(p)
	e.gesture = GestureConstructing
	e.touch()
}

// grabVertex starts a vertex drag when p is within the hit radius of a
// vertex of the selected shape.
func (e *Engine) grabVertex(p geom.Vertex) bool {
	sel, ok := e.store.Selected()
	if !ok {
		return false
	}
	i := geom.Nearest(sel.Vertices, p, e.hitRadius/e.view.Scale)
	if i < 0 {
		return false
	}
	e.gesture = GestureMovingVertex
	e.moveID = sel.ID
	e.dragVertex = i
	e.dragged = false
	e.dirty = true
	return true
}

// PointerMove handles pointer motion at a surface position.
func (e *Engine) PointerMove(ev PointerEvent) {
	p := e.view.ToLogical(ev.X, ev.Y)
	e.cursor = p

	switch e.gesture {
	case GesturePanning:
		e.view.SetOffset(ev.X-e.panAnchor.X, ev.Y-e.panAnchor.Y)
		e.dirty = true
	case GestureConstructing:
		e.store.SetCursor(p)
		e.dirty = true
	case GestureMovingShape:
		dx, dy := p.X-e.lastPoint.X, p.Y-e.lastPoint.Y
		e.lastPoint = p
		if e.store.Translate(e.moveID, dx, dy) {
			e.dragged = true
			e.touch()
		}
	case GestureMovingVertex:
		if e.store.MoveVertex(e.moveID, e.dragVertex, p) {
			e.dragged = true
			e.touch()
		}
	}
}

// PointerUp ends a pan or drag. A pending construction is unaffected.
func (e *Engine) PointerUp(ev PointerEvent) {
	switch e.gesture {
	case GesturePanning:
		e.gesture = GestureIdle
	case GestureMovingShape, GestureMovingVertex:
		if e.dragged {
			e.commit()
		}
		e.gesture = GestureIdle
		e.moveID = ""
		e.dragVertex = -1
		e.dragged = false
		e.dirty = true
	}
}

// PointerLeave is treated as PointerUp.
func (e *Engine) PointerLeave(ev PointerEvent) {
	e.PointerUp(ev)
}

// Wheel zooms one step around the pointer. It reports whether the scale
// changed.
func (e *Engine) Wheel(ev WheelEvent) bool {
	if ev.DeltaY == 0 {
		return false
	}
	dir := 1
	if ev.DeltaY > 0 {
		dir = -1
	}
	if !e.view.ZoomAt(ev.X, ev.Y, dir) {
		return false
	}
	e.dirty = true
	return true
}

// KeyDown handles Escape (abort and deselect) and Ctrl+Z (undo).
func (e *Engine) KeyDown(ev KeyEvent) {
	switch {
	case ev.Key == "Escape":
		e.abortConstruction()
		if e.store.SetSelection("") {
			e.touch()
		}
	case ev.Ctrl && (ev.Key == "z" || ev.Key == "Z"):
		e.Undo()
	}
}

// abortConstruction clears the construction cursor. Vertices already
// committed stay; a shape still holding only its seed vertex is dropped.
func (e *Engine) abortConstruction() {
	if !e.store.Constructing() {
		return
	}
	if sel, ok := e.store.Selected(); ok && len(sel.Vertices) < 2 {
		e.store.RemoveShape(sel.ID)
	}
	e.store.AbortConstruction()
	if e.gesture == GestureConstructing {
		e.gesture = GestureIdle
	}
	e.touch()
}

// Layout reports the surface size; the first call centres the origin.
func (e *Engine) Layout(width, height float64) {
	if e.view.Layout(width, height) {
		e.dirty = true
	}
}

// --- Tools and settings ---

// SetTool switches tools, abandoning any gesture in progress.
func (e *Engine) SetTool(t Tool) bool {
	if !t.Valid() || t == e.tool {
		return false
	}
	e.abortConstruction()
	e.gesture = GestureIdle
	e.dragVertex = -1
	e.tool = t
	e.commit()
	return true
}

func (e *Engine) SetStrokeColor(c string) bool {
	if c == e.settings.StrokeColor {
		return false
	}
	e.settings.StrokeColor = c
	e.commit()
	return true
}

func (e *Engine) SetFillColor(c string) bool {
	if c == e.settings.FillColor {
		return false
	}
	e.settings.FillColor = c
	e.commit()
	return true
}

func (e *Engine) SetLineWidth(w float64) bool {
	if w < 0 || w == e.settings.LineWidth {
		return false
	}
	e.settings.LineWidth = w
	e.commit()
	return true
}

// ToggleVertexEdit flips vertex-edit mode.
func (e *Engine) ToggleVertexEdit() {
	e.vertexEdit = !e.vertexEdit
	if e.gesture == GestureMovingVertex {
		e.gesture = GestureIdle
	}
	e.dragVertex = -1
	e.commit()
}

// Undo restores the previous history entry. It reports false at the start
// of history.
func (e *Engine) Undo() bool {
	s, ok := e.history.Undo()
	if !ok {
		return false
	}
	e.store.Restore(s.Shapes, s.Selection)
	e.tool = s.Tool
	e.settings = s.Settings
	e.vertexEdit = s.VertexEdit
	e.gesture = GestureIdle
	e.moveID = ""
	e.dragVertex = -1
	e.touch()
	return true
}

// --- Scene operations ---

func (e *Engine) AddShape(s *document.Shape) *document.Shape {
	e.abortConstruction()
	sh := e.store.AddShape(s)
	e.commit()
	return sh
}

func (e *Engine) RemoveShape(id string) bool {
	changed := e.store.RemoveShape(id)
	e.dropOrphanConstruction()
	return e.record(changed)
}

func (e *Engine) Reorder(id string, dir scene.Direction) bool {
	return e.record(e.store.Reorder(id, dir))
}

func (e *Engine) AddVertex(id string, v *geom.Vertex) bool {
	return e.record(e.store.AddVertex(id, v))
}

func (e *Engine) RemoveVertex(id string, index int) bool {
	return e.record(e.store.RemoveVertex(id, index))
}

func (e *Engine) UpdateVertex(id string, index int, axis scene.Axis, raw string) bool {
	return e.record(e.store.UpdateVertex(id, index, axis, raw))
}

func (e *Engine) UpdateShape(id string, u document.ShapeUpdate) bool {
	return e.record(e.store.UpdateShape(id, u))
}

func (e *Engine) ToggleStyle(id string, flag scene.StyleFlag) bool {
	return e.record(e.store.ToggleStyle(id, flag))
}

func (e *Engine) ToggleEditing(id string) bool {
	return e.record(e.store.ToggleEditing(id))
}

// SetSelection changes the selection. A pending construction is aborted
// when the selection moves away from it. Selection changes alone are not
// recorded in history.
func (e *Engine) SetSelection(id string) bool {
	if id == e.store.SelectedID() {
		return false
	}
	if _, ok := e.store.Shape(id); id != "" && !ok {
		return false
	}
	e.abortConstruction()
	e.store.SetSelection(id)
	e.touch()
	return true
}

// Reset clears the scene.
func (e *Engine) Reset() {
	e.store.Reset()
	e.gesture = GestureIdle
	e.dragVertex = -1
	e.commit()
}

// Apply runs a scene operation. See scene.Store.Apply.
func (e *Engine) Apply(op scene.Operation) (bool, error) {
	if op.Type == scene.OpSelectionSet {
		return e.SetSelection(op.ShapeID), nil
	}
	if op.Type == scene.OpShapeAdd {
		e.abortConstruction()
	}
	changed, err := e.store.Apply(op)
	if err != nil {
		return false, err
	}
	e.dropOrphanConstruction()
	return e.record(changed), nil
}

// dropOrphanConstruction ends a construction whose shape was removed.
func (e *Engine) dropOrphanConstruction() {
	if !e.store.Constructing() {
		return
	}
	if _, ok := e.store.Selected(); ok {
		return
	}
	e.store.AbortConstruction()
	if e.gesture == GestureConstructing {
		e.gesture = GestureIdle
	}
	e.dirty = true
}

func (e *Engine) record(changed bool) bool {
	if changed {
		e.commit()
	}
	return changed
}

// --- Queries ---

// HitTest returns the top-most shape whose bounding box contains the
// logical point p.
func (e *Engine) HitTest(p geom.Vertex) *document.Shape {
	shapes := e.store.Shapes()
	for i := len(shapes) - 1; i >= 0; i-- {
		if shapes[i].Contains(p) {
			return shapes[i]
		}
	}
	return nil
}

func (e *Engine) Shapes() []*document.Shape { return e.store.Shapes() }

func (e *Engine) Shape(id string) (*document.Shape, bool) { return e.store.Shape(id) }

func (e *Engine) Selected() (*document.Shape, bool) { return e.store.Selected() }

func (e *Engine) SelectedID() string { return e.store.SelectedID() }

func (e *Engine) Construction() scene.Cursor { return e.store.Construction() }

func (e *Engine) Tool() Tool { return e.tool }

func (e *Engine) Gesture() Gesture { return e.gesture }

func (e *Engine) Settings() Settings { return e.settings }

func (e *Engine) VertexEdit() bool { return e.vertexEdit }

func (e *Engine) Viewport() viewport.Viewport { return *e.view }

func (e *Engine) History() *History { return e.history }

// Cursor returns the last pointer position in logical coordinates.
func (e *Engine) Cursor() geom.Vertex { return e.cursor }

// Version increases whenever shapes, selection, tool or settings change.
func (e *Engine) Version() uint64 { return e.version }

// State is the editor state reported to the surrounding UI.
type State struct {
	Shapes     []*document.Shape `json:"shapes"`
	Selection  string            `json:"selection"`
	Tool       Tool              `json:"tool"`
	Gesture    string            `json:"gesture"`
	Settings   Settings          `json:"settings"`
	VertexEdit bool              `json:"vertexEdit"`
	Cursor     geom.Vertex       `json:"cursor"`
	CanUndo    bool              `json:"canUndo"`
}

func (e *Engine) State() State {
	shapes := e.store.Shapes()
	if shapes == nil {
		shapes = []*document.Shape{}
	}
	return State{
		Shapes:     shapes,
		Selection:  e.store.SelectedID(),
		Tool:       e.tool,
		Gesture:    e.gesture.String(),
		Settings:   e.settings,
		VertexEdit: e.vertexEdit,
		Cursor:     e.cursor,
		CanUndo:    e.history.Cursor() > 0,
	}
}

// --- Rendering ---

// Frame captures what the render pipeline needs for the current state.
func (e *Engine) Frame() render.Frame {
	active := -1
	if e.gesture == GestureMovingVertex {
		active = e.dragVertex
	}
	return render.Frame{
		Shapes:       e.store.Shapes(),
		Selected:     e.store.SelectedID(),
		Construction: e.store.Construction(),
		View:         *e.view,
		ActiveVertex: active,
	}
}

// Render paints the current frame onto s.
func (e *Engine) Render(s render.Surface) {
	render.Paint(s, e.Frame())
}

// Tick returns the current frame as JSON draw commands. The frame is only
// re-recorded when state changed since the previous tick.
func (e *Engine) Tick() string {
	if !e.dirty && e.lastJSON != "" {
		return e.lastJSON
	}
	e.recorder.Reset()
	e.Render(e.recorder)
	data, err := json.Marshal(e.recorder.Commands())
	if err != nil {
		return "[]"
	}
	e.lastJSON = string(data)
	e.dirty = false
	return e.lastJSON
}

// Dirty reports whether the frame changed since the last Tick.
func (e *Engine) Dirty() bool { return e.dirty }
