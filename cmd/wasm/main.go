//go:build js && wasm

package main

import (
	"encoding/json"
	"sync"
	"syscall/js"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/engine"
	"github.com/inamate/shapedit/backend-go/internal/scene"
)

var (
	eng    *engine.Engine
	canvas *canvasSurface
)

func main() {
	api, done := install(js.Global())
	<-done
	api.release()
}

// exports is the JS object the engine is published as. It keeps every
// callback it hands out so teardown can release them.
type exports struct {
	obj   js.Value
	funcs []js.Func
}

func (x *exports) set(name string, fn func(js.Value, []js.Value) any) {
	f := js.FuncOf(fn)
	x.funcs = append(x.funcs, f)
	x.obj.Set(name, f)
}

func (x *exports) release() {
	for _, f := range x.funcs {
		f.Release()
	}
	x.funcs = nil
}

// install creates the engine and publishes it on global as shapeEngine.
// The returned channel closes when the page calls shapeEngine.dispose().
func install(global js.Value) (*exports, <-chan struct{}) {
	eng = engine.NewEngine(engine.DefaultOptions())
	canvas = nil
	done := make(chan struct{})

	api := &exports{obj: global.Get("Object").New()}

	// --- Commands (frontend → engine) ---
	api.set("attachCanvas", attachCanvas)
	api.set("loadSample", loadSample)
	api.set("layout", layout)
	api.set("pointerDown", pointerHandler(eng.PointerDown))
	api.set("pointerMove", pointerHandler(eng.PointerMove))
	api.set("pointerUp", pointerHandler(eng.PointerUp))
	api.set("pointerLeave", pointerHandler(eng.PointerLeave))
	api.set("wheel", wheel)
	api.set("keyDown", keyDown)
	api.set("setTool", setTool)
	api.set("setStrokeColor", setStrokeColor)
	api.set("setFillColor", setFillColor)
	api.set("setLineWidth", setLineWidth)
	api.set("toggleVertexEdit", toggleVertexEdit)
	api.set("apply", apply)
	api.set("undo", undo)
	api.set("reset", reset)

	// --- Queries (frontend ← engine) ---
	api.set("tick", tick)
	api.set("draw", draw)
	api.set("getState", getState)

	// --- Teardown ---
	var once sync.Once
	api.set("dispose", func(this js.Value, args []js.Value) any {
		once.Do(func() {
			global.Delete("shapeEngine")
			global.Delete("shapeWasmReady")
			canvas = nil
			close(done)
		})
		return nil
	})

	// Register on global scope
	global.Set("shapeEngine", api.obj)

	// Signal that WASM is ready
	global.Set("shapeWasmReady", js.ValueOf(true))

	return api, done
}

func ok() any { return js.ValueOf(map[string]any{"ok": true}) }

func fail(err error) any { return js.ValueOf(map[string]any{"error": err.Error()}) }

// --- Command Handlers ---

func attachCanvas(this js.Value, args []js.Value) any {
	if len(args) < 1 || args[0].Type() != js.TypeObject {
		return js.ValueOf(map[string]any{"error": "missing canvas"})
	}
	ctx := args[0].Call("getContext", "2d")
	if ctx.IsNull() {
		return js.ValueOf(map[string]any{"error": "canvas has no 2d context"})
	}
	canvas = newCanvasSurface(ctx)
	return ok()
}

func loadSample(this js.Value, args []js.Value) any {
	eng.LoadShapes(document.SampleShapes())
	return ok()
}

func layout(this js.Value, args []js.Value) any {
	if len(args) < 2 {
		return nil
	}
	eng.Layout(args[0].Float(), args[1].Float())
	if canvas != nil {
		canvas.resize(args[0].Float(), args[1].Float())
	}
	return nil
}

func pointerHandler(fn func(engine.PointerEvent)) func(js.Value, []js.Value) any {
	return func(this js.Value, args []js.Value) any {
		if len(args) < 3 {
			return nil
		}
		fn(engine.PointerEvent{Button: args[0].Int(), X: args[1].Float(), Y: args[2].Float()})
		return nil
	}
}

func wheel(this js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.ValueOf(false)
	}
	return js.ValueOf(eng.Wheel(engine.WheelEvent{X: args[0].Float(), Y: args[1].Float(), DeltaY: args[2].Float()}))
}

func keyDown(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return nil
	}
	ev := engine.KeyEvent{Key: args[0].String()}
	if len(args) > 1 {
		ev.Ctrl = args[1].Truthy()
	}
	eng.KeyDown(ev)
	return nil
}

func setTool(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing tool"})
	}
	t := engine.Tool(args[0].String())
	if !t.Valid() {
		return js.ValueOf(map[string]any{"error": "unknown tool: " + string(t)})
	}
	eng.SetTool(t)
	return ok()
}

func setStrokeColor(this js.Value, args []js.Value) any {
	if len(args) > 0 {
		eng.SetStrokeColor(args[0].String())
	}
	return nil
}

func setFillColor(this js.Value, args []js.Value) any {
	if len(args) > 0 {
		eng.SetFillColor(args[0].String())
	}
	return nil
}

func setLineWidth(this js.Value, args []js.Value) any {
	if len(args) > 0 && args[0].Float() >= 0 {
		eng.SetLineWidth(args[0].Float())
	}
	return nil
}

func toggleVertexEdit(this js.Value, args []js.Value) any {
	eng.ToggleVertexEdit()
	return nil
}

// apply takes a JSON encoded shape operation.
func apply(this js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.ValueOf(map[string]any{"error": "missing operation JSON"})
	}
	var op scene.Operation
	if err := json.Unmarshal([]byte(args[0].String()), &op); err != nil {
		return fail(err)
	}
	changed, err := eng.Apply(op)
	if err != nil {
		return fail(err)
	}
	return js.ValueOf(map[string]any{"ok": true, "changed": changed})
}

func undo(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Undo())
}

func reset(this js.Value, args []js.Value) any {
	eng.Reset()
	return nil
}

// --- Query Handlers ---

func tick(this js.Value, args []js.Value) any {
	return js.ValueOf(eng.Tick())
}

// draw paints straight onto the attached canvas when the frame changed.
func draw(this js.Value, args []js.Value) any {
	if canvas == nil || !eng.Dirty() {
		return js.ValueOf(false)
	}
	eng.Render(canvas)
	eng.Tick()
	return js.ValueOf(true)
}

func getState(this js.Value, args []js.Value) any {
	data, err := json.Marshal(eng.State())
	if err != nil {
		return js.ValueOf("{}")
	}
	return js.ValueOf(string(data))
}
