package engine

// Tool is the active editing tool. It persists across gestures.
type Tool string

const (
	ToolSelect          Tool = "select"
	ToolDrawPolyline    Tool = "polyline"
	ToolDrawClosedShape Tool = "closed"
	ToolMove            Tool = "move"
)

// Valid reports whether t names a known tool.
func (t Tool) Valid() bool {
	switch t {
	case ToolSelect, ToolDrawPolyline, ToolDrawClosedShape, ToolMove:
		return true
	}
	return false
}

func (t Tool) draws() bool {
	return t == ToolDrawPolyline || t == ToolDrawClosedShape
}

// Gesture is the in-progress pointer interaction.
type Gesture int

const (
	GestureIdle Gesture = iota
	GestureConstructing
	GesturePanning
	GestureMovingShape
	GestureMovingVertex
)

func (g Gesture) String() string {
	switch g {
	case GestureConstructing:
		return "constructing"
	case GesturePanning:
		return "panning"
	case GestureMovingShape:
		return "movingShape"
	case GestureMovingVertex:
		return "movingVertex"
	default:
		return "idle"
	}
}

// Pointer buttons, numbered as in DOM MouseEvent.button.
const (
	ButtonPrimary   = 0
	ButtonAuxiliary = 1
	ButtonSecondary = 2
)

// PointerEvent carries a pointer position in surface coordinates.
type PointerEvent struct {
	Button int     `json:"button"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// WheelEvent is a scroll at a surface position. Positive DeltaY scrolls
// down and zooms out.
type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"deltaY"`
}

// KeyEvent is a key press. Key uses DOM KeyboardEvent.key names.
type KeyEvent struct {
	Key  string `json:"key"`
	Ctrl bool   `json:"ctrl"`
}
