package session

import (
	"encoding/json"

	"github.com/inamate/shapedit/backend-go/internal/engine"
	"github.com/inamate/shapedit/backend-go/internal/geom"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Client -> server: input
	TypePointerDown  = "pointer.down"
	TypePointerMove  = "pointer.move"
	TypePointerUp    = "pointer.up"
	TypePointerLeave = "pointer.leave"
	TypeWheel        = "wheel"
	TypeKeyDown      = "key.down"
	TypeLayout       = "layout"

	// Client -> server: editor commands
	TypeToolSet          = "tool.set"
	TypeSettingsSet      = "settings.set"
	TypeVertexEditToggle = "vertexEdit.toggle"
	TypeUndo             = "undo"
	TypeReset            = "reset"
	TypeOp               = "op"

	// Server -> client
	TypeWelcome = "welcome"
	TypeFrame   = "frame"
	TypeState   = "state"
	TypeCursor  = "cursor"
	TypeError   = "error"
)

type WelcomePayload struct {
	SessionID string `json:"sessionId"`
	ClientID  string `json:"clientId"`
}

type FramePayload struct {
	Commands json.RawMessage `json:"commands"`
}

type StatePayload = engine.State

// CursorPayload is the logical pointer position, sent on pointer motion
// that changes nothing else.
type CursorPayload = geom.Vertex

type ErrorPayload struct {
	Message string `json:"message"`
	Request string `json:"request,omitempty"`
}

type LayoutPayload struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type ToolPayload struct {
	Tool engine.Tool `json:"tool"`
}

// SettingsPayload updates the drawing settings; nil fields are left as is.
type SettingsPayload struct {
	StrokeColor *string  `json:"strokeColor,omitempty"`
	FillColor   *string  `json:"fillColor,omitempty"`
	LineWidth   *float64 `json:"lineWidth,omitempty"`
}

func newMessage(typ string, payload any) (*Message, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: typ, Payload: data}, nil
}
