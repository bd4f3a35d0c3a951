package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/engine"
	"github.com/inamate/shapedit/backend-go/internal/geom"
	"github.com/inamate/shapedit/backend-go/internal/render"
	"github.com/inamate/shapedit/backend-go/internal/scene"
)

// Sender delivers server messages to the connected client.
type Sender interface {
	Send(msg *Message)
}

// Options configure new sessions.
type Options struct {
	Engine     engine.Options
	FrameRate  int
	SeedSample bool
}

// Session is one editor: an engine driven by a single client. All engine
// access runs on the session loop, so input, redraw ticks and snapshot
// requests are applied one at a time in arrival order.
type Session struct {
	ID string

	engine *engine.Engine
	loop   *engine.Loop
	out    Sender

	lastFrame   string
	lastVersion uint64
	lastCursor  geom.Vertex
}

func New(id string, opts Options, out Sender) *Session {
	s := &Session{
		ID:     id,
		engine: engine.NewEngine(opts.Engine),
		out:    out,
	}
	if opts.SeedSample {
		s.engine.LoadShapes(document.SampleShapes())
	}
	s.loop = engine.NewLoop(opts.FrameRate, s.tick)
	return s
}

// Run drives the session until ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	return s.loop.Run(ctx)
}

// Welcome greets a newly attached client with its ids and the full state.
func (s *Session) Welcome(ctx context.Context, clientID string) error {
	return s.loop.Post(ctx, func() {
		s.send(TypeWelcome, WelcomePayload{SessionID: s.ID, ClientID: clientID})
		s.lastFrame = ""
		s.send(TypeState, s.engine.State())
		s.lastVersion = s.engine.Version()
		s.lastCursor = s.engine.Cursor()
	})
}

// Submit queues a client message for the session loop.
func (s *Session) Submit(ctx context.Context, msg *Message) error {
	return s.loop.Post(ctx, func() { s.dispatch(msg) })
}

// Frame captures the current render frame.
func (s *Session) Frame(ctx context.Context) (render.Frame, error) {
	var f render.Frame
	err := s.loop.Call(ctx, func() { f = s.engine.Frame() })
	return f, err
}

func (s *Session) dispatch(msg *Message) {
	if err := s.handle(msg); err != nil {
		slog.Debug("message rejected", "session", s.ID, "type", msg.Type, "error", err)
		s.send(TypeError, ErrorPayload{Message: err.Error(), Request: msg.Type})
	}
	s.publishState()
	s.publishCursor()
}

func (s *Session) handle(msg *Message) error {
	e := s.engine

	switch msg.Type {
	case TypePointerDown, TypePointerMove, TypePointerUp, TypePointerLeave:
		var ev engine.PointerEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		switch msg.Type {
		case TypePointerDown:
			e.PointerDown(ev)
		case TypePointerMove:
			e.PointerMove(ev)
		case TypePointerUp:
			e.PointerUp(ev)
		default:
			e.PointerLeave(ev)
		}
	case TypeWheel:
		var ev engine.WheelEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		e.Wheel(ev)
	case TypeKeyDown:
		var ev engine.KeyEvent
		if err := decode(msg, &ev); err != nil {
			return err
		}
		e.KeyDown(ev)
	case TypeLayout:
		var p LayoutPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		e.Layout(p.Width, p.Height)
	case TypeToolSet:
		var p ToolPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if !p.Tool.Valid() {
			return fmt.Errorf("unknown tool: %q", p.Tool)
		}
		e.SetTool(p.Tool)
	case TypeSettingsSet:
		var p SettingsPayload
		if err := decode(msg, &p); err != nil {
			return err
		}
		if p.StrokeColor != nil {
			e.SetStrokeColor(*p.StrokeColor)
		}
		if p.FillColor != nil {
			e.SetFillColor(*p.FillColor)
		}
		if p.LineWidth != nil {
			if *p.LineWidth < 0 {
				return fmt.Errorf("invalid line width: %v", *p.LineWidth)
			}
			e.SetLineWidth(*p.LineWidth)
		}
	case TypeVertexEditToggle:
		e.ToggleVertexEdit()
	case TypeUndo:
		e.Undo()
	case TypeReset:
		e.Reset()
	case TypeOp:
		var op scene.Operation
		if err := decode(msg, &op); err != nil {
			return err
		}
		if _, err := e.Apply(op); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
	return nil
}

func decode(msg *Message, v any) error {
	if len(msg.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", msg.Type)
	}
	if err := json.Unmarshal(msg.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", msg.Type, err)
	}
	return nil
}

// tick renders the frame and sends it only when it differs from the last
// one sent.
func (s *Session) tick() {
	frame := s.engine.Tick()
	if frame == s.lastFrame {
		return
	}
	s.lastFrame = frame
	s.send(TypeFrame, FramePayload{Commands: json.RawMessage(frame)})
}

func (s *Session) publishState() {
	v := s.engine.Version()
	if v == s.lastVersion {
		return
	}
	s.lastVersion = v
	s.lastCursor = s.engine.Cursor()
	s.send(TypeState, s.engine.State())
}

// publishCursor reports pointer motion that did not change the state.
func (s *Session) publishCursor() {
	c := s.engine.Cursor()
	if c == s.lastCursor {
		return
	}
	s.lastCursor = c
	s.send(TypeCursor, CursorPayload(c))
}

func (s *Session) send(typ string, payload any) {
	msg, err := newMessage(typ, payload)
	if err != nil {
		slog.Error("marshal message", "session", s.ID, "type", typ, "error", err)
		return
	}
	msg.SessionID = s.ID
	s.out.Send(msg)
}
