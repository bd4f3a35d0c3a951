package scene

import (
	"encoding/json"
	"fmt"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/geom"
)

// Operation types accepted by Apply.
const (
	OpShapeAdd      = "shape.add"
	OpShapeRemove   = "shape.remove"
	OpShapeReorder  = "shape.reorder"
	OpVertexAdd     = "vertex.add"
	OpVertexRemove  = "vertex.remove"
	OpVertexUpdate  = "vertex.update"
	OpShapeUpdate   = "shape.update"
	OpToggleStyle   = "shape.toggleStyle"
	OpToggleEditing = "shape.toggleEditing"
	OpSelectionSet  = "selection.set"
)

// Operation is a single store mutation as sent by a property panel.
type Operation struct {
	Type    string          `json:"type"`
	ShapeID string          `json:"shapeId,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type reorderPayload struct {
	Direction Direction `json:"direction"`
}

type vertexAddPayload struct {
	Vertex *geom.Vertex `json:"vertex,omitempty"`
}

type vertexRemovePayload struct {
	Index int `json:"index"`
}

type vertexUpdatePayload struct {
	Index int    `json:"index"`
	Axis  Axis   `json:"axis"`
	Value string `json:"value"`
}

type toggleStylePayload struct {
	Flag StyleFlag `json:"flag"`
}

// Apply dispatches op to the matching store operation and reports whether
// the scene changed. Malformed operations return an error; operations that
// are well formed but have no effect (unknown id, index out of range,
// rejected vertex text) return false and no error.
func (s *Store) Apply(op Operation) (bool, error) {
	switch op.Type {
	case OpShapeAdd:
		return s.applyAdd(op)
	case OpShapeRemove:
		return s.RemoveShape(op.ShapeID), nil
	case OpShapeReorder:
		var p reorderPayload
		if err := decodePayload(op, &p); err != nil {
			return false, err
		}
		if p.Direction != Up && p.Direction != Down {
			return false, fmt.Errorf("invalid direction: %q", p.Direction)
		}
		return s.Reorder(op.ShapeID, p.Direction), nil
	case OpVertexAdd:
		var p vertexAddPayload
		if len(op.Payload) > 0 {
			if err := decodePayload(op, &p); err != nil {
				return false, err
			}
		}
		return s.AddVertex(op.ShapeID, p.Vertex), nil
	case OpVertexRemove:
		var p vertexRemovePayload
		if err := decodePayload(op, &p); err != nil {
			return false, err
		}
		return s.RemoveVertex(op.ShapeID, p.Index), nil
	case OpVertexUpdate:
		var p vertexUpdatePayload
		if err := decodePayload(op, &p); err != nil {
			return false, err
		}
		if p.Axis != AxisX && p.Axis != AxisY {
			return false, fmt.Errorf("invalid axis: %q", p.Axis)
		}
		return s.UpdateVertex(op.ShapeID, p.Index, p.Axis, p.Value), nil
	case OpShapeUpdate:
		var u document.ShapeUpdate
		if err := decodePayload(op, &u); err != nil {
			return false, err
		}
		return s.UpdateShape(op.ShapeID, u), nil
	case OpToggleStyle:
		var p toggleStylePayload
		if err := decodePayload(op, &p); err != nil {
			return false, err
		}
		if p.Flag != FlagFill && p.Flag != FlagBorder {
			return false, fmt.Errorf("invalid style flag: %q", p.Flag)
		}
		return s.ToggleStyle(op.ShapeID, p.Flag), nil
	case OpToggleEditing:
		return s.ToggleEditing(op.ShapeID), nil
	case OpSelectionSet:
		return s.SetSelection(op.ShapeID), nil
	default:
		return false, fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (s *Store) applyAdd(op Operation) (bool, error) {
	if len(op.Payload) == 0 || string(op.Payload) == "null" {
		s.AddShape(nil)
		return true, nil
	}
	var shape document.Shape
	if err := json.Unmarshal(op.Payload, &shape); err != nil {
		return false, fmt.Errorf("invalid shape: %w", err)
	}
	switch shape.Kind {
	case "", document.KindPath, document.KindRect, document.KindLine, document.KindCircle:
	default:
		return false, fmt.Errorf("unknown shape kind: %q", shape.Kind)
	}
	s.AddShape(&shape)
	return true, nil
}

func decodePayload(op Operation, v any) error {
	if len(op.Payload) == 0 {
		return fmt.Errorf("%s: missing payload", op.Type)
	}
	if err := json.Unmarshal(op.Payload, v); err != nil {
		return fmt.Errorf("%s: invalid payload: %w", op.Type, err)
	}
	return nil
}
