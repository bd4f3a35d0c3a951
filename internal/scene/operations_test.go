package scene

import (
	"encoding/json"
	"testing"
)

func TestApply(t *testing.T) {
	s := NewStore()
	first := s.AddShape(nil)
	second := s.AddShape(nil)

	tests := []struct {
		name    string
		op      Operation
		changed bool
		wantErr bool
	}{
		{"reorder", Operation{Type: OpShapeReorder, ShapeID: second.ID, Payload: json.RawMessage(`{"direction":"up"}`)}, true, false},
		{"reorder bad direction", Operation{Type: OpShapeReorder, ShapeID: second.ID, Payload: json.RawMessage(`{"direction":"left"}`)}, false, true},
		{"vertex add default", Operation{Type: OpVertexAdd, ShapeID: first.ID}, true, false},
		{"vertex add", Operation{Type: OpVertexAdd, ShapeID: first.ID, Payload: json.RawMessage(`{"vertex":{"x":3,"y":4}}`)}, true, false},
		{"vertex update", Operation{Type: OpVertexUpdate, ShapeID: first.ID, Payload: json.RawMessage(`{"index":0,"axis":"y","value":"-7"}`)}, true, false},
		{"vertex update rejected", Operation{Type: OpVertexUpdate, ShapeID: first.ID, Payload: json.RawMessage(`{"index":0,"axis":"y","value":"x"}`)}, false, false},
		{"vertex update bad axis", Operation{Type: OpVertexUpdate, ShapeID: first.ID, Payload: json.RawMessage(`{"index":0,"axis":"z","value":"1"}`)}, false, true},
		{"vertex remove out of range", Operation{Type: OpVertexRemove, ShapeID: first.ID, Payload: json.RawMessage(`{"index":99}`)}, false, false},
		{"toggle style", Operation{Type: OpToggleStyle, ShapeID: first.ID, Payload: json.RawMessage(`{"flag":"fill"}`)}, true, false},
		{"toggle style bad flag", Operation{Type: OpToggleStyle, ShapeID: first.ID, Payload: json.RawMessage(`{"flag":"glow"}`)}, false, true},
		{"update", Operation{Type: OpShapeUpdate, ShapeID: first.ID, Payload: json.RawMessage(`{"name":"Door","styles":{"borderWidth":3}}`)}, true, false},
		{"update missing payload", Operation{Type: OpShapeUpdate, ShapeID: first.ID}, false, true},
		{"editing", Operation{Type: OpToggleEditing, ShapeID: first.ID}, true, false},
		{"select", Operation{Type: OpSelectionSet, ShapeID: first.ID}, true, false},
		{"unknown id", Operation{Type: OpShapeRemove, ShapeID: "missing"}, false, false},
		{"select unknown id", Operation{Type: OpSelectionSet, ShapeID: "missing"}, false, false},
		{"unknown type", Operation{Type: "shape.explode"}, false, true},
		{"add circle", Operation{Type: OpShapeAdd, Payload: json.RawMessage(`{"kind":"circle","center":{"x":1,"y":1},"radius":4}`)}, true, false},
		{"add bad kind", Operation{Type: OpShapeAdd, Payload: json.RawMessage(`{"kind":"star"}`)}, false, true},
		{"add default", Operation{Type: OpShapeAdd}, true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changed, err := s.Apply(tt.op)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Apply(%s) error = %v, wantErr %v", tt.op.Type, err, tt.wantErr)
			}
			if changed != tt.changed {
				t.Errorf("Apply(%s) changed = %v, want %v", tt.op.Type, changed, tt.changed)
			}
		})
	}

	got, _ := s.Shape(first.ID)
	if got.Name != "Door" || got.Styles.StrokeWidth() != 3 || got.Styles.HasFill {
		t.Errorf("after Apply: %+v", got)
	}
	if len(got.Vertices) != 6 || got.Vertices[0].Y != -7 || got.Vertices[5].X != 3 {
		t.Errorf("after Apply vertices = %v", got.Vertices)
	}
}
