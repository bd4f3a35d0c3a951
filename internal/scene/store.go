package scene

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/inamate/shapedit/backend-go/internal/document"
	"github.com/inamate/shapedit/backend-go/internal/geom"
	"github.com/inamate/shapedit/backend-go/internal/typeid"
)

// Direction selects the neighbour a shape is swapped with by Reorder.
type Direction string

const (
	Up   Direction = "up"   // towards index 0 (further back)
	Down Direction = "down" // towards the end (further front)
)

// Axis names a vertex coordinate.
type Axis string

const (
	AxisX Axis = "x"
	AxisY Axis = "y"
)

// StyleFlag names a boolean style attribute toggled by ToggleStyle.
type StyleFlag string

const (
	FlagFill   StyleFlag = "fill"
	FlagBorder StyleFlag = "border"
)

var vertexValue = regexp.MustCompile(`^-?\d*$`)

// Cursor is the transient construction state of a draw gesture.
// Start is nil when no construction is pending.
type Cursor struct {
	Start   *geom.Vertex `json:"start,omitempty"`
	Current *geom.Vertex `json:"current,omitempty"`
}

// Store owns the ordered shape collection, the selection and the
// construction cursor. Shapes are replaced on every mutation, and so is
// the backing slice, so values returned by Shapes or Snapshot stay valid
// after later mutations.
//
// A Store is not safe for concurrent use.
type Store struct {
	shapes   []*document.Shape
	selected string
	seq      int

	start, current       geom.Vertex
	hasStart, hasCurrent bool
}

func NewStore() *Store {
	return &Store{}
}

// Shapes returns the shapes in z-order, back to front. The slice must be
// treated as read-only.
func (s *Store) Shapes() []*document.Shape {
	return s.shapes
}

// Shape looks up a shape by id.
func (s *Store) Shape(id string) (*document.Shape, bool) {
	i := s.index(id)
	if i < 0 {
		return nil, false
	}
	return s.shapes[i], true
}

// SelectedID returns the selected id. It may name a shape that no longer
// exists; use Selected to resolve it.
func (s *Store) SelectedID() string {
	return s.selected
}

// Selected resolves the selection to a shape.
func (s *Store) Selected() (*document.Shape, bool) {
	if s.selected == "" {
		return nil, false
	}
	return s.Shape(s.selected)
}

func (s *Store) index(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.shapes, func(sh *document.Shape) bool { return sh.ID == id })
}

// replace clones the shape with the given id, lets fn edit the clone and
// publishes it when fn reports a change.
func (s *Store) replace(id string, fn func(c *document.Shape) bool) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	c := s.shapes[i].Clone()
	if !fn(c) {
		return false
	}
	next := slices.Clone(s.shapes)
	next[i] = c
	s.shapes = next
	return true
}

// AddShape appends shape to the top of the z-order and selects it. A nil
// shape adds the default placeholder square. The stored value is a copy;
// a missing or duplicate id and an empty name are filled in.
func (s *Store) AddShape(shape *document.Shape) *document.Shape {
	if shape == nil {
		shape = document.DefaultSquare()
	}
	c := shape.Clone()
	s.seq++
	if c.ID == "" || s.index(c.ID) >= 0 {
		c.ID = typeid.NewShapeID()
	}
	if c.Name == "" {
		c.Name = fmt.Sprintf("Shape %d", s.seq)
	}
	if c.Kind == "" {
		c.Kind = document.KindPath
	}

	next := make([]*document.Shape, len(s.shapes), len(s.shapes)+1)
	copy(next, s.shapes)
	s.shapes = append(next, c)
	s.selected = c.ID
	return c
}

// RemoveShape deletes the shape with the given id and drops the selection
// if it pointed at it.
func (s *Store) RemoveShape(id string) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	s.shapes = slices.Delete(slices.Clone(s.shapes), i, i+1)
	if s.selected == id {
		s.selected = ""
	}
	return true
}

// Reorder swaps the shape with its neighbour in the given direction.
func (s *Store) Reorder(id string, dir Direction) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	j := i
	switch dir {
	case Up:
		j = i - 1
	case Down:
		j = i + 1
	}
	if j == i || j < 0 || j >= len(s.shapes) {
		return false
	}
	next := slices.Clone(s.shapes)
	next[i], next[j] = next[j], next[i]
	s.shapes = next
	return true
}

// AddVertex appends v, or the origin when v is nil, to the shape's outline.
func (s *Store) AddVertex(id string, v *geom.Vertex) bool {
	var vx geom.Vertex
	if v != nil {
		vx = *v
	}
	return s.replace(id, func(c *document.Shape) bool {
		c.Vertices = append(c.Vertices, vx)
		return true
	})
}

func (s *Store) RemoveVertex(id string, index int) bool {
	return s.replace(id, func(c *document.Shape) bool {
		if index < 0 || index >= len(c.Vertices) {
			return false
		}
		c.Vertices = slices.Delete(c.Vertices, index, index+1)
		return true
	})
}

// ParseVertexValue parses text typed into a coordinate field: an optional
// minus sign followed by digits. Empty text and a lone "-" read as 0.
func ParseVertexValue(raw string) (float64, bool) {
	if !vertexValue.MatchString(raw) {
		return 0, false
	}
	if raw == "" || raw == "-" {
		return 0, true
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// UpdateVertex sets one axis of a vertex from user-entered text. Text that
// is not an optionally signed integer leaves the vertex untouched.
func (s *Store) UpdateVertex(id string, index int, axis Axis, raw string) bool {
	v, ok := ParseVertexValue(raw)
	if !ok || (axis != AxisX && axis != AxisY) {
		return false
	}
	return s.replace(id, func(c *document.Shape) bool {
		if index < 0 || index >= len(c.Vertices) {
			return false
		}
		old := c.Vertices[index]
		if axis == AxisX {
			c.Vertices[index].X = v
		} else {
			c.Vertices[index].Y = v
		}
		return c.Vertices[index] != old
	})
}

// MoveVertex overwrites a vertex position.
func (s *Store) MoveVertex(id string, index int, v geom.Vertex) bool {
	return s.replace(id, func(c *document.Shape) bool {
		if index < 0 || index >= len(c.Vertices) || c.Vertices[index] == v {
			return false
		}
		c.Vertices[index] = v
		return true
	})
}

// Translate shifts the whole shape by (dx, dy).
func (s *Store) Translate(id string, dx, dy float64) bool {
	if dx == 0 && dy == 0 {
		return false
	}
	i := s.index(id)
	if i < 0 {
		return false
	}
	next := slices.Clone(s.shapes)
	next[i] = s.shapes[i].Translated(dx, dy)
	s.shapes = next
	return true
}

// UpdateShape merges the set fields of u into the shape. Styles are merged
// field by field rather than replaced. Fields equal to the current value do
// not count as a change.
func (s *Store) UpdateShape(id string, u document.ShapeUpdate) bool {
	return s.replace(id, func(c *document.Shape) bool {
		changed := false
		if u.Name != nil && *u.Name != c.Name {
			c.Name = *u.Name
			changed = true
		}
		if u.Vertices != nil && !slices.Equal(u.Vertices, c.Vertices) {
			c.Vertices = append([]geom.Vertex(nil), u.Vertices...)
			changed = true
		}
		if u.Styles != nil {
			if merged := c.Styles.Merge(*u.Styles); !merged.Equal(c.Styles) {
				c.Styles = merged
				changed = true
			}
		}
		if u.Editing != nil && *u.Editing != c.Editing {
			c.Editing = *u.Editing
			changed = true
		}
		if u.IsClosed != nil && *u.IsClosed != c.IsClosed {
			c.IsClosed = *u.IsClosed
			changed = true
		}
		return changed
	})
}

func (s *Store) ToggleStyle(id string, flag StyleFlag) bool {
	return s.replace(id, func(c *document.Shape) bool {
		switch flag {
		case FlagFill:
			c.Styles.HasFill = !c.Styles.HasFill
		case FlagBorder:
			c.Styles.HasBorder = !c.Styles.HasBorder
		default:
			return false
		}
		return true
	})
}

// ToggleEditing flips the property-panel expansion flag.
func (s *Store) ToggleEditing(id string) bool {
	return s.replace(id, func(c *document.Shape) bool {
		c.Editing = !c.Editing
		return true
	})
}

// SetSelection selects id, or clears the selection when id is empty.
// Unknown ids are ignored.
func (s *Store) SetSelection(id string) bool {
	if s.selected == id {
		return false
	}
	if id != "" && s.index(id) < 0 {
		return false
	}
	s.selected = id
	return true
}

// Reset empties the scene. Names keep counting from where they were.
func (s *Store) Reset() {
	s.shapes = nil
	s.selected = ""
	s.AbortConstruction()
}

// Restore replaces the scene with a previously captured state and drops any
// pending construction.
func (s *Store) Restore(shapes []*document.Shape, selected string) {
	s.shapes = shapes
	s.selected = selected
	s.AbortConstruction()
}

// Construction returns a copy of the construction cursor.
func (s *Store) Construction() Cursor {
	var c Cursor
	if s.hasStart {
		v := s.start
		c.Start = &v
	}
	if s.hasCurrent {
		v := s.current
		c.Current = &v
	}
	return c
}

// Constructing reports whether a draw gesture is pending.
func (s *Store) Constructing() bool {
	return s.hasStart
}

// BeginConstruction starts a draw gesture at v.
func (s *Store) BeginConstruction(v geom.Vertex) {
	s.start, s.hasStart = v, true
	s.hasCurrent = false
}

// SetCursor records the live pointer position of a pending construction.
func (s *Store) SetCursor(v geom.Vertex) {
	if !s.hasStart {
		return
	}
	s.current, s.hasCurrent = v, true
}

// AdvanceConstruction moves the segment start to the vertex just committed.
func (s *Store) AdvanceConstruction(v geom.Vertex) {
	s.start, s.hasStart = v, true
	s.hasCurrent = false
}

func (s *Store) AbortConstruction() {
	s.hasStart, s.hasCurrent = false, false
}
