package engine

import (
	"github.com/inamate/shapedit/backend-go/internal/document"
)

// Settings style newly drawn shapes.
type Settings struct {
	StrokeColor string  `json:"strokeColor"`
	FillColor   string  `json:"fillColor"`
	LineWidth   float64 `json:"lineWidth"`
}

// Snapshot is the editor state restored by Undo. Shapes is shared with the
// store; the store never mutates a published slice.
type Snapshot struct {
	Shapes     []*document.Shape
	Selection  string
	Tool       Tool
	Settings   Settings
	VertexEdit bool
}

// History is a linear undo stack. Pushing after an undo discards the
// undone entries.
type History struct {
	entries []Snapshot
	cursor  int
}

// NewHistory starts a history at the initial state.
func NewHistory(initial Snapshot) *History {
	return &History{entries: []Snapshot{initial}}
}

// Push records s after the cursor, dropping any entries beyond it.
func (h *History) Push(s Snapshot) {
	h.entries = append(h.entries[:h.cursor+1], s)
	h.cursor++
}

// Undo steps back one entry. It reports false at the start of history.
func (h *History) Undo() (Snapshot, bool) {
	if h.cursor == 0 {
		return Snapshot{}, false
	}
	h.cursor--
	return h.entries[h.cursor], true
}

// Cursor is the index of the current entry.
func (h *History) Cursor() int { return h.cursor }

// Len is the number of retained entries, including undone ones not yet
// overwritten.
func (h *History) Len() int { return len(h.entries) }
