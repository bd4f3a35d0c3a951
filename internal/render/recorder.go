package render

// DrawCommand is a single drawing call for the frontend to replay on a
// Canvas2D context. Op names match the CanvasRenderingContext2D method or
// property they map to.
type DrawCommand struct {
	Op    string    `json:"op"`              // "clearRect", "save", "restore", "translate", "scale", "beginPath", "moveTo", "lineTo", "arc", "closePath", "fillStyle", "strokeStyle", "lineWidth", "setLineDash", "fill", "stroke", "fillRect"
	Args  []float64 `json:"args,omitempty"`  // Numeric arguments in call order
	Color string    `json:"color,omitempty"` // For fillStyle / strokeStyle
}

// Recorder is a Surface that records draw commands instead of painting.
type Recorder struct {
	commands []DrawCommand
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Commands returns the commands recorded since the last Reset.
func (r *Recorder) Commands() []DrawCommand {
	return r.commands
}

// Reset drops recorded commands. The returned slices of earlier Commands
// calls are not reused.
func (r *Recorder) Reset() {
	r.commands = nil
}

func (r *Recorder) emit(op string, args ...float64) {
	r.commands = append(r.commands, DrawCommand{Op: op, Args: args})
}

func (r *Recorder) Clear()                 { r.emit("clearRect") }
func (r *Recorder) Push()                  { r.emit("save") }
func (r *Recorder) Pop()                   { r.emit("restore") }
func (r *Recorder) Translate(x, y float64) { r.emit("translate", x, y) }
func (r *Recorder) Scale(s float64)        { r.emit("scale", s, s) }
func (r *Recorder) BeginPath()             { r.emit("beginPath") }
func (r *Recorder) MoveTo(x, y float64)    { r.emit("moveTo", x, y) }
func (r *Recorder) LineTo(x, y float64)    { r.emit("lineTo", x, y) }
func (r *Recorder) ClosePath()             { r.emit("closePath") }
func (r *Recorder) SetLineWidth(w float64) { r.emit("lineWidth", w) }
func (r *Recorder) Fill()                  { r.emit("fill") }
func (r *Recorder) Stroke()                { r.emit("stroke") }

func (r *Recorder) Arc(cx, cy, rad, start, end float64) {
	// Canvas arc continues the current subpath; moveTo makes it a new one.
	x, y := ArcStart(cx, cy, rad, start)
	r.emit("moveTo", x, y)
	r.emit("arc", cx, cy, rad, start, end)
}

func (r *Recorder) SetFillColor(c string) {
	r.commands = append(r.commands, DrawCommand{Op: "fillStyle", Color: c})
}

func (r *Recorder) SetStrokeColor(c string) {
	r.commands = append(r.commands, DrawCommand{Op: "strokeStyle", Color: c})
}

func (r *Recorder) SetDash(pattern []float64) {
	r.emit("setLineDash", pattern...)
}

func (r *Recorder) FillRect(x, y, w, h float64) {
	r.emit("fillRect", x, y, w, h)
}
