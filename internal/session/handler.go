package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/inamate/shapedit/backend-go/internal/render"
	"github.com/inamate/shapedit/backend-go/internal/typeid"
)

const maxSnapshotSide = 4096

// HandlerConfig configures the HTTP and websocket endpoints.
type HandlerConfig struct {
	Session        Options
	OriginPatterns []string
	SnapshotWidth  int
	SnapshotHeight int
}

type Handler struct {
	registry *Registry
	cfg      HandlerConfig
}

func NewHandler(registry *Registry, cfg HandlerConfig) *Handler {
	if cfg.SnapshotWidth <= 0 {
		cfg.SnapshotWidth = 800
	}
	if cfg.SnapshotHeight <= 0 {
		cfg.SnapshotHeight = 600
	}
	return &Handler{registry: registry, cfg: cfg}
}

// Routes registers the session endpoints on r.
func (h *Handler) Routes(r *mux.Router) {
	r.HandleFunc("/ws", h.ServeWS)
	r.HandleFunc("/sessions", h.List).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}/snapshot.png", h.Snapshot).Methods("GET")
	r.HandleFunc("/sessions/{sessionId}/export.pdf", h.ExportPDF).Methods("GET")
}

// ServeWS upgrades the request and runs a new session for its lifetime.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.cfg.OriginPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := NewClient(conn, uuid.New().String())
	sess := New(typeid.NewSessionID(), h.cfg.Session, client)

	h.registry.Add(sess)
	defer h.registry.Remove(sess.ID)

	go func() {
		if err := sess.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("session loop", "session", sess.ID, "error", err)
		}
	}()
	go client.WritePump(ctx)

	if err := sess.Welcome(ctx, client.ID); err != nil {
		slog.Error("welcome", "session", sess.ID, "error", err)
		return
	}
	client.ReadPump(ctx, sess)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": h.registry.IDs()})
}

// Snapshot renders the session's current frame as PNG. The optional
// background query parameter replaces the white backdrop.
func (h *Handler) Snapshot(w http.ResponseWriter, r *http.Request) {
	bg := r.URL.Query().Get("background")
	if _, ok := render.ParseColor(bg); bg != "" && !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid background"})
		return
	}
	frame, width, height, ok := h.frame(w, r)
	if !ok {
		return
	}

	raster := render.NewRaster(width, height)
	defer raster.Close()
	if bg != "" {
		raster.SetBackground(bg)
	}
	render.Paint(raster, frame)

	var buf bytes.Buffer
	if err := raster.EncodePNG(&buf); err != nil {
		slog.Error("encode snapshot", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportPDF renders the session's current frame as a one-page PDF.
func (h *Handler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	frame, width, height, ok := h.frame(w, r)
	if !ok {
		return
	}

	doc := render.NewPDF(float64(width), float64(height))
	render.Paint(doc, frame)

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		slog.Error("export pdf", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="scene.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// frame resolves the session and output size of a snapshot request,
// answering the request itself on failure.
func (h *Handler) frame(w http.ResponseWriter, r *http.Request) (render.Frame, int, int, bool) {
	id := mux.Vars(r)["sessionId"]
	if err := typeid.Validate(id, typeid.PrefixSession); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid session id"})
		return render.Frame{}, 0, 0, false
	}
	sess, ok := h.registry.Get(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "session not found"})
		return render.Frame{}, 0, 0, false
	}

	width, err := dimension(r, "width", h.cfg.SnapshotWidth)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid width"})
		return render.Frame{}, 0, 0, false
	}
	height, err := dimension(r, "height", h.cfg.SnapshotHeight)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid height"})
		return render.Frame{}, 0, 0, false
	}

	frame, err := sess.Frame(r.Context())
	if err != nil {
		writeJSON(w, http.StatusGone, map[string]string{"error": "session closed"})
		return render.Frame{}, 0, 0, false
	}
	return frame, width, height, true
}

func dimension(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	if n <= 0 || n > maxSnapshotSide {
		return 0, errors.New("out of range")
	}
	return n, nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
