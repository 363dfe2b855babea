package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/floorline/floorline/backend-go/internal/document"
)

const maxDocumentSize = 10 << 20 // 10MB

// DocumentLoader fetches the latest saved layout of a project.
type DocumentLoader func(ctx context.Context, projectID string) (*document.LayoutDocument, error)

// Handler renders layout documents into downloadable floor plans.
type Handler struct {
	opts PlanOptions
	load DocumentLoader
}

// NewHandler returns a handler with default rendering options. load
// may be nil; then only the POST route works.
func NewHandler(load DocumentLoader) *Handler {
	return &Handler{opts: DefaultPlanOptions(), load: load}
}

// ExportPlan handles POST /export/floorplan. The request body is a layout
// document; the response is an SVG attachment drawn from it. This is the
// route the editor uses, so unsaved changes export exactly as shown.
func (h *Handler) ExportPlan(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxDocumentSize)

	var doc document.LayoutDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		http.Error(w, "invalid layout document: "+err.Error(), http.StatusBadRequest)
		return
	}
	h.respondPlan(w, r, &doc)
}

// ExportProjectPlan handles GET /export/floorplan/{projectId}: the same
// rendering over the project's latest saved snapshot.
func (h *Handler) ExportProjectPlan(w http.ResponseWriter, r *http.Request) {
	if h.load == nil {
		http.Error(w, "snapshot export not configured", http.StatusNotFound)
		return
	}

	projectID := mux.Vars(r)["projectId"]
	doc, err := h.load(r.Context(), projectID)
	if err != nil {
		slog.Error("load layout for export", "project", projectID, "error", err)
		http.Error(w, "layout not found", http.StatusNotFound)
		return
	}
	h.respondPlan(w, r, doc)
}

func (h *Handler) respondPlan(w http.ResponseWriter, r *http.Request, doc *document.LayoutDocument) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "svg"
	}
	if format != "svg" {
		http.Error(w, "invalid format: must be svg", http.StatusBadRequest)
		return
	}

	opts := h.opts
	if v := r.URL.Query().Get("scale"); v != "" {
		scale, err := strconv.ParseFloat(v, 64)
		if err != nil || scale < 4 || scale > 200 {
			http.Error(w, "invalid scale: must be between 4 and 200 pixels per meter", http.StatusBadRequest)
			return
		}
		opts.Scale = scale
	}
	if r.URL.Query().Get("grid") == "off" {
		opts.Grid = false
	}
	if r.URL.Query().Get("labels") == "off" {
		opts.Labels = false
	}

	name := doc.Project.Name
	if name == "" {
		name = "floorplan"
	}
	// Sanitize filename
	name = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, name)

	var buf bytes.Buffer
	if err := RenderPlan(&buf, doc, opts); err != nil {
		slog.Error("render floor plan", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	slog.Info("floor plan exported", "project", doc.Project.ID, "placements", len(doc.Placements), "bytes", buf.Len())

	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.svg"`, name))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Write(buf.Bytes())
}
