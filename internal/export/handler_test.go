package export

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floorline/floorline/backend-go/internal/document"
	"github.com/floorline/floorline/backend-go/internal/scene"
)

func planDocument() *document.LayoutDocument {
	return &document.LayoutDocument{
		Project: document.Project{ID: "proj_01h455vb4pex5vsknk084sn02q", Name: "A&B <Plant>"},
		Floor:   document.Floor{Width: 10, Depth: 8, GridSnapSize: 0.5, GridSnapEnabled: true},
		Models: map[string]document.Model{
			"model_rack": {
				ID:        "model_rack",
				Name:      "Pallet Rack",
				Footprint: scene.Size3{Width: 2, Height: 3, Depth: 1},
			},
			"model_column": {
				ID:        "model_column",
				Name:      "Support Column",
				Footprint: scene.Size3{Width: 0.4, Height: 4, Depth: 0.4},
			},
		},
		Placements: []document.Placement{
			{Name: "Rack A", ModelID: "model_rack", X: -2, Z: 0},
			{Name: "Rack B", ModelID: "model_rack", X: -2, Z: 0.5},
			{Name: "Column", ModelID: "model_column", X: 3, Z: 2, Pinned: true},
		},
	}
}

func TestRenderPlan(t *testing.T) {
	t.Run("draws floor, objects, and labels", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderPlan(&buf, planDocument(), DefaultPlanOptions()))
		svg := buf.String()

		assert.Contains(t, svg, `<svg xmlns="http://www.w3.org/2000/svg"`)
		assert.Contains(t, svg, "<title>A&amp;B &lt;Plant&gt;</title>")
		// One rect for the floor and one per placement.
		assert.Equal(t, 4, strings.Count(svg, "<rect "))
		// The two racks overlap, so they render in the collision color.
		assert.Contains(t, svg, fillOverlap)
		// The pinned column renders in the pinned color.
		assert.Contains(t, svg, fillPinned)
		assert.Contains(t, svg, ">Rack A</text>")
		assert.Contains(t, svg, ">Column</text>")
		assert.Contains(t, svg, "1 m")
	})

	t.Run("grid follows snap size", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderPlan(&buf, planDocument(), DefaultPlanOptions()))
		// 10m wide at 0.5m steps leaves 19 interior vertical lines and
		// 8m deep leaves 15 horizontal ones; 3 heading ticks and the
		// scale bar account for the rest.
		assert.Equal(t, 34+3+1, strings.Count(buf.String(), "<line "))
	})

	t.Run("grid can be turned off", func(t *testing.T) {
		opts := DefaultPlanOptions()
		opts.Grid = false
		var buf bytes.Buffer
		require.NoError(t, RenderPlan(&buf, planDocument(), opts))
		assert.NotContains(t, buf.String(), strokeGrid)
	})

	t.Run("empty document falls back to the default floor", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, RenderPlan(&buf, &document.LayoutDocument{}, DefaultPlanOptions()))
		assert.Contains(t, buf.String(), `<svg xmlns`)
	})
}

func exportRequest(t *testing.T, target string, doc *document.LayoutDocument) *http.Request {
	t.Helper()
	body, err := json.Marshal(doc)
	require.NoError(t, err)
	return httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
}

func TestExportPlan(t *testing.T) {
	h := NewHandler(nil)

	t.Run("returns an svg attachment", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ExportPlan(rec, exportRequest(t, "/export/floorplan", planDocument()))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="A-B--Plant-.svg"`, rec.Header().Get("Content-Disposition"))
		assert.Contains(t, rec.Body.String(), "</svg>")
	})

	t.Run("rejects malformed documents", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/export/floorplan", strings.NewReader("{not json"))
		h.ExportPlan(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects unknown formats", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ExportPlan(rec, exportRequest(t, "/export/floorplan?format=pdf", planDocument()))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects out-of-range scale", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ExportPlan(rec, exportRequest(t, "/export/floorplan?scale=1000", planDocument()))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unnamed projects download as floorplan.svg", func(t *testing.T) {
		doc := planDocument()
		doc.Project.Name = ""
		rec := httptest.NewRecorder()
		h.ExportPlan(rec, exportRequest(t, "/export/floorplan", doc))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, `attachment; filename="floorplan.svg"`, rec.Header().Get("Content-Disposition"))
	})
}

func TestExportProjectPlan(t *testing.T) {
	const knownID = "proj_01h455vb4pex5vsknk084sn02q"
	h := NewHandler(func(ctx context.Context, projectID string) (*document.LayoutDocument, error) {
		if projectID != knownID {
			return nil, errors.New("no such project")
		}
		return planDocument(), nil
	})

	t.Run("renders the latest snapshot", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/floorplan/"+knownID, nil)
		req = mux.SetURLVars(req, map[string]string{"projectId": knownID})
		rec := httptest.NewRecorder()
		h.ExportProjectPlan(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "image/svg+xml", rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "</svg>")
	})

	t.Run("unknown projects are 404", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/export/floorplan/proj_gone", nil)
		req = mux.SetURLVars(req, map[string]string{"projectId": "proj_gone"})
		rec := httptest.NewRecorder()
		h.ExportProjectPlan(rec, req)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}
