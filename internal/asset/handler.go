package asset

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/floorline/floorline/backend-go/internal/scene"
	"github.com/floorline/floorline/backend-go/internal/typeid"
)

const maxUploadSize = 32 << 20 // 32MB

// UploadResponse is returned from the upload endpoint. Footprint and
// clips are extracted from the model so the client can register it in
// the catalog without a second round trip.
type UploadResponse struct {
	ID        string       `json:"id"`
	URL       string       `json:"url"`
	Name      string       `json:"name"`
	Footprint scene.Size3  `json:"footprint"`
	Clips     []scene.Clip `json:"clips,omitempty"`
}

// Handler serves model upload and retrieval endpoints.
type Handler struct {
	dir string // directory to store model files
}

// NewHandler creates a new asset handler that stores files in dir.
func NewHandler(dir string) *Handler {
	// Ensure directory exists
	if err := os.MkdirAll(dir, 0755); err != nil {
		slog.Error("create asset dir", "error", err, "dir", dir)
	}
	return &Handler{dir: dir}
}

// Upload handles POST /assets/upload (multipart form with "file" field).
// Only binary glTF (.glb) models are accepted.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "file too large (max 32MB)", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file field", http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	isGLB := strings.EqualFold(filepath.Ext(header.Filename), ".glb") ||
		strings.HasPrefix(contentType, "model/gltf-binary")
	if !isGLB {
		http.Error(w, "only binary glTF (.glb) models are supported", http.StatusBadRequest)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		http.Error(w, "failed to read file", http.StatusBadRequest)
		return
	}

	info, err := InspectGLB(bytes.NewReader(data))
	if err != nil {
		http.Error(w, "invalid glb: "+err.Error(), http.StatusBadRequest)
		return
	}

	assetID := typeid.NewAssetID()
	filename := assetID + ".glb"
	filePath := filepath.Join(h.dir, filename)

	if err := os.WriteFile(filePath, data, 0644); err != nil {
		slog.Error("write asset file", "error", err)
		http.Error(w, "failed to save file", http.StatusInternalServerError)
		return
	}

	resp := UploadResponse{
		ID:        assetID,
		URL:       fmt.Sprintf("/assets/%s", filename),
		Name:      header.Filename,
		Footprint: info.Footprint,
		Clips:     info.Clips,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Serve returns an http.Handler that serves stored model files with caching headers.
func (h *Handler) Serve() http.Handler {
	fs := http.FileServer(http.Dir(h.dir))
	return http.StripPrefix("/assets/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, ".glb") {
			w.Header().Set("Content-Type", "model/gltf-binary")
		}
		// Asset IDs are unique, so files are immutable
		w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		fs.ServeHTTP(w, r)
	}))
}

// Delete removes a model file from disk (for cleanup).
func (h *Handler) Delete(assetID string) error {
	path := filepath.Join(h.dir, assetID+".glb")
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("asset not found: %s", assetID)
	}
	return nil
}
