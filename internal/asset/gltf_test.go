package asset

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const forkliftDoc = `{
	"asset": {"version": "2.0"},
	"meshes": [
		{"primitives": [{"attributes": {"POSITION": 0}}]},
		{"primitives": [{"attributes": {"POSITION": 1}}]}
	],
	"accessors": [
		{"min": [-1.1, 0.0, -0.6], "max": [1.1, 1.4, 0.6]},
		{"min": [-0.5, 1.4, -0.5], "max": [0.5, 2.1, 0.5]},
		{"min": [0.0], "max": [1.25]},
		{"min": [0.0], "max": [0.75]}
	],
	"animations": [
		{"name": "Drive", "samplers": [{"input": 2}]},
		{"name": "", "samplers": [{"input": 3}]}
	]
}`

// buildGLB wraps a glTF JSON document in a minimal GLB container.
func buildGLB(t *testing.T, doc string) []byte {
	t.Helper()
	raw := []byte(doc)
	for len(raw)%4 != 0 {
		raw = append(raw, ' ')
	}
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint32(glbMagic))
	binary.Write(&buf, binary.LittleEndian, uint32(2))
	binary.Write(&buf, binary.LittleEndian, uint32(12+8+len(raw)))
	binary.Write(&buf, binary.LittleEndian, uint32(len(raw)))
	binary.Write(&buf, binary.LittleEndian, uint32(glbChunkJSON))
	buf.Write(raw)
	return buf.Bytes()
}

func TestInspectGLB(t *testing.T) {
	t.Run("extracts footprint and clips", func(t *testing.T) {
		info, err := InspectGLB(bytes.NewReader(buildGLB(t, forkliftDoc)))
		require.NoError(t, err)

		// Union of the two mesh bounds.
		assert.InDelta(t, 2.2, info.Footprint.Width, 1e-9)
		assert.InDelta(t, 2.1, info.Footprint.Height, 1e-9)
		assert.InDelta(t, 1.2, info.Footprint.Depth, 1e-9)

		require.Len(t, info.Clips, 2)
		assert.Equal(t, "Drive", info.Clips[0].Name)
		assert.InDelta(t, 1.25, info.Clips[0].Duration, 1e-9)
		assert.Equal(t, "clip_1", info.Clips[1].Name)
		assert.InDelta(t, 0.75, info.Clips[1].Duration, 1e-9)
	})

	t.Run("static model has no clips", func(t *testing.T) {
		doc := `{
			"meshes": [{"primitives": [{"attributes": {"POSITION": 0}}]}],
			"accessors": [{"min": [0, 0, 0], "max": [2.4, 3.0, 0.9]}]
		}`
		info, err := InspectGLB(bytes.NewReader(buildGLB(t, doc)))
		require.NoError(t, err)
		assert.InDelta(t, 2.4, info.Footprint.Width, 1e-9)
		assert.Empty(t, info.Clips)
	})

	t.Run("rejects wrong magic", func(t *testing.T) {
		_, err := InspectGLB(strings.NewReader("PNG\x00 definitely not a model"))
		require.ErrorIs(t, err, ErrNotGLB)
	})

	t.Run("rejects truncated file", func(t *testing.T) {
		glb := buildGLB(t, forkliftDoc)
		_, err := InspectGLB(bytes.NewReader(glb[:20]))
		require.Error(t, err)
	})

	t.Run("rejects unsupported version", func(t *testing.T) {
		glb := buildGLB(t, forkliftDoc)
		binary.LittleEndian.PutUint32(glb[4:8], 1)
		_, err := InspectGLB(bytes.NewReader(glb))
		require.Error(t, err)
	})
}

func uploadRequest(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/assets/upload", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUpload(t *testing.T) {
	t.Run("stores glb and returns metadata", func(t *testing.T) {
		h := NewHandler(t.TempDir())
		rec := httptest.NewRecorder()
		h.Upload(rec, uploadRequest(t, "forklift.glb", buildGLB(t, forkliftDoc)))

		require.Equal(t, http.StatusOK, rec.Code)
		var resp UploadResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.True(t, strings.HasPrefix(resp.ID, "asset_"), "id %q should carry the asset prefix", resp.ID)
		assert.Equal(t, "/assets/"+resp.ID+".glb", resp.URL)
		assert.Equal(t, "forklift.glb", resp.Name)
		assert.InDelta(t, 2.2, resp.Footprint.Width, 1e-9)
		require.Len(t, resp.Clips, 2)
		assert.Equal(t, "Drive", resp.Clips[0].Name)
	})

	t.Run("rejects non-model uploads", func(t *testing.T) {
		h := NewHandler(t.TempDir())
		rec := httptest.NewRecorder()
		h.Upload(rec, uploadRequest(t, "photo.png", []byte("not a model")))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("rejects corrupt glb", func(t *testing.T) {
		h := NewHandler(t.TempDir())
		rec := httptest.NewRecorder()
		h.Upload(rec, uploadRequest(t, "broken.glb", []byte("glTF but not really")))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
