package asset

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/floorline/floorline/backend-go/internal/scene"
)

const (
	glbMagic     = 0x46546C67 // "glTF"
	glbChunkJSON = 0x4E4F534A // "JSON"
)

// ErrNotGLB is returned when the uploaded bytes do not start with a GLB header.
var ErrNotGLB = errors.New("not a binary glTF file")

// ModelInfo holds the placement metadata extracted from a model file:
// the axis-aligned extent of its geometry and any embedded animations.
type ModelInfo struct {
	Footprint scene.Size3  `json:"footprint"`
	Clips     []scene.Clip `json:"clips,omitempty"`
}

// gltfDocument covers the slice of the glTF 2.0 schema we inspect.
// Accessor min/max are mandatory for POSITION attributes, so bounds
// are available without decoding the binary buffer chunk.
type gltfDocument struct {
	Meshes []struct {
		Primitives []struct {
			Attributes map[string]int `json:"attributes"`
		} `json:"primitives"`
	} `json:"meshes"`
	Accessors []struct {
		Min []float64 `json:"min"`
		Max []float64 `json:"max"`
	} `json:"accessors"`
	Animations []struct {
		Name     string `json:"name"`
		Samplers []struct {
			Input int `json:"input"`
		} `json:"samplers"`
	} `json:"animations"`
}

// InspectGLB reads the header and JSON chunk of a GLB container and
// extracts the model's bounding size and animation clips.
func InspectGLB(r io.Reader) (*ModelInfo, error) {
	var header struct {
		Magic   uint32
		Version uint32
		Length  uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read glb header: %w", err)
	}
	if header.Magic != glbMagic {
		return nil, ErrNotGLB
	}
	if header.Version != 2 {
		return nil, fmt.Errorf("unsupported glb version %d", header.Version)
	}

	var chunk struct {
		Length uint32
		Type   uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
		return nil, fmt.Errorf("read glb chunk header: %w", err)
	}
	if chunk.Type != glbChunkJSON {
		return nil, errors.New("glb: first chunk is not JSON")
	}
	if chunk.Length > maxUploadSize {
		return nil, fmt.Errorf("glb: json chunk too large (%d bytes)", chunk.Length)
	}

	raw := make([]byte, chunk.Length)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, fmt.Errorf("read glb json chunk: %w", err)
	}
	return inspectJSON(raw)
}

func inspectJSON(raw []byte) (*ModelInfo, error) {
	var doc gltfDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse gltf json: %w", err)
	}

	info := &ModelInfo{}

	var bounds scene.Box3
	found := false
	for _, mesh := range doc.Meshes {
		for _, prim := range mesh.Primitives {
			idx, ok := prim.Attributes["POSITION"]
			if !ok || idx < 0 || idx >= len(doc.Accessors) {
				continue
			}
			acc := doc.Accessors[idx]
			if len(acc.Min) < 3 || len(acc.Max) < 3 {
				continue
			}
			box := scene.Box3{
				Min: scene.Vec3{X: acc.Min[0], Y: acc.Min[1], Z: acc.Min[2]},
				Max: scene.Vec3{X: acc.Max[0], Y: acc.Max[1], Z: acc.Max[2]},
			}
			if !found {
				bounds = box
			} else {
				bounds = bounds.Union(box)
			}
			found = true
		}
	}
	if found {
		info.Footprint = bounds.Size()
	}

	// Clip duration is the largest keyframe time across the animation's
	// samplers, read from the input accessor's max.
	for i, anim := range doc.Animations {
		name := anim.Name
		if name == "" {
			name = fmt.Sprintf("clip_%d", i)
		}
		var duration float64
		for _, s := range anim.Samplers {
			if s.Input < 0 || s.Input >= len(doc.Accessors) {
				continue
			}
			in := doc.Accessors[s.Input]
			if len(in.Max) > 0 && in.Max[0] > duration {
				duration = in.Max[0]
			}
		}
		info.Clips = append(info.Clips, scene.Clip{Name: name, Duration: duration})
	}

	return info, nil
}
