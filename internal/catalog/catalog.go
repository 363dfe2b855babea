// Package catalog holds the equipment library the editor places from:
// for each model, the renderable asset URL plus the footprint and
// animation clips the spatial engine needs. Deployments can override
// the built-in library with a YAML or JSON file.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/floorline/floorline/backend-go/internal/scene"
)

// Catalog is an ordered list of placeable models.
type Catalog struct {
	Models []Entry `json:"models" yaml:"models"`
}

// Entry describes one placeable model. Footprint dimensions are
// meters. Pinned entries (columns, walls) place as non-draggable.
type Entry struct {
	ID        string       `json:"id" yaml:"id"`
	Name      string       `json:"name" yaml:"name"`
	Category  string       `json:"category,omitempty" yaml:"category,omitempty"`
	URL       string       `json:"url" yaml:"url"`
	Footprint scene.Size3  `json:"footprint" yaml:"footprint"`
	Clips     []scene.Clip `json:"clips,omitempty" yaml:"clips,omitempty"`
	Pinned    bool         `json:"pinned,omitempty" yaml:"pinned,omitempty"`
}

// LoadJSON reads a catalog from JSON.
func LoadJSON(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := json.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadYAML reads a catalog from YAML.
func LoadYAML(r io.Reader) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadFile reads a catalog file, picking the format from the
// extension. Anything but .yaml/.yml parses as JSON.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return LoadYAML(f)
	default:
		return LoadJSON(f)
	}
}

// Validate checks that every entry is usable: unique non-empty IDs,
// names, and a positive footprint.
func (c *Catalog) Validate() error {
	seen := make(map[string]struct{}, len(c.Models))
	for i, e := range c.Models {
		if e.ID == "" {
			return fmt.Errorf("model %d: missing id", i)
		}
		if _, dup := seen[e.ID]; dup {
			return fmt.Errorf("model %q: duplicate id", e.ID)
		}
		seen[e.ID] = struct{}{}
		if e.Name == "" {
			return fmt.Errorf("model %q: missing name", e.ID)
		}
		if !e.Footprint.IsValid() {
			return fmt.Errorf("model %q: footprint dimensions must be positive", e.ID)
		}
		for _, clip := range e.Clips {
			if clip.Name == "" {
				return fmt.Errorf("model %q: clip with empty name", e.ID)
			}
			if clip.Duration <= 0 {
				return fmt.Errorf("model %q: clip %q needs a positive duration", e.ID, clip.Name)
			}
		}
	}
	return nil
}

// Get returns the entry with the given ID.
func (c *Catalog) Get(id string) (Entry, bool) {
	for _, e := range c.Models {
		if e.ID == id {
			return e, true
		}
	}
	return Entry{}, false
}

// Default returns the built-in equipment library used when no catalog
// file is configured.
func Default() *Catalog {
	return &Catalog{Models: []Entry{
		{
			ID:        "pallet-rack",
			Name:      "Pallet rack",
			Category:  "storage",
			URL:       "/assets/builtin/pallet-rack.glb",
			Footprint: scene.Size3{Width: 2.4, Height: 3.0, Depth: 0.9},
		},
		{
			ID:        "wide-shelf",
			Name:      "Wide shelf",
			Category:  "storage",
			URL:       "/assets/builtin/wide-shelf.glb",
			Footprint: scene.Size3{Width: 3.6, Height: 2.2, Depth: 0.6},
		},
		{
			ID:        "belt-conveyor",
			Name:      "Belt conveyor",
			Category:  "transport",
			URL:       "/assets/builtin/belt-conveyor.glb",
			Footprint: scene.Size3{Width: 6.0, Height: 1.1, Depth: 0.8},
			Clips: []scene.Clip{
				{Name: "Run", Duration: 2, Loop: true},
			},
		},
		{
			ID:        "roller-curve",
			Name:      "Roller curve 90",
			Category:  "transport",
			URL:       "/assets/builtin/roller-curve.glb",
			Footprint: scene.Size3{Width: 1.8, Height: 1.0, Depth: 1.8},
		},
		{
			ID:        "forklift",
			Name:      "Forklift",
			Category:  "vehicles",
			URL:       "/assets/builtin/forklift.glb",
			Footprint: scene.Size3{Width: 1.2, Height: 2.1, Depth: 2.3},
			Clips: []scene.Clip{
				{Name: "Drive", Duration: 3, Loop: true},
				{Name: "Lift", Duration: 1.5},
			},
		},
		{
			ID:        "loaded-pallet",
			Name:      "Loaded pallet",
			Category:  "goods",
			URL:       "/assets/builtin/loaded-pallet.glb",
			Footprint: scene.Size3{Width: 1.2, Height: 1.5, Depth: 1.0},
		},
		{
			ID:        "packing-table",
			Name:      "Packing table",
			Category:  "workstations",
			URL:       "/assets/builtin/packing-table.glb",
			Footprint: scene.Size3{Width: 1.8, Height: 1.0, Depth: 0.9},
		},
		{
			ID:        "support-column",
			Name:      "Support column",
			Category:  "structure",
			URL:       "/assets/builtin/support-column.glb",
			Footprint: scene.Size3{Width: 0.4, Height: 4.0, Depth: 0.4},
			Pinned:    true,
		},
		{
			ID:        "safety-fence",
			Name:      "Safety fence",
			Category:  "structure",
			URL:       "/assets/builtin/safety-fence.glb",
			Footprint: scene.Size3{Width: 2.0, Height: 1.2, Depth: 0.1},
			Pinned:    true,
		},
	}}
}
