package document

import (
	"github.com/floorline/floorline/backend-go/internal/scene"
)

// LayoutDocument is the persisted form of one facility layout: the
// floor configuration, the model library the layout draws from, and
// the placed equipment. It is self-contained; loading needs nothing
// beyond the document itself.
type LayoutDocument struct {
	Project    Project          `json:"project"`
	Floor      Floor            `json:"floor"`
	Models     map[string]Model `json:"models"`
	Placements []Placement      `json:"placements"`
}

type Project struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// Floor describes the walkable plane. Width runs along X, Depth along
// Z, both in meters; the placement boundary is the floor rectangle
// centered on the origin.
type Floor struct {
	Width             float64 `json:"width"`
	Depth             float64 `json:"depth"`
	GridSnapSize      float64 `json:"gridSnapSize"`
	GridSnapEnabled   bool    `json:"gridSnapEnabled,omitempty"`
	CollisionDisabled bool    `json:"collisionDisabled,omitempty"`
}

// Boundary derives the legal placement rectangle. A floor without
// positive dimensions yields the zero boundary, which disables
// clamping.
func (f Floor) Boundary() scene.Boundary {
	if f.Width <= 0 || f.Depth <= 0 {
		return scene.Boundary{}
	}
	return scene.CenteredBoundary(f.Width, f.Depth)
}

// Model is one entry of the layout's model library: the renderable
// asset plus the footprint and clips the spatial core needs.
type Model struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	URL       string       `json:"url"`
	Footprint scene.Size3  `json:"footprint"`
	Clips     []scene.Clip `json:"clips,omitempty"`
}

// Placement is one placed piece of equipment. Objects sit on the
// floor, so only the X and Z coordinates are stored.
type Placement struct {
	Name        string  `json:"name"`
	ModelID     string  `json:"modelId"`
	X           float64 `json:"x"`
	Z           float64 `json:"z"`
	RotationDeg float64 `json:"rotationDeg,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Pinned      bool    `json:"pinned,omitempty"`
	ActiveClip  string  `json:"activeClip,omitempty"`
}

// Default floor for fresh projects.
const (
	DefaultFloorWidth   = 20.0
	DefaultFloorDepth   = 15.0
	DefaultGridSnapSize = 0.5
)

// NewEmptyDocument creates an empty layout for a new project.
// Timestamps are set by the caller.
func NewEmptyDocument(projectID, projectName string) *LayoutDocument {
	return &LayoutDocument{
		Project: Project{
			ID:      projectID,
			Name:    projectName,
			Version: 1,
		},
		Floor: Floor{
			Width:        DefaultFloorWidth,
			Depth:        DefaultFloorDepth,
			GridSnapSize: DefaultGridSnapSize,
		},
		Models:     map[string]Model{},
		Placements: []Placement{},
	}
}

// Hydrate replays the document into the engine: floor configuration
// first, then every placement as one batch sharing a single first
// collision pass, so overlaps saved in the document come back as
// tolerated pairs. Placements referencing a missing model are
// dropped.
func Hydrate(d *LayoutDocument, eng *scene.Engine) []*scene.Object {
	eng.Clear()
	eng.SetBoundary(d.Floor.Boundary())
	eng.SetGridSnap(d.Floor.GridSnapEnabled, d.Floor.GridSnapSize)
	eng.SetCollisionEnabled(!d.Floor.CollisionDisabled)

	reqs := make([]scene.PlaceRequest, 0, len(d.Placements))
	for _, p := range d.Placements {
		m, ok := d.Models[p.ModelID]
		if !ok {
			continue
		}
		reqs = append(reqs, scene.PlaceRequest{
			Name:        p.Name,
			ModelID:     p.ModelID,
			Footprint:   m.Footprint,
			Position:    &scene.Vec3{X: p.X, Z: p.Z},
			RotationDeg: p.RotationDeg,
			Scale:       p.Scale,
			Pinned:      p.Pinned,
			Clips:       m.Clips,
			ActiveClip:  p.ActiveClip,
		})
	}
	return eng.PlaceAll(reqs)
}

// SyncPlacements replaces the document's placements with the engine's
// current objects, in scene order. Floor and model entries are left
// alone; callers keep those in step through their own operations.
func (d *LayoutDocument) SyncPlacements(eng *scene.Engine) {
	states := eng.State()
	placements := make([]Placement, len(states))
	for i, st := range states {
		placements[i] = Placement{
			Name:        st.Name,
			ModelID:     st.ModelID,
			X:           st.Position.X,
			Z:           st.Position.Z,
			RotationDeg: st.RotationDeg,
			Scale:       st.Scale,
			Pinned:      !st.Draggable,
			ActiveClip:  st.ActiveClip,
		}
	}
	d.Placements = placements
}
