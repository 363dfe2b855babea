package document

import (
	"time"

	"github.com/floorline/floorline/backend-go/internal/scene"
	"github.com/floorline/floorline/backend-go/internal/typeid"
)

// NewSampleDocument builds the starter layout new users land in: a
// small warehouse corner with racking, a running conveyor, a pallet
// and a pinned support column.
func NewSampleDocument(projectID string) *LayoutDocument {
	now := time.Now().UTC().Format(time.RFC3339)

	rackID := typeid.NewModelID()
	conveyorID := typeid.NewModelID()
	palletID := typeid.NewModelID()
	forkliftID := typeid.NewModelID()
	columnID := typeid.NewModelID()

	return &LayoutDocument{
		Project: Project{
			ID:        projectID,
			Name:      "Untitled",
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
		Floor: Floor{
			Width:        DefaultFloorWidth,
			Depth:        DefaultFloorDepth,
			GridSnapSize: DefaultGridSnapSize,
		},
		Models: map[string]Model{
			rackID: {
				ID:        rackID,
				Name:      "Pallet rack",
				URL:       "/assets/builtin/pallet-rack.glb",
				Footprint: scene.Size3{Width: 2.4, Height: 3.0, Depth: 0.9},
			},
			conveyorID: {
				ID:        conveyorID,
				Name:      "Belt conveyor",
				URL:       "/assets/builtin/belt-conveyor.glb",
				Footprint: scene.Size3{Width: 6.0, Height: 1.1, Depth: 0.8},
				Clips: []scene.Clip{
					{Name: "Run", Duration: 2, Loop: true},
				},
			},
			palletID: {
				ID:        palletID,
				Name:      "Loaded pallet",
				URL:       "/assets/builtin/loaded-pallet.glb",
				Footprint: scene.Size3{Width: 1.2, Height: 1.5, Depth: 1.0},
			},
			forkliftID: {
				ID:        forkliftID,
				Name:      "Forklift",
				URL:       "/assets/builtin/forklift.glb",
				Footprint: scene.Size3{Width: 1.2, Height: 2.1, Depth: 2.3},
				Clips: []scene.Clip{
					{Name: "Drive", Duration: 3, Loop: true},
					{Name: "Lift", Duration: 1.5},
				},
			},
			columnID: {
				ID:        columnID,
				Name:      "Support column",
				URL:       "/assets/builtin/support-column.glb",
				Footprint: scene.Size3{Width: 0.4, Height: 4.0, Depth: 0.4},
			},
		},
		Placements: []Placement{
			{Name: "Rack A1", ModelID: rackID, X: -7, Z: -6},
			{Name: "Rack A2", ModelID: rackID, X: -4.4, Z: -6},
			{Name: "Rack A3", ModelID: rackID, X: -1.8, Z: -6},
			{Name: "Inbound conveyor", ModelID: conveyorID, X: 0, Z: 3, ActiveClip: "Run"},
			{Name: "Pallet 17", ModelID: palletID, X: 4, Z: -4},
			{Name: "Forklift 2", ModelID: forkliftID, X: 6, Z: 0, RotationDeg: 90},
			{Name: "Column B", ModelID: columnID, X: 8, Z: -5, Pinned: true},
		},
	}
}
