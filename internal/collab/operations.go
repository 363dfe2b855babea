package collab

import (
	"errors"
	"fmt"
	"sync"

	"github.com/floorline/floorline/backend-go/internal/document"
	"github.com/floorline/floorline/backend-go/internal/scene"
)

// Rejection reasons carried in op.nack messages.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrModelNotFound  = errors.New("model not found")
	ErrRejected       = errors.New("constraints rejected the change")
	ErrInvalidOp      = errors.New("invalid operation")
)

// ApplyResult reports what an accepted operation did to the room.
type ApplyResult struct {
	ServerSeq int64
	// Object is the post-operation state of the affected object, nil
	// for room-wide operations.
	Object *scene.ObjectState
	// Events are the scene notifications the operation caused, in
	// emission order. Rejected operations produce none.
	Events []scene.Event
}

// RoomState holds the authoritative layout for one room. The scene
// engine owns the placed objects; the document tracks the floor and
// model-library configuration and has its placements synced back from
// the engine when a snapshot is taken.
type RoomState struct {
	mu        sync.Mutex
	doc       *document.LayoutDocument
	eng       *scene.Engine
	serverSeq int64
	opLog     []Operation
	events    []scene.Event
	dirty     bool
}

// NewRoomState hydrates a room from a saved document. A nil document
// starts the room on an empty default floor.
func NewRoomState(doc *document.LayoutDocument) *RoomState {
	if doc == nil {
		doc = document.NewEmptyDocument("", "")
	}
	rs := &RoomState{doc: doc, eng: scene.NewEngine()}
	rs.eng.Subscribe(scene.SinkFunc(func(e scene.Event) {
		rs.events = append(rs.events, e)
	}))
	document.Hydrate(doc, rs.eng)
	// Hydration events belong to no operation.
	rs.events = nil
	return rs
}

// Apply runs one operation against the room. On success the server
// sequence advances and the operation is appended to the log; on
// rejection the room is untouched and the error names the reason.
func (rs *RoomState) Apply(op Operation) (*ApplyResult, error) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.events = nil
	objID := op.ObjectID

	var err error
	switch op.Type {
	case OpObjectPlace:
		objID, err = rs.applyPlace(op)
	case OpObjectMove:
		err = rs.applyMove(op)
	case OpObjectNudge:
		err = rs.applyNudge(op)
	case OpObjectRotate:
		err = rs.applyRotate(op)
	case OpObjectScale:
		err = rs.applyScale(op)
	case OpObjectClip:
		err = rs.applyClip(op)
	case OpObjectRemove:
		err = rs.applyRemove(op)
	case OpModelAdd:
		err = rs.applyModelAdd(op)
	case OpSceneClear:
		rs.eng.Clear()
	case OpFloorResize:
		err = rs.applyFloorResize(op)
	case OpSnapSet:
		err = rs.applySnapSet(op)
	case OpCollisionSet:
		err = rs.applyCollisionSet(op)
	case OpProjectRename:
		rs.doc.Project.Name = op.Name
	default:
		err = fmt.Errorf("%w: unknown type %q", ErrInvalidOp, op.Type)
	}
	if err != nil {
		rs.events = nil
		return nil, err
	}

	var state *scene.ObjectState
	if objID != 0 {
		if st, ok := rs.eng.Get(objID); ok {
			state = &st
		}
	}

	rs.serverSeq++
	rs.opLog = append(rs.opLog, op)
	rs.dirty = true

	events := rs.events
	rs.events = nil
	return &ApplyResult{ServerSeq: rs.serverSeq, Object: state, Events: events}, nil
}

func (rs *RoomState) applyPlace(op Operation) (scene.ObjectID, error) {
	p := op.Place
	if p == nil {
		return 0, fmt.Errorf("%w: missing place payload", ErrInvalidOp)
	}
	model, ok := rs.doc.Models[p.ModelID]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrModelNotFound, p.ModelID)
	}

	req := scene.PlaceRequest{
		Name:        p.Name,
		ModelID:     model.ID,
		Footprint:   model.Footprint,
		RotationDeg: p.RotationDeg,
		Scale:       p.Scale,
		Pinned:      p.Pinned,
		Clips:       model.Clips,
		ActiveClip:  p.ActiveClip,
	}
	if req.Name == "" {
		req.Name = model.Name
	}
	if p.X != nil && p.Z != nil {
		req.Position = &scene.Vec3{X: *p.X, Z: *p.Z}
	}

	obj, ok := rs.eng.Place(req)
	if !ok {
		return 0, fmt.Errorf("%w: place %s", ErrRejected, p.ModelID)
	}
	return obj.ID, nil
}

func (rs *RoomState) applyMove(op Operation) error {
	m := op.Move
	if m == nil {
		return fmt.Errorf("%w: missing move payload", ErrInvalidOp)
	}
	if err := rs.requireObject(op.ObjectID); err != nil {
		return err
	}

	var ok bool
	switch {
	case m.X != nil && m.Z != nil:
		ok = rs.eng.MoveExact(op.ObjectID, *m.X, *m.Z)
	case m.X != nil:
		ok = rs.eng.SetAxisPosition(op.ObjectID, scene.AxisX, *m.X)
	case m.Z != nil:
		ok = rs.eng.SetAxisPosition(op.ObjectID, scene.AxisZ, *m.Z)
	default:
		return fmt.Errorf("%w: move needs x or z", ErrInvalidOp)
	}
	if !ok {
		return fmt.Errorf("%w: move object %d", ErrRejected, op.ObjectID)
	}
	return nil
}

func (rs *RoomState) applyNudge(op Operation) error {
	n := op.Nudge
	if n == nil {
		return fmt.Errorf("%w: missing nudge payload", ErrInvalidOp)
	}
	if err := rs.requireObject(op.ObjectID); err != nil {
		return err
	}
	if !rs.eng.NudgeObject(op.ObjectID, n.DX, n.DZ) {
		return fmt.Errorf("%w: nudge object %d", ErrRejected, op.ObjectID)
	}
	return nil
}

func (rs *RoomState) applyRotate(op Operation) error {
	if op.Rotation == nil {
		return fmt.Errorf("%w: missing rotation", ErrInvalidOp)
	}
	if err := rs.requireObject(op.ObjectID); err != nil {
		return err
	}
	if !rs.eng.RotateObject(op.ObjectID, *op.Rotation) {
		return fmt.Errorf("%w: rotate object %d", ErrRejected, op.ObjectID)
	}
	return nil
}

func (rs *RoomState) applyScale(op Operation) error {
	if op.Scale == nil {
		return fmt.Errorf("%w: missing scale", ErrInvalidOp)
	}
	if err := rs.requireObject(op.ObjectID); err != nil {
		return err
	}
	if !rs.eng.ScaleObject(op.ObjectID, *op.Scale) {
		return fmt.Errorf("%w: scale object %d", ErrRejected, op.ObjectID)
	}
	return nil
}

func (rs *RoomState) applyClip(op Operation) error {
	c := op.Clip
	if c == nil {
		return fmt.Errorf("%w: missing clip payload", ErrInvalidOp)
	}
	if err := rs.requireObject(op.ObjectID); err != nil {
		return err
	}
	if !rs.eng.SetClip(op.ObjectID, c.Name) {
		return fmt.Errorf("%w: clip %q on object %d", ErrRejected, c.Name, op.ObjectID)
	}
	rs.eng.SetClipPlaying(op.ObjectID, c.Playing)
	return nil
}

func (rs *RoomState) applyRemove(op Operation) error {
	if !rs.eng.Remove(op.ObjectID) {
		return fmt.Errorf("%w: %d", ErrObjectNotFound, op.ObjectID)
	}
	return nil
}

func (rs *RoomState) applyModelAdd(op Operation) error {
	m := op.Model
	if m == nil || m.ID == "" || !m.Footprint.IsValid() {
		return fmt.Errorf("%w: model needs an id and a positive footprint", ErrInvalidOp)
	}
	if rs.doc.Models == nil {
		rs.doc.Models = map[string]document.Model{}
	}
	rs.doc.Models[m.ID] = *m
	return nil
}

func (rs *RoomState) applyFloorResize(op Operation) error {
	f := op.Floor
	if f == nil || f.Width <= 0 || f.Depth <= 0 {
		return fmt.Errorf("%w: floor needs positive dimensions", ErrInvalidOp)
	}
	rs.doc.Floor.Width = f.Width
	rs.doc.Floor.Depth = f.Depth
	rs.eng.SetBoundary(rs.doc.Floor.Boundary())
	return nil
}

func (rs *RoomState) applySnapSet(op Operation) error {
	s := op.Snap
	if s == nil {
		return fmt.Errorf("%w: missing snap payload", ErrInvalidOp)
	}
	rs.doc.Floor.GridSnapEnabled = s.Enabled && s.Size > 0
	if s.Size > 0 {
		rs.doc.Floor.GridSnapSize = s.Size
	}
	rs.eng.SetGridSnap(s.Enabled, rs.doc.Floor.GridSnapSize)
	return nil
}

func (rs *RoomState) applyCollisionSet(op Operation) error {
	c := op.Collision
	if c == nil {
		return fmt.Errorf("%w: missing collision payload", ErrInvalidOp)
	}
	rs.doc.Floor.CollisionDisabled = !c.Enabled
	rs.eng.SetCollisionEnabled(c.Enabled)
	return nil
}

func (rs *RoomState) requireObject(id scene.ObjectID) error {
	if _, ok := rs.eng.Get(id); !ok {
		return fmt.Errorf("%w: %d", ErrObjectNotFound, id)
	}
	return nil
}

// ServerSeq returns the sequence number of the last accepted operation.
func (rs *RoomState) ServerSeq() int64 {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.serverSeq
}

// Snapshot syncs placements from the engine into the document and
// returns it. Callers marshal the result without mutating it.
func (rs *RoomState) Snapshot() *document.LayoutDocument {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.doc.SyncPlacements(rs.eng)
	return rs.doc
}

// Dirty reports whether operations were accepted since the last save.
func (rs *RoomState) Dirty() bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return rs.dirty
}

// ClearDirty marks the current state as saved.
func (rs *RoomState) ClearDirty() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.dirty = false
}
