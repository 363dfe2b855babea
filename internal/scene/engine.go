package scene

import (
	"math"
	"math/rand/v2"
)

// Engine is the full spatial core behind one scene: registry,
// collider, resolver and interaction session wired together behind a
// single call surface. Selection-addressed methods (Nudge, Rotate,
// SetScale, drag calls) act on the session's current object; the
// ID-addressed variants serve callers that know their target, such as
// collaboration ops or a properties panel.
//
// The engine is single-threaded by design. Everything runs
// synchronously inside the caller's event or frame callback; callers
// on multiple goroutines must serialize whole gestures themselves.
type Engine struct {
	reg *Registry
	col *Collider
	res *Resolver
	ses *Session

	sinks []Sink
}

// NewEngine returns an engine over an empty scene with interactive
// defaults and no boundary.
func NewEngine() *Engine {
	reg := NewRegistry()
	col := NewCollider(reg)
	res := NewResolver(reg, col)
	return &Engine{
		reg: reg,
		col: col,
		res: res,
		ses: NewSession(reg, res),
	}
}

// Subscribe registers a sink for scene events. Sinks fire in
// subscription order.
func (e *Engine) Subscribe(s Sink) {
	e.sinks = append(e.sinks, s)
}

func (e *Engine) emit(ev Event) {
	for _, s := range e.sinks {
		s.HandleEvent(ev)
	}
}

// collisionFlags captures the current collision flag of every object,
// for diffing after a mutation.
func (e *Engine) collisionFlags() map[ObjectID]bool {
	flags := make(map[ObjectID]bool, e.reg.Len())
	for _, o := range e.reg.All() {
		flags[o.ID] = o.Colliding
	}
	return flags
}

func (e *Engine) emitCollisionDiff(before map[ObjectID]bool) {
	for _, o := range e.reg.All() {
		if before[o.ID] != o.Colliding {
			e.emit(Event{Kind: EventCollision, ID: o.ID, Colliding: o.Colliding})
		}
	}
}

// mutate runs one transform attempt, emitting a transformed event on
// commit and collision events for every flag the attempt flipped. A
// rolled-back attempt restores every flag and therefore emits
// nothing.
func (e *Engine) mutate(id ObjectID, fn func() bool) bool {
	before := e.collisionFlags()
	ok := fn()
	if ok {
		e.emit(Event{Kind: EventTransformed, ID: id})
	}
	e.emitCollisionDiff(before)
	return ok
}

// withPolicy runs fn with AllowCollisionMove pinned to the given
// value. Drag and nudge call sites allow overlap to persist while the
// user sorts it out; precise entry, rotation and scaling do not.
func (e *Engine) withPolicy(allow bool, fn func() bool) bool {
	prev := e.res.AllowCollisionMove
	e.res.AllowCollisionMove = allow
	ok := fn()
	e.res.AllowCollisionMove = prev
	return ok
}

// PlaceRequest describes one object to place. Footprint is required.
// A nil Position asks for a randomized spot inside the boundary.
// Scale zero means 1. Pinned objects refuse drag gestures.
type PlaceRequest struct {
	Name        string  `json:"name"`
	ModelID     string  `json:"modelId"`
	Footprint   Size3   `json:"footprint"`
	Position    *Vec3   `json:"position,omitempty"`
	RotationDeg float64 `json:"rotationDeg,omitempty"`
	Scale       float64 `json:"scale,omitempty"`
	Pinned      bool    `json:"pinned,omitempty"`
	Clips       []Clip  `json:"clips,omitempty"`
	ActiveClip  string  `json:"activeClip,omitempty"`
}

// insert validates and stores the object without running its first
// collision pass. The caller decides how placements group into
// passes.
func (e *Engine) insert(req PlaceRequest) (*Object, bool) {
	if !req.Footprint.IsValid() {
		return nil, false
	}
	scale := req.Scale
	if scale == 0 {
		scale = 1
	}
	if scale < 0 {
		return nil, false
	}

	o := &Object{
		Name:      req.Name,
		ModelID:   req.ModelID,
		Footprint: req.Footprint,
		Rotation:  req.RotationDeg * math.Pi / 180,
		Scale:     scale,
		Draggable: !req.Pinned,
		Clips:     req.Clips,
	}

	var x, z float64
	if req.Position != nil {
		x, z = req.Position.X, req.Position.Z
	} else if !e.res.Boundary.IsZero() {
		x, z = e.randomSpot(o)
	}
	x, z = e.res.clampPoint(o, x, z)
	o.Position = Vec3{X: x, Z: z}

	e.reg.Add(o)
	if req.ActiveClip != "" {
		o.SetActiveClip(req.ActiveClip)
	}
	return o, true
}

// randomSpot picks a uniform point inside the object's allowed center
// range.
func (e *Engine) randomSpot(o *Object) (float64, float64) {
	loX, hiX := e.res.clampRange(o, AxisX)
	loZ, hiZ := e.res.clampRange(o, AxisZ)
	x, z := 0.0, 0.0
	if hiX > loX {
		x = loX + rand.Float64()*(hiX-loX)
	}
	if hiZ > loZ {
		z = loZ + rand.Float64()*(hiZ-loZ)
	}
	return x, z
}

// Place runs the full placement lifecycle for one object: validate,
// clamp or randomize the position, insert, run its first collision
// pass and snapshot its initial overlap.
func (e *Engine) Place(req PlaceRequest) (*Object, bool) {
	before := e.collisionFlags()
	o, ok := e.insert(req)
	if !ok {
		return nil, false
	}
	e.col.CheckAll()
	e.col.SnapshotInitial(o)
	e.emit(Event{Kind: EventPlaced, ID: o.ID})
	e.emitCollisionDiff(before)
	return o, true
}

// PlaceAll inserts a batch of objects that share one first collision
// pass, the way a saved layout loads. Overlaps between batch members
// become tolerated initial pairs, which per-object placement would
// not record. Invalid requests are skipped.
func (e *Engine) PlaceAll(reqs []PlaceRequest) []*Object {
	before := e.collisionFlags()
	placed := make([]*Object, 0, len(reqs))
	for _, req := range reqs {
		if o, ok := e.insert(req); ok {
			placed = append(placed, o)
		}
	}
	e.col.CheckAll()
	for _, o := range placed {
		e.col.SnapshotInitial(o)
		e.emit(Event{Kind: EventPlaced, ID: o.ID})
	}
	e.emitCollisionDiff(before)
	return placed
}

// Remove deletes the object, evicts its tolerated pairs, clears any
// session state pointing at it and reruns the collision pass so
// former neighbors drop their flags.
func (e *Engine) Remove(id ObjectID) bool {
	if _, ok := e.reg.Get(id); !ok {
		return false
	}
	before := e.collisionFlags()
	delete(before, id)

	if sel, ok := e.ses.Selected(); ok && sel == id {
		e.emit(Event{Kind: EventSelection, ID: id, Selected: false})
	}
	e.col.EvictPairs(id)
	e.ses.handleRemoved(id)
	e.reg.Remove(id)
	e.col.CheckAll()

	e.emit(Event{Kind: EventRemoved, ID: id})
	e.emitCollisionDiff(before)
	return true
}

// Clear empties the scene, the pair book and the session in one step.
func (e *Engine) Clear() {
	e.reg.Clear()
	e.col.ResetPairs()
	e.ses.Clear()
	e.emit(Event{Kind: EventCleared})
}

// Select makes the object current. Unknown IDs fail and keep the
// previous selection; reselecting the current object changes nothing
// and emits nothing.
func (e *Engine) Select(id ObjectID) bool {
	prev, had := e.ses.Selected()
	if had && prev == id {
		return true
	}
	if !e.ses.Select(id) {
		return false
	}
	if had {
		e.emit(Event{Kind: EventSelection, ID: prev, Selected: false})
	}
	e.emit(Event{Kind: EventSelection, ID: id, Selected: true})
	return true
}

// ClearSelection drops the selection if any.
func (e *Engine) ClearSelection() {
	if id, ok := e.ses.Selected(); ok {
		e.ses.Clear()
		e.emit(Event{Kind: EventSelection, ID: id, Selected: false})
	}
}

// Selected returns the current selection.
func (e *Engine) Selected() (ObjectID, bool) {
	return e.ses.Selected()
}

// StartDrag opens a drag on the selected object from the given
// pointer ray.
func (e *Engine) StartDrag(ray Ray) bool {
	return e.ses.StartDrag(ray)
}

// UpdateDrag moves the dragged object under the pointer. Overlap is
// allowed to persist during a drag; the resolver still clamps to the
// boundary and blocks newly introduced collisions.
func (e *Engine) UpdateDrag(ray Ray) bool {
	id, ok := e.ses.Selected()
	if !ok {
		return false
	}
	return e.withPolicy(true, func() bool {
		return e.mutate(id, func() bool { return e.ses.UpdateDrag(ray) })
	})
}

// EndDrag closes the drag session.
func (e *Engine) EndDrag() {
	e.ses.EndDrag()
}

// Dragging reports whether a drag session is open.
func (e *Engine) Dragging() bool {
	return e.ses.Dragging()
}

// Nudge steps the selected object one MoveSpeed unit along the given
// direction.
func (e *Engine) Nudge(dirX, dirZ float64) bool {
	id, ok := e.ses.Selected()
	if !ok {
		return false
	}
	return e.NudgeObject(id, dirX, dirZ)
}

// Rotate turns the selected object by a yaw delta in degrees.
func (e *Engine) Rotate(deltaDegrees float64) bool {
	id, ok := e.ses.Selected()
	if !ok {
		return false
	}
	return e.RotateObject(id, deltaDegrees)
}

// SetScale sets the selected object's uniform scale.
func (e *Engine) SetScale(scale float64) bool {
	id, ok := e.ses.Selected()
	if !ok {
		return false
	}
	return e.ScaleObject(id, scale)
}

// Move places an object at an absolute floor position, clamped into
// the boundary, with overlap allowed to persist. This is the path
// remote drags arrive on.
func (e *Engine) Move(id ObjectID, x, z float64) bool {
	return e.withPolicy(true, func() bool {
		return e.mutate(id, func() bool { return e.res.SetPosition(id, x, z) })
	})
}

// MoveExact is Move under strict collision policy, for numeric entry:
// any resulting non-tolerated overlap rejects the whole change.
func (e *Engine) MoveExact(id ObjectID, x, z float64) bool {
	return e.withPolicy(false, func() bool {
		return e.mutate(id, func() bool { return e.res.SetPosition(id, x, z) })
	})
}

// SetAxisPosition sets a single axis to an absolute value under
// strict policy. Out-of-boundary values reject rather than clamp, so
// a properties panel can surface the failure instead of silently
// moving the object elsewhere.
func (e *Engine) SetAxisPosition(id ObjectID, axis Axis, value float64) bool {
	return e.withPolicy(false, func() bool {
		return e.mutate(id, func() bool { return e.res.SetAxisPosition(id, axis, value) })
	})
}

// NudgeObject steps an object one MoveSpeed unit along the given
// direction, overlap allowed.
func (e *Engine) NudgeObject(id ObjectID, dirX, dirZ float64) bool {
	return e.withPolicy(true, func() bool {
		return e.mutate(id, func() bool { return e.res.Nudge(id, dirX, dirZ) })
	})
}

// RotateObject turns an object by a yaw delta in degrees. Rotation
// always runs under strict policy: a swing into a neighbor rejects.
func (e *Engine) RotateObject(id ObjectID, deltaDegrees float64) bool {
	return e.withPolicy(false, func() bool {
		return e.mutate(id, func() bool { return e.res.Rotate(id, deltaDegrees) })
	})
}

// ScaleObject sets an object's uniform scale under strict policy.
func (e *Engine) ScaleObject(id ObjectID, scale float64) bool {
	return e.withPolicy(false, func() bool {
		return e.mutate(id, func() bool { return e.res.SetScale(id, scale) })
	})
}

// SetBoundary installs the legal placement rectangle. Existing
// objects stay where they are; the new boundary applies from the next
// mutation on.
func (e *Engine) SetBoundary(b Boundary) {
	e.res.Boundary = b
}

// Boundary returns the current placement rectangle.
func (e *Engine) Boundary() Boundary {
	return e.res.Boundary
}

// SetGridSnap configures position snapping. A non-positive size
// disables it regardless of enabled.
func (e *Engine) SetGridSnap(enabled bool, size float64) {
	e.res.GridSnapEnabled = enabled && size > 0
	if size > 0 {
		e.res.GridSnapSize = size
	}
}

// GridSnap returns the current snapping configuration.
func (e *Engine) GridSnap() (enabled bool, size float64) {
	return e.res.GridSnapEnabled, e.res.GridSnapSize
}

// SetCollisionEnabled toggles collision detection and immediately
// reruns the full pass so every flag reflects the new mode.
func (e *Engine) SetCollisionEnabled(enabled bool) {
	before := e.collisionFlags()
	e.col.SetEnabled(enabled)
	e.col.CheckAll()
	e.emitCollisionDiff(before)
}

// CollisionEnabled reports whether collision detection runs.
func (e *Engine) CollisionEnabled() bool {
	return e.col.Enabled()
}

// SetMoveSpeed sets the keyboard nudge distance in meters. Ignores
// non-positive values.
func (e *Engine) SetMoveSpeed(speed float64) {
	if speed > 0 {
		e.res.MoveSpeed = speed
	}
}

// MoveSpeed returns the keyboard nudge distance.
func (e *Engine) MoveSpeed() float64 {
	return e.res.MoveSpeed
}

// SetClip switches an object to the named animation clip.
func (e *Engine) SetClip(id ObjectID, name string) bool {
	o, ok := e.reg.Get(id)
	if !ok {
		return false
	}
	return o.SetActiveClip(name)
}

// SetClipPlaying pauses or resumes an object's active clip.
func (e *Engine) SetClipPlaying(id ObjectID, playing bool) bool {
	o, ok := e.reg.Get(id)
	if !ok {
		return false
	}
	o.SetPlaying(playing)
	return true
}

// Tick advances every playing animation clip by dt seconds. No
// spatial state changes here; dragging already did its work in the
// input callbacks.
func (e *Engine) Tick(dt float64) {
	for _, o := range e.reg.All() {
		o.Advance(dt)
	}
}

// Len returns the number of objects in the scene.
func (e *Engine) Len() int {
	return e.reg.Len()
}

// ObjectState is the externally visible snapshot of one object.
type ObjectState struct {
	ID             ObjectID `json:"id"`
	Name           string   `json:"name"`
	ModelID        string   `json:"modelId"`
	Position       Vec3     `json:"position"`
	RotationDeg    float64  `json:"rotationDeg"`
	Scale          float64  `json:"scale"`
	Footprint      Size3    `json:"footprint"`
	Box            Box3     `json:"box"`
	Colliding      bool     `json:"colliding"`
	InitialOverlap bool     `json:"initialOverlap"`
	Draggable      bool     `json:"draggable"`
	ActiveClip     string   `json:"activeClip,omitempty"`
	Playing        bool     `json:"playing,omitempty"`
}

func stateOf(o *Object) ObjectState {
	return ObjectState{
		ID:             o.ID,
		Name:           o.Name,
		ModelID:        o.ModelID,
		Position:       o.Position,
		RotationDeg:    o.Rotation * 180 / math.Pi,
		Scale:          o.Scale,
		Footprint:      o.Footprint,
		Box:            o.Box,
		Colliding:      o.Colliding,
		InitialOverlap: o.InitialOverlap(),
		Draggable:      o.Draggable,
		ActiveClip:     o.Active,
		Playing:        o.Playing,
	}
}

// State snapshots every object in insertion order.
func (e *Engine) State() []ObjectState {
	objects := e.reg.All()
	out := make([]ObjectState, len(objects))
	for i, o := range objects {
		out[i] = stateOf(o)
	}
	return out
}

// Get snapshots one object.
func (e *Engine) Get(id ObjectID) (ObjectState, bool) {
	o, ok := e.reg.Get(id)
	if !ok {
		return ObjectState{}, false
	}
	return stateOf(o), true
}
