package scene

import "math"

// Axis selects a world axis for single-axis position updates.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Resolver applies transform requests against boundary and collision
// policy. Every mutating call either commits in full or rolls the
// object back to its exact pre-call transform; partial state never
// survives a rejection.
//
// Policy knobs are plain fields. The engine flips AllowCollisionMove
// per call site: true while dragging or nudging, false for precise
// numeric entry.
type Resolver struct {
	reg *Registry
	col *Collider

	// Boundary is the legal placement rectangle. The zero value
	// disables clamping entirely.
	Boundary Boundary

	// AllowCollisionMove commits moves even when they leave the
	// object overlapping something.
	AllowCollisionMove bool

	// RespectInitialCollision exempts overlaps the object was loaded
	// with from rejection, per the collider's pair book.
	RespectInitialCollision bool

	// MoveSpeed is the distance in meters one keyboard nudge covers.
	MoveSpeed float64

	GridSnapEnabled bool
	GridSnapSize    float64
}

// NewResolver returns a resolver over the registry and collider with
// interactive defaults: collision moves allowed, initial overlaps
// respected, half-meter nudges, snapping off.
func NewResolver(reg *Registry, col *Collider) *Resolver {
	return &Resolver{
		reg:                     reg,
		col:                     col,
		AllowCollisionMove:      true,
		RespectInitialCollision: true,
		MoveSpeed:               DefaultMoveSpeed,
		GridSnapSize:            1,
	}
}

// clampRange returns the allowed center range on one axis: boundary
// edges pulled in by half the object's larger floor extent, so the
// whole footprint stays inside.
func (r *Resolver) clampRange(o *Object, axis Axis) (lo, hi float64) {
	buf := o.clampBuffer()
	if axis == AxisX {
		return r.Boundary.MinX + buf, r.Boundary.MaxX - buf
	}
	return r.Boundary.MinZ + buf, r.Boundary.MaxZ - buf
}

// clampPoint pulls a floor point into the object's allowed center
// range on both axes. Used by the combined update path and by the
// placement code, which clamps its position hint the same way.
func (r *Resolver) clampPoint(o *Object, x, z float64) (float64, float64) {
	if r.Boundary.IsZero() {
		return x, z
	}
	loX, hiX := r.clampRange(o, AxisX)
	loZ, hiZ := r.clampRange(o, AxisZ)
	return clampf(x, loX, hiX), clampf(z, loZ, hiZ)
}

// SetAxisPosition moves one axis of the object to an absolute value.
// A vertical request succeeds immediately without moving anything,
// since objects are floor-locked. A value outside the boundary's
// clamp range is rejected, not clamped.
func (r *Resolver) SetAxisPosition(id ObjectID, axis Axis, value float64) bool {
	o, ok := r.reg.Get(id)
	if !ok {
		return false
	}
	if axis == AxisY {
		o.Position.Y = 0
		return true
	}

	if !r.Boundary.IsZero() {
		lo, hi := r.clampRange(o, axis)
		if value < lo || value > hi {
			return false
		}
	}
	if r.GridSnapEnabled {
		value = snapf(value, r.GridSnapSize)
	}

	candidate := o.Position
	if axis == AxisX {
		candidate.X = value
	} else {
		candidate.Z = value
	}
	return r.applyPosition(o, candidate)
}

// SetPosition moves the object to an absolute floor position. Out of
// range requests are clamped into the boundary rather than rejected;
// only collisions can fail this path.
func (r *Resolver) SetPosition(id ObjectID, x, z float64) bool {
	o, ok := r.reg.Get(id)
	if !ok {
		return false
	}
	x, z = r.clampPoint(o, x, z)
	if r.GridSnapEnabled {
		x = snapf(x, r.GridSnapSize)
		z = snapf(z, r.GridSnapSize)
	}
	return r.applyPosition(o, Vec3{X: x, Y: 0, Z: z})
}

// Translate moves the object by a floor delta, with the same clamping
// and collision policy as SetPosition.
func (r *Resolver) Translate(id ObjectID, dx, dz float64) bool {
	o, ok := r.reg.Get(id)
	if !ok {
		return false
	}
	return r.SetPosition(id, o.Position.X+dx, o.Position.Z+dz)
}

// Nudge moves the object one MoveSpeed step along the given direction.
// Directions are usually unit-valued from arrow keys but any scale
// works.
func (r *Resolver) Nudge(id ObjectID, dirX, dirZ float64) bool {
	return r.Translate(id, dirX*r.MoveSpeed, dirZ*r.MoveSpeed)
}

// applyPosition tentatively moves the object, recomputes collision
// state for the whole scene and decides whether the move stands.
//
// An overlap is tolerated when the object entered the scene already
// overlapping and every neighbor the move newly introduces is one of
// its recorded initial pairs. Neighbors it was already touching
// before the move never count against it.
func (r *Resolver) applyPosition(o *Object, candidate Vec3) bool {
	before := r.col.CollidingNeighbors(o)
	prev := o.capture()

	o.Position = candidate
	o.recomputeBox()
	r.col.CheckAll()

	if !o.Colliding {
		return true
	}
	if r.tolerated(o, before) {
		return true
	}
	if r.AllowCollisionMove {
		return true
	}

	o.restore(prev)
	r.col.CheckAll()
	return false
}

func (r *Resolver) tolerated(o *Object, before map[ObjectID]bool) bool {
	if !r.RespectInitialCollision || !o.initialOverlap {
		return false
	}
	for id := range r.col.CollidingNeighbors(o) {
		if before[id] {
			continue
		}
		if !r.col.TrackedPair(o.ID, id) {
			return false
		}
	}
	return true
}

// Rotate turns the object by a yaw delta in degrees. Unlike moves,
// rotation carries no initial-overlap exemption: any resulting
// collision rejects the turn unless AllowCollisionMove is set.
func (r *Resolver) Rotate(id ObjectID, deltaDegrees float64) bool {
	o, ok := r.reg.Get(id)
	if !ok {
		return false
	}
	prev := o.capture()

	o.Rotation += deltaDegrees * math.Pi / 180
	o.recomputeBox()
	r.col.CheckAll()

	if o.Colliding && !r.AllowCollisionMove {
		o.restore(prev)
		r.col.CheckAll()
		return false
	}
	return true
}

// SetScale sets the object's uniform scale. Non-positive values are
// rejected outright. Growth that would push the footprint past the
// boundary at the current position is rejected without moving the
// object, before any collision pass runs.
func (r *Resolver) SetScale(id ObjectID, scale float64) bool {
	o, ok := r.reg.Get(id)
	if !ok {
		return false
	}
	if scale <= 0 {
		return false
	}
	prev := o.capture()

	o.Scale = scale
	o.recomputeBox()

	if !r.Boundary.IsZero() {
		loX, hiX := r.clampRange(o, AxisX)
		loZ, hiZ := r.clampRange(o, AxisZ)
		if o.Position.X < loX || o.Position.X > hiX ||
			o.Position.Z < loZ || o.Position.Z > hiZ {
			o.restore(prev)
			return false
		}
	}

	r.col.CheckAll()
	if o.Colliding && !r.AllowCollisionMove {
		o.restore(prev)
		r.col.CheckAll()
		return false
	}
	return true
}
