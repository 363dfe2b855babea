package scene

// pairKey identifies an unordered object pair. lo is always the
// smaller ID.
type pairKey struct {
	lo, hi ObjectID
}

func makePairKey(a, b ObjectID) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

// Collider runs pairwise intersection passes over the registry and
// keeps the book of tolerated initial overlaps.
//
// Objects that already overlapped when they entered the scene (say, a
// saved layout with two racks pushed together) are exempted from
// collision rejection against each other, but only against each
// other. The exemption is tracked per pair, never transitively.
type Collider struct {
	reg     *Registry
	pairs   map[pairKey]struct{}
	enabled bool
}

// NewCollider returns a collider over the given registry with
// detection enabled.
func NewCollider(reg *Registry) *Collider {
	return &Collider{
		reg:     reg,
		pairs:   make(map[pairKey]struct{}),
		enabled: true,
	}
}

// Enabled reports whether pair testing runs at all.
func (c *Collider) Enabled() bool {
	return c.enabled
}

// SetEnabled toggles detection. Callers must follow with CheckAll so
// every collision flag reflects the new mode.
func (c *Collider) SetEnabled(enabled bool) {
	c.enabled = enabled
}

// CheckAll recomputes the collision flag of every object from scratch
// and reports whether any pair intersects. With detection disabled it
// clears every flag, skips all pair tests and reports false.
//
// The pass is O(n²) over live objects. Fine for the few dozen pieces a
// layout holds; a spatial index would be the next step past that.
func (c *Collider) CheckAll() bool {
	objects := c.reg.All()
	for _, o := range objects {
		o.Colliding = false
	}
	if !c.enabled {
		return false
	}

	any := false
	for i := 0; i < len(objects); i++ {
		for j := i + 1; j < len(objects); j++ {
			if objects[i].Box.Intersects(objects[j].Box) {
				objects[i].Colliding = true
				objects[j].Colliding = true
				any = true
			}
		}
	}
	return any
}

// SnapshotInitial freezes the object's initial-overlap state from its
// current collision flag. Must run immediately after the object's
// first CheckAll; later calls are no-ops.
//
// When the object did enter the scene overlapping, every neighbor that
// both intersects it now and carries its own initial-overlap flag gets
// recorded as a tolerated pair. For two objects loaded on top of each
// other this records the pair exactly once, at the second object's
// snapshot, when both flags are finally set.
func (c *Collider) SnapshotInitial(o *Object) {
	if o.snapshotted {
		return
	}
	o.snapshotted = true
	o.initialOverlap = o.Colliding
	if !o.initialOverlap {
		return
	}

	for _, other := range c.reg.All() {
		if other.ID == o.ID || !other.initialOverlap {
			continue
		}
		if o.Box.Intersects(other.Box) {
			c.pairs[makePairKey(o.ID, other.ID)] = struct{}{}
		}
	}
}

// CollidingNeighbors returns the IDs of every object whose box
// currently intersects o's box. With detection disabled the set is
// empty.
func (c *Collider) CollidingNeighbors(o *Object) map[ObjectID]bool {
	out := make(map[ObjectID]bool)
	if !c.enabled {
		return out
	}
	for _, other := range c.reg.All() {
		if other.ID == o.ID {
			continue
		}
		if o.Box.Intersects(other.Box) {
			out[other.ID] = true
		}
	}
	return out
}

// TrackedPair reports whether the two IDs form a tolerated initial
// pair, in either order.
func (c *Collider) TrackedPair(a, b ObjectID) bool {
	_, ok := c.pairs[makePairKey(a, b)]
	return ok
}

// EvictPairs drops every tolerated pair involving the given ID. Called
// when an object leaves the scene.
func (c *Collider) EvictPairs(id ObjectID) {
	for key := range c.pairs {
		if key.lo == id || key.hi == id {
			delete(c.pairs, key)
		}
	}
}

// ResetPairs drops the whole pair book in one step, for bulk clears.
func (c *Collider) ResetPairs() {
	c.pairs = make(map[pairKey]struct{})
}
