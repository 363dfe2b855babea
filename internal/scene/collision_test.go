package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckAll(t *testing.T) {
	t.Run("empty registry reports no collision", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		assert.False(t, c.CheckAll())
	})

	t.Run("singleton never collides", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		reg.Add(testObject("alone", 0, 0))
		assert.False(t, c.CheckAll())
	})

	t.Run("overlapping pair flags both members", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		b := testObject("b", 0.5, 0)
		far := testObject("far", 20, 20)
		reg.Add(a)
		reg.Add(b)
		reg.Add(far)

		assert.True(t, c.CheckAll())
		assert.True(t, a.Colliding)
		assert.True(t, b.Colliding)
		assert.False(t, far.Colliding)
	})

	t.Run("separation clears stale flags", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		b := testObject("b", 0.5, 0)
		reg.Add(a)
		reg.Add(b)
		require.True(t, c.CheckAll())

		b.Position.X = 10
		b.recomputeBox()
		assert.False(t, c.CheckAll())
		assert.False(t, a.Colliding)
		assert.False(t, b.Colliding)
	})

	t.Run("repeat pass without mutation is stable", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		b := testObject("b", 0.5, 0)
		reg.Add(a)
		reg.Add(b)

		first := c.CheckAll()
		flagsA, flagsB := a.Colliding, b.Colliding
		second := c.CheckAll()
		assert.Equal(t, first, second)
		assert.Equal(t, flagsA, a.Colliding)
		assert.Equal(t, flagsB, b.Colliding)
	})

	t.Run("disabled detection clears everything", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		b := testObject("b", 0.5, 0)
		reg.Add(a)
		reg.Add(b)
		require.True(t, c.CheckAll())

		c.SetEnabled(false)
		assert.False(t, c.CheckAll())
		assert.False(t, a.Colliding)
		assert.False(t, b.Colliding)
	})
}

func TestSnapshotInitial(t *testing.T) {
	t.Run("object placed alone snapshots clean", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		reg.Add(a)
		c.CheckAll()
		c.SnapshotInitial(a)

		assert.False(t, a.InitialOverlap())
	})

	t.Run("second arrival on occupied ground records no pair", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		reg.Add(a)
		c.CheckAll()
		c.SnapshotInitial(a)

		b := testObject("b", 0, 0)
		reg.Add(b)
		c.CheckAll()
		c.SnapshotInitial(b)

		// a was clean at its own snapshot, so the overlap is one-sided.
		assert.False(t, a.InitialOverlap())
		assert.True(t, b.InitialOverlap())
		assert.False(t, c.TrackedPair(a.ID, b.ID))
	})

	t.Run("shared first pass records the pair", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		b := testObject("b", 0, 0)
		reg.Add(a)
		reg.Add(b)
		c.CheckAll()
		c.SnapshotInitial(a)
		c.SnapshotInitial(b)

		assert.True(t, a.InitialOverlap())
		assert.True(t, b.InitialOverlap())
		assert.True(t, c.TrackedPair(a.ID, b.ID))
		assert.True(t, c.TrackedPair(b.ID, a.ID))
	})

	t.Run("snapshot runs once and never again", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		reg.Add(a)
		c.CheckAll()
		c.SnapshotInitial(a)
		require.False(t, a.InitialOverlap())

		b := testObject("b", 0, 0)
		reg.Add(b)
		c.CheckAll()
		require.True(t, a.Colliding)

		// a's flag is now set, but a later snapshot call must not
		// promote it to an initial overlap.
		c.SnapshotInitial(a)
		assert.False(t, a.InitialOverlap())
	})

	t.Run("three way overlap records every intersecting pair", func(t *testing.T) {
		reg := NewRegistry()
		c := NewCollider(reg)
		a := testObject("a", 0, 0)
		b := testObject("b", 0.5, 0)
		d := testObject("d", 0.25, 0)
		reg.Add(a)
		reg.Add(b)
		reg.Add(d)
		c.CheckAll()
		c.SnapshotInitial(a)
		c.SnapshotInitial(b)
		c.SnapshotInitial(d)

		assert.True(t, c.TrackedPair(a.ID, b.ID))
		assert.True(t, c.TrackedPair(a.ID, d.ID))
		assert.True(t, c.TrackedPair(b.ID, d.ID))
	})
}

func TestCollidingNeighbors(t *testing.T) {
	reg := NewRegistry()
	c := NewCollider(reg)
	a := testObject("a", 0, 0)
	b := testObject("b", 0.5, 0)
	d := testObject("d", 0, 0.5)
	far := testObject("far", 50, 50)
	reg.Add(a)
	reg.Add(b)
	reg.Add(d)
	reg.Add(far)
	c.CheckAll()

	got := c.CollidingNeighbors(a)
	assert.Len(t, got, 2)
	assert.True(t, got[b.ID])
	assert.True(t, got[d.ID])
	assert.False(t, got[far.ID])

	t.Run("empty when detection disabled", func(t *testing.T) {
		c.SetEnabled(false)
		defer c.SetEnabled(true)
		assert.Empty(t, c.CollidingNeighbors(a))
	})
}

func TestPairEviction(t *testing.T) {
	reg := NewRegistry()
	c := NewCollider(reg)
	a := testObject("a", 0, 0)
	b := testObject("b", 0, 0)
	d := testObject("d", 0, 0)
	reg.Add(a)
	reg.Add(b)
	reg.Add(d)
	c.CheckAll()
	c.SnapshotInitial(a)
	c.SnapshotInitial(b)
	c.SnapshotInitial(d)
	require.True(t, c.TrackedPair(a.ID, b.ID))

	t.Run("evict drops only pairs touching the id", func(t *testing.T) {
		c.EvictPairs(b.ID)
		assert.False(t, c.TrackedPair(a.ID, b.ID))
		assert.False(t, c.TrackedPair(b.ID, d.ID))
		assert.True(t, c.TrackedPair(a.ID, d.ID))
	})

	t.Run("reset drops the whole book", func(t *testing.T) {
		c.ResetPairs()
		assert.False(t, c.TrackedPair(a.ID, d.ID))
	})
}
