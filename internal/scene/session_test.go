package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionScene() (*Registry, *Collider, *Resolver, *Session) {
	reg, col, res := newTestScene()
	return reg, col, res, NewSession(reg, res)
}

// rayAt aims straight down at the given floor point.
func rayAt(x, z float64) Ray {
	return Ray{Origin: Vec3{X: x, Y: 20, Z: z}, Dir: Vec3{Y: -1}}
}

func TestSessionSelect(t *testing.T) {
	reg, col, _, s := newSessionScene()
	o := placeAt(reg, col, "rack", Size3{2, 2, 2}, 0, 0)

	t.Run("unknown id keeps prior selection", func(t *testing.T) {
		require.True(t, s.Select(o.ID))
		assert.False(t, s.Select(999))

		id, ok := s.Selected()
		require.True(t, ok)
		assert.Equal(t, o.ID, id)
	})

	t.Run("clear empties the selection", func(t *testing.T) {
		s.Clear()
		_, ok := s.Selected()
		assert.False(t, ok)
	})

	t.Run("switching selection cancels a drag", func(t *testing.T) {
		other := placeAt(reg, col, "bin", Size3{1, 1, 1}, 5, 5)
		require.True(t, s.Select(o.ID))
		require.True(t, s.StartDrag(rayAt(0, 0)))

		require.True(t, s.Select(other.ID))
		assert.False(t, s.Dragging())
	})
}

func TestSessionDragLifecycle(t *testing.T) {
	reg, col, _, s := newSessionScene()
	o := placeAt(reg, col, "rack", Size3{2, 2, 2}, 0, 0)

	t.Run("drag requires a selection", func(t *testing.T) {
		assert.False(t, s.StartDrag(rayAt(0, 0)))
	})

	t.Run("update outside a drag fails", func(t *testing.T) {
		assert.False(t, s.UpdateDrag(rayAt(1, 1)))
	})

	t.Run("drag keeps the grab offset", func(t *testing.T) {
		require.True(t, s.Select(o.ID))
		// Grab the object half a meter off center.
		require.True(t, s.StartDrag(rayAt(0.5, 0)))

		require.True(t, s.UpdateDrag(rayAt(4.5, 2)))
		assert.InDelta(t, 4, o.Position.X, 1e-9)
		assert.InDelta(t, 2, o.Position.Z, 1e-9)
	})

	t.Run("second start while dragging fails", func(t *testing.T) {
		assert.False(t, s.StartDrag(rayAt(4, 2)))
		assert.True(t, s.Dragging())
	})

	t.Run("end drag is idempotent", func(t *testing.T) {
		s.EndDrag()
		assert.False(t, s.Dragging())
		s.EndDrag()
		assert.False(t, s.UpdateDrag(rayAt(0, 0)))
	})
}

func TestSessionDragRules(t *testing.T) {
	t.Run("non draggable object refuses to drag", func(t *testing.T) {
		reg, col, _, s := newSessionScene()
		o := placeAt(reg, col, "bolted", Size3{2, 2, 2}, 0, 0)
		o.Draggable = false

		require.True(t, s.Select(o.ID))
		assert.False(t, s.StartDrag(rayAt(0, 0)))
	})

	t.Run("ray parallel to the floor cannot start a drag", func(t *testing.T) {
		reg, col, _, s := newSessionScene()
		o := placeAt(reg, col, "rack", Size3{2, 2, 2}, 0, 0)
		require.True(t, s.Select(o.ID))

		level := Ray{Origin: Vec3{Y: 5}, Dir: Vec3{X: 1}}
		assert.False(t, s.StartDrag(level))
	})

	t.Run("rejected frame keeps the drag open", func(t *testing.T) {
		reg, col, res, s := newSessionScene()
		res.AllowCollisionMove = false
		o := placeAt(reg, col, "rack", Size3{2, 2, 2}, 0, 0)
		placeAt(reg, col, "wall", Size3{2, 2, 2}, 5, 0)

		require.True(t, s.Select(o.ID))
		require.True(t, s.StartDrag(rayAt(0, 0)))

		// Into the neighbor: object holds still, session stays open.
		assert.False(t, s.UpdateDrag(rayAt(4.5, 0)))
		assert.Zero(t, o.Position.X)
		assert.True(t, s.Dragging())

		// Next frame lands clear and commits.
		require.True(t, s.UpdateDrag(rayAt(0, 3)))
		assert.InDelta(t, 3, o.Position.Z, 1e-9)
	})

	t.Run("drag follows boundary clamping", func(t *testing.T) {
		reg, col, res, s := newSessionScene()
		res.Boundary = Boundary{MinX: -5, MaxX: 5, MinZ: -5, MaxZ: 5}
		o := placeAt(reg, col, "rack", Size3{2, 2, 2}, 0, 0)

		require.True(t, s.Select(o.ID))
		require.True(t, s.StartDrag(rayAt(0, 0)))
		require.True(t, s.UpdateDrag(rayAt(50, 0)))
		assert.InDelta(t, 4, o.Position.X, 1e-9)
	})
}

func TestSessionHandleRemoved(t *testing.T) {
	reg, col, _, s := newSessionScene()
	o := placeAt(reg, col, "rack", Size3{2, 2, 2}, 0, 0)
	other := placeAt(reg, col, "bin", Size3{1, 1, 1}, 5, 5)

	require.True(t, s.Select(o.ID))
	require.True(t, s.StartDrag(rayAt(0, 0)))

	s.handleRemoved(other.ID)
	assert.True(t, s.Dragging())

	s.handleRemoved(o.ID)
	assert.False(t, s.Dragging())
	_, ok := s.Selected()
	assert.False(t, ok)
}
