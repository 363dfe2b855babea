package scene

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBox3Intersects(t *testing.T) {
	t.Run("overlapping boxes intersect", func(t *testing.T) {
		a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{2, 2, 2}}
		b := Box3{Min: Vec3{1, 0, 1}, Max: Vec3{3, 2, 3}}
		assert.True(t, a.Intersects(b))
		assert.True(t, b.Intersects(a))
	})

	t.Run("touching faces do not intersect", func(t *testing.T) {
		a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
		b := Box3{Min: Vec3{1, 0, 0}, Max: Vec3{2, 1, 1}}
		assert.False(t, a.Intersects(b))
		assert.False(t, b.Intersects(a))
	})

	t.Run("touching edges do not intersect", func(t *testing.T) {
		a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
		b := Box3{Min: Vec3{1, 0, 1}, Max: Vec3{2, 1, 2}}
		assert.False(t, a.Intersects(b))
	})

	t.Run("separated on one axis only", func(t *testing.T) {
		a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
		b := Box3{Min: Vec3{0, 0, 5}, Max: Vec3{1, 1, 6}}
		assert.False(t, a.Intersects(b))
	})

	t.Run("containment intersects", func(t *testing.T) {
		outer := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{10, 10, 10}}
		inner := Box3{Min: Vec3{4, 4, 4}, Max: Vec3{5, 5, 5}}
		assert.True(t, outer.Intersects(inner))
		assert.True(t, inner.Intersects(outer))
	})
}

func TestBox3Union(t *testing.T) {
	a := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	b := Box3{Min: Vec3{-2, 0.5, 0}, Max: Vec3{0.5, 3, 0.5}}

	u := a.Union(b)
	assert.Equal(t, Vec3{-2, 0, 0}, u.Min)
	assert.Equal(t, Vec3{1, 3, 1}, u.Max)
	assert.Equal(t, u, b.Union(a))
}

func TestBoxFromFootprint(t *testing.T) {
	t.Run("unrotated box centers on position", func(t *testing.T) {
		fp := Size3{Width: 2, Height: 1, Depth: 4}
		box := BoxFromFootprint(fp, Vec3{X: 10, Y: 0, Z: -3}, 0, 1)

		assert.InDelta(t, 9, box.Min.X, 1e-9)
		assert.InDelta(t, 11, box.Max.X, 1e-9)
		assert.InDelta(t, -5, box.Min.Z, 1e-9)
		assert.InDelta(t, -1, box.Max.Z, 1e-9)
		assert.InDelta(t, 0, box.Min.Y, 1e-9)
		assert.InDelta(t, 1, box.Max.Y, 1e-9)
	})

	t.Run("quarter turn swaps width and depth", func(t *testing.T) {
		fp := Size3{Width: 2, Height: 1, Depth: 4}
		box := BoxFromFootprint(fp, Vec3{}, math.Pi/2, 1)

		size := box.Size()
		assert.InDelta(t, 4, size.Width, 1e-9)
		assert.InDelta(t, 2, size.Depth, 1e-9)
		assert.InDelta(t, 1, size.Height, 1e-9)
	})

	t.Run("diagonal yaw grows the hull", func(t *testing.T) {
		fp := Size3{Width: 2, Height: 1, Depth: 2}
		box := BoxFromFootprint(fp, Vec3{}, math.Pi/4, 1)

		// A 2x2 square at 45 degrees spans 2*sqrt(2) on both floor axes.
		want := 2 * math.Sqrt2
		size := box.Size()
		assert.InDelta(t, want, size.Width, 1e-9)
		assert.InDelta(t, want, size.Depth, 1e-9)
	})

	t.Run("scale multiplies every extent", func(t *testing.T) {
		fp := Size3{Width: 2, Height: 3, Depth: 4}
		box := BoxFromFootprint(fp, Vec3{}, 0, 2)

		size := box.Size()
		assert.InDelta(t, 4, size.Width, 1e-9)
		assert.InDelta(t, 6, size.Height, 1e-9)
		assert.InDelta(t, 8, size.Depth, 1e-9)
	})

	t.Run("half turn matches no rotation", func(t *testing.T) {
		fp := Size3{Width: 3, Height: 1, Depth: 5}
		at0 := BoxFromFootprint(fp, Vec3{X: 1, Z: 2}, 0, 1)
		atPi := BoxFromFootprint(fp, Vec3{X: 1, Z: 2}, math.Pi, 1)

		assert.InDelta(t, at0.Min.X, atPi.Min.X, 1e-9)
		assert.InDelta(t, at0.Max.X, atPi.Max.X, 1e-9)
		assert.InDelta(t, at0.Min.Z, atPi.Min.Z, 1e-9)
		assert.InDelta(t, at0.Max.Z, atPi.Max.Z, 1e-9)
	})
}

func TestBoundary(t *testing.T) {
	t.Run("zero value means unbounded", func(t *testing.T) {
		var b Boundary
		assert.True(t, b.IsZero())
		assert.False(t, CenteredBoundary(10, 10).IsZero())
	})

	t.Run("contains includes edges", func(t *testing.T) {
		b := CenteredBoundary(10, 8)
		assert.True(t, b.Contains(0, 0))
		assert.True(t, b.Contains(5, 4))
		assert.True(t, b.Contains(-5, -4))
		assert.False(t, b.Contains(5.01, 0))
		assert.False(t, b.Contains(0, -4.01))
	})

	t.Run("centered boundary splits dimensions evenly", func(t *testing.T) {
		b := CenteredBoundary(20, 12)
		assert.Equal(t, Boundary{MinX: -10, MaxX: 10, MinZ: -6, MaxZ: 6}, b)
	})
}

func TestRayIntersectHorizontal(t *testing.T) {
	t.Run("downward ray hits the floor", func(t *testing.T) {
		r := Ray{Origin: Vec3{X: 2, Y: 10, Z: 3}, Dir: Vec3{Y: -1}}
		hit, ok := r.IntersectHorizontal(0)
		require.True(t, ok)
		assert.InDelta(t, 2, hit.X, 1e-9)
		assert.InDelta(t, 0, hit.Y, 1e-9)
		assert.InDelta(t, 3, hit.Z, 1e-9)
	})

	t.Run("oblique ray lands offset from origin", func(t *testing.T) {
		r := Ray{Origin: Vec3{Y: 5}, Dir: Vec3{X: 1, Y: -1, Z: 2}}
		hit, ok := r.IntersectHorizontal(0)
		require.True(t, ok)
		assert.InDelta(t, 5, hit.X, 1e-9)
		assert.InDelta(t, 10, hit.Z, 1e-9)
	})

	t.Run("parallel ray misses", func(t *testing.T) {
		r := Ray{Origin: Vec3{Y: 5}, Dir: Vec3{X: 1}}
		_, ok := r.IntersectHorizontal(0)
		assert.False(t, ok)
	})

	t.Run("plane behind the origin misses", func(t *testing.T) {
		r := Ray{Origin: Vec3{Y: 5}, Dir: Vec3{Y: 1}}
		_, ok := r.IntersectHorizontal(0)
		assert.False(t, ok)
	})
}

func TestSnapf(t *testing.T) {
	cases := []struct {
		name string
		v    float64
		step float64
		want float64
	}{
		{"rounds down", 1.23, 0.5, 1.0},
		{"rounds to nearest below", 0.7, 0.5, 0.5},
		{"rounds up", 0.8, 0.5, 1.0},
		{"tie rounds away from zero", 0.25, 0.5, 0.5},
		{"negative tie rounds away from zero", -0.25, 0.5, -0.5},
		{"exact multiple unchanged", 1.5, 0.5, 1.5},
		{"zero step disables snapping", 1.23, 0, 1.23},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, snapf(tc.v, tc.step), 1e-9)
		})
	}
}

func TestClampf(t *testing.T) {
	assert.Equal(t, 5.0, clampf(5, 0, 10))
	assert.Equal(t, 0.0, clampf(-3, 0, 10))
	assert.Equal(t, 10.0, clampf(42, 0, 10))

	// Inverted range collapses to its midpoint.
	assert.Equal(t, 5.0, clampf(2, 6, 4))
}
