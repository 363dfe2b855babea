package scene

import "math"

// Vec3 is a point or displacement in world space. Units are meters.
// The floor plane is XZ; Y is up.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v * s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Size3 holds the extents of an unscaled axis-aligned footprint:
// Width along X, Height along Y, Depth along Z.
type Size3 struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// IsValid reports whether all three extents are positive.
func (s Size3) IsValid() bool {
	return s.Width > 0 && s.Height > 0 && s.Depth > 0
}

// Box3 is an axis-aligned bounding box in world space.
type Box3 struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// Intersects reports whether the boxes overlap on all three axes.
// Comparison is strict: boxes that merely touch do not intersect.
func (b Box3) Intersects(o Box3) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// Size returns the extents of the box.
func (b Box3) Size() Size3 {
	return Size3{
		Width:  b.Max.X - b.Min.X,
		Height: b.Max.Y - b.Min.Y,
		Depth:  b.Max.Z - b.Min.Z,
	}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(o Box3) Box3 {
	return Box3{
		Min: Vec3{math.Min(b.Min.X, o.Min.X), math.Min(b.Min.Y, o.Min.Y), math.Min(b.Min.Z, o.Min.Z)},
		Max: Vec3{math.Max(b.Max.X, o.Max.X), math.Max(b.Max.Y, o.Max.Y), math.Max(b.Max.Z, o.Max.Z)},
	}
}

// BoxFromFootprint derives the world-space AABB of a footprint placed at
// position with the given yaw (radians) and uniform scale. The object's
// base sits on the floor, so the box spans [position.Y, position.Y+height].
//
// Yaw swings the footprint corners outside the unrotated extents, so the
// box is the axis-aligned hull of the four rotated corners, not the
// unrotated rectangle: a footprint of w×d at yaw r occupies
// (w|cos r| + d|sin r|) × (w|sin r| + d|cos r|) on the floor.
func BoxFromFootprint(footprint Size3, position Vec3, yaw, scale float64) Box3 {
	w := footprint.Width * scale
	h := footprint.Height * scale
	d := footprint.Depth * scale

	cos := math.Abs(math.Cos(yaw))
	sin := math.Abs(math.Sin(yaw))
	halfX := (w*cos + d*sin) / 2
	halfZ := (w*sin + d*cos) / 2

	return Box3{
		Min: Vec3{position.X - halfX, position.Y, position.Z - halfZ},
		Max: Vec3{position.X + halfX, position.Y + h, position.Z + halfZ},
	}
}

// Boundary is the legal placement rectangle on the floor plane,
// axis-aligned in X and Z. The zero value means "no boundary".
type Boundary struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`
}

// IsZero reports whether no boundary has been configured.
func (b Boundary) IsZero() bool {
	return b == Boundary{}
}

// Contains reports whether the floor point (x, z) lies inside the
// boundary, edges included.
func (b Boundary) Contains(x, z float64) bool {
	return x >= b.MinX && x <= b.MaxX && z >= b.MinZ && z <= b.MaxZ
}

// CenteredBoundary returns a boundary of the given floor dimensions
// centered on the origin.
func CenteredBoundary(width, depth float64) Boundary {
	return Boundary{
		MinX: -width / 2,
		MaxX: width / 2,
		MinZ: -depth / 2,
		MaxZ: depth / 2,
	}
}

// Ray is a pointer ray in world space, already unprojected by the caller.
type Ray struct {
	Origin Vec3 `json:"origin"`
	Dir    Vec3 `json:"dir"`
}

// rayEpsilon guards the horizontal-plane intersection against rays that
// run (numerically) parallel to the floor.
const rayEpsilon = 1e-9

// IntersectHorizontal returns the point where the ray crosses the
// horizontal plane y = height. ok is false when the ray is parallel to
// the plane or the crossing lies behind the origin.
func (r Ray) IntersectHorizontal(height float64) (Vec3, bool) {
	if math.Abs(r.Dir.Y) < rayEpsilon {
		return Vec3{}, false
	}
	t := (height - r.Origin.Y) / r.Dir.Y
	if t < 0 {
		return Vec3{}, false
	}
	return r.Origin.Add(r.Dir.Scale(t)), true
}

// clampf clamps v into [lo, hi]. A degenerate range (lo > hi, which
// happens when an object is wider than the boundary) collapses to the
// range midpoint so the object at least stays centered.
func clampf(v, lo, hi float64) float64 {
	if lo > hi {
		return (lo + hi) / 2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// snapf rounds v to the nearest multiple of step. Ties round half away
// from zero. A non-positive step returns v unchanged.
func snapf(v, step float64) float64 {
	if step <= 0 {
		return v
	}
	return math.Round(v/step) * step
}
