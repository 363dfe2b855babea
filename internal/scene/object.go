package scene

// ObjectID identifies an object within one scene. IDs are assigned by
// the registry in insertion order and are never reused.
type ObjectID int64

// Object is a placed piece of equipment. Position is the center of the
// footprint on the floor plane; Y stays locked to the floor. Rotation
// is yaw about the vertical axis, in radians. Scale is uniform.
//
// Footprint is fixed at placement time. The world-space bounds in Box
// are derived from footprint, position, rotation and scale; callers
// mutate the transform through the resolver, which keeps Box current.
type Object struct {
	ID      ObjectID `json:"id"`
	Name    string   `json:"name"`
	ModelID string   `json:"modelId"`

	Position Vec3    `json:"position"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`

	Footprint Size3 `json:"footprint"`
	Box       Box3  `json:"box"`

	Colliding bool `json:"colliding"`
	Draggable bool `json:"draggable"`

	// initialOverlap records whether the object already intersected
	// something at the moment it entered the scene. Snapshotted once
	// by the collider after the object's first collision pass and
	// never updated afterwards.
	initialOverlap bool
	snapshotted    bool

	Clips    []Clip  `json:"clips,omitempty"`
	Active   string  `json:"activeClip,omitempty"`
	ClipTime float64 `json:"clipTime,omitempty"`
	Playing  bool    `json:"playing,omitempty"`
}

// DefaultMoveSpeed is the keyboard nudge distance in meters used until
// a caller configures its own.
const DefaultMoveSpeed = 0.5

// recomputeBox refreshes the cached world-space bounds from the current
// transform.
func (o *Object) recomputeBox() {
	o.Box = BoxFromFootprint(o.Footprint, o.Position, o.Rotation, o.Scale)
}

// InitialOverlap reports whether the object was intersecting another
// object when it entered the scene.
func (o *Object) InitialOverlap() bool {
	return o.initialOverlap
}

// clampBuffer is the margin kept between the object's center and the
// boundary edge: half the larger floor extent of the unrotated,
// scaled footprint.
func (o *Object) clampBuffer() float64 {
	return max(o.Footprint.Width, o.Footprint.Depth) / 2 * o.Scale
}

// snapshot captures the full transform so a failed mutation can be
// rolled back without partial state surviving.
type snapshot struct {
	position Vec3
	rotation float64
	scale    float64
	box      Box3
}

func (o *Object) capture() snapshot {
	return snapshot{
		position: o.Position,
		rotation: o.Rotation,
		scale:    o.Scale,
		box:      o.Box,
	}
}

func (o *Object) restore(s snapshot) {
	o.Position = s.position
	o.Rotation = s.rotation
	o.Scale = s.scale
	o.Box = s.box
}
