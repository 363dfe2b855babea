package scene

// Session tracks the selected object and an in-flight drag gesture.
// A drag is a bounded session: it starts from a selected, draggable
// object, consumes pointer rays frame by frame and ends explicitly.
// ID 0 doubles as "nothing selected" since the registry never issues
// it.
type Session struct {
	reg *Registry
	res *Resolver

	selected ObjectID
	dragging bool

	// dragOffset is the vector from the pointer's floor hit to the
	// object's position at drag start, so the object does not jump
	// under the cursor on the first update.
	dragOffset Vec3
}

// NewSession returns a session over the registry and resolver with
// nothing selected.
func NewSession(reg *Registry, res *Resolver) *Session {
	return &Session{reg: reg, res: res}
}

// Select makes the object with the given ID current. Selecting an
// unknown ID fails and leaves the previous selection intact. Changing
// selection cancels any drag in progress.
func (s *Session) Select(id ObjectID) bool {
	if _, ok := s.reg.Get(id); !ok {
		return false
	}
	if s.selected != id {
		s.dragging = false
	}
	s.selected = id
	return true
}

// Selected returns the current selection.
func (s *Session) Selected() (ObjectID, bool) {
	if s.selected == 0 {
		return 0, false
	}
	return s.selected, true
}

// SelectedObject resolves the current selection to its object.
func (s *Session) SelectedObject() (*Object, bool) {
	if s.selected == 0 {
		return nil, false
	}
	return s.reg.Get(s.selected)
}

// Clear drops the selection and any drag in progress.
func (s *Session) Clear() {
	s.selected = 0
	s.dragging = false
}

// Dragging reports whether a drag session is open.
func (s *Session) Dragging() bool {
	return s.dragging
}

// StartDrag opens a drag session on the selected object. It fails
// when nothing is selected, the object is not draggable, a drag is
// already open, or the pointer ray misses the floor plane through the
// object.
func (s *Session) StartDrag(ray Ray) bool {
	if s.dragging {
		return false
	}
	o, ok := s.SelectedObject()
	if !ok || !o.Draggable {
		return false
	}
	hit, ok := ray.IntersectHorizontal(o.Position.Y)
	if !ok {
		return false
	}
	s.dragOffset = o.Position.Sub(hit)
	s.dragging = true
	return true
}

// UpdateDrag moves the dragged object under the pointer. Outside a
// drag session it fails. A resolver rejection just means the object
// holds still this frame; the drag stays open.
func (s *Session) UpdateDrag(ray Ray) bool {
	if !s.dragging {
		return false
	}
	o, ok := s.SelectedObject()
	if !ok {
		s.dragging = false
		return false
	}
	hit, ok := ray.IntersectHorizontal(o.Position.Y)
	if !ok {
		return false
	}
	candidate := hit.Add(s.dragOffset)
	return s.res.SetPosition(o.ID, candidate.X, candidate.Z)
}

// EndDrag closes the drag session. Safe to call when idle.
func (s *Session) EndDrag() {
	s.dragging = false
}

// handleRemoved drops the session state tied to an object that just
// left the scene.
func (s *Session) handleRemoved(id ObjectID) {
	if s.selected == id {
		s.selected = 0
		s.dragging = false
	}
}
