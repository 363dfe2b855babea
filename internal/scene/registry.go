package scene

// Registry owns the objects of one scene. IDs are handed out from a
// monotonic counter, so an ID never comes back even after its object
// is removed. Iteration order is insertion order, which keeps
// collision passes and serialization deterministic.
//
// Registry is not safe for concurrent use; the engine serializes
// access for callers that need it.
type Registry struct {
	nextID  ObjectID
	objects map[ObjectID]*Object
	order   []ObjectID
}

// NewRegistry returns an empty registry. The first assigned ID is 1.
func NewRegistry() *Registry {
	return &Registry{
		nextID:  1,
		objects: make(map[ObjectID]*Object),
	}
}

// Add assigns the next ID to the object, derives its world bounds and
// stores it. The object's footprint must already be set.
func (r *Registry) Add(o *Object) ObjectID {
	o.ID = r.nextID
	r.nextID++
	o.recomputeBox()

	r.objects[o.ID] = o
	r.order = append(r.order, o.ID)
	return o.ID
}

// Get returns the object with the given ID.
func (r *Registry) Get(id ObjectID) (*Object, bool) {
	o, ok := r.objects[id]
	return o, ok
}

// All returns the live objects in insertion order. The slice is fresh
// on every call; the pointed-to objects are shared.
func (r *Registry) All() []*Object {
	out := make([]*Object, 0, len(r.objects))
	for _, id := range r.order {
		if o, ok := r.objects[id]; ok {
			out = append(out, o)
		}
	}
	return out
}

// Len returns the number of live objects.
func (r *Registry) Len() int {
	return len(r.objects)
}

// Remove deletes the object with the given ID. Returns false when the
// ID is unknown.
func (r *Registry) Remove(id ObjectID) bool {
	if _, ok := r.objects[id]; !ok {
		return false
	}
	delete(r.objects, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear removes every object. The ID counter keeps running so IDs from
// before the clear are never reissued.
func (r *Registry) Clear() {
	r.objects = make(map[ObjectID]*Object)
	r.order = r.order[:0]
}
