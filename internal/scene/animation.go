package scene

// Clip is a named animation baked into an object's model, advanced by
// the embedder's render loop through Tick.
type Clip struct {
	Name     string  `json:"name"`
	Duration float64 `json:"duration"`
	Loop     bool    `json:"loop"`
}

// FindClip returns the clip with the given name.
func (o *Object) FindClip(name string) (Clip, bool) {
	for _, c := range o.Clips {
		if c.Name == name {
			return c, true
		}
	}
	return Clip{}, false
}

// SetActiveClip switches the object to the named clip and rewinds it.
// Passing an empty name stops animation entirely. Returns false when
// the object has no clip with that name.
func (o *Object) SetActiveClip(name string) bool {
	if name == "" {
		o.Active = ""
		o.ClipTime = 0
		o.Playing = false
		return true
	}
	if _, ok := o.FindClip(name); !ok {
		return false
	}
	o.Active = name
	o.ClipTime = 0
	o.Playing = true
	return true
}

// SetPlaying pauses or resumes the active clip. A play request with no
// active clip is ignored.
func (o *Object) SetPlaying(playing bool) {
	if playing && o.Active == "" {
		return
	}
	o.Playing = playing
}

// Advance moves the active clip forward by dt seconds. Looping clips
// wrap; one-shot clips hold their last frame and stop.
func (o *Object) Advance(dt float64) {
	if !o.Playing || o.Active == "" || dt <= 0 {
		return
	}
	clip, ok := o.FindClip(o.Active)
	if !ok || clip.Duration <= 0 {
		return
	}
	o.ClipTime += dt
	if o.ClipTime < clip.Duration {
		return
	}
	if clip.Loop {
		for o.ClipTime >= clip.Duration {
			o.ClipTime -= clip.Duration
		}
		return
	}
	o.ClipTime = clip.Duration
	o.Playing = false
}
