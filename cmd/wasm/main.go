//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/floorline/floorline/backend-go/internal/document"
	"github.com/floorline/floorline/backend-go/internal/scene"
)

// The bridge keeps the layout document and the scene engine in step:
// the document owns the model library, the engine owns the placed
// objects and their constraints.
var (
	eng    *scene.Engine
	doc    *document.LayoutDocument
	events []scene.Event
)

func main() {
	eng = scene.NewEngine()
	eng.Subscribe(scene.SinkFunc(func(e scene.Event) {
		events = append(events, e)
	}))
	doc = document.NewEmptyDocument("proj_local", "Untitled layout")
	document.Hydrate(doc, eng)

	// Create the engine API object
	floorlineEngine := js.Global().Get("Object").New()

	// --- Commands (frontend → backend) ---
	floorlineEngine.Set("loadDocument", js.FuncOf(loadDocument))
	floorlineEngine.Set("loadSampleDocument", js.FuncOf(loadSampleDocument))
	floorlineEngine.Set("registerModel", js.FuncOf(registerModel))
	floorlineEngine.Set("place", js.FuncOf(place))
	floorlineEngine.Set("remove", js.FuncOf(remove))
	floorlineEngine.Set("clear", js.FuncOf(clear))
	floorlineEngine.Set("select", js.FuncOf(selectObject))
	floorlineEngine.Set("clearSelection", js.FuncOf(clearSelection))
	floorlineEngine.Set("startDrag", js.FuncOf(startDrag))
	floorlineEngine.Set("updateDrag", js.FuncOf(updateDrag))
	floorlineEngine.Set("endDrag", js.FuncOf(endDrag))
	floorlineEngine.Set("move", js.FuncOf(move))
	floorlineEngine.Set("moveExact", js.FuncOf(moveExact))
	floorlineEngine.Set("setAxisPosition", js.FuncOf(setAxisPosition))
	floorlineEngine.Set("nudge", js.FuncOf(nudge))
	floorlineEngine.Set("rotate", js.FuncOf(rotate))
	floorlineEngine.Set("setScale", js.FuncOf(setScale))
	floorlineEngine.Set("setClip", js.FuncOf(setClip))
	floorlineEngine.Set("setFloor", js.FuncOf(setFloor))
	floorlineEngine.Set("setGridSnap", js.FuncOf(setGridSnap))
	floorlineEngine.Set("setCollisionEnabled", js.FuncOf(setCollisionEnabled))
	floorlineEngine.Set("setMoveSpeed", js.FuncOf(setMoveSpeed))
	floorlineEngine.Set("tick", js.FuncOf(tick))

	// --- Queries (frontend ← backend) ---
	floorlineEngine.Set("getDocument", js.FuncOf(getDocument))
	floorlineEngine.Set("getState", js.FuncOf(getState))
	floorlineEngine.Set("getObject", js.FuncOf(getObject))
	floorlineEngine.Set("getSelection", js.FuncOf(getSelection))
	floorlineEngine.Set("isDragging", js.FuncOf(isDragging))
	floorlineEngine.Set("drainEvents", js.FuncOf(drainEvents))

	// Register on global scope
	js.Global().Set("floorlineEngine", floorlineEngine)

	// Signal that WASM is ready
	js.Global().Set("floorlineWasmReady", js.ValueOf(true))

	// Keep Go runtime alive
	select {}
}

func errResult(msg string) interface{} {
	return js.ValueOf(map[string]interface{}{"error": msg})
}

func okResult() interface{} {
	return js.ValueOf(map[string]interface{}{"ok": true})
}

func boolResult(ok bool) interface{} {
	return js.ValueOf(map[string]interface{}{"ok": ok})
}

func rayFromArgs(args []js.Value) (scene.Ray, bool) {
	if len(args) < 6 {
		return scene.Ray{}, false
	}
	return scene.Ray{
		Origin: scene.Vec3{X: args[0].Float(), Y: args[1].Float(), Z: args[2].Float()},
		Dir:    scene.Vec3{X: args[3].Float(), Y: args[4].Float(), Z: args[5].Float()},
	}, true
}

func objectID(arg js.Value) scene.ObjectID {
	return scene.ObjectID(arg.Int())
}

// --- Command Handlers ---

func loadDocument(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing document JSON")
	}

	var loaded document.LayoutDocument
	if err := json.Unmarshal([]byte(args[0].String()), &loaded); err != nil {
		return errResult(err.Error())
	}

	doc = &loaded
	document.Hydrate(doc, eng)
	events = nil
	return okResult()
}

func loadSampleDocument(this js.Value, args []js.Value) interface{} {
	projectID := "proj_sample"
	if len(args) > 0 && args[0].Type() == js.TypeString {
		projectID = args[0].String()
	}

	doc = document.NewSampleDocument(projectID)
	document.Hydrate(doc, eng)
	events = nil
	return okResult()
}

func registerModel(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing model JSON")
	}

	var m document.Model
	if err := json.Unmarshal([]byte(args[0].String()), &m); err != nil {
		return errResult(err.Error())
	}
	if m.ID == "" || !m.Footprint.IsValid() {
		return errResult("model needs an id and a positive footprint")
	}

	if doc.Models == nil {
		doc.Models = map[string]document.Model{}
	}
	doc.Models[m.ID] = m
	return okResult()
}

func place(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return errResult("missing placement JSON")
	}

	var p struct {
		ModelID     string   `json:"modelId"`
		Name        string   `json:"name"`
		X           *float64 `json:"x"`
		Z           *float64 `json:"z"`
		RotationDeg float64  `json:"rotationDeg"`
		Scale       float64  `json:"scale"`
		Pinned      bool     `json:"pinned"`
		ActiveClip  string   `json:"activeClip"`
	}
	if err := json.Unmarshal([]byte(args[0].String()), &p); err != nil {
		return errResult(err.Error())
	}

	m, ok := doc.Models[p.ModelID]
	if !ok {
		return errResult("unknown model: " + p.ModelID)
	}

	req := scene.PlaceRequest{
		Name:        p.Name,
		ModelID:     m.ID,
		Footprint:   m.Footprint,
		RotationDeg: p.RotationDeg,
		Scale:       p.Scale,
		Pinned:      p.Pinned,
		Clips:       m.Clips,
		ActiveClip:  p.ActiveClip,
	}
	if req.Name == "" {
		req.Name = m.Name
	}
	if p.X != nil && p.Z != nil {
		req.Position = &scene.Vec3{X: *p.X, Z: *p.Z}
	}

	obj, ok := eng.Place(req)
	if !ok {
		return errResult("placement rejected")
	}

	st, _ := eng.Get(obj.ID)
	data, err := json.Marshal(st)
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func remove(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return boolResult(false)
	}
	return boolResult(eng.Remove(objectID(args[0])))
}

func clear(this js.Value, args []js.Value) interface{} {
	eng.Clear()
	return okResult()
}

func selectObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return boolResult(false)
	}
	return boolResult(eng.Select(objectID(args[0])))
}

func clearSelection(this js.Value, args []js.Value) interface{} {
	eng.ClearSelection()
	return nil
}

func startDrag(this js.Value, args []js.Value) interface{} {
	ray, ok := rayFromArgs(args)
	if !ok {
		return boolResult(false)
	}
	return boolResult(eng.StartDrag(ray))
}

func updateDrag(this js.Value, args []js.Value) interface{} {
	ray, ok := rayFromArgs(args)
	if !ok {
		return boolResult(false)
	}
	return boolResult(eng.UpdateDrag(ray))
}

func endDrag(this js.Value, args []js.Value) interface{} {
	eng.EndDrag()
	return nil
}

func move(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return boolResult(false)
	}
	return boolResult(eng.Move(objectID(args[0]), args[1].Float(), args[2].Float()))
}

func moveExact(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return boolResult(false)
	}
	return boolResult(eng.MoveExact(objectID(args[0]), args[1].Float(), args[2].Float()))
}

func setAxisPosition(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return boolResult(false)
	}
	var axis scene.Axis
	switch args[1].String() {
	case "x":
		axis = scene.AxisX
	case "y":
		axis = scene.AxisY
	case "z":
		axis = scene.AxisZ
	default:
		return boolResult(false)
	}
	return boolResult(eng.SetAxisPosition(objectID(args[0]), axis, args[2].Float()))
}

func nudge(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return boolResult(false)
	}
	return boolResult(eng.Nudge(args[0].Float(), args[1].Float()))
}

func rotate(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return boolResult(false)
	}
	return boolResult(eng.Rotate(args[0].Float()))
}

func setScale(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return boolResult(false)
	}
	return boolResult(eng.SetScale(args[0].Float()))
}

func setClip(this js.Value, args []js.Value) interface{} {
	if len(args) < 3 {
		return boolResult(false)
	}
	id := objectID(args[0])
	if !eng.SetClip(id, args[1].String()) {
		return boolResult(false)
	}
	return boolResult(eng.SetClipPlaying(id, args[2].Bool()))
}

func setFloor(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return boolResult(false)
	}
	width, depth := args[0].Float(), args[1].Float()
	if width <= 0 || depth <= 0 {
		return boolResult(false)
	}
	doc.Floor.Width = width
	doc.Floor.Depth = depth
	eng.SetBoundary(doc.Floor.Boundary())
	return okResult()
}

func setGridSnap(this js.Value, args []js.Value) interface{} {
	if len(args) < 2 {
		return boolResult(false)
	}
	enabled, size := args[0].Bool(), args[1].Float()
	doc.Floor.GridSnapEnabled = enabled && size > 0
	if size > 0 {
		doc.Floor.GridSnapSize = size
	}
	eng.SetGridSnap(enabled, doc.Floor.GridSnapSize)
	return okResult()
}

func setCollisionEnabled(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return boolResult(false)
	}
	enabled := args[0].Bool()
	doc.Floor.CollisionDisabled = !enabled
	eng.SetCollisionEnabled(enabled)
	return okResult()
}

func setMoveSpeed(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return boolResult(false)
	}
	eng.SetMoveSpeed(args[0].Float())
	return okResult()
}

func tick(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return nil
	}
	eng.Tick(args[0].Float())
	return nil
}

// --- Query Handlers ---

func getDocument(this js.Value, args []js.Value) interface{} {
	doc.SyncPlacements(eng)
	data, err := json.Marshal(doc)
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func getState(this js.Value, args []js.Value) interface{} {
	data, err := json.Marshal(eng.State())
	if err != nil {
		return errResult(err.Error())
	}
	return js.ValueOf(string(data))
}

func getObject(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return js.Null()
	}
	st, ok := eng.Get(objectID(args[0]))
	if !ok {
		return js.Null()
	}
	data, err := json.Marshal(st)
	if err != nil {
		return js.Null()
	}
	return js.ValueOf(string(data))
}

func getSelection(this js.Value, args []js.Value) interface{} {
	id, ok := eng.Selected()
	if !ok {
		return js.ValueOf(0)
	}
	return js.ValueOf(int(id))
}

func isDragging(this js.Value, args []js.Value) interface{} {
	return js.ValueOf(eng.Dragging())
}

func drainEvents(this js.Value, args []js.Value) interface{} {
	drained := events
	events = nil
	data, err := json.Marshal(drained)
	if err != nil {
		return js.ValueOf("[]")
	}
	return js.ValueOf(string(data))
}
