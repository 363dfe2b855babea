package collab

import (
	"encoding/json"

	"github.com/floorline/floorline/backend-go/internal/document"
	"github.com/floorline/floorline/backend-go/internal/scene"
)

type Message struct {
	Type      string          `json:"type"`
	ProjectID string          `json:"projectId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome = "welcome"

	// Document sync
	TypeDocSync = "doc.sync"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// WelcomePayload is sent to a client right after it joins a room.
type WelcomePayload struct {
	ClientID  string `json:"clientId"`
	ServerSeq int64  `json:"serverSeq"`
}

// DocSyncPayload carries the full authoritative layout.
type DocSyncPayload struct {
	Document  *document.LayoutDocument `json:"document"`
	ServerSeq int64                    `json:"serverSeq"`
}

// PresencePayload describes where a collaborator is working on the
// floor: cursor position on the floor plane and current selection.
type PresencePayload struct {
	Cursor      *CursorPos       `json:"cursor,omitempty"`
	Selection   []scene.ObjectID `json:"selection,omitempty"`
	Dragging    scene.ObjectID   `json:"dragging,omitempty"`
	DisplayName string           `json:"displayName,omitempty"`
}

// CursorPos is a point on the floor plane in meters.
type CursorPos struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}

// --- Operation Types ---

const (
	OpObjectPlace   = "object.place"
	OpObjectMove    = "object.move"
	OpObjectNudge   = "object.nudge"
	OpObjectRotate  = "object.rotate"
	OpObjectScale   = "object.scale"
	OpObjectClip    = "object.clip"
	OpObjectRemove  = "object.remove"
	OpModelAdd      = "model.add"
	OpSceneClear    = "scene.clear"
	OpFloorResize   = "floor.resize"
	OpSnapSet       = "snap.set"
	OpCollisionSet  = "collision.set"
	OpProjectRename = "project.rename"
)

// Operation represents one layout mutation. Exactly one of the
// type-specific payload fields is set, matching Type.
type Operation struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Timestamp int64          `json:"timestamp"`
	ClientSeq int64          `json:"clientSeq"`
	ObjectID  scene.ObjectID `json:"objectId,omitempty"`

	Place     *PlacePayload     `json:"place,omitempty"`
	Move      *MovePayload      `json:"move,omitempty"`
	Nudge     *NudgePayload     `json:"nudge,omitempty"`
	Rotation  *float64          `json:"rotationDeg,omitempty"`
	Scale     *float64          `json:"scale,omitempty"`
	Clip      *ClipPayload      `json:"clip,omitempty"`
	Model     *document.Model   `json:"model,omitempty"`
	Floor     *FloorPayload     `json:"floor,omitempty"`
	Snap      *SnapPayload      `json:"snap,omitempty"`
	Collision *CollisionPayload `json:"collision,omitempty"`
	Name      string            `json:"name,omitempty"`
}

// PlacePayload places a new object from the room's model library.
// When X and Z are absent the server picks a free-form spot.
type PlacePayload struct {
	ModelID     string   `json:"modelId"`
	Name        string   `json:"name,omitempty"`
	X           *float64 `json:"x,omitempty"`
	Z           *float64 `json:"z,omitempty"`
	RotationDeg float64  `json:"rotationDeg,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Pinned      bool     `json:"pinned,omitempty"`
	ActiveClip  string   `json:"activeClip,omitempty"`
}

// MovePayload moves an object. A nil axis keeps that coordinate, so
// setting only one of X or Z is the single-axis update.
type MovePayload struct {
	X *float64 `json:"x,omitempty"`
	Z *float64 `json:"z,omitempty"`
}

// NudgePayload steps an object by direction times the room's move speed.
type NudgePayload struct {
	DX float64 `json:"dx"`
	DZ float64 `json:"dz"`
}

type ClipPayload struct {
	Name    string `json:"name"`
	Playing bool   `json:"playing"`
}

type FloorPayload struct {
	Width float64 `json:"width"`
	Depth float64 `json:"depth"`
}

type SnapPayload struct {
	Enabled bool    `json:"enabled"`
	Size    float64 `json:"size"`
}

type CollisionPayload struct {
	Enabled bool `json:"enabled"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages. Object is
// the authoritative post-operation state of the affected object, which
// may differ from what the client asked for after snapping and
// clamping.
type OperationAckPayload struct {
	OperationID     string             `json:"operationId"`
	ServerSeq       int64              `json:"serverSeq"`
	ServerTimestamp int64              `json:"serverTimestamp"`
	Object          *scene.ObjectState `json:"object,omitempty"`
	Events          []scene.Event      `json:"events,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation Operation          `json:"operation"`
	UserID    string             `json:"userId"`
	ServerSeq int64              `json:"serverSeq"`
	Object    *scene.ObjectState `json:"object,omitempty"`
	Events    []scene.Event      `json:"events,omitempty"`
}
