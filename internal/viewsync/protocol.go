package viewsync

import (
	"encoding/json"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/engine"
	"github.com/scenekit/scenekit/internal/geometry"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

const (
	// Connection
	TypeWelcome = "welcome"
	TypeError   = "error"

	// Server → client
	TypeSceneSync    = "scene.sync"
	TypeObjectChange = "object.change"
	TypeCommands     = "commands"
	TypeCursor       = "cursor"
	TypeClipping     = "clipping"
	TypeCropBox      = "cropbox"

	// Client → server
	TypePointerClick  = "pointer.click"
	TypePointerHover  = "pointer.hover"
	TypePointerWheel  = "pointer.wheel"
	TypeKey           = "key"
	TypeCommandInvoke = "command.invoke"
	TypeObjectCommand = "object.command"
	TypeObjectSelect  = "object.select"

	// Both directions
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
)

type WelcomePayload struct {
	ClientID  string `json:"clientId"`
	SessionID string `json:"sessionId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
	// RequestType is the type of the message that failed.
	RequestType string `json:"requestType,omitempty"`
}

type SceneSyncPayload struct {
	Nodes    []engine.SceneNode `json:"nodes"`
	Commands []commands.State   `json:"commands"`
}

// ObjectChangePayload reports a change of one object. Node is omitted for
// deleted objects.
type ObjectChangePayload struct {
	ObjectID string            `json:"objectId"`
	Changes  domain.Change     `json:"changes"`
	Node     *engine.SceneNode `json:"node,omitempty"`
}

type CommandsPayload struct {
	Commands []commands.State `json:"commands"`
}

type CursorPayload struct {
	Cursor commands.Cursor `json:"cursor"`
}

type ClippingPayload struct {
	Planes []PlanePayload `json:"planes"`
}

type PlanePayload struct {
	Normal   geometry.Vec3 `json:"normal"`
	Constant float64       `json:"constant"`
}

// PointerPayload is a pointer event. Hits are computed by the client's
// renderer, nearest first.
type PointerPayload struct {
	Origin    geometry.Vec3 `json:"origin"`
	Direction geometry.Vec3 `json:"direction"`
	X         float64       `json:"x"`
	Y         float64       `json:"y"`
	Shift     bool          `json:"shift,omitempty"`
	Ctrl      bool          `json:"ctrl,omitempty"`
	Delta     float64       `json:"delta,omitempty"`
	Hits      []HitPayload  `json:"hits,omitempty"`
}

type HitPayload struct {
	Point    geometry.Vec3 `json:"point"`
	ObjectID string        `json:"objectId,omitempty"`
}

type KeyPayload struct {
	Key  string `json:"key"`
	Down bool   `json:"down"`
}

type CommandInvokePayload struct {
	CommandID string `json:"commandId"`
}

type ObjectCommandPayload struct {
	Name     string `json:"name"`
	ObjectID string `json:"objectId"`
}

type ObjectSelectPayload struct {
	ObjectID string `json:"objectId"`
}

// PresencePayload is what the other viewers see of one viewer. The pointer
// ray, hit and hovered object follow the viewer's pointer events.
type PresencePayload struct {
	DisplayName string         `json:"displayName,omitempty"`
	Camera      *CameraPayload `json:"camera,omitempty"`
	Pointer     *RayPayload    `json:"pointer,omitempty"`
	Hit         *geometry.Vec3 `json:"hit,omitempty"`
	HoveredID   string         `json:"hoveredId,omitempty"`
}

// CameraPayload is sent by a viewer with presence.update: its eye position
// and look-at target in world coordinates.
type CameraPayload struct {
	Position geometry.Vec3 `json:"position"`
	Target   geometry.Vec3 `json:"target"`
}

type RayPayload struct {
	Origin    geometry.Vec3 `json:"origin"`
	Direction geometry.Vec3 `json:"direction"`
}

type PresenceStatePayload struct {
	Presences map[string]PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
}
