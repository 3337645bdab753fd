package viewsync

import (
	"encoding/json"
	"maps"
	"sync"
	"time"

	"github.com/scenekit/scenekit/internal/geometry"
)

// presenceInterval bounds how often pointer movement of one viewer is
// rebroadcast. Moving onto another object is always sent.
const presenceInterval = 50 * time.Millisecond

// presenceTracker keeps the camera and pointer of every viewer of a session.
// Pointer presence is derived from the viewer's own pointer events; the
// camera is reported by the viewer.
type presenceTracker struct {
	mu      sync.Mutex
	now     func() time.Time
	viewers map[string]*viewerPresence // clientID -> presence
}

type viewerPresence struct {
	PresencePayload
	pointedAt time.Time
}

func newPresenceTracker(now func() time.Time) *presenceTracker {
	if now == nil {
		now = time.Now
	}
	return &presenceTracker{now: now, viewers: make(map[string]*viewerPresence)}
}

func (t *presenceTracker) viewer(c *Client) *viewerPresence {
	v, ok := t.viewers[c.ClientID]
	if !ok {
		v = &viewerPresence{PresencePayload: PresencePayload{DisplayName: c.DisplayName}}
		t.viewers[c.ClientID] = v
	}
	return v
}

// look records the camera of c.
func (t *presenceTracker) look(c *Client, camera CameraPayload) PresencePayload {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.viewer(c)
	v.Camera = &camera
	return v.PresencePayload
}

// point records where the pointer ray of c lands: the nearest hit and the
// object under it. It reports false when the update should not be
// broadcast yet.
func (t *presenceTracker) point(c *Client, p PointerPayload) (PresencePayload, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	v := t.viewer(c)
	hovered := ""
	v.Hit = nil
	if len(p.Hits) > 0 {
		hit := p.Hits[0].Point
		v.Hit = &hit
		hovered = p.Hits[0].ObjectID
	}
	v.Pointer = &RayPayload{Origin: p.Origin, Direction: geometry.Normalized(p.Direction)}

	now := t.now()
	due := now.Sub(v.pointedAt) >= presenceInterval || hovered != v.HoveredID
	v.HoveredID = hovered
	if due {
		v.pointedAt = now
	}
	return v.PresencePayload, due
}

func (t *presenceTracker) remove(clientID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.viewers, clientID)
}

func (t *presenceTracker) snapshot() map[string]PresencePayload {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]PresencePayload, len(t.viewers))
	for id, v := range t.viewers {
		out[id] = v.PresencePayload
	}
	return out
}

// stateMessage lists every viewer's presence except the recipient's own.
func (t *presenceTracker) stateMessage(recipient string) (*Message, error) {
	all := t.snapshot()
	maps.DeleteFunc(all, func(id string, _ PresencePayload) bool { return id == recipient })
	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		return nil, err
	}
	return &Message{Type: TypePresenceState, Payload: payload}, nil
}
