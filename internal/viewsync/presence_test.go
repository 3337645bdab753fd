package viewsync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/geometry"
)

func TestPresenceTracker_Point(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	tracker := newPresenceTracker(func() time.Time { return now })
	ada := &Client{ClientID: "c1", DisplayName: "ada"}

	hover := func(objectID string, x float64) PointerPayload {
		return PointerPayload{
			Origin:    geometry.Vec3{x, 0, 10},
			Direction: geometry.Vec3{0, 0, -3},
			Hits:      []HitPayload{{Point: geometry.Vec3{x, 0, 0}, ObjectID: objectID}},
		}
	}

	p, ok := tracker.point(ada, hover("", 1))
	require.True(t, ok, "first movement is sent")
	assert.Equal(t, "ada", p.DisplayName)
	assert.Equal(t, geometry.Vec3{0, 0, -1}, p.Pointer.Direction)
	assert.Equal(t, geometry.Vec3{1, 0, 0}, *p.Hit)

	now = now.Add(presenceInterval / 2)
	_, ok = tracker.point(ada, hover("", 2))
	assert.False(t, ok, "movement within the interval is held back")
	assert.Equal(t, geometry.Vec3{2, 0, 0}, *tracker.snapshot()["c1"].Hit, "but still recorded")

	p, ok = tracker.point(ada, hover("obj_1", 3))
	assert.True(t, ok, "entering an object is sent at once")
	assert.Equal(t, "obj_1", p.HoveredID)

	now = now.Add(presenceInterval)
	p, ok = tracker.point(ada, PointerPayload{Origin: geometry.Vec3{0, 0, 10}, Direction: geometry.Vec3{1, 0, 0}})
	assert.True(t, ok)
	assert.Nil(t, p.Hit, "a miss clears the hit")
	assert.Empty(t, p.HoveredID)
}

func TestPresenceTracker_State(t *testing.T) {
	tracker := newPresenceTracker(nil)
	ada := &Client{ClientID: "c1", DisplayName: "ada"}
	grace := &Client{ClientID: "c2", DisplayName: "grace"}

	camera := CameraPayload{Position: geometry.Vec3{0, -5, 5}, Target: geometry.Vec3{0, 0, 0}}
	p := tracker.look(ada, camera)
	assert.Equal(t, camera, *p.Camera)
	tracker.look(grace, camera)

	msg, err := tracker.stateMessage("c2")
	require.NoError(t, err)
	assert.Equal(t, TypePresenceState, msg.Type)
	var state PresenceStatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &state))
	assert.Len(t, state.Presences, 1)
	assert.Equal(t, "ada", state.Presences["c1"].DisplayName)

	tracker.remove("c1")
	msg, err = tracker.stateMessage("c2")
	require.NoError(t, err)
	var after PresenceStatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &after))
	assert.Empty(t, after.Presences)
}
