package viewsync_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/engine"
	"github.com/scenekit/scenekit/internal/geometry"
	"github.com/scenekit/scenekit/internal/primitives"
	"github.com/scenekit/scenekit/internal/typeid"
	"github.com/scenekit/scenekit/internal/viewsync"
)

type testServer struct {
	hub *viewsync.Hub
	url string
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	hub := viewsync.NewHub(engine.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	r := mux.NewRouter()
	r.HandleFunc("/ws/scene/{sessionId}", hub.ServeWS(nil))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	t.Cleanup(cancel)
	return &testServer{hub: hub, url: "ws" + strings.TrimPrefix(srv.URL, "http")}
}

func (s *testServer) dial(t *testing.T, sessionID, name string) *websocket.Conn {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, s.url+"/ws/scene/"+sessionID+"?name="+name, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close(websocket.StatusNormalClosure, "") })
	return conn
}

// readUntil reads messages until one of type msgType arrives.
func readUntil(t *testing.T, conn *websocket.Conn, msgType string) viewsync.Message {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	for {
		_, data, err := conn.Read(ctx)
		require.NoError(t, err, "waiting for %s", msgType)
		var msg viewsync.Message
		require.NoError(t, json.Unmarshal(data, &msg))
		if msg.Type == msgType {
			return msg
		}
	}
}

func write(t *testing.T, conn *websocket.Conn, msgType string, payload any) {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	out, err := json.Marshal(viewsync.Message{Type: msgType, Payload: data})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, out))
}

func decode[T any](t *testing.T, msg viewsync.Message) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(msg.Payload, &v))
	return v
}

func commandID(t *testing.T, states []commands.State, name string) string {
	t.Helper()
	for _, s := range states {
		if s.Name == name {
			return s.ID
		}
	}
	t.Fatalf("no command %q", name)
	return ""
}

func TestHub_Join(t *testing.T) {
	s := newServer(t)
	sessionID := typeid.NewSessionID()
	conn := s.dial(t, sessionID, "ada")

	welcome := decode[viewsync.WelcomePayload](t, readUntil(t, conn, viewsync.TypeWelcome))
	assert.Equal(t, sessionID, welcome.SessionID)
	assert.NotEmpty(t, welcome.ClientID)

	sync := decode[viewsync.SceneSyncPayload](t, readUntil(t, conn, viewsync.TypeSceneSync))
	assert.Empty(t, sync.Nodes)
	assert.NotEmpty(t, commandID(t, sync.Commands, "undo"))

	state := decode[viewsync.PresenceStatePayload](t, readUntil(t, conn, viewsync.TypePresenceState))
	assert.Empty(t, state.Presences)

	_, ok := s.hub.Session(sessionID)
	assert.True(t, ok)
}

func TestHub_InvalidSession(t *testing.T) {
	s := newServer(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, resp, err := websocket.Dial(ctx, s.url+"/ws/scene/not-a-session", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHub_PresenceJoinAndLeave(t *testing.T) {
	s := newServer(t)
	sessionID := typeid.NewSessionID()
	first := s.dial(t, sessionID, "ada")
	readUntil(t, first, viewsync.TypePresenceState)

	second := s.dial(t, sessionID, "grace")
	joined := decode[viewsync.PresenceJoinPayload](t, readUntil(t, first, viewsync.TypePresenceJoin))
	assert.Equal(t, "grace", joined.DisplayName)

	readUntil(t, second, viewsync.TypePresenceState)
	camera := viewsync.CameraPayload{Position: geometry.Vec3{0, -10, 5}, Target: geometry.Vec3{0, 0, 0}}
	write(t, second, viewsync.TypePresenceUpdate, camera)
	update := readUntil(t, first, viewsync.TypePresenceUpdate)
	assert.Equal(t, joined.ClientID, update.ClientID)
	presence := decode[viewsync.PresencePayload](t, update)
	assert.Equal(t, "grace", presence.DisplayName)
	require.NotNil(t, presence.Camera)
	assert.Equal(t, camera, *presence.Camera)

	// Hovering moves the viewer's pointer for everyone else.
	write(t, second, viewsync.TypePointerHover, viewsync.PointerPayload{
		Origin:    geometry.Vec3{1, 2, 10},
		Direction: geometry.Vec3{0, 0, -2},
		Hits:      []viewsync.HitPayload{{Point: geometry.Vec3{1, 2, 0}}},
	})
	presence = decode[viewsync.PresencePayload](t, readUntil(t, first, viewsync.TypePresenceUpdate))
	require.NotNil(t, presence.Pointer)
	assert.Equal(t, geometry.Vec3{0, 0, -1}, presence.Pointer.Direction)
	require.NotNil(t, presence.Hit)
	assert.Equal(t, geometry.Vec3{1, 2, 0}, *presence.Hit)
	assert.Empty(t, presence.HoveredID)
	require.NotNil(t, presence.Camera, "camera is kept")

	third := s.dial(t, sessionID, "linus")
	state := decode[viewsync.PresenceStatePayload](t, readUntil(t, third, viewsync.TypePresenceState))
	require.Contains(t, state.Presences, joined.ClientID)
	assert.Equal(t, geometry.Vec3{1, 2, 0}, *state.Presences[joined.ClientID].Hit)

	second.Close(websocket.StatusNormalClosure, "")
	left := decode[viewsync.PresenceLeavePayload](t, readUntil(t, first, viewsync.TypePresenceLeave))
	assert.Equal(t, joined.ClientID, left.ClientID)
}

func TestHub_SessionClosesWhenEmpty(t *testing.T) {
	s := newServer(t)
	sessionID := typeid.NewSessionID()
	conn := s.dial(t, sessionID, "ada")
	readUntil(t, conn, viewsync.TypeSceneSync)

	conn.Close(websocket.StatusNormalClosure, "")
	require.Eventually(t, func() bool {
		_, ok := s.hub.Session(sessionID)
		return !ok
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ClickCreatesPointForEveryone(t *testing.T) {
	s := newServer(t)
	sessionID := typeid.NewSessionID()
	first := s.dial(t, sessionID, "ada")
	sync := decode[viewsync.SceneSyncPayload](t, readUntil(t, first, viewsync.TypeSceneSync))
	second := s.dial(t, sessionID, "grace")
	readUntil(t, second, viewsync.TypeSceneSync)

	write(t, first, viewsync.TypeCommandInvoke, viewsync.CommandInvokePayload{
		CommandID: commandID(t, sync.Commands, "activate.point"),
	})

	write(t, first, viewsync.TypePointerClick, viewsync.PointerPayload{
		Origin:    geometry.Vec3{0, 0, 10},
		Direction: geometry.Vec3{0, 0, -1},
		Hits:      []viewsync.HitPayload{{Point: geometry.Vec3{1, 2, 0}}},
	})

	for _, conn := range []*websocket.Conn{first, second} {
		for {
			change := decode[viewsync.ObjectChangePayload](t, readUntil(t, conn, viewsync.TypeObjectChange))
			// The object is attached before its first point is set.
			if change.Node == nil || change.Node.Primitive != primitives.Point.String() || change.Node.Focus == "pending" {
				continue
			}
			require.NotNil(t, change.Node.Geometry)
			assert.Equal(t, geometry.Vec3{1, 2, 0}, *change.Node.Geometry.Center)
			break
		}
	}

	session, ok := s.hub.Session(sessionID)
	require.True(t, ok)
	e := session.Engine()
	require.Eventually(t, func() bool {
		var n int
		_ = e.Call(context.Background(), func() {
			for o := range e.Tree().Root().Descendants() {
				if o.Kind() == primitives.KindPoint {
					n++
				}
			}
		})
		return n == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestHub_ClippingBroadcast(t *testing.T) {
	s := newServer(t)
	sessionID := typeid.NewSessionID()
	conn := s.dial(t, sessionID, "ada")
	sync := decode[viewsync.SceneSyncPayload](t, readUntil(t, conn, viewsync.TypeSceneSync))

	write(t, conn, viewsync.TypeCommandInvoke, viewsync.CommandInvokePayload{
		CommandID: commandID(t, sync.Commands, "activate.slice"),
	})
	write(t, conn, viewsync.TypePointerClick, viewsync.PointerPayload{
		Origin:    geometry.Vec3{0, 0, 10},
		Direction: geometry.Vec3{0, 0, -1},
		Hits:      []viewsync.HitPayload{{Point: geometry.Vec3{0, 0, 2}}},
	})

	write(t, conn, viewsync.TypeCommandInvoke, viewsync.CommandInvokePayload{
		CommandID: commandID(t, sync.Commands, "toggleClipping"),
	})

	// Clipping is off until toggled, so earlier updates carry no planes.
	for {
		clip := decode[viewsync.ClippingPayload](t, readUntil(t, conn, viewsync.TypeClipping))
		if len(clip.Planes) == 0 {
			continue
		}
		require.Len(t, clip.Planes, 1)
		assert.InDelta(t, 1.0, clip.Planes[0].Normal.Len(), 1e-9)
		assert.InDelta(t, -2.0, clip.Planes[0].Constant, 1e-9)
		break
	}
}

func TestHub_Errors(t *testing.T) {
	s := newServer(t)
	conn := s.dial(t, typeid.NewSessionID(), "ada")
	readUntil(t, conn, viewsync.TypeSceneSync)

	write(t, conn, "bogus", struct{}{})
	e := decode[viewsync.ErrorPayload](t, readUntil(t, conn, viewsync.TypeError))
	assert.Equal(t, "bogus", e.RequestType)

	write(t, conn, viewsync.TypeObjectCommand, viewsync.ObjectCommandPayload{Name: "delete", ObjectID: "obj_missing"})
	e = decode[viewsync.ErrorPayload](t, readUntil(t, conn, viewsync.TypeError))
	assert.Equal(t, viewsync.TypeObjectCommand, e.RequestType)

	write(t, conn, viewsync.TypePresenceUpdate, viewsync.CameraPayload{Position: geometry.Vec3{1, 1, 1}, Target: geometry.Vec3{1, 1, 1}})
	e = decode[viewsync.ErrorPayload](t, readUntil(t, conn, viewsync.TypeError))
	assert.Equal(t, viewsync.TypePresenceUpdate, e.RequestType)
}
