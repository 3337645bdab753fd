package viewsync

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/scenekit/scenekit/internal/commands"
	"github.com/scenekit/scenekit/internal/domain"
	"github.com/scenekit/scenekit/internal/engine"
	"github.com/scenekit/scenekit/internal/geometry"
)

// Session is one shared scene and the clients viewing it.
type Session struct {
	id       string
	engine   *engine.Engine
	cancel   context.CancelFunc
	stopped  chan struct{}
	presence *presenceTracker
	seq      atomic.Int64
	logger   *slog.Logger

	mu      sync.RWMutex
	clients map[string]*Client // clientID -> client
}

func newSession(ctx context.Context, id string, opts engine.Options) *Session {
	s := &Session{
		id:       id,
		stopped:  make(chan struct{}),
		presence: newPresenceTracker(nil),
		clients:  make(map[string]*Client),
	}
	opts.Logger = opts.Logger.With("session", id)
	s.logger = opts.Logger
	s.engine = engine.New(viewer{s}, opts)
	s.engine.Subscribe(s.onEvent)

	ctx, s.cancel = context.WithCancel(ctx)
	go func() {
		defer close(s.stopped)
		s.engine.Run(ctx)
	}()
	return s
}

func (s *Session) ID() string { return s.id }

// Engine returns the engine that owns the session's scene.
func (s *Session) Engine() *engine.Engine { return s.engine }

func (s *Session) close() {
	s.cancel()
	<-s.stopped
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.clients {
		c.close()
		delete(s.clients, id)
	}
}

func (s *Session) join(ctx context.Context, client *Client) {
	s.mu.Lock()
	s.clients[client.ClientID] = client
	s.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID, SessionID: s.id})
	client.Send(&Message{Type: TypeWelcome, Payload: welcome})

	if msg, err := s.syncMessage(ctx); err == nil {
		client.Send(msg)
	} else {
		s.logger.Error("scene sync", "error", err)
	}

	if msg, err := s.presence.stateMessage(client.ClientID); err == nil {
		client.Send(msg)
	} else {
		s.logger.Error("presence state", "error", err)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		ClientID:    client.ClientID,
		DisplayName: client.DisplayName,
	})
	s.broadcast(&Message{Type: TypePresenceJoin, Payload: joinPayload}, client.ClientID)
}

// leave removes client and reports whether the session is now empty.
func (s *Session) leave(client *Client) bool {
	s.mu.Lock()
	if _, ok := s.clients[client.ClientID]; !ok {
		empty := len(s.clients) == 0
		s.mu.Unlock()
		return empty
	}
	delete(s.clients, client.ClientID)
	client.close()
	empty := len(s.clients) == 0
	s.mu.Unlock()

	s.presence.remove(client.ClientID)
	leavePayload, _ := json.Marshal(PresenceLeavePayload{ClientID: client.ClientID})
	s.broadcast(&Message{Type: TypePresenceLeave, Payload: leavePayload}, "")
	return empty
}

func (s *Session) syncMessage(ctx context.Context) (*Message, error) {
	var payload SceneSyncPayload
	err := s.engine.Call(ctx, func() {
		payload.Nodes = s.engine.Scene()
		payload.Commands = s.engine.Controller().States()
	})
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{Type: TypeSceneSync, SessionID: s.id, Payload: data}, nil
}

// broadcast sends msg to every client except excludeClientID.
func (s *Session) broadcast(msg *Message, excludeClientID string) {
	msg.SessionID = s.id
	msg.Seq = s.seq.Add(1)
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}

// broadcastPresence sends the presence of sender to the other clients.
func (s *Session) broadcastPresence(sender *Client, presence PresencePayload) {
	data, err := json.Marshal(presence)
	if err != nil {
		s.logger.Error("marshal presence", "error", err)
		return
	}
	s.broadcast(&Message{Type: TypePresenceUpdate, ClientID: sender.ClientID, Payload: data}, sender.ClientID)
}

func (s *Session) broadcastPayload(msgType string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("marshal payload", "type", msgType, "error", err)
		return
	}
	s.broadcast(&Message{Type: msgType, Payload: data}, "")
}

// onEvent runs on the engine loop, so it may read the tree.
func (s *Session) onEvent(ev engine.Event) {
	switch ev.Type {
	case engine.EventChange:
		payload := ObjectChangePayload{ObjectID: ev.Object.ID(), Changes: ev.Change}
		if !ev.Change.Has(domain.ChangeDeleted) {
			node := engine.Describe(ev.Object, s.engine.VisibilityContext())
			payload.Node = &node
		}
		s.broadcastPayload(TypeObjectChange, payload)
	case engine.EventCommands:
		s.broadcastPayload(TypeCommands, CommandsPayload{Commands: ev.Commands})
	}
}

func (s *Session) handle(ctx context.Context, sender *Client, msg *Message) error {
	switch msg.Type {
	case TypePointerClick, TypePointerHover, TypePointerWheel:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid pointer payload: %w", err)
		}
		ev := p.event()
		if msg.Type != TypePointerWheel {
			if presence, ok := s.presence.point(sender, p); ok {
				s.broadcastPresence(sender, presence)
			}
		}
		switch msg.Type {
		case TypePointerClick:
			s.engine.Click(ev)
		case TypePointerHover:
			s.engine.Hover(ev)
		default:
			_, err := s.engine.Wheel(ctx, ev, p.Delta)
			return err
		}
		return nil

	case TypeKey:
		var p KeyPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid key payload: %w", err)
		}
		s.engine.Key(p.Key, p.Down)
		return nil

	case TypeCommandInvoke:
		var p CommandInvokePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid command payload: %w", err)
		}
		_, err := s.engine.Invoke(ctx, p.CommandID)
		return err

	case TypeObjectCommand:
		var p ObjectCommandPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid object command payload: %w", err)
		}
		_, err := s.engine.InvokeOn(ctx, p.Name, p.ObjectID)
		return err

	case TypeObjectSelect:
		var p ObjectSelectPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("invalid select payload: %w", err)
		}
		return s.engine.Select(ctx, p.ObjectID)

	case TypePresenceUpdate:
		var camera CameraPayload
		if err := json.Unmarshal(msg.Payload, &camera); err != nil {
			return fmt.Errorf("invalid presence payload: %w", err)
		}
		if camera.Position == camera.Target {
			return fmt.Errorf("camera looks at its own position")
		}
		s.broadcastPresence(sender, s.presence.look(sender, camera))
		return nil
	}
	return fmt.Errorf("unknown message type %q", msg.Type)
}

func (p PointerPayload) event() commands.PointerEvent {
	ev := commands.PointerEvent{
		Ray:   geometry.NewRay(p.Origin, p.Direction),
		X:     p.X,
		Y:     p.Y,
		Shift: p.Shift,
		Ctrl:  p.Ctrl,
	}
	for _, h := range p.Hits {
		ev.Candidates = append(ev.Candidates, commands.Candidate{Point: h.Point, ObjectID: h.ObjectID})
	}
	return ev
}

// viewer is the engine's view of the remote renderers. Intersections come
// with the pointer events; clipping and cursor changes are broadcast.
type viewer struct{ s *Session }

// Transform is the identity: clients render the model in world coordinates.
func (viewer) Transform() mgl64.Mat4 { return mgl64.Ident4() }

func (viewer) Intersect(_ context.Context, ev commands.PointerEvent, accept func(string) bool) (*engine.Pick, error) {
	for _, c := range ev.Candidates {
		if c.ObjectID == "" || accept(c.ObjectID) {
			return &engine.Pick{Point: c.Point, ObjectID: c.ObjectID}, nil
		}
	}
	return nil, nil
}

func (v viewer) SetClippingPlanes(planes []geometry.Plane) {
	v.s.broadcastPayload(TypeClipping, clippingPayload(planes))
}

func (v viewer) SetCropBoxPlanes(planes []geometry.Plane) {
	v.s.broadcastPayload(TypeCropBox, clippingPayload(planes))
}

func clippingPayload(planes []geometry.Plane) ClippingPayload {
	payload := ClippingPayload{Planes: make([]PlanePayload, 0, len(planes))}
	for _, p := range planes {
		payload.Planes = append(payload.Planes, PlanePayload{Normal: p.Normal, Constant: p.Constant})
	}
	return payload
}

func (v viewer) SetCursor(cursor commands.Cursor) {
	v.s.broadcastPayload(TypeCursor, CursorPayload{Cursor: cursor})
}
