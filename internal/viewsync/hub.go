// Package viewsync serves scenes to browser renderers over websockets. Each
// session owns one engine; every client connected to the session sees the
// same scene and may drive it.
package viewsync

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/scenekit/scenekit/internal/engine"
)

type Hub struct {
	mu         sync.RWMutex
	sessions   map[string]*Session // sessionID -> session
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	opts       engine.Options
	logger     *slog.Logger
}

func NewHub(opts engine.Options) *Hub {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Hub{
		sessions:   make(map[string]*Session),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		opts:       opts,
		logger:     opts.Logger,
	}
}

// Run manages client registration until ctx is canceled, then stops all
// sessions.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mu.Lock()
		for id, s := range h.sessions {
			s.close()
			delete(h.sessions, id)
		}
		h.mu.Unlock()
	}()
	for {
		select {
		case client := <-h.register:
			h.addClient(ctx, client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-ctx.Done():
			return
		}
	}
}

func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Session returns the running session with the given id.
func (h *Hub) Session(id string) (*Session, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.sessions[id]
	return s, ok
}

func (h *Hub) addClient(ctx context.Context, client *Client) {
	h.mu.Lock()
	session, ok := h.sessions[client.SessionID]
	if !ok {
		session = newSession(ctx, client.SessionID, h.opts)
		h.sessions[client.SessionID] = session
	}
	h.mu.Unlock()

	session.join(ctx, client)
	h.logger.Info("client joined", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	session, ok := h.sessions[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	empty := session.leave(client)
	if empty {
		delete(h.sessions, client.SessionID)
	}
	h.mu.Unlock()

	if empty {
		session.close()
		h.logger.Info("session closed", "session", client.SessionID)
	}
	h.logger.Info("client left", "client", client.ClientID, "session", client.SessionID)
}

func (h *Hub) handleMessage(ctx context.Context, sender *Client, msg *Message) {
	session, ok := h.Session(sender.SessionID)
	if !ok {
		return
	}
	if err := session.handle(ctx, sender, msg); err != nil {
		h.logger.Warn("message failed", "type", msg.Type, "client", sender.ClientID, "error", err)
		payload, _ := json.Marshal(ErrorPayload{Message: err.Error(), RequestType: msg.Type})
		sender.Send(&Message{Type: TypeError, Payload: payload})
	}
}

// SessionEngine returns the engine of a running session.
func (h *Hub) SessionEngine(id string) (*engine.Engine, bool) {
	s, ok := h.Session(id)
	if !ok {
		return nil, false
	}
	return s.Engine(), true
}
