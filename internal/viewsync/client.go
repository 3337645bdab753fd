package viewsync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 64 * 1024
	sendBuffer = 256
)

// Client is one websocket connection viewing a session.
//
// A client whose send queue fills up is disconnected instead of skipping
// messages: a viewer that misses an object change renders a stale scene,
// and reconnecting gives it a fresh scene.sync.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	SessionID   string
	ClientID    string
	DisplayName string
	logger      *slog.Logger

	mu     sync.Mutex
	closed bool
	lagged bool
}

func NewClient(hub *Hub, conn *websocket.Conn, sessionID, clientID, displayName string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		SessionID:   sessionID,
		ClientID:    clientID,
		DisplayName: displayName,
		logger:      hub.logger.With("client", clientID, "session", sessionID),
	}
}

// Serve pumps messages until the connection ends or ctx is canceled.
func (c *Client) Serve(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go c.writeLoop(ctx)
	c.readLoop(ctx)
}

func (c *Client) readLoop(ctx context.Context) {
	defer c.hub.Unregister(c)
	c.conn.SetReadLimit(maxMsgSize)
	for {
		var msg Message
		if err := wsjson.Read(ctx, c.conn, &msg); err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				if !errors.Is(err, context.Canceled) {
					c.logger.Debug("read failed", "error", err)
				}
			}
			return
		}
		msg.ClientID = c.ClientID
		msg.SessionID = c.SessionID
		c.hub.handleMessage(ctx, c, &msg)
	}
}

func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				c.closeConn()
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				c.logger.Debug("write failed", "error", err)
				c.conn.CloseNow()
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				c.conn.CloseNow()
				return
			}
		case <-ctx.Done():
			c.conn.Close(websocket.StatusGoingAway, "")
			return
		}
	}
}

func (c *Client) closeConn() {
	c.mu.Lock()
	lagged := c.lagged
	c.mu.Unlock()
	if lagged {
		c.conn.Close(websocket.StatusPolicyViolation, "viewer fell behind")
		return
	}
	c.conn.Close(websocket.StatusNormalClosure, "")
}

// Send queues msg for the client.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("marshal message", "type", msg.Type, "error", err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- data:
	default:
		c.logger.Warn("send queue full, disconnecting", "type", msg.Type)
		c.lagged = true
		c.closed = true
		close(c.send)
	}
}

// close ends the write loop once the queued messages are written.
func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}
