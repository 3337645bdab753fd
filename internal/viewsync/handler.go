package viewsync

import (
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/scenekit/scenekit/internal/typeid"
)

// ServeWS upgrades the request and attaches the connection to the session
// named by the sessionId route variable. The display name comes from the
// name query parameter.
func (h *Hub) ServeWS(originPatterns []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := mux.Vars(r)["sessionId"]
		if err := typeid.Validate(sessionID, typeid.PrefixSession); err != nil {
			http.Error(w, "invalid session id", http.StatusBadRequest)
			return
		}
		displayName := r.URL.Query().Get("name")
		if displayName == "" {
			displayName = "Viewer"
		}

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			OriginPatterns: originPatterns,
		})
		if err != nil {
			h.logger.Error("websocket accept", "error", err)
			return
		}

		client := NewClient(h, conn, sessionID, uuid.New().String(), displayName)
		if !h.Register(client) {
			conn.Close(websocket.StatusGoingAway, "server shutting down")
			return
		}

		client.Serve(r.Context())
	}
}
