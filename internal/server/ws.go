package server

import (
	"net/http"

	uuid "github.com/google/uuid"
	websocket "github.com/gorilla/websocket"

	engine "github.com/paintmcp/paintd/internal/engine"
	logger "github.com/paintmcp/paintd/internal/logger"
)

// WSHandler streams engine events over WebSocket. The stream is one-way;
// client frames are read only to notice the connection closing.
type WSHandler struct {
	engine   *engine.Engine
	upgrader websocket.Upgrader
}

// NewWSHandler creates the event stream handler. Origins follow the same
// allowlist as the CORS layer; requests without an Origin header are allowed.
func NewWSHandler(eng *engine.Engine, origins []string) *WSHandler {
	return &WSHandler{
		engine: eng,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || originAllowed(origins, origin)
			},
		},
	}
}

// HandleEvents upgrades the connection and forwards engine events until
// either side closes.
func (h *WSHandler) HandleEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("failed to upgrade to WebSocket", "error", err)
		return
	}

	events, cancel := h.engine.Events().Subscribe(64)
	defer cancel()

	clientID := uuid.NewString()
	logger.Info("event stream client connected", "client_id", clientID)

	// the read loop's only job is to unblock the writer when the
	// client goes away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				_ = conn.Close()
				return
			}
		}
	}()

	for event := range events {
		if err := conn.WriteJSON(event); err != nil {
			logger.Warn("event stream write failed", "client_id", clientID, "error", err)
			break
		}
	}

	_ = conn.Close()
	logger.Info("event stream client disconnected", "client_id", clientID)
}
