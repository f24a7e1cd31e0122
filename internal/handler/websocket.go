package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"staffing_bridge/internal/realtime"
	"staffing_bridge/pkg/logger"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // origin enforcement happens at the edge proxy
	},
}

type WebSocketHandler struct {
	hub *realtime.Hub
	log logger.Logger
}

func NewWebSocketHandler(hub *realtime.Hub, log logger.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		log: log,
	}
}

// HandleMessages streams newly persisted messages for one request to the
// connected viewer. Delivery is best-effort; viewers reconcile against the
// polled list by message id.
func (h *WebSocketHandler) HandleMessages(c *gin.Context) {
	requestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "missing_fields", "details": []string{"request_id"}})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	messages, unsubscribe := h.hub.Subscribe(requestID)
	defer unsubscribe()

	// Reader only watches for the client going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case message, ok := <-messages:
			if !ok {
				return
			}
			if err := conn.WriteJSON(message); err != nil {
				h.log.Debug("Viewer write failed, dropping subscription", "error", err, "request_id", requestID)
				return
			}
		case <-done:
			return
		}
	}
}
