package websocket

import (
	"log"

	"towdash/internal/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	hub *Hub
}

func NewHandler() *Handler {
	hub := NewHub()
	go hub.Run()

	return &Handler{
		hub: hub,
	}
}

// HandleWebSocket upgrades the connection and subscribes the client to
// the tow named in the path.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	towID := c.Param("id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	client := NewClient(h.hub, conn, towID)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// NotifyTowUpdated implements the mutation service's notifier: every
// successful mutation pushes the fresh payload to watching dashboards.
func (h *Handler) NotifyTowUpdated(towID string, payload *models.DashboardPayload) {
	h.hub.SendTowUpdate(towID, Message{
		Type:      "tow_updated",
		TowID:     towID,
		Timestamp: getCurrentTimestamp(),
		Data: map[string]interface{}{
			"status":     payload.Route.Status,
			"statusTone": payload.Route.StatusTone,
			"dashboard":  payload,
		},
	})
}
