package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/storefront/internal/cart"
	"github.com/yungbote/storefront/internal/realtime"
)

type EventsHandler struct {
	hub      *realtime.Hub
	snapshot func() cart.Snapshot
}

func NewEventsHandler(hub *realtime.Hub, snapshot func() cart.Snapshot) *EventsHandler {
	return &EventsHandler{hub: hub, snapshot: snapshot}
}

// GET /api/events
// Opens with the current cart, then streams CartChanged and Notification events.
func (h *EventsHandler) Stream(c *gin.Context) {
	client := h.hub.NewClient()
	defer h.hub.CloseClient(client)
	if h.snapshot != nil {
		client.Outbound <- realtime.Message{Event: realtime.EventCartChanged, Data: h.snapshot()}
	}
	h.hub.ServeHTTP(c.Writer, c.Request, client)
}
