package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"syncflow.app/server/internal/realtime"
)

// EventsHandler upgrades sessions onto the broadcast channel. The channel
// performs no authorization and no per-project filtering; discarding
// irrelevant events is the client projection's job.
type EventsHandler struct {
	hub      *realtime.Hub
	upgrader websocket.Upgrader
}

func NewEventsHandler(hub *realtime.Hub) *EventsHandler {
	return &EventsHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Browser dashboards connect cross-origin in development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Stream blocks for the lifetime of the connection, pushing change events
// until the peer disconnects.
func (h *EventsHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error response.
		slog.WarnContext(ctx, "websocket upgrade failed", "error", err)
		return
	}

	slog.DebugContext(ctx, "session connected",
		"component", "syncflow.realtime",
		"sessions", h.hub.Sessions()+1,
	)

	realtime.Serve(ctx, h.hub, conn)

	slog.DebugContext(ctx, "session disconnected",
		"component", "syncflow.realtime",
		"sessions", h.hub.Sessions(),
	)
}
