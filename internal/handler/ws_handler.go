package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/nyc360/feed-engine/internal/service"
	"github.com/nyc360/feed-engine/internal/ws"
	"github.com/nyc360/feed-engine/pkg/logger"
)

// WSHandler upgrades viewers to the toast push channel
type WSHandler struct {
	workspaces
	hub            *ws.Hub
	allowedOrigins []string
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler
func NewWSHandler(registry *service.Registry, hub *ws.Hub, allowedOrigins string) *WSHandler {
	h := &WSHandler{
		workspaces:     workspaces{registry: registry},
		hub:            hub,
		allowedOrigins: parseOrigins(allowedOrigins),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// parseOrigins parses comma-separated origins string
func parseOrigins(origins string) []string {
	if origins == "" {
		return nil
	}
	parts := strings.Split(origins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		trimmed := strings.TrimSpace(p)
		if trimmed != "" && trimmed != "*" {
			result = append(result, trimmed)
		}
	}
	return result
}

// checkOrigin validates the request origin against allowed origins
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // Same-origin requests don't have Origin header
	}

	// If no allowed origins configured, allow all (development mode)
	if len(h.allowedOrigins) == 0 {
		return true
	}

	for _, allowed := range h.allowedOrigins {
		if origin == allowed {
			return true
		}
	}

	return false
}

// Connect handles GET /ws. Anonymous viewers get their cookie workspace's
// toasts; the current list is sent right after the upgrade, and the browser
// may dismiss toasts over the same socket.
func (h *WSHandler) Connect(c *gin.Context) {
	w := h.acquire(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.GetLogger().Debug().Err(err).Str("viewer", w.Key()).Msg("websocket upgrade failed")
		return
	}

	client := ws.NewClient(h.hub, conn, w.Key(), func(cmd ws.Command) {
		switch cmd.Type {
		case ws.CommandDismiss:
			w.Toasts().Dismiss(cmd.ID)
		default:
			logger.GetLogger().Debug().Str("viewer", w.Key()).Str("type", cmd.Type).Msg("unknown websocket command")
		}
	})
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	h.hub.SendToViewer(w.Key(), &ws.Event{Type: ws.EventToasts, Payload: w.Toasts().Current()})
}
