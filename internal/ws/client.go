package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nyc360/feed-engine/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// CommandDismiss closes a toast on the viewer's behalf
const CommandDismiss = "dismiss"

// Command is a message the browser sends over the socket
type Command struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// CommandHandler receives the commands of one connection, in arrival order
type CommandHandler func(Command)

// Client is one socket of a viewer
type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	viewerKey string
	onCommand CommandHandler
}

// NewClient creates a client; onCommand may be nil for a push-only socket
func NewClient(hub *Hub, conn *websocket.Conn, viewerKey string, onCommand CommandHandler) *Client {
	return &Client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, 256),
		viewerKey: viewerKey,
		onCommand: onCommand,
	}
}

// ParseCommand decodes a browser message. Malformed or untyped messages are
// rejected.
func ParseCommand(data []byte) (Command, bool) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil || cmd.Type == "" {
		return Command{}, false
	}
	return cmd, true
}

// ReadPump reads browser commands until the socket closes
func (c *Client) ReadPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.ctx.Done():
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})

	for {
		kind, data, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
		if kind != websocket.TextMessage || c.onCommand == nil {
			continue
		}
		cmd, ok := ParseCommand(data)
		if !ok {
			logger.GetLogger().Debug().Str("viewer", c.viewerKey).Msg("ws: unreadable command ignored")
			continue
		}
		c.onCommand(cmd)
	}
}

// WritePump sends messages to the WebSocket
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message) //nolint:errcheck
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
