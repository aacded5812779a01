package ws

import (
	"sync"

	"github.com/gofiber/websocket/v2"
)

// Conn wraps a WebSocket connection so that broadcasts and replies from the
// read loop never write to it at the same time. Reads stay with the single
// read loop and go through the embedded connection.
type Conn struct {
	*websocket.Conn
	mu sync.Mutex
}

func NewConn(c *websocket.Conn) *Conn {
	return &Conn{Conn: c}
}

func (c *Conn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Conn.WriteJSON(v)
}

func (c *Conn) WriteMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.Conn.WriteMessage(messageType, data)
}

// Close sends a normal close frame and closes the connection.
func (c *Conn) Close(reason string) error {
	c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
	return c.Conn.Close()
}
