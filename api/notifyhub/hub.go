package notifyhub

import (
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"github.com/moyoez/fileuploader/tool"
	"github.com/moyoez/fileuploader/types"
)

var (
	// SendBuffer is how many notifications may wait for one slow client before new ones are dropped.
	SendBuffer = 64
	// WriteTimeout bounds a single websocket write. A client that misses it is disconnected.
	WriteTimeout = 5 * time.Second
)

// client is one websocket connection. Only its writer goroutine touches conn for writing.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub holds WebSocket connections and broadcasts notifications to all clients.
// Broadcast never blocks: upload progress is reported from inside the request body read.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

// New creates a new notify hub.
func New() *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]*client),
	}
}

// Register adds a WebSocket connection to the hub and starts its writer.
func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, SendBuffer)}
	h.mu.Lock()
	h.clients[conn] = c
	h.mu.Unlock()
	go h.writeLoop(c)
}

// Unregister removes a WebSocket connection from the hub. Unknown connections are ignored.
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[conn]; ok {
		delete(h.clients, conn)
		close(c.send)
	}
}

// Len returns the number of connected clients.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues the notification as JSON for all registered connections.
// Implements notify.Hub.
func (h *Hub) Broadcast(notification *types.Notification) {
	payload, ok := encode(notification)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, c := range h.clients {
		h.enqueue(c, payload)
	}
}

// SendTo queues the notification for one connection only.
func (h *Hub) SendTo(conn *websocket.Conn, notification *types.Notification) {
	payload, ok := encode(notification)
	if !ok {
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	if c, found := h.clients[conn]; found {
		h.enqueue(c, payload)
	}
}

// enqueue must run under h.mu so that Unregister cannot close c.send meanwhile.
func (h *Hub) enqueue(c *client, payload []byte) {
	select {
	case c.send <- payload:
	default:
		tool.DefaultLogger.Debugf("Notify client %s is too slow, dropping notification", c.conn.RemoteAddr())
	}
}

func (h *Hub) writeLoop(c *client) {
	for payload := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(WriteTimeout)); err != nil {
			tool.DefaultLogger.Debugf("Failed to set write deadline: %v", err)
		}
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			tool.DefaultLogger.Debugf("Dropping notify client %s: %v", c.conn.RemoteAddr(), err)
			h.Unregister(c.conn)
			_ = c.conn.Close()
			// drain whatever was queued before Unregister closed the channel
			for range c.send {
			}
			return
		}
	}
}

func encode(notification *types.Notification) ([]byte, bool) {
	if notification == nil {
		return nil, false
	}
	payload, err := sonic.Marshal(notification)
	if err != nil {
		tool.DefaultLogger.Debugf("Failed to encode notification: %v", err)
		return nil, false
	}
	return payload, true
}
