// Package ws pushes reload notifications to connected dashboard clients so
// open pages refresh without polling.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dionchettiar/pitchboard/internal/domain/types"
	"github.com/dionchettiar/pitchboard/pkg/metrics"
)

const (
	// writeTimeout is the deadline for a single write to a client.
	writeTimeout = 10 * time.Second

	// pongWait is how long to wait for a pong response before treating the
	// connection as dead.
	pongWait = 60 * time.Second

	// pingPeriod controls how often the server sends WebSocket ping frames.
	// Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// sendBufSize is the per-client outgoing message buffer depth.
	sendBufSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// Allow all origins; callers should apply CORS at the reverse-proxy level.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message is the JSON envelope sent to clients on every reload.
type Message struct {
	Event string           `json:"event"`
	Data  types.ReloadInfo `json:"data"`
}

// InfoProvider returns info about the currently loaded snapshot, ok=false
// when nothing is loaded. New clients get the current state on connect.
type InfoProvider func(ctx context.Context) (types.ReloadInfo, bool)

// Hub manages WebSocket client connections. Unlike a ticker-driven feed it
// only broadcasts when a new snapshot lands, since the dataset changes only
// on reload.
type Hub struct {
	current InfoProvider

	mu      sync.RWMutex
	clients map[*client]struct{}
}

// client represents one connected WebSocket client.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// New creates a Hub that serves current from provider on connect.
func New(provider InfoProvider) *Hub {
	return &Hub{
		current: provider,
		clients: make(map[*client]struct{}),
	}
}

// Run blocks until ctx is cancelled, then closes all active connections.
func (h *Hub) Run(ctx context.Context) {
	<-ctx.Done()
	h.closeAll()
}

// Broadcast pushes a reload notification to every connected client. Clients
// whose outgoing buffer is full are disconnected.
func (h *Hub) Broadcast(info types.ReloadInfo) {
	data, err := json.Marshal(Message{Event: "reload", Data: info})
	if err != nil {
		return
	}

	// Sends stay under the read lock: unregister closes the channel under
	// the write lock, so a send can never hit a closed channel.
	h.mu.RLock()
	var full []*client
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			full = append(full, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range full {
		h.unregister(c)
	}
}

// ServeHTTP upgrades the HTTP connection to WebSocket and serves the client.
// It sends the current snapshot info immediately on connect, then forwards
// reload broadcasts. Blocks until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader has already written the error response.
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufSize),
	}
	h.register(c)
	defer h.unregister(c)

	h.sendCurrent(r.Context(), c)

	go c.writePump()
	c.readPump() // blocks until connection closes
}

// sendCurrent pushes the current snapshot state to a newly connected client.
// The membership check and send run under the read lock for the same reason
// as in Broadcast.
func (h *Hub) sendCurrent(ctx context.Context, c *client) {
	if h.current == nil {
		return
	}
	info, ok := h.current(ctx)
	if !ok {
		return
	}
	data, err := json.Marshal(Message{Event: "reload", Data: info})
	if err != nil {
		return
	}
	h.mu.RLock()
	if _, registered := h.clients[c]; registered {
		select {
		case c.send <- data:
		default:
		}
	}
	h.mu.RUnlock()
}

// Count returns the number of currently connected clients.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	metrics.UpdateWSClients(len(h.clients))
	h.mu.Unlock()
}

// unregister removes a client and closes its send channel. The close happens
// under the write lock, which excludes the read-locked senders.
func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	metrics.UpdateWSClients(len(h.clients))
	h.mu.Unlock()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
	metrics.UpdateWSClients(0)
}

// writePump drains the client's send channel and forwards messages to the
// WebSocket connection. It also sends periodic ping frames. Runs in its own
// goroutine per client.
func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if !ok {
				// Channel was closed (hub is shutting down or client removed).
				c.conn.WriteMessage(websocket.CloseMessage, []byte{}) //nolint:errcheck
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout)) //nolint:errcheck
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump reads frames from the connection to process control messages and
// detect disconnects. Blocks until the connection closes.
func (c *client) readPump() {
	defer c.conn.Close()
	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait)) //nolint:errcheck
		return nil
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}
