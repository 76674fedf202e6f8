package stream

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Local network tool; any origin may subscribe.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Hub tracks WebSocket subscribers and fans broadcast messages out to
// all of them.
type Hub struct {
	logger     *zap.SugaredLogger
	clients    map[*wsClient]bool
	clientsMu  sync.RWMutex
	broadcast  chan Message
	register   chan *wsClient
	unregister chan *wsClient
	shutdown   chan struct{}
}

// wsClient is one connected subscriber.
type wsClient struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	ip   string
}

func newHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		logger:     logger,
		clients:    make(map[*wsClient]bool),
		broadcast:  make(chan Message),
		register:   make(chan *wsClient),
		unregister: make(chan *wsClient),
		shutdown:   make(chan struct{}),
	}
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.clientsMu.Unlock()
			h.logger.Infow("subscriber connected", "addr", client.ip, "total", total)

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.logger.Infow("subscriber disconnected", "addr", client.ip, "total", len(h.clients))
			}
			h.clientsMu.Unlock()

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-h.shutdown:
			return
		}
	}
}

func (h *Hub) broadcastMessage(message Message) {
	jsonMsg, err := json.Marshal(message)
	if err != nil {
		h.logger.Warnw("cannot marshal broadcast", "error", err)
		return
	}

	// Write lock: evicting a slow subscriber mutates the map, and
	// subscriberCount may be reading it from another goroutine.
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		select {
		case client.send <- jsonMsg:
		default:
			// Slow subscriber; drop it rather than stall the stream.
			close(client.send)
			delete(h.clients, client)
		}
	}
}

// Broadcast queues a message for every subscriber.
func (h *Hub) Broadcast(message Message) {
	select {
	case h.broadcast <- message:
	case <-h.shutdown:
	}
}

// subscriberCount reports the number of connected subscribers.
func (h *Hub) subscriberCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

func (h *Hub) stop() { close(h.shutdown) }

func (h *Hub) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warnw("websocket upgrade failed", "error", err)
		return
	}
	client := &wsClient{
		hub:  h,
		conn: conn,
		send: make(chan []byte, 256),
		ip:   r.RemoteAddr,
	}
	h.register <- client

	go client.writePump()
	go client.readPump()
}

// readPump drains subscriber messages; the stream is one-directional so
// only auth and ping carry meaning.
func (c *wsClient) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(4096)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Debugw("subscriber read error", "addr", c.ip, "error", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

// writePump pushes hub messages out and keeps the connection alive with
// protocol pings.
func (c *wsClient) writePump() {
	ticker := time.NewTicker(50 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)
			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *wsClient) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.hub.logger.Debugw("invalid subscriber message", "addr", c.ip, "error", err)
		return
	}

	switch msg.Type {
	case TypeAuth:
		var payload AuthPayload
		jsonBytes, _ := json.Marshal(msg.Payload)
		if err := json.Unmarshal(jsonBytes, &payload); err != nil {
			return
		}
		c.hub.logger.Infow("subscriber identified",
			"addr", c.ip, "name", payload.ClientName, "version", payload.ClientVersion)

	case TypePing:
		resp, _ := json.Marshal(Message{Type: TypePing})
		select {
		case c.send <- resp:
		default:
		}
	}
}
