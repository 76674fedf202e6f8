package stream

import (
	"encoding/json"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client subscribes to a remote publisher's event stream and keeps the
// connection alive across drops.
type Client struct {
	logger   *zap.SugaredLogger
	hostAddr string
	token    string
	send     chan Message
	done     chan struct{}

	// OnEvent is called for each received input event.
	OnEvent func(ev EventPayload)

	// OnDevices is called when the publisher sends its inventory.
	OnDevices func(devices []DeviceInfo)

	mu        sync.Mutex
	conn      *websocket.Conn
	connected bool
}

// NewClient creates a client for the publisher at hostAddr ("ip:port").
func NewClient(hostAddr, token string, logger *zap.SugaredLogger) *Client {
	return &Client{
		logger:   logger,
		hostAddr: hostAddr,
		token:    token,
		send:     make(chan Message, 100),
		done:     make(chan struct{}),
	}
}

// Start begins the connect-and-reconnect loop in the background.
func (c *Client) Start() {
	go c.loop()
}

func (c *Client) loop() {
	for {
		c.connect()
		select {
		case <-c.done:
			return
		case <-time.After(5 * time.Second):
			c.logger.Infow("reconnecting to publisher", "addr", c.hostAddr)
		}
	}
}

func (c *Client) connect() {
	u := url.URL{Scheme: "ws", Host: c.hostAddr, Path: "/ws"}

	header := http.Header{}
	if c.token != "" {
		header.Set("Authorization", "Bearer "+c.token)
	}
	conn, _, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		c.logger.Warnw("publisher connection failed", "addr", c.hostAddr, "error", err)
		return
	}
	defer conn.Close()

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	c.mu.Unlock()

	c.logger.Infow("connected to publisher", "addr", c.hostAddr)
	c.sendAuth()

	connDone := make(chan struct{})
	go func() {
		defer close(connDone)
		c.writePump(conn)
	}()
	c.readPump(conn)

	c.mu.Lock()
	c.connected = false
	c.conn = nil
	c.mu.Unlock()
	<-connDone
}

func (c *Client) readPump(conn *websocket.Conn) {
	conn.SetReadLimit(4096)
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warnw("publisher read error", "error", err)
			}
			break
		}
		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debugw("invalid publisher message", "error", err)
			continue
		}
		c.handleMessage(msg)
	}
}

func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			jsonMsg, err := json.Marshal(msg)
			if err != nil {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, jsonMsg); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}

func (c *Client) handleMessage(msg Message) {
	switch msg.Type {
	case TypeEvent:
		var payload EventPayload
		jsonBytes, _ := json.Marshal(msg.Payload)
		if err := json.Unmarshal(jsonBytes, &payload); err != nil {
			return
		}
		if c.OnEvent != nil {
			c.OnEvent(payload)
		}

	case TypeDevices:
		var payload DevicesPayload
		jsonBytes, _ := json.Marshal(msg.Payload)
		if err := json.Unmarshal(jsonBytes, &payload); err != nil {
			return
		}
		if c.OnDevices != nil {
			c.OnDevices(payload.Devices)
		}
	}
}

func (c *Client) sendAuth() {
	c.send <- Message{
		Type: TypeAuth,
		Payload: AuthPayload{
			Token:      c.token,
			ClientName: "inputhub",
		},
	}
}

// IsConnected reports whether the client currently has a live
// connection.
func (c *Client) IsConnected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close stops the client permanently.
func (c *Client) Close() {
	close(c.done)
}
