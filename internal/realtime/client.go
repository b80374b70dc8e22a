package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 64 * 1024

	sendQueueSize = 256
)

// Client is one websocket connection registered with the hub.
type Client struct {
	ID string

	hub     *Hub
	conn    *websocket.Conn
	limiter *rate.Limiter

	// Buffered channel of outbound messages. Only the hub goroutine writes to it.
	send      chan []byte
	closeOnce sync.Once
}

// NewClient wraps conn. A nil limiter disables inbound rate limiting.
func NewClient(hub *Hub, conn *websocket.Conn, limiter *rate.Limiter) *Client {
	return &Client{
		ID:      uuid.NewString(),
		hub:     hub,
		conn:    conn,
		limiter: limiter,
		send:    make(chan []byte, sendQueueSize),
	}
}

func (c *Client) closeSend() {
	c.closeOnce.Do(func() { close(c.send) })
}

// ReadPump reads inbound events and passes them to handle until the
// connection fails, then unregisters the client.
func (c *Client) ReadPump(handle func(*Client, InboundEvent)) {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logrus.WithError(err).WithField("client", c.ID).Warn("WebSocket read error")
			}
			return
		}

		// Every frame counts against the limit, malformed ones included.
		if c.limiter != nil && !c.limiter.Allow() {
			_ = c.hub.SendTo(c, Event{Type: EventError, Payload: "rate limit exceeded"})
			continue
		}

		var in InboundEvent
		if err := json.Unmarshal(data, &in); err != nil {
			_ = c.hub.SendTo(c, Event{Type: EventError, Payload: "invalid message"})
			continue
		}

		handle(c, in)
	}
}

// WritePump drains the send queue to the connection and keeps it alive with
// pings. It returns once the hub closes the queue or a write fails.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
