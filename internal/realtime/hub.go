package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/Dias221467/solo-system/internal/metrics"
	"github.com/sirupsen/logrus"
)

type registration struct {
	client   *Client
	greeting [][]byte
}

type frame struct {
	kind string
	data []byte
}

type directFrame struct {
	client *Client
	data   []byte
}

// Hub tracks connected clients and fans events out to them. A single goroutine
// (Run) owns the client set; every request is a channel send, so events reach
// clients in the order they were handed to the hub.
type Hub struct {
	// Registered clients.
	clients map[*Client]bool

	// Outbound events for every client.
	broadcast chan frame

	// Register requests from the clients.
	register chan registration

	// Unregister requests from clients.
	unregister chan *Client

	// Events addressed to a single client.
	direct chan directFrame

	size atomic.Int64
	done chan struct{}
}

func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan frame),
		register:   make(chan registration),
		unregister: make(chan *Client),
		direct:     make(chan directFrame),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
	}
}

// Run processes hub requests until ctx is cancelled, then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		for client := range h.clients {
			h.drop(client)
		}
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case reg := <-h.register:
			h.clients[reg.client] = true
			h.sizeChanged()
			for _, msg := range reg.greeting {
				if !h.deliver(reg.client, msg) {
					break
				}
			}
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
			}
		case d := <-h.direct:
			if h.clients[d.client] {
				h.deliver(d.client, d.data)
			}
		case f := <-h.broadcast:
			metrics.BroadcastEvents.WithLabelValues(f.kind).Inc()
			for client := range h.clients {
				h.deliver(client, f.data)
			}
		}
	}
}

// Register adds client to the connected set. Greeting events are queued to
// that client only, ahead of any later broadcast.
func (h *Hub) Register(client *Client, greeting ...Event) {
	reg := registration{client: client}
	for _, evt := range greeting {
		data, err := json.Marshal(evt)
		if err != nil {
			logrus.WithError(err).WithField("type", evt.Type).Error("Failed to encode greeting event")
			continue
		}
		reg.greeting = append(reg.greeting, data)
	}

	select {
	case h.register <- reg:
	case <-h.done:
		client.closeSend()
	}
}

// Unregister removes client. Unknown or already removed clients are ignored.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// Broadcast encodes evt immediately and delivers it to every connected client,
// the sender of the triggering action included. Delivery is best effort: a
// client that cannot keep up is disconnected without affecting the others.
func (h *Hub) Broadcast(evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", evt.Type, err)
	}

	select {
	case h.broadcast <- frame{kind: evt.Type, data: data}:
		return nil
	case <-h.done:
		return fmt.Errorf("hub stopped")
	}
}

// SendTo delivers evt to a single connected client.
func (h *Hub) SendTo(client *Client, evt Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", evt.Type, err)
	}

	select {
	case h.direct <- directFrame{client: client, data: data}:
		return nil
	case <-h.done:
		return fmt.Errorf("hub stopped")
	}
}

// Size returns the number of connected clients.
func (h *Hub) Size() int {
	return int(h.size.Load())
}

func (h *Hub) sizeChanged() {
	h.size.Store(int64(len(h.clients)))
	metrics.ConnectedClients.Set(float64(len(h.clients)))
}

func (h *Hub) deliver(client *Client, msg []byte) bool {
	select {
	case client.send <- msg:
		return true
	default:
		logrus.WithField("client", client.ID).Warn("Client send queue full, disconnecting")
		h.drop(client)
		return false
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	client.closeSend()
	h.sizeChanged()
}
