package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/realtime"
	"github.com/Dias221467/solo-system/internal/services"
	"github.com/Dias221467/solo-system/pkg/logger"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

type ChatHandler struct {
	Service *services.ChatService
	Hub     *realtime.Hub

	// Per-connection inbound limit; zero RateLimit disables it.
	RateLimit float64
	RateBurst int
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewChatHandler(service *services.ChatService, hub *realtime.Hub, rateLimit float64, rateBurst int) *ChatHandler {
	return &ChatHandler{Service: service, Hub: hub, RateLimit: rateLimit, RateBurst: rateBurst}
}

// ======== WebSocket Chat ========

// ChatWebSocketHandler upgrades the connection, replays recent chat history
// and relays chat messages sent over it.
func (h *ChatHandler) ChatWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Warnf("WebSocket upgrade failed: %v", err)
		return
	}

	var limiter *rate.Limiter
	if h.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(h.RateLimit), h.RateBurst)
	}
	client := realtime.NewClient(h.Hub, conn, limiter)
	logger.Log.WithField("client", client.ID).Info("WebSocket connected")

	h.Service.Connect(client)
	go client.WritePump()
	client.ReadPump(h.handleInbound)

	logger.Log.WithField("client", client.ID).Info("WebSocket disconnected")
}

func (h *ChatHandler) handleInbound(client *realtime.Client, in realtime.InboundEvent) {
	switch in.Type {
	case realtime.EventSendMessage:
		var input models.ChatMessageInput
		if err := json.Unmarshal(in.Payload, &input); err != nil {
			_ = h.Hub.SendTo(client, realtime.Event{Type: realtime.EventError, Payload: "invalid chat message"})
			return
		}
		h.Service.PostMessage(context.Background(), input)
	default:
		_ = h.Hub.SendTo(client, realtime.Event{Type: realtime.EventError, Payload: "unknown event type: " + in.Type})
	}
}

// GET /api/chat/messages
func (h *ChatHandler) GetChatHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.History())
}

// POST /api/chat/messages
func (h *ChatHandler) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	var input models.ChatMessageInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	msg := h.Service.PostMessage(r.Context(), input)
	writeJSON(w, http.StatusCreated, msg)
}
