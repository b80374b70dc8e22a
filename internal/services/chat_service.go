package services

import (
	"context"
	"sync"
	"time"

	"github.com/Dias221467/solo-system/internal/feed"
	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/realtime"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ChatService relays global chat messages through a capped in-memory feed.
type ChatService struct {
	// mu orders append+broadcast and snapshot+register against each other.
	mu          sync.Mutex
	feed        *feed.Feed[models.ChatMessage]
	hub         Hub
	historySize int
}

func NewChatService(hub Hub, capacity, historySize int) *ChatService {
	return &ChatService{
		feed:        feed.New[models.ChatMessage](capacity),
		hub:         hub,
		historySize: historySize,
	}
}

// PostMessage stores a message and broadcasts it to every connected client,
// the sender included. Clients reconcile their own echo by id.
func (s *ChatService) PostMessage(ctx context.Context, input models.ChatMessageInput) *models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.ChatMessage{
		ID:         newID(),
		UserID:     input.UserID,
		UserName:   input.UserName,
		UserAvatar: input.UserAvatar,
		Content:    input.Content,
		Timestamp:  time.Now().UTC(),
	}
	s.feed.Append(msg)

	if err := s.hub.Broadcast(realtime.Event{Type: realtime.EventChatMessage, Payload: msg}); err != nil {
		logrus.WithContext(ctx).WithError(err).WithField("message_id", msg.ID).Warn("Failed to broadcast chat message")
	}

	return &msg
}

// History returns the replay sent to new connections, oldest first.
func (s *ChatService) History() []models.ChatMessage {
	return s.feed.Recent(s.historySize)
}

// Connect registers client with the hub and replays recent history to it
// alone. No message can fall between the replay and the first broadcast.
func (s *ChatService) Connect(client *realtime.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.hub.Register(client, realtime.Event{Type: realtime.EventChatHistory, Payload: s.History()})
}

// newID returns a time-ordered identifier.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
