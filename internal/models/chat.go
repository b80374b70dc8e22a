package models

import "time"

// ChatMessage is a global chat line relayed to every connected client.
type ChatMessage struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	UserName   string    `json:"userName"`
	UserAvatar string    `json:"userAvatar,omitempty"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessageInput is what a client supplies when sending a chat message.
type ChatMessageInput struct {
	UserID     string `json:"userId"`
	UserName   string `json:"userName"`
	UserAvatar string `json:"userAvatar,omitempty"`
	Content    string `json:"content"`
}
