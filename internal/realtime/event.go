package realtime

import "encoding/json"

// Event types carried in the envelope sent to and received from clients.
const (
	EventChatHistory     = "chat_history"
	EventChatMessage     = "chat_message"
	EventActivityCreated = "activity_created"
	EventActivityUpdated = "activity_updated"
	EventError           = "error"

	// EventSendMessage is the only inbound type clients send.
	EventSendMessage = "send_message"
)

// Event is the wire envelope for everything pushed over a connection.
type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// InboundEvent is an envelope received from a client. Payload decoding is left
// to the handler that understands Type.
type InboundEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
