package models

import "time"

// PushSubscription is the browser's PushSubscription.toJSON() shape. The
// server only hands it to the push delivery client.
type PushSubscription struct {
	ID             string               `bson:"_id,omitempty" json:"-"`
	Endpoint       string               `bson:"endpoint" json:"endpoint"`
	ExpirationTime *int64               `bson:"expiration_time,omitempty" json:"expirationTime,omitempty"`
	Keys           PushSubscriptionKeys `bson:"keys" json:"keys"`
	CreatedAt      time.Time            `bson:"created_at" json:"-"`
}

type PushSubscriptionKeys struct {
	P256dh string `bson:"p256dh" json:"p256dh"`
	Auth   string `bson:"auth" json:"auth"`
}

// NotificationPayload is serialized as JSON and read by the service worker.
type NotificationPayload struct {
	Title string         `json:"title"`
	Body  string         `json:"body"`
	Icon  string         `json:"icon,omitempty"`
	Data  map[string]any `json:"data,omitempty"`
}

// OutboundMessage is a transient request to text a phone number.
type OutboundMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
}
