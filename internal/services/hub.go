package services

import "github.com/Dias221467/solo-system/internal/realtime"

// Hub is the part of realtime.Hub the feed services need.
type Hub interface {
	Register(client *realtime.Client, greeting ...realtime.Event)
	Broadcast(evt realtime.Event) error
}
