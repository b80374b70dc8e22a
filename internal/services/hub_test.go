package services

import (
	"sync"

	"github.com/Dias221467/solo-system/internal/realtime"
)

type recordingHub struct {
	mu        sync.Mutex
	events    []realtime.Event
	greetings map[*realtime.Client][]realtime.Event
}

func newRecordingHub() *recordingHub {
	return &recordingHub{greetings: make(map[*realtime.Client][]realtime.Event)}
}

func (h *recordingHub) Register(client *realtime.Client, greeting ...realtime.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.greetings[client] = greeting
}

func (h *recordingHub) Broadcast(evt realtime.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, evt)
	return nil
}

func (h *recordingHub) broadcasts() []realtime.Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]realtime.Event(nil), h.events...)
}
