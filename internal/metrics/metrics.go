package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "solo",
		Subsystem: "realtime",
		Name:      "connected_clients",
		Help:      "Number of websocket clients currently connected to the hub.",
	})

	BroadcastEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "solo",
		Subsystem: "realtime",
		Name:      "broadcast_events_total",
		Help:      "Events fanned out by the hub, by event type.",
	}, []string{"type"})

	PushDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "solo",
		Subsystem: "push",
		Name:      "deliveries_total",
		Help:      "Web push delivery attempts, by outcome (sent, gone, failed).",
	}, []string{"outcome"})

	PushSubscriptions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "solo",
		Subsystem: "push",
		Name:      "subscriptions",
		Help:      "Registered web push subscriptions.",
	})

	OutboundMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "solo",
		Subsystem: "messaging",
		Name:      "outbound_total",
		Help:      "Outbound text messages, by outcome (sent, simulated, failed).",
	}, []string{"outcome"})
)
