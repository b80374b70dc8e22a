package handlers

import (
	"net/http"

	"github.com/Dias221467/solo-system/pkg/middleware"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Chat         *ChatHandler
	Activity     *ActivityHandler
	Notification *NotificationHandler
	Messaging    *MessagingHandler
}

// NewRouter wires every endpoint onto a Gorilla Mux router.
func NewRouter(h Handlers) *mux.Router {
	router := mux.NewRouter()

	// WebSocket endpoint
	router.HandleFunc("/ws", h.Chat.ChatWebSocketHandler)

	api := router.PathPrefix("/api").Subrouter()

	// Chat routes
	api.HandleFunc("/chat/messages", h.Chat.GetChatHistory).Methods("GET")
	api.HandleFunc("/chat/messages", h.Chat.PostChatMessage).Methods("POST")

	// Activity routes
	api.HandleFunc("/activities", h.Activity.GetActivitiesHandler).Methods("GET")
	api.HandleFunc("/activities", h.Activity.CreateActivityHandler).Methods("POST")
	api.HandleFunc("/activities/{id}/like", h.Activity.ToggleLikeHandler).Methods("POST")
	api.HandleFunc("/activities/{id}/comments", h.Activity.AddCommentHandler).Methods("POST")

	// Push routes
	api.HandleFunc("/push/vapid-public-key", h.Notification.VAPIDPublicKeyHandler).Methods("GET")
	api.HandleFunc("/push/subscribe", h.Notification.SubscribeHandler).Methods("POST")
	api.HandleFunc("/push/send", h.Notification.SendNotificationHandler).Methods("POST")

	// Outbound messaging
	api.HandleFunc("/messages/whatsapp", h.Messaging.SendWhatsAppHandler).Methods("POST")

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	// Apply middleware for logging
	router.Use(middleware.LoggingMiddleware)

	return router
}
