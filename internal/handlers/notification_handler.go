package handlers

import (
	"net/http"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/services"
	"github.com/Dias221467/solo-system/pkg/logger"
	"github.com/Dias221467/solo-system/pkg/webpush"
)

type NotificationHandler struct {
	Registry       *services.SubscriptionRegistry
	Service        *services.NotificationService
	VAPIDPublicKey string
}

func NewNotificationHandler(registry *services.SubscriptionRegistry, service *services.NotificationService, vapidPublicKey string) *NotificationHandler {
	return &NotificationHandler{Registry: registry, Service: service, VAPIDPublicKey: vapidPublicKey}
}

// GET /api/push/vapid-public-key
func (h *NotificationHandler) VAPIDPublicKeyHandler(w http.ResponseWriter, r *http.Request) {
	if h.VAPIDPublicKey == "" {
		writeError(w, http.StatusServiceUnavailable, services.ErrPushDisabled.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"publicKey": h.VAPIDPublicKey})
}

// POST /api/push/subscribe
func (h *NotificationHandler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	var sub models.PushSubscription
	if err := decodeJSON(r, &sub); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription")
		logger.Log.Warnf("Invalid push subscription: %v", err)
		return
	}
	if sub.Endpoint == "" || sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
		writeError(w, http.StatusBadRequest, "Subscription endpoint and keys are required")
		return
	}
	if err := webpush.ValidateSubscriptionKeys(sub.Keys.P256dh, sub.Keys.Auth); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid subscription keys: "+err.Error())
		return
	}

	h.Registry.Add(r.Context(), &sub)
	logger.Log.Infof("Push subscription registered (%d total)", h.Registry.Len())

	writeJSON(w, http.StatusCreated, map[string]string{"message": "Subscribed"})
}

// POST /api/push/send
func (h *NotificationHandler) SendNotificationHandler(w http.ResponseWriter, r *http.Request) {
	var payload models.NotificationPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.Title == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	report, err := h.Service.Broadcast(r.Context(), payload)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
