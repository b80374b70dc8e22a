package handlers

import (
	"net/http"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/services"
)

type MessagingHandler struct {
	Service *services.MessagingService
}

func NewMessagingHandler(service *services.MessagingService) *MessagingHandler {
	return &MessagingHandler{Service: service}
}

// POST /api/messages/whatsapp
func (h *MessagingHandler) SendWhatsAppHandler(w http.ResponseWriter, r *http.Request) {
	var msg models.OutboundMessage
	if err := decodeJSON(r, &msg); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.Service.SendTextMessage(r.Context(), msg.To, msg.Body)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
