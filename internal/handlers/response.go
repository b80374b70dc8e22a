package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/solo-system/internal/services"
	"github.com/Dias221467/solo-system/pkg/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Warnf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps service errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		ve *services.ValidationError
		ce *services.CarrierError
	)
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Not found")
	case errors.As(err, &ve):
		writeError(w, http.StatusBadRequest, ve.Error())
	case errors.As(err, &ce):
		writeError(w, http.StatusBadGateway, ce.Error())
	case errors.Is(err, services.ErrPushDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		logger.Log.Errorf("Unhandled error: %v", err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
