package handlers

import (
	"net/http"
	"strconv"

	"github.com/Dias221467/solo-system/internal/models"
	"github.com/Dias221467/solo-system/internal/services"
	"github.com/Dias221467/solo-system/pkg/logger"
	"github.com/gorilla/mux"
)

// ActivityHandler exposes the social activity feed.
type ActivityHandler struct {
	Service     *services.ActivityService
	DefaultPage int
}

// NewActivityHandler initializes a new ActivityHandler.
func NewActivityHandler(service *services.ActivityService, defaultPage int) *ActivityHandler {
	return &ActivityHandler{Service: service, DefaultPage: defaultPage}
}

// GetActivitiesHandler lists recent activities, newest first.
func (h *ActivityHandler) GetActivitiesHandler(w http.ResponseWriter, r *http.Request) {
	limit := h.DefaultPage
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	writeJSON(w, http.StatusOK, h.Service.ListRecent(limit))
}

// CreateActivityHandler publishes a new activity to the feed.
func (h *ActivityHandler) CreateActivityHandler(w http.ResponseWriter, r *http.Request) {
	var input models.ActivityInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		logger.Log.Warnf("Invalid activity payload: %v", err)
		return
	}

	activity := h.Service.CreateActivity(r.Context(), input)
	writeJSON(w, http.StatusCreated, activity)
}

// ToggleLikeHandler likes or unlikes an activity.
func (h *ActivityHandler) ToggleLikeHandler(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserID string `json:"userId"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activity, err := h.Service.ToggleLike(r.Context(), mux.Vars(r)["id"], body.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// AddCommentHandler comments on an activity.
func (h *ActivityHandler) AddCommentHandler(w http.ResponseWriter, r *http.Request) {
	var input models.CommentInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	activity, err := h.Service.AddComment(r.Context(), mux.Vars(r)["id"], input)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, activity)
}
