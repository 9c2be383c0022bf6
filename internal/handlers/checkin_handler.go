package handlers

import (
	"net/http"

	"brightsteps/internal/models"
	"brightsteps/internal/service"
	"brightsteps/internal/utils"
)

// CheckinHandler serves emotional check-ins and notifications.
type CheckinHandler struct {
	checkinService *service.CheckinService
}

// NewCheckinHandler creates a new check-in handler.
func NewCheckinHandler(checkinService *service.CheckinService) *CheckinHandler {
	return &CheckinHandler{checkinService: checkinService}
}

// Create handles POST /api/checkins: the student records how they
// feel.
func (h *CheckinHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Emotion string `json:"emotion"`
		Note    string `json:"note"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	expression, err := h.checkinService.RecordCheckin(r.Context(), user.ID, models.Emotion(req.Emotion), req.Note)
	if err != nil {
		respondServiceError(w, err, "Failed to record check-in")
		return
	}

	respondJSON(w, http.StatusCreated, toExpressionView(*expression))
}

// History handles GET /api/checkins: the student's own check-in
// history inside an optional ?window=.
func (h *CheckinHandler) History(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	window, err := utils.ParseTimeWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	expressions, err := h.checkinService.StudentCheckins(r.Context(), user.ID, window)
	if err != nil {
		respondServiceError(w, err, "Failed to load check-ins")
		return
	}

	views := make([]expressionView, 0, len(expressions))
	for _, e := range expressions {
		views = append(views, toExpressionView(e))
	}
	respondJSON(w, http.StatusOK, views)
}

// Alerts handles GET /api/admin/alerts: all check-ins inside the
// window with student names, newest first.
func (h *CheckinHandler) Alerts(w http.ResponseWriter, r *http.Request) {
	window, err := utils.ParseTimeWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	alerts, err := h.checkinService.Alerts(r.Context(), window)
	if err != nil {
		respondServiceError(w, err, "Failed to load alerts")
		return
	}

	views := make([]alertView, 0, len(alerts))
	for _, a := range alerts {
		views = append(views, toAlertView(a))
	}
	respondJSON(w, http.StatusOK, views)
}

// Notifications handles GET /api/notifications with an optional
// ?unread=true filter.
func (h *CheckinHandler) Notifications(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.checkinService.Notifications(r.Context(), user.ID, unreadOnly)
	if err != nil {
		respondServiceError(w, err, "Failed to load notifications")
		return
	}

	views := make([]notificationView, 0, len(notifications))
	for _, n := range notifications {
		views = append(views, toNotificationView(n))
	}
	respondJSON(w, http.StatusOK, views)
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *CheckinHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	count, err := h.checkinService.UnreadCount(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to count notifications")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"unread": count})
}

// MarkRead handles POST /api/notifications/{id}/read. Scoped to
// the signed-in recipient.
func (h *CheckinHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid notification id", "", nil)
		return
	}

	if err := h.checkinService.MarkNotificationRead(r.Context(), id, user.ID); err != nil {
		respondServiceError(w, err, "Failed to mark notification read")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// MarkAllRead handles POST /api/notifications/read-all.
func (h *CheckinHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	if err := h.checkinService.MarkAllNotificationsRead(r.Context(), user.ID); err != nil {
		respondServiceError(w, err, "Failed to mark notifications read")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
