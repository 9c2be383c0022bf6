package handlers

import (
	"net/http"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/service"
	"brightsteps/internal/utils"
)

// ParentHandler serves the parent monitoring endpoints. Every
// per-child route passes through RequireLink first.
type ParentHandler struct {
	parentService    *service.ParentService
	checkinService   *service.CheckinService
	statsService     *service.StatsService
	breakdownService *service.BreakdownService
	userRepo         *repository.UserRepository
}

// NewParentHandler creates a new parent handler.
func NewParentHandler(parentService *service.ParentService, checkinService *service.CheckinService, statsService *service.StatsService, breakdownService *service.BreakdownService, userRepo *repository.UserRepository) *ParentHandler {
	return &ParentHandler{
		parentService:    parentService,
		checkinService:   checkinService,
		statsService:     statsService,
		breakdownService: breakdownService,
		userRepo:         userRepo,
	}
}

// Children handles GET /api/parent/children: one card per linked
// child with stats and latest check-in.
func (h *ParentHandler) Children(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	overviews, err := h.parentService.ChildrenOverview(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to load children")
		return
	}

	views := make([]childOverviewView, 0, len(overviews))
	for _, o := range overviews {
		views = append(views, toChildOverviewView(o))
	}
	respondJSON(w, http.StatusOK, views)
}

// LinkChild handles POST /api/parent/children: the parent links a
// student by their login username.
func (h *ParentHandler) LinkChild(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		Username string `json:"username"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := utils.ValidateUsername(req.Username); err != nil {
		respondServiceError(w, err, "")
		return
	}

	profile, err := h.userRepo.GetProfileByUsername(r.Context(), req.Username)
	if err != nil {
		respondServiceError(w, err, "Failed to resolve student")
		return
	}

	child, err := h.userRepo.GetUserByID(r.Context(), profile.UserID)
	if err != nil {
		respondServiceError(w, err, "Failed to load student account")
		return
	}
	if child.Role != models.RoleStudent {
		respondError(w, http.StatusBadRequest, "Username does not belong to a student", "", nil)
		return
	}

	if err := h.parentService.LinkChild(r.Context(), user.ID, child.ID); err != nil {
		respondError(w, http.StatusConflict, err.Error(), "", nil)
		return
	}

	respondJSON(w, http.StatusCreated, toProfileView(profile))
}

// UnlinkChild handles DELETE /api/parent/children/{id}.
func (h *ParentHandler) UnlinkChild(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	childID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return
	}

	if err := h.parentService.UnlinkChild(r.Context(), user.ID, childID); err != nil {
		respondServiceError(w, err, "Failed to unlink child")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// requireChild parses the child id and verifies the link. Returns
// 0 after writing the error response when the check fails.
func (h *ParentHandler) requireChild(w http.ResponseWriter, r *http.Request) int64 {
	user := GetUserFromContext(r.Context())

	childID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid child id", "", nil)
		return 0
	}

	if err := h.parentService.RequireLink(r.Context(), user.ID, childID); err != nil {
		respondServiceError(w, err, "Failed to verify parent link")
		return 0
	}
	return childID
}

// ChildStats handles GET /api/parent/children/{id}/stats.
func (h *ParentHandler) ChildStats(w http.ResponseWriter, r *http.Request) {
	childID := h.requireChild(w, r)
	if childID == 0 {
		return
	}
	respondJSON(w, http.StatusOK, toStatsView(h.statsService.StudentStats(r.Context(), childID)))
}

// ChildBreakdown handles GET /api/parent/children/{id}/breakdown.
func (h *ParentHandler) ChildBreakdown(w http.ResponseWriter, r *http.Request) {
	childID := h.requireChild(w, r)
	if childID == 0 {
		return
	}
	respondBreakdown(w, r, h.breakdownService, childID)
}

// ChildCheckins handles GET /api/parent/children/{id}/checkins.
func (h *ParentHandler) ChildCheckins(w http.ResponseWriter, r *http.Request) {
	childID := h.requireChild(w, r)
	if childID == 0 {
		return
	}

	window, err := utils.ParseTimeWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	expressions, err := h.checkinService.StudentCheckins(r.Context(), childID, window)
	if err != nil {
		respondServiceError(w, err, "Failed to load child check-ins")
		return
	}

	views := make([]expressionView, 0, len(expressions))
	for _, e := range expressions {
		views = append(views, toExpressionView(e))
	}
	respondJSON(w, http.StatusOK, views)
}
