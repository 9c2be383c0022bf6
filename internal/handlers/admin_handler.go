package handlers

import (
	"net/http"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/service"
)

// AdminHandler serves student management and school-wide
// reporting endpoints.
type AdminHandler struct {
	authService      *service.AuthService
	statsService     *service.StatsService
	breakdownService *service.BreakdownService
	badgeService     *service.BadgeService
	userRepo         *repository.UserRepository
	activityRepo     *repository.ActivityRepository
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(authService *service.AuthService, statsService *service.StatsService, breakdownService *service.BreakdownService, badgeService *service.BadgeService, userRepo *repository.UserRepository, activityRepo *repository.ActivityRepository) *AdminHandler {
	return &AdminHandler{
		authService:      authService,
		statsService:     statsService,
		breakdownService: breakdownService,
		badgeService:     badgeService,
		userRepo:         userRepo,
		activityRepo:     activityRepo,
	}
}

// CreateStudent handles POST /api/admin/students. The generated
// passcode appears in this response only; it is stored hashed.
func (h *AdminHandler) CreateStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"full_name"`
		Gender   string `json:"gender"`
		Age      int    `json:"age"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	creds, err := h.authService.RegisterStudent(r.Context(), req.FullName, req.Gender, req.Age)
	if err != nil {
		respondServiceError(w, err, "Failed to create student")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"user":     toUserView(creds.User),
		"profile":  toProfileView(creds.Profile),
		"passcode": creds.Passcode,
	})
}

// CreateAdmin handles POST /api/admin/admins.
func (h *AdminHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		FullName string `json:"full_name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.authService.Register(r.Context(), req.Email, req.Password, req.FullName, models.RoleAdmin)
	if err != nil {
		respondServiceError(w, err, "Failed to create admin")
		return
	}
	respondJSON(w, http.StatusCreated, toUserView(user))
}

// ListStudents handles GET /api/admin/students.
func (h *AdminHandler) ListStudents(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.userRepo.ListStudentProfiles(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to list students")
		return
	}

	views := make([]profileView, 0, len(profiles))
	for i := range profiles {
		views = append(views, toProfileView(&profiles[i]))
	}
	respondJSON(w, http.StatusOK, views)
}

// DeleteUser handles DELETE /api/admin/users/{id}. Cascades take
// the profile, progress, check-ins and links with it.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid user id", "", nil)
		return
	}

	caller := GetUserFromContext(r.Context())
	if caller.ID == id {
		respondError(w, http.StatusBadRequest, "Cannot delete your own account", "", nil)
		return
	}

	if _, err := h.userRepo.GetUserByID(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to load user")
		return
	}

	if err := h.userRepo.DeleteUser(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to delete user")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// StudentStats handles GET /api/admin/students/{id}/stats.
func (h *AdminHandler) StudentStats(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student id", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, toStatsView(h.statsService.StudentStats(r.Context(), id)))
}

// StudentBreakdown handles GET /api/admin/students/{id}/breakdown.
func (h *AdminHandler) StudentBreakdown(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student id", "", nil)
		return
	}
	respondBreakdown(w, r, h.breakdownService, id)
}

// StudentBadges handles GET /api/admin/students/{id}/badges.
func (h *AdminHandler) StudentBadges(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student id", "", nil)
		return
	}

	statuses, err := h.badgeService.StudentBadges(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to load student badges")
		return
	}

	views := make([]badgeView, 0, len(statuses))
	for _, status := range statuses {
		views = append(views, badgeView{
			ID:          status.Badge.ID,
			Title:       status.Badge.Title,
			Description: status.Badge.Description,
			Icon:        status.Badge.Icon,
			Earned:      status.Earned,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// BadgeSummary handles GET /api/admin/badges: per badge, how many
// students hold it.
func (h *AdminHandler) BadgeSummary(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.badgeService.AdminSummary(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to load badge summary")
		return
	}

	views := make([]badgeSummaryView, 0, len(summaries))
	for _, s := range summaries {
		views = append(views, badgeSummaryView{
			badgeView: badgeView{
				ID:          s.Badge.ID,
				Title:       s.Badge.Title,
				Description: s.Description,
				Icon:        s.Badge.Icon,
				Earned:      s.Earned,
			},
			HolderCount:   s.HolderCount,
			TotalStudents: s.TotalStudents,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// AwardBadge handles POST /api/admin/students/{id}/badges.
func (h *AdminHandler) AwardBadge(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid student id", "", nil)
		return
	}

	var req struct {
		BadgeID int64 `json:"badge_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := h.badgeService.Award(r.Context(), studentID, req.BadgeID); err != nil {
		respondServiceError(w, err, "Failed to award badge")
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Dashboard handles GET /api/admin/dashboard: school-wide counts
// and the cross-student category breakdown.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	students, err := h.userRepo.CountStudents(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to count students")
		return
	}

	activities, err := h.activityRepo.CountActivities(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to count activities")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"total_students":   students,
		"total_activities": activities,
		"breakdown":        toBreakdownViews(h.breakdownService.CategoryBreakdown(r.Context(), 0)),
	})
}
