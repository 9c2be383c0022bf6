package handlers

import (
	"net/http"

	"brightsteps/internal/models"
	"brightsteps/internal/service"
	"brightsteps/internal/utils"
)

// ProgressHandler serves the signed-in student's progress,
// statistics and badge endpoints.
type ProgressHandler struct {
	activityService  *service.ActivityService
	statsService     *service.StatsService
	breakdownService *service.BreakdownService
	badgeService     *service.BadgeService
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(activityService *service.ActivityService, statsService *service.StatsService, breakdownService *service.BreakdownService, badgeService *service.BadgeService) *ProgressHandler {
	return &ProgressHandler{
		activityService:  activityService,
		statsService:     statsService,
		breakdownService: breakdownService,
		badgeService:     badgeService,
	}
}

// Record handles POST /api/progress: the student reports a
// completion event for an activity.
func (h *ProgressHandler) Record(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	var req struct {
		ActivityID int64  `json:"activity_id"`
		Score      *int   `json:"score"`
		Status     string `json:"completion_status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Status == "" {
		req.Status = string(models.StatusCompleted)
	}

	record, err := h.activityService.RecordProgress(r.Context(), user.ID, req.ActivityID, req.Score, models.CompletionStatus(req.Status))
	if err != nil {
		respondServiceError(w, err, "Failed to record progress")
		return
	}

	respondJSON(w, http.StatusCreated, toProgressView(*record))
}

// History handles GET /api/progress with an optional ?window=
// filter (24h, 7d, 1m, 3m, all).
func (h *ProgressHandler) History(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	window, err := utils.ParseTimeWindow(r.URL.Query().Get("window"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error(), "", nil)
		return
	}

	records, err := h.activityService.ProgressHistory(r.Context(), user.ID, window)
	if err != nil {
		respondServiceError(w, err, "Failed to load progress history")
		return
	}

	views := make([]progressView, 0, len(records))
	for _, rec := range records {
		views = append(views, toProgressView(rec))
	}
	respondJSON(w, http.StatusOK, views)
}

// Attempts handles GET /api/progress/attempts: the full history
// collapsed to one latest/best entry per activity.
func (h *ProgressHandler) Attempts(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	attempts, err := h.activityService.AttemptsByActivity(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to load attempts")
		return
	}

	views := make([]attemptsView, 0, len(attempts))
	for _, a := range attempts {
		views = append(views, attemptsView{
			ActivityID: a.ActivityID,
			Attempts:   a.Attempts,
			Latest:     toProgressView(a.Latest),
			BestScore:  a.BestScore,
		})
	}
	respondJSON(w, http.StatusOK, views)
}

// Stats handles GET /api/stats: the student's dashboard numbers.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respondJSON(w, http.StatusOK, toStatsView(h.statsService.StudentStats(r.Context(), user.ID)))
}

// Breakdown handles GET /api/stats/breakdown with ?by=category
// (default) or ?by=difficulty.
func (h *ProgressHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())
	respondBreakdown(w, r, h.breakdownService, user.ID)
}

// respondBreakdown is shared with the admin and parent handlers,
// which call it with a different subject user.
func respondBreakdown(w http.ResponseWriter, r *http.Request, breakdowns *service.BreakdownService, userID int64) {
	var rows []models.BucketBreakdown
	switch by := r.URL.Query().Get("by"); by {
	case "", "category":
		rows = breakdowns.CategoryBreakdown(r.Context(), userID)
	case "difficulty":
		rows = breakdowns.DifficultyBreakdown(r.Context(), userID)
	default:
		respondError(w, http.StatusBadRequest, "Unknown breakdown type", "", nil)
		return
	}
	respondJSON(w, http.StatusOK, toBreakdownViews(rows))
}

// Badges handles GET /api/badges: the earned/locked catalog for
// the signed-in student.
func (h *ProgressHandler) Badges(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r.Context())

	statuses, err := h.badgeService.StudentBadges(r.Context(), user.ID)
	if err != nil {
		respondServiceError(w, err, "Failed to load badges")
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
