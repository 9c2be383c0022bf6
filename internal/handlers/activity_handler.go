package handlers

import (
	"net/http"
	"strconv"

	"brightsteps/internal/models"
	"brightsteps/internal/service"
)

// ActivityHandler serves the activity catalog and authoring
// endpoints.
type ActivityHandler struct {
	activityService *service.ActivityService
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(activityService *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// List handles GET /api/activities with an optional ?category_id=
// filter.
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	var categoryID int64
	if raw := r.URL.Query().Get("category_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid category_id", "", nil)
			return
		}
		categoryID = id
	}

	activities, err := h.activityService.ListActivities(r.Context(), categoryID)
	if err != nil {
		respondServiceError(w, err, "Failed to list activities")
		return
	}

	views := make([]activityView, 0, len(activities))
	for _, a := range activities {
		views = append(views, toActivityView(a))
	}
	respondJSON(w, http.StatusOK, views)
}

// Get handles GET /api/activities/{id}: the activity with its
// questions and choices.
func (h *ActivityHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid activity id", "", nil)
		return
	}

	detail, err := h.activityService.GetActivityDetail(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, "Failed to load activity")
		return
	}

	respondJSON(w, http.StatusOK, toActivityDetailView(detail))
}

type activityRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	CategoryID      int64  `json:"category_id"`
	DifficultyID    int64  `json:"difficulty_id"`
	DurationMinutes int    `json:"duration_minutes"`
	Points          int    `json:"points"`
	ImageURL        string `json:"image_url"`
}

func (req activityRequest) toModel() *models.Activity {
	return &models.Activity{
		Title:           req.Title,
		Description:     req.Description,
		CategoryID:      req.CategoryID,
		DifficultyID:    req.DifficultyID,
		DurationMinutes: req.DurationMinutes,
		Points:          req.Points,
		ImageURL:        req.ImageURL,
	}
}

// Create handles POST /api/activities (admin).
func (h *ActivityHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	activity := req.toModel()
	if _, err := h.activityService.CreateActivity(r.Context(), activity); err != nil {
		respondServiceError(w, err, "Failed to create activity")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]int64{"id": activity.ID})
}

// Update handles PUT /api/activities/{id} (admin).
func (h *ActivityHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid activity id", "", nil)
		return
	}

	var req activityRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	activity := req.toModel()
	activity.ID = id
	if err := h.activityService.UpdateActivity(r.Context(), activity); err != nil {
		respondServiceError(w, err, "Failed to update activity")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// Delete handles DELETE /api/activities/{id} (admin).
func (h *ActivityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid activity id", "", nil)
		return
	}

	if err := h.activityService.DeleteActivity(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to delete activity")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

// AddQuestion handles POST /api/activities/{id}/questions (admin).
func (h *ActivityHandler) AddQuestion(w http.ResponseWriter, r *http.Request) {
	activityID, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid activity id", "", nil)
		return
	}

	var req struct {
		Text     string `json:"text"`
		MediaURL string `json:"media_url"`
		Position int    `json:"position"`
		Choices  []struct {
			Text      string `json:"text"`
			IsCorrect bool   `json:"is_correct"`
		} `json:"choices"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	question := &models.Question{
		ActivityID: activityID,
		Text:       req.Text,
		MediaURL:   req.MediaURL,
		Position:   req.Position,
	}
	choices := make([]models.Choice, 0, len(req.Choices))
	for _, c := range req.Choices {
		choices = append(choices, models.Choice{Text: c.Text, IsCorrect: c.IsCorrect})
	}

	created, err := h.activityService.AddQuestion(r.Context(), question, choices)
	if err != nil {
		respondServiceError(w, err, "Failed to add question")
		return
	}

	respondJSON(w, http.StatusCreated, toQuestionView(*created))
}

// DeleteQuestion handles DELETE /api/questions/{id} (admin).
func (h *ActivityHandler) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid question id", "", nil)
		return
	}

	if err := h.activityService.DeleteQuestion(r.Context(), id); err != nil {
		respondServiceError(w, err, "Failed to delete question")
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}

type catalogEntryView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Categories handles GET /api/categories.
func (h *ActivityHandler) Categories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.activityService.ListCategories(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to list categories")
		return
	}

	views := make([]catalogEntryView, 0, len(categories))
	for _, c := range categories {
		views = append(views, catalogEntryView{ID: c.ID, Name: c.Name})
	}
	respondJSON(w, http.StatusOK, views)
}

// Difficulties handles GET /api/difficulties.
func (h *ActivityHandler) Difficulties(w http.ResponseWriter, r *http.Request) {
	difficulties, err := h.activityService.ListDifficulties(r.Context())
	if err != nil {
		respondServiceError(w, err, "Failed to list difficulties")
		return
	}

	views := make([]catalogEntryView, 0, len(difficulties))
	for _, d := range difficulties {
		views = append(views, catalogEntryView{ID: d.ID, Name: d.Name})
	}
	respondJSON(w, http.StatusOK, views)
}
