package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/utils"
)

var (
	// ErrNoCorrectChoice rejects question saves that would leave
	// the question unanswerable.
	ErrNoCorrectChoice = errors.New("question needs at least one correct choice")

	ErrInvalidStatus = errors.New("completion status must be completed or incomplete")
)

// ActivityService orchestrates the activity catalog, question
// authoring and progress recording.
type ActivityService struct {
	activities *repository.ActivityRepository
	questions  *repository.QuestionRepository
	progress   *repository.ProgressRepository
	feed       InsertPublisher
}

// NewActivityService creates a new activity service. feed may be
// nil when the realtime feed is not wired.
func NewActivityService(activities *repository.ActivityRepository, questions *repository.QuestionRepository, progress *repository.ProgressRepository, feed InsertPublisher) *ActivityService {
	return &ActivityService{
		activities: activities,
		questions:  questions,
		progress:   progress,
		feed:       feed,
	}
}

// ActivityDetail is an activity with its questions, ready for a
// student to play.
type ActivityDetail struct {
	Activity       models.Activity
	CategoryName   string
	DifficultyName string
	Questions      []models.QuestionWithChoices
}

// ListActivities returns the catalog, optionally filtered by
// category. categoryID 0 means no filter.
func (s *ActivityService) ListActivities(ctx context.Context, categoryID int64) ([]models.ActivityWithDetails, error) {
	return s.activities.ListActivities(ctx, categoryID)
}

// GetActivityDetail returns one activity with its questions and
// choices.
func (s *ActivityService) GetActivityDetail(ctx context.Context, id int64) (*ActivityDetail, error) {
	activity, err := s.activities.GetActivity(ctx, id)
	if err != nil {
		return nil, err
	}

	questions, err := s.questions.ListByActivity(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load questions for activity %d: %w", id, err)
	}

	return &ActivityDetail{
		Activity:       activity.Activity,
		CategoryName:   activity.CategoryName,
		DifficultyName: activity.DifficultyName,
		Questions:      questions,
	}, nil
}

// CreateActivity validates and inserts a new activity definition.
func (s *ActivityService) CreateActivity(ctx context.Context, a *models.Activity) (int64, error) {
	if err := s.validateActivity(ctx, a); err != nil {
		return 0, err
	}

	id, err := s.activities.CreateActivity(ctx, a)
	if err != nil {
		return 0, err
	}
	a.ID = id

	if s.feed != nil {
		s.feed.Publish("activities", id)
	}
	return id, nil
}

// UpdateActivity validates and updates an activity definition.
func (s *ActivityService) UpdateActivity(ctx context.Context, a *models.Activity) error {
	if err := s.validateActivity(ctx, a); err != nil {
		return err
	}
	if _, err := s.activities.GetActivity(ctx, a.ID); err != nil {
		return err
	}
	return s.activities.UpdateActivity(ctx, a)
}

// DeleteActivity removes an activity from the catalog.
func (s *ActivityService) DeleteActivity(ctx context.Context, id int64) error {
	if _, err := s.activities.GetActivity(ctx, id); err != nil {
		return err
	}
	return s.activities.DeleteActivity(ctx, id)
}

func (s *ActivityService) validateActivity(ctx context.Context, a *models.Activity) error {
	if a.Title == "" {
		return utils.ValidationError{Field: "title", Message: "title is required"}
	}
	if a.DurationMinutes < 0 {
		return utils.ValidationError{Field: "duration_minutes", Message: "duration cannot be negative"}
	}
	if a.Points < 0 {
		return utils.ValidationError{Field: "points", Message: "points cannot be negative"}
	}
	if _, err := s.activities.GetCategory(ctx, a.CategoryID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.ValidationError{Field: "category_id", Message: "unknown category"}
		}
		return err
	}
	return nil
}

// AddQuestion creates a question and its choices in one call. At
// least one choice must be flagged correct.
func (s *ActivityService) AddQuestion(ctx context.Context, question *models.Question, choices []models.Choice) (*models.QuestionWithChoices, error) {
	if question.Text == "" {
		return nil, utils.ValidationError{Field: "text", Message: "question text is required"}
	}
	if _, err := s.activities.GetActivity(ctx, question.ActivityID); err != nil {
		return nil, err
	}

	hasCorrect := false
	for _, c := range choices {
		if c.IsCorrect {
			hasCorrect = true
			break
		}
	}
	if !hasCorrect {
		return nil, ErrNoCorrectChoice
	}

	questionID, err := s.questions.CreateQuestion(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to create question: %w", err)
	}
	question.ID = questionID

	result := &models.QuestionWithChoices{Question: *question}
	for i := range choices {
		choices[i].QuestionID = questionID
		choiceID, err := s.questions.CreateChoice(ctx, &choices[i])
		if err != nil {
			return nil, fmt.Errorf("failed to create choice: %w", err)
		}
		choices[i].ID = choiceID
		result.Choices = append(result.Choices, choices[i])
	}

	return result, nil
}

// DeleteQuestion removes a question and its choices.
func (s *ActivityService) DeleteQuestion(ctx context.Context, id int64) error {
	if _, err := s.questions.GetQuestion(ctx, id); err != nil {
		return err
	}
	return s.questions.DeleteQuestion(ctx, id)
}

// RecordProgress appends a completion event for (user, activity).
// Repeat completions are kept as separate rows.
func (s *ActivityService) RecordProgress(ctx context.Context, userID, activityID int64, score *int, status models.CompletionStatus) (*models.ProgressRecord, error) {
	if status != models.StatusCompleted && status != models.StatusIncomplete {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if err := utils.ValidateScore(score); err != nil {
		return nil, err
	}
	if _, err := s.activities.GetActivity(ctx, activityID); err != nil {
		return nil, err
	}

	record := &models.ProgressRecord{
		UserID:        userID,
		ActivityID:    activityID,
		Score:         score,
		Status:        status,
		DateCompleted: time.Now().UTC(),
	}

	id, err := s.progress.Create(ctx, record)
	if err != nil {
		return nil, fmt.Errorf("failed to record progress: %w", err)
	}
	record.ID = id

	if s.feed != nil {
		s.feed.Publish("user_activity_progress", id)
	}

	return record, nil
}

// ProgressHistory returns a user's progress records inside the
// window, newest first.
func (s *ActivityService) ProgressHistory(ctx context.Context, userID int64, window utils.TimeWindow) ([]models.ProgressRecord, error) {
	return s.progress.ListByUser(ctx, userID, window.Cutoff())
}

// AttemptsByActivity collapses a user's full progress history into
// per-activity latest/best attempts.
func (s *ActivityService) AttemptsByActivity(ctx context.Context, userID int64) ([]models.ActivityAttempts, error) {
	records, err := s.progress.ListByUser(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	return CollapseHistory(records), nil
}

// ListCategories returns the category catalog.
func (s *ActivityService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.activities.ListCategories(ctx)
}

// ListDifficulties returns the difficulty catalog.
func (s *ActivityService) ListDifficulties(ctx context.Context) ([]models.Difficulty, error) {
	return s.activities.ListDifficulties(ctx)
}
