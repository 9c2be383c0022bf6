package repository

import (
	"context"
	"database/sql"
	"errors"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// QuestionRepository handles question and choice database
// operations.
type QuestionRepository struct {
	db database.DBTX
}

// NewQuestionRepository creates a new question repository.
func NewQuestionRepository(db database.DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// ListByActivity retrieves the questions of an activity, each
// with its choices, in display order.
func (r *QuestionRepository) ListByActivity(ctx context.Context, activityID int64) ([]models.QuestionWithChoices, error) {
	query := `
		SELECT id, activity_id, text, media_url, position
		FROM questions
		WHERE activity_id = ?
		ORDER BY position ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, activityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []models.QuestionWithChoices
	for rows.Next() {
		var q models.Question
		if err := rows.Scan(&q.ID, &q.ActivityID, &q.Text, &q.MediaURL, &q.Position); err != nil {
			return nil, err
		}
		questions = append(questions, models.QuestionWithChoices{Question: q})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range questions {
		choices, err := r.listChoices(ctx, questions[i].Question.ID)
		if err != nil {
			return nil, err
		}
		questions[i].Choices = choices
	}

	return questions, nil
}

func (r *QuestionRepository) listChoices(ctx context.Context, questionID int64) ([]models.Choice, error) {
	query := `
		SELECT id, question_id, text, is_correct
		FROM choices
		WHERE question_id = ?
		ORDER BY id ASC
	`

	rows, err := r.db.Query(ctx, query, questionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var choices []models.Choice
	for rows.Next() {
		var c models.Choice
		if err := rows.Scan(&c.ID, &c.QuestionID, &c.Text, &c.IsCorrect); err != nil {
			return nil, err
		}
		choices = append(choices, c)
	}

	return choices, rows.Err()
}

// GetQuestion retrieves one question.
func (r *QuestionRepository) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	query := `
		SELECT id, activity_id, text, media_url, position
		FROM questions
		WHERE id = ?
	`

	var q models.Question
	err := r.db.QueryRow(ctx, query, id).Scan(&q.ID, &q.ActivityID, &q.Text, &q.MediaURL, &q.Position)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

// CreateQuestion inserts a question.
func (r *QuestionRepository) CreateQuestion(ctx context.Context, q *models.Question) (int64, error) {
	query := `
		INSERT INTO questions (activity_id, text, media_url, position)
		VALUES (?, ?, ?, ?)
	`
	return r.db.ExecReturningID(ctx, query, q.ActivityID, q.Text, q.MediaURL, q.Position)
}

// CreateChoice inserts a choice for a question.
func (r *QuestionRepository) CreateChoice(ctx context.Context, c *models.Choice) (int64, error) {
	query := `
		INSERT INTO choices (question_id, text, is_correct)
		VALUES (?, ?, ?)
	`
	return r.db.ExecReturningID(ctx, query, c.QuestionID, c.Text, c.IsCorrect)
}

// DeleteQuestion removes a question and its choices.
func (r *QuestionRepository) DeleteQuestion(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM questions WHERE id = ?", id)
	return err
}
