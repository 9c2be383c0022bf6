package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// ExpressionRepository handles emotional check-in database
// operations. Expressions are append-only.
type ExpressionRepository struct {
	db database.DBTX
}

// NewExpressionRepository creates a new expression repository.
func NewExpressionRepository(db database.DBTX) *ExpressionRepository {
	return &ExpressionRepository{db: db}
}

// Create inserts a check-in and returns the stored row.
func (r *ExpressionRepository) Create(ctx context.Context, userID int64, emotion models.Emotion, note string) (*models.Expression, error) {
	query := `
		INSERT INTO expressions (user_id, emotion, note)
		VALUES (?, ?, ?)
	`

	id, err := r.db.ExecReturningID(ctx, query, userID, string(emotion), note)
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// GetByID retrieves one check-in.
func (r *ExpressionRepository) GetByID(ctx context.Context, id int64) (*models.Expression, error) {
	query := `
		SELECT id, user_id, emotion, note, created_at
		FROM expressions
		WHERE id = ?
	`

	e := &models.Expression{}
	var emotion string
	err := r.db.QueryRow(ctx, query, id).Scan(&e.ID, &e.UserID, &emotion, &e.Note, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Emotion = models.Emotion(emotion)
	return e, nil
}

// ListByUser retrieves a user's check-ins, newest first. A
// non-zero cutoff keeps only check-ins created at or after it.
func (r *ExpressionRepository) ListByUser(ctx context.Context, userID int64, cutoff time.Time) ([]models.Expression, error) {
	query := `
		SELECT id, user_id, emotion, note, created_at
		FROM expressions
		WHERE user_id = ?
	`
	args := []interface{}{userID}
	if !cutoff.IsZero() {
		query += " AND created_at >= ?"
		args = append(args, cutoff)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expressions []models.Expression
	for rows.Next() {
		var e models.Expression
		var emotion string
		if err := rows.Scan(&e.ID, &e.UserID, &emotion, &e.Note, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Emotion = models.Emotion(emotion)
		expressions = append(expressions, e)
	}

	return expressions, rows.Err()
}

// ListAllWithStudent retrieves check-ins across all students with
// the student's name joined in, newest first, for the alerts
// dashboard. A non-zero cutoff bounds the window.
func (r *ExpressionRepository) ListAllWithStudent(ctx context.Context, cutoff time.Time) ([]models.ExpressionWithStudent, error) {
	query := `
		SELECT e.id, e.user_id, e.emotion, e.note, e.created_at, p.full_name
		FROM expressions e
		INNER JOIN user_profiles p ON p.user_id = e.user_id
	`
	args := []interface{}{}
	if !cutoff.IsZero() {
		query += " WHERE e.created_at >= ?"
		args = append(args, cutoff)
	}
	query += " ORDER BY e.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []models.ExpressionWithStudent
	for rows.Next() {
		var item models.ExpressionWithStudent
		var emotion string
		err := rows.Scan(
			&item.Expression.ID,
			&item.Expression.UserID,
			&emotion,
			&item.Expression.Note,
			&item.Expression.CreatedAt,
			&item.StudentName,
		)
		if err != nil {
			return nil, err
		}
		item.Expression.Emotion = models.Emotion(emotion)
		result = append(result, item)
	}

	return result, rows.Err()
}

// LatestByUser retrieves a user's most recent check-in, or
// ErrNotFound when they have none.
func (r *ExpressionRepository) LatestByUser(ctx context.Context, userID int64) (*models.Expression, error) {
	query := `
		SELECT id, user_id, emotion, note, created_at
		FROM expressions
		WHERE user_id = ?
		ORDER BY created_at DESC
		LIMIT 1
	`

	e := &models.Expression{}
	var emotion string
	err := r.db.QueryRow(ctx, query, userID).Scan(&e.ID, &e.UserID, &emotion, &e.Note, &e.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Emotion = models.Emotion(emotion)
	return e, nil
}
