package repository

import (
	"context"
	"database/sql"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// ProgressRepository handles progress record database operations.
// Progress is append-only: one row per completion event, history
// is never collapsed at the storage layer.
type ProgressRepository struct {
	db database.DBTX
}

// NewProgressRepository creates a new progress repository.
func NewProgressRepository(db database.DBTX) *ProgressRepository {
	return &ProgressRepository{db: db}
}

// Create inserts a progress record.
func (r *ProgressRepository) Create(ctx context.Context, p *models.ProgressRecord) (int64, error) {
	query := `
		INSERT INTO user_activity_progress (user_id, activity_id, score, completion_status, date_completed)
		VALUES (?, ?, ?, ?, ?)
	`

	var score sql.NullInt64
	if p.Score != nil {
		score = sql.NullInt64{Int64: int64(*p.Score), Valid: true}
	}

	return r.db.ExecReturningID(ctx, query,
		p.UserID, p.ActivityID, score, string(p.Status), p.DateCompleted)
}

// ListByUser retrieves a user's progress records, newest first.
// A non-zero cutoff keeps only records completed at or after it.
func (r *ProgressRepository) ListByUser(ctx context.Context, userID int64, cutoff time.Time) ([]models.ProgressRecord, error) {
	query := `
		SELECT id, user_id, activity_id, score, completion_status, date_completed
		FROM user_activity_progress
		WHERE user_id = ?
	`
	args := []interface{}{userID}
	if !cutoff.IsZero() {
		query += " AND date_completed >= ?"
		args = append(args, cutoff)
	}
	query += " ORDER BY date_completed DESC"

	return r.queryRecords(ctx, query, args...)
}

// ListAll retrieves progress records across all users for the
// admin dashboard. A non-zero cutoff bounds the window.
func (r *ProgressRepository) ListAll(ctx context.Context, cutoff time.Time) ([]models.ProgressRecord, error) {
	query := `
		SELECT id, user_id, activity_id, score, completion_status, date_completed
		FROM user_activity_progress
	`
	args := []interface{}{}
	if !cutoff.IsZero() {
		query += " WHERE date_completed >= ?"
		args = append(args, cutoff)
	}
	query += " ORDER BY date_completed DESC"

	return r.queryRecords(ctx, query, args...)
}

func (r *ProgressRepository) queryRecords(ctx context.Context, query string, args ...interface{}) ([]models.ProgressRecord, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.ProgressRecord
	for rows.Next() {
		var rec models.ProgressRecord
		var score sql.NullInt64
		var status string
		err := rows.Scan(&rec.ID, &rec.UserID, &rec.ActivityID, &score, &status, &rec.DateCompleted)
		if err != nil {
			return nil, err
		}
		if score.Valid {
			s := int(score.Int64)
			rec.Score = &s
		}
		rec.Status = models.CompletionStatus(status)
		records = append(records, rec)
	}

	return records, rows.Err()
}

// TotalPointsByUser sums the points of the distinct activities a
// user has completed. Repeated completions of one activity count
// its points once.
func (r *ProgressRepository) TotalPointsByUser(ctx context.Context, userID int64) (int, error) {
	query := `
		SELECT COALESCE(SUM(a.points), 0)
		FROM activities a
		WHERE a.id IN (
			SELECT DISTINCT activity_id
			FROM user_activity_progress
			WHERE user_id = ? AND completion_status = ?
		)
	`

	var points int
	err := r.db.QueryRow(ctx, query, userID, string(models.StatusCompleted)).Scan(&points)
	return points, err
}
