package repository

import (
	"context"
	"database/sql"
	"errors"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// ActivityRepository handles activity, category and difficulty
// database operations.
type ActivityRepository struct {
	db database.DBTX
}

// NewActivityRepository creates a new activity repository.
func NewActivityRepository(db database.DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityDetailColumns = `
	a.id, a.title, a.description, a.category_id, a.difficulty_id,
	a.duration_minutes, a.points, a.image_url, a.created_at, a.updated_at,
	c.name, d.name
`

// ListActivities retrieves all activities with their category and
// difficulty names resolved, optionally filtered by category.
func (r *ActivityRepository) ListActivities(ctx context.Context, categoryID int64) ([]models.ActivityWithDetails, error) {
	query := `
		SELECT ` + activityDetailColumns + `
		FROM activities a
		INNER JOIN categories c ON c.id = a.category_id
		INNER JOIN difficulties d ON d.id = a.difficulty_id
	`
	args := []interface{}{}
	if categoryID > 0 {
		query += " WHERE a.category_id = ?"
		args = append(args, categoryID)
	}
	query += " ORDER BY a.created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var activities []models.ActivityWithDetails
	for rows.Next() {
		var a models.ActivityWithDetails
		if err := scanActivityDetail(rows, &a); err != nil {
			return nil, err
		}
		activities = append(activities, a)
	}

	return activities, rows.Err()
}

// GetActivity retrieves one activity with category and difficulty
// names resolved.
func (r *ActivityRepository) GetActivity(ctx context.Context, id int64) (*models.ActivityWithDetails, error) {
	query := `
		SELECT ` + activityDetailColumns + `
		FROM activities a
		INNER JOIN categories c ON c.id = a.category_id
		INNER JOIN difficulties d ON d.id = a.difficulty_id
		WHERE a.id = ?
	`

	rows, err := r.db.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrNotFound
	}

	var a models.ActivityWithDetails
	if err := scanActivityDetail(rows, &a); err != nil {
		return nil, err
	}
	return &a, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanActivityDetail(row rowScanner, a *models.ActivityWithDetails) error {
	return row.Scan(
		&a.Activity.ID,
		&a.Activity.Title,
		&a.Activity.Description,
		&a.Activity.CategoryID,
		&a.Activity.DifficultyID,
		&a.Activity.DurationMinutes,
		&a.Activity.Points,
		&a.Activity.ImageURL,
		&a.Activity.CreatedAt,
		&a.Activity.UpdatedAt,
		&a.CategoryName,
		&a.DifficultyName,
	)
}

// CreateActivity inserts a new activity definition.
func (r *ActivityRepository) CreateActivity(ctx context.Context, a *models.Activity) (int64, error) {
	query := `
		INSERT INTO activities (title, description, category_id, difficulty_id, duration_minutes, points, image_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	return r.db.ExecReturningID(ctx, query,
		a.Title, a.Description, a.CategoryID, a.DifficultyID,
		a.DurationMinutes, a.Points, a.ImageURL)
}

// UpdateActivity updates an activity definition.
func (r *ActivityRepository) UpdateActivity(ctx context.Context, a *models.Activity) error {
	query := `
		UPDATE activities
		SET title = ?, description = ?, category_id = ?, difficulty_id = ?,
		    duration_minutes = ?, points = ?, image_url = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	_, err := r.db.Exec(ctx, query,
		a.Title, a.Description, a.CategoryID, a.DifficultyID,
		a.DurationMinutes, a.Points, a.ImageURL, a.ID)
	return err
}

// DeleteActivity removes an activity and, through cascades, its
// questions and choices. Progress rows referencing it keep their
// activity id; aggregations treat the dangling reference as a
// lookup miss.
func (r *ActivityRepository) DeleteActivity(ctx context.Context, id int64) error {
	_, err := r.db.Exec(ctx, "DELETE FROM activities WHERE id = ?", id)
	return err
}

// CountActivities returns the total number of activities.
func (r *ActivityRepository) CountActivities(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM activities").Scan(&count)
	return count, err
}

// ListCategories retrieves all categories ordered by name.
func (r *ActivityRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM categories ORDER BY name ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

// ListDifficulties retrieves all difficulty levels.
func (r *ActivityRepository) ListDifficulties(ctx context.Context) ([]models.Difficulty, error) {
	rows, err := r.db.Query(ctx, "SELECT id, name FROM difficulties ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var difficulties []models.Difficulty
	for rows.Next() {
		var d models.Difficulty
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		difficulties = append(difficulties, d)
	}

	return difficulties, rows.Err()
}

// GetCategory retrieves one category.
func (r *ActivityRepository) GetCategory(ctx context.Context, id int64) (*models.Category, error) {
	var c models.Category
	err := r.db.QueryRow(ctx, "SELECT id, name FROM categories WHERE id = ?", id).Scan(&c.ID, &c.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
