package repository

import (
	"context"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// BadgeRepository handles badge catalog and student badge
// database operations.
type BadgeRepository struct {
	db database.DBTX
}

// NewBadgeRepository creates a new badge repository.
func NewBadgeRepository(db database.DBTX) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// ListBadges retrieves the badge catalog.
func (r *BadgeRepository) ListBadges(ctx context.Context) ([]models.Badge, error) {
	rows, err := r.db.Query(ctx, "SELECT id, title, description, icon FROM badges ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var badges []models.Badge
	for rows.Next() {
		var b models.Badge
		if err := rows.Scan(&b.ID, &b.Title, &b.Description, &b.Icon); err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}

	return badges, rows.Err()
}

// ListByStudent retrieves the badge join rows of one student.
func (r *BadgeRepository) ListByStudent(ctx context.Context, userID int64) ([]models.StudentBadge, error) {
	query := `
		SELECT user_id, badge_id, awarded_at
		FROM student_badges
		WHERE user_id = ?
		ORDER BY awarded_at ASC
	`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var earned []models.StudentBadge
	for rows.Next() {
		var sb models.StudentBadge
		if err := rows.Scan(&sb.UserID, &sb.BadgeID, &sb.AwardedAt); err != nil {
			return nil, err
		}
		earned = append(earned, sb)
	}

	return earned, rows.Err()
}

// HolderCounts returns, per badge id, the number of distinct
// students holding it.
func (r *BadgeRepository) HolderCounts(ctx context.Context) (map[int64]int, error) {
	query := `
		SELECT badge_id, COUNT(DISTINCT user_id)
		FROM student_badges
		GROUP BY badge_id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[int64]int)
	for rows.Next() {
		var badgeID int64
		var count int
		if err := rows.Scan(&badgeID, &count); err != nil {
			return nil, err
		}
		counts[badgeID] = count
	}

	return counts, rows.Err()
}

// Award records a badge as earned by a student. Awarding the
// same badge twice is a no-op, not an error.
func (r *BadgeRepository) Award(ctx context.Context, userID, badgeID int64) error {
	var count int
	query := "SELECT COUNT(*) FROM student_badges WHERE user_id = ? AND badge_id = ?"
	if err := r.db.QueryRow(ctx, query, userID, badgeID).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := r.db.Exec(ctx,
		"INSERT INTO student_badges (user_id, badge_id) VALUES (?, ?)",
		userID, badgeID)
	return err
}
