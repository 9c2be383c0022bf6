package repository

import (
	"context"
	"database/sql"
	"errors"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// ParentRepository handles parent-child link database operations.
// The link is one row per (parent, child) pair with a unique
// constraint on the child, so a student belongs to at most one
// parent.
type ParentRepository struct {
	db database.DBTX
}

// NewParentRepository creates a new parent repository.
func NewParentRepository(db database.DBTX) *ParentRepository {
	return &ParentRepository{db: db}
}

// CreateLink ties a child to a parent.
func (r *ParentRepository) CreateLink(ctx context.Context, parentID, childID int64) (int64, error) {
	query := `
		INSERT INTO parent_links (parent_id, child_id)
		VALUES (?, ?)
	`
	return r.db.ExecReturningID(ctx, query, parentID, childID)
}

// DeleteLink removes the tie between a parent and a child.
func (r *ParentRepository) DeleteLink(ctx context.Context, parentID, childID int64) error {
	result, err := r.db.Exec(ctx,
		"DELETE FROM parent_links WHERE parent_id = ? AND child_id = ?",
		parentID, childID)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListChildren retrieves the profiles of a parent's children.
func (r *ParentRepository) ListChildren(ctx context.Context, parentID int64) ([]models.UserProfile, error) {
	query := `
		SELECT p.user_id, p.full_name, p.username, p.gender, p.age, p.address, p.created_at, p.updated_at
		FROM parent_links l
		INNER JOIN user_profiles p ON p.user_id = l.child_id
		WHERE l.parent_id = ?
		ORDER BY p.full_name ASC
	`

	rows, err := r.db.Query(ctx, query, parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var children []models.UserProfile
	for rows.Next() {
		var p models.UserProfile
		err := rows.Scan(&p.UserID, &p.FullName, &p.Username, &p.Gender, &p.Age, &p.Address, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, err
		}
		children = append(children, p)
	}

	return children, rows.Err()
}

// GetParentOfChild returns the parent id a child is linked to,
// or ErrNotFound when unlinked.
func (r *ParentRepository) GetParentOfChild(ctx context.Context, childID int64) (int64, error) {
	var parentID int64
	err := r.db.QueryRow(ctx, "SELECT parent_id FROM parent_links WHERE child_id = ?", childID).Scan(&parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return parentID, nil
}

// IsLinked reports whether childID is linked to parentID.
func (r *ParentRepository) IsLinked(ctx context.Context, parentID, childID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM parent_links WHERE parent_id = ? AND child_id = ?"
	if err := r.db.QueryRow(ctx, query, parentID, childID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}
