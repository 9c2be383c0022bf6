package repository

import (
	"context"
	"database/sql"
	"time"

	"brightsteps/internal/database"
	"brightsteps/internal/models"
)

// NotificationRepository handles notification database operations.
type NotificationRepository struct {
	db database.DBTX
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(db database.DBTX) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification for one recipient.
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) (int64, error) {
	query := `
		INSERT INTO notifications (recipient_id, expression_id, message, type, priority)
		VALUES (?, ?, ?, ?, ?)
	`

	var expressionID sql.NullInt64
	if n.ExpressionID != nil {
		expressionID = sql.NullInt64{Int64: *n.ExpressionID, Valid: true}
	}

	return r.db.ExecReturningID(ctx, query,
		n.RecipientID, expressionID, n.Message, n.Type, string(n.Priority))
}

// ListByRecipient retrieves a recipient's notifications, newest
// first. unreadOnly narrows to unread ones.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]models.Notification, error) {
	query := `
		SELECT id, recipient_id, expression_id, message, type, priority, is_read, created_at, read_at
		FROM notifications
		WHERE recipient_id = ?
	`
	args := []interface{}{recipientID}
	if unreadOnly {
		query += " AND is_read = ?"
		args = append(args, false)
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []models.Notification
	for rows.Next() {
		var n models.Notification
		var expressionID sql.NullInt64
		var priority string
		var readAt sql.NullTime
		err := rows.Scan(
			&n.ID, &n.RecipientID, &expressionID, &n.Message,
			&n.Type, &priority, &n.IsRead, &n.CreatedAt, &readAt)
		if err != nil {
			return nil, err
		}
		if expressionID.Valid {
			n.ExpressionID = &expressionID.Int64
		}
		if readAt.Valid {
			n.ReadAt = &readAt.Time
		}
		n.Priority = models.NotificationPriority(priority)
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

// MarkRead flags one notification as read. Scoped to the
// recipient so one admin cannot clear another's inbox.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, recipientID int64) error {
	query := `
		UPDATE notifications
		SET is_read = ?, read_at = ?
		WHERE id = ? AND recipient_id = ?
	`
	result, err := r.db.Exec(ctx, query, true, time.Now(), id, recipientID)
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

// MarkAllRead flags all of a recipient's notifications as read.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID int64) error {
	query := `
		UPDATE notifications
		SET is_read = ?, read_at = ?
		WHERE recipient_id = ? AND is_read = ?
	`
	_, err := r.db.Exec(ctx, query, true, time.Now(), recipientID, false)
	return err
}

// CountUnread returns the number of unread notifications for a
// recipient.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = ?"
	err := r.db.QueryRow(ctx, query, recipientID, false).Scan(&count)
	return count, err
}
