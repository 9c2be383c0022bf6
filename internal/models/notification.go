package models

import "time"

// NotificationPriority marks how urgently a notification should
// be surfaced.
type NotificationPriority string

const (
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
)

// Notification is one fan-out record per admin recipient,
// created when a high-priority check-in occurs.
type Notification struct {
	ID           int64
	RecipientID  int64
	ExpressionID *int64
	Message      string
	Type         string
	Priority     NotificationPriority
	IsRead       bool
	CreatedAt    time.Time
	ReadAt       *time.Time
}
