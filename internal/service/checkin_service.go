package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
	"brightsteps/internal/utils"
)

// ErrUnknownEmotion rejects check-ins outside the closed emotion
// set before anything is written.
var ErrUnknownEmotion = errors.New("unknown emotion")

// ExpressionStore is the slice of the expression repository the
// check-in service needs.
type ExpressionStore interface {
	Create(ctx context.Context, userID int64, emotion models.Emotion, note string) (*models.Expression, error)
	ListAllWithStudent(ctx context.Context, cutoff time.Time) ([]models.ExpressionWithStudent, error)
	ListByUser(ctx context.Context, userID int64, cutoff time.Time) ([]models.Expression, error)
}

// NotificationStore creates and reads notification rows.
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) (int64, error)
	ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]models.Notification, error)
	MarkRead(ctx context.Context, id, recipientID int64) error
	MarkAllRead(ctx context.Context, recipientID int64) error
	CountUnread(ctx context.Context, recipientID int64) (int, error)
}

// RecipientResolver resolves the admin accounts that receive
// alert fan-out, and the student's display name.
type RecipientResolver interface {
	ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error)
}

// AlertMailer sends the best-effort alert email. Satisfied by
// the SES email service.
type AlertMailer interface {
	SendAlertEmail(ctx context.Context, to, studentName, emotion string) error
}

// InsertPublisher announces row inserts on the realtime feed.
type InsertPublisher interface {
	Publish(table string, id int64)
}

// AlertView is one row of the admin alerts dashboard.
type AlertView struct {
	Expression   models.Expression
	StudentName  string
	Emotion      string // display name, e.g. "Upset" for angry
	HighPriority bool
}

// CheckinService records emotional check-ins and fans alerts out
// to admins.
type CheckinService struct {
	expressions   ExpressionStore
	notifications NotificationStore
	users         RecipientResolver
	mailer        AlertMailer
	feed          InsertPublisher
}

// NewCheckinService creates a new check-in service. mailer and
// feed may be nil when those channels are not configured.
func NewCheckinService(expressions ExpressionStore, notifications NotificationStore, users RecipientResolver, mailer AlertMailer, feed InsertPublisher) *CheckinService {
	return &CheckinService{
		expressions:   expressions,
		notifications: notifications,
		users:         users,
		mailer:        mailer,
		feed:          feed,
	}
}

// RecordCheckin stores a student's check-in and, for sad or angry
// ones, notifies every admin. The check-in is the primary fact:
// once its row is written, no downstream failure (notifications,
// email, feed) is allowed to undo or mask it — those are logged
// and swallowed.
func (s *CheckinService) RecordCheckin(ctx context.Context, userID int64, emotion models.Emotion, note string) (*models.Expression, error) {
	if !emotion.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEmotion, emotion)
	}

	expression, err := s.expressions.Create(ctx, userID, emotion, note)
	if err != nil {
		return nil, fmt.Errorf("failed to record check-in: %w", err)
	}

	if emotion.IsHighPriority() {
		s.fanOutAlert(ctx, expression)
	}

	if s.feed != nil {
		s.feed.Publish("expressions", expression.ID)
	}

	return expression, nil
}

// fanOutAlert creates one notification per admin and emails each
// of them. Failures are logged per recipient and never surfaced.
func (s *CheckinService) fanOutAlert(ctx context.Context, expression *models.Expression) {
	studentName := s.studentName(ctx, expression.UserID)
	message := fmt.Sprintf("%s is experiencing %s emotion and may need attention",
		studentName, expression.Emotion)

	admins, err := s.users.ListUsersByRole(ctx, models.RoleAdmin)
	if err != nil {
		log.Printf("Alert fan-out: failed to resolve admins for expression %d: %v", expression.ID, err)
		return
	}

	for _, admin := range admins {
		notification := &models.Notification{
			RecipientID:  admin.ID,
			ExpressionID: &expression.ID,
			Message:      message,
			Type:         "emotion_alert",
			Priority:     models.PriorityHigh,
		}
		if _, err := s.notifications.Create(ctx, notification); err != nil {
			log.Printf("Alert fan-out: failed to notify admin %d for expression %d: %v", admin.ID, expression.ID, err)
			continue
		}

		if s.mailer != nil && admin.Email != "" {
			if err := s.mailer.SendAlertEmail(ctx, admin.Email, studentName, expression.Emotion.DisplayName()); err != nil {
				log.Printf("Alert fan-out: failed to email admin %d: %v", admin.ID, err)
			}
		}
	}
}

func (s *CheckinService) studentName(ctx context.Context, userID int64) string {
	profile, err := s.users.GetProfile(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			log.Printf("Alert fan-out: failed to load profile %d: %v", userID, err)
		}
		return "A student"
	}
	return profile.FullName
}

// Alerts returns the admin dashboard view of check-ins inside the
// window, newest first.
func (s *CheckinService) Alerts(ctx context.Context, window utils.TimeWindow) ([]AlertView, error) {
	items, err := s.expressions.ListAllWithStudent(ctx, window.Cutoff())
	if err != nil {
		return nil, err
	}

	alerts := make([]AlertView, 0, len(items))
	for _, item := range items {
		alerts = append(alerts, AlertView{
			Expression:   item.Expression,
			StudentName:  item.StudentName,
			Emotion:      item.Expression.Emotion.DisplayName(),
			HighPriority: item.Expression.Emotion.IsHighPriority(),
		})
	}

	return alerts, nil
}

// StudentCheckins returns one student's check-in history inside
// the window.
func (s *CheckinService) StudentCheckins(ctx context.Context, userID int64, window utils.TimeWindow) ([]models.Expression, error) {
	return s.expressions.ListByUser(ctx, userID, window.Cutoff())
}

// Notifications returns a recipient's notifications.
func (s *CheckinService) Notifications(ctx context.Context, recipientID int64, unreadOnly bool) ([]models.Notification, error) {
	return s.notifications.ListByRecipient(ctx, recipientID, unreadOnly)
}

// MarkNotificationRead flags one notification as read.
func (s *CheckinService) MarkNotificationRead(ctx context.Context, id, recipientID int64) error {
	return s.notifications.MarkRead(ctx, id, recipientID)
}

// MarkAllNotificationsRead clears a recipient's unread set.
func (s *CheckinService) MarkAllNotificationsRead(ctx context.Context, recipientID int64) error {
	return s.notifications.MarkAllRead(ctx, recipientID)
}

// UnreadCount returns the number of unread notifications.
func (s *CheckinService) UnreadCount(ctx context.Context, recipientID int64) (int, error) {
	return s.notifications.CountUnread(ctx, recipientID)
}
