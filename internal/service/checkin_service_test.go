package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
)

type fakeExpressionStore struct {
	nextID  int64
	created []models.Expression
}

func (f *fakeExpressionStore) Create(ctx context.Context, userID int64, emotion models.Emotion, note string) (*models.Expression, error) {
	f.nextID++
	expr := models.Expression{
		ID:        f.nextID,
		UserID:    userID,
		Emotion:   emotion,
		Note:      note,
		CreatedAt: time.Now(),
	}
	f.created = append(f.created, expr)
	return &expr, nil
}

func (f *fakeExpressionStore) ListAllWithStudent(ctx context.Context, cutoff time.Time) ([]models.ExpressionWithStudent, error) {
	var items []models.ExpressionWithStudent
	for _, expr := range f.created {
		items = append(items, models.ExpressionWithStudent{Expression: expr, StudentName: "Alex"})
	}
	return items, nil
}

func (f *fakeExpressionStore) ListByUser(ctx context.Context, userID int64, cutoff time.Time) ([]models.Expression, error) {
	var items []models.Expression
	for _, expr := range f.created {
		if expr.UserID == userID {
			items = append(items, expr)
		}
	}
	return items, nil
}

type fakeNotificationStore struct {
	created   []models.Notification
	createErr error
}

func (f *fakeNotificationStore) Create(ctx context.Context, n *models.Notification) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	f.created = append(f.created, *n)
	return int64(len(f.created)), nil
}

func (f *fakeNotificationStore) ListByRecipient(ctx context.Context, recipientID int64, unreadOnly bool) ([]models.Notification, error) {
	return f.created, nil
}

func (f *fakeNotificationStore) MarkRead(ctx context.Context, id, recipientID int64) error { return nil }

func (f *fakeNotificationStore) MarkAllRead(ctx context.Context, recipientID int64) error { return nil }

func (f *fakeNotificationStore) CountUnread(ctx context.Context, recipientID int64) (int, error) {
	return len(f.created), nil
}

type fakeRecipientResolver struct {
	admins   []models.User
	profiles map[int64]*models.UserProfile
}

func (f *fakeRecipientResolver) ListUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	if role == models.RoleAdmin {
		return f.admins, nil
	}
	return nil, nil
}

func (f *fakeRecipientResolver) GetProfile(ctx context.Context, userID int64) (*models.UserProfile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return profile, nil
}

type fakeMailer struct {
	sent []string // recipient addresses
}

func (f *fakeMailer) SendAlertEmail(ctx context.Context, to, studentName, emotion string) error {
	f.sent = append(f.sent, to)
	return nil
}

type fakeFeed struct {
	published []string // table names, in publish order
}

func (f *fakeFeed) Publish(table string, id int64) {
	f.published = append(f.published, table)
}

func TestRecordCheckinFanOut(t *testing.T) {
	tests := []struct {
		name              string
		emotion           models.Emotion
		admins            []models.User
		wantNotifications int
		wantEmails        int
	}{
		{
			name:              "sad alerts every admin",
			emotion:           models.EmotionSad,
			admins:            []models.User{{ID: 10, Email: "a@school.test"}, {ID: 11, Email: "b@school.test"}},
			wantNotifications: 2,
			wantEmails:        2,
		},
		{
			name:              "angry alerts every admin",
			emotion:           models.EmotionAngry,
			admins:            []models.User{{ID: 10, Email: "a@school.test"}},
			wantNotifications: 1,
			wantEmails:        1,
		},
		{
			name:              "happy stays quiet",
			emotion:           models.EmotionHappy,
			admins:            []models.User{{ID: 10, Email: "a@school.test"}},
			wantNotifications: 0,
			wantEmails:        0,
		},
		{
			name:              "admin without email gets notification only",
			emotion:           models.EmotionSad,
			admins:            []models.User{{ID: 10, Email: ""}},
			wantNotifications: 1,
			wantEmails:        0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expressions := &fakeExpressionStore{}
			notifications := &fakeNotificationStore{}
			users := &fakeRecipientResolver{
				admins:   tt.admins,
				profiles: map[int64]*models.UserProfile{1: {UserID: 1, FullName: "Alex Kim"}},
			}
			mailer := &fakeMailer{}
			feed := &fakeFeed{}

			svc := NewCheckinService(expressions, notifications, users, mailer, feed)

			expr, err := svc.RecordCheckin(context.Background(), 1, tt.emotion, "")
			if err != nil {
				t.Fatalf("RecordCheckin() error = %v", err)
			}
			if expr.Emotion != tt.emotion {
				t.Errorf("Emotion = %v, want %v", expr.Emotion, tt.emotion)
			}

			if len(notifications.created) != tt.wantNotifications {
				t.Errorf("notifications = %d, want %d", len(notifications.created), tt.wantNotifications)
			}
			if len(mailer.sent) != tt.wantEmails {
				t.Errorf("emails = %d, want %d", len(mailer.sent), tt.wantEmails)
			}

			for _, n := range notifications.created {
				if n.Priority != models.PriorityHigh {
					t.Errorf("Priority = %v, want %v", n.Priority, models.PriorityHigh)
				}
				if n.ExpressionID == nil || *n.ExpressionID != expr.ID {
					t.Errorf("ExpressionID = %v, want %d", n.ExpressionID, expr.ID)
				}
			}

			if len(feed.published) != 1 || feed.published[0] != "expressions" {
				t.Errorf("feed publishes = %v, want [expressions]", feed.published)
			}
		})
	}
}

func TestRecordCheckinAlertMessage(t *testing.T) {
	expressions := &fakeExpressionStore{}
	notifications := &fakeNotificationStore{}
	users := &fakeRecipientResolver{
		admins:   []models.User{{ID: 10}},
		profiles: map[int64]*models.UserProfile{1: {UserID: 1, FullName: "Alex Kim"}},
	}

	svc := NewCheckinService(expressions, notifications, users, nil, nil)

	if _, err := svc.RecordCheckin(context.Background(), 1, models.EmotionAngry, ""); err != nil {
		t.Fatalf("RecordCheckin() error = %v", err)
	}

	if len(notifications.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications.created))
	}

	// The message carries the stored emotion, not the display name.
	message := notifications.created[0].Message
	expected := "Alex Kim is experiencing angry emotion and may need attention"
	if message != expected {
		t.Errorf("Message = %q, want %q", message, expected)
	}
}

func TestRecordCheckinFallbackStudentName(t *testing.T) {
	expressions := &fakeExpressionStore{}
	notifications := &fakeNotificationStore{}
	users := &fakeRecipientResolver{
		admins:   []models.User{{ID: 10}},
		profiles: map[int64]*models.UserProfile{}, // no profile yet
	}

	svc := NewCheckinService(expressions, notifications, users, nil, nil)

	if _, err := svc.RecordCheckin(context.Background(), 1, models.EmotionSad, ""); err != nil {
		t.Fatalf("RecordCheckin() error = %v", err)
	}

	if len(notifications.created) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notifications.created))
	}
	if !strings.HasPrefix(notifications.created[0].Message, "A student is experiencing") {
		t.Errorf("Message = %q, want fallback student name", notifications.created[0].Message)
	}
}

func TestRecordCheckinSurvivesNotificationFailure(t *testing.T) {
	expressions := &fakeExpressionStore{}
	notifications := &fakeNotificationStore{createErr: errors.New("store down")}
	users := &fakeRecipientResolver{
		admins:   []models.User{{ID: 10, Email: "a@school.test"}},
		profiles: map[int64]*models.UserProfile{1: {UserID: 1, FullName: "Alex Kim"}},
	}
	mailer := &fakeMailer{}

	svc := NewCheckinService(expressions, notifications, users, mailer, nil)

	expr, err := svc.RecordCheckin(context.Background(), 1, models.EmotionSad, "bad day")
	if err != nil {
		t.Fatalf("RecordCheckin() error = %v, want nil despite notification failure", err)
	}
	if expr == nil || expr.Note != "bad day" {
		t.Errorf("expression = %+v, want the stored check-in", expr)
	}
	// A failed notification skips the email for that admin too.
	if len(mailer.sent) != 0 {
		t.Errorf("emails = %d, want 0", len(mailer.sent))
	}
}

func TestRecordCheckinRejectsUnknownEmotion(t *testing.T) {
	svc := NewCheckinService(&fakeExpressionStore{}, &fakeNotificationStore{}, &fakeRecipientResolver{}, nil, nil)

	_, err := svc.RecordCheckin(context.Background(), 1, models.Emotion("bored"), "")
	if !errors.Is(err, ErrUnknownEmotion) {
		t.Errorf("RecordCheckin() error = %v, want ErrUnknownEmotion", err)
	}
}

func TestAlerts(t *testing.T) {
	expressions := &fakeExpressionStore{}
	users := &fakeRecipientResolver{profiles: map[int64]*models.UserProfile{}}
	svc := NewCheckinService(expressions, &fakeNotificationStore{}, users, nil, nil)

	ctx := context.Background()
	if _, err := svc.RecordCheckin(ctx, 1, models.EmotionAngry, ""); err != nil {
		t.Fatalf("RecordCheckin() error = %v", err)
	}
	if _, err := svc.RecordCheckin(ctx, 1, models.EmotionHappy, ""); err != nil {
		t.Fatalf("RecordCheckin() error = %v", err)
	}

	alerts, err := svc.Alerts(ctx, "all")
	if err != nil {
		t.Fatalf("Alerts() error = %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("Alerts() returned %d rows, want 2", len(alerts))
	}

	// Display names soften angry to Upset; priority flags only sad/angry.
	if alerts[0].Emotion != "Upset" || !alerts[0].HighPriority {
		t.Errorf("alert[0] = {Emotion: %q, HighPriority: %v}, want {Upset, true}", alerts[0].Emotion, alerts[0].HighPriority)
	}
	if alerts[1].Emotion != "Happy" || alerts[1].HighPriority {
		t.Errorf("alert[1] = {Emotion: %q, HighPriority: %v}, want {Happy, false}", alerts[1].Emotion, alerts[1].HighPriority)
	}
}
