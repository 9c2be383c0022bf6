package service

import (
	"context"
	"fmt"
	"testing"

	"brightsteps/internal/models"
)

type fakeBadgeStore struct {
	catalog []models.Badge
	earned  map[int64][]models.StudentBadge // by user
	holders map[int64]int                   // by badge
	awarded []models.StudentBadge
}

func (f *fakeBadgeStore) ListBadges(ctx context.Context) ([]models.Badge, error) {
	return f.catalog, nil
}

func (f *fakeBadgeStore) ListByStudent(ctx context.Context, userID int64) ([]models.StudentBadge, error) {
	return f.earned[userID], nil
}

func (f *fakeBadgeStore) HolderCounts(ctx context.Context) (map[int64]int, error) {
	return f.holders, nil
}

func (f *fakeBadgeStore) Award(ctx context.Context, userID, badgeID int64) error {
	f.awarded = append(f.awarded, models.StudentBadge{UserID: userID, BadgeID: badgeID})
	return nil
}

type fakeStudentCounter struct {
	count int
}

func (f *fakeStudentCounter) CountStudents(ctx context.Context) (int, error) {
	return f.count, nil
}

func TestAdminSummary(t *testing.T) {
	store := &fakeBadgeStore{
		catalog: []models.Badge{
			{ID: 1, Title: "First Steps", Description: "Complete your first activity"},
			{ID: 2, Title: "Bookworm", Description: "Finish five reading activities"},
			{ID: 3, Title: "Helper", Description: "Complete a daily life activity"},
		},
		holders: map[int64]int{1: 7, 2: 1},
	}

	svc := NewBadgeService(store, &fakeStudentCounter{count: 12})

	summaries, err := svc.AdminSummary(context.Background())
	if err != nil {
		t.Fatalf("AdminSummary() error = %v", err)
	}
	if len(summaries) != 3 {
		t.Fatalf("AdminSummary() returned %d badges, want 3", len(summaries))
	}

	tests := []struct {
		badgeID     int64
		holders     int
		earned      bool
		description string
	}{
		{badgeID: 1, holders: 7, earned: true, description: "7/12 students earned this badge"},
		{badgeID: 2, holders: 1, earned: true, description: "1/12 students earned this badge"},
		{badgeID: 3, holders: 0, earned: false, description: "0/12 students earned this badge"},
	}

	for i, tt := range tests {
		t.Run(fmt.Sprintf("badge %d", tt.badgeID), func(t *testing.T) {
			summary := summaries[i]
			if summary.Badge.ID != tt.badgeID {
				t.Fatalf("Badge.ID = %d, want %d", summary.Badge.ID, tt.badgeID)
			}
			if summary.HolderCount != tt.holders {
				t.Errorf("HolderCount = %d, want %d", summary.HolderCount, tt.holders)
			}
			if summary.Earned != tt.earned {
				t.Errorf("Earned = %v, want %v", summary.Earned, tt.earned)
			}
			if summary.Description != tt.description {
				t.Errorf("Description = %q, want %q", summary.Description, tt.description)
			}
			if summary.TotalStudents != 12 {
				t.Errorf("TotalStudents = %d, want 12", summary.TotalStudents)
			}
		})
	}
}

func TestStudentBadges(t *testing.T) {
	store := &fakeBadgeStore{
		catalog: []models.Badge{
			{ID: 1, Title: "First Steps"},
			{ID: 2, Title: "Bookworm"},
		},
		earned: map[int64][]models.StudentBadge{
			5: {{UserID: 5, BadgeID: 2}},
		},
	}

	svc := NewBadgeService(store, &fakeStudentCounter{})

	statuses, err := svc.StudentBadges(context.Background(), 5)
	if err != nil {
		t.Fatalf("StudentBadges() error = %v", err)
	}
	if len(statuses) != 2 {
		t.Fatalf("StudentBadges() returned %d badges, want full catalog of 2", len(statuses))
	}

	if statuses[0].Earned {
		t.Errorf("badge %q Earned = true, want false", statuses[0].Badge.Title)
	}
	if !statuses[1].Earned {
		t.Errorf("badge %q Earned = false, want true", statuses[1].Badge.Title)
	}
}

func TestAward(t *testing.T) {
	store := &fakeBadgeStore{}
	svc := NewBadgeService(store, &fakeStudentCounter{})

	if err := svc.Award(context.Background(), 5, 2); err != nil {
		t.Fatalf("Award() error = %v", err)
	}
	if len(store.awarded) != 1 || store.awarded[0].UserID != 5 || store.awarded[0].BadgeID != 2 {
		t.Errorf("awarded = %+v, want one (5, 2) row", store.awarded)
	}
}
