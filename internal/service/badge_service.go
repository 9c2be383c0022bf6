package service

import (
	"context"
	"fmt"

	"brightsteps/internal/models"
)

// BadgeStore is the slice of the badge repository the badge
// service needs.
type BadgeStore interface {
	ListBadges(ctx context.Context) ([]models.Badge, error)
	ListByStudent(ctx context.Context, userID int64) ([]models.StudentBadge, error)
	HolderCounts(ctx context.Context) (map[int64]int, error)
	Award(ctx context.Context, userID, badgeID int64) error
}

// StudentCounter counts enrolled students.
type StudentCounter interface {
	CountStudents(ctx context.Context) (int, error)
}

// BadgeService derives badge display state. It never computes
// eligibility; a badge is earned exactly when a student_badges
// row says so, and awarding happens through the admin endpoint.
type BadgeService struct {
	badges   BadgeStore
	students StudentCounter
}

// NewBadgeService creates a new badge service.
func NewBadgeService(badges BadgeStore, students StudentCounter) *BadgeService {
	return &BadgeService{badges: badges, students: students}
}

// AdminSummary returns the school-wide badge view: per badge, how
// many students hold it, with the description rewritten to the
// "n/total students earned this badge" form.
func (s *BadgeService) AdminSummary(ctx context.Context) ([]models.BadgeSummary, error) {
	catalog, err := s.badges.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	counts, err := s.badges.HolderCounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count badge holders: %w", err)
	}

	totalStudents, err := s.students.CountStudents(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count students: %w", err)
	}

	summaries := make([]models.BadgeSummary, 0, len(catalog))
	for _, badge := range catalog {
		holders := counts[badge.ID]
		summaries = append(summaries, models.BadgeSummary{
			Badge:         badge,
			HolderCount:   holders,
			TotalStudents: totalStudents,
			Earned:        holders >= 1,
			Description:   fmt.Sprintf("%d/%d students earned this badge", holders, totalStudents),
		})
	}

	return summaries, nil
}

// StudentBadges returns the earned/locked view of the catalog for
// one student.
func (s *BadgeService) StudentBadges(ctx context.Context, userID int64) ([]models.BadgeStatus, error) {
	catalog, err := s.badges.ListBadges(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load badge catalog: %w", err)
	}

	earned, err := s.badges.ListByStudent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load student badges: %w", err)
	}

	earnedSet := make(map[int64]bool, len(earned))
	for _, sb := range earned {
		earnedSet[sb.BadgeID] = true
	}

	statuses := make([]models.BadgeStatus, 0, len(catalog))
	for _, badge := range catalog {
		statuses = append(statuses, models.BadgeStatus{
			Badge:  badge,
			Earned: earnedSet[badge.ID],
		})
	}

	return statuses, nil
}

// Award marks a badge as earned by a student.
func (s *BadgeService) Award(ctx context.Context, userID, badgeID int64) error {
	return s.badges.Award(ctx, userID, badgeID)
}
