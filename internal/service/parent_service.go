package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"brightsteps/internal/models"
	"brightsteps/internal/repository"
)

// ErrNotYourChild rejects parent requests for students they are
// not linked to.
var ErrNotYourChild = errors.New("student is not linked to this parent")

// ParentLinkStore is the slice of the parent repository the
// parent service needs.
type ParentLinkStore interface {
	CreateLink(ctx context.Context, parentID, childID int64) (int64, error)
	DeleteLink(ctx context.Context, parentID, childID int64) error
	ListChildren(ctx context.Context, parentID int64) ([]models.UserProfile, error)
	GetParentOfChild(ctx context.Context, childID int64) (int64, error)
	IsLinked(ctx context.Context, parentID, childID int64) (bool, error)
}

// StudentStatsProvider computes a student's dashboard statistics.
type StudentStatsProvider interface {
	StudentStats(ctx context.Context, userID int64) models.ProgressStats
}

// LatestCheckinReader reads a student's most recent check-in.
type LatestCheckinReader interface {
	LatestByUser(ctx context.Context, userID int64) (*models.Expression, error)
}

// ParentService manages parent-child links and the parent
// monitoring dashboard.
type ParentService struct {
	links    ParentLinkStore
	stats    StudentStatsProvider
	checkins LatestCheckinReader
}

// NewParentService creates a new parent service.
func NewParentService(links ParentLinkStore, stats StudentStatsProvider, checkins LatestCheckinReader) *ParentService {
	return &ParentService{links: links, stats: stats, checkins: checkins}
}

// LinkChild ties a student to a parent. The unique constraint on
// the child keeps a student from appearing under two parents.
func (s *ParentService) LinkChild(ctx context.Context, parentID, childID int64) error {
	if _, err := s.links.GetParentOfChild(ctx, childID); err == nil {
		return fmt.Errorf("student %d is already linked to a parent", childID)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	_, err := s.links.CreateLink(ctx, parentID, childID)
	return err
}

// UnlinkChild removes the tie between a parent and a student.
func (s *ParentService) UnlinkChild(ctx context.Context, parentID, childID int64) error {
	return s.links.DeleteLink(ctx, parentID, childID)
}

// RequireLink verifies childID belongs to parentID.
func (s *ParentService) RequireLink(ctx context.Context, parentID, childID int64) error {
	linked, err := s.links.IsLinked(ctx, parentID, childID)
	if err != nil {
		return err
	}
	if !linked {
		return ErrNotYourChild
	}
	return nil
}

// ChildrenOverview builds the parent dashboard: one card per
// linked child with their stats and latest check-in. Cards are
// assembled concurrently and a failure in one child's data
// degrades that card, not the dashboard.
func (s *ParentService) ChildrenOverview(ctx context.Context, parentID int64) ([]models.ChildOverview, error) {
	children, err := s.links.ListChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list children: %w", err)
	}

	overviews := make([]models.ChildOverview, len(children))
	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child models.UserProfile) {
			defer wg.Done()
			overviews[i] = s.childOverview(ctx, child)
		}(i, child)
	}
	wg.Wait()

	return overviews, nil
}

func (s *ParentService) childOverview(ctx context.Context, child models.UserProfile) models.ChildOverview {
	overview := models.ChildOverview{Child: child}
	overview.Stats = s.stats.StudentStats(ctx, child.UserID)

	latest, err := s.checkins.LatestByUser(ctx, child.UserID)
	switch {
	case err == nil:
		overview.LatestCheckin = latest
		overview.LatestEmotion = latest.Emotion.DisplayName()
		overview.UnreadHighAlert = latest.Emotion.IsHighPriority()
	case errors.Is(err, repository.ErrNotFound):
		// No check-ins yet.
	default:
		log.Printf("Parent overview: failed to load latest check-in for %d: %v", child.UserID, err)
	}

	return overview
}
