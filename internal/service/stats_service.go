package service

import (
	"context"
	"log"
	"math"
	"sync"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/utils"
)

// ProgressReader is the slice of the progress repository the
// stats service needs.
type ProgressReader interface {
	ListByUser(ctx context.Context, userID int64, cutoff time.Time) ([]models.ProgressRecord, error)
	TotalPointsByUser(ctx context.Context, userID int64) (int, error)
}

// ActivityCounter counts the activity catalog.
type ActivityCounter interface {
	CountActivities(ctx context.Context) (int, error)
}

// StatsService derives per-student progress statistics.
type StatsService struct {
	progress   ProgressReader
	activities ActivityCounter
}

// NewStatsService creates a new stats service.
func NewStatsService(progress ProgressReader, activities ActivityCounter) *StatsService {
	return &StatsService{progress: progress, activities: activities}
}

// StudentStats computes the dashboard statistics for one student.
// The three upstream reads run concurrently and are inspected
// independently: a failed read degrades its fields to zero and is
// logged, the aggregate itself never fails. The two collections
// are fetched at slightly different instants, so no referential
// integrity between them is assumed.
func (s *StatsService) StudentStats(ctx context.Context, userID int64) models.ProgressStats {
	var (
		wg      sync.WaitGroup
		records []models.ProgressRecord
		total   int
		points  int

		recordsErr, totalErr, pointsErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		records, recordsErr = s.progress.ListByUser(ctx, userID, time.Time{})
	}()
	go func() {
		defer wg.Done()
		total, totalErr = s.activities.CountActivities(ctx)
	}()
	go func() {
		defer wg.Done()
		points, pointsErr = s.progress.TotalPointsByUser(ctx, userID)
	}()
	wg.Wait()

	if recordsErr != nil {
		log.Printf("Stats: failed to load progress for user %d: %v", userID, recordsErr)
		records = nil
	}
	if totalErr != nil {
		log.Printf("Stats: failed to count activities: %v", totalErr)
		total = 0
	}
	if pointsErr != nil {
		log.Printf("Stats: failed to sum points for user %d: %v", userID, pointsErr)
		points = 0
	}

	stats := ComputeProgressStats(records, total, time.Now())
	stats.TotalPoints = points
	return stats
}

// ComputeProgressStats derives the flat statistics object from a
// set of progress records and the catalog size. Pure so the
// boundary cases are directly testable against a fixed now.
func ComputeProgressStats(records []models.ProgressRecord, totalActivities int, now time.Time) models.ProgressStats {
	stats := models.ProgressStats{TotalActivities: totalActivities}

	scoreSum := 0
	scoreCount := 0
	for _, rec := range records {
		if rec.Status == models.StatusCompleted {
			stats.CompletedActivities++
		}
		if rec.Score != nil {
			scoreSum += *rec.Score
			scoreCount++
		}
		if utils.WindowDay.Contains(now, rec.DateCompleted) {
			stats.RecentActivities++
		}
	}

	// Zero, not NaN, when nothing is scored or the catalog is empty.
	if scoreCount > 0 {
		stats.AverageScore = roundRatio(scoreSum, scoreCount)
	}
	if totalActivities > 0 {
		stats.CompletionRate = roundRatio(stats.CompletedActivities*100, totalActivities)
	}

	return stats
}

// CollapseHistory reduces the full progress history to one entry
// per activity, keeping the latest attempt and the best score.
// Records arrive newest first from the repository.
func CollapseHistory(records []models.ProgressRecord) []models.ActivityAttempts {
	index := make(map[int64]int)
	var collapsed []models.ActivityAttempts

	for _, rec := range records {
		i, seen := index[rec.ActivityID]
		if !seen {
			index[rec.ActivityID] = len(collapsed)
			collapsed = append(collapsed, models.ActivityAttempts{
				ActivityID: rec.ActivityID,
				Attempts:   1,
				Latest:     rec,
				BestScore:  rec.Score,
			})
			continue
		}

		entry := &collapsed[i]
		entry.Attempts++
		if entry.Latest.DateCompleted.Before(rec.DateCompleted) {
			entry.Latest = rec
		}
		if rec.Score != nil && (entry.BestScore == nil || *rec.Score > *entry.BestScore) {
			entry.BestScore = rec.Score
		}
	}

	return collapsed
}

// roundRatio returns num/den rounded to the nearest integer.
func roundRatio(num, den int) int {
	return int(math.Round(float64(num) / float64(den)))
}
