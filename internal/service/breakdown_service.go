package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"brightsteps/internal/models"
)

// BucketRule assigns activities to a display bucket when any of
// its keywords appears in the activity title or category name.
// Rules are evaluated in order and the first match wins, so the
// table is reorder-safe by construction: moving a rule up gives
// it priority explicitly rather than by accident of inline code.
type BucketRule struct {
	Name     string
	Keywords []string
}

// DefaultBucketRules is the standard dashboard grouping.
// Keyword classification is approximate on purpose; it feeds a
// dashboard, not a taxonomy.
var DefaultBucketRules = []BucketRule{
	{
		Name:     "Academic Skills",
		Keywords: []string{"math", "number", "counting", "reading", "writing", "alphabet", "letter", "science", "spelling"},
	},
	{
		Name:     "Daily Life Skills",
		Keywords: []string{"daily", "routine", "hygiene", "brushing", "washing", "dressing", "cooking", "chore"},
	},
	{
		Name:     "Social & Emotional",
		Keywords: []string{"social", "sharing", "feeling", "emotion", "friend", "greeting", "turn"},
	},
}

// DefaultBucket receives activities no rule matches.
const DefaultBucket = "General Skills"

// Classify returns the bucket for an activity title and category
// name.
func Classify(rules []BucketRule, title, categoryName string) string {
	haystack := strings.ToLower(title + " " + categoryName)
	for _, rule := range rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(haystack, keyword) {
				return rule.Name
			}
		}
	}
	return DefaultBucket
}

// ActivityLister is the slice of the activity repository the
// breakdown service needs.
type ActivityLister interface {
	ListActivities(ctx context.Context, categoryID int64) ([]models.ActivityWithDetails, error)
}

// ProgressLister lists progress rows for one user or for all.
type ProgressLister interface {
	ListByUser(ctx context.Context, userID int64, cutoff time.Time) ([]models.ProgressRecord, error)
	ListAll(ctx context.Context, cutoff time.Time) ([]models.ProgressRecord, error)
}

// BreakdownService derives per-bucket completion breakdowns.
type BreakdownService struct {
	activities ActivityLister
	progress   ProgressLister
	rules      []BucketRule
}

// NewBreakdownService creates a breakdown service with the
// default rule table.
func NewBreakdownService(activities ActivityLister, progress ProgressLister) *BreakdownService {
	return &BreakdownService{
		activities: activities,
		progress:   progress,
		rules:      DefaultBucketRules,
	}
}

// CategoryBreakdown computes the bucket breakdown for one student,
// or across all students when userID is 0. The activity catalog
// and the progress rows are fetched concurrently and each failure
// degrades to an empty collection rather than failing the view.
func (s *BreakdownService) CategoryBreakdown(ctx context.Context, userID int64) []models.BucketBreakdown {
	activities, records := s.fetch(ctx, userID)
	return ComputeBreakdown(s.rules, activities, records)
}

// DifficultyBreakdown computes completion per difficulty name for
// one student, or across all students when userID is 0.
func (s *BreakdownService) DifficultyBreakdown(ctx context.Context, userID int64) []models.BucketBreakdown {
	activities, records := s.fetch(ctx, userID)
	return computeByKey(activities, records, func(a models.ActivityWithDetails) string {
		return a.DifficultyName
	}, nil)
}

func (s *BreakdownService) fetch(ctx context.Context, userID int64) ([]models.ActivityWithDetails, []models.ProgressRecord) {
	var (
		wg         sync.WaitGroup
		activities []models.ActivityWithDetails
		records    []models.ProgressRecord

		activitiesErr, recordsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		activities, activitiesErr = s.activities.ListActivities(ctx, 0)
	}()
	go func() {
		defer wg.Done()
		if userID > 0 {
			records, recordsErr = s.progress.ListByUser(ctx, userID, time.Time{})
		} else {
			records, recordsErr = s.progress.ListAll(ctx, time.Time{})
		}
	}()
	wg.Wait()

	if activitiesErr != nil {
		log.Printf("Breakdown: failed to load activities: %v", activitiesErr)
		activities = nil
	}
	if recordsErr != nil {
		log.Printf("Breakdown: failed to load progress: %v", recordsErr)
		records = nil
	}

	return activities, records
}

// ComputeBreakdown derives the per-bucket totals. Exported pure
// for tests. Buckets appear in rule order with the default bucket
// last; repeated completions of one activity count once per
// (bucket, activity) pair.
func ComputeBreakdown(rules []BucketRule, activities []models.ActivityWithDetails, records []models.ProgressRecord) []models.BucketBreakdown {
	order := make([]string, 0, len(rules)+1)
	for _, rule := range rules {
		order = append(order, rule.Name)
	}
	order = append(order, DefaultBucket)

	return computeByKey(activities, records, func(a models.ActivityWithDetails) string {
		return Classify(rules, a.Activity.Title, a.CategoryName)
	}, order)
}

type bucketActivity struct {
	bucket     string
	activityID int64
}

// computeByKey buckets activities with keyFn, then counts
// completed progress rows through an activity lookup map. A
// progress row whose activity is missing from the independently
// fetched catalog is a lookup miss and is skipped. order fixes
// the bucket sequence; nil means first-seen order.
func computeByKey(activities []models.ActivityWithDetails, records []models.ProgressRecord, keyFn func(models.ActivityWithDetails) string, order []string) []models.BucketBreakdown {
	byActivity := make(map[int64]string, len(activities))
	totals := make(map[string]int)
	var seen []string

	for _, a := range activities {
		bucket := keyFn(a)
		byActivity[a.Activity.ID] = bucket
		if _, ok := totals[bucket]; !ok && order == nil {
			seen = append(seen, bucket)
		}
		totals[bucket]++
	}

	completed := make(map[string]int)
	counted := make(map[bucketActivity]bool)
	for _, rec := range records {
		if rec.Status != models.StatusCompleted {
			continue
		}
		bucket, ok := byActivity[rec.ActivityID]
		if !ok {
			continue
		}
		key := bucketActivity{bucket: bucket, activityID: rec.ActivityID}
		if counted[key] {
			continue
		}
		counted[key] = true
		completed[bucket]++
	}

	if order == nil {
		order = seen
	}

	result := make([]models.BucketBreakdown, 0, len(order))
	for _, bucket := range order {
		row := models.BucketBreakdown{
			Bucket:    bucket,
			Total:     totals[bucket],
			Completed: completed[bucket],
		}
		if row.Total > 0 {
			row.Percent = roundRatio(row.Completed*100, row.Total)
		}
		result = append(result, row)
	}

	return result
}
