package models

import "time"

// CompletionStatus is the state of a progress record.
type CompletionStatus string

const (
	StatusCompleted  CompletionStatus = "completed"
	StatusIncomplete CompletionStatus = "incomplete"
)

// ProgressRecord is one completion event for (user, activity).
// Repeated completions of the same activity produce separate
// rows; the full history is kept and derived views decide how
// to collapse it.
type ProgressRecord struct {
	ID            int64
	UserID        int64
	ActivityID    int64
	Score         *int // percentage 0-100, nil when the activity has no scored questions
	Status        CompletionStatus
	DateCompleted time.Time
}

// ProgressStats is the flat per-student statistics object the
// dashboards render. Fields degrade to zero on missing data,
// the aggregate itself never fails.
type ProgressStats struct {
	TotalActivities     int
	CompletedActivities int
	AverageScore        int
	CompletionRate      int
	RecentActivities    int
	TotalPoints         int
}

// ActivityAttempts collapses the progress history of one
// (user, activity) pair into the latest and best attempts.
type ActivityAttempts struct {
	ActivityID int64
	Attempts   int
	Latest     ProgressRecord
	BestScore  *int
}

// BucketBreakdown is one row of the category (or difficulty)
// completion breakdown.
type BucketBreakdown struct {
	Bucket    string
	Total     int
	Completed int
	Percent   int
}
