package models

import "time"

// ParentLink ties a parent account to a student account. One
// row per pair; a student is linked to at most one parent.
type ParentLink struct {
	ID        int64
	ParentID  int64
	ChildID   int64
	CreatedAt time.Time
}

// ChildOverview is the per-child card on the parent dashboard:
// the child's profile, their progress statistics and their most
// recent emotional check-in, if any.
type ChildOverview struct {
	Child           UserProfile
	Stats           ProgressStats
	LatestCheckin   *Expression
	LatestEmotion   string // display name of LatestCheckin's emotion
	UnreadHighAlert bool
}
