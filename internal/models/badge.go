package models

import "time"

// Badge is a named achievement from the static catalog seeded
// at startup. Awarding happens outside this service; a badge is
// held once a student_badges row exists.
type Badge struct {
	ID          int64
	Title       string
	Description string
	Icon        string
}

// StudentBadge marks a badge as earned by a student.
type StudentBadge struct {
	UserID    int64
	BadgeID   int64
	AwardedAt time.Time
}

// BadgeStatus is the per-student earned/locked view of a badge.
type BadgeStatus struct {
	Badge  Badge
	Earned bool
}

// BadgeSummary is the admin-wide view of a badge: how many of
// the enrolled students hold it.
type BadgeSummary struct {
	Badge         Badge
	HolderCount   int
	TotalStudents int
	Earned        bool // true once at least one student holds it
	Description   string
}
