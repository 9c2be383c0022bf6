package models

import "time"

// Category groups activities by subject area.
type Category struct {
	ID   int64
	Name string
}

// Difficulty is a named difficulty level for activities.
type Difficulty struct {
	ID   int64
	Name string
}

// Activity is a learning exercise a student can complete.
type Activity struct {
	ID              int64
	Title           string
	Description     string
	CategoryID      int64
	DifficultyID    int64
	DurationMinutes int
	Points          int
	ImageURL        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ActivityWithDetails includes the resolved category and
// difficulty names for display.
type ActivityWithDetails struct {
	Activity       Activity
	CategoryName   string
	DifficultyName string
}

// Question belongs to an activity.
type Question struct {
	ID         int64
	ActivityID int64
	Text       string
	MediaURL   string
	Position   int
}

// Choice is one answer option for a question.
type Choice struct {
	ID         int64
	QuestionID int64
	Text       string
	IsCorrect  bool
}

// QuestionWithChoices combines a question with its answer options.
type QuestionWithChoices struct {
	Question Question
	Choices  []Choice
}
