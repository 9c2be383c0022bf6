package service

import (
	"testing"

	"brightsteps/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		title        string
		categoryName string
		expected     string
	}{
		{name: "math title", title: "Counting to Ten", categoryName: "Games", expected: "Academic Skills"},
		{name: "category keyword", title: "Fun Time", categoryName: "Reading", expected: "Academic Skills"},
		{name: "daily life", title: "Brushing Teeth", categoryName: "Routines", expected: "Daily Life Skills"},
		{name: "social", title: "Sharing With Friends", categoryName: "Play", expected: "Social & Emotional"},
		{name: "no match falls through", title: "Mystery Box", categoryName: "Misc", expected: DefaultBucket},
		{name: "case insensitive", title: "MATH BLAST", categoryName: "", expected: "Academic Skills"},
		{
			// "reading" and "feeling" match different rules; the
			// earlier rule wins.
			name:         "earlier rule wins on overlap",
			title:        "Reading About Feelings",
			categoryName: "",
			expected:     "Academic Skills",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Classify(DefaultBucketRules, tt.title, tt.categoryName)
			if result != tt.expected {
				t.Errorf("Classify(%q, %q) = %q, want %q", tt.title, tt.categoryName, result, tt.expected)
			}
		})
	}
}

func TestComputeBreakdown(t *testing.T) {
	activity := func(id int64, title, category string) models.ActivityWithDetails {
		return models.ActivityWithDetails{
			Activity:     models.Activity{ID: id, Title: title},
			CategoryName: category,
		}
	}
	completed := func(activityID int64) models.ProgressRecord {
		return models.ProgressRecord{ActivityID: activityID, Status: models.StatusCompleted}
	}

	activities := []models.ActivityWithDetails{
		activity(1, "Counting to Ten", "Math"),
		activity(2, "Alphabet Song", "Reading"),
		activity(3, "Brushing Teeth", "Routines"),
		activity(4, "Mystery Box", "Misc"),
	}

	tests := []struct {
		name     string
		records  []models.ProgressRecord
		expected []models.BucketBreakdown
	}{
		{
			name:    "no progress",
			records: nil,
			expected: []models.BucketBreakdown{
				{Bucket: "Academic Skills", Total: 2, Completed: 0, Percent: 0},
				{Bucket: "Daily Life Skills", Total: 1, Completed: 0, Percent: 0},
				{Bucket: "Social & Emotional", Total: 0, Completed: 0, Percent: 0},
				{Bucket: DefaultBucket, Total: 1, Completed: 0, Percent: 0},
			},
		},
		{
			name: "repeats of one activity count once",
			records: []models.ProgressRecord{
				completed(1),
				completed(1),
				completed(1),
			},
			expected: []models.BucketBreakdown{
				{Bucket: "Academic Skills", Total: 2, Completed: 1, Percent: 50},
				{Bucket: "Daily Life Skills", Total: 1, Completed: 0, Percent: 0},
				{Bucket: "Social & Emotional", Total: 0, Completed: 0, Percent: 0},
				{Bucket: DefaultBucket, Total: 1, Completed: 0, Percent: 0},
			},
		},
		{
			name: "incomplete rows are ignored",
			records: []models.ProgressRecord{
				{ActivityID: 1, Status: models.StatusIncomplete},
			},
			expected: []models.BucketBreakdown{
				{Bucket: "Academic Skills", Total: 2, Completed: 0, Percent: 0},
				{Bucket: "Daily Life Skills", Total: 1, Completed: 0, Percent: 0},
				{Bucket: "Social & Emotional", Total: 0, Completed: 0, Percent: 0},
				{Bucket: DefaultBucket, Total: 1, Completed: 0, Percent: 0},
			},
		},
		{
			name: "progress for a deleted activity is skipped",
			records: []models.ProgressRecord{
				completed(99),
				completed(3),
			},
			expected: []models.BucketBreakdown{
				{Bucket: "Academic Skills", Total: 2, Completed: 0, Percent: 0},
				{Bucket: "Daily Life Skills", Total: 1, Completed: 1, Percent: 100},
				{Bucket: "Social & Emotional", Total: 0, Completed: 0, Percent: 0},
				{Bucket: DefaultBucket, Total: 1, Completed: 0, Percent: 0},
			},
		},
		{
			name: "everything completed",
			records: []models.ProgressRecord{
				completed(1), completed(2), completed(3), completed(4),
			},
			expected: []models.BucketBreakdown{
				{Bucket: "Academic Skills", Total: 2, Completed: 2, Percent: 100},
				{Bucket: "Daily Life Skills", Total: 1, Completed: 1, Percent: 100},
				{Bucket: "Social & Emotional", Total: 0, Completed: 0, Percent: 0},
				{Bucket: DefaultBucket, Total: 1, Completed: 1, Percent: 100},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeBreakdown(DefaultBucketRules, activities, tt.records)
			if len(result) != len(tt.expected) {
				t.Fatalf("ComputeBreakdown() returned %d buckets, want %d", len(result), len(tt.expected))
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("bucket %d = %+v, want %+v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestComputeBreakdownCompletedNeverExceedsTotal(t *testing.T) {
	activities := []models.ActivityWithDetails{
		{Activity: models.Activity{ID: 1, Title: "Counting"}, CategoryName: "Math"},
	}
	records := []models.ProgressRecord{
		{ActivityID: 1, Status: models.StatusCompleted},
		{ActivityID: 1, Status: models.StatusCompleted},
		{ActivityID: 1, Status: models.StatusCompleted},
	}

	for _, row := range ComputeBreakdown(DefaultBucketRules, activities, records) {
		if row.Completed > row.Total {
			t.Errorf("bucket %q completed %d exceeds total %d", row.Bucket, row.Completed, row.Total)
		}
	}
}
