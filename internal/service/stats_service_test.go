package service

import (
	"testing"
	"time"

	"brightsteps/internal/models"
)

func intPtr(n int) *int { return &n }

func TestComputeProgressStats(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	old := now.AddDate(0, 0, -10)
	recent := now.Add(-2 * time.Hour)

	tests := []struct {
		name            string
		records         []models.ProgressRecord
		totalActivities int
		expected        models.ProgressStats
	}{
		{
			name:            "empty history",
			records:         nil,
			totalActivities: 5,
			expected:        models.ProgressStats{TotalActivities: 5},
		},
		{
			name: "mixed scores and statuses",
			records: []models.ProgressRecord{
				{Score: intPtr(80), Status: models.StatusCompleted, DateCompleted: old},
				{Score: nil, Status: models.StatusIncomplete, DateCompleted: old},
				{Score: intPtr(100), Status: models.StatusCompleted, DateCompleted: recent},
			},
			totalActivities: 5,
			expected: models.ProgressStats{
				TotalActivities:     5,
				CompletedActivities: 2,
				AverageScore:        90,
				CompletionRate:      40,
				RecentActivities:    1,
			},
		},
		{
			name: "unscored completions average to zero",
			records: []models.ProgressRecord{
				{Score: nil, Status: models.StatusCompleted, DateCompleted: old},
				{Score: nil, Status: models.StatusCompleted, DateCompleted: old},
			},
			totalActivities: 4,
			expected: models.ProgressStats{
				TotalActivities:     4,
				CompletedActivities: 2,
				AverageScore:        0,
				CompletionRate:      50,
			},
		},
		{
			name: "empty catalog yields zero rate",
			records: []models.ProgressRecord{
				{Score: intPtr(75), Status: models.StatusCompleted, DateCompleted: old},
			},
			totalActivities: 0,
			expected: models.ProgressStats{
				CompletedActivities: 1,
				AverageScore:        75,
				CompletionRate:      0,
			},
		},
		{
			name: "average rounds to nearest",
			records: []models.ProgressRecord{
				{Score: intPtr(70), Status: models.StatusCompleted, DateCompleted: old},
				{Score: intPtr(75), Status: models.StatusCompleted, DateCompleted: old},
			},
			totalActivities: 3,
			expected: models.ProgressStats{
				TotalActivities:     3,
				CompletedActivities: 2,
				AverageScore:        73, // 72.5 rounds up
				CompletionRate:      67,
			},
		},
		{
			name: "record at the 24h boundary counts as recent",
			records: []models.ProgressRecord{
				{Score: intPtr(50), Status: models.StatusCompleted, DateCompleted: now.Add(-24 * time.Hour)},
			},
			totalActivities: 1,
			expected: models.ProgressStats{
				TotalActivities:     1,
				CompletedActivities: 1,
				AverageScore:        50,
				CompletionRate:      100,
				RecentActivities:    1,
			},
		},
		{
			name: "incomplete attempts still contribute their score",
			records: []models.ProgressRecord{
				{Score: intPtr(40), Status: models.StatusIncomplete, DateCompleted: old},
			},
			totalActivities: 2,
			expected: models.ProgressStats{
				TotalActivities: 2,
				AverageScore:    40,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ComputeProgressStats(tt.records, tt.totalActivities, now)
			if result != tt.expected {
				t.Errorf("ComputeProgressStats() = %+v, want %+v", result, tt.expected)
			}
		})
	}
}

func TestCollapseHistory(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
	}

	t.Run("repeated activity keeps latest attempt and best score", func(t *testing.T) {
		records := []models.ProgressRecord{
			{ID: 3, ActivityID: 7, Score: intPtr(60), DateCompleted: day(3)},
			{ID: 2, ActivityID: 7, Score: intPtr(95), DateCompleted: day(2)},
			{ID: 1, ActivityID: 7, Score: nil, DateCompleted: day(1)},
		}

		collapsed := CollapseHistory(records)
		if len(collapsed) != 1 {
			t.Fatalf("CollapseHistory() returned %d entries, want 1", len(collapsed))
		}

		entry := collapsed[0]
		if entry.Attempts != 3 {
			t.Errorf("Attempts = %d, want 3", entry.Attempts)
		}
		if entry.Latest.ID != 3 {
			t.Errorf("Latest.ID = %d, want 3", entry.Latest.ID)
		}
		if entry.BestScore == nil || *entry.BestScore != 95 {
			t.Errorf("BestScore = %v, want 95", entry.BestScore)
		}
	})

	t.Run("distinct activities keep first-seen order", func(t *testing.T) {
		records := []models.ProgressRecord{
			{ID: 2, ActivityID: 9, Score: intPtr(80), DateCompleted: day(2)},
			{ID: 1, ActivityID: 4, Score: intPtr(70), DateCompleted: day(1)},
		}

		collapsed := CollapseHistory(records)
		if len(collapsed) != 2 {
			t.Fatalf("CollapseHistory() returned %d entries, want 2", len(collapsed))
		}
		if collapsed[0].ActivityID != 9 || collapsed[1].ActivityID != 4 {
			t.Errorf("order = [%d, %d], want [9, 4]", collapsed[0].ActivityID, collapsed[1].ActivityID)
		}
	})

	t.Run("all-nil scores stay nil", func(t *testing.T) {
		records := []models.ProgressRecord{
			{ID: 2, ActivityID: 1, Score: nil, DateCompleted: day(2)},
			{ID: 1, ActivityID: 1, Score: nil, DateCompleted: day(1)},
		}

		collapsed := CollapseHistory(records)
		if len(collapsed) != 1 {
			t.Fatalf("CollapseHistory() returned %d entries, want 1", len(collapsed))
		}
		if collapsed[0].BestScore != nil {
			t.Errorf("BestScore = %v, want nil", collapsed[0].BestScore)
		}
	})

	t.Run("empty history", func(t *testing.T) {
		if collapsed := CollapseHistory(nil); len(collapsed) != 0 {
			t.Errorf("CollapseHistory(nil) returned %d entries, want 0", len(collapsed))
		}
	})
}
