package utils

import (
	"testing"
	"time"
)

func TestParseTimeWindow(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected TimeWindow
		wantErr  bool
	}{
		{name: "day", input: "24h", expected: WindowDay},
		{name: "week", input: "7d", expected: WindowWeek},
		{name: "month", input: "1m", expected: WindowMonth},
		{name: "three months", input: "3m", expected: WindowThreeMonths},
		{name: "all", input: "all", expected: WindowAll},
		{name: "empty defaults to all", input: "", expected: WindowAll},
		{name: "unknown", input: "2w", wantErr: true},
		{name: "case sensitive", input: "24H", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseTimeWindow(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimeWindow(%q) error = nil, want error", tt.input)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTimeWindow(%q) error = %v", tt.input, err)
			}
			if result != tt.expected {
				t.Errorf("ParseTimeWindow(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestTimeWindowContains(t *testing.T) {
	now := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		window   TimeWindow
		t        time.Time
		expected bool
	}{
		{
			name:     "inside day window",
			window:   WindowDay,
			t:        time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "exactly at day cutoff is inside",
			window:   WindowDay,
			t:        time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "one second before day cutoff is outside",
			window:   WindowDay,
			t:        time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC),
			expected: false,
		},
		{
			name:     "week window reaches back seven days",
			window:   WindowWeek,
			t:        time.Date(2023, 12, 26, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
		{
			name:     "week window excludes eight days ago",
			window:   WindowWeek,
			t:        time.Date(2023, 12, 25, 23, 59, 59, 0, time.UTC),
			expected: false,
		},
		{
			name:     "all window has no cutoff",
			window:   WindowAll,
			t:        time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC),
			expected: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.window.Contains(now, tt.t)
			if result != tt.expected {
				t.Errorf("Contains(%v, %v) = %v, want %v", now, tt.t, result, tt.expected)
			}
		})
	}
}

func TestTimeWindowCutoffFrom(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		window   TimeWindow
		expected time.Time
	}{
		{name: "day", window: WindowDay, expected: now.Add(-24 * time.Hour)},
		{name: "week", window: WindowWeek, expected: now.AddDate(0, 0, -7)},
		{name: "month", window: WindowMonth, expected: now.AddDate(0, -1, 0)},
		{name: "three months", window: WindowThreeMonths, expected: now.AddDate(0, -3, 0)},
		{name: "all is zero time", window: WindowAll, expected: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.window.CutoffFrom(now)
			if !result.Equal(tt.expected) {
				t.Errorf("CutoffFrom(%v) = %v, want %v", now, result, tt.expected)
			}
		})
	}
}
