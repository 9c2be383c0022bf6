package utils

import (
	"fmt"
	"time"
)

// TimeWindow is a symbolic reporting window used by the alerts
// dashboard and recent-activity queries.
type TimeWindow string

const (
	WindowDay         TimeWindow = "24h"
	WindowWeek        TimeWindow = "7d"
	WindowMonth       TimeWindow = "1m"
	WindowThreeMonths TimeWindow = "3m"
	WindowAll         TimeWindow = "all"
)

// ParseTimeWindow validates a symbolic window string. The empty
// string means "all".
func ParseTimeWindow(s string) (TimeWindow, error) {
	switch TimeWindow(s) {
	case WindowDay, WindowWeek, WindowMonth, WindowThreeMonths, WindowAll:
		return TimeWindow(s), nil
	case "":
		return WindowAll, nil
	}
	return "", fmt.Errorf("unknown time window %q", s)
}

// CutoffFrom maps the window to a concrete lower-bound timestamp
// relative to now. The zero time means no cutoff. Records with a
// timestamp exactly at the cutoff are inside the window, so
// callers must filter with >=, not >.
func (w TimeWindow) CutoffFrom(now time.Time) time.Time {
	switch w {
	case WindowDay:
		return now.Add(-24 * time.Hour)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	case WindowThreeMonths:
		return now.AddDate(0, -3, 0)
	}
	return time.Time{}
}

// Cutoff is CutoffFrom at the current time.
func (w TimeWindow) Cutoff() time.Time {
	return w.CutoffFrom(time.Now())
}

// Contains reports whether t falls inside the window ending at
// now. The lower bound is inclusive.
func (w TimeWindow) Contains(now, t time.Time) bool {
	cutoff := w.CutoffFrom(now)
	if cutoff.IsZero() {
		return true
	}
	return !t.Before(cutoff)
}
