package utils

import (
	"fmt"
	"time"
)

// ElapsedLabel renders how long ago an event happened. Callers pass now
// explicitly so the output is deterministic under test. A since after now
// (clock skew between client and server) clamps to "Just now".
func ElapsedLabel(since, now time.Time) string {
	diff := now.Sub(since)
	if diff < 0 {
		diff = 0
	}

	diffHours := int(diff.Hours())
	if diffHours < 1 {
		return "Just now"
	}
	if diffHours == 1 {
		return "1 hour ago"
	}
	if diffHours < 24 {
		return fmt.Sprintf("%d hours ago", diffHours)
	}

	diffDays := diffHours / 24
	if diffDays == 1 {
		return "1 day ago"
	}
	return fmt.Sprintf("%d days ago", diffDays)
}

// RemainingLabel renders how much of a signal's hold window is left.
// Under an hour the label switches to minutes.
func RemainingLabel(openedAt time.Time, holdTimeHours float64, now time.Time) string {
	expires := openedAt.Add(time.Duration(holdTimeHours * float64(time.Hour)))
	remaining := expires.Sub(now)

	if remaining <= 0 {
		return "Expired"
	}
	if remaining < time.Hour {
		return fmt.Sprintf("%dm left", int(remaining.Minutes()))
	}
	return fmt.Sprintf("%dh left", int(remaining.Hours()))
}
