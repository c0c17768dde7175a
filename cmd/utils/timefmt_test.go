package utils

import (
	"testing"
	"time"
)

func TestElapsedLabel(t *testing.T) {
	now := time.Date(2025, 12, 12, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		hoursAgo float64
		want     string
	}{
		{0, "Just now"},
		{0.5, "Just now"},
		{1, "1 hour ago"},
		{5, "5 hours ago"},
		{23, "23 hours ago"},
		{25, "1 day ago"},
		{50, "2 days ago"},
	}

	for _, c := range cases {
		since := now.Add(-time.Duration(c.hoursAgo * float64(time.Hour)))
		if got := ElapsedLabel(since, now); got != c.want {
			t.Errorf("ElapsedLabel(now-%.1fh) = %q, want %q", c.hoursAgo, got, c.want)
		}
	}
}

func TestElapsedLabelClampsFutureTimestamps(t *testing.T) {
	now := time.Date(2025, 12, 12, 12, 0, 0, 0, time.UTC)
	since := now.Add(3 * time.Hour)
	if got := ElapsedLabel(since, now); got != "Just now" {
		t.Errorf("ElapsedLabel with future since = %q, want \"Just now\"", got)
	}
}

func TestRemainingLabel(t *testing.T) {
	now := time.Date(2025, 12, 12, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		openedHoursAgo float64
		holdHours      float64
		want           string
	}{
		{47, 48, "1h left"},
		{47.92, 48, "4m left"},
		{50, 48, "Expired"},
		{48, 48, "Expired"},
		{1, 72, "71h left"},
	}

	for _, c := range cases {
		opened := now.Add(-time.Duration(c.openedHoursAgo * float64(time.Hour)))
		if got := RemainingLabel(opened, c.holdHours, now); got != c.want {
			t.Errorf("RemainingLabel(opened %.2fh ago, hold %.0fh) = %q, want %q",
				c.openedHoursAgo, c.holdHours, got, c.want)
		}
	}
}
