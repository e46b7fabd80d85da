package gamify

import (
	"testing"
	"time"
)

func TestTracker_FirstAnalysis(t *testing.T) {
	tr := NewTracker()
	stats := tr.RecordAnalysis("alice")

	if stats.CurrentStreak != 1 || stats.LongestStreak != 1 || stats.TotalAnalyses != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if len(stats.NewBadges) != 1 || stats.NewBadges[0] != "first-analysis" {
		t.Errorf("Expected first-analysis badge, got %v", stats.NewBadges)
	}
}

func TestTracker_SameDayDoesNotExtendStreak(t *testing.T) {
	tr := NewTracker()
	tr.RecordAnalysis("bob")
	stats := tr.RecordAnalysis("bob")

	if stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
	}
	if stats.TotalAnalyses != 2 {
		t.Errorf("TotalAnalyses = %d, want 2", stats.TotalAnalyses)
	}
}

func TestTracker_ConsecutiveDaysBuildStreak(t *testing.T) {
	tr := NewTracker()
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return day }

	var last Stats
	for i := 0; i < 3; i++ {
		last = tr.RecordAnalysis("carol")
		day = day.AddDate(0, 0, 1)
	}

	if last.CurrentStreak != 3 {
		t.Errorf("CurrentStreak = %d, want 3", last.CurrentStreak)
	}
	found := false
	for _, b := range last.NewBadges {
		if b == "streak-3" {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected streak-3 badge, got %v", last.NewBadges)
	}
}

func TestTracker_GapResetsStreak(t *testing.T) {
	tr := NewTracker()
	day := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tr.now = func() time.Time { return day }

	tr.RecordAnalysis("dave")
	tr.now = func() time.Time { return day.AddDate(0, 0, 1) }
	tr.RecordAnalysis("dave")

	// Skip two days; the streak restarts at 1 but longest is kept.
	tr.now = func() time.Time { return day.AddDate(0, 0, 4) }
	stats := tr.RecordAnalysis("dave")

	if stats.CurrentStreak != 1 {
		t.Errorf("CurrentStreak = %d, want 1", stats.CurrentStreak)
	}
	if stats.LongestStreak != 2 {
		t.Errorf("LongestStreak = %d, want 2", stats.LongestStreak)
	}
}

func TestTracker_BadgesAwardedOnce(t *testing.T) {
	tr := NewTracker()
	tr.RecordAnalysis("erin")
	stats := tr.RecordAnalysis("erin")

	for _, b := range stats.NewBadges {
		if b == "first-analysis" {
			t.Error("first-analysis badge awarded twice")
		}
	}
}
