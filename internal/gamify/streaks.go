// Package gamify tracks analysis streaks and badge milestones.
// Failures here are cosmetic; callers fall back to zero-valued stats.
package gamify

import (
	"sync"
	"time"
)

// Stats is the streak state returned after recording an analysis.
type Stats struct {
	CurrentStreak int
	LongestStreak int
	TotalAnalyses int
	NewBadges     []string
}

// Badge milestones: consecutive-day streaks and lifetime analysis counts.
var streakBadges = map[int]string{
	3:  "streak-3",
	7:  "streak-7",
	30: "streak-30",
}

var totalBadges = map[int]string{
	1:   "first-analysis",
	10:  "analyses-10",
	100: "analyses-100",
}

type userStreak struct {
	lastDay      string
	current      int
	longest      int
	total        int
	earnedBadges map[string]struct{}
}

// Tracker keeps per-user streak state in memory.
type Tracker struct {
	mu    sync.Mutex
	users map[string]*userStreak
	now   func() time.Time
}

// NewTracker creates an empty streak tracker.
func NewTracker() *Tracker {
	return &Tracker{
		users: make(map[string]*userStreak),
		now:   time.Now,
	}
}

// RecordAnalysis bumps the user's counters and returns the updated stats,
// including any badges earned by this analysis.
func (t *Tracker) RecordAnalysis(userID string) Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	u, ok := t.users[userID]
	if !ok {
		u = &userStreak{earnedBadges: make(map[string]struct{})}
		t.users[userID] = u
	}

	today := t.now().UTC().Format("2006-01-02")
	yesterday := t.now().UTC().AddDate(0, 0, -1).Format("2006-01-02")

	switch u.lastDay {
	case today:
		// Same-day analyses extend the total, not the streak.
	case yesterday:
		u.current++
	default:
		u.current = 1
	}
	u.lastDay = today
	if u.current > u.longest {
		u.longest = u.current
	}
	u.total++

	var newBadges []string
	if badge, ok := streakBadges[u.current]; ok {
		newBadges = t.award(u, badge, newBadges)
	}
	if badge, ok := totalBadges[u.total]; ok {
		newBadges = t.award(u, badge, newBadges)
	}

	return Stats{
		CurrentStreak: u.current,
		LongestStreak: u.longest,
		TotalAnalyses: u.total,
		NewBadges:     newBadges,
	}
}

func (t *Tracker) award(u *userStreak, badge string, acc []string) []string {
	if _, earned := u.earnedBadges[badge]; earned {
		return acc
	}
	u.earnedBadges[badge] = struct{}{}
	return append(acc, badge)
}
