package policy

import (
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/plagzap/plagzap/internal/model"
)

// MemoryPolicy is an in-process Policy. Daily counters live in a TTL cache
// that expires them at the end of the day; lifetime counters and
// subscription flags live in plain maps.
type MemoryPolicy struct {
	cfg   model.PolicyConfig
	daily *gocache.Cache
	now   func() time.Time

	mu         sync.Mutex
	totals     map[string]int
	subscribed map[string]bool
}

// NewMemoryPolicy creates an in-memory policy from configuration.
func NewMemoryPolicy(cfg model.PolicyConfig) *MemoryPolicy {
	return &MemoryPolicy{
		cfg:        cfg,
		daily:      gocache.New(24*time.Hour, time.Hour),
		now:        time.Now,
		totals:     make(map[string]int),
		subscribed: make(map[string]bool),
	}
}

// SetSubscribed switches a user between the lifetime free limit and the
// daily subscription limit.
func (p *MemoryPolicy) SetSubscribed(userID string, subscribed bool) {
	p.mu.Lock()
	p.subscribed[userID] = subscribed
	p.mu.Unlock()
}

// Authorize checks the user's remaining quota.
func (p *MemoryPolicy) Authorize(userID string) Decision {
	daily, total := p.Counts(userID)

	p.mu.Lock()
	subscribed := p.subscribed[userID]
	p.mu.Unlock()

	if subscribed {
		remaining := p.cfg.DailyLimit - daily
		if remaining <= 0 {
			return Decision{
				Allowed: false,
				Reason:  ReasonDailyLimitReached,
				Limit:   p.cfg.DailyLimit,
				IsDaily: true,
			}
		}
		return Decision{
			Allowed:   true,
			Limit:     p.cfg.DailyLimit,
			Remaining: remaining,
			IsDaily:   true,
		}
	}

	remaining := p.cfg.FreeLimit - total
	if remaining <= 0 {
		return Decision{
			Allowed: false,
			Reason:  ReasonFreeLimitReached,
			Limit:   p.cfg.FreeLimit,
		}
	}
	return Decision{
		Allowed:   true,
		Limit:     p.cfg.FreeLimit,
		Remaining: remaining,
	}
}

// RecordUsage increments the user's daily and lifetime counters. The
// daily check-then-set must stay under the lock or concurrent analyses
// for one user could lose an increment.
func (p *MemoryPolicy) RecordUsage(userID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := p.dailyKey(userID)
	if _, found := p.daily.Get(key); found {
		_, _ = p.daily.IncrementInt(key, 1)
	} else {
		p.daily.Set(key, 1, p.untilMidnight())
	}

	p.totals[userID]++
}

// Counts returns the user's consumed daily and lifetime analyses.
func (p *MemoryPolicy) Counts(userID string) (int, int) {
	daily := 0
	if v, found := p.daily.Get(p.dailyKey(userID)); found {
		daily = v.(int)
	}

	p.mu.Lock()
	total := p.totals[userID]
	p.mu.Unlock()

	return daily, total
}

// dailyKey includes the date so stale entries can never be confused with
// today's window even before the cache janitor evicts them.
func (p *MemoryPolicy) dailyKey(userID string) string {
	return userID + ":" + p.now().UTC().Format("2006-01-02")
}

func (p *MemoryPolicy) untilMidnight() time.Duration {
	now := p.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return midnight.Sub(now)
}
