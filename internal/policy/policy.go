// Package policy decides whether a user may run an analysis and accounts
// for consumed quota. Authentication itself is an external concern; users
// are identified here by an opaque id.
package policy

// Denial reason codes surfaced to callers.
const (
	ReasonFreeLimitReached  = "FREE_LIMIT_REACHED"
	ReasonDailyLimitReached = "DAILY_LIMIT_REACHED"
)

// Decision is the outcome of an authorization check.
type Decision struct {
	Allowed   bool
	Reason    string // set when not allowed
	Limit     int
	Remaining int
	IsDaily   bool // true when the limit is a daily window
}

// Policy authorizes analyses and records consumed usage.
// Authorize is called before any chunking or querying happens; a false
// decision short-circuits the whole pipeline. RecordUsage is called once
// after a successful analysis.
type Policy interface {
	Authorize(userID string) Decision
	RecordUsage(userID string)
	Counts(userID string) (daily, total int)
}
