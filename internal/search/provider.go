// Package search provides the external source-search capability used to
// find candidate passages for plagiarism comparison.
package search

import (
	"context"
	"strings"
)

// Result is one candidate source passage returned by a provider.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Provider searches external sources for passages similar to a query.
// Implementations return an empty slice for "no results"; errors are
// reserved for transport or auth failures, which callers absorb as
// empty results rather than aborting an analysis.
type Provider interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// CleanQuery strips non-alphanumeric characters from a chunk and bounds
// its length so it can be sent as an exact-phrase search query.
func CleanQuery(q string, maxLen int) string {
	if maxLen > 0 && len(q) > maxLen {
		q = q[:maxLen]
	}
	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
