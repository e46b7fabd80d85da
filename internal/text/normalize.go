package text

import (
	"regexp"
	"strings"
)

// stopWords is the fixed set of common English function words dropped
// during normalization. Similarity math runs on what remains.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"the", "a", "an", "and", "or", "but", "in", "on", "at", "to", "for",
		"of", "with", "by", "from", "as", "is", "was", "are", "were", "been",
		"be", "have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "must", "shall", "can", "need", "it", "its",
		"this", "that", "these", "those", "am", "also", "so", "than", "too",
		"very", "just", "about", "into", "through", "during", "before", "after",
		"above", "below", "between", "under", "again", "further", "then", "once",
		"here", "there", "when", "where", "why", "how", "all", "each", "few",
		"more", "most", "other", "some", "such", "no", "nor", "not", "only",
		"own", "same", "both", "because", "until", "while", "which", "who",
		"whom", "what", "if", "we", "they", "you", "he", "she", "i", "me",
		"my", "your", "his", "her", "our", "their", "any", "up", "out",
	} {
		stopWords[w] = struct{}{}
	}
}

// citationPattern matches bracketed citation markers like [1] or [note].
var citationPattern = regexp.MustCompile(`\[\w+\]`)

// IsStopWord reports whether w is in the stop-word set.
func IsStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Normalize lowercases text, strips citation markers and punctuation,
// splits on whitespace and drops stop words and tokens of length <= 2.
// Empty input yields an empty slice. The result is already normalized, so
// Normalize(strings.Join(Normalize(s), " ")) equals Normalize(s).
func Normalize(s string) []string {
	s = strings.ToLower(s)
	s = citationPattern.ReplaceAllString(s, " ")

	// Punctuation is removed, not replaced, so "don't" tokenizes as "dont"
	// the way the rest of the scoring stack expects.
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n', r == '\r':
			b.WriteRune(r)
		}
	}

	var tokens []string
	for _, w := range strings.Fields(b.String()) {
		if len(w) <= 2 {
			continue
		}
		if IsStopWord(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// TokenSet returns the normalized tokens of s as a set.
func TokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range Normalize(s) {
		set[w] = struct{}{}
	}
	return set
}
