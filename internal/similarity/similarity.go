// Package similarity implements the set-based and n-gram text similarity
// metrics used to score a document chunk against a candidate source snippet.
package similarity

import (
	"strings"

	"github.com/plagzap/plagzap/internal/text"
)

// DefaultNGramSize is the word n-gram length used for phrase matching.
const DefaultNGramSize = 3

// ngramDecisiveThreshold is the n-gram score above which a match is treated
// as a near-exact phrase copy and the blended score short-circuits to it.
const ngramDecisiveThreshold = 0.5

// substantialMinCommon is the minimum number of shared meaningful tokens
// required before any similarity score counts as evidence.
const substantialMinCommon = 3

// Overlap computes the overlap coefficient between the normalized token
// sets of a and b: |intersection| / min(|A|, |B|).
//
// The denominator is the smaller set rather than the union (Jaccard)
// because snippets are usually short excerpts of a longer chunk; the
// overlap coefficient scores containment at 1.0 where Jaccard would
// dilute it. Symmetric by construction; 0 when either side is empty.
func Overlap(a, b string) float64 {
	setA := text.TokenSet(a)
	setB := text.TokenSet(b)

	if len(setA) == 0 || len(setB) == 0 {
		return 0
	}

	inter := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			inter++
		}
	}

	minSize := len(setA)
	if len(setB) < minSize {
		minSize = len(setB)
	}
	return float64(inter) / float64(minSize)
}

// NGram computes the word n-gram similarity between a and b:
// |intersection| / min(ngram set sizes) over n-grams of the normalized
// token sequences. When either side has fewer than n tokens it falls
// back to Overlap, since no n-grams can be formed.
func NGram(a, b string, n int) float64 {
	wordsA := text.Normalize(a)
	wordsB := text.Normalize(b)

	if len(wordsA) < n || len(wordsB) < n {
		return Overlap(a, b)
	}

	gramsA := ngramSet(wordsA, n)
	gramsB := ngramSet(wordsB, n)
	if len(gramsA) == 0 || len(gramsB) == 0 {
		return 0
	}

	inter := 0
	for g := range gramsA {
		if _, ok := gramsB[g]; ok {
			inter++
		}
	}

	minSize := len(gramsA)
	if len(gramsB) < minSize {
		minSize = len(gramsB)
	}
	return float64(inter) / float64(minSize)
}

// Combined blends the two metrics into one score in [0,1].
// N-gram carries 60% weight since contiguous phrase matches are stronger
// plagiarism evidence than bag-of-words overlap; an n-gram score above
// 0.5 is decisive on its own.
func Combined(a, b string) float64 {
	overlap := Overlap(a, b)
	ngram := NGram(a, b, DefaultNGramSize)

	if ngram > ngramDecisiveThreshold {
		return ngram
	}
	return overlap*0.4 + ngram*0.6
}

// IsSubstantial reports whether a and b share at least three meaningful
// tokens (stop words and tokens of length <= 2 excluded). It gates
// numerically high scores computed from too few shared words.
func IsSubstantial(a, b string) bool {
	setB := text.TokenSet(b)
	common := 0
	for w := range text.TokenSet(a) {
		if _, ok := setB[w]; ok {
			common++
			if common >= substantialMinCommon {
				return true
			}
		}
	}
	return false
}

func ngramSet(words []string, n int) map[string]struct{} {
	set := make(map[string]struct{})
	for i := 0; i+n <= len(words); i++ {
		set[strings.Join(words[i:i+n], " ")] = struct{}{}
	}
	return set
}
