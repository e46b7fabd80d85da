package detect

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

// patternWeight ties a compiled pattern to its score contribution.
// Positive weights indicate AI authorship, negative weights human.
type patternWeight struct {
	pattern *regexp.Regexp
	weight  int
	name    string
}

var aiPatterns = []patternWeight{
	{regexp.MustCompile(`(?i)\bFurthermore\b`), 8, "transition words"},
	{regexp.MustCompile(`(?i)\bMoreover\b`), 8, "transition words"},
	{regexp.MustCompile(`(?i)\bAdditionally\b`), 6, "transition words"},
	{regexp.MustCompile(`(?i)\bIn conclusion\b`), 10, "formal conclusions"},
	{regexp.MustCompile(`(?i)\bIt is important to note\b`), 12, "formal phrases"},
	{regexp.MustCompile(`(?i)\bIt is worth mentioning\b`), 10, "formal phrases"},
	{regexp.MustCompile(`(?i)\bOne might argue\b`), 8, "academic tone"},
	{regexp.MustCompile(`(?i)\bThis suggests that\b`), 6, "analytical language"},
	{regexp.MustCompile(`(?i)\bIn order to\b`), 4, "verbose phrasing"},
	{regexp.MustCompile(`(?i)\bDue to the fact that\b`), 6, "verbose phrasing"},
	{regexp.MustCompile(`(?i)\bIt should be noted\b`), 8, "formal phrases"},
	{regexp.MustCompile(`(?i)\bAs mentioned earlier\b`), 6, "structured references"},
}

var humanPatterns = []patternWeight{
	{regexp.MustCompile(`(?i)\bI think\b`), -8, "personal opinion"},
	{regexp.MustCompile(`(?i)\bI feel\b`), -8, "personal opinion"},
	{regexp.MustCompile(`(?i)\bhonestly\b`), -10, "conversational tone"},
	{regexp.MustCompile(`(?i)\bto be fair\b`), -8, "conversational tone"},
	{regexp.MustCompile(`(?i)\bactually\b`), -4, "casual language"},
	{regexp.MustCompile(`(?i)\bdon't\b`), -3, "contractions"},
	{regexp.MustCompile(`(?i)\bcan't\b`), -3, "contractions"},
	{regexp.MustCompile(`(?i)\bwon't\b`), -3, "contractions"},
	{regexp.MustCompile(`(?i)\bit's\b`), -2, "contractions"},
	{regexp.MustCompile(`(?i)\bthat's\b`), -2, "contractions"},
	{regexp.MustCompile(`(?i)\bI'm\b`), -4, "contractions"},
	{regexp.MustCompile(`(?i)\bkinda\b`), -10, "slang"},
	{regexp.MustCompile(`(?i)\bgonna\b`), -10, "slang"},
	{regexp.MustCompile(`(?i)\bwanna\b`), -10, "slang"},
	{regexp.MustCompile(`(?i)\blol\b`), -15, "internet speak"},
	{regexp.MustCompile(`(?i)\bhaha\b`), -12, "laughter"},
	{regexp.MustCompile(`!{2,}`), -8, "exclamation marks"},
	{regexp.MustCompile(`\.\.\.`), -5, "ellipsis"},
}

var sentenceSplit = regexp.MustCompile(`[.!?]+`)

// HeuristicDetector is the offline fallback detector. It scores stylistic
// signals: formal transition phrases push the score toward AI, contractions
// and slang toward human, and uniform sentence lengths toward AI.
type HeuristicDetector struct{}

// NewHeuristicDetector creates the offline detector.
func NewHeuristicDetector() *HeuristicDetector {
	return &HeuristicDetector{}
}

// Name returns the provider name.
func (d *HeuristicDetector) Name() string { return "heuristic" }

// Detect scores the text from a neutral 50 using pattern weights.
func (d *HeuristicDetector) Detect(ctx context.Context, text string) (Detection, error) {
	score := 50
	var reasons []string
	seen := map[string]struct{}{}

	for _, pw := range aiPatterns {
		matches := len(pw.pattern.FindAllString(text, -1))
		if matches == 0 {
			continue
		}
		if matches > 3 {
			matches = 3
		}
		score += pw.weight * matches
		if _, ok := seen[pw.name]; !ok {
			seen[pw.name] = struct{}{}
			reasons = append(reasons, pw.name)
		}
	}

	for _, pw := range humanPatterns {
		matches := len(pw.pattern.FindAllString(text, -1))
		if matches > 3 {
			matches = 3
		}
		score += pw.weight * matches
	}

	score += sentenceUniformity(text)

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	reason := "No strong stylistic signals"
	if len(reasons) > 0 {
		sort.Strings(reasons)
		reason = "Detected: " + strings.Join(reasons, ", ")
	}

	return Detection{
		Score:    score,
		Reason:   reason,
		Language: "English",
	}, nil
}

// sentenceUniformity rewards very uniform sentence lengths (an AI trait)
// and penalizes high variance (a human trait).
func sentenceUniformity(t string) int {
	var lengths []int
	for _, s := range sentenceSplit.Split(t, -1) {
		if words := strings.Fields(s); len(words) > 0 {
			lengths = append(lengths, len(words))
		}
	}
	if len(lengths) <= 3 {
		return 0
	}

	sum := 0
	for _, l := range lengths {
		sum += l
	}
	avg := float64(sum) / float64(len(lengths))

	variance := 0.0
	for _, l := range lengths {
		d := float64(l) - avg
		variance += d * d
	}
	variance /= float64(len(lengths))

	switch {
	case variance < 15:
		return 10
	case variance > 50:
		return -8
	default:
		return 0
	}
}
