package model

// HighlightType classifies a chunk verdict
type HighlightType string

const (
	HighlightPlagiarized HighlightType = "plagiarized"
	HighlightSafe        HighlightType = "safe"
)

// Highlight is the per-chunk verdict. One per chunk, in document order.
// Score is the best candidate's similarity as a 0-100 integer and is kept
// even for safe chunks as a confidence signal.
type Highlight struct {
	Text   string        `json:"text"`
	Type   HighlightType `json:"type"`
	Source string        `json:"source,omitempty"` // title of the best-matching source
	URL    string        `json:"url,omitempty"`
	Score  int           `json:"score"`
}

// Match is one external source cited by at least one chunk,
// deduplicated by URL across the whole document.
type Match struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Usage reports the caller's quota state after the analysis.
type Usage struct {
	Remaining       int  `json:"remaining"`
	Limit           int  `json:"limit"`
	IsDaily         bool `json:"isDaily"`
	DailyUsageCount int  `json:"dailyUsageCount"`
	TotalUsageCount int  `json:"totalUsageCount"`
}

// Gamification carries streak and badge progress earned by the analysis.
type Gamification struct {
	CurrentStreak int      `json:"currentStreak"`
	LongestStreak int      `json:"longestStreak"`
	TotalAnalyses int      `json:"totalAnalyses"`
	NewBadges     []string `json:"newBadges"`
}

// AnalysisResult is the contract returned to callers and handed to the
// persistence and webhook collaborators. Downstream consumers depend on
// this exact field set, including the historical "plagarismScore"
// misspelling, so the JSON names must not change.
type AnalysisResult struct {
	ID              string       `json:"id"`
	OverallScore    int          `json:"overallScore"` // combined risk score
	PlagiarismScore int          `json:"plagarismScore"`
	AiScore         int          `json:"aiScore"`
	AiReason        string       `json:"aiReason"`
	Language        string       `json:"language"`
	Highlights      []Highlight  `json:"highlights"`
	Matches         []Match      `json:"matches"`
	Usage           Usage        `json:"usage"`
	Gamification    Gamification `json:"gamification"`
}
