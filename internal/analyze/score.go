package analyze

import (
	"math"

	"github.com/plagzap/plagzap/internal/model"
)

// Classify turns a chunk and its best match into a Highlight. A chunk is
// plagiarized iff its best substantial candidate scores above threshold;
// the 0-100 score is kept on safe chunks too, as a confidence signal.
func Classify(chunk string, match ChunkMatch, threshold float64) model.Highlight {
	h := model.Highlight{
		Text:  chunk,
		Type:  model.HighlightSafe,
		Score: int(math.Round(match.Similarity * 100)),
	}

	if match.Similarity > threshold {
		h.Type = model.HighlightPlagiarized
		if match.Best != nil {
			h.Source = match.Best.Title
			h.URL = match.Best.URL
		} else {
			h.Source = "Unknown Source"
			h.URL = "#"
		}
	}
	return h
}

// DocumentScore is the share of plagiarized chunks as a 0-100 integer.
func DocumentScore(highlights []model.Highlight) int {
	if len(highlights) == 0 {
		return 0
	}
	plagiarized := 0
	for _, h := range highlights {
		if h.Type == model.HighlightPlagiarized {
			plagiarized++
		}
	}
	return int(math.Round(float64(plagiarized) / float64(len(highlights)) * 100))
}

// CombinedRisk blends the plagiarism and AI scores with equal weight.
// Both signals are independent heuristics; the 50/50 split is a policy
// choice, not a learned parameter.
func CombinedRisk(plagiarismScore, aiScore int) int {
	return int(math.Round(float64(plagiarismScore)*0.5 + float64(aiScore)*0.5))
}
