// Package analyze runs the single-document plagiarism pipeline:
// authorize, chunk, sample and query external sources, score candidates,
// and aggregate chunk verdicts into one result.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/plagzap/plagzap/internal/detect"
	"github.com/plagzap/plagzap/internal/gamify"
	"github.com/plagzap/plagzap/internal/model"
	"github.com/plagzap/plagzap/internal/policy"
	"github.com/plagzap/plagzap/internal/search"
	"github.com/plagzap/plagzap/internal/text"
)

// ErrEmptyText is returned when an analysis is requested without input.
var ErrEmptyText = errors.New("text is required")

// LimitError is returned when the usage policy declines the analysis.
// Nothing is chunked or queried in that case.
type LimitError struct {
	Decision policy.Decision
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("limit reached: %s", e.Decision.Reason)
}

// Analyzer orchestrates one document's analysis.
type Analyzer struct {
	cfg      *model.Config
	sampler  *Sampler
	detector detect.Detector
	policy   policy.Policy
	tracker  *gamify.Tracker
	log      zerolog.Logger
}

// New wires an Analyzer. The inter-query limiter is derived from
// cfg.Analysis.QueriesPerSecond; WithLimiter overrides it for tests.
func New(cfg *model.Config, provider search.Provider, detector detect.Detector, pol policy.Policy, tracker *gamify.Tracker, log zerolog.Logger, opts ...Option) *Analyzer {
	a := &Analyzer{
		cfg:      cfg,
		detector: detector,
		policy:   pol,
		tracker:  tracker,
		log:      log,
	}

	limiter := rate.NewLimiter(rate.Limit(cfg.Analysis.QueriesPerSecond), 1)
	for _, o := range opts {
		if o.limiter != nil {
			limiter = o.limiter
		}
	}
	a.sampler = NewSampler(provider, limiter, cfg.Analysis, log)
	return a
}

// Option customizes an Analyzer.
type Option struct {
	limiter *rate.Limiter
}

// WithLimiter replaces the inter-query rate limiter.
func WithLimiter(l *rate.Limiter) Option {
	return Option{limiter: l}
}

// Analyze runs the full pipeline for one document and returns the result
// contract. External search and detection failures degrade to safe
// defaults; only input and policy errors surface to the caller.
func (a *Analyzer) Analyze(ctx context.Context, userID, input string) (*model.AnalysisResult, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyText
	}

	decision := a.policy.Authorize(userID)
	if !decision.Allowed {
		return nil, &LimitError{Decision: decision}
	}

	chunks := text.SplitChunks(input, a.cfg.Analysis.ChunkSize)
	a.log.Debug().Str("user", userID).Int("chunks", len(chunks)).Msg("analyzing document")

	matches := a.sampler.Query(ctx, chunks)

	highlights := make([]model.Highlight, 0, len(chunks))
	var sources []model.Match
	seenSources := make(map[string]struct{})

	for i, chunk := range chunks {
		match := matches[i] // zero value for un-sampled chunks: similarity 0, safe
		h := Classify(chunk, match, a.cfg.Analysis.PlagiarismThreshold)
		highlights = append(highlights, h)

		if h.Type == model.HighlightPlagiarized && match.Best != nil {
			if _, seen := seenSources[match.Best.URL]; !seen {
				seenSources[match.Best.URL] = struct{}{}
				sources = append(sources, model.Match{
					Title:   match.Best.Title,
					URL:     match.Best.URL,
					Snippet: match.Best.Snippet,
				})
			}
		}
	}

	plagiarismScore := DocumentScore(highlights)

	a.policy.RecordUsage(userID)
	updated := a.policy.Authorize(userID)
	daily, total := a.policy.Counts(userID)

	detection := a.detect(ctx, input)
	overall := CombinedRisk(plagiarismScore, detection.Score)

	var stats gamify.Stats
	if a.tracker != nil {
		stats = a.tracker.RecordAnalysis(userID)
	}

	result := &model.AnalysisResult{
		ID:              uuid.NewString(),
		OverallScore:    overall,
		PlagiarismScore: plagiarismScore,
		AiScore:         detection.Score,
		AiReason:        detection.Reason,
		Language:        detection.Language,
		Highlights:      highlights,
		Matches:         sources,
		Usage: model.Usage{
			Remaining:       updated.Remaining,
			Limit:           updated.Limit,
			IsDaily:         updated.IsDaily,
			DailyUsageCount: daily,
			TotalUsageCount: total,
		},
		Gamification: model.Gamification{
			CurrentStreak: stats.CurrentStreak,
			LongestStreak: stats.LongestStreak,
			TotalAnalyses: stats.TotalAnalyses,
			NewBadges:     stats.NewBadges,
		},
	}

	a.log.Info().
		Str("user", userID).
		Int("plagiarism", plagiarismScore).
		Int("ai", detection.Score).
		Int("overall", overall).
		Msg("analysis complete")

	return result, nil
}

// AnalyzeItem runs the scoring pipeline without policy accounting,
// gamification or source collection. Batch submissions are authorized once
// at creation time, so per-item quota checks would double-charge users.
func (a *Analyzer) AnalyzeItem(ctx context.Context, input string) (model.ItemResult, error) {
	if strings.TrimSpace(input) == "" {
		return model.ItemResult{}, ErrEmptyText
	}

	chunks := text.SplitChunks(input, a.cfg.Analysis.ChunkSize)
	matches := a.sampler.Query(ctx, chunks)

	highlights := make([]model.Highlight, 0, len(chunks))
	for i, chunk := range chunks {
		highlights = append(highlights, Classify(chunk, matches[i], a.cfg.Analysis.PlagiarismThreshold))
	}

	plagiarismScore := DocumentScore(highlights)
	detection := a.detect(ctx, input)

	return model.ItemResult{
		PlagiarismScore: plagiarismScore,
		AiScore:         detection.Score,
		OverallScore:    CombinedRisk(plagiarismScore, detection.Score),
	}, nil
}

// detect runs AI detection, degrading to a zero score when the detector
// is unavailable.
func (a *Analyzer) detect(ctx context.Context, input string) detect.Detection {
	detection, err := a.detector.Detect(ctx, input)
	if err != nil {
		a.log.Warn().Err(err).Msg("AI detection failed, defaulting to 0")
		return detect.Detection{Score: 0, Reason: "Analysis unavailable", Language: "English"}
	}
	return detection
}
