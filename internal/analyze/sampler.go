package analyze

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/plagzap/plagzap/internal/model"
	"github.com/plagzap/plagzap/internal/search"
	"github.com/plagzap/plagzap/internal/similarity"
)

// SelectQueryChunks decides which chunk indices to query against the
// external search provider. Short documents query every chunk; longer ones
// query every cfg.SampleEvery-th chunk, capped at cfg.MaxQueries, to bound
// call volume regardless of document length. Un-selected chunks get no
// query and default to a safe classification, a deliberate cost/coverage
// tradeoff.
func SelectQueryChunks(total int, cfg model.AnalysisConfig) []int {
	if total <= 0 {
		return nil
	}

	step := 1
	if total > cfg.SampleThreshold && cfg.SampleEvery > 1 {
		step = cfg.SampleEvery
	}

	var indices []int
	for i := 0; i < total; i += step {
		if cfg.MaxQueries > 0 && len(indices) >= cfg.MaxQueries {
			break
		}
		indices = append(indices, i)
	}
	return indices
}

// ChunkMatch is the best substantial candidate found for one chunk.
type ChunkMatch struct {
	Similarity float64
	Best       *search.Result // nil when no substantial candidate qualified
}

// Sampler runs the per-chunk query loop: one search per selected chunk,
// sequentially, paced by a rate limiter.
type Sampler struct {
	provider search.Provider
	limiter  *rate.Limiter
	cfg      model.AnalysisConfig
	log      zerolog.Logger
}

// NewSampler creates a sampler. The limiter paces consecutive external
// queries; tests pass rate.NewLimiter(rate.Inf, 1) to avoid wall-clock
// waits.
func NewSampler(provider search.Provider, limiter *rate.Limiter, cfg model.AnalysisConfig, log zerolog.Logger) *Sampler {
	return &Sampler{
		provider: provider,
		limiter:  limiter,
		cfg:      cfg,
		log:      log,
	}
}

// Query searches the selected chunks and returns the best match per
// queried chunk index. Provider failures and empty result sets both leave
// the chunk without a match; they never abort the document.
func (s *Sampler) Query(ctx context.Context, chunks []string) map[int]ChunkMatch {
	matches := make(map[int]ChunkMatch)

	for _, idx := range SelectQueryChunks(len(chunks), s.cfg) {
		if err := s.limiter.Wait(ctx); err != nil {
			s.log.Warn().Err(err).Msg("query pacing interrupted")
			break
		}

		chunk := chunks[idx]
		results, err := s.provider.Search(ctx, chunk)
		if err != nil {
			s.log.Warn().Err(err).Int("chunk", idx).Msg("search failed, treating as no matches")
			matches[idx] = ChunkMatch{}
			continue
		}

		matches[idx] = s.bestMatch(chunk, results)
	}
	return matches
}

// bestMatch scores every usable candidate against the chunk and keeps the
// highest-scoring substantial one.
func (s *Sampler) bestMatch(chunk string, results []search.Result) ChunkMatch {
	var match ChunkMatch
	for i := range results {
		snippet := results[i].Snippet
		if len(snippet) < s.cfg.MinSnippetLen {
			continue
		}

		score := similarity.Combined(chunk, snippet)
		if score > match.Similarity && similarity.IsSubstantial(chunk, snippet) {
			match.Similarity = score
			match.Best = &results[i]
		}
	}
	return match
}
