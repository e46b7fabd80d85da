package cli

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/plagzap/plagzap/internal/analyze"
	"github.com/plagzap/plagzap/internal/detect"
	"github.com/plagzap/plagzap/internal/gamify"
	"github.com/plagzap/plagzap/internal/model"
	"github.com/plagzap/plagzap/internal/policy"
	"github.com/plagzap/plagzap/internal/search"
)

// buildProvider selects the search backend. Google needs credentials;
// without them Wikipedia serves as the keyless fallback. All providers
// are wrapped in the query cache when a TTL is configured.
func buildProvider(cfg *model.Config) (search.Provider, error) {
	var provider search.Provider
	switch cfg.Search.Provider {
	case "google":
		p, err := search.NewGoogleProvider(cfg.Search.APIKey, cfg.Search.CX,
			cfg.Search.MaxResults, cfg.Search.QueryMaxLen, cfg.Search.Timeout)
		if err != nil {
			return nil, err
		}
		provider = p
	case "wikipedia", "":
		provider = search.NewWikipediaProvider(cfg.Scrape.UserAgent, 2, cfg.Search.Timeout)
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}

	if cfg.Search.CacheTTL > 0 {
		provider = search.NewCachedProvider(provider, cfg.Search.CacheTTL)
	}
	return provider, nil
}

// buildAnalyzer wires the full single-document pipeline from config.
func buildAnalyzer(cfg *model.Config, log zerolog.Logger) (*analyze.Analyzer, error) {
	provider, err := buildProvider(cfg)
	if err != nil {
		return nil, err
	}

	detector, err := detect.New(cfg.Detector)
	if err != nil {
		return nil, err
	}
	log.Debug().Str("detector", detector.Name()).Str("search", cfg.Search.Provider).Msg("pipeline configured")

	pol := policy.NewMemoryPolicy(cfg.Policy)
	tracker := gamify.NewTracker()

	return analyze.New(cfg, provider, detector, pol, tracker, log), nil
}
