package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/plagzap/plagzap/internal/text"
)

const wikipediaEndpoint = "https://en.wikipedia.org/w/api.php"

// WikipediaProvider searches the MediaWiki API and fetches article intro
// extracts as candidate snippets. It needs no credentials, so it serves as
// the default provider when no Google Custom Search keys are configured.
type WikipediaProvider struct {
	userAgent  string
	maxPages   int
	endpoint   string
	httpClient *http.Client
}

// WikipediaOption customizes a WikipediaProvider.
type WikipediaOption func(*WikipediaProvider)

// WithWikipediaEndpoint overrides the API endpoint, used by tests.
func WithWikipediaEndpoint(endpoint string) WikipediaOption {
	return func(p *WikipediaProvider) { p.endpoint = endpoint }
}

// NewWikipediaProvider creates a provider backed by the MediaWiki API.
func NewWikipediaProvider(userAgent string, maxPages int, timeout time.Duration, opts ...WikipediaOption) *WikipediaProvider {
	if maxPages <= 0 {
		maxPages = 2
	}
	p := &WikipediaProvider{
		userAgent:  userAgent,
		maxPages:   maxPages,
		endpoint:   wikipediaEndpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type wikiSearchResponse struct {
	Query struct {
		Search []struct {
			Title string `json:"title"`
		} `json:"search"`
	} `json:"query"`
}

type wikiExtractResponse struct {
	Query struct {
		Pages map[string]struct {
			Title   string `json:"title"`
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

// Search runs a full-text search on the first few meaningful words of the
// query, then fetches plain-text intro extracts for the top hits.
func (p *WikipediaProvider) Search(ctx context.Context, query string) ([]Result, error) {
	terms := text.Normalize(query)
	if len(terms) == 0 {
		return nil, nil
	}
	if len(terms) > 5 {
		terms = terms[:5]
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("list", "search")
	params.Set("srsearch", strings.Join(terms, " "))
	params.Set("format", "json")
	params.Set("srlimit", "3")

	var searchResp wikiSearchResponse
	if err := p.get(ctx, params, &searchResp); err != nil {
		return nil, fmt.Errorf("wikipedia search: %w", err)
	}

	var results []Result
	for i, hit := range searchResp.Query.Search {
		if i >= p.maxPages {
			break
		}

		extractParams := url.Values{}
		extractParams.Set("action", "query")
		extractParams.Set("prop", "extracts")
		extractParams.Set("exintro", "1")
		extractParams.Set("explaintext", "1")
		extractParams.Set("titles", hit.Title)
		extractParams.Set("format", "json")

		var extractResp wikiExtractResponse
		if err := p.get(ctx, extractParams, &extractResp); err != nil {
			// A failed page fetch only loses that one candidate.
			continue
		}

		for _, page := range extractResp.Query.Pages {
			if page.Extract == "" {
				continue
			}
			slug := strings.ReplaceAll(page.Title, " ", "_")
			results = append(results, Result{
				Title:   page.Title + " - Wikipedia",
				URL:     "https://en.wikipedia.org/wiki/" + url.PathEscape(slug),
				Snippet: page.Extract,
			})
		}
	}
	return results, nil
}

func (p *WikipediaProvider) get(ctx context.Context, params url.Values, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
