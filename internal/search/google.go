package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const googleEndpoint = "https://www.googleapis.com/customsearch/v1"

// GoogleProvider queries the Google Custom Search JSON API.
type GoogleProvider struct {
	apiKey      string
	cx          string
	maxResults  int
	queryMaxLen int
	endpoint    string
	httpClient  *http.Client
}

// GoogleOption customizes a GoogleProvider.
type GoogleOption func(*GoogleProvider)

// WithGoogleEndpoint overrides the API endpoint, used by tests.
func WithGoogleEndpoint(endpoint string) GoogleOption {
	return func(p *GoogleProvider) { p.endpoint = endpoint }
}

// NewGoogleProvider creates a provider for the Google Custom Search API.
// Both the API key and the search engine id (cx) are required.
func NewGoogleProvider(apiKey, cx string, maxResults, queryMaxLen int, timeout time.Duration, opts ...GoogleOption) (*GoogleProvider, error) {
	if apiKey == "" || cx == "" {
		return nil, fmt.Errorf("google search requires an API key and cx")
	}
	if maxResults <= 0 {
		maxResults = 5
	}
	if queryMaxLen <= 0 {
		queryMaxLen = 150
	}
	p := &GoogleProvider{
		apiKey:      apiKey,
		cx:          cx,
		maxResults:  maxResults,
		queryMaxLen: queryMaxLen,
		endpoint:    googleEndpoint,
		httpClient:  &http.Client{Timeout: timeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

type googleResponse struct {
	Items []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"items"`
}

// Search queries the API with the cleaned text wrapped in quotes for
// exact-phrase semantics and returns the top results.
func (p *GoogleProvider) Search(ctx context.Context, query string) ([]Result, error) {
	clean := CleanQuery(query, p.queryMaxLen)
	if clean == "" {
		return nil, nil
	}

	params := url.Values{}
	params.Set("key", p.apiKey)
	params.Set("cx", p.cx)
	params.Set("q", `"`+clean+`"`)
	params.Set("num", strconv.Itoa(p.maxResults))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("google search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("google search: unexpected status %d: %s", resp.StatusCode, body)
	}

	var parsed googleResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	results := make([]Result, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		results = append(results, Result{
			Title:   item.Title,
			URL:     item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
