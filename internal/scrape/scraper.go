// Package scrape extracts readable text from web pages so URL-sourced
// documents can be run through the analysis pipeline.
package scrape

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/time/rate"

	"github.com/plagzap/plagzap/internal/model"
)

// Page is the extracted content of one web page.
type Page struct {
	URL   string
	Title string
	Text  string
}

// skipElements are stripped before text extraction; they hold navigation
// and boilerplate, not document content.
var skipElements = map[string]struct{}{
	"script": {}, "style": {}, "nav": {}, "footer": {},
	"header": {}, "aside": {}, "noscript": {}, "iframe": {},
}

// contentElements are the block-level elements whose text is collected.
var contentElements = map[string]struct{}{
	"p": {}, "h1": {}, "h2": {}, "h3": {}, "h4": {}, "h5": {}, "h6": {}, "li": {},
}

// Scraper fetches pages and extracts their main text, honoring robots.txt
// and a per-host rate limit.
type Scraper struct {
	cfg        model.ScrapeConfig
	httpClient *http.Client
	robots     *RobotsChecker

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewScraper creates a Scraper from configuration.
func NewScraper(cfg model.ScrapeConfig) *Scraper {
	return &Scraper{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		robots:     NewRobotsChecker(cfg.UserAgent, cfg.Timeout),
		limiters:   make(map[string]*rate.Limiter),
	}
}

// Extract fetches rawURL and returns its title and readable text.
func (s *Scraper) Extract(ctx context.Context, rawURL string) (*Page, error) {
	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return nil, fmt.Errorf("invalid URL: %s", rawURL)
	}

	allowed, crawlDelay, err := s.robots.CanFetch(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", rawURL)
	}
	if err := s.waitHost(ctx, rawURL, crawlDelay); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	title, blocks := s.collect(doc)
	content := strings.Join(blocks, "\n\n")

	// Structured extraction can come up empty on pages without semantic
	// markup; fall back to the flattened body text.
	if len(content) < 100 {
		content = strings.Join(strings.Fields(textContent(doc)), " ")
	}
	if len(content) > s.cfg.MaxTextLen {
		content = content[:s.cfg.MaxTextLen]
	}

	return &Page{
		URL:   rawURL,
		Title: strings.TrimSpace(title),
		Text:  strings.TrimSpace(content),
	}, nil
}

// waitHost enforces one request per second per host, plus any crawl delay
// requested by the site's robots.txt.
func (s *Scraper) waitHost(ctx context.Context, rawURL string, crawlDelay time.Duration) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return err
	}

	s.mu.Lock()
	limiter, ok := s.limiters[parsed.Host]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(1), 1)
		s.limiters[parsed.Host] = limiter
	}
	s.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil {
		return err
	}
	if crawlDelay > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(crawlDelay):
		}
	}
	return nil
}

// collect walks the DOM, returning the page title and the text of content
// elements longer than the configured noise floor.
func (s *Scraper) collect(doc *html.Node) (string, []string) {
	var title string
	var blocks []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			if _, skip := skipElements[n.Data]; skip {
				return
			}
			if n.Data == "title" && title == "" {
				title = textContent(n)
				return
			}
			if _, ok := contentElements[n.Data]; ok {
				t := strings.TrimSpace(strings.Join(strings.Fields(textContent(n)), " "))
				if len(t) >= s.cfg.MinBlockLen {
					blocks = append(blocks, t)
				}
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title, blocks
}

func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	if n.Type == html.ElementNode {
		if _, skip := skipElements[n.Data]; skip {
			return ""
		}
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
		b.WriteByte(' ')
	}
	return b.String()
}
