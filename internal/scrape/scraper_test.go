package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/plagzap/plagzap/internal/model"
)

func testConfig() model.ScrapeConfig {
	return model.ScrapeConfig{
		UserAgent:    "plagzap-test",
		Timeout:      5 * time.Second,
		MaxBodyBytes: 1 << 20,
		MinBlockLen:  20,
		MaxTextLen:   50000,
	}
}

func TestScraper_ExtractContent(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nAllow: /\n")
	})
	mux.HandleFunc("/article", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><head><title>Test Article</title>
			<script>var ignored = "should not appear in output";</script></head>
			<body>
			<nav>site navigation links that must be stripped away</nav>
			<h1>A Heading Long Enough To Keep</h1>
			<p>This paragraph contains enough characters to pass the noise floor
			and enough total length that structured extraction is used directly.</p>
			<p>short</p>
			<footer>copyright notice stripped from the extracted content</footer>
			</body></html>`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewScraper(testConfig())
	page, err := s.Extract(context.Background(), server.URL+"/article")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if page.Title != "Test Article" {
		t.Errorf("Title = %q, want %q", page.Title, "Test Article")
	}
	if !strings.Contains(page.Text, "enough characters to pass") {
		t.Errorf("Expected paragraph text in output, got %q", page.Text)
	}
	if strings.Contains(page.Text, "ignored") {
		t.Error("Script content leaked into extracted text")
	}
	if strings.Contains(page.Text, "navigation") {
		t.Error("Nav content leaked into extracted text")
	}
}

func TestScraper_RobotsDisallow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nDisallow: /private\n")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewScraper(testConfig())
	if _, err := s.Extract(context.Background(), server.URL+"/private/page"); err == nil {
		t.Error("Expected error for robots-disallowed path")
	}
}

func TestScraper_InvalidURL(t *testing.T) {
	s := NewScraper(testConfig())
	if _, err := s.Extract(context.Background(), "ftp://example.com/file"); err == nil {
		t.Error("Expected error for non-http URL")
	}
}

func TestScraper_ErrorStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/robots.txt", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "User-agent: *\nAllow: /\n")
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	s := NewScraper(testConfig())
	if _, err := s.Extract(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("Expected error for 404 response")
	}
}
