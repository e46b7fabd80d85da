package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCleanQuery(t *testing.T) {
	tests := []struct {
		in     string
		maxLen int
		want   string
	}{
		{"hello, world! (test)", 150, "hello world test"},
		{"", 150, ""},
		{"...!!!", 150, ""},
		{"abcdefghij", 5, "abcde"},
		{"spaced    out     words", 150, "spaced out words"},
	}
	for _, tt := range tests {
		if got := CleanQuery(tt.in, tt.maxLen); got != tt.want {
			t.Errorf("CleanQuery(%q, %d) = %q, want %q", tt.in, tt.maxLen, got, tt.want)
		}
	}
}

func TestGoogleProvider_Search(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		fmt.Fprint(w, `{"items":[
			{"title":"Result One","link":"https://example.com/1","snippet":"first snippet"},
			{"title":"Result Two","link":"https://example.com/2","snippet":"second snippet"}
		]}`)
	}))
	defer server.Close()

	p, err := NewGoogleProvider("key", "cx", 5, 150, 5*time.Second, WithGoogleEndpoint(server.URL))
	if err != nil {
		t.Fatalf("NewGoogleProvider: %v", err)
	}

	results, err := p.Search(context.Background(), "the quick brown fox!")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	if results[0].Title != "Result One" || results[0].URL != "https://example.com/1" {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if gotQuery != `"the quick brown fox"` {
		t.Errorf("Expected quoted cleaned query, got %q", gotQuery)
	}
}

func TestGoogleProvider_NoResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	p, err := NewGoogleProvider("key", "cx", 5, 150, 5*time.Second, WithGoogleEndpoint(server.URL))
	if err != nil {
		t.Fatalf("NewGoogleProvider: %v", err)
	}

	results, err := p.Search(context.Background(), "some text")
	if err != nil {
		t.Fatalf("Expected no error for empty result set, got %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected 0 results, got %d", len(results))
	}
}

func TestGoogleProvider_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	p, err := NewGoogleProvider("key", "cx", 5, 150, 5*time.Second, WithGoogleEndpoint(server.URL))
	if err != nil {
		t.Fatalf("NewGoogleProvider: %v", err)
	}

	if _, err := p.Search(context.Background(), "some text"); err == nil {
		t.Error("Expected error for non-200 status")
	}
}

func TestGoogleProvider_RequiresCredentials(t *testing.T) {
	if _, err := NewGoogleProvider("", "", 5, 150, time.Second); err == nil {
		t.Error("Expected error when API key and cx are missing")
	}
}

func TestWikipediaProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("list") {
		case "search":
			fmt.Fprint(w, `{"query":{"search":[{"title":"Solar System"}]}}`)
		default:
			fmt.Fprint(w, `{"query":{"pages":{"123":{"title":"Solar System","extract":"The Solar System formed 4.6 billion years ago."}}}}`)
		}
	}))
	defer server.Close()

	p := NewWikipediaProvider("test-agent", 2, 5*time.Second, WithWikipediaEndpoint(server.URL))

	results, err := p.Search(context.Background(), "the solar system formed billions of years ago")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(results))
	}
	if results[0].URL != "https://en.wikipedia.org/wiki/Solar_System" {
		t.Errorf("Unexpected URL: %s", results[0].URL)
	}
	if results[0].Snippet == "" {
		t.Error("Expected non-empty snippet")
	}
}

func TestWikipediaProvider_EmptyQuery(t *testing.T) {
	p := NewWikipediaProvider("test-agent", 2, time.Second)
	results, err := p.Search(context.Background(), "the is a of")
	if err != nil {
		t.Fatalf("Expected nil error for stop-word-only query, got %v", err)
	}
	if results != nil {
		t.Errorf("Expected no results without meaningful terms, got %v", results)
	}
}

type countingProvider struct {
	calls   int
	results []Result
	err     error
}

func (p *countingProvider) Search(ctx context.Context, query string) ([]Result, error) {
	p.calls++
	return p.results, p.err
}

func TestCachedProvider_HitsCacheOnRepeat(t *testing.T) {
	upstream := &countingProvider{results: []Result{{Title: "t", URL: "u", Snippet: "s"}}}
	p := NewCachedProvider(upstream, time.Minute)

	for i := 0; i < 3; i++ {
		results, err := p.Search(context.Background(), "same query")
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if len(results) != 1 {
			t.Fatalf("Expected 1 result, got %d", len(results))
		}
	}
	if upstream.calls != 1 {
		t.Errorf("Expected a single upstream call, got %d", upstream.calls)
	}
}

func TestCachedProvider_DoesNotCacheErrors(t *testing.T) {
	upstream := &countingProvider{err: errors.New("boom")}
	p := NewCachedProvider(upstream, time.Minute)

	for i := 0; i < 2; i++ {
		if _, err := p.Search(context.Background(), "q"); err == nil {
			t.Fatal("Expected error from upstream")
		}
	}
	if upstream.calls != 2 {
		t.Errorf("Expected errors to bypass the cache, got %d upstream calls", upstream.calls)
	}
}
