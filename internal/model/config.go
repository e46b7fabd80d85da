package model

import "time"

// Config holds all tunables for the analysis core.
// Sampling parity, caps and thresholds are configuration rather than
// constants so deployments can trade coverage against search quota.
type Config struct {
	Analysis AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
	Search   SearchConfig   `yaml:"search" mapstructure:"search"`
	Detector DetectorConfig `yaml:"detector" mapstructure:"detector"`
	Policy   PolicyConfig   `yaml:"policy" mapstructure:"policy"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Scrape   ScrapeConfig   `yaml:"scrape" mapstructure:"scrape"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
}

// AnalysisConfig controls chunking, sampling and classification.
type AnalysisConfig struct {
	ChunkSize           int     `yaml:"chunk_size" mapstructure:"chunk_size"`                     // target chunk length in characters
	SampleEvery         int     `yaml:"sample_every" mapstructure:"sample_every"`                 // query every Nth chunk on long documents
	SampleThreshold     int     `yaml:"sample_threshold" mapstructure:"sample_threshold"`         // documents with <= this many chunks query all chunks
	MaxQueries          int     `yaml:"max_queries" mapstructure:"max_queries"`                   // hard cap on queried chunks per document
	MinSnippetLen       int     `yaml:"min_snippet_len" mapstructure:"min_snippet_len"`           // snippets shorter than this are skipped
	PlagiarismThreshold float64 `yaml:"plagiarism_threshold" mapstructure:"plagiarism_threshold"` // combined similarity above this marks a chunk plagiarized
	QueriesPerSecond    float64 `yaml:"queries_per_second" mapstructure:"queries_per_second"`     // rate limit between consecutive search calls
}

// SearchConfig selects and configures the external search provider.
type SearchConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"` // "google", "wikipedia"
	APIKey      string        `yaml:"api_key" mapstructure:"api_key"`
	CX          string        `yaml:"cx" mapstructure:"cx"` // Google Custom Search engine id
	MaxResults  int           `yaml:"max_results" mapstructure:"max_results"`
	QueryMaxLen int           `yaml:"query_max_len" mapstructure:"query_max_len"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	CacheTTL    time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// DetectorConfig selects and configures the AI-likelihood detector.
type DetectorConfig struct {
	Provider  string        `yaml:"provider" mapstructure:"provider"` // "openai", "heuristic"
	APIKey    string        `yaml:"api_key" mapstructure:"api_key"`
	BaseURL   string        `yaml:"base_url" mapstructure:"base_url"` // custom OpenAI-compatible endpoint
	Model     string        `yaml:"model" mapstructure:"model"`
	MaxTokens int           `yaml:"max_tokens" mapstructure:"max_tokens"`
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// PolicyConfig controls per-user usage limits.
type PolicyConfig struct {
	FreeLimit  int `yaml:"free_limit" mapstructure:"free_limit"`   // lifetime analyses for unsubscribed users
	DailyLimit int `yaml:"daily_limit" mapstructure:"daily_limit"` // analyses per day for subscribed users
}

// BatchConfig controls bulk processing.
type BatchConfig struct {
	MaxItems       int           `yaml:"max_items" mapstructure:"max_items"`               // per-submission cap, enforced by callers
	MaxTextLen     int           `yaml:"max_text_len" mapstructure:"max_text_len"`         // item texts are truncated to this
	ItemsPerSecond float64       `yaml:"items_per_second" mapstructure:"items_per_second"` // rate limit between consecutive items
	Workers        int           `yaml:"workers" mapstructure:"workers"`                   // concurrent batches; items inside a batch stay sequential
	StoreTTL       time.Duration `yaml:"store_ttl" mapstructure:"store_ttl"`               // batches are evicted this long after completion
}

// ScrapeConfig controls page-text extraction for URL-sourced documents.
type ScrapeConfig struct {
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MinBlockLen  int           `yaml:"min_block_len" mapstructure:"min_block_len"` // text blocks shorter than this are noise
	MaxTextLen   int           `yaml:"max_text_len" mapstructure:"max_text_len"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// DefaultConfig returns the configuration matching the documented defaults.
func DefaultConfig() *Config {
	return &Config{
		Analysis: AnalysisConfig{
			ChunkSize:           300,
			SampleEvery:         2,
			SampleThreshold:     20,
			MaxQueries:          30,
			MinSnippetLen:       30,
			PlagiarismThreshold: 0.30,
			QueriesPerSecond:    5,
		},
		Search: SearchConfig{
			Provider:    "wikipedia",
			MaxResults:  5,
			QueryMaxLen: 150,
			Timeout:     10 * time.Second,
			CacheTTL:    1 * time.Hour,
		},
		Detector: DetectorConfig{
			Provider:  "heuristic",
			Model:     "gpt-4o-mini",
			MaxTokens: 500,
			Timeout:   30 * time.Second,
		},
		Policy: PolicyConfig{
			FreeLimit:  15,
			DailyLimit: 50,
		},
		Batch: BatchConfig{
			MaxItems:       10,
			MaxTextLen:     10000,
			ItemsPerSecond: 2,
			Workers:        4,
			StoreTTL:       24 * time.Hour,
		},
		Scrape: ScrapeConfig{
			UserAgent:    "PlagZap/1.0 (+https://github.com/plagzap/plagzap)",
			Timeout:      10 * time.Second,
			MaxBodyBytes: 2_000_000,
			MinBlockLen:  20,
			MaxTextLen:   50000,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}
