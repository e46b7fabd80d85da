package search

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// CachedProvider wraps a Provider with an in-memory TTL cache so repeated
// chunks (and repeated analyses of the same document) do not burn quota.
// Only successful lookups are cached; errors always hit the upstream again.
type CachedProvider struct {
	upstream Provider
	cache    *gocache.Cache
	ttl      time.Duration
}

// NewCachedProvider wraps upstream with a query cache.
func NewCachedProvider(upstream Provider, ttl time.Duration) *CachedProvider {
	return &CachedProvider{
		upstream: upstream,
		cache:    gocache.New(ttl, 2*ttl),
		ttl:      ttl,
	}
}

// Search returns cached results when available, otherwise asks upstream.
func (p *CachedProvider) Search(ctx context.Context, query string) ([]Result, error) {
	key := cacheKey(query)
	if cached, found := p.cache.Get(key); found {
		return cached.([]Result), nil
	}

	results, err := p.upstream.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	p.cache.Set(key, results, p.ttl)
	return results, nil
}

func cacheKey(query string) string {
	hash := sha256.Sum256([]byte(query))
	return "plagzap:search:v1:" + hex.EncodeToString(hash[:])
}
