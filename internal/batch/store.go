// Package batch implements asynchronous bulk analysis: a TTL-evicting
// batch store and a runner that processes each batch's items sequentially.
package batch

import (
	"sort"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/plagzap/plagzap/internal/model"
)

// Store holds batches between submission and polling. Implementations
// must hand out consistent snapshots: a reader never sees a batch with
// counts mid-update.
type Store interface {
	Put(b *model.Batch)
	Get(id string) (*model.Batch, bool)
	Update(id string, fn func(*model.Batch)) bool
	Delete(id string) bool
	ByOwner(ownerID string) []model.BatchListEntry
}

// MemoryStore keeps batches in an in-process TTL cache. Entries are
// evicted after the configured TTL, so abandoned batches cannot grow the
// process without bound. A store-level lock gives readers consistent
// snapshots against the runner's mutations.
type MemoryStore struct {
	mu    sync.RWMutex
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore creates a store whose batches expire ttl after their
// last write.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		cache: gocache.New(ttl, ttl/2),
		ttl:   ttl,
	}
}

// Put stores a batch.
func (s *MemoryStore) Put(b *model.Batch) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache.Set(b.ID, b, s.ttl)
}

// Get returns a deep-copied snapshot of the batch.
func (s *MemoryStore) Get(id string) (*model.Batch, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, found := s.cache.Get(id)
	if !found {
		return nil, false
	}
	return v.(*model.Batch).Clone(), true
}

// Update applies fn to the live batch under the write lock and refreshes
// its TTL. Returns false when the batch does not exist.
func (s *MemoryStore) Update(id string, fn func(*model.Batch)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, found := s.cache.Get(id)
	if !found {
		return false
	}
	b := v.(*model.Batch)
	fn(b)
	s.cache.Set(id, b, s.ttl)
	return true
}

// Delete removes a batch, reporting whether it existed.
func (s *MemoryStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, found := s.cache.Get(id)
	if found {
		s.cache.Delete(id)
	}
	return found
}

// ByOwner lists an owner's batches, newest first.
func (s *MemoryStore) ByOwner(ownerID string) []model.BatchListEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []model.BatchListEntry
	for _, item := range s.cache.Items() {
		b := item.Object.(*model.Batch)
		if b.OwnerID == ownerID {
			entries = append(entries, b.ListEntry())
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CreatedAt.After(entries[j].CreatedAt)
	})
	return entries
}
