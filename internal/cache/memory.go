// internal/cache/memory.go
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"

	"seoul-estate-search/internal/estate"
)

// MemoryStore is an in-process TTL cache with an LRU capacity bound.
// Expiry is checked lazily on Get; there is no background sweep. All state
// is guarded by a mutex since requests are served concurrently.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time

	entries map[string]*list.Element
	order   *list.List // front = most recently used
}

type memoryEntry struct {
	key      string
	value    *estate.SearchResult
	storedAt time.Time
}

// NewMemory creates a memory store with the given TTL and entry capacity.
func NewMemory(ttl time.Duration, capacity int) *MemoryStore {
	return NewMemoryWithClock(ttl, capacity, time.Now)
}

// NewMemoryWithClock injects the clock, enabling deterministic expiry tests.
func NewMemoryWithClock(ttl time.Duration, capacity int, now func() time.Time) *MemoryStore {
	return &MemoryStore{
		ttl:      ttl,
		capacity: capacity,
		now:      now,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (s *MemoryStore) Get(_ context.Context, key string) (*estate.SearchResult, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	elem, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}

	entry := elem.Value.(*memoryEntry)
	if s.now().Sub(entry.storedAt) > s.ttl {
		s.order.Remove(elem)
		delete(s.entries, key)
		return nil, false, nil
	}

	s.order.MoveToFront(elem)
	return entry.value, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key string, value *estate.SearchResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elem, ok := s.entries[key]; ok {
		entry := elem.Value.(*memoryEntry)
		entry.value = value
		entry.storedAt = s.now()
		s.order.MoveToFront(elem)
		return nil
	}

	elem := s.order.PushFront(&memoryEntry{
		key:      key,
		value:    value,
		storedAt: s.now(),
	})
	s.entries[key] = elem

	for s.capacity > 0 && s.order.Len() > s.capacity {
		oldest := s.order.Back()
		if oldest == nil {
			break
		}
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(*memoryEntry).key)
	}

	return nil
}

// Len reports the number of live entries, including not-yet-swept expired
// ones.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}
