// internal/cache/memory_test.go
package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoul-estate-search/internal/estate"
)

func sampleResult(name string) *estate.SearchResult {
	return &estate.SearchResult{
		Transactions: []estate.Transaction{
			{Price: 180000, Area: 84.97, Floor: 12, Date: "20240115", Address: "강남구 역삼동 649-5", BuildingName: name},
		},
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(30*time.Minute, 16)

	stored := sampleResult("역삼래미안")
	require.NoError(t, store.Set(ctx, SearchKey("역삼동", "202401"), stored))

	got, ok, err := store.Get(ctx, SearchKey("역삼동", "202401"))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stored, got)
}

func TestMemoryStore_MissOnAbsentKey(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(30*time.Minute, 16)

	got, ok, err := store.Get(ctx, SearchKey("잠실동", "202401"))
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestMemoryStore_ExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	current := time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)
	store := NewMemoryWithClock(30*time.Minute, 16, func() time.Time { return current })

	key := SearchKey("역삼동", "202401")
	require.NoError(t, store.Set(ctx, key, sampleResult("역삼래미안")))

	// Just inside the TTL: still a hit.
	current = current.Add(29 * time.Minute)
	_, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)

	// Past the TTL: a miss, and the entry is swept.
	current = current.Add(2 * time.Minute)
	_, ok, err = store.Get(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestMemoryStore_EvictsLeastRecentlyUsed(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(30*time.Minute, 2)

	require.NoError(t, store.Set(ctx, "search:a:202401", sampleResult("a")))
	require.NoError(t, store.Set(ctx, "search:b:202401", sampleResult("b")))

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok, err := store.Get(ctx, "search:a:202401")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, store.Set(ctx, "search:c:202401", sampleResult("c")))
	assert.Equal(t, 2, store.Len())

	_, ok, _ = store.Get(ctx, "search:b:202401")
	assert.False(t, ok, "least recently used entry should have been evicted")
	_, ok, _ = store.Get(ctx, "search:a:202401")
	assert.True(t, ok)
	_, ok, _ = store.Get(ctx, "search:c:202401")
	assert.True(t, ok)
}

func TestMemoryStore_SetReplacesExisting(t *testing.T) {
	ctx := context.Background()
	store := NewMemory(30*time.Minute, 2)

	key := SearchKey("역삼동", "202401")
	require.NoError(t, store.Set(ctx, key, sampleResult("old")))
	require.NoError(t, store.Set(ctx, key, sampleResult("new")))

	got, ok, err := store.Get(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "new", got.Transactions[0].BuildingName)
	assert.Equal(t, 1, store.Len())
}

func TestSearchKeys_DistinctQueriesNeverCollide(t *testing.T) {
	keys := []string{
		SearchKey("역삼동", "202401"),
		SearchKey("역삼동", "202402"),
		SearchKey("잠실동", "202401"),
		SearchKeyWithAgents("역삼동", "202401"),
	}

	seen := map[string]bool{}
	for _, k := range keys {
		assert.False(t, seen[k], "duplicate key %q", k)
		seen[k] = true
	}
}
