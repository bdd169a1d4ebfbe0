// internal/cache/cache.go
package cache

import (
	"context"

	"seoul-estate-search/internal/estate"
)

// Store is the search-result cache contract. An expired or absent entry is
// reported via ok=false; err is reserved for backend failures (redis).
type Store interface {
	Get(ctx context.Context, key string) (value *estate.SearchResult, ok bool, err error)
	Set(ctx context.Context, key string, value *estate.SearchResult) error
}

// Cache keys are built in one place so every discriminating parameter is
// guaranteed to be part of the key and distinct queries can never collide.

// SearchKey identifies a transaction search by term and month bucket.
func SearchKey(term, yearMonth string) string {
	return "search:" + term + ":" + yearMonth
}

// SearchKeyWithAgents identifies a search that also carries broker results.
func SearchKeyWithAgents(term, yearMonth string) string {
	return SearchKey(term, yearMonth) + ":agents"
}
