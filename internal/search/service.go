// internal/search/service.go
package search

import (
	"context"
	"strings"
	"time"

	"seoul-estate-search/internal/cache"
	apperrors "seoul-estate-search/internal/common/errors"
	"seoul-estate-search/internal/common/logger"
	"seoul-estate-search/internal/common/metrics"
	"seoul-estate-search/internal/estate"
)

// Upstream is the slice of the Seoul client the service depends on.
type Upstream interface {
	FetchRange(ctx context.Context, dataset string, maxRecords, chunkSize int, filters ...string) ([]estate.RawRow, error)
	FetchChunk(ctx context.Context, dataset string, start, end int, filters ...string) ([]estate.RawRow, error)
}

// Service runs the search pipeline: cache lookup, fan-out fetch, normalize,
// filter/sort, cache store. Requests are all-or-nothing: any upstream or
// configuration failure aborts, and no partial result is returned.
type Service struct {
	upstream   Upstream
	store      cache.Store
	logger     logger.Logger
	now        func() time.Time
	maxRecords int
	chunkSize  int
}

func New(upstream Upstream, store cache.Store, maxRecords, chunkSize int, log logger.Logger) *Service {
	return NewWithClock(upstream, store, maxRecords, chunkSize, log, time.Now)
}

// NewWithClock injects the clock used for the year / month-bucket cache key
// parts, enabling deterministic tests.
func NewWithClock(upstream Upstream, store cache.Store, maxRecords, chunkSize int, log logger.Logger, now func() time.Time) *Service {
	return &Service{
		upstream:   upstream,
		store:      store,
		logger:     log.WithFields(map[string]interface{}{"component": "search"}),
		now:        now,
		maxRecords: maxRecords,
		chunkSize:  chunkSize,
	}
}

// Search looks up transactions (and optionally nearby broker offices)
// matching term. An empty post-filter result is a success, not an error.
func (s *Service) Search(ctx context.Context, term string, includeAgents bool) (*estate.SearchResult, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, apperrors.NewValidationFailed("주소를 입력해주세요.")
	}

	yearMonth := s.now().Format("200601")
	key := cache.SearchKey(term, yearMonth)
	if includeAgents {
		key = cache.SearchKeyWithAgents(term, yearMonth)
	}

	if cached, ok, err := s.store.Get(ctx, key); err != nil {
		// A broken cache backend degrades to a miss.
		s.logger.Warn("cache lookup failed", map[string]interface{}{"key": key, "error": err.Error()})
	} else if ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		s.logger.Info("cache hit", map[string]interface{}{
			"term":         term,
			"transactions": len(cached.Transactions),
		})
		return cached, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	year := s.now().Format("2006")
	rows, err := s.upstream.FetchRange(ctx, string(estate.DatasetRTMS), s.maxRecords, s.chunkSize, year)
	if err != nil {
		return nil, err
	}

	transactions := make([]estate.Transaction, 0, len(rows))
	for _, row := range rows {
		transactions = append(transactions, estate.NormalizeTransaction(estate.DatasetRTMS, row))
	}
	filtered := estate.FilterAndSort(transactions, term)

	result := &estate.SearchResult{Transactions: filtered}

	if includeAgents {
		agentRows, err := s.upstream.FetchChunk(ctx, string(estate.DatasetAgents), 1, s.chunkSize, term)
		if err != nil {
			return nil, err
		}
		result.NearbyAgents = estate.FilterAgents(agentRows, term)
	}

	if err := s.store.Set(ctx, key, result); err != nil {
		s.logger.Warn("cache store failed", map[string]interface{}{"key": key, "error": err.Error()})
	}

	s.logger.Info("search completed", map[string]interface{}{
		"term":         term,
		"fetched":      len(rows),
		"transactions": len(filtered),
		"agents":       len(result.NearbyAgents),
	})
	return result, nil
}
