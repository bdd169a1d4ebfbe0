// internal/search/service_test.go
package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seoul-estate-search/internal/cache"
	apperrors "seoul-estate-search/internal/common/errors"
	"seoul-estate-search/internal/common/logger"
	"seoul-estate-search/internal/estate"
)

// fakeUpstream counts calls and serves canned rows.
type fakeUpstream struct {
	mu         sync.Mutex
	rangeCalls int
	chunkCalls int
	rows       []estate.RawRow
	agentRows  []estate.RawRow
	rangeErr   error
	chunkErr   error
}

func (f *fakeUpstream) FetchRange(_ context.Context, _ string, _, _ int, _ ...string) ([]estate.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rangeCalls++
	if f.rangeErr != nil {
		return nil, f.rangeErr
	}
	return f.rows, nil
}

func (f *fakeUpstream) FetchChunk(_ context.Context, _ string, _, _ int, _ ...string) ([]estate.RawRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chunkCalls++
	if f.chunkErr != nil {
		return nil, f.chunkErr
	}
	return f.agentRows, nil
}

func transactionRows() []estate.RawRow {
	return []estate.RawRow{
		{"THING_AMT": "180,000", "CTRT_DAY": "20240115", "CGG_NM": "강남구", "STDG_NM": "역삼동", "BLDG_NM": "역삼래미안"},
		{"THING_AMT": "95,500", "CTRT_DAY": "20240301", "CGG_NM": "강남구", "STDG_NM": "역삼동", "BLDG_NM": "역삼자이"},
		{"THING_AMT": "70,000", "CTRT_DAY": "20240210", "CGG_NM": "송파구", "STDG_NM": "잠실동", "BLDG_NM": "잠실엘스"},
	}
}

func newTestService(t *testing.T, upstream *fakeUpstream) *Service {
	t.Helper()
	store := cache.NewMemory(30*time.Minute, 16)
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	return NewWithClock(upstream, store, 10000, 1000, logger.NewTestLogger(t), func() time.Time { return fixed })
}

func TestSearch_EmptyTermIsValidationError(t *testing.T) {
	upstream := &fakeUpstream{}
	svc := newTestService(t, upstream)

	for _, term := range []string{"", "   ", "\t"} {
		_, err := svc.Search(context.Background(), term, false)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeValidationFailed), "term=%q got %v", term, err)
	}
	assert.Equal(t, 0, upstream.rangeCalls, "no upstream call for invalid input")
}

func TestSearch_FiltersAndSortsDescending(t *testing.T) {
	upstream := &fakeUpstream{rows: transactionRows()}
	svc := newTestService(t, upstream)

	result, err := svc.Search(context.Background(), "역삼동", false)

	require.NoError(t, err)
	require.Len(t, result.Transactions, 2)
	assert.Equal(t, "역삼자이", result.Transactions[0].BuildingName)
	assert.Equal(t, "역삼래미안", result.Transactions[1].BuildingName)
	assert.Empty(t, result.NearbyAgents)
}

func TestSearch_NoMatchIsEmptySuccess(t *testing.T) {
	upstream := &fakeUpstream{rows: transactionRows()}
	svc := newTestService(t, upstream)

	result, err := svc.Search(context.Background(), "해운대구", false)

	require.NoError(t, err)
	assert.NotNil(t, result.Transactions)
	assert.Empty(t, result.Transactions)
}

func TestSearch_SecondCallWithinTTLHitsCache(t *testing.T) {
	upstream := &fakeUpstream{rows: transactionRows()}
	svc := newTestService(t, upstream)

	first, err := svc.Search(context.Background(), "역삼동", false)
	require.NoError(t, err)
	second, err := svc.Search(context.Background(), "역삼동", false)
	require.NoError(t, err)

	assert.Equal(t, 1, upstream.rangeCalls, "second search must be served from cache")
	assert.Equal(t, first, second)
}

func TestSearch_AgentFlagUsesDistinctCacheKey(t *testing.T) {
	upstream := &fakeUpstream{rows: transactionRows()}
	svc := newTestService(t, upstream)

	_, err := svc.Search(context.Background(), "역삼동", false)
	require.NoError(t, err)
	_, err = svc.Search(context.Background(), "역삼동", true)
	require.NoError(t, err)

	assert.Equal(t, 2, upstream.rangeCalls, "agent searches are cached separately")
	assert.Equal(t, 1, upstream.chunkCalls)
}

func TestSearch_IncludeAgents(t *testing.T) {
	upstream := &fakeUpstream{
		rows: transactionRows(),
		agentRows: []estate.RawRow{
			{
				"TRDSTATEGBN": "01",
				"UPTAENM":     "부동산중개업",
				"BPLCNM":      "우리공인중개사사무소",
				"SITETEL":     "02-555-0101",
				"RDNWHLADDR":  "서울특별시 강남구 역삼동 649-5",
			},
			{
				"TRDSTATEGBN": "03",
				"UPTAENM":     "부동산중개업",
				"BPLCNM":      "폐업한사무소",
				"RDNWHLADDR":  "서울특별시 강남구 역삼동 650",
			},
		},
	}
	svc := newTestService(t, upstream)

	result, err := svc.Search(context.Background(), "역삼동", true)

	require.NoError(t, err)
	require.Len(t, result.NearbyAgents, 1)
	assert.Equal(t, "우리공인중개사사무소", result.NearbyAgents[0].OfficeName)
}

func TestSearch_UpstreamErrorPropagates(t *testing.T) {
	upstream := &fakeUpstream{rangeErr: apperrors.NewUpstreamTimeout("deadline exceeded")}
	svc := newTestService(t, upstream)

	_, err := svc.Search(context.Background(), "역삼동", false)

	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamTimeout), "got %v", err)
}

func TestSearch_AgentFetchErrorAbortsWholeSearch(t *testing.T) {
	upstream := &fakeUpstream{
		rows:     transactionRows(),
		chunkErr: apperrors.NewUpstreamFailed(500, "boom"),
	}
	svc := newTestService(t, upstream)

	result, err := svc.Search(context.Background(), "역삼동", true)

	assert.Nil(t, result, "no partial result on agent failure")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeUpstreamFailed), "got %v", err)

	// And the failed search must not have been cached.
	_, err = svc.Search(context.Background(), "역삼동", true)
	assert.Error(t, err)
	assert.Equal(t, 2, upstream.rangeCalls)
}

// brokenStore fails every operation, standing in for an unreachable redis.
type brokenStore struct{}

func (brokenStore) Get(context.Context, string) (*estate.SearchResult, bool, error) {
	return nil, false, assert.AnError
}
func (brokenStore) Set(context.Context, string, *estate.SearchResult) error {
	return assert.AnError
}

func TestSearch_BrokenCacheDegradesToMiss(t *testing.T) {
	upstream := &fakeUpstream{rows: transactionRows()}
	fixed := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	svc := NewWithClock(upstream, brokenStore{}, 10000, 1000, logger.NewTestLogger(t), func() time.Time { return fixed })

	result, err := svc.Search(context.Background(), "역삼동", false)

	require.NoError(t, err)
	assert.Len(t, result.Transactions, 2)
	assert.Equal(t, 1, upstream.rangeCalls)
}
