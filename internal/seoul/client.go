// internal/seoul/client.go
package seoul

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "seoul-estate-search/internal/common/errors"
	"seoul-estate-search/internal/common/httpclient"
	"seoul-estate-search/internal/common/logger"
	"seoul-estate-search/internal/common/metrics"
	"seoul-estate-search/internal/estate"
)

// Client issues requests against the Seoul open-data API. The API is keyed
// in the URL path: {base}/{apiKey}/json/{dataset}/{start}/{end}/[filters].
type Client struct {
	baseURL     string
	apiKey      string
	http        *httpclient.Client
	logger      logger.Logger
	maxParallel int
}

func NewClient(baseURL, apiKey string, timeout time.Duration, maxParallel int, log logger.Logger) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		apiKey:      apiKey,
		http:        httpclient.NewClient(timeout),
		logger:      log.WithFields(map[string]interface{}{"component": "seoul-client"}),
		maxParallel: maxParallel,
	}
}

// FetchChunk fetches one page of rows. start must be >= 1 and end >= start.
// No retry: a non-2xx response or network failure propagates to the caller.
func (c *Client) FetchChunk(ctx context.Context, dataset string, start, end int, filters ...string) ([]estate.RawRow, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewConfigurationMissing("seoul.api_key")
	}
	if start < 1 || end < start {
		return nil, fmt.Errorf("invalid chunk range [%d, %d]", start, end)
	}

	reqURL := fmt.Sprintf("%s/%s/json/%s/%d/%d",
		c.baseURL, url.PathEscape(c.apiKey), url.PathEscape(dataset), start, end)
	for _, f := range filters {
		reqURL += "/" + url.PathEscape(f)
	}

	began := time.Now()
	rows, err := c.doFetch(ctx, dataset, reqURL)
	metrics.UpstreamDuration.WithLabelValues(dataset).Observe(time.Since(began).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues(dataset, outcomeLabel(err)).Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues(dataset, "ok").Inc()

	c.logger.Debug("chunk fetched", map[string]interface{}{
		"dataset": dataset,
		"start":   start,
		"end":     end,
		"rows":    len(rows),
	})
	return rows, nil
}

func (c *Client) doFetch(ctx context.Context, dataset, reqURL string) ([]estate.RawRow, error) {
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewUpstreamTimeout(err.Error())
		}
		return nil, apperrors.NewUpstreamFailed(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamFailed(resp.StatusCode, fmt.Sprintf("read body: %v", err))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewUpstreamFailed(resp.StatusCode,
			fmt.Sprintf("upstream returned %d for dataset %s", resp.StatusCode, dataset))
	}

	return decodeEnvelope(dataset, body)
}

// FetchRange fetches up to maxRecords rows in chunkSize pages, running the
// chunk requests concurrently with a bounded fan-out. All-or-nothing: the
// first chunk failure cancels the remaining fetches and fails the call.
// Merged order follows chunk index; callers must not rely on row order.
func (c *Client) FetchRange(ctx context.Context, dataset string, maxRecords, chunkSize int, filters ...string) ([]estate.RawRow, error) {
	if chunkSize < 1 || maxRecords < 1 {
		return nil, fmt.Errorf("invalid range: maxRecords=%d chunkSize=%d", maxRecords, chunkSize)
	}

	numChunks := (maxRecords + chunkSize - 1) / chunkSize
	chunks := make([][]estate.RawRow, numChunks)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.maxParallel)
	for i := 0; i < numChunks; i++ {
		i := i
		g.Go(func() error {
			start := i*chunkSize + 1
			end := (i + 1) * chunkSize
			if end > maxRecords {
				end = maxRecords
			}
			rows, err := c.FetchChunk(gctx, dataset, start, end, filters...)
			if err != nil {
				return err
			}
			chunks[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := []estate.RawRow{}
	for _, rows := range chunks {
		merged = append(merged, rows...)
	}
	return merged, nil
}

// Passthrough proxies an arbitrary dataset path to the upstream API and
// returns the raw response body.
func (c *Client) Passthrough(ctx context.Context, apiPath, rawQuery string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, apperrors.NewConfigurationMissing("seoul.api_key")
	}

	reqURL := c.baseURL + "/" + url.PathEscape(c.apiKey) + "/" + apiPath
	if rawQuery != "" {
		reqURL += "?" + rawQuery
	}

	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.DoWithContext(ctx, req)
	if err != nil {
		if isTimeout(err) {
			return nil, apperrors.NewUpstreamTimeout(err.Error())
		}
		return nil, apperrors.NewUpstreamFailed(0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewUpstreamFailed(resp.StatusCode, fmt.Sprintf("read body: %v", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apperrors.NewUpstreamFailed(resp.StatusCode,
			fmt.Sprintf("upstream returned %d for path %s", resp.StatusCode, apiPath))
	}
	return body, nil
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}

func outcomeLabel(err error) string {
	if apperrors.IsCode(err, apperrors.ErrCodeUpstreamTimeout) {
		return "timeout"
	}
	if apperrors.IsCode(err, apperrors.ErrCodeDataShapeInvalid) {
		return "shape"
	}
	return "error"
}
