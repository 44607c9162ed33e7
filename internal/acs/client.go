package acs

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NREL/bamcensus/internal/retry"
)

// Client fetches ACS data rows for compiled queries.
type Client interface {
	// Fetch runs a single query and decodes its rows.
	Fetch(ctx context.Context, params QueryParams) ([]Row, error)

	// FetchBatch runs many queries concurrently. Individual failures do not
	// abort the batch; each query lands in either the row set or the error
	// set of the result.
	FetchBatch(ctx context.Context, params []QueryParams) BatchResult
}

// BatchResult partitions a batch fetch into decoded rows and per-query
// failures.
type BatchResult struct {
	Rows   []Row
	Errors []error
}

// Option configures the ACS client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithRateLimit sets the requests-per-second limit for API calls.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithConcurrency caps the number of in-flight batch requests.
func WithConcurrency(n int) Option {
	return func(c *client) {
		c.concurrency = n
	}
}

// WithRetry overrides the retry policy for API calls.
func WithRetry(cfg retry.Config) Option {
	return func(c *client) {
		c.retry = cfg
	}
}

type client struct {
	httpClient  *http.Client
	limiter     *rate.Limiter
	concurrency int
	retry       retry.Config
	log         *zap.Logger
}

// NewClient creates a new ACS Client with the given options.
func NewClient(opts ...Option) Client {
	rc := retry.DefaultConfig()
	rc.OnRetry = retry.Logger("acs", "fetch")
	c := &client{
		httpClient:  &http.Client{Timeout: 60 * time.Second},
		limiter:     rate.NewLimiter(10, 10),
		concurrency: 8,
		retry:       rc,
		log:         zap.L().With(zap.String("component", "acs")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch runs a single query and decodes its rows. Transient API failures
// retry with backoff before giving up.
func (c *client) Fetch(ctx context.Context, params QueryParams) ([]Row, error) {
	c.log.Debug("fetching acs data",
		zap.Uint64("year", params.Year),
		zap.String("dataset", params.Dataset.String()),
		zap.Strings("get", params.Get))

	reqURL := params.URL()
	table, err := retry.DoVal(ctx, c.retry, func(ctx context.Context) ([][]string, error) {
		return c.getTable(ctx, reqURL, params.Query.QueryKey())
	})
	if err != nil {
		return nil, err
	}

	return DecodeResponse(params, table)
}

// getTable performs one rate-limited request for the nested-array body.
func (c *client) getTable(ctx context.Context, reqURL, queryKey string) ([][]string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "acs: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "acs: build request")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "acs: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		statusErr := eris.Errorf("acs: api returned status %d for %s", resp.StatusCode, queryKey)
		if retry.RetryableStatus(resp.StatusCode) {
			return nil, retry.MarkTransient(statusErr, resp.StatusCode)
		}
		return nil, statusErr
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "acs: read body")
	}

	var table [][]string
	if err := json.Unmarshal(body, &table); err != nil {
		return nil, eris.Wrap(err, "acs: parse response")
	}
	return table, nil
}

// FetchBatch runs many queries concurrently.
func (c *client) FetchBatch(ctx context.Context, params []QueryParams) BatchResult {
	var mu sync.Mutex
	var result BatchResult
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, p := range params {
		g.Go(func() error {
			rows, err := c.Fetch(ctx, p)
			c.log.Debug("query complete",
				zap.Int64("done", done.Add(1)),
				zap.Int("total", len(params)))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return nil // don't abort batch on individual failure
			}
			result.Rows = append(result.Rows, rows...)
			return nil
		})
	}
	_ = g.Wait()

	c.log.Info("acs batch complete",
		zap.Int("queries", len(params)),
		zap.Int("rows", len(result.Rows)),
		zap.Int("errors", len(result.Errors)))
	return result
}
