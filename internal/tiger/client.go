package tiger

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/NREL/bamcensus/internal/geoid"
	"github.com/NREL/bamcensus/internal/retry"
)

// Client fetches TIGER/Line geometries for batches of identifiers.
type Client interface {
	// FetchGeometries resolves the minimal resource set covering the
	// identifiers, downloads each file, and decodes the geometries for
	// exactly the requested identifiers. Per-resource failures land in
	// the result's error set without aborting the batch.
	FetchGeometries(ctx context.Context, year uint64, geoids []geoid.Geoid) Result
}

// Result partitions a geometry fetch into decoded rows and per-resource
// failures.
type Result struct {
	Rows   []GeometryRow
	Errors []error
}

// Option configures the TIGER client.
type Option func(*client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL points the client at a non-default file tree root.
func WithBaseURL(base string) Option {
	return func(c *client) {
		c.baseURL = base
	}
}

// WithCacheDir sets where downloaded ZIPs and extracted shapefiles live.
func WithCacheDir(dir string) Option {
	return func(c *client) {
		c.cacheDir = dir
	}
}

// WithRateLimit sets the requests-per-second limit for downloads.
func WithRateLimit(rps float64) Option {
	return func(c *client) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps))
	}
}

// WithConcurrency caps the number of files fetched at once.
func WithConcurrency(n int) Option {
	return func(c *client) {
		c.concurrency = n
	}
}

// WithRetry overrides the retry policy for downloads.
func WithRetry(cfg retry.Config) Option {
	return func(c *client) {
		c.retry = cfg
	}
}

type client struct {
	httpClient  *http.Client
	baseURL     string
	cacheDir    string
	limiter     *rate.Limiter
	concurrency int
	retry       retry.Config
	log         *zap.Logger
}

// NewClient creates a new TIGER Client with the given options.
func NewClient(opts ...Option) Client {
	rc := retry.DefaultConfig()
	rc.OnRetry = retry.Logger("tiger", "download")
	c := &client{
		httpClient:  defaultHTTPClient(),
		baseURL:     DefaultBaseURL,
		cacheDir:    "tiger-cache",
		limiter:     rate.NewLimiter(4, 4),
		concurrency: 4,
		retry:       rc,
		log:         zap.L().With(zap.String("component", "tiger")),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FetchGeometries resolves, downloads, and decodes geometry for a batch.
func (c *client) FetchGeometries(ctx context.Context, year uint64, geoids []geoid.Geoid) Result {
	builder, err := NewBuilderWithBase(year, c.baseURL)
	if err != nil {
		return Result{Errors: []error{err}}
	}
	resources, err := builder.Resources(geoids)
	if err != nil {
		return Result{Errors: []error{err}}
	}

	wanted := make(map[geoid.Geoid]bool, len(geoids))
	for _, g := range geoids {
		wanted[g] = true
	}

	var mu sync.Mutex
	var result Result
	var done atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for _, res := range resources {
		g.Go(func() error {
			rows, err := c.fetchResource(ctx, res)
			c.log.Debug("resource complete",
				zap.Int64("done", done.Add(1)),
				zap.Int("total", len(resources)))
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				result.Errors = append(result.Errors, err)
				return nil // don't abort batch on individual failure
			}
			for _, row := range rows {
				if wanted[row.Geoid] {
					result.Rows = append(result.Rows, row)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	c.log.Info("tiger fetch complete",
		zap.Uint64("year", year),
		zap.Int("resources", len(resources)),
		zap.Int("rows", len(result.Rows)),
		zap.Int("errors", len(result.Errors)))
	return result
}

// fetchResource downloads one file and decodes all of its rows.
func (c *client) fetchResource(ctx context.Context, res Resource) ([]GeometryRow, error) {
	shpPath, err := c.download(ctx, res.URI)
	if err != nil {
		return nil, err
	}
	return ReadShapefile(shpPath, res.GeoidType)
}
