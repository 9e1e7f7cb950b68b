package jokedex

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	dbRedis "github.com/kailas-cloud/jokedex/internal/db/redis"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	datasetrepo "github.com/kailas-cloud/jokedex/internal/repository/dataset"
	generateuc "github.com/kailas-cloud/jokedex/internal/usecase/generate"
	healthuc "github.com/kailas-cloud/jokedex/internal/usecase/health"
	queryuc "github.com/kailas-cloud/jokedex/internal/usecase/query"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultLockTimeout      = 5 * time.Second
	defaultKeyPrefix        = "jokedex:"
)

// DefaultTopN is the number of jokes Top returns when callers have no preference.
const DefaultTopN = queryuc.DefaultTopN

// Internal interfaces for substitution in tests.
type queryUseCase interface {
	Search(ctx context.Context, keyword string, datasets []string) (map[string][]joke.Joke, error)
	SearchWithMinScore(ctx context.Context, keyword string, minScore int, datasets []string) (map[string][]joke.Joke, error)
	Random(ctx context.Context, dataset string) (joke.Joke, error)
	Top(ctx context.Context, dataset string, n int) ([]joke.Joke, error)
	CountByDataset(ctx context.Context) map[string]int
	AllSortedByScore(ctx context.Context, descending bool) ([]joke.Joke, error)
}

type generatorUseCase interface {
	Names() []string
	Generate(ctx context.Context, name string) (joke.Joke, error)
}

// Client is the jokedex SDK entry point. It is safe for concurrent use.
type Client struct {
	closers   []func()
	datasets  []string
	querySvc  queryUseCase
	genSvc    generatorUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New creates a Client and loads every dataset from the configured source.
// The provided context bounds the connection and the initial load.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		lockTimeout: defaultLockTimeout,
		keyPrefix:   defaultKeyPrefix,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.driver == "" {
		return nil, errors.New("jokedex: dataset source required (use WithDirectory, WithRedis, WithValkey or WithSQLite)")
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	src, pinger, err := c.openSource(ctx, cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	store, err := datasetrepo.Load(ctx, src)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("jokedex: %w", err)
	}

	registry := generateuc.NewRegistry()
	for _, g := range cfg.generators {
		if err := registry.Register(&generatorAdapter{inner: g}); err != nil {
			c.Close()
			return nil, fmt.Errorf("jokedex: %w", err)
		}
	}

	c.datasets = store.Names()
	c.querySvc = queryuc.New(store)
	c.genSvc = registry
	c.healthSvc = healthuc.New(store, pinger, registry)
	return c, nil
}

func (c *Client) openSource(
	ctx context.Context, cfg *clientConfig,
) (datasetrepo.Source, healthuc.DBPinger, error) {
	switch cfg.driver {
	case "file":
		return datasetrepo.NewFileSource(cfg.dir, cfg.lockTimeout), nil, nil
	case "redis", "valkey":
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.addrs,
			Password: cfg.password,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("jokedex: create %s store: %w", cfg.driver, err)
		}
		c.closers = append(c.closers, s.Close)
		if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
			return nil, nil, fmt.Errorf("jokedex: database not ready: %w", err)
		}
		return datasetrepo.NewRedisSource(s, cfg.keyPrefix), s, nil
	case "sqlite":
		conn, err := datasetrepo.OpenSQLite(cfg.dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("jokedex: %w", err)
		}
		c.closers = append(c.closers, func() { _ = conn.Close() })
		return datasetrepo.NewSQLSource(conn), nil, nil
	default:
		return nil, nil, fmt.Errorf("jokedex: unknown driver %q", cfg.driver)
	}
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Datasets returns the loaded dataset names in load order.
func (c *Client) Datasets() []string {
	return slices.Clone(c.datasets)
}

// SearchOption narrows a search.
type SearchOption func(*searchConfig)

type searchConfig struct {
	datasets []string
}

// InDatasets restricts a search to the named datasets. Unknown names are ignored.
func InDatasets(names ...string) SearchOption {
	return func(c *searchConfig) {
		c.datasets = append([]string{}, names...)
	}
}

func searchDatasets(opts []SearchOption) []string {
	cfg := &searchConfig{}
	for _, o := range opts {
		o(cfg)
	}
	return cfg.datasets
}

// Search returns, per dataset, the jokes whose body contains keyword, ignoring case.
// Datasets without matches are absent from the result.
func (c *Client) Search(
	ctx context.Context, keyword string, opts ...SearchOption,
) (_ map[string][]Joke, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err) }()

	res, err := c.querySvc.Search(ctx, keyword, searchDatasets(opts))
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return fromInternalGroups(res), nil
}

// SearchWithMinScore is Search keeping only jokes scored at least minScore.
func (c *Client) SearchWithMinScore(
	ctx context.Context, keyword string, minScore int, opts ...SearchOption,
) (_ map[string][]Joke, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search_min_score", start, err) }()

	res, err := c.querySvc.SearchWithMinScore(ctx, keyword, minScore, searchDatasets(opts))
	if err != nil {
		return nil, fmt.Errorf("search with min score: %w", err)
	}
	return fromInternalGroups(res), nil
}

// Random returns a random joke from a dataset.
func (c *Client) Random(ctx context.Context, dataset string) (_ Joke, err error) {
	start := time.Now()
	defer func() { c.obs.observe("random", start, err) }()

	j, err := c.querySvc.Random(ctx, dataset)
	if err != nil {
		return Joke{}, fmt.Errorf("random joke: %w", err)
	}
	return fromInternalJoke(&j), nil
}

// Top returns the n highest-scored jokes of a dataset.
func (c *Client) Top(ctx context.Context, dataset string, n int) (_ []Joke, err error) {
	start := time.Now()
	defer func() { c.obs.observe("top", start, err) }()

	jokes, err := c.querySvc.Top(ctx, dataset, n)
	if err != nil {
		return nil, fmt.Errorf("top jokes: %w", err)
	}
	return fromInternalJokes(jokes), nil
}

// Counts returns the number of jokes in every dataset.
func (c *Client) Counts(ctx context.Context) map[string]int {
	start := time.Now()
	defer c.obs.observe("counts", start, nil)

	return c.querySvc.CountByDataset(ctx)
}

// AllSortedByScore returns every joke ordered by score.
func (c *Client) AllSortedByScore(ctx context.Context, descending bool) (_ []Joke, err error) {
	start := time.Now()
	defer func() { c.obs.observe("sorted", start, err) }()

	jokes, err := c.querySvc.AllSortedByScore(ctx, descending)
	if err != nil {
		return nil, fmt.Errorf("sort jokes: %w", err)
	}
	return fromInternalJokes(jokes), nil
}

// Generators returns the registered generator names, sorted.
func (c *Client) Generators() []string {
	return c.genSvc.Names()
}

// Generate produces a joke with the named generator.
func (c *Client) Generate(ctx context.Context, generator string) (_ Joke, err error) {
	start := time.Now()
	defer func() { c.obs.observe("generate", start, err) }()

	j, err := c.genSvc.Generate(ctx, generator)
	if err != nil {
		return Joke{}, fmt.Errorf("generate joke: %w", err)
	}
	return fromInternalJoke(&j), nil
}
