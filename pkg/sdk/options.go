package jokedex

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	driver string // "file", "redis", "valkey" or "sqlite"

	dir         string
	lockTimeout time.Duration

	addrs     []string
	password  string
	keyPrefix string

	dsn string

	generators []Generator

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDirectory loads datasets from a directory of .json, .jsonl or .yaml files.
func WithDirectory(dir string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "file"
		c.dir = dir
	})
}

// WithLockTimeout bounds the wait for a writer holding the dataset directory lock.
// Default: 5s.
func WithLockTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.lockTimeout = d
	})
}

// WithValkey loads datasets from a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis loads datasets from a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithKeyPrefix sets the Redis/Valkey key prefix. Default: "jokedex:".
func WithKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.keyPrefix = prefix
	})
}

// WithSQLite loads datasets from the jokes table of a SQLite database.
func WithSQLite(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "sqlite"
		c.dsn = dsn
	})
}

// WithGenerator registers a joke generator. Names must be unique.
func WithGenerator(g Generator) Option {
	return optionFunc(func(c *clientConfig) {
		c.generators = append(c.generators, g)
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
