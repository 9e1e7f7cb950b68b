package db

import (
	"context"
	"time"
)

// Store is the key-value backend datasets can be vendored into.
type Store interface {
	Pinger
	ListStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ListStore provides ordered list reads and the writes vendoring needs.
type ListStore interface {
	// LRange returns every element of the list at key, in list order.
	// A missing key yields an empty slice.
	LRange(ctx context.Context, key string) ([]string, error)
	// LRangeMulti reads several lists in a single round-trip, results align with keys.
	LRangeMulti(ctx context.Context, keys []string) ([][]string, error)
	// RPush appends values to the list at key.
	RPush(ctx context.Context, key string, values ...string) error
	// Del removes key. A missing key is not an error.
	Del(ctx context.Context, key string) error
}
