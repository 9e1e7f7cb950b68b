package dataset

import (
	"context"
	"fmt"
	"slices"

	domds "github.com/kailas-cloud/jokedex/internal/domain/dataset"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// listStore is the consumer interface for list-backed datasets (ISP).
type listStore interface {
	LRange(ctx context.Context, key string) ([]string, error)
	LRangeMulti(ctx context.Context, keys []string) ([][]string, error)
	RPush(ctx context.Context, key string, values ...string) error
	Del(ctx context.Context, key string) error
}

// RedisSource reads datasets vendored into Redis/Valkey lists:
// <prefix>datasets holds the ordered dataset names and <prefix>dataset:<name>
// holds the JSON-encoded records of each dataset.
type RedisSource struct {
	store  listStore
	prefix string
}

// NewRedisSource creates a list-backed source.
func NewRedisSource(s listStore, prefix string) *RedisSource {
	return &RedisSource{store: s, prefix: prefix}
}

func (s *RedisSource) namesKey() string { return s.prefix + "datasets" }

func (s *RedisSource) datasetKey(name string) string { return s.prefix + "dataset:" + name }

// Read fetches the dataset index, then every dataset list in one round-trip.
func (s *RedisSource) Read(ctx context.Context) ([]domds.Dataset, error) {
	names, err := s.store.LRange(ctx, s.namesKey())
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	if len(names) == 0 {
		return []domds.Dataset{}, nil
	}

	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = s.datasetKey(name)
	}

	lists, err := s.store.LRangeMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read datasets: %w", err)
	}
	if len(lists) != len(names) {
		return nil, fmt.Errorf("read datasets: expected %d lists, got %d", len(names), len(lists))
	}

	sets := make([]domds.Dataset, 0, len(names))
	for i, name := range names {
		jokes := make([]joke.Joke, 0, len(lists[i]))
		for pos, raw := range lists[i] {
			j, err := decodeJSONJoke([]byte(raw))
			if err != nil {
				return nil, fmt.Errorf("dataset %s record %d: %w", name, pos, err)
			}
			jokes = append(jokes, j)
		}
		d, err := domds.New(name, jokes)
		if err != nil {
			return nil, fmt.Errorf("dataset %s: %w", name, err)
		}
		sets = append(sets, d)
	}
	return sets, nil
}

// Write stores a dataset in the layout Read expects, replacing any previous
// copy of it. Used by the vendoring command; the query path never writes.
func (s *RedisSource) Write(ctx context.Context, d *domds.Dataset) error {
	values := make([]string, 0, d.Len())
	jokes := d.Jokes()
	for i := range jokes {
		data, err := EncodeJoke(&jokes[i])
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}

	names, err := s.store.LRange(ctx, s.namesKey())
	if err != nil {
		return fmt.Errorf("list datasets: %w", err)
	}
	registered := slices.Contains(names, d.Name())

	key := s.datasetKey(d.Name())
	if err := s.store.Del(ctx, key); err != nil {
		return fmt.Errorf("clear dataset %s: %w", d.Name(), err)
	}
	if err := s.store.RPush(ctx, key, values...); err != nil {
		return fmt.Errorf("write dataset %s: %w", d.Name(), err)
	}
	if registered {
		return nil
	}
	if err := s.store.RPush(ctx, s.namesKey(), d.Name()); err != nil {
		return fmt.Errorf("register dataset %s: %w", d.Name(), err)
	}
	return nil
}
