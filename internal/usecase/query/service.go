package query

import (
	"cmp"
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"go.uber.org/zap"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	"github.com/kailas-cloud/jokedex/internal/domain/search/match"
	"github.com/kailas-cloud/jokedex/internal/logger"
	"github.com/kailas-cloud/jokedex/internal/metrics"
)

// DefaultTopN is the number of jokes returned by Top when the caller does not choose.
const DefaultTopN = 10

// Operation names used for logging and metrics.
const (
	OpSearch         = "search"
	OpSearchMinScore = "search_min_score"
	OpRandom         = "random"
	OpTop            = "top"
	OpCount          = "count"
	OpSorted         = "sorted"
)

// Service answers read-only queries over the loaded datasets.
// Every call reads the store afresh; nothing is cached between calls.
type Service struct {
	store DatasetReader
	intn  func(n int) int
}

// New creates a query service.
func New(store DatasetReader) *Service {
	return &Service{store: store, intn: rand.IntN}
}

// WithRand replaces the random source used by Random. The returned service
// is only as concurrency-safe as r; intended for deterministic tests.
func (s *Service) WithRand(r *rand.Rand) *Service {
	s.intn = r.IntN
	return s
}

// Search returns, per dataset, the jokes whose body contains keyword (case-insensitive).
// A nil datasets slice searches every dataset. Unknown dataset names are skipped and
// datasets without matches are omitted. Matches keep their original order.
func (s *Service) Search(
	ctx context.Context, keyword string, datasets []string,
) (map[string][]joke.Joke, error) {
	res, err := s.search(ctx, keyword, datasets, nil)
	metrics.ObserveQuery(OpSearch, countMatches(res), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

// SearchWithMinScore is Search restricted to jokes with score >= minScore.
func (s *Service) SearchWithMinScore(
	ctx context.Context, keyword string, minScore int, datasets []string,
) (map[string][]joke.Joke, error) {
	res, err := s.search(ctx, keyword, datasets, func(j *joke.Joke) (bool, error) {
		score, err := j.RequireScore()
		if err != nil {
			return false, err
		}
		return score >= minScore, nil
	})
	metrics.ObserveQuery(OpSearchMinScore, countMatches(res), err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) search(
	ctx context.Context, keyword string, datasets []string,
	keep func(j *joke.Joke) (bool, error),
) (map[string][]joke.Joke, error) {
	kw, err := match.NewKeyword(keyword)
	if err != nil {
		return nil, err
	}

	if datasets == nil {
		datasets = s.store.Names()
	}

	result := make(map[string][]joke.Joke)
	for _, name := range datasets {
		jokes, ok := s.store.Jokes(name)
		if !ok {
			logger.FromContext(ctx).Debug("skipping unknown dataset", zap.String("dataset", name))
			continue
		}

		var matched []joke.Joke
		for i := range jokes {
			j := &jokes[i]
			if !kw.Matches(j.Body()) {
				continue
			}
			if keep != nil {
				ok, err := keep(j)
				if err != nil {
					return nil, fmt.Errorf("dataset %s: %w", name, err)
				}
				if !ok {
					continue
				}
			}
			matched = append(matched, *j)
		}
		if len(matched) > 0 {
			result[name] = matched
		}
	}

	logger.FromContext(ctx).Debug("search complete",
		zap.String("keyword", kw.String()),
		zap.Int("datasets", len(result)),
	)
	return result, nil
}

// Random returns a uniformly chosen joke from the named dataset.
func (s *Service) Random(ctx context.Context, dataset string) (joke.Joke, error) {
	j, err := s.random(dataset)
	metrics.ObserveQuery(OpRandom, 1, err)
	if err != nil {
		return joke.Joke{}, err
	}
	logger.FromContext(ctx).Debug("random joke", zap.String("dataset", dataset), zap.String("id", j.ID()))
	return j, nil
}

func (s *Service) random(dataset string) (joke.Joke, error) {
	jokes, ok := s.store.Jokes(dataset)
	if !ok {
		return joke.Joke{}, domain.NewDatasetNotFound(dataset)
	}
	if len(jokes) == 0 {
		return joke.Joke{}, fmt.Errorf("random from %s: %w", dataset, domain.ErrEmptyDataset)
	}
	return jokes[s.intn(len(jokes))], nil
}

// Top returns the n highest-scored jokes of a dataset, highest first.
// Equal scores keep their dataset order. n larger than the dataset returns all of it.
func (s *Service) Top(ctx context.Context, dataset string, n int) ([]joke.Joke, error) {
	out, err := s.top(dataset, n)
	metrics.ObserveQuery(OpTop, len(out), err)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("top jokes",
		zap.String("dataset", dataset), zap.Int("n", n), zap.Int("returned", len(out)))
	return out, nil
}

func (s *Service) top(dataset string, n int) ([]joke.Joke, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: n must be non-negative, got %d", domain.ErrInvalidArgument, n)
	}
	jokes, ok := s.store.Jokes(dataset)
	if !ok {
		return nil, domain.NewDatasetNotFound(dataset)
	}

	sorted, err := sortByScore(jokes, true)
	if err != nil {
		return nil, fmt.Errorf("dataset %s: %w", dataset, err)
	}
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted, nil
}

// CountByDataset returns the number of jokes of every dataset, empty ones included.
func (s *Service) CountByDataset(ctx context.Context) map[string]int {
	names := s.store.Names()
	counts := make(map[string]int, len(names))
	for _, name := range names {
		jokes, _ := s.store.Jokes(name)
		counts[name] = len(jokes)
	}
	metrics.ObserveQuery(OpCount, len(counts), nil)
	logger.FromContext(ctx).Debug("counted datasets", zap.Int("datasets", len(counts)))
	return counts
}

// AllSortedByScore returns every joke of every dataset sorted by score.
// Datasets are concatenated in store order before a stable sort.
func (s *Service) AllSortedByScore(ctx context.Context, descending bool) ([]joke.Joke, error) {
	var all []joke.Joke
	for _, name := range s.store.Names() {
		jokes, _ := s.store.Jokes(name)
		all = append(all, jokes...)
	}

	sorted, err := sortByScore(all, descending)
	metrics.ObserveQuery(OpSorted, len(sorted), err)
	if err != nil {
		return nil, err
	}
	logger.FromContext(ctx).Debug("sorted all jokes",
		zap.Bool("descending", descending), zap.Int("total", len(sorted)))
	return sorted, nil
}

// sortByScore returns a stably sorted copy. Any unscored joke fails the whole sort.
func sortByScore(jokes []joke.Joke, descending bool) ([]joke.Joke, error) {
	for i := range jokes {
		if _, err := jokes[i].RequireScore(); err != nil {
			return nil, err
		}
	}

	out := make([]joke.Joke, len(jokes))
	copy(out, jokes)
	slices.SortStableFunc(out, func(a, b joke.Joke) int {
		sa, _ := a.Score()
		sb, _ := b.Score()
		if descending {
			return cmp.Compare(sb, sa)
		}
		return cmp.Compare(sa, sb)
	})
	return out, nil
}

func countMatches(res map[string][]joke.Joke) int {
	n := 0
	for _, jokes := range res {
		n += len(jokes)
	}
	return n
}
