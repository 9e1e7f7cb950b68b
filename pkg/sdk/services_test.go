package jokedex

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
	healthuc "github.com/kailas-cloud/jokedex/internal/usecase/health"
)

func TestClient_Search_AllDatasets(t *testing.T) {
	mock := &mockQueryUC{
		searchFn: func(_ context.Context, keyword string, datasets []string) (map[string][]joke.Joke, error) {
			if keyword != "chicken" {
				t.Errorf("keyword = %q", keyword)
			}
			if datasets != nil {
				t.Errorf("datasets = %v, want nil", datasets)
			}
			return map[string][]joke.Joke{
				"reddit_jokes": {joke.New("1", "t", "chicken", 5)},
			}, nil
		},
	}

	res, err := testClient(mock, nil).Search(context.Background(), "chicken")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	hits := res["reddit_jokes"]
	if len(hits) != 1 || hits[0].ID != "1" || hits[0].Score == nil || *hits[0].Score != 5 {
		t.Errorf("hits = %+v", hits)
	}
}

func TestClient_Search_InDatasets(t *testing.T) {
	mock := &mockQueryUC{
		searchFn: func(_ context.Context, _ string, datasets []string) (map[string][]joke.Joke, error) {
			if len(datasets) != 1 || datasets[0] != "wocka" {
				t.Errorf("datasets = %v", datasets)
			}
			return map[string][]joke.Joke{}, nil
		},
	}

	if _, err := testClient(mock, nil).Search(context.Background(), "x", InDatasets("wocka")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Search_NoDatasets(t *testing.T) {
	mock := &mockQueryUC{
		searchFn: func(_ context.Context, _ string, datasets []string) (map[string][]joke.Joke, error) {
			if datasets == nil || len(datasets) != 0 {
				t.Errorf("datasets = %#v, want empty non-nil", datasets)
			}
			return map[string][]joke.Joke{}, nil
		},
	}

	if _, err := testClient(mock, nil).Search(context.Background(), "x", InDatasets()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_Search_Error(t *testing.T) {
	mock := &mockQueryUC{
		searchFn: func(context.Context, string, []string) (map[string][]joke.Joke, error) {
			return nil, domain.ErrInvalidArgument
		},
	}

	_, err := testClient(mock, nil).Search(context.Background(), "")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestClient_SearchWithMinScore(t *testing.T) {
	mock := &mockQueryUC{
		minScoreFn: func(_ context.Context, _ string, minScore int, _ []string) (map[string][]joke.Joke, error) {
			if minScore != 10 {
				t.Errorf("minScore = %d", minScore)
			}
			return nil, domain.ErrMissingScore
		},
	}

	_, err := testClient(mock, nil).SearchWithMinScore(context.Background(), "x", 10)
	if !errors.Is(err, ErrMissingScore) {
		t.Fatalf("expected ErrMissingScore, got %v", err)
	}
}

func TestClient_Random(t *testing.T) {
	mock := &mockQueryUC{
		randomFn: func(_ context.Context, dataset string) (joke.Joke, error) {
			if dataset == "empty" {
				return joke.Joke{}, domain.ErrEmptyDataset
			}
			return joke.NewUnscored("w1", "", "dog"), nil
		},
	}
	c := testClient(mock, nil)

	j, err := c.Random(context.Background(), "wocka")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID != "w1" || j.Score != nil {
		t.Errorf("joke = %+v", j)
	}

	_, err = c.Random(context.Background(), "empty")
	if !errors.Is(err, ErrInvalidArgument) || !errors.Is(err, ErrEmptyDataset) {
		t.Errorf("expected ErrEmptyDataset, got %v", err)
	}
}

func TestClient_Top(t *testing.T) {
	mock := &mockQueryUC{
		topFn: func(_ context.Context, dataset string, n int) ([]joke.Joke, error) {
			if dataset != "reddit_jokes" || n != 2 {
				t.Errorf("dataset = %q, n = %d", dataset, n)
			}
			return []joke.Joke{joke.New("a", "", "x", 9), joke.New("b", "", "y", 3)}, nil
		},
	}

	jokes, err := testClient(mock, nil).Top(context.Background(), "reddit_jokes", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jokes) != 2 || jokes[0].ID != "a" {
		t.Errorf("jokes = %+v", jokes)
	}
}

func TestClient_Top_NotFound(t *testing.T) {
	mock := &mockQueryUC{
		topFn: func(_ context.Context, dataset string, _ int) ([]joke.Joke, error) {
			return nil, domain.NewDatasetNotFound(dataset)
		},
	}

	_, err := testClient(mock, nil).Top(context.Background(), "nope", 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClient_Counts(t *testing.T) {
	mock := &mockQueryUC{
		countsFn: func(context.Context) map[string]int {
			return map[string]int{"a": 2, "b": 0}
		},
	}

	counts := testClient(mock, nil).Counts(context.Background())
	if counts["a"] != 2 || len(counts) != 2 {
		t.Errorf("counts = %v", counts)
	}
}

func TestClient_AllSortedByScore(t *testing.T) {
	mock := &mockQueryUC{
		sortedFn: func(_ context.Context, descending bool) ([]joke.Joke, error) {
			if descending {
				t.Error("expected ascending")
			}
			return []joke.Joke{joke.New("a", "", "x", 1)}, nil
		},
	}

	jokes, err := testClient(mock, nil).AllSortedByScore(context.Background(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(jokes) != 1 {
		t.Errorf("jokes = %+v", jokes)
	}
}

func TestClient_Generate(t *testing.T) {
	gen := &mockGeneratorUC{
		names: []string{"sample"},
		generateFn: func(_ context.Context, name string) (joke.Joke, error) {
			if name != "sample" {
				return joke.Joke{}, domain.ErrNotFound
			}
			return joke.New("g1", "", "generated", 1), nil
		},
	}
	c := testClient(nil, gen)

	if names := c.Generators(); len(names) != 1 || names[0] != "sample" {
		t.Errorf("Generators() = %v", names)
	}

	j, err := c.Generate(context.Background(), "sample")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if j.ID != "g1" {
		t.Errorf("joke = %+v", j)
	}

	if _, err := c.Generate(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

type stubHealth struct {
	report healthuc.Report
}

func (s stubHealth) Check(context.Context) healthuc.Report { return s.report }

func TestClient_Health(t *testing.T) {
	c := &Client{healthSvc: stubHealth{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			"datasets":         healthuc.CheckOK,
			"generator:openai": healthuc.CheckError,
			"database":         healthuc.CheckError,
		},
	}}}

	h := c.Health(context.Background())
	if h.OK() {
		t.Error("degraded status reported OK")
	}
	failed := h.Failed()
	if len(failed) != 2 || failed[0] != "database" || failed[1] != "generator:openai" {
		t.Errorf("Failed() = %v", failed)
	}
}
