package jokedex

import (
	"context"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// --- queryUseCase mock ---

type mockQueryUC struct {
	searchFn   func(ctx context.Context, keyword string, datasets []string) (map[string][]joke.Joke, error)
	minScoreFn func(ctx context.Context, keyword string, minScore int, datasets []string) (map[string][]joke.Joke, error)
	randomFn   func(ctx context.Context, dataset string) (joke.Joke, error)
	topFn      func(ctx context.Context, dataset string, n int) ([]joke.Joke, error)
	countsFn   func(ctx context.Context) map[string]int
	sortedFn   func(ctx context.Context, descending bool) ([]joke.Joke, error)
}

func (m *mockQueryUC) Search(
	ctx context.Context, keyword string, datasets []string,
) (map[string][]joke.Joke, error) {
	return m.searchFn(ctx, keyword, datasets)
}

func (m *mockQueryUC) SearchWithMinScore(
	ctx context.Context, keyword string, minScore int, datasets []string,
) (map[string][]joke.Joke, error) {
	return m.minScoreFn(ctx, keyword, minScore, datasets)
}

func (m *mockQueryUC) Random(ctx context.Context, dataset string) (joke.Joke, error) {
	return m.randomFn(ctx, dataset)
}

func (m *mockQueryUC) Top(ctx context.Context, dataset string, n int) ([]joke.Joke, error) {
	return m.topFn(ctx, dataset, n)
}

func (m *mockQueryUC) CountByDataset(ctx context.Context) map[string]int {
	return m.countsFn(ctx)
}

func (m *mockQueryUC) AllSortedByScore(ctx context.Context, descending bool) ([]joke.Joke, error) {
	return m.sortedFn(ctx, descending)
}

// --- generatorUseCase mock ---

type mockGeneratorUC struct {
	names      []string
	generateFn func(ctx context.Context, name string) (joke.Joke, error)
}

func (m *mockGeneratorUC) Names() []string { return m.names }

func (m *mockGeneratorUC) Generate(ctx context.Context, name string) (joke.Joke, error) {
	return m.generateFn(ctx, name)
}

// --- public Generator stub ---

type stubGenerator struct {
	name string
	fn   func(ctx context.Context) (Joke, error)
}

func (g *stubGenerator) Name() string { return g.name }

func (g *stubGenerator) Generate(ctx context.Context) (Joke, error) {
	return g.fn(ctx)
}

// --- helpers ---

func testClient(querySvc queryUseCase, genSvc generatorUseCase) *Client {
	return &Client{
		querySvc: querySvc,
		genSvc:   genSvc,
	}
}

func intPtr(v int) *int { return &v }
