package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	domds "github.com/kailas-cloud/jokedex/internal/domain/dataset"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// mockListStore implements listStore over in-memory lists.
type mockListStore struct {
	lists      map[string][]string
	lrangeErr  error
	multiErr   error
	rpushErr   error
	multiCalls int
}

func (m *mockListStore) Del(_ context.Context, key string) error {
	delete(m.lists, key)
	return nil
}

func newMockListStore() *mockListStore {
	return &mockListStore{lists: make(map[string][]string)}
}

func (m *mockListStore) LRange(_ context.Context, key string) ([]string, error) {
	if m.lrangeErr != nil {
		return nil, m.lrangeErr
	}
	return append([]string{}, m.lists[key]...), nil
}

func (m *mockListStore) LRangeMulti(_ context.Context, keys []string) ([][]string, error) {
	m.multiCalls++
	if m.multiErr != nil {
		return nil, m.multiErr
	}
	out := make([][]string, len(keys))
	for i, k := range keys {
		out[i] = append([]string{}, m.lists[k]...)
	}
	return out, nil
}

func (m *mockListStore) RPush(_ context.Context, key string, values ...string) error {
	if m.rpushErr != nil {
		return m.rpushErr
	}
	m.lists[key] = append(m.lists[key], values...)
	return nil
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func mustDataset(t *testing.T, name string, jokes ...joke.Joke) domds.Dataset {
	t.Helper()
	d, err := domds.New(name, jokes)
	if err != nil {
		t.Fatalf("domds.New: %v", err)
	}
	return d
}

func jokeIDs(jokes []joke.Joke) []string {
	out := make([]string, len(jokes))
	for i := range jokes {
		out[i] = jokes[i].ID()
	}
	return out
}

func datasetNames(sets []domds.Dataset) []string {
	out := make([]string, len(sets))
	for i := range sets {
		out[i] = sets[i].Name()
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
