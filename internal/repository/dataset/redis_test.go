package dataset

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

func TestRedisSource_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	store := newMockListStore()
	src := NewRedisSource(store, "jokedex:")

	reddit := mustDataset(t, "reddit_jokes",
		joke.New("a", "Title A", "Body A", 5),
		joke.New("b", "", "Body B", -2),
	)
	wocka := mustDataset(t, "wocka", joke.NewUnscored("1", "Dog", "No nose"))

	if err := src.Write(ctx, &reddit); err != nil {
		t.Fatalf("Write reddit: %v", err)
	}
	if err := src.Write(ctx, &wocka); err != nil {
		t.Fatalf("Write wocka: %v", err)
	}

	if got := store.lists["jokedex:datasets"]; !equalStrings(got, []string{"reddit_jokes", "wocka"}) {
		t.Fatalf("index = %v", got)
	}
	if got := len(store.lists["jokedex:dataset:reddit_jokes"]); got != 2 {
		t.Fatalf("reddit list len = %d", got)
	}

	sets, err := src.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if store.multiCalls != 1 {
		t.Errorf("expected one pipelined read, got %d", store.multiCalls)
	}
	if !equalStrings(datasetNames(sets), []string{"reddit_jokes", "wocka"}) {
		t.Fatalf("names = %v", datasetNames(sets))
	}

	got := sets[0].Jokes()
	if !equalStrings(jokeIDs(got), []string{"a", "b"}) {
		t.Errorf("ids = %v", jokeIDs(got))
	}
	if s, ok := got[1].Score(); !ok || s != -2 {
		t.Errorf("score = %d, %v", s, ok)
	}
	if got[0].Title() != "Title A" || got[0].Body() != "Body A" {
		t.Errorf("joke a = %q / %q", got[0].Title(), got[0].Body())
	}
	if sets[1].Jokes()[0].HasScore() {
		t.Error("unscored joke gained a score")
	}
}

func TestRedisSource_EmptyIndex(t *testing.T) {
	store := newMockListStore()

	sets, err := NewRedisSource(store, "p:").Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sets) != 0 {
		t.Errorf("expected no datasets, got %v", datasetNames(sets))
	}
	if store.multiCalls != 0 {
		t.Error("should not fetch lists for an empty index")
	}
}

func TestRedisSource_EmptyDataset(t *testing.T) {
	store := newMockListStore()
	store.lists["p:datasets"] = []string{"empty"}

	sets, err := NewRedisSource(store, "p:").Read(context.Background())
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(sets) != 1 || sets[0].Len() != 0 {
		t.Errorf("expected one empty dataset")
	}
}

func TestRedisSource_CorruptRecord(t *testing.T) {
	store := newMockListStore()
	store.lists["p:datasets"] = []string{"bad"}
	store.lists["p:dataset:bad"] = []string{`{"id": "x"}`}

	if _, err := NewRedisSource(store, "p:").Read(context.Background()); err == nil {
		t.Fatal("expected error for record without body")
	}
}

func TestRedisSource_StoreErrors(t *testing.T) {
	boom := errors.New("boom")

	t.Run("index", func(t *testing.T) {
		store := newMockListStore()
		store.lrangeErr = boom
		_, err := NewRedisSource(store, "p:").Read(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("lists", func(t *testing.T) {
		store := newMockListStore()
		store.lists["p:datasets"] = []string{"a"}
		store.multiErr = boom
		_, err := NewRedisSource(store, "p:").Read(context.Background())
		if !errors.Is(err, boom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})

	t.Run("write", func(t *testing.T) {
		store := newMockListStore()
		store.rpushErr = boom
		d := mustDataset(t, "a", joke.New("1", "", "x", 1))
		if err := NewRedisSource(store, "p:").Write(context.Background(), &d); !errors.Is(err, boom) {
			t.Errorf("expected wrapped boom, got %v", err)
		}
	})
}

func TestRedisSource_WriteReplaces(t *testing.T) {
	ctx := context.Background()
	store := newMockListStore()
	src := NewRedisSource(store, "p:")

	first := mustDataset(t, "a", joke.New("1", "", "old", 1), joke.New("2", "", "old", 2))
	second := mustDataset(t, "a", joke.New("3", "", "new", 3))
	if err := src.Write(ctx, &first); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := src.Write(ctx, &second); err != nil {
		t.Fatalf("Write again: %v", err)
	}

	if got := store.lists["p:datasets"]; !equalStrings(got, []string{"a"}) {
		t.Errorf("index = %v, want a single entry", got)
	}
	sets, err := src.Read(ctx)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if !equalStrings(jokeIDs(sets[0].Jokes()), []string{"3"}) {
		t.Errorf("ids = %v", jokeIDs(sets[0].Jokes()))
	}
}
