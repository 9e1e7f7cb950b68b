package jokedex

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func writeDataset(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestNew_NoSource(t *testing.T) {
	_, err := New(context.Background())
	if err == nil {
		t.Fatal("expected error when no source provided")
	}
}

func TestNew_UnknownDriver(t *testing.T) {
	c := &Client{}
	_, _, err := c.openSource(context.Background(), &clientConfig{driver: "unknown"})
	if err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestNew_MissingDirectory(t *testing.T) {
	_, err := New(context.Background(), WithDirectory(filepath.Join(t.TempDir(), "nope")))
	if err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestNew_FromDirectory(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "reddit_jokes.json", `[
		{"id": "a", "title": "Chicken", "body": "Why did the chicken cross the road?", "score": 3},
		{"id": "b", "body": "Another chicken joke", "score": 8}
	]`)
	writeDataset(t, dir, "wocka.yaml", "- id: 1\n  body: My dog has no nose.\n")

	reg := prometheus.NewRegistry()
	c, err := New(context.Background(),
		WithDirectory(dir),
		WithLockTimeout(time.Second),
		WithPrometheus(reg),
		WithLogger(slog.Default()),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()
	ctx := context.Background()

	if names := c.Datasets(); len(names) != 2 || names[0] != "reddit_jokes" || names[1] != "wocka" {
		t.Errorf("Datasets() = %v", names)
	}

	hits, err := c.Search(ctx, "CHICKEN")
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits["reddit_jokes"]) != 2 || len(hits) != 1 {
		t.Errorf("hits = %+v", hits)
	}

	top, err := c.Top(ctx, "reddit_jokes", 1)
	if err != nil {
		t.Fatalf("Top: %v", err)
	}
	if len(top) != 1 || top[0].ID != "b" {
		t.Errorf("top = %+v", top)
	}

	if _, err := c.AllSortedByScore(ctx, true); !errors.Is(err, ErrMissingScore) {
		t.Errorf("expected ErrMissingScore across unscored wocka, got %v", err)
	}

	j, err := c.Random(ctx, "wocka")
	if err != nil {
		t.Fatalf("Random: %v", err)
	}
	if j.ID != "1" || j.Score != nil {
		t.Errorf("random = %+v", j)
	}

	if counts := c.Counts(ctx); counts["reddit_jokes"] != 2 || counts["wocka"] != 1 {
		t.Errorf("counts = %v", counts)
	}

	if h := c.Health(ctx); h.Status != "ok" || h.Checks["datasets"] != "ok" {
		t.Errorf("health = %+v", h)
	}
}

func TestNew_WithGenerator(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "wocka.jsonl", `{"id": 1, "body": "x"}`)

	gen := &stubGenerator{
		name: "fixed",
		fn: func(context.Context) (Joke, error) {
			return Joke{ID: "g", Body: "generated", Score: intPtr(2)}, nil
		},
	}
	c, err := New(context.Background(), WithDirectory(dir), WithGenerator(gen))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer c.Close()

	if names := c.Generators(); len(names) != 1 || names[0] != "fixed" {
		t.Errorf("Generators() = %v", names)
	}
	j, err := c.Generate(context.Background(), "fixed")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if j.Body != "generated" || j.Score == nil || *j.Score != 2 {
		t.Errorf("joke = %+v", j)
	}
}

func TestNew_DuplicateGenerator(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, "wocka.jsonl", `{"id": 1, "body": "x"}`)

	gen := &stubGenerator{name: "dup", fn: func(context.Context) (Joke, error) { return Joke{}, nil }}
	_, err := New(context.Background(), WithDirectory(dir), WithGenerator(gen), WithGenerator(gen))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestGeneratorAdapter_Error(t *testing.T) {
	adapter := &generatorAdapter{inner: &stubGenerator{
		name: "broken",
		fn: func(context.Context) (Joke, error) {
			return Joke{}, errors.New("provider down")
		},
	}}

	if adapter.Name() != "broken" {
		t.Errorf("Name() = %q", adapter.Name())
	}
	if _, err := adapter.Generate(context.Background()); err == nil {
		t.Fatal("expected error from adapter")
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}

	WithValkey("localhost:6379", "secret").apply(cfg)
	if cfg.driver != "valkey" {
		t.Errorf("driver = %q, want valkey", cfg.driver)
	}
	if cfg.addrs[0] != "localhost:6379" {
		t.Errorf("addr = %q, want localhost:6379", cfg.addrs[0])
	}
	if cfg.password != "secret" {
		t.Errorf("password = %q, want secret", cfg.password)
	}

	cfg2 := &clientConfig{}
	WithRedis("localhost:6380", "pass").apply(cfg2)
	WithKeyPrefix("jokes:").apply(cfg2)
	if cfg2.driver != "redis" || cfg2.keyPrefix != "jokes:" {
		t.Errorf("driver = %q, prefix = %q", cfg2.driver, cfg2.keyPrefix)
	}

	cfg3 := &clientConfig{}
	WithSQLite("file:jokes.db").apply(cfg3)
	if cfg3.driver != "sqlite" || cfg3.dsn != "file:jokes.db" {
		t.Errorf("driver = %q, dsn = %q", cfg3.driver, cfg3.dsn)
	}

	cfg4 := &clientConfig{}
	logger := slog.Default()
	WithLogger(logger).apply(cfg4)
	if cfg4.logger != logger {
		t.Error("expected logger to be set")
	}

	cfg5 := &clientConfig{}
	reg := prometheus.NewRegistry()
	WithPrometheus(reg).apply(cfg5)
	if cfg5.metricsReg != reg {
		t.Error("expected metricsReg to be set")
	}
}

func TestClient_Close_NoResources(t *testing.T) {
	c := &Client{}
	c.Close()
	c.Close()
}

func TestObserver_NilSafe(t *testing.T) {
	// nil observer should not panic.
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_WithPrometheus(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}

	obs.observe("search", time.Now().Add(-10*time.Millisecond), nil)
	obs.observe("search", time.Now(), errors.New("fail"))

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	// Verify operations counter has both ok and error.
	found := false
	for _, f := range families {
		if f.GetName() == "jokedex_sdk_operations_total" {
			found = true
			if len(f.GetMetric()) != 2 {
				t.Errorf("expected 2 metric samples, got %d", len(f.GetMetric()))
			}
		}
	}
	if !found {
		t.Error("jokedex_sdk_operations_total not found")
	}
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("first newObserver: %v", err)
	}
	if _, err := newObserver(nil, reg); err != nil {
		t.Fatalf("second newObserver: %v", err)
	}
}

func TestObserver_WithLogger(t *testing.T) {
	obs, err := newObserver(slog.Default(), nil)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	obs.observe("test.op", time.Now(), nil)
	obs.observe("test.op", time.Now(), errors.New("test error"))
}

func TestStatusOf(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{ErrNotFound, "not_found"},
		{ErrEmptyDataset, "invalid_argument"},
		{ErrMissingScore, "missing_score"},
		{errors.New("boom"), "error"},
	}
	for _, tt := range tests {
		if got := statusOf(tt.err); got != tt.want {
			t.Errorf("statusOf(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
