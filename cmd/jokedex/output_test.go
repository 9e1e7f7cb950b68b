package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

func TestPrintJoke(t *testing.T) {
	var buf bytes.Buffer
	j := joke.New("r1", "Chicken", "line one\nline two", 7)
	printJoke(&buf, &j)

	want := "#r1 Chicken [7]\n    line one\n    line two\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrintJoke_Unscored(t *testing.T) {
	var buf bytes.Buffer
	j := joke.NewUnscored("9", "", "body")
	printJoke(&buf, &j)

	if buf.String() != "#9 [unscored]\n    body\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrintGrouped(t *testing.T) {
	var buf bytes.Buffer
	groups := map[string][]joke.Joke{
		"b": {joke.New("2", "", "two", 1)},
		"a": {joke.New("1", "", "one", 1)},
	}
	printGrouped(&buf, []string{"a", "missing", "b"}, groups)

	out := buf.String()
	if strings.Index(out, "a (1)") > strings.Index(out, "b (1)") {
		t.Errorf("groups out of order:\n%s", out)
	}
	if strings.Contains(out, "missing") {
		t.Errorf("dataset without results printed:\n%s", out)
	}
}

func TestPrintGrouped_NoMatches(t *testing.T) {
	var buf bytes.Buffer
	printGrouped(&buf, []string{"a"}, map[string][]joke.Joke{})

	if strings.TrimSpace(buf.String()) != "no matches" {
		t.Errorf("got %q", buf.String())
	}
}

func TestToOutput_OmitsMissingScore(t *testing.T) {
	var buf bytes.Buffer
	j := joke.NewUnscored("1", "t", "b")
	if err := writeJSON(&buf, toOutput(&j)); err != nil {
		t.Fatalf("writeJSON: %v", err)
	}
	if strings.Contains(buf.String(), "score") {
		t.Errorf("unscored joke rendered a score: %s", buf.String())
	}
}
