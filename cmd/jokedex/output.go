package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

var (
	titleStyle   = color.New(color.FgCyan, color.Bold).SprintFunc()
	scoreStyle   = color.New(color.FgGreen).SprintFunc()
	datasetStyle = color.New(color.FgYellow, color.Bold).SprintFunc()
	faintStyle   = color.New(color.Faint).SprintFunc()
)

// jokeOutput is the --json shape of a single joke.
type jokeOutput struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Body  string `json:"body"`
	Score *int   `json:"score,omitempty"`
}

func toOutput(j *joke.Joke) jokeOutput {
	return jokeOutput{ID: j.ID(), Title: j.Title(), Body: j.Body(), Score: j.ScorePtr()}
}

func toOutputs(jokes []joke.Joke) []jokeOutput {
	out := make([]jokeOutput, len(jokes))
	for i := range jokes {
		out[i] = toOutput(&jokes[i])
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// printJoke writes one joke as a header line followed by its indented body.
func printJoke(w io.Writer, j *joke.Joke) {
	score := faintStyle("unscored")
	if s, ok := j.Score(); ok {
		score = scoreStyle(strconv.Itoa(s))
	}
	header := faintStyle("#" + j.ID())
	if j.Title() != "" {
		header += " " + titleStyle(j.Title())
	}
	fmt.Fprintf(w, "%s [%s]\n", header, score)
	for _, line := range strings.Split(j.Body(), "\n") {
		fmt.Fprintf(w, "    %s\n", line)
	}
}

func printJokes(w io.Writer, jokes []joke.Joke) {
	if len(jokes) == 0 {
		fmt.Fprintln(w, faintStyle("no jokes"))
		return
	}
	for i := range jokes {
		printJoke(w, &jokes[i])
	}
}

// printGrouped prints per-dataset results in the given dataset order.
func printGrouped(w io.Writer, order []string, groups map[string][]joke.Joke) {
	printed := 0
	for _, name := range order {
		jokes, ok := groups[name]
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s %s\n", datasetStyle(name), faintStyle(fmt.Sprintf("(%d)", len(jokes))))
		printJokes(w, jokes)
		printed++
	}
	if printed == 0 {
		fmt.Fprintln(w, faintStyle("no matches"))
	}
}

func printCounts(w io.Writer, order []string, counts map[string]int) {
	total := 0
	for _, name := range order {
		fmt.Fprintf(w, "%-20s %s\n", datasetStyle(name), scoreStyle(strconv.Itoa(counts[name])))
		total += counts[name]
	}
	fmt.Fprintf(w, "%-20s %d\n", faintStyle("total"), total)
}
