package joke

import (
	"fmt"

	"github.com/kailas-cloud/jokedex/internal/domain"
)

// Joke is a single record of a dataset (immutable value object).
type Joke struct {
	id     string
	title  string
	body   string
	score  int
	scored bool
}

// New creates a scored joke.
func New(id, title, body string, score int) Joke {
	return Joke{id: id, title: title, body: body, score: score, scored: true}
}

// NewUnscored creates a joke whose source corpus carries no score.
func NewUnscored(id, title, body string) Joke {
	return Joke{id: id, title: title, body: body}
}

// Reconstruct creates a Joke from storage, score is nil when absent.
func Reconstruct(id, title, body string, score *int) Joke {
	if score == nil {
		return NewUnscored(id, title, body)
	}
	return New(id, title, body, *score)
}

// ID returns the identifier, unique within its dataset.
func (j *Joke) ID() string { return j.id }

// Title returns the title, possibly empty.
func (j *Joke) Title() string { return j.title }

// Body returns the searchable text.
func (j *Joke) Body() string { return j.body }

// Score returns the score and whether one is present.
func (j *Joke) Score() (int, bool) { return j.score, j.scored }

// HasScore reports whether the joke carries a score.
func (j *Joke) HasScore() bool { return j.scored }

// RequireScore returns the score or ErrMissingScore.
func (j *Joke) RequireScore() (int, error) {
	if !j.scored {
		return 0, fmt.Errorf("joke %q: %w", j.id, domain.ErrMissingScore)
	}
	return j.score, nil
}

// ScorePtr returns the score as a pointer, nil when absent.
func (j *Joke) ScorePtr() *int {
	if !j.scored {
		return nil
	}
	s := j.score
	return &s
}
