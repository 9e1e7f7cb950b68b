package jokedex

import "github.com/kailas-cloud/jokedex/internal/domain/joke"

// Joke is a single joke record. Score is nil for unscored jokes.
type Joke struct {
	ID    string
	Title string
	Body  string
	Score *int
}

func fromInternalJoke(j *joke.Joke) Joke {
	return Joke{ID: j.ID(), Title: j.Title(), Body: j.Body(), Score: j.ScorePtr()}
}

func fromInternalJokes(jokes []joke.Joke) []Joke {
	out := make([]Joke, len(jokes))
	for i := range jokes {
		out[i] = fromInternalJoke(&jokes[i])
	}
	return out
}

func fromInternalGroups(groups map[string][]joke.Joke) map[string][]Joke {
	out := make(map[string][]Joke, len(groups))
	for name, jokes := range groups {
		out[name] = fromInternalJokes(jokes)
	}
	return out
}

func toInternalJoke(j *Joke) joke.Joke {
	return joke.Reconstruct(j.ID, j.Title, j.Body, j.Score)
}
