package dataset

import (
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

// flexibleID accepts both string and numeric identifiers (the wocka and
// stupidstuff corpora use integers, reddit uses strings).
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*f = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexibleID(n.String())
	return nil
}

func (f *flexibleID) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("id must be a scalar, line %d", n.Line)
	}
	*f = flexibleID(n.Value)
	return nil
}

// jokeDTO is the on-disk / in-store representation of a joke record.
type jokeDTO struct {
	ID    flexibleID `json:"id" yaml:"id"`
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
	Body  *string    `json:"body" yaml:"body"`
	Score *int       `json:"score,omitempty" yaml:"score,omitempty"`
}

func (d *jokeDTO) toDomain() (joke.Joke, error) {
	if strings.TrimSpace(string(d.ID)) == "" {
		return joke.Joke{}, fmt.Errorf("id is required")
	}
	if d.Body == nil {
		return joke.Joke{}, fmt.Errorf("joke %s: body is required", d.ID)
	}
	return joke.Reconstruct(string(d.ID), d.Title, *d.Body, d.Score), nil
}

func jokeToDTO(j *joke.Joke) jokeDTO {
	body := j.Body()
	return jokeDTO{ID: flexibleID(j.ID()), Title: j.Title(), Body: &body, Score: j.ScorePtr()}
}

func decodeJSONJoke(data []byte) (joke.Joke, error) {
	var dto jokeDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return joke.Joke{}, fmt.Errorf("decode joke: %w", err)
	}
	return dto.toDomain()
}

// EncodeJoke serializes a joke in the record format every source reads.
func EncodeJoke(j *joke.Joke) ([]byte, error) {
	data, err := json.Marshal(jokeToDTO(j))
	if err != nil {
		return nil, fmt.Errorf("encode joke %s: %w", j.ID(), err)
	}
	return data, nil
}

func convertAll(dtos []jokeDTO) ([]joke.Joke, error) {
	out := make([]joke.Joke, 0, len(dtos))
	for i := range dtos {
		j, err := dtos[i].toDomain()
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, j)
	}
	return out, nil
}
