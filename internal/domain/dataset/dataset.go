package dataset

import (
	"fmt"
	"regexp"

	"github.com/kailas-cloud/jokedex/internal/domain"
	"github.com/kailas-cloud/jokedex/internal/domain/joke"
)

var nameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)

// Dataset is a named, ordered collection of jokes from one source corpus.
type Dataset struct {
	name  string
	jokes []joke.Joke
}

// New validates and creates a Dataset. The jokes slice is copied.
func New(name string, jokes []joke.Joke) (Dataset, error) {
	if name == "" {
		return Dataset{}, fmt.Errorf("dataset name is required")
	}
	if len(name) > 128 {
		return Dataset{}, fmt.Errorf("dataset name too long (max 128)")
	}
	if !nameRegex.MatchString(name) {
		return Dataset{}, fmt.Errorf("dataset name %q must be alphanumeric with dots, underscores and hyphens", name)
	}
	cp := make([]joke.Joke, len(jokes))
	copy(cp, jokes)
	return Dataset{name: name, jokes: cp}, nil
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Jokes returns the records in insertion order.
func (d *Dataset) Jokes() []joke.Joke { return d.jokes }

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.jokes) }

// Store maps dataset names to their records, preserving the order datasets were added.
// It is populated once and never mutated afterwards, so it is safe for concurrent readers.
type Store struct {
	names []string
	sets  map[string]Dataset
}

// NewStore builds an immutable store. Duplicate dataset names are rejected.
func NewStore(sets ...Dataset) (*Store, error) {
	s := &Store{
		names: make([]string, 0, len(sets)),
		sets:  make(map[string]Dataset, len(sets)),
	}
	for _, d := range sets {
		if _, ok := s.sets[d.name]; ok {
			return nil, fmt.Errorf("dataset %q: %w", d.name, domain.ErrAlreadyExists)
		}
		s.names = append(s.names, d.name)
		s.sets[d.name] = d
	}
	return s, nil
}

// Names returns dataset names in insertion order.
func (s *Store) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Jokes returns the records of a dataset. Callers must not modify the returned slice.
func (s *Store) Jokes(name string) ([]joke.Joke, bool) {
	d, ok := s.sets[name]
	if !ok {
		return nil, false
	}
	return d.jokes, true
}

// Len returns the number of datasets.
func (s *Store) Len() int { return len(s.names) }
