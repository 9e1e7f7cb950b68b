package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrInvalidArgument signals malformed query input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrEmptyDataset signals sampling from a dataset with no records.
	ErrEmptyDataset = fmt.Errorf("%w: dataset is empty", ErrInvalidArgument)
	// ErrMissingScore signals a record without a score in a score-based operation.
	ErrMissingScore = errors.New("joke has no score")
	// ErrGenerationFailed signals a joke generator failure.
	ErrGenerationFailed = errors.New("joke generation failed")
)

// DatasetNotFoundError wraps ErrNotFound with the requested dataset name.
type DatasetNotFoundError struct {
	Name string
}

func (e *DatasetNotFoundError) Error() string {
	return fmt.Sprintf("no dataset found with the name %s", e.Name)
}

func (e *DatasetNotFoundError) Unwrap() error { return ErrNotFound }

// NewDatasetNotFound creates a dataset not found error.
func NewDatasetNotFound(name string) error {
	return &DatasetNotFoundError{Name: name}
}
