package jokedex

import "github.com/kailas-cloud/jokedex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound         = domain.ErrNotFound
	ErrInvalidArgument  = domain.ErrInvalidArgument
	ErrEmptyDataset     = domain.ErrEmptyDataset
	ErrMissingScore     = domain.ErrMissingScore
	ErrAlreadyExists    = domain.ErrAlreadyExists
	ErrGenerationFailed = domain.ErrGenerationFailed
)
