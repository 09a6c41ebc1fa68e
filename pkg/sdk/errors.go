package kinsearch

import "github.com/kailas-cloud/kinsearch/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrStoreUnavailable = domain.ErrStoreUnavailable
	ErrInvalidRole      = domain.ErrInvalidRole
	ErrInvalidField     = domain.ErrInvalidField
	ErrMalformedRecord  = domain.ErrMalformedRecord
	ErrDeceasedNotFound = domain.ErrDeceasedNotFound
)
