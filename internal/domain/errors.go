package domain

import "errors"

var (
	// ErrStoreUnavailable signals that the record store could not be read
	// (failure or timeout). Never replaced by an empty result.
	ErrStoreUnavailable = errors.New("record store unavailable")
	// ErrMalformedRecord signals a stored record missing a field required for
	// matching or display.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrDeceasedNotFound signals a report linked to a deceased record that
	// does not exist.
	ErrDeceasedNotFound = errors.New("linked deceased record not found")
	// ErrInvalidField signals an unknown search field or a value that does
	// not fit it.
	ErrInvalidField = errors.New("invalid search field")
	// ErrInvalidRole signals an unknown actor role.
	ErrInvalidRole = errors.New("invalid role")
	// ErrAuditEmission signals that an audit event could not be recorded.
	ErrAuditEmission = errors.New("audit emission failed")
)
