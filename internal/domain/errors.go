package domain

import "errors"

// Sentinel errors shared across services. Delivery maps them to HTTP status
// codes; everything else surfaces as an internal error.
var (
	// ErrNotFound is returned when a referenced entity does not exist, or
	// when an ownership check fails (deliberately indistinguishable so that
	// non-owners cannot probe for existence).
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a state-machine or capacity rule is
	// violated (wrong event state, duplicate request, exhausted limit).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput is returned for malformed input such as an unknown
	// state action, a bad sort key, or a past-dated event date.
	ErrInvalidInput = errors.New("invalid input")
)
