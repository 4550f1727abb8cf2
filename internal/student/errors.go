package student

import "errors"

var (
	// ErrNotFound is returned when no row matches the requested id.
	ErrNotFound = errors.New("student not found")
	// ErrMissingFields is returned when an update omits a business field.
	ErrMissingFields = errors.New("missing fields in the request body")
	// ErrInvalidDOB is returned when a date of birth cannot be parsed.
	ErrInvalidDOB = errors.New("invalid date of birth")
	// ErrInvalidID is returned for ids that are not positive integers.
	ErrInvalidID = errors.New("invalid id")
)
