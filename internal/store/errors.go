package store

import "errors"

// Sentinel errors returned by store operations. Callers match them with
// errors.Is; wrapped variants carry the specific detail.
var (
	// ErrNotFound means no row matched a label lookup.
	ErrNotFound = errors.New("not found")

	// ErrValidation means the input was rejected before touching the
	// database (empty user id, empty or oversized field).
	ErrValidation = errors.New("validation failed")

	// ErrUnavailable means the database itself could not be reached or
	// initialized.
	ErrUnavailable = errors.New("storage unavailable")
)
