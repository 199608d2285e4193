package engine

import "errors"

// Error taxonomy. Callers classify failures with errors.Is; operations wrap
// these with entity context.
var (
	// ErrNotFound covers absent entities and entities not owned by the
	// calling user.
	ErrNotFound = errors.New("not found")
	// ErrConflict is an invalid state transition, such as completing a task
	// that is already completed or skipped.
	ErrConflict = errors.New("conflict")
	// ErrInvalidInput is a missing or malformed required field.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUpstream is a failed or timed-out external text-generation call.
	ErrUpstream = errors.New("upstream failure")
	// ErrInternal is a broken ledger/rollback invariant.
	ErrInternal = errors.New("internal error")
)
