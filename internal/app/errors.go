package app

import "errors"

// Error taxonomy for the scoring pipeline. Callers dispatch with
// errors.Is; the HTTP layer maps each kind to a status code.
var (
	// ErrNotFound - referenced entity absent; no retry.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized - missing or invalid webhook credentials; no
	// side effects are performed before this check.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrValidation - malformed request body.
	ErrValidation = errors.New("validation failed")
	// ErrScoringUnavailable - scoring backend failure or timeout;
	// nothing was mutated, the call is safe to retry.
	ErrScoringUnavailable = errors.New("scoring unavailable")
	// ErrPersistence - a required data-store write failed. Prior
	// successful writes in the same run are not rolled back.
	ErrPersistence = errors.New("persistence failed")
)
