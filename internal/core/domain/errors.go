package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrServiceUnavailable indicates the marketplace backend could not be reached.
	ErrServiceUnavailable = errors.New("marketplace service unavailable")

	// Authentication Errors.

	// ErrAuthRequired indicates the operation needs a logged-in session.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthExpired indicates the stored session token has expired.
	ErrAuthExpired = errors.New("authentication expired")

	// ErrAuthInvalid indicates the credentials were rejected by the backend.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrForbidden indicates the session lacks the role required for the operation.
	// Listing management is restricted to doctor accounts.
	ErrForbidden = errors.New("forbidden")

	// Lifecycle Errors.

	// ErrAlreadyStarted indicates a component was started twice.
	ErrAlreadyStarted = errors.New("already started")

	// ErrStopped indicates a component was used after teardown.
	ErrStopped = errors.New("stopped")
)
