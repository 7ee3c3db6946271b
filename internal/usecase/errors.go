package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// Sync pipeline taxonomy.
var (
	// ErrRateLimitExceeded means the source quota is spent; defer, do not retry now.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrDataFetch means the provider could not be reached or refused the call.
	ErrDataFetch = errors.New("data fetch failed")
	// ErrDataParsing means a payload or record is malformed.
	ErrDataParsing = errors.New("data parsing failed")
	// ErrResourceNotFound marks a referenced league, team or sport that is
	// not stored. It also matches ErrNotFound.
	ErrResourceNotFound error = resourceNotFoundError{}
	// ErrDuplicateResource marks an insert that lost a natural-key race.
	ErrDuplicateResource = errors.New("duplicate resource")
)

type resourceNotFoundError struct{}

func (resourceNotFoundError) Error() string { return "referenced resource not found" }

func (resourceNotFoundError) Is(target error) bool { return target == ErrNotFound }
