package utils

import "errors"

// Domain errors shared by services and controllers. Controllers translate
// these into HTTP status codes in one place (see RespondDomainError).
var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrForbidden        = errors.New("you do not have permission")
	ErrNotFound         = errors.New("not found")
	ErrCapacityExceeded = errors.New("no remaining capacity for this time slot")
	ErrDependency       = errors.New("external service unavailable")
)
