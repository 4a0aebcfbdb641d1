package hooks

import "errors"

var (
	ErrUnauthorized    = errors.New("hooks: missing or invalid bearer token")
	ErrInvalidBody     = errors.New("hooks: invalid request body")
	ErrValidation      = errors.New("hooks: invalid event")
	ErrShuttingDown    = errors.New("hooks: handler is shutting down")
	ErrTooManyInFlight = errors.New("hooks: too many dispatches in flight")
	ErrDrainTimeout    = errors.New("hooks: timed out waiting for in-flight dispatches")
)

// Error codes returned in JSON error bodies.
const (
	codeUnauthorized = "unauthorized"
	codeInvalidBody  = "invalid_body"
	codeValidation   = "validation_error"
	codeUnavailable  = "unavailable"
)
