package config

import "errors"

var (
	// ErrParsingConfig wraps struct tag parsing failures.
	ErrParsingConfig = errors.New("config: parse environment")
	// ErrNilPointer is returned when Load or Parse receives a nil pointer.
	ErrNilPointer = errors.New("config: nil target")
	// ErrLoadingEnvFile is returned when an explicitly requested .env file cannot be read.
	ErrLoadingEnvFile = errors.New("config: load env file")
)
