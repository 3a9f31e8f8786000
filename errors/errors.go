package errors

import "errors"

// Sentinel errors for common error conditions
var (
	// ErrInvalidInput indicates that input validation failed
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoProvider indicates that no model provider was configured
	ErrNoProvider = errors.New("no model provider configured")

	// ErrStreamInterrupted indicates that a model stream failed mid-response
	ErrStreamInterrupted = errors.New("model stream interrupted")
)
