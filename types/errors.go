package types

import "errors"

var (
	// ErrInvalidInput is returned for malformed inputs such as an empty trajectory
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidConfiguration is returned by constructors given unusable parameters
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
