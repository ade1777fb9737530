package errors

import (
	"errors"
	"fmt"
)

// Standard error types
var (
	// ErrInvalidArguments means an argument that is required by the presence
	// of another one (variables, file map, files) was not supplied.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInconsistentFileMap means the file map and the files mapping do not
	// describe the same set of upload keys.
	ErrInconsistentFileMap = errors.New("inconsistent file map")

	// ErrMalformedFileEntry means a file entry is missing one of its three
	// components (filename, content, content type).
	ErrMalformedFileEntry = errors.New("malformed file entry")

	// ErrUnknownCapability means a delegated capability name is not provided
	// by the session or its underlying HTTP client.
	ErrUnknownCapability = errors.New("unknown capability")

	ErrConfiguration  = errors.New("configuration error")
	ErrAuthentication = errors.New("authentication error")
)

// WrapError wraps an error with a standard error type
func WrapError(err error, errType error, message string) error {
	wrapped := fmt.Errorf("%s: %w", message, err)
	return fmt.Errorf("%w: %v", errType, wrapped)
}

// Is provides a convenience wrapper around errors.Is
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap provides a convenience wrapper around errors.Unwrap
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
