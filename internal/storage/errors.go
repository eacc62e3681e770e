package storage

import "fmt"

// ValidationError represents a rejected write or malformed input.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string {
	return e.msg
}

// NewValidationError creates a new validation error.
func NewValidationError(format string, args ...interface{}) error {
	return ValidationError{msg: fmt.Sprintf(format, args...)}
}

func validateEvent(domain, path string) error {
	if domain == "" {
		return NewValidationError("url_domain must not be empty")
	}
	if path == "" {
		return NewValidationError("url_path must not be empty")
	}
	return nil
}
