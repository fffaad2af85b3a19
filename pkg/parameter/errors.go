package parameter

import (
	"fmt"

	"lexcore-hq/lexcore/pkg/period"
)

// NotFoundError indicates a parameter path that does not exist or has no
// value in force at the requested instant.
type NotFoundError struct {
	Path   string
	At     period.Instant
	Reason string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("parameter %s at %s: %s", e.Path, e.At, e.Reason)
	}
	return fmt.Sprintf("parameter %s not found", e.Path)
}

// LoadError indicates a parameter file that could not be read or parsed.
type LoadError struct {
	Path  string
	Cause error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	return fmt.Sprintf("loading parameters from %q: %v", e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}
