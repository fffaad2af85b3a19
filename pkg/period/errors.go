package period

import "fmt"

// FormatError indicates a period or instant string that could not be parsed.
type FormatError struct {
	Input  string
	Reason string
}

// Error returns the error message.
func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid period %q: %s", e.Input, e.Reason)
}
