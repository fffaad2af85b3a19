package variable

import (
	"fmt"
	"strings"
)

// NotFoundError indicates a variable name absent from the registry.
type NotFoundError struct {
	Name        string
	Suggestions []string
}

// Error returns the error message.
func (e *NotFoundError) Error() string {
	if len(e.Suggestions) > 0 {
		return fmt.Sprintf("variable %q not found, did you mean %s?",
			e.Name, strings.Join(e.Suggestions, ", "))
	}
	return fmt.Sprintf("variable %q not found", e.Name)
}

// DefinitionError indicates an invalid variable declaration at registration
// time.
type DefinitionError struct {
	Name   string
	Reason string
}

// Error returns the error message.
func (e *DefinitionError) Error() string {
	return fmt.Sprintf("variable %s: %s", e.Name, e.Reason)
}

// InvalidArraySizeError indicates a formula result whose length does not
// match the owning population.
type InvalidArraySizeError struct {
	Variable string
	Period   string
	Want     int
	Got      int
}

// Error returns the error message.
func (e *InvalidArraySizeError) Error() string {
	return fmt.Sprintf("variable %s period %s: formula returned %d values for a population of %d",
		e.Variable, e.Period, e.Got, e.Want)
}

// CastError indicates a formula result element that cannot be coerced to the
// variable's declared value type.
type CastError struct {
	Variable string
	Index    int
	Want     ValueType
	Value    any
}

// Error returns the error message.
func (e *CastError) Error() string {
	return fmt.Sprintf("variable %s: value %v at index %d cannot be cast to %s",
		e.Variable, e.Value, e.Index, e.Want)
}
