package simulation

import (
	"fmt"
	"strings"
)

// CycleError reports an exact circular dependency: the same (variable,
// period) pair appeared twice on the evaluation stack. Always fatal to the
// request.
type CycleError struct {
	// Variable and Period identify the re-entered calculation.
	Variable string
	Period   string

	// Stack holds the in-flight calculation keys, outermost first, at the
	// moment the cycle was detected.
	Stack []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("circular dependency evaluating %s for %s (stack: %s)",
		e.Variable, e.Period, strings.Join(e.Stack, " -> "))
}

// SpiralError reports a quasi-circular dependency: the same variable name
// re-entered the stack at a different period more times than the configured
// threshold allows. Callers inside the engine catch it and substitute the
// variable's default; it only reaches the end caller when raised by the
// outermost calculation.
type SpiralError struct {
	Variable string
	Period   string

	// Loops is the number of prior stack frames carrying the variable.
	Loops int
}

func (e *SpiralError) Error() string {
	return fmt.Sprintf("quasi-circular dependency evaluating %s for %s (%d prior frames)",
		e.Variable, e.Period, e.Loops)
}

// SituationError reports a structurally invalid situation document.
type SituationError struct {
	// Path locates the offending element, dot-joined from the document root.
	Path   string
	Reason string
}

func (e *SituationError) Error() string {
	if e.Path == "" {
		return "invalid situation: " + e.Reason
	}
	return fmt.Sprintf("invalid situation at %s: %s", e.Path, e.Reason)
}
