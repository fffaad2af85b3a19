package tracer

import (
	"lexcore-hq/lexcore/pkg/period"
	"lexcore-hq/lexcore/pkg/variable"
)

// Frame identifies one in-flight calculation on the evaluation stack.
type Frame struct {
	Name   string
	Period period.Period
}

// ParameterAccess records one parameter resolution made by a formula.
type ParameterAccess struct {
	Path  string
	At    period.Instant
	Value any
}

// Tracer receives evaluation lifecycle events from the orchestrator. Start
// and End calls are strictly nested; the orchestrator guarantees every Start
// is matched by exactly one End, including on error paths.
type Tracer interface {
	// RecordCalculationStart pushes a frame for the calculation being
	// entered. Called before cycle detection, so the current frame is
	// always the last element of Stack.
	RecordCalculationStart(name string, p period.Period)

	// RecordCalculationResult attaches the computed array to the current
	// frame. Only the full tracer retains it.
	RecordCalculationResult(values variable.Array)

	// RecordParameterAccess attaches a parameter resolution to the current
	// frame.
	RecordParameterAccess(path string, at period.Instant, value any)

	// RecordCalculationEnd pops the current frame.
	RecordCalculationEnd()

	// Stack returns the in-flight frames, outermost first. The returned
	// slice must not be mutated by the caller.
	Stack() []Frame
}

// SimpleTracer maintains only the evaluation stack. It is the default
// tracer: cycle detection needs the stack, and nothing else costs anything.
type SimpleTracer struct {
	stack []Frame
}

// NewSimpleTracer creates a stack-only tracer.
func NewSimpleTracer() *SimpleTracer {
	return &SimpleTracer{}
}

// RecordCalculationStart pushes a frame.
func (t *SimpleTracer) RecordCalculationStart(name string, p period.Period) {
	t.stack = append(t.stack, Frame{Name: name, Period: p})
}

// RecordCalculationResult is a no-op for the simple tracer.
func (t *SimpleTracer) RecordCalculationResult(variable.Array) {}

// RecordParameterAccess is a no-op for the simple tracer.
func (t *SimpleTracer) RecordParameterAccess(string, period.Instant, any) {}

// RecordCalculationEnd pops the current frame.
func (t *SimpleTracer) RecordCalculationEnd() {
	if len(t.stack) > 0 {
		t.stack = t.stack[:len(t.stack)-1]
	}
}

// Stack returns the in-flight frames, outermost first.
func (t *SimpleTracer) Stack() []Frame {
	return t.stack
}
