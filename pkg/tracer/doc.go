// Package tracer implements the observability side channel of the
// evaluation engine.
//
// Two interchangeable tracers sit behind one recording interface. The simple
// tracer only maintains the (variable, period) call stack the orchestrator
// needs for cycle detection. The full tracer additionally builds the
// dependency tree of the run, recording computed values, timings and
// parameter accesses per calculation, and flattens it into the
// explainability output keyed by "name<period>". Switching tracers never
// changes evaluation results.
package tracer
