// Package metrics provides Prometheus metrics collection for the evaluation
// engine: evaluation counts and latencies, holder cache behavior per tier,
// and cycle/spiral detections. Metrics are an optional side channel; a nil
// Collector disables all recording.
package metrics
