package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector aggregates the Prometheus metrics of the evaluation engine:
// evaluation counts and durations, cache behavior per tier, and the cycle and
// spiral detections of the orchestrator.
//
// A nil *Collector is valid everywhere one is accepted; all recording methods
// are no-ops on nil, so callers never guard metric calls.
type Collector struct {
	registry *prometheus.Registry

	evaluationsTotal  *prometheus.CounterVec
	evaluationSeconds *prometheus.HistogramVec

	cacheHitsTotal      *prometheus.CounterVec
	cacheMissesTotal    prometheus.Counter
	cacheEvictionsTotal prometheus.Counter

	spiralsTotal prometheus.Counter
	cyclesTotal  prometheus.Counter
}

// NewCollector creates and registers the engine metrics with the provided
// registry. If registry is nil, a fresh one is created.
func NewCollector(namespace, subsystem string, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		registry: registry,

		evaluationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evaluations_total",
				Help:      "Total number of variable evaluations",
			},
			[]string{"variable"},
		),

		evaluationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evaluation_seconds",
				Help:      "Variable evaluation duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"variable"},
		),

		cacheHitsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_hits_total",
				Help:      "Total number of holder cache hits by tier",
			},
			[]string{"tier"},
		),

		cacheMissesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_misses_total",
				Help:      "Total number of holder cache misses",
			},
		),

		cacheEvictionsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cache_evictions_total",
				Help:      "Total number of holder entries evicted to secondary storage",
			},
		),

		spiralsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "spirals_total",
				Help:      "Total number of quasi-cyclic dependency detections",
			},
		),

		cyclesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cycles_total",
				Help:      "Total number of exact cyclic dependency detections",
			},
		),
	}

	registry.MustRegister(
		c.evaluationsTotal,
		c.evaluationSeconds,
		c.cacheHitsTotal,
		c.cacheMissesTotal,
		c.cacheEvictionsTotal,
		c.spiralsTotal,
		c.cyclesTotal,
	)

	return c
}

// Registry returns the underlying Prometheus registry for exposition.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// RecordEvaluation records one completed formula evaluation.
func (c *Collector) RecordEvaluation(variable string, d time.Duration) {
	if c == nil {
		return
	}
	c.evaluationsTotal.WithLabelValues(variable).Inc()
	c.evaluationSeconds.WithLabelValues(variable).Observe(d.Seconds())
}

// RecordCacheHit records a holder cache hit on the given tier
// ("memory" or "storage").
func (c *Collector) RecordCacheHit(tier string) {
	if c == nil {
		return
	}
	c.cacheHitsTotal.WithLabelValues(tier).Inc()
}

// RecordCacheMiss records a holder cache miss across both tiers.
func (c *Collector) RecordCacheMiss() {
	if c == nil {
		return
	}
	c.cacheMissesTotal.Inc()
}

// RecordCacheEviction records a holder entry pushed to secondary storage.
func (c *Collector) RecordCacheEviction() {
	if c == nil {
		return
	}
	c.cacheEvictionsTotal.Inc()
}

// RecordSpiral records a quasi-cyclic dependency detection.
func (c *Collector) RecordSpiral() {
	if c == nil {
		return
	}
	c.spiralsTotal.Inc()
}

// RecordCycle records an exact cyclic dependency detection.
func (c *Collector) RecordCycle() {
	if c == nil {
		return
	}
	c.cyclesTotal.Inc()
}
