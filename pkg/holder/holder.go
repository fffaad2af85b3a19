package holder

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lexcore-hq/lexcore/pkg/period"
	"lexcore-hq/lexcore/pkg/telemetry/metrics"
	"lexcore-hq/lexcore/pkg/variable"
)

// Config configures a holder's cache tiers.
type Config struct {
	// MemoryThresholdBytes caps the estimated size of the primary in-memory
	// tier. Zero means unbounded (no eviction).
	MemoryThresholdBytes int64

	// Storage is the optional secondary tier. Nil disables eviction and
	// secondary lookups.
	Storage Storage

	// SimulationID namespaces this holder's rows in secondary storage.
	SimulationID string

	// Metrics optionally records cache behavior. Nil disables recording.
	Metrics *metrics.Collector

	// Logger defaults to slog.Default.
	Logger *slog.Logger
}

// Holder owns all cached and input arrays for one (variable, population)
// pair, keyed by canonical period string. Not safe for concurrent use; a
// holder belongs to exactly one simulation.
type Holder struct {
	variable *variable.Variable
	count    int
	config   Config
	logger   *slog.Logger

	entries map[string]variable.Array

	// evicted tracks period keys living only in the secondary tier, so
	// invalidation can reach them.
	evicted map[string]struct{}

	// lru holds period keys ordered by recency, least recent first.
	lru       []string
	usedBytes int64
}

// New creates a holder for a variable over a population of the given size.
func New(v *variable.Variable, count int, config Config) *Holder {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Holder{
		variable: v,
		count:    count,
		config:   config,
		logger:   logger.With("component", "holder", "variable", v.Name),
		entries:  make(map[string]variable.Array),
		evicted:  make(map[string]struct{}),
	}
}

// Variable returns the held variable's definition.
func (h *Holder) Variable() *variable.Variable { return h.variable }

// Get returns the cached array for the exact period. The primary tier is
// checked first; on a miss the secondary tier is consulted and a hit there is
// promoted back into memory.
func (h *Holder) Get(p period.Period) (variable.Array, bool) {
	key := p.String()

	if values, ok := h.entries[key]; ok {
		h.touch(key)
		h.config.Metrics.RecordCacheHit("memory")
		return values, true
	}

	if h.config.Storage != nil {
		entry, err := h.config.Storage.Load(context.Background(), h.config.SimulationID, h.variable.Name, key)
		if err == nil {
			// JSON narrows types on the round trip; re-cast so promoted
			// arrays are indistinguishable from freshly computed ones.
			values, castErr := h.variable.Cast(entry.Values, h.count, p)
			if castErr != nil {
				h.logger.Error("discarding corrupt secondary entry", "period", key, "error", castErr)
				return nil, false
			}
			h.store(key, values)
			h.config.Metrics.RecordCacheHit("storage")
			return values, true
		}
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("secondary tier lookup failed", "period", key, "error", err)
		}
	}

	h.config.Metrics.RecordCacheMiss()
	return nil, false
}

// Put caches an array under the exact requested period, evicting
// least-recently-used periods to secondary storage once the primary tier
// crosses its byte threshold.
func (h *Holder) Put(p period.Period, values variable.Array) {
	h.store(p.String(), values)
}

func (h *Holder) store(key string, values variable.Array) {
	if old, ok := h.entries[key]; ok {
		h.usedBytes -= sizeOf(old)
	}
	h.entries[key] = values
	delete(h.evicted, key)
	h.usedBytes += sizeOf(values)
	h.touch(key)
	h.evictOverflow()
}

// evictOverflow pushes least-recently-used entries to the secondary tier
// while the primary tier exceeds its threshold. Entries that fail to persist
// stay in memory; correctness beats the memory budget.
func (h *Holder) evictOverflow() {
	if h.config.MemoryThresholdBytes <= 0 || h.config.Storage == nil {
		return
	}
	for h.usedBytes > h.config.MemoryThresholdBytes && len(h.lru) > 1 {
		key := h.lru[0]
		values := h.entries[key]
		err := h.config.Storage.Store(context.Background(), &Entry{
			SimulationID: h.config.SimulationID,
			Variable:     h.variable.Name,
			Period:       key,
			Values:       values,
			CreatedAt:    time.Now(),
		})
		if err != nil {
			h.logger.Error("eviction to secondary tier failed, keeping entry in memory",
				"period", key, "error", err)
			return
		}
		h.lru = h.lru[1:]
		h.usedBytes -= sizeOf(values)
		delete(h.entries, key)
		h.evicted[key] = struct{}{}
		h.config.Metrics.RecordCacheEviction()
	}
}

// Invalidate removes the period's entry from both tiers. Used when a
// quasi-cyclic resolution forces recomputation.
func (h *Holder) Invalidate(p period.Period) {
	key := p.String()
	if values, ok := h.entries[key]; ok {
		h.usedBytes -= sizeOf(values)
		delete(h.entries, key)
		h.untouch(key)
	}
	delete(h.evicted, key)
	h.deleteSecondary(key)
}

// InvalidateAll removes every cached period from both tiers.
func (h *Holder) InvalidateAll() {
	for key := range h.entries {
		h.deleteSecondary(key)
	}
	for key := range h.evicted {
		h.deleteSecondary(key)
	}
	h.entries = make(map[string]variable.Array)
	h.evicted = make(map[string]struct{})
	h.lru = nil
	h.usedBytes = 0
}

func (h *Holder) deleteSecondary(key string) {
	if h.config.Storage == nil {
		return
	}
	if err := h.config.Storage.Delete(context.Background(), h.config.SimulationID, h.variable.Name, key); err != nil {
		h.logger.Error("secondary tier invalidation failed", "period", key, "error", err)
	}
}

// Periods returns the period keys currently cached in the primary tier.
func (h *Holder) Periods() []string {
	out := make([]string, 0, len(h.entries))
	for key := range h.entries {
		out = append(out, key)
	}
	return out
}

func (h *Holder) touch(key string) {
	h.untouch(key)
	h.lru = append(h.lru, key)
}

func (h *Holder) untouch(key string) {
	for i, k := range h.lru {
		if k == key {
			h.lru = append(h.lru[:i], h.lru[i+1:]...)
			return
		}
	}
}

// sizeOf estimates an array's memory footprint for the eviction threshold.
// The estimate is deliberately rough: slot overhead plus string payloads.
func sizeOf(values variable.Array) int64 {
	size := int64(len(values)) * 16
	for _, v := range values {
		if s, ok := v.(string); ok {
			size += int64(len(s))
		}
	}
	return size
}
