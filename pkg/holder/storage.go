package holder

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotFound indicates a storage entry absent from the secondary tier.
var ErrNotFound = errors.New("holder storage: entry not found")

// Entry is one evicted cache entry in secondary storage.
type Entry struct {
	// SimulationID namespaces rows so concurrent simulations never collide
	// and retention can clear abandoned ones.
	SimulationID string

	// Variable and Period identify the cached array.
	Variable string
	Period   string

	// Values is the cached array, one element per population member.
	Values []any

	// CreatedAt drives retention pruning.
	CreatedAt time.Time
}

// Storage is the secondary cache tier behind the in-memory holder maps.
// Access is a local resource operation; implementations need not be safe for
// use by multiple simulations sharing one entry namespace, but must tolerate
// concurrent simulations using distinct simulation IDs.
type Storage interface {
	// Store persists an entry, replacing any previous entry with the same
	// (simulation, variable, period) key.
	Store(ctx context.Context, e *Entry) error

	// Load retrieves an entry, failing with ErrNotFound on a miss.
	Load(ctx context.Context, simulationID, variable, periodKey string) (*Entry, error)

	// Delete removes an entry if present.
	Delete(ctx context.Context, simulationID, variable, periodKey string) error

	// DeleteSimulation removes every entry of one simulation.
	DeleteSimulation(ctx context.Context, simulationID string) error

	// Prune removes entries created before the cutoff, returning the count.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)

	// Close releases storage resources.
	Close() error
}

// MemoryStorage implements Storage with an in-memory map. It is intended for
// tests and for exercising the eviction path without a database file.
type MemoryStorage struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStorage creates an empty in-memory storage backend.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: make(map[string]*Entry)}
}

func storageKey(simulationID, variable, periodKey string) string {
	return simulationID + "\x00" + variable + "\x00" + periodKey
}

// Store persists an entry in memory.
func (s *MemoryStorage) Store(ctx context.Context, e *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *e
	stored.Values = append([]any(nil), e.Values...)
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	s.entries[storageKey(e.SimulationID, e.Variable, e.Period)] = &stored
	return nil
}

// Load retrieves an entry, failing with ErrNotFound on a miss.
func (s *MemoryStorage) Load(ctx context.Context, simulationID, variable, periodKey string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[storageKey(simulationID, variable, periodKey)]
	if !ok {
		return nil, ErrNotFound
	}
	out := *e
	out.Values = append([]any(nil), e.Values...)
	return &out, nil
}

// Delete removes an entry if present.
func (s *MemoryStorage) Delete(ctx context.Context, simulationID, variable, periodKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, storageKey(simulationID, variable, periodKey))
	return nil
}

// DeleteSimulation removes every entry of one simulation.
func (s *MemoryStorage) DeleteSimulation(ctx context.Context, simulationID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, e := range s.entries {
		if e.SimulationID == simulationID {
			delete(s.entries, key)
		}
	}
	return nil
}

// Prune removes entries created before the cutoff.
func (s *MemoryStorage) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var deleted int64
	for key, e := range s.entries {
		if e.CreatedAt.Before(cutoff) {
			delete(s.entries, key)
			deleted++
		}
	}
	return deleted, nil
}

// Close releases nothing for the in-memory backend.
func (s *MemoryStorage) Close() error { return nil }

// Len returns the number of stored entries. Test helper.
func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
