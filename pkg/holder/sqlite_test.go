package holder

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lexcore-hq/lexcore/pkg/period"
)

func newTestSQLite(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := NewSQLiteStorage(&SQLiteConfig{
		Path:        filepath.Join(t.TempDir(), "cache.db"),
		WALMode:     true,
		BusyTimeout: time.Second,
	})
	if err != nil {
		t.Fatalf("creating sqlite storage: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// TestSQLiteStorage_RoundTrip tests store, load and the not-found path.
func TestSQLiteStorage_RoundTrip(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	entry := &Entry{
		SimulationID: "sim-1",
		Variable:     "salary",
		Period:       "2024-01",
		Values:       []any{3000.0, 1500.5},
	}
	if err := s.Store(ctx, entry); err != nil {
		t.Fatalf("Store returned error: %v", err)
	}

	got, err := s.Load(ctx, "sim-1", "salary", "2024-01")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(got.Values) != 2 || got.Values[0] != 3000.0 || got.Values[1] != 1500.5 {
		t.Errorf("Values = %v", got.Values)
	}

	if _, err := s.Load(ctx, "sim-1", "salary", "2024-02"); !errors.Is(err, ErrNotFound) {
		t.Errorf("miss error = %v, want ErrNotFound", err)
	}
	if _, err := s.Load(ctx, "sim-2", "salary", "2024-01"); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-simulation read = %v, want ErrNotFound", err)
	}
}

// TestSQLiteStorage_Replace tests that storing twice replaces the row.
func TestSQLiteStorage_Replace(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, values := range [][]any{{1.0}, {2.0}} {
		if err := s.Store(ctx, &Entry{
			SimulationID: "sim-1", Variable: "salary", Period: "2024-01", Values: values,
		}); err != nil {
			t.Fatal(err)
		}
	}

	got, err := s.Load(ctx, "sim-1", "salary", "2024-01")
	if err != nil {
		t.Fatal(err)
	}
	if got.Values[0] != 2.0 {
		t.Errorf("Values = %v, want the replacement", got.Values)
	}
}

// TestSQLiteStorage_DeleteAndPrune tests row deletion, per-simulation
// cleanup and age-based pruning.
func TestSQLiteStorage_DeleteAndPrune(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	entries := []*Entry{
		{SimulationID: "sim-1", Variable: "salary", Period: "2024-01", Values: []any{1.0},
			CreatedAt: time.Now().Add(-48 * time.Hour)},
		{SimulationID: "sim-1", Variable: "salary", Period: "2024-02", Values: []any{2.0}},
		{SimulationID: "sim-2", Variable: "rent", Period: "2024-01", Values: []any{3.0}},
	}
	for _, e := range entries {
		if err := s.Store(ctx, e); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.Delete(ctx, "sim-1", "salary", "2024-02"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Load(ctx, "sim-1", "salary", "2024-02"); !errors.Is(err, ErrNotFound) {
		t.Error("deleted row still loads")
	}

	deleted, err := s.Prune(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("Prune returned error: %v", err)
	}
	if deleted != 1 {
		t.Errorf("Prune deleted %d, want 1", deleted)
	}

	if err := s.DeleteSimulation(ctx, "sim-2"); err != nil {
		t.Fatalf("DeleteSimulation returned error: %v", err)
	}
	if _, err := s.Load(ctx, "sim-2", "rent", "2024-01"); !errors.Is(err, ErrNotFound) {
		t.Error("simulation rows survived DeleteSimulation")
	}
}

// TestHolder_SQLiteSecondaryTier tests the holder against the real SQLite
// backend end to end.
func TestHolder_SQLiteSecondaryTier(t *testing.T) {
	s := newTestSQLite(t)
	v := floatVariable("salary")
	h := New(v, 2, Config{
		MemoryThresholdBytes: 40,
		Storage:              s,
		SimulationID:         "sim-1",
	})

	h.Put(period.MonthPeriod(2024, 1), []any{1.0, 2.0})
	h.Put(period.MonthPeriod(2024, 2), []any{3.0, 4.0}) // evicts january

	got, ok := h.Get(period.MonthPeriod(2024, 1))
	if !ok {
		t.Fatal("evicted period unreadable through sqlite tier")
	}
	if got[0] != 1.0 || got[1] != 2.0 {
		t.Errorf("promoted values = %v", got)
	}
}
