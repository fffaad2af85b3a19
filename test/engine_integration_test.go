// Package test holds cross-package integration tests exercising the engine
// the way a deployment does: rule set, configuration, secondary cache and
// tracing wired together.
package test

import (
	"os"
	"path/filepath"
	"testing"

	"lexcore-hq/lexcore/internal/countrytemplate"
	"lexcore-hq/lexcore/pkg/config"
	"lexcore-hq/lexcore/pkg/holder"
	"lexcore-hq/lexcore/pkg/simulation"
	"lexcore-hq/lexcore/pkg/tracer"
)

const familySituation = `{
	"persons": {
		"alice": {"salary": {"2024-01": 3000}},
		"bob": {"salary": {"2024-01": 1500}},
		"kid": {}
	},
	"households": {
		"h1": {
			"parents": ["alice", "bob"],
			"children": ["kid"],
			"rent": {"2024-01": 1200},
			"housing_allowance": {"2024-01": null}
		}
	}
}`

// TestEndToEnd_FamilyWithSQLiteCache runs a family situation through the
// full stack: embedded rule set, aggressive eviction to a real SQLite
// secondary tier, full tracing.
func TestEndToEnd_FamilyWithSQLiteCache(t *testing.T) {
	system, err := countrytemplate.NewSystem()
	if err != nil {
		t.Fatalf("building rule set: %v", err)
	}

	storage, err := holder.NewSQLiteStorage(&holder.SQLiteConfig{
		Path:    filepath.Join(t.TempDir(), "cache.db"),
		WALMode: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite storage: %v", err)
	}
	defer storage.Close()

	sim, requested, err := simulation.FromSituation(system, []byte(familySituation), simulation.Config{
		// A one-byte threshold forces every put through the eviction path.
		MemoryThresholdBytes: 1,
		Storage:              storage,
		Tracer:               tracer.NewFullTracer(),
	})
	if err != nil {
		t.Fatalf("building simulation: %v", err)
	}

	results, err := sim.Run(requested)
	if err != nil {
		t.Fatalf("running simulation: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("result count = %d, want 1", len(results))
	}
	if got := results[0].Values[0]; got != 300.0 {
		t.Errorf("housing_allowance = %v, want 300 (25%% of 1200)", got)
	}

	// Evaluations remain correct when served back through the secondary
	// tier.
	again, err := sim.Calculate("housing_allowance", "2024-01")
	if err != nil {
		t.Fatalf("recalculation failed: %v", err)
	}
	if again[0] != results[0].Values[0] {
		t.Errorf("recalculation = %v, first run = %v", again[0], results[0].Values[0])
	}

	trace, ok := sim.Trace()
	if !ok {
		t.Fatal("trace unavailable")
	}
	record, ok := trace.Calculations["housing_allowance<2024-01>"]
	if !ok {
		t.Fatal("housing_allowance trace record missing")
	}
	if len(record.Dependencies) != 1 || record.Dependencies[0] != "rent<2024-01>" {
		t.Errorf("dependencies = %v", record.Dependencies)
	}
	if len(trace.EntityIDs) != 4 {
		t.Errorf("entity ids = %v, want alice, bob, h1, kid", trace.EntityIDs)
	}
}

// TestEndToEnd_ConfiguredEngine drives the engine from a configuration file
// the way the CLI does.
func TestEndToEnd_ConfiguredEngine(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := "engine:\n  max_spiral_loops: 2\ncache:\n  memory_threshold_bytes: 4096\n  sqlite:\n    path: " +
		filepath.Join(dir, "cache.db") + "\n    wal_mode: true\n"
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.LoadConfigWithEnvOverrides(configPath)
	if err != nil {
		t.Fatalf("loading config: %v", err)
	}

	storage, err := holder.NewSQLiteStorage(&holder.SQLiteConfig{
		Path:        cfg.Cache.SQLite.Path,
		WALMode:     cfg.Cache.SQLite.WALMode,
		BusyTimeout: cfg.Cache.SQLite.BusyTimeout,
	})
	if err != nil {
		t.Fatalf("opening sqlite storage: %v", err)
	}
	defer storage.Close()

	system, err := countrytemplate.NewSystem()
	if err != nil {
		t.Fatal(err)
	}
	sim, requested, err := simulation.FromSituation(system, []byte(`{
		"persons": {
			"alice": {
				"salary": {"2024-01": 3000},
				"total_taxes": {"2024-01": null}
			}
		}
	}`), simulation.Config{
		MaxSpiralLoops:       cfg.Engine.MaxSpiralLoops,
		MemoryThresholdBytes: cfg.Cache.MemoryThresholdBytes,
		Storage:              storage,
	})
	if err != nil {
		t.Fatal(err)
	}

	results, err := sim.Run(requested)
	if err != nil {
		t.Fatalf("running simulation: %v", err)
	}
	// income tax 300 plus the 3% contribution bracket on 3000.
	if got := results[0].Values[0]; got != 390.0 {
		t.Errorf("total_taxes = %v, want 390", got)
	}
}
