package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lexcore-hq/lexcore/pkg/holder"
)

// resetFlags clears persistent and command flag state between tests; cobra
// keeps parsed values across Execute calls on a shared command tree.
func resetFlags() {
	cfgFile = ""
	situationFile = ""
	traceRun = false
	watchRun = false
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// seedCacheEntries stores one 48-hour-old row and one fresh row under the
// given database path, then closes the store.
func seedCacheEntries(t *testing.T, dbPath string) {
	t.Helper()
	storage, err := holder.NewSQLiteStorage(&holder.SQLiteConfig{Path: dbPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	ctx := context.Background()
	stale := &holder.Entry{SimulationID: "stale-sim", Variable: "salary", Period: "2024-01",
		Values: []any{1.0}, CreatedAt: time.Now().Add(-48 * time.Hour)}
	fresh := &holder.Entry{SimulationID: "fresh-sim", Variable: "salary", Period: "2024-01",
		Values: []any{2.0}, CreatedAt: time.Now()}
	if err := storage.Store(ctx, stale); err != nil {
		t.Fatal(err)
	}
	if err := storage.Store(ctx, fresh); err != nil {
		t.Fatal(err)
	}
}

// assertStalePruned reopens the store and checks that only the stale row is
// gone.
func assertStalePruned(t *testing.T, dbPath string) {
	t.Helper()
	storage, err := holder.NewSQLiteStorage(&holder.SQLiteConfig{Path: dbPath, BusyTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	defer storage.Close()

	ctx := context.Background()
	if _, err := storage.Load(ctx, "stale-sim", "salary", "2024-01"); !errors.Is(err, holder.ErrNotFound) {
		t.Errorf("stale entry survived pruning: %v", err)
	}
	if _, err := storage.Load(ctx, "fresh-sim", "salary", "2024-01"); err != nil {
		t.Errorf("fresh entry pruned: %v", err)
	}
}

func retentionConfig(dbPath string) string {
	return fmt.Sprintf("cache:\n  sqlite:\n    path: %s\n  retention:\n    max_age: 24h\n", dbPath)
}

// TestPruneCommand tests the operator path: prune deletes rows older than
// the retention age and reports the count.
func TestPruneCommand(t *testing.T) {
	defer resetFlags()
	dbPath := filepath.Join(t.TempDir(), "cache.db")
	seedCacheEntries(t, dbPath)
	cfgPath := writeConfig(t, retentionConfig(dbPath))

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"prune", "--config", cfgPath})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("command failed: %v", err)
	}

	if !strings.Contains(out.String(), "deleted 1 stale cache entries") {
		t.Errorf("unexpected output: %q", out.String())
	}
	assertStalePruned(t, dbPath)
}

// TestPruneCommand_NoCacheConfigured tests the error path without a
// secondary store.
func TestPruneCommand_NoCacheConfigured(t *testing.T) {
	defer resetFlags()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"prune"})
	if err := rootCmd.Execute(); err == nil {
		t.Error("prune accepted a configuration without cache.sqlite.path")
	}
}
