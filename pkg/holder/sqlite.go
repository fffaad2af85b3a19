package holder

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// SQLiteConfig contains configuration for the SQLite storage backend.
type SQLiteConfig struct {
	// Path is the database file path.
	Path string

	// WALMode enables Write-Ahead Logging mode for better concurrency.
	// Default: true.
	WALMode bool

	// BusyTimeout is the duration to wait when the database is locked.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// DefaultSQLiteConfig returns the default SQLite configuration.
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "data/holder_cache.db",
		WALMode:     true,
		BusyTimeout: 5 * time.Second,
	}
}

// SQLiteStorage implements the Storage interface using SQLite. It is the
// production secondary tier: arrays evicted from holder memory land here and
// remain loadable for the rest of the simulation's life.
type SQLiteStorage struct {
	db     *sql.DB
	config *SQLiteConfig
	logger *slog.Logger

	storeStmt  *sql.Stmt
	loadStmt   *sql.Stmt
	deleteStmt *sql.Stmt
	deleteSim  *sql.Stmt
	pruneStmt  *sql.Stmt
}

// NewSQLiteStorage creates a new SQLite storage backend, initializing the
// schema and enabling WAL mode if configured.
func NewSQLiteStorage(config *SQLiteConfig) (*SQLiteStorage, error) {
	if config == nil {
		config = DefaultSQLiteConfig()
	}

	logger := slog.Default().With("component", "holder.storage.sqlite")

	db, err := sql.Open("sqlite", config.Path)
	if err != nil {
		return nil, fmt.Errorf("opening holder storage %q: %w", config.Path, err)
	}

	s := &SQLiteStorage{db: db, config: config, logger: logger}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("SQLite holder storage initialized",
		"path", config.Path,
		"wal_mode", config.WALMode,
	)

	return s, nil
}

// initialize sets up the database schema, pragmas and prepared statements.
func (s *SQLiteStorage) initialize() error {
	if s.config.WALMode {
		if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
			return fmt.Errorf("enabling WAL mode: %w", err)
		}
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := s.db.Exec(Schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	if _, err := s.db.Exec(InsertSchemaVersion, SchemaVersion); err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	var version int
	if err := s.db.QueryRow(GetSchemaVersion).Scan(&version); err != nil {
		return fmt.Errorf("reading schema version: %w", err)
	}
	if version != SchemaVersion {
		return fmt.Errorf("schema version mismatch: expected %d, got %d", SchemaVersion, version)
	}

	var err error
	if s.storeStmt, err = s.db.Prepare(
		`INSERT OR REPLACE INTO holder_entries
		 (simulation_id, variable, period, values_json, created_at)
		 VALUES (?, ?, ?, ?, ?)`); err != nil {
		return fmt.Errorf("preparing store statement: %w", err)
	}
	if s.loadStmt, err = s.db.Prepare(
		`SELECT values_json, created_at FROM holder_entries
		 WHERE simulation_id = ? AND variable = ? AND period = ?`); err != nil {
		return fmt.Errorf("preparing load statement: %w", err)
	}
	if s.deleteStmt, err = s.db.Prepare(
		`DELETE FROM holder_entries
		 WHERE simulation_id = ? AND variable = ? AND period = ?`); err != nil {
		return fmt.Errorf("preparing delete statement: %w", err)
	}
	if s.deleteSim, err = s.db.Prepare(
		`DELETE FROM holder_entries WHERE simulation_id = ?`); err != nil {
		return fmt.Errorf("preparing simulation delete statement: %w", err)
	}
	if s.pruneStmt, err = s.db.Prepare(
		`DELETE FROM holder_entries WHERE created_at < ?`); err != nil {
		return fmt.Errorf("preparing prune statement: %w", err)
	}

	return nil
}

// Store persists an entry, replacing any previous entry at the same key.
func (s *SQLiteStorage) Store(ctx context.Context, e *Entry) error {
	data, err := json.Marshal(e.Values)
	if err != nil {
		return fmt.Errorf("encoding holder entry %s/%s: %w", e.Variable, e.Period, err)
	}
	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err = s.storeStmt.ExecContext(ctx,
		e.SimulationID, e.Variable, e.Period, string(data), createdAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("storing holder entry %s/%s: %w", e.Variable, e.Period, err)
	}
	return nil
}

// Load retrieves an entry, failing with ErrNotFound on a miss.
func (s *SQLiteStorage) Load(ctx context.Context, simulationID, variable, periodKey string) (*Entry, error) {
	var data string
	var createdAt int64
	err := s.loadStmt.QueryRowContext(ctx, simulationID, variable, periodKey).Scan(&data, &createdAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading holder entry %s/%s: %w", variable, periodKey, err)
	}

	var values []any
	if err := json.Unmarshal([]byte(data), &values); err != nil {
		return nil, fmt.Errorf("decoding holder entry %s/%s: %w", variable, periodKey, err)
	}

	return &Entry{
		SimulationID: simulationID,
		Variable:     variable,
		Period:       periodKey,
		Values:       values,
		CreatedAt:    time.UnixMilli(createdAt),
	}, nil
}

// Delete removes an entry if present.
func (s *SQLiteStorage) Delete(ctx context.Context, simulationID, variable, periodKey string) error {
	if _, err := s.deleteStmt.ExecContext(ctx, simulationID, variable, periodKey); err != nil {
		return fmt.Errorf("deleting holder entry %s/%s: %w", variable, periodKey, err)
	}
	return nil
}

// DeleteSimulation removes every entry of one simulation.
func (s *SQLiteStorage) DeleteSimulation(ctx context.Context, simulationID string) error {
	if _, err := s.deleteSim.ExecContext(ctx, simulationID); err != nil {
		return fmt.Errorf("deleting simulation %s entries: %w", simulationID, err)
	}
	return nil
}

// Prune removes entries created before the cutoff, returning the count.
func (s *SQLiteStorage) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.pruneStmt.ExecContext(ctx, cutoff.UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("pruning holder entries: %w", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting pruned entries: %w", err)
	}
	return deleted, nil
}

// Close releases the prepared statements and the database handle.
func (s *SQLiteStorage) Close() error {
	for _, stmt := range []*sql.Stmt{s.storeStmt, s.loadStmt, s.deleteStmt, s.deleteSim, s.pruneStmt} {
		if stmt != nil {
			stmt.Close()
		}
	}
	return s.db.Close()
}
