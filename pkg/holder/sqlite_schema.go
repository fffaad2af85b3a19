package holder

// SchemaVersion is the current secondary-storage schema version.
const SchemaVersion = 1

// Schema creates the secondary-storage tables and indexes.
const Schema = `
CREATE TABLE IF NOT EXISTS holder_entries (
    simulation_id TEXT NOT NULL,
    variable      TEXT NOT NULL,
    period        TEXT NOT NULL,
    values_json   TEXT NOT NULL,
    created_at    INTEGER NOT NULL,
    PRIMARY KEY (simulation_id, variable, period)
);

CREATE INDEX IF NOT EXISTS idx_holder_entries_created_at
    ON holder_entries (created_at);

CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY
);
`

// InsertSchemaVersion records the schema version, idempotently.
const InsertSchemaVersion = `
INSERT OR IGNORE INTO schema_version (version) VALUES (?);
`

// GetSchemaVersion reads the recorded schema version.
const GetSchemaVersion = `
SELECT version FROM schema_version ORDER BY version DESC LIMIT 1;
`
