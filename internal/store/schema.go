package store

import (
	"database/sql"
	"fmt"
)

// Table names for run history
const (
	tableRuns   = "runs"
	tableVisits = "visits"
)

// schemaStatements creates the history tables. Existing history is kept.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
    id VARCHAR PRIMARY KEY,
    folder_id VARCHAR NOT NULL,
    status VARCHAR NOT NULL,
    entry_count INTEGER NOT NULL DEFAULT 0,
    warning_count INTEGER NOT NULL DEFAULT 0,
    message VARCHAR NOT NULL DEFAULT '',
    started_at TIMESTAMP NOT NULL,
    finished_at TIMESTAMP
)`,
	`CREATE SEQUENCE IF NOT EXISTS visits_seq START 1`,
	`CREATE TABLE IF NOT EXISTS visits (
    seq BIGINT PRIMARY KEY DEFAULT nextval('visits_seq'),
    run_id VARCHAR NOT NULL,
    folder_id VARCHAR NOT NULL,
    parent_id VARCHAR NOT NULL DEFAULT '',
    depth INTEGER NOT NULL,
    status VARCHAR NOT NULL,
    child_count INTEGER NOT NULL DEFAULT 0,
    error VARCHAR NOT NULL DEFAULT '',
    visited_at TIMESTAMP NOT NULL
)`,
	`CREATE INDEX IF NOT EXISTS idx_visits_run_id ON visits(run_id)`,
	`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON runs(started_at)`,
}

// VerifyTablesExist checks that all history tables are present
func VerifyTablesExist(conn *sql.DB) error {
	for _, table := range []string{tableRuns, tableVisits} {
		var count int
		err := conn.QueryRow(
			"SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?", table,
		).Scan(&count)
		if err != nil {
			return fmt.Errorf("failed to check table %s: %w", table, err)
		}
		if count == 0 {
			return fmt.Errorf("required table %s does not exist", table)
		}
	}
	return nil
}
