package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Project-Sylos/DriveLister/internal/types"
	"github.com/google/uuid"
	_ "github.com/marcboeker/go-duckdb"
)

// ErrRunNotFound is returned when a run id is unknown
var ErrRunNotFound = errors.New("run not found")

// Store wraps a DuckDB connection holding the listing run history. Listing
// results themselves are never stored.
type Store struct {
	conn *sql.DB
	mu   sync.Mutex // Protects all database operations from concurrent access
}

// New opens the database and initializes the schema. ":memory:" opens an
// in-memory database.
func New(dbPath string) (*Store, error) {
	dsn := dbPath
	if dsn == ":memory:" {
		dsn = ""
	}

	// Open DuckDB connection
	conn, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DuckDB connection: %w", err)
	}

	s := &Store{conn: conn}

	// Initialize schema
	if err := s.InitializeSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// InitializeSchema creates the runs and visits tables if missing
func (s *Store) InitializeSchema() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range schemaStatements {
		if _, err := s.conn.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}

	return VerifyTablesExist(s.conn)
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}

// CreateRun inserts a new running run for folderID
func (s *Store) CreateRun(ctx context.Context, folderID string) (*types.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	run := &types.Run{
		ID:        uuid.New().String(),
		FolderID:  folderID,
		Status:    types.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.conn.ExecContext(ctx,
		"INSERT INTO runs (id, folder_id, status, started_at) VALUES (?, ?, ?, ?)",
		run.ID, run.FolderID, run.Status, run.StartedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert run: %w", err)
	}

	return run, nil
}

// FinishRun stores the final status and counters of a run
func (s *Store) FinishRun(ctx context.Context, run *types.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	finished := time.Now().UTC()
	res, err := s.conn.ExecContext(ctx,
		`UPDATE runs SET status = ?, entry_count = ?, warning_count = ?, message = ?, finished_at = ?
WHERE id = ?`,
		run.Status, run.EntryCount, run.WarningCount, run.Message, finished, run.ID)
	if err != nil {
		return fmt.Errorf("failed to update run %s: %w", run.ID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %s", ErrRunNotFound, run.ID)
	}

	run.FinishedAt = &finished
	return nil
}

// RecordVisit inserts one folder fetch record
func (s *Store) RecordVisit(ctx context.Context, v types.Visit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.VisitedAt.IsZero() {
		v.VisitedAt = time.Now()
	}

	_, err := s.conn.ExecContext(ctx,
		`INSERT INTO visits (run_id, folder_id, parent_id, depth, status, child_count, error, visited_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		v.RunID, v.FolderID, v.ParentID, v.Depth, v.Status, v.ChildCount, v.Error, v.VisitedAt.UTC())
	if err != nil {
		return fmt.Errorf("failed to insert visit for folder %s: %w", v.FolderID, err)
	}

	return nil
}

// GetRun retrieves a run by its id
func (s *Store) GetRun(ctx context.Context, id string) (*types.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.conn.QueryRowContext(ctx, `
SELECT id, folder_id, status, entry_count, warning_count, message, started_at, finished_at
FROM runs
WHERE id = ?`, id)

	run, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]types.Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
SELECT id, folder_id, status, entry_count, warning_count, message, started_at, finished_at
FROM runs
ORDER BY started_at DESC`
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	runs := []types.Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, *run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// GetVisits returns the visits of a run in fetch order
func (s *Store) GetVisits(ctx context.Context, runID string) ([]types.Visit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.conn.QueryContext(ctx, `
SELECT run_id, folder_id, parent_id, depth, status, child_count, error, visited_at
FROM visits
WHERE run_id = ?
ORDER BY seq`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visits of run %s: %w", runID, err)
	}
	defer rows.Close()

	visits := []types.Visit{}
	for rows.Next() {
		var v types.Visit
		err := rows.Scan(&v.RunID, &v.FolderID, &v.ParentID, &v.Depth, &v.Status, &v.ChildCount, &v.Error, &v.VisitedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan visit: %w", err)
		}
		visits = append(visits, v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating visits: %w", err)
	}

	return visits, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (*types.Run, error) {
	run := &types.Run{}
	var finished sql.NullTime

	err := sc.Scan(
		&run.ID,
		&run.FolderID,
		&run.Status,
		&run.EntryCount,
		&run.WarningCount,
		&run.Message,
		&run.StartedAt,
		&finished,
	)
	if err != nil {
		return nil, err
	}

	if finished.Valid {
		t := finished.Time
		run.FinishedAt = &t
	}
	return run, nil
}
