package state

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // pure Go sqlite driver
)

// SQLiteStore persists runs and executions. A nil *SQLiteStore is usable:
// BeginRun and RecordExecution do nothing and Close returns nil.
type SQLiteStore struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

// NewSQLiteStore creates a new SQLite state store instance.
func NewSQLiteStore() *SQLiteStore {
	return &SQLiteStore{now: time.Now}
}

// Open opens the history database at path, creating its directory when
// needed. Use ":memory:" for an in-memory database.
func (s *SQLiteStore) Open(path string) error {
	dsn := ":memory:?_pragma=foreign_keys(1)"
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create state directory: %w", err)
			}
		}
		dsn = path + "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Serialize writers; concurrent files record into the same store.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	s.db = db
	s.path = path
	return nil
}

// Open is a convenience wrapper that opens and migrates the store at path.
func Open(path string) (*SQLiteStore, error) {
	s := NewSQLiteStore()
	if err := s.Open(path); err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the SQLite database connection.
func (s *SQLiteStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the path the store was opened with.
func (s *SQLiteStore) Path() string {
	if s == nil {
		return ""
	}
	return s.path
}

// BeginRun creates a new run and returns it.
func (s *SQLiteStore) BeginRun(ctx context.Context, databaseKey, format string) (*Run, error) {
	if s == nil {
		return &Run{}, nil
	}
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{
		ID:          uuid.New().String(),
		StartedAt:   s.now().UTC(),
		DatabaseKey: databaseKey,
		Format:      format,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at, database_key, format) VALUES (?, ?, ?, ?)`,
		run.ID, run.StartedAt, run.DatabaseKey, run.Format,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// RecordExecution stores one executed statement. ExecutedAt defaults to now.
func (s *SQLiteStore) RecordExecution(ctx context.Context, e Execution) error {
	if s == nil || e.RunID == "" {
		return nil
	}
	if s.db == nil {
		return fmt.Errorf("database not opened")
	}
	if e.ExecutedAt.IsZero() {
		e.ExecutedAt = s.now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO executions
			(run_id, file, statement_index, statement, output_path, row_count, status, error, executed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID, e.File, e.StatementIndex, e.Statement, nullIfEmpty(e.OutputPath),
		e.RowCount, string(e.Status), nullIfEmpty(e.Error), e.ExecutedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record execution: %w", err)
	}
	return nil
}

// RecentExecutions returns up to limit executions, newest first.
func (s *SQLiteStore) RecentExecutions(ctx context.Context, limit int) ([]Execution, error) {
	if s == nil {
		return nil, nil
	}
	if s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, file, statement_index, statement, output_path, row_count, status, error, executed_at
		FROM executions
		ORDER BY executed_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Execution
	for rows.Next() {
		var e Execution
		var output, errMsg sql.NullString
		var status string
		if err := rows.Scan(&e.RunID, &e.File, &e.StatementIndex, &e.Statement,
			&output, &e.RowCount, &status, &errMsg, &e.ExecutedAt); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		e.OutputPath = output.String
		e.Error = errMsg.String
		e.Status = ExecutionStatus(status)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}
	return out, nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("database not opened")
	}

	run := &Run{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, started_at, database_key, format FROM runs WHERE id = ?`, id,
	).Scan(&run.ID, &run.StartedAt, &run.DatabaseKey, &run.Format)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return run, nil
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
