package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"conquest/internal/history"
	"conquest/internal/idgen"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements history.Store using SQLite
type Store struct {
	db *sql.DB
}

// New creates a new SQLite history store, creating the database file and
// schema when they do not exist yet
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate creates the database schema
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS imports (
			id TEXT PRIMARY KEY,
			batch_id TEXT,
			import_type TEXT NOT NULL,
			file TEXT NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT,
			error_report_path TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_imports_batch ON imports(batch_id);
		CREATE INDEX IF NOT EXISTS idx_imports_started ON imports(started_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordImport stores an import attempt
func (s *Store) RecordImport(ctx context.Context, entry *history.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = idgen.NewImport()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO imports (id, batch_id, import_type, file, success,
			error_message, error_report_path, started_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.BatchID, entry.ImportType, entry.File, entry.Success,
		entry.ErrorMessage, entry.ErrorReportPath, entry.StartedAt, entry.FinishedAt)

	return err
}

// GetImport retrieves an entry by ID
func (s *Store) GetImport(ctx context.Context, id string) (*history.Entry, error) {
	var entry history.Entry

	err := s.db.QueryRowContext(ctx, `
		SELECT id, batch_id, import_type, file, success,
			error_message, error_report_path, started_at, finished_at
		FROM imports WHERE id = ?
	`, id).Scan(&entry.ID, &entry.BatchID, &entry.ImportType, &entry.File, &entry.Success,
		&entry.ErrorMessage, &entry.ErrorReportPath, &entry.StartedAt, &entry.FinishedAt)

	if err == sql.ErrNoRows {
		return nil, history.ErrEntryNotFound
	}
	if err != nil {
		return nil, err
	}

	return &entry, nil
}

// ListImports retrieves recent entries, newest first
func (s *Store) ListImports(ctx context.Context, limit int) ([]*history.Entry, error) {
	query := `
		SELECT id, batch_id, import_type, file, success,
			error_message, error_report_path, started_at, finished_at
		FROM imports ORDER BY started_at DESC, id
	`
	var args []any
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*history.Entry
	for rows.Next() {
		var entry history.Entry
		if err := rows.Scan(&entry.ID, &entry.BatchID, &entry.ImportType, &entry.File, &entry.Success,
			&entry.ErrorMessage, &entry.ErrorReportPath, &entry.StartedAt, &entry.FinishedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure Store implements history.Store
var _ history.Store = (*Store)(nil)
