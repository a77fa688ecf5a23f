// Package history records import attempts so past batches can be reviewed
// after the fact.
package history

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrEntryNotFound = errors.New("history entry not found")
	ErrInvalidEntry  = errors.New("invalid history entry")
)

// Entry is one recorded import attempt.
type Entry struct {
	ID string
	// BatchID is the server-assigned batch id. Empty when the import was
	// rejected before upload.
	BatchID         string
	ImportType      string
	File            string
	Success         bool
	ErrorMessage    string
	ErrorReportPath string
	StartedAt       time.Time
	FinishedAt      time.Time
}

// Validate checks that the entry can be stored.
func (e *Entry) Validate() error {
	if e.ImportType == "" {
		return fmt.Errorf("%w: import type is required", ErrInvalidEntry)
	}
	if e.File == "" {
		return fmt.Errorf("%w: file is required", ErrInvalidEntry)
	}
	if e.StartedAt.IsZero() {
		return fmt.Errorf("%w: start time is required", ErrInvalidEntry)
	}
	return nil
}

// Duration is how long the import attempt took end to end.
func (e *Entry) Duration() time.Duration {
	return e.FinishedAt.Sub(e.StartedAt)
}

// Store defines the interface for import history persistence
type Store interface {
	// RecordImport stores an import attempt, assigning an entry id when it
	// has none
	RecordImport(ctx context.Context, entry *Entry) error

	// GetImport retrieves one entry by id
	GetImport(ctx context.Context, id string) (*Entry, error)

	// ListImports returns recent entries, newest first. A limit of 0 returns
	// everything
	ListImports(ctx context.Context, limit int) ([]*Entry, error)

	// Lifecycle
	Close() error
}
