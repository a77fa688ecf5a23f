package logging

import (
	"context"
	"log/slog"
	"time"

	"conquest/internal/history"
)

// HistoryStoreLogger wraps a history.Store and logs all method calls
type HistoryStoreLogger struct {
	store  history.Store
	logger *slog.Logger
}

// NewHistoryStoreLogger creates a new logging decorator for a history.Store
func NewHistoryStoreLogger(store history.Store, logger *slog.Logger) history.Store {
	return &HistoryStoreLogger{
		store:  store,
		logger: logger.With("interface", "HistoryStore"),
	}
}

func (l *HistoryStoreLogger) RecordImport(ctx context.Context, entry *history.Entry) error {
	start := time.Now()
	l.logger.Info("RecordImport called",
		"import_type", entry.ImportType,
		"file", entry.File,
		"success", entry.Success)

	err := l.store.RecordImport(ctx, entry)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("RecordImport failed",
			"import_type", entry.ImportType,
			"file", entry.File,
			"duration", duration,
			"error", err)
		return err
	}

	l.logger.Info("RecordImport completed",
		"entry_id", entry.ID,
		"import_type", entry.ImportType,
		"duration", duration)

	return nil
}

func (l *HistoryStoreLogger) GetImport(ctx context.Context, id string) (*history.Entry, error) {
	start := time.Now()
	l.logger.Debug("GetImport called",
		"entry_id", id)

	entry, err := l.store.GetImport(ctx, id)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("GetImport failed",
			"entry_id", id,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Debug("GetImport completed",
		"entry_id", id,
		"import_type", entry.ImportType,
		"success", entry.Success,
		"duration", duration)

	return entry, nil
}

func (l *HistoryStoreLogger) ListImports(ctx context.Context, limit int) ([]*history.Entry, error) {
	start := time.Now()
	l.logger.Debug("ListImports called",
		"limit", limit)

	entries, err := l.store.ListImports(ctx, limit)
	duration := time.Since(start)

	if err != nil {
		l.logger.Error("ListImports failed",
			"limit", limit,
			"duration", duration,
			"error", err)
		return nil, err
	}

	l.logger.Debug("ListImports completed",
		"count", len(entries),
		"duration", duration)

	return entries, nil
}

func (l *HistoryStoreLogger) Close() error {
	err := l.store.Close()
	if err != nil {
		l.logger.Error("Close failed", "error", err)
		return err
	}
	l.logger.Debug("history store closed")
	return nil
}
