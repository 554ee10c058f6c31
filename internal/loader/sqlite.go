package loader

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/common"
	"github.com/openlettings/biddocs/internal/pipeline"
)

// SQLite is the local results archive for runs without a warehouse,
// using the same row shape as the Postgres sink.
type SQLite struct {
	db     *sql.DB
	logger *slog.Logger
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bid_documents (
	file_path       TEXT PRIMARY KEY,
	document_type   TEXT NOT NULL,
	status          TEXT NOT NULL,
	data            TEXT,
	error           TEXT,
	processing_time REAL,
	metadata        TEXT,
	processed_at    TEXT NOT NULL DEFAULT (datetime('now'))
)`

const sqliteUpsert = `
INSERT INTO bid_documents
	(file_path, document_type, status, data, error, processing_time, metadata, processed_at)
VALUES (?, ?, ?, ?, ?, ?, ?, datetime('now'))
ON CONFLICT (file_path) DO UPDATE SET
	document_type   = excluded.document_type,
	status          = excluded.status,
	data            = excluded.data,
	error           = excluded.error,
	processing_time = excluded.processing_time,
	metadata        = excluded.metadata,
	processed_at    = excluded.processed_at`

func OpenSQLite(ctx context.Context, path string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if path == "" {
		return nil, common.InvalidArgumentError("sqlite archive path is empty")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ensure results table: %w", err)
	}
	return &SQLite{db: db, logger: logger}, nil
}

// Load upserts every non-skipped outcome keyed by file path.
func (s *SQLite) Load(ctx context.Context, outcomes []pipeline.Outcome) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	written := 0
	for _, o := range outcomes {
		if o.Status == constants.StatusSkipped {
			continue
		}
		data, meta, err := marshalOutcome(o)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqliteUpsert,
			o.FilePath, string(o.DocumentType), string(o.Status),
			nullableBytes(data), nullable(o.Error), o.ProcessingTime, nullableBytes(meta)); err != nil {
			return fmt.Errorf("upsert %s: %w", o.FilePath, err)
		}
		written++
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.logger.Info("loader.sqlite.done", "written", written, "total", len(outcomes))
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}
