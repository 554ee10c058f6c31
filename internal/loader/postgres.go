// Package loader persists run outcomes: a Postgres warehouse sink, a
// local SQLite archive, and a line-delimited JSON file for ad hoc use.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/openlettings/biddocs/constants"
	"github.com/openlettings/biddocs/internal/common"
	"github.com/openlettings/biddocs/internal/pipeline"
)

type PostgresConfig struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

type Postgres struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS bid_documents (
	file_path       TEXT PRIMARY KEY,
	document_type   TEXT NOT NULL,
	status          TEXT NOT NULL,
	data            JSONB,
	error           TEXT,
	processing_time DOUBLE PRECISION,
	metadata        JSONB,
	processed_at    TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const pgUpsert = `
INSERT INTO bid_documents
	(file_path, document_type, status, data, error, processing_time, metadata, processed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (file_path) DO UPDATE SET
	document_type   = EXCLUDED.document_type,
	status          = EXCLUDED.status,
	data            = EXCLUDED.data,
	error           = EXCLUDED.error,
	processing_time = EXCLUDED.processing_time,
	metadata        = EXCLUDED.metadata,
	processed_at    = EXCLUDED.processed_at`

// OpenPostgres creates the pool and makes sure the results table exists.
func OpenPostgres(ctx context.Context, cfg PostgresConfig, logger *slog.Logger) (*Postgres, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DSN == "" {
		return nil, common.InvalidArgumentError("database dsn is empty")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 3 * time.Second
	}

	logger.Info("connecting to database", "dsn", cfg.DSN)
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		pc.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	pc.ConnConfig.RuntimeParams["application_name"] = "biddocs"

	dialCtx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(dialCtx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure results table: %w", err)
	}

	logger.Info("successfully connected to database")
	return &Postgres{pool: pool, logger: logger}, nil
}

// Ping verifies the connection is alive.
func (p *Postgres) Ping(ctx context.Context, timeout time.Duration) error {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return p.pool.Ping(ctx)
}

// Load upserts every outcome keyed by file path. Skipped outcomes are
// not written: the previous successful record for that file stands.
func (p *Postgres) Load(ctx context.Context, outcomes []pipeline.Outcome) error {
	written := 0
	for _, o := range outcomes {
		if o.Status == constants.StatusSkipped {
			continue
		}
		data, meta, err := marshalOutcome(o)
		if err != nil {
			return err
		}
		if _, err := p.pool.Exec(ctx, pgUpsert,
			o.FilePath, string(o.DocumentType), string(o.Status),
			data, nullable(o.Error), o.ProcessingTime, meta); err != nil {
			return fmt.Errorf("upsert %s: %w", o.FilePath, err)
		}
		written++
	}
	p.logger.Info("loader.postgres.done", "written", written, "total", len(outcomes))
	return nil
}

func (p *Postgres) Close() {
	p.logger.Info("closing database connections")
	p.pool.Close()
}

func marshalOutcome(o pipeline.Outcome) (data, meta []byte, err error) {
	if o.Data != nil {
		if data, err = json.Marshal(o.Data); err != nil {
			return nil, nil, fmt.Errorf("marshal data for %s: %w", o.FilePath, err)
		}
	}
	if o.Metadata != nil {
		if meta, err = json.Marshal(o.Metadata); err != nil {
			return nil, nil, fmt.Errorf("marshal metadata for %s: %w", o.FilePath, err)
		}
	}
	return data, meta, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
