package sinks

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fjlanasa/gtfs-feeds/config"
	"github.com/fjlanasa/gtfs-feeds/records"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultPostgresTable = "gtfs_documents"

// Execer is satisfied by *pgxpool.Pool and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// PostgresWriter inserts one row per document. The table is created on the
// first write.
type PostgresWriter struct {
	db     Execer
	table  string
	pool   *pgxpool.Pool
	mu     sync.Mutex
	schema bool
}

func NewPostgresWriter(ctx context.Context, cfg config.PostgresSinkConfig) (*PostgresWriter, error) {
	if cfg.URL == "" {
		return nil, errors.New("postgres: url is required")
	}
	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}
	w := NewPostgresWriterWithExecer(pool, cfg.Table)
	w.pool = pool
	return w, nil
}

func NewPostgresWriterWithExecer(db Execer, table string) *PostgresWriter {
	if table == "" {
		table = defaultPostgresTable
	}
	return &PostgresWriter{db: db, table: pgx.Identifier{table}.Sanitize()}
}

func (w *PostgresWriter) ensureTable(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.schema {
		return nil
	}
	_, err := w.db.Exec(ctx, fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
	id BIGSERIAL PRIMARY KEY,
	received_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	feed_url TEXT NOT NULL,
	gtfs_type TEXT NOT NULL,
	feed_timestamp BIGINT,
	entity_count INTEGER NOT NULL,
	document JSONB NOT NULL
)`, w.table))
	if err != nil {
		return fmt.Errorf("postgres: create table: %w", err)
	}
	w.schema = true
	return nil
}

func (w *PostgresWriter) Write(ctx context.Context, result records.Result) error {
	feed, err := parseDocument(result.Contents)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	if err := w.ensureTable(ctx); err != nil {
		return err
	}
	var feedTimestamp *int64
	if feed.Header != nil && feed.Header.Timestamp != nil {
		ts := int64(feed.Header.GetTimestamp())
		feedTimestamp = &ts
	}
	_, err = w.db.Exec(ctx,
		fmt.Sprintf(`INSERT INTO %s (feed_url, gtfs_type, feed_timestamp, entity_count, document) VALUES ($1, $2, $3, $4, $5)`, w.table),
		result.Attributes[attributeURL],
		result.Attributes[attributeType],
		feedTimestamp,
		len(feed.Entities),
		string(result.Contents),
	)
	if err != nil {
		return fmt.Errorf("postgres: insert: %w", err)
	}
	return nil
}

func (w *PostgresWriter) Close() error {
	if w.pool != nil {
		w.pool.Close()
	}
	return nil
}
