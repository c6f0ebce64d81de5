package identity

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createRecordsTable = `CREATE TABLE IF NOT EXISTS records (
	id         uuid PRIMARY KEY,
	collection text NOT NULL,
	fields     jsonb NOT NULL,
	created_at timestamptz NOT NULL DEFAULT now()
)`

const insertRecord = `INSERT INTO records (id, collection, fields) VALUES ($1, $2, $3)`

// PostgresRecords stores records in a PostgreSQL table.
type PostgresRecords struct {
	pool *pgxpool.Pool
}

// OpenPostgresRecords connects to databaseURL and makes sure the records
// table exists.
func OpenPostgresRecords(ctx context.Context, databaseURL string) (*PostgresRecords, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := pool.Exec(ctx, createRecordsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &PostgresRecords{pool: pool}, nil
}

// AddRecord implements RecordStore.
func (p *PostgresRecords) AddRecord(ctx context.Context, collection string, fields map[string]any) (string, error) {
	if collection == "" {
		return "", ErrEmptyCollection
	}
	doc, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("encode record: %w", err)
	}
	id := uuid.New()
	if _, err := p.pool.Exec(ctx, insertRecord, id.String(), collection, doc); err != nil {
		return "", fmt.Errorf("insert record into %s: %w", collection, err)
	}
	return id.String(), nil
}

// Close releases the connection pool.
func (p *PostgresRecords) Close() {
	p.pool.Close()
}
