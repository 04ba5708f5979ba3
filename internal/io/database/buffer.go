// Package database implements a production rowbuf.Buffer backed by a
// live Postgres cursor, using pgxpool for connection pooling. This is an
// impure I/O package: it implements the contract pkg/rowbuf defines, and
// knows nothing about hierarchy building or index-event extraction.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cardionet/acsdex/pkg/config"
	"github.com/cardionet/acsdex/pkg/rowbuf"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect establishes a connection pool to PostgreSQL.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Database,
		cfg.SSLMode,
	)

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	poolConfig.MaxConnLifetime = 30 * time.Minute
	poolConfig.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return pool, nil
}

// Buffer is a rowbuf.Buffer positioned on a live pgx.Rows cursor opened
// over cfg.View (spec §6's episode-row view). It carries no DDL or
// maintenance behaviour: it only reads rows column by column.
type Buffer struct {
	rows    pgx.Rows
	columns map[string]int
	current []any
	done    bool
}

// Open runs the episode-row query over view, ordered the way pkg/hierarchy
// requires (spec §4.5): nhs_number, spell_id, episode order. Per spec
// §4.12 the cursor reads its first row on construction; for an empty
// result set Open returns no Buffer and rowbuf.ErrNoMoreRows.
func Open(ctx context.Context, pool *pgxpool.Pool, view string) (*Buffer, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s ORDER BY nhs_number, spell_id, episode_start",
		pgx.Identifier{view}.Sanitize(),
	)
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", view, err)
	}
	return newBuffer(rows)
}

func newBuffer(rows pgx.Rows) (*Buffer, error) {
	fields := rows.FieldDescriptions()
	columns := make(map[string]int, len(fields))
	for i, f := range fields {
		columns[f.Name] = i
	}
	b := &Buffer{rows: rows, columns: columns}
	if err := b.advance(); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *Buffer) advance() error {
	if !b.rows.Next() {
		b.done = true
		b.current = nil
		b.rows.Close()
		if err := b.rows.Err(); err != nil {
			return fmt.Errorf("reading cursor: %w", err)
		}
		return rowbuf.ErrNoMoreRows
	}
	values, err := b.rows.Values()
	if err != nil {
		return fmt.Errorf("reading row values: %w", err)
	}
	b.current = values
	return nil
}

// FetchNextRow advances the cursor by one row.
func (b *Buffer) FetchNextRow() error {
	if b.done {
		return rowbuf.ErrNoMoreRows
	}
	return b.advance()
}

func (b *Buffer) cell(column string) (any, error) {
	if b.done {
		return nil, rowbuf.ErrNoMoreRows
	}
	idx, ok := b.columns[column]
	if !ok {
		return nil, &rowbuf.ErrColumnNotFound{Column: column}
	}
	return b.current[idx], nil
}

// AtVarchar reads column as a nullable string.
func (b *Buffer) AtVarchar(column string) (rowbuf.Varchar, error) {
	v, err := b.cell(column)
	if err != nil {
		return rowbuf.Varchar{}, err
	}
	if v == nil {
		return rowbuf.Varchar{IsNull: true}, nil
	}
	s, ok := v.(string)
	if !ok {
		return rowbuf.Varchar{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "varchar", Have: fmt.Sprintf("%T", v)}
	}
	return rowbuf.Varchar{Value: s}, nil
}

// AtInteger reads column as a nullable integer. pgx returns integer
// columns as int32 or int64 depending on the Postgres column type; both
// are accepted and narrowed to int.
func (b *Buffer) AtInteger(column string) (rowbuf.Integer, error) {
	v, err := b.cell(column)
	if err != nil {
		return rowbuf.Integer{}, err
	}
	if v == nil {
		return rowbuf.Integer{IsNull: true}, nil
	}
	switch n := v.(type) {
	case int32:
		return rowbuf.Integer{Value: int(n)}, nil
	case int64:
		return rowbuf.Integer{Value: int(n)}, nil
	case int:
		return rowbuf.Integer{Value: n}, nil
	default:
		return rowbuf.Integer{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "integer", Have: fmt.Sprintf("%T", v)}
	}
}

// AtTimestamp reads column as a nullable timestamp.
func (b *Buffer) AtTimestamp(column string) (rowbuf.Timestamp, error) {
	v, err := b.cell(column)
	if err != nil {
		return rowbuf.Timestamp{}, err
	}
	if v == nil {
		return rowbuf.Timestamp{IsNull: true}, nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return rowbuf.Timestamp{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "timestamp", Have: fmt.Sprintf("%T", v)}
	}
	return rowbuf.Timestamp{Value: t}, nil
}
