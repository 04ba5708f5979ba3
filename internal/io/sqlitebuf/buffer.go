// Package sqlitebuf implements a rowbuf.Buffer backed by an embeddable
// SQLite database, using modernc.org/sqlite's pure-Go driver (no CGo).
// It is the server-free row source for fixtures, local development, and
// integration tests that don't want a live Postgres instance; it reads
// from an existing SQLite database file.
package sqlitebuf

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/cardionet/acsdex/pkg/rowbuf"
	_ "modernc.org/sqlite"
)

// Open opens a SQLite database file and returns a database handle.
func Open(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("sqlite file does not exist: %s", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to sqlite database %s: %w", path, err)
	}
	return db, nil
}

// Buffer is a rowbuf.Buffer over a *sql.Rows cursor opened against view
// (spec §6's episode-row view, stored as an ordinary table in a SQLite
// fixture). Construction reads the first row per spec §4.12.
type Buffer struct {
	rows    *sql.Rows
	columns map[string]int
	current []any
	done    bool
}

// Query opens view ordered the way pkg/hierarchy requires: nhs_number,
// spell_id, episode order.
func Query(db *sql.DB, view string) (*Buffer, error) {
	query := fmt.Sprintf(
		"SELECT * FROM %s ORDER BY nhs_number, spell_id, episode_start",
		view,
	)
	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", view, err)
	}
	return newBuffer(rows)
}

func newBuffer(rows *sql.Rows) (*Buffer, error) {
	names, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, fmt.Errorf("reading columns: %w", err)
	}
	columns := make(map[string]int, len(names))
	for i, n := range names {
		columns[n] = i
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

	dest := make([]any, len(b.columns))
	ptrs := make([]any, len(dest))
	for i := range dest {
		ptrs[i] = &dest[i]
	}
	if err := b.rows.Scan(ptrs...); err != nil {
		return fmt.Errorf("scanning row: %w", err)
	}
	b.current = dest
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
	switch s := v.(type) {
	case string:
		return rowbuf.Varchar{Value: s}, nil
	case []byte:
		return rowbuf.Varchar{Value: string(s)}, nil
	default:
		return rowbuf.Varchar{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "varchar", Have: fmt.Sprintf("%T", v)}
	}
}

// AtInteger reads column as a nullable integer. database/sql surfaces
// SQLite INTEGER columns as int64.
func (b *Buffer) AtInteger(column string) (rowbuf.Integer, error) {
	v, err := b.cell(column)
	if err != nil {
		return rowbuf.Integer{}, err
	}
	if v == nil {
		return rowbuf.Integer{IsNull: true}, nil
	}
	switch n := v.(type) {
	case int64:
		return rowbuf.Integer{Value: int(n)}, nil
	case int:
		return rowbuf.Integer{Value: n}, nil
	default:
		return rowbuf.Integer{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "integer", Have: fmt.Sprintf("%T", v)}
	}
}

// AtTimestamp reads column as a nullable timestamp. SQLite has no native
// timestamp type; fixtures store it as RFC 3339 text.
func (b *Buffer) AtTimestamp(column string) (rowbuf.Timestamp, error) {
	v, err := b.cell(column)
	if err != nil {
		return rowbuf.Timestamp{}, err
	}
	if v == nil {
		return rowbuf.Timestamp{IsNull: true}, nil
	}
	var text string
	switch s := v.(type) {
	case string:
		text = s
	case []byte:
		text = string(s)
	case time.Time:
		return rowbuf.Timestamp{Value: s}, nil
	default:
		return rowbuf.Timestamp{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "timestamp", Have: fmt.Sprintf("%T", v)}
	}
	t, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return rowbuf.Timestamp{}, &rowbuf.ErrWrongColumnType{Column: column, Want: "timestamp", Have: fmt.Sprintf("unparsable %q", text)}
	}
	return rowbuf.Timestamp{Value: t}, nil
}
