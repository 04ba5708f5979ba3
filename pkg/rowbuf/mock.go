package rowbuf

import (
	"time"
)

// Row is one row of a Mock buffer. A missing key means the column does
// not exist on this row (ColumnNotFound); a present key with a nil value
// means the column exists and is SQL NULL. Values are typed as string,
// int, or time.Time.
type Row map[string]any

// Mock is an in-memory Buffer built from a fixed slice of Row values. It
// is the primary test fixture for pkg/hierarchy, pkg/mortality and
// pkg/pipeline; production code uses internal/io/database or
// internal/io/sqlitebuf instead.
type Mock struct {
	rows []Row
	pos  int
	done bool
}

// NewMock constructs a Mock positioned on the first row of rows. Per
// spec §4.12, construction reads the first row; an empty slice means the
// Mock starts Exhausted and every accessor/FetchNextRow call returns
// ErrNoMoreRows.
func NewMock(rows []Row) *Mock {
	m := &Mock{rows: rows}
	if len(rows) == 0 {
		m.done = true
	}
	return m
}

func (m *Mock) current() (Row, error) {
	if m.done || m.pos >= len(m.rows) {
		return nil, ErrNoMoreRows
	}
	return m.rows[m.pos], nil
}

// FetchNextRow advances to the next row, or returns ErrNoMoreRows and
// marks the Mock Exhausted once the slice is consumed.
func (m *Mock) FetchNextRow() error {
	if m.done {
		return ErrNoMoreRows
	}
	m.pos++
	if m.pos >= len(m.rows) {
		m.done = true
		return ErrNoMoreRows
	}
	return nil
}

func (m *Mock) AtVarchar(column string) (Varchar, error) {
	row, err := m.current()
	if err != nil {
		return Varchar{}, err
	}
	v, ok := row[column]
	if !ok {
		return Varchar{}, &ErrColumnNotFound{Column: column}
	}
	if v == nil {
		return Varchar{IsNull: true}, nil
	}
	s, ok := v.(string)
	if !ok {
		return Varchar{}, &ErrWrongColumnType{Column: column, Want: "varchar", Have: goTypeName(v)}
	}
	return Varchar{Value: s}, nil
}

func (m *Mock) AtInteger(column string) (Integer, error) {
	row, err := m.current()
	if err != nil {
		return Integer{}, err
	}
	v, ok := row[column]
	if !ok {
		return Integer{}, &ErrColumnNotFound{Column: column}
	}
	if v == nil {
		return Integer{IsNull: true}, nil
	}
	i, ok := v.(int)
	if !ok {
		return Integer{}, &ErrWrongColumnType{Column: column, Want: "integer", Have: goTypeName(v)}
	}
	return Integer{Value: i}, nil
}

func (m *Mock) AtTimestamp(column string) (Timestamp, error) {
	row, err := m.current()
	if err != nil {
		return Timestamp{}, err
	}
	v, ok := row[column]
	if !ok {
		return Timestamp{}, &ErrColumnNotFound{Column: column}
	}
	if v == nil {
		return Timestamp{IsNull: true}, nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return Timestamp{}, &ErrWrongColumnType{Column: column, Want: "timestamp", Have: goTypeName(v)}
	}
	return Timestamp{Value: t}, nil
}

func goTypeName(v any) string {
	switch v.(type) {
	case string:
		return "varchar"
	case int:
		return "integer"
	case time.Time:
		return "timestamp"
	default:
		return "unknown"
	}
}
