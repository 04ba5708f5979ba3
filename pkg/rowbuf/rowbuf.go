// Package rowbuf defines the row buffer contract the core consumes (spec
// §4.5, §4.12): uniform typed column access over a cursor positioned on
// exactly one "current" row, advanced one row at a time. Two concrete
// implementations exist outside this package: internal/io/database (a
// live Postgres cursor) and internal/io/sqlitebuf (an embeddable SQLite
// cursor); pkg/rowbuf itself also ships Mock, an in-memory fixture used by
// the tests of the packages that read rows without a real driver.
package rowbuf

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoMoreRows is the normal stream terminator (spec §4.12: Open
// --fetch end--> Exhausted). Callers use errors.Is to detect it.
var ErrNoMoreRows = errors.New("rowbuf: no more rows")

// ErrColumnNotFound is returned when a column name has no value on the
// current row at all (as opposed to a typed SQL NULL, which is a valid
// value carrying Null()==true).
type ErrColumnNotFound struct {
	Column string
}

func (e *ErrColumnNotFound) Error() string {
	return fmt.Sprintf("rowbuf: column not found: %s", e.Column)
}

// ErrWrongColumnType is returned when a column exists but was requested
// through the wrong typed accessor.
type ErrWrongColumnType struct {
	Column string
	Want   string
	Have   string
}

func (e *ErrWrongColumnType) Error() string {
	return fmt.Sprintf("rowbuf: column %s: want %s, have %s", e.Column, e.Want, e.Have)
}

// Varchar is a nullable string column value.
type Varchar struct {
	Value  string
	IsNull bool
}

// Null reports whether the underlying SQL cell was NULL.
func (v Varchar) Null() bool { return v.IsNull }

// Integer is a nullable integer column value.
type Integer struct {
	Value  int
	IsNull bool
}

// Null reports whether the underlying SQL cell was NULL.
func (v Integer) Null() bool { return v.IsNull }

// Timestamp is a nullable point-in-time column value.
type Timestamp struct {
	Value  time.Time
	IsNull bool
}

// Null reports whether the underlying SQL cell was NULL.
func (v Timestamp) Null() bool { return v.IsNull }

// Buffer is the uniform row access contract the core is written against
// (spec §4.5, §6, design note "Template-based row abstraction"). A Buffer
// is positioned on exactly one current row; FetchNextRow advances it by
// one. Construction of an implementation must read the first row and
// return ErrNoMoreRows if the source is empty (spec §4.12).
type Buffer interface {
	// AtVarchar reads column as a nullable string. Returns
	// *ErrColumnNotFound if the column is absent from the current row, or
	// *ErrWrongColumnType if the column exists under a different type.
	AtVarchar(column string) (Varchar, error)

	// AtInteger reads column as a nullable integer.
	AtInteger(column string) (Integer, error)

	// AtTimestamp reads column as a nullable timestamp.
	AtTimestamp(column string) (Timestamp, error)

	// FetchNextRow advances the cursor by one row. Returns ErrNoMoreRows
	// (check with errors.Is) once the source is exhausted; the Buffer
	// must not be read from again after that.
	FetchNextRow() error
}
