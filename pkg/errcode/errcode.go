// Package errcode enumerates the error codes used across acsdex's
// gn.Error values. Grouped by the error kinds of spec §7: ConfigError,
// SchemaError, RowError and DataError. EndOfStream is not listed here —
// it is normal control flow, represented by a sentinel in pkg/rowbuf.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// Config errors (fatal at startup)
	BadTaxonomyError
	EmptyCodeGroupError
	InvalidWindowError

	// Schema errors (required columns missing or mistyped)
	ColumnNotFoundError
	WrongColumnTypeError
	MissingRequiredFieldError

	// Row errors (recoverable per row)
	InvalidCodeError

	// Data errors (violate a semantic invariant, skip the record)
	DeathBeforeIndexError
)
