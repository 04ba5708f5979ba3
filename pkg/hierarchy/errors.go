package hierarchy

import (
	"fmt"

	"github.com/cardionet/acsdex/pkg/errcode"
	"github.com/gnames/gn"
)

// missingRequiredField builds the fatal-per-row error of spec §4.6 when a
// required episode column is absent from the current row.
func missingRequiredField(column string, cause error) error {
	return &gn.Error{
		Code: errcode.MissingRequiredFieldError,
		Msg:  "required column missing on current row",
		Vars: []any{column},
		Err:  fmt.Errorf("missing required field %q: %w", column, cause),
	}
}
