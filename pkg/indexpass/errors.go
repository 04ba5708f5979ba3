package indexpass

import (
	"fmt"

	"github.com/cardionet/acsdex/pkg/errcode"
	"github.com/gnames/gn"
)

// deathBeforeIndex builds the fatal-per-patient error of spec §4.11 step
// 5 when a recorded date of death precedes the index date. The patient
// is skipped from output entirely, not just the offending record.
func deathBeforeIndex(nhsNumber int) error {
	return &gn.Error{
		Code: errcode.DeathBeforeIndexError,
		Msg:  "date of death precedes index date",
		Vars: []any{nhsNumber},
		Err:  fmt.Errorf("nhs_number %d: date of death precedes index date", nhsNumber),
	}
}
