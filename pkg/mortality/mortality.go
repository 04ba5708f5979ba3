// Package mortality implements the mortality reader of spec §4.9: a
// patient is Alive or Deceased, and death, when present, carries a
// diagnosis-classified cause.
package mortality

import (
	"time"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/rowbuf"
)

// Mortality is the tagged outcome of spec §3: Alive, or Deceased with
// whichever of the three source fields were populated.
type Mortality struct {
	deceased bool

	dateOfDeath  time.Time
	hasDate      bool
	causeOfDeath codes.ClinicalCode
	ageAtDeath   *int
}

// Alive constructs the Alive outcome.
func Alive() Mortality { return Mortality{} }

// Deceased constructs the Deceased outcome from the populated fields.
func Deceased(dateOfDeath time.Time, hasDate bool, cause codes.ClinicalCode, ageAtDeath *int) Mortality {
	return Mortality{
		deceased:     true,
		dateOfDeath:  dateOfDeath,
		hasDate:      hasDate,
		causeOfDeath: cause,
		ageAtDeath:   ageAtDeath,
	}
}

// IsAlive reports whether the patient is alive (all three source
// fields were null).
func (m Mortality) IsAlive() bool { return !m.deceased }

// DateOfDeath returns the date of death and whether it was populated.
func (m Mortality) DateOfDeath() (time.Time, bool) { return m.dateOfDeath, m.deceased && m.hasDate }

// CauseOfDeath returns the classified cause of death. Only meaningful
// when Deceased and the source cause column was non-null.
func (m Mortality) CauseOfDeath() codes.ClinicalCode { return m.causeOfDeath }

// AgeAtDeath returns the age at death, if populated.
func (m Mortality) AgeAtDeath() *int { return m.ageAtDeath }

// Read builds the Mortality value from the current row (spec §4.9):
// date_of_death, cause_of_death, age_at_death. If all three are null,
// the outcome is Alive; otherwise Deceased, with cause_of_death
// classified against the diagnosis taxonomy.
func Read(buf rowbuf.Buffer, cl *codes.Classifier) (Mortality, error) {
	dod, err := buf.AtTimestamp("date_of_death")
	if err != nil {
		return Mortality{}, err
	}
	cause, err := buf.AtVarchar("cause_of_death")
	if err != nil {
		return Mortality{}, err
	}
	age, err := buf.AtInteger("age_at_death")
	if err != nil {
		return Mortality{}, err
	}

	if dod.Null() && cause.Null() && age.Null() {
		return Alive(), nil
	}

	var agePtr *int
	if !age.Null() {
		v := age.Value
		agePtr = &v
	}

	causeCode := codes.Null()
	if !cause.Null() {
		causeCode = cl.Classify(codes.Diagnosis, cause.Value)
	}

	return Deceased(dod.Value, !dod.Null(), causeCode, agePtr), nil
}
