package hierarchy

import (
	"errors"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/mortality"
	"github.com/cardionet/acsdex/pkg/rowbuf"
)

// BuildPatient reads one contiguous block of rows sharing the current
// row's nhs_number into a Patient (spec §4.8). Mortality is read once
// from the block's first row (the mortality columns are constant
// within a patient). Algorithm mirrors BuildSpell but keyed on
// nhs_number; the same (value, error) convention applies: nil or
// rowbuf.ErrNoMoreRows both return a usable Patient, any other error is
// fatal.
func BuildPatient(buf rowbuf.Buffer, cl *codes.Classifier) (Patient, error) {
	nhsNumber, err := buf.AtInteger("nhs_number")
	if err != nil {
		return Patient{}, missingRequiredField("nhs_number", err)
	}

	outcome, err := mortality.Read(buf, cl)
	if err != nil {
		return Patient{}, err
	}

	patient := Patient{
		NHSNumber: nhsNumber.Value,
		Mortality: outcome,
	}

	for {
		spell, err := BuildSpell(buf, cl)
		exhausted := errors.Is(err, rowbuf.ErrNoMoreRows)
		if err != nil && !exhausted {
			return Patient{}, err
		}
		patient.Spells = append(patient.Spells, spell)

		if exhausted {
			return patient, rowbuf.ErrNoMoreRows
		}

		nextNHS, err := buf.AtInteger("nhs_number")
		if err != nil {
			return Patient{}, missingRequiredField("nhs_number", err)
		}
		if nextNHS.Value != patient.NHSNumber {
			return patient, nil
		}
	}
}
