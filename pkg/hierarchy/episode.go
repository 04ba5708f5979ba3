package hierarchy

import (
	"errors"
	"fmt"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/rowbuf"
)

// BuildEpisode builds one Episode from the current row (spec §4.6). It
// does not advance the cursor. Missing required columns
// (age_at_episode, episode_start, episode_end, primary_diagnosis,
// primary_procedure) are fatal for this row and reported as
// MissingRequiredField.
func BuildEpisode(buf rowbuf.Buffer, cl *codes.Classifier) (Episode, error) {
	age, err := buf.AtInteger("age_at_episode")
	if err != nil {
		return Episode{}, missingRequiredField("age_at_episode", err)
	}
	start, err := buf.AtTimestamp("episode_start")
	if err != nil {
		return Episode{}, missingRequiredField("episode_start", err)
	}
	end, err := buf.AtTimestamp("episode_end")
	if err != nil {
		return Episode{}, missingRequiredField("episode_end", err)
	}
	pd, err := buf.AtVarchar("primary_diagnosis")
	if err != nil {
		return Episode{}, missingRequiredField("primary_diagnosis", err)
	}
	pp, err := buf.AtVarchar("primary_procedure")
	if err != nil {
		return Episode{}, missingRequiredField("primary_procedure", err)
	}

	secDiag, err := scanSecondaries(buf, cl, "secondary_diagnosis", codes.Diagnosis)
	if err != nil {
		return Episode{}, err
	}
	secProc, err := scanSecondaries(buf, cl, "secondary_procedure", codes.Procedure)
	if err != nil {
		return Episode{}, err
	}

	var agePtr *int
	if !age.Null() {
		v := age.Value
		agePtr = &v
	}

	return Episode{
		Start:               start.Value,
		End:                 end.Value,
		AgeAtEpisode:        agePtr,
		PrimaryDiagnosis:    cl.Classify(codes.Diagnosis, pd.Value),
		PrimaryProcedure:    cl.Classify(codes.Procedure, pp.Value),
		SecondaryDiagnoses:  secDiag,
		SecondaryProcedures: secProc,
	}, nil
}

// scanSecondaries reads <prefix>_0..<prefix>_N-1 in ascending order,
// skipping entries that preprocess to Null (empty/NULL) without ending
// the scan, and terminating only on the first ColumnNotFound (spec §4.6,
// Open Question (i)).
func scanSecondaries(buf rowbuf.Buffer, cl *codes.Classifier, prefix string, codeType codes.CodeType) ([]codes.ClinicalCode, error) {
	var out []codes.ClinicalCode

	for k := 0; ; k++ {
		col := fmt.Sprintf("%s_%d", prefix, k)
		v, err := buf.AtVarchar(col)
		if err != nil {
			var notFound *rowbuf.ErrColumnNotFound
			if errors.As(err, &notFound) {
				break
			}
			return nil, err
		}

		code := cl.Classify(codeType, v.Value)
		if code.IsNull() {
			continue
		}
		out = append(out, code)
	}

	return out, nil
}
