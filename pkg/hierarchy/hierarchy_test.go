package hierarchy_test

import (
	"testing"
	"time"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/hierarchy"
	"github.com/cardionet/acsdex/pkg/rowbuf"
	"github.com/cardionet/acsdex/pkg/strintern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClassifier(t *testing.T) *codes.Classifier {
	t.Helper()
	diagYAML := []byte(`
groups: [acs_stemi]
categories:
  - name: I21.0
    docs: acute transmural MI of anterior wall
    index: I210
    exclude: []
`)
	procYAML := []byte(`
groups: [other_procedure]
categories:
  - name: K43.2
    docs: other repair of diaphragmatic hernia
    index: K432
  - name: Z00
    docs: general examination
    index: Z00
`)
	diag, err := codes.ParseTaxonomy(diagYAML)
	require.NoError(t, err)
	proc, err := codes.ParseTaxonomy(procYAML)
	require.NoError(t, err)
	return codes.NewClassifier(strintern.New(), diag, proc)
}

func baseRow(nhs int, spellID string, epStart time.Time, pd, pp string) rowbuf.Row {
	return rowbuf.Row{
		"nhs_number":      nhs,
		"date_of_death":   nil,
		"cause_of_death":  nil,
		"age_at_death":    nil,
		"spell_id":        spellID,
		"spell_start":     epStart,
		"spell_end":       epStart,
		"age_at_episode":  50,
		"episode_start":   epStart,
		"episode_end":     epStart,
		"primary_diagnosis": pd,
		"primary_procedure": pp,
	}
}

// S4: streaming hierarchy reconstruction across spells and patients.
func TestBuildPatient_S4_StreamingHierarchy(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	t4 := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	rows := []rowbuf.Row{
		baseRow(1, "A", t1, "I21.0", ""),
		baseRow(1, "A", t2, "", "K43.2"),
		baseRow(1, "B", t3, "Z00", ""),
		baseRow(2, "C", t4, "I21.0", ""),
	}
	buf := rowbuf.NewMock(rows)
	cl := testClassifier(t)

	p1, err := hierarchy.BuildPatient(buf, cl)
	require.NoError(t, err)
	assert.Equal(t, 1, p1.NHSNumber)
	require.Len(t, p1.Spells, 2)
	assert.Len(t, p1.Spells[0].Episodes, 2)
	assert.Len(t, p1.Spells[1].Episodes, 1)

	p2, err := hierarchy.BuildPatient(buf, cl)
	require.ErrorIs(t, err, rowbuf.ErrNoMoreRows)
	assert.Equal(t, 2, p2.NHSNumber)
	require.Len(t, p2.Spells, 1)
	assert.Len(t, p2.Spells[0].Episodes, 1)
}

func TestBuildSpell_SecondaryColumnsSkipNullButContinueScan(t *testing.T) {
	t1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	row := baseRow(1, "A", t1, "I21.0", "")
	row["secondary_diagnosis_0"] = nil
	row["secondary_diagnosis_1"] = "I21.0"
	buf := rowbuf.NewMock([]rowbuf.Row{row})
	cl := testClassifier(t)

	spell, err := hierarchy.BuildSpell(buf, cl)
	require.ErrorIs(t, err, rowbuf.ErrNoMoreRows)
	require.Len(t, spell.Episodes, 1)
	require.Len(t, spell.Episodes[0].SecondaryDiagnoses, 1)
	assert.True(t, spell.Episodes[0].SecondaryDiagnoses[0].IsValid())
}

func TestBuildEpisode_MissingRequiredFieldIsFatal(t *testing.T) {
	buf := rowbuf.NewMock([]rowbuf.Row{{
		"age_at_episode": 50,
	}})
	_, err := hierarchy.BuildEpisode(buf, testClassifier(t))
	require.Error(t, err)
}
