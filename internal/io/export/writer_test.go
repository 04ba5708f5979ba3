package export_test

import (
	"strings"
	"testing"

	"github.com/cardionet/acsdex/internal/io/export"
	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/indexpass"
	"github.com/cardionet/acsdex/pkg/strintern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WritesHeaderAndRow(t *testing.T) {
	in := strintern.New()
	acsStemi := codes.Group(in.Intern("acs_stemi"))
	bleeding := codes.Group(in.Intern("bleeding"))

	var buf strings.Builder
	w, err := export.NewWriter(&buf, in, []string{"acs_stemi", "bleeding"})
	require.NoError(t, err)

	age := 61
	survival := int64(3600)
	rec := indexpass.FeatureRecord{
		NHSNumber:        42,
		IndexDate:        1000,
		AgeAtIndex:       &age,
		Presentation:     indexpass.STEMI,
		InclusionTrigger: indexpass.ACS,
		CountsBefore:     map[codes.Group]int{acsStemi: 2},
		CountsAfter:      map[codes.Group]int{bleeding: 1},
		SurvivalTime:     &survival,
		CauseOfDeathKind: indexpass.Cardiac,
	}
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "nhs_number,index_date,index_type,age,stemi,acs_stemi_before,bleeding_before,bleeding,survival_time,cause_of_death", lines[0])
	assert.Equal(t, "42,1000,0,61,1,2,0,1,3600,cardiac", lines[1])
}

func TestWriter_NullAgeAndNoDeathEmitSentinels(t *testing.T) {
	in := strintern.New()

	var buf strings.Builder
	w, err := export.NewWriter(&buf, in, []string{"acs_stemi"})
	require.NoError(t, err)

	rec := indexpass.FeatureRecord{
		NHSNumber:        7,
		IndexDate:        500,
		CountsBefore:     map[codes.Group]int{},
		CountsAfter:      map[codes.Group]int{},
		CauseOfDeathKind: indexpass.NoDeath,
	}
	require.NoError(t, w.Write(rec))
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	assert.Equal(t, "7,500,0,,0,0,0,-1,no_death", lines[1])
}

func TestGroupNames_MergesAndDedupesAcrossTaxonomies(t *testing.T) {
	diagYAML := []byte(`
groups: [acs_stemi, acs_other]
categories:
  - name: I21.0
    docs: mi
    index: I210
`)
	procYAML := []byte(`
groups: [acs_other, other_procedure]
categories:
  - name: K49.1
    docs: pci
    index: K491
`)
	diag, err := codes.ParseTaxonomy(diagYAML)
	require.NoError(t, err)
	proc, err := codes.ParseTaxonomy(procYAML)
	require.NoError(t, err)

	names := export.GroupNames(diag, proc)
	assert.Equal(t, []string{"acs_other", "acs_stemi", "other_procedure"}, names)
}
