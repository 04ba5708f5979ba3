package pipeline_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/indexpass"
	"github.com/cardionet/acsdex/pkg/pipeline"
	"github.com/cardionet/acsdex/pkg/rowbuf"
	"github.com/cardionet/acsdex/pkg/strintern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type spySink struct {
	records []indexpass.FeatureRecord
}

func (s *spySink) Write(rec indexpass.FeatureRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func testPipelineClassifier(t *testing.T) (*codes.Classifier, indexpass.Metagroups) {
	t.Helper()
	diagYAML := []byte(`
groups: [acs_stemi]
categories:
  - name: I21.0
    docs: acute MI
    index: I210
`)
	procYAML := []byte(`
groups: [other_procedure]
categories:
  - name: Z00
    docs: examination
    index: Z00
`)
	diag, err := codes.ParseTaxonomy(diagYAML)
	require.NoError(t, err)
	proc, err := codes.ParseTaxonomy(procYAML)
	require.NoError(t, err)

	in := strintern.New()
	cl := codes.NewClassifier(in, diag, proc)
	mg := indexpass.Metagroups{
		ACS:          codes.NewMetagroup("ACS", codes.Group(in.Intern("acs_stemi"))),
		PCI:          codes.NewMetagroup("PCI"),
		STEMI:        codes.NewMetagroup("STEMI", codes.Group(in.Intern("acs_stemi"))),
		CardiacDeath: codes.NewMetagroup("CardiacDeath"),
	}
	return cl, mg
}

func patientRow(nhs int, spellID string, when time.Time, pd string) rowbuf.Row {
	return rowbuf.Row{
		"nhs_number":         nhs,
		"date_of_death":      nil,
		"cause_of_death":     nil,
		"age_at_death":       nil,
		"spell_id":           spellID,
		"spell_start":        when,
		"spell_end":          when,
		"age_at_episode":     55,
		"episode_start":      when,
		"episode_end":        when,
		"primary_diagnosis":  pd,
		"primary_procedure":  "",
	}
}

func TestRun_ProcessesEveryPatientAndEmitsRecords(t *testing.T) {
	cl, mg := testPipelineClassifier(t)
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := []rowbuf.Row{
		patientRow(1, "A", when, "I21.0"),
		patientRow(2, "B", when, "I21.0"),
	}
	buf := rowbuf.NewMock(rows)
	sink := &spySink{}

	summary, err := pipeline.Run(context.Background(), pipeline.RunConfig{
		RowBuffer:     buf,
		Classifier:    cl,
		Metagroups:    mg,
		WindowSeconds: 3600,
		Sink:          sink,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		CancelEvery:   10,
	})

	require.NoError(t, err)
	assert.Equal(t, 2, summary.PatientsProcessed)
	assert.Equal(t, 0, summary.PatientsSkipped)
	assert.Equal(t, 2, summary.RecordsEmitted)
	assert.Len(t, sink.records, 2)
}

func TestRun_CancellationStopsTheRun(t *testing.T) {
	cl, mg := testPipelineClassifier(t)
	when := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	rows := []rowbuf.Row{
		patientRow(1, "A", when, "I21.0"),
		patientRow(2, "B", when, "I21.0"),
	}
	buf := rowbuf.NewMock(rows)
	sink := &spySink{}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := pipeline.Run(ctx, pipeline.RunConfig{
		RowBuffer:     buf,
		Classifier:    cl,
		Metagroups:    mg,
		WindowSeconds: 3600,
		Sink:          sink,
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		CancelEvery:   1,
	})

	require.Error(t, err)
	assert.Equal(t, 0, summary.PatientsProcessed)
}
