package main

import (
	"context"
	"fmt"
	"os"

	ioconfig "github.com/cardionet/acsdex/internal/io/config"
	"github.com/cardionet/acsdex/internal/io/database"
	"github.com/cardionet/acsdex/internal/io/export"
	"github.com/cardionet/acsdex/internal/io/sqlitebuf"
	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/indexpass"
	"github.com/cardionet/acsdex/pkg/pipeline"
	"github.com/cardionet/acsdex/pkg/rowbuf"
	"github.com/cardionet/acsdex/pkg/strintern"
	"github.com/spf13/cobra"
)

var (
	sqliteFile string
	outputFile string
)

func getRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the ACS index-event pass over a row source",
		Long: `run streams episode rows ordered by (nhs_number, spell_id,
episode_start), reconstructs each patient's spell/episode hierarchy,
locates ACS/PCI index events, and writes one feature record per index
event to a CSV file.

By default rows are read from the configured PostgreSQL view. Pass
--sqlite to read from a SQLite fixture table instead (same view name,
same column contract) — useful for local development and integration
tests without a live database.

Examples:
  acsdex run --output features.csv
  acsdex run --sqlite fixtures.db --output features.csv`,
		RunE: runRun,
	}

	cmd.Flags().StringVar(&sqliteFile, "sqlite", "",
		"path to a SQLite fixture database (read the configured view name from it instead of PostgreSQL)")
	cmd.Flags().StringVar(&outputFile, "output", "acsdex_features.csv",
		"path to write the CSV feature table to")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	interner := strintern.New()

	diagnoses, err := ioconfig.LoadTaxonomy(cfg.Parser.DiagnosesFile)
	if err != nil {
		return fmt.Errorf("loading diagnoses taxonomy: %w", err)
	}
	procedures, err := ioconfig.LoadTaxonomy(cfg.Parser.ProceduresFile)
	if err != nil {
		return fmt.Errorf("loading procedures taxonomy: %w", err)
	}

	classifier := codes.NewClassifier(interner, diagnoses, procedures)

	metagroups := buildMetagroups(interner)

	buf, closeBuf, err := openRowBuffer(ctx)
	if err != nil {
		return err
	}
	defer closeBuf()

	sink, flush, err := openSink(interner, diagnoses, procedures)
	if err != nil {
		return err
	}

	summary, err := pipeline.Run(ctx, pipeline.RunConfig{
		RowBuffer:     buf,
		Classifier:    classifier,
		Metagroups:    metagroups,
		WindowSeconds: cfg.WindowSeconds,
		Sink:          sink,
		Logger:        log,
		CancelEvery:   10,
	})
	if flushErr := flush(); flushErr != nil && err == nil {
		err = flushErr
	}
	if err != nil {
		return err
	}

	fields := []any{
		"patients_processed", summary.PatientsProcessed,
		"patients_skipped", summary.PatientsSkipped,
		"records_emitted", summary.RecordsEmitted,
	}
	if cfg.SaveRecords {
		fields = append(fields, "output", outputFile)
	}
	log.Info("acsdex run finished", fields...)
	return nil
}

// discardSink implements pipeline.RecordSink without persisting
// anything, for a run with save_records disabled (spec §6
// "save_records"): the pass still computes every feature record, they
// are just never written anywhere.
type discardSink struct{}

func (discardSink) Write(indexpass.FeatureRecord) error { return nil }

// openSink builds the pipeline.RecordSink for this run and the flush
// function callers must defer. With cfg.SaveRecords false it returns a
// discardSink and never touches outputFile; otherwise it opens
// outputFile and writes the CSV feature table of spec §6 to it.
func openSink(interner *strintern.Interner, diagnoses, procedures *codes.Taxonomy) (pipeline.RecordSink, func() error, error) {
	if !cfg.SaveRecords {
		return discardSink{}, func() error { return nil }, nil
	}

	out, err := os.Create(outputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file %q: %w", outputFile, err)
	}

	groupNames := export.GroupNames(diagnoses, procedures)
	writer, err := export.NewWriter(out, interner, groupNames)
	if err != nil {
		out.Close()
		return nil, nil, fmt.Errorf("writing output header: %w", err)
	}

	return writer, func() error {
		flushErr := writer.Flush()
		closeErr := out.Close()
		if flushErr != nil {
			return flushErr
		}
		return closeErr
	}, nil
}

// openRowBuffer opens the configured row source: a SQLite fixture if
// --sqlite was given, otherwise a live PostgreSQL connection.
func openRowBuffer(ctx context.Context) (rowbuf.Buffer, func(), error) {
	if sqliteFile != "" {
		db, err := sqlitebuf.Open(sqliteFile)
		if err != nil {
			return nil, nil, fmt.Errorf("opening sqlite fixture %q: %w", sqliteFile, err)
		}
		buf, err := sqlitebuf.Query(db, cfg.Database.View)
		if err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("querying %q: %w", cfg.Database.View, err)
		}
		return buf, func() { db.Close() }, nil
	}

	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connecting to database: %w", err)
	}
	buf, err := database.Open(ctx, pool, cfg.Database.View)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("querying %q: %w", cfg.Database.View, err)
	}
	return buf, func() { pool.Close() }, nil
}

// buildMetagroups resolves the configured ACS/PCI/STEMI/cardiac-death
// group name lists into codes.Metagroup values, interning each name
// with the same interner the classifier was built over (spec §6
// "code_groups.*") so the ids line up with the ones CacheEntry carries.
func buildMetagroups(interner *strintern.Interner) indexpass.Metagroups {
	return indexpass.Metagroups{
		ACS:          metagroupFrom(interner, "acs", cfg.CodeGroups.ACS),
		PCI:          metagroupFrom(interner, "pci", cfg.CodeGroups.PCI),
		STEMI:        metagroupFrom(interner, "stemi", cfg.CodeGroups.STEMI),
		CardiacDeath: metagroupFrom(interner, "cardiac_death", cfg.CodeGroups.CardiacDeath),
	}
}

func metagroupFrom(interner *strintern.Interner, name string, groupNames []string) codes.Metagroup {
	groups := make([]codes.Group, 0, len(groupNames))
	for _, g := range groupNames {
		groups = append(groups, codes.Group(interner.Intern(g)))
	}
	return codes.NewMetagroup(name, groups...)
}
