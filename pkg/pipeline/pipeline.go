package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/cardionet/acsdex/pkg/hierarchy"
	"github.com/cardionet/acsdex/pkg/indexpass"
	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// Run drives one full sequential pass over cfg.RowBuffer (spec §5): it
// reconstructs one Patient at a time, runs the index-event pass over
// it, and writes every resulting feature record to cfg.Sink. A fatal
// row/schema error aborts the whole run; a DeathBeforeIndex (or any
// other per-patient indexpass failure) only skips that patient and is
// logged, per spec §7's "catches DataError per-patient and continues".
func Run(ctx context.Context, cfg RunConfig) (Summary, error) {
	runID := uuid.New()
	start := time.Now()
	log := cfg.Logger.With("run_id", runID.String())

	cancelEvery := cfg.CancelEvery
	if cancelEvery <= 0 {
		cancelEvery = 1
	}

	summary := Summary{RunID: runID}

	bar := pb.New64(0)
	bar.Set(pb.CleanOnFinish, true)
	bar.SetRefreshRate(500 * time.Millisecond)
	bar.Start()
	defer bar.Finish()

	log.Info("starting run")

	state := hierarchy.Open
	for state == hierarchy.Open {
		if summary.PatientsProcessed%cancelEvery == 0 {
			select {
			case <-ctx.Done():
				log.Warn("run cancelled", "patients_processed", summary.PatientsProcessed)
				return finish(summary, start), ctx.Err()
			default:
			}
		}

		patient, buildErr := hierarchy.BuildPatient(cfg.RowBuffer, cfg.Classifier)
		nextState, stateErr := hierarchy.NextState(buildErr)
		if stateErr != nil {
			return finish(summary, start), stateErr
		}
		state = nextState

		summary.PatientsProcessed++
		bar.Increment()

		records, err := indexpass.Run(patient, cfg.Metagroups, int64(cfg.WindowSeconds))
		if err != nil {
			summary.PatientsSkipped++
			log.Warn("skipping patient",
				"nhs_number", patient.NHSNumber,
				"error", err,
			)
			continue
		}

		for _, rec := range records {
			if err := cfg.Sink.Write(rec); err != nil {
				return finish(summary, start), err
			}
			summary.RecordsEmitted++
		}
	}

	summary = finish(summary, start)
	log.Info("run complete",
		"patients_processed", humanize.Comma(int64(summary.PatientsProcessed)),
		"patients_skipped", humanize.Comma(int64(summary.PatientsSkipped)),
		"records_emitted", humanize.Comma(int64(summary.RecordsEmitted)),
		"duration", summary.Duration.String(),
	)
	return summary, nil
}

func finish(summary Summary, start time.Time) Summary {
	summary.Duration = time.Since(start)
	return summary
}

// IsFatal reports whether err, as returned by Run, is an error other
// than context cancellation. Per-patient skips are never returned by Run.
func IsFatal(err error) bool {
	return err != nil && !errors.Is(err, context.Canceled)
}
