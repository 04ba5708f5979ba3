// Package pipeline wires the core packages into one runnable pass: row
// buffer -> hierarchy builder -> index-event pass -> sink, owning
// cooperative cancellation, progress reporting, and run-correlated
// logging around them (spec §5).
package pipeline

import (
	"log/slog"
	"time"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/indexpass"
	"github.com/cardionet/acsdex/pkg/rowbuf"
	"github.com/google/uuid"
)

// RecordSink receives every feature record the index-event pass emits.
// internal/io/export's CSV writer implements this.
type RecordSink interface {
	Write(rec indexpass.FeatureRecord) error
}

// RunConfig bundles everything one pipeline pass needs. RowBuffer and
// Classifier must already be constructed; Run never builds them.
type RunConfig struct {
	RowBuffer     rowbuf.Buffer
	Classifier    *codes.Classifier
	Metagroups    indexpass.Metagroups
	WindowSeconds int
	Sink          RecordSink
	Logger        *slog.Logger

	// CancelEvery is how many patients pass between cooperative
	// cancellation checks (spec §5: "e.g. every 10 patients"). Values
	// <= 0 are treated as 1 (check every patient).
	CancelEvery int
}

// Summary reports what one Run call did.
type Summary struct {
	RunID             uuid.UUID
	PatientsProcessed int
	PatientsSkipped   int
	RecordsEmitted    int
	Duration          time.Duration
}
