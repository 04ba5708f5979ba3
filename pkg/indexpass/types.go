// Package indexpass implements the index-event extraction and windowed
// counting pass of spec §4.11: it finds ACS/PCI index spells within a
// patient, partitions the remaining spells into before/after windows,
// and emits one feature record per index spell.
package indexpass

import "github.com/cardionet/acsdex/pkg/codes"

// Presentation classifies an index spell's clinical presentation.
type Presentation int

const (
	NSTEMI Presentation = iota
	STEMI
)

func (p Presentation) String() string {
	if p == STEMI {
		return "STEMI"
	}
	return "NSTEMI"
}

// InclusionTrigger records why a spell qualified as an index event.
type InclusionTrigger int

const (
	ACS InclusionTrigger = iota
	PCI
)

func (t InclusionTrigger) String() string {
	if t == PCI {
		return "PCI"
	}
	return "ACS"
}

// CauseOfDeathKind classifies a feature record's mortality outcome.
type CauseOfDeathKind int

const (
	NoDeath CauseOfDeathKind = iota
	Cardiac
	AllCause
)

func (k CauseOfDeathKind) String() string {
	switch k {
	case Cardiac:
		return "cardiac"
	case AllCause:
		return "all_cause"
	default:
		return "no_death"
	}
}

// FeatureRecord is the per-index-event output of spec §3.
type FeatureRecord struct {
	NHSNumber        int
	IndexDate        int64 // seconds since Unix epoch
	AgeAtIndex       *int
	Presentation     Presentation
	InclusionTrigger InclusionTrigger
	CountsBefore     map[codes.Group]int
	CountsAfter      map[codes.Group]int
	SurvivalTime     *int64 // seconds; nil when no death within window
	CauseOfDeathKind CauseOfDeathKind
}

// Metagroups bundles the four named collections the pass is parameterised
// over (spec §4.11).
type Metagroups struct {
	ACS          codes.Metagroup
	PCI          codes.Metagroup
	STEMI        codes.Metagroup
	CardiacDeath codes.Metagroup
}
