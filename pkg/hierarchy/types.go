package hierarchy

import (
	"time"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/mortality"
)

// Episode is a contiguous period of care under one responsible clinician
// (spec §3).
type Episode struct {
	Start, End          time.Time
	AgeAtEpisode        *int
	PrimaryDiagnosis    codes.ClinicalCode
	PrimaryProcedure    codes.ClinicalCode
	SecondaryDiagnoses  []codes.ClinicalCode
	SecondaryProcedures []codes.ClinicalCode
}

// Spell is a contiguous hospital stay composed of one or more episodes
// (spec §3). A Spell with zero episodes is "empty" and is never produced
// by BuildSpell (an empty spell cannot occur per spec §4.7); callers
// that discard empty spells do so defensively, not because this package
// emits them.
type Spell struct {
	SpellID  string
	Start    time.Time
	End      time.Time
	Episodes []Episode
}

// Empty reports whether s has no episodes.
func (s Spell) Empty() bool { return len(s.Episodes) == 0 }

// Patient is one patient's full record for a run: every spell ordered as
// read, plus mortality outcome (spec §3).
type Patient struct {
	NHSNumber int
	Spells    []Spell
	Mortality mortality.Mortality
}
