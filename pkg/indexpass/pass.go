package indexpass

import (
	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/events"
	"github.com/cardionet/acsdex/pkg/hierarchy"
)

// Run executes the index-event pass over one patient (spec §4.11),
// returning one FeatureRecord per index spell. window is the window
// length in seconds. A DeathBeforeIndex failure is fatal for the whole
// patient: Run returns no records and the error, per spec §4.11
// "Failures".
func Run(patient hierarchy.Patient, mg Metagroups, window int64) ([]FeatureRecord, error) {
	var records []FeatureRecord

	for i, spell := range patient.Spells {
		if spell.Empty() {
			continue
		}
		e0 := spell.Episodes[0]

		if !mg.ACS.Contains(e0.PrimaryDiagnosis) && !mg.PCI.Contains(e0.PrimaryProcedure) {
			continue
		}

		d := e0.Start.Unix()

		trigger := ACS
		if mg.PCI.Contains(e0.PrimaryProcedure) {
			trigger = PCI
		}

		presentation := NSTEMI
		if spellHasCode(spell, mg.STEMI) {
			presentation = STEMI
		}

		counter := events.NewCounter()
		for _, ep := range spell.Episodes {
			for _, sd := range ep.SecondaryDiagnoses {
				pushGroups(counter.PushBefore, sd)
			}
		}

		for j, other := range patient.Spells {
			if j == i || other.Empty() {
				continue
			}
			delta := other.Start.Unix() - d
			switch {
			case delta >= -window && delta < 0:
				pushSpellCodes(other, counter.PushBefore)
			case delta > 0 && delta <= window:
				pushSpellCodes(other, counter.PushAfter)
			}
		}

		survivalTime, kind, err := resolveMortality(patient, mg, d, window)
		if err != nil {
			return nil, err
		}

		records = append(records, FeatureRecord{
			NHSNumber:        patient.NHSNumber,
			IndexDate:        d,
			AgeAtIndex:       e0.AgeAtEpisode,
			Presentation:     presentation,
			InclusionTrigger: trigger,
			CountsBefore:     counter.CountsBefore(),
			CountsAfter:      counter.CountsAfter(),
			SurvivalTime:     survivalTime,
			CauseOfDeathKind: kind,
		})
	}

	return records, nil
}

// resolveMortality implements spec §4.11 step 5. Deceased patients whose
// date of death is not itself populated cannot have a survival time
// computed against the index date; they are treated the same as a death
// found outside the window (no death within window, per the "T > W"
// branch), since nothing distinguishes the two cases from the available
// fields.
func resolveMortality(patient hierarchy.Patient, mg Metagroups, indexDate, window int64) (*int64, CauseOfDeathKind, error) {
	if patient.Mortality.IsAlive() {
		return nil, NoDeath, nil
	}

	dod, hasDate := patient.Mortality.DateOfDeath()
	if !hasDate {
		return nil, NoDeath, nil
	}

	t := dod.Unix() - indexDate
	if t < 0 {
		return nil, NoDeath, deathBeforeIndex(patient.NHSNumber)
	}
	if t > window {
		return nil, NoDeath, nil
	}

	kind := AllCause
	if mg.CardiacDeath.Contains(patient.Mortality.CauseOfDeath()) {
		kind = Cardiac
	}
	return &t, kind, nil
}

func spellHasCode(spell hierarchy.Spell, mg codes.Metagroup) bool {
	for _, ep := range spell.Episodes {
		if mg.Contains(ep.PrimaryDiagnosis) || mg.Contains(ep.PrimaryProcedure) {
			return true
		}
		for _, c := range ep.SecondaryDiagnoses {
			if mg.Contains(c) {
				return true
			}
		}
		for _, c := range ep.SecondaryProcedures {
			if mg.Contains(c) {
				return true
			}
		}
	}
	return false
}

// pushSpellCodes pushes the groups of every code (primary and secondary,
// diagnoses and procedures) across every episode of spell (spec §4.11
// step 4, counts_before item (ii) and counts_after).
func pushSpellCodes(spell hierarchy.Spell, push func(codes.Group)) {
	for _, ep := range spell.Episodes {
		pushGroups(push, ep.PrimaryDiagnosis)
		pushGroups(push, ep.PrimaryProcedure)
		for _, c := range ep.SecondaryDiagnoses {
			pushGroups(push, c)
		}
		for _, c := range ep.SecondaryProcedures {
			pushGroups(push, c)
		}
	}
}

func pushGroups(push func(codes.Group), code codes.ClinicalCode) {
	for _, g := range code.Groups() {
		push(g)
	}
}
