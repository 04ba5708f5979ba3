package hierarchy

import (
	"errors"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/cardionet/acsdex/pkg/rowbuf"
)

// BuildSpell reads one contiguous block of rows sharing the current
// row's spell_id into a Spell (spec §4.7). It advances buf past every
// row belonging to the spell, leaving the cursor positioned on the
// first row of the next spell, or Exhausted.
//
// The returned error is nil on a clean key-change termination or
// rowbuf.ErrNoMoreRows on stream exhaustion; in both cases the Spell
// result is complete and usable. Any other error is fatal.
func BuildSpell(buf rowbuf.Buffer, cl *codes.Classifier) (Spell, error) {
	spellID, err := buf.AtVarchar("spell_id")
	if err != nil {
		return Spell{}, missingRequiredField("spell_id", err)
	}
	start, err := buf.AtTimestamp("spell_start")
	if err != nil {
		return Spell{}, missingRequiredField("spell_start", err)
	}
	end, err := buf.AtTimestamp("spell_end")
	if err != nil {
		return Spell{}, missingRequiredField("spell_end", err)
	}

	spell := Spell{
		SpellID: spellID.Value,
		Start:   start.Value,
		End:     end.Value,
	}

	for {
		ep, err := BuildEpisode(buf, cl)
		if err != nil {
			return Spell{}, err
		}
		spell.Episodes = append(spell.Episodes, ep)

		fetchErr := buf.FetchNextRow()
		if fetchErr != nil {
			if errors.Is(fetchErr, rowbuf.ErrNoMoreRows) {
				return spell, rowbuf.ErrNoMoreRows
			}
			return Spell{}, fetchErr
		}

		nextID, err := buf.AtVarchar("spell_id")
		if err != nil {
			return Spell{}, missingRequiredField("spell_id", err)
		}
		if nextID.Value != spell.SpellID {
			return spell, nil
		}
	}
}
