// Package hierarchy implements the streaming, look-ahead-by-one builders
// that reconstruct the patient -> spell -> episode hierarchy from a flat,
// externally-ordered row stream (spec §4.6-4.8, §4.12). Builders never
// buffer more than the current row plus whatever a single
// rowbuf.Buffer.FetchNextRow call produces.
package hierarchy

import (
	"errors"

	"github.com/cardionet/acsdex/pkg/rowbuf"
)

// State is the row cursor state machine of spec §4.12.
type State int

const (
	// Open means the buffer has exactly one current row ready to read.
	Open State = iota
	// Exhausted means the stream has ended; no more rows are available.
	Exhausted
)

// NextState applies a FetchNextRow result to the Open->Open/Exhausted
// transition of spec §4.12.
func NextState(err error) (State, error) {
	if err == nil {
		return Open, nil
	}
	if errors.Is(err, rowbuf.ErrNoMoreRows) {
		return Exhausted, nil
	}
	return Open, err
}
