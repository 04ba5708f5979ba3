package codes

import (
	"errors"
	"strings"
	"unicode"
)

// ErrEmpty is returned by Preprocess when the input has no alphanumeric
// content to classify (spec §4.3).
var ErrEmpty = errors.New("codes: preprocessed code is empty")

// Preprocess strips whitespace and non-alphanumeric characters and
// uppercases alphabetic characters, matching the upstream convention of
// inconsistent dots, spaces, and case in raw clinical code strings. It
// fails with ErrEmpty if nothing alphanumeric remains.
//
// Preprocess is idempotent: Preprocess(Preprocess(x)) == Preprocess(x) for
// every input x it succeeds on, since its output is already composed
// entirely of uppercase letters and digits.
func Preprocess(raw string) (string, error) {
	var b strings.Builder
	b.Grow(len(raw))

	for _, r := range raw {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsLetter(r):
			b.WriteRune(unicode.ToUpper(r))
		}
	}

	out := b.String()
	if len(out) == 0 {
		return "", ErrEmpty
	}
	return out, nil
}
