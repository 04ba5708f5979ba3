package codes_test

import (
	"testing"

	"github.com/cardionet/acsdex/pkg/codes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPreprocess_StripsAndUppercases(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"i21.0 ", "I210"},
		{" I210", "I210"},
		{"I21.0", "I210"},
		{"k43.2", "K432"},
	}

	for _, tt := range tests {
		got, err := codes.Preprocess(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPreprocess_Empty(t *testing.T) {
	_, err := codes.Preprocess("   ")
	assert.ErrorIs(t, err, codes.ErrEmpty)

	_, err = codes.Preprocess("...---")
	assert.ErrorIs(t, err, codes.ErrEmpty)

	_, err = codes.Preprocess("")
	assert.ErrorIs(t, err, codes.ErrEmpty)
}

// TestPreprocess_Idempotent is the universal property of spec §8.1.
func TestPreprocess_Idempotent(t *testing.T) {
	inputs := []string{"i21.0 ", " I210", "I21.0", "zzz-99", "K43.2"}

	for _, in := range inputs {
		once, err := codes.Preprocess(in)
		require.NoError(t, err)

		twice, err := codes.Preprocess(once)
		require.NoError(t, err)

		assert.Equal(t, once, twice)
	}
}
