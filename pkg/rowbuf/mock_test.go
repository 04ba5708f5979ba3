package rowbuf_test

import (
	"errors"
	"testing"
	"time"

	"github.com/cardionet/acsdex/pkg/rowbuf"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMock_EmptySourceIsImmediatelyExhausted(t *testing.T) {
	m := rowbuf.NewMock(nil)

	_, err := m.AtVarchar("nhs_number")
	assert.ErrorIs(t, err, rowbuf.ErrNoMoreRows)

	err = m.FetchNextRow()
	assert.ErrorIs(t, err, rowbuf.ErrNoMoreRows)
}

func TestMock_TypedReads(t *testing.T) {
	ts := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	m := rowbuf.NewMock([]rowbuf.Row{
		{
			"nhs_number":     1,
			"primary_diagnosis": "I21.0",
			"episode_start":  ts,
			"age_at_episode": nil,
		},
	})

	pd, err := m.AtVarchar("primary_diagnosis")
	require.NoError(t, err)
	assert.Equal(t, "I21.0", pd.Value)
	assert.False(t, pd.Null())

	nhs, err := m.AtInteger("nhs_number")
	require.NoError(t, err)
	assert.Equal(t, 1, nhs.Value)

	start, err := m.AtTimestamp("episode_start")
	require.NoError(t, err)
	assert.True(t, start.Value.Equal(ts))

	age, err := m.AtInteger("age_at_episode")
	require.NoError(t, err)
	assert.True(t, age.Null())
}

func TestMock_ColumnNotFound(t *testing.T) {
	m := rowbuf.NewMock([]rowbuf.Row{{"nhs_number": 1}})

	_, err := m.AtVarchar("spell_id")
	var notFound *rowbuf.ErrColumnNotFound
	assert.True(t, errors.As(err, &notFound))
}

func TestMock_WrongColumnType(t *testing.T) {
	m := rowbuf.NewMock([]rowbuf.Row{{"nhs_number": 1}})

	_, err := m.AtVarchar("nhs_number")
	var wrongType *rowbuf.ErrWrongColumnType
	assert.True(t, errors.As(err, &wrongType))
}

func TestMock_FetchNextRowAdvancesAndTerminates(t *testing.T) {
	m := rowbuf.NewMock([]rowbuf.Row{
		{"spell_id": "A"},
		{"spell_id": "B"},
	})

	v, err := m.AtVarchar("spell_id")
	require.NoError(t, err)
	assert.Equal(t, "A", v.Value)

	err = m.FetchNextRow()
	require.NoError(t, err)

	v, err = m.AtVarchar("spell_id")
	require.NoError(t, err)
	assert.Equal(t, "B", v.Value)

	err = m.FetchNextRow()
	assert.ErrorIs(t, err, rowbuf.ErrNoMoreRows)
}
