package internal

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"tilerun.dev/layout/pkg/primitives"
)

func TestAllLineScores_CoversCartesianProduct(t *testing.T) {
	alphabet, err := primitives.NewAlphabet("AB", '_')
	require.NoError(t, err)

	withBlank, err := AllLineScores(t.Context(), AllLineScoresParams{
		Alphabet:     alphabet,
		LineLength:   3,
		IncludeBlank: true,
	})
	require.NoError(t, err)
	require.Equal(t, 27, withBlank.Len(), "(|alphabet|+1)^N sequences with the blank marker")

	withoutBlank, err := AllLineScores(t.Context(), AllLineScoresParams{
		Alphabet:   alphabet,
		LineLength: 3,
	})
	require.NoError(t, err)
	require.Equal(t, 8, withoutBlank.Len(), "|alphabet|^N sequences without the blank marker")

	for line := range withBlank {
		require.Len(t, line, 3)
	}
}

func TestAllLineScores_Entries(t *testing.T) {
	table, err := AllLineScores(t.Context(), AllLineScoresParams{
		Alphabet:     primitives.DefaultAlphabet(),
		LineLength:   3,
		IncludeBlank: true,
	})
	require.NoError(t, err)

	for line, want := range map[string]int{
		"AAA": 3,
		"AA_": 2,
		"A_A": 0,
		"___": 0,
		"ABC": 0,
		"ABB": 2,
	} {
		score, ok := table.Lookup(line)
		require.True(t, ok, "missing entry for %q", line)
		require.Equal(t, want, score, "score for %q", line)
	}
}

func TestAllLineScores_Validation(t *testing.T) {
	_, err := AllLineScores(t.Context(), AllLineScoresParams{LineLength: 3})
	require.Error(t, err)

	_, err = AllLineScores(t.Context(), AllLineScoresParams{Alphabet: primitives.DefaultAlphabet()})
	require.Error(t, err)
}

func TestAllLineScores_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := AllLineScores(ctx, AllLineScoresParams{
		Alphabet:   primitives.DefaultAlphabet(),
		LineLength: 3,
	})
	require.ErrorIs(t, err, context.Canceled)
}
