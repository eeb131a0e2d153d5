package internal

import (
	"context"
	"fmt"

	"tilerun.dev/layout/pkg/primitives"
)

type AllLineScoresParams struct {
	Alphabet   *primitives.Alphabet
	LineLength int

	// IncludeBlank extends the sequence space with the blank marker, covering
	// lines from layouts that never reached full coverage.
	IncludeBlank bool

	// Runs overrides the run scoring; nil means primitives.DefaultRunScores.
	Runs primitives.RunScores
}

// AllLineScores builds the score table for every sequence of LineLength
// symbols drawn from the alphabet, optionally extended with the blank marker.
func AllLineScores(ctx context.Context, p AllLineScoresParams) (primitives.ScoreTable, error) {
	if p.Alphabet == nil {
		return nil, fmt.Errorf("alphabet is required")
	}
	if p.LineLength < 1 {
		return nil, fmt.Errorf("line length %d must be at least 1", p.LineLength)
	}

	runs := p.Runs
	if runs == nil {
		runs = primitives.DefaultRunScores()
	}

	symbols := p.Alphabet.Symbols()
	if p.IncludeBlank {
		symbols = append(append([]rune{}, symbols...), p.Alphabet.Blank())
	}

	table := make(primitives.ScoreTable)
	buf := make([]rune, p.LineLength)
	idx := make([]int, p.LineLength)

	// Odometer over the cartesian product, rightmost position fastest.
	for {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		for i, k := range idx {
			buf[i] = symbols[k]
		}
		line := string(buf)
		table[line] = primitives.ScoreRuns(line, p.Alphabet.Blank(), runs)

		pos := p.LineLength - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < len(symbols) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			break
		}
	}

	return table, nil
}
