package layout

import (
	"context"
	"fmt"
	"iter"
	"math"
	"strings"

	"tilerun.dev/layout/pkg/primitives"
)

// Best is the winning configuration found by an evaluation run.
type Best struct {
	Score int

	// Start is the symbol assigned to the seed tile.
	Start rune

	// Layout is the terminal layout that achieved the score.
	Layout Grid

	// Symbols is the realized symbol grid, row-major.
	Symbols string
}

// Evaluator scores terminal layouts against a precomputed line score table
// and tracks the maximum over all starting symbols.
type Evaluator struct {
	Side     int
	Alphabet *primitives.Alphabet

	// Sequence assigns one two-symbol pair per turn: labels 2t+1 and 2t+2
	// translate to the two characters of pair t.
	Sequence []string

	Scores primitives.ScoreTable

	// DiagonalWeight multiplies the main diagonal's line score.
	DiagonalWeight int

	// Penalty replaces a line score when the table has no entry for the line,
	// or, without Strict, when the entry is exactly zero.
	Penalty int

	// Strict keeps genuine zero entries at zero instead of conflating them
	// with missing ones.
	Strict bool

	// Concatenated pair characters; label l reads labelSymbols[l-1].
	labelSymbols []rune
}

type EvaluatorParams struct {
	DiagonalWeight *int // defaults to 2; an explicit 0 drops the diagonal from the total
	Penalty        *int // defaults to -5
	Strict         bool
}

// NewEvaluator validates the sequence against the board's turn budget before
// any enumeration work happens; a mismatched length would leave some turn's
// labels untranslatable.
func NewEvaluator(side int, alphabet *primitives.Alphabet, sequence []string, scores primitives.ScoreTable, params EvaluatorParams) (*Evaluator, error) {
	if alphabet == nil {
		return nil, fmt.Errorf("alphabet is required")
	}
	if want := TurnBudget(side); len(sequence) != want {
		return nil, fmt.Errorf("sequence has %d pairs, want %d for side %d", len(sequence), want, side)
	}
	for t, pair := range sequence {
		runes := []rune(pair)
		if len(runes) != 2 {
			return nil, fmt.Errorf("sequence pair %d (%q) must be exactly two symbols", t, pair)
		}
		for _, r := range runes {
			if !alphabet.Contains(r) {
				return nil, fmt.Errorf("sequence pair %d (%q) uses %c outside alphabet %s", t, pair, r, alphabet)
			}
		}
	}

	weight := 2
	if params.DiagonalWeight != nil {
		weight = *params.DiagonalWeight
	}
	penalty := -5
	if params.Penalty != nil {
		penalty = *params.Penalty
	}

	return &Evaluator{
		Side:           side,
		Alphabet:       alphabet,
		Sequence:       sequence,
		Scores:         scores,
		DiagonalWeight: weight,
		Penalty:        penalty,
		Strict:         params.Strict,
		labelSymbols:   []rune(strings.Join(sequence, "")),
	}, nil
}

// SymbolGrid materializes the row-major symbol cells for a layout and a
// starting symbol. Cells the layout never reached get the blank marker.
func (e *Evaluator) SymbolGrid(g Grid, start rune) []rune {
	cells := make([]rune, e.Side*e.Side)
	for r := range e.Side {
		for c := range e.Side {
			switch label := g.At(r, c); label {
			case Empty:
				cells[r*e.Side+c] = e.Alphabet.Blank()
			case Seed:
				cells[r*e.Side+c] = start
			default:
				cells[r*e.Side+c] = e.labelSymbols[label-1]
			}
		}
	}
	return cells
}

// GridScore sums the line scores of every row, every column, and the main
// diagonal weighted by DiagonalWeight.
func (e *Evaluator) GridScore(cells []rune) int {
	n := e.Side
	total := 0
	row := make([]rune, n)
	col := make([]rune, n)
	for i := range n {
		for j := range n {
			row[j] = cells[i*n+j]
			col[j] = cells[j*n+i]
		}
		total += e.lineScore(string(row)) + e.lineScore(string(col))
	}
	diag := make([]rune, n)
	for i := range n {
		diag[i] = cells[i*(n+1)]
	}
	total += e.DiagonalWeight * e.lineScore(string(diag))
	return total
}

func (e *Evaluator) lineScore(line string) int {
	score, ok := e.Scores.Lookup(line)
	if !ok || (!e.Strict && score == 0) {
		return e.Penalty
	}
	return score
}

// Evaluate scans the cross product of layouts and starting symbols, keeping
// the first configuration to reach the maximum score. The scan order is the
// layout order crossed with the alphabet order, so a fixed input always
// reproduces the same winner.
func (e *Evaluator) Evaluate(ctx context.Context, layouts iter.Seq[Grid]) (Best, error) {
	best := Best{Score: math.MinInt}
	seen := false
	for g := range layouts {
		if err := ctx.Err(); err != nil {
			return Best{}, err
		}
		for _, start := range e.Alphabet.Symbols() {
			cells := e.SymbolGrid(g, start)
			if score := e.GridScore(cells); !seen || score > best.Score {
				best = Best{Score: score, Start: start, Layout: g, Symbols: string(cells)}
				seen = true
			}
		}
	}
	if !seen {
		return Best{}, fmt.Errorf("no layouts to evaluate")
	}
	return best, nil
}
