package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// Empty marks a cell no tile has been placed on.
const Empty = -1

// Seed is the label of the single pre-placed tile present before any turn.
const Seed = 0

// Grid is a fixed N×N board of tile labels.
//
// A cell is either Empty or holds an integer label: Seed for the pre-placed
// tile, and 2t+1 / 2t+2 for the pair placed on turn t. Branches of the
// enumeration each work on their own Clone, so a Grid is never mutated after
// it has been handed out.
type Grid struct {
	side  int
	cells []int
}

// NewGrid creates a grid with the seed tile at the origin. Enumeration
// assumes this seed position: the turn-0 symmetry reduction is only sound
// when the seed sits on the main diagonal.
func NewGrid(side int) Grid {
	return NewGridAt(side, 0, 0)
}

// NewGridAt creates a grid with the seed tile at (row, col).
func NewGridAt(side, row, col int) Grid {
	cells := make([]int, side*side)
	for i := range cells {
		cells[i] = Empty
	}
	cells[row*side+col] = Seed
	return Grid{side: side, cells: cells}
}

// TurnBudget returns the number of pair-placement turns a board of the given
// side admits, (side*side - 1) / 2 rounded down.
func TurnBudget(side int) int {
	return (side*side - 1) / 2
}

func (g Grid) Side() int {
	return g.side
}

func (g Grid) At(row, col int) int {
	return g.cells[row*g.side+col]
}

func (g Grid) Free(row, col int) bool {
	return g.cells[row*g.side+col] == Empty
}

func (g Grid) set(row, col, label int) {
	g.cells[row*g.side+col] = label
}

// Clone returns a deep copy, isolating one enumeration branch from another.
func (g Grid) Clone() Grid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)
	return Grid{side: g.side, cells: cells}
}

// Row returns the cell values of row i in column order.
func (g Grid) Row(i int) []int {
	out := make([]int, g.side)
	for j := range out {
		out[j] = g.cells[i*g.side+j]
	}
	return out
}

// Col returns the cell values of column i in row order.
func (g Grid) Col(i int) []int {
	out := make([]int, g.side)
	for j := range out {
		out[j] = g.cells[j*g.side+i]
	}
	return out
}

// Diagonal returns the main diagonal, (0,0) through (N-1,N-1).
func (g Grid) Diagonal() []int {
	out := make([]int, g.side)
	for i := range out {
		out[i] = g.cells[i*(g.side+1)]
	}
	return out
}

// AntiDiagonal returns the other full diagonal, (0,N-1) through (N-1,0).
func (g Grid) AntiDiagonal() []int {
	out := make([]int, g.side)
	for i := range out {
		out[i] = g.cells[(i+1)*(g.side-1)]
	}
	return out
}

// Repr renders the grid as N² space-separated tokens in row-major order,
// '_' for empty cells and the decimal label otherwise. One such line per
// layout is the interchange format with the surrounding tooling.
func (g Grid) Repr() string {
	tokens := make([]string, len(g.cells))
	for i, c := range g.cells {
		if c == Empty {
			tokens[i] = "_"
		} else {
			tokens[i] = strconv.Itoa(c)
		}
	}
	return strings.Join(tokens, " ")
}

// ParseGrid is the inverse of Repr. Labels outside the board's placeable
// range [Seed, 2*TurnBudget(side)] are rejected so corrupted layout lines
// fail here instead of inside downstream translation.
func ParseGrid(side int, s string) (Grid, error) {
	tokens := strings.Fields(s)
	if len(tokens) != side*side {
		return Grid{}, fmt.Errorf("layout has %d tokens, want %d for side %d", len(tokens), side*side, side)
	}
	maxLabel := 2 * TurnBudget(side)
	cells := make([]int, len(tokens))
	for i, tok := range tokens {
		if tok == "_" {
			cells[i] = Empty
			continue
		}
		label, err := strconv.Atoi(tok)
		if err != nil {
			return Grid{}, fmt.Errorf("bad layout token %q: %w", tok, err)
		}
		if label < Seed || label > maxLabel {
			return Grid{}, fmt.Errorf("layout label %d out of range [%d, %d] for side %d", label, Seed, maxLabel, side)
		}
		cells[i] = label
	}
	return Grid{side: side, cells: cells}, nil
}

func (g Grid) DebugString() string {
	return fmt.Sprintf("Grid{side: %d, cells: %v}", g.side, g.cells)
}
