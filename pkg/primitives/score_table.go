package primitives

// RunScores maps the length of a run to its score contribution. Lengths
// absent from the map contribute nothing.
type RunScores map[int]int

// DefaultRunScores returns the standard run scoring used by the puzzle.
func DefaultRunScores() RunScores {
	return RunScores{1: 0, 2: 2, 3: 3, 4: 8, 5: 10}
}

// ScoreRuns computes the run-length score of a line: the line is grouped into
// maximal runs of identical adjacent symbols and each run's length is mapped
// through the run table. Runs of the blank marker score nothing and never
// merge with neighboring symbols.
func ScoreRuns(line string, blank rune, runs RunScores) int {
	rs := []rune(line)
	total := 0
	for i := 0; i < len(rs); {
		j := i
		for j < len(rs) && rs[j] == rs[i] {
			j++
		}
		if rs[i] != blank {
			total += runs[j-i]
		}
		i = j
	}
	return total
}

// ScoreTable is an immutable lookup from a literal line of symbols to its
// precomputed score.
type ScoreTable map[string]int

// Lookup returns the score for a line and whether the table has an entry for
// it. Callers that need the legacy falsy-zero behavior must check the score
// themselves; Lookup never conflates a zero entry with a missing one.
func (t ScoreTable) Lookup(line string) (int, bool) {
	score, ok := t[line]
	return score, ok
}

// Len returns the number of line patterns in the table.
func (t ScoreTable) Len() int {
	return len(t)
}
