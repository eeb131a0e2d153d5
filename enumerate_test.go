package layout

import (
	"context"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func collectLayouts(t *testing.T, e *Enumerator) []Grid {
	t.Helper()
	var out []Grid
	for g := range e.Layouts(t.Context()) {
		out = append(out, g)
	}
	return out
}

func labelPositions(g Grid) map[int][2]int {
	pos := make(map[int][2]int)
	for r := range g.Side() {
		for c := range g.Side() {
			if l := g.At(r, c); l != Empty {
				pos[l] = [2]int{r, c}
			}
		}
	}
	return pos
}

func TestLayouts_PlacementInvariants(t *testing.T) {
	e := &Enumerator{Side: 3}
	layouts := collectLayouts(t, e)
	if len(layouts) == 0 {
		t.Fatal("no layouts enumerated")
	}

	budget := TurnBudget(3)
	for _, g := range layouts {
		pos := labelPositions(g)

		seed, ok := pos[Seed]
		if !ok {
			t.Fatalf("layout %q has no seed", g.Repr())
		}
		if seed != [2]int{0, 0} {
			t.Errorf("layout %q has seed at %v, want origin", g.Repr(), seed)
		}

		// Labels are consecutive pairs 1..2k for some k <= budget.
		turns := (len(pos) - 1) / 2
		if (len(pos)-1)%2 != 0 {
			t.Fatalf("layout %q has a dangling half pair", g.Repr())
		}
		if turns > budget {
			t.Fatalf("layout %q places %d pairs, budget is %d", g.Repr(), turns, budget)
		}

		for turn := range turns {
			a, okA := pos[2*turn+1]
			b, okB := pos[2*turn+2]
			if !okA || !okB {
				t.Fatalf("layout %q is missing labels for turn %d", g.Repr(), turn)
			}
			dist := abs(a[0]-b[0]) + abs(a[1]-b[1])
			if dist != 1 {
				t.Errorf("layout %q: pair %d/%d at distance %d, want 1", g.Repr(), 2*turn+1, 2*turn+2, dist)
			}
		}

		// A layout short of the budget must be stuck: no empty cell may have
		// an empty cardinal neighbor.
		if turns < budget {
			for r := range g.Side() {
				for c := range g.Side() {
					if !g.Free(r, c) {
						continue
					}
					for _, d := range directions {
						w, h := r+d[0], c+d[1]
						if w >= 0 && w < g.Side() && h >= 0 && h < g.Side() && g.Free(w, h) {
							t.Fatalf("layout %q stopped early but (%d,%d)/(%d,%d) are both empty", g.Repr(), r, c, w, h)
						}
					}
				}
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// reflected returns the diagonal reflection, swapping (i,j) with (j,i).
func reflected(g Grid) Grid {
	out := NewGrid(g.Side())
	for r := range g.Side() {
		for c := range g.Side() {
			out.set(c, r, g.At(r, c))
		}
	}
	return out
}

func canonical(g Grid) string {
	return min(g.Repr(), reflected(g).Repr())
}

func TestLayouts_SymmetryReduction(t *testing.T) {
	reduced := collectLayouts(t, &Enumerator{Side: 3})
	full := collectLayouts(t, &Enumerator{Side: 3, FullTree: true})

	if len(reduced) >= len(full) {
		t.Fatalf("reduction kept %d of %d layouts, want fewer", len(reduced), len(full))
	}

	// Modulo diagonal reflection both runs cover exactly the same outcomes.
	reducedSet := make(map[string]bool)
	for _, g := range reduced {
		reducedSet[canonical(g)] = true
	}
	fullSet := make(map[string]bool)
	for _, g := range full {
		fullSet[canonical(g)] = true
	}

	if diff := cmp.Diff(fullSet, reducedSet); diff != "" {
		t.Errorf("canonical layout sets differ (-full +reduced):\n%s", diff)
	}
}

func TestLayouts_Deterministic(t *testing.T) {
	first := collectLayouts(t, &Enumerator{Side: 3})
	second := collectLayouts(t, &Enumerator{Side: 3})

	firstReprs := make([]string, len(first))
	secondReprs := make([]string, len(second))
	for i := range first {
		firstReprs[i] = first[i].Repr()
	}
	for i := range second {
		secondReprs[i] = second[i].Repr()
	}

	if diff := cmp.Diff(firstReprs, secondReprs); diff != "" {
		t.Errorf("two runs disagree (-first +second):\n%s", diff)
	}
}

func TestEnumerateAll_MatchesSequential(t *testing.T) {
	e := &Enumerator{Side: 3}

	sequential, err := e.EnumerateAll(t.Context(), 1)
	if err != nil {
		t.Fatalf("sequential EnumerateAll: %v", err)
	}
	parallel, err := e.EnumerateAll(t.Context(), 4)
	if err != nil {
		t.Fatalf("parallel EnumerateAll: %v", err)
	}

	seqReprs := make([]string, len(sequential))
	parReprs := make([]string, len(parallel))
	for i := range sequential {
		seqReprs[i] = sequential[i].Repr()
	}
	for i := range parallel {
		parReprs[i] = parallel[i].Repr()
	}
	slices.Sort(seqReprs)
	slices.Sort(parReprs)

	if diff := cmp.Diff(seqReprs, parReprs); diff != "" {
		t.Errorf("parallel run diverges from sequential (-seq +par):\n%s", diff)
	}
}

func TestLayouts_ProgressCounts(t *testing.T) {
	progress := &Progress{}
	e := &Enumerator{Side: 3, Progress: progress}

	layouts := collectLayouts(t, e)
	if got := progress.Terminal(); got != int64(len(layouts)) {
		t.Errorf("Terminal() = %d, want %d", got, len(layouts))
	}
}

func TestLayouts_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	e := &Enumerator{Side: 3}
	for range e.Layouts(ctx) {
		t.Fatal("canceled enumeration yielded a layout")
	}
}
