package layout

import (
	"context"
	"iter"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// Progress counts terminal layouts as the enumeration records them. Safe for
// concurrent use; a nil Progress is a no-op.
type Progress struct {
	terminal atomic.Int64
}

// Terminal returns the number of terminal layouts recorded so far.
func (p *Progress) Terminal() int64 {
	return p.terminal.Load()
}

func (p *Progress) record() {
	if p != nil {
		p.terminal.Add(1)
	}
}

// Enumerator exhaustively explores every terminal layout reachable by placing
// numbered tile pairs on adjacent empty cells around the seed.
type Enumerator struct {
	Side int

	// FullTree disables the turn-0 symmetry reduction, exploring diagonally
	// reflected starting placements too.
	FullTree bool

	// Progress, when set, is bumped once per recorded terminal layout.
	Progress *Progress
}

// Cardinal neighbor offsets, checked in a fixed order: up, down, left, right.
var directions = [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}

// Layouts enumerates every terminal layout depth-first. A layout is terminal
// once the turn budget is exhausted or no empty cell has an empty cardinal
// neighbor; both kinds are yielded. Distinct placement orders that happen to
// produce the same final labeling are not deduplicated.
func (e *Enumerator) Layouts(ctx context.Context) iter.Seq[Grid] {
	return func(yield func(Grid) bool) {
		e.enumerate(ctx, NewGrid(e.Side), 0, yield)
	}
}

// enumerate recurses one turn deeper per call. It returns false once the
// consumer stops taking layouts or the context is done.
func (e *Enumerator) enumerate(ctx context.Context, g Grid, turn int, yield func(Grid) bool) bool {
	if ctx.Err() != nil {
		return false
	}

	if turn == TurnBudget(e.Side) {
		e.Progress.record()
		return yield(g)
	}

	found := false
	n := e.Side
	for i := range n {
		for j := range n {
			if !g.Free(i, j) {
				continue
			}
			// Cells below the main diagonal at turn 0 only reach layouts that
			// are diagonal reflections of kept ones.
			if turn == 0 && !e.FullTree && i > j {
				continue
			}
			for _, d := range directions {
				w, h := i+d[0], j+d[1]
				if w < 0 || w >= n || h < 0 || h >= n || !g.Free(w, h) {
					continue
				}
				next := g.Clone()
				next.set(i, j, 2*turn+1)
				next.set(w, h, 2*turn+2)
				found = true
				if !e.enumerate(ctx, next, turn+1, yield) {
					return false
				}
			}
		}
	}

	// Stuck short of the budget: no adjacent empty pair remains.
	if !found {
		e.Progress.record()
		return yield(g)
	}
	return true
}

// EnumerateAll collects every terminal layout. With workers > 1 the
// independent turn-0 branches fan out over an errgroup-limited pool; each
// branch explores its own subtree on its own grids, so the only merge point
// is concatenating the per-branch result slices. The collected set matches a
// sequential Layouts run.
func (e *Enumerator) EnumerateAll(ctx context.Context, workers int) ([]Grid, error) {
	branches := e.turnZeroBranches()
	if workers <= 1 || len(branches) == 0 {
		var out []Grid
		for g := range e.Layouts(ctx) {
			out = append(out, g)
		}
		return out, ctx.Err()
	}

	results := make([][]Grid, len(branches))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(workers)
	for bi, bg := range branches {
		grp.Go(func() error {
			var got []Grid
			e.enumerate(gctx, bg, 1, func(g Grid) bool {
				got = append(got, g)
				return true
			})
			results[bi] = got
			return gctx.Err()
		})
	}
	if err := grp.Wait(); err != nil {
		return nil, err
	}

	var out []Grid
	for _, rs := range results {
		out = append(out, rs...)
	}
	return out, nil
}

// turnZeroBranches replays the turn-0 placement loop, returning one grid per
// first placement. Empty only when the board admits no turn at all.
func (e *Enumerator) turnZeroBranches() []Grid {
	root := NewGrid(e.Side)
	n := e.Side
	var branches []Grid
	for i := range n {
		for j := range n {
			if !root.Free(i, j) {
				continue
			}
			if !e.FullTree && i > j {
				continue
			}
			for _, d := range directions {
				w, h := i+d[0], j+d[1]
				if w < 0 || w >= n || h < 0 || h >= n || !root.Free(w, h) {
					continue
				}
				next := root.Clone()
				next.set(i, j, 1)
				next.set(w, h, 2)
				branches = append(branches, next)
			}
		}
	}
	return branches
}
