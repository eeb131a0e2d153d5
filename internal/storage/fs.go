// Package storage persists enumeration output and score tables on the local
// filesystem, in the layouts_N.txt / scores_N.json formats the downstream
// tooling consumes.
package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"tilerun.dev/layout"
	"tilerun.dev/layout/pkg/primitives"
)

type FS struct{ dir string }

func NewFS(dir string) *FS { return &FS{dir: dir} }

func (s *FS) layoutPath(side int) string {
	return filepath.Join(s.dir, fmt.Sprintf("layouts_%d.txt", side))
}

func (s *FS) scorePath(side int) string {
	return filepath.Join(s.dir, fmt.Sprintf("scores_%d.json", side))
}

// SaveLayouts writes one row-major token line per layout.
func (s *FS) SaveLayouts(ctx context.Context, side int, grids []layout.Grid) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(s.layoutPath(side))
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, g := range grids {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, g.Repr()); err != nil {
			return err
		}
	}
	return w.Flush()
}

// LoadLayouts reads layouts back, one per line, validating each against the
// expected side.
func (s *FS) LoadLayouts(ctx context.Context, side int) ([]layout.Grid, error) {
	f, err := os.Open(s.layoutPath(side))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var grids []layout.Grid
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		g, err := layout.ParseGrid(side, line)
		if err != nil {
			return nil, fmt.Errorf("layout %d: %w", len(grids)+1, err)
		}
		grids = append(grids, g)
	}
	return grids, scanner.Err()
}

// SaveScores writes the score table as an indented JSON object keyed by the
// literal line patterns.
func (s *FS) SaveScores(ctx context.Context, side int, table primitives.ScoreTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(table, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.scorePath(side), append(data, '\n'), 0o644)
}

func (s *FS) LoadScores(ctx context.Context, side int) (primitives.ScoreTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.scorePath(side))
	if err != nil {
		return nil, err
	}
	var table primitives.ScoreTable
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return table, nil
}
