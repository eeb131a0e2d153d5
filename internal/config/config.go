// Package config loads run configuration from HCL files: board size,
// alphabet, run scoring, the symbol sequence, and evaluation knobs.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty/gocty"

	"tilerun.dev/layout"
	"tilerun.dev/layout/pkg/primitives"
)

// Run is a fully resolved run configuration.
type Run struct {
	Side           int
	Alphabet       *primitives.Alphabet
	Sequence       []string
	RunScores      primitives.RunScores
	DiagonalWeight int
	Strict         bool
	Workers        int
}

// runFile mirrors the attributes of a run .hcl file. The run_scores map
// stays an expression so integer keys can be decoded by hand.
type runFile struct {
	Side           int            `hcl:"side"`
	Alphabet       *string        `hcl:"alphabet,optional"`
	Blank          *string        `hcl:"blank,optional"`
	Sequence       []string       `hcl:"sequence"`
	RunScoresExpr  hcl.Expression `hcl:"run_scores,optional"`
	DiagonalWeight *int           `hcl:"diagonal_weight,optional"`
	Strict         *bool          `hcl:"strict_scores,optional"`
	Workers        *int           `hcl:"workers,optional"`
}

// Load reads and resolves a run configuration file.
func Load(path string) (*Run, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run config: %w", err)
	}
	return Parse(path, src)
}

// Parse resolves a run configuration from HCL source.
func Parse(filename string, src []byte) (*Run, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse %s: %w", filename, diags)
	}

	var rf runFile
	if diags := gohcl.DecodeBody(file.Body, nil, &rf); diags.HasErrors() {
		return nil, fmt.Errorf("decode %s: %w", filename, diags)
	}

	symbols := "ABCDE"
	if rf.Alphabet != nil {
		symbols = *rf.Alphabet
	}
	blank := '_'
	if rf.Blank != nil {
		runes := []rune(*rf.Blank)
		if len(runes) != 1 {
			return nil, fmt.Errorf("blank must be a single character, got %q", *rf.Blank)
		}
		blank = runes[0]
	}
	alphabet, err := primitives.NewAlphabet(symbols, blank)
	if err != nil {
		return nil, err
	}

	run := &Run{
		Side:           rf.Side,
		Alphabet:       alphabet,
		Sequence:       rf.Sequence,
		DiagonalWeight: 2,
		Workers:        1,
	}
	if rf.DiagonalWeight != nil {
		run.DiagonalWeight = *rf.DiagonalWeight
	}
	if rf.Strict != nil {
		run.Strict = *rf.Strict
	}
	if rf.Workers != nil {
		run.Workers = *rf.Workers
	}

	run.RunScores, err = decodeRunScores(rf.RunScoresExpr)
	if err != nil {
		return nil, err
	}

	if err := validate(run); err != nil {
		return nil, err
	}
	return run, nil
}

// decodeRunScores evaluates the run_scores attribute into a run-length map.
// HCL object keys are strings, so each key must parse as a run length.
func decodeRunScores(expr hcl.Expression) (primitives.RunScores, error) {
	if expr == nil {
		return primitives.DefaultRunScores(), nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluate run_scores: %w", diags)
	}
	if val.IsNull() {
		return primitives.DefaultRunScores(), nil
	}
	if !val.CanIterateElements() {
		return nil, fmt.Errorf("run_scores must be a map of run length to score")
	}

	scores := make(primitives.RunScores)
	for it := val.ElementIterator(); it.Next(); {
		key, elem := it.Element()
		length, err := strconv.Atoi(key.AsString())
		if err != nil {
			return nil, fmt.Errorf("run_scores key %q is not a run length: %w", key.AsString(), err)
		}
		var score int
		if err := gocty.FromCtyValue(elem, &score); err != nil {
			return nil, fmt.Errorf("run_scores[%d]: %w", length, err)
		}
		scores[length] = score
	}
	return scores, nil
}

func validate(run *Run) error {
	if run.Side < 2 {
		return fmt.Errorf("side %d must be at least 2", run.Side)
	}
	if want := layout.TurnBudget(run.Side); len(run.Sequence) != want {
		return fmt.Errorf("sequence has %d pairs, want %d for side %d", len(run.Sequence), want, run.Side)
	}
	if run.Workers < 1 {
		return fmt.Errorf("workers %d must be at least 1", run.Workers)
	}
	if run.DiagonalWeight < 0 {
		return fmt.Errorf("diagonal_weight %d must not be negative", run.DiagonalWeight)
	}
	return nil
}
