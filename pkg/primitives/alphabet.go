package primitives

import "fmt"

// Alphabet is the ordered set of scoring symbols, plus the blank marker used
// for cells a layout never reached.
type Alphabet struct {
	symbols []rune
	blank   rune
}

// DefaultAlphabet is the five-symbol alphabet of the puzzle with '_' marking
// blank cells.
func DefaultAlphabet() *Alphabet {
	a, err := NewAlphabet("ABCDE", '_')
	if err != nil {
		panic(err)
	}
	return a
}

func NewAlphabet(symbols string, blank rune) (*Alphabet, error) {
	if symbols == "" {
		return nil, fmt.Errorf("alphabet must not be empty")
	}
	seen := make(map[rune]bool)
	for _, r := range symbols {
		if r == blank {
			return nil, fmt.Errorf("blank marker %c must not appear in the alphabet", r)
		}
		if seen[r] {
			return nil, fmt.Errorf("alphabet contains %c more than once", r)
		}
		seen[r] = true
	}
	return &Alphabet{symbols: []rune(symbols), blank: blank}, nil
}

// Symbols returns the symbols in their fixed iteration order.
func (a *Alphabet) Symbols() []rune {
	return a.symbols
}

func (a *Alphabet) Blank() rune {
	return a.blank
}

// Contains checks if a symbol belongs to the alphabet. The blank marker is
// not part of the alphabet.
func (a *Alphabet) Contains(r rune) bool {
	for _, s := range a.symbols {
		if s == r {
			return true
		}
	}
	return false
}

// Count returns the number of symbols in the alphabet.
func (a *Alphabet) Count() int {
	return len(a.symbols)
}

func (a *Alphabet) String() string {
	return string(a.symbols)
}
