// Package words is the repetition-analysis core: it tokenizes document text
// into positioned word records, normalizes and filters them, and finds words
// whose spelling recurs elsewhere in the document.
package words

import "strings"

// Position constrains the numeric type carried by a Word. Word-count and
// line-count modes use int positions; percentage mode uses float64.
type Position interface {
	~int | ~float64
}

// Word is one whitespace-delimited token with its location in the source text.
// Line and Column (both 1-based) identify the token; Pos carries the value of
// the active position mode and is used only for distance computation.
type Word[P Position] struct {
	Lemma  string
	Pos    P
	Line   int
	Column int
}

// SameSpot reports whether two words occupy the same (line, column)
// coordinate. Coordinates are a word's identity: equal lemmas at different
// coordinates are repeats, while a word never matches itself.
func SameSpot[P Position](a, b Word[P]) bool {
	return a.Line == b.Line && a.Column == b.Column
}

// Distance returns a.Pos - b.Pos. The result is signed and its unit depends
// on the mode the words were built with: ordinals, line numbers, or percent
// of document length.
func Distance[P Position](a, b Word[P]) P {
	return a.Pos - b.Pos
}

// Mode selects how word positions are computed.
type Mode int

const (
	// WordCount positions are 1-based token ordinals across the document.
	WordCount Mode = iota
	// LineCount positions are the 1-based line number of each token.
	LineCount
	// Percentage positions are ordinal/total*100 as float64.
	Percentage
)

// String returns the flag spelling of the mode.
func (m Mode) String() string {
	switch m {
	case LineCount:
		return "lines"
	case Percentage:
		return "percent"
	default:
		return "words"
	}
}

// ParseMode maps a mode string to a Mode. Unknown strings fall back to
// WordCount rather than erroring.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lines", "line", "line-count":
		return LineCount
	case "percent", "percentage", "%":
		return Percentage
	default:
		return WordCount
	}
}
