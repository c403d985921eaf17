package words

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Coordinate is the 1-based (line, column) location of a token's first
// character. Columns count runes, not bytes, so multi-byte text round-trips.
type Coordinate struct {
	Line   int
	Column int
}

// Coordinates recovers a (line, column) pair for every token of text, in
// document order. The tokenizer discards the whitespace between tokens, so
// columns are rebuilt with a left-to-right scan per line: for each of the
// line's tokens the scan looks for the next non-whitespace rune equal to the
// token's leading rune, records that rune's 1-based index as the column, and
// jumps past the token before searching for the next one.
//
// A token whose leading rune never appears in the remainder of its line gets
// no coordinate. That cannot happen when the tokens come from the same
// whitespace split the scan uses; if upstream code ever feeds mismatched
// text the shortfall surfaces as the word builder's length-mismatch error
// instead of a silently wrong column.
func Coordinates(text string) []Coordinate {
	var coords []Coordinate
	for li, line := range strings.Split(text, "\n") {
		runes := []rune(line)
		next := 0
		for _, tok := range strings.Fields(line) {
			lead, _ := utf8.DecodeRuneInString(tok)
			found := -1
			for i := next; i < len(runes); i++ {
				if unicode.IsSpace(runes[i]) {
					continue
				}
				if runes[i] == lead {
					found = i
					break
				}
			}
			if found < 0 {
				continue
			}
			coords = append(coords, Coordinate{Line: li + 1, Column: found + 1})
			next = found + utf8.RuneCountInString(tok)
		}
	}
	return coords
}
