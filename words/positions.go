package words

import "strings"

// WordCountPositions assigns each token its 1-based ordinal across the whole
// document, ignoring line breaks.
func WordCountPositions(tokens []string) []int {
	positions := make([]int, len(tokens))
	for i := range tokens {
		positions[i] = i + 1
	}
	return positions
}

// LineCountPositions assigns each token the 1-based number of the line it
// appears on; all tokens on one line share the same value.
func LineCountPositions(text string) []int {
	var positions []int
	for i, line := range strings.Split(text, "\n") {
		for range strings.Fields(line) {
			positions = append(positions, i+1)
		}
	}
	return positions
}

// PercentagePositions rescales 1-based ordinals into (0, 100]: the last
// token of a document always sits at exactly 100. An empty token sequence
// yields an empty result, so the total count is never used as a divisor.
func PercentagePositions(tokens []string) []float64 {
	positions := make([]float64, len(tokens))
	total := float64(len(tokens))
	for i := range tokens {
		positions[i] = float64(i+1) / total * 100
	}
	return positions
}
