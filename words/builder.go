package words

import "errors"

// ErrLengthMismatch reports that the parallel sequences fed to BuildWords
// differ in length. All three are derived from one tokenization of one text,
// so hitting this means a bug in an upstream component, not user error.
var ErrLengthMismatch = errors.New("words: parallel sequences differ in length")

// BuildWords zips lemmas, positions, and coordinates index-for-index into
// word records. The inputs must have identical length.
func BuildWords[P Position](lemmas []string, positions []P, coords []Coordinate) ([]Word[P], error) {
	if len(lemmas) != len(positions) || len(lemmas) != len(coords) {
		return nil, ErrLengthMismatch
	}
	ws := make([]Word[P], len(lemmas))
	for i, lemma := range lemmas {
		ws[i] = Word[P]{
			Lemma:  lemma,
			Pos:    positions[i],
			Line:   coords[i].Line,
			Column: coords[i].Column,
		}
	}
	return ws, nil
}

// BuildWordCount runs the full pipeline for word-count mode: 1-based token
// ordinals as positions.
func BuildWordCount(text string) ([]Word[int], error) {
	tokens := Tokenize(text)
	return BuildWords(tokens, WordCountPositions(tokens), Coordinates(text))
}

// BuildLineCount runs the full pipeline for line-count mode: 1-based line
// numbers as positions.
func BuildLineCount(text string) ([]Word[int], error) {
	return BuildWords(Tokenize(text), LineCountPositions(text), Coordinates(text))
}

// BuildPercentage runs the full pipeline for percentage mode: positions are
// ordinal/total*100. An empty document yields an empty sequence.
func BuildPercentage(text string) ([]Word[float64], error) {
	tokens := Tokenize(text)
	return BuildWords(tokens, PercentagePositions(tokens), Coordinates(text))
}
