package words

import "strings"

// Tokenize splits text on runs of whitespace. Empty tokens are never
// produced, and punctuation attached to letters stays on the token ("end."
// is one token) so that punctuation-sensitive filtering sees the same
// representation the position logic was built from.
func Tokenize(text string) []string {
	return strings.Fields(text)
}
