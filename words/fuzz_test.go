package words

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func FuzzBuildWordCount(f *testing.F) {
	f.Add("Hello World")
	f.Add("")
	f.Add("  spaces  everywhere  ")
	f.Add("café résumé naïve")
	f.Add("line one\nline two\r\nline three")
	f.Add("punct. kept, intact!")

	f.Fuzz(func(t *testing.T, input string) {
		// The decoder hands the builder valid UTF-8 only; invalid bytes
		// would make the rune read-back below compare replacement runes
		// against raw bytes.
		if !utf8.ValidString(input) {
			t.Skip()
		}

		ws, err := BuildWordCount(input)
		if err != nil {
			// The only failure is a coordinate the scan could not recover,
			// surfaced as a length mismatch. Tokens and coordinates come
			// from the same whitespace split, so this must not happen.
			t.Fatalf("BuildWordCount(%q): %v", input, err)
		}
		if len(ws) != len(Tokenize(input)) {
			t.Errorf("built %d words for %d tokens", len(ws), len(Tokenize(input)))
		}

		lines := strings.Split(input, "\n")
		for i, w := range ws {
			if w.Pos != i+1 {
				t.Errorf("word %d position = %d, want %d", i, w.Pos, i+1)
			}
			if w.Lemma == "" {
				t.Error("empty lemma produced")
			}
			if w.Line < 1 || w.Line > len(lines) || w.Column < 1 {
				t.Fatalf("coordinate out of range: %+v", w)
			}
			runes := []rune(lines[w.Line-1])
			start := w.Column - 1
			end := start + len([]rune(w.Lemma))
			if end > len(runes) || string(runes[start:end]) != w.Lemma {
				t.Errorf("text at %d:%d does not read back as %q", w.Line, w.Column, w.Lemma)
			}
		}
	})
}

func FuzzPercentagePositions(f *testing.F) {
	f.Add("one two three")
	f.Add("")
	f.Add("a")

	f.Fuzz(func(t *testing.T, input string) {
		ws, err := BuildPercentage(input)
		if err != nil {
			t.Fatalf("BuildPercentage(%q): %v", input, err)
		}
		for _, w := range ws {
			if w.Pos <= 0 || w.Pos > 100 {
				t.Errorf("position %v outside (0, 100]", w.Pos)
			}
		}
		if len(ws) > 0 && ws[len(ws)-1].Pos != 100 {
			t.Errorf("last position = %v, want 100", ws[len(ws)-1].Pos)
		}
	})
}
