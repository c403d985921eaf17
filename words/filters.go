package words

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// The sequence transforms below are total: they always return a new slice
// and never mutate their input. Order of application is the caller's choice;
// folding case before a blacklist check matches differently than after.

// StripPunctuation removes punctuation runes from every lemma, leaving
// position and coordinates untouched.
func StripPunctuation[P Position](ws []Word[P]) []Word[P] {
	out := make([]Word[P], len(ws))
	for i, w := range ws {
		w.Lemma = strings.Map(func(r rune) rune {
			if unicode.IsPunct(r) {
				return -1
			}
			return r
		}, w.Lemma)
		out[i] = w
	}
	return out
}

// Lowercase folds every lemma to lower case.
func Lowercase[P Position](ws []Word[P]) []Word[P] {
	out := make([]Word[P], len(ws))
	for i, w := range ws {
		w.Lemma = strings.ToLower(w.Lemma)
		out[i] = w
	}
	return out
}

// ApplyBlacklist drops words whose lemma exactly matches an entry in list.
func ApplyBlacklist[P Position](ws []Word[P], list []string) []Word[P] {
	blocked := make(map[string]bool, len(list))
	for _, s := range list {
		blocked[s] = true
	}
	out := make([]Word[P], 0, len(ws))
	for _, w := range ws {
		if !blocked[w.Lemma] {
			out = append(out, w)
		}
	}
	return out
}

// ApplyWhitelist keeps only words whose lemma exactly matches an entry in
// list.
func ApplyWhitelist[P Position](ws []Word[P], list []string) []Word[P] {
	allowed := make(map[string]bool, len(list))
	for _, s := range list {
		allowed[s] = true
	}
	out := make([]Word[P], 0, len(ws))
	for _, w := range ws {
		if allowed[w.Lemma] {
			out = append(out, w)
		}
	}
	return out
}

// FilterMinLength drops words whose lemma is not strictly longer than min,
// counted in runes. A threshold of 3 drops "the" but keeps "then".
func FilterMinLength[P Position](ws []Word[P], min int) []Word[P] {
	out := make([]Word[P], 0, len(ws))
	for _, w := range ws {
		if utf8.RuneCountInString(w.Lemma) > min {
			out = append(out, w)
		}
	}
	return out
}
