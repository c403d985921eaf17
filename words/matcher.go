package words

import "sort"

// FindRepeats intersects the word sequence with itself under "same lemma,
// different coordinate" and returns the matched words sorted by lemma. Every
// word appears once per partner it matches: a lemma occurring three times
// yields six entries, two per occurrence. Callers that want one row per
// location dedupe by coordinate; keeping the full pairwise expansion lets
// them report every place a repetition occurs, not just that one exists.
//
// The sort is stable, so entries sharing a lemma keep their encounter order
// and output is deterministic run to run. An empty input returns an empty
// result.
func FindRepeats[P Position](ws []Word[P]) []Word[P] {
	var matched []Word[P]
	for _, w := range ws {
		for _, other := range ws {
			if w.Lemma == other.Lemma && !SameSpot(w, other) {
				matched = append(matched, w)
			}
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Lemma < matched[j].Lemma
	})
	return matched
}
