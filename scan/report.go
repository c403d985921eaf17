package scan

import (
	"fmt"
	"regexp"
	"strings"

	"find-repeats/words"
)

// FileReport holds the repetition findings for one document.
type FileReport struct {
	Path       string
	Size       int64
	TokenCount int
	Groups     []RepeatGroup
}

// RepeatGroup collects every location of one repeated lemma, in document
// order, plus the distances between successive occurrences.
type RepeatGroup struct {
	Lemma       string
	Occurrences []Occurrence
	Pairs       []RepeatPair
}

// Occurrence is one location of a repeated lemma. Position carries the
// mode-dependent position value (ordinal, line number, or percentage) as
// float64 so reports can mix int and float modes behind one type.
type Occurrence struct {
	Line     int
	Column   int
	Position float64
	Excerpt  string
}

// RepeatPair records the signed distance between two occurrences of the same
// lemma. From and To index into the group's Occurrences slice.
type RepeatPair struct {
	From     int
	To       int
	Distance float64
}

// MatchCount returns the total number of occurrence locations across groups.
func (r FileReport) MatchCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Occurrences)
	}
	return n
}

// NearestPair returns the pair with the smallest absolute distance, or false
// when the group has fewer than two occurrences.
func (g RepeatGroup) NearestPair() (RepeatPair, bool) {
	if len(g.Pairs) == 0 {
		return RepeatPair{}, false
	}
	best := g.Pairs[0]
	for _, p := range g.Pairs[1:] {
		if abs(p.Distance) < abs(best.Distance) {
			best = p
		}
	}
	return best, true
}

// Spread returns the distance between the first and last occurrence.
func (g RepeatGroup) Spread() float64 {
	if len(g.Occurrences) < 2 {
		return 0
	}
	return g.Occurrences[len(g.Occurrences)-1].Position - g.Occurrences[0].Position
}

// FormatDistance renders a distance value in the unit of the active mode,
// e.g. "3 words apart", "2 lines apart", "4.2% apart".
func FormatDistance(mode words.Mode, d float64) string {
	d = abs(d)
	switch mode {
	case words.LineCount:
		if d == 1 {
			return "1 line apart"
		}
		return fmt.Sprintf("%.0f lines apart", d)
	case words.Percentage:
		return fmt.Sprintf("%.1f%% apart", d)
	default:
		if d == 1 {
			return "1 word apart"
		}
		return fmt.Sprintf("%.0f words apart", d)
	}
}

// HighlightLemma wraps whole-word matches of lemma in text with ANSI color.
func HighlightLemma(text, lemma string) string {
	const red = "\033[0;31m"
	const nc = "\033[0m"

	if lemma == "" {
		return text
	}
	pattern := fmt.Sprintf(`(?i)\b%s\b`, regexp.QuoteMeta(lemma))
	re, err := regexp.Compile(pattern)
	if err != nil {
		return text
	}
	return re.ReplaceAllStringFunc(text, func(match string) string {
		return red + match + nc
	})
}

// excerptFor renders the source line of an occurrence with the lemma
// highlighted. Lines are trimmed so deep indentation does not blow up the
// report layout.
func excerptFor(lines []string, line int, lemma string) string {
	if line < 1 || line > len(lines) {
		return ""
	}
	return HighlightLemma(strings.TrimSpace(lines[line-1]), lemma)
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
