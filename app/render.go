package app

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"find-repeats/scan"
	"find-repeats/words"
)

// Color codes for plain terminal output
const (
	GREEN  = "\033[32m"
	YELLOW = "\033[33m"
	GRAY   = "\033[90m"
	BOLD   = "\033[1m"
	NC     = "\033[0m" // No Color
)

// getTerminalWidth returns the terminal width, defaulting to 80 if unable to detect
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// createSeparator creates a separator line that fits the terminal width
func createSeparator() string {
	width := getTerminalWidth()
	if width > 120 {
		width = 120
	}
	return strings.Repeat("━", width)
}

// renderPlain writes one block per file: a header line, then one line per
// repeated lemma occurrence with its partner locations and distances.
func renderPlain(w io.Writer, reports []scan.FileReport, mode words.Mode) {
	if len(reports) == 0 {
		fmt.Fprintf(w, "%sNo repeated words found.%s\n", GREEN, NC)
		return
	}

	for _, report := range reports {
		fmt.Fprintf(w, "\n%s%s%s (%s, %d words, %d repeated)\n",
			BOLD, report.Path, NC,
			scan.FormatFileSize(report.Size), report.TokenCount, len(report.Groups))
		fmt.Fprintf(w, "%s%s%s\n", GRAY, createSeparator(), NC)

		for _, group := range report.Groups {
			for i, occ := range group.Occurrences {
				loc := fmt.Sprintf("%s:%d:%d", report.Path, occ.Line, occ.Column)
				fmt.Fprintf(w, "%s: %s%q%s", loc, YELLOW, group.Lemma, NC)
				if i > 0 {
					prev := group.Occurrences[i-1]
					fmt.Fprintf(w, " repeats %d:%d (%s)",
						prev.Line, prev.Column,
						scan.FormatDistance(mode, group.Pairs[i-1].Distance))
				}
				fmt.Fprintln(w)
				if occ.Excerpt != "" {
					fmt.Fprintf(w, "    %s\n", occ.Excerpt)
				}
			}
		}
	}
}
