package app

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"find-repeats/scan"
	"find-repeats/words"
)

// summaryRow aggregates one repeated lemma across every scanned file.
type summaryRow struct {
	lemma      string
	count      int
	nearest    float64
	hasNearest bool
	location   string
}

// renderSummary prints one table row per repeated lemma: how often it
// occurs, the closest two occurrences, and where it first appears.
func renderSummary(w io.Writer, reports []scan.FileReport, mode words.Mode) {
	rows := summarize(reports)
	if len(rows) == 0 {
		fmt.Fprintln(w, "No repeated words found.")
		return
	}

	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Word", "Count", "Nearest Pair", "First Seen"})
	for _, r := range rows {
		tw.AppendRow(table.Row{
			r.lemma,
			r.count,
			scan.FormatDistance(mode, r.nearest),
			r.location,
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 3, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	tw.Render()
}

// summarize folds per-file groups into per-lemma rows, sorted by occurrence
// count (most repeated first), lemma as tiebreak.
func summarize(reports []scan.FileReport) []summaryRow {
	byLemma := make(map[string]*summaryRow)
	for _, report := range reports {
		for _, group := range report.Groups {
			row, ok := byLemma[group.Lemma]
			if !ok {
				first := group.Occurrences[0]
				row = &summaryRow{
					lemma:    group.Lemma,
					location: fmt.Sprintf("%s:%d:%d", report.Path, first.Line, first.Column),
				}
				byLemma[group.Lemma] = row
			}
			row.count += len(group.Occurrences)
			if nearest, ok := group.NearestPair(); ok {
				d := nearest.Distance
				if d < 0 {
					d = -d
				}
				// A zero gap (same line in line mode) is a valid nearest
				// value, so "unset" needs its own flag.
				if !row.hasNearest || d < row.nearest {
					row.nearest = d
					row.hasNearest = true
				}
			}
		}
	}

	rows := make([]summaryRow, 0, len(byLemma))
	for _, r := range byLemma {
		rows = append(rows, *r)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].count != rows[j].count {
			return rows[i].count > rows[j].count
		}
		return rows[i].lemma < rows[j].lemma
	})
	return rows
}
