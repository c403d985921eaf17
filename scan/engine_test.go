package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"find-repeats/words"
)

const sampleText = "the cat sat on the mat\nthe end"

func newTestEngine(mode words.Mode) *Engine {
	e := NewEngine(mode, false, 2, 2000)
	e.Silent = true
	return e
}

func groupFor(t *testing.T, report FileReport, lemma string) RepeatGroup {
	t.Helper()
	for _, g := range report.Groups {
		if g.Lemma == lemma {
			return g
		}
	}
	t.Fatalf("no group for lemma %q in %+v", lemma, report.Groups)
	return RepeatGroup{}
}

func TestAnalyzeTextWordCount(t *testing.T) {
	e := newTestEngine(words.WordCount)
	report, err := e.AnalyzeText("sample.txt", sampleText)
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	if report.TokenCount != 8 {
		t.Errorf("TokenCount = %d, want 8", report.TokenCount)
	}
	if len(report.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(report.Groups))
	}

	g := groupFor(t, report, "the")
	if len(g.Occurrences) != 3 {
		t.Fatalf("got %d occurrences, want 3", len(g.Occurrences))
	}

	wantSpots := []struct{ line, col int }{{1, 1}, {1, 16}, {2, 1}}
	for i, want := range wantSpots {
		occ := g.Occurrences[i]
		if occ.Line != want.line || occ.Column != want.col {
			t.Errorf("occurrence %d at %d:%d, want %d:%d", i, occ.Line, occ.Column, want.line, want.col)
		}
	}

	wantDistances := []float64{4, 2}
	if len(g.Pairs) != len(wantDistances) {
		t.Fatalf("got %d pairs, want %d", len(g.Pairs), len(wantDistances))
	}
	for i, want := range wantDistances {
		if g.Pairs[i].Distance != want {
			t.Errorf("pair %d distance = %g, want %g", i, g.Pairs[i].Distance, want)
		}
	}
}

func TestAnalyzeTextModes(t *testing.T) {
	tests := []struct {
		name      string
		mode      words.Mode
		positions []float64
		distances []float64
	}{
		{"word count", words.WordCount, []float64{1, 5, 7}, []float64{4, 2}},
		{"line count", words.LineCount, []float64{1, 1, 2}, []float64{0, 1}},
		{"percentage", words.Percentage, []float64{12.5, 62.5, 87.5}, []float64{50, 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(tt.mode)
			report, err := e.AnalyzeText("sample.txt", sampleText)
			if err != nil {
				t.Fatalf("AnalyzeText failed: %v", err)
			}
			g := groupFor(t, report, "the")

			for i, want := range tt.positions {
				if got := g.Occurrences[i].Position; got != want {
					t.Errorf("occurrence %d position = %g, want %g", i, got, want)
				}
			}
			for i, want := range tt.distances {
				if got := g.Pairs[i].Distance; got != want {
					t.Errorf("pair %d distance = %g, want %g", i, got, want)
				}
			}
		})
	}
}

func TestAnalyzeTextPipeline(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		configure  func(*Engine)
		wantLemmas []string
	}{
		{
			name:       "case folded by default",
			text:       "Hello hello",
			configure:  func(e *Engine) {},
			wantLemmas: []string{"hello"},
		},
		{
			name:       "exact case keeps variants apart",
			text:       "Hello hello",
			configure:  func(e *Engine) { e.FoldCase = false },
			wantLemmas: nil,
		},
		{
			name:       "punctuation stripped by default",
			text:       "end. end",
			configure:  func(e *Engine) {},
			wantLemmas: []string{"end"},
		},
		{
			name:       "keep punctuation separates tokens",
			text:       "end. end",
			configure:  func(e *Engine) { e.KeepPunctuation = true },
			wantLemmas: nil,
		},
		{
			name:       "ignore list removes a lemma",
			text:       sampleText,
			configure:  func(e *Engine) { e.IgnoreWords = []string{"the"} },
			wantLemmas: nil,
		},
		{
			name:       "only list narrows the scan",
			text:       "cat the cat the dog",
			configure:  func(e *Engine) { e.OnlyWords = []string{"the"} },
			wantLemmas: []string{"the"},
		},
		{
			name:       "min length drops short lemmas",
			text:       "it it wordy wordy",
			configure:  func(e *Engine) { e.MinLength = 3 },
			wantLemmas: []string{"wordy"},
		},
		{
			name:       "punctuation-only tokens never match each other",
			text:       "--- stop --- stop ---",
			configure:  func(e *Engine) {},
			wantLemmas: []string{"stop"},
		},
		{
			name:       "proximity keeps close pairs",
			text:       sampleText,
			configure:  func(e *Engine) { e.Proximity = 2 },
			wantLemmas: []string{"the"},
		},
		{
			name:       "proximity cuts distant groups",
			text:       sampleText,
			configure:  func(e *Engine) { e.Proximity = 1 },
			wantLemmas: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(words.WordCount)
			tt.configure(e)

			report, err := e.AnalyzeText("test.txt", tt.text)
			if err != nil {
				t.Fatalf("AnalyzeText failed: %v", err)
			}

			var got []string
			for _, g := range report.Groups {
				got = append(got, g.Lemma)
			}
			if len(got) != len(tt.wantLemmas) {
				t.Fatalf("got lemmas %v, want %v", got, tt.wantLemmas)
			}
			for i := range got {
				if got[i] != tt.wantLemmas[i] {
					t.Errorf("lemma %d = %q, want %q", i, got[i], tt.wantLemmas[i])
				}
			}
		})
	}
}

func TestAnalyzeTextExcerpts(t *testing.T) {
	e := newTestEngine(words.WordCount)
	report, err := e.AnalyzeText("test.txt", "  indented echo here\necho again")
	if err != nil {
		t.Fatalf("AnalyzeText failed: %v", err)
	}

	g := groupFor(t, report, "echo")
	for i, occ := range g.Occurrences {
		if !strings.Contains(occ.Excerpt, "echo") {
			t.Errorf("occurrence %d excerpt %q does not contain the lemma", i, occ.Excerpt)
		}
		if strings.HasPrefix(occ.Excerpt, " ") {
			t.Errorf("occurrence %d excerpt %q keeps leading whitespace", i, occ.Excerpt)
		}
	}
}

func TestExecuteOverDirectory(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	write("repeats.txt", "twice upon a time, twice upon a rhyme")
	write("clean.md", "every word here is unique")
	write("ignored.bin", "twice twice twice")

	// Repeats hidden inside a tooling directory must not be scanned.
	sub := filepath.Join(dir, "node_modules")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(sub, "dep.txt"), []byte("skip skip"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newTestEngine(words.WordCount)
	reports, err := e.Execute([]string{dir})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1: %+v", len(reports), reports)
	}
	if filepath.Base(reports[0].Path) != "repeats.txt" {
		t.Errorf("report for %s, want repeats.txt", reports[0].Path)
	}
	g := groupFor(t, reports[0], "twice")
	if len(g.Occurrences) != 2 {
		t.Errorf("got %d occurrences of twice, want 2", len(g.Occurrences))
	}
	if reports[0].Size == 0 {
		t.Error("report size not set")
	}
}

func TestExecuteGzippedDocument(t *testing.T) {
	dir := t.TempDir()

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte("round and round it goes and goes")); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "notes.txt.gz")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newTestEngine(words.WordCount)
	reports, err := e.Execute([]string{dir})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(reports) != 1 {
		t.Fatalf("got %d reports, want 1", len(reports))
	}

	lemmas := make(map[string]bool)
	for _, g := range reports[0].Groups {
		lemmas[g.Lemma] = true
	}
	if !lemmas["round"] || !lemmas["and"] || !lemmas["goes"] {
		t.Errorf("missing expected lemmas, got %v", lemmas)
	}
}

func TestExecuteProgressCallback(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one two one"), 0o644); err != nil {
		t.Fatal(err)
	}

	e := newTestEngine(words.WordCount)
	e.Workers = 1

	var stages []string
	e.OnProgress = func(stage string, processed, total int, path string) {
		stages = append(stages, stage)
		if total != 1 {
			t.Errorf("total = %d, want 1", total)
		}
	}

	if _, err := e.Execute([]string{dir}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(stages) < 2 || stages[0] != "discovery" || stages[len(stages)-1] != "scanning" {
		t.Errorf("unexpected progress stages %v", stages)
	}
}

func TestWalkerCandidates(t *testing.T) {
	fw := NewFileWalker(false)

	tests := []struct {
		path string
		want bool
	}{
		{"notes.txt", true},
		{"doc.md", true},
		{"report.PDF", true},
		{"mail.eml", true},
		{"archive.txt.gz", true},
		{"binary.gz", false},
		{"program.exe", false},
		{"main.go", false},
		{"README", true},
		{"LICENSE", true},
		{"Makefile", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := fw.isCandidate(tt.path); got != tt.want {
				t.Errorf("isCandidate(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	code := NewFileWalker(true)
	if !code.isCandidate("main.go") {
		t.Error("code walker should accept main.go")
	}
}

func TestDiscoverExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.unknownext")
	if err := os.WriteFile(path, []byte("x y x"), 0o644); err != nil {
		t.Fatal(err)
	}

	fw := NewFileWalker(false)
	files, err := fw.Discover([]string{path})
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if len(files) != 1 || files[0] != path {
		t.Errorf("explicitly named file not included: %v", files)
	}

	n, err := fw.Count([]string{path})
	if err != nil || n != 1 {
		t.Errorf("Count = %d, %v; want 1", n, err)
	}
}

func TestFormatDistance(t *testing.T) {
	tests := []struct {
		mode words.Mode
		d    float64
		want string
	}{
		{words.WordCount, 1, "1 word apart"},
		{words.WordCount, -3, "3 words apart"},
		{words.LineCount, 1, "1 line apart"},
		{words.LineCount, 4, "4 lines apart"},
		{words.Percentage, 4.25, "4.2% apart"},
	}

	for _, tt := range tests {
		if got := FormatDistance(tt.mode, tt.d); got != tt.want {
			t.Errorf("FormatDistance(%v, %g) = %q, want %q", tt.mode, tt.d, got, tt.want)
		}
	}
}

func TestHighlightLemma(t *testing.T) {
	got := HighlightLemma("the cathedral the", "the")
	if strings.Count(got, "\033[0;31m") != 2 {
		t.Errorf("expected two whole-word highlights, got %q", got)
	}
	if strings.Contains(got, "\033[0;31mcathedral") {
		t.Errorf("highlighted inside a longer word: %q", got)
	}
}

func TestNearestPairAndSpread(t *testing.T) {
	g := RepeatGroup{
		Lemma: "echo",
		Occurrences: []Occurrence{
			{Position: 1}, {Position: 9}, {Position: 11},
		},
		Pairs: []RepeatPair{
			{From: 0, To: 1, Distance: 8},
			{From: 1, To: 2, Distance: 2},
		},
	}

	best, ok := g.NearestPair()
	if !ok || best.Distance != 2 {
		t.Errorf("NearestPair = %+v, %v; want distance 2", best, ok)
	}
	if got := g.Spread(); got != 10 {
		t.Errorf("Spread = %g, want 10", got)
	}

	empty := RepeatGroup{Occurrences: []Occurrence{{Position: 1}}}
	if _, ok := empty.NearestPair(); ok {
		t.Error("NearestPair on a single occurrence should report false")
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{7, "7"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, tt := range tests {
		if got := formatNumber(tt.n); got != tt.want {
			t.Errorf("formatNumber(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
