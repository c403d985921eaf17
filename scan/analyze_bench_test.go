package scan

import (
	"strings"
	"testing"

	"find-repeats/words"
)

var benchReport FileReport

func BenchmarkAnalyzeText_Prose(b *testing.B) {
	// Build a ~16KB document with a handful of deliberately repeated words
	// scattered through otherwise varied filler. The matcher is quadratic in
	// occurrences per lemma, so the fixture stays modest.
	const targetSize = 16 * 1024
	var sb strings.Builder
	sb.Grow(targetSize + 128)
	fill := "lorem ipsum dolor sit amet consectetur adipiscing elit sed do eiusmod tempor\n"
	for sb.Len() < targetSize {
		sb.WriteString(fill)
		sb.WriteString("the quick brown fox jumps over the lazy dog\n")
	}
	text := sb.String()

	e := NewEngine(words.WordCount, false, 2, 2000)
	e.Silent = true
	e.MinLength = 2

	// Sanity check once before measuring
	report, err := e.AnalyzeText("bench.txt", text)
	if err != nil {
		b.Fatalf("sanity check failed: %v", err)
	}
	if len(report.Groups) == 0 {
		b.Fatal("sanity check failed: expected repeats in benchmark text")
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchReport, _ = e.AnalyzeText("bench.txt", text)
	}
	_ = benchReport
}

func BenchmarkAnalyzeText_NoRepeats(b *testing.B) {
	// Every token unique: the matcher's worst case per lemma never fires
	// and the pipeline cost dominates.
	var sb strings.Builder
	for i := 0; i < 5000; i++ {
		sb.WriteString("w")
		for n := i; n > 0; n /= 26 {
			sb.WriteByte(byte('a' + n%26))
		}
		if i%12 == 11 {
			sb.WriteByte('\n')
		} else {
			sb.WriteByte(' ')
		}
	}
	text := sb.String()

	e := NewEngine(words.WordCount, false, 2, 2000)
	e.Silent = true

	report, err := e.AnalyzeText("bench.txt", text)
	if err != nil {
		b.Fatalf("sanity check failed: %v", err)
	}
	if len(report.Groups) != 0 {
		b.Fatalf("sanity check failed: expected no repeats, got %d groups", len(report.Groups))
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		benchReport, _ = e.AnalyzeText("bench.txt", text)
	}
	_ = benchReport
}
