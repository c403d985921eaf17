package scan

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"find-repeats/scan/pdf"
	"find-repeats/words"
)

// ProgressFunc is an optional callback to report progress like: processed, total, path
type ProgressFunc func(stage string, processed, total int, path string)

// ConcurrencyManager handles bounded concurrency for heavy operations
type ConcurrencyManager struct {
	sem chan struct{}
}

func NewConcurrencyManager(slots int) *ConcurrencyManager {
	return &ConcurrencyManager{sem: make(chan struct{}, slots)}
}

func (cm *ConcurrencyManager) Acquire() {
	cm.sem <- struct{}{}
}

func (cm *ConcurrencyManager) Release() {
	<-cm.sem
}

func (cm *ConcurrencyManager) ExecuteWithTimeout(fn func(), timeout time.Duration) error {
	done := make(chan struct{})

	go func() {
		defer func() { _ = recover() }()
		fn()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("operation timed out")
	}
}

// Engine runs the repetition scan: discover files, read and extract text,
// analyze each document, and keep the reports that show repeats.
type Engine struct {
	Mode              words.Mode
	Proximity         float64 // report a group only when some pair is at most this far apart; 0 disables the cut
	MinLength         int     // drop lemmas not strictly longer than this, in runes
	FoldCase          bool
	KeepPunctuation   bool
	IgnoreWords       []string
	OnlyWords         []string
	IncludeCode       bool
	Registry          *ExtractorRegistry
	Silent            bool
	Workers           int
	HeavyConcurrency  int
	FileTimeoutBinary time.Duration

	// Optional progress callback (nil if unused)
	OnProgress ProgressFunc
}

// NewEngine creates an engine with the default normalization pipeline:
// punctuation stripped, case folded, no proximity cut.
func NewEngine(mode words.Mode, includeCode bool, heavyConcurrency int, fileTimeoutBinary int) *Engine {
	return &Engine{
		Mode:              mode,
		FoldCase:          true,
		KeepPunctuation:   false,
		IncludeCode:       includeCode,
		Registry:          NewExtractorRegistry(),
		Workers:           4,
		HeavyConcurrency:  heavyConcurrency,
		FileTimeoutBinary: time.Duration(fileTimeoutBinary) * time.Millisecond,
	}
}

// Execute scans the given paths (files or directories; empty means the
// current directory) and returns one report per file that has repeats.
func (e *Engine) Execute(paths []string) ([]FileReport, error) {
	startTime := time.Now()

	walker := NewFileWalker(e.IncludeCode)
	candidates, err := walker.Discover(paths)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	if e.OnProgress != nil {
		e.OnProgress("discovery", 0, len(candidates), "")
	}
	if len(candidates) == 0 {
		if !e.Silent {
			fmt.Println("No documents found to scan.")
		}
		return nil, nil
	}
	if !e.Silent {
		fmt.Printf("Scanning %s files for repeated words...\n", formatNumber(len(candidates)))
	}

	workers := e.Workers
	if workers < 1 {
		workers = 1
	}

	var reports []FileReport
	var mu sync.Mutex
	processed := 0

	jobs := make(chan string, 256)
	var wg sync.WaitGroup
	cm := NewConcurrencyManager(e.HeavyConcurrency)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range jobs {
				report, err := e.analyzeFile(path, cm)

				mu.Lock()
				processed++
				p := processed
				if err == nil && len(report.Groups) > 0 {
					reports = append(reports, report)
				}
				mu.Unlock()

				if err != nil && !e.Silent {
					fmt.Printf("Warning: %v\n", err)
				}
				if e.OnProgress != nil {
					e.OnProgress("scanning", p, len(candidates), path)
				}
			}
		}()
	}

	for _, path := range candidates {
		jobs <- path
	}
	close(jobs)
	wg.Wait()

	sort.Slice(reports, func(i, j int) bool { return reports[i].Path < reports[j].Path })

	if !e.Silent {
		fmt.Printf("Scan completed in %.1f seconds: %d of %d files have repeats.\n",
			time.Since(startTime).Seconds(), len(reports), len(candidates))
	}
	return reports, nil
}

// analyzeFile reads one file, extracts its text, and analyzes it.
func (e *Engine) analyzeFile(path string, cm *ConcurrencyManager) (FileReport, error) {
	data, size, err := ReadFileCapped(path)
	if err != nil {
		return FileReport{}, fmt.Errorf("error reading file %s: %w", path, err)
	}

	text, err := e.extractText(path, data, cm)
	if err != nil {
		return FileReport{}, fmt.Errorf("error extracting text from %s: %w", path, err)
	}

	report, err := e.AnalyzeText(path, text)
	if err != nil {
		return FileReport{}, fmt.Errorf("error analyzing %s: %w", path, err)
	}
	report.Size = size
	return report, nil
}

// extractText turns raw file bytes into analysis-ready text. Plain text
// passes through the decoder untouched so coordinates round-trip to the
// file; binary formats go through the extractor registry under a timeout.
func (e *Engine) extractText(path string, data []byte, cm *ConcurrencyManager) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	// Transparent gzip: inflate and re-dispatch on the inner extension.
	if ext == ".gz" {
		inflated, err := DecompressGzip(data)
		if err != nil {
			return "", err
		}
		data = inflated
		ext = strings.ToLower(filepath.Ext(strings.TrimSuffix(path, filepath.Ext(path))))
	}

	// PDFs prefer the capped pdfcpu path when that build tag is on; the
	// in-registry extractor remains the fallback.
	if ext == ".pdf" {
		if text, err := pdf.ExtractAllTextCapped(path, 0, 0); err == nil && text != "" {
			return text, nil
		}
	}

	extractor, exists := e.Registry.GetExtractor(ext)
	if !exists {
		return DecodeText(data), nil
	}

	// Markup strips are cheap; only true binary formats take a concurrency
	// slot and run under the timeout.
	if !IsBinaryFormat(path) {
		return extractor.ExtractText(data)
	}

	cm.Acquire()
	defer cm.Release()

	var text string
	var extErr error
	err := cm.ExecuteWithTimeout(func() {
		text, extErr = extractor.ExtractText(data)
	}, e.FileTimeoutBinary)
	if err != nil {
		return "", fmt.Errorf("extraction timeout: %w", err)
	}
	if extErr != nil {
		return "", extErr
	}
	return text, nil
}

// AnalyzeText runs the repetition pipeline over already-decoded text.
func (e *Engine) AnalyzeText(path, text string) (FileReport, error) {
	report := FileReport{
		Path:       path,
		TokenCount: len(words.Tokenize(text)),
	}
	lines := strings.Split(text, "\n")

	switch e.Mode {
	case words.Percentage:
		ws, err := words.BuildPercentage(text)
		if err != nil {
			return report, err
		}
		report.Groups = buildGroups(e, ws, lines)
	case words.LineCount:
		ws, err := words.BuildLineCount(text)
		if err != nil {
			return report, err
		}
		report.Groups = buildGroups(e, ws, lines)
	default:
		ws, err := words.BuildWordCount(text)
		if err != nil {
			return report, err
		}
		report.Groups = buildGroups(e, ws, lines)
	}
	return report, nil
}

// buildGroups applies the engine's normalization pipeline, finds the repeats,
// and folds the matched words into per-lemma groups with pair distances.
func buildGroups[P words.Position](e *Engine, ws []words.Word[P], lines []string) []RepeatGroup {
	if !e.KeepPunctuation {
		ws = words.StripPunctuation(ws)
	}
	if e.FoldCase {
		ws = words.Lowercase(ws)
	}
	if len(e.IgnoreWords) > 0 {
		ws = words.ApplyBlacklist(ws, e.IgnoreWords)
	}
	if len(e.OnlyWords) > 0 {
		ws = words.ApplyWhitelist(ws, e.OnlyWords)
	}
	// Always applied: with MinLength 0 this still drops lemmas that
	// punctuation stripping reduced to nothing.
	ws = words.FilterMinLength(ws, e.MinLength)

	matched := words.FindRepeats(ws)

	var groups []RepeatGroup
	for i := 0; i < len(matched); {
		j := i
		for j < len(matched) && matched[j].Lemma == matched[i].Lemma {
			j++
		}

		// The matcher keeps pairwise multiplicity; reports want one row per
		// location, so collapse to unique coordinates (encounter order is
		// document order).
		occs := uniqueSpots(matched[i:j])
		group := RepeatGroup{Lemma: matched[i].Lemma}
		for _, w := range occs {
			group.Occurrences = append(group.Occurrences, Occurrence{
				Line:     w.Line,
				Column:   w.Column,
				Position: float64(w.Pos),
				Excerpt:  excerptFor(lines, w.Line, w.Lemma),
			})
		}
		// Later minus earlier, so a successive pair's distance is the
		// positive gap in the active mode's unit.
		for k := 1; k < len(occs); k++ {
			group.Pairs = append(group.Pairs, RepeatPair{
				From:     k - 1,
				To:       k,
				Distance: float64(words.Distance(occs[k], occs[k-1])),
			})
		}

		if e.passesProximity(group.Pairs) {
			groups = append(groups, group)
		}
		i = j
	}
	return groups
}

// passesProximity reports whether some pair of occurrences lies within the
// engine's proximity window. A window of 0 keeps every group.
func (e *Engine) passesProximity(pairs []RepeatPair) bool {
	if e.Proximity <= 0 {
		return true
	}
	for _, p := range pairs {
		if abs(p.Distance) <= e.Proximity {
			return true
		}
	}
	return false
}

func uniqueSpots[P words.Position](ws []words.Word[P]) []words.Word[P] {
	seen := make(map[words.Coordinate]bool, len(ws))
	out := make([]words.Word[P], 0, len(ws))
	for _, w := range ws {
		key := words.Coordinate{Line: w.Line, Column: w.Column}
		if !seen[key] {
			seen[key] = true
			out = append(out, w)
		}
	}
	return out
}

// formatNumber formats a number with thousands separators
func formatNumber(n int) string {
	str := fmt.Sprintf("%d", n)
	if len(str) <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (len(str)-i)%3 == 0 {
			result.WriteString(",")
		}
		result.WriteRune(digit)
	}

	return result.String()
}
