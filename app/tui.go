package app

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sys/unix"

	"find-repeats/config"
	"find-repeats/scan"
	"find-repeats/words"
)

var startWall time.Time
var latestProgress progressMsg
var haveLatestProgress bool
var progressMu sync.Mutex

// progressMsg updates the top progress line while loading.
// Format in View: "⏳ {Stage} [num/total]: filename"
type progressMsg struct {
	Stage string
	Count int
	Total int
	Path  string
}

// Styles (exported styling used by CLI usage/version output too)
var (
	appStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7aa2f7"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7aa2f7")).
			Align(lipgloss.Center)

	subHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7dcfff")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#a9b1d6"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f7768e")).
			Bold(true)

	lemmaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e0af68")).
			Bold(true)
)

type model struct {
	// Scan inputs
	settings config.Settings
	paths    []string

	// Results and paging (one page per file report)
	reports       []scan.FileReport
	mode          words.Mode
	currentPage   int
	totalPages    int
	contentScroll int

	// progress totals
	totalFiles int

	// Session and timing
	scanTime time.Duration
	quitting bool
	loading  bool

	// Window size
	width  int
	height int

	// UI state
	confirmSelected string // "yes" or "no"
	memUsageText    string // e.g., " • RAM: XXX MB • CPU: YY%"

	// Background progress (optional)
	progressText string
}

func (m model) Init() tea.Cmd {
	// Start polling progress and kick off the background scan immediately.
	return tea.Batch(pollProgress(), m.runScan(), m.memUsageTick())
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		// While loading, only allow quit
		if m.loading {
			switch msg.String() {
			case "q", "ctrl+c":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "left", "h":
			m.confirmSelected = "yes"
			return m, nil
		case "right", "l":
			m.confirmSelected = "no"
			return m, nil

		case "enter":
			if m.confirmSelected == "no" {
				m.quitting = true
				return m, tea.Quit
			}
			if m.currentPage < m.totalPages-1 {
				m.currentPage++
				m.contentScroll = 0
				return m, nil
			}
			m.quitting = true
			return m, tea.Quit

		case "n", "space":
			if m.currentPage < m.totalPages-1 {
				m.currentPage++
			}
			m.contentScroll = 0
			return m, nil
		case "p":
			if m.currentPage > 0 {
				m.currentPage--
			}
			m.contentScroll = 0
			return m, nil

		case "home":
			m.currentPage = 0
			m.contentScroll = 0
			return m, nil
		case "end":
			m.currentPage = m.totalPages - 1
			m.contentScroll = 0
			return m, nil
		case "up", "k":
			m.contentScroll--
			return m, nil
		case "down", "j":
			m.contentScroll++
			return m, nil
		case "pgup":
			m.contentScroll -= 5
			return m, nil
		case "pgdown":
			m.contentScroll += 5
			return m, nil
		}
		return m, nil

	case scanResultMsg:
		// Scan completed: store reports, compute pages, stop loading
		m.reports = msg.reports
		m.mode = msg.mode
		m.confirmSelected = "yes"
		m.scanTime = msg.scanTime
		m.totalPages = len(m.reports)
		if m.totalPages == 0 {
			m.totalPages = 1
		}
		m.loading = false
		return m, m.memUsageTick()

	case memUsageMsg:
		m.memUsageText = msg.Text
		return m, m.memUsageTick()

	case progressTick:
		// Periodic poll: read the most recent progress snapshot (mutex-protected)
		progressMu.Lock()
		lp := latestProgress
		hv := haveLatestProgress
		progressMu.Unlock()

		if hv {
			m.totalFiles = lp.Total
			m.progressText = fmt.Sprintf("%s [%d/%d]: %s", strings.Title(lp.Stage), lp.Count, lp.Total, lp.Path)
		}
		return m, pollProgress()
	}
	return m, nil
}

func (m model) View() string {
	width := m.width
	height := m.height
	if width <= 0 {
		width = 120
	}
	if height <= 0 {
		height = 30
	}

	if m.quitting {
		return "Goodbye!\n"
	}

	// Build header lines
	var headerLines []string

	// ASCII DITTO logo with version
	logoTop := " █▀▄ █ ▀█▀ ▀█▀ █▀█"
	logoBottom := fmt.Sprintf(" █▄▀ █  █   █  █▄█  v%s", version)
	if len(logoTop) < len(logoBottom) {
		logoTop += strings.Repeat(" ", len(logoBottom)-len(logoTop))
	}
	logo := lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Align(lipgloss.Left).Render(logoTop + "\n" + logoBottom)
	headerLines = append(headerLines, "")
	headerLines = append(headerLines, logo)
	headerLines = append(headerLines, "")

	// Scan parameters
	headerLines = append(headerLines, subHeaderStyle.Render("🔁 Repeats: "+describeScan(m.settings)))

	if !m.loading {
		headerLines = append(headerLines, successStyle.Render(fmt.Sprintf("📋 Files with repeats: %d", len(m.reports))))
	}

	// Target description
	targetDesc := config.GetFileTypeDescription(m.settings.IncludeCode)
	targetStyled := lipgloss.NewStyle().Foreground(lipgloss.Color("75"))
	headerLines = append(headerLines, targetStyled.Render(wrapTextWithIndent("📁 Target: ", targetDesc, width-4)))

	// Engine line with workers + RAM/CPU live
	engine := fmt.Sprintf("⚙️ Engine: Workers %d%s", m.settings.Workers, m.memUsageText)
	engineStyled := lipgloss.NewStyle().Foreground(lipgloss.Color("#bb9af7"))
	headerLines = append(headerLines, engineStyled.Render(engine))

	// Elapsed time (freeze after completion)
	var seconds float64
	if m.loading {
		seconds = time.Since(startWall).Seconds()
	} else {
		seconds = m.scanTime.Seconds()
	}
	elapsed := fmt.Sprintf("⏱️ Scanned: %.1f seconds • Flagged: %d of %d files", seconds, len(m.reports), m.totalFiles)
	elapsedStyled := lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	headerLines = append(headerLines, elapsedStyled.Render(elapsed))

	searchInfo := strings.Join(headerLines, "\n")
	headerHeight := strings.Count(searchInfo, "\n") + 1
	progressHeight := 1 // always reserve progress line space to keep box position stable
	bottomStatusHeight := 1
	footerHeight := 1

	var parts []string
	parts = append(parts, searchInfo)
	if m.loading {
		var txt string
		if m.progressText != "" {
			txt = fmt.Sprintf("⏳ %s", m.progressText)
		} else {
			txt = "⏳ Processing"
		}
		progressStyled := lipgloss.NewStyle().Foreground(lipgloss.Color("#7dcfff"))
		parts = append(parts, progressStyled.Render(txt))
	} else {
		parts = append(parts, "")
	}

	// Main content box
	var boxContent string
	if m.loading {
		boxContent = "Scanning..."
	} else if len(m.reports) == 0 {
		boxContent = "No repeated words found."
	} else {
		boxContent = m.renderReport(m.reports[m.currentPage], width)
	}

	boxOuterWidth := width - 4
	chromeHeight := 4
	contentHeight := height - headerHeight - progressHeight - bottomStatusHeight - footerHeight - chromeHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Window the box content according to contentScroll to enable vertical scrolling
	lines := strings.Split(boxContent, "\n")
	if m.contentScroll < 0 {
		m.contentScroll = 0
	}
	maxStart := 0
	if len(lines) > contentHeight {
		maxStart = len(lines) - contentHeight
	}
	if m.contentScroll > maxStart {
		m.contentScroll = maxStart
	}
	start := m.contentScroll
	end := start + contentHeight
	if end > len(lines) {
		end = len(lines)
	}
	window := strings.Join(lines[start:end], "\n")
	parts = append(parts, appStyle.Width(boxOuterWidth).Height(contentHeight).Render(window))

	// Non-scrolling bottom status (buttons)
	var bottomStatus string
	if !m.loading && len(m.reports) > 0 {
		yesSel := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#1a1b26")).
			Background(lipgloss.Color("#9ece6a")).
			Padding(0, 1)
		yesUn := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9ece6a")).
			Padding(0, 1)
		noSel := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#c0caf5")).
			Background(lipgloss.Color("#414868")).
			Padding(0, 1)
		noUn := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#565f89")).
			Padding(0, 1)

		var yesBtn, noBtn string
		if m.confirmSelected == "no" {
			yesBtn = yesUn.Render("[ Yes ]")
			noBtn = noSel.Render("[ No ]")
		} else {
			yesBtn = yesSel.Render("[ Yes ]")
			noBtn = noUn.Render("[ No ]")
		}

		bottomStatus = infoStyle.Render("Continue? ") + yesBtn + "    " + noBtn
	}

	if bottomStatus != "" {
		parts = append(parts, bottomStatus)
	} else {
		parts = append(parts, "")
	}

	// Footer line
	quitInstruction := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Align(lipgloss.Center).
		Render("🔚 'ENTER' continue • 'q' quit • p: previous • n: next")
	parts = append(parts, quitInstruction)

	return strings.Join(parts, "\n")
}

// renderReport formats one file's repeat groups for the content box.
func (m model) renderReport(report scan.FileReport, width int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (%s, %d words, %d repeated locations)\n\n",
		scan.AbsolutePath(report.Path), scan.FormatFileSize(report.Size), report.TokenCount, report.MatchCount())

	for _, group := range report.Groups {
		label := lemmaStyle.Render(fmt.Sprintf("%q", group.Lemma))
		fmt.Fprintf(&b, "%s ×%d\n", label, len(group.Occurrences))
		for i, occ := range group.Occurrences {
			loc := fmt.Sprintf("  %d:%d", occ.Line, occ.Column)
			if i > 0 {
				loc += "  " + scan.FormatDistance(m.mode, group.Pairs[i-1].Distance)
			}
			b.WriteString(loc + "\n")
			if occ.Excerpt != "" {
				innerWidth := (width - 4) - 8
				if innerWidth < 10 {
					innerWidth = 10
				}
				b.WriteString(wrapTextWithIndent("    ", occ.Excerpt, innerWidth) + "\n")
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "File %d of %d", m.currentPage+1, len(m.reports))
	return b.String()
}

// describeScan summarizes the active knobs for the header line.
func describeScan(s config.Settings) string {
	parts := []string{"mode " + words.ParseMode(s.Mode).String()}
	if s.Proximity > 0 {
		parts = append(parts, fmt.Sprintf("within %g", s.Proximity))
	}
	if s.MinLength > 0 {
		parts = append(parts, fmt.Sprintf("length > %d", s.MinLength))
	}
	if !s.FoldCase {
		parts = append(parts, "exact case")
	}
	if len(s.Only) > 0 {
		parts = append(parts, fmt.Sprintf("only %d words", len(s.Only)))
	}
	return strings.Join(parts, " • ")
}

// Background scan command
func (m model) runScan() tea.Cmd {
	engine := buildEngine(m.settings)
	engine.Silent = true

	// Stream progress from the engine to the TUI header
	engine.OnProgress = func(stage string, processed, total int, path string) {
		progressMu.Lock()
		latestProgress = progressMsg{Stage: stage, Count: processed, Total: total, Path: path}
		haveLatestProgress = true
		progressMu.Unlock()
	}

	paths := m.paths
	return func() tea.Msg {
		start := time.Now()
		reports, _ := engine.Execute(paths)
		return scanResultMsg{
			reports:  reports,
			mode:     engine.Mode,
			scanTime: time.Since(start),
		}
	}
}

func wrapTextWithIndent(prefix, text string, width int) string {
	prefixWidth := lipgloss.Width(prefix)
	indent := strings.Repeat(" ", prefixWidth)
	wrapped := lipgloss.NewStyle().Width(width - prefixWidth).Render(text)
	return prefix + strings.ReplaceAll(wrapped, "\n", "\n"+indent)
}

func (m model) memUsageTick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		mem, cpu := sampleMemoryAndCPU()
		return memUsageMsg{Text: fmt.Sprintf(" • Heap %5.1f MB • Total %5.1f MB • CPU %5.1f%%", float64(mem.heap)/(1024*1024), float64(mem.rss)/(1024*1024), cpu)}
	})
}

func pollProgress() tea.Cmd {
	return tea.Tick(time.Millisecond*100, func(time.Time) tea.Msg {
		// Always trigger a poll tick; Update will read the newest snapshot
		return progressTick{}
	})
}

var lastCPUWall time.Time
var lastCPUProc time.Duration
var haveCPUSample bool

func sampleMemoryAndCPU() (mem struct{ heap, rss uint64 }, cpu float64) {
	// Sample memory
	var rusage unix.Rusage
	_ = unix.Getrusage(unix.RUSAGE_SELF, &rusage)
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	mem.heap = ms.HeapAlloc
	mem.rss = uint64(rusage.Maxrss * 1024) // KB to bytes

	// Sample CPU (process user+sys time from rusage)
	nowWall := time.Now()
	user := time.Duration(rusage.Utime.Sec)*time.Second + time.Duration(rusage.Utime.Usec)*time.Microsecond
	sys := time.Duration(rusage.Stime.Sec)*time.Second + time.Duration(rusage.Stime.Usec)*time.Microsecond
	nowProc := user + sys
	if haveCPUSample {
		wallDiff := nowWall.Sub(lastCPUWall)
		procDiff := nowProc - lastCPUProc
		if wallDiff > 0 {
			cpu = procDiff.Seconds() / wallDiff.Seconds() * 100
			if cpu < 0 {
				cpu = 0
			}
		}
	}
	lastCPUWall = nowWall
	lastCPUProc = nowProc
	haveCPUSample = true
	return
}

// Messages for TUI updates
type scanResultMsg struct {
	reports  []scan.FileReport
	mode     words.Mode
	scanTime time.Duration
}

type memUsageMsg struct {
	Text string
}

type progressTick struct{}
