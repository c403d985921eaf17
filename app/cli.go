package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"find-repeats/config"
	"find-repeats/scan"
	"find-repeats/words"
)

var version = "0.3"

// Arguments for CLI flags (used to seed the engine and pick an output style)
type Arguments struct {
	Paths            []string
	Mode             string
	Proximity        float64
	MinLength        int
	ExactCase        bool
	KeepPunctuation  bool
	IgnoreWords      []string
	OnlyWords        []string
	IncludeCode      bool
	Workers          int
	HeavyConcurrency int
	BinaryTimeoutMS  int
	ConfigPath       string
	Summary          bool
	Plain            bool
	TUI              bool

	// which value flags the user actually set, so config values survive
	modeSet      bool
	proximitySet bool
	minLengthSet bool
	workersSet   bool
	heavySet     bool
	timeoutSet   bool
}

// parseArguments parses command line args
func parseArguments(args []string) *Arguments {
	result := &Arguments{}

	collecting := "" // "", "not", or "only"
	expectValue := ""

	for _, a := range args {
		if expectValue != "" {
			switch expectValue {
			case "mode":
				result.Mode = a
				result.modeSet = true
			case "distance":
				if f, err := strconv.ParseFloat(a, 64); err == nil && f > 0 {
					result.Proximity = f
					result.proximitySet = true
				}
			case "min-length":
				if n, err := strconv.Atoi(a); err == nil && n >= 0 {
					result.MinLength = n
					result.minLengthSet = true
				}
			case "workers":
				if n, err := strconv.Atoi(a); err == nil && n > 0 {
					result.Workers = n
					result.workersSet = true
				}
			case "heavy-concurrency":
				if n, err := strconv.Atoi(a); err == nil && n > 0 {
					result.HeavyConcurrency = n
					result.heavySet = true
				}
			case "file-timeout-binary":
				if n, err := strconv.Atoi(a); err == nil && n > 0 {
					result.BinaryTimeoutMS = n
					result.timeoutSet = true
				}
			case "config":
				result.ConfigPath = a
			}
			expectValue = ""
			continue
		}

		switch a {
		case "--mode", "-mode":
			expectValue = "mode"
			collecting = ""
		case "--distance", "-distance":
			expectValue = "distance"
			collecting = ""
		case "--min-length":
			expectValue = "min-length"
			collecting = ""
		case "--workers", "-workers":
			expectValue = "workers"
			collecting = ""
		case "--heavy-concurrency":
			expectValue = "heavy-concurrency"
			collecting = ""
		case "--file-timeout-binary":
			expectValue = "file-timeout-binary"
			collecting = ""
		case "--config":
			expectValue = "config"
			collecting = ""
		case "--not":
			collecting = "not"
		case "--only":
			collecting = "only"
		case "--code":
			result.IncludeCode = true
		case "--exact-case":
			result.ExactCase = true
		case "--keep-punctuation":
			result.KeepPunctuation = true
		case "--summary":
			result.Summary = true
		case "--plain":
			result.Plain = true
		case "--tui":
			result.TUI = true
		case "--help", "-h":
			showUsage()
			os.Exit(0)
		case "--version", "-v":
			showVersion()
			os.Exit(0)
		default:
			switch collecting {
			case "not":
				result.IgnoreWords = append(result.IgnoreWords, a)
			case "only":
				result.OnlyWords = append(result.OnlyWords, a)
			default:
				result.Paths = append(result.Paths, a)
			}
		}
	}

	return result
}

// mergeSettings folds flag values over the loaded settings file. Flags the
// user set win; everything else keeps the file's (or default) value.
func mergeSettings(s config.Settings, args *Arguments) config.Settings {
	if args.modeSet {
		s.Mode = args.Mode
	}
	if args.proximitySet {
		s.Proximity = args.Proximity
	}
	if args.minLengthSet {
		s.MinLength = args.MinLength
	}
	if args.workersSet {
		s.Workers = args.Workers
	}
	if args.heavySet {
		s.HeavyConcurrency = args.HeavyConcurrency
	}
	if args.timeoutSet {
		s.BinaryTimeoutMS = args.BinaryTimeoutMS
	}
	if args.ExactCase {
		s.FoldCase = false
	}
	if args.KeepPunctuation {
		s.KeepPunctuation = true
	}
	if args.IncludeCode {
		s.IncludeCode = true
	}
	if len(args.IgnoreWords) > 0 {
		s.Ignore = append(s.Ignore, args.IgnoreWords...)
	}
	if len(args.OnlyWords) > 0 {
		s.Only = args.OnlyWords
	}
	switch {
	case args.Summary:
		s.Output = "summary"
	case args.Plain:
		s.Output = "plain"
	case args.TUI:
		s.Output = "tui"
	}
	return s
}

// buildEngine constructs a scan engine from merged settings.
func buildEngine(s config.Settings) *scan.Engine {
	e := scan.NewEngine(words.ParseMode(s.Mode), s.IncludeCode, s.HeavyConcurrency, s.BinaryTimeoutMS)
	e.Proximity = s.Proximity
	e.MinLength = s.MinLength
	e.FoldCase = s.FoldCase
	e.KeepPunctuation = s.KeepPunctuation
	e.IgnoreWords = s.Ignore
	e.OnlyWords = s.Only
	e.Workers = s.Workers
	return e
}

// showUsage (styled)
func showUsage() {
	fmt.Println()
	logoTop := " █▀▄ █ ▀█▀ ▀█▀ █▀█"
	logoBottom := fmt.Sprintf(" █▄▀ █  █   █  █▄█  v%s", version)
	if len(logoTop) < len(logoBottom) {
		logoTop += strings.Repeat(" ", len(logoBottom)-len(logoTop))
	} else if len(logoBottom) < len(logoTop) {
		logoBottom += strings.Repeat(" ", len(logoTop)-len(logoBottom))
	}
	fmt.Println(lipgloss.NewStyle().Foreground(lipgloss.Color("#7aa2f7")).Render(logoTop + "\n" + logoBottom))
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("USAGE"))
	fmt.Println(infoStyle.Render("  ditto [flags] [path ...] [--not word ...] [--only word ...]"))
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("FLAGS"))
	fmt.Println(infoStyle.Render("  --mode M                Position mode: words, lines, percent (default words)"))
	fmt.Println(infoStyle.Render("  --distance N            Report repeats at most N mode-units apart (0 = all)"))
	fmt.Println(infoStyle.Render("  --min-length N          Ignore words of N characters or fewer (default 3)"))
	fmt.Println(infoStyle.Render("  --exact-case            Treat 'The' and 'the' as different words"))
	fmt.Println(infoStyle.Render("  --keep-punctuation      Keep punctuation attached ('end.' differs from 'end')"))
	fmt.Println(infoStyle.Render("  --not word ...          Words after this are never reported"))
	fmt.Println(infoStyle.Render("  --only word ...         Report only these words"))
	fmt.Println(infoStyle.Render("  --code                  Also scan code files"))
	fmt.Println(infoStyle.Render("  --summary               One summary table instead of per-file reports"))
	fmt.Println(infoStyle.Render("  --plain                 Plain report even on a terminal"))
	fmt.Println(infoStyle.Render("  --tui                   Interactive browser even when piped"))
	fmt.Println(infoStyle.Render("  --workers N             Scan workers (default 4)"))
	fmt.Println(infoStyle.Render("  --heavy-concurrency N   Concurrent heavy extractions (default 2)"))
	fmt.Println(infoStyle.Render("  --file-timeout-binary N Timeout in ms for binary extraction (default 1000)"))
	fmt.Println(infoStyle.Render("  --config PATH           Settings file (default ~/.config/ditto/config.toml)"))
	fmt.Println(infoStyle.Render("  --help, -h              Show help"))
	fmt.Println(infoStyle.Render("  --version, -v           Show version"))
	fmt.Println()

	fmt.Println(subHeaderStyle.Render("EXAMPLES"))
	fmt.Println(infoStyle.Render("  ditto draft.md"))
	fmt.Println(infoStyle.Render("  ditto --distance 50 chapters/"))
	fmt.Println(infoStyle.Render("  ditto --mode lines --distance 2 draft.md"))
	fmt.Println(infoStyle.Render("  ditto --only however therefore moreover docs/"))
	fmt.Println(infoStyle.Render("  ditto --summary --not the a an report.txt"))
	fmt.Println()
}

// showVersion
func showVersion() {
	fmt.Println(successStyle.Render("ditto v" + version))
}

// Run parses CLI arguments, runs the scan, and renders results. Returns a
// process exit code: 0 when no repeats were found, 1 when repeats exist,
// 2 on error (so scripts can tell "clean" from "needs editing").
func Run() int {
	args := parseArguments(os.Args[1:])

	settings, err := config.Load(args.ConfigPath)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 2
	}
	settings = mergeSettings(settings, args)

	interactive := isatty.IsTerminal(os.Stdout.Fd())
	useTUI := settings.Output == "tui" || (settings.Output == "auto" && interactive)

	if useTUI {
		return runTUI(settings, args.Paths)
	}

	engine := buildEngine(settings)
	engine.Silent = settings.Output == "summary"
	reports, err := engine.Execute(args.Paths)
	if err != nil {
		fmt.Println(errorStyle.Render("Error: " + err.Error()))
		return 2
	}

	if settings.Output == "summary" {
		renderSummary(os.Stdout, reports, engine.Mode)
	} else {
		renderPlain(os.Stdout, reports, engine.Mode)
	}

	if len(reports) > 0 {
		return 1
	}
	return 0
}

// runTUI seeds the bubbletea model and runs the interactive browser.
func runTUI(settings config.Settings, paths []string) int {
	m := model{
		settings:        settings,
		paths:           paths,
		loading:         true,
		confirmSelected: "yes",
	}

	startWall = time.Now()
	p := tea.NewProgram(m, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		fmt.Println("Error:", err)
		return 2
	}
	if fm, ok := final.(model); ok && len(fm.reports) > 0 {
		return 1
	}
	return 0
}
