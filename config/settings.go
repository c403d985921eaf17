package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

const (
	defaultMode            = "words"
	defaultMinLength       = 3
	defaultWorkers         = 4
	defaultHeavyConc       = 2
	defaultBinaryTimeoutMS = 1000
	defaultOutput          = "auto"
)

// Settings holds the persisted knobs of a scan. Zero values mean "use the
// default"; CLI flags override whatever Load produced.
type Settings struct {
	Mode             string   `toml:"mode"`
	Proximity        float64  `toml:"proximity"`
	MinLength        int      `toml:"min_length"`
	FoldCase         bool     `toml:"fold_case"`
	KeepPunctuation  bool     `toml:"keep_punctuation"`
	Ignore           []string `toml:"ignore"`
	Only             []string `toml:"only"`
	IncludeCode      bool     `toml:"include_code"`
	Workers          int      `toml:"workers"`
	HeavyConcurrency int      `toml:"heavy_concurrency"`
	BinaryTimeoutMS  int      `toml:"binary_timeout_ms"`
	Output           string   `toml:"output"`
}

// Default returns Settings populated with repository defaults.
func Default() Settings {
	return Settings{
		Mode:             defaultMode,
		Proximity:        0,
		MinLength:        defaultMinLength,
		FoldCase:         true,
		KeepPunctuation:  false,
		IncludeCode:      false,
		Workers:          defaultWorkers,
		HeavyConcurrency: defaultHeavyConc,
		BinaryTimeoutMS:  defaultBinaryTimeoutMS,
		Output:           defaultOutput,
	}
}

// DefaultPath returns the standard settings file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "ditto", "config.toml")
}

// Load reads settings from path, or from DefaultPath when path is empty.
// A missing default file is not an error; an explicitly named missing file is.
func Load(path string) (Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	s := Default()
	if path == "" {
		return s, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return s, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := s.normalize(); err != nil {
		return s, fmt.Errorf("config %s: %w", path, err)
	}
	return s, nil
}

// WriteSample writes the embedded sample configuration to path, refusing to
// overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

func (s *Settings) normalize() error {
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	if s.Mode == "" {
		s.Mode = defaultMode
	}

	s.Output = strings.ToLower(strings.TrimSpace(s.Output))
	switch s.Output {
	case "":
		s.Output = defaultOutput
	case "auto", "tui", "plain", "summary":
	default:
		return fmt.Errorf("output: unknown style %q", s.Output)
	}

	if s.Proximity < 0 {
		return fmt.Errorf("proximity: must not be negative, got %v", s.Proximity)
	}
	if s.MinLength < 0 {
		return fmt.Errorf("min_length: must not be negative, got %d", s.MinLength)
	}
	if s.Workers < 1 {
		s.Workers = defaultWorkers
	}
	if s.HeavyConcurrency < 1 {
		s.HeavyConcurrency = defaultHeavyConc
	}
	if s.BinaryTimeoutMS < 1 {
		s.BinaryTimeoutMS = defaultBinaryTimeoutMS
	}

	for i, w := range s.Ignore {
		s.Ignore[i] = strings.TrimSpace(w)
	}
	for i, w := range s.Only {
		s.Only[i] = strings.TrimSpace(w)
	}
	return nil
}
