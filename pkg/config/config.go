// Package config loads the optional framehost.yaml file and resolves
// defaults for everything it leaves out.
package config

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/framehost/pkg/errors"
	"github.com/go-drift/framehost/pkg/template"
)

// FileName is the config file looked up by LoadOptional.
const FileName = "framehost.yaml"

// Defaults applied by Resolve.
const (
	DefaultScreenWidth  = 1024
	DefaultScreenHeight = 768
	DefaultStep         = 50 * time.Millisecond
	DefaultDuration     = time.Second
	DefaultLogFormat    = "text"
)

// DefaultEvents are fired once scripts are loaded, in this order.
var DefaultEvents = []string{"ADDON_LOADED", "PLAYER_LOGIN", "PLAYER_ENTERING_WORLD"}

// Config mirrors framehost.yaml.
type Config struct {
	// Requires is the minimum framehost version, e.g. v0.2.0.
	Requires   string           `yaml:"requires,omitempty"`
	Screen     ScreenConfig     `yaml:"screen"`
	Log        LogConfig        `yaml:"log"`
	Simulation SimulationConfig `yaml:"simulation"`
	Templates  []template.Entry `yaml:"templates,omitempty"`
}

// ScreenConfig is the size of the root frame.
type ScreenConfig struct {
	Width  float64 `yaml:"width,omitempty"`
	Height float64 `yaml:"height,omitempty"`
}

// LogConfig selects the log level and handler format.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// SimulationConfig drives simulated time in the CLI.
type SimulationConfig struct {
	Step     string   `yaml:"step,omitempty"`
	Duration string   `yaml:"duration,omitempty"`
	Events   []string `yaml:"events,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Path         string
	Requires     string
	ScreenWidth  float64
	ScreenHeight float64
	LogLevel     slog.Level
	LogFormat    string
	Step         time.Duration
	Duration     time.Duration
	Events       []string
	Templates    *template.Catalog
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOptional reads framehost.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	cfg, err := Load(filepath.Join(dir, FileName))
	if err != nil {
		if stderrors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	return cfg, nil
}

// Resolve loads framehost.yaml from dir (if present) and resolves defaults.
func Resolve(dir string) (*Resolved, error) {
	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}
	r, err := cfg.Resolve()
	if err != nil {
		return nil, err
	}
	r.Path = filepath.Join(dir, FileName)
	return r, nil
}

// Resolve validates c and fills in defaults.
func (c *Config) Resolve() (*Resolved, error) {
	r := &Resolved{
		ScreenWidth:  c.Screen.Width,
		ScreenHeight: c.Screen.Height,
		LogFormat:    strings.ToLower(strings.TrimSpace(c.Log.Format)),
		Events:       c.Simulation.Events,
		Templates:    template.NewCatalog(c.Templates...),
	}
	if r.ScreenWidth < 0 {
		return nil, &errors.ConfigError{Field: "screen.width", Value: strconv.FormatFloat(c.Screen.Width, 'g', -1, 64), Err: fmt.Errorf("must not be negative")}
	}
	if r.ScreenHeight < 0 {
		return nil, &errors.ConfigError{Field: "screen.height", Value: strconv.FormatFloat(c.Screen.Height, 'g', -1, 64), Err: fmt.Errorf("must not be negative")}
	}
	if r.ScreenWidth == 0 {
		r.ScreenWidth = DefaultScreenWidth
	}
	if r.ScreenHeight == 0 {
		r.ScreenHeight = DefaultScreenHeight
	}

	level, err := ParseLevel(c.Log.Level)
	if err != nil {
		return nil, &errors.ConfigError{Field: "log.level", Value: c.Log.Level, Err: err}
	}
	r.LogLevel = level

	switch r.LogFormat {
	case "":
		r.LogFormat = DefaultLogFormat
	case "text", "json":
	default:
		return nil, &errors.ConfigError{Field: "log.format", Value: c.Log.Format, Err: fmt.Errorf("want text or json")}
	}

	if r.Step, err = ParseDuration("simulation.step", c.Simulation.Step, DefaultStep); err != nil {
		return nil, err
	}
	if r.Step == 0 {
		return nil, &errors.ConfigError{Field: "simulation.step", Value: c.Simulation.Step, Err: fmt.Errorf("must be positive")}
	}
	if r.Duration, err = ParseDuration("simulation.duration", c.Simulation.Duration, DefaultDuration); err != nil {
		return nil, err
	}
	if len(r.Events) == 0 {
		r.Events = append([]string(nil), DefaultEvents...)
	}
	if c.Requires != "" {
		r.Requires = canonicalVersion(c.Requires)
		if r.Requires == "" {
			return nil, &errors.ConfigError{Field: "requires", Value: c.Requires, Err: fmt.Errorf("not a semantic version")}
		}
	}
	return r, nil
}

// CheckVersion reports a config error when version is older than the
// resolved Requires constraint. Development builds without a valid
// version always pass.
func (r *Resolved) CheckVersion(version string) error {
	if r.Requires == "" {
		return nil
	}
	v := canonicalVersion(version)
	if v == "" {
		return nil
	}
	if semver.Compare(v, r.Requires) < 0 {
		return &errors.ConfigError{Field: "requires", Value: r.Requires, Err: fmt.Errorf("framehost %s is too old", version)}
	}
	return nil
}

// canonicalVersion accepts versions with or without the leading v and
// returns "" when s is not valid semver.
func canonicalVersion(s string) string {
	s = strings.TrimSpace(s)
	if s != "" && !strings.HasPrefix(s, "v") {
		s = "v" + s
	}
	if !semver.IsValid(s) {
		return ""
	}
	return semver.Canonical(s)
}

// ParseDuration parses a non-negative duration string; empty yields def.
func ParseDuration(field, value string, def time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return def, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, &errors.ConfigError{Field: field, Value: value, Err: err}
	}
	if d < 0 {
		return 0, &errors.ConfigError{Field: field, Value: value, Err: fmt.Errorf("must not be negative")}
	}
	return d, nil
}

// ParseLevel maps debug, info, warn and error to slog levels; empty is info.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}
