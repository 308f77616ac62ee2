// Package config loads and validates the simulator configuration.
// Files may be YAML or JSON; YAML is tried first since JSON is a YAML
// subset anyway.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the full runtime configuration.
type Config struct {
	// Instrument is the pair being replayed and sized.
	Instrument string `yaml:"instrument" json:"instrument"`
	// ProposedUnits is the baseline position size the pipeline scales.
	ProposedUnits float64 `yaml:"proposed_units" json:"proposed_units"`
	// Lookback is how many bars of history each observation carries.
	Lookback int `yaml:"lookback" json:"lookback"`

	Data       Data       `yaml:"data" json:"data"`
	Components Components `yaml:"components" json:"components"`
	Sizing     Sizing     `yaml:"sizing" json:"sizing"`
	Episode    Episode    `yaml:"episode" json:"episode"`
	Journal    Journal    `yaml:"journal" json:"journal"`
	Metrics    Metrics    `yaml:"metrics" json:"metrics"`
	Log        Log        `yaml:"log" json:"log"`
}

// Data points at the input files.
type Data struct {
	// Bars is the primary instrument's OHLCV CSV.
	Bars string `yaml:"bars" json:"bars"`
	// Calendar is the economic calendar CSV, optional.
	Calendar string `yaml:"calendar" json:"calendar"`
	// CrossMarket maps series keys ("bonds/US10Y") to bar CSVs for
	// the intermarket detectors, optional.
	CrossMarket map[string]string `yaml:"cross_market" json:"cross_market"`
}

// Components toggles and tunes the sizing components.
type Components struct {
	Session     Session     `yaml:"session" json:"session"`
	News        News        `yaml:"news" json:"news"`
	Correlation Correlation `yaml:"correlation" json:"correlation"`
	CrossMarket CrossMarket `yaml:"cross_market" json:"cross_market"`
}

type Session struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// BaseSpread is the instrument's typical spread in price units,
	// scaled by the session spread multiplier for journaling.
	BaseSpread float64 `yaml:"base_spread" json:"base_spread"`
}

type News struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
	// PreWindowMinutes and PostWindowMinutes override the default
	// buffers per impact tier ("high: 60"). Empty keeps defaults.
	PreWindowMinutes  map[string]int `yaml:"pre_window_minutes" json:"pre_window_minutes"`
	PostWindowMinutes map[string]int `yaml:"post_window_minutes" json:"post_window_minutes"`
}

type Correlation struct {
	Enabled         bool    `yaml:"enabled" json:"enabled"`
	Window          int     `yaml:"window" json:"window"`
	RefreshEvery    int     `yaml:"refresh_every" json:"refresh_every"`
	MinObservations int     `yaml:"min_observations" json:"min_observations"`
	Floor           float64 `yaml:"floor" json:"floor"`
}

type CrossMarket struct {
	Enabled bool `yaml:"enabled" json:"enabled"`
}

// Sizing bounds the composite multiplier.
type Sizing struct {
	MinComposite          float64 `yaml:"min_composite" json:"min_composite"`
	MaxComposite          float64 `yaml:"max_composite" json:"max_composite"`
	BlockedUnwindFraction float64 `yaml:"blocked_unwind_fraction" json:"blocked_unwind_fraction"`
}

// Episode controls replay start behavior.
type Episode struct {
	// RandomStart begins each episode at a random bar offset instead
	// of the beginning of the series.
	RandomStart bool `yaml:"random_start" json:"random_start"`
	// Seed fixes the random start for reproducible runs; 0 seeds from
	// the clock.
	Seed int64 `yaml:"seed" json:"seed"`
	// MaxSteps caps the episode length, 0 for the whole series.
	MaxSteps int `yaml:"max_steps" json:"max_steps"`
}

// Journal selects the decision store.
type Journal struct {
	// Type is "sqlite", "csv" or "none".
	Type string `yaml:"type" json:"type"`
	// Path is the database file for sqlite.
	Path string `yaml:"path" json:"path"`
	// StepsPath and EpisodesPath are the two files for csv.
	StepsPath    string `yaml:"steps_path" json:"steps_path"`
	EpisodesPath string `yaml:"episodes_path" json:"episodes_path"`
}

type Metrics struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Addr    string `yaml:"addr" json:"addr"`
}

type Log struct {
	// Level is zap's: debug, info, warn, error.
	Level string `yaml:"level" json:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format" json:"format"`
}

// Default returns a runnable baseline. Callers overlay file values on
// top of it.
func Default() Config {
	return Config{
		Instrument:    "EUR_USD",
		ProposedUnits: 10000,
		Lookback:      50,
		Components: Components{
			Session:     Session{Enabled: true},
			News:        News{Enabled: true},
			Correlation: Correlation{Enabled: true, Window: 100, RefreshEvery: 1, MinObservations: 30, Floor: 0.25},
			CrossMarket: CrossMarket{Enabled: true},
		},
		Sizing: Sizing{
			MinComposite:          0.05,
			MaxComposite:          1.50,
			BlockedUnwindFraction: 0,
		},
		Episode: Episode{RandomStart: false, Seed: 0},
		Journal: Journal{Type: "none"},
		Metrics: Metrics{Enabled: false, Addr: ":9180"},
		Log:     Log{Level: "info", Format: "console"},
	}
}

// LoadFromFile reads path over the defaults. YAML first, then JSON.
func LoadFromFile(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}

	if yerr := yaml.Unmarshal(raw, &cfg); yerr != nil {
		cfg = Default()
		if jerr := json.Unmarshal(raw, &cfg); jerr != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, yerr)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate fails fast on the first invalid field.
func (c Config) Validate() error {
	if c.Instrument == "" {
		return fmt.Errorf("config: instrument is required")
	}
	if c.ProposedUnits <= 0 {
		return fmt.Errorf("config: proposed_units must be positive, got %v", c.ProposedUnits)
	}
	if c.Lookback < 1 {
		return fmt.Errorf("config: lookback must be >= 1, got %d", c.Lookback)
	}
	if c.Data.Bars == "" {
		return fmt.Errorf("config: data.bars is required")
	}
	if c.Components.Session.BaseSpread < 0 {
		return fmt.Errorf("config: session base_spread must be >= 0, got %v", c.Components.Session.BaseSpread)
	}
	if c.Components.Correlation.Enabled {
		cc := c.Components.Correlation
		if cc.Window < 2 {
			return fmt.Errorf("config: correlation window must be >= 2, got %d", cc.Window)
		}
		if cc.MinObservations < 2 || cc.MinObservations > cc.Window {
			return fmt.Errorf("config: correlation min_observations %d outside [2,%d]", cc.MinObservations, cc.Window)
		}
		if cc.Floor < 0 || cc.Floor > 1 {
			return fmt.Errorf("config: correlation floor out of range: %v", cc.Floor)
		}
	}
	if c.Sizing.MinComposite <= 0 || c.Sizing.MaxComposite < c.Sizing.MinComposite {
		return fmt.Errorf("config: sizing bounds invalid: [%v, %v]",
			c.Sizing.MinComposite, c.Sizing.MaxComposite)
	}
	if c.Sizing.BlockedUnwindFraction < 0 || c.Sizing.BlockedUnwindFraction > 1 {
		return fmt.Errorf("config: blocked_unwind_fraction out of range: %v", c.Sizing.BlockedUnwindFraction)
	}
	if c.Episode.MaxSteps < 0 {
		return fmt.Errorf("config: episode max_steps must be >= 0, got %d", c.Episode.MaxSteps)
	}

	switch strings.ToLower(c.Journal.Type) {
	case "", "none":
	case "sqlite":
		if c.Journal.Path == "" {
			return fmt.Errorf("config: journal.path is required for sqlite")
		}
	case "csv":
		if c.Journal.StepsPath == "" || c.Journal.EpisodesPath == "" {
			return fmt.Errorf("config: journal.steps_path and journal.episodes_path are required for csv")
		}
	default:
		return fmt.Errorf("config: unknown journal type %q", c.Journal.Type)
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: unknown log format %q", c.Log.Format)
	}

	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		return fmt.Errorf("config: metrics.addr is required when metrics are enabled")
	}
	return nil
}
