// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/bandcal/internal/gesture"
	"github.com/javiermolinar/bandcal/internal/gig"
	"github.com/javiermolinar/bandcal/internal/timegrid"
)

// Config holds the application configuration.
type Config struct {
	Grid    GridConfig    `toml:"grid"`
	Storage StorageConfig `toml:"storage"`
	UI      UIConfig      `toml:"ui"`
}

// GridConfig holds day grid geometry and gesture settings.
type GridConfig struct {
	DayStartHour    int     `toml:"day_start_hour"`   // first visible hour
	DayEndHour      int     `toml:"day_end_hour"`     // hour after the last visible one
	HourHeight      float64 `toml:"hour_height"`      // logical pixels per hour
	RowsPerHour     int     `toml:"rows_per_hour"`    // terminal rows per hour
	ClickSnap       int     `toml:"click_snap"`       // minutes
	DragSnap        int     `toml:"drag_snap"`        // minutes
	DragThreshold   float64 `toml:"drag_threshold"`   // logical pixels
	DefaultDuration string  `toml:"default_duration"` // e.g. "2h"
	FallbackStart   string  `toml:"fallback_start"`   // e.g. "20:00"
	NowRefresh      string  `toml:"now_refresh"`      // e.g. "1m"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "latte"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			DayStartHour:    8,
			DayEndHour:      24,
			HourHeight:      60,
			RowsPerHour:     4,
			ClickSnap:       timegrid.ClickSnap,
			DragSnap:        timegrid.DragSnap,
			DragThreshold:   gesture.DefaultThreshold,
			DefaultDuration: "2h",
			FallbackStart:   "20:00",
			NowRefresh:      "1m",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "mocha",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "bandcal.db"
	}
	return filepath.Join(home, ".local", "share", "bandcal", "bandcal.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "bandcal", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies BANDCAL_* environment variables.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	ints := []struct {
		env string
		dst *int
	}{
		{"BANDCAL_DAY_START_HOUR", &cfg.Grid.DayStartHour},
		{"BANDCAL_DAY_END_HOUR", &cfg.Grid.DayEndHour},
		{"BANDCAL_ROWS_PER_HOUR", &cfg.Grid.RowsPerHour},
		{"BANDCAL_CLICK_SNAP", &cfg.Grid.ClickSnap},
		{"BANDCAL_DRAG_SNAP", &cfg.Grid.DragSnap},
	}
	for _, o := range ints {
		if v := os.Getenv(o.env); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", o.env, err)
			}
			*o.dst = n
		}
	}

	floats := []struct {
		env string
		dst *float64
	}{
		{"BANDCAL_HOUR_HEIGHT", &cfg.Grid.HourHeight},
		{"BANDCAL_DRAG_THRESHOLD", &cfg.Grid.DragThreshold},
	}
	for _, o := range floats {
		if v := os.Getenv(o.env); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("%s: %w", o.env, err)
			}
			*o.dst = f
		}
	}

	if v := os.Getenv("BANDCAL_DEFAULT_DURATION"); v != "" {
		cfg.Grid.DefaultDuration = v
	}
	if v := os.Getenv("BANDCAL_FALLBACK_START"); v != "" {
		cfg.Grid.FallbackStart = v
	}
	if v := os.Getenv("BANDCAL_NOW_REFRESH"); v != "" {
		cfg.Grid.NowRefresh = v
	}

	if v := os.Getenv("BANDCAL_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("BANDCAL_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	g := c.Grid
	if err := c.Geometry().Validate(); err != nil {
		return err
	}
	if g.RowsPerHour < 1 || g.RowsPerHour > 60 {
		return fmt.Errorf("rows_per_hour must be between 1 and 60, got %d", g.RowsPerHour)
	}
	if err := validateSnap(g.ClickSnap, "click_snap"); err != nil {
		return err
	}
	if err := validateSnap(g.DragSnap, "drag_snap"); err != nil {
		return err
	}
	if g.DragThreshold < 0 {
		return errors.New("drag_threshold cannot be negative")
	}
	if err := validatePositiveDuration(g.DefaultDuration, "default_duration"); err != nil {
		return err
	}
	if err := validatePositiveDuration(g.NowRefresh, "now_refresh"); err != nil {
		return err
	}
	if err := validateTime(g.FallbackStart, "fallback_start"); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateSnap requires a step that divides an hour evenly.
func validateSnap(snap int, field string) error {
	if snap < 1 || snap > 60 || 60%snap != 0 {
		return fmt.Errorf("%s must divide 60, got %d", field, snap)
	}
	return nil
}

func validatePositiveDuration(s, field string) error {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s must be positive, got %q", field, s)
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	if _, err := timegrid.TimeToMinutes(t); err != nil {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

// Geometry returns the day column geometry.
func (c *Config) Geometry() timegrid.Geometry {
	return timegrid.Geometry{
		DayStartHour: c.Grid.DayStartHour,
		DayEndHour:   c.Grid.DayEndHour,
		HourHeight:   c.Grid.HourHeight,
	}
}

// IntervalOptions returns how gigs without a usable end or start are laid out.
func (c *Config) IntervalOptions() gig.IntervalOptions {
	d, err := time.ParseDuration(c.Grid.DefaultDuration)
	if err != nil {
		d = gig.DefaultDuration
	}
	return gig.IntervalOptions{
		DefaultDuration: d,
		FallbackStart:   timegrid.MinutesOr(c.Grid.FallbackStart, 20*60),
	}
}

// GestureOptions returns the gesture controller settings.
func (c *Config) GestureOptions() gesture.Options {
	return gesture.Options{
		Geometry:  c.Geometry(),
		Threshold: c.Grid.DragThreshold,
		ClickSnap: c.Grid.ClickSnap,
		DragSnap:  c.Grid.DragSnap,
	}
}

// NowRefreshInterval returns how often the current-time marker moves.
func (c *Config) NowRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.Grid.NowRefresh)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}

// CellHeight returns the logical pixel height of one terminal row.
func (c *Config) CellHeight() float64 {
	return c.Grid.HourHeight / float64(max(c.Grid.RowsPerHour, 1))
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
