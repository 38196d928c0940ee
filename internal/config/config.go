// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/timetable/internal/grid"
)

// Config holds the application configuration.
type Config struct {
	Faculty FacultyConfig `toml:"faculty"`
	Hours   HoursConfig   `toml:"hours"`
	Storage StorageConfig `toml:"storage"`
	Remote  RemoteConfig  `toml:"remote"`
	UI      UIConfig      `toml:"ui"`
}

// FacultyConfig selects the faculty whose timetable is edited.
type FacultyConfig struct {
	ID   int64  `toml:"id"`
	Name string `toml:"name"`
}

// HoursConfig holds the hour periods of a teaching day.
type HoursConfig struct {
	Periods []Period `toml:"periods"`
}

// Period is one hour period, e.g. {1, "08:30", "10:00"}.
type Period struct {
	ID    int    `toml:"id"`
	Start string `toml:"start"`
	End   string `toml:"end"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// RemoteConfig holds settings for calls to the source of truth.
type RemoteConfig struct {
	Timeout string `toml:"timeout"` // Go duration, e.g. "5s"; "0" disables
}

// UIConfig holds TUI and CLI settings.
type UIConfig struct {
	Theme         string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
	ConfirmDelete bool   `toml:"confirm_delete"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Faculty: FacultyConfig{
			ID:   1,
			Name: "Faculty",
		},
		Hours: HoursConfig{
			Periods: []Period{
				{ID: 1, Start: "08:30", End: "10:00"},
				{ID: 2, Start: "10:10", End: "11:40"},
				{ID: 3, Start: "12:10", End: "13:40"},
				{ID: 4, Start: "13:50", End: "15:20"},
				{ID: 5, Start: "15:30", End: "17:00"},
				{ID: 6, Start: "17:10", End: "18:40"},
			},
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Remote: RemoteConfig{
			Timeout: "5s",
		},
		UI: UIConfig{
			Theme:         "frappe",
			ConfirmDelete: true,
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "timetable.db"
	}
	return filepath.Join(home, ".local", "share", "timetable", "timetable.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "timetable", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
// A .env file in the working directory is read first.
func Load() (*Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return nil, err
	}
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, reads a .env
// next to the file, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
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
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// loadDotEnv exports the variables of a .env file. Variables already set in
// the environment win. A missing file is not an error.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("TIMETABLE_FACULTY_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("TIMETABLE_FACULTY_ID: %w", err)
		}
		cfg.Faculty.ID = id
	}
	if v := os.Getenv("TIMETABLE_FACULTY_NAME"); v != "" {
		cfg.Faculty.Name = v
	}
	if v := os.Getenv("TIMETABLE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("TIMETABLE_REMOTE_TIMEOUT"); v != "" {
		cfg.Remote.Timeout = v
	}
	if v := os.Getenv("TIMETABLE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("TIMETABLE_CONFIRM_DELETE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TIMETABLE_CONFIRM_DELETE: %w", err)
		}
		cfg.UI.ConfirmDelete = b
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
	if c.Faculty.ID <= 0 {
		return errors.New("faculty id must be positive")
	}
	if strings.TrimSpace(c.Faculty.Name) == "" {
		return errors.New("faculty name must be set")
	}

	if len(c.Hours.Periods) == 0 {
		return errors.New("at least one hour period must be configured")
	}
	seen := make(map[int]bool)
	for _, p := range c.Hours.Periods {
		if p.ID <= 0 {
			return fmt.Errorf("hour period id must be positive, got %d", p.ID)
		}
		if seen[p.ID] {
			return fmt.Errorf("hour period %d defined twice", p.ID)
		}
		seen[p.ID] = true
		if err := validateTime(p.Start, fmt.Sprintf("hour %d start", p.ID)); err != nil {
			return err
		}
		if err := validateTime(p.End, fmt.Sprintf("hour %d end", p.ID)); err != nil {
			return err
		}
		if p.Start >= p.End {
			return fmt.Errorf("hour %d must start before it ends", p.ID)
		}
	}

	if _, err := c.Timeout(); err != nil {
		return err
	}
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks if a time string is in HH:MM format.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	hour := t[0:2]
	min := t[3:5]
	if !isDigits(hour) || !isDigits(min) {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// Timeout returns the per-call remote timeout. Zero means no timeout.
func (c *Config) Timeout() (time.Duration, error) {
	if c.Remote.Timeout == "" || c.Remote.Timeout == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil {
		return 0, fmt.Errorf("remote timeout: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("remote timeout must not be negative, got %s", d)
	}
	return d, nil
}

// GridHours returns the configured periods as grid hours, ordered by id.
func (c *Config) GridHours() []grid.Hour {
	hours := make([]grid.Hour, 0, len(c.Hours.Periods))
	for _, p := range c.Hours.Periods {
		hours = append(hours, grid.Hour{ID: p.ID, Start: p.Start, End: p.End})
	}
	slices.SortFunc(hours, func(a, b grid.Hour) int { return a.ID - b.ID })
	return hours
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
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
