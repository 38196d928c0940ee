package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Faculty.ID != 1 {
		t.Errorf("expected faculty id 1, got %d", cfg.Faculty.ID)
	}
	if len(cfg.Hours.Periods) != 6 {
		t.Errorf("expected 6 hour periods, got %d", len(cfg.Hours.Periods))
	}
	if !cfg.UI.ConfirmDelete {
		t.Error("expected confirm_delete to default to true")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.Remote.Timeout != "5s" {
		t.Errorf("expected default timeout, got %s", cfg.Remote.Timeout)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[faculty]
id = 3
name = "Mathematics"

[[hours.periods]]
id = 1
start = "09:00"
end = "10:30"

[[hours.periods]]
id = 2
start = "10:45"
end = "12:15"

[storage]
db_path = "/tmp/test.db"

[remote]
timeout = "2s"

[ui]
theme = "latte"
confirm_delete = false
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Faculty.ID != 3 || cfg.Faculty.Name != "Mathematics" {
		t.Errorf("expected faculty 3 Mathematics, got %d %s", cfg.Faculty.ID, cfg.Faculty.Name)
	}
	if len(cfg.Hours.Periods) != 2 {
		t.Errorf("expected 2 periods, got %d", len(cfg.Hours.Periods))
	}
	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if d, _ := cfg.Timeout(); d != 2*time.Second {
		t.Errorf("expected timeout 2s, got %s", d)
	}
	if cfg.UI.Theme != "latte" || cfg.UI.ConfirmDelete {
		t.Errorf("unexpected ui config: %+v", cfg.UI)
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[faculty]
id = 3
name = "Mathematics"

[storage]
db_path = "/tmp/test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("TIMETABLE_FACULTY_ID", "9")
	t.Setenv("TIMETABLE_DB_PATH", "/tmp/env.db")
	t.Setenv("TIMETABLE_CONFIRM_DELETE", "false")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Faculty.ID != 9 {
		t.Errorf("expected faculty id 9 from env, got %d", cfg.Faculty.ID)
	}
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
	// File value should be kept when no env override
	if cfg.Faculty.Name != "Mathematics" {
		t.Errorf("expected name from file, got %s", cfg.Faculty.Name)
	}
	if cfg.UI.ConfirmDelete {
		t.Error("expected confirm_delete false from env")
	}
}

func TestLoadFrom_InvalidEnv(t *testing.T) {
	t.Setenv("TIMETABLE_FACULTY_ID", "abc")

	if _, err := LoadFrom("/nonexistent/path/config.toml"); err == nil {
		t.Error("expected error for non-numeric faculty id")
	}
}

func TestLoadFrom_DotEnv(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	if err := os.WriteFile(filepath.Join(tmpDir, ".env"), []byte("TIMETABLE_FACULTY_NAME=Physics\n"), 0o644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	// godotenv exports into the process environment
	_ = os.Unsetenv("TIMETABLE_FACULTY_NAME")
	t.Cleanup(func() { _ = os.Unsetenv("TIMETABLE_FACULTY_NAME") })

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Faculty.Name != "Physics" {
		t.Errorf("expected name from .env, got %s", cfg.Faculty.Name)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero faculty", func(c *Config) { c.Faculty.ID = 0 }},
		{"blank faculty name", func(c *Config) { c.Faculty.Name = "  " }},
		{"no hours", func(c *Config) { c.Hours.Periods = nil }},
		{"bad hour id", func(c *Config) { c.Hours.Periods[0].ID = 0 }},
		{"duplicate hour", func(c *Config) { c.Hours.Periods[1].ID = c.Hours.Periods[0].ID }},
		{"bad start", func(c *Config) { c.Hours.Periods[0].Start = "8:30" }},
		{"end before start", func(c *Config) { c.Hours.Periods[0].End = "08:00" }},
		{"bad timeout", func(c *Config) { c.Remote.Timeout = "soon" }},
		{"negative timeout", func(c *Config) { c.Remote.Timeout = "-1s" }},
		{"no db path", func(c *Config) { c.Storage.DBPath = "" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"0", 0},
		{"1500ms", 1500 * time.Millisecond},
		{"10s", 10 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			cfg := Default()
			cfg.Remote.Timeout = tc.value
			got, err := cfg.Timeout()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Timeout() = %s, want %s", got, tc.want)
			}
		})
	}
}

func TestGridHours_Sorted(t *testing.T) {
	cfg := Default()
	cfg.Hours.Periods = []Period{
		{ID: 2, Start: "10:00", End: "11:00"},
		{ID: 1, Start: "09:00", End: "10:00"},
	}

	hours := cfg.GridHours()
	if len(hours) != 2 || hours[0].ID != 1 || hours[1].Start != "10:00" {
		t.Errorf("GridHours() = %+v", hours)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	cfg := Default()
	cfg.Faculty.Name = "Chemistry"
	cfg.Hours.Periods = cfg.Hours.Periods[:3]
	cfg.UI.Theme = "mocha"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.Faculty.Name != "Chemistry" {
		t.Errorf("expected name Chemistry, got %s", loaded.Faculty.Name)
	}
	if len(loaded.Hours.Periods) != 3 {
		t.Errorf("expected 3 periods, got %d", len(loaded.Hours.Periods))
	}
	if loaded.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", loaded.UI.Theme)
	}
}
