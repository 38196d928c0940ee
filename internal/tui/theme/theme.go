// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header row, subtle highlight
	BgSelection string `toml:"bg_selection"` // Cursor
	Fg          string `toml:"fg"`           // Primary foreground
	FgMuted     string `toml:"fg_muted"`     // Empty slots, hints
	Accent      string `toml:"accent"`       // Title, borders

	Permanent string `toml:"permanent"` // Every-week lessons
	Upper     string `toml:"upper"`     // Upper-week lessons
	Lower     string `toml:"lower"`     // Lower-week lessons
	Locked    string `toml:"locked"`    // Lock marker
	Merged    string `toml:"merged"`    // Lessons shared with another group

	Warning string `toml:"warning"`
	Error   string `toml:"error"`
	Success string `toml:"success"`
}

// DefaultName is the theme used when none, or an unknown one, is configured.
const DefaultName = "mocha"

// Load reads the embedded theme called name. Unknown names load DefaultName.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if !IsAvailable(name) {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.BgHighlight = coalesce(t.BgHighlight, t.Bg)
	t.BgSelection = coalesce(t.BgSelection, t.BgHighlight, t.Accent)
	t.FgMuted = coalesce(t.FgMuted, t.Fg)
	t.Locked = coalesce(t.Locked, t.Warning, t.Accent)
	t.Merged = coalesce(t.Merged, t.Accent)
	t.Success = coalesce(t.Success, t.Upper, t.Accent)
	t.Error = coalesce(t.Error, t.Warning, t.Accent)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available lists the embedded theme names, default first.
func Available() []string {
	entries, _ := fs.ReadDir(embeddedThemes, "embedded")
	names := []string{DefaultName}
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), ".toml")
		if ok && name != DefaultName {
			names = append(names, name)
		}
	}
	return names
}

// IsAvailable reports whether name is an embedded theme. Case is ignored.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
