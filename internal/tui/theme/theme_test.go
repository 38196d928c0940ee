package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		themeName string
		wantName  string
	}{
		{"load mocha theme", "mocha", "mocha"},
		{"load macchiato theme", "macchiato", "macchiato"},
		{"load frappe theme", "frappe", "frappe"},
		{"load latte theme", "Latte", "latte"},
		{"empty name defaults to mocha", "", "mocha"},
		{"invalid theme falls back to mocha", "nonexistent", "mocha"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			theme, err := Load(tt.themeName)
			if err != nil {
				t.Fatalf("Load(%q) error = %v", tt.themeName, err)
			}
			if theme.Name != tt.wantName {
				t.Errorf("Load(%q).Name = %q, want %q", tt.themeName, theme.Name, tt.wantName)
			}
		})
	}
}

func TestEmbeddedThemesComplete(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th, err := Load(name)
			if err != nil {
				t.Fatalf("Load error = %v", err)
			}
			fields := map[string]string{
				"bg": th.Bg, "fg": th.Fg, "accent": th.Accent,
				"permanent": th.Permanent, "upper": th.Upper, "lower": th.Lower,
				"locked": th.Locked, "merged": th.Merged,
				"warning": th.Warning, "error": th.Error, "success": th.Success,
			}
			for field, v := range fields {
				if _, _, _, ok := rgb(v); !ok {
					t.Errorf("%s = %q, want #rrggbb", field, v)
				}
			}
		})
	}
}

func TestIsAvailable(t *testing.T) {
	if !IsAvailable("FRAPPE") {
		t.Error("frappe should be available")
	}
	if IsAvailable("solarized") {
		t.Error("solarized should not be available")
	}
}

func TestApplyDefaults(t *testing.T) {
	th := &Theme{Bg: "#101010", Fg: "#eeeeee", Accent: "#ff0000", Warning: "#ffff00"}
	th.applyDefaults()

	if th.BgHighlight != th.Bg {
		t.Errorf("BgHighlight = %q, want bg", th.BgHighlight)
	}
	if th.Locked != th.Warning {
		t.Errorf("Locked = %q, want warning", th.Locked)
	}
	if th.Merged != th.Accent || th.Success != th.Accent {
		t.Errorf("Merged/Success should fall back to accent: %q %q", th.Merged, th.Success)
	}
}

func TestNewPalette(t *testing.T) {
	dark := &Theme{
		Bg:          "#101010",
		BgSelection: "#303030",
		Fg:          "#ffffff",
		Accent:      "#ff0000",
		Permanent:   "#112233",
		Upper:       "#445566",
		Lower:       "#778899",
	}

	p := NewPalette(dark)
	if p.UpperBg != lipgloss.Color(darkenColor(dark.Upper)) {
		t.Errorf("UpperBg = %q, want %q", p.UpperBg, darkenColor(dark.Upper))
	}
	if p.TextOnSelection != lipgloss.Color(dark.Fg) {
		t.Errorf("TextOnSelection = %q, want light text on dark selection", p.TextOnSelection)
	}

	light := &Theme{Bg: "#ffffff", Fg: "#000000", Upper: "#0000ff"}
	if got := NewPalette(light).UpperBg; got != lipgloss.Color(blendColors(light.Upper, light.Bg, 0.75)) {
		t.Errorf("light UpperBg = %q", got)
	}

	if NewPalette(nil).Bg == "" {
		t.Error("nil theme should fall back to mocha")
	}
}

func TestColorHelpers(t *testing.T) {
	if got := darkenColor("#000000"); got != "#282828" {
		t.Errorf("darkenColor floor = %q, want #282828", got)
	}
	if got := darkenColor("nope"); got != "nope" {
		t.Errorf("darkenColor should pass invalid input through, got %q", got)
	}
	if got := blendColors("#000000", "#ffffff", 0.5); got != "#7f7f7f" {
		t.Errorf("blendColors = %q, want #7f7f7f", got)
	}
	if !isLightTheme("#eff1f5") || isLightTheme("#1e1e2e") {
		t.Error("isLightTheme misclassified latte/mocha")
	}
}
