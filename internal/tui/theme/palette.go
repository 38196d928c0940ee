package theme

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color

	Permanent lipgloss.Color
	Upper     lipgloss.Color
	Lower     lipgloss.Color
	Locked    lipgloss.Color
	Merged    lipgloss.Color

	// cell backgrounds per week type
	PermanentBg lipgloss.Color
	UpperBg     lipgloss.Color
	LowerBg     lipgloss.Color

	Warning lipgloss.Color
	Error   lipgloss.Color
	Success lipgloss.Color

	TextOnAccent    lipgloss.Color
	TextOnSelection lipgloss.Color
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load("mocha")
	}

	isLight := isLightTheme(t.Bg)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),

		Permanent: lipgloss.Color(t.Permanent),
		Upper:     lipgloss.Color(t.Upper),
		Lower:     lipgloss.Color(t.Lower),
		Locked:    lipgloss.Color(t.Locked),
		Merged:    lipgloss.Color(t.Merged),

		PermanentBg: lipgloss.Color(cellBg(t.Permanent, t.Bg, isLight)),
		UpperBg:     lipgloss.Color(cellBg(t.Upper, t.Bg, isLight)),
		LowerBg:     lipgloss.Color(cellBg(t.Lower, t.Bg, isLight)),

		Warning: lipgloss.Color(t.Warning),
		Error:   lipgloss.Color(t.Error),
		Success: lipgloss.Color(t.Success),

		TextOnAccent:    lipgloss.Color(chooseTextColor(t.Accent, t.Bg, t.Fg)),
		TextOnSelection: lipgloss.Color(chooseTextColor(t.BgSelection, t.Bg, t.Fg)),
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// cellBg tints the base background with the week color.
func cellBg(accent, bg string, isLight bool) string {
	if isLight {
		return blendColors(accent, bg, 0.75)
	}
	return darkenColor(accent)
}

// darkenColor creates a darker version of a hex color for backgrounds.
// Channels never drop below a floor so cells stay visible on dark themes.
func darkenColor(hex string) string {
	r, g, b, ok := rgb(hex)
	if !ok {
		return hex
	}

	const factor = 0.35
	const floor = 40
	return formatHexColor(
		max(int(float64(r)*factor), floor),
		max(int(float64(g)*factor), floor),
		max(int(float64(b)*factor), floor),
	)
}

func rgb(hex string) (r, g, b int, ok bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return 0, 0, 0, false
	}
	parseHex(hex[1:3], &r)
	parseHex(hex[3:5], &g)
	parseHex(hex[5:7], &b)
	return r, g, b, true
}

// parseHex parses a 2-character hex string into an integer.
func parseHex(s string, v *int) {
	var val int
	for i := 0; i < len(s); i++ {
		val *= 16
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			val += int(c - '0')
		case c >= 'a' && c <= 'f':
			val += int(c - 'a' + 10)
		case c >= 'A' && c <= 'F':
			val += int(c - 'A' + 10)
		}
	}
	*v = val
}

// formatHexColor formats RGB values as a hex color string.
func formatHexColor(r, g, b int) string {
	const hex = "0123456789abcdef"
	result := make([]byte, 7)
	result[0] = '#'
	result[1] = hex[r>>4]
	result[2] = hex[r&0xf]
	result[3] = hex[g>>4]
	result[4] = hex[g&0xf]
	result[5] = hex[b>>4]
	result[6] = hex[b&0xf]
	return string(result)
}

func chooseTextColor(bg, lightText, darkText string) string {
	if contrastRatio(bg, lightText) >= contrastRatio(bg, darkText) {
		return lightText
	}
	return darkText
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	r, g, b, ok := rgb(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(r) + 0.7152*srgbToLinear(g) + 0.0722*srgbToLinear(b)
}

func srgbToLinear(c int) float64 {
	v := float64(c) / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}

func blendColors(a, b string, ratio float64) string {
	ar, ag, ab, okA := rgb(a)
	br, bg, bb, okB := rgb(b)
	if !okA || !okB {
		return a
	}
	ratio = min(max(ratio, 0), 1)

	mix := func(x, y int) int { return int(float64(x)*(1-ratio) + float64(y)*ratio) }
	return formatHexColor(mix(ar, br), mix(ag, bg), mix(ab, bb))
}
