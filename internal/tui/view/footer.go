package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	InnerW     int
	FooterH    int
	StatsLine  string
	LegendLine string
	StatusLine string
	HelpLine   string
	VAlign     lipgloss.Position
	Bg         lipgloss.Color
}

// RenderFooter renders stats, legend, status and help lines.
// When the footer is short only status and help are kept.
func RenderFooter(state FooterViewState) string {
	if state.FooterH <= 0 {
		return ""
	}

	lines := []string{state.StatsLine, state.LegendLine, state.StatusLine, state.HelpLine}
	if state.FooterH < len(lines) {
		lines = lines[len(lines)-state.FooterH:]
	}
	for i, l := range lines {
		lines[i] = Truncate(l, state.InnerW)
	}
	return PlaceBox(state.InnerW, state.FooterH, state.VAlign, strings.Join(lines, "\n"), state.Bg)
}
