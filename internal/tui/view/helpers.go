package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PlaceBox renders content in a lipgloss.Place box with background fill.
func PlaceBox(w, h int, vAlign lipgloss.Position, content string, bg lipgloss.Color) string {
	placed := lipgloss.Place(
		w,
		h,
		lipgloss.Left,
		vAlign,
		content,
		lipgloss.WithWhitespaceBackground(bg),
	)
	return PadLinesWithBackground(placed, w, h, bg)
}

// PadLinesWithBackground pads content to width/height with a background color.
func PadLinesWithBackground(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	paddingStyle := lipgloss.NewStyle().Background(bg)
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i := 0; i < height; i++ {
		line := ""
		if i < len(lines) {
			line = lines[i]
		}
		lineWidth := lipgloss.Width(line)
		if lineWidth > width {
			lines[i] = line
			continue
		}
		lines[i] = line + paddingStyle.Render(strings.Repeat(" ", width-lineWidth))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

// RenderOverlay centers box and splices it over the base content.
// Used for the lesson form and the confirm prompt.
func RenderOverlay(baseContent, box string, width, height int, bg lipgloss.Color) string {
	boxLines := strings.Split(box, "\n")
	boxH := len(boxLines)
	if boxH == 0 {
		return baseContent
	}

	boxW := 0
	for _, line := range boxLines {
		if w := lipgloss.Width(line); w > boxW {
			boxW = w
		}
	}
	if boxW == 0 {
		return baseContent
	}
	if boxW > width {
		boxW = width
	}

	top := (height - boxH) / 2
	left := (width - boxW) / 2
	if top < 0 {
		top = 0
	}
	if left < 0 {
		left = 0
	}

	for i, line := range boxLines {
		lineWidth := lipgloss.Width(line)
		if lineWidth > boxW {
			line = ansi.Cut(line, 0, boxW)
		}
		if lineWidth < boxW {
			paddingStyle := lipgloss.NewStyle().Background(bg)
			line += paddingStyle.Render(strings.Repeat(" ", boxW-lineWidth))
		}
		line = reapplyBackground(line, bg)
		boxLines[i] = line + ansi.ResetStyle
	}

	baseLines := strings.Split(PadLinesWithBackground(baseContent, width, height, lipgloss.Color("")), "\n")
	for len(baseLines) < height {
		baseLines = append(baseLines, "")
	}

	lines := make([]string, 0, height)
	for row := 0; row < height; row++ {
		if row < top || row >= top+boxH {
			lines = append(lines, baseLines[row])
			continue
		}

		boxLine := boxLines[row-top]
		baseLine := baseLines[row]
		leftSlice := ansi.Cut(baseLine, 0, left)
		rightSlice := ansi.Cut(baseLine, left+boxW, width)
		lines = append(lines, leftSlice+boxLine+rightSlice)
	}

	return strings.Join(lines, "\n")
}

// reapplyBackground restores the overlay background after ANSI resets so
// the box stays filled.
func reapplyBackground(line string, bg lipgloss.Color) string {
	if bg == "" {
		return line
	}
	seq := ansi.Style{}.BackgroundColor(ansi.HexColor(string(bg))).String()
	line = strings.ReplaceAll(line, ansi.ResetStyle, ansi.ResetStyle+seq)
	return strings.ReplaceAll(line, "\x1b[49m", "\x1b[49m"+seq)
}
