package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

// Default column width - recalculated from the terminal width.
const defaultColWidth = 18

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	BorderStyle   lipgloss.Style

	HeaderStyle     lipgloss.Style
	HourColumnStyle lipgloss.Style

	CellStyle     lipgloss.Style
	EmptyStyle    lipgloss.Style
	CursorStyle   lipgloss.Style
	SelectedStyle lipgloss.Style
	LockedStyle   lipgloss.Style
	MergedStyle   lipgloss.Style

	FooterStyle  lipgloss.Style
	KeyStyle     lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style

	FormLabelStyle   lipgloss.Style
	FormFocusStyle   lipgloss.Style
	FormBoxStyle     lipgloss.Style
	PlaceholderStyle lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)

	return &Styles{
		palette: p,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent).
			Padding(0, 1),
		SubtitleStyle: lipgloss.NewStyle().Foreground(p.FgMuted),
		BorderStyle:   lipgloss.NewStyle().Foreground(p.Accent),

		HeaderStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Background(p.BgHighlight).
			Align(lipgloss.Center),
		HourColumnStyle: lipgloss.NewStyle().Foreground(p.FgMuted),

		CellStyle:     lipgloss.NewStyle().Foreground(p.Fg),
		EmptyStyle:    lipgloss.NewStyle().Foreground(p.FgMuted),
		CursorStyle:   lipgloss.NewStyle().Background(p.BgSelection).Foreground(p.TextOnSelection),
		SelectedStyle: lipgloss.NewStyle().Bold(true).Underline(true),
		LockedStyle:   lipgloss.NewStyle().Foreground(p.Locked),
		MergedStyle:   lipgloss.NewStyle().Foreground(p.Merged).Italic(true),

		FooterStyle:  lipgloss.NewStyle().Foreground(p.FgMuted),
		KeyStyle:     lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		SuccessStyle: lipgloss.NewStyle().Foreground(p.Success),
		WarningStyle: lipgloss.NewStyle().Foreground(p.Warning),
		ErrorStyle:   lipgloss.NewStyle().Foreground(p.Error).Bold(true),

		FormLabelStyle:   lipgloss.NewStyle().Foreground(p.FgMuted).Width(10),
		FormFocusStyle:   lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Width(10),
		FormBoxStyle:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Accent).Padding(0, 1),
		PlaceholderStyle: lipgloss.NewStyle().Foreground(p.FgMuted),
	}
}

// WeekStyle returns the style of a lesson of the given week type.
func (s *Styles) WeekStyle(week grid.WeekType) lipgloss.Style {
	base := lipgloss.NewStyle().Foreground(s.palette.Fg)
	switch week {
	case grid.WeekUpper:
		return base.Background(s.palette.UpperBg)
	case grid.WeekLower:
		return base.Background(s.palette.LowerBg)
	default:
		return base.Background(s.palette.PermanentBg)
	}
}

// NoticeStyle returns the style of a status message.
func (s *Styles) NoticeStyle(kind grid.NoticeKind) lipgloss.Style {
	switch kind {
	case grid.NoticeError:
		return s.ErrorStyle
	case grid.NoticeWarning:
		return s.WarningStyle
	default:
		return s.SuccessStyle
	}
}
