package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/view"
)

const (
	titleHeight  = 1
	footerHeight = 4
	hourColWidth = 7
)

// View renders the grid of the displayed group with the footer below it.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	g := m.group()
	if g == nil {
		return view.PlaceBox(m.width, m.height, lipgloss.Center, m.styles.SubtitleStyle.Render("Loading timetable..."), m.styles.palette.Bg)
	}

	gridH := m.height - titleHeight - footerHeight
	if gridH <= 0 {
		return "Terminal too small"
	}

	base := lipgloss.JoinVertical(lipgloss.Left,
		m.renderTitle(g),
		view.RenderTable(m.tableViewState(g, gridH)),
		view.RenderFooter(m.footerViewState()),
	)
	base = view.PadLinesWithBackground(base, m.width, m.height, m.styles.palette.Bg)

	if m.mode == ModeForm {
		title := "New lesson"
		if m.form.editing {
			title = "Edit lesson"
		}
		return view.RenderOverlay(base, m.form.view(title), m.width, m.height, m.styles.palette.Bg)
	}
	return base
}

func (m Model) renderTitle(g *grid.Group) string {
	f := m.ctrl.Faculty()
	title := m.styles.TitleStyle.Render("Timetable")
	sub := fmt.Sprintf(" %s · group %s", f.Name, g.Name)
	if m.onlyGroup {
		sub += " (filtered)"
	}
	return title + m.styles.SubtitleStyle.Render(sub)
}

func (m Model) tableViewState(g *grid.Group, gridH int) view.TableViewState {
	headers := view.HeaderLabels()
	headerStyles := make([]lipgloss.Style, len(headers))
	headerStyles[0] = m.styles.HourColumnStyle.Width(hourColWidth)
	for i := 1; i < len(headers); i++ {
		style := m.styles.HeaderStyle.Width(m.colWidth)
		if i == m.cursor.Day {
			style = style.Foreground(m.styles.palette.Accent)
		}
		headerStyles[i] = style
	}

	hours := m.hours()
	rows := make([][]string, len(hours))
	cellStyles := make([][]lipgloss.Style, len(hours))
	for r, h := range hours {
		rows[r] = make([]string, len(headers))
		cellStyles[r] = make([]lipgloss.Style, len(headers))
		rows[r][0] = view.HourLabel(h)
		cellStyles[r][0] = m.styles.HourColumnStyle.Width(hourColWidth)
		for day := grid.FirstDay; day <= grid.LastDay; day++ {
			p := grid.Path{GroupID: g.ID, DayID: day, HourID: h.ID}
			cursor := day == m.cursor.Day && r == m.cursor.Hour
			rows[r][day] = m.renderCell(p, cursor)
			cellStyles[r][day] = m.styles.CellStyle.Width(m.colWidth)
		}
	}

	return view.TableViewState{
		InnerW:       m.width,
		GridH:        gridH,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Content:      view.TableContent{Rows: rows, CellStyles: cellStyles},
		BorderStyle:  m.styles.BorderStyle,
		Bg:           m.styles.palette.Bg,
	}
}

// renderCell draws the sections of one slot. The entry under the cursor is
// highlighted; an empty cursor cell is highlighted as a whole.
func (m Model) renderCell(p grid.Path, cursor bool) string {
	layout := m.ctrl.DecideCell(p)
	width := m.colWidth
	var lines []string
	visible := 0

	if layout.Mode == grid.LayoutEmpty {
		line := m.styles.EmptyStyle.Render(view.Truncate("·", width))
		if cursor {
			line = m.styles.CursorStyle.Render(view.Truncate("+ add", width))
		}
		return line
	}

	for _, s := range layout.Sections() {
		weekStyle := m.styles.WeekStyle(s.Week)
		if layout.Mode == grid.LayoutSplit {
			lines = append(lines, weekStyle.Bold(true).Render(view.Truncate(view.WeekLabel(s.Week), width)))
		}
		if s.CanAdd {
			lines = append(lines, m.styles.EmptyStyle.Render(view.Truncate("  ·", width)))
		}
		for _, placed := range s.Entries {
			title := view.Truncate(view.LessonTitle(placed.Entry), width)
			detail := view.Truncate(view.LessonDetail(placed.Entry), width)

			titleStyle := weekStyle
			switch {
			case cursor && visible == m.cursor.Entry:
				titleStyle = m.styles.CursorStyle
			case placed.Entry.Locked:
				titleStyle = titleStyle.Inherit(m.styles.LockedStyle)
			case placed.Entry.IsMerged():
				titleStyle = titleStyle.Inherit(m.styles.MergedStyle)
			}
			lines = append(lines, titleStyle.Render(title))
			if detail != "" {
				lines = append(lines, m.styles.SubtitleStyle.Render(detail))
			}
			visible++
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) footerViewState() view.FooterViewState {
	st := m.ctrl.Faculty().Stats()
	stats := fmt.Sprintf("%d lessons · %d locked · %d merged · %d split slots",
		st.Lessons, st.Locked, st.Merged, st.SplitSlots)

	legend := strings.Join([]string{
		m.styles.WeekStyle(grid.WeekPermanent).Render(" permanent "),
		m.styles.WeekStyle(grid.WeekUpper).Render(" upper "),
		m.styles.WeekStyle(grid.WeekLower).Render(" lower "),
		m.styles.LockedStyle.Render("[L] locked"),
		m.styles.MergedStyle.Render("[M] merged"),
	}, " ")

	return view.FooterViewState{
		InnerW:     m.width,
		FooterH:    footerHeight,
		StatsLine:  m.styles.FooterStyle.Render(stats),
		LegendLine: legend,
		StatusLine: m.statusLine(),
		HelpLine:   m.helpLine(),
		VAlign:     lipgloss.Bottom,
		Bg:         m.styles.palette.Bg,
	}
}

func (m Model) statusLine() string {
	if m.mode == ModeConfirm {
		return m.styles.WarningStyle.Render(m.confirmMsg)
	}
	if m.status.message == "" || m.nowFunc().After(m.status.until) {
		return ""
	}
	return m.styles.NoticeStyle(m.status.kind).Render(m.status.message)
}

func (m Model) helpLine() string {
	keys := []struct{ key, desc string }{
		{"hjkl", "move"},
		{"tab", "lesson"},
		{"[ ]", "group"},
		{"a", "add"},
		{"e", "edit"},
		{"d", "delete"},
		{"L", "lock"},
		{"s", "split"},
		{"f", "filter"},
		{"r", "reload"},
		{"y", "copy"},
		{"q", "quit"},
	}
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = m.styles.KeyStyle.Render(k.key) + " " + m.styles.FooterStyle.Render(k.desc)
	}
	return strings.Join(parts, "  ")
}
