package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/view"
)

// minColWidth keeps cells readable on narrow terminals.
const minColWidth = 12

// colWidthFor splits a terminal width between the hour column and the days.
func colWidthFor(width int) int {
	const hourCol = 12 // "HH:MM-HH:MM" plus border
	return max((width-hourCol)/5-1, minColWidth)
}

// renderGroupTable renders one group's week as a table: hours down, days across.
// layout decides the presentation of each slot.
func renderGroupTable(layout func(grid.Path) grid.Layout, g *grid.Group, hours []grid.Hour, colWidth int) string {
	rows := make([][]string, 0, len(hours))
	for _, h := range hours {
		row := []string{h.Label()}
		for day := grid.FirstDay; day <= grid.LastDay; day++ {
			row = append(row, cellText(layout(grid.Path{GroupID: g.ID, DayID: day, HourID: h.ID}), colWidth))
		}
		rows = append(rows, row)
	}

	headers := view.HeaderLabels()
	for i := range headers {
		headers[i] = formatHeader(headers[i])
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(true).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return lipgloss.NewStyle().Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1).MaxWidth(colWidth + 2)
		})
	return t.Render()
}

// cellText lists a slot's lessons, two lines each. Split slots are prefixed
// by their week markers and an empty half shows a dash.
func cellText(l grid.Layout, width int) string {
	if l.Mode == grid.LayoutEmpty {
		return ""
	}
	var lines []string
	for _, s := range l.Sections() {
		if l.Mode == grid.LayoutSplit {
			lines = append(lines, formatWeek(s.Week, view.WeekLabel(s.Week)))
		}
		if s.CanAdd {
			lines = append(lines, formatMuted("-"))
		}
		for _, p := range s.Entries {
			lines = append(lines, view.Truncate(view.LessonTitle(p.Entry), width))
			if d := view.LessonDetail(p.Entry); d != "" {
				lines = append(lines, formatMuted(view.Truncate(d, width)))
			}
		}
	}
	return strings.Join(lines, "\n")
}

// formatStats summarizes the loaded grid.
func formatStats(s grid.Stats) string {
	return fmt.Sprintf("%d groups · %d lessons in %d slots · %d locked · %d merged · %d split slots",
		s.Groups, s.Lessons, s.Slots, s.Locked, s.Merged, s.SplitSlots)
}

// filterHours keeps the hours selected by ids, all of them when ids is empty.
func filterHours(hours []grid.Hour, ids []int) []grid.Hour {
	if len(ids) == 0 {
		return hours
	}
	var out []grid.Hour
	for _, h := range hours {
		for _, id := range ids {
			if h.ID == id {
				out = append(out, h)
				break
			}
		}
	}
	return out
}
