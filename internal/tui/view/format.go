// Package view provides rendering helpers for the TUI.
package view

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/timetable/internal/grid"
)

const ellipsis = "…"

// Truncate cuts s to width cells.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, ellipsis)
}

// LessonTitle formats the first line of a lesson: subject plus lock and
// merge markers.
func LessonTitle(e *grid.LessonEntry) string {
	var b strings.Builder
	if e.Locked {
		b.WriteString("[L] ")
	}
	if e.IsMerged() {
		b.WriteString("[M] ")
	}
	b.WriteString(e.Subject)
	return b.String()
}

// LessonDetail formats the second line of a lesson: type, teacher and room,
// skipping empty parts.
func LessonDetail(e *grid.LessonEntry) string {
	parts := make([]string, 0, 3)
	for _, s := range []string{e.LessonType, e.Teacher, e.Room} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " · ")
}

// WeekLabel is the short marker of a split section.
func WeekLabel(w grid.WeekType) string {
	switch w {
	case grid.WeekUpper:
		return "▲ upper"
	case grid.WeekLower:
		return "▼ lower"
	default:
		return "permanent"
	}
}
