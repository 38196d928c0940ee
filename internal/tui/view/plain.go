package view

import (
	"fmt"
	"strings"

	"github.com/javiermolinar/timetable/internal/grid"
)

// PlainSchedule renders a group's week as plain text, one line per lesson.
// Hours not present in hours are skipped.
func PlainSchedule(g *grid.Group, hours []grid.Hour) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", g.Name)
	for _, dayID := range g.DayIDs() {
		d := g.Days[dayID]
		for _, h := range hours {
			slot, ok := d.FindHourSlot(h.ID)
			if !ok {
				continue
			}
			for _, e := range slot.Lessons {
				fmt.Fprintf(&b, "%s %s  %s", grid.DayShortName(dayID), h.Label(), LessonTitle(e))
				if detail := LessonDetail(e); detail != "" {
					fmt.Fprintf(&b, " (%s)", detail)
				}
				if e.Week != grid.WeekPermanent {
					fmt.Fprintf(&b, " [%s]", e.Week)
				}
				b.WriteByte('\n')
			}
		}
	}
	return b.String()
}
