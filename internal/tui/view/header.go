package view

import "github.com/javiermolinar/timetable/internal/grid"

// HeaderLabels builds the column labels: the hour column then one column per weekday.
func HeaderLabels() []string {
	labels := make([]string, 0, grid.LastDay+1)
	labels = append(labels, "Hour")
	for d := grid.FirstDay; d <= grid.LastDay; d++ {
		labels = append(labels, grid.DayShortName(d))
	}
	return labels
}

// HourLabel renders the hour column of a row.
func HourLabel(h grid.Hour) string {
	return h.Start + "\n" + h.End
}
