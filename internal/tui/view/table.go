package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// TableContent contains the hour rows of the grid and their cell styles.
type TableContent struct {
	Rows       [][]string
	CellStyles [][]lipgloss.Style
}

// TableViewState holds data needed to render the weekly grid of one group.
type TableViewState struct {
	InnerW       int
	GridH        int
	Headers      []string
	HeaderStyles []lipgloss.Style
	Content      TableContent
	BorderStyle  lipgloss.Style
	Bg           lipgloss.Color
}

// RenderTable renders the grid using a lipgloss table, one row per hour
// separated by row borders.
func RenderTable(state TableViewState) string {
	if state.GridH <= 0 || state.InnerW <= 0 {
		return ""
	}

	t := table.New().
		Headers(state.Headers...).
		Width(state.InnerW).
		Border(lipgloss.RoundedBorder()).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(true).
		BorderStyle(state.BorderStyle).
		Rows(state.Content.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col >= 0 && col < len(state.HeaderStyles) {
					return state.HeaderStyles[col]
				}
				return lipgloss.NewStyle()
			}
			if row < 0 || row >= len(state.Content.CellStyles) || col < 0 || col >= len(state.Content.CellStyles[row]) {
				return lipgloss.NewStyle()
			}
			return state.Content.CellStyles[row][col]
		})

	return PlaceBox(state.InnerW, state.GridH, lipgloss.Top, t.Render(), state.Bg)
}
