package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/grid"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.status.until
	next, cmd := m.update(msg)
	// a notice was raised while handling msg: schedule its expiry
	if m.status.until.After(before) {
		cmd = tea.Batch(cmd, clearStatusAfter(statusTTL))
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.logKey(msg)
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.colWidth = m.calculateColWidth()
		return m, nil

	case clearStatusMsg:
		if !m.nowFunc().Before(m.status.until) {
			m.status.message = ""
		}
		return m, nil
	}

	cmd := m.ctrl.Update(msg)
	m.clampCursor()
	if m.mode == ModeForm {
		// cursor blink and other input messages
		cmd = tea.Batch(cmd, m.form.update(msg))
	}
	return m, cmd
}

func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// calculateColWidth splits the terminal width between the hour column and
// the five day columns.
func (m Model) calculateColWidth() int {
	// borders: one per column plus the outer right one
	w := (m.width - hourColWidth - (dayColumns + 2)) / dayColumns
	return max(w, 8)
}

const dayColumns = grid.LastDay - grid.FirstDay + 1

// clampCursor keeps the cursor inside the displayed grid after it changed.
func (m *Model) clampCursor() {
	if n := len(m.hours()); n > 0 {
		m.cursor.Hour = min(max(m.cursor.Hour, 0), n-1)
	} else {
		m.cursor.Hour = 0
	}
	p, ok := m.path()
	if !ok {
		m.cursor.Entry = 0
		return
	}
	n := len(m.ctrl.DecideCell(p).Visible())
	m.cursor.Entry = min(max(m.cursor.Entry, 0), max(n-1, 0))
}
