package tui

import (
	"errors"
	"fmt"
	"slices"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/input"
	"github.com/javiermolinar/timetable/internal/tui/view"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys (work in all modes)
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeConfirm:
		return m.handleConfirmKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys in normal mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	// Navigation
	case "h", "left":
		if m.cursor.Day > grid.FirstDay {
			m.cursor.Day--
			m.cursor.Entry = 0
		}
	case "l", "right":
		if m.cursor.Day < grid.LastDay {
			m.cursor.Day++
			m.cursor.Entry = 0
		}
	case "k", "up":
		if m.cursor.Hour > 0 {
			m.cursor.Hour--
			m.cursor.Entry = 0
		}
	case "j", "down":
		if m.cursor.Hour < len(m.hours())-1 {
			m.cursor.Hour++
			m.cursor.Entry = 0
		}
	case "tab":
		m.cycleEntry(1)
	case "shift+tab":
		m.cycleEntry(-1)
	case "]", "g":
		m.cycleGroup(1)
	case "[", "G":
		m.cycleGroup(-1)

	// Lessons
	case "a":
		p, ok := m.path()
		if !ok {
			return m, nil
		}
		m.mode = ModeForm
		return m, m.form.openAdd(p, m.addWeek(p))
	case "e":
		p, placed, _, ok := m.selected()
		if !ok {
			return m, nil
		}
		if placed.Entry.IsMerged() {
			m.notify(grid.NoticeWarning, "Merged lessons are edited from their primary group")
			return m, nil
		}
		if placed.Entry.Locked {
			m.notify(grid.NoticeWarning, "Locked lessons must be unlocked before editing")
			return m, nil
		}
		m.mode = ModeForm
		return m, m.form.openEdit(p, placed)
	case "d", "x":
		p, placed, rel, ok := m.selected()
		if !ok {
			return m, nil
		}
		if placed.Entry.Locked {
			m.notify(grid.NoticeWarning, "Locked lessons must be unlocked before deleting")
			return m, nil
		}
		week := placed.Entry.Week
		del := func() tea.Cmd { return m.ctrl.DeleteAt(p, week, rel) }
		if !m.config.UI.ConfirmDelete {
			return m, del()
		}
		m.mode = ModeConfirm
		m.confirmMsg = fmt.Sprintf("Delete %q? (y/n)", placed.Entry.Subject)
		m.onConfirm = del
	case "L":
		p, placed, rel, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.ctrl.ToggleLockAt(p, placed.Entry.Week, rel)

	// View
	case "s":
		if p, ok := m.path(); ok {
			m.ctrl.SetForceSplit(p, !m.ctrl.ForceSplit(p))
			m.clampCursor()
		}
	case "f":
		return m, m.toggleOnlyGroup()
	case "r":
		return m, m.ctrl.Refresh()
	case "y":
		if g := m.group(); g != nil {
			if err := clipboard.WriteAll(view.PlainSchedule(g, m.hours())); err != nil {
				m.notify(grid.NoticeError, "Could not copy: "+err.Error())
			} else {
				m.notify(grid.NoticeSuccess, "Copied "+g.Name+" to clipboard")
			}
		}
	case "esc":
		m.status.message = ""
	}
	return m, nil
}

// handleFormKeys handles keys while the lesson form is open.
func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		return m, nil
	case "tab":
		if m.form.complete(m.candidates()) {
			return m, nil
		}
		return m, m.form.next()
	case "shift+tab":
		return m, m.form.prev()
	case "enter":
		return m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	draft, err := m.form.draft(m.candidates())
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}

	var cmd tea.Cmd
	if m.form.editing {
		cmd, err = m.ctrl.UpdateLesson(m.form.path, m.form.id, draft)
	} else {
		cmd, err = m.ctrl.CreateLesson(draft)
	}
	switch {
	case errors.Is(err, grid.ErrMergedLesson), errors.Is(err, grid.ErrLockedLesson):
		// the controller already warned
		m.mode = ModeNormal
		return m, nil
	case err != nil:
		m.form.err = err.Error()
		return m, nil
	}
	m.mode = ModeNormal
	return m, cmd
}

// handleConfirmKeys handles the y/n answer of a confirm prompt.
func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		fn := m.onConfirm
		m.mode = ModeNormal
		m.onConfirm = nil
		if fn == nil {
			return m, nil
		}
		cmd := fn()
		m.clampCursor()
		return m, cmd
	case "n", "N", "esc", "q":
		m.mode = ModeNormal
		m.onConfirm = nil
	}
	return m, nil
}

func (m *Model) cycleEntry(step int) {
	p, ok := m.path()
	if !ok {
		return
	}
	n := len(m.ctrl.DecideCell(p).Visible())
	if n == 0 {
		return
	}
	m.cursor.Entry = (m.cursor.Entry + step + n) % n
}

func (m *Model) cycleGroup(step int) {
	f := m.ctrl.Faculty()
	if f == nil || len(f.Groups) == 0 {
		return
	}
	idx := 0
	if g := m.group(); g != nil {
		idx = slices.IndexFunc(f.Groups, func(x *grid.Group) bool { return x.ID == g.ID })
	}
	n := len(f.Groups)
	m.groupID = f.Groups[(idx+step+n)%n].ID
	m.cursor.Entry = 0
}

// toggleOnlyGroup narrows the fetch to the displayed group, or widens it
// back to the whole faculty.
func (m *Model) toggleOnlyGroup() tea.Cmd {
	g := m.group()
	if g == nil {
		return nil
	}
	filters := m.ctrl.Filters()
	m.onlyGroup = !m.onlyGroup
	if m.onlyGroup {
		filters.GroupIDs = []int64{g.ID}
	} else {
		filters.GroupIDs = nil
	}
	m.groupID = g.ID
	return m.ctrl.SetFilters(filters)
}

// addWeek picks the week type offered for a new lesson at p: the first free
// bucket of a split cell, otherwise permanent.
func (m Model) addWeek(p grid.Path) grid.WeekType {
	for _, s := range m.ctrl.DecideCell(p).Sections() {
		if s.CanAdd {
			return s.Week
		}
	}
	if p2, placed, _, ok := m.selected(); ok && p2 == p {
		return placed.Entry.Week
	}
	return grid.WeekPermanent
}

// candidates lists the groups that can share a lesson with the displayed one.
func (m Model) candidates() []input.Candidate {
	f := m.ctrl.Faculty()
	cur := m.group()
	if f == nil {
		return nil
	}
	out := make([]input.Candidate, 0, len(f.Groups))
	for _, g := range f.Groups {
		if cur != nil && g.ID == cur.ID {
			continue
		}
		out = append(out, input.Candidate{ID: g.ID, Name: g.Name})
	}
	return out
}

func (m Model) notify(kind grid.NoticeKind, message string) {
	notifierFor(m.status, m.nowFunc).Notify(kind, message)
}
