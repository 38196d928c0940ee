// Package tui provides the terminal user interface for the timetable.
package tui

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/engine"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeForm        // Creating or editing a lesson
	ModeConfirm     // Waiting for a y/n answer
)

func (m Mode) String() string {
	switch m {
	case ModeForm:
		return "form"
	case ModeConfirm:
		return "confirm"
	default:
		return "normal"
	}
}

// Position is the cursor in the grid of the displayed group.
type Position struct {
	Day   int // 1=Monday, 5=Friday
	Hour  int // index into the displayed hours
	Entry int // index into the visible lessons of the cell
}

// status is written by the controller's notifier and read by the view.
// It lives behind a pointer so copies of the Model share it.
type status struct {
	kind    grid.NoticeKind
	message string
	until   time.Time
}

// clearStatusMsg clears an expired status message.
type clearStatusMsg struct{}

const statusTTL = 4 * time.Second

// Model is the main TUI model.
type Model struct {
	ctrl   *engine.Controller
	config *config.Config
	logger *slog.Logger

	styles *Styles

	groupID    int64 // displayed group, 0 for the first one
	onlyGroup  bool  // fetch the displayed group only
	cursor     Position
	mode       Mode
	form       lessonForm
	confirmMsg string
	onConfirm  func() tea.Cmd

	status *status

	width    int
	height   int
	colWidth int

	nowFunc func() time.Time
}

// newModel creates a TUI model. The controller's notifier should write
// through notifierFor so feedback ends up in the status line.
func newModel(ctrl *engine.Controller, cfg *config.Config, st *status, logger *slog.Logger) Model {
	if st == nil {
		st = &status{}
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		logger.Warn("theme_failed", "theme", cfg.UI.Theme, "error", err)
		t, _ = theme.Load(theme.DefaultName)
	}

	styles := NewStyles(t)
	return Model{
		ctrl:     ctrl,
		config:   cfg,
		logger:   logger,
		styles:   styles,
		cursor:   Position{Day: grid.FirstDay},
		status:   st,
		colWidth: defaultColWidth,
		form:     newLessonForm(styles),
		nowFunc:  time.Now,
	}
}

// notifierFor returns a notifier that writes into the status line shared
// with the model.
func notifierFor(st *status, now func() time.Time) grid.Notifier {
	return grid.NotifierFunc(func(kind grid.NoticeKind, message string) {
		st.kind = kind
		st.message = message
		st.until = now().Add(statusTTL)
	})
}

// Init mounts the filters and loads the grid.
func (m Model) Init() tea.Cmd {
	// the mount never fetches; Init below loads the grid
	m.ctrl.SetFilters(m.ctrl.Filters())
	return m.ctrl.Init()
}

// Run starts the TUI over src.
func Run(src grid.Source, cfg *config.Config, logger *slog.Logger) error {
	timeout, err := cfg.Timeout()
	if err != nil {
		return err
	}

	st := &status{}
	ctrl := engine.New(engine.Options{
		FacultyID: cfg.Faculty.ID,
		Source:    src,
		Notifier:  notifierFor(st, time.Now),
		Timeout:   timeout,
		Logger:    logger,
	})

	model := newModel(ctrl, cfg, st, logger)
	p := tea.NewProgram(model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// group returns the displayed group, or nil before the first load.
// A group that disappeared from the grid falls back to the first one.
func (m Model) group() *grid.Group {
	f := m.ctrl.Faculty()
	if f == nil || len(f.Groups) == 0 {
		return nil
	}
	if g, ok := f.FindGroup(m.groupID); ok {
		return g
	}
	return f.Groups[0]
}

// hours returns the displayed hour rows.
func (m Model) hours() []grid.Hour {
	hours := m.ctrl.Hours()
	filter := m.ctrl.Filters().HourIDs
	if len(filter) == 0 {
		return hours
	}
	var out []grid.Hour
	for _, h := range hours {
		for _, id := range filter {
			if h.ID == id {
				out = append(out, h)
				break
			}
		}
	}
	return out
}

// path returns the slot under the cursor.
func (m Model) path() (grid.Path, bool) {
	g := m.group()
	hours := m.hours()
	if g == nil || m.cursor.Hour < 0 || m.cursor.Hour >= len(hours) {
		return grid.Path{}, false
	}
	return grid.Path{GroupID: g.ID, DayID: m.cursor.Day, HourID: hours[m.cursor.Hour].ID}, true
}

// selected returns the lesson under the cursor with its position in the
// week view of its type.
func (m Model) selected() (grid.Path, grid.Placed, int, bool) {
	p, ok := m.path()
	if !ok {
		return grid.Path{}, grid.Placed{}, 0, false
	}
	visible := m.ctrl.DecideCell(p).Visible()
	if m.cursor.Entry < 0 || m.cursor.Entry >= len(visible) {
		return grid.Path{}, grid.Placed{}, 0, false
	}
	placed := visible[m.cursor.Entry]
	rel, ok := grid.RelativeIndex(m.ctrl.Faculty().Lessons(p), placed.Entry.Week, placed.Index)
	if !ok {
		return grid.Path{}, grid.Placed{}, 0, false
	}
	return p, placed, rel, true
}
