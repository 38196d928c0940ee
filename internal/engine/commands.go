package engine

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/javiermolinar/timetable/internal/grid"
)

// The constructors below build the asynchronous legs of engine operations.
// A command only talks to the source and reports back with a message; it
// never touches the grid, which stays owned by the Controller.

func withTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func newOpID() string {
	return uuid.NewString()
}

// FetchGrid loads the faculty grid with the given filters.
func FetchGrid(src grid.Source, facultyID int64, filters grid.Filters, token uint64, timeout time.Duration) tea.Cmd {
	opID := newOpID()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		f, err := src.FetchGrid(ctx, facultyID, filters)
		return GridFetchedMsg{OpID: opID, Token: token, Faculty: f, Err: err}
	}
}

// DeleteLesson deletes a logical lesson by schedule group id.
func DeleteLesson(src grid.Source, p grid.Path, scheduleGroupID int64, timeout time.Duration) tea.Cmd {
	opID := newOpID()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		err := src.DeleteLesson(ctx, scheduleGroupID)
		return LessonDeletedMsg{OpID: opID, Path: p, ScheduleGroupID: scheduleGroupID, Err: err}
	}
}

// SetLock locks or unlocks every occurrence of id.
func SetLock(src grid.Source, id grid.Identity, locked bool, timeout time.Duration) tea.Cmd {
	opID := newOpID()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		err := src.SetLock(ctx, id, locked)
		return LockSetMsg{OpID: opID, Identity: id, Locked: locked, Err: err}
	}
}

// CreateLesson persists a new lesson.
func CreateLesson(src grid.Source, draft grid.LessonDraft, timeout time.Duration) tea.Cmd {
	opID := newOpID()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		placements, err := src.CreateLesson(ctx, draft)
		return LessonCreatedMsg{OpID: opID, Draft: draft, Placements: placements, Err: err}
	}
}

// UpdateLesson persists new fields for every occurrence of id.
func UpdateLesson(src grid.Source, p grid.Path, id grid.Identity, draft grid.LessonDraft, timeout time.Duration) tea.Cmd {
	opID := newOpID()
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		err := src.UpdateLesson(ctx, id, draft)
		return LessonUpdatedMsg{OpID: opID, Path: p, Identity: id, Draft: draft, Err: err}
	}
}

// LoadHours loads the hour periods.
func LoadHours(src grid.Source, timeout time.Duration) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout(timeout)
		defer cancel()

		hours, err := src.ListHours(ctx)
		return HoursLoadedMsg{Hours: hours, Err: err}
	}
}
