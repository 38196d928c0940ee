package engine

import "github.com/javiermolinar/timetable/internal/grid"

// GridFetchedMsg is sent when a fetch completes. Only the result of the most
// recently issued fetch (by Token) is applied.
type GridFetchedMsg struct {
	OpID    string
	Token   uint64
	Faculty *grid.Faculty
	Err     error
}

// LessonDeletedMsg is sent when the remote leg of a delete completes.
type LessonDeletedMsg struct {
	OpID            string
	Path            grid.Path
	ScheduleGroupID int64
	Err             error
}

// LockSetMsg is sent when a lock or unlock request completes.
type LockSetMsg struct {
	OpID     string
	Identity grid.Identity
	Locked   bool
	Err      error
}

// LessonCreatedMsg is sent when a create request completes.
type LessonCreatedMsg struct {
	OpID       string
	Draft      grid.LessonDraft
	Placements []grid.Placement
	Err        error
}

// LessonUpdatedMsg is sent when an update request completes.
type LessonUpdatedMsg struct {
	OpID     string
	Path     grid.Path
	Identity grid.Identity
	Draft    grid.LessonDraft
	Err      error
}

// HoursLoadedMsg is sent when hour periods are loaded.
type HoursLoadedMsg struct {
	Hours []grid.Hour
	Err   error
}
