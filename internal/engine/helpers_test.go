package engine

import (
	"context"
	"errors"

	"github.com/javiermolinar/timetable/internal/grid"
)

var errRemote = errors.New("remote unavailable")

// fakeSource serves a fixed grid and records the calls it receives.
type fakeSource struct {
	faculty *grid.Faculty
	hours   []grid.Hour

	fetchErr  error
	deleteErr error
	lockErr   error
	createErr error
	updateErr error

	placements []grid.Placement

	fetches int
	deleted []int64
	locks   []grid.Identity
	updates []grid.Identity
	filters []grid.Filters
}

func (s *fakeSource) FetchGrid(_ context.Context, _ int64, filters grid.Filters) (*grid.Faculty, error) {
	s.fetches++
	s.filters = append(s.filters, filters)
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.faculty.Clone(), nil
}

func (s *fakeSource) CreateLesson(context.Context, grid.LessonDraft) ([]grid.Placement, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	return s.placements, nil
}

func (s *fakeSource) UpdateLesson(_ context.Context, id grid.Identity, _ grid.LessonDraft) error {
	s.updates = append(s.updates, id)
	return s.updateErr
}

func (s *fakeSource) DeleteLesson(_ context.Context, scheduleGroupID int64) error {
	s.deleted = append(s.deleted, scheduleGroupID)
	return s.deleteErr
}

func (s *fakeSource) SetLock(_ context.Context, id grid.Identity, _ bool) error {
	s.locks = append(s.locks, id)
	return s.lockErr
}

func (s *fakeSource) ListHours(context.Context) ([]grid.Hour, error) {
	return s.hours, nil
}

func (s *fakeSource) Close() error { return nil }

type notice struct {
	kind    grid.NoticeKind
	message string
}

type recorder struct {
	notices []notice
}

func (r *recorder) Notify(kind grid.NoticeKind, message string) {
	r.notices = append(r.notices, notice{kind, message})
}

func (r *recorder) last() grid.NoticeKind {
	if len(r.notices) == 0 {
		return ""
	}
	return r.notices[len(r.notices)-1].kind
}

func entry(scheduleID, scheduleGroupID int64, subject string, week grid.WeekType) *grid.LessonEntry {
	return &grid.LessonEntry{
		ScheduleID:      scheduleID,
		ScheduleGroupID: scheduleGroupID,
		Subject:         subject,
		LessonType:      "lecture",
		Week:            week,
	}
}

var (
	pathA = grid.Path{GroupID: 1, DayID: 1, HourID: 1}
	pathB = grid.Path{GroupID: 2, DayID: 1, HourID: 1}
)

// sampleFaculty has group 1 holding two lessons at Monday/1 and group 2
// holding the merged copy of lesson 10/5.
func sampleFaculty() *grid.Faculty {
	parent := int64(1)
	merged := entry(10, 5, "Physics", grid.WeekPermanent)
	merged.ParentGroup = &parent

	return &grid.Faculty{
		ID:   1,
		Name: "Engineering",
		Groups: []*grid.Group{
			{ID: 1, Name: "E-101", Days: map[int]*grid.Day{
				1: {ID: 1, Hours: []*grid.HourSlot{{HourID: 1, Lessons: []*grid.LessonEntry{
					entry(10, 5, "Physics", grid.WeekPermanent),
					entry(11, 6, "Chemistry", grid.WeekUpper),
				}}}},
			}},
			{ID: 2, Name: "E-102", Days: map[int]*grid.Day{
				1: {ID: 1, Hours: []*grid.HourSlot{{HourID: 1, Lessons: []*grid.LessonEntry{merged}}}},
			}},
		},
	}
}

// newLoaded returns a controller that has already loaded sampleFaculty.
func newLoaded(src *fakeSource, rec *recorder) *Controller {
	if src.faculty == nil {
		src.faculty = sampleFaculty()
	}
	c := New(Options{FacultyID: 1, Source: src, Notifier: rec})
	c.Run(c.Init())
	return c
}
