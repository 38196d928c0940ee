package grid

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Source is the remote source of truth for the grid.
type Source interface {
	// FetchGrid returns the faculty grid, already restricted by filters.
	FetchGrid(ctx context.Context, facultyID int64, filters Filters) (*Faculty, error)

	// CreateLesson persists a lesson for one or more groups.
	// Returns one placement per created occurrence, primary group first.
	CreateLesson(ctx context.Context, draft LessonDraft) ([]Placement, error)

	// UpdateLesson rewrites the fields of every occurrence of id.
	UpdateLesson(ctx context.Context, id Identity, draft LessonDraft) error

	// DeleteLesson removes every occurrence of a logical lesson.
	DeleteLesson(ctx context.Context, scheduleGroupID int64) error

	// SetLock locks or unlocks every occurrence of id.
	SetLock(ctx context.Context, id Identity, locked bool) error

	// ListHours returns the hour periods, ordered by id.
	ListHours(ctx context.Context) ([]Hour, error)

	// Close releases any resources held by the source.
	Close() error
}

// NoticeKind classifies user-visible feedback.
type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notifier delivers user-visible feedback. Presentation is up to the implementation.
type Notifier interface {
	Notify(kind NoticeKind, message string)
}

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(kind NoticeKind, message string)

// Notify calls fn.
func (fn NotifierFunc) Notify(kind NoticeKind, message string) { fn(kind, message) }

// ConfirmerFunc adapts a function to Confirmer.
type ConfirmerFunc func(prompt string) bool

// Confirm calls fn.
func (fn ConfirmerFunc) Confirm(prompt string) bool { return fn(prompt) }

// Placement is one occurrence created by Source.CreateLesson.
type Placement struct {
	Path  Path
	Entry *LessonEntry
}

// LessonDraft is the payload for creating or updating a lesson.
// A draft with several groups creates a merged lesson; the first group is the primary one.
type LessonDraft struct {
	GroupIDs   []int64  `validate:"required,min=1,dive,gt=0"`
	Day        int      `validate:"min=1,max=5"`
	HourID     int      `validate:"gt=0"`
	Subject    string   `validate:"required,max=200"`
	LessonType string   `validate:"required,max=50"`
	Teacher    string   `validate:"max=200"`
	Room       string   `validate:"max=50"`
	Week       WeekType `validate:"required,oneof=permanent upper lower"`
	Locked     bool
}

var validate = validator.New()

// Validate checks the draft. Errors wrap ErrInvalidDraft.
func (d *LessonDraft) Validate() error {
	d.Subject = strings.TrimSpace(d.Subject)
	d.LessonType = strings.TrimSpace(d.LessonType)
	d.Teacher = strings.TrimSpace(d.Teacher)
	d.Room = strings.TrimSpace(d.Room)

	if err := validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("%w: %s failed on %q", ErrInvalidDraft, fe.Field(), fe.Tag())
		}
		return fmt.Errorf("%w: %v", ErrInvalidDraft, err)
	}
	seen := make(map[int64]bool, len(d.GroupIDs))
	for _, id := range d.GroupIDs {
		if seen[id] {
			return fmt.Errorf("%w: group %d listed twice", ErrInvalidDraft, id)
		}
		seen[id] = true
	}
	return nil
}

// Path returns the slot of the draft's group at position i.
func (d LessonDraft) Path(i int) Path {
	return Path{GroupID: d.GroupIDs[i], DayID: d.Day, HourID: d.HourID}
}

// Apply copies the draft's lesson fields onto a copy of e.
func (d LessonDraft) Apply(e *LessonEntry) *LessonEntry {
	next := *e
	next.Subject = d.Subject
	next.LessonType = d.LessonType
	next.Teacher = d.Teacher
	next.Room = d.Room
	next.Week = d.Week
	return &next
}

// DraftFrom builds a draft describing e at p.
func DraftFrom(p Path, e *LessonEntry) LessonDraft {
	return LessonDraft{
		GroupIDs:   []int64{p.GroupID},
		Day:        p.DayID,
		HourID:     p.HourID,
		Subject:    e.Subject,
		LessonType: e.LessonType,
		Teacher:    e.Teacher,
		Room:       e.Room,
		Week:       e.Week,
		Locked:     e.Locked,
	}
}
