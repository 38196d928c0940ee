// Package grid defines the timetable grid: faculty, groups, days, hour slots
// and lesson entries, plus the pure operations that read and rewrite it.
package grid

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Path errors are never surfaced to the user. They mean a stale reference
// raced a grid replacement.
var (
	ErrPathNotFound      = errors.New("slot path not found")
	ErrDuplicateIdentity = errors.New("duplicate lesson identity in slot")
)

// Policy and validation errors.
var (
	ErrMergedLesson     = errors.New("merged lesson cannot be edited")
	ErrLockedLesson     = errors.New("locked lesson cannot be changed")
	ErrInvalidWeekType  = errors.New("week type must be 'permanent', 'upper' or 'lower'")
	ErrInvalidDay       = errors.New("day must be between 1 and 5")
	ErrNoScheduleGroup  = errors.New("lesson has no schedule group")
	ErrInvalidDraft     = errors.New("invalid lesson draft")
	ErrLessonNotCreated = errors.New("source returned no lesson placements")
)

const (
	// FirstDay is Monday.
	FirstDay = 1
	// LastDay is Friday.
	LastDay = 5
)

// WeekType is the alternating-week dimension of a lesson.
type WeekType string

const (
	WeekPermanent WeekType = "permanent"
	WeekUpper     WeekType = "upper"
	WeekLower     WeekType = "lower"
)

// WeekTypes lists week types in chooser order.
var WeekTypes = []WeekType{WeekPermanent, WeekUpper, WeekLower}

// Valid returns true if w is a known week type.
func (w WeekType) Valid() bool {
	switch w {
	case WeekPermanent, WeekUpper, WeekLower:
		return true
	default:
		return false
	}
}

// ParseWeekType parses a week type name. Short forms "p", "u" and "l" are accepted.
func ParseWeekType(s string) (WeekType, error) {
	switch s {
	case "permanent", "p":
		return WeekPermanent, nil
	case "upper", "u":
		return WeekUpper, nil
	case "lower", "l":
		return WeekLower, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidWeekType, s)
	}
}

// Identity is the (schedule_id, schedule_group_id) pair of a lesson entry.
type Identity struct {
	ScheduleID      int64
	ScheduleGroupID int64
}

func (id Identity) String() string {
	return fmt.Sprintf("%d/%d", id.ScheduleID, id.ScheduleGroupID)
}

// LessonEntry is one timetabled lesson occurrence inside a slot.
type LessonEntry struct {
	ScheduleID      int64
	ScheduleGroupID int64 // 0 means absent
	Subject         string
	LessonType      string
	Teacher         string
	Room            string
	Week            WeekType
	Locked          bool
	ParentGroup     *int64 // set on occurrences produced by a merge
}

// Identity returns the lesson's identity pair.
func (e *LessonEntry) Identity() Identity {
	return Identity{ScheduleID: e.ScheduleID, ScheduleGroupID: e.ScheduleGroupID}
}

// SlotKey returns schedule_group_id if present, otherwise schedule_id.
func (e *LessonEntry) SlotKey() int64 {
	if e.ScheduleGroupID != 0 {
		return e.ScheduleGroupID
	}
	return e.ScheduleID
}

// IsMerged returns true if the entry was produced by a cross-listing merge.
func (e *LessonEntry) IsMerged() bool {
	return e.ParentGroup != nil
}

// HourSlot holds the lessons of one hour period.
type HourSlot struct {
	HourID  int
	Lessons []*LessonEntry
}

// FindEntry returns the entry at filteredIndex within the week-type view.
func (s *HourSlot) FindEntry(filteredIndex int, week WeekType) (*LessonEntry, bool) {
	if s == nil {
		return nil, false
	}
	filtered := FilterByWeek(s.Lessons, week)
	if filteredIndex < 0 || filteredIndex >= len(filtered) {
		return nil, false
	}
	return filtered[filteredIndex], true
}

// Day holds the hour slots of one weekday, ordered by hour id.
type Day struct {
	ID    int
	Hours []*HourSlot
}

// FindHourSlot returns the slot for hourID.
func (d *Day) FindHourSlot(hourID int) (*HourSlot, bool) {
	if d == nil {
		return nil, false
	}
	for _, h := range d.Hours {
		if h.HourID == hourID {
			return h, true
		}
	}
	return nil, false
}

// Group is a student group with its sparse weekday schedule.
type Group struct {
	ID   int64
	Name string
	Days map[int]*Day
}

// FindDay returns the day for dayID.
func (g *Group) FindDay(dayID int) (*Day, bool) {
	if g == nil || g.Days == nil {
		return nil, false
	}
	d, ok := g.Days[dayID]
	return d, ok
}

// Faculty is the root of the grid.
type Faculty struct {
	ID     int64
	Name   string
	Groups []*Group
}

// Path addresses a slot.
type Path struct {
	GroupID int64
	DayID   int
	HourID  int
}

func (p Path) String() string {
	return fmt.Sprintf("group=%d day=%d hour=%d", p.GroupID, p.DayID, p.HourID)
}

// Location is a single occurrence of an entry inside the faculty.
type Location struct {
	Path  Path
	Index int // absolute index in the slot
}

// Filters restrict a fetch. Empty slices mean "all".
type Filters struct {
	GroupIDs []int64
	HourIDs  []int
}

// Equal reports whether two filter sets select the same ids in the same order.
func (f Filters) Equal(other Filters) bool {
	return slices.Equal(f.GroupIDs, other.GroupIDs) && slices.Equal(f.HourIDs, other.HourIDs)
}

// Hour is a period definition.
type Hour struct {
	ID    int
	Start string // "HH:MM"
	End   string // "HH:MM"
}

// Label returns "HH:MM-HH:MM".
func (h Hour) Label() string {
	return h.Start + "-" + h.End
}

// FindGroup returns the group with the given id.
func (f *Faculty) FindGroup(groupID int64) (*Group, bool) {
	if f == nil {
		return nil, false
	}
	for _, g := range f.Groups {
		if g.ID == groupID {
			return g, true
		}
	}
	return nil, false
}

// FindSlot resolves a full path.
func (f *Faculty) FindSlot(p Path) (*HourSlot, bool) {
	g, ok := f.FindGroup(p.GroupID)
	if !ok {
		return nil, false
	}
	d, ok := g.FindDay(p.DayID)
	if !ok {
		return nil, false
	}
	return d.FindHourSlot(p.HourID)
}

// Lessons returns the full lesson list at p, nil if the path is missing.
func (f *Faculty) Lessons(p Path) []*LessonEntry {
	s, ok := f.FindSlot(p)
	if !ok {
		return nil
	}
	return s.Lessons
}

// Walk visits every entry in group, day, hour order.
// Returning false from fn stops the walk.
func (f *Faculty) Walk(fn func(loc Location, e *LessonEntry) bool) {
	if f == nil {
		return
	}
	for _, g := range f.Groups {
		for _, dayID := range g.DayIDs() {
			d := g.Days[dayID]
			for _, h := range d.Hours {
				for i, e := range h.Lessons {
					loc := Location{Path: Path{GroupID: g.ID, DayID: d.ID, HourID: h.HourID}, Index: i}
					if !fn(loc, e) {
						return
					}
				}
			}
		}
	}
}

// DayIDs returns the group's day ids in ascending order.
func (g *Group) DayIDs() []int {
	ids := make([]int, 0, len(g.Days))
	for id := range g.Days {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Stats summarizes a faculty grid.
type Stats struct {
	Groups     int
	Slots      int
	Lessons    int
	Locked     int
	Merged     int
	SplitSlots int // slots holding upper or lower lessons
}

// Stats counts lessons and slots across the faculty.
func (f *Faculty) Stats() Stats {
	var s Stats
	if f == nil {
		return s
	}
	s.Groups = len(f.Groups)
	for _, g := range f.Groups {
		for _, d := range g.Days {
			for _, h := range d.Hours {
				s.Slots++
				split := false
				for _, e := range h.Lessons {
					s.Lessons++
					if e.Locked {
						s.Locked++
					}
					if e.IsMerged() {
						s.Merged++
					}
					if e.Week != WeekPermanent {
						split = true
					}
				}
				if split {
					s.SplitSlots++
				}
			}
		}
	}
	return s
}

// DayName returns the name of a weekday (1=Monday).
func DayName(day int) string {
	names := []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}
	if day < FirstDay || day > LastDay {
		return ""
	}
	return names[day-1]
}

// ParseDay parses a weekday given as a number (1=Monday) or an English
// name, full or short, in any case.
func ParseDay(s string) (int, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if n, err := strconv.Atoi(s); err == nil {
		if n < FirstDay || n > LastDay {
			return 0, fmt.Errorf("%w: %d", ErrInvalidDay, n)
		}
		return n, nil
	}
	for d := FirstDay; d <= LastDay; d++ {
		if s == strings.ToLower(DayName(d)) || s == strings.ToLower(DayShortName(d)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, s)
}

// DayShortName returns the short name of a weekday (1=Monday).
func DayShortName(day int) string {
	names := []string{"Mon", "Tue", "Wed", "Thu", "Fri"}
	if day < FirstDay || day > LastDay {
		return ""
	}
	return names[day-1]
}
