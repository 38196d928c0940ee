package grid

// LayoutMode is the presentation of one slot.
type LayoutMode int

const (
	LayoutEmpty LayoutMode = iota
	LayoutSingle
	LayoutSplit
)

func (m LayoutMode) String() string {
	switch m {
	case LayoutSingle:
		return "single"
	case LayoutSplit:
		return "split"
	default:
		return "empty"
	}
}

// Placed is an entry together with its absolute index in the slot.
type Placed struct {
	Entry *LessonEntry
	Index int
}

// Layout is the result of DecideCellLayout.
type Layout struct {
	Mode      LayoutMode
	Permanent []Placed
	Upper     []Placed
	Lower     []Placed
}

// Section is one rendered part of a cell.
type Section struct {
	Week    WeekType
	Entries []Placed
	CanAdd  bool // render an "add" affordance
}

// DecideCellLayout partitions a slot's entries by week type and picks the
// presentation mode.
//
//   - permanent entries and no forced split: single, permanent bucket only
//   - upper or lower entries, or a forced split: split into upper and lower
//   - nothing at all: empty, with a chooser for the first lesson
func DecideCellLayout(entries []*LessonEntry, forceSplit bool) Layout {
	var l Layout
	for i, e := range entries {
		p := Placed{Entry: e, Index: i}
		switch e.Week {
		case WeekUpper:
			l.Upper = append(l.Upper, p)
		case WeekLower:
			l.Lower = append(l.Lower, p)
		default:
			l.Permanent = append(l.Permanent, p)
		}
	}

	switch {
	case len(l.Permanent) > 0 && !forceSplit:
		l.Mode = LayoutSingle
	case len(l.Upper) > 0 || len(l.Lower) > 0 || forceSplit:
		l.Mode = LayoutSplit
	default:
		l.Mode = LayoutEmpty
	}
	return l
}

// Sections returns what should be rendered for the layout.
// In split mode the permanent bucket is not rendered even if it holds entries.
func (l Layout) Sections() []Section {
	switch l.Mode {
	case LayoutSingle:
		return []Section{{Week: WeekPermanent, Entries: l.Permanent}}
	case LayoutSplit:
		return []Section{
			{Week: WeekUpper, Entries: l.Upper, CanAdd: len(l.Upper) == 0},
			{Week: WeekLower, Entries: l.Lower, CanAdd: len(l.Lower) == 0},
		}
	default:
		return []Section{
			{Week: WeekPermanent, CanAdd: true},
			{Week: WeekUpper, CanAdd: true},
			{Week: WeekLower, CanAdd: true},
		}
	}
}

// Bucket returns the bucket for week.
func (l Layout) Bucket(week WeekType) []Placed {
	switch week {
	case WeekUpper:
		return l.Upper
	case WeekLower:
		return l.Lower
	default:
		return l.Permanent
	}
}

// Visible returns the entries rendered in the current mode.
func (l Layout) Visible() []Placed {
	var result []Placed
	for _, s := range l.Sections() {
		result = append(result, s.Entries...)
	}
	return result
}

// NeedsForceSplit reports whether adding a lesson of the given week type
// beside the existing entries requires a forced split: an upper or lower
// lesson added next to a locked permanent one would otherwise stay hidden
// behind the single layout.
func NeedsForceSplit(entries []*LessonEntry, week WeekType) bool {
	if week == WeekPermanent {
		return false
	}
	for _, e := range entries {
		if e.Locked && e.Week == WeekPermanent {
			return true
		}
	}
	return false
}
