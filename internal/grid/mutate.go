package grid

import "slices"

// The functions in this file never modify their input. Each returns a new
// faculty that shares every untouched group, day, slot and entry with the
// original, so a snapshot handed out earlier stays valid.

// AddLesson appends entry to the slot at p, creating the day and hour slot
// when needed. A missing group leaves f unchanged.
func AddLesson(f *Faculty, p Path, entry *LessonEntry) *Faculty {
	if entry == nil || p.DayID < FirstDay || p.DayID > LastDay {
		return f
	}
	gi := groupIndex(f, p.GroupID)
	if gi < 0 {
		return f
	}

	nf, g := cloneGroupPath(f, gi)
	var d *Day
	if old, ok := g.Days[p.DayID]; ok {
		d = cloneDay(old)
	} else {
		d = &Day{ID: p.DayID}
	}
	g.Days[p.DayID] = d

	if hi := hourIndex(d, p.HourID); hi >= 0 {
		s := cloneSlot(d.Hours[hi])
		s.Lessons = append(s.Lessons, entry)
		d.Hours[hi] = s
		return nf
	}

	d.Hours = append(d.Hours, &HourSlot{HourID: p.HourID, Lessons: []*LessonEntry{entry}})
	slices.SortFunc(d.Hours, func(a, b *HourSlot) int { return a.HourID - b.HourID })
	return nf
}

// EditLesson replaces the entry at the absolute index of the slot at p.
// An invalid path or index leaves f unchanged.
func EditLesson(f *Faculty, p Path, index int, updated *LessonEntry) *Faculty {
	if updated == nil {
		return f
	}
	nf, s, ok := cloneSlotPath(f, p)
	if !ok || index < 0 || index >= len(s.Lessons) {
		return f
	}
	s.Lessons[index] = updated
	return nf
}

// DeleteLesson removes the entry at the absolute index of the slot at p.
// An emptied slot is removed, and so is a day left without slots.
// Returns the removed entry, or nil and f unchanged on an invalid path.
func DeleteLesson(f *Faculty, p Path, index int) (*Faculty, *LessonEntry) {
	nf, s, ok := cloneSlotPath(f, p)
	if !ok || index < 0 || index >= len(s.Lessons) {
		return f, nil
	}

	removed := s.Lessons[index]
	s.Lessons = slices.Delete(s.Lessons, index, index+1)
	if len(s.Lessons) > 0 {
		return nf, removed
	}

	g, _ := nf.FindGroup(p.GroupID)
	d := g.Days[p.DayID]
	if hi := hourIndex(d, p.HourID); hi >= 0 {
		d.Hours = slices.Delete(d.Hours, hi, hi+1)
	}
	if len(d.Hours) == 0 {
		delete(g.Days, p.DayID)
	}
	return nf, removed
}

// ApplyLock sets the lock flag on every entry matching id anywhere in f.
// When idx is nil the faculty is scanned.
func ApplyLock(f *Faculty, idx *IdentityIndex, id Identity, locked bool) *Faculty {
	var locs []Location
	if idx != nil {
		locs = idx.Lookup(id)
	} else {
		f.Walk(func(loc Location, e *LessonEntry) bool {
			if e.Identity() == id {
				locs = append(locs, loc)
			}
			return true
		})
	}
	if len(locs) == 0 {
		return f
	}

	nf := f
	for _, loc := range locs {
		s, ok := nf.FindSlot(loc.Path)
		if !ok || loc.Index >= len(s.Lessons) {
			continue
		}
		e := s.Lessons[loc.Index]
		if e.Identity() != id || e.Locked == locked {
			continue
		}
		next := *e
		next.Locked = locked
		nf = EditLesson(nf, loc.Path, loc.Index, &next)
	}
	return nf
}

// Clone returns a deep copy of the faculty structure. Entries are shared.
func (f *Faculty) Clone() *Faculty {
	if f == nil {
		return nil
	}
	nf := &Faculty{ID: f.ID, Name: f.Name, Groups: make([]*Group, len(f.Groups))}
	for i, g := range f.Groups {
		ng := cloneGroup(g)
		for id, d := range ng.Days {
			nd := cloneDay(d)
			for hi, h := range nd.Hours {
				nd.Hours[hi] = cloneSlot(h)
			}
			ng.Days[id] = nd
		}
		nf.Groups[i] = ng
	}
	return nf
}

func groupIndex(f *Faculty, groupID int64) int {
	if f == nil {
		return -1
	}
	for i, g := range f.Groups {
		if g.ID == groupID {
			return i
		}
	}
	return -1
}

func hourIndex(d *Day, hourID int) int {
	for i, h := range d.Hours {
		if h.HourID == hourID {
			return i
		}
	}
	return -1
}

// cloneGroupPath copies the faculty and the group at gi.
func cloneGroupPath(f *Faculty, gi int) (*Faculty, *Group) {
	nf := &Faculty{ID: f.ID, Name: f.Name, Groups: slices.Clone(f.Groups)}
	g := cloneGroup(f.Groups[gi])
	nf.Groups[gi] = g
	return nf, g
}

// cloneSlotPath copies every node from the faculty down to the slot at p.
func cloneSlotPath(f *Faculty, p Path) (*Faculty, *HourSlot, bool) {
	if _, ok := f.FindSlot(p); !ok {
		return f, nil, false
	}
	nf, g := cloneGroupPath(f, groupIndex(f, p.GroupID))
	d := cloneDay(g.Days[p.DayID])
	g.Days[p.DayID] = d
	hi := hourIndex(d, p.HourID)
	s := cloneSlot(d.Hours[hi])
	d.Hours[hi] = s
	return nf, s, true
}

func cloneGroup(g *Group) *Group {
	ng := &Group{ID: g.ID, Name: g.Name, Days: make(map[int]*Day, len(g.Days))}
	for id, d := range g.Days {
		ng.Days[id] = d
	}
	return ng
}

func cloneDay(d *Day) *Day {
	return &Day{ID: d.ID, Hours: slices.Clone(d.Hours)}
}

func cloneSlot(s *HourSlot) *HourSlot {
	return &HourSlot{HourID: s.HourID, Lessons: slices.Clone(s.Lessons)}
}
