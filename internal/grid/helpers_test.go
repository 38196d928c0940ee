package grid

// lesson builds a test entry.
func lesson(scheduleID, scheduleGroupID int64, week WeekType) *LessonEntry {
	return &LessonEntry{
		ScheduleID:      scheduleID,
		ScheduleGroupID: scheduleGroupID,
		Subject:         "Subject",
		LessonType:      "lecture",
		Week:            week,
	}
}

// groupWith builds a group holding entries at (day, hour).
func groupWith(id int64, day, hour int, entries ...*LessonEntry) *Group {
	g := &Group{ID: id, Name: "G", Days: map[int]*Day{}}
	if len(entries) > 0 {
		g.Days[day] = &Day{ID: day, Hours: []*HourSlot{{HourID: hour, Lessons: entries}}}
	}
	return g
}

func facultyWith(groups ...*Group) *Faculty {
	return &Faculty{ID: 1, Name: "Faculty", Groups: groups}
}

func countLessons(f *Faculty) int {
	n := 0
	f.Walk(func(Location, *LessonEntry) bool {
		n++
		return true
	})
	return n
}

func int64Ptr(v int64) *int64 { return &v }
