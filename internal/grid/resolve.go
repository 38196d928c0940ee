package grid

import "fmt"

// FilterByWeek returns the entries of the given week type in their original order.
func FilterByWeek(entries []*LessonEntry, week WeekType) []*LessonEntry {
	var result []*LessonEntry
	for _, e := range entries {
		if e.Week == week {
			result = append(result, e)
		}
	}
	return result
}

// ResolveAbsoluteIndex maps a position in the week-filtered view of entries
// to the index of the same lesson in the full list.
// The lesson is matched by its slot key, so the result stays correct when the
// full list was reordered after the view was built. A duplicated key makes
// the mapping ambiguous and is reported as ErrDuplicateIdentity.
func ResolveAbsoluteIndex(entries []*LessonEntry, week WeekType, filteredIndex int) (int, error) {
	filtered := FilterByWeek(entries, week)
	if filteredIndex < 0 || filteredIndex >= len(filtered) {
		return -1, fmt.Errorf("%w: %s index %d of %d", ErrPathNotFound, week, filteredIndex, len(filtered))
	}

	key := filtered[filteredIndex].SlotKey()
	absolute := -1
	for i, e := range entries {
		if e.SlotKey() != key {
			continue
		}
		if absolute >= 0 {
			return -1, fmt.Errorf("%w: key %d at %d and %d", ErrDuplicateIdentity, key, absolute, i)
		}
		absolute = i
	}
	if absolute < 0 {
		return -1, fmt.Errorf("%w: key %d", ErrPathNotFound, key)
	}
	return absolute, nil
}

// RelativeIndex maps an absolute index back to its position in the week view.
// Returns false if the index is out of range or the entry has another week type.
func RelativeIndex(entries []*LessonEntry, week WeekType, absolute int) (int, bool) {
	if absolute < 0 || absolute >= len(entries) || entries[absolute].Week != week {
		return -1, false
	}
	rel := 0
	for i := 0; i < absolute; i++ {
		if entries[i].Week == week {
			rel++
		}
	}
	return rel, true
}

// ValidateSlot checks that no slot key appears twice in entries.
func ValidateSlot(entries []*LessonEntry) error {
	seen := make(map[int64]int, len(entries))
	for i, e := range entries {
		key := e.SlotKey()
		if prev, ok := seen[key]; ok {
			return fmt.Errorf("%w: key %d at %d and %d", ErrDuplicateIdentity, key, prev, i)
		}
		seen[key] = i
	}
	return nil
}
