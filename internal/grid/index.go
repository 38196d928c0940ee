package grid

import (
	"maps"
	"slices"
)

// IdentityIndex maps an identity pair to every place it occurs in a faculty.
// It describes one faculty value. Use Patch after a local mutation and
// NewIdentityIndex after the faculty is replaced.
type IdentityIndex struct {
	locations map[Identity][]Location
}

// NewIdentityIndex indexes every entry of f.
func NewIdentityIndex(f *Faculty) *IdentityIndex {
	idx := &IdentityIndex{locations: make(map[Identity][]Location)}
	f.Walk(func(loc Location, e *LessonEntry) bool {
		id := e.Identity()
		idx.locations[id] = append(idx.locations[id], loc)
		return true
	})
	return idx
}

// Patch returns the index of next, given that next differs from prev only in
// the slots at paths. The receiver is not modified.
func (idx *IdentityIndex) Patch(prev, next *Faculty, paths ...Path) *IdentityIndex {
	if idx == nil {
		return NewIdentityIndex(next)
	}
	out := &IdentityIndex{locations: maps.Clone(idx.locations)}
	if out.locations == nil {
		out.locations = make(map[Identity][]Location)
	}

	done := make(map[Path]bool, len(paths))
	for _, p := range paths {
		if done[p] {
			continue
		}
		done[p] = true

		for _, e := range prev.Lessons(p) {
			id := e.Identity()
			locs := slices.DeleteFunc(slices.Clone(out.locations[id]), func(l Location) bool {
				return l.Path == p
			})
			if len(locs) == 0 {
				delete(out.locations, id)
				continue
			}
			out.locations[id] = locs
		}
		for i, e := range next.Lessons(p) {
			id := e.Identity()
			out.locations[id] = append(slices.Clone(out.locations[id]), Location{Path: p, Index: i})
		}
	}
	return out
}

// Lookup returns the locations of id. The returned slice must not be modified.
func (idx *IdentityIndex) Lookup(id Identity) []Location {
	if idx == nil {
		return nil
	}
	return idx.locations[id]
}

// Len returns the number of distinct identities.
func (idx *IdentityIndex) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.locations)
}
