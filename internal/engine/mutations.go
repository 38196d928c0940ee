package engine

import (
	"errors"
	"fmt"
	"slices"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/timetable/internal/grid"
)

// AddLesson appends entry to the slot at p without any remote call.
// Returns false when the path is invalid.
func (c *Controller) AddLesson(p grid.Path, entry *grid.LessonEntry) bool {
	return c.apply(grid.AddLesson(c.snap.Faculty, p, entry), p)
}

// EditLesson replaces the entry at the absolute index of p.
// Merged and locked entries are rejected before anything changes;
// an invalid path or index is a silent no-op.
func (c *Controller) EditLesson(p grid.Path, index int, updated *grid.LessonEntry) error {
	current, ok := c.entryAt(p, index)
	if !ok {
		c.logger.Debug("grid_event", "event", "edit_stale_path", "path", p.String(), "index", index)
		return nil
	}
	if err := c.checkEditable(current); err != nil {
		return err
	}
	c.apply(grid.EditLesson(c.snap.Faculty, p, index, updated), p)
	return nil
}

// checkEditable warns about and rejects entries the edit policy protects.
func (c *Controller) checkEditable(e *grid.LessonEntry) error {
	switch {
	case e.IsMerged():
		c.notifier.Notify(grid.NoticeWarning, "This lesson is merged from another group and cannot be edited here")
		return grid.ErrMergedLesson
	case e.Locked:
		c.notifier.Notify(grid.NoticeWarning, "This lesson is locked; unlock it before editing")
		return grid.ErrLockedLesson
	}
	return nil
}

// ApplyLocalDelete removes the entry at the absolute index of p and returns
// it, or nil if the path is invalid.
func (c *Controller) ApplyLocalDelete(p grid.Path, index int) *grid.LessonEntry {
	f, removed := grid.DeleteLesson(c.snap.Faculty, p, index)
	if removed == nil {
		return nil
	}
	c.apply(f, p)
	return removed
}

// ApplyLockConfirmed sets the lock flag on every occurrence of id.
func (c *Controller) ApplyLockConfirmed(id grid.Identity, locked bool) {
	// the lock flag is not part of the identity, so the index stays valid
	c.apply(grid.ApplyLock(c.snap.Faculty, c.snap.Index, id, locked))
}

// AddBeside adds entry to the slot at p and forces the slot into split
// layout when the entry would otherwise hide behind a locked permanent lesson.
func (c *Controller) AddBeside(p grid.Path, entry *grid.LessonEntry) bool {
	if entry == nil {
		return false
	}
	split := grid.NeedsForceSplit(c.snap.Faculty.Lessons(p), entry.Week)
	if !c.AddLesson(p, entry) {
		return false
	}
	if split {
		c.SetForceSplit(p, true)
	}
	return true
}

// DeleteLesson removes the entry at the absolute index of p locally and
// returns the command that deletes it remotely. Locked lessons are refused
// with a warning. The command is nil unless the lesson was removed locally.
func (c *Controller) DeleteLesson(p grid.Path, index int) tea.Cmd {
	entry, ok := c.entryAt(p, index)
	if !ok {
		return nil
	}
	if entry.Locked {
		c.logger.Debug("grid_event", "event", "delete_locked", "path", p.String(), "identity", entry.Identity().String())
		c.notifier.Notify(grid.NoticeWarning, fmt.Sprintf("%q is locked; unlock it before deleting", entry.Subject))
		return nil
	}
	if c.confirmer != nil && !c.confirmer.Confirm(fmt.Sprintf("Delete %q?", entry.Subject)) {
		return nil
	}

	removed := c.ApplyLocalDelete(p, index)
	if removed == nil {
		return nil
	}
	if removed.ScheduleGroupID == 0 {
		// nothing to address remotely; let a fresh fetch settle the slot
		c.logger.Error("grid_event", "event", "delete_failed", "path", p.String(), "error", grid.ErrNoScheduleGroup)
		c.notifier.Notify(grid.NoticeError, "Could not delete lesson: "+grid.ErrNoScheduleGroup.Error())
		return c.Refresh()
	}

	c.logger.Info("grid_event", "event", "lesson_removed_locally", "path", p.String(), "schedule_group_id", removed.ScheduleGroupID)
	return DeleteLesson(c.source, p, removed.ScheduleGroupID, c.timeout)
}

// DeleteAt resolves a week-view position at p and deletes that lesson.
func (c *Controller) DeleteAt(p grid.Path, week grid.WeekType, filteredIndex int) tea.Cmd {
	index, err := c.ResolveAbsoluteIndex(p, week, filteredIndex)
	if err != nil {
		c.logResolveError(p, err)
		return nil
	}
	return c.DeleteLesson(p, index)
}

func (c *Controller) handleDeleted(msg LessonDeletedMsg) tea.Cmd {
	if msg.Err != nil {
		c.logger.Error("grid_event", "event", "delete_failed", "op_id", msg.OpID,
			"schedule_group_id", msg.ScheduleGroupID, "error", msg.Err)
		c.notifier.Notify(grid.NoticeError, "Could not delete lesson: "+msg.Err.Error())
		return c.Refresh()
	}
	c.logger.Info("grid_event", "event", "lesson_deleted", "op_id", msg.OpID, "schedule_group_id", msg.ScheduleGroupID)
	c.notifier.Notify(grid.NoticeSuccess, "Lesson deleted")
	return nil
}

// ToggleLock returns the command that locks or unlocks id remotely. The grid
// only changes once the source confirms.
func (c *Controller) ToggleLock(id grid.Identity, locked bool) tea.Cmd {
	return SetLock(c.source, id, locked, c.timeout)
}

// ToggleLockAt flips the lock of the lesson at a week-view position of p.
func (c *Controller) ToggleLockAt(p grid.Path, week grid.WeekType, filteredIndex int) tea.Cmd {
	index, err := c.ResolveAbsoluteIndex(p, week, filteredIndex)
	if err != nil {
		c.logResolveError(p, err)
		return nil
	}
	e, _ := c.entryAt(p, index)
	return c.ToggleLock(e.Identity(), !e.Locked)
}

func (c *Controller) handleLockSet(msg LockSetMsg) tea.Cmd {
	if msg.Err != nil {
		c.logger.Error("grid_event", "event", "lock_failed", "op_id", msg.OpID,
			"identity", msg.Identity.String(), "error", msg.Err)
		c.notifier.Notify(grid.NoticeError, "Could not change lock: "+msg.Err.Error())
		return nil
	}
	c.ApplyLockConfirmed(msg.Identity, msg.Locked)
	c.logger.Info("grid_event", "event", "lock_set", "op_id", msg.OpID,
		"identity", msg.Identity.String(), "locked", msg.Locked)
	if msg.Locked {
		c.notifier.Notify(grid.NoticeSuccess, "Lesson locked")
	} else {
		c.notifier.Notify(grid.NoticeSuccess, "Lesson unlocked")
	}
	return nil
}

// CreateLesson validates draft and returns the command that persists it.
// The created occurrences are added to the grid once the source confirms.
func (c *Controller) CreateLesson(draft grid.LessonDraft) (tea.Cmd, error) {
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return CreateLesson(c.source, draft, c.timeout), nil
}

func (c *Controller) handleCreated(msg LessonCreatedMsg) tea.Cmd {
	if msg.Err == nil && len(msg.Placements) == 0 {
		msg.Err = grid.ErrLessonNotCreated
	}
	if msg.Err != nil {
		c.logger.Error("grid_event", "event", "create_failed", "op_id", msg.OpID, "error", msg.Err)
		c.notifier.Notify(grid.NoticeError, "Could not create lesson: "+msg.Err.Error())
		return nil
	}
	for _, pl := range msg.Placements {
		// a filtered view may not hold every placement's group
		c.AddBeside(pl.Path, pl.Entry)
	}
	c.logger.Info("grid_event", "event", "lesson_created", "op_id", msg.OpID,
		"schedule_id", msg.Placements[0].Entry.ScheduleID, "occurrences", len(msg.Placements))
	c.notifier.Notify(grid.NoticeSuccess, "Lesson added")
	return nil
}

// UpdateLesson finds the lesson id in the slot at p as it is now, checks the
// edit policy and returns the command that persists draft. The grid is
// updated once the source confirms. A lesson that has left the slot since
// the caller looked it up yields no command.
func (c *Controller) UpdateLesson(p grid.Path, id grid.Identity, draft grid.LessonDraft) (tea.Cmd, error) {
	index := slices.IndexFunc(c.snap.Faculty.Lessons(p), func(e *grid.LessonEntry) bool {
		return e.Identity() == id
	})
	if index < 0 {
		c.logger.Debug("grid_event", "event", "edit_stale_identity", "path", p.String(), "identity", id.String())
		return nil, nil
	}
	current := c.snap.Faculty.Lessons(p)[index]
	if err := c.checkEditable(current); err != nil {
		return nil, err
	}
	draft.GroupIDs = []int64{p.GroupID}
	draft.Day, draft.HourID = p.DayID, p.HourID
	if err := draft.Validate(); err != nil {
		return nil, err
	}
	return UpdateLesson(c.source, p, id, draft, c.timeout), nil
}

func (c *Controller) handleUpdated(msg LessonUpdatedMsg) tea.Cmd {
	if msg.Err != nil {
		c.logger.Error("grid_event", "event", "update_failed", "op_id", msg.OpID,
			"identity", msg.Identity.String(), "error", msg.Err)
		c.notifier.Notify(grid.NoticeError, "Could not update lesson: "+msg.Err.Error())
		return nil
	}

	// Paths are re-resolved: the grid may have changed while the request was in flight.
	f := c.snap.Faculty
	for _, loc := range c.snap.Index.Lookup(msg.Identity) {
		e, ok := entryIn(f, loc.Path, loc.Index)
		if !ok || e.Identity() != msg.Identity {
			continue
		}
		f = grid.EditLesson(f, loc.Path, loc.Index, msg.Draft.Apply(e))
	}
	// identities and positions are unchanged, so the index stays valid
	c.apply(f)
	c.logger.Info("grid_event", "event", "lesson_updated", "op_id", msg.OpID, "identity", msg.Identity.String())
	c.notifier.Notify(grid.NoticeSuccess, "Lesson updated")
	return nil
}

func (c *Controller) entryAt(p grid.Path, index int) (*grid.LessonEntry, bool) {
	return entryIn(c.snap.Faculty, p, index)
}

func entryIn(f *grid.Faculty, p grid.Path, index int) (*grid.LessonEntry, bool) {
	lessons := f.Lessons(p)
	if index < 0 || index >= len(lessons) {
		return nil, false
	}
	return lessons[index], true
}

func (c *Controller) logResolveError(p grid.Path, err error) {
	if errors.Is(err, grid.ErrDuplicateIdentity) {
		c.logger.Error("grid_event", "event", "duplicate_identity", "path", p.String(), "error", err)
		c.notifier.Notify(grid.NoticeError, "Slot holds the same lesson twice; reload the timetable")
		return
	}
	c.logger.Debug("grid_event", "event", "stale_position", "path", p.String(), "error", err)
}
