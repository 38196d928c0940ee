package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/grid"
)

func (a *App) addCmd() *cobra.Command {
	var (
		groups []string
		day    string
		hour   int
		week   string
		locked bool
		draft  grid.LessonDraft
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a lesson",
		Long: `Add a lesson to a slot. Listing several groups creates one merged
lesson shown in each of them; the first group owns it.

Example:
  timetable add -g CS-101 -g CS-102 --day mon --hour 1 --subject Calculus --type lecture`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := context.Background()
			ids, err := a.groupIDs(ctx, groups)
			if err != nil {
				return err
			}
			d, err := grid.ParseDay(day)
			if err != nil {
				return err
			}
			w, err := grid.ParseWeekType(strings.ToLower(week))
			if err != nil {
				return err
			}
			draft.GroupIDs, draft.Day, draft.HourID, draft.Week, draft.Locked = ids, d, hour, w, locked

			ctrl, n, err := a.load(cmd, grid.Filters{}, false)
			if err != nil {
				return err
			}
			create, err := ctrl.CreateLesson(draft)
			if err != nil {
				return err
			}
			ctrl.Run(create)
			return n.Err()
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Group names or ids, primary first (required)")
	cmd.Flags().StringVarP(&day, "day", "d", "", "Weekday: 1-5 or mon..fri (required)")
	cmd.Flags().IntVar(&hour, "hour", 0, "Hour period id (required)")
	cmd.Flags().StringVarP(&week, "week", "w", string(grid.WeekPermanent), "Week type: permanent, upper or lower")
	cmd.Flags().BoolVar(&locked, "locked", false, "Create the lesson locked")
	cmd.Flags().StringVar(&draft.Subject, "subject", "", "Subject (required)")
	cmd.Flags().StringVar(&draft.LessonType, "type", "lecture", "Lesson type, e.g. lecture, lab, practice")
	cmd.Flags().StringVar(&draft.Teacher, "teacher", "", "Teacher")
	cmd.Flags().StringVar(&draft.Room, "room", "", "Room")

	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("hour")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}

func (a *App) editCmd() *cobra.Command {
	var (
		slot   slotFlags
		fields grid.LessonDraft
		week   string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a lesson",
		Long: `Edit the fields of a lesson. Only the given fields change. Merged
copies are edited through the group that owns the lesson.

Example:
  timetable edit -g CS-101 --day mon --hour 1 --room A-200`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := slot.path(context.Background(), a)
			if err != nil {
				return err
			}
			ctrl, n, err := a.load(cmd, grid.Filters{}, false)
			if err != nil {
				return err
			}
			entry, _, err := slot.lesson(ctrl, p)
			if err != nil {
				return err
			}

			draft := grid.DraftFrom(p, entry)
			flags := cmd.Flags()
			if flags.Changed("subject") {
				draft.Subject = fields.Subject
			}
			if flags.Changed("type") {
				draft.LessonType = fields.LessonType
			}
			if flags.Changed("teacher") {
				draft.Teacher = fields.Teacher
			}
			if flags.Changed("room") {
				draft.Room = fields.Room
			}
			if flags.Changed("set-week") {
				w, err := grid.ParseWeekType(strings.ToLower(week))
				if err != nil {
					return err
				}
				draft.Week = w
			}

			update, err := ctrl.UpdateLesson(p, entry.Identity(), draft)
			if err != nil {
				return err
			}
			ctrl.Run(update)
			return n.Err()
		},
	}

	slot.registerLesson(cmd)
	cmd.Flags().StringVar(&fields.Subject, "subject", "", "New subject")
	cmd.Flags().StringVar(&fields.LessonType, "type", "", "New lesson type")
	cmd.Flags().StringVar(&fields.Teacher, "teacher", "", "New teacher")
	cmd.Flags().StringVar(&fields.Room, "room", "", "New room")
	cmd.Flags().StringVar(&week, "set-week", "", "New week type")

	return cmd
}

func (a *App) deleteCmd() *cobra.Command {
	var (
		slot slotFlags
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a lesson",
		Long: `Delete a lesson. A merged lesson disappears from every group.

Example:
  timetable delete -g CS-101 --day mon --hour 2 --week lower`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := slot.path(context.Background(), a)
			if err != nil {
				return err
			}
			confirm := a.config.UI.ConfirmDelete && !yes
			ctrl, n, err := a.load(cmd, grid.Filters{}, confirm)
			if err != nil {
				return err
			}
			entry, index, err := slot.lesson(ctrl, p)
			if err != nil {
				return err
			}
			if entry.Locked {
				return fmt.Errorf("%w: unlock %q first", grid.ErrLockedLesson, entry.Subject)
			}

			del := ctrl.DeleteLesson(p, index)
			if del == nil && n.Err() == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			ctrl.Run(del)
			return n.Err()
		},
	}

	slot.registerLesson(cmd)
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func (a *App) lockCmd(locked bool) *cobra.Command {
	use, short := "lock", "Lock a lesson"
	if !locked {
		use, short = "unlock", "Unlock a lesson"
	}

	var slot slotFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Long: short + `. The lock applies to every group a merged lesson is shown in.

Example:
  timetable ` + use + ` -g CS-101 --day mon --hour 1`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := slot.path(context.Background(), a)
			if err != nil {
				return err
			}
			ctrl, n, err := a.load(cmd, grid.Filters{}, false)
			if err != nil {
				return err
			}
			entry, _, err := slot.lesson(ctrl, p)
			if err != nil {
				return err
			}
			if entry.Locked == locked {
				fmt.Fprintf(cmd.OutOrStdout(), "%q is already %sed\n", entry.Subject, use)
				return nil
			}
			ctrl.Run(ctrl.ToggleLock(entry.Identity(), locked))
			return n.Err()
		},
	}

	slot.registerLesson(cmd)
	return cmd
}
