package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/engine"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/input"
)

// slotFlags address a slot, and optionally a lesson inside it by its
// position among the lessons of one week type.
type slotFlags struct {
	group string
	day   string
	hour  int
	week  string
	pos   int
}

func (f *slotFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.group, "group", "g", "", "Group name or id (required)")
	cmd.Flags().StringVarP(&f.day, "day", "d", "", "Weekday: 1-5 or mon..fri (required)")
	cmd.Flags().IntVar(&f.hour, "hour", 0, "Hour period id (required)")
	_ = cmd.MarkFlagRequired("group")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("hour")
}

func (f *slotFlags) registerLesson(cmd *cobra.Command) {
	f.register(cmd)
	cmd.Flags().StringVarP(&f.week, "week", "w", string(grid.WeekPermanent), "Week type of the lesson: permanent, upper or lower")
	cmd.Flags().IntVar(&f.pos, "pos", 0, "Position among the lessons of that week type, from 0")
}

// path resolves the slot against the faculty's groups.
func (f *slotFlags) path(ctx context.Context, a *App) (grid.Path, error) {
	candidates, err := a.candidates(ctx)
	if err != nil {
		return grid.Path{}, err
	}
	ids, err := input.ParseList(f.group, candidates)
	if err != nil {
		return grid.Path{}, err
	}
	if len(ids) != 1 {
		return grid.Path{}, fmt.Errorf("exactly one group expected, got %q", f.group)
	}
	day, err := grid.ParseDay(f.day)
	if err != nil {
		return grid.Path{}, err
	}
	return grid.Path{GroupID: ids[0], DayID: day, HourID: f.hour}, nil
}

// lesson finds the addressed lesson and its absolute index in the slot.
func (f *slotFlags) lesson(ctrl *engine.Controller, p grid.Path) (*grid.LessonEntry, int, error) {
	week, err := grid.ParseWeekType(strings.ToLower(f.week))
	if err != nil {
		return nil, 0, err
	}
	index, err := ctrl.ResolveAbsoluteIndex(p, week, f.pos)
	if errors.Is(err, grid.ErrDuplicateIdentity) {
		return nil, 0, err
	}
	if err != nil {
		return nil, 0, fmt.Errorf("no %s lesson #%d on %s, hour %d", week, f.pos, grid.DayName(p.DayID), p.HourID)
	}
	return ctrl.Faculty().Lessons(p)[index], index, nil
}

// candidates lists the faculty's groups for name resolution.
func (a *App) candidates(ctx context.Context) ([]input.Candidate, error) {
	if err := a.ensureStore(); err != nil {
		return nil, err
	}
	groups, err := a.store.ListGroups(ctx, a.config.Faculty.ID)
	if err != nil {
		return nil, err
	}
	out := make([]input.Candidate, len(groups))
	for i, g := range groups {
		out[i] = input.Candidate{ID: g.ID, Name: g.Name}
	}
	return out, nil
}

// groupIDs resolves group names or ids given as repeated or comma separated flags.
func (a *App) groupIDs(ctx context.Context, names []string) ([]int64, error) {
	if len(names) == 0 {
		return nil, nil
	}
	candidates, err := a.candidates(ctx)
	if err != nil {
		return nil, err
	}
	return input.ParseList(strings.Join(names, ","), candidates)
}
