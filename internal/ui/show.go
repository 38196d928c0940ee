package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/view"
)

func (a *App) showCmd() *cobra.Command {
	var (
		groups  []string
		hours   []int
		copyOut bool
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the weekly grid",
		Long: `Print the weekly grid of every group, or of the selected ones.

Example:
  timetable show --group CS-101 --hours 1,2,3`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}

			ctx := context.Background()
			ids, err := a.groupIDs(ctx, groups)
			if err != nil {
				return err
			}

			filters := grid.Filters{GroupIDs: ids, HourIDs: hours}
			ctrl, _, err := a.load(cmd, filters, false)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			f := ctrl.Faculty()
			if len(f.Groups) == 0 {
				fmt.Fprintln(out, "No groups. Run 'timetable seed' or 'timetable groups add'.")
				return nil
			}

			shown := filterHours(ctrl.Hours(), hours)
			colWidth := colWidthFor(termWidth())
			var plain strings.Builder
			for _, g := range f.Groups {
				fmt.Fprintf(out, "=== %s ===\n", formatHeader(g.Name))
				fmt.Fprintln(out, renderGroupTable(ctrl.DecideCell, g, shown, colWidth))
				fmt.Fprintln(out)
				plain.WriteString(view.PlainSchedule(g, shown))
			}
			fmt.Fprintln(out, formatMuted(formatStats(f.Stats())))

			if copyOut {
				if err := clipboard.WriteAll(plain.String()); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(out, "Copied to clipboard")
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&groups, "group", "g", nil, "Only these groups (names or ids)")
	cmd.Flags().IntSliceVar(&hours, "hours", nil, "Only these hour periods")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the grid as plain text to the clipboard")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}
