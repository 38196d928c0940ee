package ui

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/store"
)

func (a *App) groupsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List the faculty's student groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			groups, err := a.store.ListGroups(context.Background(), a.config.Faculty.ID)
			if err != nil {
				return fmt.Errorf("listing groups: %w", err)
			}

			out := cmd.OutOrStdout()
			if len(groups) == 0 {
				fmt.Fprintln(out, "No groups.")
				return nil
			}
			fmt.Fprintf(out, "%s\n", formatHeader(fmt.Sprintf("%-6s %-16s %s", "ID", "NAME", "LESSONS")))
			for _, g := range groups {
				fmt.Fprintf(out, "%-6d %-16s %d\n", g.ID, g.Name, g.Lessons)
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add [name...]",
		Short: "Create student groups",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			for _, name := range args {
				id, err := a.store.CreateGroup(context.Background(), a.config.Faculty.ID, name)
				if err != nil {
					return fmt.Errorf("creating group %q: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created group #%d: %s\n", id, name)
			}
			return nil
		},
	})

	return cmd
}

func (a *App) hoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "List the hour periods",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			hours, err := a.store.ListHours(context.Background())
			if err != nil {
				return fmt.Errorf("listing hours: %w", err)
			}
			out := cmd.OutOrStdout()
			for _, h := range hours {
				fmt.Fprintf(out, "%2d  %s\n", h.ID, h.Label())
			}
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "sync",
		Short: "Store the hour periods from the config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			hours := a.config.GridHours()
			if err := a.store.SaveHours(context.Background(), hours); err != nil {
				return fmt.Errorf("saving hours: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d hour periods\n", len(hours))
			return nil
		},
	})

	return cmd
}

func (a *App) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Fill an empty faculty with demo groups and lessons",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			err := store.Seed(context.Background(), a.store, a.config.Faculty.ID, a.config.Faculty.Name, a.config.GridHours())
			if errors.Is(err, store.ErrAlreadySeeded) {
				fmt.Fprintln(cmd.OutOrStdout(), "Faculty already has groups, nothing to seed.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("seeding: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Seeded demo timetable")
			return nil
		},
	}
}
