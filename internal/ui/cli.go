package ui

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/engine"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/store"
	"github.com/javiermolinar/timetable/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// Store is the storage the CLI works on: the grid source plus the faculty
// setup operations.
type Store interface {
	grid.Source
	store.Admin
}

// App holds the CLI application state.
type App struct {
	store  Store
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging

	logger   *slog.Logger
	closeLog func()
}

// NewApp creates a new CLI application with the given store and config.
// A nil store is opened from the configured path on first use.
func NewApp(st Store, cfg *config.Config) *App {
	a := &App{store: st, config: cfg}

	a.root = &cobra.Command{
		Use:   "timetable",
		Short: "Edit a faculty's weekly timetable",
		Long: `Timetable edits the weekly lesson grid of a faculty.

Every student group has five teaching days split into hour periods. A
period holds permanent lessons, or lessons that alternate between upper
and lower weeks. A lesson shared by several groups is created once and
shown in every group.

Run without a command to open the interactive grid.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			logger, closeLog, err := tui.NewLogger(a.debug)
			if err != nil {
				return err
			}
			a.logger, a.closeLog = logger, closeLog
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if a.closeLog != nil {
				a.closeLog()
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureStore(); err != nil {
				return err
			}
			return tui.Run(a.store, a.config, a.logger)
		},
	}

	// Add global flags
	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging (logs to "+tui.DebugLogPath+")")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.showCmd())
	a.root.AddCommand(a.addCmd())
	a.root.AddCommand(a.editCmd())
	a.root.AddCommand(a.deleteCmd())
	a.root.AddCommand(a.lockCmd(true))
	a.root.AddCommand(a.lockCmd(false))
	a.root.AddCommand(a.groupsCmd())
	a.root.AddCommand(a.hoursCmd())
	a.root.AddCommand(a.seedCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "timetable %s (commit: %s)\n", Version, Commit)
		},
	}
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}

// Close releases the store if the app opened it.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// ensureStore opens the configured database, registers the faculty and
// stores the configured hour periods when the database has none.
func (a *App) ensureStore() error {
	if a.store != nil {
		return nil
	}

	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	s, err := store.New(path)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := s.EnsureFaculty(ctx, a.config.Faculty.ID, a.config.Faculty.Name); err != nil {
		_ = s.Close()
		return err
	}
	hours, err := s.ListHours(ctx)
	if err != nil {
		_ = s.Close()
		return err
	}
	if len(hours) == 0 {
		if err := s.SaveHours(ctx, a.config.GridHours()); err != nil {
			_ = s.Close()
			return err
		}
	}

	a.store = s
	return nil
}

// load builds a controller over the store and fetches the grid.
// With confirm set, deletes ask on the command's input first.
func (a *App) load(cmd *cobra.Command, filters grid.Filters, confirm bool) (*engine.Controller, *notifier, error) {
	if err := a.ensureStore(); err != nil {
		return nil, nil, err
	}
	timeout, err := a.config.Timeout()
	if err != nil {
		return nil, nil, err
	}

	n := &notifier{out: cmd.OutOrStdout()}
	opts := engine.Options{
		FacultyID: a.config.Faculty.ID,
		Source:    a.store,
		Notifier:  n,
		Filters:   filters,
		Timeout:   timeout,
		Logger:    a.logger,
	}
	if confirm {
		p := newPrompter(cmd)
		opts.Confirmer = grid.ConfirmerFunc(p.yesNo)
	}

	ctrl := engine.New(opts)
	ctrl.SetFilters(filters)
	ctrl.Run(ctrl.Init())
	if err := n.Err(); err != nil {
		return nil, nil, err
	}
	if ctrl.Faculty() == nil {
		return nil, nil, fmt.Errorf("faculty %d not loaded", a.config.Faculty.ID)
	}
	return ctrl, n, nil
}
