package ui

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing.

Example:
  timetable config`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInteractive(newPrompter(cmd), config.DefaultConfigPath())
		},
	}
}

func runConfigInteractive(p *prompter, configPath string) error {
	fmt.Fprintf(p.w, "Config file: %s\n\n", configPath)

	// Load existing config or create defaults
	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Check if file exists
	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(p.w, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(p.w, "Created %s\n\n", configPath)
	}

	printConfig(p.w, cfg)

	if !p.yesNo("\nWould you like to edit the configuration?") {
		return nil
	}

	id := p.value("Faculty id", strconv.FormatInt(cfg.Faculty.ID, 10))
	if v, err := strconv.ParseInt(id, 10, 64); err == nil {
		cfg.Faculty.ID = v
	} else {
		fmt.Fprintf(p.w, "  Invalid faculty id %q, keeping %d\n", id, cfg.Faculty.ID)
	}
	cfg.Faculty.Name = p.value("Faculty name", cfg.Faculty.Name)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.Remote.Timeout = p.value("Request timeout", cfg.Remote.Timeout)
	cfg.UI.Theme = promptTheme(p, cfg.UI.Theme)
	cfg.UI.ConfirmDelete = p.yesNo("  Confirm before deleting lessons?")

	// Validate before saving
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(p.w, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[faculty]")
	fmt.Fprintf(w, "  id               = %d\n", cfg.Faculty.ID)
	fmt.Fprintf(w, "  name             = %s\n", cfg.Faculty.Name)
	fmt.Fprintln(w, "\n[hours]")
	for _, h := range cfg.GridHours() {
		fmt.Fprintf(w, "  %-16d = %s\n", h.ID, h.Label())
	}
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[remote]")
	fmt.Fprintf(w, "  timeout          = %s\n", cfg.Remote.Timeout)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
	fmt.Fprintf(w, "  confirm_delete   = %t\n", cfg.UI.ConfirmDelete)
}

func promptTheme(p *prompter, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.w, "  Invalid theme %q. Available: %s\n", value, options)
		if value == current {
			// an unknown theme from the file would loop forever on empty input
			return theme.DefaultName
		}
	}
}
