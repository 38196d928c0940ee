package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
)

// DebugLogPath is the fixed path for debug logs.
const DebugLogPath = "timetable-debug.log"

// NewLogger returns the logger shared by the controller and the UI.
// With debug enabled every event is written as JSON lines to DebugLogPath;
// otherwise everything is discarded. The returned close func must be called
// on exit.
func NewLogger(debug bool) (*slog.Logger, func(), error) {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}

	// Create log file in current directory with fixed name (easy to find)
	f, err := os.Create(DebugLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("creating debug log: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger.Info("debug_start", "log_file", DebugLogPath)

	return logger, func() {
		logger.Info("debug_end")
		_ = f.Close()
	}, nil
}

// logKey records a keystroke together with the cursor it applied to.
func (m Model) logKey(msg tea.KeyMsg) {
	m.logger.Debug("tui_event",
		"event", "key",
		"key", msg.String(),
		"mode", m.mode.String(),
		"group", m.groupID,
		"day", m.cursor.Day,
		"hour", m.cursor.Hour,
		"entry", m.cursor.Entry,
	)
}
