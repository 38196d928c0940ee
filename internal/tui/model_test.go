package tui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/timetable/internal/config"
	"github.com/javiermolinar/timetable/internal/engine"
	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/store"
)

// Seeded ids: CS-101=1, CS-102=2, MATH-201=3.
const (
	cs101 int64 = 1
	cs102 int64 = 2
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	m, _ := newTestModelWithStore(t)
	return m
}

// newTestModelWithStore also returns the store, so a test can change the
// timetable behind the model's back.
func newTestModelWithStore(t *testing.T) (Model, *store.SQLite) {
	t.Helper()
	lipgloss.SetColorProfile(termenv.Ascii)

	s, err := store.New(filepath.Join(t.TempDir(), "timetable.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	cfg := config.Default()
	if err := store.Seed(context.Background(), s, cfg.Faculty.ID, cfg.Faculty.Name, cfg.GridHours()); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	st := &status{}
	ctrl := engine.New(engine.Options{
		FacultyID: cfg.Faculty.ID,
		Source:    s,
		Notifier:  notifierFor(st, time.Now),
		Timeout:   5 * time.Second,
	})
	m := newModel(ctrl, cfg, st, nil)
	ctrl.Run(m.Init())

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 50})
	return updated.(Model), s
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

// press feeds keys one by one and drains the commands they return.
func press(m Model, keys ...string) Model {
	for _, k := range keys {
		updated, cmd := m.handleKeyMsg(keyMsg(k))
		m = updated.(Model)
		m.ctrl.Run(cmd)
		m.clampCursor()
	}
	return m
}

func lessons(m Model, group int64, day, hourID int) []*grid.LessonEntry {
	return m.ctrl.Faculty().Lessons(grid.Path{GroupID: group, DayID: day, HourID: hourID})
}

func TestInitLoadsGrid(t *testing.T) {
	m := newTestModel(t)

	if got := len(m.ctrl.Faculty().Groups); got != 3 {
		t.Fatalf("groups = %d, want 3", got)
	}
	if got := len(m.hours()); got != 6 {
		t.Errorf("hours = %d, want 6", got)
	}
	if g := m.group(); g == nil || g.Name != "CS-101" {
		t.Errorf("displayed group = %v, want CS-101", g)
	}
	if m.cursor.Day != grid.FirstDay {
		t.Errorf("cursor day = %d, want Monday", m.cursor.Day)
	}
}

func TestNavigation(t *testing.T) {
	m := newTestModel(t)

	m = press(m, "h")
	if m.cursor.Day != grid.FirstDay {
		t.Errorf("h on Monday moved to %d", m.cursor.Day)
	}
	m = press(m, "l", "l", "j")
	if m.cursor.Day != 3 || m.cursor.Hour != 1 {
		t.Errorf("cursor = %+v, want day 3 hour 1", m.cursor)
	}
	m = press(m, "k", "k")
	if m.cursor.Hour != 0 {
		t.Errorf("cursor hour = %d, want 0", m.cursor.Hour)
	}

	m = press(m, "]")
	if m.group().ID != cs102 {
		t.Errorf("] should show CS-102, got %s", m.group().Name)
	}
	m = press(m, "[", "[")
	if m.group().Name != "MATH-201" {
		t.Errorf("[ should wrap to the last group, got %s", m.group().Name)
	}
}

func TestSelectedInSplitCell(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "j") // Monday, second hour: upper Programming, lower Discrete Math

	p, placed, rel, ok := m.selected()
	if !ok || placed.Entry.Subject != "Programming" || rel != 0 {
		t.Fatalf("selected = %v %v %d %v, want Programming", p, placed.Entry, rel, ok)
	}

	m = press(m, "tab")
	_, placed, rel, ok = m.selected()
	if !ok || placed.Entry.Subject != "Discrete Math" {
		t.Fatalf("after tab selected = %v, want Discrete Math", placed.Entry)
	}
	if rel != 0 || placed.Entry.Week != grid.WeekLower {
		t.Errorf("rel = %d week = %s, want 0 in the lower view", rel, placed.Entry.Week)
	}

	m = press(m, "tab")
	if m.cursor.Entry != 0 {
		t.Errorf("tab should wrap to the first lesson, got %d", m.cursor.Entry)
	}
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "j", "tab", "d")
	if m.mode != ModeConfirm {
		t.Fatalf("mode = %s, want confirm", m.mode)
	}

	m = press(m, "n")
	if m.mode != ModeNormal || len(lessons(m, cs101, 1, 2)) != 2 {
		t.Fatalf("declined delete changed the grid")
	}

	m = press(m, "d", "y")
	got := lessons(m, cs101, 1, 2)
	if len(got) != 1 || got[0].Subject != "Programming" {
		t.Fatalf("lessons after delete = %v, want Programming only", got)
	}
	if m.status.kind != grid.NoticeSuccess || m.status.message != "Lesson deleted" {
		t.Errorf("status = %q (%s)", m.status.message, m.status.kind)
	}
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.config.UI.ConfirmDelete = false

	m = press(m, "j", "d")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %s, want normal", m.mode)
	}
	got := lessons(m, cs101, 1, 2)
	if len(got) != 1 || got[0].Subject != "Discrete Math" {
		t.Fatalf("lessons after delete = %v, want Discrete Math only", got)
	}
}

func TestLockTogglePropagatesToMergedCopy(t *testing.T) {
	m := newTestModel(t)
	if !lessons(m, cs102, 1, 1)[0].Locked {
		t.Fatal("seeded Calculus should be locked")
	}

	m = press(m, "L")
	if lessons(m, cs101, 1, 1)[0].Locked || lessons(m, cs102, 1, 1)[0].Locked {
		t.Error("unlock should reach every occurrence of the lesson")
	}
	if m.status.message != "Lesson unlocked" {
		t.Errorf("status = %q", m.status.message)
	}
}

func TestAddMergedLessonViaForm(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "l", "l", "a") // Wednesday, first hour: empty for CS-101
	if m.mode != ModeForm || m.form.editing {
		t.Fatalf("mode = %s editing = %v, want add form", m.mode, m.form.editing)
	}
	if got := m.form.inputs[fieldWeek].Value(); got != "permanent" {
		t.Errorf("week prefill = %q, want permanent", got)
	}

	m = press(m, "Databases", "tab", "lab", "tab", "Turing", "tab", "L-2", "tab", "tab", "cs-1", "tab")
	if got := m.form.inputs[fieldGroups].Value(); got != "CS-102" {
		t.Fatalf("groups autocomplete = %q, want CS-102", got)
	}
	m = press(m, "enter")
	if m.mode != ModeNormal {
		t.Fatalf("form still open: %q", m.form.err)
	}

	primary := lessons(m, cs101, 3, 1)
	merged := lessons(m, cs102, 3, 1)
	if len(primary) != 1 || primary[0].Subject != "Databases" || primary[0].IsMerged() {
		t.Fatalf("primary = %v", primary)
	}
	if len(merged) != 1 || !merged[0].IsMerged() || *merged[0].ParentGroup != cs101 {
		t.Fatalf("merged copy = %v", merged)
	}
	if primary[0].Identity() != merged[0].Identity() {
		t.Error("occurrences should share one identity")
	}
}

func TestAddFormValidation(t *testing.T) {
	tests := []struct {
		name string
		keys []string
	}{
		{name: "empty_subject", keys: []string{"a", "enter"}},
		{name: "bad_week", keys: []string{"a", "Art", "tab", "lecture", "tab", "tab", "tab", "x", "enter"}},
		{name: "unknown_group", keys: []string{"a", "Art", "tab", "lecture", "tab", "tab", "tab", "tab", "BIO", "enter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m = press(m, "l", "l")
			m = press(m, tt.keys...)
			if m.mode != ModeForm || m.form.err == "" {
				t.Errorf("mode = %s err = %q, want form with error", m.mode, m.form.err)
			}
			if got := lessons(m, cs101, 3, 1); len(got) != 0 {
				t.Errorf("nothing should be created, got %v", got)
			}
		})
	}
}

func TestEditLessonUpdatesMergedCopies(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "L", "e") // Calculus is seeded locked
	if m.mode != ModeForm || !m.form.editing {
		t.Fatalf("mode = %s, want edit form", m.mode)
	}
	if got := m.form.inputs[fieldSubject].Value(); got != "Calculus" {
		t.Fatalf("subject prefill = %q", got)
	}

	m.form.inputs[fieldRoom].SetValue("A-200")
	m = press(m, "enter")

	for _, g := range []int64{cs101, cs102} {
		if got := lessons(m, g, 1, 1)[0].Room; got != "A-200" {
			t.Errorf("group %d room = %q, want A-200", g, got)
		}
	}
}

func TestEditMergedCopyWarns(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "]", "e")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %s, merged copies must not open the form", m.mode)
	}
	if m.status.kind != grid.NoticeWarning {
		t.Errorf("status kind = %s, want warning", m.status.kind)
	}
}

func TestLockedLessonWarns(t *testing.T) {
	tests := []struct {
		name string
		key  string
	}{
		{name: "edit", key: "e"},
		{name: "delete", key: "d"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t)
			m = press(m, tt.key)
			if m.mode != ModeNormal {
				t.Fatalf("mode = %s, locked lessons must not open a form or prompt", m.mode)
			}
			if m.status.kind != grid.NoticeWarning || !strings.Contains(m.status.message, "unlocked") {
				t.Errorf("status = %q (%s), want unlock warning", m.status.message, m.status.kind)
			}
			if got := lessons(m, cs101, 1, 1); len(got) != 1 || got[0].Subject != "Calculus" {
				t.Errorf("lessons = %v, want Calculus untouched", got)
			}
		})
	}
}

// The slot is reloaded while the edit form is open and the edited lesson
// changes position. The edit must still land on it.
func TestEditAfterRefreshKeepsTarget(t *testing.T) {
	m, s := newTestModelWithStore(t)
	ctx := context.Background()

	m = press(m, "j", "tab", "e")
	if got := m.form.inputs[fieldSubject].Value(); got != "Discrete Math" {
		t.Fatalf("subject prefill = %q, want Discrete Math", got)
	}

	// another editor replaces Programming with Networks
	programming := lessons(m, cs101, 1, 2)[0]
	if err := s.DeleteLesson(ctx, programming.ScheduleGroupID); err != nil {
		t.Fatalf("DeleteLesson() error = %v", err)
	}
	_, err := s.CreateLesson(ctx, grid.LessonDraft{
		GroupIDs: []int64{cs101}, Day: 1, HourID: 2,
		Subject: "Networks", LessonType: "lecture", Room: "N-1", Week: grid.WeekUpper,
	})
	if err != nil {
		t.Fatalf("CreateLesson() error = %v", err)
	}
	m.ctrl.Run(m.ctrl.Refresh())

	m.form.inputs[fieldRoom].SetValue("B-14")
	m = press(m, "enter")
	if m.mode != ModeNormal {
		t.Fatalf("form still open: %q", m.form.err)
	}

	got := lessons(m, cs101, 1, 2)
	if len(got) != 2 {
		t.Fatalf("lessons = %v, want 2", got)
	}
	for _, e := range got {
		switch e.Subject {
		case "Discrete Math":
			if e.Room != "B-14" {
				t.Errorf("Discrete Math room = %q, want B-14", e.Room)
			}
		case "Networks":
			if e.Room != "N-1" || e.Week != grid.WeekUpper {
				t.Errorf("Networks was overwritten: %+v", e)
			}
		default:
			t.Errorf("unexpected lesson %q", e.Subject)
		}
	}
}

func TestEditOfRemovedLessonIsDropped(t *testing.T) {
	m, s := newTestModelWithStore(t)

	m = press(m, "j", "tab", "e")
	discrete := lessons(m, cs101, 1, 2)[1]
	if err := s.DeleteLesson(context.Background(), discrete.ScheduleGroupID); err != nil {
		t.Fatalf("DeleteLesson() error = %v", err)
	}
	m.ctrl.Run(m.ctrl.Refresh())

	m.form.inputs[fieldSubject].SetValue("Topology")
	m = press(m, "enter")
	if m.mode != ModeNormal {
		t.Fatalf("mode = %s, want normal", m.mode)
	}
	got := lessons(m, cs101, 1, 2)
	if len(got) != 1 || got[0].Subject != "Programming" {
		t.Errorf("lessons = %v, want Programming untouched", got)
	}
}

func TestForceSplitToggle(t *testing.T) {
	m := newTestModel(t)
	p, _ := m.path()
	if m.ctrl.DecideCell(p).Mode != grid.LayoutSingle {
		t.Fatal("Calculus slot should start single")
	}
	m = press(m, "s")
	if m.ctrl.DecideCell(p).Mode != grid.LayoutSplit {
		t.Error("s should force a split")
	}
	m = press(m, "s")
	if m.ctrl.DecideCell(p).Mode != grid.LayoutSingle {
		t.Error("second s should clear the split")
	}
}

func TestToggleOnlyGroup(t *testing.T) {
	m := newTestModel(t)
	m = press(m, "]", "f")
	if got := m.ctrl.Filters().GroupIDs; len(got) != 1 || got[0] != cs102 {
		t.Fatalf("filters = %v, want CS-102 only", got)
	}
	if len(m.ctrl.Faculty().Groups) != 1 || m.group().ID != cs102 {
		t.Fatalf("filtered grid should hold CS-102 only")
	}

	m = press(m, "f")
	if len(m.ctrl.Faculty().Groups) != 3 {
		t.Errorf("groups = %d, want 3", len(m.ctrl.Faculty().Groups))
	}
	if m.group().ID != cs102 {
		t.Errorf("displayed group = %s, want CS-102 kept", m.group().Name)
	}
}

func TestStatusExpires(t *testing.T) {
	m := newTestModel(t)
	now := time.Date(2026, 1, 5, 9, 0, 0, 0, time.UTC)
	m.nowFunc = func() time.Time { return now }

	m.notify(grid.NoticeSuccess, "saved")
	updated, _ := m.Update(clearStatusMsg{})
	m = updated.(Model)
	if m.status.message != "saved" {
		t.Fatal("status cleared before it expired")
	}

	now = now.Add(statusTTL)
	updated, _ = m.Update(clearStatusMsg{})
	m = updated.(Model)
	if m.status.message != "" {
		t.Errorf("status = %q, want cleared", m.status.message)
	}
}

func TestViewRendersGrid(t *testing.T) {
	m := newTestModel(t)
	out := m.View()

	for _, want := range []string{"CS-101", "Mon", "Fri", "08:30", "Calculus", "Programming", "upper", "lower"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	m = press(m, "a")
	if out := m.View(); !strings.Contains(out, "New lesson") {
		t.Error("form overlay should be rendered")
	}
}

func TestViewBeforeResize(t *testing.T) {
	m := newTestModel(t)
	m.width = 0
	if got := m.View(); got != "Loading..." {
		t.Errorf("View() = %q", got)
	}
}
