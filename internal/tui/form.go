package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/timetable/internal/grid"
	"github.com/javiermolinar/timetable/internal/tui/input"
)

const (
	fieldSubject = iota
	fieldType
	fieldTeacher
	fieldRoom
	fieldWeek
	fieldGroups // extra groups of a merged lesson, add only
	fieldCount
)

var fieldLabels = [fieldCount]string{"Subject", "Type", "Teacher", "Room", "Week", "Also for"}

// lessonForm edits the fields of a lesson draft.
type lessonForm struct {
	inputs  []textinput.Model
	focus   int
	editing bool
	path    grid.Path
	id      grid.Identity // edited lesson, resolved again on submit
	err     string
	styles  *Styles
}

func newLessonForm(styles *Styles) lessonForm {
	inputs := make([]textinput.Model, fieldCount)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 200
		ti.PlaceholderStyle = styles.PlaceholderStyle
		inputs[i] = ti
	}
	inputs[fieldType].Placeholder = "lecture"
	inputs[fieldType].CharLimit = 50
	inputs[fieldRoom].CharLimit = 50
	inputs[fieldWeek].Placeholder = "permanent | upper | lower"
	inputs[fieldGroups].Placeholder = "CS-102, MATH-201"
	return lessonForm{inputs: inputs, styles: styles}
}

// openAdd prepares the form for a new lesson at p.
func (f *lessonForm) openAdd(p grid.Path, week grid.WeekType) tea.Cmd {
	f.reset()
	f.path = p
	f.inputs[fieldWeek].SetValue(string(week))
	return f.setFocus(fieldSubject)
}

// openEdit prepares the form with the fields of an existing lesson.
func (f *lessonForm) openEdit(p grid.Path, placed grid.Placed) tea.Cmd {
	f.reset()
	f.editing = true
	f.path = p
	f.id = placed.Entry.Identity()

	d := grid.DraftFrom(p, placed.Entry)
	f.inputs[fieldSubject].SetValue(d.Subject)
	f.inputs[fieldType].SetValue(d.LessonType)
	f.inputs[fieldTeacher].SetValue(d.Teacher)
	f.inputs[fieldRoom].SetValue(d.Room)
	f.inputs[fieldWeek].SetValue(string(d.Week))
	return f.setFocus(fieldSubject)
}

func (f *lessonForm) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
		f.inputs[i].Blur()
	}
	f.focus = 0
	f.editing = false
	f.id = grid.Identity{}
	f.err = ""
}

func (f *lessonForm) fields() int {
	if f.editing {
		return fieldGroups
	}
	return fieldCount
}

func (f *lessonForm) setFocus(i int) tea.Cmd {
	f.inputs[f.focus].Blur()
	f.focus = i
	return f.inputs[i].Focus()
}

func (f *lessonForm) next() tea.Cmd {
	return f.setFocus((f.focus + 1) % f.fields())
}

func (f *lessonForm) prev() tea.Cmd {
	return f.setFocus((f.focus + f.fields() - 1) % f.fields())
}

// complete autocompletes the group being typed in the groups field.
func (f *lessonForm) complete(candidates []input.Candidate) bool {
	if f.focus != fieldGroups {
		return false
	}
	value, ok := input.Autocomplete(f.inputs[fieldGroups].Value(), candidates)
	if ok {
		f.inputs[fieldGroups].SetValue(value)
		f.inputs[fieldGroups].CursorEnd()
	}
	return ok
}

func (f *lessonForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// draft builds the lesson draft. The slot of the form is the primary group;
// extra groups produce a merged lesson.
func (f *lessonForm) draft(candidates []input.Candidate) (grid.LessonDraft, error) {
	week, err := grid.ParseWeekType(strings.ToLower(strings.TrimSpace(f.inputs[fieldWeek].Value())))
	if err != nil {
		return grid.LessonDraft{}, err
	}

	groups := []int64{f.path.GroupID}
	if !f.editing {
		extra, err := input.ParseList(f.inputs[fieldGroups].Value(), candidates)
		if err != nil {
			return grid.LessonDraft{}, err
		}
		groups = append(groups, extra...)
	}

	return grid.LessonDraft{
		GroupIDs:   groups,
		Day:        f.path.DayID,
		HourID:     f.path.HourID,
		Subject:    f.inputs[fieldSubject].Value(),
		LessonType: f.inputs[fieldType].Value(),
		Teacher:    f.inputs[fieldTeacher].Value(),
		Room:       f.inputs[fieldRoom].Value(),
		Week:       week,
	}, nil
}

func (f *lessonForm) view(title string) string {
	lines := []string{f.styles.TitleStyle.Render(title), ""}
	for i := 0; i < f.fields(); i++ {
		label := f.styles.FormLabelStyle.Render(fieldLabels[i])
		if i == f.focus {
			label = f.styles.FormFocusStyle.Render(fieldLabels[i])
		}
		lines = append(lines, label+" "+f.inputs[i].View())
	}
	if f.err != "" {
		lines = append(lines, "", f.styles.ErrorStyle.Render(f.err))
	}
	lines = append(lines, "", f.styles.FooterStyle.Render("tab next · shift+tab prev · enter save · esc cancel"))
	return f.styles.FormBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
