package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/existflow/taskbreeze/internal/model"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldDue
	fieldPriority
	fieldColumn
	fieldCount
)

var priorities = []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh}

// form is the add/edit task dialog
type form struct {
	taskID      string // empty when adding
	title       textinput.Model
	description textinput.Model
	due         textinput.Model
	priority    model.Priority
	column      model.ColumnID
	columns     []model.ColumnID
	focus       formField
	err         string
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Width = 40
	ti.Prompt = ""
	return ti
}

// newForm builds an empty form for column, or a prefilled one for t
func newForm(t *model.Task, column model.ColumnID, columns []model.ColumnID) form {
	f := form{
		title:       newInput("What needs doing?", 200),
		description: newInput("Optional details", 1000),
		due:         newInput(model.DateLayout, len(model.DateLayout)),
		priority:    model.PriorityMedium,
		column:      column,
		columns:     columns,
	}
	if t != nil {
		f.taskID = t.ID
		f.title.SetValue(t.Title)
		f.description.SetValue(t.Description)
		f.due.SetValue(model.FormatDueDate(t.DueDate))
		f.priority = t.Priority
		f.column = t.ColumnID
	}
	f.setFocus(fieldTitle)
	return f
}

func (f *form) setFocus(field formField) {
	f.focus = (field + fieldCount) % fieldCount
	inputs := []*textinput.Model{&f.title, &f.description, &f.due}
	for i, in := range inputs {
		if formField(i) == f.focus {
			in.Focus()
		} else {
			in.Blur()
		}
	}
}

// input validates the form and returns the task fields
func (f form) input() (model.TaskInput, error) {
	title := strings.TrimSpace(f.title.Value())
	if title == "" {
		return model.TaskInput{}, fmt.Errorf("title is required")
	}
	due, err := model.ParseDueDate(f.due.Value())
	if err != nil {
		return model.TaskInput{}, err
	}
	return model.TaskInput{
		Title:       title,
		Description: strings.TrimSpace(f.description.Value()),
		DueDate:     due,
		Priority:    f.priority,
		ColumnID:    f.column,
	}, nil
}

func cycle[T comparable](values []T, current T, step int) T {
	for i, v := range values {
		if v == current {
			return values[(i+step+len(values))%len(values)]
		}
	}
	return values[0]
}

// update handles a key for the focused field. Submitting and cancelling
// are handled by the caller.
func (f form) update(msg tea.KeyMsg) (form, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Tab), msg.Type == tea.KeyDown:
		f.setFocus(f.focus + 1)
		return f, nil
	case key.Matches(msg, keys.ShiftTab), msg.Type == tea.KeyUp:
		f.setFocus(f.focus - 1)
		return f, nil
	}

	switch f.focus {
	case fieldPriority:
		switch msg.String() {
		case "left", "h":
			f.priority = cycle(priorities, f.priority, -1)
		case "right", "l", " ":
			f.priority = cycle(priorities, f.priority, 1)
		}
		return f, nil
	case fieldColumn:
		switch msg.String() {
		case "left", "h":
			f.column = cycle(f.columns, f.column, -1)
		case "right", "l", " ":
			f.column = cycle(f.columns, f.column, 1)
		}
		return f, nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldDue:
		f.due, cmd = f.due.Update(msg)
	}
	f.err = ""
	return f, cmd
}

func (f form) view() string {
	heading := "New Task"
	if f.taskID != "" {
		heading = "Edit Task"
	}

	label := func(field formField, name string) string {
		style := lipgloss.NewStyle().Width(13).Foreground(TextMuted)
		if f.focus == field {
			style = style.Foreground(Highlight).Bold(true)
		}
		return style.Render(name)
	}
	selector := func(field formField, value string) string {
		if f.focus == field {
			return "‹ " + value + " ›"
		}
		return "  " + value
	}

	var b strings.Builder
	b.WriteString(HeaderStyle.Render(heading) + "\n\n")
	b.WriteString(label(fieldTitle, "Title") + f.title.View() + "\n")
	b.WriteString(label(fieldDescription, "Description") + f.description.View() + "\n")
	b.WriteString(label(fieldDue, "Due date") + f.due.View() + "\n")
	b.WriteString(label(fieldPriority, "Priority") + selector(fieldPriority, FormatPriority(f.priority)) + "\n")
	b.WriteString(label(fieldColumn, "Column") + selector(fieldColumn, f.column.Title()) + "\n")
	if f.err != "" {
		b.WriteString("\n" + ErrorStyle.Render(f.err) + "\n")
	}
	b.WriteString("\n" + HelpStyle.Render("tab: next field • ←/→: change • enter: save • esc: cancel"))
	return b.String()
}
