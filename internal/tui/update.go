package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskbreeze/internal/dnd"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.fixCursors()
		return m, nil

	case quoteMsg:
		m.quote = msg.quote
		return m, nil

	case resultMsg:
		if msg.err != nil {
			m.setError(msg.err)
		} else if msg.message != "" {
			m.setMessage(msg.message)
		}
		if msg.taskID != "" {
			m.selectTask(msg.taskID)
		}
		m.fixCursors()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.mode {
		case ModeAdd, ModeEdit:
			return m.handleFormKeys(msg)
		case ModeConfirmDelete:
			return m.handleConfirmKeys(msg)
		case ModeSearch:
			return m.handleSearchKeys(msg)
		case ModeArchive:
			return m.handleArchiveKeys(msg)
		case ModeHelp:
			m.mode = ModeBoard
			return m, nil
		default:
			return m.handleBoardKeys(msg)
		}
	}

	return m, nil
}

func (m Model) handleBoardKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	col := m.focused()

	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Help):
		m.mode = ModeHelp

	case key.Matches(msg, keys.Escape):
		if m.drag.Phase() != dnd.Idle {
			m.drag.Cancel()
		} else if m.query != "" {
			m.clearSearch()
		}

	case key.Matches(msg, keys.Left):
		m.col = clamp(m.col-1, 0, len(m.columns)-1)

	case key.Matches(msg, keys.Right):
		m.col = clamp(m.col+1, 0, len(m.columns)-1)

	case key.Matches(msg, keys.Up):
		m.cursor[col]--
		m.fixCursors()

	case key.Matches(msg, keys.Down):
		m.cursor[col]++
		m.fixCursors()

	case key.Matches(msg, keys.MoveLeft):
		return m.moveSelected(-1)

	case key.Matches(msg, keys.MoveRight):
		return m.moveSelected(1)

	case key.Matches(msg, keys.Add):
		m.form = newForm(nil, col, m.columns)
		m.mode = ModeAdd
		return m, textinput.Blink

	case key.Matches(msg, keys.Edit):
		if t, ok := m.selected(); ok {
			m.form = newForm(&t, col, m.columns)
			m.mode = ModeEdit
			return m, textinput.Blink
		}

	case key.Matches(msg, keys.Archive):
		if t, ok := m.selected(); ok {
			b, id := m.board, t.ID
			return m, m.run("Archived "+t.Title, func(ctx context.Context) error {
				return b.ArchiveTask(ctx, id)
			})
		}

	case key.Matches(msg, keys.Delete):
		if t, ok := m.selected(); ok {
			return m.requestDelete(t)
		}

	case key.Matches(msg, keys.ArchiveView):
		m.mode = ModeArchive
		m.archiveCursor = 0

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Export):
		path, err := m.board.Export(m.opts.ExportDir)
		if err != nil {
			m.setError(err)
		} else {
			logger.Info("Board exported", logger.F("path", path))
			m.setMessage("Exported to " + path)
		}

	case key.Matches(msg, keys.Quote):
		return m, m.fetchQuote(true)
	}

	return m, nil
}

// moveSelected moves the selected card one column left or right
func (m Model) moveSelected(step int) (tea.Model, tea.Cmd) {
	t, ok := m.selected()
	if !ok {
		return m, nil
	}
	to := m.col + step
	if to < 0 || to >= len(m.columns) {
		return m, nil
	}
	return m.moveTask(t.ID, m.columns[to])
}

// moveTask applies a move immediately and confirms it in the background
func (m Model) moveTask(id string, to model.ColumnID) (tea.Model, tea.Cmd) {
	p, err := m.board.ApplyMove(m.ctx, id, to)
	if err != nil {
		m.setError(err)
		return m, nil
	}
	if p.Noop() {
		return m, nil
	}
	m.selectTask(id)
	m.setMessage("Moved to " + to.Title())

	b := m.board
	return m, m.run("", func(ctx context.Context) error {
		return b.CommitMove(ctx, p)
	})
}

func (m Model) requestDelete(t model.Task) (tea.Model, tea.Cmd) {
	if !m.opts.ConfirmDelete {
		return m, m.deleteTask(t)
	}
	m.pendingDelete = t.ID
	m.prevMode = m.mode
	m.mode = ModeConfirmDelete
	return m, nil
}

func (m Model) deleteTask(t model.Task) tea.Cmd {
	b, id := m.board, t.ID
	return m.run("Deleted "+t.Title, func(ctx context.Context) error {
		return b.DeleteTask(ctx, id)
	})
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = ""
	m.mode = m.prevMode

	t, ok := m.board.Task(id)
	if !ok {
		return m, nil
	}
	if key.Matches(msg, keys.Confirm) {
		return m, m.deleteTask(t)
	}
	m.setMessage("Delete cancelled")
	return m, nil
}

func (m Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeBoard
		return m, nil

	case tea.KeyEnter:
		in, err := m.form.input()
		if err != nil {
			m.form.err = err.Error()
			return m, nil
		}
		m.mode = ModeBoard
		b := m.board

		if m.form.taskID == "" {
			return m, func() tea.Msg {
				t, err := b.AddTask(m.ctx, in)
				if err != nil {
					return resultMsg{err: err}
				}
				return resultMsg{message: "Added " + t.Title, taskID: t.ID}
			}
		}

		id := m.form.taskID
		return m, func() tea.Msg {
			t, err := b.EditTask(m.ctx, id, in)
			if err != nil {
				return resultMsg{err: err}
			}
			return resultMsg{message: "Saved " + t.Title, taskID: t.ID}
		}
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.update(msg)
	return m, cmd
}

func (m Model) startSearch() (tea.Model, tea.Cmd) {
	m.prevMode = m.mode
	m.mode = ModeSearch
	m.search.SetValue(m.query)
	m.search.CursorEnd()
	return m, m.search.Focus()
}

func (m *Model) clearSearch() {
	m.query = ""
	m.search.SetValue("")
	m.fixCursors()
}

func (m Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.clearSearch()
		m.search.Blur()
		m.mode = m.prevMode
		return m, nil
	case tea.KeyEnter:
		m.search.Blur()
		m.mode = m.prevMode
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.fixCursors()
	return m, cmd
}

func (m Model) handleArchiveKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""

	switch {
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.ArchiveView):
		m.mode = ModeBoard

	case key.Matches(msg, keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		m.archiveCursor = max(m.archiveCursor-1, 0)

	case key.Matches(msg, keys.Down):
		m.archiveCursor++
		m.fixCursors()

	case key.Matches(msg, keys.Search):
		return m.startSearch()

	case key.Matches(msg, keys.Unarchive):
		if t, ok := m.selectedArchived(); ok {
			b, id := m.board, t.ID
			return m, m.run(fmt.Sprintf("Restored %s to %s", t.Title, t.ColumnID.Title()), func(ctx context.Context) error {
				return b.UnarchiveTask(ctx, id)
			})
		}

	case key.Matches(msg, keys.Delete):
		if t, ok := m.selectedArchived(); ok {
			return m.requestDelete(t)
		}
	}

	return m, nil
}

// handleMouse drives drag and drop on the board and wheel scrolling
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeBoard {
		return m, nil
	}
	l := m.layout()
	p := dnd.Point{X: float64(msg.X), Y: float64(msg.Y)}

	switch msg.Action {
	case tea.MouseActionPress:
		switch msg.Button {
		case tea.MouseButtonLeft:
			col, idx, ok := l.cardAt(msg.X, msg.Y)
			if !ok {
				if col, ok := l.columnAt(msg.X, msg.Y); ok {
					m.focusColumn(col)
				}
				return m, nil
			}
			m.focusColumn(col)
			tasks := m.board.ColumnTasks(col, m.query)
			if idx < len(tasks) {
				m.cursor[col] = idx
				m.drag.PointerDown(tasks[idx].ID, col, p)
			}
		case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
			if col, ok := l.columnAt(msg.X, msg.Y); ok {
				m.focusColumn(col)
				if msg.Button == tea.MouseButtonWheelUp {
					m.cursor[col]--
				} else {
					m.cursor[col]++
				}
				m.fixCursors()
			}
		}

	case tea.MouseActionMotion:
		m.drag.PointerMove(p)

	case tea.MouseActionRelease:
		if drop, ok := m.drag.PointerUp(p); ok {
			return m.moveTask(drop.TaskID, drop.To)
		}
	}

	return m, nil
}

func (m *Model) focusColumn(col model.ColumnID) {
	for i, c := range m.columns {
		if c == col {
			m.col = i
		}
	}
}
