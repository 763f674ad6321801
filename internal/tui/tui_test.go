package tui

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskbreeze/internal/app"
	"github.com/existflow/taskbreeze/internal/model"
)

var clock = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

type memStore struct {
	state   *model.BoardState
	saveErr error
}

func (s *memStore) Load(context.Context) (model.BoardState, bool, error) {
	if s.state == nil {
		return model.BoardState{}, false, nil
	}
	return *s.state, true, nil
}

func (s *memStore) Save(_ context.Context, st model.BoardState) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.state = &st
	return nil
}

func newTestModel(t *testing.T, store *memStore, titles ...string) Model {
	t.Helper()
	ctx := context.Background()
	b := app.NewLocal(store, app.WithClock(func() time.Time { return clock }))
	require.NoError(t, b.Load(ctx))
	for _, title := range titles {
		_, err := b.AddTask(ctx, model.TaskInput{Title: title, ColumnID: model.ColumnTodo})
		require.NoError(t, err)
	}

	m := NewModel(b, nil, Options{ExportDir: t.TempDir(), ConfirmDelete: true})
	m.now = func() time.Time { return clock }
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 30})
	return next.(Model)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, s string) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(keyMsg(s))
	return next.(Model), cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = press(t, m, string(r))
	}
	return m
}

// finish runs a mutation command and feeds its result back
func finish(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	require.NotNil(t, cmd)
	msg := cmd()
	_, ok := msg.(resultMsg)
	require.True(t, ok, "expected a result message, got %T", msg)
	next, _ := m.Update(msg)
	return next.(Model)
}

func mouse(t *testing.T, m Model, action tea.MouseAction, x, y int) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft})
	return next.(Model), cmd
}

func TestLayoutHitTesting(t *testing.T) {
	m := newTestModel(t, &memStore{}, "one", "two")
	l := m.layout()

	assert.Equal(t, 20, l.columnWidth())
	assert.Equal(t, 5, l.visibleCards())

	col, ok := l.columnAt(0, 3)
	require.True(t, ok)
	assert.Equal(t, model.ColumnTodo, col)
	col, ok = l.columnAt(25, 10)
	require.True(t, ok)
	assert.Equal(t, model.ColumnInProgress, col)
	col, ok = l.columnAt(79, 10)
	require.True(t, ok)
	assert.Equal(t, model.ColumnDone, col)

	_, ok = l.columnAt(10, 1)
	assert.False(t, ok, "header")
	_, ok = l.columnAt(10, 28)
	assert.False(t, ok, "status bar")
	_, ok = l.columnAt(95, 10)
	assert.False(t, ok, "right of the last column")

	col, idx, ok := l.cardAt(5, 5)
	require.True(t, ok)
	assert.Equal(t, model.ColumnTodo, col)
	assert.Equal(t, 0, idx)
	_, idx, ok = l.cardAt(5, 9)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	_, _, ok = l.cardAt(5, 4)
	assert.False(t, ok, "column header")
	_, _, ok = l.cardAt(5, 25)
	assert.False(t, ok, "below the last visible card")
}

func TestEmptyBoard(t *testing.T) {
	m := newTestModel(t, &memStore{})
	assert.Contains(t, m.View(), "Your board is empty")
}

func TestBoardShowsColumnsAndQuote(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Buy milk")
	next, _ := m.Update(quoteMsg{model.Quote{Text: "Keep going", Author: "Someone"}})
	m = next.(Model)

	view := m.View()
	for _, col := range model.DefaultColumnOrder {
		assert.Contains(t, view, col.Title())
	}
	assert.Contains(t, view, "Buy milk")
	assert.Contains(t, view, "Keep going")
	assert.Contains(t, view, "1 active")
}

func TestAddTaskThroughForm(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m, _ = press(t, m, "a")
	require.Equal(t, ModeAdd, m.mode)
	m = typeText(t, m, "Groceries")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "milk")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "2026-10-20")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "right")
	m, cmd := press(t, m, "enter")
	assert.Equal(t, ModeBoard, m.mode)
	m = finish(t, m, cmd)

	tasks := m.board.ColumnTasks(model.ColumnTodo, "")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Groceries", tasks[0].Title)
	assert.Equal(t, "milk", tasks[0].Description)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, "2026-10-20", model.FormatDueDate(tasks[0].DueDate))
	assert.Equal(t, "Added Groceries", m.message)
}

func TestFormValidation(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m, _ = press(t, m, "a")
	m, cmd := press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Equal(t, ModeAdd, m.mode)
	assert.NotEmpty(t, m.form.err)

	m = typeText(t, m, "x")
	m, _ = press(t, m, "tab")
	m, _ = press(t, m, "tab")
	m = typeText(t, m, "tomorrow")
	m, cmd = press(t, m, "enter")
	assert.Nil(t, cmd)
	assert.Contains(t, m.form.err, "invalid due date")

	m, _ = press(t, m, "esc")
	assert.Equal(t, ModeBoard, m.mode)
	assert.Zero(t, m.board.Counts().Active)
}

func TestEditTask(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Draft")

	m, _ = press(t, m, "e")
	require.Equal(t, ModeEdit, m.mode)
	assert.Equal(t, "Draft", m.form.title.Value())
	m = typeText(t, m, "2")
	m, cmd := press(t, m, "enter")
	m = finish(t, m, cmd)

	tasks := m.board.ColumnTasks(model.ColumnTodo, "")
	require.Len(t, tasks, 1)
	assert.Equal(t, "Draft2", tasks[0].Title)
}

func TestKeyboardMove(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Ship it")

	m, cmd := press(t, m, ">")
	m = finish(t, m, cmd)
	assert.Len(t, m.board.ColumnTasks(model.ColumnInProgress, ""), 1)
	assert.Equal(t, 1, m.col, "focus follows the card")

	m, cmd = press(t, m, "<")
	finish(t, m, cmd)
	assert.Len(t, m.board.ColumnTasks(model.ColumnTodo, ""), 1)

	_, cmd = press(t, m, "<")
	assert.Nil(t, cmd, "no column left of the first")
}

func TestDragAndDrop(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Drag me")

	m, _ = mouse(t, m, tea.MouseActionPress, 5, 6)
	m, _ = mouse(t, m, tea.MouseActionMotion, 45, 10)
	assert.True(t, m.drag.Dragging())
	assert.Contains(t, m.View(), "Moving Drag me")

	m, cmd := mouse(t, m, tea.MouseActionRelease, 45, 10)
	m = finish(t, m, cmd)
	assert.Len(t, m.board.ColumnTasks(model.ColumnOnHold, ""), 1)
	assert.False(t, m.drag.Dragging())
}

func TestShortDragIsAClick(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Stay")

	m, _ = mouse(t, m, tea.MouseActionPress, 5, 6)
	m, _ = mouse(t, m, tea.MouseActionMotion, 6, 6)
	m, cmd := mouse(t, m, tea.MouseActionRelease, 6, 6)
	assert.Nil(t, cmd)
	assert.Len(t, m.board.ColumnTasks(model.ColumnTodo, ""), 1)
}

func TestDropOnSameColumnDoesNothing(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Stay")

	m, _ = mouse(t, m, tea.MouseActionPress, 5, 6)
	m, _ = mouse(t, m, tea.MouseActionMotion, 12, 14)
	_, cmd := mouse(t, m, tea.MouseActionRelease, 12, 14)
	assert.Nil(t, cmd)
}

func TestArchiveAndRestore(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Old news")

	m, cmd := press(t, m, "x")
	m = finish(t, m, cmd)
	assert.Equal(t, 1, m.board.Counts().Archived)
	assert.Zero(t, m.board.Counts().Active)

	m, _ = press(t, m, "A")
	require.Equal(t, ModeArchive, m.mode)
	assert.Contains(t, m.View(), "Old news")

	m, cmd = press(t, m, "u")
	m = finish(t, m, cmd)
	assert.Equal(t, 1, m.board.Counts().Active)

	m, _ = press(t, m, "esc")
	assert.Equal(t, ModeBoard, m.mode)
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Doomed")

	m, _ = press(t, m, "d")
	require.Equal(t, ModeConfirmDelete, m.mode)
	assert.Contains(t, m.View(), "Delete task?")
	m, cmd := press(t, m, "n")
	assert.Nil(t, cmd)
	assert.Equal(t, ModeBoard, m.mode)
	assert.Equal(t, "Delete cancelled", m.message)

	m, _ = press(t, m, "d")
	m, cmd = press(t, m, "y")
	m = finish(t, m, cmd)
	assert.Zero(t, m.board.Counts().Active)
}

func TestDeleteWithoutConfirmation(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Doomed")
	m.opts.ConfirmDelete = false

	m, cmd := press(t, m, "d")
	m = finish(t, m, cmd)
	assert.Zero(t, m.board.Counts().Active)
}

func TestSearchFiltersLive(t *testing.T) {
	m := newTestModel(t, &memStore{}, "Buy milk", "Write report")

	m, _ = press(t, m, "/")
	require.Equal(t, ModeSearch, m.mode)
	m = typeText(t, m, "MILK")
	assert.Equal(t, "MILK", m.query)
	view := m.View()
	assert.Contains(t, view, "Buy milk")
	assert.NotContains(t, view, "Write report")

	m, _ = press(t, m, "enter")
	assert.Equal(t, ModeBoard, m.mode)
	assert.Equal(t, "MILK", m.query)

	m, _ = press(t, m, "esc")
	assert.Empty(t, m.query)
	assert.Contains(t, m.View(), "Write report")
}

func TestCursorNavigation(t *testing.T) {
	m := newTestModel(t, &memStore{}, "first", "second")

	m, _ = press(t, m, "j")
	sel, ok := m.selected()
	require.True(t, ok)
	assert.Equal(t, "second", sel.Title)

	m, _ = press(t, m, "j")
	sel, _ = m.selected()
	assert.Equal(t, "second", sel.Title, "cursor stays on the last card")

	m, _ = press(t, m, "l")
	assert.Equal(t, model.ColumnInProgress, m.focused())
	_, ok = m.selected()
	assert.False(t, ok)
}

func TestExportKey(t *testing.T) {
	m := newTestModel(t, &memStore{}, "keep")

	m, _ = press(t, m, "E")
	assert.False(t, m.isError)
	assert.Contains(t, m.message, "taskbreeze-backup-2026-10-19.json")

	entries, err := os.ReadDir(m.opts.ExportDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveFailureShownInStatusBar(t *testing.T) {
	store := &memStore{}
	m := newTestModel(t, store)
	store.saveErr = errors.New("disk full")

	_, err := m.board.AddTask(context.Background(), model.TaskInput{Title: "unsaved", ColumnID: model.ColumnTodo})
	require.NoError(t, err)
	assert.Contains(t, m.View(), "not saved: disk full")
}

func TestHelpAndQuit(t *testing.T) {
	m := newTestModel(t, &memStore{})

	m, _ = press(t, m, "?")
	require.Equal(t, ModeHelp, m.mode)
	assert.Contains(t, m.View(), "Keyboard Shortcuts")
	m, _ = press(t, m, "x")
	assert.Equal(t, ModeBoard, m.mode)

	_, cmd := press(t, m, "q")
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "hé", truncate("héllo", 2))
	assert.Equal(t, "", truncate("hello", 0))
}
