package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/existflow/taskbreeze/internal/app"
	"github.com/existflow/taskbreeze/internal/dnd"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
	"github.com/existflow/taskbreeze/internal/quote"
)

// Mode represents the current UI mode
type Mode int

const (
	ModeBoard Mode = iota
	ModeAdd
	ModeEdit
	ModeConfirmDelete
	ModeSearch
	ModeArchive
	ModeHelp
)

// dragThreshold is the activation distance in terminal cells
const dragThreshold = 2

// Options tune the board screen
type Options struct {
	ExportDir     string
	ConfirmDelete bool
}

// Model is the main TUI model
type Model struct {
	board  *app.Board
	quotes *quote.Session
	opts   Options
	ctx    context.Context
	now    func() time.Time

	columns []model.ColumnID

	// UI state
	geo      *layout
	mode     Mode
	prevMode Mode
	col      int
	cursor   map[model.ColumnID]int
	offset   map[model.ColumnID]int

	archiveCursor int

	// Search (live filter)
	query  string
	search textinput.Model

	form form
	drag *dnd.Controller

	pendingDelete string
	quote         model.Quote
	message       string
	isError       bool
}

// NewModel creates the board screen for a loaded board
func NewModel(b *app.Board, quotes *quote.Session, opts Options) Model {
	logger.Info("Initializing TUI model", logger.F("mode", b.Mode().String()))

	si := textinput.New()
	si.Placeholder = "Search title or description..."
	si.Prompt = "/ "
	si.CharLimit = 128

	columns := b.State().ColumnOrder
	if len(columns) == 0 {
		columns = model.DefaultColumnOrder
	}

	m := Model{
		board:   b,
		quotes:  quotes,
		opts:    opts,
		ctx:     context.Background(),
		now:     time.Now,
		columns: columns,
		cursor:  make(map[model.ColumnID]int),
		offset:  make(map[model.ColumnID]int),
		search:  si,
	}
	geo := &layout{width: 80, height: 24, columns: columns, offset: m.offset}
	m.geo = geo
	m.drag = dnd.New(func(p dnd.Point) (model.ColumnID, bool) {
		return geo.columnAt(int(p.X), int(p.Y))
	}, dragThreshold)
	return m
}

// Init fetches the session quote
func (m Model) Init() tea.Cmd {
	return m.fetchQuote(false)
}

type quoteMsg struct{ quote model.Quote }

// resultMsg reports the outcome of a mutation run off the update loop
type resultMsg struct {
	message string
	taskID  string // selected once the result lands
	err     error
}

func (m Model) fetchQuote(refresh bool) tea.Cmd {
	if m.quotes == nil {
		return nil
	}
	ctx, quotes := m.ctx, m.quotes
	return func() tea.Msg {
		if refresh {
			return quoteMsg{quotes.Refresh(ctx)}
		}
		return quoteMsg{quotes.Get(ctx)}
	}
}

// run wraps a board mutation as a command
func (m Model) run(success string, fn func(ctx context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		if err := fn(ctx); err != nil {
			return resultMsg{err: err}
		}
		return resultMsg{message: success}
	}
}

// focused returns the column under the keyboard focus
func (m Model) focused() model.ColumnID {
	return m.columns[clamp(m.col, 0, len(m.columns)-1)]
}

// selected returns the task under the cursor in the focused column
func (m Model) selected() (model.Task, bool) {
	col := m.focused()
	tasks := m.board.ColumnTasks(col, m.query)
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	return tasks[clamp(m.cursor[col], 0, len(tasks)-1)], true
}

func (m Model) selectedArchived() (model.Task, bool) {
	tasks := m.board.Archived(m.query)
	if len(tasks) == 0 {
		return model.Task{}, false
	}
	return tasks[clamp(m.archiveCursor, 0, len(tasks)-1)], true
}

// fixCursors keeps every cursor inside its column and visible
func (m *Model) fixCursors() {
	visible := m.layout().visibleCards()
	for _, col := range m.columns {
		n := len(m.board.ColumnTasks(col, m.query))
		c := clamp(m.cursor[col], 0, n-1)
		m.cursor[col] = c
		off := m.offset[col]
		if c < off {
			off = c
		}
		if c >= off+visible {
			off = c - visible + 1
		}
		m.offset[col] = clamp(off, 0, max(n-visible, 0))
	}
	m.archiveCursor = clamp(m.archiveCursor, 0, len(m.board.Archived(m.query))-1)
}

// selectTask puts the focus and cursor on a task if it is visible
func (m *Model) selectTask(id string) {
	t, ok := m.board.Task(id)
	if !ok || t.Archived {
		return
	}
	for i, col := range m.columns {
		if col != t.ColumnID {
			continue
		}
		for j, ct := range m.board.ColumnTasks(col, m.query) {
			if ct.ID == id {
				m.col = i
				m.cursor[col] = j
			}
		}
	}
	m.fixCursors()
}

func (m *Model) setMessage(msg string) {
	m.message = msg
	m.isError = false
}

func (m *Model) setError(err error) {
	logger.Warn("Board action failed", logger.Err(err))
	m.message = err.Error()
	m.isError = true
}
