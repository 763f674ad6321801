// Package app owns the live board and the one persistence adapter it writes
// through. The terminal board and the CLI commands only talk to a Board.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/existflow/taskbreeze/internal/board"
	"github.com/existflow/taskbreeze/internal/logger"
	"github.com/existflow/taskbreeze/internal/model"
	"github.com/existflow/taskbreeze/internal/storage"
)

var (
	ErrEmptyTitle = errors.New("title is required")
	// ErrLocalOnly is returned by whole-board replacement in remote mode
	ErrLocalOnly = errors.New("only available for the local board")

	// errNoop aborts a transition that would leave the state unchanged
	errNoop = errors.New("no change")
)

// Mode is the persistence mode chosen at construction
type Mode int

const (
	ModeLocal Mode = iota
	ModeRemote
)

func (m Mode) String() string {
	if m == ModeRemote {
		return "remote"
	}
	return "local"
}

// LocalStore persists the whole state as one snapshot
type LocalStore interface {
	Load(ctx context.Context) (model.BoardState, bool, error)
	Save(ctx context.Context, s model.BoardState) error
}

// RemoteStore persists individual task rows of one board
type RemoteStore interface {
	ListTasks(ctx context.Context, boardID string, archived bool) ([]model.Task, error)
	CreateTask(ctx context.Context, boardID string, in model.TaskInput) (model.Task, error)
	UpdateTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error)
	MoveTask(ctx context.Context, id string, column model.ColumnID) (model.Task, error)
	ArchiveTask(ctx context.Context, id string) (model.Task, error)
	UnarchiveTask(ctx context.Context, id string) (model.Task, error)
	DeleteTask(ctx context.Context, id string) error
}

// Board is the application state: the live BoardState and its adapter
type Board struct {
	mode    Mode
	local   LocalStore
	remote  RemoteStore
	boardID string

	newID func() string
	now   func() time.Time

	writeMu sync.Mutex // Serializes mutations through their save
	mu      sync.Mutex
	state   model.BoardState
	saveErr error
}

// Option configures a Board
type Option func(*Board)

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) Option {
	return func(b *Board) { b.now = now }
}

// WithIDs overrides the task id generator used in local mode
func WithIDs(newID func() string) Option {
	return func(b *Board) { b.newID = newID }
}

func newBoard(opts []Option) *Board {
	b := &Board{
		state: board.NewState(),
		newID: uuid.NewString,
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// NewLocal creates a board persisted as a local snapshot
func NewLocal(store LocalStore, opts ...Option) *Board {
	b := newBoard(opts)
	b.mode = ModeLocal
	b.local = store
	return b
}

// NewRemote creates a board bound to one remote board
func NewRemote(store RemoteStore, boardID string, opts ...Option) *Board {
	b := newBoard(opts)
	b.mode = ModeRemote
	b.remote = store
	b.boardID = boardID
	return b
}

func (b *Board) Mode() Mode { return b.mode }

// BoardID is the remote board this state belongs to; empty in local mode
func (b *Board) BoardID() string { return b.boardID }

// Load replaces the live state from the adapter. A local snapshot that is
// missing, from another schema version, malformed or invalid leaves the
// default empty board in place; only the latter two are logged.
func (b *Board) Load(ctx context.Context) error {
	if b.mode == ModeRemote {
		active, err := b.remote.ListTasks(ctx, b.boardID, false)
		if err != nil {
			return fmt.Errorf("failed to load tasks: %w", err)
		}
		archived, err := b.remote.ListTasks(ctx, b.boardID, true)
		if err != nil {
			return fmt.Errorf("failed to load archived tasks: %w", err)
		}
		b.setState(board.FromTasks(append(active, archived...)))
		return nil
	}

	s, ok, err := b.local.Load(ctx)
	if err != nil {
		logger.Warn("Saved board is unreadable, starting empty", logger.Err(err))
	}
	if err != nil || !ok {
		s = board.NewState()
	}
	b.setState(s)
	return nil
}

func (b *Board) setState(s model.BoardState) {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	b.mu.Lock()
	b.state = s
	b.mu.Unlock()
}

// State returns a copy of the live state
func (b *Board) State() model.BoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return board.Clone(b.state)
}

// SaveErr returns the error of the most recent local save, if it failed
func (b *Board) SaveErr() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saveErr
}

// apply runs a pure transition against the live state, installs the result
// and, in local mode, writes it. writeMu spans all three so concurrent
// mutations neither drop each other nor reach the store out of order.
func (b *Board) apply(ctx context.Context, fn func(model.BoardState) (model.BoardState, error)) error {
	b.writeMu.Lock()
	defer b.writeMu.Unlock()

	b.mu.Lock()
	next, err := fn(b.state)
	if err == nil {
		b.state = next
	}
	b.mu.Unlock()
	if err != nil {
		return err
	}
	b.save(ctx, next)
	return nil
}

// save writes a snapshot in local mode. A failed save is logged and kept for
// SaveErr; memory stays authoritative. Callers hold writeMu.
func (b *Board) save(ctx context.Context, next model.BoardState) {
	if b.mode != ModeLocal {
		return
	}
	err := b.local.Save(ctx, next)
	if err != nil {
		logger.Error("Failed to save board", logger.Err(err))
	}
	b.mu.Lock()
	b.saveErr = err
	b.mu.Unlock()
}

func normalize(in model.TaskInput) (model.TaskInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, ErrEmptyTitle
	}
	in.Description = strings.TrimSpace(in.Description)
	if in.Priority == "" {
		in.Priority = model.PriorityMedium
	}
	if !in.Priority.Valid() {
		return in, fmt.Errorf("%w: %q", board.ErrInvalidPriority, in.Priority)
	}
	if !in.ColumnID.Valid() {
		return in, fmt.Errorf("%w: %q", board.ErrInvalidColumn, in.ColumnID)
	}
	return in, nil
}

// Task returns a task by id
func (b *Board) Task(id string) (model.Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.state.Tasks[id]
	return t, ok
}

// AddTask creates a task at the end of its column
func (b *Board) AddTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	in, err := normalize(in)
	if err != nil {
		return model.Task{}, err
	}

	if b.mode == ModeRemote {
		created, err := b.remote.CreateTask(ctx, b.boardID, in)
		if err != nil {
			return model.Task{}, err
		}
		if err := b.apply(ctx, func(s model.BoardState) (model.BoardState, error) {
			return board.Insert(s, created)
		}); err != nil {
			return model.Task{}, err
		}
		return created, nil
	}

	id := b.newID()
	if err := b.apply(ctx, func(s model.BoardState) (model.BoardState, error) {
		return board.Add(s, id, in, b.now())
	}); err != nil {
		return model.Task{}, err
	}
	t, _ := b.Task(id)
	return t, nil
}

// EditTask replaces the editable fields of a task
func (b *Board) EditTask(ctx context.Context, id string, in model.TaskInput) (model.Task, error) {
	in, err := normalize(in)
	if err != nil {
		return model.Task{}, err
	}
	if _, ok := b.Task(id); !ok {
		return model.Task{}, fmt.Errorf("%w: %s", board.ErrTaskNotFound, id)
	}

	if b.mode == ModeRemote {
		if _, err := b.remote.UpdateTask(ctx, id, in); err != nil {
			return model.Task{}, err
		}
	}
	if err := b.apply(ctx, func(s model.BoardState) (model.BoardState, error) {
		return board.Edit(s, model.Task{ID: id}.Apply(in), b.now())
	}); err != nil {
		return model.Task{}, err
	}
	t, _ := b.Task(id)
	return t, nil
}

// remoteThen runs the remote call first in remote mode, then the transition
func (b *Board) remoteThen(ctx context.Context, call func() error, fn func(model.BoardState) (model.BoardState, error)) error {
	if b.mode == ModeRemote {
		if err := call(); err != nil {
			return err
		}
	}
	return b.apply(ctx, fn)
}

// ArchiveTask hides a task from its column and keeps it in the archive
func (b *Board) ArchiveTask(ctx context.Context, id string) error {
	if err := b.precheck(id); err != nil {
		return err
	}
	return b.remoteThen(ctx,
		func() error { _, err := b.remote.ArchiveTask(ctx, id); return err },
		func(s model.BoardState) (model.BoardState, error) { return board.Archive(s, id, b.now()) })
}

// UnarchiveTask returns an archived task to the end of its column
func (b *Board) UnarchiveTask(ctx context.Context, id string) error {
	if err := b.precheck(id); err != nil {
		return err
	}
	return b.remoteThen(ctx,
		func() error { _, err := b.remote.UnarchiveTask(ctx, id); return err },
		func(s model.BoardState) (model.BoardState, error) { return board.Unarchive(s, id, b.now()) })
}

// DeleteTask removes a task permanently
func (b *Board) DeleteTask(ctx context.Context, id string) error {
	if err := b.precheck(id); err != nil {
		return err
	}
	return b.remoteThen(ctx,
		func() error { return b.remote.DeleteTask(ctx, id) },
		func(s model.BoardState) (model.BoardState, error) { return board.Delete(s, id) })
}

// precheck rejects unknown and orphaned tasks before anything reaches the server
func (b *Board) precheck(id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	t, ok := b.state.Tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", board.ErrTaskNotFound, id)
	}
	if _, ok := b.state.Columns[t.ColumnID]; !ok {
		return fmt.Errorf("%w: %s", board.ErrOrphanedTask, id)
	}
	return nil
}

// PendingMove is a column move applied to the live state and not yet
// confirmed by the remote store
type PendingMove struct {
	TaskID string
	From   model.ColumnID
	Index  int
	To     model.ColumnID
}

// Noop reports whether the move left the task where it was
func (p PendingMove) Noop() bool { return p.From == p.To }

// ApplyMove moves a task to the end of another column in memory (and, in
// local mode, saves). Callers pass the result to CommitMove.
func (b *Board) ApplyMove(ctx context.Context, id string, to model.ColumnID) (PendingMove, error) {
	var p PendingMove
	err := b.apply(ctx, func(s model.BoardState) (model.BoardState, error) {
		t, ok := s.Tasks[id]
		var index int
		if ok {
			index = indexOf(s.Columns[t.ColumnID].TaskIDs, id)
		}
		next, err := board.Move(s, id, to, b.now())
		if err != nil {
			return s, err
		}
		p = PendingMove{TaskID: id, From: t.ColumnID, Index: index, To: to}
		if p.Noop() {
			return s, errNoop
		}
		return next, nil
	})
	if errors.Is(err, errNoop) {
		return p, nil
	}
	if err != nil {
		return PendingMove{}, err
	}
	return p, nil
}

// CommitMove confirms a pending move with the remote store. When the server
// rejects it the task is put back where it was taken from.
func (b *Board) CommitMove(ctx context.Context, p PendingMove) error {
	if b.mode != ModeRemote || p.Noop() {
		return nil
	}
	_, err := b.remote.MoveTask(ctx, p.TaskID, p.To)
	if err == nil {
		return nil
	}

	logger.Warn("Move rejected by server, reverting",
		logger.F("task", p.TaskID), logger.F("to", string(p.To)), logger.Err(err))
	if rerr := b.apply(ctx, func(s model.BoardState) (model.BoardState, error) {
		return board.Reinsert(s, p.TaskID, p.From, p.Index, b.now())
	}); rerr != nil {
		logger.Error("Failed to revert move", logger.F("task", p.TaskID), logger.Err(rerr))
	}
	return fmt.Errorf("failed to move task: %w", err)
}

// MoveTask applies and commits a move in one step
func (b *Board) MoveTask(ctx context.Context, id string, to model.ColumnID) error {
	p, err := b.ApplyMove(ctx, id, to)
	if err != nil {
		return err
	}
	return b.CommitMove(ctx, p)
}

// ColumnTasks returns the active tasks of a column matching query, in display order
func (b *Board) ColumnTasks(column model.ColumnID, query string) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return board.ColumnTasks(b.state, column, query)
}

// Archived returns archived tasks matching query, most recently archived first
func (b *Board) Archived(query string) []model.Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	return board.Archived(b.state, query)
}

func (b *Board) Counts() board.Counts {
	b.mu.Lock()
	defer b.mu.Unlock()
	return board.Count(b.state)
}

// Resolve finds a task by id or by a unique id prefix
func (b *Board) Resolve(prefix string) (model.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if t, ok := b.state.Tasks[prefix]; ok {
		return t, nil
	}
	var found []model.Task
	for id, t := range b.state.Tasks {
		if prefix != "" && strings.HasPrefix(id, prefix) {
			found = append(found, t)
		}
	}
	switch len(found) {
	case 0:
		return model.Task{}, fmt.Errorf("%w: %s", board.ErrTaskNotFound, prefix)
	case 1:
		return found[0], nil
	}
	return model.Task{}, fmt.Errorf("task id %q is ambiguous (%d matches)", prefix, len(found))
}

// Export writes the live state to a date-stamped file in dir
func (b *Board) Export(dir string) (string, error) {
	return storage.ExportFile(dir, b.State(), b.now())
}

// Import replaces the local board with an exported state
func (b *Board) Import(ctx context.Context, r io.Reader) error {
	if b.mode == ModeRemote {
		return ErrLocalOnly
	}
	s, err := storage.Import(r)
	if err != nil {
		return err
	}
	if err := b.apply(ctx, func(model.BoardState) (model.BoardState, error) { return s, nil }); err != nil {
		return err
	}
	return b.SaveErr()
}

// Clear replaces the board with an empty one
func (b *Board) Clear(ctx context.Context) error {
	if b.mode == ModeRemote {
		return ErrLocalOnly
	}
	if err := b.apply(ctx, func(model.BoardState) (model.BoardState, error) { return board.NewState(), nil }); err != nil {
		return err
	}
	return b.SaveErr()
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
