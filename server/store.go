package server

import (
	"context"
	"errors"

	"github.com/existflow/taskbreeze/internal/model"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

// Store is the persistence the handlers need. Every board and task query
// takes the owning user id and treats rows of other users as missing.
type Store interface {
	CreateUser(ctx context.Context, u model.User) error
	UserByID(ctx context.Context, id string) (model.User, error)
	UserByUsername(ctx context.Context, username string) (model.User, error)
	UserByEmail(ctx context.Context, email string) (model.User, error)

	CreateSession(ctx context.Context, s model.Session) error
	Session(ctx context.Context, token string) (model.Session, error)
	DeleteSession(ctx context.Context, token string) error

	CreateMagicLink(ctx context.Context, m model.MagicLink) error
	MagicLink(ctx context.Context, token string) (model.MagicLink, error)
	MarkMagicLinkUsed(ctx context.Context, token string) error

	ListBoards(ctx context.Context, userID string) ([]model.Board, error)
	Board(ctx context.Context, userID, id string) (model.Board, error)
	CreateBoard(ctx context.Context, b model.Board) error
	UpdateBoard(ctx context.Context, b model.Board) error
	DeleteBoard(ctx context.Context, userID, id string) error
	ClearDefaultBoard(ctx context.Context, userID string) error

	ListTasks(ctx context.Context, userID, boardID string, archived bool) ([]model.Task, error)
	Task(ctx context.Context, userID, id string) (model.Task, error)
	CreateTask(ctx context.Context, t model.Task) error
	UpdateTask(ctx context.Context, userID string, t model.Task) error
	DeleteTask(ctx context.Context, userID, id string) error
	// NextOrder returns the order hint that places a task after every active
	// task in a column of a board
	NextOrder(ctx context.Context, boardID string, column model.ColumnID) (int, error)
}
