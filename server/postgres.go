package server

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/existflow/taskbreeze/internal/model"
)

// PGStore implements Store on PostgreSQL
type PGStore struct {
	db *sql.DB
}

func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{db: db}
}

// mapErr turns driver errors into the package sentinels
func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case "23505":
			return ErrConflict
		case "22P02": // invalid_text_representation, a malformed uuid
			return ErrNotFound
		}
	}
	return err
}

func affected(res sql.Result, err error) error {
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func timePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time.UTC()
	return &t
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func (s *PGStore) CreateUser(ctx context.Context, u model.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, email, password_hash, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt,
	)
	return mapErr(err)
}

func (s *PGStore) userBy(ctx context.Context, column, value string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, created_at
		FROM users WHERE `+column+` = $1`,
		value,
	).Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.CreatedAt)
	return u, mapErr(err)
}

func (s *PGStore) UserByID(ctx context.Context, id string) (model.User, error) {
	return s.userBy(ctx, "id", id)
}

func (s *PGStore) UserByUsername(ctx context.Context, username string) (model.User, error) {
	return s.userBy(ctx, "username", username)
}

func (s *PGStore) UserByEmail(ctx context.Context, email string) (model.User, error) {
	return s.userBy(ctx, "email", email)
}

func (s *PGStore) CreateSession(ctx context.Context, sess model.Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, token, expires_at, created_at)
		VALUES ($1, $2, $3, $4)`,
		sess.UserID, sess.Token, sess.ExpiresAt, sess.CreatedAt,
	)
	return mapErr(err)
}

func (s *PGStore) Session(ctx context.Context, token string) (model.Session, error) {
	var sess model.Session
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, token, expires_at, created_at FROM sessions WHERE token = $1`,
		token,
	).Scan(&sess.UserID, &sess.Token, &sess.ExpiresAt, &sess.CreatedAt)
	return sess, mapErr(err)
}

func (s *PGStore) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return mapErr(err)
}

func (s *PGStore) CreateMagicLink(ctx context.Context, m model.MagicLink) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO magic_links (email, token, expires_at)
		VALUES ($1, $2, $3)`,
		m.Email, m.Token, m.ExpiresAt,
	)
	return mapErr(err)
}

func (s *PGStore) MagicLink(ctx context.Context, token string) (model.MagicLink, error) {
	var m model.MagicLink
	err := s.db.QueryRowContext(ctx, `
		SELECT email, token, used, expires_at FROM magic_links WHERE token = $1`,
		token,
	).Scan(&m.Email, &m.Token, &m.Used, &m.ExpiresAt)
	return m, mapErr(err)
}

func (s *PGStore) MarkMagicLinkUsed(ctx context.Context, token string) error {
	return affected(s.db.ExecContext(ctx, `UPDATE magic_links SET used = TRUE WHERE token = $1`, token))
}

const boardColumns = `id, user_id, title, description, color, is_default, created_at, updated_at`

func scanBoard(row interface{ Scan(...interface{}) error }) (model.Board, error) {
	var b model.Board
	var desc sql.NullString
	err := row.Scan(&b.ID, &b.UserID, &b.Title, &desc, &b.Color, &b.IsDefault, &b.CreatedAt, &b.UpdatedAt)
	if desc.Valid {
		b.Description = &desc.String
	}
	return b, err
}

func (s *PGStore) ListBoards(ctx context.Context, userID string) ([]model.Board, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+boardColumns+` FROM boards
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	boards := []model.Board{}
	for rows.Next() {
		b, err := scanBoard(rows)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}
	return boards, rows.Err()
}

func (s *PGStore) Board(ctx context.Context, userID, id string) (model.Board, error) {
	b, err := scanBoard(s.db.QueryRowContext(ctx, `
		SELECT `+boardColumns+` FROM boards WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	return b, mapErr(err)
}

func (s *PGStore) CreateBoard(ctx context.Context, b model.Board) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO boards (id, user_id, title, description, color, is_default, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		b.ID, b.UserID, b.Title, b.Description, b.Color, b.IsDefault, b.CreatedAt, b.UpdatedAt,
	)
	return mapErr(err)
}

func (s *PGStore) UpdateBoard(ctx context.Context, b model.Board) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE boards SET title = $3, description = $4, color = $5, is_default = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2`,
		b.ID, b.UserID, b.Title, b.Description, b.Color, b.IsDefault, b.UpdatedAt,
	))
}

func (s *PGStore) DeleteBoard(ctx context.Context, userID, id string) error {
	return affected(s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1 AND user_id = $2`, id, userID))
}

func (s *PGStore) ClearDefaultBoard(ctx context.Context, userID string) error {
	_, err := s.db.ExecContext(ctx, `UPDATE boards SET is_default = FALSE WHERE user_id = $1 AND is_default`, userID)
	return err
}

const taskColumns = `t.id, t.board_id, t.title, t.description, t.due_date, t.priority, t.column_id,
	t.sort_order, t.archived, t.archived_at, t.created_at, t.updated_at`

func scanTask(row interface{ Scan(...interface{}) error }) (model.Task, error) {
	var t model.Task
	var due, archivedAt sql.NullTime
	err := row.Scan(&t.ID, &t.BoardID, &t.Title, &t.Description, &due, &t.Priority, &t.ColumnID,
		&t.Order, &t.Archived, &archivedAt, &t.CreatedAt, &t.UpdatedAt)
	t.DueDate = timePtr(due)
	t.ArchivedAt = timePtr(archivedAt)
	return t, err
}

func (s *PGStore) ListTasks(ctx context.Context, userID, boardID string, archived bool) ([]model.Task, error) {
	order := `t.column_id, t.sort_order, t.created_at`
	if archived {
		order = `t.archived_at DESC`
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t JOIN boards b ON b.id = t.board_id
		WHERE t.board_id = $1 AND b.user_id = $2 AND t.archived = $3
		ORDER BY `+order,
		boardID, userID, archived,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (s *PGStore) Task(ctx context.Context, userID, id string) (model.Task, error) {
	t, err := scanTask(s.db.QueryRowContext(ctx, `
		SELECT `+taskColumns+`
		FROM tasks t JOIN boards b ON b.id = t.board_id
		WHERE t.id = $1 AND b.user_id = $2`,
		id, userID,
	))
	return t, mapErr(err)
}

func (s *PGStore) CreateTask(ctx context.Context, t model.Task) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (id, board_id, title, description, due_date, priority, column_id,
			sort_order, archived, archived_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.BoardID, t.Title, t.Description, nullTime(t.DueDate), t.Priority, t.ColumnID,
		t.Order, t.Archived, nullTime(t.ArchivedAt), t.CreatedAt, t.UpdatedAt,
	)
	return mapErr(err)
}

// UpdateTask overwrites every mutable column; the last write wins
func (s *PGStore) UpdateTask(ctx context.Context, userID string, t model.Task) error {
	return affected(s.db.ExecContext(ctx, `
		UPDATE tasks SET title = $3, description = $4, due_date = $5, priority = $6, column_id = $7,
			sort_order = $8, archived = $9, archived_at = $10, updated_at = $11
		WHERE id = $1 AND board_id IN (SELECT id FROM boards WHERE user_id = $2)`,
		t.ID, userID, t.Title, t.Description, nullTime(t.DueDate), t.Priority, t.ColumnID,
		t.Order, t.Archived, nullTime(t.ArchivedAt), t.UpdatedAt,
	))
}

func (s *PGStore) DeleteTask(ctx context.Context, userID, id string) error {
	return affected(s.db.ExecContext(ctx, `
		DELETE FROM tasks
		WHERE id = $1 AND board_id IN (SELECT id FROM boards WHERE user_id = $2)`,
		id, userID,
	))
}

func (s *PGStore) NextOrder(ctx context.Context, boardID string, column model.ColumnID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(MAX(sort_order) + 1, 0) FROM tasks
		WHERE board_id = $1 AND column_id = $2 AND NOT archived`,
		boardID, column,
	).Scan(&n)
	return n, err
}
